package view

import (
	"strings"
	"testing"
	"time"
)

func mustParse(t *testing.T, doc string) *View {
	t.Helper()
	v, err := ParseString(doc)
	if err != nil {
		t.Fatalf("parsing document: %v", err)
	}
	return v
}

const toolbarFragment = `
<div id="toolbar" class="toolbar toolbar-hidden">
  <div id="ui-toolbar-inner">
    <div class="ui-action" id="toggle-card-backs">
      <span id="toggle-card-backs-on">On</span>
      <span id="toggle-card-backs-off" style="display: none;">Off</span>
    </div>
    <div class="ui-action" id="toggle-two-sided">
      <span id="toggle-two-sided-on" style="display: none;">On</span>
      <span id="toggle-two-sided-off">Off</span>
    </div>
    <div id="ui-stats"></div>
  </div>
</div>
<div id="ui-modal-help" style="display: none;"><div id="help-inner"></div></div>`

func TestToggleVisibilityFlipsEachElement(t *testing.T) {
	v := mustParse(t, `<body>
		<div class="cut-guide"></div>
		<div class="cut-guide" style="visibility: hidden;"></div>
	</body>`)

	state, ok := v.ToggleVisibility("cut-guide")
	if !ok {
		t.Fatal("expected a match")
	}
	if state != "hidden" {
		t.Errorf("first element visibility = %q, want hidden", state)
	}

	guides := v.byClass("cut-guide")
	if got := styleProperty(guides[0], "visibility"); got != "hidden" {
		t.Errorf("unset element toggled to %q, want hidden", got)
	}
	if got := styleProperty(guides[1], "visibility"); got != "visible" {
		t.Errorf("hidden element toggled to %q, want visible", got)
	}
}

func TestToggleVisibilityRoundTrips(t *testing.T) {
	v := mustParse(t, `<body><div class="page-footer"></div></body>`)

	first, _ := v.ToggleVisibility("page-footer")
	second, _ := v.ToggleVisibility("page-footer")
	if first != "hidden" || second != "visible" {
		t.Errorf("toggle pair = %q, %q; want hidden, visible", first, second)
	}
}

func TestToggleVisibilityNoMatch(t *testing.T) {
	v := mustParse(t, `<body></body>`)
	if _, ok := v.ToggleVisibility("cut-guide"); ok {
		t.Error("expected ok=false for unmatched category")
	}
}

func TestToggleDisplayExplicit(t *testing.T) {
	v := mustParse(t, `<body><div class="filler" style="display: block;"></div></body>`)

	if state, _ := v.ToggleDisplay("filler", false); state != "none" {
		t.Errorf("explicit off = %q, want none", state)
	}
	// Explicit off again stays off rather than flipping.
	if state, _ := v.ToggleDisplay("filler", false); state != "none" {
		t.Errorf("repeated explicit off = %q, want none", state)
	}
	if state, _ := v.ToggleDisplay("filler"); state != "block" {
		t.Errorf("flip from none = %q, want block", state)
	}
}

func TestToggleEnability(t *testing.T) {
	v := mustParse(t, toolbarFragment)

	v.ToggleEnability("toggle-two-sided", false)
	el := v.byID("toggle-two-sided")
	if got := styleProperty(el, "opacity"); got != "0.2" {
		t.Errorf("disabled opacity = %q, want 0.2", got)
	}
	if got := styleProperty(el, "pointer-events"); got != "none" {
		t.Errorf("disabled pointer-events = %q, want none", got)
	}

	v.ToggleEnability("toggle-two-sided", true)
	if got := styleProperty(el, "opacity"); got != "1.0" {
		t.Errorf("enabled opacity = %q, want 1.0", got)
	}
	if got := styleProperty(el, "pointer-events"); got != "auto" {
		t.Errorf("enabled pointer-events = %q, want auto", got)
	}
}

func TestToggleCardBacksCascade(t *testing.T) {
	v := mustParse(t, `<body>`+toolbarFragment+`
		<div class="page"><div class="card"></div></div>
		<div class="page page-backs" style="display: block;">
			<div class="card filler" style="display: block;"></div>
		</div>
	</body>`)

	// Backs off: back pages hidden, two-sided forced off and disabled.
	if display := v.ToggleCardBacks(); display != "none" {
		t.Fatalf("backs display = %q, want none", display)
	}
	filler := v.byClass("filler")[0]
	if got := styleProperty(filler, "display"); got != "none" {
		t.Errorf("filler display after backs off = %q, want none", got)
	}
	twoSided := v.byID("toggle-two-sided")
	if got := styleProperty(twoSided, "pointer-events"); got != "none" {
		t.Errorf("two-sided control after backs off: pointer-events = %q, want none", got)
	}

	// Backs on: control re-enabled but two-sided stays off.
	if display := v.ToggleCardBacks(); display != "block" {
		t.Fatalf("backs display = %q, want block", display)
	}
	if got := styleProperty(twoSided, "pointer-events"); got != "auto" {
		t.Errorf("two-sided control after backs on: pointer-events = %q, want auto", got)
	}
	if got := styleProperty(filler, "display"); got != "none" {
		t.Errorf("filler display after backs on = %q, want none (not forced on)", got)
	}
}

func TestToggleFooterRenumbers(t *testing.T) {
	v := mustParse(t, `<body>`+toolbarFragment+`
		<div class="page">
			<span class="page-number-tag"></span>
			<div class="page-footer"></div>
		</div>
	</body>`)

	if visibility := v.ToggleFooter(); visibility != "hidden" {
		t.Errorf("footer visibility = %q, want hidden", visibility)
	}
	if got := textContent(v.byClass("page-number-tag")[0]); got != "Page 1 / 1" {
		t.Errorf("number tag = %q, want %q", got, "Page 1 / 1")
	}
}

func TestToggleCutGuidesRenumbers(t *testing.T) {
	v := mustParse(t, `<body>`+toolbarFragment+`
		<div class="page">
			<span class="page-number-tag"></span>
			<div class="cut-guide"></div>
		</div>
	</body>`)

	if visibility := v.ToggleCutGuides(); visibility != "hidden" {
		t.Errorf("cut guide visibility = %q, want hidden", visibility)
	}
	if got := textContent(v.byClass("page-number-tag")[0]); got != "Page 1 / 1" {
		t.Errorf("number tag = %q, want %q", got, "Page 1 / 1")
	}
}

func TestRemoveOverlappingCutGuidesKeepsEarliest(t *testing.T) {
	// Two guides at the same corner overlap; the third is far away.
	v := mustParse(t, `<body><div class="page">
		<div class="cut-guide" id="a" style="left: 2.4375in; top: 3.4375in;"></div>
		<div class="cut-guide" id="b" style="left: 2.4375in; top: 3.4375in;"></div>
		<div class="cut-guide" id="c" style="left: 5.0000in; top: 0.0000in;"></div>
	</div></body>`)

	v.RemoveOverlappingCutGuides()

	if v.byID("a") == nil {
		t.Error("earliest guide of the overlapping pair was removed")
	}
	if v.byID("b") != nil {
		t.Error("later overlapping guide survived")
	}
	if v.byID("c") == nil {
		t.Error("non-overlapping guide was removed")
	}
}

func TestRemoveOverlappingCutGuidesTouchingEdgesOverlap(t *testing.T) {
	// Boxes sharing only an edge still count as overlapping.
	v := mustParse(t, `<body><div class="page">
		<div class="cut-guide" id="a" style="left: 1.0000in; top: 1.0000in;"></div>
		<div class="cut-guide" id="b" style="left: 1.1250in; top: 1.0000in;"></div>
	</div></body>`)

	v.RemoveOverlappingCutGuides()

	if v.byID("a") == nil || v.byID("b") != nil {
		t.Error("edge-touching guides were not deduplicated to the earliest")
	}
}

func TestRemoveCutGuidesOnCover(t *testing.T) {
	v := mustParse(t, `<body>
		<div class="page">
			<div class="card card-size-cover"></div>
			<div class="cut-guide" id="cover-guide" style="left: 0in; top: 0in;"></div>
		</div>
		<div class="page">
			<div class="card"></div>
			<div class="cut-guide" id="card-guide" style="left: 0in; top: 0in;"></div>
		</div>
	</body>`)

	v.RemoveCutGuidesOnCover()

	if v.byID("cover-guide") != nil {
		t.Error("guide on cover page survived")
	}
	if v.byID("card-guide") == nil {
		t.Error("guide on regular page was removed")
	}
}

func TestRemoveEmptyFooterTags(t *testing.T) {
	v := mustParse(t, `<body>
		<span class="page-footer-content">Page 1</span>
		<span class="page-footer-content">   </span>
		<span class="page-footer-content"></span>
	</body>`)

	v.RemoveEmptyFooterTags()

	tags := v.byClass("page-footer-content")
	if len(tags) != 1 {
		t.Fatalf("got %d footer tags, want 1", len(tags))
	}
	if got := textContent(tags[0]); got != "Page 1" {
		t.Errorf("surviving footer = %q, want %q", got, "Page 1")
	}
}

func TestUpdatePageNumbers(t *testing.T) {
	v := mustParse(t, `<body>`+toolbarFragment+`
		<div class="page">
			<span class="page-number-tag"></span>
			<div class="card"></div><div class="card"></div>
			<div class="card"></div><div class="card"></div>
		</div>
		<div class="page">
			<span class="page-number-tag"></span>
			<div class="card"></div><div class="card"></div><div class="card"></div>
			<div class="card card-size-cover"></div>
		</div>
		<div class="page page-backs">
			<span class="page-number-tag"></span>
			<div class="card"></div><div class="card"></div>
		</div>
		<div class="page" style="display: none;">
			<span class="page-number-tag" id="hidden-tag">stale</span>
		</div>
	</body>`)

	stats := v.UpdatePageNumbers()

	if stats.Cards != 7 {
		t.Errorf("cards = %d, want 7", stats.Cards)
	}
	if stats.Pages != 2 {
		t.Errorf("pages = %d, want 2", stats.Pages)
	}
	if got := stats.String(); got != "7 cards<br />2 pages" {
		t.Errorf("stats = %q, want %q", got, "7 cards<br />2 pages")
	}

	tags := v.byClass("page-number-tag")
	want := []string{"Page 1 / 3", "Page 2 / 3", "Page 3 / 3", "stale"}
	for i, tag := range tags {
		if got := textContent(tag); got != want[i] {
			t.Errorf("tag %d = %q, want %q", i, got, want[i])
		}
	}

	if got := textContent(v.byID("ui-stats")); got != "7 cards2 pages" {
		t.Errorf("stats element text = %q, want %q", got, "7 cards2 pages")
	}
}

func TestUpdatePageNumbersAfterHiding(t *testing.T) {
	v := mustParse(t, `<body>
		<div class="page"><span class="page-number-tag"></span><div class="card"></div></div>
		<div class="page page-backs"><span class="page-number-tag"></span></div>
	</body>`)

	v.ToggleDisplay("page-backs", false)
	v.UpdatePageNumbers()

	tags := v.byClass("page-number-tag")
	if got := textContent(tags[0]); got != "Page 1 / 1" {
		t.Errorf("front tag = %q, want %q", got, "Page 1 / 1")
	}
}

func TestDisableActionsWithoutPages(t *testing.T) {
	v := mustParse(t, toolbarFragment)

	v.DisableActionsIfNecessary()

	for _, el := range v.byClass("ui-action") {
		if got := styleProperty(el, "pointer-events"); got != "none" {
			t.Errorf("action pointer-events = %q, want none", got)
		}
	}
}

func TestDisableActionsKeepsEnabledWithPages(t *testing.T) {
	v := mustParse(t, `<body>`+toolbarFragment+`<div class="page"></div></body>`)

	v.DisableActionsIfNecessary()

	for _, el := range v.byClass("ui-action") {
		if got := styleProperty(el, "pointer-events"); got == "none" {
			t.Error("action disabled despite pages being present")
		}
	}
}

func TestBacksTogglesHiddenWithoutBackPages(t *testing.T) {
	v := mustParse(t, `<body>`+toolbarFragment+`<div class="page"></div></body>`)

	v.DetermineBacksToggleVisibility()

	for _, id := range []string{"toggle-card-backs", "toggle-two-sided"} {
		if got := styleProperty(v.byID(id), "display"); got != "none" {
			t.Errorf("%s display = %q, want none", id, got)
		}
	}
}

func TestHelpModalBackdropDismiss(t *testing.T) {
	v := mustParse(t, toolbarFragment)

	if v.HelpDismissInstalled() {
		t.Fatal("dismiss handler installed before showing modal")
	}

	v.ToggleHelp(true)
	if !v.HelpDismissInstalled() {
		t.Fatal("dismiss handler not installed on show")
	}

	if v.DismissHelpOnBackdrop("help-inner") {
		t.Error("click inside modal content dismissed it")
	}
	if !v.DismissHelpOnBackdrop("ui-modal-help") {
		t.Error("backdrop click did not dismiss the modal")
	}
	if v.HelpDismissInstalled() {
		t.Error("dismiss handler still installed after dismissal")
	}
	if got := styleProperty(v.byID("ui-modal-help"), "display"); got != "none" {
		t.Errorf("modal display after dismissal = %q, want none", got)
	}
}

func TestRevealUI(t *testing.T) {
	v := mustParse(t, toolbarFragment)

	v.RevealUI()

	class := attr(v.byID("toolbar"), "class")
	if strings.Contains(class, "toolbar-hidden") {
		t.Errorf("toolbar class %q still hidden", class)
	}
	if !strings.Contains(class, "toolbar-revealed") {
		t.Errorf("toolbar class %q not revealed", class)
	}
}

func TestScheduleRevealCancel(t *testing.T) {
	v := mustParse(t, toolbarFragment)

	cancel := v.ScheduleReveal(10 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	if class := attr(v.byID("toolbar"), "class"); !strings.Contains(class, "toolbar-hidden") {
		t.Errorf("toolbar class %q revealed despite cancellation", class)
	}
}

func TestScheduleRevealFires(t *testing.T) {
	v := mustParse(t, toolbarFragment)

	v.ScheduleReveal(time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(attr(v.byID("toolbar"), "class"), "toolbar-revealed") {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("toolbar never revealed")
}

func TestOnLoadPipeline(t *testing.T) {
	// The footer markup mirrors what the generator emits: the number tag is
	// a footer-content span, seeded with its number so the empty-footer
	// cleanup leaves it alone.
	v := mustParse(t, `<body>`+toolbarFragment+`
		<div class="page">
			<div class="card"></div>
			<div class="cut-guide" style="left: 1in; top: 1in;"></div>
			<div class="cut-guide" style="left: 1in; top: 1in;"></div>
			<div class="page-footer">
				<span class="page-footer-content"></span>
				<span class="page-footer-content page-number-tag">Page 1 / 1</span>
			</div>
		</div>
	</body>`)

	stats := v.OnLoad()

	if stats.Cards != 1 || stats.Pages != 1 {
		t.Errorf("stats = %+v, want 1 card 1 page", stats)
	}
	if got := len(v.byClass("cut-guide")); got != 1 {
		t.Errorf("got %d cut guides after load, want 1", got)
	}
	if got := len(v.byClass("page-footer-content")); got != 1 {
		t.Errorf("got %d footer tags after load, want only the number tag", got)
	}
	if got := styleProperty(v.byID("toggle-card-backs"), "display"); got != "none" {
		t.Errorf("backs toggle display = %q, want none without back pages", got)
	}
}

func TestOnLoadNumbersSurviveFooterCleanup(t *testing.T) {
	v := mustParse(t, `<body>
		<div class="page">
			<div class="card"></div>
			<div class="page-footer">
				<span class="page-footer-content"></span>
				<span class="page-footer-content page-number-tag">Page 1 / 2</span>
			</div>
		</div>
		<div class="page page-backs">
			<div class="card"></div>
			<div class="page-footer">
				<span class="page-footer-content"></span>
				<span class="page-footer-content page-number-tag">Page 2 / 2</span>
			</div>
		</div>
	</body>`)

	v.OnLoad()

	tags := v.byClass("page-number-tag")
	if len(tags) != 2 {
		t.Fatalf("got %d page number tags after load, want 2", len(tags))
	}
	for i, want := range []string{"Page 1 / 2", "Page 2 / 2"} {
		if got := textContent(tags[i]); got != want {
			t.Errorf("tag %d = %q, want %q", i, got, want)
		}
	}
}
