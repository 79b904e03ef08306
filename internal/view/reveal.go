package view

import (
	"strings"
	"time"
)

// RevealDelay is how long after load the toolbar stays hidden, so the
// reader sees the sheet settle before the controls fade in.
const RevealDelay = 400 * time.Millisecond

const (
	toolbarHiddenClass   = "toolbar-hidden"
	toolbarRevealedClass = "toolbar-revealed"
)

// RevealUI swaps the toolbar from its hidden to its revealed state.
func (v *View) RevealUI() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revealUI()
}

func (v *View) revealUI() {
	el := v.byID(IDToolbar)
	if el == nil {
		return
	}
	classes := strings.Fields(attr(el, "class"))
	out := classes[:0]
	for _, c := range classes {
		if c == toolbarHiddenClass || c == toolbarRevealedClass {
			continue
		}
		out = append(out, c)
	}
	out = append(out, toolbarRevealedClass)
	setAttr(el, "class", strings.Join(out, " "))
}

// ScheduleReveal arranges for RevealUI to run after the delay and returns a
// cancel function. Cancelling before the delay elapses leaves the toolbar
// hidden.
func (v *View) ScheduleReveal(delay time.Duration) (cancel func()) {
	timer := time.AfterFunc(delay, v.RevealUI)
	return func() { timer.Stop() }
}

// OnLoad runs the load-time normalization pipeline: prune guides the
// renderer placed on covers or doubled at shared corners, drop footer tags
// with nothing to say, hide controls that have nothing to control, and
// number what remains. Reveal is left to the caller so static output can
// skip the delay entirely.
func (v *View) OnLoad() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeCutGuidesOnCover()
	v.removeOverlappingCutGuides()
	v.removeEmptyFooterTags()
	v.determineBacksToggleVisibility()
	v.disableActionsIfNecessary()
	return v.updatePageNumbers()
}
