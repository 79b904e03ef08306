package view

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/cardpress/cardpress/internal/layout"
)

// rect is a cut guide's bounding box in page inches, reconstructed from the
// inline left/top offsets the generator emits plus the fixed guide extent.
type rect struct {
	left, top, right, bottom float64
}

func (a rect) overlaps(b rect) bool {
	return !(a.right < b.left || a.left > b.right || a.bottom < b.top || a.top > b.bottom)
}

// guideRect reads a guide's rectangle from its inline style. The second
// return is false when the guide carries no usable offsets.
func guideRect(n *html.Node) (rect, bool) {
	left, okLeft := inches(styleProperty(n, "left"))
	top, okTop := inches(styleProperty(n, "top"))
	if !okLeft || !okTop {
		return rect{}, false
	}
	return rect{
		left:   left,
		top:    top,
		right:  left + layout.GuideExtent,
		bottom: top + layout.GuideExtent,
	}, true
}

// inches parses a CSS length like "1.25in".
func inches(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, "in") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "in"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RemoveOverlappingCutGuides deduplicates guides where adjacent cards meet.
// Guides are compared pairwise in document order and the later of an
// overlapping pair is removed, so the earliest guide at any shared corner
// survives.
func (v *View) RemoveOverlappingCutGuides() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeOverlappingCutGuides()
}

func (v *View) removeOverlappingCutGuides() {
	for _, page := range v.pages() {
		guides := queryAll(page.node, "."+ClassCutGuide)
		removed := make([]bool, len(guides))
		for i, a := range guides {
			if removed[i] {
				continue
			}
			ra, ok := guideRect(a)
			if !ok {
				continue
			}
			for j := i + 1; j < len(guides); j++ {
				if removed[j] {
					continue
				}
				rb, ok := guideRect(guides[j])
				if !ok {
					continue
				}
				if ra.overlaps(rb) {
					remove(guides[j])
					removed[j] = true
				}
			}
		}
	}
}

// RemoveCutGuidesOnCover strips cut guides from cover cards, which fill the
// whole page and are not cut out.
func (v *View) RemoveCutGuidesOnCover() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeCutGuidesOnCover()
}

func (v *View) removeCutGuidesOnCover() {
	for _, page := range v.pages() {
		if len(queryAll(page.node, "."+ClassCoverCard)) == 0 {
			continue
		}
		for _, guide := range queryAll(page.node, "."+ClassCutGuide) {
			remove(guide)
		}
	}
}
