package view

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Stats summarizes the visible document for the toolbar readout.
type Stats struct {
	Cards int
	Pages int
}

// String renders the stats the way the toolbar displays them.
func (s Stats) String() string {
	return fmt.Sprintf("%d cards<br />%d pages", s.Cards, s.Pages)
}

// UpdatePageNumbers renumbers every displayed page in document order and
// refreshes the toolbar stats. Hidden pages keep their stale numbers; that
// is fine because re-showing a category always renumbers again.
//
// The stats count only what a reader would cut out: cards on front pages,
// minus the cover. Back pages duplicate the fronts, so their cards and
// pages are left out of the totals even while displayed.
func (v *View) UpdatePageNumbers() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updatePageNumbers()
}

func (v *View) updatePageNumbers() Stats {
	var displayed []*htmlPage
	for _, page := range v.pages() {
		if styleProperty(page.node, "display") != "none" {
			displayed = append(displayed, page)
		}
	}

	stats := Stats{}
	for i, page := range displayed {
		for _, tag := range queryAll(page.node, "."+ClassPageNumberTag) {
			setText(tag, fmt.Sprintf("Page %d / %d", i+1, len(displayed)))
		}
		if page.backs {
			continue
		}
		stats.Pages++
		for _, card := range queryAll(page.node, "."+ClassCard) {
			if hasClass(card, ClassCoverCard) {
				continue
			}
			stats.Cards++
		}
	}

	if el := v.byID(IDStats); el != nil {
		setInnerHTML(el, stats.String())
	}
	return stats
}

type htmlPage struct {
	node  *html.Node
	backs bool
}

// pages returns every page element in document order, tagged with whether
// it is a back page.
func (v *View) pages() []*htmlPage {
	var out []*htmlPage
	for _, el := range v.byClass(ClassPage) {
		out = append(out, &htmlPage{node: el, backs: hasClass(el, ClassPageBacks)})
	}
	return out
}

// RemoveEmptyFooterTags deletes footer content elements with no text,
// scanning in reverse so removals cannot disturb the remaining scan order.
func (v *View) RemoveEmptyFooterTags() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeEmptyFooterTags()
}

func (v *View) removeEmptyFooterTags() {
	tags := v.byClass(ClassFooterContent)
	for i := len(tags) - 1; i >= 0; i-- {
		if strings.TrimSpace(textContent(tags[i])) == "" {
			remove(tags[i])
		}
	}
}
