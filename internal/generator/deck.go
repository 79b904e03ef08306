package generator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cardpress/cardpress/internal/layout"
	"github.com/cardpress/cardpress/internal/template"
)

// pageGroup is the set of cards sharing one front page.
type pageGroup struct {
	cards []card
	size  layout.Size
	grid  layout.Grid
}

func (g *pageGroup) hasBacks() bool {
	for _, c := range g.cards {
		if c.hasBack {
			return true
		}
	}
	return false
}

// paginate splits cards into pages. A page holds at most a full grid of
// one size; a size change or an explicit break starts a new page.
func paginate(cards []card) []*pageGroup {
	var pages []*pageGroup
	var current *pageGroup
	for _, c := range cards {
		if current == nil || c.breakBefore || c.size != current.size || len(current.cards) == current.grid.PerPage {
			current = &pageGroup{size: c.size, grid: layout.GridFor(c.size)}
			pages = append(pages, current)
		}
		current.cards = append(current.cards, c)
	}
	return pages
}

// renderPage renders one page of a group: its fronts, or its backs
// mirrored for two-sided printing. The page number is filled here; the
// total only becomes known once every page is rendered, so the index fill
// settles the remaining {{ _pages_total }} fields.
func (run *deckRun) renderPage(group *pageGroup, footer string, number int, backs bool) string {
	var contents []string
	if backs {
		contents = backContents(group)
	} else {
		for _, c := range group.cards {
			contents = append(contents, c.content)
		}
	}

	pageClass := ""
	if backs {
		pageClass = "page-backs"
	}

	page := template.Fill("_page_class", pageClass, pageContainer)
	page = template.Fill(template.FieldPageNumber, strconv.Itoa(number), page)
	page = template.FillIndented(template.FieldCards, strings.Join(contents, "\n"), page)
	page = template.FillIndented("_page_guides", guides(group.size, group.grid, len(contents)), page)
	page = template.Fill(template.FieldPageFooter, footer, page)
	return page
}

// backContents lays out a page's backs so a duplexed sheet lines each back
// up behind its front: rows are padded to full width with filler cards and
// each row is reversed, mirroring the page around its vertical axis.
func backContents(group *pageGroup) []string {
	filler := template.Fill(template.FieldCardSize, group.size.Style, fillerCard)

	padded := make([]string, 0, len(group.cards))
	for _, c := range group.cards {
		if c.hasBack {
			padded = append(padded, c.back)
		} else {
			padded = append(padded, filler)
		}
	}
	for len(padded)%group.grid.PerRow != 0 {
		padded = append(padded, filler)
	}

	var out []string
	for start := 0; start < len(padded); start += group.grid.PerRow {
		row := padded[start : start+group.grid.PerRow]
		for i := len(row) - 1; i >= 0; i-- {
			out = append(out, row[i])
		}
	}
	return out
}

// guides renders the cut guides for the first cardCount grid slots.
func guides(size layout.Size, grid layout.Grid, cardCount int) string {
	var out []string
	for index := 0; index < cardCount; index++ {
		for _, position := range layout.GuidesFor(size, grid, index) {
			out = append(out, fmt.Sprintf(`<div class="cut-guide" style="%s"></div>`, position.InlineStyle()))
		}
	}
	return strings.Join(out, "\n")
}

func sortStrings(s []string) { sort.Strings(s) }
