package layout

import "fmt"

// GuideExtent is the edge length of a cut guide mark, in inches.
const GuideExtent = 0.125

// GuidePosition is the top-left corner of one cut guide, in inches,
// relative to the page's printable area.
type GuidePosition struct {
	Left float64
	Top  float64
}

// InlineStyle renders the position as the inline CSS the view layer reads
// back when deduplicating guides.
func (p GuidePosition) InlineStyle() string {
	return fmt.Sprintf("left: %.4fin; top: %.4fin;", p.Left, p.Top)
}

// GuidesFor returns the cut-guide positions for the card at indexOnPage
// (0-based, filled row by row), one guide per card corner, each centered
// on the corner. Guides of adjacent cards coincide; the view layer removes
// the overlapping duplicates.
func GuidesFor(card Size, grid Grid, indexOnPage int) []GuidePosition {
	if grid.PerRow <= 0 {
		return nil
	}
	row := indexOnPage / grid.PerRow
	col := indexOnPage % grid.PerRow

	x := float64(col) * card.Width
	y := float64(row) * card.Height
	half := GuideExtent / 2

	corners := [][2]float64{
		{x, y},
		{x + card.Width, y},
		{x, y + card.Height},
		{x + card.Width, y + card.Height},
	}

	positions := make([]GuidePosition, 0, len(corners))
	for _, c := range corners {
		positions = append(positions, GuidePosition{Left: c[0] - half, Top: c[1] - half})
	}
	return positions
}
