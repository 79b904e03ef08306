// Package layout knows the physical dimensions of cards and pages and how
// many cards of a given size fit on a printable sheet.
package layout

import "math"

// Size is a physical card or page size.
type Size struct {
	Identifier string  // e.g. "standard"
	Style      string  // CSS class applied to the card element
	Width      float64 // inches
	Height     float64 // inches
}

// IsCover reports whether this is the page-sized cover variant. Covers get
// no cut guides and are excluded from the printable card count.
func (s Size) IsCover() bool { return s.Identifier == CoverIdentifier }

// CoverIdentifier names the page-sized card variant.
const CoverIdentifier = "cover"

// sizes maps identifiers to the supported card sizes.
var sizes = map[string]Size{
	"token":              {"token", "card-size-075x075", 0.75, 0.75},
	"standard":           {"standard", "card-size-25x35", 2.5, 3.5},
	"square":             {"square", "card-size-25x25", 2.5, 2.5},
	"lsquare":            {"lsquare", "card-size-35x35", 3.5, 3.5},
	"standard-landscape": {"standard-landscape", "card-size-35x25", 3.5, 2.5},
	"jumbo":              {"jumbo", "card-size-35x55", 3.5, 5.5},
	"domino":             {"domino", "card-size-175x35", 1.75, 3.5},
	CoverIdentifier:      {CoverIdentifier, "card-size-cover", 7.5, 10.5},
}

// CardSize returns the card size matching the identifier, if it exists.
func CardSize(identifier string) (Size, bool) {
	s, ok := sizes[identifier]
	return s, ok
}

// DefaultCardSize returns the standard poker size (2.5x3.5 inches).
func DefaultCardSize() Size { return sizes["standard"] }

// PageSize returns the printable area of a sheet (7.5x10.5 inches).
func PageSize() Size { return sizes[CoverIdentifier] }

// Identifiers returns the recognized size identifiers.
func Identifiers() []string {
	return []string{
		"token", "standard", "square", "lsquare",
		"standard-landscape", "jumbo", "domino", CoverIdentifier,
	}
}

// Grid describes how cards of one size are laid out on a page.
type Grid struct {
	PerRow    int
	PerColumn int
	PerPage   int
}

// GridFor computes the page grid for the given card size. A card larger
// than the page yields a zero grid.
func GridFor(card Size) Grid {
	page := PageSize()
	perRow := int(math.Floor(page.Width / card.Width))
	perColumn := int(math.Floor(page.Height / card.Height))
	return Grid{
		PerRow:    perRow,
		PerColumn: perColumn,
		PerPage:   perRow * perColumn,
	}
}
