// Package datasource reads card data from CSV files: datasources with one
// card per row, and definitions files with key/value pairs shared by every
// card.
package datasource

import "strings"

// Special columns recognized in a datasource header.
const (
	ColumnCount        = "@count"         // how many copies of the card to generate
	ColumnTemplate     = "@template"      // template path for the front of the card
	ColumnTemplateBack = "@template-back" // template path for the back of the card

	// BackOnlySuffix marks a column whose content is only used when
	// generating the back of the card, e.g. "notes @back-only".
	BackOnlySuffix = "@back-only"
)

// IsExcludedColumn reports whether a column is commented out, e.g. "(notes)".
func IsExcludedColumn(name string) bool {
	return strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")")
}

// IsSpecialColumn reports whether a column is a directive such as "@template".
func IsSpecialColumn(name string) bool {
	return strings.HasPrefix(name, "@")
}

// IsBackOnlyColumn reports whether a column only applies to card backs.
func IsBackOnlyColumn(name string) bool {
	return strings.HasSuffix(name, BackOnlySuffix)
}

// InvalidColumn describes a column name that cannot be referenced from
// templates.
type InvalidColumn struct {
	Name   string
	Reason string
}

func (c InvalidColumn) String() string {
	return "'" + c.Name + "' " + c.Reason
}

// InvalidColumns returns an error for each column name that would break
// field references; currently that is any name containing whitespace.
func InvalidColumns(names []string) []InvalidColumn {
	var invalid []InvalidColumn
	for _, name := range names {
		if strings.Contains(name, " ") {
			invalid = append(invalid, InvalidColumn{
				Name:   name,
				Reason: "contains whitespace (should be an underscore)",
			})
		}
	}
	return invalid
}

// SizeIdentifierFromColumns parses a card-size identifier attached to the
// template column, e.g. "@template:jumbo". It returns the identifier (or "")
// and the column names with the identifier stripped, so field references
// resolve against the clean name.
func SizeIdentifierFromColumns(names []string) (string, []string) {
	parsed := make([]string, len(names))
	copy(parsed, names)

	for i, name := range parsed {
		if !strings.HasPrefix(name, ColumnTemplate) || name == ColumnTemplateBack {
			continue
		}
		if idx := strings.LastIndex(name, ":"); idx != -1 {
			identifier := strings.TrimSpace(name[idx+1:])
			parsed[i] = strings.TrimSpace(name[:idx])
			return identifier, parsed
		}
		break
	}
	return "", parsed
}
