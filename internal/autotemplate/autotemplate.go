// Package autotemplate infers a card template from the shape of the data,
// used when a datasource provides no @template column.
package autotemplate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cardpress/cardpress/internal/datasource"
)

// fieldType classifies a column by the content it usually holds.
type fieldType int

const (
	typeUnknown fieldType = iota
	typeNumber
	typeTitle
	typeText
)

func (t fieldType) String() string {
	switch t {
	case typeNumber:
		return "number"
	case typeTitle:
		return "title"
	case typeText:
		return "text"
	}
	return "unknown"
}

// sort order on the card: numbers up top, then titles, then text bodies.
func (t fieldType) rank() int {
	switch t {
	case typeNumber:
		return 0
	case typeTitle:
		return 1
	case typeText:
		return 2
	}
	return 3
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func classify(value string) fieldType {
	value = strings.TrimSpace(value)
	if value == "" {
		return typeUnknown
	}

	words := strings.Fields(value)
	switch {
	case isDigits(value),
		len(words) == 2 && (isDigits(words[0]) || isDigits(words[1])):
		// "5" or "5 damage" both count as a numerical element.
		return typeNumber
	case len(words) > 3:
		return typeText
	default:
		return typeTitle
	}
}

// FromRows builds a template fitting the given rows: one styled <div> per
// usable column, ordered by content type. Returns "" when no column could
// be classified.
func FromRows(columns []string, rows []datasource.Row) string {
	counts := map[string]map[fieldType]int{}

	for _, row := range rows {
		if row.Comment {
			continue
		}
		for _, column := range columns {
			if datasource.IsExcludedColumn(column) || datasource.IsSpecialColumn(column) {
				continue
			}
			t := classify(row.Data[column])
			if t == typeUnknown {
				continue
			}
			if counts[column] == nil {
				counts[column] = map[fieldType]int{}
			}
			counts[column][t]++
		}
	}

	if len(counts) == 0 {
		return ""
	}

	type fieldSpec struct {
		column string
		t      fieldType
	}
	specs := make([]fieldSpec, 0, len(counts))
	for column, byType := range counts {
		specs = append(specs, fieldSpec{column, mostCommon(byType)})
	}
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].t.rank() != specs[j].t.rank() {
			return specs[i].t.rank() < specs[j].t.rank()
		}
		return specs[i].column < specs[j].column
	})

	var b strings.Builder
	for _, spec := range specs {
		fmt.Fprintf(&b, "<div class=\"auto-template-field auto-template-%s\">{{ %s }}</div>",
			spec.t, spec.column)
	}
	return b.String()
}

func mostCommon(byType map[fieldType]int) fieldType {
	best, bestCount := typeUnknown, -1
	for t, count := range byType {
		if count > bestCount || (count == bestCount && t.rank() < best.rank()) {
			best, bestCount = t, count
		}
	}
	return best
}
