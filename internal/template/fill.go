package template

import (
	"regexp"
	"strings"
)

// FillSingle replaces exactly one field occurrence with a value. When
// indenting, multi-line values are padded so each line starts at the same
// column as the field did.
func FillSingle(field Field, value, in string, indenting bool) string {
	if indenting {
		value = padded(value, in, field.Start)
	}
	return in[:field.Start] + value + in[field.End:]
}

// FillAll replaces every occurrence of the named field with a value,
// matching case-insensitively so that {{name}} is filled from a "Name"
// column. Returns the result and the number of occurrences replaced.
func FillAll(inner, value, in string, indenting bool) (string, int) {
	// Both {{my_field}} and {{ my_field }} are valid.
	search := regexp.MustCompile(`(?i)\{\{\s*` + regexp.QuoteMeta(inner) + `\s*\}\}`)

	if indenting {
		if loc := search.FindStringIndex(in); loc != nil {
			value = padded(value, in, loc[0])
		}
	}

	count := 0
	out := search.ReplaceAllStringFunc(in, func(string) string {
		count++
		return value
	})
	return out, count
}

// Fill replaces every occurrence of the named field, discarding the count.
func Fill(inner, value, in string) string {
	out, _ := FillAll(inner, value, in, false)
	return out
}

// FillIndented is Fill with indentation preserved for multi-line values.
func FillIndented(inner, value, in string) string {
	out, _ := FillAll(inner, value, in, true)
	return out
}

// FillEmptyFields clears any blank fields ("{{ }}" or "{{}}").
func FillEmptyFields(in string) string {
	return Fill("", "", in)
}

// padded indents each line of value to the column at which the insertion
// point sits, so that filled multi-line content lines up in the output.
func padded(value, in string, at int) string {
	pad := 0
	for i := at - 1; i >= 0; i-- {
		if in[i] == '\n' {
			break
		}
		pad++
	}
	if pad == 0 {
		return value
	}

	lines := strings.SplitAfter(value, "\n")
	out := strings.Join(lines, strings.Repeat(" ", pad))
	return strings.TrimRight(out, "\n ")
}

// dequote strips one set of surrounding single or double quotes.
func dequote(s string) string {
	if len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '\'' || s[0] == '"') {
		return s[1 : len(s)-1]
	}
	return s
}

// lineNumberAt returns the 1-based line number of the character index.
func lineNumberAt(index int, in string) int {
	return strings.Count(in[:index], "\n") + 1
}
