package datasource

import "strings"

// Row is one record of a datasource, keyed by column name.
type Row struct {
	Data map[string]string
	Path string // datasource the row came from; empty for definitions
	// Index is the 1-based CSV row number. The header occupies row 1, so
	// the first data row is 2, matching what an editor displays.
	Index int
	// Comment marks a row excluded with a leading '#'.
	Comment bool
}

// Get returns the trimmed content of a column and whether it exists.
func (r Row) Get(column string) (string, bool) {
	content, ok := r.Data[column]
	return strings.TrimSpace(content), ok
}

// usable filters out commented and directive columns.
func (r Row) usable() map[string]string {
	usable := make(map[string]string, len(r.Data))
	for name, content := range r.Data {
		if IsExcludedColumn(name) || IsSpecialColumn(name) {
			continue
		}
		usable[name] = content
	}
	return usable
}

// Front returns a row containing only the columns that apply to the front
// of a card.
func (r Row) Front() Row {
	data := make(map[string]string)
	for name, content := range r.usable() {
		if IsBackOnlyColumn(name) {
			continue
		}
		data[name] = content
	}
	return Row{Data: data, Path: r.Path, Index: r.Index}
}

// Back returns a row containing only the back-only columns, with the
// "@back-only" suffix stripped so templates reference the plain name.
func (r Row) Back() Row {
	data := make(map[string]string)
	for name, content := range r.usable() {
		if !IsBackOnlyColumn(name) {
			continue
		}
		data[strings.TrimSpace(strings.TrimSuffix(name, BackOnlySuffix))] = content
	}
	return Row{Data: data, Path: r.Path, Index: r.Index}
}
