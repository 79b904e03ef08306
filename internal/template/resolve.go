package template

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/cardpress/cardpress/internal/datasource"
	"github.com/cardpress/cardpress/internal/markdown"
	"github.com/cardpress/cardpress/internal/warning"
)

// Resolution tracks which columns and definitions were referenced while
// resolving content; the generator uses it to warn about unused
// definitions and to silence false "missing field" warnings.
type Resolution struct {
	ColumnReferences     map[string]bool
	DefinitionReferences map[string]bool
}

func newResolution() *Resolution {
	return &Resolution{
		ColumnReferences:     map[string]bool{},
		DefinitionReferences: map[string]bool{},
	}
}

func (r *Resolution) merge(other *Resolution) {
	for k := range other.ColumnReferences {
		r.ColumnReferences[k] = true
	}
	for k := range other.DefinitionReferences {
		r.DefinitionReferences[k] = true
	}
}

// Resolver resolves column and definition content, recursively following
// references like {{ other_column }}, {{ a_definition }} and row
// references like {{ title #6 }}.
type Resolver struct {
	Definitions map[string]string
	Display     *warning.Display
	// RowLookup fetches a row by CSV row number from a datasource; the
	// generator injects a lookup backed by the already-open source.
	RowLookup func(path string, number int) (datasource.Row, bool)
	// Now is the timestamp date fields render with.
	Now time.Time
}

// maxResolveDepth bounds reference chains. Direct self-references are
// caught outright; mutual cycles like a -> b -> a only show up as depth,
// so chains longer than this are treated as cyclic.
const maxResolveDepth = 32

// ColumnContent returns the content of a column in a row with every
// reference resolved and inline markdown applied.
func (r *Resolver) ColumnContent(column string, row datasource.Row) (string, *Resolution) {
	return r.resolve(column, row, false, 0)
}

// DefinitionContent resolves the content of a definition.
func (r *Resolver) DefinitionContent(name string) (string, *Resolution) {
	return r.resolve(name, datasource.Row{Data: r.Definitions}, true, 0)
}

func (r *Resolver) resolve(column string, row datasource.Row, resolvingDefinition bool, depth int) (string, *Resolution) {
	res := newResolution()

	content, ok := row.Get(column)
	if !ok || content == "" {
		return content, res
	}

	content = r.resolveContent(content, row.Path)
	content = r.resolveFields(column, content, row, resolvingDefinition, res, depth)

	// Inline markdown is the last step, once references are in place.
	return markdown.Render(content), res
}

// resolveContent fills the field types that do not depend on the row:
// includes, blanks and dates.
func (r *Resolver) resolveContent(content, basePath string) string {
	content, problems := FillIncludeFields(basePath, content)
	for _, p := range problems {
		r.warnInclude(basePath, p)
	}
	content = FillEmptyFields(content)

	now := r.Now
	if now.IsZero() {
		now = time.Now()
	}
	return FillDateFields(content, now)
}

func (r *Resolver) warnInclude(basePath string, p IncludeProblem) {
	if r.Display == nil {
		return
	}
	ctx := warning.Context{Source: filepath.Base(basePath)}
	kind := "include"
	if p.Inline {
		kind = "inline"
	}
	if p.Path == "" {
		r.Display.Warnf(ctx, "an %s field should specify a file", kind)
		return
	}
	r.Display.Errorf(ctx, "%s file not found: '%s'", kind, p.Path)
}

func (r *Resolver) resolveFields(column, content string, row datasource.Row, resolvingDefinition bool, res *Resolution, depth int) string {
	for _, field := range Fields(content) {
		referenceColumn, referenceRow := r.rowReference(field, row)
		if referenceColumn == "" {
			referenceColumn = field.Inner
		}

		_, isDefinition := r.Definitions[referenceColumn]
		_, inRow := referenceRow.Data[referenceColumn]
		// When resolving a definition the row *is* the definitions map, so
		// a hit there is not a column hit.
		isColumn := inRow && !resolvingDefinition

		if !isColumn && !isDefinition {
			// Not resolvable here; it might be an image or include field.
			continue
		}

		ctx := r.context(referenceRow, column, resolvingDefinition)

		// A reference to the column currently being resolved, in the same
		// row, is an infinite cycle.
		infiniteColumnRef := referenceColumn == column && referenceRow.Index == row.Index && referenceRow.Path == row.Path
		infiniteDefinitionRef := infiniteColumnRef && isDefinition && !isColumn

		if infiniteDefinitionRef {
			if r.Display != nil {
				r.Display.Warnf(ctx, "definition '%s' refers to itself and cannot be resolved", field.Inner)
			}
			continue
		}
		if infiniteColumnRef && isColumn {
			if r.Display != nil {
				r.Display.Warnf(ctx, "column '%s' refers to itself and cannot be resolved", field.Inner)
			}
			continue
		}

		useColumn := isColumn && !infiniteColumnRef
		useDefinition := isDefinition && !useColumn && !infiniteDefinitionRef

		if !useColumn && !useDefinition {
			if r.Display != nil {
				r.Display.Warnf(ctx, "unresolved reference '%s'", field.Inner)
			}
			continue
		}

		if depth >= maxResolveDepth {
			if r.Display != nil {
				r.Display.Warnf(ctx, "reference '%s' is cyclic and cannot be resolved", field.Inner)
			}
			continue
		}

		var value string
		var sub *Resolution
		if useColumn {
			value, sub = r.resolve(referenceColumn, referenceRow, false, depth+1)
		} else {
			value, sub = r.resolve(referenceColumn, datasource.Row{Data: r.Definitions}, true, depth+1)
		}
		res.merge(sub)

		var occurrences int
		content, occurrences = FillAll(field.Inner, value, content, false)
		if occurrences == 0 {
			continue
		}

		if useColumn {
			res.ColumnReferences[referenceColumn] = true
		} else {
			res.DefinitionReferences[referenceColumn] = true
		}

		if isColumn && isDefinition && !resolvingDefinition && r.Display != nil {
			// The reference is ambiguous; the column content won.
			r.Display.Warnf(ctx, "'%s' is ambiguous (column and definition); using the column", referenceColumn)
		}
	}

	return content
}

// rowReference resolves fields like "{{ title #6 }}" to the named column
// in another row of the same datasource. Returns "" when the field is not
// a row reference; a reference to the current row strips the marker and
// keeps the row.
func (r *Resolver) rowReference(field Field, row datasource.Row) (string, datasource.Row) {
	if row.Path == "" || !field.HasRowReference() {
		return "", row
	}

	number, err := strconv.Atoi(field.Context[1:])
	if err != nil {
		return "", row
	}
	if number == row.Index {
		return field.Name, row
	}
	// Row 1 is the header, so #0 and #1 can never resolve.
	if number < 2 || r.RowLookup == nil {
		return "", row
	}

	referenced, ok := r.RowLookup(row.Path, number)
	if !ok {
		return "", row
	}

	// Only expose the columns also present in the originating row.
	filtered := make(map[string]string)
	for name, content := range referenced.Data {
		if _, ok := row.Data[name]; ok {
			filtered[name] = content
		}
	}
	return field.Name, datasource.Row{Data: filtered, Path: row.Path, Index: number}
}

func (r *Resolver) context(row datasource.Row, column string, resolvingDefinition bool) warning.Context {
	source := ""
	switch {
	case row.Path != "":
		source = filepath.Base(row.Path)
	case resolvingDefinition:
		source = "definitions"
	}
	return warning.Context{Source: source, RowIndex: row.Index}
}
