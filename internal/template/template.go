package template

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cardpress/cardpress/internal/datasource"
)

// Template is a card or page template: raw HTML with {{ field }} markers.
type Template struct {
	Content string
	Path    string
}

// Load reads a template from disk. A relative path is resolved against the
// directory of relativeTo (typically the datasource referencing it).
func Load(path, relativeTo string) (Template, error) {
	if !filepath.IsAbs(path) && relativeTo != "" {
		path = filepath.Join(filepath.Dir(relativeTo), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{Path: path}, err
	}
	return Template{Content: strings.TrimSpace(string(data)), Path: path}, nil
}

// RenderResult carries what happened while filling a template.
type RenderResult struct {
	ImagePaths            []string
	UnknownFields         []string // fields in the template with no data
	UnusedColumns         []string // columns in the data never used
	ReferencedDefinitions map[string]bool
}

func newRenderResult() *RenderResult {
	return &RenderResult{ReferencedDefinitions: map[string]bool{}}
}

var stylePattern = regexp.MustCompile(`(?s)<style.*?>.+?</style>`)

// StripStyles removes embedded <style> blocks from a template and returns
// them so they can be hoisted into the output document head once. Any
// template fields found inside styles are reported back for warning.
func StripStyles(t *Template) (styles string, fieldNames []string) {
	var blocks []string
	for _, m := range stylePattern.FindAllString(t.Content, -1) {
		blocks = append(blocks, strings.TrimSpace(m))
	}
	t.Content = strings.TrimSpace(stylePattern.ReplaceAllString(t.Content, ""))

	styles = strings.Join(blocks, "\n")
	for _, field := range Fields(styles) {
		fieldNames = append(fieldNames, field.Name)
	}
	return styles, fieldNames
}

// FillTemplate populates a template from a data row: includes first (they
// may contribute fields), then columns with recursive reference
// resolution, then definitions, dates and images.
func (r *Resolver) FillTemplate(t Template, row datasource.Row) (string, *RenderResult) {
	result := newRenderResult()

	content := r.resolveContent(t.Content, t.Path)

	columnReferences := map[string]bool{}
	var unused []string

	for _, column := range sortedColumns(row) {
		value, res := r.ColumnContent(column, row)

		var occurrences int
		content, occurrences = FillAll(column, value, content, false)
		if occurrences == 0 {
			// Not in the template; may still be referenced from another
			// column's content, checked below.
			unused = append(unused, column)
		} else {
			for ref := range res.ColumnReferences {
				columnReferences[ref] = true
			}
			for ref := range res.DefinitionReferences {
				result.ReferencedDefinitions[ref] = true
			}
		}
	}

	content, referenced := r.FillDefinitions(content)
	for ref := range referenced {
		result.ReferencedDefinitions[ref] = true
	}

	now := r.Now
	if now.IsZero() {
		now = time.Now()
	}
	content = FillDateFields(content, now)

	var imagePaths []string
	content, imagePaths = FillImageFields(content)
	result.ImagePaths = imagePaths

	for _, field := range Fields(content) {
		if field.Inner == FieldCardsTotal {
			// Filled once every card has been generated; not missing.
			continue
		}
		result.UnknownFields = append(result.UnknownFields, field.Name)
	}

	for _, column := range unused {
		if !columnReferences[column] {
			result.UnusedColumns = append(result.UnusedColumns, column)
		}
	}

	return content, result
}

// FillCard fills a card template and its index fields.
func (r *Resolver) FillCard(t Template, row datasource.Row, cardIndex, copyIndex int) (string, *RenderResult) {
	content, result := r.FillTemplate(t, row)

	// Row index and template path mostly serve the error templates.
	content = Fill(FieldCardRowIndex, itoa(row.Index), content)
	content = Fill(FieldTemplatePath, t.Path, content)
	content = Fill(FieldCardIndex, itoa(cardIndex), content)
	content = Fill(FieldCardCopy, itoa(copyIndex), content)

	// Those fields were still unfilled during FillTemplate; they are not
	// actually unknown.
	indexFields := map[string]bool{
		FieldCardIndex:    true,
		FieldCardRowIndex: true,
		FieldCardCopy:     true,
		FieldTemplatePath: true,
	}
	var unknown []string
	for _, name := range result.UnknownFields {
		if !indexFields[name] {
			unknown = append(unknown, name)
		}
	}
	result.UnknownFields = unknown

	return content, result
}

// FillDefinitions fills definition fields in two passes: definite
// occurrences ({{ my_definition }}) first, then partial occurrences where
// a definition appears inside another field ({{ my_column my_definition }}).
// The second pass is needed because a definition resolved in the first may
// itself contain a partial.
func (r *Resolver) FillDefinitions(in string) (string, map[string]bool) {
	referenced := map[string]bool{}
	resolved := map[string]string{}

	for _, definition := range r.sortedDefinitions() {
		value, res := r.DefinitionContent(definition)
		resolved[definition] = value

		var occurrences int
		in, occurrences = FillAll(definition, value, in, false)
		if occurrences > 0 {
			referenced[definition] = true
			for ref := range res.DefinitionReferences {
				referenced[ref] = true
			}
		}
	}

	for _, definition := range r.sortedDefinitions() {
		var occurrences int
		in, occurrences = fillPartialDefinition(definition, resolved[definition], in)
		if occurrences > 0 {
			referenced[definition] = true
		}
	}

	return in, referenced
}

// fillPartialDefinition replaces a definition key appearing inside other
// fields with its resolved value, leaving the field otherwise intact; e.g.
// {{ my_column my_partial }} becomes {{ my_column some_value }}.
func fillPartialDefinition(definition, value, in string) (string, int) {
	// Only count as a partial when isolated by whitespace or the field
	// bounds; "monster" must not match inside "path/to/monster.svg".
	pattern := `(^|\s)` + regexp.QuoteMeta(definition) + `($|\s)`
	tokenPattern := regexp.MustCompile(pattern)

	occurrences := 0
	// Replacing one field can re-introduce a matching token when the value
	// contains the definition name; bound the scan to stay terminating.
	for range [64]struct{}{} {
		field, ok := FirstField(in, Filter{Name: pattern, Context: pattern})
		if !ok {
			break
		}

		name := tokenPattern.ReplaceAllString(field.Name, "${1}"+value+"${2}")
		context := tokenPattern.ReplaceAllString(field.Context, "${1}"+value+"${2}")

		inner := name
		if context != "" {
			inner = name + " " + context
		}
		in = FillSingle(field, "{{ "+inner+" }}", in, false)
		occurrences++
	}
	return in, occurrences
}

// FillIndex fills the top-level document template: hoisted styles, the
// generated pages, totals, and project metadata from definitions.
func (r *Resolver) FillIndex(index, styles, pages string, pagesTotal, cardsTotal int, programVersion string) (string, *RenderResult) {
	result := newRenderResult()

	index = FillIndented(FieldStyles, styles, index)
	index = FillIndented(FieldPages, pages, index)
	index = Fill(FieldCardsTotal, itoa(cardsTotal), index)
	index = Fill(FieldPagesTotal, itoa(pagesTotal), index)
	index = Fill(FieldProgramVersion, programVersion, index)

	// Project metadata lives in the definitions under the field names
	// themselves ("_title", "_copyright", ...).
	metadata := func(field string) string {
		value, res := r.DefinitionContent(field)
		result.merge(res)
		return value
	}

	title := strings.TrimSpace(metadata(FieldTitle))
	pageTitle := title
	if pageTitle == "" {
		pageTitle = "cardpress [untitled]"
	}

	index = Fill(FieldPageTitle, pageTitle, index)
	index = Fill(FieldTitle, title, index)
	index = Fill(FieldDescription, metadata(FieldDescription), index)
	index = Fill(FieldCopyright, metadata(FieldCopyright), index)
	index = Fill(FieldAuthor, metadata(FieldAuthor), index)
	index = Fill(FieldVersion, metadata(FieldVersion), index)

	now := r.Now
	if now.IsZero() {
		now = time.Now()
	}
	index = FillDateFields(index, now)

	index, referenced := r.FillDefinitions(index)
	for ref := range referenced {
		result.ReferencedDefinitions[ref] = true
	}

	// Metadata fills can introduce image fields of their own.
	var imagePaths []string
	index, imagePaths = FillImageFields(index)
	result.ImagePaths = imagePaths

	return index, result
}

func (result *RenderResult) merge(res *Resolution) {
	for ref := range res.DefinitionReferences {
		result.ReferencedDefinitions[ref] = true
	}
}

// SizedCard wraps rendered card content in the card container at a size.
func SizedCard(container, sizeStyle, content string) string {
	out := Fill(FieldCardSize, sizeStyle, container)
	out, _ = FillAll(FieldCardContent, content, out, true)
	return out
}

func (r *Resolver) sortedDefinitions() []string {
	names := make([]string, 0, len(r.Definitions))
	for name := range r.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedColumns(row datasource.Row) []string {
	names := make([]string, 0, len(row.Data))
	for name := range row.Data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
