// Package template implements the {{ field }} engine that turns card
// templates and data rows into rendered HTML.
package template

import (
	"regexp"
	"strings"
)

// Well-known field names. Fields starting with an underscore are filled by
// the generator; the rest resolve against columns, definitions, includes,
// dates or images.
const (
	FieldPages        = "_pages"
	FieldPageNumber   = "_page_number"
	FieldPagesTotal   = "_pages_total"
	FieldCards        = "_cards"
	FieldCardSize     = "_card_size"
	FieldCardContent  = "_card_content"
	FieldCardIndex    = "_card_index"
	FieldCardCopy     = "_card_copy_index"
	FieldCardRowIndex = "_card_row_index"
	FieldTemplatePath = "_card_template_path"
	FieldCardsTotal   = "_cards_total"
	FieldPageFooter   = "_page_footer"

	FieldInclude = "include"
	FieldInline  = "inline"
	FieldDate    = "date"

	FieldVersion        = "_version"
	FieldProgramVersion = "_program_version"
	FieldTitle          = "_title"
	FieldPageTitle      = "__title"
	FieldDescription    = "_description"
	FieldCopyright      = "_copyright"
	FieldAuthor         = "_author"
	FieldStyles         = "_styles"
)

// CopyOnlyDescriptor prevents an image field from being transformed into an
// <img> tag; the path is kept as-is and the image still copied.
const CopyOnlyDescriptor = "@copy-only"

// Field is one {{ ... }} occurrence in a template.
type Field struct {
	Name    string // first word of the inner content
	Context string // remainder of the inner content, e.g. a size or a path
	Inner   string // full inner content, trimmed
	Start   int    // index of the opening '{'
	End     int    // index just past the closing '}'
}

// String renders the field back to its template form.
func (f Field) String() string {
	return "{{ " + f.Inner + " }}"
}

// HasRowReference reports whether the context addresses another row, as in
// "{{ title #6 }}".
func (f Field) HasRowReference() bool {
	return strings.HasPrefix(f.Context, "#")
}

var fieldPattern = regexp.MustCompile(`\{\{\s?(([^}\s]*)\s?(.*?))\s?\}\}`)

// Filter restricts which fields a scan yields. Name and Context are regular
// expressions matched against the respective part; when Strict is set both
// must match, otherwise either suffices.
type Filter struct {
	Name    string
	Context string
	Strict  bool
}

// Fields returns every template field in the input, in order of occurrence,
// optionally restricted by a filter.
func Fields(in string, filter ...Filter) []Field {
	match := compileFilter(filter)

	var out []Field
	for _, m := range fieldPattern.FindAllStringSubmatchIndex(in, -1) {
		field := fieldAt(in, m)
		if match(field) {
			out = append(out, field)
		}
	}
	return out
}

// FirstField returns the first matching field, if any.
func FirstField(in string, filter ...Filter) (Field, bool) {
	match := compileFilter(filter)

	for _, m := range fieldPattern.FindAllStringSubmatchIndex(in, -1) {
		field := fieldAt(in, m)
		if match(field) {
			return field, true
		}
	}
	return Field{}, false
}

func fieldAt(in string, m []int) Field {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return in[m[2*i]:m[2*i+1]]
	}
	return Field{
		Inner:   strings.TrimSpace(group(1)),
		Name:    strings.TrimSpace(group(2)),
		Context: strings.TrimSpace(group(3)),
		Start:   m[0],
		End:     m[1],
	}
}

func compileFilter(filter []Filter) func(Field) bool {
	if len(filter) == 0 {
		return func(Field) bool { return true }
	}
	f := filter[0]

	var namePattern, contextPattern *regexp.Regexp
	if f.Name != "" {
		namePattern = regexp.MustCompile(f.Name)
	}
	if f.Context != "" {
		contextPattern = regexp.MustCompile(f.Context)
	}

	return func(field Field) bool {
		nameOK := namePattern == nil ||
			(field.Name != "" && namePattern.MatchString(field.Name))
		contextOK := contextPattern == nil ||
			(field.Context != "" && contextPattern.MatchString(field.Context))
		if f.Strict {
			return nameOK && contextOK
		}
		return nameOK || contextOK
	}
}
