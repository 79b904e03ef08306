package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders full markdown documents pulled in through include fields.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// IncludeProblem describes an include field that could not be resolved.
type IncludeProblem struct {
	Path       string // the missing file, or "" when no path was given
	LineNumber int
	Inline     bool
}

// FillIncludeFields populates {{ include 'f.html' }} and
// {{ inline 'f.html' }} fields. Include keeps file content as-is
// (markdown files are rendered to HTML first); inline additionally strips
// whitespace from each line. Relative paths resolve against basePath's
// directory. Unresolvable includes are reported and filled with a marker.
func FillIncludeFields(basePath, in string) (string, []IncludeProblem) {
	var problems []IncludeProblem

	for {
		field, ok := FirstField(in, Filter{Name: "^(include|inline)$", Strict: true})
		if !ok {
			return in, problems
		}

		isInline := field.Name == FieldInline
		content := ""
		includePath := strings.TrimSpace(dequote(field.Context))

		switch {
		case includePath == "":
			problems = append(problems, IncludeProblem{
				LineNumber: lineNumberAt(field.Start, in),
				Inline:     isInline,
			})
		default:
			path := includePath
			if !filepath.IsAbs(path) && basePath != "" {
				path = filepath.Join(filepath.Dir(basePath), path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				problems = append(problems, IncludeProblem{
					Path:       path,
					LineNumber: lineNumberAt(field.Start, in),
					Inline:     isInline,
				})
				content = "<strong>&lt;included file not found&gt;</strong>"
			} else if isInline {
				var b strings.Builder
				for _, line := range strings.Split(string(data), "\n") {
					b.WriteString(strings.TrimSpace(line))
				}
				content = b.String()
			} else {
				content = strings.TrimSpace(string(data))
				if strings.EqualFold(filepath.Ext(path), ".md") {
					rendered, err := renderMarkdownFile(data)
					if err == nil {
						content = rendered
					}
				}
			}
		}

		// Includes can contribute new fields, so restart the scan after
		// each fill. Inlines are never indented.
		in = FillSingle(field, content, in, !isInline)
	}
}

func renderMarkdownFile(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown include: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
