// Package generator renders CSV datasources into a printable deck: one
// index.html of paged cards plus its CSS and JS assets.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cardpress/cardpress/internal/autotemplate"
	"github.com/cardpress/cardpress/internal/datasource"
	"github.com/cardpress/cardpress/internal/layout"
	"github.com/cardpress/cardpress/internal/progress"
	"github.com/cardpress/cardpress/internal/resource"
	"github.com/cardpress/cardpress/internal/template"
	"github.com/cardpress/cardpress/internal/view"
	"github.com/cardpress/cardpress/internal/warning"
)

// MaxCards caps a single generation run. Decks beyond this point the
// browser will struggle to lay out, and a runaway @count column should
// fail loudly rather than fill the disk.
const MaxCards = 1000

// Options configures one generation run.
type Options struct {
	// ProjectRoot is the directory datasources are discovered under.
	ProjectRoot string
	// OutputPath is the directory the deck is written to.
	OutputPath string
	// Datasources lists explicit CSV paths; when empty they are
	// discovered under ProjectRoot.
	Datasources []string
	// Patterns are the discovery globs; DefaultDiscoverPatterns when nil.
	Patterns []string
	// DefinitionsPath names the definitions file; auto-located next to the
	// first datasource when empty.
	DefinitionsPath string
	// DefaultSize is the card size identifier used when a datasource
	// declares none; layout.DefaultCardSize when empty.
	DefaultSize string
	// Preview caps every row at a single copy.
	Preview bool
	// ForcePageBreaks starts a fresh page for every datasource.
	ForcePageBreaks bool
	// DisableBacks skips back faces even when @template-back columns exist.
	DisableBacks bool
	// Version is stamped into the generated document.
	Version string

	Display  *warning.Display
	Reporter progress.Reporter
	// Now is the timestamp date fields render with; time.Now when zero.
	Now time.Time
}

// Result summarizes a finished run.
type Result struct {
	IndexPath   string
	Datasources []string
	Cards       int
	Pages       int
	Warnings    int
	Errors      int
	Duration    time.Duration
}

// Generate renders the project's datasources into opts.OutputPath.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()

	display := opts.Display
	if display == nil {
		display = warning.NewDisplay(false)
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.NullReporter{}
	}

	paths := opts.Datasources
	if len(paths) == 0 {
		var err error
		paths, err = datasource.Discover(opts.ProjectRoot, opts.Patterns)
		if err != nil {
			return nil, fmt.Errorf("discovering datasources: %w", err)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no datasources found under %s", opts.ProjectRoot)
	}

	sources := make([]*datasource.Source, 0, len(paths))
	byPath := make(map[string]*datasource.Source, len(paths))
	for _, path := range paths {
		source, err := datasource.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening datasource: %w", err)
		}
		for _, invalid := range datasource.InvalidColumns(source.Columns) {
			display.Warnf(warning.Context{Source: path}, "invalid column: %s", invalid)
		}
		sources = append(sources, source)
		byPath[path] = source
	}

	definitions := map[string]string{}
	defPath, haveDefs := opts.DefinitionsPath, opts.DefinitionsPath != ""
	if !haveDefs {
		defPath, haveDefs = datasource.FindDefinitionsPath(paths)
	}
	if haveDefs {
		var err error
		definitions, err = datasource.LoadDefinitions(defPath)
		if err != nil {
			return nil, fmt.Errorf("loading definitions: %w", err)
		}
	}

	resolver := &template.Resolver{
		Definitions: definitions,
		Display:     display,
		Now:         opts.Now,
		RowLookup: func(path string, number int) (datasource.Row, bool) {
			source, ok := byPath[path]
			if !ok {
				return datasource.Row{}, false
			}
			return source.RowAt(number)
		},
	}

	run := &deckRun{
		opts:      opts,
		display:   display,
		resolver:  resolver,
		templates: map[string]*deckTemplate{},
	}

	total := 0
	for _, source := range sources {
		for _, row := range source.Rows() {
			if !row.Comment {
				total++
			}
		}
	}
	reporter.Start(total)
	defer reporter.Finish()

	defaultSize := layout.DefaultCardSize()
	if opts.DefaultSize != "" {
		resolved, ok := layout.CardSize(opts.DefaultSize)
		if !ok {
			display.Warnf(warning.Context{},
				"unknown card size %q; using %s", opts.DefaultSize, defaultSize.Identifier)
		} else {
			defaultSize = resolved
		}
	}

	current := 0
	for _, source := range sources {
		size := defaultSize
		if source.SizeIdentifier != "" {
			resolvedSize, ok := layout.CardSize(source.SizeIdentifier)
			if !ok {
				display.Warnf(warning.Context{Source: source.Path},
					"unknown card size %q; using %s", source.SizeIdentifier, size.Identifier)
			} else {
				size = resolvedSize
			}
		}

		run.breakBefore(opts.ForcePageBreaks)
		for _, row := range source.Rows() {
			if row.Comment {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			current++
			reporter.Update(current, fmt.Sprintf("%s row %d", filepath.Base(source.Path), row.Index))
			if err := run.renderRow(source, row, size); err != nil {
				return nil, err
			}
		}
	}

	document, pages, err := run.assemble()
	if err != nil {
		return nil, err
	}
	if err := run.write(document); err != nil {
		return nil, err
	}
	run.copyResources()

	return &Result{
		IndexPath:   filepath.Join(opts.OutputPath, "index.html"),
		Datasources: paths,
		Cards:       len(run.cards),
		Pages:       pages,
		Warnings:    display.Warnings(),
		Errors:      display.Errors(),
		Duration:    time.Since(started),
	}, nil
}

// card is one rendered card awaiting pagination.
type card struct {
	content string
	back    string
	hasBack bool
	size    layout.Size
	// breakBefore forces this card onto a fresh page.
	breakBefore bool
}

// deckTemplate caches a loaded template with its hoisted style blocks.
type deckTemplate struct {
	template template.Template
	styles   string
	err      error
}

type deckRun struct {
	opts     Options
	display  *warning.Display
	resolver *template.Resolver

	templates map[string]*deckTemplate
	autos     map[string]*deckTemplate

	cards      []card
	forceBreak bool
	// usedDefinitions collects definition references seen while rendering
	// cards and styles, so the unused-definition check sees the whole run.
	usedDefinitions map[string]bool
	// images maps a rendered image path to the template directory it was
	// referenced from, for resolving relative paths at copy time.
	images map[string]string
	copied []string
}

func (run *deckRun) breakBefore(force bool) {
	if force {
		run.forceBreak = true
	}
}

// loadTemplate loads and caches a template, hoisting its style blocks.
func (run *deckRun) loadTemplate(path, relativeTo string) *deckTemplate {
	key := filepath.Join(filepath.Dir(relativeTo), path)
	if cached, ok := run.templates[key]; ok {
		return cached
	}

	entry := &deckTemplate{}
	loaded, err := template.Load(path, relativeTo)
	if err != nil {
		entry.err = err
	} else {
		styles, _ := template.StripStyles(&loaded)
		entry.template = loaded
		entry.styles = styles
	}
	run.templates[key] = entry
	return entry
}

// autoTemplate builds and caches the inferred template for a datasource.
func (run *deckRun) autoTemplate(source *datasource.Source) *deckTemplate {
	if run.autos == nil {
		run.autos = map[string]*deckTemplate{}
	}
	if cached, ok := run.autos[source.Path]; ok {
		return cached
	}
	entry := &deckTemplate{
		template: template.Template{
			Content: autotemplate.FromRows(source.Columns, source.Rows()),
			Path:    source.Path,
		},
	}
	run.autos[source.Path] = entry
	return entry
}

// copyCount reads a row's copy count. Missing means one; zero or negative
// skips the row; garbage warns and falls back to one.
func (run *deckRun) copyCount(source *datasource.Source, row datasource.Row) int {
	value, ok := row.Get(datasource.ColumnCount)
	if !ok || value == "" {
		return 1
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		run.display.Warnf(
			warning.Context{Source: source.Path, RowIndex: row.Index},
			"invalid count %q; using 1", value)
		return 1
	}
	if count < 0 {
		return 0
	}
	return count
}

// renderRow renders every copy of a row's card, front and back.
func (run *deckRun) renderRow(source *datasource.Source, row datasource.Row, size layout.Size) error {
	count := run.copyCount(source, row)
	if count == 0 {
		return nil
	}
	if run.opts.Preview {
		count = 1
	}

	front := run.rowTemplate(source, row, datasource.ColumnTemplate)
	backPath, _ := row.Get(datasource.ColumnTemplateBack)
	if run.opts.DisableBacks {
		backPath = ""
	}

	for copyIndex := 1; copyIndex <= count; copyIndex++ {
		if len(run.cards) >= MaxCards {
			return fmt.Errorf("deck exceeds %d cards; check the %s column", MaxCards, datasource.ColumnCount)
		}
		cardIndex := len(run.cards) + 1

		next := card{size: size, breakBefore: run.forceBreak}
		run.forceBreak = false
		next.content = run.renderSide(front, row.Front(), size, cardIndex, copyIndex)

		if backPath != "" {
			back := run.loadTemplate(backPath, source.Path)
			next.back = run.renderSide(back, row.Back(), size, cardIndex, copyIndex)
			next.hasBack = true
		}
		run.cards = append(run.cards, next)
	}
	return nil
}

// rowTemplate picks the row's front template: the @template column when
// set, the inferred one otherwise.
func (run *deckRun) rowTemplate(source *datasource.Source, row datasource.Row, column string) *deckTemplate {
	path, _ := row.Get(column)
	if path == "" {
		return run.autoTemplate(source)
	}
	return run.loadTemplate(path, source.Path)
}

// renderSide renders one face of a card, substituting the error card when
// the template could not be loaded.
func (run *deckRun) renderSide(entry *deckTemplate, row datasource.Row, size layout.Size, cardIndex, copyIndex int) string {
	if entry.err != nil {
		run.display.Errorf(
			warning.Context{Source: row.Path, RowIndex: row.Index, CardIndex: cardIndex},
			"loading template: %v", entry.err)
		errorContent := template.Fill("_error_message", entry.err.Error(), errorCard)
		content, _ := run.resolver.FillCard(
			template.Template{Content: errorContent, Path: entry.template.Path}, row, cardIndex, copyIndex)
		return template.SizedCard(cardContainer, size.Style, content)
	}

	content, result := run.resolver.FillCard(entry.template, row, cardIndex, copyIndex)
	ctx := warning.Context{Source: row.Path, RowIndex: row.Index, CardIndex: cardIndex, CardCopy: copyIndex}
	for _, name := range result.UnknownFields {
		run.display.Warnf(ctx, "unknown field {{ %s }}", name)
	}
	for _, column := range result.UnusedColumns {
		run.display.Warnf(ctx, "column %q is not used by the template", column)
	}
	for _, image := range result.ImagePaths {
		run.noteImage(image, entry.template.Path)
	}
	run.noteDefinitions(result.ReferencedDefinitions)
	return template.SizedCard(cardContainer, size.Style, content)
}

func (run *deckRun) noteDefinitions(referenced map[string]bool) {
	if run.usedDefinitions == nil {
		run.usedDefinitions = map[string]bool{}
	}
	for name := range referenced {
		run.usedDefinitions[name] = true
	}
}

func (run *deckRun) noteImage(path, contextPath string) {
	if run.images == nil {
		run.images = map[string]string{}
	}
	if _, ok := run.images[path]; !ok {
		run.images[path] = contextPath
	}
}

// assemble paginates the rendered cards, fills the index document and runs
// the page-view normalization pass over it.
func (run *deckRun) assemble() (document string, pageCount int, err error) {
	footer, _ := run.resolver.DefinitionContent(template.FieldPageFooter)

	var pages []string
	for _, group := range paginate(run.cards) {
		pages = append(pages, run.renderPage(group, footer, len(pages)+1, false))
		if group.hasBacks() {
			pages = append(pages, run.renderPage(group, footer, len(pages)+1, true))
		}
	}

	index, result := run.resolver.FillIndex(
		indexPage, run.collectStyles(), strings.Join(pages, "\n"),
		len(pages), len(run.cards), run.opts.Version)
	for _, image := range result.ImagePaths {
		run.noteImage(image, filepath.Join(run.opts.ProjectRoot, "index.html"))
	}
	run.warnUnusedDefinitions(result)

	v, err := view.ParseString(index)
	if err != nil {
		return "", 0, fmt.Errorf("normalizing generated document: %w", err)
	}
	v.OnLoad()
	document, err = v.HTML()
	if err != nil {
		return "", 0, fmt.Errorf("serializing generated document: %w", err)
	}
	return document, len(pages), nil
}

// collectStyles joins the style blocks hoisted from every loaded template,
// resolving any definition fields they contain.
func (run *deckRun) collectStyles() string {
	var keys []string
	for key := range run.templates {
		keys = append(keys, key)
	}
	sortStrings(keys)

	var blocks []string
	seen := map[string]bool{}
	for _, key := range keys {
		entry := run.templates[key]
		if entry.styles == "" || seen[entry.styles] {
			continue
		}
		seen[entry.styles] = true
		filled, referenced := run.resolver.FillDefinitions(entry.styles)
		run.noteDefinitions(referenced)
		blocks = append(blocks, filled)
	}
	return strings.Join(blocks, "\n")
}

// warnUnusedDefinitions flags definitions nothing referenced. Metadata
// definitions are always consulted by the index fill, so they never count
// as unused.
func (run *deckRun) warnUnusedDefinitions(result *template.RenderResult) {
	for name := range run.resolver.Definitions {
		if result.ReferencedDefinitions[name] || run.usedDefinitions[name] {
			continue
		}
		if strings.HasPrefix(name, "_") {
			continue
		}
		run.display.Warnf(warning.Context{Source: datasource.DefinitionsFilename},
			"definition %q is never used", name)
	}
}

// write emits the document and its static assets under the output path.
func (run *deckRun) write(document string) error {
	files := map[string]string{
		"index.html":    document,
		"css/cards.css": cardsCSS,
		"css/index.css": indexCSS,
		"js/cards.js":   cardsJS,
	}
	for name, content := range files {
		path := filepath.Join(run.opts.OutputPath, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// copyResources copies referenced images next to the document and warns
// about leftovers from previous runs.
func (run *deckRun) copyResources() {
	byContext := map[string][]string{}
	for image, contextPath := range run.images {
		byContext[contextPath] = append(byContext[contextPath], image)
	}

	var contexts []string
	for contextPath := range byContext {
		contexts = append(contexts, contextPath)
	}
	sortStrings(contexts)

	for _, contextPath := range contexts {
		images := byContext[contextPath]
		sortStrings(images)
		run.copied = append(run.copied,
			resource.CopyImages(images, contextPath, run.opts.OutputPath, run.display)...)
	}

	names, _ := resource.Unused(run.opts.OutputPath, run.copied)
	for _, name := range names {
		run.display.Warnf(warning.Context{Source: run.opts.OutputPath},
			"resource %q is no longer referenced", name)
	}
}
