// Package view implements the page-view controller for a rendered card
// sheet. It operates on an explicit parsed document rather than a live
// browser DOM: the generator runs the load-time pipeline over its output so
// the static page starts in a consistent state, and the preview server
// applies toggle actions server-side. The emitted cards.js asset mirrors
// the same operations client-side for fully static use.
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Element classes and ids the controller operates on. The generator emits
// documents using these names.
const (
	ClassCutGuide      = "cut-guide"
	ClassFooterContent = "page-footer-content"
	ClassFooter        = "page-footer"
	ClassPage          = "page"
	ClassPageBacks     = "page-backs"
	ClassCard          = "card"
	ClassCoverCard     = "card-size-cover"
	ClassPageNumberTag = "page-number-tag"
	ClassFiller        = "filler"
	ClassUIAction      = "ui-action"

	IDToggleFooterOn    = "toggle-footer-on"
	IDToggleFooterOff   = "toggle-footer-off"
	IDToggleCutGuidesOn = "toggle-cut-guides-on"
	IDToggleCutGuidesOf = "toggle-cut-guides-off"
	IDToggleBacksOn     = "toggle-card-backs-on"
	IDToggleBacksOff    = "toggle-card-backs-off"
	IDToggleTwoSidedOn  = "toggle-two-sided-on"
	IDToggleTwoSidedOff = "toggle-two-sided-off"
	IDToggleBacks       = "toggle-card-backs"
	IDToggleTwoSided    = "toggle-two-sided"
	IDHelpModal         = "ui-modal-help"
	IDToolbar           = "toolbar"
	IDToolbarInner      = "ui-toolbar-inner"
	IDStats             = "ui-stats"
)

// View is the controller state over one parsed document.
type View struct {
	mu  sync.Mutex
	doc *html.Node

	// helpDismiss is set while the help modal is shown; it stands in for
	// the window-level click handler a browser would install.
	helpDismiss bool
}

// Parse reads an HTML document into a View.
func Parse(r io.Reader) (*View, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &View{doc: doc}, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*View, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the document, with all mutations applied, back to HTML.
func (v *View) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return html.Render(w, v.doc)
}

// HTML returns the serialized document as a string.
func (v *View) HTML() (string, error) {
	var b strings.Builder
	if err := v.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// byClass returns all elements carrying the class, in document order.
func (v *View) byClass(class string) []*html.Node {
	sel, err := cascadia.Parse("." + class)
	if err != nil {
		return nil
	}
	return cascadia.QueryAll(v.doc, sel)
}

// byID returns the element with the id, or nil.
func (v *View) byID(id string) *html.Node {
	sel, err := cascadia.Parse("#" + id)
	if err != nil {
		return nil
	}
	return cascadia.Query(v.doc, sel)
}

// queryAll runs a selector against a subtree.
func queryAll(root *html.Node, selector string) []*html.Node {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil
	}
	return cascadia.QueryAll(root, sel)
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// styleProperty reads one property from an element's inline style.
func styleProperty(n *html.Node, property string) string {
	style := attr(n, "style")
	if style == "" {
		return ""
	}
	declarations, err := parser.ParseDeclarations(style)
	if err != nil {
		return ""
	}
	for _, d := range declarations {
		if strings.EqualFold(d.Property, property) {
			return strings.TrimSpace(d.Value)
		}
	}
	return ""
}

// setStyleProperty sets one property in an element's inline style, keeping
// the other declarations intact.
func setStyleProperty(n *html.Node, property, value string) {
	var declarations []string

	if style := attr(n, "style"); style != "" {
		if parsed, err := parser.ParseDeclarations(style); err == nil {
			for _, d := range parsed {
				if strings.EqualFold(d.Property, property) {
					continue
				}
				declarations = append(declarations, fmt.Sprintf("%s: %s;", d.Property, strings.TrimSpace(d.Value)))
			}
		}
	}
	declarations = append(declarations, fmt.Sprintf("%s: %s;", property, value))
	setAttr(n, "style", strings.Join(declarations, " "))
}

// textContent returns the concatenated text of a subtree.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// setText replaces an element's children with a single text node.
func setText(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// setInnerHTML replaces an element's children with parsed fragment nodes.
func setInnerHTML(n *html.Node, fragment string) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), n)
	if err != nil {
		setText(n, fragment)
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	for _, child := range nodes {
		n.AppendChild(child)
	}
}

func remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// attached reports whether n is still reachable from the document root.
func attached(n *html.Node, root *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}
