// Package markdown renders the inline formatting dialect used in card text.
//
// Card text is a small subset of Markdown with a few additions that the
// full CommonMark pipeline does not speak: ++inserted++ spans, ^superscript
// and whitespace-count line breaks. Full-document markdown (headers, code
// blocks, tables) is handled by goldmark in the template include path; this
// package only formats column content.
package markdown

import (
	"regexp"
	"strings"
)

var (
	// Bounding *'s: "emphasize *this*", "strong **this**".
	strongPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emphasisPattern = regexp.MustCompile(`\*(.+?)\*`)

	// Underscores only kick in when isolated by whitespace or punctuation;
	// "this_does not work_", "but _this does_", "and (_this too_)".
	// The boundary characters are captured and re-emitted since RE2 has
	// no lookaround.
	strongAltPattern   = regexp.MustCompile(`(^|[^a-zA-Z0-9\\])__(.+?)__($|[^a-zA-Z0-9])`)
	emphasisAltPattern = regexp.MustCompile(`(^|[^a-zA-Z0-9\\])_(.+?)_($|[^a-zA-Z0-9])`)

	// Preceding ^; "5 kg/m^3".
	superPattern = regexp.MustCompile(`\^(.+?)(\s|$)`)

	deletedPattern  = regexp.MustCompile(`~~(.+?)~~`)
	insertedPattern = regexp.MustCompile(`\+\+(.+?)\+\+`)

	// Any run of 2 whitespace breaks once; exactly 3 between non-whitespace
	// breaks twice (a shortcut, since 2 breaks is common).
	breakLinePattern    = regexp.MustCompile(`\s{2}`)
	breakLineAltPattern = regexp.MustCompile(`(\S)\s{3}(\S)`)

	escapePattern = regexp.MustCompile(`\\([*_])`)
)

// Placeholder runes protect escaped markers from the formatting passes;
// they are restored as literal characters at the end.
const (
	litStar       = "\x00"
	litUnderscore = "\x01"
)

// Render transforms inline formatting in content into HTML.
//
// Supports:
//
//	*emphasis*, _emphasis_
//	**strong**, __strong__, "they can _also be **combined**_"
//	~~deleted~~, ++inserted++
//	superscript^5
//	line breaks from runs of 2 whitespace ("break  once", "break    twice"),
//	or exactly 3 whitespace for a double break
//	backslash escapes: \*literal\*
func Render(content string) string {
	// Protect escaped markers before anything else can match them.
	content = escapePattern.ReplaceAllStringFunc(content, func(m string) string {
		if m == `\*` {
			return litStar
		}
		return litUnderscore
	})

	// Most constrained patterns first: ** overrules *, __ overrules _.
	content = strongPattern.ReplaceAllString(content, `<strong>$1</strong>`)
	content = replaceIsolated(strongAltPattern, content, "strong")

	content = emphasisPattern.ReplaceAllString(content, `<em>$1</em>`)
	content = replaceIsolated(emphasisAltPattern, content, "em")

	content = superPattern.ReplaceAllString(content, `<sup>$1</sup>$2`)

	content = deletedPattern.ReplaceAllString(content, `<del>$1</del>`)
	content = insertedPattern.ReplaceAllString(content, `<ins>$1</ins>`)

	// Three spaces first, then any remaining doubles.
	content = breakLineAltPattern.ReplaceAllString(content, `$1<br /><br />$2`)
	content = breakLinePattern.ReplaceAllString(content, `<br />`)

	// Restore escaped markers as literal characters.
	content = strings.ReplaceAll(content, litStar, `*`)
	content = strings.ReplaceAll(content, litUnderscore, `_`)

	return content
}

// replaceIsolated applies an underscore-style pattern repeatedly. The
// pattern consumes one boundary character on each side, so adjacent
// occurrences ("_a_ _b_") need another pass before they all match.
func replaceIsolated(pattern *regexp.Regexp, content, tag string) string {
	replacement := "${1}<" + tag + ">${2}</" + tag + ">${3}"
	for {
		replaced := pattern.ReplaceAllString(content, replacement)
		if replaced == content {
			return replaced
		}
		content = replaced
	}
}
