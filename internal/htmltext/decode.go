// Package htmltext turns raw markup fragments into printable text.
//
// Response-sheet documents interleave question text with presentational
// markup, superscript/subscript math and a mix of named and numeric
// entities. Decode keeps only what a human would read: block boundaries
// become newlines, everything else collapses to plain text.
package htmltext

import (
	"html"
	"regexp"
	"strings"
)

var (
	reSup      = regexp.MustCompile(`(?is)<sup[^>]*>(.*?)</sup>`)
	reSub      = regexp.MustCompile(`(?is)<sub[^>]*>(.*?)</sub>`)
	reBlockEnd = regexp.MustCompile(`(?i)<br\s*/?>|</p\s*>|</div\s*>|</li\s*>`)
	reTag      = regexp.MustCompile(`(?s)<[^>]*>`)
	reDangling = regexp.MustCompile(`<[^>]*$`)
	reSpaces   = regexp.MustCompile(`[ \t\x{00a0}]+`)
	reBlank    = regexp.MustCompile(`\n\s*\n+`)
)

// Unicode has dedicated glyphs only for the common power-of-two and
// power-of-three cases; everything else falls back to caret notation.
var supDigits = map[string]string{"2": "²", "3": "³"}

// Decode strips tags from an HTML fragment and returns best-effort plain
// text. It never fails: malformed markup degrades to whatever text is
// recoverable. Newlines mark block-level boundaries (<br>, </p>, </div>,
// </li>); runs of whitespace within a line collapse to a single space.
func Decode(fragment string) string {
	if fragment == "" {
		return ""
	}
	s := fragment

	s = reSup.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(reTag.ReplaceAllString(reSup.FindStringSubmatch(m)[1], ""))
		if g, ok := supDigits[inner]; ok {
			return g
		}
		if len(inner) == 1 && inner[0] >= '0' && inner[0] <= '9' {
			return "^" + inner
		}
		return inner
	})
	s = reSub.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(reTag.ReplaceAllString(reSub.FindStringSubmatch(m)[1], ""))
		if len(inner) == 1 && inner[0] >= '0' && inner[0] <= '9' {
			return "[" + inner + "]"
		}
		return inner
	})

	s = reBlockEnd.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, "")
	s = reDangling.ReplaceAllString(s, "")

	// Named and numeric entities, including math operators, Greek letters
	// and currency signs.
	s = html.UnescapeString(s)

	s = reSpaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = reBlank.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
