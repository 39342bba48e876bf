package site

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes Unicode text and removes combining marks, so
// "Résumé" slugifies to "resume" rather than dropping the accented runes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases a title and collapses whitespace and punctuation
// runs into single hyphens. The result is deterministic for a given input.
func Slugify(title string) string {
	if out, _, err := transform.String(stripMarks, title); err == nil {
		title = out
	}
	title = strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
