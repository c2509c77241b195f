package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the transcript, folds accented characters onto their
// base form, and collapses runs of whitespace to single spaces.
func Normalize(text string) string {
	folded, _, err := transform.String(stripAccents, text)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input.
		folded = text
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
