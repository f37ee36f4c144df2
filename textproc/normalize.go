package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text to NFD and removes combining diacritical marks,
// leaving plain ASCII-range letters for the accented source language.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases text and strips diacritics.
// It is a pure function and idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, strings.ToLower(text))
	if err != nil {
		// The transform chain cannot fail on valid UTF-8; malformed input
		// falls back to the lower-cased original.
		return strings.ToLower(text)
	}
	return out
}
