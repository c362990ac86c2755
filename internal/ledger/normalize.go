package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameReplacer = strings.NewReplacer(
	" ", "",
	"\u3000", "",
	"\uff08", "(",
	"\uff09", ")",
	"\u200b", "",
	"\u200e", "",
	"\u202c", "",
)

// Normalize canonicalizes a product or category descriptor for lookups.
// Spaces (half and full width) and zero-width marks are removed, full-width
// parentheses become ASCII and the result is lower-cased.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = nameReplacer.Replace(name)
	// removing a zero-width mark can expose whitespace at the edges
	name = strings.TrimSpace(name)
	return lowerCase(name)
}

// lowerCase applies full Unicode lower-case mapping. A Caser keeps state, so
// one is built per call.
func lowerCase(s string) string {
	return cases.Lower(language.Und).String(s)
}
