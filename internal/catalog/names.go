package catalog

import (
	"strings"
	"unicode"
)

// CleanName converts a product name into the stem used for its model asset
// files: punctuation is dropped and each run of whitespace becomes a single
// underscore. "Milk (1L) Pack" becomes "Milk_1L_Pack".
func CleanName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	inSpace := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			b.WriteRune(r)
			inSpace = false
		default:
			// Punctuation does not end a whitespace run: "a - b" is "a_b".
		}
	}
	return b.String()
}
