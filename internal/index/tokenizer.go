// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it on non-alphanumeric
// boundaries. No stemming or stop-word removal: queries match the
// indexed fields by prefix, so the token stream must stay literal.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
