// Package casing converts schema identifiers between word sequences,
// snake_case and PascalCase, and renders Go identifiers from them.
package casing

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits an identifier into lower-cased words. Underscores, hyphens and
// spaces separate words, and so does a lower-to-upper case transition. A run
// of upper-case letters stays in one word, so "supportsANSIStyling" yields
// ["supports", "ansistyling"].
func Words(raw string) []string {
	var (
		words     []string
		last      strings.Builder
		prevUpper bool
	)
	flush := func() {
		if last.Len() > 0 {
			words = append(words, last.String())
			last.Reset()
		}
	}
	for _, r := range raw {
		upper := unicode.IsUpper(r)
		switch {
		case r == '_' || r == ' ' || r == '-':
			flush()
		case upper && !prevUpper:
			flush()
			last.WriteRune(unicode.ToLower(r))
		default:
			last.WriteRune(unicode.ToLower(r))
		}
		prevUpper = upper
	}
	flush()
	return words
}

// SnakeCase joins the words of raw with underscores. A result that collides
// with a Go keyword (most commonly "type") gets a trailing underscore.
func SnakeCase(raw string) string {
	s := strings.Join(Words(raw), "_")
	if token.IsKeyword(s) {
		return s + "_"
	}
	return s
}

// PascalCase upper-cases the first letter of every word of raw and joins them.
func PascalCase(raw string) string {
	title := cases.Title(language.English)
	var b strings.Builder
	for _, w := range Words(raw) {
		b.WriteString(title.String(w))
	}
	return b.String()
}
