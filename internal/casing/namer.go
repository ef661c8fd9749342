package casing

import (
	"fmt"
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultAcronyms are words rendered fully upper-case in Go identifiers.
var DefaultAcronyms = map[string]bool{
	"id":      true,
	"uri":     true,
	"url":     true,
	"api":     true,
	"html":    true,
	"http":    true,
	"https":   true,
	"json":    true,
	"jsonrpc": true,
	"rpc":     true,
	"mime":    true,
	"sse":     true,
	"uuid":    true,
}

// Namer renders Go identifiers from schema names.
type Namer struct {
	acronyms map[string]bool
	title    cases.Caser
}

// NewNamer returns a Namer using DefaultAcronyms plus extra. A false entry in
// extra removes a default acronym.
func NewNamer(extra map[string]bool) *Namer {
	acronyms := make(map[string]bool, len(DefaultAcronyms)+len(extra))
	for k, v := range DefaultAcronyms {
		acronyms[k] = v
	}
	for k, v := range extra {
		acronyms[strings.ToLower(k)] = v
	}
	return &Namer{
		acronyms: acronyms,
		title:    cases.Title(language.English),
	}
}

// Name converts raw into an exported Go name. The result is not validated;
// see Ident.
func (n *Namer) Name(raw string) string {
	var b strings.Builder
	for _, w := range Words(raw) {
		if n.acronyms[w] {
			b.WriteString(strings.ToUpper(w))
		} else {
			b.WriteString(n.title.String(w))
		}
	}
	return b.String()
}

// Ident concatenates the Go names of parts and checks the result is a usable
// exported identifier.
func (n *Namer) Ident(parts ...string) (string, error) {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(n.Name(p))
	}
	id := b.String()
	if !token.IsIdentifier(id) || !token.IsExported(id) {
		return "", fmt.Errorf("%q does not form a Go identifier (got %q)", strings.Join(parts, ""), id)
	}
	return id, nil
}
