// Package textmatch implements the case-insensitive substring rule used by
// every catalog lookup: fields are joined with a single space, lower-cased,
// and tested for the query anywhere in the combined string.
//
// Matching is deliberately not tokenized, so a query may span the boundary
// between two fields.
package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims and lower-cases a raw query. An empty result means
// "no search performed".
func Normalize(query string) string {
	return fold(strings.TrimSpace(query))
}

// Contains reports whether the normalized query occurs in the combined fields.
// An empty query never matches.
func Contains(query string, fields ...string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(fold(strings.Join(fields, " ")), query)
}

// cases.Caser is stateful and not safe for concurrent use, so each call gets its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
