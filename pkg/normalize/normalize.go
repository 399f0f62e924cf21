// Package normalize canonicalizes free-text player and team names so the
// same comparison logic works across providers that render names with
// accents, suffixes, punctuation, or inconsistent casing. The same
// normalization must be applied to both the query and every candidate or
// matching silently degrades.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases, strips diacritics (NFD decomposition + combining
// mark removal), drops everything that is not an ASCII letter, digit, or
// space, and collapses whitespace runs. It is total and idempotent; empty
// input yields the empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	decomposed := norm.NFD.String(raw)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining marks from decomposition
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ' || r == '\t' || r == '\n':
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits the normalized form of raw on spaces, discarding empties
func Tokenize(raw string) []string {
	n := Normalize(raw)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// MatchesQuery reports whether candidate plausibly names the queried
// player. Every token of a multi-token query must appear as a substring of
// the normalized candidate; a single-token query needs only that one hit.
// Deliberately permissive: "james" matches "lebron james". Disambiguation
// beyond game context is the caller's problem.
func MatchesQuery(query, candidate string) bool {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return false
	}

	c := Normalize(candidate)
	for _, tok := range tokens {
		if !strings.Contains(c, tok) {
			return false
		}
	}
	return true
}
