// Package place canonicalizes free-text place names and generates the
// geocoding candidates tried for them.
package place

import (
	"regexp"
	"strings"
)

var (
	commaSpacing = regexp.MustCompile(`[\s\p{Zs}]*,[\s\p{Zs}]*`)
	whitespace   = regexp.MustCompile(`[\s\p{Zs}]+`)
	twoLetters   = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// Normalize trims the input and collapses whitespace. Any spacing around a
// comma becomes a single ", " separator. Case is left untouched.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	s = commaSpacing.ReplaceAllString(s, ", ")
	return whitespace.ReplaceAllString(s, " ")
}

// Parts splits q on commas and returns the trimmed, non-empty segments.
func Parts(q string) []string {
	raw := strings.Split(q, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// AppendCountryHint rewrites "City, ST" as "City, ST, US". Only the strict
// two-part shape with a two-letter alphabetic second part is rewritten, since
// two-letter tokens elsewhere are usually country codes.
func AppendCountryHint(q string) string {
	parts := Parts(q)
	if len(parts) != 2 || !twoLetters.MatchString(parts[1]) {
		return q
	}
	return parts[0] + ", " + strings.ToUpper(parts[1]) + ", US"
}

// Candidates returns the geocoding queries for input in the order they should
// be tried: the normalized input, the input with a country hint, and the input
// with ", US" appended. Exact duplicates are dropped.
func Candidates(input string) []string {
	normalized := Normalize(input)
	ordered := []string{normalized, AppendCountryHint(normalized), normalized + ", US"}

	seen := make(map[string]struct{}, len(ordered))
	out := make([]string, 0, len(ordered))
	for _, c := range ordered {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
