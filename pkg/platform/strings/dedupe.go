// Package strings holds small slice-hygiene helpers for user-supplied string
// lists: attachment references, rule sources, and jurisdiction search terms.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element, drops blanks, and removes duplicates
// while keeping first-occurrence order. Used to sanitize attachment and
// source lists before they are persisted.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower additionally lowercases each element. State terms are
// matched case-insensitively, so stores canonicalize them with this before
// querying.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func dedupe(values []string, canon func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		c := canon(v)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			result = append(result, c)
		}
	}
	return result
}
