// Package strings provides string helpers for request normalization.
package strings

import (
	"strings"
)

// CleanList trims each element, applies fold when it is non-nil, and drops
// empty and repeated elements. Order of first occurrence is preserved, so
// callers that give meaning to order (such as category classification) are
// unaffected.
//
// Example:
//
//	CleanList([]string{" ARS ", "ars", "", "aeeh"}, strings.ToLower)
//	// Returns: []string{"ars", "aeeh"}
func CleanList(values []string, fold func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		cleaned := strings.TrimSpace(v)
		if fold != nil {
			cleaned = fold(cleaned)
		}
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		result = append(result, cleaned)
	}
	return result
}

// Lower trims and lowercases an enum-like value.
func Lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimSpacePtr trims whitespace from an optional string pointer.
// Returns nil if input is nil, otherwise returns a pointer to the trimmed string.
func TrimSpacePtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
