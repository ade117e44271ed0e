package eligibility

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// categoryKeywords maps normalized keywords to activity types.
// Order matters: within a single category the first keyword found wins.
var categoryKeywords = []struct {
	keyword  string
	activity ActivityType
}{
	{"sport", TypeSport},
	{"culture", TypeCulture},
	{"scolar", TypeCulture},
	{"vacance", TypeVacation},
	{"colo", TypeVacation},
	{"sejour", TypeVacation},
}

// ClassifyCategories maps an activity's free-text categories onto the closed
// ActivityType enum. Categories are scanned in the caller's order and the
// first one that carries a known keyword decides. Nothing recognizable means
// TypeLeisure.
func ClassifyCategories(categories []string) ActivityType {
	for _, category := range categories {
		if t, ok := ClassifyCategory(category); ok {
			return t
		}
	}
	return TypeLeisure
}

// ClassifyCategory classifies a single category string.
// It reports false when no keyword matches.
func ClassifyCategory(category string) (ActivityType, bool) {
	normalized := NormalizeCategory(category)
	if normalized == "" {
		return "", false
	}
	for _, entry := range categoryKeywords {
		if strings.Contains(normalized, entry.keyword) {
			return entry.activity, true
		}
	}
	return "", false
}

// NormalizeCategory trims, lower-cases and strips accents, so "Séjours Été"
// and "sejours ete" compare equal.
func NormalizeCategory(category string) string {
	folded, _, err := transform.String(accentFolder(), strings.TrimSpace(category))
	if err != nil {
		folded = category
	}
	return strings.ToLower(folded)
}

// accentFolder returns a fresh transformer; transform.Chain keeps state and
// is not safe for concurrent use.
func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
