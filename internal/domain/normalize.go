package domain

import (
	"strings"
)

// NormalizeQuery prepares a search query for matching:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//
// Inner whitespace is preserved so that "contains" keeps its literal meaning.
// A whitespace-only query normalizes to "".
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	return strings.ToLower(q)
}

// NormalizeFacet trims a raw facet parameter. Keys are case-sensitive.
func NormalizeFacet(raw string) FacetKey {
	return FacetKey(strings.TrimSpace(raw))
}
