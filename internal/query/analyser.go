// Package query normalises search queries and decides search mode, per
// spec.md §4.9, and canonicalises (query, filter) pairs into the cache
// keys spec.md §4.11's two cache tables are keyed by.
package query

import (
	"strings"

	"github.com/cocosearch/cocosearch/internal/tokenize"
)

// Analysis is the outcome of inspecting a raw query string.
type Analysis struct {
	// HasIdentifierPattern is true iff any whitespace-split token looks
	// like camelCase, snake_case, or PascalCase.
	HasIdentifierPattern bool
	// NormalizedKeywordQuery feeds plainto_tsquery('simple', …): each
	// token split the same way index-time identifiers are split, then
	// rejoined with spaces.
	NormalizedKeywordQuery string
}

// Analyze inspects raw per spec.md §4.9's detection and normalisation
// rules.
func Analyze(raw string) Analysis {
	detected := false
	for _, tok := range strings.Fields(raw) {
		if tokenize.HasIdentifierPattern(tok) {
			detected = true
			break
		}
	}
	return Analysis{
		HasIdentifierPattern:  detected,
		NormalizedKeywordQuery: tokenize.NormalizeQuery(raw),
	}
}

// ShouldUseHybrid applies spec.md §4.10 step 2: if the caller pinned
// useHybrid explicitly, honour it; otherwise enable hybrid iff the
// analyser detected an identifier pattern.
func ShouldUseHybrid(a Analysis, useHybrid *bool) bool {
	if useHybrid != nil {
		return *useHybrid
	}
	return a.HasIdentifierPattern
}
