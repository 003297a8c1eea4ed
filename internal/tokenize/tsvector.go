package tokenize

import "strings"

// Weight assignment for content_tsv, resolving spec.md §9's open question:
// identifier-derived components outrank prose so identifier-style queries
// (spec.md §8 property 8, Scenario B) rank highly on exact-name matches.
const (
	WeightIdentifier = "A"
	WeightProse      = "B"
	WeightMetadata   = "D"
)

// BuildTSVectorExpr returns a parameterised SQL expression (using "?"
// placeholders, converted to $N by the caller's query builder) that
// computes a weighted tsvector for one chunk: the raw chunk text at
// WeightProse, and the component terms of every identifier found in the
// text (via ExpandIdentifiers) plus symbolName's own components (split
// the same way query-side identifiers are) at WeightIdentifier. Splitting
// identifiers that occur in the body, not only in symbolName, is what
// lets a snake_case-in-source symbol like "get_user_by_id" match a
// camelCase query like "getUserById" (spec.md §8 Scenario B). Empty text
// yields an empty (non-null) tsvector, per spec.md §3.
func BuildTSVectorExpr(text, symbolName string) (string, []interface{}) {
	terms := ExpandIdentifiers(text)
	terms = append(terms, SplitIdentifier(symbolName)...)
	identifierTerms := strings.Join(terms, " ")

	expr := "setweight(to_tsvector('simple', ?), '" + WeightProse + "') || " +
		"setweight(to_tsvector('simple', ?), '" + WeightIdentifier + "')"
	return expr, []interface{}{text, identifierTerms}
}
