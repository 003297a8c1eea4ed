package search

import "time"

// Diagnostics is the per-stage record the read-only analyze_query
// operation returns, per spec.md §4.10 "Observability" / §9.
type Diagnostics struct {
	Query                  string        `json:"query"`
	NormalizedKeywordQuery string        `json:"normalized_keyword_query"`
	IdentifierDetected     bool          `json:"identifier_detected"`
	HybridEnabled          bool          `json:"hybrid_enabled"`
	VectorCandidateCount   int           `json:"vector_candidate_count"`
	KeywordCandidateCount  int           `json:"keyword_candidate_count"`
	BothCount              int           `json:"both_count"`
	SemanticOnlyCount      int           `json:"semantic_only_count"`
	KeywordOnlyCount       int           `json:"keyword_only_count"`
	DefinitionBoostApplied int           `json:"definition_boost_applied"`
	ResultCount            int           `json:"result_count"`
	Duration               time.Duration `json:"duration"`
}
