package search

import (
	"sort"

	"github.com/cocosearch/cocosearch/internal/storage"
)

// MatchType classifies how a result was found, per spec.md §4.10 step 4.
type MatchType string

const (
	MatchSemantic MatchType = "semantic"
	MatchKeyword  MatchType = "keyword"
	MatchBoth     MatchType = "both"
)

// rrfK is the Reciprocal Rank Fusion rank-damping constant, per spec.md
// §4.10 step 4 ("k = 60").
const rrfK = 60

// definitionBoostCap bounds the additive score boost a chunk overlapping
// an extracted definition receives, so it cannot invert a strong
// semantic-only hit (spec.md §4.10 step 5).
const definitionBoostCap = 0.15

// fused is one (filename, location) key's combined ranking signal before
// hydration.
type fused struct {
	Key          storage.Key
	Score        float64
	InVector     bool
	InKeyword    bool
	VectorScore  float64
	KeywordScore float64
}

func (f fused) matchType() MatchType {
	switch {
	case f.InVector && f.InKeyword:
		return MatchBoth
	case f.InVector:
		return MatchSemantic
	default:
		return MatchKeyword
	}
}

// fuseRRF combines vector and keyword hit lists into one ranked list, per
// spec.md §4.10 step 4: each source contributes 1/(k+rank) to a shared
// score keyed by (filename, location); on exact ties, keyword matches
// sort first.
func fuseRRF(vecHits []storage.VectorHit, kwHits []storage.KeywordHit) []fused {
	byKey := make(map[storage.Key]*fused)
	var order []storage.Key

	get := func(k storage.Key) *fused {
		f, ok := byKey[k]
		if !ok {
			f = &fused{Key: k}
			byKey[k] = f
			order = append(order, k)
		}
		return f
	}

	for i, h := range vecHits {
		f := get(h.Key)
		f.InVector = true
		f.VectorScore = h.Distance
		f.Score += 1.0 / float64(rrfK+i+1)
	}
	for i, h := range kwHits {
		f := get(h.Key)
		f.InKeyword = true
		f.KeywordScore = h.Rank
		f.Score += 1.0 / float64(rrfK+i+1)
	}

	out := make([]fused, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		iKw := out[i].InKeyword
		jKw := out[j].InKeyword
		return iKw && !jKw
	})
	return out
}

// applyDefinitionBoost normalises each result's RRF score against the top
// score in the set, then adds a capped constant to results whose chunk
// carries a non-empty symbol_type (it overlaps an extracted definition),
// per spec.md §4.10 step 5.
func applyDefinitionBoost(results []fused, hasDefinition func(storage.Key) bool) []float64 {
	normalized := make([]float64, len(results))
	top := 0.0
	for _, r := range results {
		if r.Score > top {
			top = r.Score
		}
	}
	for i, r := range results {
		n := 0.0
		if top > 0 {
			n = r.Score / top
		}
		if hasDefinition(r.Key) {
			n += definitionBoostCap
		}
		normalized[i] = n
	}
	return normalized
}
