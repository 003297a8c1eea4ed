package search

import (
	"testing"

	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(file string, start, end int) storage.Key {
	return storage.Key{FilePath: file, LocStart: start, LocEnd: end}
}

func TestFuseRRFBothSourcesOutrankSingleSource(t *testing.T) {
	a := key("a.go", 0, 10)
	b := key("b.go", 0, 10)

	vec := []storage.VectorHit{{Key: a, Distance: 0.1}, {Key: b, Distance: 0.2}}
	kw := []storage.KeywordHit{{Key: a, Rank: 0.5}}

	out := fuseRRF(vec, kw)
	require.Len(t, out, 2)
	assert.Equal(t, a, out[0].Key)
	assert.Equal(t, MatchBoth, out[0].matchType())
	assert.Equal(t, MatchSemantic, out[1].matchType())
}

func TestFuseRRFTieBreaksTowardKeyword(t *testing.T) {
	a := key("a.go", 0, 10)
	b := key("b.go", 0, 10)

	// Both ranked #1 in their own single-source list: identical scores.
	vec := []storage.VectorHit{{Key: a, Distance: 0.1}}
	kw := []storage.KeywordHit{{Key: b, Rank: 0.9}}

	out := fuseRRF(vec, kw)
	require.Len(t, out, 2)
	assert.Equal(t, b, out[0].Key, "exact RRF ties should prefer the keyword match")
}

func TestApplyDefinitionBoostIsBoundedAndAdditive(t *testing.T) {
	a := key("a.go", 0, 10)
	b := key("b.go", 0, 10)

	results := []fused{
		{Key: a, Score: 0.02},
		{Key: b, Score: 0.01},
	}
	hasDef := map[storage.Key]bool{b: true}

	boosted := applyDefinitionBoost(results, func(k storage.Key) bool { return hasDef[k] })
	require.Len(t, boosted, 2)

	// a is the top score, normalizes to 1.0 with no boost.
	assert.InDelta(t, 1.0, boosted[0], 1e-9)
	// b is half of a's raw score (0.5 normalized) plus the capped boost.
	assert.InDelta(t, 0.5+definitionBoostCap, boosted[1], 1e-9)
}

func TestApplyDefinitionBoostHandlesAllZeroScores(t *testing.T) {
	a := key("a.go", 0, 10)
	boosted := applyDefinitionBoost([]fused{{Key: a, Score: 0}}, func(storage.Key) bool { return false })
	assert.Equal(t, []float64{0}, boosted)
}
