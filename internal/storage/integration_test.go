//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise the real schema and queries against a live
// Postgres+pgvector instance, reached via COCOSEARCH_DATABASE_URL
// (falling back to DefaultConnString). Run with: go test -tags=integration ./...

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx)
	require.NoError(t, err, "requires a reachable Postgres instance with the vector extension")
	t.Cleanup(s.Close)
	return s
}

func TestProvisionAndClearIndex(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	const idx = "integration_test_idx"

	require.NoError(t, s.ClearIndex(ctx, idx))
	require.NoError(t, s.Provision(ctx, idx, 8))
	t.Cleanup(func() { _ = s.ClearIndex(ctx, idx) })

	exists, err := s.IndexExists(ctx, idx)
	require.NoError(t, err)
	assert.True(t, exists)

	// Re-provisioning is idempotent and never drops data.
	require.NoError(t, s.UpsertChunk(ctx, idx, Chunk{
		FilePath: "a.go", LocStart: 0, LocEnd: 10, Text: "func Foo() {}",
		Embedding: make([]float32, 8), SymbolName: "Foo", SymbolType: "function", LanguageID: "go",
	}))
	require.NoError(t, s.Provision(ctx, idx, 8))

	stats, err := s.IndexStats(ctx, idx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)

	require.NoError(t, s.ClearIndex(ctx, idx))
	exists, err = s.IndexExists(ctx, idx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVectorAndKeywordSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	const idx = "integration_search_idx"

	require.NoError(t, s.ClearIndex(ctx, idx))
	require.NoError(t, s.Provision(ctx, idx, 4))
	t.Cleanup(func() { _ = s.ClearIndex(ctx, idx) })

	require.NoError(t, s.UpsertChunk(ctx, idx, Chunk{
		FilePath: "auth.go", LocStart: 0, LocEnd: 20, Text: "func AuthenticateUser() {}",
		Embedding: []float32{1, 0, 0, 0}, SymbolName: "AuthenticateUser", SymbolType: "function", LanguageID: "go",
	}))
	require.NoError(t, s.UpsertChunk(ctx, idx, Chunk{
		FilePath: "math.go", LocStart: 0, LocEnd: 20, Text: "func AddNumbers() {}",
		Embedding: []float32{0, 1, 0, 0}, SymbolName: "AddNumbers", SymbolType: "function", LanguageID: "go",
	}))

	vecHits, err := s.VectorSearch(ctx, idx, []float32{1, 0, 0, 0}, 5, SearchFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, vecHits)
	assert.Equal(t, "auth.go", vecHits[0].FilePath)

	kwHits, err := s.KeywordSearch(ctx, idx, "authenticate user", 5, SearchFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, kwHits)
	assert.Equal(t, "auth.go", kwHits[0].FilePath)

	filtered, err := s.VectorSearch(ctx, idx, []float32{1, 0, 0, 0}, 5, SearchFilters{Language: "python"})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestSetCanonicalPath_DetectsCollision(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	const idx = "integration_collision_idx"

	require.NoError(t, s.ClearIndex(ctx, idx))
	require.NoError(t, s.Provision(ctx, idx, 4))
	t.Cleanup(func() { _ = s.ClearIndex(ctx, idx) })

	require.NoError(t, s.SetCanonicalPath(ctx, idx, "/home/user/project-a"))
	require.NoError(t, s.SetCanonicalPath(ctx, idx, "/home/user/project-a"))

	err := s.SetCanonicalPath(ctx, idx, "/home/user/project-b")
	require.Error(t, err)
	var collision *ErrPathCollision
	assert.ErrorAs(t, err, &collision)
}

func TestExactCache_RoundTripAndInvalidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	const idx = "integration_cache_idx"

	require.NoError(t, s.ClearIndex(ctx, idx))
	require.NoError(t, s.Provision(ctx, idx, 4))
	t.Cleanup(func() { _ = s.ClearIndex(ctx, idx) })

	payload := []byte(`{"hits":[]}`)
	require.NoError(t, s.StoreExactCache(ctx, idx, "hash1", "sig1", payload))

	blob, hit, err := s.LookupExactCache(ctx, idx, "hash1", "sig1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, string(payload), string(blob))

	// Touching the index invalidates entries older than last_updated_at.
	require.NoError(t, s.TouchIndex(ctx, idx))
	_, hit, err = s.LookupExactCache(ctx, idx, "hash1", "sig1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSemanticCache_ThresholdedLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	const idx = "integration_semantic_cache_idx"

	require.NoError(t, s.ClearIndex(ctx, idx))
	require.NoError(t, s.Provision(ctx, idx, 4))
	t.Cleanup(func() { _ = s.ClearIndex(ctx, idx) })

	payload := []byte(`{"hits":["x"]}`)
	require.NoError(t, s.StoreSemanticCache(ctx, idx, []float32{1, 0, 0, 0}, "sig1", payload))

	blob, hit, err := s.LookupSemanticCache(ctx, idx, []float32{1, 0, 0, 0}, "sig1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, string(payload), string(blob))

	_, hit, err = s.LookupSemanticCache(ctx, idx, []float32{0, 0, 0, 1}, "sig1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestOrphanSweep(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	const idx = "integration_sweep_idx"

	require.NoError(t, s.ClearIndex(ctx, idx))
	require.NoError(t, s.Provision(ctx, idx, 4))
	t.Cleanup(func() { _ = s.ClearIndex(ctx, idx) })

	require.NoError(t, s.UpsertChunks(ctx, idx, []Chunk{
		{FilePath: "keep.go", LocStart: 0, LocEnd: 5, Text: "a", Embedding: make([]float32, 4)},
		{FilePath: "keep.go", LocStart: 5, LocEnd: 10, Text: "b", Embedding: make([]float32, 4)},
		{FilePath: "gone.go", LocStart: 0, LocEnd: 5, Text: "c", Embedding: make([]float32, 4)},
	}))

	require.NoError(t, s.DeleteChunksNotIn(ctx, idx, "keep.go", []Key{{FilePath: "keep.go", LocStart: 0, LocEnd: 5}}))
	require.NoError(t, s.DeleteFilesNotIn(ctx, idx, []string{"keep.go"}))

	stats, err := s.IndexStats(ctx, idx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
}
