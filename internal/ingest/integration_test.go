//go:build integration

package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/embed"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/stretchr/testify/require"
)

// fakeEmbedServer stands in for Ollama, returning a deterministic vector
// per input so assertions don't depend on a real model being installed.
func fakeEmbedServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		embeddings := make([][]float32, len(req.Input))
		for i := range req.Input {
			v := make([]float32, dims)
			v[0] = float32(i + 1)
			embeddings[i] = v
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
	}))
}

func TestPipelineRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx)
	require.NoError(t, err, "requires a reachable Postgres instance with the vector extension")
	t.Cleanup(store.Close)

	const idx = "integration_ingest_idx"
	require.NoError(t, store.ClearIndex(ctx, idx))
	t.Cleanup(func() { _ = store.ClearIndex(ctx, idx) })
	require.NoError(t, store.Provision(ctx, idx, 4))

	srv := fakeEmbedServer(t, 4)
	t.Cleanup(srv.Close)
	t.Setenv("COCOSEARCH_OLLAMA_URL", srv.URL)
	embedder := embed.New("test-model", 4)

	registry, err := handlers.NewRegistry()
	require.NoError(t, err)
	extractor, err := symbols.NewExtractor()
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"),
		[]byte("package main\n\nfunc Greet() string {\n\treturn \"hi\"\n}\n"), 0o644))

	p := New(store, registry, extractor, embedder, idx, root, 2)
	summary, err := p.Run(ctx, config.IndexingConfig{ChunkSize: 1000, ChunkOverlap: 100}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, summary.FilesAdded)
	require.Equal(t, 0, summary.FilesUpdated)

	stats, err := store.IndexStats(ctx, idx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Files)
	require.GreaterOrEqual(t, stats.Chunks, 1)

	hits, err := store.KeywordSearch(ctx, idx, "greet", 5, storage.SearchFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	// Re-running against the same tree reports the file as updated, not added.
	summary, err = p.Run(ctx, config.IndexingConfig{ChunkSize: 1000, ChunkOverlap: 100}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, summary.FilesAdded)
	require.Equal(t, 1, summary.FilesUpdated)

	// Deleting the source file removes its rows on the next run.
	require.NoError(t, os.Remove(filepath.Join(root, "main.go")))
	summary, err = p.Run(ctx, config.IndexingConfig{ChunkSize: 1000, ChunkOverlap: 100}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, summary.FilesRemoved)

	stats, err = store.IndexStats(ctx, idx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Files)
}
