//go:build integration

package search

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
	"github.com/cocosearch/cocosearch/internal/ingest"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/stretchr/testify/require"
)

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

func TestEngineSearchEndToEnd(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx)
	require.NoError(t, err, "requires a reachable Postgres instance with the vector extension")
	t.Cleanup(store.Close)

	const idx = "integration_search_engine_idx"
	require.NoError(t, store.ClearIndex(ctx, idx))
	t.Cleanup(func() { _ = store.ClearIndex(ctx, idx) })
	require.NoError(t, store.Provision(ctx, idx, 4))
	require.NoError(t, store.SetCanonicalPath(ctx, idx, t.TempDir()))

	meta, err := store.GetIndexMetadata(ctx, idx)
	require.NoError(t, err)
	root := meta.CanonicalPath

	srv := fakeEmbedServer(t, 4)
	t.Cleanup(srv.Close)
	t.Setenv("COCOSEARCH_OLLAMA_URL", srv.URL)
	embedder := embed.New("test-model", 4)

	registry, err := handlers.NewRegistry()
	require.NoError(t, err)
	extractor, err := symbols.NewExtractor()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "auth.go"),
		[]byte("package main\n\nfunc AuthenticateUser() bool {\n\treturn true\n}\n"), 0o644))

	p := ingest.New(store, registry, extractor, embedder, idx, root, 2)
	_, err = p.Run(ctx, config.IndexingConfig{ChunkSize: 1000, ChunkOverlap: 100}, nil)
	require.NoError(t, err)

	engine := NewEngine(store, embedder, extractor)
	results, err := engine.Search(ctx, idx, "AuthenticateUser", Options{Limit: 5, NoCache: true})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "auth.go", results[0].File)
	require.Contains(t, results[0].Content, "AuthenticateUser")
}
