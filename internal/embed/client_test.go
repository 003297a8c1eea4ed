package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedManyPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		out := make([][]float32, len(req.Input))
		for i := range req.Input {
			out[i] = []float32{float32(i), float32(i) + 0.5}
		}
		require.NoError(t, json.NewEncoder(w).Encode(embedResponse{Embeddings: out}))
	}))
	defer srv.Close()

	t.Setenv("COCOSEARCH_OLLAMA_URL", srv.URL)
	c := New("nomic-embed-text", 768)

	vecs, err := c.EmbedMany(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	require.Equal(t, []float32{0, 0.5}, vecs[0])
	require.Equal(t, []float32{2, 2.5}, vecs[2])
}

func TestEmbedManyEmptyInput(t *testing.T) {
	c := New("nomic-embed-text", 768)
	vecs, err := c.EmbedMany(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, vecs)
}

func TestWarmUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.1, 0.2}}}))
	}))
	defer srv.Close()

	t.Setenv("COCOSEARCH_OLLAMA_URL", srv.URL)
	c := New("nomic-embed-text", 2)
	require.NoError(t, c.WarmUp(context.Background()))
}

func TestEmbedManyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("COCOSEARCH_OLLAMA_URL", srv.URL)
	c := New("nomic-embed-text", 768)
	_, err := c.EmbedMany(context.Background(), []string{"x"})
	require.Error(t, err)
}
