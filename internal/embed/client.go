// Package embed turns strings into fixed-dimension dense vectors against
// an Ollama-style HTTP embedding endpoint, per spec.md §4.2. A single
// process-wide Client is created at startup and shared by ingestion and
// search.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// DefaultOllamaURL is used whenever COCOSEARCH_OLLAMA_URL is unset, per
// spec.md §6.
const DefaultOllamaURL = "http://localhost:11434"

// DefaultDimensions is the default embedding dimensionality, per spec.md
// §4.2/§9 Open Question D.
const DefaultDimensions = 768

var embedLog = log.New(os.Stderr, "[embed] ", log.LstdFlags)

// Client embeds text against a local Ollama-compatible model endpoint.
// Safe for concurrent use; wraps a single *http.Client.
type Client struct {
	baseURL    string
	model      string
	dimensions int
	http       *http.Client
}

// New creates a Client. baseURL defaults to COCOSEARCH_OLLAMA_URL, falling
// back to DefaultOllamaURL if unset.
func New(model string, dimensions int) *Client {
	baseURL := os.Getenv("COCOSEARCH_OLLAMA_URL")
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		dimensions: dimensions,
		http:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Dimensions returns the fixed dimensionality this client's model produces.
func (c *Client) Dimensions() int { return c.dimensions }

// WarmUp issues a throwaway embedding call to pre-load the model, avoiding
// a cold-start latency spike on the first real request, per spec.md §4.2.
func (c *Client) WarmUp(ctx context.Context) error {
	if _, err := c.Embed(ctx, "warmup"); err != nil {
		return fmt.Errorf("embed: warm-up call failed: %w", err)
	}
	embedLog.Printf("model %q warmed up at %s", c.model, c.baseURL)
	return nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the embedding vector for a single string.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed: expected 1 embedding, got %d", len(vecs))
	}
	return vecs[0], nil
}

// EmbedMany embeds a batch of strings, preserving input order, per
// spec.md §4.2 "embed_many". Failures propagate; the caller decides
// whether to skip the chunk or abort the file (spec.md §4.2, §7).
func (c *Client) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embed: failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embed: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed: server at %s returned status %d", c.baseURL, resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embed: failed to decode response: %w", err)
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: expected %d embeddings, got %d", len(texts), len(parsed.Embeddings))
	}
	return parsed.Embeddings, nil
}
