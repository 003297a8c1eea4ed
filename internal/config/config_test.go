package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)

	assert.Equal(t, 1000, cfg.Indexing.ChunkSize)
	assert.Equal(t, 300, cfg.Indexing.ChunkOverlap)
	assert.True(t, cfg.Indexing.RespectGitignore)

	assert.Equal(t, 10, cfg.Search.ResultLimit)
	assert.Equal(t, 0.0, cfg.Search.MinScore)

	require.NoError(t, Validate(cfg))
}

func TestValidate_RejectsInvalidValues(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Model = ""
	cfg.Embedding.Dimensions = 0
	cfg.Indexing.ChunkSize = -1
	cfg.Indexing.ChunkOverlap = -5
	cfg.Search.ResultLimit = 0
	cfg.Search.MinScore = 1.5

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")
	assert.Contains(t, err.Error(), "dimensions must be positive")
	assert.Contains(t, err.Error(), "chunkSize must be positive")
	assert.Contains(t, err.Error(), "resultLimit must be positive")
	assert.Contains(t, err.Error(), "minScore must be in")
}

func TestValidate_RejectsOverlapNotLessThanChunkSize(t *testing.T) {
	cfg := Default()
	cfg.Indexing.ChunkSize = 100
	cfg.Indexing.ChunkOverlap = 100

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}
