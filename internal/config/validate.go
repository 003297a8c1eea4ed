package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDimensions indicates invalid embedding dimensions.
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")

	// ErrInvalidChunkSize indicates invalid chunk size configuration.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidOverlap indicates invalid chunk overlap configuration.
	ErrInvalidOverlap = errors.New("invalid overlap")

	// ErrEmptyModel indicates a missing embedding model name.
	ErrEmptyModel = errors.New("empty embedding model")

	// ErrInvalidMinScore indicates a min_score outside [0, 1].
	ErrInvalidMinScore = errors.New("invalid min_score")

	// ErrInvalidResultLimit indicates a non-positive result limit.
	ErrInvalidResultLimit = errors.New("invalid result limit")

	// ErrUnknownConfigField is returned by the strict YAML decoder when
	// cocosearch.yaml contains a field not recognised by Config.
	ErrUnknownConfigField = errors.New("unknown configuration field")
)

// Validate checks that the configuration is self-consistent.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateEmbedding(&cfg.Embedding); err != nil {
		errs = append(errs, err)
	}
	if err := validateChunking(&cfg.Indexing); err != nil {
		errs = append(errs, err)
	}
	if err := validateSearch(&cfg.Search); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateEmbedding(cfg *EmbeddingConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: model is required", ErrEmptyModel))
	}
	if cfg.Dimensions <= 0 {
		errs = append(errs, fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidDimensions, cfg.Dimensions))
	}

	return joinErrors(errs)
}

func validateChunking(cfg *IndexingConfig) error {
	var errs []error

	if cfg.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: chunkSize must be positive, got %d", ErrInvalidChunkSize, cfg.ChunkSize))
	}
	if cfg.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("%w: chunkOverlap cannot be negative, got %d", ErrInvalidOverlap, cfg.ChunkOverlap))
	}
	if cfg.ChunkSize > 0 && cfg.ChunkOverlap >= cfg.ChunkSize {
		errs = append(errs, fmt.Errorf("%w: chunkOverlap (%d) must be less than chunkSize (%d)", ErrInvalidOverlap, cfg.ChunkOverlap, cfg.ChunkSize))
	}

	return joinErrors(errs)
}

func validateSearch(cfg *SearchConfig) error {
	var errs []error

	if cfg.ResultLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: resultLimit must be positive, got %d", ErrInvalidResultLimit, cfg.ResultLimit))
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		errs = append(errs, fmt.Errorf("%w: minScore must be in [0,1], got %f", ErrInvalidMinScore, cfg.MinScore))
	}

	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
