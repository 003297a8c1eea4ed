package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// ExactCacheTable returns the per-index exact-hit cache table name.
func ExactCacheTable(indexName string) string { return indexName + "_query_cache_exact" }

// SemanticCacheTable returns the per-index semantic (ANN) cache table name.
func SemanticCacheTable(indexName string) string { return indexName + "_query_cache_semantic" }

// semanticCacheThreshold is the cosine-similarity bar a cached query
// embedding must clear to count as a semantic cache hit, per spec.md §4.11
// step 1 ("cosine > 0.95").
const semanticCacheThreshold = 0.95

// CachedResult is the JSON-serialised payload stored in both cache
// tables: the fused, hydrated search response for one (query, filter)
// pair.
type CachedResult struct {
	ResultJSON json.RawMessage
}

// LookupExactCache returns a cached result for an exact (queryHash,
// filterSig) pair, ignoring entries older than the index's
// last_updated_at (spec.md §4.11 "dropped... or garbage-collected by
// created_at < index.last_updated").
func (s *Store) LookupExactCache(ctx context.Context, indexName, queryHash, filterSig string) (json.RawMessage, bool, error) {
	table := ExactCacheTable(indexName)
	sql := fmt.Sprintf(`
		SELECT c.result_blob
		FROM %s c
		JOIN index_metadata m ON m.index_name = $3
		WHERE c.query_hash = $1 AND c.filter_sig = $2 AND c.created_at >= m.last_updated_at`, table)

	var blob json.RawMessage
	err := s.pool.QueryRow(ctx, sql, queryHash, filterSig, indexName).Scan(&blob)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("storage: exact cache lookup failed: %w", err)
	}
	return blob, true, nil
}

// StoreExactCache writes or refreshes an exact-cache entry.
func (s *Store) StoreExactCache(ctx context.Context, indexName, queryHash, filterSig string, result json.RawMessage) error {
	table := ExactCacheTable(indexName)
	sql := fmt.Sprintf(`
		INSERT INTO %s (query_hash, filter_sig, result_blob, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (query_hash, filter_sig) DO UPDATE SET
			result_blob = EXCLUDED.result_blob, created_at = EXCLUDED.created_at`, table)
	if _, err := s.pool.Exec(ctx, sql, queryHash, filterSig, result); err != nil {
		return fmt.Errorf("storage: failed to store exact cache entry: %w", err)
	}
	return nil
}

// LookupSemanticCache probes the semantic cache for a query embedding
// whose cosine similarity to queryVec exceeds semanticCacheThreshold,
// restricted to the same filter signature and not stale relative to the
// index's last_updated_at, per spec.md §4.11 step 1.
func (s *Store) LookupSemanticCache(ctx context.Context, indexName string, queryVec []float32, filterSig string) (json.RawMessage, bool, error) {
	table := SemanticCacheTable(indexName)
	sql := fmt.Sprintf(`
		SELECT c.result_blob
		FROM %s c
		JOIN index_metadata m ON m.index_name = $3
		WHERE c.filter_sig = $2
			AND c.created_at >= m.last_updated_at
			AND 1 - (c.query_embedding <=> $1) > $4
		ORDER BY c.query_embedding <=> $1 ASC
		LIMIT 1`, table)

	var blob json.RawMessage
	err := s.pool.QueryRow(ctx, sql, pgvector.NewVector(queryVec), filterSig, indexName, semanticCacheThreshold).Scan(&blob)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("storage: semantic cache lookup failed: %w", err)
	}
	return blob, true, nil
}

// StoreSemanticCache records a query embedding alongside its result, for
// future near-duplicate queries to hit.
func (s *Store) StoreSemanticCache(ctx context.Context, indexName string, queryVec []float32, filterSig string, result json.RawMessage) error {
	table := SemanticCacheTable(indexName)
	sql := fmt.Sprintf(`
		INSERT INTO %s (query_embedding, filter_sig, result_blob, created_at)
		VALUES ($1, $2, $3, now())`, table)
	if _, err := s.pool.Exec(ctx, sql, pgvector.NewVector(queryVec), filterSig, result); err != nil {
		return fmt.Errorf("storage: failed to store semantic cache entry: %w", err)
	}
	return nil
}

// PruneStaleCache deletes cache rows older than the index's
// last_updated_at — an explicit GC path alongside the created_at filter
// in lookups. No command in this repository calls it.
func (s *Store) PruneStaleCache(ctx context.Context, indexName string) error {
	exact := ExactCacheTable(indexName)
	semantic := SemanticCacheTable(indexName)

	var cutoff time.Time
	err := s.pool.QueryRow(ctx, `SELECT last_updated_at FROM index_metadata WHERE index_name = $1`, indexName).Scan(&cutoff)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return fmt.Errorf("storage: failed to read index watermark: %w", err)
	}

	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, exact), cutoff); err != nil {
		return fmt.Errorf("storage: failed to prune exact cache: %w", err)
	}
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, semantic), cutoff); err != nil {
		return fmt.Errorf("storage: failed to prune semantic cache: %w", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
