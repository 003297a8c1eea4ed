package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// indexNamePattern constrains index names to safe SQL identifier
// characters, since index names are interpolated into table names.
var indexNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateIndexName rejects index names that cannot safely become table
// name prefixes.
func ValidateIndexName(name string) error {
	if !indexNamePattern.MatchString(name) {
		return fmt.Errorf("storage: invalid index name %q: must match %s", name, indexNamePattern.String())
	}
	return nil
}

// ChunksTable returns the per-index chunks table name.
func ChunksTable(indexName string) string { return indexName + "_chunks" }

// ParseResultsTable returns the per-index parse-results table name.
func ParseResultsTable(indexName string) string { return indexName + "_parse_results" }

// GlobalMetadataTable is the shared index_metadata registry, per spec.md §3.
const GlobalMetadataTable = "index_metadata"

// EnsureGlobalSchema creates the vector extension and the global
// index_metadata table if they do not already exist; the per-index query
// cache tables are created by Provision. Safe to call repeatedly; never
// drops anything.
func (s *Store) EnsureGlobalSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS index_metadata (
			index_name TEXT PRIMARY KEY,
			canonical_path TEXT NOT NULL,
			dimensions INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("storage: failed to ensure global schema: %w", err)
	}
	return nil
}

// Provision creates the per-index tables, vector/GIN/btree indexes, and
// registers the index in index_metadata, per spec.md §4.1. Provisioning
// is idempotent: re-running it on an already-provisioned index only adds
// missing columns (ADD COLUMN IF NOT EXISTS), never drops anything, per
// spec.md §3 invariant 1.
func (s *Store) Provision(ctx context.Context, indexName string, dimensions int) error {
	if err := ValidateIndexName(indexName); err != nil {
		return err
	}
	if err := s.EnsureGlobalSchema(ctx); err != nil {
		return err
	}

	chunks := ChunksTable(indexName)
	parseResults := ParseResultsTable(indexName)

	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			filename TEXT NOT NULL,
			location INT4RANGE NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			embedding VECTOR(%d),
			block_type TEXT NOT NULL DEFAULT '',
			hierarchy TEXT NOT NULL DEFAULT '',
			language_id TEXT NOT NULL DEFAULT '',
			symbol_type TEXT NOT NULL DEFAULT '',
			symbol_name TEXT NOT NULL DEFAULT '',
			symbol_signature TEXT NOT NULL DEFAULT '',
			content_tsv TSVECTOR NOT NULL DEFAULT ''::tsvector,
			PRIMARY KEY (filename, location)
		)`, chunks, dimensions),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			filename TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			language_id TEXT NOT NULL DEFAULT ''
		)`, parseResults),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			query_hash TEXT NOT NULL,
			filter_sig TEXT NOT NULL,
			result_blob JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (query_hash, filter_sig)
		)`, ExactCacheTable(indexName)),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			query_embedding VECTOR(%d) NOT NULL,
			filter_sig TEXT NOT NULL,
			result_blob JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, SemanticCacheTable(indexName), dimensions),
	}

	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("storage: failed to provision %s: %w", indexName, err)
		}
	}

	indexes := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_ann ON %s USING hnsw (embedding vector_cosine_ops)`, indexName, chunks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_tsv_gin ON %s USING gin (content_tsv)`, indexName, chunks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_symbol_type ON %s (symbol_type)`, indexName, chunks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_symbol_name ON %s (symbol_name)`, indexName, chunks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_language_id ON %s (language_id)`, indexName, chunks),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_semantic_ann ON %s USING hnsw (query_embedding vector_cosine_ops)`, indexName, SemanticCacheTable(indexName)),
	}
	for _, stmt := range indexes {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("storage: failed to create index for %s: %w", indexName, err)
		}
	}

	if err := s.migrateAddColumns(ctx, chunks); err != nil {
		return err
	}

	return s.registerIndexMetadata(ctx, indexName, dimensions)
}

// migrateAddColumns is the schema-evolution hook: future columns are added
// here with ADD COLUMN IF NOT EXISTS, never DROP, per spec.md §4.1/§7.
// No pending migrations at this revision; the slice exists so upgrades
// have a single place to land a new column without touching the primary
// key or any existing row.
func (s *Store) migrateAddColumns(ctx context.Context, chunksTable string) error {
	pending := []string{
		// example shape for a future migration:
		// fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS doc_comment TEXT NOT NULL DEFAULT ''`, chunksTable),
	}
	for _, stmt := range pending {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("storage: migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) registerIndexMetadata(ctx context.Context, indexName string, dimensions int) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO index_metadata (index_name, canonical_path, dimensions, created_at, last_updated_at)
		VALUES ($1, '', $2, $3, $3)
		ON CONFLICT (index_name) DO NOTHING
	`, indexName, dimensions, now)
	if err != nil {
		return fmt.Errorf("storage: failed to register index metadata: %w", err)
	}
	return nil
}

// ClearIndex drops every table for an index and removes its metadata row,
// atomically, per spec.md §3 ("destroyed by an explicit clear operation
// that drops all tables and metadata rows atomically").
func (s *Store) ClearIndex(ctx context.Context, indexName string) error {
	if err := ValidateIndexName(indexName); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: failed to begin clear transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tables := []string{
		ChunksTable(indexName),
		ParseResultsTable(indexName),
		ExactCacheTable(indexName),
		SemanticCacheTable(indexName),
	}
	for _, t := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t)); err != nil {
			return fmt.Errorf("storage: failed to drop %s: %w", t, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM index_metadata WHERE index_name = $1`, indexName); err != nil {
		return fmt.Errorf("storage: failed to remove index metadata: %w", err)
	}

	return tx.Commit(ctx)
}

// IndexExists reports whether an index's tables have been provisioned.
func (s *Store) IndexExists(ctx context.Context, indexName string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM index_metadata WHERE index_name = $1)`, indexName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("storage: failed to check index existence: %w", err)
	}
	return exists, nil
}
