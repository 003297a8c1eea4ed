package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cocosearch/cocosearch/internal/tokenize"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// locationRange renders (start,end) as the Postgres int4range literal
// "[start,end)" used as the second half of the chunk primary key.
func locationRange(start, end int) string {
	return fmt.Sprintf("[%d,%d)", start, end)
}

// UpsertChunk writes or updates a single chunk, keyed by (filename,
// location). Never changes the key for a pre-existing row, per spec.md §3
// invariant 1 — only the non-key columns are updated on conflict.
func (s *Store) UpsertChunk(ctx context.Context, indexName string, c Chunk) error {
	table := ChunksTable(indexName)
	loc := locationRange(c.LocStart, c.LocEnd)
	tsvExpr, tsvArgs := tokenize.BuildTSVectorExpr(c.Text, c.SymbolName)

	sql, args, err := psql.Insert(table).
		Columns("filename", "location", "text", "embedding", "block_type", "hierarchy",
			"language_id", "symbol_type", "symbol_name", "symbol_signature", "content_tsv").
		Values(c.FilePath, sq.Expr("?::int4range", loc), c.Text, pgvector.NewVector(c.Embedding),
			c.BlockType, c.Hierarchy, c.LanguageID, c.SymbolType, c.SymbolName, c.SymbolSignature,
			sq.Expr(tsvExpr, tsvArgs...)).
		Suffix(`ON CONFLICT (filename, location) DO UPDATE SET
			text = EXCLUDED.text,
			embedding = EXCLUDED.embedding,
			block_type = EXCLUDED.block_type,
			hierarchy = EXCLUDED.hierarchy,
			language_id = EXCLUDED.language_id,
			symbol_type = EXCLUDED.symbol_type,
			symbol_name = EXCLUDED.symbol_name,
			symbol_signature = EXCLUDED.symbol_signature,
			content_tsv = EXCLUDED.content_tsv`).
		ToSql()
	if err != nil {
		return fmt.Errorf("storage: failed to build upsert for %s: %w", c.FilePath, err)
	}

	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("storage: failed to upsert chunk %s@%s: %w", c.FilePath, loc, err)
	}
	return nil
}

// UpsertChunks writes a batch of chunks for one file within a single
// transaction.
func (s *Store) UpsertChunks(ctx context.Context, indexName string, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: failed to begin batch upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		if err := upsertChunkTx(ctx, tx, indexName, c); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func upsertChunkTx(ctx context.Context, tx pgx.Tx, indexName string, c Chunk) error {
	table := ChunksTable(indexName)
	loc := locationRange(c.LocStart, c.LocEnd)
	tsvExpr, tsvArgs := tokenize.BuildTSVectorExpr(c.Text, c.SymbolName)

	sql, args, err := psql.Insert(table).
		Columns("filename", "location", "text", "embedding", "block_type", "hierarchy",
			"language_id", "symbol_type", "symbol_name", "symbol_signature", "content_tsv").
		Values(c.FilePath, sq.Expr("?::int4range", loc), c.Text, pgvector.NewVector(c.Embedding),
			c.BlockType, c.Hierarchy, c.LanguageID, c.SymbolType, c.SymbolName, c.SymbolSignature,
			sq.Expr(tsvExpr, tsvArgs...)).
		Suffix(`ON CONFLICT (filename, location) DO UPDATE SET
			text = EXCLUDED.text,
			embedding = EXCLUDED.embedding,
			block_type = EXCLUDED.block_type,
			hierarchy = EXCLUDED.hierarchy,
			language_id = EXCLUDED.language_id,
			symbol_type = EXCLUDED.symbol_type,
			symbol_name = EXCLUDED.symbol_name,
			symbol_signature = EXCLUDED.symbol_signature,
			content_tsv = EXCLUDED.content_tsv`).
		ToSql()
	if err != nil {
		return fmt.Errorf("storage: failed to build upsert for %s: %w", c.FilePath, err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("storage: failed to upsert chunk %s@%s: %w", c.FilePath, loc, err)
	}
	return nil
}

// DeleteChunksForFile removes every chunk belonging to filename.
func (s *Store) DeleteChunksForFile(ctx context.Context, indexName, filename string) error {
	table := ChunksTable(indexName)
	sql, args, err := psql.Delete(table).Where(sq.Eq{"filename": filename}).ToSql()
	if err != nil {
		return fmt.Errorf("storage: failed to build delete for %s: %w", filename, err)
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("storage: failed to delete chunks for %s: %w", filename, err)
	}
	return nil
}

// DeleteChunksNotIn removes every chunk whose (filename, location) pair is
// not present in keep — the orphan sweep for one file's re-chunked set
// within the same ingestion pass (spec.md §4.7 step 7).
func (s *Store) DeleteChunksNotIn(ctx context.Context, indexName, filename string, keep []Key) error {
	table := ChunksTable(indexName)

	if len(keep) == 0 {
		return s.DeleteChunksForFile(ctx, indexName, filename)
	}

	ranges := make([]string, len(keep))
	for i, k := range keep {
		ranges[i] = locationRange(k.LocStart, k.LocEnd)
	}

	sql := fmt.Sprintf(`DELETE FROM %s WHERE filename = $1 AND NOT (location::text = ANY($2))`, table)
	if _, err := s.pool.Exec(ctx, sql, filename, ranges); err != nil {
		return fmt.Errorf("storage: failed to sweep orphan chunks for %s: %w", filename, err)
	}
	return nil
}

// DeleteFilesNotIn removes every row (across chunks and parse_results)
// whose filename is not present in present — the end-of-run orphan sweep
// for files that disappeared from the source tree (spec.md §4.7).
func (s *Store) DeleteFilesNotIn(ctx context.Context, indexName string, present []string) error {
	chunks := ChunksTable(indexName)
	parseResults := ParseResultsTable(indexName)
	if present == nil {
		present = []string{}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: failed to begin orphan sweep: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE NOT (filename = ANY($1))`, chunks), present); err != nil {
		return fmt.Errorf("storage: failed to sweep orphan files from chunks: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE NOT (filename = ANY($1))`, parseResults), present); err != nil {
		return fmt.Errorf("storage: failed to sweep orphan files from parse_results: %w", err)
	}

	return tx.Commit(ctx)
}

// UpsertParseStatus records the per-file parse outcome for one ingestion
// run, per spec.md §3 "File state".
func (s *Store) UpsertParseStatus(ctx context.Context, indexName string, r FileParseResult) error {
	table := ParseResultsTable(indexName)
	sql, args, err := psql.Insert(table).
		Columns("filename", "status", "error", "language_id").
		Values(r.FilePath, string(r.Status), r.Error, r.LanguageID).
		Suffix(`ON CONFLICT (filename) DO UPDATE SET
			status = EXCLUDED.status, error = EXCLUDED.error, language_id = EXCLUDED.language_id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("storage: failed to build parse status upsert: %w", err)
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("storage: failed to upsert parse status for %s: %w", r.FilePath, err)
	}
	return nil
}

// TouchIndex bumps index_metadata.last_updated_at to now, invalidating
// cache entries with an older created_at (spec.md §3/§4.11).
func (s *Store) TouchIndex(ctx context.Context, indexName string) error {
	_, err := s.pool.Exec(ctx, `UPDATE index_metadata SET last_updated_at = now() WHERE index_name = $1`, indexName)
	if err != nil {
		return fmt.Errorf("storage: failed to touch index metadata: %w", err)
	}
	return nil
}
