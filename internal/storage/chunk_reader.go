package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// FetchChunks hydrates full chunk rows for a set of keys, preserving the
// keys' order. Used by search to turn fused (filename, location) hits
// back into displayable text plus structural metadata, per spec.md §4.9
// step "hydration".
func (s *Store) FetchChunks(ctx context.Context, indexName string, keys []Key) ([]Chunk, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	table := ChunksTable(indexName)
	byKey := make(map[Key]Chunk, len(keys))

	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(
			fmt.Sprintf(`SELECT filename, location::text, text, embedding, block_type, hierarchy,
				language_id, symbol_type, symbol_name, symbol_signature
				FROM %s WHERE filename = $1 AND location = $2::int4range`, table),
			k.FilePath, locationRange(k.LocStart, k.LocEnd),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range keys {
		row := br.QueryRow()
		var c Chunk
		var loc pgRange
		var emb pgvector.Vector
		if err := row.Scan(&c.FilePath, &loc, &c.Text, &emb, &c.BlockType, &c.Hierarchy,
			&c.LanguageID, &c.SymbolType, &c.SymbolName, &c.SymbolSignature); err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			return nil, fmt.Errorf("storage: failed to fetch chunk: %w", err)
		}
		c.LocStart, c.LocEnd = loc.lower, loc.upper
		c.Embedding = emb.Slice()
		byKey[Key{c.FilePath, c.LocStart, c.LocEnd}] = c
	}

	chunks := make([]Chunk, 0, len(keys))
	for _, k := range keys {
		if c, ok := byKey[k]; ok {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

// ExistingFilenames returns the set of distinct filenames already present
// in an index's parse_results table, used by ingest to distinguish added
// from updated files across a run (spec.md §4.7).
func (s *Store) ExistingFilenames(ctx context.Context, indexName string) (map[string]bool, error) {
	table := ParseResultsTable(indexName)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT filename FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to list existing filenames for %q: %w", indexName, err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("storage: failed to scan filename: %w", err)
		}
		out[filename] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: failed to list existing filenames for %q: %w", indexName, err)
	}
	return out, nil
}

// FetchChunksInRange returns every chunk of filename overlapping
// [start,end), ordered by location. Smart-context expansion in
// internal/search reads the source file directly and does not call it.
func (s *Store) FetchChunksInRange(ctx context.Context, indexName, filename string, start, end int) ([]Chunk, error) {
	table := ChunksTable(indexName)
	sql := fmt.Sprintf(`SELECT filename, location::text, text, embedding, block_type, hierarchy,
		language_id, symbol_type, symbol_name, symbol_signature
		FROM %s
		WHERE filename = $1 AND location && $2::int4range
		ORDER BY location`, table)

	rows, err := s.pool.Query(ctx, sql, filename, locationRange(start, end))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to fetch chunk range for %s: %w", filename, err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var loc pgRange
		var emb pgvector.Vector
		if err := rows.Scan(&c.FilePath, &loc, &c.Text, &emb, &c.BlockType, &c.Hierarchy,
			&c.LanguageID, &c.SymbolType, &c.SymbolName, &c.SymbolSignature); err != nil {
			return nil, fmt.Errorf("storage: failed to scan chunk range row: %w", err)
		}
		c.LocStart, c.LocEnd = loc.lower, loc.upper
		c.Embedding = emb.Slice()
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
