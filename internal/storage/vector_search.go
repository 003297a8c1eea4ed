package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// VectorSearch returns the limit nearest chunks to vec by cosine distance,
// using the HNSW ANN index, per spec.md §4.1
// "vector_search(index, vec, limit, filters)".
func (s *Store) VectorSearch(ctx context.Context, indexName string, vec []float32, limit int, f SearchFilters) ([]VectorHit, error) {
	table := ChunksTable(indexName)
	where, args := buildFilterClause(f, 2)

	sql := fmt.Sprintf(`
		SELECT filename, location::text, embedding <=> $1 AS distance
		FROM %s
		%s
		ORDER BY distance ASC
		LIMIT %d`, table, where, limit)

	args = append([]interface{}{pgvector.NewVector(vec)}, args...)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: vector search failed: %w", err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var h VectorHit
		var loc pgRange
		if err := rows.Scan(&h.FilePath, &loc, &h.Distance); err != nil {
			return nil, fmt.Errorf("storage: failed to scan vector hit: %w", err)
		}
		h.LocStart, h.LocEnd = loc.lower, loc.upper
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// buildFilterClause renders the optional language/symbol_type/symbol_name
// predicates as a "WHERE ..." clause (or "" if none apply), with
// placeholders starting at startAt, shared by vector and keyword search
// which each reserve earlier placeholder numbers for their own arguments.
func buildFilterClause(f SearchFilters, startAt int) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	n := startAt

	if f.Language != "" {
		clauses = append(clauses, fmt.Sprintf("language_id = $%d", n))
		args = append(args, f.Language)
		n++
	}
	if len(f.SymbolTypes) > 0 {
		clauses = append(clauses, fmt.Sprintf("symbol_type = ANY($%d)", n))
		args = append(args, f.SymbolTypes)
		n++
	}
	if f.SymbolName != "" {
		clauses = append(clauses, fmt.Sprintf("symbol_name LIKE $%d", n))
		args = append(args, globToLike(f.SymbolName))
		n++
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
