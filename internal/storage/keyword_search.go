package storage

import (
	"context"
	"fmt"
)

// KeywordSearch returns the limit best-ranked chunks for a normalised
// query string, using ts_rank_cd over the GIN index, per spec.md §4.1
// "keyword_search(index, tsquery_text, limit, filters)".
func (s *Store) KeywordSearch(ctx context.Context, indexName, normalizedQuery string, limit int, f SearchFilters) ([]KeywordHit, error) {
	table := ChunksTable(indexName)
	where, args := buildFilterClause(f, 2)
	if where != "" {
		where = where + " AND content_tsv @@ plainto_tsquery('simple', $1)"
	} else {
		where = "WHERE content_tsv @@ plainto_tsquery('simple', $1)"
	}

	sql := fmt.Sprintf(`
		SELECT filename, location::text, ts_rank_cd(content_tsv, plainto_tsquery('simple', $1)) AS rank
		FROM %s
		%s
		ORDER BY rank DESC
		LIMIT %d`, table, where, limit)

	args = append([]interface{}{normalizedQuery}, args...)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: keyword search failed: %w", err)
	}
	defer rows.Close()

	var hits []KeywordHit
	for rows.Next() {
		var h KeywordHit
		var loc pgRange
		if err := rows.Scan(&h.FilePath, &loc, &h.Rank); err != nil {
			return nil, fmt.Errorf("storage: failed to scan keyword hit: %w", err)
		}
		h.LocStart, h.LocEnd = loc.lower, loc.upper
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
