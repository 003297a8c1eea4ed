package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrPathCollision is returned when the canonical path being registered
// for an index name already belongs to a different canonical path, per
// spec.md §4.8 index-name collision detection.
type ErrPathCollision struct {
	IndexName      string
	ExistingPath   string
	RequestedPath  string
}

func (e *ErrPathCollision) Error() string {
	return fmt.Sprintf("index %q is already registered for %q; cannot reuse it for %q — "+
		"set an explicit indexName in cocosearch.yaml for one of these projects, or pass --index-name",
		e.IndexName, e.ExistingPath, e.RequestedPath)
}

// Suggestion is the actionable remediation text for an ErrPathCollision,
// mirrored on project.MissingIndexError for the missing-index case: set
// an explicit indexName in the project config, or pass --index-name.
func (e *ErrPathCollision) Suggestion() string {
	return fmt.Sprintf("set indexName in %s/cocosearch.yaml, or run with --index-name for %s",
		e.ExistingPath, e.RequestedPath)
}

// SetCanonicalPath records the canonical project path an index name
// resolves to, failing if the name is already bound to a different path.
func (s *Store) SetCanonicalPath(ctx context.Context, indexName, canonicalPath string) error {
	var existing string
	err := s.pool.QueryRow(ctx, `SELECT canonical_path FROM index_metadata WHERE index_name = $1`, indexName).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err := s.pool.Exec(ctx, `UPDATE index_metadata SET canonical_path = $2 WHERE index_name = $1`, indexName, canonicalPath)
		if err != nil {
			return fmt.Errorf("storage: failed to set canonical path for %q: %w", indexName, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("storage: failed to look up canonical path for %q: %w", indexName, err)
	}

	if existing != "" && existing != canonicalPath {
		return &ErrPathCollision{IndexName: indexName, ExistingPath: existing, RequestedPath: canonicalPath}
	}

	_, err = s.pool.Exec(ctx, `UPDATE index_metadata SET canonical_path = $2 WHERE index_name = $1`, indexName, canonicalPath)
	if err != nil {
		return fmt.Errorf("storage: failed to set canonical path for %q: %w", indexName, err)
	}
	return nil
}

// ListIndexes returns every registered index's metadata row, per spec.md
// §4.1 "list_indexes".
func (s *Store) ListIndexes(ctx context.Context) ([]IndexMetadata, error) {
	rows, err := s.pool.Query(ctx, `SELECT index_name, canonical_path, dimensions, created_at, last_updated_at FROM index_metadata ORDER BY index_name`)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to list indexes: %w", err)
	}
	defer rows.Close()

	var out []IndexMetadata
	for rows.Next() {
		var m IndexMetadata
		if err := rows.Scan(&m.IndexName, &m.CanonicalPath, &m.Dimensions, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("storage: failed to scan index metadata: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetIndexMetadata fetches one index's metadata row.
func (s *Store) GetIndexMetadata(ctx context.Context, indexName string) (*IndexMetadata, error) {
	var m IndexMetadata
	err := s.pool.QueryRow(ctx, `SELECT index_name, canonical_path, dimensions, created_at, last_updated_at FROM index_metadata WHERE index_name = $1`, indexName).
		Scan(&m.IndexName, &m.CanonicalPath, &m.Dimensions, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrIndexNotFound{IndexName: indexName}
		}
		return nil, fmt.Errorf("storage: failed to get index metadata for %q: %w", indexName, err)
	}
	return &m, nil
}

// IndexStats aggregates file count, chunk count, per-language breakdown,
// and parse health for one index, per spec.md §4.1 "index_stats".
func (s *Store) IndexStats(ctx context.Context, indexName string) (*Stats, error) {
	meta, err := s.GetIndexMetadata(ctx, indexName)
	if err != nil {
		return nil, err
	}

	chunks := ChunksTable(indexName)
	parseResults := ParseResultsTable(indexName)

	var stats Stats
	stats.LastUpdatedAt = meta.LastUpdatedAt
	stats.ByLanguage = make(map[string]int)

	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, chunks)).Scan(&stats.Chunks)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to count chunks for %q: %w", indexName, err)
	}

	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, parseResults)).Scan(&stats.Files)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to count files for %q: %w", indexName, err)
	}

	langRows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT language_id, count(*) FROM %s GROUP BY language_id`, chunks))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to aggregate languages for %q: %w", indexName, err)
	}
	defer langRows.Close()
	for langRows.Next() {
		var lang string
		var n int
		if err := langRows.Scan(&lang, &n); err != nil {
			return nil, fmt.Errorf("storage: failed to scan language aggregate: %w", err)
		}
		stats.ByLanguage[lang] = n
	}
	if err := langRows.Err(); err != nil {
		return nil, err
	}

	var total, failed int
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*), count(*) FILTER (WHERE status != $1) FROM %s`, parseResults), string(ParseOK)).
		Scan(&total, &failed)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to compute parse health for %q: %w", indexName, err)
	}
	if total > 0 {
		stats.ParseHealthPct = 100.0 * float64(total-failed) / float64(total)
	} else {
		stats.ParseHealthPct = 100.0
	}

	failRows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT filename, status, error, language_id FROM %s WHERE status != $1 ORDER BY filename`, parseResults), string(ParseOK))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to list parse failures for %q: %w", indexName, err)
	}
	defer failRows.Close()
	for failRows.Next() {
		var r FileParseResult
		var status string
		if err := failRows.Scan(&r.FilePath, &status, &r.Error, &r.LanguageID); err != nil {
			return nil, fmt.Errorf("storage: failed to scan parse failure: %w", err)
		}
		r.Status = ParseStatus(status)
		stats.ParseFailures = append(stats.ParseFailures, r)
	}
	return &stats, failRows.Err()
}
