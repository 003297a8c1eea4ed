// Package storage is the transactional store for cocosearch: a connection
// pool onto PostgreSQL with the vector extension and full-text search,
// per spec.md §4.1. Every other component holds only references into this
// store (index name, filenames, byte offsets) — storage owns all
// persistent state.
package storage

import "time"

// Chunk is a contiguous byte range of one file, with its dense embedding,
// structural metadata, and full-text vector. Maps 1:1 to a row in
// "<index>_chunks". Primary key is (FilePath, LocStart, LocEnd) and never
// changes for a given chunk, per spec.md §3 invariant 1.
type Chunk struct {
	FilePath        string
	LocStart        int
	LocEnd          int
	Text            string
	Embedding       []float32
	BlockType       string
	Hierarchy       string
	LanguageID      string
	SymbolType      string
	SymbolName      string
	SymbolSignature string
}

// Key identifies a chunk by its immutable primary key.
type Key struct {
	FilePath string
	LocStart int
	LocEnd   int
}

// ParseStatus is the outcome of parsing one file during an ingestion run.
type ParseStatus string

const (
	ParseOK          ParseStatus = "ok"
	ParsePartial     ParseStatus = "partial"
	ParseError       ParseStatus = "error"
	ParseUnsupported ParseStatus = "unsupported"
)

// FileParseResult is the per-file parse outcome, stored in
// "<index>_parse_results".
type FileParseResult struct {
	FilePath   string
	Status     ParseStatus
	Error      string
	LanguageID string
}

// IndexMetadata is a row in the global index_metadata table: the
// authoritative path↔index registry entry plus bookkeeping timestamps.
type IndexMetadata struct {
	IndexName     string
	CanonicalPath string
	Dimensions    int
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// SearchFilters narrows vector_search/keyword_search results, applied
// inside the SQL statement per spec.md §4.1.
type SearchFilters struct {
	Language    string
	SymbolTypes []string
	SymbolName  string // glob pattern, translated to SQL LIKE
}

// VectorHit is one row returned by vector_search: primary key plus cosine
// distance (lower is closer).
type VectorHit struct {
	Key
	Distance float64
}

// KeywordHit is one row returned by keyword_search: primary key plus
// ts_rank_cd rank (higher is better).
type KeywordHit struct {
	Key
	Rank float64
}

// Stats summarises one index for list_indexes/index_stats.
type Stats struct {
	Files           int
	Chunks          int
	ByLanguage      map[string]int
	LastUpdatedAt   time.Time
	ParseHealthPct  float64
	ParseFailures   []FileParseResult
}
