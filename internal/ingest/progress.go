package ingest

import "time"

// Progress is an incremental snapshot emitted during a run, per spec.md
// §4.7 "the pipeline emits incremental progress (files discovered, files
// indexed, chunks written, embeddings computed)". Progress bars and other
// terminal rendering are out of scope per spec.md §1; ProgressFunc is the
// plain callback the CLI layer renders from.
type Progress struct {
	FilesDiscovered    int
	FilesIndexed       int
	ChunksWritten      int
	EmbeddingsComputed int
}

// ProgressFunc receives a Progress snapshot after every file finishes.
type ProgressFunc func(Progress)

// Summary is the final report for one ingestion run, per spec.md §4.7
// "a final summary (files added / updated / removed / with parse
// errors)".
type Summary struct {
	FilesAdded            int
	FilesUpdated          int
	FilesRemoved          int
	FilesWithParseErrors  int
	Duration              time.Duration
	ByLanguageFailureRate map[string]float64
}
