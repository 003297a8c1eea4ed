// Package ingest orchestrates one indexing run end to end: discovery,
// per-file chunking/symbol-extraction/embedding, and the storage writes
// and orphan sweeps of spec.md §4.7.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/cocosearch/cocosearch/internal/chunker"
	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/embed"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
)

var ingestLog = log.New(os.Stderr, "[ingest] ", log.LstdFlags)

// Pipeline ties together every component an ingestion run needs: the
// store, the handler registry, the symbol extractor, and the embedding
// client, scoped to one index and one root directory.
type Pipeline struct {
	store       *storage.Store
	registry    *handlers.Registry
	extractor   *symbols.Extractor
	embedder    *embed.Client
	indexName   string
	rootDir     string
	concurrency int
	chunkOpts   chunker.Options
}

// New builds a Pipeline. concurrency <= 0 defaults to runtime.NumCPU(),
// per spec.md §9 "bounded worker pool, default to the number of CPUs".
func New(store *storage.Store, registry *handlers.Registry, extractor *symbols.Extractor, embedder *embed.Client, indexName, rootDir string, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Pipeline{
		store:       store,
		registry:    registry,
		extractor:   extractor,
		embedder:    embedder,
		indexName:   indexName,
		rootDir:     rootDir,
		concurrency: concurrency,
	}
}

// Run walks rootDir, indexes every surviving file, sweeps away rows for
// files that disappeared, and returns a summary, per spec.md §4.7's
// 8-step per-file procedure plus the end-of-run orphan sweep.
func (p *Pipeline) Run(ctx context.Context, cfg config.IndexingConfig, onProgress ProgressFunc) (*Summary, error) {
	start := time.Now()
	p.chunkOpts = chunker.Options{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap}

	disc, err := newDiscovery(p.rootDir, cfg)
	if err != nil {
		return nil, err
	}
	relFiles, err := disc.walk()
	if err != nil {
		return nil, err
	}

	existing, err := p.store.ExistingFilenames(ctx, p.indexName)
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to read existing file set: %w", err)
	}

	var mu sync.Mutex
	progress := Progress{FilesDiscovered: len(relFiles)}
	report := func() {
		if onProgress == nil {
			return
		}
		mu.Lock()
		snapshot := progress
		mu.Unlock()
		onProgress(snapshot)
	}
	report()

	var added, updated int
	perLangTotal := map[string]int{}
	perLangFailed := map[string]int{}

	runErr := runBounded(ctx, p.concurrency, relFiles, func(ctx context.Context, relPath string) error {
		parseStatus, languageID, nChunks, writeErr := p.indexFile(ctx, relPath)
		if writeErr != nil {
			return writeErr
		}

		mu.Lock()
		progress.FilesIndexed++
		progress.ChunksWritten += nChunks
		progress.EmbeddingsComputed += nChunks
		perLangTotal[languageID]++
		if parseStatus != storage.ParseOK {
			perLangFailed[languageID]++
		}
		if existing[relPath] {
			updated++
		} else {
			added++
		}
		mu.Unlock()
		report()
		return nil
	})
	if runErr != nil {
		return nil, fmt.Errorf("ingest: run failed: %w", runErr)
	}

	if err := p.store.DeleteFilesNotIn(ctx, p.indexName, relFiles); err != nil {
		return nil, fmt.Errorf("ingest: failed to sweep removed files: %w", err)
	}
	removed := 0
	present := make(map[string]bool, len(relFiles))
	for _, f := range relFiles {
		present[f] = true
	}
	for f := range existing {
		if !present[f] {
			removed++
		}
	}

	if err := p.store.TouchIndex(ctx, p.indexName); err != nil {
		return nil, fmt.Errorf("ingest: failed to touch index metadata: %w", err)
	}

	failed := 0
	failureRate := make(map[string]float64, len(perLangTotal))
	for lang, total := range perLangTotal {
		failed += perLangFailed[lang]
		if total > 0 {
			failureRate[lang] = float64(perLangFailed[lang]) / float64(total)
		}
	}

	return &Summary{
		FilesAdded:            added,
		FilesUpdated:          updated,
		FilesRemoved:          removed,
		FilesWithParseErrors:  failed,
		Duration:              time.Since(start),
		ByLanguageFailureRate: failureRate,
	}, nil
}

// indexFile runs the per-file procedure of spec.md §4.7: resolve handler,
// read as UTF-8, chunk, extract symbols, embed, write, sweep stale rows
// for this file. A file-local failure (bad encoding, parser error,
// embedding error) is recorded as a parse-status row and does not abort
// the run; a storage write failure does, since spec.md §9 says storage
// errors must propagate.
func (p *Pipeline) indexFile(ctx context.Context, relPath string) (storage.ParseStatus, string, int, error) {
	absPath := filepath.Join(p.rootDir, relPath)

	data, readErr := os.ReadFile(absPath)
	if readErr != nil {
		return p.finishWithError(ctx, relPath, "", readErr)
	}
	if !isUTF8(data) {
		return p.finishWithError(ctx, relPath, "", fmt.Errorf("file is not valid UTF-8"))
	}

	resolved := p.registry.Resolve(relPath, data)
	text := string(data)

	chunks := chunker.Split(text, resolved.Spec, p.chunkOpts)

	var defs []symbols.Definition
	parseStatus := storage.ParseOK
	parseErrMsg := ""
	switch {
	case resolved.LanguageID == "":
		parseStatus = storage.ParseUnsupported
	case p.extractor.Supports(resolved.LanguageID):
		result := p.extractor.ExtractFile(resolved.LanguageID, data)
		defs = result.Definitions
		parseStatus = result.Status
		parseErrMsg = result.Error
	default:
		parseStatus = storage.ParseUnsupported
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var embeddings [][]float32
	if len(texts) > 0 {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedMany(ctx, texts)
		if embedErr != nil {
			ingestLog.Printf("embedding failed for %s: %v", relPath, embedErr)
			return p.finishWithError(ctx, relPath, resolved.LanguageID, embedErr)
		}
	}

	keep := make([]storage.Key, 0, len(chunks))
	toWrite := make([]storage.Chunk, 0, len(chunks))
	for i, c := range chunks {
		md := resolved.ExtractMetadata(c.Text)
		symType, symName, symSig := associateDefinition(defs, c.Start, c.End)

		toWrite = append(toWrite, storage.Chunk{
			FilePath:        relPath,
			LocStart:        c.Start,
			LocEnd:          c.End,
			Text:            c.Text,
			Embedding:       embeddings[i],
			BlockType:       md.BlockType,
			Hierarchy:       md.Hierarchy,
			LanguageID:      resolved.LanguageID,
			SymbolType:      symType,
			SymbolName:      symName,
			SymbolSignature: symSig,
		})
		keep = append(keep, storage.Key{FilePath: relPath, LocStart: c.Start, LocEnd: c.End})
	}

	if err := p.store.UpsertChunks(ctx, p.indexName, toWrite); err != nil {
		return parseStatus, resolved.LanguageID, 0, fmt.Errorf("failed to write chunks for %s: %w", relPath, err)
	}
	if err := p.store.DeleteChunksNotIn(ctx, p.indexName, relPath, keep); err != nil {
		return parseStatus, resolved.LanguageID, 0, fmt.Errorf("failed to sweep orphan chunks for %s: %w", relPath, err)
	}
	if err := p.store.UpsertParseStatus(ctx, p.indexName, storage.FileParseResult{
		FilePath:   relPath,
		Status:     parseStatus,
		Error:      parseErrMsg,
		LanguageID: resolved.LanguageID,
	}); err != nil {
		return parseStatus, resolved.LanguageID, 0, fmt.Errorf("failed to record parse status for %s: %w", relPath, err)
	}

	return parseStatus, resolved.LanguageID, len(toWrite), nil
}

// finishWithError records a file-local failure as a ParseError row and
// returns nil so the run continues with the remaining files. Only a
// failure to write that record itself is returned as fatal.
func (p *Pipeline) finishWithError(ctx context.Context, relPath, languageID string, cause error) (storage.ParseStatus, string, int, error) {
	err := p.store.UpsertParseStatus(ctx, p.indexName, storage.FileParseResult{
		FilePath:   relPath,
		Status:     storage.ParseError,
		Error:      cause.Error(),
		LanguageID: languageID,
	})
	if err != nil {
		return storage.ParseError, languageID, 0, fmt.Errorf("failed to record parse status for %s: %w", relPath, err)
	}
	return storage.ParseError, languageID, 0, nil
}

// associateDefinition returns the symbol fields for a chunk spanning
// [start, end): the innermost (smallest-range) definition whose range
// overlaps the chunk's, or the zero value if none overlap, per spec.md
// §4.5 "a chunk overlapping multiple definitions takes the innermost".
func associateDefinition(defs []symbols.Definition, start, end int) (symType, symName, symSig string) {
	var best *symbols.Definition
	for i := range defs {
		d := &defs[i]
		if d.Start < end && start < d.End {
			if best == nil || (d.End-d.Start) < (best.End-best.Start) {
				best = d
			}
		}
	}
	if best == nil {
		return "", "", ""
	}
	return string(best.Kind), best.QualifiedName, best.Signature
}
