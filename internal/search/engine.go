// Package search implements the hybrid retrieval engine of spec.md
// §4.10: cache lookup, parallel vector/keyword retrieval, Reciprocal
// Rank Fusion, definition boosting, hydration, and smart-context
// expansion.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cocosearch/cocosearch/internal/embed"
	"github.com/cocosearch/cocosearch/internal/query"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
)

// candidateFanout is the multiplier applied to limit when pulling ANN
// and keyword candidates, per spec.md §4.10 step 3 ("K ~= limit x 4").
const candidateFanout = 4

const defaultContextLines = 3

// Result is one hydrated, ranked hit, matching the `search` RPC's
// response shape in spec.md §6.
type Result struct {
	File         string    `json:"file"`
	StartLine    int       `json:"start_line"`
	EndLine      int       `json:"end_line"`
	Score        float64   `json:"score"`
	Content      string    `json:"content"`
	MatchType    MatchType `json:"match_type"`
	VectorScore  float64   `json:"vector_score"`
	KeywordScore float64   `json:"keyword_score"`
	SymbolType   string    `json:"symbol_type"`
	SymbolName   string    `json:"symbol_name"`
}

// Options controls one search request, per spec.md §4.10 "Inputs".
type Options struct {
	Limit         int
	MinScore      float64
	Filters       storage.SearchFilters
	UseHybrid     *bool
	SmartContext  bool
	ContextBefore int
	ContextAfter  int
	NoCache       bool
}

// Engine executes search requests against one index's chunks, backed by
// the shared store, embedding client, and symbol extractor.
type Engine struct {
	store     *storage.Store
	embedder  *embed.Client
	extractor *symbols.Extractor
	lineCache *lineOffsetCache
}

// NewEngine builds an Engine. extractor may be nil to disable smart
// context expansion entirely (it always falls back to fixed context).
func NewEngine(store *storage.Store, embedder *embed.Client, extractor *symbols.Extractor) *Engine {
	return &Engine{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		lineCache: newLineOffsetCache(lineOffsetCacheSize),
	}
}

// Search runs the full pipeline of spec.md §4.10 and returns ranked,
// hydrated results.
func (e *Engine) Search(ctx context.Context, indexName, rawQuery string, opts Options) ([]Result, error) {
	results, _, err := e.run(ctx, indexName, rawQuery, opts, false)
	return results, err
}

// Analyze runs the same pipeline, bypassing the cache on both sides, and
// returns the per-stage diagnostic record instead of results, per
// spec.md §4.10 "analyze_query".
func (e *Engine) Analyze(ctx context.Context, indexName, rawQuery string, opts Options) (*Diagnostics, error) {
	opts.NoCache = true
	_, diag, err := e.run(ctx, indexName, rawQuery, opts, true)
	return diag, err
}

func (e *Engine) run(ctx context.Context, indexName, rawQuery string, opts Options, withDiagnostics bool) ([]Result, *Diagnostics, error) {
	start := time.Now()
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.ContextBefore <= 0 {
		opts.ContextBefore = defaultContextLines
	}
	if opts.ContextAfter <= 0 {
		opts.ContextAfter = defaultContextLines
	}

	analysis := query.Analyze(rawQuery)
	useHybrid := query.ShouldUseHybrid(analysis, opts.UseHybrid)
	filterSig := query.FilterSignature(opts.Filters, opts.Limit, opts.MinScore, useHybrid, opts.SmartContext)
	queryHash := query.Hash(analysis.NormalizedKeywordQuery)

	var diag *Diagnostics
	if withDiagnostics {
		diag = &Diagnostics{
			Query:                  rawQuery,
			NormalizedKeywordQuery: analysis.NormalizedKeywordQuery,
			IdentifierDetected:     analysis.HasIdentifierPattern,
			HybridEnabled:          useHybrid,
		}
	}

	if !opts.NoCache {
		if blob, ok, err := e.store.LookupExactCache(ctx, indexName, queryHash, filterSig); err != nil {
			return nil, diag, err
		} else if ok {
			results, err := decodeResults(blob)
			return results, diag, err
		}
	}

	queryVec, err := e.embedder.Embed(ctx, rawQuery)
	if err != nil {
		return nil, diag, fmt.Errorf("search: failed to embed query: %w", err)
	}

	if !opts.NoCache {
		if blob, ok, err := e.store.LookupSemanticCache(ctx, indexName, queryVec, filterSig); err != nil {
			return nil, diag, err
		} else if ok {
			results, err := decodeResults(blob)
			return results, diag, err
		}
	}

	candidateK := opts.Limit * candidateFanout

	var vecHits []storage.VectorHit
	var kwHits []storage.KeywordHit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := e.store.VectorSearch(gctx, indexName, queryVec, candidateK, opts.Filters)
		if err != nil {
			return fmt.Errorf("search: vector search failed: %w", err)
		}
		vecHits = hits
		return nil
	})
	if useHybrid {
		g.Go(func() error {
			hits, err := e.store.KeywordSearch(gctx, indexName, analysis.NormalizedKeywordQuery, candidateK, opts.Filters)
			if err != nil {
				return fmt.Errorf("search: keyword search failed: %w", err)
			}
			kwHits = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, diag, err
	}

	if diag != nil {
		diag.VectorCandidateCount = len(vecHits)
		diag.KeywordCandidateCount = len(kwHits)
	}

	fusedList := fuseRRF(vecHits, kwHits)
	if diag != nil {
		for _, f := range fusedList {
			switch f.matchType() {
			case MatchBoth:
				diag.BothCount++
			case MatchSemantic:
				diag.SemanticOnlyCount++
			case MatchKeyword:
				diag.KeywordOnlyCount++
			}
		}
	}

	keys := make([]storage.Key, len(fusedList))
	for i, f := range fusedList {
		keys[i] = f.Key
	}
	chunks, err := e.store.FetchChunks(ctx, indexName, keys)
	if err != nil {
		return nil, diag, fmt.Errorf("search: failed to hydrate chunks: %w", err)
	}
	chunksByKey := make(map[storage.Key]storage.Chunk, len(chunks))
	for _, c := range chunks {
		chunksByKey[storage.Key{FilePath: c.FilePath, LocStart: c.LocStart, LocEnd: c.LocEnd}] = c
	}

	boosted := applyDefinitionBoost(fusedList, func(k storage.Key) bool {
		return chunksByKey[k].SymbolType != ""
	})
	if diag != nil {
		for i, f := range fusedList {
			if boosted[i] > f.Score && chunksByKey[f.Key].SymbolType != "" {
				diag.DefinitionBoostApplied++
			}
		}
	}
	for i := range fusedList {
		fusedList[i].Score = boosted[i]
	}
	sort.SliceStable(fusedList, func(i, j int) bool { return fusedList[i].Score > fusedList[j].Score })

	var selected []fused
	for _, f := range fusedList {
		if f.Score < opts.MinScore {
			continue
		}
		if _, ok := chunksByKey[f.Key]; !ok {
			continue
		}
		selected = append(selected, f)
		if len(selected) >= opts.Limit {
			break
		}
	}

	meta, err := e.store.GetIndexMetadata(ctx, indexName)
	if err != nil {
		return nil, diag, fmt.Errorf("search: failed to read index metadata: %w", err)
	}

	results := make([]Result, 0, len(selected))
	for _, f := range selected {
		c := chunksByKey[f.Key]
		exp, err := e.hydrateContext(meta.CanonicalPath, c, opts)
		if err != nil {
			return nil, diag, err
		}
		results = append(results, Result{
			File:         c.FilePath,
			StartLine:    exp.StartLine,
			EndLine:      exp.EndLine,
			Score:        f.Score,
			Content:      exp.Text,
			MatchType:    f.matchType(),
			VectorScore:  f.VectorScore,
			KeywordScore: f.KeywordScore,
			SymbolType:   c.SymbolType,
			SymbolName:   c.SymbolName,
		})
	}

	if diag != nil {
		diag.ResultCount = len(results)
		diag.Duration = time.Since(start)
	}

	if !opts.NoCache {
		blob, err := json.Marshal(results)
		if err == nil {
			_ = e.store.StoreExactCache(ctx, indexName, queryHash, filterSig, blob)
			_ = e.store.StoreSemanticCache(ctx, indexName, queryVec, filterSig, blob)
		}
	}

	return results, diag, nil
}

// hydrateContext reads (and caches) a chunk's source file, then expands
// its context per spec.md §4.10 step 8.
func (e *Engine) hydrateContext(canonicalPath string, c storage.Chunk, opts Options) (expandedContext, error) {
	absPath := filepath.Join(canonicalPath, c.FilePath)
	offsets, err := e.lineCache.get(absPath, func() (*lineOffsets, error) {
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("search: failed to read %s for hydration: %w", absPath, err)
		}
		return newLineOffsets(data), nil
	})
	if err != nil {
		return expandedContext{Text: c.Text, StartLine: 0, EndLine: 0}, nil
	}

	extractor := e.extractor
	if extractor == nil {
		return expandContext(c, offsets, nil, false, opts.ContextBefore, opts.ContextAfter), nil
	}
	return expandContext(c, offsets, extractor, opts.SmartContext, opts.ContextBefore, opts.ContextAfter), nil
}

func decodeResults(blob json.RawMessage) ([]Result, error) {
	var results []Result
	if err := json.Unmarshal(blob, &results); err != nil {
		return nil, fmt.Errorf("search: failed to decode cached result: %w", err)
	}
	return results, nil
}
