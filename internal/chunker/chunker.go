// Package chunker implements the recursive hierarchical splitter of
// spec.md §4.4: split text by the coarsest language separator; recurse
// with the next-finest separator for any piece still over chunk_size;
// fall back to whitespace/newlines; merge small adjacent pieces back up
// to chunk_size and preserve an overlap between consecutive chunks.
package chunker

import (
	"regexp"
	"strings"

	"github.com/cocosearch/cocosearch/internal/handlers"
)

// DefaultChunkSize and DefaultChunkOverlap mirror spec.md §4.4 defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 300
)

// Options controls the splitter's size targets, per spec.md §4.7
// IndexingConfig.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

// Chunk is a contiguous byte range produced by Split, before metadata
// extraction or symbol association are applied.
type Chunk struct {
	Text  string
	Start int
	End   int
}

// fallbackSeparators are appended after a handler's own separator spec so
// recursion always terminates even for a file whose handler separators
// never match — "the final fallback is whitespace/newlines" per spec.md
// §4.4.
var fallbackSeparators = []string{`\n\n+`, `\n`, `\s+`}

// Split recursively splits text using spec's separators (coarsest to
// finest), then merges adjacent small pieces back up to opts.ChunkSize
// with opts.ChunkOverlap bytes of overlap between consecutive chunks.
func Split(text string, spec handlers.CustomLanguageSpec, opts Options) []Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 0
	}
	if text == "" {
		return nil
	}

	seps := mergedSeparators(spec.SeparatorsRegex)
	leaves := splitRecursive(rawPiece{text: text, start: 0}, seps, opts.ChunkSize)
	leaves = hardSplitAll(leaves, opts.ChunkSize)
	merged := mergeAdjacent(leaves, opts.ChunkSize)
	return applyOverlap(merged, opts.ChunkOverlap)
}

func mergedSeparators(languageSeps []string) []string {
	out := make([]string, 0, len(languageSeps)+len(fallbackSeparators))
	out = append(out, languageSeps...)
	out = append(out, fallbackSeparators...)
	return out
}

// rawPiece is a leaf slice of the original text, tracking its absolute
// byte offset so produced chunks carry correct (filename, location)
// primary keys.
type rawPiece struct {
	text  string
	start int
}

func splitRecursive(p rawPiece, seps []string, chunkSize int) []rawPiece {
	if len(p.text) <= chunkSize || len(seps) == 0 {
		return []rawPiece{p}
	}

	re, err := regexp.Compile(seps[0])
	if err != nil {
		// Unusable pattern (should not happen for built-in specs; a
		// project-supplied separator might still be malformed). Skip it
		// rather than fail the whole ingestion run.
		return splitRecursive(p, seps[1:], chunkSize)
	}

	subs := splitBySeparator(p, re)
	if len(subs) <= 1 {
		return splitRecursive(p, seps[1:], chunkSize)
	}

	var out []rawPiece
	for _, sp := range subs {
		if len(sp.text) > chunkSize {
			out = append(out, splitRecursive(sp, seps[1:], chunkSize)...)
		} else {
			out = append(out, sp)
		}
	}
	return out
}

// splitBySeparator splits p at every match start of sep, keeping the
// matched text as the prefix of the following piece (separators are
// written as patterns anchored at the start of the construct they
// introduce, e.g. "^class ").
func splitBySeparator(p rawPiece, sep *regexp.Regexp) []rawPiece {
	idxs := sep.FindAllStringIndex(p.text, -1)
	if len(idxs) == 0 {
		return []rawPiece{p}
	}

	var pieces []rawPiece
	start := 0
	for _, m := range idxs {
		if m[0] == 0 || m[0] == start {
			continue
		}
		pieces = append(pieces, rawPiece{text: p.text[start:m[0]], start: p.start + start})
		start = m[0]
	}
	pieces = append(pieces, rawPiece{text: p.text[start:], start: p.start + start})
	return pieces
}

// hardSplitAll forces a byte-boundary split on any leaf piece that
// remained over chunkSize after every separator pattern was exhausted
// (e.g. one very long line with no whitespace).
func hardSplitAll(pieces []rawPiece, chunkSize int) []rawPiece {
	var out []rawPiece
	for _, p := range pieces {
		if len(p.text) <= chunkSize {
			out = append(out, p)
			continue
		}
		for i := 0; i < len(p.text); i += chunkSize {
			end := i + chunkSize
			if end > len(p.text) {
				end = len(p.text)
			}
			out = append(out, rawPiece{text: p.text[i:end], start: p.start + i})
		}
	}
	return out
}

// mergeAdjacent greedily packs contiguous leaf pieces into chunks up to
// chunkSize bytes, per spec.md §4.4 "adjacent small pieces are merged up
// to chunk_size".
func mergeAdjacent(pieces []rawPiece, chunkSize int) []Chunk {
	var chunks []Chunk
	i := 0
	for i < len(pieces) {
		var sb strings.Builder
		start := pieces[i].start
		j := i
		for j < len(pieces) && (sb.Len() == 0 || sb.Len()+len(pieces[j].text) <= chunkSize) {
			sb.WriteString(pieces[j].text)
			j++
		}
		text := sb.String()
		chunks = append(chunks, Chunk{Text: text, Start: start, End: start + len(text)})
		i = j
	}
	return chunks
}

// applyOverlap prepends the trailing chunkOverlap bytes of each chunk to
// the following chunk, extending its Start backward to match, per
// spec.md §4.4 "an overlap of chunk_overlap bytes is preserved between
// consecutive chunks to preserve cross-boundary semantic context".
func applyOverlap(chunks []Chunk, chunkOverlap int) []Chunk {
	if chunkOverlap <= 0 || len(chunks) < 2 {
		return chunks
	}

	out := make([]Chunk, len(chunks))
	out[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		overlapLen := chunkOverlap
		if overlapLen > len(prev.Text) {
			overlapLen = len(prev.Text)
		}
		overlapText := prev.Text[len(prev.Text)-overlapLen:]

		cur := chunks[i]
		out[i] = Chunk{
			Text:  overlapText + cur.Text,
			Start: cur.Start - overlapLen,
			End:   cur.End,
		}
	}
	return out
}
