package search

import (
	"testing"

	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineOffsetsLineAt(t *testing.T) {
	src := []byte("line1\nline2\nline3\n")
	offsets := newLineOffsets(src)

	assert.Equal(t, 1, offsets.lineAt(0))
	assert.Equal(t, 1, offsets.lineAt(4))
	assert.Equal(t, 2, offsets.lineAt(6))
	assert.Equal(t, 3, offsets.lineAt(12))
}

func TestLineOffsetCacheEvictsOldest(t *testing.T) {
	c := newLineOffsetCache(2)
	loads := 0
	load := func() (*lineOffsets, error) {
		loads++
		return newLineOffsets([]byte("x\n")), nil
	}

	_, err := c.get("a", load)
	require.NoError(t, err)
	_, err = c.get("b", load)
	require.NoError(t, err)
	_, err = c.get("c", load)
	require.NoError(t, err)

	assert.Equal(t, 3, loads)

	// "a" was evicted; re-fetching it triggers another load.
	_, err = c.get("a", load)
	require.NoError(t, err)
	assert.Equal(t, 4, loads)

	// "c" is still cached.
	_, err = c.get("c", load)
	require.NoError(t, err)
	assert.Equal(t, 4, loads)
}

func TestSmallestEnclosingPicksInnermost(t *testing.T) {
	defs := []symbols.Definition{
		{Start: 0, End: 100, Name: "Outer"},
		{Start: 10, End: 40, Name: "inner"},
	}
	best := smallestEnclosing(defs, 15, 25)
	require.NotNil(t, best)
	assert.Equal(t, "inner", best.Name)
}

func TestSmallestEnclosingNoneCovers(t *testing.T) {
	defs := []symbols.Definition{{Start: 0, End: 10, Name: "f"}}
	assert.Nil(t, smallestEnclosing(defs, 5, 20))
}

func TestCapLinesNoTruncationNeeded(t *testing.T) {
	s, e := capLines(10, 20, 12, 14, 50)
	assert.Equal(t, 10, s)
	assert.Equal(t, 20, e)
}

func TestCapLinesTruncatesCenteredOnMatch(t *testing.T) {
	s, e := capLines(1, 200, 100, 100, 50)
	assert.Equal(t, 50, e-s+1)
	assert.LessOrEqual(t, s, 100)
	assert.GreaterOrEqual(t, e, 100)
}

func TestExpandContextFallsBackWithoutExtractor(t *testing.T) {
	src := []byte("a\nb\nc\nd\ne\n")
	offsets := newLineOffsets(src)
	c := storage.Chunk{LocStart: 2, LocEnd: 3, LanguageID: "go"}

	exp := expandContext(c, offsets, nil, false, 1, 1)
	assert.Equal(t, 1, exp.StartLine)
	assert.Equal(t, 3, exp.EndLine)
}
