package chunker

import (
	"strings"
	"testing"

	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/stretchr/testify/require"
)

func TestSplitSmallFileProducesSingleChunk(t *testing.T) {
	spec := handlers.CustomLanguageSpec{LanguageName: "python", SeparatorsRegex: []string{`(?m)^def\s`}}
	text := "def foo():\n    return 1\n"

	chunks := Split(text, spec, Options{ChunkSize: 1000, ChunkOverlap: 300})
	require.Len(t, chunks, 1)
	require.Equal(t, text, chunks[0].Text)
	require.Equal(t, 0, chunks[0].Start)
	require.Equal(t, len(text), chunks[0].End)
}

func TestSplitRecursesOnOversizedPiece(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("def f")
		sb.WriteString(strings.Repeat("x", 10))
		sb.WriteString("():\n    pass\n\n")
	}
	text := sb.String()
	spec := handlers.CustomLanguageSpec{LanguageName: "python", SeparatorsRegex: []string{`(?m)^def\s`}}

	chunks := Split(text, spec, Options{ChunkSize: 200, ChunkOverlap: 0})
	require.Greater(t, len(chunks), 1)

	// Every chunk's text must reconstruct (sans overlap, which is 0 here)
	// back to the corresponding slice of the original.
	for _, c := range chunks {
		require.Equal(t, text[c.Start:c.End], c.Text)
	}
}

func TestSplitPreservesOverlap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString(strings.Repeat("a", 80))
		sb.WriteString("\n\n")
	}
	text := sb.String()
	spec := handlers.CustomLanguageSpec{LanguageName: "plain", SeparatorsRegex: nil}

	chunks := Split(text, spec, Options{ChunkSize: 100, ChunkOverlap: 20})
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		require.True(t, strings.HasPrefix(chunks[i].Text, text[chunks[i].Start:chunks[i].Start+20]) || len(chunks[i].Text) < 20)
	}
}

func TestSplitEmptyText(t *testing.T) {
	spec := handlers.CustomLanguageSpec{LanguageName: "plain"}
	chunks := Split("", spec, Options{})
	require.Nil(t, chunks)
}

func TestSplitHardBreaksTextWithNoWhitespace(t *testing.T) {
	text := strings.Repeat("x", 500)
	spec := handlers.CustomLanguageSpec{LanguageName: "plain"}

	chunks := Split(text, spec, Options{ChunkSize: 100, ChunkOverlap: 0})
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		require.LessOrEqual(t, len(c.Text), 100)
	}
}
