package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistryNoConflicts(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	require.NotEmpty(t, r.RegisteredLanguages())
}

func TestResolveByExtension(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	resolved := r.Resolve("internal/foo/bar.py", []byte("def bar():\n    pass\n"))
	require.Equal(t, "python", resolved.LanguageID)
	md := resolved.ExtractMetadata("def bar():\n    pass\n")
	require.Equal(t, "function", md.BlockType)
	require.Equal(t, "bar", md.Hierarchy)
}

func TestResolveFallsBackToPlainText(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	resolved := r.Resolve("NOTES.txt", []byte("hello"))
	require.Equal(t, "", resolved.LanguageID)
	require.Equal(t, Metadata{}, resolved.ExtractMetadata("hello"))
}

func TestResolveDockerfileSentinel(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	resolved := r.Resolve("build/Dockerfile", []byte("FROM golang:1.24 AS build\n"))
	require.Equal(t, "dockerfile", resolved.LanguageID)
}

func TestGrammarOverridesLanguageHandler(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	content := []byte("on:\n  push:\njobs:\n  build:\n    steps:\n    - name: test\n      run: go test ./...\n")
	resolved := r.Resolve(".github/workflows/ci.yml", content)
	require.Equal(t, "github-actions", resolved.LanguageID)

	plainYAML := r.Resolve("config/app.yml", []byte("name: app\n"))
	require.Equal(t, "yaml", plainYAML.LanguageID)
}

func TestExtensionConflictDetected(t *testing.T) {
	languageHandlers = append(languageHandlers, dupHandler{})
	defer func() { languageHandlers = languageHandlers[:len(languageHandlers)-1] }()

	_, err := NewRegistry()
	require.Error(t, err)
	var conflict *ErrExtensionConflict
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, ".py", conflict.Extension)
}

type dupHandler struct{}

func (dupHandler) Extensions() []string { return []string{".py"} }
func (dupHandler) SeparatorSpec() CustomLanguageSpec {
	return CustomLanguageSpec{LanguageName: "duplicate-python"}
}
func (dupHandler) ExtractMetadata(string) Metadata { return Metadata{} }
