package symbols

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolveQuerySource implements the project ≻ user ≻ built-in priority
// spec.md §4.5 names for query file resolution. projectDir may be empty
// (no project override directory known yet, e.g. before project
// resolution has run).
func resolveQuerySource(languageID, builtin, projectDir string) (string, error) {
	candidates := []string{}
	if projectDir != "" {
		candidates = append(candidates, filepath.Join(projectDir, ".cocosearch", "queries", languageID+".scm"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "cocosearch", "queries", languageID+".scm"))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("symbols: failed to read query override %s: %w", path, err)
		}
	}
	return builtin, nil
}

// NewExtractorWithOverrides is like NewExtractor but resolves each
// language's query source through the project/user/built-in priority
// chain before compiling it.
func NewExtractorWithOverrides(projectDir string) (*Extractor, error) {
	e := &Extractor{bindings: make(map[string]*binding)}
	for _, b := range builtinBindings() {
		source, err := resolveQuerySource(b.languageID, b.querySource, projectDir)
		if err != nil {
			return nil, err
		}
		b.querySource = source
		q, err := compileQuery(b)
		if err != nil {
			return nil, err
		}
		b.query = q
		e.bindings[b.languageID] = b
	}
	return e, nil
}
