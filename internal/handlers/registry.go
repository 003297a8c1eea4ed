// Package handlers implements the two-tier plugin registry of spec.md
// §4.3: language handlers matched by file extension, and grammar handlers
// matched by a (path pattern, content marker) pair that override the
// language handler for the files they claim. Handlers self-register via
// init(), the closest idiomatic Go analogue to the spec's "autodiscovers
// ... by scanning a conventional directory" — Go has no reflection-based
// plugin loader in this pack, so package-level registration at import
// time stands in for it.
package handlers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// CustomLanguageSpec is an ordered list of separator regexes, coarsest to
// finest, driving the recursive chunker (spec.md §4.4). Patterns must be
// expressible in Go's RE2 dialect: no lookaround.
type CustomLanguageSpec struct {
	LanguageName    string
	SeparatorsRegex []string
}

// Metadata is the per-chunk structural metadata a handler extracts.
// Non-matching fields default to the zero value (empty string), never
// null, per spec.md §4.4.
type Metadata struct {
	BlockType  string
	Hierarchy  string
	LanguageID string
}

// LanguageHandler is matched by file extension (or, for extension-less
// conventional filenames like "Dockerfile", by exact basename).
type LanguageHandler interface {
	// Extensions lists the file extensions this handler claims, each
	// including the leading dot (".py"), or a bare basename sentinel for
	// files with no extension ("Dockerfile").
	Extensions() []string
	SeparatorSpec() CustomLanguageSpec
	ExtractMetadata(text string) Metadata
}

// GrammarHandler is matched by a (path pattern, content marker) pair and
// overrides the language handler for files it claims — e.g. GitHub
// Actions manifests get distinct chunking from generic YAML.
type GrammarHandler interface {
	Name() string
	BaseLanguage() string
	Matches(path string, content []byte) bool
	SeparatorSpec() CustomLanguageSpec
	ExtractMetadata(text string) Metadata
}

// languageHandlers and grammarHandlers are populated by each handler
// file's init() function at import time; NewRegistry consumes a copy of
// whatever is registered by the time it runs.
var (
	languageHandlers []LanguageHandler
	grammarHandlers  []GrammarHandler
)

// registerLanguage is called from each language handler file's init().
func registerLanguage(h LanguageHandler) {
	languageHandlers = append(languageHandlers, h)
}

// registerGrammar is called from each grammar handler file's init().
// Grammars are consulted in registration order, so file load order
// within the package determines precedence among grammars that could
// both match the same file (spec.md §4.3).
func registerGrammar(g GrammarHandler) {
	grammarHandlers = append(grammarHandlers, g)
}

// ErrExtensionConflict is returned by NewRegistry when two language
// handlers claim the same extension, per spec.md §4.3 "extension
// conflicts ... are detected at startup and abort process launch".
type ErrExtensionConflict struct {
	Extension string
	First     string
	Second    string
}

func (e *ErrExtensionConflict) Error() string {
	return fmt.Sprintf("handlers: extension %q claimed by both %q and %q", e.Extension, e.First, e.Second)
}

// Registry resolves a file path (plus a content sniff) to a handler, per
// spec.md §4.3. It is built once at process start and is safe for
// concurrent read access thereafter (spec.md §3, §5, §9).
type Registry struct {
	byExtension map[string]LanguageHandler
	grammars    []GrammarHandler
	fallback    LanguageHandler
}

// NewRegistry builds the registry from every handler registered via
// init() so far. Returns ErrExtensionConflict if two language handlers
// claim the same extension.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		byExtension: make(map[string]LanguageHandler, len(languageHandlers)),
		fallback:    plainTextHandler{},
	}

	for _, h := range languageHandlers {
		for _, ext := range h.Extensions() {
			if existing, ok := r.byExtension[ext]; ok {
				return nil, &ErrExtensionConflict{
					Extension: ext,
					First:     existing.SeparatorSpec().LanguageName,
					Second:    h.SeparatorSpec().LanguageName,
				}
			}
			r.byExtension[ext] = h
		}
	}

	r.grammars = append(r.grammars, grammarHandlers...)
	return r, nil
}

// Resolved is the unified view of whatever handler claimed a file: a
// chunk-separator spec and a metadata extractor, regardless of whether a
// grammar or a plain language handler produced it.
type Resolved struct {
	LanguageID      string
	Spec            CustomLanguageSpec
	extractMetadata func(text string) Metadata
}

// ExtractMetadata runs the resolved handler's metadata extractor.
func (r Resolved) ExtractMetadata(text string) Metadata {
	if r.extractMetadata == nil {
		return Metadata{}
	}
	return r.extractMetadata(text)
}

// Resolve matches path and a content sniff against grammars first, then
// language handlers by extension, falling back to the plain-text handler
// that claims everything else with empty metadata, per spec.md §4.3.
func (r *Registry) Resolve(path string, content []byte) Resolved {
	for _, g := range r.grammars {
		if g.Matches(path, content) {
			return Resolved{
				LanguageID:      g.Name(),
				Spec:            g.SeparatorSpec(),
				extractMetadata: g.ExtractMetadata,
			}
		}
	}

	h, ok := r.byExtension[filepath.Base(path)]
	if !ok {
		h, ok = r.byExtension[extensionKey(path)]
	}
	if ok {
		return Resolved{
			LanguageID:      h.SeparatorSpec().LanguageName,
			Spec:            h.SeparatorSpec(),
			extractMetadata: h.ExtractMetadata,
		}
	}

	return Resolved{
		LanguageID:      "",
		Spec:            r.fallback.SeparatorSpec(),
		extractMetadata: r.fallback.ExtractMetadata,
	}
}

// extensionKey returns the matching key for path: the file extension
// (lowercased, with leading dot) if it has one, otherwise the bare
// basename — the "empty-extension basename sentinel" spec.md §4.3 names
// for files like "Dockerfile".
func extensionKey(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.ToLower(ext)
}

// RegisteredLanguages returns the language names known to the registry,
// sorted, for diagnostics.
func (r *Registry) RegisteredLanguages() []string {
	seen := make(map[string]bool)
	for _, h := range r.byExtension {
		seen[h.SeparatorSpec().LanguageName] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
