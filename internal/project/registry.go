package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/cocosearch/cocosearch/internal/storage"
)

// MissingIndexError is returned when a query auto-detects a project
// whose name has no entry in index_metadata yet, per spec.md §4.8
// "the response is a structured error containing the exact CLI command
// ... that would index the project".
type MissingIndexError struct {
	IndexName     string
	CanonicalPath string
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("no index named %q; run `%s` to create it", e.IndexName, e.Suggestion())
}

// Suggestion is the actionable next step for a MissingIndexError,
// surfaced verbatim by both the CLI and MCP entry points.
func (e *MissingIndexError) Suggestion() string {
	return fmt.Sprintf("cocosearch index --path %s --index-name %s", e.CanonicalPath, e.IndexName)
}

// Registry resolves a working directory to a project identity and keeps
// it registered in storage's shared index_metadata table.
type Registry struct {
	store *storage.Store
}

// NewRegistry builds a Registry backed by store.
func NewRegistry(store *storage.Store) *Registry {
	return &Registry{store: store}
}

// Resolve determines the project identity for opts without touching
// storage, so callers can decide whether to register (index time) or
// merely look up (query time).
func Resolve(opts RootOptions) (*Resolved, error) {
	root, foundByGit, err := ResolveRoot(opts)
	if err != nil {
		return nil, err
	}
	indexName, err := ResolveIndexName(root, foundByGit)
	if err != nil {
		return nil, err
	}
	return &Resolved{CanonicalPath: root, IndexName: indexName, FoundByGit: foundByGit}, nil
}

// Register binds r's index name to its canonical path in storage,
// failing with *storage.ErrPathCollision if the name is already bound to
// a different path, per spec.md §4.8 "Collisions at index time fail the
// operation".
func (reg *Registry) Register(ctx context.Context, r *Resolved) error {
	return reg.store.SetCanonicalPath(ctx, r.IndexName, r.CanonicalPath)
}

// Lookup returns the registered metadata for r's index name, wrapping it
// in *MissingIndexError if no such index exists yet, per spec.md §4.8
// "Missing-index behaviour". Query-time collisions (a different
// canonical path already registered under this name) are surfaced as-is
// for the caller to report as ambiguity, per spec.md §4.8 "Collisions at
// query time surface the ambiguity to the caller".
func (reg *Registry) Lookup(ctx context.Context, r *Resolved) (*storage.IndexMetadata, error) {
	meta, err := reg.store.GetIndexMetadata(ctx, r.IndexName)
	if err != nil {
		var notFound *storage.ErrIndexNotFound
		if errors.As(err, &notFound) {
			return nil, &MissingIndexError{IndexName: r.IndexName, CanonicalPath: r.CanonicalPath}
		}
		return nil, err
	}
	if meta.CanonicalPath != "" && meta.CanonicalPath != r.CanonicalPath {
		return nil, &storage.ErrPathCollision{IndexName: r.IndexName, ExistingPath: meta.CanonicalPath, RequestedPath: r.CanonicalPath}
	}
	return meta, nil
}
