//go:build integration

package project

import (
	"context"
	"errors"
	"testing"

	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx)
	require.NoError(t, err, "requires a reachable Postgres instance with the vector extension")
	t.Cleanup(store.Close)

	const idx = "integration_project_idx"
	require.NoError(t, store.ClearIndex(ctx, idx))
	t.Cleanup(func() { _ = store.ClearIndex(ctx, idx) })
	require.NoError(t, store.Provision(ctx, idx, 4))

	reg := NewRegistry(store)
	resolved := &Resolved{CanonicalPath: "/repos/demo", IndexName: idx}

	require.NoError(t, reg.Register(ctx, resolved))
	meta, err := reg.Lookup(ctx, resolved)
	require.NoError(t, err)
	assert.Equal(t, "/repos/demo", meta.CanonicalPath)

	collision := &Resolved{CanonicalPath: "/repos/other", IndexName: idx}
	err = reg.Register(ctx, collision)
	var pathCollision *storage.ErrPathCollision
	require.True(t, errors.As(err, &pathCollision))
}

func TestRegistryLookupMissingIndex(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx)
	require.NoError(t, err, "requires a reachable Postgres instance with the vector extension")
	t.Cleanup(store.Close)

	reg := NewRegistry(store)
	resolved := &Resolved{CanonicalPath: "/repos/nope", IndexName: "definitely_not_registered"}

	_, err = reg.Lookup(ctx, resolved)
	var missing *MissingIndexError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Suggestion(), "definitely_not_registered")
}
