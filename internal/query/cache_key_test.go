package query

import (
	"testing"

	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestHashIsStableAndDistinguishesQueries(t *testing.T) {
	assert.Equal(t, Hash("get user"), Hash("get user"))
	assert.NotEqual(t, Hash("get user"), Hash("set user"))
}

func TestFilterSignatureIgnoresSymbolTypeOrder(t *testing.T) {
	a := FilterSignature(storage.SearchFilters{SymbolTypes: []string{"function", "class"}}, 10, 0, true, true)
	b := FilterSignature(storage.SearchFilters{SymbolTypes: []string{"class", "function"}}, 10, 0, true, true)
	assert.Equal(t, a, b)
}

func TestFilterSignatureDistinguishesOptions(t *testing.T) {
	base := FilterSignature(storage.SearchFilters{}, 10, 0, true, true)
	diffHybrid := FilterSignature(storage.SearchFilters{}, 10, 0, false, true)
	diffLimit := FilterSignature(storage.SearchFilters{}, 20, 0, true, true)
	assert.NotEqual(t, base, diffHybrid)
	assert.NotEqual(t, base, diffLimit)
}
