package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobToLike(t *testing.T) {
	assert.Equal(t, "Get%", globToLike("Get*"))
	assert.Equal(t, "Get_ser", globToLike("Get?ser"))
	assert.Equal(t, `100\%`, globToLike("100%"))
	assert.Equal(t, `a\_b`, globToLike("a_b"))
}

func TestBuildFilterClause_NoFilters(t *testing.T) {
	where, args := buildFilterClause(SearchFilters{}, 2)
	assert.Equal(t, "", where)
	assert.Empty(t, args)
}

func TestBuildFilterClause_AllFilters(t *testing.T) {
	where, args := buildFilterClause(SearchFilters{
		Language:    "go",
		SymbolTypes: []string{"function", "method"},
		SymbolName:  "Get*",
	}, 2)

	assert.Contains(t, where, "language_id = $2")
	assert.Contains(t, where, "symbol_type = ANY($3)")
	assert.Contains(t, where, "symbol_name LIKE $4")
	assert.Equal(t, []interface{}{"go", []string{"function", "method"}, "Get%"}, args)
}
