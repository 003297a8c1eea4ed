package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTSVectorExpr_Shape(t *testing.T) {
	expr, args := BuildTSVectorExpr("func foo() {}", "foo")
	require.Len(t, args, 2)
	assert.Equal(t, "func foo() {}", args[0])
	assert.Equal(t, "func foo foo", args[1])
	assert.Contains(t, expr, "setweight")
	assert.Contains(t, expr, WeightProse)
	assert.Contains(t, expr, WeightIdentifier)
}

func TestBuildTSVectorExpr_EmptySymbol(t *testing.T) {
	_, args := BuildTSVectorExpr("plain text", "")
	assert.Equal(t, "plain text", args[1])
}

func TestBuildTSVectorExpr_SplitsIdentifiersInBodyNotJustSymbolName(t *testing.T) {
	// spec.md §4.6: build_tsvector splits every identifier it tokenises
	// out of the text, not only the chunk's associated symbol name — a
	// snake_case symbol's body must still surface the camelCase-squashed
	// term so a camelCase query's AND'd plainto_tsquery can match it.
	_, args := BuildTSVectorExpr("func get_user_by_id() {}", "get_user_by_id")
	identifierTerms := args[1].(string)
	assert.Contains(t, identifierTerms, "getuserbyid")
	assert.Contains(t, identifierTerms, "user")
}
