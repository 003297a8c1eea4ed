package tokenize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func termSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

func TestSplitIdentifier_Bijection(t *testing.T) {
	// spec.md §8 property 4: the shared component term set is identical
	// up to casing across camelCase, snake_case, and PascalCase spellings.
	expected := []string{"get", "user", "by", "id"}

	for _, ident := range []string{"getUserById", "get_user_by_id", "GetUserByID"} {
		got := termSet(SplitIdentifier(ident))
		for _, term := range expected {
			assert.Truef(t, got[term], "expected %q to contain term %q, got %v", ident, term, got)
		}
	}
}

func TestSplitIdentifier_SameSetAcrossSpellings(t *testing.T) {
	// Stronger than TestSplitIdentifier_Bijection: the three spellings
	// must produce the exact same term set (spec.md §8 property 4), not
	// merely a shared subset — this is what catches the full-token term
	// staying delimiter-bearing for only the snake_case spelling.
	camel := termSet(SplitIdentifier("getUserById"))
	snake := termSet(SplitIdentifier("get_user_by_id"))
	pascal := termSet(SplitIdentifier("GetUserByID"))

	assert.Equal(t, camel, snake, "camelCase and snake_case term sets differ")
	assert.Equal(t, camel, pascal, "camelCase and PascalCase term sets differ")
}

func TestSplitIdentifier_Empty(t *testing.T) {
	assert.Empty(t, SplitIdentifier(""))
}

func TestSplitIdentifier_Acronym(t *testing.T) {
	terms := termSet(SplitIdentifier("HTTPServerConfig"))
	assert.True(t, terms["http"])
	assert.True(t, terms["server"])
	assert.True(t, terms["config"])
}

func TestHasIdentifierPattern(t *testing.T) {
	assert.True(t, HasIdentifierPattern("getUserById"))
	assert.True(t, HasIdentifierPattern("get_user_by_id"))
	assert.True(t, HasIdentifierPattern("GetUserByID"))
	assert.False(t, HasIdentifierPattern("how"))
	assert.False(t, HasIdentifierPattern("does"))
}

func TestHasIdentifierPattern_ProseQuery(t *testing.T) {
	for _, word := range []string{"how", "does", "the", "auth", "layer", "work"} {
		assert.Falsef(t, HasIdentifierPattern(word), "expected %q to not look like an identifier", word)
	}
}

func TestNormalizeQuery(t *testing.T) {
	got := NormalizeQuery("getUserById active")
	assert.Equal(t, "get user by id getuserbyid active", got)
}

func TestNormalizeQuery_SnakeCaseMatchesCamelCaseSquashedTerm(t *testing.T) {
	// Regression for the bug where squashing kept "get_user_by_id"'s
	// underscores: the snake_case query's normalised output must contain
	// the same delimiter-free full-token term as the camelCase query's,
	// or plainto_tsquery's AND of that term against a camelCase symbol's
	// tsvector fails to match (spec.md §8 Scenario B).
	camel := NormalizeQuery("getUserById")
	snake := NormalizeQuery("get_user_by_id")
	assert.Contains(t, camel, "getuserbyid")
	assert.Contains(t, snake, "getuserbyid")
	assert.Equal(t, termSet(strings.Fields(camel)), termSet(strings.Fields(snake)))
}
