package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeDetectsCamelCase(t *testing.T) {
	a := Analyze("find getUserById handler")
	assert.True(t, a.HasIdentifierPattern)
}

func TestAnalyzeDetectsSnakeCase(t *testing.T) {
	a := Analyze("find get_user_by_id handler")
	assert.True(t, a.HasIdentifierPattern)
}

func TestAnalyzeDetectsPascalCase(t *testing.T) {
	a := Analyze("find GetUserById handler")
	assert.True(t, a.HasIdentifierPattern)
}

func TestAnalyzePlainEnglishHasNoPattern(t *testing.T) {
	a := Analyze("find the user lookup function")
	assert.False(t, a.HasIdentifierPattern)
}

func TestAnalyzeNormalizesIdentifierTokens(t *testing.T) {
	a := Analyze("getUserById")
	assert.Contains(t, a.NormalizedKeywordQuery, "get")
	assert.Contains(t, a.NormalizedKeywordQuery, "user")
	assert.Contains(t, a.NormalizedKeywordQuery, "id")
}

func TestShouldUseHybridHonoursExplicitOverride(t *testing.T) {
	off := false
	a := Analyze("getUserById")
	assert.False(t, ShouldUseHybrid(a, &off))

	on := true
	plain := Analyze("find the user")
	assert.True(t, ShouldUseHybrid(plain, &on))
}

func TestShouldUseHybridDefaultsToDetection(t *testing.T) {
	a := Analyze("getUserById")
	assert.True(t, ShouldUseHybrid(a, nil))

	plain := Analyze("find the user")
	assert.False(t, ShouldUseHybrid(plain, nil))
}
