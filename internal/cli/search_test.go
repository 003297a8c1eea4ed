package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndentPrefixesEveryLine(t *testing.T) {
	got := indent("a\nb\nc")
	assert.Equal(t, "    a\n    b\n    c", got)
}

func TestIndentSingleLine(t *testing.T) {
	assert.Equal(t, "    only", indent("only"))
}
