package ingest

import (
	"testing"

	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/stretchr/testify/assert"
)

func TestAssociateDefinitionPicksInnermostOverlap(t *testing.T) {
	defs := []symbols.Definition{
		{Start: 0, End: 100, Kind: symbols.KindClass, Name: "Outer", QualifiedName: "Outer"},
		{Start: 10, End: 40, Kind: symbols.KindMethod, Name: "inner", QualifiedName: "Outer.inner"},
	}

	symType, symName, symSig := associateDefinition(defs, 15, 25)
	assert.Equal(t, "method", symType)
	assert.Equal(t, "Outer.inner", symName)
	assert.Equal(t, "", symSig)
}

func TestAssociateDefinitionNoOverlapReturnsEmpty(t *testing.T) {
	defs := []symbols.Definition{
		{Start: 0, End: 10, Kind: symbols.KindFunction, Name: "f", QualifiedName: "f"},
	}
	symType, symName, symSig := associateDefinition(defs, 20, 30)
	assert.Equal(t, "", symType)
	assert.Equal(t, "", symName)
	assert.Equal(t, "", symSig)
}

func TestAssociateDefinitionNoDefinitions(t *testing.T) {
	symType, symName, symSig := associateDefinition(nil, 0, 10)
	assert.Empty(t, symType)
	assert.Empty(t, symName)
	assert.Empty(t, symSig)
}
