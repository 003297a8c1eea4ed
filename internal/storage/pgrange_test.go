package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgRange_Scan(t *testing.T) {
	var r pgRange
	require.NoError(t, r.Scan("[10,42)"))
	assert.Equal(t, 10, r.lower)
	assert.Equal(t, 42, r.upper)
}

func TestPgRange_Scan_Bytes(t *testing.T) {
	var r pgRange
	require.NoError(t, r.Scan([]byte("[0,5)")))
	assert.Equal(t, 0, r.lower)
	assert.Equal(t, 5, r.upper)
}

func TestPgRange_Scan_Invalid(t *testing.T) {
	var r pgRange
	assert.Error(t, r.Scan("not-a-range"))
}

func TestLocationRange_RoundTrip(t *testing.T) {
	var r pgRange
	require.NoError(t, r.Scan(locationRange(7, 99)))
	assert.Equal(t, 7, r.lower)
	assert.Equal(t, 99, r.upper)
}
