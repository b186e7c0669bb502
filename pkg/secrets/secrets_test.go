package secrets

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, a, 2*KeySize)
	assert.NotEqual(t, a, b)
	raw, err := hex.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, KeySize)
}
