package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecUUID_String(t *testing.T) {
	require.Equal(t, "b28a9d4f-5e3c-4a1b-8f2e-7c6d9b0e1a2f", CodecZstd.String())
	require.Equal(t, "00000000-0000-0000-0000-000000000000", CodecNone.String())
}

func TestCodecUUID_IsZero(t *testing.T) {
	require.True(t, CodecNone.IsZero())
	require.False(t, CodecZstd.IsZero())
}

func TestFrozenCodecUUIDs_Distinct(t *testing.T) {
	uuids := []CodecUUID{CodecNone, CodecZstd, CodecLZ4, CodecBrotli, CodecLZMA}

	seen := make(map[CodecUUID]bool)
	for _, u := range uuids {
		require.False(t, seen[u], "duplicate codec uuid %s", u)
		seen[u] = true
	}
}

func TestBlockType_Valid(t *testing.T) {
	require.True(t, BlockData.Valid())
	require.True(t, BlockIndex.Valid())
	require.True(t, BlockSolid.Valid())
	require.False(t, BlockType(3).Valid())
}

func TestBlockType_String(t *testing.T) {
	require.Equal(t, "DATA", BlockData.String())
	require.Equal(t, "INDEX", BlockIndex.String())
	require.Equal(t, "SOLID", BlockSolid.String())
	require.Equal(t, "UNKNOWN", BlockType(99).String())
}
