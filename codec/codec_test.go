package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/6cy/format"
)

func TestRegistry_BuiltinRoundTrip(t *testing.T) {
	reg := NewRegistry()
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 200))

	builtins := []format.CodecUUID{
		format.CodecNone,
		format.CodecZstd,
		format.CodecLZ4,
		format.CodecBrotli,
		format.CodecLZMA,
	}

	for _, uuid := range builtins {
		t.Run(uuid.String(), func(t *testing.T) {
			require.True(t, reg.Has(uuid))

			compressed, err := reg.Compress(uuid, payload, 0)
			require.NoError(t, err)

			decompressed, err := reg.Decompress(uuid, compressed, len(payload))
			require.NoError(t, err)
			require.True(t, bytes.Equal(payload, decompressed))
		})
	}
}

func TestRegistry_EmptyInput(t *testing.T) {
	reg := NewRegistry()

	for _, uuid := range []format.CodecUUID{format.CodecNone, format.CodecZstd, format.CodecLZ4, format.CodecBrotli, format.CodecLZMA} {
		compressed, err := reg.Compress(uuid, nil, 0)
		require.NoError(t, err)

		decompressed, err := reg.Decompress(uuid, compressed, 0)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}

func TestRegistry_UnknownCodec(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Compress(format.CodecUUID{0xFF}, []byte("x"), 0)
	require.Error(t, err)
}

func TestRegistry_ResolveAlias(t *testing.T) {
	reg := NewRegistry()

	uuid, ok := reg.ResolveAlias("zstd")
	require.True(t, ok)
	require.Equal(t, format.CodecZstd, uuid)

	_, ok = reg.ResolveAlias("nonexistent")
	require.False(t, ok)
}

func TestRegistry_Register_CollisionRejected(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(format.CodecZstd, "dup", noopCodec{})
	require.Error(t, err)
}

func TestRegistry_Register_Plugin(t *testing.T) {
	reg := NewRegistry()
	pluginUUID := format.CodecUUID{0x01, 0x02, 0x03}

	err := reg.Register(pluginUUID, "test-plugin", noopCodec{})
	require.NoError(t, err)
	require.True(t, reg.Has(pluginUUID))

	uuid, ok := reg.ResolveAlias("test-plugin")
	require.True(t, ok)
	require.Equal(t, pluginUUID, uuid)
}
