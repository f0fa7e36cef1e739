package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLE_RoundTrip(t *testing.T) {
	t.Run("uint16", func(t *testing.T) {
		buf := make([]byte, 2)
		LE.PutUint16(buf, 0xBEEF)
		require.Equal(t, uint16(0xBEEF), LE.Uint16(buf))
		require.Equal(t, byte(0xEF), buf[0])
	})

	t.Run("uint32", func(t *testing.T) {
		buf := make([]byte, 4)
		LE.PutUint32(buf, 0xDEADBEEF)
		require.Equal(t, uint32(0xDEADBEEF), LE.Uint32(buf))
		require.Equal(t, byte(0xEF), buf[0])
	})

	t.Run("uint64", func(t *testing.T) {
		buf := make([]byte, 8)
		LE.PutUint64(buf, 0x0102030405060708)
		require.Equal(t, uint64(0x0102030405060708), LE.Uint64(buf))
		require.Equal(t, byte(0x08), buf[0])
	})
}
