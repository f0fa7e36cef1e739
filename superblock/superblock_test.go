package superblock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

func TestSuperblock_BytesParseRoundTrip(t *testing.T) {
	var uuid [16]byte
	copy(uuid[:], []byte("0123456789abcdef"))

	sb := New(uuid)
	sb.IndexOffset = 4096
	sb.IndexSize = 256
	sb.RequiredCodecUUIDs = []format.CodecUUID{format.CodecZstd, format.CodecLZ4}
	sb.SetEncrypted(true)

	buf, err := sb.Bytes()
	require.NoError(t, err)
	require.Len(t, buf, format.SuperblockSize)

	parsed, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, sb.ArchiveUUID, parsed.ArchiveUUID)
	require.Equal(t, sb.IndexOffset, parsed.IndexOffset)
	require.Equal(t, sb.IndexSize, parsed.IndexSize)
	require.Equal(t, sb.RequiredCodecUUIDs, parsed.RequiredCodecUUIDs)
	require.True(t, parsed.Encrypted())
}

func TestSuperblock_RejectsBadMagic(t *testing.T) {
	sb := New([16]byte{})
	buf, err := sb.Bytes()
	require.NoError(t, err)

	buf[0] = 'X'

	_, err = Parse(buf)
	require.ErrorIs(t, err, errs.ErrMagic)
}

func TestSuperblock_RejectsWrongVersion(t *testing.T) {
	sb := New([16]byte{})
	buf, err := sb.Bytes()
	require.NoError(t, err)

	buf[4] = 99

	_, err = Parse(buf)
	require.ErrorIs(t, err, errs.ErrFormatVersion)
}

func TestSuperblock_RejectsBadCRC(t *testing.T) {
	sb := New([16]byte{})
	sb.IndexOffset = 1000
	buf, err := sb.Bytes()
	require.NoError(t, err)

	buf[28] ^= 0xFF // perturb index_offset, inside the CRC span

	_, err = Parse(buf)
	require.ErrorIs(t, err, errs.ErrHeaderCRC)
}

func TestSuperblock_RejectsTooManyCodecs(t *testing.T) {
	sb := New([16]byte{})

	for i := 0; i <= format.MaxRequiredCodecs; i++ {
		var u format.CodecUUID
		u[0] = byte(i + 1)
		sb.RequiredCodecUUIDs = append(sb.RequiredCodecUUIDs, u)
	}

	_, err := sb.Bytes()
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestSuperblock_RejectsDuplicateCodecsOnParse(t *testing.T) {
	sb := New([16]byte{})
	sb.RequiredCodecUUIDs = []format.CodecUUID{format.CodecZstd, format.CodecLZ4}

	buf, err := sb.Bytes()
	require.NoError(t, err)

	// Overwrite the second codec slot with a copy of the first, so the
	// buffer declares two identical required codecs.
	copy(buf[62:78], buf[46:62])

	_, err = Parse(buf)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestSuperblock_VerifyCodecsAvailable(t *testing.T) {
	reg := codec.NewRegistry()

	t.Run("available", func(t *testing.T) {
		sb := New([16]byte{})
		sb.RequiredCodecUUIDs = []format.CodecUUID{format.CodecZstd}

		require.NoError(t, sb.VerifyCodecsAvailable(reg))
	})

	t.Run("missing codec rejected", func(t *testing.T) {
		sb := New([16]byte{})
		sb.RequiredCodecUUIDs = []format.CodecUUID{{0xAA, 0xBB}}

		err := sb.VerifyCodecsAvailable(reg)
		require.ErrorIs(t, err, errs.ErrUnknownCodec)
	})
}
