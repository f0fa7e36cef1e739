package archive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/6cy/block"
	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/index"
	"github.com/byte271/6cy/superblock"
)

// buildLegacyArchive hand-assembles an archive whose sole record uses the
// legacy `offsets` shim instead of `block_refs`, the way an archive written
// before content hashes were recorded in the index would look.
func buildLegacyArchive(t *testing.T, content []byte) *memFile {
	t.Helper()

	f := &memFile{}

	placeholder := make([]byte, format.SuperblockSize)
	_, err := f.Write(placeholder)
	require.NoError(t, err)

	enc, err := block.Encode(codec.Default, format.CodecNone, 0, format.BlockData, 1, 0, content, nil)
	require.NoError(t, err)

	dataOffset := uint64(f.pos)
	_, err = f.Write(enc.Header.Bytes())
	require.NoError(t, err)
	_, err = f.Write(enc.Payload)
	require.NoError(t, err)

	idx := index.Index{
		Records: []index.Record{
			{
				ID:            1,
				Name:          "legacy.bin",
				LegacyOffsets: []uint64{dataOffset},
				OriginalSize:  uint64(len(content)),
			},
		},
	}

	idxJSON, err := idx.Marshal()
	require.NoError(t, err)

	idxEnc, err := block.Encode(codec.Default, format.CodecZstd, 0, format.BlockIndex, format.FileIDSentinel, 0, idxJSON, nil)
	require.NoError(t, err)

	indexOffset := uint64(f.pos)
	_, err = f.Write(idxEnc.Header.Bytes())
	require.NoError(t, err)
	_, err = f.Write(idxEnc.Payload)
	require.NoError(t, err)
	indexSize := uint64(f.pos) - indexOffset

	sb := superblock.New([16]byte{1, 2, 3})
	sb.IndexOffset = indexOffset
	sb.IndexSize = indexSize

	sbBytes, err := sb.Bytes()
	require.NoError(t, err)
	copy(f.buf[0:format.SuperblockSize], sbBytes)

	return f
}

func TestReader_LegacyOffsets_ReadableByDefault(t *testing.T) {
	content := []byte("legacy file contents written before content hashes existed")
	f := buildLegacyArchive(t, content)

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	got, err := r.ReadFile("legacy.bin")
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestReader_LegacyOffsets_RefusedInStrictMode(t *testing.T) {
	content := []byte("legacy file contents written before content hashes existed")
	f := buildLegacyArchive(t, content)

	r, err := Open(f.readerAt(), int64(len(f.bytes())), WithStrictMode())
	require.NoError(t, err)

	_, err = r.ReadFile("legacy.bin")
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrContentHash))
}
