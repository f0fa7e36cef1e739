package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/superblock"
)

func TestWriter_SingleFileRoundTrip(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f)
	require.NoError(t, err)

	require.NoError(t, w.AddFile("hello.txt", []byte("hello, world")))
	require.NoError(t, w.Finalize())

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	data, err := r.ReadFile("hello.txt")
	require.NoError(t, err)
	require.Equal(t, "hello, world", string(data))
}

func TestWriter_MultiChunkFile(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f, WithChunkSize(16))
	require.NoError(t, err)

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, w.AddFile("blob.bin", payload))
	require.NoError(t, w.Finalize())

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	got, err := r.ReadFile("blob.bin")
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestWriter_EmptyFile(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f)
	require.NoError(t, err)

	require.NoError(t, w.AddFile("empty.txt", nil))
	require.NoError(t, w.Finalize())

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	got, err := r.ReadFile("empty.txt")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWriter_Dedup(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f, WithChunkSize(1024))
	require.NoError(t, err)

	chunk := []byte("identical content repeated across files")

	require.NoError(t, w.AddFile("a.txt", chunk))
	require.NoError(t, w.AddFile("b.txt", chunk))
	require.Equal(t, 1, w.dedupTable.Len())
	require.NoError(t, w.Finalize())

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	a, err := r.ReadFile("a.txt")
	require.NoError(t, err)
	b, err := r.ReadFile("b.txt")
	require.NoError(t, err)
	require.Equal(t, chunk, a)
	require.Equal(t, chunk, b)
}

func TestWriter_EncryptedArchive(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f, WithPassword("s3cr3t-passphrase"))
	require.NoError(t, err)

	require.NoError(t, w.AddFile("secret.txt", []byte("confidential contents")))
	require.NoError(t, w.Finalize())

	t.Run("opens with correct password", func(t *testing.T) {
		r, err := Open(f.readerAt(), int64(len(f.bytes())), WithReaderPassword("s3cr3t-passphrase"))
		require.NoError(t, err)

		got, err := r.ReadFile("secret.txt")
		require.NoError(t, err)
		require.Equal(t, "confidential contents", string(got))
	})

	t.Run("rejects missing password", func(t *testing.T) {
		_, err := Open(f.readerAt(), int64(len(f.bytes())))
		require.Error(t, err)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		r, err := Open(f.readerAt(), int64(len(f.bytes())), WithReaderPassword("wrong"))
		if err != nil {
			return // key derivation mismatch may surface at open time
		}

		_, err = r.ReadFile("secret.txt")
		require.Error(t, err)
	})
}

func TestWriter_SolidMode(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f)
	require.NoError(t, err)

	require.NoError(t, w.BeginSolid(format.CodecZstd))
	require.NoError(t, w.AddFile("one.txt", []byte("first file contents")))
	require.NoError(t, w.AddFile("two.txt", []byte("second file, different length")))
	require.NoError(t, w.EndSolid())
	require.NoError(t, w.Finalize())

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	one, err := r.ReadFile("one.txt")
	require.NoError(t, err)
	require.Equal(t, "first file contents", string(one))

	two, err := r.ReadFile("two.txt")
	require.NoError(t, err)
	require.Equal(t, "second file, different length", string(two))
}

func TestWriter_RootHashVerifies(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f)
	require.NoError(t, err)

	require.NoError(t, w.AddFile("a.txt", []byte("alpha")))
	require.NoError(t, w.AddFile("b.txt", []byte("bravo")))
	require.NoError(t, w.Finalize())

	r, err := Open(f.readerAt(), int64(len(f.bytes())))
	require.NoError(t, err)

	ok, err := r.RootHash()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWriter_RequiredCodecsExcludeIndexCodec(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f, WithDefaultCodec(format.CodecLZ4))
	require.NoError(t, err)

	require.NoError(t, w.AddFile("a.txt", []byte("alpha contents compressed with lz4")))
	require.NoError(t, w.Finalize())

	sb, err := superblock.Parse(f.bytes()[:format.SuperblockSize])
	require.NoError(t, err)

	require.Contains(t, sb.RequiredCodecUUIDs, format.CodecLZ4)
	require.NotContains(t, sb.RequiredCodecUUIDs, format.CodecZstd)
}

func TestWriter_FinalizeIdempotent(t *testing.T) {
	f := &memFile{}

	w, err := NewWriter(f)
	require.NoError(t, err)

	require.NoError(t, w.AddFile("x.txt", []byte("x")))
	require.NoError(t, w.Finalize())

	err = w.Finalize()
	require.Error(t, err)
}
