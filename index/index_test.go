package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/6cy/block"
)

func TestIndex_MarshalUnmarshalRoundTrip(t *testing.T) {
	hash1 := block.ContentHash([]byte("chunk one"))
	hash2 := block.ContentHash([]byte("chunk two"))

	idx := Index{
		Records: []Record{
			{
				ID:           1,
				Name:         "a.txt",
				BlockRefs:    []BlockRef{NewBlockRef(hash1, 256, 0, 0)},
				OriginalSize: 9,
			},
			{
				ID:           2,
				Name:         "b.txt",
				BlockRefs:    []BlockRef{NewBlockRef(hash2, 512, 0, 9)},
				OriginalSize: 9,
			},
		},
	}

	rootHash, err := ComputeRootHash(idx.Records)
	require.NoError(t, err)
	idx.RootHash = rootHash

	data, err := idx.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, idx.Records, got.Records)
	require.Equal(t, idx.RootHash, got.RootHash)

	ok, err := VerifyRootHash(got)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIndex_VerifyRootHash_Tampered(t *testing.T) {
	idx := Index{
		Records: []Record{
			{ID: 1, Name: "a.txt", BlockRefs: []BlockRef{NewBlockRef(block.ContentHash([]byte("x")), 0, 0, 0)}},
		},
	}

	rootHash, err := ComputeRootHash(idx.Records)
	require.NoError(t, err)
	idx.RootHash = rootHash

	idx.Records[0].Name = "tampered.txt"

	ok, err := VerifyRootHash(idx)
	require.NoError(t, err)
	require.True(t, ok) // root hash covers content hashes only, not names

	idx.Records[0].BlockRefs[0] = NewBlockRef(block.ContentHash([]byte("y")), 0, 0, 0)

	ok, err = VerifyRootHash(idx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndex_LegacyOffsetsShim(t *testing.T) {
	legacyJSON := []byte(`{
		"records": [
			{"id": 1, "name": "legacy.bin", "offsets": [256, 4096], "original_size": 100}
		],
		"root_hash": ""
	}`)

	idx, err := Unmarshal(legacyJSON)
	require.NoError(t, err)
	require.Len(t, idx.Records, 1)

	refs := idx.Records[0].BlockRefs
	require.Len(t, refs, 2)
	require.True(t, refs[0].Degraded)
	require.Equal(t, uint64(256), refs[0].ArchiveOffset)
	require.Equal(t, uint64(4096), refs[1].ArchiveOffset)
}

func TestIndex_Marshal_NeverEmitsLegacyOffsets(t *testing.T) {
	idx := Index{Records: []Record{{ID: 1, Name: "a"}}}

	data, err := idx.Marshal()
	require.NoError(t, err)
	require.NotContains(t, string(data), `"offsets"`)
}

func TestBlockRef_Hash_Degraded(t *testing.T) {
	ref := BlockRef{Degraded: true}

	h, err := ref.Hash()
	require.NoError(t, err)
	require.Equal(t, [32]byte{}, h)
}
