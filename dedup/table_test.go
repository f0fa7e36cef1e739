package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byte271/6cy/format"
)

func TestTable_LookupRecord(t *testing.T) {
	tbl := New()
	require.Equal(t, 0, tbl.Len())

	var hash [format.ContentHashSize]byte
	hash[0] = 0xAB

	_, ok := tbl.Lookup(hash)
	require.False(t, ok)

	loc := Location{ArchiveOffset: 512, OrigSize: 100, CompSize: 40}
	tbl.Record(hash, loc)
	require.Equal(t, 1, tbl.Len())

	got, ok := tbl.Lookup(hash)
	require.True(t, ok)
	require.Equal(t, loc, got)
}

func TestTable_RecordOverwrites(t *testing.T) {
	tbl := New()

	var hash [format.ContentHashSize]byte
	hash[0] = 0x01

	tbl.Record(hash, Location{ArchiveOffset: 1})
	tbl.Record(hash, Location{ArchiveOffset: 2})

	got, ok := tbl.Lookup(hash)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.ArchiveOffset)
	require.Equal(t, 1, tbl.Len())
}
