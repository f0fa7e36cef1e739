// Package dedup implements the writer's content-addressed block table: a
// map from plaintext content hash to the location of an already-written
// block, consulted before compression so that identical chunks are stored
// once.
package dedup

import "github.com/byte271/6cy/format"

// Location records where an existing block lives on disk, enough for a
// BlockRef to point at it without re-reading the header.
type Location struct {
	ArchiveOffset uint64
	OrigSize      uint32
	CompSize      uint32
}

// Table is a single writer's content-addressed store. It is owned
// exclusively by one Writer instance and discarded at finalize; there is no
// cross-archive sharing and no concurrent access.
type Table struct {
	entries map[[format.ContentHashSize]byte]Location
}

// New creates an empty dedup table.
func New() *Table {
	return &Table{entries: make(map[[format.ContentHashSize]byte]Location)}
}

// Lookup returns the location of an existing block for contentHash, if any.
// DATA blocks consult this before compression; SOLID blocks never consult
// or populate it, per the specification.
func (t *Table) Lookup(contentHash [format.ContentHashSize]byte) (Location, bool) {
	loc, ok := t.entries[contentHash]

	return loc, ok
}

// Record adds contentHash -> loc to the table. Called once per newly
// written DATA block, never for a dedup hit (a hit writes no new block) and
// never for SOLID blocks.
func (t *Table) Record(contentHash [format.ContentHashSize]byte, loc Location) {
	t.entries[contentHash] = loc
}

// Len returns the number of distinct blocks currently tracked.
func (t *Table) Len() int {
	return len(t.entries)
}
