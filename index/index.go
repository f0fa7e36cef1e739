// Package index implements the file catalog: the JSON document serialized
// into the INDEX block, and the root-hash computation that lets a caller
// verify a whole archive without reading any block payload.
package index

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"

	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

// BlockRef points a file record at the block holding one of its plaintext
// ranges. IntraOffset/IntraLength are zero for a reference into a DATA
// block and carve a sub-range out of a SOLID block's decompressed payload
// for each file packed into that block.
type BlockRef struct {
	ContentHash   string `json:"content_hash"`
	ArchiveOffset uint64 `json:"archive_offset"`
	IntraOffset   uint32 `json:"intra_offset"`
	IntraLength   uint32 `json:"intra_length"`

	// Degraded marks a BlockRef synthesized from a legacy `offsets: [u64]`
	// index, whose integrity check has degraded to header CRC only because
	// no content hash was ever recorded for it.
	Degraded bool `json:"degraded,omitempty"`
}

// Hash decodes ContentHash back into its raw 32-byte form. A zero-valued
// result with no error corresponds to a degraded, hash-less legacy ref.
func (r BlockRef) Hash() ([format.ContentHashSize]byte, error) {
	var h [format.ContentHashSize]byte

	if r.ContentHash == "" {
		return h, nil
	}

	raw, err := hex.DecodeString(r.ContentHash)
	if err != nil || len(raw) != format.ContentHashSize {
		return h, fmt.Errorf("block ref content_hash: %w", errs.ErrIndexParse)
	}

	copy(h[:], raw)

	return h, nil
}

// NewBlockRef builds a BlockRef from a raw content hash.
func NewBlockRef(hash [format.ContentHashSize]byte, archiveOffset uint64, intraOffset, intraLength uint32) BlockRef {
	return BlockRef{
		ContentHash:   hex.EncodeToString(hash[:]),
		ArchiveOffset: archiveOffset,
		IntraOffset:   intraOffset,
		IntraLength:   intraLength,
	}
}

// Record is one file's catalog entry.
type Record struct {
	ID             uint32            `json:"id"`
	ParentID       uint32            `json:"parent_id"`
	Name           string            `json:"name"`
	BlockRefs      []BlockRef        `json:"block_refs,omitempty"`
	LegacyOffsets  []uint64          `json:"offsets,omitempty"`
	OriginalSize   uint64            `json:"original_size"`
	CompressedSize uint64            `json:"compressed_size"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// resolvedRefs returns BlockRefs, synthesizing degraded, hash-less refs from
// LegacyOffsets when a legacy index shim record carries `offsets` instead of
// `block_refs`. Per the specification this shim is accepted on read and
// never emitted on write.
func (r Record) resolvedRefs() []BlockRef {
	if len(r.BlockRefs) > 0 || len(r.LegacyOffsets) == 0 {
		return r.BlockRefs
	}

	refs := make([]BlockRef, len(r.LegacyOffsets))
	for i, off := range r.LegacyOffsets {
		refs[i] = BlockRef{ArchiveOffset: off, Degraded: true}
	}

	return refs
}

// Index is the top-level document serialized into the INDEX block.
type Index struct {
	Records  []Record `json:"records"`
	RootHash string   `json:"root_hash"`
}

// Marshal serializes the index to JSON, the form compressed and written as
// the INDEX block's payload.
func (idx Index) Marshal() ([]byte, error) {
	b, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}

	return b, nil
}

// Unmarshal parses an INDEX block's decompressed JSON payload. Records
// carrying the legacy `offsets` field instead of `block_refs` are accepted
// and have their BlockRefs synthesized in place, each marked Degraded.
func Unmarshal(data []byte) (Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, fmt.Errorf("%w: %v", errs.ErrIndexParse, err)
	}

	for i := range idx.Records {
		idx.Records[i].BlockRefs = idx.Records[i].resolvedRefs()
	}

	return idx, nil
}

// ComputeRootHash returns BLAKE3(concat of every BlockRef.content_hash, in
// record order then block order). Degraded legacy refs contribute their
// (all-zero) hash like any other, since the root hash is defined purely
// over the recorded hash bytes.
func ComputeRootHash(records []Record) (string, error) {
	h := blake3.New(32, nil)

	for _, rec := range records {
		for _, ref := range rec.BlockRefs {
			hash, err := ref.Hash()
			if err != nil {
				return "", err
			}

			if _, err := h.Write(hash[:]); err != nil {
				return "", fmt.Errorf("hash blockref: %w", err)
			}
		}
	}

	sum := h.Sum(nil)

	return hex.EncodeToString(sum), nil
}

// VerifyRootHash reports whether idx.RootHash matches the hash computed
// over idx.Records, enabling whole-archive verification without reading any
// block payload.
func VerifyRootHash(idx Index) (bool, error) {
	want, err := ComputeRootHash(idx.Records)
	if err != nil {
		return false, err
	}

	return want == idx.RootHash, nil
}
