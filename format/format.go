// Package format defines the wire-level constants shared by every layer of
// the .6cy archive: codec identity, block kind, and the byte layout
// parameters referenced throughout the engine.
package format

import "encoding/hex"

// CodecUUID is a 128-bit codec identity, stored on disk verbatim in
// little-endian RFC 4122 field order. It is never byte-swapped and is always
// compared byte-for-byte.
type CodecUUID [16]byte

// String renders the UUID in canonical 8-4-4-4-12 hex form for logs and
// error messages. It does not reorder bytes: the textual form mirrors the
// on-disk byte sequence exactly.
func (u CodecUUID) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], u[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], u[10:16])

	return string(buf[:])
}

// IsZero reports whether this is the all-zero None codec identity.
func (u CodecUUID) IsZero() bool {
	return u == CodecUUID{}
}

// Frozen codec identities, defined verbatim by the specification. A decoder
// never byte-swaps these; they are compared as opaque 16-byte values.
var (
	CodecNone   = CodecUUID{}
	CodecZstd   = mustUUID("b28a9d4f-5e3c-4a1b-8f2e-7c6d9b0e1a2f")
	CodecLZ4    = mustUUID("3f7b2c8e-1a4d-4e9f-b6c3-5d8a2f7e0b1c")
	CodecBrotli = mustUUID("9c1e5f3a-7b2d-4c8e-a5f1-2e6b9d0c3a7f")
	CodecLZMA   = mustUUID("4a8f2e1c-9b3d-4f7a-c2e8-6d5b1a0f3c9e")
)

// mustUUID parses a canonical hex UUID string into its little-endian wire
// bytes. Used only to build the frozen identities above; panics on a
// malformed literal, which would be a programming error in this file.
func mustUUID(s string) CodecUUID {
	var u CodecUUID
	groups := [5][2]int{{0, 8}, {9, 13}, {14, 18}, {19, 23}, {24, 36}}
	offsets := [5]int{0, 4, 6, 8, 10}

	for i, g := range groups {
		n, err := hex.Decode(u[offsets[i]:], []byte(s[g[0]:g[1]]))
		if err != nil || n != (g[1]-g[0])/2 {
			panic("format: invalid frozen codec uuid literal: " + s)
		}
	}

	return u
}

// BlockType identifies what a block's payload holds.
type BlockType uint16

const (
	// BlockData is one contiguous plaintext range of a single file.
	BlockData BlockType = 0
	// BlockIndex is the serialized file catalog. Exactly one per archive.
	BlockIndex BlockType = 1
	// BlockSolid is multiple files' plaintext concatenated into one block.
	BlockSolid BlockType = 2
)

// String renders the block type name for logs and recovery reports.
func (t BlockType) String() string {
	switch t {
	case BlockData:
		return "DATA"
	case BlockIndex:
		return "INDEX"
	case BlockSolid:
		return "SOLID"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is one of the three defined block kinds. Any value
// >= 3 is rejected by the specification.
func (t BlockType) Valid() bool {
	return t <= BlockSolid
}

// FileIDSentinel is the file_id value written into INDEX and SOLID block
// headers, which do not belong to a single file.
const FileIDSentinel uint32 = 0xFFFF_FFFF

// Fixed byte-layout parameters from the specification.
const (
	// SuperblockSize is the fixed, padded size of the archive superblock.
	SuperblockSize = 256
	// MaxRequiredCodecs bounds the superblock's required_codec_count field.
	MaxRequiredCodecs = 13
	// HeaderSize is the size a writer always emits for a block header.
	// Readers honor the header's own header_size field as the payload
	// offset and never assume this constant once header_size has been read.
	HeaderSize = 84
	// HeaderCRCSpan is the number of leading header bytes covered by the
	// header's CRC32 (the field itself sits just past this span).
	HeaderCRCSpan = 80
	// ContentHashSize is the size of a BLAKE3-256 content hash.
	ContentHashSize = 32
	// NonceSize is the AES-256-GCM nonce size used for block encryption.
	NonceSize = 12
	// TagSize is the AES-256-GCM authentication tag size.
	TagSize = 16
	// DefaultChunkSize is the writer's default plaintext chunk size (4 MiB).
	DefaultChunkSize = 4 << 20
)

// FlagEncrypted marks a block header (or the superblock) as covering
// encrypted payload data.
const FlagEncrypted uint16 = 1 << 0

// SuperblockFlagEncrypted is set in the superblock's flags field iff any
// block in the archive is encrypted.
const SuperblockFlagEncrypted uint32 = 1 << 0

// BlockMagic is the 4-byte magic value at the start of every block header.
var BlockMagic = [4]byte{'B', 'L', 'C', 'K'}

// SuperblockMagic is the 4-byte magic value at the start of the superblock.
var SuperblockMagic = [4]byte{'.', '6', 'c', 'y'}

// FormatVersion is the only format_version value this engine accepts.
const FormatVersion uint32 = 3
