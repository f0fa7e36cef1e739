// Package superblock implements the fixed 256-byte archive header: magic,
// format version, archive UUID, the required-codec gate, and its own CRC32.
package superblock

import (
	"fmt"
	"hash/crc32"

	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/endian"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

// Superblock is the parsed form of the archive's fixed 256-byte header.
type Superblock struct {
	FormatVersion      uint32
	ArchiveUUID        [16]byte
	Flags              uint32
	IndexOffset        uint64
	IndexSize          uint64
	RequiredCodecUUIDs []format.CodecUUID
	HeaderCRC32        uint32
}

// New builds a Superblock for a fresh archive. ArchiveUUID doubles as the
// Argon2id KDF salt; callers that did not specify one should fill it with
// randomness before calling New.
func New(archiveUUID [16]byte) Superblock {
	return Superblock{
		FormatVersion: format.FormatVersion,
		ArchiveUUID:   archiveUUID,
	}
}

// Encrypted reports whether the any-encrypted flag bit is set.
func (s Superblock) Encrypted() bool {
	return s.Flags&format.SuperblockFlagEncrypted != 0
}

// SetEncrypted sets or clears the any-encrypted flag bit.
func (s *Superblock) SetEncrypted(encrypted bool) {
	if encrypted {
		s.Flags |= format.SuperblockFlagEncrypted
	} else {
		s.Flags &^= format.SuperblockFlagEncrypted
	}
}

// Bytes serializes the superblock to its 256-byte on-disk form, computing
// and writing header_crc32 over bytes [0 : 46 + N*16) as the final step.
func (s *Superblock) Bytes() ([]byte, error) {
	n := len(s.RequiredCodecUUIDs)
	if n > format.MaxRequiredCodecs {
		return nil, fmt.Errorf("required_codec_count=%d: %w", n, errs.ErrOutOfRange)
	}

	buf := make([]byte, format.SuperblockSize)

	copy(buf[0:4], format.SuperblockMagic[:])
	endian.LE.PutUint32(buf[4:8], s.FormatVersion)
	copy(buf[8:24], s.ArchiveUUID[:])
	endian.LE.PutUint32(buf[24:28], s.Flags)
	endian.LE.PutUint64(buf[28:36], s.IndexOffset)
	endian.LE.PutUint64(buf[36:44], s.IndexSize)
	endian.LE.PutUint16(buf[44:46], uint16(n))

	pos := 46
	for _, u := range s.RequiredCodecUUIDs {
		copy(buf[pos:pos+16], u[:])
		pos += 16
	}

	crcSpan := 46 + n*16
	s.HeaderCRC32 = crc32.ChecksumIEEE(buf[0:crcSpan])
	endian.LE.PutUint32(buf[pos:pos+4], s.HeaderCRC32)

	return buf, nil
}

// Parse decodes and structurally validates a 256-byte superblock buffer. It
// does not enforce codec availability; call VerifyCodecsAvailable with the
// active registry to do that, per the open protocol.
func Parse(buf []byte) (Superblock, error) {
	if len(buf) < format.SuperblockSize {
		return Superblock{}, fmt.Errorf("superblock: %w", errs.ErrTruncated)
	}

	var s Superblock

	if string(buf[0:4]) != string(format.SuperblockMagic[:]) {
		return Superblock{}, fmt.Errorf("superblock: %w", errs.ErrMagic)
	}

	s.FormatVersion = endian.LE.Uint32(buf[4:8])
	if s.FormatVersion != format.FormatVersion {
		return Superblock{}, fmt.Errorf("superblock version %d: %w", s.FormatVersion, errs.ErrFormatVersion)
	}

	copy(s.ArchiveUUID[:], buf[8:24])
	s.Flags = endian.LE.Uint32(buf[24:28])
	s.IndexOffset = endian.LE.Uint64(buf[28:36])
	s.IndexSize = endian.LE.Uint64(buf[36:44])

	n := int(endian.LE.Uint16(buf[44:46]))
	if n > format.MaxRequiredCodecs {
		return Superblock{}, fmt.Errorf("required_codec_count=%d: %w", n, errs.ErrOutOfRange)
	}

	crcSpan := 46 + n*16
	if len(buf) < crcSpan+4 {
		return Superblock{}, fmt.Errorf("superblock: %w", errs.ErrTruncated)
	}

	pos := 46
	s.RequiredCodecUUIDs = make([]format.CodecUUID, 0, n)

	seen := make(map[format.CodecUUID]struct{}, n)
	for range n {
		var u format.CodecUUID
		copy(u[:], buf[pos:pos+16])
		pos += 16

		if _, dup := seen[u]; dup {
			return Superblock{}, fmt.Errorf("duplicate codec uuid %s: %w", u, errs.ErrOutOfRange)
		}
		seen[u] = struct{}{}

		s.RequiredCodecUUIDs = append(s.RequiredCodecUUIDs, u)
	}

	crc := endian.LE.Uint32(buf[crcSpan : crcSpan+4])
	want := crc32.ChecksumIEEE(buf[0:crcSpan])
	if crc != want {
		return Superblock{}, fmt.Errorf("superblock: %w", errs.ErrHeaderCRC)
	}
	s.HeaderCRC32 = crc

	return s, nil
}

// VerifyCodecsAvailable checks that every UUID in RequiredCodecUUIDs
// resolves in reg, per the open protocol: a decoder either has every codec
// an archive declares upfront, or it refuses to read any block from it.
func (s Superblock) VerifyCodecsAvailable(reg *codec.Registry) error {
	for _, u := range s.RequiredCodecUUIDs {
		if !reg.Has(u) {
			return fmt.Errorf("required codec %s: %w", u, errs.ErrUnknownCodec)
		}
	}

	return nil
}
