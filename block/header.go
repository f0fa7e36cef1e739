package block

import (
	"fmt"
	"hash/crc32"

	"github.com/byte271/6cy/endian"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

// Header is the fixed 84-byte structure preceding every block's payload.
type Header struct {
	HeaderVersion uint16
	HeaderSize    uint16
	BlockType     format.BlockType
	Flags         uint16
	CodecUUID     format.CodecUUID
	FileID        uint32
	FileOffset    uint64
	OrigSize      uint32
	CompSize      uint32
	ContentHash   [format.ContentHashSize]byte
	HeaderCRC32   uint32
}

// NewHeader builds a Header with the fixed version/size fields and the
// caller-supplied identity fields. Writers always emit header_size=84; the
// spec treats header_size as extensible only for forward-reading purposes.
func NewHeader(blockType format.BlockType, codecUUID format.CodecUUID, fileID uint32, fileOffset uint64) Header {
	return Header{
		HeaderVersion: 1,
		HeaderSize:    format.HeaderSize,
		BlockType:     blockType,
		CodecUUID:     codecUUID,
		FileID:        fileID,
		FileOffset:    fileOffset,
	}
}

// HasFlag reports whether bit is set in Flags.
func (h Header) HasFlag(bit uint16) bool {
	return h.Flags&bit != 0
}

// SetEncrypted sets or clears FLAG_ENCRYPTED.
func (h *Header) SetEncrypted(encrypted bool) {
	if encrypted {
		h.Flags |= format.FlagEncrypted
	} else {
		h.Flags &^= format.FlagEncrypted
	}
}

// Encrypted reports whether FLAG_ENCRYPTED is set.
func (h Header) Encrypted() bool {
	return h.HasFlag(format.FlagEncrypted)
}

// Bytes serializes the header to its 84-byte on-disk form, computing and
// writing header_crc32 over bytes [0:80) as the final step.
func (h *Header) Bytes() []byte {
	buf := make([]byte, format.HeaderSize)

	copy(buf[0:4], format.BlockMagic[:])
	endian.LE.PutUint16(buf[4:6], h.HeaderVersion)
	endian.LE.PutUint16(buf[6:8], h.HeaderSize)
	endian.LE.PutUint16(buf[8:10], uint16(h.BlockType))
	endian.LE.PutUint16(buf[10:12], h.Flags)
	copy(buf[12:28], h.CodecUUID[:])
	endian.LE.PutUint32(buf[28:32], h.FileID)
	endian.LE.PutUint64(buf[32:40], h.FileOffset)
	endian.LE.PutUint32(buf[40:44], h.OrigSize)
	endian.LE.PutUint32(buf[44:48], h.CompSize)
	copy(buf[48:80], h.ContentHash[:])

	h.HeaderCRC32 = crc32.ChecksumIEEE(buf[0:format.HeaderCRCSpan])
	endian.LE.PutUint32(buf[80:84], h.HeaderCRC32)

	return buf
}

// ParseHeader decodes and validates an 84-byte header: CRC32, magic, and the
// block_type/header_size structural bounds. It does not touch the payload
// and does not check codec registry membership (callers decide whether that
// check is global, as at superblock-open time, or per-block, as in recovery
// forward scan).
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < format.HeaderSize {
		return Header{}, fmt.Errorf("header: %w", errs.ErrTruncated)
	}

	var h Header

	crc := endian.LE.Uint32(buf[80:84])
	want := crc32.ChecksumIEEE(buf[0:format.HeaderCRCSpan])
	if crc != want {
		return Header{}, fmt.Errorf("header: %w", errs.ErrHeaderCRC)
	}

	if string(buf[0:4]) != string(format.BlockMagic[:]) {
		return Header{}, fmt.Errorf("header: %w", errs.ErrMagic)
	}

	h.HeaderVersion = endian.LE.Uint16(buf[4:6])
	h.HeaderSize = endian.LE.Uint16(buf[6:8])
	h.BlockType = format.BlockType(endian.LE.Uint16(buf[8:10]))
	h.Flags = endian.LE.Uint16(buf[10:12])
	copy(h.CodecUUID[:], buf[12:28])
	h.FileID = endian.LE.Uint32(buf[28:32])
	h.FileOffset = endian.LE.Uint64(buf[32:40])
	h.OrigSize = endian.LE.Uint32(buf[40:44])
	h.CompSize = endian.LE.Uint32(buf[44:48])
	copy(h.ContentHash[:], buf[48:80])
	h.HeaderCRC32 = crc

	if h.HeaderSize < format.HeaderSize {
		return Header{}, fmt.Errorf("header_size=%d: %w", h.HeaderSize, errs.ErrOutOfRange)
	}

	if !h.BlockType.Valid() {
		return Header{}, fmt.Errorf("block_type=%d: %w", h.BlockType, errs.ErrOutOfRange)
	}

	return h, nil
}
