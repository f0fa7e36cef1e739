package recovery

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/byte271/6cy/block"
	"github.com/byte271/6cy/endian"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

// rawHeader is a forward-scanned block header, decoded without enforcing
// magic or CRC validity, so the scanner can still recover header_size and
// comp_size (and therefore the offset of the next block) from a header
// whose CRC fails for reasons unrelated to those two fields.
type rawHeader struct {
	block.Header
	magicOK bool
	crcOK   bool
}

// healthy reports whether both structural checks passed.
func (h rawHeader) healthy() bool {
	return h.magicOK && h.crcOK
}

// readRawHeader reads format.HeaderSize bytes at offset and decodes them
// leniently: every field is populated regardless of whether magic or CRC
// validate, so the caller can still use header_size/comp_size to advance
// the scan past a block with a corrupted (but structurally present)
// header.
func readRawHeader(r io.ReaderAt, offset int64) (rawHeader, error) {
	buf := make([]byte, format.HeaderSize)

	n, err := r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return rawHeader{}, fmt.Errorf("read header at %d: %w", offset, errs.ErrIO)
	}

	if n < format.HeaderSize {
		return rawHeader{}, fmt.Errorf("header at %d: %w", offset, errs.ErrTruncated)
	}

	var h rawHeader

	h.magicOK = string(buf[0:4]) == string(format.BlockMagic[:])
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
	h.HeaderCRC32 = endian.LE.Uint32(buf[80:84])

	want := crc32.ChecksumIEEE(buf[0:format.HeaderCRCSpan])
	h.crcOK = h.HeaderCRC32 == want

	if h.HeaderSize < format.HeaderSize {
		h.HeaderSize = format.HeaderSize
	}

	return h, nil
}

// nextOffset is the forward-scan advance rule: header_size + comp_size,
// applied even to a structurally-corrupt header on the assumption that the
// corruption, if any, did not land on these two length fields.
func (h rawHeader) nextOffset(offset int64) int64 {
	return offset + int64(h.HeaderSize) + int64(h.CompSize)
}
