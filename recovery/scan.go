package recovery

import (
	"fmt"
	"io"
	"sort"

	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/index"
)

// ScanResult is the outcome of index reconstruction: synthesized file
// records built from DATA block headers alone, plus the offsets of any
// SOLID blocks encountered (whose contents cannot be split back into files
// without the original index).
type ScanResult struct {
	Records     []index.Record
	SolidBlocks []uint64
}

// ScanBlocks performs index reconstruction: starting at offset 256 (just
// past the superblock), it reads headers only, grouping DATA blocks by
// file_id, sorting each group ascending by file_offset, and synthesizing
// the name "file_{file_id:08x}". It stops at the first INDEX block (or at
// end of archive) and never inspects payload bytes.
func ScanBlocks(r io.ReaderAt, size int64) (ScanResult, error) {
	type dataEntry struct {
		fileOffset    uint64
		archiveOffset uint64
		origSize      uint32
		contentHash   [format.ContentHashSize]byte
	}

	byFile := make(map[uint32][]dataEntry)
	var solidOffsets []uint64

	offset := int64(format.SuperblockSize)

	for offset < size {
		h, err := readRawHeader(r, offset)
		if err != nil {
			break
		}

		if !h.magicOK {
			break
		}

		if !h.crcOK {
			offset = h.nextOffset(offset)
			continue
		}

		switch h.BlockType {
		case format.BlockIndex:
			offset = size // stop

		case format.BlockSolid:
			solidOffsets = append(solidOffsets, uint64(offset))
			offset = h.nextOffset(offset)

		case format.BlockData:
			byFile[h.FileID] = append(byFile[h.FileID], dataEntry{
				fileOffset:    h.FileOffset,
				archiveOffset: uint64(offset),
				origSize:      h.OrigSize,
				contentHash:   h.ContentHash,
			})
			offset = h.nextOffset(offset)

		default:
			offset = h.nextOffset(offset)
		}
	}

	fileIDs := make([]uint32, 0, len(byFile))
	for id := range byFile {
		fileIDs = append(fileIDs, id)
	}

	sort.Slice(fileIDs, func(i, j int) bool { return fileIDs[i] < fileIDs[j] })

	records := make([]index.Record, 0, len(fileIDs))

	for _, id := range fileIDs {
		entries := byFile[id]
		sort.Slice(entries, func(i, j int) bool { return entries[i].fileOffset < entries[j].fileOffset })

		refs := make([]index.BlockRef, len(entries))
		var total uint64

		for i, e := range entries {
			refs[i] = index.NewBlockRef(e.contentHash, e.archiveOffset, 0, 0)
			total += uint64(e.origSize)
		}

		records = append(records, index.Record{
			ID:           id,
			Name:         fmt.Sprintf("file_%08x", id),
			BlockRefs:    refs,
			OriginalSize: total,
		})
	}

	if len(records) == 0 && len(solidOffsets) == 0 {
		return ScanResult{}, fmt.Errorf("forward scan: %w", errs.ErrNotFound)
	}

	return ScanResult{Records: records, SolidBlocks: solidOffsets}, nil
}
