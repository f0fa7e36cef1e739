package archive

import (
	"fmt"

	"github.com/byte271/6cy/block"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/index"
)

// pendingSolidFile records one file's placement inside the in-progress
// solid buffer, before the SOLID block itself has been written.
type pendingSolidFile struct {
	fileID      uint32
	name        string
	intraOffset uint32
	intraLength uint32
}

// solidBuffer accumulates multiple files' plaintext into a single logical
// concatenation, to be emitted as one SOLID block on EndSolid. SOLID blocks
// are never consulted or populated in the dedup table.
type solidBuffer struct {
	codecUUID format.CodecUUID
	level     int
	buf       []byte
	pending   []pendingSolidFile
}

// BeginSolid opens a logical concatenation buffer: subsequent AddFile calls
// append to it instead of writing individual DATA blocks, until EndSolid
// closes the buffer and emits exactly one SOLID block.
func (w *Writer) BeginSolid(codecUUID format.CodecUUID) error {
	if w.state == stateFinalized {
		return errs.ErrClosed
	}

	if w.solid != nil {
		return fmt.Errorf("solid buffer already open")
	}

	w.solid = &solidBuffer{codecUUID: codecUUID, level: w.cfg.level}
	w.state = stateWritingBlocks

	return nil
}

// addFileToSolid appends a whole file's plaintext to the open solid buffer,
// recording its intra-range for later BlockRef construction.
func (w *Writer) addFileToSolid(name string, data []byte) error {
	fileID := w.nextFileID
	w.nextFileID++

	intraOffset := uint32(len(w.solid.buf))
	w.solid.buf = append(w.solid.buf, data...)

	w.solid.pending = append(w.solid.pending, pendingSolidFile{
		fileID:      fileID,
		name:        name,
		intraOffset: intraOffset,
		intraLength: uint32(len(data)),
	})

	return nil
}

// EndSolid closes the open solid buffer, emits exactly one SOLID block
// whose plaintext is the concatenation of every appended file, and resolves
// each pending file's BlockRef against that block's archive location.
func (w *Writer) EndSolid() error {
	if w.solid == nil {
		return fmt.Errorf("no open solid buffer")
	}

	s := w.solid
	w.solid = nil

	enc, err := block.Encode(w.cfg.registry, s.codecUUID, s.level, format.BlockSolid, format.FileIDSentinel, 0, s.buf, w.cipher)
	if err != nil {
		return err
	}

	archiveOffset := w.pos
	if err := w.writeBlock(enc); err != nil {
		return err
	}

	w.trackCodec(s.codecUUID)

	for _, p := range s.pending {
		ref := index.NewBlockRef(enc.Header.ContentHash, archiveOffset, p.intraOffset, p.intraLength)

		rec := index.Record{
			ID:             p.fileID,
			Name:           p.name,
			BlockRefs:      []index.BlockRef{ref},
			OriginalSize:   uint64(p.intraLength),
			CompressedSize: uint64(len(enc.Payload)) / uint64(max(len(s.pending), 1)),
		}

		w.records = append(w.records, rec)
		w.checkpoint(p.fileID)
	}

	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}
