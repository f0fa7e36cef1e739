package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/byte271/6cy/block"
	"github.com/byte271/6cy/dedup"
	"github.com/byte271/6cy/endian"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/index"
	"github.com/byte271/6cy/internal/options"
	"github.com/byte271/6cy/superblock"
	"github.com/byte271/6cy/xcrypto"
)

// state is the writer's lifecycle state: Fresh -> WritingBlocks ->
// [Solid] -> Finalized. There is no transition back; a Writer is single-use.
type state uint8

const (
	stateFresh state = iota
	stateWritingBlocks
	stateFinalized
)

type checkpointEntry struct {
	ArchiveOffset uint64 `json:"archive_offset"`
	LastFileID    uint32 `json:"last_file_id"`
	Timestamp     int64  `json:"timestamp"`
}

type recoveryMap struct {
	Checkpoints []checkpointEntry `json:"checkpoints"`
}

// Writer streams files into a .6cy archive. It is not safe for concurrent
// use: a single Writer is driven by one goroutine from NewWriter through
// Finalize.
type Writer struct {
	cfg    *Config
	w      io.WriteSeeker
	state  state
	pos    uint64
	cipher *xcrypto.BlockCipher

	dedupTable     *dedup.Table
	records        []index.Record
	nextFileID     uint32
	requiredCodecs map[format.CodecUUID]struct{}
	anyEncrypted   bool
	checkpoints    []checkpointEntry
	solid          *solidBuffer
}

// NewWriter opens w for writing a new archive: it reserves the 256-byte
// superblock placeholder and prepares the dedup table. The real superblock
// is written later, during Finalize.
func NewWriter(w io.WriteSeeker, opts ...WriterOption) (*Writer, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	wr := &Writer{
		cfg:            cfg,
		w:              w,
		dedupTable:     dedup.New(),
		requiredCodecs: make(map[format.CodecUUID]struct{}),
	}

	if cfg.password != "" {
		key, err := xcrypto.DeriveKey(cfg.password, cfg.archiveUUID)
		if err != nil {
			return nil, err
		}

		cipher, err := xcrypto.NewBlockCipher(key)
		if err != nil {
			return nil, err
		}

		wr.cipher = cipher
	}

	placeholder := make([]byte, format.SuperblockSize)
	if _, err := wr.w.Write(placeholder); err != nil {
		return nil, fmt.Errorf("write superblock placeholder: %w", errs.ErrIO)
	}

	wr.pos = format.SuperblockSize
	wr.state = stateFresh

	return wr, nil
}

// UUID returns the archive's UUID, fixed at construction.
func (w *Writer) UUID() [16]byte {
	return w.cfg.archiveUUID
}

// AddFile splits data into chunk-sized DATA blocks using the writer's
// default codec and level.
func (w *Writer) AddFile(name string, data []byte) error {
	return w.AddFileWithCodec(name, data, w.cfg.defaultCodec, w.cfg.level)
}

// AddFileWithCodec splits data into chunk_size-byte chunks and runs each
// through the block encode pipeline, appending a BlockRef per chunk to the
// file's record. A dedup hit elides compression and emits only a BlockRef
// pointing at the existing block. If the writer is in solid mode (between
// BeginSolid and EndSolid), the whole file is appended to the solid buffer
// instead and chunk_size is not applied.
func (w *Writer) AddFileWithCodec(name string, data []byte, codecUUID format.CodecUUID, level int) error {
	if w.state == stateFinalized {
		return errs.ErrClosed
	}

	w.state = stateWritingBlocks

	if w.solid != nil {
		return w.addFileToSolid(name, data)
	}

	fileID := w.nextFileID
	w.nextFileID++

	rec := index.Record{ID: fileID, Name: name, OriginalSize: uint64(len(data))}

	chunkSize := w.cfg.chunkSize
	if chunkSize <= 0 {
		chunkSize = format.DefaultChunkSize
	}

	var compressedTotal uint64

	chunks := 1
	if len(data) > 0 {
		chunks = (len(data) + chunkSize - 1) / chunkSize
	}

	for i := 0; i < chunks; i++ {
		offset := i * chunkSize
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}

		chunk := data[offset:end]

		ref, compSize, err := w.writeDataBlock(fileID, uint64(offset), chunk, codecUUID, level)
		if err != nil {
			return err
		}

		rec.BlockRefs = append(rec.BlockRefs, ref)
		compressedTotal += compSize
	}

	rec.CompressedSize = compressedTotal
	w.records = append(w.records, rec)
	w.checkpoint(fileID)

	return nil
}

// writeDataBlock runs one chunk through the encode pipeline (consulting the
// dedup table first) and appends the resulting block to the archive,
// returning the BlockRef to record for it and the on-disk compressed size
// (0 on a dedup hit, since no new bytes were written).
func (w *Writer) writeDataBlock(fileID uint32, fileOffset uint64, chunk []byte, codecUUID format.CodecUUID, level int) (index.BlockRef, uint64, error) {
	hash := block.ContentHash(chunk)

	if loc, ok := w.dedupTable.Lookup(hash); ok {
		return index.NewBlockRef(hash, loc.ArchiveOffset, 0, 0), 0, nil
	}

	enc, err := block.Encode(w.cfg.registry, codecUUID, level, format.BlockData, fileID, fileOffset, chunk, w.cipher)
	if err != nil {
		return index.BlockRef{}, 0, err
	}

	archiveOffset := w.pos
	if err := w.writeBlock(enc); err != nil {
		return index.BlockRef{}, 0, err
	}

	w.dedupTable.Record(hash, dedup.Location{
		ArchiveOffset: archiveOffset,
		OrigSize:      enc.Header.OrigSize,
		CompSize:      enc.Header.CompSize,
	})
	w.trackCodec(codecUUID)

	return index.NewBlockRef(hash, archiveOffset, 0, 0), uint64(len(enc.Payload)), nil
}

// writeBlock appends an already-encoded header+payload pair to the archive
// and advances pos.
func (w *Writer) writeBlock(enc block.Encoded) error {
	headerBytes := enc.Header.Bytes()

	if _, err := w.w.Write(headerBytes); err != nil {
		return fmt.Errorf("write block header: %w", errs.ErrIO)
	}

	if _, err := w.w.Write(enc.Payload); err != nil {
		return fmt.Errorf("write block payload: %w", errs.ErrIO)
	}

	w.pos += uint64(len(headerBytes) + len(enc.Payload))
	if enc.Header.Encrypted() {
		w.anyEncrypted = true
	}

	return nil
}

func (w *Writer) trackCodec(uuid format.CodecUUID) {
	if uuid.IsZero() {
		return
	}

	w.requiredCodecs[uuid] = struct{}{}
}

// checkpoint appends a recovery-map entry recording that fileID completed
// with the archive at its current length.
func (w *Writer) checkpoint(fileID uint32) {
	w.checkpoints = append(w.checkpoints, checkpointEntry{
		ArchiveOffset: w.pos,
		LastFileID:    fileID,
		Timestamp:     time.Now().Unix(),
	})
}

// Finalize serializes the file index, writes the INDEX block, appends the
// recovery map, and patches the real superblock in place at offset 0.
// Finalize is idempotent after success: calling it again on an already
// finalized writer returns ErrClosed rather than re-writing anything.
func (w *Writer) Finalize() error {
	if w.state == stateFinalized {
		return errs.ErrClosed
	}

	if w.solid != nil {
		if err := w.EndSolid(); err != nil {
			return err
		}
	}

	rootHash, err := index.ComputeRootHash(w.records)
	if err != nil {
		return err
	}

	idx := index.Index{Records: w.records, RootHash: rootHash}

	idxJSON, err := idx.Marshal()
	if err != nil {
		return err
	}

	enc, err := block.Encode(w.cfg.registry, format.CodecZstd, 0, format.BlockIndex, format.FileIDSentinel, 0, idxJSON, nil)
	if err != nil {
		return err
	}

	indexOffset := w.pos
	if err := w.writeBlock(enc); err != nil {
		return err
	}

	indexSize := w.pos - indexOffset

	if err := w.writeRecoveryMap(); err != nil {
		return err
	}

	if err := w.writeSuperblock(indexOffset, indexSize); err != nil {
		return err
	}

	w.state = stateFinalized

	return nil
}

func (w *Writer) writeRecoveryMap() error {
	rm := recoveryMap{Checkpoints: w.checkpoints}

	payload, err := json.Marshal(rm)
	if err != nil {
		return fmt.Errorf("marshal recovery map: %w", err)
	}

	lenBuf := make([]byte, 8)
	endian.LE.PutUint64(lenBuf, uint64(len(payload)))

	if _, err := w.w.Write(lenBuf); err != nil {
		return fmt.Errorf("write recovery map length: %w", errs.ErrIO)
	}

	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("write recovery map: %w", errs.ErrIO)
	}

	w.pos += uint64(len(lenBuf) + len(payload))

	return nil
}

func (w *Writer) writeSuperblock(indexOffset, indexSize uint64) error {
	required := make([]format.CodecUUID, 0, len(w.requiredCodecs))
	for u := range w.requiredCodecs {
		required = append(required, u)
	}

	sort.Slice(required, func(i, j int) bool {
		for k := range required[i] {
			if required[i][k] != required[j][k] {
				return required[i][k] < required[j][k]
			}
		}

		return false
	})

	if len(required) > format.MaxRequiredCodecs {
		return fmt.Errorf("required_codec_count=%d: %w", len(required), errs.ErrOutOfRange)
	}

	sb := superblock.New(w.cfg.archiveUUID)
	sb.IndexOffset = indexOffset
	sb.IndexSize = indexSize
	sb.RequiredCodecUUIDs = required
	sb.SetEncrypted(w.anyEncrypted)

	buf, err := sb.Bytes()
	if err != nil {
		return err
	}

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to superblock: %w", errs.ErrIO)
	}

	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("write superblock: %w", errs.ErrIO)
	}

	if _, err := w.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", errs.ErrIO)
	}

	return nil
}
