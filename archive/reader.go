package archive

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/byte271/6cy/block"
	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/index"
	"github.com/byte271/6cy/superblock"
	"github.com/byte271/6cy/xcrypto"
)

// ReaderConfig holds a Reader's tunables, set via functional options passed
// to Open.
type ReaderConfig struct {
	password   string
	registry   *codec.Registry
	strictMode bool
}

// ReaderOption configures a Reader at Open time.
type ReaderOption = func(*ReaderConfig)

func newReaderConfig() *ReaderConfig {
	return &ReaderConfig{registry: codec.Default}
}

// WithReaderPassword supplies the password needed to open an encrypted
// archive. Required iff the archive's superblock has the any-encrypted flag
// set.
func WithReaderPassword(password string) ReaderOption {
	return func(c *ReaderConfig) {
		c.password = password
	}
}

// WithReaderRegistry overrides the codec registry consulted for
// decompression. Defaults to codec.Default.
func WithReaderRegistry(reg *codec.Registry) ReaderOption {
	return func(c *ReaderConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithStrictMode refuses to read any file whose index record carries a
// degraded BlockRef (synthesized from a legacy `offsets` entry with no
// recorded content hash). Without it, a legacy ref is read normally: the
// block's own on-disk header still carries a real content_hash, so its
// payload is still authenticated on decode — only the extra layer of
// catalog-recorded-hash cross-checking is unavailable for that block.
func WithStrictMode() ReaderOption {
	return func(c *ReaderConfig) {
		c.strictMode = true
	}
}

// Reader serves random-access reads against an already-finalized .6cy
// archive. It is safe for concurrent use by multiple goroutines: the index
// and lookup tables built in Open are immutable afterward, and the cache of
// decoded blocks is guarded by a mutex.
type Reader struct {
	r          io.ReaderAt
	cfg        *ReaderConfig
	sb         superblock.Superblock
	idx        index.Index
	byName     map[string]index.Record
	byID       map[uint32]index.Record
	cipher     *xcrypto.BlockCipher

	cacheMu    sync.RWMutex
	blockCache map[uint64][]byte
}

// Open realizes the reader-side open protocol: read and verify the 256-byte
// superblock, enforce that every codec it declares is registered, read and
// decode the INDEX block at the offset the superblock names, and build the
// name/ID lookup tables served by ReadFile and List.
func Open(r io.ReaderAt, size int64, opts ...ReaderOption) (*Reader, error) {
	cfg := newReaderConfig()
	for _, o := range opts {
		o(cfg)
	}

	if size < int64(format.SuperblockSize) {
		return nil, fmt.Errorf("archive shorter than superblock: %w", errs.ErrTruncated)
	}

	sbBuf := make([]byte, format.SuperblockSize)
	if _, err := r.ReadAt(sbBuf, 0); err != nil {
		return nil, fmt.Errorf("read superblock: %w", errs.ErrIO)
	}

	sb, err := superblock.Parse(sbBuf)
	if err != nil {
		return nil, err
	}

	if err := sb.VerifyCodecsAvailable(cfg.registry); err != nil {
		return nil, err
	}

	rd := &Reader{
		r:          r,
		cfg:        cfg,
		sb:         sb,
		blockCache: make(map[uint64][]byte),
	}

	if sb.Encrypted() {
		if cfg.password == "" {
			return nil, fmt.Errorf("archive is encrypted: %w", errs.ErrAuthFailed)
		}

		key, err := xcrypto.DeriveKey(cfg.password, sb.ArchiveUUID)
		if err != nil {
			return nil, err
		}

		cipher, err := xcrypto.NewBlockCipher(key)
		if err != nil {
			return nil, err
		}

		rd.cipher = cipher
	}

	idxPlain, err := rd.readBlockAt(sb.IndexOffset)
	if err != nil {
		return nil, fmt.Errorf("read index block: %w", err)
	}

	idx, err := index.Unmarshal(idxPlain)
	if err != nil {
		return nil, err
	}

	rd.idx = idx
	rd.byName = make(map[string]index.Record, len(idx.Records))
	rd.byID = make(map[uint32]index.Record, len(idx.Records))

	for _, rec := range idx.Records {
		rd.byName[rec.Name] = rec
		rd.byID[rec.ID] = rec
	}

	return rd, nil
}

// UUID returns the archive's UUID.
func (rd *Reader) UUID() [16]byte {
	return rd.sb.ArchiveUUID
}

// List returns every file name recorded in the archive's index, sorted.
func (rd *Reader) List() []string {
	names := make([]string, 0, len(rd.byName))
	for name := range rd.byName {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Stat returns the index record for name, without reading any block
// payload.
func (rd *Reader) Stat(name string) (index.Record, error) {
	rec, ok := rd.byName[name]
	if !ok {
		return index.Record{}, fmt.Errorf("%s: %w", name, errs.ErrNotFound)
	}

	return rec, nil
}

// StatByID returns the index record for a file_id, as synthesized names and
// forward-scan results use to cross-reference a record without its name.
func (rd *Reader) StatByID(id uint32) (index.Record, error) {
	rec, ok := rd.byID[id]
	if !ok {
		return index.Record{}, fmt.Errorf("file id %d: %w", id, errs.ErrNotFound)
	}

	return rec, nil
}

// ReadFile reconstructs and returns a file's complete plaintext, walking its
// BlockRefs in order and decoding (or slicing, for a SOLID reference) each
// one.
func (rd *Reader) ReadFile(name string) ([]byte, error) {
	rec, ok := rd.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errs.ErrNotFound)
	}

	return rd.readRecord(rec)
}

// ReadAt reads length bytes of name's plaintext starting at offset, decoding
// only the blocks whose plaintext range overlaps [offset, offset+length). A
// file's BlockRefs are walked once, tracking a running prefix-sum of
// plaintext lengths to locate the overlap. The header of each DATA block ref
// is read to learn its length, but a block wholly outside the requested
// range never has its payload read or decoded.
func (rd *Reader) ReadAt(name string, offset int64, length int) ([]byte, error) {
	rec, ok := rd.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errs.ErrNotFound)
	}

	if offset < 0 || offset > int64(rec.OriginalSize) {
		return nil, fmt.Errorf("offset %d out of range: %w", offset, errs.ErrOutOfRange)
	}

	end := offset + int64(length)
	if end > int64(rec.OriginalSize) {
		end = int64(rec.OriginalSize)
	}

	out := make([]byte, 0, end-offset)

	var cursor int64

	for _, ref := range rec.BlockRefs {
		refLen, err := rd.refPlainLength(ref)
		if err != nil {
			return nil, err
		}

		chunkStart := cursor
		chunkEnd := cursor + int64(refLen)
		cursor = chunkEnd

		if chunkEnd <= offset || chunkStart >= end {
			continue
		}

		if ref.Degraded && rd.cfg.strictMode {
			return nil, fmt.Errorf("%s: legacy block ref has no content hash: %w", name, errs.ErrContentHash)
		}

		plain, err := rd.readBlockAt(ref.ArchiveOffset)
		if err != nil {
			return nil, err
		}

		chunk := plain
		if ref.IntraLength > 0 || ref.IntraOffset > 0 {
			intraEnd := uint64(ref.IntraOffset) + uint64(ref.IntraLength)
			if intraEnd > uint64(len(plain)) {
				return nil, fmt.Errorf("%s: intra range out of bounds: %w", name, errs.ErrOutOfRange)
			}

			chunk = plain[ref.IntraOffset:intraEnd]
		}

		lo := int64(0)
		if offset > chunkStart {
			lo = offset - chunkStart
		}

		hi := int64(len(chunk))
		if end < chunkEnd {
			hi -= chunkEnd - end
		}

		out = append(out, chunk[lo:hi]...)
	}

	return out, nil
}

// refPlainLength reports the plaintext length a BlockRef contributes to its
// file, without decoding the block: an intra-range ref (SOLID) carries its
// own length, while a whole-block ref (DATA) has it in the block's header,
// which is read alone, ahead of any payload.
func (rd *Reader) refPlainLength(ref index.BlockRef) (uint64, error) {
	if ref.IntraLength > 0 || ref.IntraOffset > 0 {
		return uint64(ref.IntraLength), nil
	}

	headerBuf := make([]byte, format.HeaderSize)
	if _, err := rd.r.ReadAt(headerBuf, int64(ref.ArchiveOffset)); err != nil {
		return 0, fmt.Errorf("read block header at %d: %w", ref.ArchiveOffset, errs.ErrIO)
	}

	h, err := block.ParseHeader(headerBuf)
	if err != nil {
		return 0, err
	}

	return uint64(h.OrigSize), nil
}

func (rd *Reader) readRecord(rec index.Record) ([]byte, error) {
	out := make([]byte, 0, rec.OriginalSize)

	for _, ref := range rec.BlockRefs {
		if ref.Degraded && rd.cfg.strictMode {
			return nil, fmt.Errorf("%s: legacy block ref has no content hash: %w", rec.Name, errs.ErrContentHash)
		}

		plain, err := rd.readBlockAt(ref.ArchiveOffset)
		if err != nil {
			return nil, err
		}

		if ref.IntraLength > 0 || ref.IntraOffset > 0 {
			end := uint64(ref.IntraOffset) + uint64(ref.IntraLength)
			if end > uint64(len(plain)) {
				return nil, fmt.Errorf("%s: intra range out of bounds: %w", rec.Name, errs.ErrOutOfRange)
			}

			out = append(out, plain[ref.IntraOffset:end]...)

			continue
		}

		out = append(out, plain...)
	}

	return out, nil
}

// readBlockAt reads, verifies, and decodes the block at archiveOffset,
// caching the decoded plaintext by offset since a SOLID block is referenced
// once per file it contains.
func (rd *Reader) readBlockAt(archiveOffset uint64) ([]byte, error) {
	rd.cacheMu.RLock()
	cached, ok := rd.blockCache[archiveOffset]
	rd.cacheMu.RUnlock()

	if ok {
		return cached, nil
	}

	headerBuf := make([]byte, format.HeaderSize)
	if _, err := rd.r.ReadAt(headerBuf, int64(archiveOffset)); err != nil {
		return nil, fmt.Errorf("read block header at %d: %w", archiveOffset, errs.ErrIO)
	}

	h, err := block.ParseHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, h.CompSize)
	if _, err := rd.r.ReadAt(payload, int64(archiveOffset)+int64(h.HeaderSize)); err != nil {
		return nil, fmt.Errorf("read block payload at %d: %w", archiveOffset, errs.ErrIO)
	}

	plain, err := block.Decode(rd.cfg.registry, h, payload, rd.cipher)
	if err != nil {
		return nil, err
	}

	rd.cacheMu.Lock()
	rd.blockCache[archiveOffset] = plain
	rd.cacheMu.Unlock()

	return plain, nil
}

// RootHash reports whether the index's recorded root hash matches the hash
// computed over its BlockRefs, letting a caller verify the whole archive's
// catalog integrity without reading a single block payload.
func (rd *Reader) RootHash() (bool, error) {
	return index.VerifyRootHash(rd.idx)
}

// ExtractAll decodes every file's plaintext and returns it keyed by name.
func (rd *Reader) ExtractAll() (map[string][]byte, error) {
	out := make(map[string][]byte, len(rd.idx.Records))

	for _, rec := range rd.idx.Records {
		data, err := rd.readRecord(rec)
		if err != nil {
			return nil, err
		}

		out[rec.Name] = data
	}

	return out, nil
}
