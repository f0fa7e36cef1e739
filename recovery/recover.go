package recovery

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/byte271/6cy/block"
	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/superblock"
	"github.com/byte271/6cy/xcrypto"
)

// ExtractRecoverable performs full recovery: the same forward scan as
// ScanBlocks, but every block is also decoded and classified by health.
// Healthy DATA and SOLID blocks are re-emitted verbatim (header and
// payload bytes unchanged) into out, behind a fresh superblock; out has no
// INDEX block, since full recovery does not attempt to rebuild the file
// catalog (ScanBlocks does that separately from the same scan).
func ExtractRecoverable(r io.ReaderAt, size int64, reg *codec.Registry, cipher *xcrypto.BlockCipher, out io.WriteSeeker) (RecoveryReport, error) {
	if reg == nil {
		reg = codec.Default
	}

	var report RecoveryReport

	requiredCodecs := make(map[format.CodecUUID]struct{})
	anyEncrypted := false

	placeholder := make([]byte, format.SuperblockSize)
	if _, err := out.Write(placeholder); err != nil {
		return report, fmt.Errorf("write recovered superblock placeholder: %w", errs.ErrIO)
	}

	offset := int64(format.SuperblockSize)
	healthyData := 0

	for offset < size {
		h, err := readRawHeader(r, offset)
		if err != nil {
			break
		}

		if !h.magicOK {
			break
		}

		if h.BlockType == format.BlockIndex {
			break
		}

		bh := BlockHealth{Offset: uint64(offset), BlockType: h.BlockType}
		report.Scanned++

		if !h.crcOK {
			bh.Kind = HealthHeaderCorrupt
			report.HeaderCorrupt++
			report.Blocks = append(report.Blocks, bh)
			offset = h.nextOffset(offset)

			continue
		}

		available := size - (offset + int64(h.HeaderSize))
		if available < int64(h.CompSize) {
			bh.Kind = HealthTruncatedPayload
			bh.Declared = uint64(h.CompSize)
			bh.Available = uint64(max64(available, 0))
			report.TruncatedPayload++
			report.Blocks = append(report.Blocks, bh)

			break // no reliable way to locate the next header past a short payload
		}

		if !reg.Has(h.CodecUUID) {
			bh.Kind = HealthUnknownCodec
			bh.CodecUUID = h.CodecUUID
			report.UnknownCodec++
			report.Blocks = append(report.Blocks, bh)
			offset = h.nextOffset(offset)

			continue
		}

		payload := make([]byte, h.CompSize)
		if _, err := r.ReadAt(payload, offset+int64(h.HeaderSize)); err != nil {
			bh.Kind = HealthTruncatedPayload
			bh.Declared = uint64(h.CompSize)
			report.TruncatedPayload++
			report.Blocks = append(report.Blocks, bh)

			break
		}

		if _, err := block.Decode(reg, h.Header, payload, cipher); err != nil {
			bh.Kind = HealthHeaderCorrupt
			report.HeaderCorrupt++
			report.Blocks = append(report.Blocks, bh)
			offset = h.nextOffset(offset)

			continue
		}

		bh.Kind = HealthHealthy
		report.Healthy++

		if h.BlockType == format.BlockData || h.BlockType == format.BlockSolid {
			healthyData++
		}

		report.Blocks = append(report.Blocks, bh)

		headerBytes := h.Header.Bytes()
		if _, err := out.Write(headerBytes); err != nil {
			return report, fmt.Errorf("write recovered header: %w", errs.ErrIO)
		}

		if _, err := out.Write(payload); err != nil {
			return report, fmt.Errorf("write recovered payload: %w", errs.ErrIO)
		}

		if !h.CodecUUID.IsZero() {
			requiredCodecs[h.CodecUUID] = struct{}{}
		}

		if h.Encrypted() {
			anyEncrypted = true
		}

		offset = h.nextOffset(offset)
	}

	report.Quality = rateQuality(report.Scanned, report.Healthy, healthyData)

	sb := superblock.New(uuid.New())
	sb.SetEncrypted(anyEncrypted)

	for u := range requiredCodecs {
		sb.RequiredCodecUUIDs = append(sb.RequiredCodecUUIDs, u)
	}

	sbBytes, err := sb.Bytes()
	if err != nil {
		return report, err
	}

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return report, fmt.Errorf("seek recovered superblock: %w", errs.ErrIO)
	}

	if _, err := out.Write(sbBytes); err != nil {
		return report, fmt.Errorf("write recovered superblock: %w", errs.ErrIO)
	}

	if _, err := out.Seek(0, io.SeekEnd); err != nil {
		return report, fmt.Errorf("seek recovered archive end: %w", errs.ErrIO)
	}

	return report, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}
