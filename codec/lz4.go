package codec

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4Codec wraps github.com/pierrec/lz4/v4 block mode. It ignores the level
// argument: LZ4's value proposition is decompression speed, not ratio
// tuning, so the spec marks its level as codec-defined/ignored.
type lz4Codec struct{}

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

func (lz4Codec) Compress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: compress: %w", err)
	}

	if n == 0 {
		// Incompressible input: lz4 signals this by writing nothing.
		// Store the literal bytes in a None-prefixed frame so Decompress
		// can tell the two cases apart.
		return append([]byte{0}, data...), nil
	}

	return append([]byte{1}, dst[:n]...), nil
}

func (lz4Codec) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	tag, payload := data[0], data[1:]
	if tag == 0 {
		out := make([]byte, len(payload))
		copy(out, payload)

		return out, nil
	}

	bufSize := sizeHint
	if bufSize <= 0 {
		bufSize = len(payload) * 4
	}

	const maxSize = 512 * 1024 * 1024

	for {
		buf := make([]byte, bufSize)

		n, err := lz4.UncompressBlock(payload, buf)
		if err == nil {
			return buf[:n], nil
		}

		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || bufSize >= maxSize {
			return nil, fmt.Errorf("lz4: decompress: %w", err)
		}

		bufSize *= 2
	}
}

func (lz4Codec) CompressBound(inputLen int) int {
	return lz4.CompressBlockBound(inputLen) + 1
}
