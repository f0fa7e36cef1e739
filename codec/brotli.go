package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// brotliCodec wraps github.com/andybalholm/brotli. A level above 11 is
// clamped to 11; a level of zero or below selects the default (6), so
// Brotli's native level 0 is never used.
type brotliCodec struct{}

const (
	brotliMinLevel = 0
	brotliMaxLevel = 11
	brotliDefault  = 6
)

func clampBrotliLevel(level int) int {
	if level <= 0 {
		return brotliDefault
	}
	if level < brotliMinLevel {
		return brotliMinLevel
	}
	if level > brotliMaxLevel {
		return brotliMaxLevel
	}

	return level
}

func (brotliCodec) Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	w := brotli.NewWriterLevel(&buf, clampBrotliLevel(level))
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli: write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli: close: %w", err)
	}

	return buf.Bytes(), nil
}

func (brotliCodec) Decompress(data []byte, sizeHint int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))

	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(sizeHint)
	}

	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("brotli: read: %w", err)
	}

	return buf.Bytes(), nil
}

func (brotliCodec) CompressBound(inputLen int) int {
	// Brotli's stream framing overhead is small and bounded; this adds a
	// generous margin over the input length to cover it.
	return inputLen + (inputLen >> 10) + 512
}
