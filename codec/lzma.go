package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaCodec wraps github.com/ulikunitz/xz/lzma, the pure-Go LZMA1
// implementation. Level is ignored: the library exposes dictionary size and
// literal-context tuning rather than a single numeric level, and the spec
// leaves LZMA's level codec-defined/ignored.
type lzmaCodec struct{}

func (lzmaCodec) Compress(data []byte, _ int) ([]byte, error) {
	var buf bytes.Buffer

	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("lzma: new writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lzma: write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzma: close: %w", err)
	}

	return buf.Bytes(), nil
}

func (lzmaCodec) Decompress(data []byte, sizeHint int) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("lzma: new reader: %w", err)
	}

	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(sizeHint)
	}

	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("lzma: read: %w", err)
	}

	return buf.Bytes(), nil
}

func (lzmaCodec) CompressBound(inputLen int) int {
	// LZMA1 has no hard worst-case bound comparable to LZ4; this headroom
	// comfortably covers the stream header plus incompressible payloads.
	return inputLen + (inputLen >> 1) + 4096
}
