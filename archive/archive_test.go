package archive

import (
	"bytes"
	"io"
)

// memFile is a minimal in-memory io.WriteSeeker backing a growable byte
// slice, used by the package's tests in place of a real file.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	copy(m.buf[m.pos:end], p)
	m.pos = end

	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64

	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	}

	m.pos = base + offset

	return m.pos, nil
}

func (m *memFile) bytes() []byte {
	return m.buf
}

func (m *memFile) readerAt() io.ReaderAt {
	return bytes.NewReader(m.buf)
}
