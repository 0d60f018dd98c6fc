package ips

import "io"

// Buffer is an in-memory patch target that grows as records write past
// its end.
type Buffer struct {
	data []byte
}

// NewBuffer returns a Buffer holding a copy of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: append([]byte(nil), b...)}
}

// expand grows the buffer to at least length bytes.
func (b *Buffer) expand(length int64) {
	if int64(len(b.data)) < length {
		newBuf := make([]byte, length)
		copy(newBuf, b.data)
		b.data = newBuf
	}
}

func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	b.expand(off + int64(len(p)))
	return copy(b.data[off:], p), nil
}

func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *Buffer) Truncate(size int64) error {
	b.expand(size)
	b.data = b.data[:size]
	return nil
}

func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Len() int {
	return len(b.data)
}
