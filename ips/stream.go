package ips

import (
	"bufio"
	"fmt"
	"io"
)

// Reader reads the records of a patch stream in order.
type Reader struct {
	br          *bufio.Reader
	done        bool
	truncate    int64
	hasTruncate bool
}

// NewReader checks the patch magic and returns a Reader positioned at
// the first record.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(MAGIC))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: couldn't read header: %v", ErrCorrupt, err)
	}
	if string(magic) != MAGIC {
		return nil, fmt.Errorf("%w: bad header %q", ErrCorrupt, magic)
	}

	return &Reader{br: br}, nil
}

// Next returns the next record, or io.EOF once the stream has ended.
// Exactly three bytes following the end marker are taken as the size
// to truncate the target to.
func (pr *Reader) Next() (*Record, error) {
	if pr.done {
		return nil, io.EOF
	}

	if b, _ := pr.br.Peek(OFFSET_SIZE); string(b) == EOF_MARKER {
		pr.done = true
		pr.br.Discard(OFFSET_SIZE)

		tail, err := io.ReadAll(io.LimitReader(pr.br, OFFSET_SIZE+1))
		if err != nil {
			return nil, fmt.Errorf("%w: reading past end marker: %v", ErrCorrupt, err)
		}
		if len(tail) == OFFSET_SIZE {
			pr.truncate, pr.hasTruncate = int64(uint24(tail)), true
		}
		return nil, io.EOF
	}

	rec, err := ReadRecord(pr.br)
	if err != nil {
		pr.done = true
	}
	return rec, err
}

// Truncate reports the size the target should be cut to, if the stream
// carried one. It is only meaningful once Next has returned io.EOF.
func (pr *Reader) Truncate() (int64, bool) {
	return pr.truncate, pr.hasTruncate
}

// Writer writes a patch stream. Close must be called to terminate it.
type Writer struct {
	w           io.Writer
	count       int
	truncate    int64
	hasTruncate bool
}

// NewWriter writes the patch magic to w.
func NewWriter(w io.Writer) (*Writer, error) {
	if _, err := io.WriteString(w, MAGIC); err != nil {
		return nil, err
	}
	return &Writer{w: w}, nil
}

func (pw *Writer) WriteRecord(rec *Record) error {
	if err := WriteRecord(pw.w, rec); err != nil {
		return fmt.Errorf("record %d: %w", pw.count, err)
	}
	pw.count++
	return nil
}

// Count returns the number of records written so far.
func (pw *Writer) Count() int {
	return pw.count
}

// SetTruncate makes the patch cut its target to size bytes.
func (pw *Writer) SetTruncate(size int64) error {
	if size < 0 || size > MAX_OFFSET {
		return fmt.Errorf("%w: truncate to %d", ErrOffsetTooLarge, size)
	}
	pw.truncate, pw.hasTruncate = size, true
	return nil
}

// Close writes the end marker and, if set, the truncation size. It does
// not close the underlying writer.
func (pw *Writer) Close() error {
	tail := []byte(EOF_MARKER)
	if pw.hasTruncate {
		tail = append(tail, byte(pw.truncate>>16), byte(pw.truncate>>8), byte(pw.truncate))
	}
	_, err := pw.w.Write(tail)
	return err
}
