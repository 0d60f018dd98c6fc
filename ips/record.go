// Package ips reads, writes, applies and creates IPS patch files.
// http://zerosoft.zophar.net/ips.htm
//
// A patch is the magic "PATCH", a run of records and the marker "EOF".
// Each record is a 3 byte big-endian offset and a 2 byte big-endian
// size followed by size bytes of data. A size of zero marks an RLE
// record: a 2 byte run length and the single byte to repeat.
package ips

import (
	"errors"
	"fmt"
	"io"
)

const (
	MAGIC      = "PATCH"
	EOF_MARKER = "EOF"

	OFFSET_SIZE = 3
	SIZE_SIZE   = 2

	MAX_OFFSET = 1<<24 - 1
	MAX_SIZE   = 1<<16 - 1

	// The offset that reads as "EOF"; no record may start here.
	EOF_OFFSET = 0x454F46
)

var (
	ErrCorrupt             = errors.New("corrupt patch")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrOffsetTooLarge      = errors.New("offset doesn't fit in 24 bits")
	ErrTruncateUnsupported = errors.New("target can't be truncated")
)

// Record is one patch record. For a literal record Data holds Size
// bytes; for an RLE record Data holds the single byte to be repeated
// Size times.
type Record struct {
	Offset uint32
	RLE    bool
	Size   int
	Data   []byte
}

func (r *Record) String() string {
	if r.RLE {
		return fmt.Sprintf("0x%06x: rle %d x %02x", r.Offset, r.Size, r.Data[0])
	}
	return fmt.Sprintf("0x%06x: %d bytes", r.Offset, r.Size)
}

func (r *Record) validate() error {
	switch {
	case r.Offset > MAX_OFFSET:
		return fmt.Errorf("%w: 0x%x", ErrOffsetTooLarge, r.Offset)
	case r.Offset == EOF_OFFSET:
		return fmt.Errorf("%w: offset 0x%06x reads as the end marker", ErrInvalidRecord, r.Offset)
	case r.Size < 1 || r.Size > MAX_SIZE:
		return fmt.Errorf("%w: size %d", ErrInvalidRecord, r.Size)
	case r.RLE && len(r.Data) != 1:
		return fmt.Errorf("%w: rle record with %d data bytes", ErrInvalidRecord, len(r.Data))
	case !r.RLE && len(r.Data) != r.Size:
		return fmt.Errorf("%w: size %d with %d data bytes", ErrInvalidRecord, r.Size, len(r.Data))
	}
	return nil
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func uint16be(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}

// readField fills buf from r. Any short read is corruption: the caller
// has already committed to a record.
func readField(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("%w: reading %s: %w", ErrCorrupt, what, err)
	}
	return nil
}

// ReadRecord reads the next record from r. It returns io.EOF when it
// meets the end marker or when r is exhausted exactly at a record
// boundary, and an ErrCorrupt error when r ends part way through one.
func ReadRecord(r io.Reader) (*Record, error) {
	var off [OFFSET_SIZE]byte
	n, err := io.ReadFull(r, off[:])
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err != nil:
		return nil, fmt.Errorf("%w: reading offset (got %d bytes): %w", ErrCorrupt, n, err)
	case string(off[:]) == EOF_MARKER:
		return nil, io.EOF
	}

	var size [SIZE_SIZE]byte
	if err := readField(r, size[:], "size"); err != nil {
		return nil, err
	}

	rec := &Record{Offset: uint24(off[:]), Size: uint16be(size[:])}
	if rec.Size == 0 {
		var rle [SIZE_SIZE + 1]byte
		if err := readField(r, rle[:], "rle run"); err != nil {
			return nil, err
		}
		rec.RLE = true
		rec.Size = uint16be(rle[:SIZE_SIZE])
		rec.Data = []byte{rle[SIZE_SIZE]}
		return rec, nil
	}

	rec.Data = make([]byte, rec.Size)
	if err := readField(r, rec.Data, "data"); err != nil {
		return nil, err
	}

	return rec, nil
}

// WriteRecord serializes rec to w.
func WriteRecord(w io.Writer, rec *Record) error {
	if err := rec.validate(); err != nil {
		return err
	}

	buf := make([]byte, 0, OFFSET_SIZE+SIZE_SIZE+len(rec.Data)+SIZE_SIZE)
	buf = append(buf, byte(rec.Offset>>16), byte(rec.Offset>>8), byte(rec.Offset))
	if rec.RLE {
		buf = append(buf, 0, 0, byte(rec.Size>>8), byte(rec.Size), rec.Data[0])
	} else {
		buf = append(buf, byte(rec.Size>>8), byte(rec.Size))
		buf = append(buf, rec.Data...)
	}

	_, err := w.Write(buf)
	return err
}
