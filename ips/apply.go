package ips

import (
	"bytes"
	"fmt"
	"io"
)

// Truncater is implemented by targets that can shrink, like *os.File
// and *Buffer.
type Truncater interface {
	Truncate(size int64) error
}

// Apply applies the patch read from patch to target and returns the
// number of records applied. Records are written as they are read, so
// an error part way through leaves target partially patched.
func Apply(target io.WriterAt, patch io.Reader) (int, error) {
	pr, err := NewReader(patch)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		rec, err := pr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("after %d records: %w", count, err)
		}

		if err := ApplyRecord(target, rec); err != nil {
			return count, fmt.Errorf("error applying record %d (%v): %w", count, rec, err)
		}
		count++
	}

	if size, ok := pr.Truncate(); ok {
		t, ok := target.(Truncater)
		if !ok {
			return count, ErrTruncateUnsupported
		}
		if err := t.Truncate(size); err != nil {
			return count, fmt.Errorf("error truncating target: %w", err)
		}
	}

	return count, nil
}

// ApplyRecord writes a single record to target: its literal bytes, or
// its byte repeated Size times for RLE.
func ApplyRecord(target io.WriterAt, rec *Record) error {
	data := rec.Data
	if rec.RLE {
		data = bytes.Repeat(rec.Data, rec.Size)
	}

	_, err := target.WriteAt(data, int64(rec.Offset))
	return err
}
