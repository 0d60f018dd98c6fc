package ips

import (
	"bytes"
	"fmt"
	"io"
)

// RLE_MIN_RUN is the shortest run of one byte value that Create turns
// into an RLE record when asked to.
const RLE_MIN_RUN = 9

// Patch is an in-memory patch: its records in order and, optionally,
// the size to truncate the target to.
type Patch struct {
	Records     []*Record
	Truncate    int64
	HasTruncate bool
}

// Create compares original with modified and returns a patch that turns
// the former into the latter. The scan is greedy: every run of
// differing bytes becomes one or more records. Bytes modified has past
// the end of original are always emitted, and a shorter modified makes
// the patch truncate.
func Create(original, modified []byte, useRLE bool) (*Patch, error) {
	p := &Patch{}
	same := func(i int) bool {
		return i < len(original) && original[i] == modified[i]
	}

	for i := 0; i < len(modified); {
		if same(i) {
			i++
			continue
		}

		start := i
		for i < len(modified) && !same(i) {
			i++
		}

		var err error
		if useRLE {
			err = p.addRuns(modified, start, i)
		} else {
			err = p.addLiteral(modified, start, i)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(modified) < len(original) {
		if len(modified) > MAX_OFFSET {
			return nil, fmt.Errorf("%w: truncate to %d", ErrOffsetTooLarge, len(modified))
		}
		p.Truncate, p.HasTruncate = int64(len(modified)), true
	}

	return p, nil
}

// addLiteral emits modified[start:end] as literal records of at most
// MAX_SIZE bytes. A record that would start at EOF_OFFSET starts one
// byte early instead.
func (p *Patch) addLiteral(modified []byte, start, end int) error {
	for start < end {
		o := start
		if o == EOF_OFFSET {
			o--
		}
		if o > MAX_OFFSET {
			return fmt.Errorf("%w: 0x%x", ErrOffsetTooLarge, o)
		}

		n := end - o
		if n > MAX_SIZE {
			n = MAX_SIZE
		}

		data := make([]byte, n)
		copy(data, modified[o:o+n])
		p.Records = append(p.Records, &Record{Offset: uint32(o), Size: n, Data: data})
		start = o + n
	}

	return nil
}

// addRLE emits modified[start:end], a run of a single value, as RLE
// records.
func (p *Patch) addRLE(modified []byte, start, end int) error {
	for start < end {
		if start == EOF_OFFSET {
			if err := p.addLiteral(modified, start, start+1); err != nil {
				return err
			}
			start++
			continue
		}
		if start > MAX_OFFSET {
			return fmt.Errorf("%w: 0x%x", ErrOffsetTooLarge, start)
		}

		n := end - start
		if n > MAX_SIZE {
			n = MAX_SIZE
		}

		p.Records = append(p.Records, &Record{Offset: uint32(start), RLE: true, Size: n, Data: []byte{modified[start]}})
		start += n
	}

	return nil
}

// addRuns splits modified[start:end] into RLE records for long runs of
// a single value and literal records for everything in between.
func (p *Patch) addRuns(modified []byte, start, end int) error {
	lit := start
	for i := start; i < end; {
		j := i + 1
		for j < end && modified[j] == modified[i] {
			j++
		}

		if j-i >= RLE_MIN_RUN {
			if err := p.addLiteral(modified, lit, i); err != nil {
				return err
			}
			if err := p.addRLE(modified, i, j); err != nil {
				return err
			}
			lit = j
		}
		i = j
	}

	return p.addLiteral(modified, lit, end)
}

// WriteTo serializes the patch to w.
func (p *Patch) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	pw, err := NewWriter(&buf)
	if err != nil {
		return 0, err
	}
	for _, rec := range p.Records {
		if err := pw.WriteRecord(rec); err != nil {
			return 0, err
		}
	}
	if p.HasTruncate {
		if err := pw.SetTruncate(p.Truncate); err != nil {
			return 0, err
		}
	}
	if err := pw.Close(); err != nil {
		return 0, err
	}

	return buf.WriteTo(w)
}
