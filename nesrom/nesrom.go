package nesrom

import (
	"fmt"
	"io"
)

// Store is the byte storage a ROM lives in, usually an *os.File.
type Store interface {
	io.ReaderAt
	io.WriterAt
}

// Truncater is implemented by stores that can shrink, like *os.File.
type Truncater interface {
	Truncate(size int64) error
}

type ROM struct {
	s    Store
	h    *Header
	size int64
}

// New reads and validates the header of the ROM held in s, which is
// size bytes long.
func New(s Store, size int64) (*ROM, error) {
	hbytes := make([]byte, HEADER_SIZE)
	if size < HEADER_SIZE {
		return nil, fmt.Errorf("couldn't read header: %w", ErrShortHeader)
	}
	if err := readFull(s, hbytes, 0); err != nil {
		return nil, fmt.Errorf("couldn't read header: %w", err)
	}

	h, err := ParseHeader(hbytes)
	if err != nil {
		return nil, fmt.Errorf("error parsing header: %w", err)
	}
	if !h.IsINesFormat() {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, h.constant)
	}

	return &ROM{s: s, h: h, size: size}, nil
}

func readFull(s io.ReaderAt, buf []byte, off int64) error {
	n, err := s.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read %d of %d bytes at 0x%08x: %w", n, len(buf), off, err)
}

func (r *ROM) write(buf []byte, off int64) error {
	if _, err := r.s.WriteAt(buf, off); err != nil {
		return fmt.Errorf("writing %d bytes at 0x%08x: %w", len(buf), off, err)
	}
	if end := off + int64(len(buf)); end > r.size {
		r.size = end
	}
	return nil
}

func (r *ROM) Header() *Header {
	return r.h
}

// Size returns the current size in bytes of the ROM image.
func (r *ROM) Size() int64 {
	return r.size
}

// Verify checks that the image is big enough to hold every bank the
// header announces.
func (r *ROM) Verify() error {
	if want := TitleBlockOffset(r.h); r.size < want {
		return fmt.Errorf("%w: image is %d bytes, header needs %d", ErrInvalidLength, r.size, want)
	}
	return nil
}

// ReadBank returns a copy of bank n (0-based) of the given kind.
func (r *ROM) ReadBank(kind BankKind, n int) ([]byte, error) {
	off, err := BankOffset(r.h, kind, n)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, BankSize(kind))
	if err := readFull(r.s, buf, off); err != nil {
		return nil, fmt.Errorf("error reading %s bank %d: %w", kind, n, err)
	}

	return buf, nil
}

// WriteBank replaces bank n (0-based) of the given kind with data,
// which must be exactly one bank long.
func (r *ROM) WriteBank(kind BankKind, n int, data []byte) error {
	if len(data) != BankSize(kind) {
		return fmt.Errorf("%w: %s bank is %d bytes, got %d", ErrInvalidLength, kind, BankSize(kind), len(data))
	}

	off, err := BankOffset(r.h, kind, n)
	if err != nil {
		return err
	}

	return r.write(data, off)
}

// ReadTiles returns count native tiles starting at tile start of bank n.
func (r *ROM) ReadTiles(kind BankKind, n, start, count int) ([]byte, error) {
	off, err := r.tileSpan(kind, n, start, count)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, count*TILE_SIZE)
	if err := readFull(r.s, buf, off); err != nil {
		return nil, fmt.Errorf("error reading tiles %d-%d: %w", start, start+count-1, err)
	}

	return buf, nil
}

// WriteTiles overwrites tiles of bank n, starting at tile start, with
// the native tile data in tiles.
func (r *ROM) WriteTiles(kind BankKind, n, start int, tiles []byte) error {
	if len(tiles) == 0 || len(tiles)%TILE_SIZE != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of tiles", ErrInvalidLength, len(tiles))
	}

	count := len(tiles) / TILE_SIZE
	off, err := r.tileSpan(kind, n, start, count)
	if err != nil {
		return err
	}

	return r.write(tiles, off)
}

// tileSpan checks that tiles [start, start+count) all sit inside bank n
// and returns the offset of the first one.
func (r *ROM) tileSpan(kind BankKind, n, start, count int) (int64, error) {
	if count < 1 {
		return 0, fmt.Errorf("%w: tile count %d", ErrOutOfRange, count)
	}
	if start+count > MaxTiles(kind) {
		return 0, fmt.Errorf("%w: tiles %d-%d don't fit in a %s bank", ErrOutOfRange, start, start+count-1, kind)
	}

	return TileBankOffset(r.h, kind, n, start)
}
