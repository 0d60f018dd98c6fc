package nesrom

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// memStore is an in-memory Store that grows on write and can be
// truncated.
type memStore struct {
	data []byte
}

func (m *memStore) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memStore) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(m.data) {
		m.data = append(m.data, make([]byte, end-len(m.data))...)
	}
	return copy(m.data[off:], p), nil
}

func (m *memStore) Truncate(size int64) error {
	m.data = m.data[:size]
	return nil
}

// newTestROM builds an image whose PRG banks are filled with 0x10+n and
// CHR banks with 0x80+n.
func newTestROM(t *testing.T, prg, chr uint8) (*ROM, *memStore) {
	t.Helper()

	data := NewHeader(prg, chr, 0x01, 0x00).Bytes()
	for i := 0; i < int(prg); i++ {
		data = append(data, bytes.Repeat([]byte{byte(0x10 + i)}, PRG_BLOCK_SIZE)...)
	}
	for i := 0; i < int(chr); i++ {
		data = append(data, bytes.Repeat([]byte{byte(0x80 + i)}, CHR_BLOCK_SIZE)...)
	}

	ms := &memStore{data: data}
	r, err := New(ms, int64(len(data)))
	if err != nil {
		t.Fatalf("couldn't build test ROM: %v", err)
	}

	return r, ms
}

func TestNew(t *testing.T) {
	cases := []struct {
		data    []byte
		wantErr error
	}{
		{NewHeader(1, 1, 0, 0).Bytes(), nil},
		{[]byte("NES\x1a"), ErrShortHeader},
		{append([]byte("NES\x00"), make([]byte, 12)...), ErrBadMagic},
	}

	for i, tc := range cases {
		_, err := New(&memStore{data: tc.data}, int64(len(tc.data)))
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%d: Got %v, want %v", i, err, tc.wantErr)
		}
	}
}

func TestVerify(t *testing.T) {
	r, _ := newTestROM(t, 2, 1)
	if err := r.Verify(); err != nil {
		t.Errorf("Verify() = %v, want nil", err)
	}

	short := NewHeader(2, 1, 0, 0).Bytes()
	r, err := New(&memStore{data: short}, int64(len(short)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Verify(); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Verify() = %v, want %v", err, ErrInvalidLength)
	}
}

func TestReadBank(t *testing.T) {
	r, _ := newTestROM(t, 2, 2)
	cases := []struct {
		kind    BankKind
		n       int
		fill    byte
		wantErr error
	}{
		{PRG, 0, 0x10, nil},
		{PRG, 1, 0x11, nil},
		{CHR, 0, 0x80, nil},
		{CHR, 1, 0x81, nil},
		{CHR, 2, 0, ErrOutOfRange},
	}

	for i, tc := range cases {
		got, err := r.ReadBank(tc.kind, tc.n)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%d: Got error %v, want %v", i, err, tc.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if want := bytes.Repeat([]byte{tc.fill}, BankSize(tc.kind)); !bytes.Equal(got, want) {
			t.Errorf("%d: bank contents don't match fill 0x%02x", i, tc.fill)
		}
	}
}

func TestWriteBank(t *testing.T) {
	r, ms := newTestROM(t, 1, 2)

	bank := bytes.Repeat([]byte{0xAA}, CHR_BLOCK_SIZE)
	if err := r.WriteBank(CHR, 1, bank); err != nil {
		t.Fatalf("WriteBank: %v", err)
	}

	off, _ := BankOffset(r.Header(), CHR, 1)
	if !bytes.Equal(ms.data[off:off+CHR_BLOCK_SIZE], bank) {
		t.Errorf("CHR bank 1 not replaced")
	}
	if ms.data[off-1] != 0x80 {
		t.Errorf("CHR bank 0 clobbered: 0x%02x", ms.data[off-1])
	}

	if err := r.WriteBank(CHR, 0, bank[:100]); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("short bank: Got %v, want %v", err, ErrInvalidLength)
	}
	if err := r.WriteBank(PRG, 1, make([]byte, PRG_BLOCK_SIZE)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("missing bank: Got %v, want %v", err, ErrOutOfRange)
	}
}

func TestTiles(t *testing.T) {
	r, ms := newTestROM(t, 1, 1)

	tiles := make([]byte, 3*TILE_SIZE)
	for i := range tiles {
		tiles[i] = byte(i)
	}

	if err := r.WriteTiles(CHR, 0, 5, tiles); err != nil {
		t.Fatalf("WriteTiles: %v", err)
	}

	got, err := r.ReadTiles(CHR, 0, 5, 3)
	if err != nil {
		t.Fatalf("ReadTiles: %v", err)
	}
	if !bytes.Equal(got, tiles) {
		t.Errorf("Got % x, want % x", got, tiles)
	}

	off, _ := TileBankOffset(r.Header(), CHR, 0, 5)
	if ms.data[off-1] != 0x80 || ms.data[off+int64(len(tiles))] != 0x80 {
		t.Errorf("neighbouring tiles clobbered")
	}

	cases := []struct {
		start, count int
		wantErr      error
	}{
		{510, 2, nil},
		{510, 3, ErrOutOfRange},
		{-1, 1, ErrOutOfRange},
		{0, 0, ErrOutOfRange},
	}
	for i, tc := range cases {
		if _, err := r.ReadTiles(CHR, 0, tc.start, tc.count); !errors.Is(err, tc.wantErr) {
			t.Errorf("%d: Got %v, want %v", i, err, tc.wantErr)
		}
	}

	if err := r.WriteTiles(CHR, 0, 0, tiles[:10]); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("partial tile: Got %v, want %v", err, ErrInvalidLength)
	}
}

func TestTitle(t *testing.T) {
	r, ms := newTestROM(t, 1, 1)

	if _, err := r.Title(false); !errors.Is(err, ErrNoTitle) {
		t.Errorf("Title() on untitled ROM = %v, want %v", err, ErrNoTitle)
	}

	if err := r.SetTitle("Super Test Bros.\x01junk"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if got := len(ms.data); got != 16+PRG_BLOCK_SIZE+CHR_BLOCK_SIZE+TITLE_BLOCK_SIZE {
		t.Errorf("image size = %d after SetTitle", got)
	}

	cases := []struct {
		strip bool
		want  string
	}{
		{false, "Super Test Bros.\x01junk"},
		{true, "Super Test Bros."},
	}
	for i, tc := range cases {
		got, err := r.Title(tc.strip)
		if err != nil || got != tc.want {
			t.Errorf("%d: Got (%q, %v), want %q", i, got, err, tc.want)
		}
	}

	if err := r.SetTitle(string(make([]byte, TITLE_BLOCK_SIZE+1))); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("long title: Got %v, want %v", err, ErrTitleTooLong)
	}

	if err := r.RemoveTitle(); err != nil {
		t.Fatalf("RemoveTitle: %v", err)
	}
	if r.HasTitle() || int64(len(ms.data)) != TitleBlockOffset(r.Header()) {
		t.Errorf("title still present after RemoveTitle (size %d)", len(ms.data))
	}
	if err := r.RemoveTitle(); err != nil {
		t.Errorf("RemoveTitle on untitled ROM = %v", err)
	}
}

func TestRemoveTitleUnsupported(t *testing.T) {
	_, ms := newTestROM(t, 1, 0)
	ms.data = append(ms.data, []byte("title")...)

	r, err := New(struct {
		io.ReaderAt
		io.WriterAt
	}{ms, ms}, int64(len(ms.data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.RemoveTitle(); !errors.Is(err, ErrTruncateUnsupported) {
		t.Errorf("Got %v, want %v", err, ErrTruncateUnsupported)
	}
}

func TestSetTitleShortImage(t *testing.T) {
	short := NewHeader(2, 1, 0, 0).Bytes()
	ms := &memStore{data: append(short, make([]byte, PRG_BLOCK_SIZE)...)}
	r, err := New(ms, int64(len(ms.data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.SetTitle("hole"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Got %v, want %v", err, ErrInvalidLength)
	}
	if got := len(ms.data); got != HEADER_SIZE+PRG_BLOCK_SIZE {
		t.Errorf("image grew to %d bytes", got)
	}
}
