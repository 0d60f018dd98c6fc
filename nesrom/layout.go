package nesrom

import "fmt"

const (
	PRG_BLOCK_SIZE    = 16384
	CHR_BLOCK_SIZE    = 8192
	TILE_SIZE         = 16  // a native 8x8 tile, two 8 byte bit planes
	TITLE_BLOCK_SIZE  = 128 // optional ASCII title appended after the last bank
	MAX_TILES_PER_PRG = PRG_BLOCK_SIZE / TILE_SIZE
	MAX_TILES_PER_CHR = CHR_BLOCK_SIZE / TILE_SIZE
)

// BankKind identifies one of the two bank regions of a ROM.
type BankKind int

const (
	PRG BankKind = iota
	CHR
)

func (k BankKind) String() string {
	switch k {
	case PRG:
		return "PRG"
	case CHR:
		return "CHR"
	}

	return fmt.Sprintf("BankKind(%d)", int(k))
}

// ParseBankKind accepts "prg"/"p" and "chr"/"c".
func ParseBankKind(s string) (BankKind, error) {
	switch s {
	case "prg", "p", "PRG":
		return PRG, nil
	case "chr", "c", "CHR":
		return CHR, nil
	}

	return 0, fmt.Errorf("unknown bank type %q", s)
}

// BankSize returns the size in bytes of a single bank of kind k.
func BankSize(k BankKind) int {
	if k == PRG {
		return PRG_BLOCK_SIZE
	}
	return CHR_BLOCK_SIZE
}

// MaxTiles returns the number of native tiles that fit in a bank of kind k.
func MaxTiles(k BankKind) int {
	return BankSize(k) / TILE_SIZE
}

// BankOffset returns the absolute file offset of bank index (0-based)
// of the given kind.
func BankOffset(h *Header, kind BankKind, index int) (int64, error) {
	if index < 0 || index >= h.Banks(kind) {
		return 0, fmt.Errorf("%w: %s bank %d of %d", ErrOutOfRange, kind, index, h.Banks(kind))
	}

	off := int64(HEADER_SIZE)
	switch kind {
	case PRG:
		off += int64(index) * PRG_BLOCK_SIZE
	case CHR:
		off += int64(h.PrgBanks())*PRG_BLOCK_SIZE + int64(index)*CHR_BLOCK_SIZE
	}

	return off, nil
}

// TileOffset returns the offset of tile n relative to the start of a
// bank, or relative to any tile cursor when seeking forward n tiles.
func TileOffset(n int) int64 {
	return int64(n) * TILE_SIZE
}

// TileBankOffset returns the absolute offset of tile t within bank b.
func TileBankOffset(h *Header, kind BankKind, b, t int) (int64, error) {
	off, err := BankOffset(h, kind, b)
	if err != nil {
		return 0, err
	}

	if t < 0 || t >= MaxTiles(kind) {
		return 0, fmt.Errorf("%w: tile %d of %d in %s bank", ErrOutOfRange, t, MaxTiles(kind), kind)
	}

	return off + TileOffset(t), nil
}

// TitleBlockOffset returns where the optional title block starts: just
// past the last CHR bank.
func TitleBlockOffset(h *Header) int64 {
	return HEADER_SIZE + int64(h.PrgBanks())*PRG_BLOCK_SIZE + int64(h.ChrBanks())*CHR_BLOCK_SIZE
}

// HasTitle guesses whether a file of fileSize bytes carries a title
// block. Only the size is inspected, so a header that under-reports its
// banks yields a false positive.
func HasTitle(h *Header, fileSize int64) bool {
	return fileSize > TitleBlockOffset(h)
}
