// Package nesrom implements support for reading and editing NES (iNES)
// ROM images. https://www.nesdev.org/wiki/INES
package nesrom

import (
	"fmt"
)

const (
	// Constant $4E $45 $53 $1A (ASCII "NES" followed by MS-DOS end-of-file)
	MAGIC       = "NES\x1A"
	HEADER_SIZE = 16
)

type Header struct {
	// Bytes 0-3
	// Constant $4E $45 $53 $1A (ASCII "NES" followed by MS-DOS end-of-file)
	constant string
	// Byte 4
	// Size of PRG ROM in 16 KB units
	prgSize uint8
	// Byte 5
	// Size of CHR ROM in 8 KB units (value 0 means the board uses CHR RAM)
	chrSize uint8
	// Byte 6
	// Flags 6 – Mapper, mirroring, battery, trainer
	flags6 uint8
	// Byte 7
	// Flags 7 – Mapper, VS/Playchoice, NES 2.0
	flags7 uint8
	// Byte 8
	// Flags 8 – PRG-RAM size (rarely used extension)
	flags8 uint8
	// Byte 9
	// Flags 9 – TV system (rarely used extension)
	flags9 uint8
	// Byte 10
	// Flags 10 – TV system, PRG-RAM presence (unofficial, rarely used extension)
	flags10 uint8
	// Bytes 11-15	Unused padding (should be filled with zero, but some rippers put their name across bytes 7-15)
	unused []byte
}

// flag6 flag identifiers - the top 4 bits are the lower nibble of the mapper number
const (
	// 0: horizontal (vertical arrangement) (CIRAM A10 = PPU A11)
	// 1: vertical (horizontal arrangement) (CIRAM A10 = PPU A10)
	MIRRORING = 1 << 0
	// 1: Cartridge contains battery-backed PRG RAM ($6000-7FFF)
	// or other persistent memory
	BATTERY_BACKED_SRAM = 1 << 1
	// 1: 512-byte trainer at $7000-$71FF (stored before PRG data)
	TRAINER = 1 << 2
	// 1: Ignore mirroring control or above mirroring bit; instead
	// provide four-screen VRAM
	IGNORE_MIRRORING = 1 << 3
)

// flag7 flag identifiers - the top 4 bits are the upper nibble of the mapper number
const (
	VS_UNISYSTEM = 0x01
	// Mostly ignored
	PLAYCHOICE_10 = 0x02 // PlayChoice-10, 8 KB of Hint Screen data stored after CHR data
)

// Mirroring mode
const (
	MIRROR_HORIZONTAL = iota
	MIRROR_VERTICAL
	MIRROR_FOUR_SCREEN
)

// ParseHeader builds a Header from the first 16 bytes of hbytes. The
// magic constant is not checked here; use IsINesFormat for that.
func ParseHeader(hbytes []byte) (*Header, error) {
	if len(hbytes) < HEADER_SIZE {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrShortHeader, len(hbytes), HEADER_SIZE)
	}

	unused := make([]byte, HEADER_SIZE-11)
	copy(unused, hbytes[11:HEADER_SIZE])

	return &Header{
		constant: string(hbytes[0:4]),
		prgSize:  uint8(hbytes[4]),
		chrSize:  uint8(hbytes[5]),
		flags6:   uint8(hbytes[6]),
		flags7:   uint8(hbytes[7]),
		flags8:   uint8(hbytes[8]),
		flags9:   uint8(hbytes[9]),
		flags10:  uint8(hbytes[10]),
		unused:   unused,
	}, nil
}

// NewHeader returns an iNES header with the given bank counts and
// control bytes. The remaining bytes are zero.
func NewHeader(prgBanks, chrBanks, flags6, flags7 uint8) *Header {
	return &Header{
		constant: MAGIC,
		prgSize:  prgBanks,
		chrSize:  chrBanks,
		flags6:   flags6,
		flags7:   flags7,
		unused:   make([]byte, HEADER_SIZE-11),
	}
}

// Bytes serializes the header back into its 16 byte on-disk form.
func (h *Header) Bytes() []byte {
	b := make([]byte, HEADER_SIZE)
	copy(b[0:4], h.constant)
	b[4] = h.prgSize
	b[5] = h.chrSize
	b[6] = h.flags6
	b[7] = h.flags7
	b[8] = h.flags8
	b[9] = h.flags9
	b[10] = h.flags10
	copy(b[11:], h.unused)

	return b
}

func (h *Header) String() string {
	return fmt.Sprintf("%q, prg(%d), chr(%d), flags(%02x, %02x, %02x, %02x, %02x)", h.constant, h.prgSize, h.chrSize, h.flags6, h.flags7, h.flags8, h.flags9, h.flags10)
}

// PrgBanks returns the number of 16KB PRG banks.
func (h *Header) PrgBanks() int {
	return int(h.prgSize)
}

// ChrBanks returns the number of 8KB CHR banks.
func (h *Header) ChrBanks() int {
	return int(h.chrSize)
}

// Banks returns the number of banks of the given kind.
func (h *Header) Banks(kind BankKind) int {
	switch kind {
	case PRG:
		return h.PrgBanks()
	case CHR:
		return h.ChrBanks()
	}

	return 0
}

// MirroringMode returns an identifier indicating which nametable
// mirroring the cartridge asks for.
// https://www.nesdev.org/wiki/INES#Nametable_Mirroring
func (h *Header) MirroringMode() uint8 {
	if h.flags6&IGNORE_MIRRORING > 0 {
		return MIRROR_FOUR_SCREEN
	}

	return h.flags6 & MIRRORING // 0 = horizonal, 1 = vertical
}

// HasTrainer indicates whether the NES ROM contains a Trainer
func (h *Header) HasTrainer() bool {
	return h.flags6&TRAINER == TRAINER
}

func (h *Header) HasBatteryRAM() bool {
	return h.flags6&BATTERY_BACKED_SRAM > 0
}

func (h *Header) HasPlayChoice() bool {
	return h.flags7&PLAYCHOICE_10 == PLAYCHOICE_10
}

func (h *Header) IsINesFormat() bool {
	return h.constant == MAGIC
}

func (h *Header) IsNES2Format() bool {
	return h.IsINesFormat() && ((h.flags7 & 0x0C) == 0x08)
}

// ignoreHighNibble returns true if we should not use the high 4 bits of
// flags7. Older versions of the iNES emulator ignored bytes 7-15, and
// several ROM management tools wrote messages in there. Commonly,
// these will be filled with "DiskDude!", which results in 64 being
// added to the mapper number. A general rule of thumb: if the last 4
// bytes are not all zero, and the header is not marked for NES 2.0
// format, the upper 4 bits of the mapper number should be masked off.
func (h *Header) ignoreHighNibble() bool {
	if len(h.unused) < 2 {
		return false
	}

	for _, x := range h.unused[1:] {
		if x != 0x00 {
			return !h.IsNES2Format()
		}
	}

	return false
}

// MapperNum returns the mapper number which is constructed of the
// upper 4 bits of flag7 and the upper 4 bits of flag 6.
func (h *Header) MapperNum() uint8 {
	mn := ((h.flags6 & 0xF0) >> 4)
	if h.ignoreHighNibble() {
		return mn
	}
	return (h.flags7 & 0xF0) | mn
}
