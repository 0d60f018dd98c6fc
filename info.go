package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bdwalton/nesromtool/mappers"
	"github.com/bdwalton/nesromtool/nesrom"
)

type infoCommand struct {
	All bool `short:"a" long:"all" description:"Also show header flags and the title block"`
	fileArgs
}

func init() {
	parser.AddCommand("info", "Show ROM details", "Prints bank counts, mapper and, with --all, the header flags and title of each ROM.", &infoCommand{})
}

var mirroringNames = map[uint8]string{
	nesrom.MIRROR_HORIZONTAL:  "horizontal",
	nesrom.MIRROR_VERTICAL:    "vertical",
	nesrom.MIRROR_FOUR_SCREEN: "four screen",
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printInfo writes a summary of rom to w. With all set it adds the
// header flags and the offset of every bank.
func printInfo(w io.Writer, path string, rom *nesrom.ROM, all bool) error {
	h := rom.Header()

	fmt.Fprintf(w, "%s:\n", path)
	fmt.Fprintf(w, "  Size: %d bytes\n", rom.Size())
	if err := rom.Verify(); err != nil {
		fmt.Fprintf(w, "  Verify: ERROR (%v)\n", err)
	} else {
		fmt.Fprintf(w, "  Verify: OK\n")
	}
	fmt.Fprintf(w, "  PRG banks: %d (%d bytes)\n", h.PrgBanks(), h.PrgBanks()*nesrom.PRG_BLOCK_SIZE)
	fmt.Fprintf(w, "  CHR banks: %d (%d bytes)\n", h.ChrBanks(), h.ChrBanks()*nesrom.CHR_BLOCK_SIZE)
	fmt.Fprintf(w, "  Mapper: %s\n", mappers.Describe(h.MapperNum()))

	title, err := rom.Title(true)
	switch {
	case errors.Is(err, nesrom.ErrNoTitle):
		fmt.Fprintf(w, "  Title: none\n")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "  Title: %q\n", title)
	}

	if !all {
		return nil
	}

	format := "iNES"
	if h.IsNES2Format() {
		format = "NES 2.0"
	}
	fmt.Fprintf(w, "  Format: %s\n", format)
	fmt.Fprintf(w, "  Mirroring: %s\n", mirroringNames[h.MirroringMode()])
	fmt.Fprintf(w, "  Battery RAM: %s\n", yesNo(h.HasBatteryRAM()))
	fmt.Fprintf(w, "  Trainer: %s\n", yesNo(h.HasTrainer()))
	fmt.Fprintf(w, "  PlayChoice-10: %s\n", yesNo(h.HasPlayChoice()))

	for _, kind := range []nesrom.BankKind{nesrom.PRG, nesrom.CHR} {
		if err := printBankOffsets(w, h, kind); err != nil {
			return err
		}
	}

	return nil
}

// printBankOffsets lists where each bank of kind starts. Indexes are
// zero padded once there are more than 9 banks.
func printBankOffsets(w io.Writer, h *nesrom.Header, kind nesrom.BankKind) error {
	count := h.Banks(kind)
	width := 1
	if count > 9 {
		width = 2
	}

	for n := 0; n < count; n++ {
		off, err := nesrom.BankOffset(h, kind, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s bank %0*d offset: 0x%08X\n", kind, width, n, off)
	}
	return nil
}

func (c *infoCommand) Execute(args []string) error {
	return forEachFile(c.Args.Files, func(path string) error {
		return withROM(path, false, func(rom *nesrom.ROM) error {
			return printInfo(os.Stdout, path, rom, c.All)
		})
	})
}
