package main

import (
	"fmt"
	"os"

	"github.com/bdwalton/nesromtool/nesrom"
	"github.com/bdwalton/nesromtool/tile"
	"github.com/golang/glog"
)

type romArg struct {
	Args struct {
		ROM string `positional-arg-name:"ROM"`
	} `positional-args:"yes" required:"yes"`
}

// tileOptions are shared by tile extraction and injection.
type tileOptions struct {
	BankType string `short:"t" long:"bank-type" choice:"prg" choice:"chr" default:"chr" description:"Bank region holding the tiles"`
	Bank     int    `short:"b" long:"bank" default:"0" description:"Bank index, from 0"`
	Start    int    `short:"s" long:"start" default:"0" description:"First tile in the bank, from 0"`
	Format   string `short:"f" long:"format" choice:"native" choice:"raw" choice:"html" default:"raw" description:"Tile file format"`
	Columns  int    `short:"c" long:"columns" default:"0" description:"Mosaic width in tiles (0 lays every tile in one row when extracting)"`
	Order    string `short:"o" long:"order" choice:"h" choice:"v" default:"h" description:"Fill the mosaic by rows (h) or columns (v)"`
}

func (o *tileOptions) parse() (nesrom.BankKind, tile.Format, tile.Order, error) {
	kind, err := nesrom.ParseBankKind(o.BankType)
	if err != nil {
		return 0, 0, 0, err
	}
	f, err := tile.ParseFormat(o.Format)
	if err != nil {
		return 0, 0, 0, err
	}
	order, err := tile.ParseOrder(o.Order)
	if err != nil {
		return 0, 0, 0, err
	}
	return kind, f, order, nil
}

type extractCommand struct{}

type extractTileCommand struct {
	tileOptions
	End int    `short:"e" long:"end" default:"-1" description:"Last tile, inclusive (defaults to --start)"`
	Out string `long:"out" required:"yes" description:"File to write the tiles to"`
	romArg
}

type extractBankCommand struct {
	kind nesrom.BankKind
	Bank int    `short:"b" long:"bank" default:"0" description:"Bank index, from 0"`
	All  bool   `short:"a" long:"all" description:"Extract every bank, naming files OUT.<index>"`
	Out  string `long:"out" required:"yes" description:"File (or prefix with --all) to write to"`
	romArg
}

func init() {
	c, err := parser.AddCommand("extract", "Extract banks or tiles", "Copies PRG banks, CHR banks or tiles out of a ROM.", &extractCommand{})
	if err != nil {
		panic(err)
	}
	c.AddCommand("tile", "Extract tiles", "Extracts a range of tiles, converting them to the chosen format.", &extractTileCommand{})
	c.AddCommand("prg", "Extract PRG banks", "", &extractBankCommand{kind: nesrom.PRG})
	c.AddCommand("chr", "Extract CHR banks", "", &extractBankCommand{kind: nesrom.CHR})
}

func (c *extractTileCommand) Execute(args []string) error {
	kind, f, order, err := c.parse()
	if err != nil {
		return err
	}

	end := c.End
	if end < 0 {
		end = c.Start
	}
	if end < c.Start {
		return fmt.Errorf("%w: end tile %d is before start tile %d", nesrom.ErrOutOfRange, end, c.Start)
	}
	count := end - c.Start + 1

	columns := c.Columns
	if columns == 0 {
		columns = count
	}

	return withROM(c.Args.ROM, false, func(rom *nesrom.ROM) error {
		traceTiles("reading", rom, kind, c.Bank, c.Start, count)
		native, err := rom.ReadTiles(kind, c.Bank, c.Start, count)
		if err != nil {
			return err
		}

		out, err := os.Create(c.Out)
		if err != nil {
			return err
		}
		if err := tile.Write(out, native, f, columns, order); err != nil {
			out.Close()
			return err
		}

		glog.V(1).Infof("wrote %d %s tiles from %s bank %d to %s", count, f, kind, c.Bank, c.Out)
		return out.Close()
	})
}

func (c *extractBankCommand) Execute(args []string) error {
	return withROM(c.Args.ROM, false, func(rom *nesrom.ROM) error {
		if !c.All {
			return c.extract(rom, c.Bank, c.Out)
		}

		for n := 0; n < rom.Header().Banks(c.kind); n++ {
			if err := c.extract(rom, n, fmt.Sprintf("%s.%d", c.Out, n)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *extractBankCommand) extract(rom *nesrom.ROM, n int, path string) error {
	traceBank("reading", rom, c.kind, n)
	data, err := rom.ReadBank(c.kind, n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	glog.V(1).Infof("wrote %s bank %d to %s", c.kind, n, path)
	return nil
}
