package main

import (
	"os"

	"github.com/bdwalton/nesromtool/nesrom"
	"github.com/bdwalton/nesromtool/tile"
	"github.com/golang/glog"
)

type injectCommand struct{}

type injectTileCommand struct {
	tileOptions
	In string `long:"in" required:"yes" description:"Tile file to read (native or raw)"`
	romArg
}

type injectBankCommand struct {
	kind nesrom.BankKind
	Bank int    `short:"b" long:"bank" default:"0" description:"Bank index, from 0"`
	In   string `long:"in" required:"yes" description:"File holding exactly one bank"`
	romArg
}

func init() {
	c, err := parser.AddCommand("inject", "Inject banks or tiles", "Overwrites PRG banks, CHR banks or tiles of a ROM in place.", &injectCommand{})
	if err != nil {
		panic(err)
	}
	c.AddCommand("tile", "Inject tiles", "Reads tiles in the chosen format and writes them into a bank, starting at --start. Raw input needs --columns.", &injectTileCommand{})
	c.AddCommand("prg", "Inject a PRG bank", "", &injectBankCommand{kind: nesrom.PRG})
	c.AddCommand("chr", "Inject a CHR bank", "", &injectBankCommand{kind: nesrom.CHR})
}

func (c *injectTileCommand) Execute(args []string) error {
	kind, f, order, err := c.parse()
	if err != nil {
		return err
	}

	in, err := os.Open(c.In)
	if err != nil {
		return err
	}
	defer in.Close()

	native, err := tile.Read(in, f, c.Columns, order)
	if err != nil {
		return err
	}

	return withROM(c.Args.ROM, true, func(rom *nesrom.ROM) error {
		traceTiles("writing", rom, kind, c.Bank, c.Start, len(native)/tile.NativeSize)
		if err := rom.WriteTiles(kind, c.Bank, c.Start, native); err != nil {
			return err
		}
		glog.V(1).Infof("injected %d tiles into %s bank %d at tile %d", len(native)/tile.NativeSize, kind, c.Bank, c.Start)
		return nil
	})
}

func (c *injectBankCommand) Execute(args []string) error {
	data, err := os.ReadFile(c.In)
	if err != nil {
		return err
	}

	return withROM(c.Args.ROM, true, func(rom *nesrom.ROM) error {
		traceBank("writing", rom, c.kind, c.Bank)
		if err := rom.WriteBank(c.kind, c.Bank, data); err != nil {
			return err
		}
		glog.V(1).Infof("injected %s into %s bank %d", c.In, c.kind, c.Bank)
		return nil
	})
}
