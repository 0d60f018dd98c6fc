package main

import (
	"fmt"
	"os"

	"github.com/bdwalton/nesromtool/nesrom"
	"github.com/golang/glog"
)

type titleCommand struct{}

type titlePrintCommand struct {
	Strip bool `short:"s" long:"strip" description:"Cut the title at the first unprintable byte"`
	fileArgs
}

type titleSetCommand struct {
	Title string `short:"t" long:"title" required:"yes" description:"Title to store, at most 128 bytes"`
	fileArgs
}

type titleRemoveCommand struct {
	fileArgs
}

func init() {
	c, err := parser.AddCommand("title", "Manage the title block", "Prints, sets or removes the 128 byte title block stored after the last bank.", &titleCommand{})
	if err != nil {
		panic(err)
	}
	c.AddCommand("print", "Print the title", "", &titlePrintCommand{})
	c.AddCommand("set", "Set the title", "", &titleSetCommand{})
	c.AddCommand("remove", "Remove the title", "", &titleRemoveCommand{})
}

func (c *titlePrintCommand) Execute(args []string) error {
	return forEachFile(c.Args.Files, func(path string) error {
		return withROM(path, false, func(rom *nesrom.ROM) error {
			title, err := rom.Title(c.Strip)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s: %s\n", path, title)
			return nil
		})
	})
}

func (c *titleSetCommand) Execute(args []string) error {
	return forEachFile(c.Args.Files, func(path string) error {
		return withROM(path, true, func(rom *nesrom.ROM) error {
			if err := rom.SetTitle(c.Title); err != nil {
				return err
			}
			glog.V(1).Infof("%s: title set to %q", path, c.Title)
			return nil
		})
	})
}

func (c *titleRemoveCommand) Execute(args []string) error {
	return forEachFile(c.Args.Files, func(path string) error {
		return withROM(path, true, func(rom *nesrom.ROM) error {
			if !rom.HasTitle() {
				glog.V(1).Infof("%s: no title to remove", path)
				return nil
			}
			if err := rom.RemoveTitle(); err != nil {
				return err
			}
			glog.V(1).Infof("%s: title removed", path)
			return nil
		})
	})
}
