// nesromtool inspects and edits iNES ROM images: it reports header
// details, manages the optional title block, extracts and injects banks
// and tiles, and applies and creates IPS patches.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/bdwalton/nesromtool/nesrom"
	"github.com/golang/glog"
	"github.com/jessevdk/go-flags"
)

var version = "dev"

type globalOptions struct {
	Verbose []bool `short:"v" long:"verbose" description:"Log more detail, repeat for more (-vvv traces every read and write)"`
	Version bool   `long:"version" description:"Print the version and exit"`
}

var (
	opts   globalOptions
	parser = flags.NewParser(&opts, flags.Default)
)

// fileArgs is embedded by commands that operate on one or more ROMs.
type fileArgs struct {
	Args struct {
		Files []string `positional-arg-name:"ROM" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

// setupLogging points glog at stderr and maps the count of -v flags to
// its verbosity level.
func setupLogging() {
	flag.Set("logtostderr", "true")
	flag.Set("v", strconv.Itoa(len(opts.Verbose)))
	// glog complains about logging before flag.Parse otherwise.
	flag.CommandLine.Parse(nil)
}

func init() {
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLogging()
		if opts.Version || cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}
}

func main() {
	_, err := parser.Parse()
	defer glog.Flush()

	if err != nil {
		if w, ok := err.(*flags.Error); ok && w.Type == flags.ErrHelp {
			return
		}
		glog.Flush()
		os.Exit(1)
	}

	switch {
	case opts.Version:
		fmt.Printf("nesromtool %s\n", version)
	case parser.Active == nil:
		parser.WriteHelp(os.Stderr)
		glog.Flush()
		os.Exit(1)
	}
}

// openROM opens the ROM image at path, read-write when write is set.
// The caller must close the returned file.
func openROM(path string, write bool) (*nesrom.ROM, *os.File, error) {
	mode := os.O_RDONLY
	if write {
		mode = os.O_RDWR
	}

	f, err := os.OpenFile(path, mode, 0)
	if err != nil {
		return nil, nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	rom, err := nesrom.New(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if err := rom.Verify(); err != nil {
		glog.Warningf("%s: %v", path, err)
	}

	glog.V(1).Infof("%s: %v", path, rom.Header())

	return rom, f, nil
}

// forEachFile calls fn for every file in turn. A failing file is logged
// and skipped; the returned error reports how many failed.
func forEachFile(files []string, fn func(string) error) error {
	failed := 0
	for _, path := range files {
		if err := fn(path); err != nil {
			glog.Errorf("%s: %v", path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// withROM opens path, runs fn against it and closes it again, keeping
// the first error.
func withROM(path string, write bool, fn func(*nesrom.ROM) error) (err error) {
	rom, f, err := openROM(path, write)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(rom)
}

// traceBank logs where bank n of kind sits in rom.
func traceBank(op string, rom *nesrom.ROM, kind nesrom.BankKind, n int) {
	if !glog.V(3) {
		return
	}
	if off, err := nesrom.BankOffset(rom.Header(), kind, n); err == nil {
		glog.Infof("%s %s bank %d at 0x%08x", op, kind, n, off)
	}
}

// traceTiles logs where count tiles from start of bank n sit in rom.
func traceTiles(op string, rom *nesrom.ROM, kind nesrom.BankKind, n, start, count int) {
	if !glog.V(3) {
		return
	}
	if off, err := nesrom.TileBankOffset(rom.Header(), kind, n, start); err == nil {
		glog.Infof("%s %d tiles of %s bank %d at 0x%08x", op, count, kind, n, off)
	}
}
