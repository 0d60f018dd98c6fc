package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bdwalton/nesromtool/ips"
	"github.com/golang/glog"
)

type patchCommand struct{}

type patchApplyCommand struct {
	Patch string `short:"p" long:"patch" required:"yes" description:"IPS patch to apply"`
	Args  struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

type patchCreateCommand struct {
	RLE      bool   `long:"rle" description:"Encode long runs of one byte as RLE records"`
	Original string `long:"original" required:"yes" description:"Unmodified file"`
	Modified string `long:"modified" required:"yes" description:"Modified file"`
	Out      string `long:"out" required:"yes" description:"Patch file to write"`
}

var errVerify = errors.New("patch doesn't reproduce the modified file")

func init() {
	c, err := parser.AddCommand("patch", "Apply or create IPS patches", "", &patchCommand{})
	if err != nil {
		panic(err)
	}
	c.AddCommand("apply", "Apply a patch", "Applies an IPS patch to each file in place. Files are not required to be ROMs.", &patchApplyCommand{})
	c.AddCommand("create", "Create a patch", "Writes an IPS patch that turns the original file into the modified one.", &patchCreateCommand{})
}

func (c *patchApplyCommand) Execute(args []string) error {
	patch, err := os.ReadFile(c.Patch)
	if err != nil {
		return err
	}

	return forEachFile(c.Args.Files, func(path string) error {
		return applyPatch(path, patch)
	})
}

func applyPatch(path string, patch []byte) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	pr, err := ips.NewReader(bytes.NewReader(patch))
	if err != nil {
		return err
	}

	n := 0
	for {
		rec, err := pr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			glog.Warningf("%s: %d records applied before the error", path, n)
			return err
		}

		glog.V(3).Infof("%s: applying %v", path, rec)
		if err := ips.ApplyRecord(f, rec); err != nil {
			return fmt.Errorf("error applying record %d (%v): %w", n, rec, err)
		}
		n++
	}

	if size, ok := pr.Truncate(); ok {
		glog.V(3).Infof("%s: truncating to %d bytes", path, size)
		if err := f.Truncate(size); err != nil {
			return err
		}
	}

	glog.V(1).Infof("%s: applied %d records", path, n)
	return nil
}

func (c *patchCreateCommand) Execute(args []string) error {
	original, err := os.ReadFile(c.Original)
	if err != nil {
		return err
	}
	modified, err := os.ReadFile(c.Modified)
	if err != nil {
		return err
	}

	p, err := ips.Create(original, modified, c.RLE)
	if err != nil {
		return err
	}
	for _, rec := range p.Records {
		glog.V(3).Infof("record %v", rec)
	}
	if p.HasTruncate {
		glog.V(3).Infof("truncate to %d bytes", p.Truncate)
	}

	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return err
	}

	check := ips.NewBuffer(original)
	if _, err := ips.Apply(check, bytes.NewReader(buf.Bytes())); err != nil {
		return err
	}
	if !bytes.Equal(check.Bytes(), modified) {
		return errVerify
	}

	if err := os.WriteFile(c.Out, buf.Bytes(), 0644); err != nil {
		return err
	}

	glog.V(1).Infof("wrote %d records (%d bytes) to %s", len(p.Records), buf.Len(), c.Out)
	return nil
}
