package tile

import (
	"fmt"
	"html/template"
	"io"
)

// Format selects how extracted tiles are written out.
type Format int

const (
	Native Format = iota // planar bytes, exactly as stored in the ROM
	Raw                  // composite raster, one byte (0-3) per pixel
	HTML                 // a table of coloured cells, for eyeballing
)

func (f Format) String() string {
	switch f {
	case Native:
		return "native"
	case Raw:
		return "raw"
	case HTML:
		return "html"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts the names returned by Format.String.
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{Native, Raw, HTML} {
		if s == f.String() {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// htmlColors maps composite pixel values to cell colours.
var htmlColors = [MaxPixel + 1]string{"black", "red", "yellow", "blue"}

var htmlTmpl = template.Must(template.New("tiles").Parse(`<table cellpadding="0" cellspacing="0">
{{range .}}<tr>{{range .}}<td bgcolor="{{.}}">&nbsp;</td>{{end}}</tr>
{{end}}</table>
`))

// Write converts native tile data to format f and writes it to w. Raw
// and HTML output is laid out as a mosaic columns tiles wide.
func Write(w io.Writer, native []byte, f Format, columns int, order Order) error {
	if f == Native {
		if len(native)%NativeSize != 0 {
			return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(native), NativeSize)
		}
		_, err := w.Write(native)
		return err
	}

	composite, err := DecodeTiles(native)
	if err != nil {
		return err
	}
	raster, err := Assemble(composite, columns, order)
	if err != nil {
		return err
	}

	switch f {
	case Raw:
		_, err = w.Write(raster)
		return err
	case HTML:
		return htmlTmpl.Execute(w, htmlRows(raster, columns*Width))
	}

	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

func htmlRows(raster []byte, width int) [][]string {
	var rows [][]string
	for y := 0; y*width < len(raster); y++ {
		row := make([]string, width)
		for x, p := range raster[y*width : (y+1)*width] {
			row[x] = htmlColors[p&MaxPixel]
		}
		rows = append(rows, row)
	}
	return rows
}

// Read reads tile data written in format f and returns it as native
// tiles, ready to be injected into a ROM. HTML can't be read back.
func Read(r io.Reader, f Format, columns int, order Order) ([]byte, error) {
	if f != Native && f != Raw {
		return nil, fmt.Errorf("%w: can't read %v", ErrUnsupportedFormat, f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if f == Native {
		if len(data)%NativeSize != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(data), NativeSize)
		}
		return data, nil
	}

	composite, err := Disassemble(data, columns, order)
	if err != nil {
		return nil, err
	}
	return EncodeTiles(composite)
}
