package tile

import "fmt"

// Order is the sequence in which tiles fill a mosaic.
//
//	Horizontal:  0 1    Vertical:  0 2
//	             2 3               1 3
type Order int

const (
	Horizontal Order = iota // row-major
	Vertical                // column-major
)

func (o Order) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder accepts "h", "horizontal", "v" and "vertical".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown tile order %q", s)
}

// index returns which tile of the linear sequence sits at (row, col)
// of a rows x cols mosaic.
func (o Order) index(row, col, rows, cols int) int {
	if o == Vertical {
		return row + col*rows
	}
	return row*cols + col
}

// grid validates a tile count against a column count and returns the
// number of rows.
func grid(count, columns int) (int, error) {
	if columns < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidColumnCount, columns)
	}
	if count%columns != 0 {
		return 0, fmt.Errorf("%w: %d tiles don't divide into %d columns", ErrInvalidColumnCount, count, columns)
	}
	return count / columns, nil
}

// Assemble lays out a run of composite tiles as one raster that is
// columns*Width pixels wide, one byte per pixel.
func Assemble(composite []byte, columns int, order Order) ([]byte, error) {
	if len(composite)%CompositeSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(composite), CompositeSize)
	}

	count := len(composite) / CompositeSize
	rows, err := grid(count, columns)
	if err != nil {
		return nil, err
	}

	stride := columns * Width
	raster := make([]byte, len(composite))
	for row := 0; row < rows; row++ {
		for y := 0; y < Height; y++ {
			for col := 0; col < columns; col++ {
				t := order.index(row, col, rows, columns)
				src := t*CompositeSize + y*Width
				dst := (row*Height+y)*stride + col*Width
				copy(raster[dst:dst+Width], composite[src:src+Width])
			}
		}
	}

	return raster, nil
}

// Disassemble is the inverse of Assemble: it cuts a raster that is
// columns tiles wide back into a run of composite tiles.
func Disassemble(raster []byte, columns int, order Order) ([]byte, error) {
	if len(raster)%CompositeSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(raster), CompositeSize)
	}

	count := len(raster) / CompositeSize
	rows, err := grid(count, columns)
	if err != nil {
		return nil, err
	}

	stride := columns * Width
	composite := make([]byte, len(raster))
	for row := 0; row < rows; row++ {
		for y := 0; y < Height; y++ {
			for col := 0; col < columns; col++ {
				t := order.index(row, col, rows, columns)
				dst := t*CompositeSize + y*Width
				src := (row*Height+y)*stride + col*Width
				copy(composite[dst:dst+Width], raster[src:src+Width])
			}
		}
	}

	return composite, nil
}
