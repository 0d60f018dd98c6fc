/*
Package tile converts NES pattern table tiles between their native
planar encoding and a one-byte-per-pixel composite form, and lays
sequences of tiles out as a single raster.

A native tile is 16 bytes: eight bytes of bit plane A (bit 0 of each
pixel) followed by eight bytes of bit plane B (bit 1). Each plane byte
holds one row, most significant bit leftmost. A composite tile is 64
bytes, one per pixel, each holding a colour index 0-3.
*/
package tile

import (
	"errors"
	"fmt"
)

const (
	Width         = 8
	Height        = 8
	PlaneSize     = Height
	NativeSize    = 2 * PlaneSize
	CompositeSize = Width * Height
	MaxPixel      = 3
)

var (
	ErrInvalidLength      = errors.New("invalid tile data length")
	ErrPixelOutOfRange    = errors.New("composite pixel out of range")
	ErrInvalidColumnCount = errors.New("invalid column count")
	ErrUnsupportedFormat  = errors.New("unsupported format")
)

// DecodeTile converts one native tile to composite form.
func DecodeTile(native []byte) ([]byte, error) {
	if len(native) != NativeSize {
		return nil, fmt.Errorf("%w: native tile is %d bytes, got %d", ErrInvalidLength, NativeSize, len(native))
	}

	c := make([]byte, CompositeSize)
	decode(c, native)
	return c, nil
}

// EncodeTile converts one composite tile to native form.
func EncodeTile(composite []byte) ([]byte, error) {
	if len(composite) != CompositeSize {
		return nil, fmt.Errorf("%w: composite tile is %d bytes, got %d", ErrInvalidLength, CompositeSize, len(composite))
	}

	n := make([]byte, NativeSize)
	if err := encode(n, composite); err != nil {
		return nil, err
	}
	return n, nil
}

// DecodeTiles converts a run of native tiles into a run of composite
// tiles of the same count.
func DecodeTiles(native []byte) ([]byte, error) {
	if len(native)%NativeSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(native), NativeSize)
	}

	count := len(native) / NativeSize
	c := make([]byte, count*CompositeSize)
	for t := 0; t < count; t++ {
		decode(c[t*CompositeSize:(t+1)*CompositeSize], native[t*NativeSize:(t+1)*NativeSize])
	}

	return c, nil
}

// EncodeTiles converts a run of composite tiles into native tiles.
func EncodeTiles(composite []byte) ([]byte, error) {
	if len(composite)%CompositeSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(composite), CompositeSize)
	}

	count := len(composite) / CompositeSize
	n := make([]byte, count*NativeSize)
	for t := 0; t < count; t++ {
		if err := encode(n[t*NativeSize:(t+1)*NativeSize], composite[t*CompositeSize:(t+1)*CompositeSize]); err != nil {
			return nil, fmt.Errorf("tile %d: %w", t, err)
		}
	}

	return n, nil
}

// decode expands the two planes of native into composite.
func decode(composite, native []byte) {
	for i := 0; i < PlaneSize; i++ {
		a, b := native[i], native[i+PlaneSize]
		for bit := 7; bit >= 0; bit-- {
			composite[i*Width+(7-bit)] = combineBits(a, b, uint(bit))
		}
	}
}

// combineBits builds a pixel from bit n of each plane.
func combineBits(a, b byte, n uint) byte {
	return (a>>n)&1 | ((b>>n)&1)<<1
}

// encode packs composite rows back into the two planes, first pixel
// into the most significant bit.
func encode(native, composite []byte) error {
	for row := 0; row < Height; row++ {
		var a, b byte
		for x := 0; x < Width; x++ {
			p := composite[row*Width+x]
			if p > MaxPixel {
				return fmt.Errorf("%w: pixel (%d, %d) = %d", ErrPixelOutOfRange, x, row, p)
			}
			a = a<<1 | p&1
			b = b<<1 | (p>>1)&1
		}
		native[row] = a
		native[row+PlaneSize] = b
	}

	return nil
}
