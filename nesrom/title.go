package nesrom

import (
	"bytes"
	"fmt"
)

// HasTitle reports whether the image looks like it carries a title
// block. See the package level HasTitle for the caveats.
func (r *ROM) HasTitle() bool {
	return HasTitle(r.h, r.size)
}

// Title returns the title stored after the last bank, up to the first
// NUL. With strip set, the title is also cut at the first byte outside
// printable ASCII.
func (r *ROM) Title(strip bool) (string, error) {
	if !r.HasTitle() {
		return "", ErrNoTitle
	}

	off := TitleBlockOffset(r.h)
	n := r.size - off
	if n > TITLE_BLOCK_SIZE {
		n = TITLE_BLOCK_SIZE
	}

	buf := make([]byte, n)
	if err := readFull(r.s, buf, off); err != nil {
		return "", fmt.Errorf("error reading title: %w", err)
	}

	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}

	if strip {
		for i, c := range buf {
			if c < 32 || c > 126 {
				buf = buf[:i]
				break
			}
		}
	}

	return string(buf), nil
}

// SetTitle writes a NUL padded title block after the last bank,
// replacing any existing one. The image must hold every bank.
func (r *ROM) SetTitle(title string) error {
	if len(title) > TITLE_BLOCK_SIZE {
		return fmt.Errorf("%w: %d bytes, max %d", ErrTitleTooLong, len(title), TITLE_BLOCK_SIZE)
	}

	off := TitleBlockOffset(r.h)
	if r.size < off {
		return fmt.Errorf("%w: image is %d bytes, title goes at %d", ErrInvalidLength, r.size, off)
	}

	block := make([]byte, TITLE_BLOCK_SIZE)
	copy(block, title)

	return r.write(block, off)
}

// RemoveTitle truncates the image just past the last bank. It is a
// no-op for images without a title block.
func (r *ROM) RemoveTitle() error {
	if !r.HasTitle() {
		return nil
	}

	t, ok := r.s.(Truncater)
	if !ok {
		return ErrTruncateUnsupported
	}

	off := TitleBlockOffset(r.h)
	if err := t.Truncate(off); err != nil {
		return fmt.Errorf("error removing title: %w", err)
	}
	r.size = off

	return nil
}
