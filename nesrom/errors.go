package nesrom

import "errors"

var (
	ErrOutOfRange          = errors.New("index out of range")
	ErrInvalidLength       = errors.New("invalid data length")
	ErrBadMagic            = errors.New("not an iNES ROM")
	ErrShortHeader         = errors.New("short header")
	ErrTitleTooLong        = errors.New("title too long")
	ErrNoTitle             = errors.New("no title block")
	ErrTruncateUnsupported = errors.New("store can't be truncated")
)
