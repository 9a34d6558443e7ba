package binio

import "errors"

var (
	ErrTruncatedInput      = errors.New("binio: truncated input")
	ErrUnsupportedEncoding = errors.New("binio: unsupported text encoding")
	ErrIndexOverflow       = errors.New("binio: index out of range for its width")
	ErrInvalidLength       = errors.New("binio: invalid length prefix")
)
