package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadKind indicates a header whose kind byte is neither free nor used.
	ErrBadKind = errors.New("format: unknown block kind")
)
