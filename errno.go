package pagesort

import "errors"

var (
	// ErrOutOfRange is returned when a record or page index addresses past the
	// current file content and is not a valid append target.
	ErrOutOfRange = errors.New("index out of range")
	// ErrClosed is returned by operations on a closed file or run writer.
	ErrClosed        = errors.New("already closed")
	ErrInvalidConfig = errors.New("invalid config")
)
