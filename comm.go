package pagesort

import (
	"fmt"
	"log/slog"
)

const (
	DefaultRecordSize     = 30
	DefaultRecordsPerPage = 10
	DefaultBufferCount    = 5

	minBufferCount = 3
)

// Options configure a PagedFile. Zero values select the defaults.
type Options struct {
	// RecordSize is the fixed size of a record in bytes.
	RecordSize int
	// RecordsPerPage is the blocking factor B.
	RecordsPerPage int
	// Stat receives the physical page I/O counters. A private one is used when nil.
	Stat   *Stat
	Logger *slog.Logger
}

func (o *Options) normalize() error {
	if o.RecordSize == 0 {
		o.RecordSize = DefaultRecordSize
	}
	if o.RecordsPerPage == 0 {
		o.RecordsPerPage = DefaultRecordsPerPage
	}
	if o.RecordSize < 0 {
		return fmt.Errorf("record size %d: %w", o.RecordSize, ErrInvalidConfig)
	}
	if o.RecordsPerPage < 0 {
		return fmt.Errorf("records per page %d: %w", o.RecordsPerPage, ErrInvalidConfig)
	}
	if o.Stat == nil {
		o.Stat = new(Stat)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

func (o *Options) pageSize() int64 {
	return int64(o.RecordSize) * int64(o.RecordsPerPage)
}
