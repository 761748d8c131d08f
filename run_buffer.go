package pagesort

import "fmt"

// SequentialReader is a randomly indexable, finite sequence of records.
type SequentialReader interface {
	Len() int
	At(i int) (Record, error)
}

// SequentialWriter accumulates records in order.
type SequentialWriter interface {
	Append(r Record) error
	Flush() error
}

var (
	_ SequentialReader = new(RunReader)
	_ SequentialReader = recordSlice(nil)
	_ SequentialWriter = new(RunWriter)
)

// RunReader reads the records of a page range lazily, keeping one page of
// its own in memory. Its length is the number of record slots of the range,
// empty ones included.
type RunReader struct {
	pages   PageRange
	perPage int
	size    int
	page    Page
	pageOff int
}

func NewRunReader(pages PageRange) *RunReader {
	r := &RunReader{
		pages:   pages,
		pageOff: -1,
	}
	if !pages.Empty() {
		r.perPage = pages.Begin().File().RecordsPerPage()
		r.size = pages.Len() * r.perPage
	}
	return r
}

func (r *RunReader) Len() int {
	return r.size
}

func (r *RunReader) Empty() bool {
	return r.size == 0
}

func (r *RunReader) At(i int) (Record, error) {
	if i < 0 || i >= r.size {
		return nil, fmt.Errorf("run record %d of %d: %w", i, r.size, ErrOutOfRange)
	}
	off := i / r.perPage
	if off != r.pageOff {
		page, err := r.pages.Cursor(off).Page()
		if err != nil {
			return nil, err
		}
		r.page = page
		r.pageOff = off
	}
	return r.page[i%r.perPage], nil
}

// RunWriter appends records to consecutive pages starting at a cursor. A page
// is written as soon as it is full; Flush writes a partial page padded with
// empty records.
type RunWriter struct {
	out     PageCursor
	perPage int
	page    []Record
	written int
	closed  bool
}

func NewRunWriter(at PageCursor) *RunWriter {
	perPage := at.File().RecordsPerPage()
	return &RunWriter{
		out:     at,
		perPage: perPage,
		page:    make([]Record, 0, perPage),
	}
}

func (w *RunWriter) Append(r Record) error {
	if w.closed {
		return fmt.Errorf("append to run at page %d: %w", w.out.Index(), ErrClosed)
	}
	w.page = append(w.page, r)
	w.written++
	if len(w.page) == w.perPage {
		return w.Flush()
	}
	return nil
}

func (w *RunWriter) Flush() error {
	if len(w.page) == 0 {
		return nil
	}
	if err := w.out.Store(w.page); err != nil {
		return err
	}
	w.out = w.out.Next()
	w.page = w.page[:0]
	return nil
}

// Close flushes the pending records. Appending afterwards fails with ErrClosed.
func (w *RunWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.Flush()
}

// Cursor returns the page the next flush writes to.
func (w *RunWriter) Cursor() PageCursor {
	return w.out
}

// Written returns the number of records appended so far.
func (w *RunWriter) Written() int {
	return w.written
}

// recordSlice serves an in-memory vector of records as a SequentialReader.
type recordSlice []Record

func (s recordSlice) Len() int {
	return len(s)
}

func (s recordSlice) At(i int) (Record, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("record %d of %d: %w", i, len(s), ErrOutOfRange)
	}
	return s[i], nil
}
