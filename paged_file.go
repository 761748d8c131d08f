package pagesort

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/nyan233/pagesort/internal/sys"
)

// PagedFile views a flat binary file as a sequence of pages of fixed size
// records. At most one page is resident in memory; moving to another page
// writes the resident one back first if it was modified.
//
// The file layout has no header: page i starts at byte i*RecordsPerPage*RecordSize.
type PagedFile struct {
	file *os.File
	path string
	opt  Options
	// size is the file length in bytes, kept in step with every flush.
	size     int64
	page     Page
	pageIdx  int
	dirty    bool
	unsynced bool
}

// OpenPagedFile opens path, creating an empty file when it does not exist,
// and loads its first page.
func OpenPagedFile(path string, opt Options) (*PagedFile, error) {
	if err := opt.normalize(); err != nil {
		return nil, err
	}
	file, err := sys.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open paged file %s: %w", path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat paged file %s: %w", path, err)
	}
	if err = sys.AdviseSequential(file); err != nil {
		opt.Logger.Debug("fadvise fail", "path", path, "err", err)
	}
	f := &PagedFile{
		file:    file,
		path:    path,
		opt:     opt,
		size:    stat.Size(),
		pageIdx: -1,
	}
	if err = f.loadPage(0, true); err != nil {
		_ = file.Close()
		return nil, err
	}
	return f, nil
}

func (f *PagedFile) Path() string {
	return f.path
}

func (f *PagedFile) RecordSize() int {
	return f.opt.RecordSize
}

func (f *PagedFile) RecordsPerPage() int {
	return f.opt.RecordsPerPage
}

// PageSize returns the size of one page in bytes.
func (f *PagedFile) PageSize() int {
	return int(f.opt.pageSize())
}

func (f *PagedFile) Stat() *Stat {
	return f.opt.Stat
}

func (f *PagedFile) pageOffset(pageIdx int) int64 {
	return int64(pageIdx) * f.opt.pageSize()
}

func (f *PagedFile) checkOpen() error {
	if f.file == nil {
		return fmt.Errorf("paged file %s: %w", f.path, ErrClosed)
	}
	return nil
}

// PageCount returns the number of pages, counting a modified resident page
// that has not been written yet.
func (f *PagedFile) PageCount() int {
	records := ceilDiv(f.size, int64(f.opt.RecordSize))
	n := int(ceilDiv(records, int64(f.opt.RecordsPerPage)))
	if f.dirty && f.pageIdx >= n {
		n = f.pageIdx + 1
	}
	return n
}

// RecordCount flushes the resident page and returns the number of record
// slots in the file, written or not.
func (f *PagedFile) RecordCount() (int, error) {
	if err := f.Flush(); err != nil {
		return 0, err
	}
	return int(ceilDiv(f.size, int64(f.opt.RecordSize))), nil
}

func (f *PagedFile) Read(recordIdx int) (Record, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	pageIdx := recordIdx / f.opt.RecordsPerPage
	if recordIdx < 0 || pageIdx >= f.PageCount() {
		return nil, fmt.Errorf("read record %d: beyond file content: %w", recordIdx, ErrOutOfRange)
	}
	if err := f.loadPage(pageIdx, true); err != nil {
		return nil, err
	}
	return slices.Clone(f.page[recordIdx%f.opt.RecordsPerPage]), nil
}

// Write stores r at recordIdx, padded or truncated to RecordSize. The target
// page must exist or be the page right after the last one.
func (f *PagedFile) Write(recordIdx int, r Record) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	pageIdx := recordIdx / f.opt.RecordsPerPage
	if recordIdx < 0 || pageIdx > f.PageCount() {
		return fmt.Errorf("write record %d: not an append: %w", recordIdx, ErrOutOfRange)
	}
	if err := f.loadPage(pageIdx, true); err != nil {
		return err
	}
	f.page[recordIdx%f.opt.RecordsPerPage] = r.Resize(f.opt.RecordSize)
	f.dirty = true
	return nil
}

// ReadPage returns the page at pageIdx, or ok == false when every record of
// the page is empty.
func (f *PagedFile) ReadPage(pageIdx int) (page Page, ok bool, err error) {
	page, err = f.fullPage(pageIdx)
	if err != nil {
		return nil, false, err
	}
	if page.IsEmpty() {
		return nil, false, nil
	}
	return page, true, nil
}

// fullPage returns the page at pageIdx including its empty slots.
func (f *PagedFile) fullPage(pageIdx int) (Page, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	if pageIdx < 0 || pageIdx >= f.PageCount() {
		return nil, fmt.Errorf("read page %d: beyond file content: %w", pageIdx, ErrOutOfRange)
	}
	if err := f.loadPage(pageIdx, true); err != nil {
		return nil, err
	}
	return slices.Clone(f.page), nil
}

// WritePage replaces the page at pageIdx with records, normalized to exactly
// RecordsPerPage records of RecordSize bytes. The old content is not read.
func (f *PagedFile) WritePage(pageIdx int, records []Record) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if pageIdx < 0 || pageIdx > f.PageCount() {
		return fmt.Errorf("write page %d: not an append: %w", pageIdx, ErrOutOfRange)
	}
	if err := f.loadPage(pageIdx, false); err != nil {
		return err
	}
	f.page = normalizePage(records, f.opt.RecordSize, f.opt.RecordsPerPage)
	f.dirty = true
	return nil
}

// Flush writes the resident page if it was modified, growing the file with
// zeros when the page lies past its end.
func (f *PagedFile) Flush() error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if !f.dirty {
		return nil
	}
	off := f.pageOffset(f.pageIdx)
	if off > f.size {
		if err := f.file.Truncate(off); err != nil {
			return fmt.Errorf("extend %s to %d bytes: %w", f.path, off, err)
		}
		f.size = off
	}
	buf := f.page.encode(f.opt.RecordSize)
	if _, err := f.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("write page %d of %s: %w", f.pageIdx, f.path, err)
	}
	f.opt.Stat.pageWrites.Add(1)
	if end := off + int64(len(buf)); end > f.size {
		f.size = end
	}
	f.dirty = false
	f.unsynced = true
	return nil
}

// loadPage makes pageIdx the resident page. The page is read from disk only
// when read is set and the page has bytes on disk.
func (f *PagedFile) loadPage(pageIdx int, read bool) error {
	if pageIdx == f.pageIdx {
		return nil
	}
	if err := f.Flush(); err != nil {
		return err
	}
	buf := make([]byte, f.opt.pageSize())
	off := f.pageOffset(pageIdx)
	if read && off < f.size {
		_, err := f.file.ReadAt(buf, off)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read page %d of %s: %w", pageIdx, f.path, err)
		}
		f.opt.Stat.pageReads.Add(1)
	}
	f.page = decodePage(buf, f.opt.RecordSize, f.opt.RecordsPerPage)
	f.pageIdx = pageIdx
	return nil
}

// evict writes back and drops the resident page, so the next access of any
// page goes to disk.
func (f *PagedFile) evict() error {
	if err := f.Flush(); err != nil {
		return err
	}
	f.page = nil
	f.pageIdx = -1
	return nil
}

// Cursor returns a cursor at pageIdx.
func (f *PagedFile) Cursor(pageIdx int) PageCursor {
	return PageCursor{file: f, index: pageIdx}
}

// Pages returns the range of every page currently in the file.
func (f *PagedFile) Pages() PageRange {
	return PageRange{
		begin: f.Cursor(0),
		end:   f.Cursor(f.PageCount()),
	}
}

// CopyFrom overwrites f page by page with the content of src and cuts off
// any page of f past the end of src.
func (f *PagedFile) CopyFrom(src *PagedFile) error {
	if src.opt.RecordSize != f.opt.RecordSize || src.opt.RecordsPerPage != f.opt.RecordsPerPage {
		return fmt.Errorf("copy %s into %s: page geometry differs: %w", src.path, f.path, ErrInvalidConfig)
	}
	if err := src.evict(); err != nil {
		return err
	}
	n := src.PageCount()
	for i := 0; i < n; i++ {
		page, err := src.fullPage(i)
		if err != nil {
			return err
		}
		if err = f.WritePage(i, page); err != nil {
			return err
		}
	}
	if err := f.Flush(); err != nil {
		return err
	}
	if want := f.pageOffset(n); f.size > want {
		if err := f.evict(); err != nil {
			return err
		}
		if err := f.file.Truncate(want); err != nil {
			return fmt.Errorf("truncate %s to %d bytes: %w", f.path, want, err)
		}
		f.size = want
		f.unsynced = true
	}
	return nil
}

// Sync flushes the resident page and commits the file data to stable storage.
func (f *PagedFile) Sync() error {
	if err := f.Flush(); err != nil {
		return err
	}
	if !f.unsynced {
		return nil
	}
	if err := sys.Datasync(f.file); err != nil {
		return fmt.Errorf("sync %s: %w", f.path, err)
	}
	f.unsynced = false
	return nil
}

// Close flushes and syncs the file, then releases its handle.
func (f *PagedFile) Close() error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	syncErr := f.Sync()
	closeErr := f.file.Close()
	f.file = nil
	f.page = nil
	return errors.Join(syncErr, closeErr)
}

// discard closes the handle without writing the resident page back.
func (f *PagedFile) discard() error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	err := f.file.Close()
	f.file = nil
	f.page = nil
	f.dirty = false
	return err
}
