package pagesort

// PageCursor addresses one page of a PagedFile. It is a plain value: moving it
// never touches the file, and its accessors act on the page it points at when
// they are called.
type PageCursor struct {
	file  *PagedFile
	index int
}

func (c PageCursor) File() *PagedFile {
	return c.file
}

func (c PageCursor) Index() int {
	return c.index
}

func (c PageCursor) Next() PageCursor {
	return c.Add(1)
}

func (c PageCursor) Prev() PageCursor {
	return c.Add(-1)
}

func (c PageCursor) Add(n int) PageCursor {
	c.index += n
	return c
}

func (c PageCursor) Sub(n int) PageCursor {
	c.index -= n
	return c
}

// Distance returns the number of pages from other to c.
func (c PageCursor) Distance(other PageCursor) int {
	return c.index - other.index
}

func (c PageCursor) Equal(other PageCursor) bool {
	return c.file == other.file && c.index == other.index
}

func (c PageCursor) Before(other PageCursor) bool {
	return c.file == other.file && c.index < other.index
}

// Load reads the page, with ok == false for a page of empty records.
func (c PageCursor) Load() (page Page, ok bool, err error) {
	return c.file.ReadPage(c.index)
}

// Page reads the page including its empty slots.
func (c PageCursor) Page() (Page, error) {
	return c.file.fullPage(c.index)
}

// Record reads the i-th record of the page.
func (c PageCursor) Record(i int) (Record, error) {
	return c.file.Read(c.index*c.file.RecordsPerPage() + i)
}

// Store replaces the page with records.
func (c PageCursor) Store(records []Record) error {
	return c.file.WritePage(c.index, records)
}

// PageRange is the half open range of pages [begin, end) of one file.
type PageRange struct {
	begin PageCursor
	end   PageCursor
}

// NewPageRange returns [begin, end). An end before begin yields an empty range.
func NewPageRange(begin, end PageCursor) PageRange {
	if end.index < begin.index {
		end = begin
	}
	return PageRange{begin: begin, end: end}
}

func (r PageRange) Begin() PageCursor {
	return r.begin
}

// End returns the cursor one past the last page of the range.
func (r PageRange) End() PageCursor {
	return r.end
}

func (r PageRange) Len() int {
	return r.end.Distance(r.begin)
}

func (r PageRange) Empty() bool {
	return r.Len() <= 0
}

// Cursor returns the cursor at the i-th page of the range.
func (r PageRange) Cursor(i int) PageCursor {
	return r.begin.Add(i)
}

// SplitFront cuts the first n pages off r. Fewer are taken when r is shorter.
func (r PageRange) SplitFront(n int) (head, rest PageRange) {
	n = max(0, min(n, r.Len()))
	mid := r.begin.Add(n)
	return PageRange{begin: r.begin, end: mid}, PageRange{begin: mid, end: r.end}
}
