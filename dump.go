package pagesort

import (
	"bufio"
	"fmt"
	"io"
)

// Dump writes a human readable listing of every page of f to w. It reads
// through the page cache, so the reads show up in the file's Stat.
func (f *PagedFile) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	n := f.PageCount()
	for i := 0; i < n; i++ {
		page, err := f.fullPage(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "page %d:\n", i)
		for j, r := range page {
			if r.IsEmpty() {
				fmt.Fprintf(bw, "  %4d: <empty>\n", i*f.opt.RecordsPerPage+j)
				continue
			}
			fmt.Fprintf(bw, "  %4d: %s\n", i*f.opt.RecordsPerPage+j, r)
		}
	}
	return bw.Flush()
}
