package pagesort

import (
	"math"
	"sync/atomic"
)

// ExportStat is a snapshot of the physical page I/O done through a Stat.
type ExportStat struct {
	PageReads  uint64
	PageWrites uint64
}

func (e ExportStat) Total() uint64 {
	return e.PageReads + e.PageWrites
}

// Sub returns the I/O done between the snapshot o and e.
func (e ExportStat) Sub(o ExportStat) ExportStat {
	return ExportStat{
		PageReads:  e.PageReads - o.PageReads,
		PageWrites: e.PageWrites - o.PageWrites,
	}
}

// Stat counts physical page reads and writes. One Stat is shared by every file
// taking part in a sort, so its lifetime is that of the sort.
type Stat struct {
	pageReads  atomic.Uint64
	pageWrites atomic.Uint64
}

func (s *Stat) Export() ExportStat {
	return ExportStat{
		PageReads:  s.pageReads.Load(),
		PageWrites: s.pageWrites.Load(),
	}
}

func (s *Stat) Reset() {
	s.pageReads.Store(0)
	s.pageWrites.Store(0)
}

// TheoreticalDiskAccesses is the textbook estimate (2N / (B·log k)) · log(N/B)
// of disk accesses needed to sort N records with blocking factor B and k buffers.
func TheoreticalDiskAccesses(records, blockingFactor, bufferCount int) float64 {
	n, b, k := float64(records), float64(blockingFactor), float64(bufferCount)
	if n <= b || k <= 1 {
		return 0
	}
	return (2 * n) / (b * math.Log(k)) * math.Log(n/b)
}

// ExpectedPhases returns the number of merge phases needed for a file of pages
// pages: Stage 1 leaves runs of bufferCount pages and every phase multiplies
// the run length by bufferCount-1.
func ExpectedPhases(pages, bufferCount int) int {
	if bufferCount < minBufferCount {
		return 0
	}
	phases := 0
	for runLen := bufferCount; runLen < pages; runLen *= bufferCount - 1 {
		phases++
	}
	return phases
}

// ExpectedPageAccesses predicts the page reads and writes of a sort. Stage 1
// and every phase touch each page once, and an odd phase count adds a copy
// back into the original file.
func ExpectedPageAccesses(pages, bufferCount int) (reads, writes uint64) {
	phases := ExpectedPhases(pages, bufferCount)
	passes := uint64(1 + phases + phases%2)
	reads = uint64(pages) * passes
	return reads, reads
}
