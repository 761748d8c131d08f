package pagesort

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/nyan233/pagesort/internal/sys"
)

// Config controls a Sorter. Zero values select the defaults.
type Config struct {
	// BufferCount is the number k of page buffers. Stage 1 sorts k pages at a
	// time and every merge phase merges k-1 runs into the remaining buffer.
	BufferCount int
	// BlockingFactor is the number B of records per page.
	BlockingFactor int
	RecordSize     int
	// TempDir holds the scratch file of the merge phases, os.TempDir() if empty.
	TempDir string
	Logger  *slog.Logger
	// Trace, when set, receives a dump of the file content after every run
	// and every phase. Dumping reads pages and shows up in the report.
	Trace io.Writer
}

func (c *Config) normalize() error {
	if c.BufferCount == 0 {
		c.BufferCount = DefaultBufferCount
	}
	if c.BlockingFactor == 0 {
		c.BlockingFactor = DefaultRecordsPerPage
	}
	if c.RecordSize == 0 {
		c.RecordSize = DefaultRecordSize
	}
	if c.BufferCount < minBufferCount {
		return fmt.Errorf("buffer count %d < %d: %w", c.BufferCount, minBufferCount, ErrInvalidConfig)
	}
	if c.BlockingFactor < 1 {
		return fmt.Errorf("blocking factor %d < 1: %w", c.BlockingFactor, ErrInvalidConfig)
	}
	if c.RecordSize < 1 {
		return fmt.Errorf("record size %d < 1: %w", c.RecordSize, ErrInvalidConfig)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// Report describes a finished sort.
type Report struct {
	// Records is the number of record slots in the file, padding included.
	Records int
	Pages   int
	// Runs is the number of sorted runs left by Stage 1.
	Runs   int
	Phases int
	// CopiedBack is set when the last phase wrote the scratch file and its
	// content was copied into the sorted file.
	CopiedBack bool
	Stat       ExportStat
	// TheoreticalAccesses is TheoreticalDiskAccesses for the sorted file.
	TheoreticalAccesses float64
	ExpectedPhases      int
}

// Sorter sorts paged files in place with a two stage external merge sort
// using BufferCount page buffers of memory.
type Sorter struct {
	cfg    Config
	logger *slog.Logger
}

func NewSorter(cfg Config) (*Sorter, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &Sorter{
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

// Options returns the PagedFile options matching the sorter's page geometry.
func (s *Sorter) Options(stat *Stat) Options {
	return Options{
		RecordSize:     s.cfg.RecordSize,
		RecordsPerPage: s.cfg.BlockingFactor,
		Stat:           stat,
		Logger:         s.logger,
	}
}

// SortFile sorts the file at path in place. The I/O counters of the report
// cover this call only.
func (s *Sorter) SortFile(path string) (rep Report, err error) {
	f, err := OpenPagedFile(path, s.Options(new(Stat)))
	if err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return s.Sort(f)
}

// Sort sorts the open file f in place and flushes it.
func (s *Sorter) Sort(f *PagedFile) (rep Report, err error) {
	if f.RecordSize() != s.cfg.RecordSize || f.RecordsPerPage() != s.cfg.BlockingFactor {
		return rep, fmt.Errorf("sort %s: file geometry %dx%d, sorter %dx%d: %w", f.Path(),
			f.RecordsPerPage(), f.RecordSize(), s.cfg.BlockingFactor, s.cfg.RecordSize, ErrInvalidConfig)
	}
	if err = f.evict(); err != nil {
		return
	}
	before := f.Stat().Export()
	rep.Pages = f.PageCount()
	rep.ExpectedPhases = ExpectedPhases(rep.Pages, s.cfg.BufferCount)
	s.logger.Info("sort start", "path", f.Path(), "pages", rep.Pages,
		"bufferCount", s.cfg.BufferCount, "blockingFactor", s.cfg.BlockingFactor,
		"pageBytes", f.PageSize(), "osPageBytes", sys.GetSysPageSize())
	s.trace(f, "loaded file")

	rep.Runs, err = s.createRuns(f)
	if err != nil {
		return rep, fmt.Errorf("create runs: %w", err)
	}
	s.logger.Info("stage 1 done", "runs", rep.Runs)

	rep.Phases, rep.CopiedBack, err = s.mergeRuns(f, rep.Pages)
	if err != nil {
		return rep, fmt.Errorf("merge runs: %w", err)
	}
	if rep.Records, err = f.RecordCount(); err != nil {
		return
	}
	rep.Stat = f.Stat().Export().Sub(before)
	rep.TheoreticalAccesses = TheoreticalDiskAccesses(rep.Records, s.cfg.BlockingFactor, s.cfg.BufferCount)
	s.logger.Info("sort done", "path", f.Path(), "records", rep.Records, "phases", rep.Phases,
		"pageReads", rep.Stat.PageReads, "pageWrites", rep.Stat.PageWrites,
		"theoreticalAccesses", rep.TheoreticalAccesses)
	s.trace(f, "sorted file")
	return rep, nil
}

// createRuns turns f into consecutive sorted runs of BufferCount pages, the
// last one possibly shorter. Each batch of pages is read completely before
// its merged output overwrites the same pages.
func (s *Sorter) createRuns(f *PagedFile) (runs int, err error) {
	k := s.cfg.BufferCount
	buffers := make([][]Record, k)
	sources := make([]SequentialReader, 0, k)
	pages := f.Pages()
	for !pages.Empty() {
		var batch PageRange
		batch, pages = pages.SplitFront(k)
		sources = sources[:0]
		for i := 0; i < batch.Len(); i++ {
			page, err := batch.Cursor(i).Page()
			if err != nil {
				return runs, err
			}
			buf := append(buffers[i][:0], page...)
			slices.SortFunc(buf, mergeCompare)
			buffers[i] = buf
			sources = append(sources, recordSlice(buf))
		}
		w := NewRunWriter(batch.Begin())
		if _, err = kWayMerge(sources, w); err != nil {
			return runs, err
		}
		if err = w.Close(); err != nil {
			return runs, err
		}
		runs++
		s.logger.Debug("run created", "run", runs, "firstPage", batch.Begin().Index(), "pages", batch.Len())
		s.trace(f, fmt.Sprintf("run %d", runs))
	}
	for i := range buffers {
		clear(buffers[i])
	}
	return runs, nil
}

// mergeRuns merges the runs of f until a single run spans all totalPages
// pages, alternating between f and a scratch file.
func (s *Sorter) mergeRuns(f *PagedFile, totalPages int) (phases int, copiedBack bool, err error) {
	k := s.cfg.BufferCount
	runLen := k
	if runLen >= totalPages {
		return 0, false, nil
	}
	scratch, err := newScratchFile(s.cfg.TempDir, f.opt)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if rerr := scratch.remove(); rerr != nil {
			s.logger.Error("remove scratch file fail", "path", scratch.Path(), "err", rerr)
		}
	}()

	src, dst := f, scratch.PagedFile
	for runLen < totalPages {
		phases++
		s.logger.Info("merge phase", "phase", phases, "runLenPages", runLen, "fanIn", k-1,
			"src", src.Path(), "dst", dst.Path())
		if err = s.mergePass(src, dst, runLen); err != nil {
			return phases, false, err
		}
		s.trace(dst, fmt.Sprintf("phase %d", phases))
		runLen *= k - 1
		src, dst = dst, src
	}
	// src holds the single sorted run now.
	if src != f {
		s.logger.Info("copy back", "from", src.Path(), "to", f.Path(), "pages", totalPages)
		if err = f.CopyFrom(src); err != nil {
			return phases, false, err
		}
		copiedBack = true
	}
	return phases, copiedBack, nil
}

// mergePass merges every group of up to BufferCount-1 runs of runLen pages
// from src into one run of dst.
func (s *Sorter) mergePass(src, dst *PagedFile, runLen int) error {
	fanIn := s.cfg.BufferCount - 1
	if err := src.evict(); err != nil {
		return err
	}
	srcPages := src.Pages()
	dstPages := dst.Pages()
	out := dstPages.Begin()
	readers := make([]SequentialReader, 0, fanIn)
	for {
		readers = readers[:0]
		for len(readers) < fanIn && !srcPages.Empty() {
			var run PageRange
			run, srcPages = srcPages.SplitFront(runLen)
			readers = append(readers, NewRunReader(run))
		}
		if len(readers) == 0 {
			return nil
		}
		w := NewRunWriter(out)
		if _, err := kWayMerge(readers, w); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		out = w.Cursor()
	}
}

func (s *Sorter) trace(f *PagedFile, title string) {
	if s.cfg.Trace == nil {
		return
	}
	fmt.Fprintf(s.cfg.Trace, "%s (%s):\n", title, f.Path())
	if err := f.Dump(s.cfg.Trace); err != nil {
		s.logger.Error("dump file content fail", "path", f.Path(), "err", err)
	}
}
