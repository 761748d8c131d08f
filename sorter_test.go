package pagesort

import (
	"bytes"
	"fmt"
	"github.com/stretchr/testify/require"
	"github.com/zbh255/gocode/random"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func newTestSorter(t *testing.T, dir string, bufferCount, blockingFactor int) *Sorter {
	s, err := NewSorter(Config{
		BufferCount:    bufferCount,
		BlockingFactor: blockingFactor,
		TempDir:        dir,
	})
	require.NoError(t, err)
	return s
}

func createTestData(t *testing.T, path string, blockingFactor int, records []string) {
	f, err := OpenPagedFile(path, Options{RecordsPerPage: blockingFactor})
	require.NoError(t, err)
	for i, s := range records {
		require.NoError(t, f.Write(i, NewRecord(s)))
	}
	require.NoError(t, f.Close())
}

func readTestData(t *testing.T, path string, blockingFactor int) []Record {
	f, err := OpenPagedFile(path, Options{RecordsPerPage: blockingFactor})
	require.NoError(t, err)
	defer f.Close()
	n, err := f.RecordCount()
	require.NoError(t, err)
	res := make([]Record, n)
	for i := range res {
		res[i], err = f.Read(i)
		require.NoError(t, err)
	}
	return res
}

func randomRecords(n int) []string {
	res := make([]string, n)
	for i := range res {
		s := random.GenStringOnAscii(DefaultRecordSize)
		res[i] = s[:1+rand.IntN(len(s))]
	}
	return res
}

func requireSortedPermutation(t *testing.T, before, after []Record) {
	require.Len(t, after, len(before))
	want := slices.Clone(before)
	slices.SortFunc(want, mergeCompare)
	require.Equal(t, want, after)
	for i := 1; i < len(after); i++ {
		if after[i].IsEmpty() {
			continue
		}
		require.False(t, after[i-1].IsEmpty(), "empty slot before written record %d", i)
		require.LessOrEqual(t, after[i-1].Compare(after[i]), 0, "records %d and %d out of order", i-1, i)
	}
}

func requireOnlyFile(t *testing.T, dir, name string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, name, entries[0].Name())
}

func TestSorter(t *testing.T) {
	t.Run("DescendingNumbers", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "data.bin")
		records := make([]string, 100)
		for i := range records {
			records[i] = fmt.Sprint(99 - i)
		}
		createTestData(t, path, 10, records)

		rep, err := newTestSorter(t, dir, 5, 10).SortFile(path)
		require.NoError(t, err)
		require.Equal(t, 100, rep.Records)
		require.Equal(t, 10, rep.Pages)
		require.Equal(t, 2, rep.Runs)
		require.Equal(t, 1, rep.Phases)
		require.True(t, rep.CopiedBack)

		// byte-wise order: "10" sorts before "2"
		want := slices.Clone(records)
		slices.Sort(want)
		require.Equal(t, "0", want[0])
		require.Equal(t, "1", want[1])
		require.Equal(t, "10", want[2])
		require.Equal(t, want, stringsOf(readTestData(t, path, 10)))
		requireOnlyFile(t, dir, "data.bin")
	})
	t.Run("ZeroPaddedNumbers", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "data.bin")
		records := make([]string, 100)
		for i := range records {
			records[i] = fmt.Sprintf("%02d", 99-i)
		}
		createTestData(t, path, 10, records)
		_, err := newTestSorter(t, dir, 5, 10).SortFile(path)
		require.NoError(t, err)
		sorted := stringsOf(readTestData(t, path, 10))
		for i := range sorted {
			require.Equal(t, fmt.Sprintf("%02d", i), sorted[i])
		}
	})
	t.Run("EmptyFile", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "empty.bin")
		rep, err := newTestSorter(t, dir, 5, 10).SortFile(path)
		require.NoError(t, err)
		require.Equal(t, 0, rep.Records)
		require.Equal(t, 0, rep.Pages)
		require.Equal(t, 0, rep.Runs)
		require.Equal(t, 0, rep.Phases)
		require.Zero(t, rep.Stat.Total())
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Zero(t, info.Size())
		requireOnlyFile(t, dir, "empty.bin")
	})
	t.Run("SinglePage", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "one.bin")
		createTestData(t, path, 10, []string{"c", "a", "b"})
		rep, err := newTestSorter(t, dir, 5, 10).SortFile(path)
		require.NoError(t, err)
		require.Equal(t, 0, rep.Phases)
		require.Equal(t, ExportStat{PageReads: 1, PageWrites: 1}, rep.Stat)
		require.Equal(t, []string{"a", "b", "c"}, stringsOf(readTestData(t, path, 10))[:3])
	})
	t.Run("PartialLastPage", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "partial.bin")
		records := randomRecords(23)
		createTestData(t, path, 10, records)

		before := readTestData(t, path, 10)
		require.Len(t, before, 30)
		for _, r := range before[23:] {
			require.True(t, r.IsEmpty())
		}

		_, err := newTestSorter(t, dir, 3, 10).SortFile(path)
		require.NoError(t, err)
		after := readTestData(t, path, 10)
		want := slices.Clone(records)
		slices.Sort(want)
		require.Equal(t, want, stringsOf(after[:23]))
		for _, r := range after[23:] {
			require.True(t, r.IsEmpty())
		}
		requireSortedPermutation(t, before, after)
	})
	t.Run("DiskAccessCounters", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "counters.bin")
		createTestData(t, path, 20, randomRecords(1000))

		rep, err := newTestSorter(t, dir, 5, 20).SortFile(path)
		require.NoError(t, err)
		require.Equal(t, 50, rep.Pages)
		require.Equal(t, 10, rep.Runs)
		require.Equal(t, 2, rep.Phases)
		require.Equal(t, 2, rep.ExpectedPhases)
		require.False(t, rep.CopiedBack)
		reads, writes := ExpectedPageAccesses(50, 5)
		require.Equal(t, uint64(150), reads)
		require.Equal(t, ExportStat{PageReads: reads, PageWrites: writes}, rep.Stat)
		require.InDelta(t, TheoreticalDiskAccesses(1000, 20, 5), rep.TheoreticalAccesses, 1e-9)
	})
	t.Run("Properties", func(t *testing.T) {
		cases := []struct {
			bufferCount, blockingFactor, records int
		}{
			{3, 1, 17},
			{3, 3, 100},
			{4, 7, 523},
			{5, 10, 1000},
			{6, 2, 64},
			{3, 4, 37},
		}
		for _, c := range cases {
			name := fmt.Sprintf("k%d_b%d_n%d", c.bufferCount, c.blockingFactor, c.records)
			t.Run(name, func(t *testing.T) {
				dir := initTest(t)
				path := filepath.Join(dir, "data.bin")
				createTestData(t, path, c.blockingFactor, randomRecords(c.records))
				before := readTestData(t, path, c.blockingFactor)

				s := newTestSorter(t, dir, c.bufferCount, c.blockingFactor)
				rep, err := s.SortFile(path)
				require.NoError(t, err)
				after := readTestData(t, path, c.blockingFactor)
				requireSortedPermutation(t, before, after)

				pages := int(ceilDiv(int64(c.records), int64(c.blockingFactor)))
				require.Equal(t, pages, rep.Pages)
				require.Equal(t, ExpectedPhases(pages, c.bufferCount), rep.Phases)
				require.Equal(t, rep.Phases%2 == 1, rep.CopiedBack)
				reads, writes := ExpectedPageAccesses(pages, c.bufferCount)
				require.Equal(t, ExportStat{PageReads: reads, PageWrites: writes}, rep.Stat)
				requireOnlyFile(t, dir, "data.bin")

				// sorting sorted data changes nothing
				sorted, err := os.ReadFile(path)
				require.NoError(t, err)
				_, err = s.SortFile(path)
				require.NoError(t, err)
				again, err := os.ReadFile(path)
				require.NoError(t, err)
				require.True(t, bytes.Equal(sorted, again))
			})
		}
	})
	t.Run("OpenFile", func(t *testing.T) {
		dir := initTest(t)
		s := newTestSorter(t, dir, 3, 2)
		stat := new(Stat)
		f, err := OpenPagedFile(filepath.Join(dir, "open.bin"), s.Options(stat))
		require.NoError(t, err)
		defer f.Close()
		for i, v := range []string{"f", "e", "d", "c", "b", "a", "9", "8"} {
			require.NoError(t, f.Write(i, NewRecord(v)))
		}
		rep, err := s.Sort(f)
		require.NoError(t, err)
		require.Equal(t, 4, rep.Pages)
		require.Equal(t, 1, rep.Phases)
		for i, want := range []string{"8", "9", "a", "b", "c", "d", "e", "f"} {
			r, err := f.Read(i)
			require.NoError(t, err)
			require.Equal(t, want, r.String())
		}
		require.GreaterOrEqual(t, stat.Export().PageWrites, rep.Stat.PageWrites)
	})
	t.Run("GeometryMismatch", func(t *testing.T) {
		dir := initTest(t)
		f, err := OpenPagedFile(filepath.Join(dir, "geo.bin"), Options{RecordsPerPage: 10})
		require.NoError(t, err)
		defer f.Close()
		_, err = newTestSorter(t, dir, 5, 20).Sort(f)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
	t.Run("Trace", func(t *testing.T) {
		dir := initTest(t)
		path := filepath.Join(dir, "trace.bin")
		createTestData(t, path, 2, []string{"d", "c", "b", "a", "z", "y", "x", "w"})
		var buf bytes.Buffer
		s, err := NewSorter(Config{BufferCount: 3, BlockingFactor: 2, TempDir: dir, Trace: &buf})
		require.NoError(t, err)
		_, err = s.SortFile(path)
		require.NoError(t, err)
		out := buf.String()
		require.Contains(t, out, "loaded file")
		require.Contains(t, out, "run 1")
		require.Contains(t, out, "run 2")
		require.Contains(t, out, "phase 1")
		require.Contains(t, out, "sorted file")
		require.Equal(t, []string{"a", "b", "c", "d", "w", "x", "y", "z"}, stringsOf(readTestData(t, path, 2)))
	})
}

func TestConfig(t *testing.T) {
	s, err := NewSorter(Config{})
	require.NoError(t, err)
	require.Equal(t, DefaultBufferCount, s.cfg.BufferCount)
	require.Equal(t, DefaultRecordsPerPage, s.cfg.BlockingFactor)
	require.Equal(t, DefaultRecordSize, s.cfg.RecordSize)
	require.NotNil(t, s.logger)

	for _, cfg := range []Config{
		{BufferCount: 2},
		{BufferCount: -1},
		{BlockingFactor: -3},
		{RecordSize: -1},
	} {
		_, err = NewSorter(cfg)
		require.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}
}
