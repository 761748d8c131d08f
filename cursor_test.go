package pagesort

import (
	"fmt"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func TestPageCursor(t *testing.T) {
	dir := initTest(t)
	f := openTestFile(t, filepath.Join(dir, "cursor.dat"), 2)
	other := openTestFile(t, filepath.Join(dir, "other.dat"), 2)

	t.Run("Arithmetic", func(t *testing.T) {
		c := f.Cursor(2)
		require.Equal(t, 3, c.Next().Index())
		require.Equal(t, 1, c.Prev().Index())
		require.Equal(t, 7, c.Add(5).Index())
		require.Equal(t, 0, c.Sub(2).Index())
		require.Equal(t, 2, c.Index())
		require.Equal(t, 5, c.Add(5).Distance(c))
		require.Equal(t, -2, c.Sub(2).Distance(c))
		require.True(t, c.Equal(f.Cursor(0).Add(2)))
		require.False(t, c.Equal(other.Cursor(2)))
		require.True(t, c.Before(c.Next()))
		require.False(t, c.Before(other.Cursor(3)))
		require.Same(t, f, c.File())
	})
	t.Run("ReadThroughWriteThrough", func(t *testing.T) {
		c := f.Cursor(0)
		require.NoError(t, c.Store([]Record{NewRecord("a0"), NewRecord("a1")}))
		require.NoError(t, c.Next().Store([]Record{NewRecord("b0")}))

		r, err := c.Record(1)
		require.NoError(t, err)
		require.Equal(t, "a1", r.String())

		page, ok, err := c.Next().Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "b0", page[0].String())

		// the cursor is not a snapshot: a store through another cursor is visible
		require.NoError(t, f.Cursor(1).Store([]Record{NewRecord("c0")}))
		page, err = c.Next().Page()
		require.NoError(t, err)
		require.Equal(t, "c0", page[0].String())
		require.True(t, page[1].IsEmpty())

		_, _, err = c.Add(5).Load()
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestPageRange(t *testing.T) {
	f := openTestFile(t, filepath.Join(initTest(t), "range.dat"), 2)
	for i := 0; i < 7; i++ {
		require.NoError(t, f.WritePage(i, []Record{NewRecord(fmt.Sprint(i))}))
	}
	pages := f.Pages()
	require.Equal(t, 7, pages.Len())
	require.False(t, pages.Empty())
	require.Equal(t, 0, pages.Begin().Index())
	require.Equal(t, 7, pages.End().Index())
	require.Equal(t, 3, pages.Cursor(3).Index())

	head, rest := pages.SplitFront(3)
	require.Equal(t, 3, head.Len())
	require.Equal(t, 4, rest.Len())
	require.Equal(t, 3, rest.Begin().Index())
	require.True(t, head.End().Equal(rest.Begin()))

	head, rest = rest.SplitFront(10)
	require.Equal(t, 4, head.Len())
	require.True(t, rest.Empty())
	require.Equal(t, 7, rest.Begin().Index())

	head, rest = rest.SplitFront(1)
	require.True(t, head.Empty())
	require.True(t, rest.Empty())

	reversed := NewPageRange(f.Cursor(5), f.Cursor(2))
	require.True(t, reversed.Empty())
	require.Equal(t, 3, NewPageRange(f.Cursor(2), f.Cursor(5)).Len())
}
