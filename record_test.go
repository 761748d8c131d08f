package pagesort

import (
	"github.com/stretchr/testify/require"
	"slices"
	"testing"
)

func TestRecord(t *testing.T) {
	t.Run("Resize", func(t *testing.T) {
		r := NewRecord("hello")
		padded := r.Resize(8)
		require.Equal(t, Record("hello\x00\x00\x00"), padded)
		require.Equal(t, Record("hel"), r.Resize(3))
		require.Equal(t, Record("hello"), r)
		padded[0] = 'j'
		require.Equal(t, Record("hello"), r)
	})
	t.Run("PaddedOrdering", func(t *testing.T) {
		a := NewRecord("ab").Resize(4)
		require.True(t, a.Equal(Record("ab\x00\x00")))
		require.True(t, a.Less(NewRecord("ab\x00\x01")))
		require.True(t, NewRecord("10").Resize(4).Less(NewRecord("9").Resize(4)))
		require.Equal(t, 0, a.Compare(NewRecord("ab").Resize(4)))
	})
	t.Run("Empty", func(t *testing.T) {
		require.True(t, EmptyRecord(30).IsEmpty())
		require.True(t, NewRecord("").Resize(30).IsEmpty())
		require.False(t, NewRecord("x").Resize(30).IsEmpty())
		require.Equal(t, 30, EmptyRecord(30).Len())
	})
	t.Run("String", func(t *testing.T) {
		require.Equal(t, "abc", NewRecord("abc").Resize(30).String())
		require.Equal(t, "", EmptyRecord(4).String())
	})
	t.Run("EmptyRecordsSortLast", func(t *testing.T) {
		recs := []Record{
			EmptyRecord(4),
			NewRecord("b").Resize(4),
			EmptyRecord(4),
			NewRecord("a").Resize(4),
		}
		slices.SortFunc(recs, mergeCompare)
		require.Equal(t, "a", recs[0].String())
		require.Equal(t, "b", recs[1].String())
		require.True(t, recs[2].IsEmpty())
		require.True(t, recs[3].IsEmpty())
	})
}

func TestPage(t *testing.T) {
	page := normalizePage([]Record{NewRecord("a"), NewRecord("bb"), NewRecord("ccc")}, 4, 2)
	require.Len(t, page, 2)
	require.Equal(t, Record("a\x00\x00\x00"), page[0])
	require.Equal(t, Record("bb\x00\x00"), page[1])
	require.False(t, page.IsEmpty())
	require.Equal(t, []byte("a\x00\x00\x00bb\x00\x00"), page.encode(4))

	empty := normalizePage(nil, 4, 3)
	require.Len(t, empty, 3)
	require.True(t, empty.IsEmpty())

	decoded := decodePage([]byte("aaaabbbbcccc"), 4, 3)
	require.Equal(t, "bbbb", decoded[1].String())
}
