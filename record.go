package pagesort

import (
	"bytes"
)

// Record is a fixed maximum length byte value. Records are compared byte by
// byte over their full (padded) representation, so "9" sorts after "10".
//
// A record read from a PagedFile may share memory with the page it came from
// and must not be modified in place.
type Record []byte

func NewRecord(s string) Record {
	return Record(s)
}

// EmptyRecord returns the all-zero record that marks an unwritten slot.
func EmptyRecord(size int) Record {
	return make(Record, size)
}

// Resize returns a copy of r truncated or zero padded to exactly n bytes.
func (r Record) Resize(n int) Record {
	res := make(Record, n)
	copy(res, r)
	return res
}

func (r Record) Len() int {
	return len(r)
}

func (r Record) Compare(other Record) int {
	return bytes.Compare(r, other)
}

func (r Record) Less(other Record) bool {
	return bytes.Compare(r, other) < 0
}

func (r Record) Equal(other Record) bool {
	return bytes.Equal(r, other)
}

// IsEmpty reports whether every byte of r is zero.
func (r Record) IsEmpty() bool {
	return bytesIsZero(r)
}

// String returns the record content without its trailing NUL padding.
func (r Record) String() string {
	return string(bytes.TrimRight(r, "\x00"))
}

// mergeCompare orders records the way the sorter emits them: written records
// byte-wise ascending, empty slots after all of them.
func mergeCompare(a, b Record) int {
	ae, be := a.IsEmpty(), b.IsEmpty()
	switch {
	case ae && be:
		return 0
	case ae:
		return 1
	case be:
		return -1
	default:
		return bytes.Compare(a, b)
	}
}
