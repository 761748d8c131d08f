package pagesort

import "container/heap"

type mergeItem struct {
	src int
	idx int
	rec Record
}

// mergeHeap is a min-heap of the current head of every merge source.
type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	return mergeCompare(h[i].rec, h[j].rec) < 0
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(mergeItem)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// kWayMerge merges sorted sources into out and returns the number of records
// appended. Exactly Len() records are drawn from every source.
func kWayMerge(sources []SequentialReader, out SequentialWriter) (n int, err error) {
	h := make(mergeHeap, 0, len(sources))
	for i, src := range sources {
		if src.Len() == 0 {
			continue
		}
		rec, err := src.At(0)
		if err != nil {
			return 0, err
		}
		h = append(h, mergeItem{src: i, idx: 0, rec: rec})
	}
	heap.Init(&h)
	for h.Len() > 0 {
		top := h[0]
		if err = out.Append(top.rec); err != nil {
			return n, err
		}
		n++
		next := top.idx + 1
		if next >= sources[top.src].Len() {
			heap.Pop(&h)
			continue
		}
		rec, err := sources[top.src].At(next)
		if err != nil {
			return n, err
		}
		h[0] = mergeItem{src: top.src, idx: next, rec: rec}
		heap.Fix(&h, 0)
	}
	return n, nil
}
