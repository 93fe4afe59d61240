package graphstore

import "container/heap"

// intMinHeap is a binary min-heap of released slot ids. Every
// slot-recycling store (nodes, edges, edge types, views) owns one: the
// next allocation always reuses the smallest freed id, per spec §3's
// "free slots form a min-priority queue" invariant.
type intMinHeap []int

func (h intMinHeap) Len() int            { return len(h) }
func (h intMinHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// slotAllocator hands out dense ids from a free-list, growing a counter
// only when no freed slot is available.
type slotAllocator struct {
	free  intMinHeap
	next  int // next never-yet-used id
}

// alloc returns the smallest available slot id: the smallest freed id if
// one exists, otherwise the next fresh id.
func (a *slotAllocator) alloc() int {
	if len(a.free) > 0 {
		return heap.Pop(&a.free).(int)
	}
	id := a.next
	a.next++
	return id
}

// release returns id to the free-list for future reuse.
func (a *slotAllocator) release(id int) {
	heap.Push(&a.free, id)
}

// len reports the number of ids ever handed out, live or freed — i.e. the
// required backing array length.
func (a *slotAllocator) len() int {
	return a.next
}
