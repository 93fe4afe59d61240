package graphstore

import (
	"sort"

	"github.com/orneryd/graphstore/pkg/pool"
)

// collect walks every chain in heads (or just typeFilter's chain, when
// non-nil) via link, returning edge store ids in LIFO insertion order per
// chain — head-of-chain is the most recently added edge, per spec §4.H.
// When multiple types are walked, chains are visited in ascending type-id
// order for a deterministic overall result.
func (s *edgeStore) collect(heads map[int]int, typeFilter *int, link linkFunc) []int {
	out := pool.GetIntSlice()
	var typeIDs []int
	if typeFilter != nil {
		typeIDs = []int{*typeFilter}
	} else {
		typeIDs = make([]int, 0, len(heads))
		for t := range heads {
			typeIDs = append(typeIDs, t)
		}
		sort.Ints(typeIDs)
	}
	for _, t := range typeIDs {
		cur, ok := heads[t]
		if !ok {
			continue
		}
		for cur != -1 {
			out = append(out, cur)
			_, next := link(s.records[cur])
			cur = *next
		}
	}
	return out
}

func (s *edgeStore) outEdgesOf(node *nodeRecord, typeFilter *int) []int {
	return s.collect(node.outHead, typeFilter, outLink)
}

func (s *edgeStore) inEdgesOf(node *nodeRecord, typeFilter *int) []int {
	return s.collect(node.inHead, typeFilter, inLink)
}

func (s *edgeStore) undirEdgesOf(node *nodeRecord, typeFilter *int) []int {
	return s.collect(node.undirHead, typeFilter, undirLinkAt(node.storeID))
}

// selfLoopsOf walks node's private self-loop chain, optionally filtered
// by type.
func (s *edgeStore) selfLoopsOf(node *nodeRecord, typeFilter *int) []int {
	out := pool.GetIntSlice()
	cur := node.selfLoopHead
	for cur != -1 {
		rec := s.records[cur]
		if typeFilter == nil || rec.typeID == *typeFilter {
			out = append(out, cur)
		}
		cur = rec.selfLoopNext
	}
	return out
}

// incidentEdgesOf returns every edge touching node: out, in, undirected,
// and (if includeSelfLoops) self-loops, optionally filtered by type.
func (s *edgeStore) incidentEdgesOf(node *nodeRecord, typeFilter *int, includeSelfLoops bool) []int {
	out := pool.GetIntSlice()
	out = append(out, s.outEdgesOf(node, typeFilter)...)
	out = append(out, s.inEdgesOf(node, typeFilter)...)
	out = append(out, s.undirEdgesOf(node, typeFilter)...)
	if includeSelfLoops {
		out = append(out, s.selfLoopsOf(node, typeFilter)...)
	}
	return out
}

// AdjacencyIterator is a cursor over a snapshot of edge store ids — a
// node's in/out/undirected edges, optionally type-filtered — supporting
// removal mid-traversal, per spec §4.H's iterator contract.
//
// In AutoLocking mode the iterator holds the graph's write lock for its
// entire lifetime (so Remove never needs an illegal read-to-write
// upgrade); in manual mode the caller must already hold the write lock
// before calling Remove, and at least the read lock before calling Next.
type AdjacencyIterator struct {
	graph   *Graph
	ids     []int
	pos     int
	current int // edge storeID of the last element returned by Next, or -1

	observedEdgeVersion uint64
	locked              bool
	closed              bool
}

func (g *Graph) newAdjacencyIterator(ids []int) *AdjacencyIterator {
	it := &AdjacencyIterator{graph: g, ids: ids, current: -1}
	if g.config.AutoLocking {
		g.lock.writeLock()
		it.locked = true
	}
	_, it.observedEdgeVersion = g.lock.snapshotVersions()
	return it
}

// HasNext reports whether another edge remains in the snapshot.
func (it *AdjacencyIterator) HasNext() bool {
	return !it.closed && it.pos < len(it.ids)
}

// Next advances the cursor and returns the next edge. Returns a
// ProgrammingError-kind error if the graph structurally changed since
// this iterator was created or since its last successful call (outside
// of this iterator's own Remove calls).
func (it *AdjacencyIterator) Next() (*Edge, error) {
	if it.closed {
		return nil, newErr("Next", ProgrammingError, "iterator is closed")
	}
	if err := it.checkVersion(); err != nil {
		return nil, err
	}
	if it.pos >= len(it.ids) {
		return nil, newErr("Next", ProgrammingError, "no more elements")
	}
	it.current = it.ids[it.pos]
	it.pos++
	rec, ok := it.graph.edges.getByStoreID(it.current)
	if !ok {
		// Removed by this same iterator's prior Remove call, or the
		// structural-version check above would already have failed for
		// any other cause; treat as an empty slot and keep advancing.
		return it.Next()
	}
	return &Edge{g: it.graph, storeID: rec.storeID}, nil
}

func (it *AdjacencyIterator) checkVersion() error {
	_, ev := it.graph.lock.snapshotVersions()
	if ev != it.observedEdgeVersion {
		return newErr("Next", ProgrammingError, "concurrent structural modification detected")
	}
	return nil
}

// Remove splices the edge last returned by Next out of the graph. It is
// legal to call Remove then continue calling Next — this is the
// documented "interleave removals with iteration" contract.
func (it *AdjacencyIterator) Remove() error {
	if it.closed {
		return newErr("Remove", ProgrammingError, "iterator is closed")
	}
	if it.current == -1 {
		return newErr("Remove", ProgrammingError, "Remove called without a preceding Next")
	}
	if !it.graph.lock.holdsWrite() {
		return newErr("Remove", ProgrammingError, "Remove requires the write lock")
	}
	if err := it.graph.removeEdgeByStoreID(it.current); err != nil {
		return err
	}
	_, it.observedEdgeVersion = it.graph.lock.snapshotVersions()
	it.current = -1
	return nil
}

// Close releases the iterator's lock hold (if any) and returns its
// backing buffer to the pool. Must be called on every exit path.
func (it *AdjacencyIterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	pool.PutIntSlice(it.ids)
	if it.locked {
		it.graph.lock.writeUnlock()
		it.locked = false
	}
}
