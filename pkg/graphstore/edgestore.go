package graphstore

import (
	"sort"

	"github.com/orneryd/graphstore/pkg/typecatalog"
)

// edgeRecord is one live edge: spec §3's edge record, with adjacency
// "pointers" expressed as edge slot indices (-1 for end-of-list), per
// spec §9's arena-of-indices rewrite.
type edgeRecord struct {
	storeID int
	id      Value

	src, dst int // node storeIDs
	typeID   int
	directed bool

	weight Value // the weight passed to add, as given; nil when none was passed

	// outPrev/outNext link this edge into src's outHead[typeID] chain.
	// Valid only for directed, non-self-loop edges.
	outPrev, outNext int
	// inPrev/inNext link this edge into dst's inHead[typeID] chain.
	// Valid only for directed, non-self-loop edges.
	inPrev, inNext int
	// undirPrevA/undirNextA link into src's undirHead[typeID] chain;
	// undirPrevB/undirNextB link into dst's undirHead[typeID] chain.
	// Valid only for undirected, non-self-loop edges.
	undirPrevA, undirNextA int
	undirPrevB, undirNextB int

	// selfLoopNext links this edge into its node's private self-loop
	// chain. Valid only when src == dst.
	selfLoopNext int

	attrs        []Value
	dynamicAttrs map[int]*dynamicAttr
}

func (e *edgeRecord) isSelfLoop() bool { return e.src == e.dst }

func (e *edgeRecord) storeIDOf() int                   { return e.storeID }
func (e *edgeRecord) attrSlice() []Value               { return e.attrs }
func (e *edgeRecord) setAttrSlice(s []Value)            { e.attrs = s }
func (e *edgeRecord) dynamicMap() map[int]*dynamicAttr { return e.dynamicAttrs }

// linkFunc returns the (prev, next) field pair an edge uses for one of
// its adjacency chains, so splice helpers can stay generic instead of
// being copy-pasted per chain kind.
type linkFunc func(*edgeRecord) (*int, *int)

func outLink(e *edgeRecord) (*int, *int) { return &e.outPrev, &e.outNext }
func inLink(e *edgeRecord) (*int, *int)  { return &e.inPrev, &e.inNext }

func undirLinkAt(node int) linkFunc {
	return func(e *edgeRecord) (*int, *int) {
		if node == e.src {
			return &e.undirPrevA, &e.undirNextA
		}
		return &e.undirPrevB, &e.undirNextB
	}
}

// edgeKey identifies an edge by its endpoints and type. Undirected keys
// store the smaller slot first so {A,B} and {B,A} collide, per spec
// §4.H's parallel-edge table.
type edgeKey struct {
	a, b, typeID int
}

func makeEdgeKey(src, dst, typeID int, directed bool) edgeKey {
	if !directed && src > dst {
		src, dst = dst, src
	}
	return edgeKey{a: src, b: dst, typeID: typeID}
}

// edgeStore is the dense edge container plus parallel-edge table and
// adjacency linkage, spec component H — "the heart of the design."
type edgeStore struct {
	alloc   slotAllocator
	records []*edgeRecord
	byID    map[hashKey]int
	idType  typecatalog.Type

	parallel  map[edgeKey]int
	selfLoops map[int]struct{}

	nodes *nodeStore
	types *edgeTypeStore

	weightColumn bool
	weightType   typecatalog.Type
}

func newEdgeStore(nodes *nodeStore, types *edgeTypeStore, idType typecatalog.Type, weightColumn bool, weightType typecatalog.Type) *edgeStore {
	return &edgeStore{
		byID:         make(map[hashKey]int),
		idType:       idType,
		parallel:     make(map[edgeKey]int),
		selfLoops:    make(map[int]struct{}),
		nodes:        nodes,
		types:        types,
		weightColumn: weightColumn,
		weightType:   weightType,
	}
}

func (s *edgeStore) getByStoreID(storeID int) (*edgeRecord, bool) {
	if storeID < 0 || storeID >= len(s.records) {
		return nil, false
	}
	r := s.records[storeID]
	return r, r != nil
}

func (s *edgeStore) get(id Value) (*edgeRecord, bool) {
	storeID, ok := s.byID[toHashKey(id)]
	if !ok {
		return nil, false
	}
	return s.records[storeID], true
}

// getKeyed looks up the edge for (srcSlot, dstSlot, typeID), honoring
// undirected's unordered-pair key.
func (s *edgeStore) getKeyed(srcSlot, dstSlot, typeID int, directed bool) (*edgeRecord, bool) {
	storeID, ok := s.parallel[makeEdgeKey(srcSlot, dstSlot, typeID, directed)]
	if !ok {
		return nil, false
	}
	return s.records[storeID], true
}

// add inserts a new edge under the write lock. src/dst must already be
// live nodes of the owning store.
func (s *edgeStore) add(id Value, src, dst *nodeRecord, typeID int, directed bool, weight Value) (*edgeRecord, error) {
	std, err := standardizeOrErr("addEdge", id, s.idType)
	if err != nil {
		return nil, err
	}
	if _, exists := s.byID[toHashKey(std)]; exists {
		return nil, newErr("addEdge", Duplicate, "edge id already present")
	}

	key := makeEdgeKey(src.storeID, dst.storeID, typeID, directed)
	if _, exists := s.parallel[key]; exists {
		return nil, newErr("addEdge", Duplicate, "parallel edge rejected")
	}

	storeID := s.alloc.alloc()
	rec := &edgeRecord{
		storeID:      storeID,
		id:           std,
		src:          src.storeID,
		dst:          dst.storeID,
		typeID:       typeID,
		directed:     directed,
		weight:       weight,
		outPrev:      -1,
		outNext:      -1,
		inPrev:       -1,
		inNext:       -1,
		undirPrevA:   -1,
		undirNextA:   -1,
		undirPrevB:   -1,
		undirNextB:   -1,
		selfLoopNext: -1,
		dynamicAttrs: make(map[int]*dynamicAttr),
	}
	for len(s.records) <= storeID {
		s.records = append(s.records, nil)
	}
	s.records[storeID] = rec
	s.byID[toHashKey(std)] = storeID
	s.parallel[key] = storeID

	switch {
	case rec.isSelfLoop():
		rec.selfLoopNext = src.selfLoopHead
		src.selfLoopHead = storeID
		s.selfLoops[storeID] = struct{}{}
		src.outDegree[typeID]++
		src.inDegree[typeID]++
		src.selfLoopCount[typeID]++
	case directed:
		s.spliceFront(src.outHead, typeID, storeID, outLink)
		s.spliceFront(dst.inHead, typeID, storeID, inLink)
		src.outDegree[typeID]++
		dst.inDegree[typeID]++
		if _, mutual := s.parallel[makeEdgeKey(dst.storeID, src.storeID, typeID, true)]; mutual {
			src.mutualCount[typeID]++
			dst.mutualCount[typeID]++
		}
	default: // undirected
		s.spliceFront(src.undirHead, typeID, storeID, undirLinkAt(src.storeID))
		s.spliceFront(dst.undirHead, typeID, storeID, undirLinkAt(dst.storeID))
		src.undirDegree[typeID]++
		dst.undirDegree[typeID]++
	}

	s.types.onEdgeAdded(typeID, directed)
	return rec, nil
}

// remove splices storeID out of every chain it participates in, erases it
// from the parallel-edge table, and releases its slot.
func (s *edgeStore) remove(storeID int) {
	rec := s.records[storeID]
	if rec == nil {
		return
	}
	src, _ := s.nodes.getByStoreID(rec.src)
	dst, _ := s.nodes.getByStoreID(rec.dst)

	switch {
	case rec.isSelfLoop():
		s.spliceSelfLoop(src, storeID)
		delete(s.selfLoops, storeID)
		src.outDegree[rec.typeID]--
		src.inDegree[rec.typeID]--
		src.selfLoopCount[rec.typeID]--
	case rec.directed:
		s.spliceOut(src.outHead, rec.typeID, storeID, outLink)
		s.spliceOut(dst.inHead, rec.typeID, storeID, inLink)
		src.outDegree[rec.typeID]--
		dst.inDegree[rec.typeID]--
		if _, mutual := s.parallel[makeEdgeKey(dst.storeID, src.storeID, rec.typeID, true)]; mutual {
			src.mutualCount[rec.typeID]--
			dst.mutualCount[rec.typeID]--
		}
	default:
		s.spliceOut(src.undirHead, rec.typeID, storeID, undirLinkAt(src.storeID))
		s.spliceOut(dst.undirHead, rec.typeID, storeID, undirLinkAt(dst.storeID))
		src.undirDegree[rec.typeID]--
		dst.undirDegree[rec.typeID]--
	}

	delete(s.byID, toHashKey(rec.id))
	delete(s.parallel, makeEdgeKey(rec.src, rec.dst, rec.typeID, rec.directed))
	s.types.onEdgeRemoved(rec.typeID, rec.directed)
	s.records[storeID] = nil
	s.alloc.release(storeID)
}

func (s *edgeStore) spliceFront(head map[int]int, typeID, edgeID int, link linkFunc) {
	prev, next := link(s.records[edgeID])
	*prev = -1
	oldHead, ok := head[typeID]
	if !ok {
		oldHead = -1
	}
	*next = oldHead
	if oldHead != -1 {
		op, _ := link(s.records[oldHead])
		*op = edgeID
	}
	head[typeID] = edgeID
}

func (s *edgeStore) spliceOut(head map[int]int, typeID, edgeID int, link linkFunc) {
	prev, next := link(s.records[edgeID])
	p, n := *prev, *next
	if p != -1 {
		_, pn := link(s.records[p])
		*pn = n
	} else if n == -1 {
		delete(head, typeID)
	} else {
		head[typeID] = n
	}
	if n != -1 {
		np, _ := link(s.records[n])
		*np = p
	}
}

// spliceSelfLoop removes edgeID from node's private singly-linked
// self-loop chain.
func (s *edgeStore) spliceSelfLoop(node *nodeRecord, edgeID int) {
	if node.selfLoopHead == edgeID {
		node.selfLoopHead = s.records[edgeID].selfLoopNext
		return
	}
	cur := node.selfLoopHead
	for cur != -1 {
		next := s.records[cur].selfLoopNext
		if next == edgeID {
			s.records[cur].selfLoopNext = s.records[edgeID].selfLoopNext
			return
		}
		cur = next
	}
}

// mutualOf returns the reverse-direction counterpart of directed edge e,
// if present.
func (s *edgeStore) mutualOf(e *edgeRecord) (*edgeRecord, bool) {
	if !e.directed || e.isSelfLoop() {
		return nil, false
	}
	return s.getKeyed(e.dst, e.src, e.typeID, true)
}

// getSelfLoops returns every live self-loop edge, storeID order.
func (s *edgeStore) getSelfLoops() []*edgeRecord {
	ids := make([]int, 0, len(s.selfLoops))
	for id := range s.selfLoops {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*edgeRecord, len(ids))
	for i, id := range ids {
		out[i] = s.records[id]
	}
	return out
}

func (s *edgeStore) size() int {
	n := 0
	for _, r := range s.records {
		if r != nil {
			n++
		}
	}
	return n
}

func (s *edgeStore) all() []*edgeRecord {
	out := make([]*edgeRecord, 0, len(s.records))
	for _, r := range s.records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// liveIDs returns the storeIDs of every live edge, in order. Backs the
// no-op column index's "reads return the entire element set" contract.
func (s *edgeStore) liveIDs() []int {
	out := make([]int, 0, len(s.records))
	for _, r := range s.records {
		if r != nil {
			out = append(out, r.storeID)
		}
	}
	return out
}
