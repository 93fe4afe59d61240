package graphstore

import "github.com/orneryd/graphstore/pkg/typecatalog"

// nodeRecord is one live node: spec §3's node record, represented with
// slot indices rather than pointers per the arena-of-indices rewrite
// described in spec §9.
type nodeRecord struct {
	storeID int
	id      Value

	// Adjacency heads are the first edge slot of each per-type chain,
	// keyed by edge type id. A type whose chain is empty has no entry;
	// headOut/headIn/headUndir report -1 for it.
	outHead   map[int]int
	inHead    map[int]int
	undirHead map[int]int

	// selfLoopHead is the head of this node's private self-loop
	// singly-linked chain (see spec §4.H); -1 when empty.
	selfLoopHead int

	outDegree   map[int]int
	inDegree    map[int]int
	undirDegree map[int]int

	mutualCount   map[int]int // per edge type
	selfLoopCount map[int]int // per edge type

	attrs        []Value
	dynamicAttrs map[int]*dynamicAttr
}

func newNodeRecord(storeID int, id Value) *nodeRecord {
	return &nodeRecord{
		storeID:      storeID,
		id:           id,
		outHead:      make(map[int]int),
		inHead:       make(map[int]int),
		undirHead:    make(map[int]int),
		selfLoopHead: -1,
		outDegree:    make(map[int]int),
		inDegree:     make(map[int]int),
		undirDegree:  make(map[int]int),
		mutualCount:  make(map[int]int),
		selfLoopCount: make(map[int]int),
		dynamicAttrs: make(map[int]*dynamicAttr),
	}
}

// undirectedDegree is the "undirected sense" degree for one edge type:
// plain undirected edges of that type, plus directed edges of that type
// counted so a mutual pair contributes 1 (not 2) and a self-loop
// contributes 1 (not 2), per spec §4.H.
func (n *nodeRecord) undirectedDegree(typeID int) int {
	return n.undirDegree[typeID] + n.outDegree[typeID] + n.inDegree[typeID] -
		n.mutualCount[typeID] - n.selfLoopCount[typeID]
}

// totalUndirectedDegree aggregates undirectedDegree across every type the
// node participates in.
func (n *nodeRecord) totalUndirectedDegree() int {
	seen := make(map[int]struct{})
	for t := range n.outHead {
		seen[t] = struct{}{}
	}
	for t := range n.inHead {
		seen[t] = struct{}{}
	}
	for t := range n.undirHead {
		seen[t] = struct{}{}
	}
	for t := range n.selfLoopCount {
		seen[t] = struct{}{}
	}
	total := 0
	for t := range seen {
		total += n.undirectedDegree(t)
	}
	return total
}

func (n *nodeRecord) storeIDOf() int                      { return n.storeID }
func (n *nodeRecord) attrSlice() []Value                  { return n.attrs }
func (n *nodeRecord) setAttrSlice(s []Value)               { n.attrs = s }
func (n *nodeRecord) dynamicMap() map[int]*dynamicAttr    { return n.dynamicAttrs }

func (n *nodeRecord) headOut(t int) int {
	if h, ok := n.outHead[t]; ok {
		return h
	}
	return -1
}

func (n *nodeRecord) headIn(t int) int {
	if h, ok := n.inHead[t]; ok {
		return h
	}
	return -1
}

func (n *nodeRecord) headUndir(t int) int {
	if h, ok := n.undirHead[t]; ok {
		return h
	}
	return -1
}

// sumMap sums a per-type counter map across all edge types, used by the
// facade's GetOutDegree/GetInDegree with no type filter (GetDegree uses
// totalUndirectedDegree instead).
func sumMap(m map[int]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// nodeStore is the dense, slot-recycling node container, spec component F.
type nodeStore struct {
	alloc   slotAllocator
	records []*nodeRecord // storeID -> record; nil when the slot is free
	byID    map[hashKey]int
	idType  typecatalog.Type
}

func newNodeStore(idType typecatalog.Type) *nodeStore {
	return &nodeStore{byID: make(map[hashKey]int), idType: idType}
}

// get maps a user id through the hash table.
func (s *nodeStore) get(id Value) (*nodeRecord, bool) {
	storeID, ok := s.byID[toHashKey(id)]
	if !ok {
		return nil, false
	}
	return s.records[storeID], true
}

// getByStoreID is an O(1) indexed lookup.
func (s *nodeStore) getByStoreID(storeID int) (*nodeRecord, bool) {
	if storeID < 0 || storeID >= len(s.records) {
		return nil, false
	}
	r := s.records[storeID]
	return r, r != nil
}

// add allocates the smallest free slot for a new node with the given user
// id. Returns a Duplicate error if id is already present.
func (s *nodeStore) add(id Value) (*nodeRecord, error) {
	std, err := standardizeOrErr("addNode", id, s.idType)
	if err != nil {
		return nil, err
	}
	key := toHashKey(std)
	if _, exists := s.byID[key]; exists {
		return nil, newErr("addNode", Duplicate, "node id already present")
	}
	storeID := s.alloc.alloc()
	rec := newNodeRecord(storeID, std)
	for len(s.records) <= storeID {
		s.records = append(s.records, nil)
	}
	s.records[storeID] = rec
	s.byID[key] = storeID
	return rec, nil
}

// remove frees storeID's slot. Callers (the Graph facade) are responsible
// for splicing incident edges, clearing indices, and view bitsets before
// calling remove.
func (s *nodeStore) remove(storeID int) {
	rec := s.records[storeID]
	if rec == nil {
		return
	}
	delete(s.byID, toHashKey(rec.id))
	s.records[storeID] = nil
	s.alloc.release(storeID)
}

func (s *nodeStore) size() int {
	n := 0
	for _, r := range s.records {
		if r != nil {
			n++
		}
	}
	return n
}

// all returns live node records in storeID order (deterministic).
func (s *nodeStore) all() []*nodeRecord {
	out := make([]*nodeRecord, 0, len(s.records))
	for _, r := range s.records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// liveIDs returns the storeIDs of every live node, in order. Backs the
// no-op column index's "reads return the entire element set" contract.
func (s *nodeStore) liveIDs() []int {
	out := make([]int, 0, len(s.records))
	for _, r := range s.records {
		if r != nil {
			out = append(out, r.storeID)
		}
	}
	return out
}
