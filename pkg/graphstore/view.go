package graphstore

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

// View is a filtered subgraph over a shared base graph: two compact
// bitsets (nodes, edges) that stay coherent under base-graph mutation,
// spec component J. Backed by a compressed roaring bitmap rather than a
// hand-rolled bitset, since both store nothing but dense small integers
// and RoaringBitmap is exactly that structure's idiomatic Go form.
type View struct {
	storeID     int
	graph       *Graph
	nodeBitmap  *roaring.Bitmap
	edgeBitmap  *roaring.Bitmap
	autoInclude bool
	isMain      bool
	destroyed   bool
}

// IsDestroyed reports whether Destroy has already been called.
func (v *View) IsDestroyed() bool { return v.destroyed }

// requireLive rejects operations on a destroyed view, per spec §4.J
// ("destroyed views have storeId = -1 and reject all further operations").
func (v *View) requireLive(op string) error {
	if v.destroyed {
		return newErr(op, ProgrammingError, "view is destroyed")
	}
	return nil
}

// AddNode adds a node (by storeID) to the view's node bitset.
func (v *View) AddNode(nodeStoreID uint32) error {
	if err := v.requireLive("AddNode"); err != nil {
		return err
	}
	v.nodeBitmap.Add(nodeStoreID)
	return nil
}

// RemoveNode removes a node from the view's node bitset and, per the
// closure invariant, also removes that node's incident edges from the
// edge bitset.
func (v *View) RemoveNode(nodeStoreID uint32) error {
	if err := v.requireLive("RemoveNode"); err != nil {
		return err
	}
	v.nodeBitmap.Remove(nodeStoreID)
	var drop []uint32
	it := v.edgeBitmap.Iterator()
	for it.HasNext() {
		edgeID := it.Next()
		e, ok := v.graph.edges.getByStoreID(int(edgeID))
		if ok && (e.src == int(nodeStoreID) || e.dst == int(nodeStoreID)) {
			drop = append(drop, edgeID)
		}
	}
	for _, edgeID := range drop {
		v.edgeBitmap.Remove(edgeID)
	}
	return nil
}

// AddEdge adds an edge to the view's edge bitset, enforcing the closure
// invariant of spec §4.J: an edge may only join a view once both of its
// endpoints are already members of that view's node bitset.
func (v *View) AddEdge(edgeStoreID uint32) error {
	if err := v.requireLive("AddEdge"); err != nil {
		return err
	}
	e, ok := v.graph.edges.getByStoreID(int(edgeStoreID))
	if !ok {
		return newErr("AddEdge", NotOwned, "no such edge")
	}
	if !v.nodeBitmap.Contains(uint32(e.src)) || !v.nodeBitmap.Contains(uint32(e.dst)) {
		return newErr("AddEdge", ProgrammingError, "edge endpoints are not both members of this view")
	}
	v.edgeBitmap.Add(edgeStoreID)
	return nil
}

// RemoveEdge removes an edge from the view's edge bitset.
func (v *View) RemoveEdge(edgeStoreID uint32) error {
	if err := v.requireLive("RemoveEdge"); err != nil {
		return err
	}
	v.edgeBitmap.Remove(edgeStoreID)
	return nil
}

func (v *View) ContainsNode(nodeStoreID uint32) bool {
	return !v.destroyed && v.nodeBitmap.Contains(nodeStoreID)
}

func (v *View) ContainsEdge(edgeStoreID uint32) bool {
	return !v.destroyed && v.edgeBitmap.Contains(edgeStoreID)
}

func (v *View) NodeCount() uint64 { return v.nodeBitmap.GetCardinality() }
func (v *View) EdgeCount() uint64 { return v.edgeBitmap.GetCardinality() }

// Nodes returns every node currently in the view, per the "full graph
// interface restricted to the view" surface.
func (v *View) Nodes() []*Node {
	if v.destroyed {
		return nil
	}
	out := make([]*Node, 0, v.nodeBitmap.GetCardinality())
	it := v.nodeBitmap.Iterator()
	for it.HasNext() {
		out = append(out, &Node{g: v.graph, storeID: int(it.Next())})
	}
	return out
}

// Edges returns every edge currently in the view.
func (v *View) Edges() []*Edge {
	if v.destroyed {
		return nil
	}
	out := make([]*Edge, 0, v.edgeBitmap.GetCardinality())
	it := v.edgeBitmap.Iterator()
	for it.HasNext() {
		out = append(out, &Edge{g: v.graph, storeID: int(it.Next())})
	}
	return out
}

// GetDegree returns the count of edges in v.edges incident to node,
// recomputed lazily on every call by scanning the edge bitmap — the
// "observable result matches view.edges" contract of spec §4.J, open
// question (b), leaving the caching strategy unspecified.
func (v *View) GetDegree(nodeStoreID uint32) int {
	if v.destroyed {
		return 0
	}
	rec, ok := v.graph.nodes.getByStoreID(int(nodeStoreID))
	if !ok {
		return 0
	}
	degree := 0
	it := v.edgeBitmap.Iterator()
	for it.HasNext() {
		edgeID := int(it.Next())
		e, ok := v.graph.edges.getByStoreID(edgeID)
		if ok && (e.src == rec.storeID || e.dst == rec.storeID) {
			degree++
		}
	}
	return degree
}

// Union mutates v in place to be the union of v and other.
func (v *View) Union(other *View) error {
	if v.isMain {
		return newErr("Union", Unsupported, "set algebra is not supported on the main view")
	}
	if err := v.requireLive("Union"); err != nil {
		return err
	}
	v.nodeBitmap.Or(other.nodeBitmap)
	v.edgeBitmap.Or(other.edgeBitmap)
	return nil
}

// Intersection mutates v in place to be the intersection of v and other.
func (v *View) Intersection(other *View) error {
	if v.isMain {
		return newErr("Intersection", Unsupported, "set algebra is not supported on the main view")
	}
	if err := v.requireLive("Intersection"); err != nil {
		return err
	}
	v.nodeBitmap.And(other.nodeBitmap)
	v.edgeBitmap.And(other.edgeBitmap)
	return nil
}

// Not complements v's bitsets within the base graph's current elements.
func (v *View) Not() error {
	if v.isMain {
		return newErr("Not", Unsupported, "set algebra is not supported on the main view")
	}
	if err := v.requireLive("Not"); err != nil {
		return err
	}
	maxNode := uint64(v.graph.nodes.alloc.len())
	maxEdge := uint64(v.graph.edges.alloc.len())
	v.nodeBitmap.Flip(0, maxNode)
	v.edgeBitmap.Flip(0, maxEdge)
	v.pruneToLive()
	return nil
}

// Fill sets v to contain every live node and edge of the base graph.
func (v *View) Fill() error {
	if err := v.requireLive("Fill"); err != nil {
		return err
	}
	for _, n := range v.graph.nodes.all() {
		v.nodeBitmap.Add(uint32(n.storeID))
	}
	for _, e := range v.graph.edges.all() {
		v.edgeBitmap.Add(uint32(e.storeID))
	}
	return nil
}

// Clear empties both bitsets.
func (v *View) Clear() error {
	if err := v.requireLive("Clear"); err != nil {
		return err
	}
	v.nodeBitmap.Clear()
	v.edgeBitmap.Clear()
	return nil
}

// pruneToLive drops any bit set for a node/edge storeID that is no longer
// live, which Not() can otherwise introduce by flipping freed slots back
// on.
func (v *View) pruneToLive() {
	live := roaring.New()
	for _, n := range v.graph.nodes.all() {
		live.Add(uint32(n.storeID))
	}
	v.nodeBitmap.And(live)

	live.Clear()
	for _, e := range v.graph.edges.all() {
		live.Add(uint32(e.storeID))
	}
	v.edgeBitmap.And(live)
}

// viewStore owns every live view, recycled through the usual min-heap
// free-list pattern.
type viewStore struct {
	alloc slotAllocator
	views []*View
}

func newViewStore() *viewStore {
	return &viewStore{}
}

func (vs *viewStore) create(g *Graph, autoInclude, isMain bool) *View {
	storeID := vs.alloc.alloc()
	v := &View{
		storeID:     storeID,
		graph:       g,
		nodeBitmap:  roaring.New(),
		edgeBitmap:  roaring.New(),
		autoInclude: autoInclude,
		isMain:      isMain,
	}
	for len(vs.views) <= storeID {
		vs.views = append(vs.views, nil)
	}
	vs.views[storeID] = v
	return v
}

func (vs *viewStore) destroy(v *View) {
	if v.destroyed {
		return
	}
	v.destroyed = true
	vs.views[v.storeID] = nil
	vs.alloc.release(v.storeID)
	v.storeID = -1
}

func (vs *viewStore) liveViews() []*View {
	out := make([]*View, 0, len(vs.views))
	for _, v := range vs.views {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (vs *viewStore) onNodeAdded(storeID int) {
	for _, v := range vs.liveViews() {
		if v.autoInclude {
			v.nodeBitmap.Add(uint32(storeID))
		}
	}
}

func (vs *viewStore) onNodeRemoved(storeID int) {
	for _, v := range vs.liveViews() {
		v.nodeBitmap.Remove(uint32(storeID))
	}
}

func (vs *viewStore) onEdgeAdded(storeID, src, dst int) {
	for _, v := range vs.liveViews() {
		if v.autoInclude && v.nodeBitmap.Contains(uint32(src)) && v.nodeBitmap.Contains(uint32(dst)) {
			v.edgeBitmap.Add(uint32(storeID))
		}
	}
}

func (vs *viewStore) onEdgeRemoved(storeID int) {
	for _, v := range vs.liveViews() {
		v.edgeBitmap.Remove(uint32(storeID))
	}
}
