// Package graphstore is an embedded, in-memory graph data structure
// engine for large property graphs — directed, undirected, and mixed —
// with typed edges, columnar attributes, time-indexed attribute values,
// and multiple concurrent views over a shared base graph.
package graphstore

import (
	"github.com/orneryd/graphstore/pkg/pool"
	"go.uber.org/zap"
)

// Graph is the mutable graph core: node and edge stores, the edge-type
// and parallel-edge index, the view store, columnar attributes, the
// time-indexed attribute layer, and the locking/versioning/observer
// discipline that ties them together.
type Graph struct {
	config Config
	lock   *rwVersionLock

	nodes *nodeStore
	edges *edgeStore
	types *edgeTypeStore

	nodeTable *table
	edgeTable *table

	nodeTimeIndex *timeIndex
	edgeTimeIndex *timeIndex

	views    *viewStore
	mainView *View

	observers []*Observer

	weightColumn *column

	graphAttrs        map[string]Value
	graphDynamicAttrs map[string]*dynamicAttr
}

// New constructs a Graph from the given options, defaulting to string
// node/edge ids, a float64 weight column, TIMESTAMP dynamic attributes,
// and auto-locking enabled.
func New(opts ...GraphOption) *Graph {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{
		config:            cfg,
		lock:              newRWVersionLock(),
		views:             newViewStore(),
		graphAttrs:        make(map[string]Value),
		graphDynamicAttrs: make(map[string]*dynamicAttr),
	}
	g.nodeTable = newTable(nodeKind, func() []int { return g.nodes.liveIDs() })
	g.edgeTable = newTable(edgeKind, func() []int { return g.edges.liveIDs() })
	g.nodes = newNodeStore(cfg.NodeIDType)
	g.types = newEdgeTypeStore()
	g.edges = newEdgeStore(g.nodes, g.types, cfg.EdgeIDType, cfg.EdgeWeightColumn, cfg.EdgeWeightType)
	g.nodeTimeIndex = newTimeIndex(cfg.EnableIndexTime)
	g.edgeTimeIndex = newTimeIndex(cfg.EnableIndexTime)
	g.mainView = g.views.create(g, true, true)

	if cfg.EdgeWeightColumn {
		wc, err := g.edgeTable.addColumn("weight", "Weight", cfg.EdgeWeightType, "system", nil, true, false, false, false, Timestamp)
		if err != nil {
			logger.Warn("failed to create weight column", zap.Error(err))
		}
		g.weightColumn = wc
	}
	if cfg.EnableObservers && cfg.initialObserverDiffTracking {
		g.registerObserver(newObserver(g, true))
	}
	return g
}

// --- locking ---------------------------------------------------------

func (g *Graph) lockR() {
	if g.config.AutoLocking {
		g.lock.readLock()
	}
}

func (g *Graph) unlockR() {
	if g.config.AutoLocking {
		g.lock.readUnlock()
	}
}

func (g *Graph) lockW() {
	if g.config.AutoLocking {
		g.lock.writeLock()
	}
}

func (g *Graph) unlockW() {
	if g.config.AutoLocking {
		g.lock.writeUnlock()
	}
}

// Lock acquires the write lock. Used by manual-locking callers; no-op
// safety is the caller's responsibility when AutoLocking is enabled (the
// lock is reentrant, so calling it redundantly is harmless).
func (g *Graph) Lock() { g.lock.writeLock() }

// Unlock releases one nested write hold.
func (g *Graph) Unlock() { g.lock.writeUnlock() }

// RLock acquires a read lock.
func (g *Graph) RLock() { g.lock.readLock() }

// RUnlock releases one nested read hold.
func (g *Graph) RUnlock() { g.lock.readUnlock() }

// RUnlockAll releases every nested read hold of the calling goroutine.
func (g *Graph) RUnlockAll() { g.lock.readUnlockAll() }

// Version returns the current (nodeVersion, edgeVersion) pair.
func (g *Graph) Version() (nodeVersion, edgeVersion uint64) {
	return g.lock.snapshotVersions()
}

// Config returns a copy of the graph's construction-time configuration.
func (g *Graph) Config() Config { return g.config }

// --- node / edge mutation ---------------------------------------------

// AddNode creates a node with the given user id. Returns a Duplicate
// error if id is already present.
func (g *Graph) AddNode(id Value) (*Node, error) {
	g.lockW()
	defer g.unlockW()

	rec, err := g.nodes.add(id)
	if err != nil {
		logger.Warn("AddNode rejected", zap.Error(err))
		return nil, err
	}
	g.views.onNodeAdded(rec.storeID)
	g.lock.bumpNodeVersion()
	for _, obs := range g.observers {
		obs.onNodeAdded(rec.storeID)
	}
	if g.config.SpatialIndex != nil {
		g.config.SpatialIndex.OnNodeAdded(rec.storeID)
	}
	return &Node{g: g, storeID: rec.storeID}, nil
}

// AddEdge creates an edge of the given type between two existing nodes.
// typeLabel may be any hashable value; directed selects directed vs
// undirected semantics; weight is optional (pass nil to leave it unset).
func (g *Graph) AddEdge(id, srcID, dstID, typeLabel Value, directed bool, weight Value) (*Edge, error) {
	g.lockW()
	defer g.unlockW()

	srcRec, ok := g.nodes.get(srcID)
	if !ok {
		return nil, newErr("AddEdge", NotOwned, "source node not found")
	}
	dstRec, ok := g.nodes.get(dstID)
	if !ok {
		return nil, newErr("AddEdge", NotOwned, "target node not found")
	}

	typeID := g.types.intern(typeLabel)
	rec, err := g.edges.add(id, srcRec, dstRec, typeID, directed, weight)
	if err != nil {
		logger.Warn("AddEdge rejected", zap.Error(err))
		return nil, err
	}

	if g.weightColumn != nil && weight != nil {
		if err := setAttribute(g.weightColumn, rec, weight); err != nil {
			return nil, err
		}
	}

	g.views.onEdgeAdded(rec.storeID, srcRec.storeID, dstRec.storeID)
	g.lock.bumpEdgeVersion()
	for _, obs := range g.observers {
		obs.onEdgeAdded(rec.storeID)
	}
	return &Edge{g: g, storeID: rec.storeID}, nil
}

// RemoveNode removes the node with the given user id, splicing every
// incident edge first.
func (g *Graph) RemoveNode(id Value) error {
	g.lockW()
	defer g.unlockW()
	rec, ok := g.nodes.get(id)
	if !ok {
		return newErr("RemoveNode", NotOwned, "node not found")
	}
	return g.removeNodeByStoreID(rec.storeID)
}

// removeNodeByStoreID assumes the write lock is already held.
func (g *Graph) removeNodeByStoreID(storeID int) error {
	rec, ok := g.nodes.getByStoreID(storeID)
	if !ok {
		return newErr("removeNode", NotOwned, "node not found")
	}

	incident := g.edges.incidentEdgesOf(rec, nil, true)
	defer pool.PutIntSlice(incident)
	for _, eid := range incident {
		if err := g.removeEdgeByStoreID(eid); err != nil {
			logger.Warn("failed to splice incident edge during node removal", zap.Error(err))
		}
	}

	for _, col := range g.nodeTable.orderedColumns() {
		clearAttribute(col, rec)
	}
	for colID, d := range rec.dynamicAttrs {
		g.clearDynamicPoints(g.nodeTimeIndex, rec.storeID, d)
		delete(rec.dynamicAttrs, colID)
	}

	g.views.onNodeRemoved(rec.storeID)
	g.nodes.remove(rec.storeID)
	g.lock.bumpNodeVersion()
	for _, obs := range g.observers {
		obs.onNodeRemoved(rec.storeID)
	}
	if g.config.SpatialIndex != nil {
		g.config.SpatialIndex.OnNodeRemoved(rec.storeID)
	}
	return nil
}

// RemoveEdge removes the edge with the given user id.
func (g *Graph) RemoveEdge(id Value) error {
	g.lockW()
	defer g.unlockW()
	rec, ok := g.edges.get(id)
	if !ok {
		return newErr("RemoveEdge", NotOwned, "edge not found")
	}
	return g.removeEdgeByStoreID(rec.storeID)
}

// removeEdgeByStoreID assumes the write lock is already held; it is also
// called directly by AdjacencyIterator.Remove and by node removal's edge
// splicing.
func (g *Graph) removeEdgeByStoreID(storeID int) error {
	rec, ok := g.edges.getByStoreID(storeID)
	if !ok {
		return newErr("removeEdge", NotOwned, "edge not found")
	}

	for _, col := range g.edgeTable.orderedColumns() {
		clearAttribute(col, rec)
	}
	for colID, d := range rec.dynamicAttrs {
		g.clearDynamicPoints(g.edgeTimeIndex, rec.storeID, d)
		delete(rec.dynamicAttrs, colID)
	}

	g.views.onEdgeRemoved(storeID)
	g.edges.remove(storeID)
	g.lock.bumpEdgeVersion()
	for _, obs := range g.observers {
		obs.onEdgeRemoved(storeID)
	}
	return nil
}

func (g *Graph) clearDynamicPoints(ti *timeIndex, elementStoreID int, d *dynamicAttr) {
	if d.rep == Timestamp {
		for t := range d.timestamps {
			ti.unregisterPoint(elementStoreID, t)
		}
		return
	}
	for _, e := range d.intervals {
		ti.unregisterPoint(elementStoreID, e.iv.low)
	}
}

// --- read accessors ----------------------------------------------------

// Contains reports whether a node with the given user id exists.
func (g *Graph) Contains(id Value) bool {
	g.lockR()
	defer g.unlockR()
	_, ok := g.nodes.get(id)
	return ok
}

// GetNode looks up a node by user id.
func (g *Graph) GetNode(id Value) (*Node, bool) {
	g.lockR()
	defer g.unlockR()
	rec, ok := g.nodes.get(id)
	if !ok {
		return nil, false
	}
	return &Node{g: g, storeID: rec.storeID}, true
}

// GetEdgeByID looks up an edge by user id.
func (g *Graph) GetEdgeByID(id Value) (*Edge, bool) {
	g.lockR()
	defer g.unlockR()
	rec, ok := g.edges.get(id)
	if !ok {
		return nil, false
	}
	return &Edge{g: g, storeID: rec.storeID}, true
}

// GetEdgeBetween returns the edge of the given type between src and dst,
// honoring undirected's unordered-pair semantics.
func (g *Graph) GetEdgeBetween(srcID, dstID, typeLabel Value, directed bool) (*Edge, bool) {
	g.lockR()
	defer g.unlockR()
	src, ok := g.nodes.get(srcID)
	if !ok {
		return nil, false
	}
	dst, ok := g.nodes.get(dstID)
	if !ok {
		return nil, false
	}
	typeID, ok := g.types.typeOf(typeLabel)
	if !ok {
		return nil, false
	}
	rec, ok := g.edges.getKeyed(src.storeID, dst.storeID, typeID, directed)
	if !ok {
		return nil, false
	}
	return &Edge{g: g, storeID: rec.storeID}, true
}

// IsAdjacent reports whether a and b are joined by at least one edge,
// in either direction, optionally restricted to one edge type.
func (g *Graph) IsAdjacent(a, b *Node, typeLabel Value) bool {
	for _, nb := range a.GetNeighbors(typeLabel) {
		if nb.storeID == b.storeID {
			return true
		}
	}
	return false
}

// IsIncident reports whether node is one of edge's endpoints.
func (g *Graph) IsIncident(node *Node, edge *Edge) bool {
	g.lockR()
	defer g.unlockR()
	rec, ok := edge.record()
	if !ok {
		return false
	}
	return rec.src == node.storeID || rec.dst == node.storeID
}

// ClearEdgesOfNode removes every edge incident to node, optionally
// restricted to one edge type.
func (g *Graph) ClearEdgesOfNode(node *Node, typeLabel Value) {
	g.lockW()
	defer g.unlockW()
	rec, ok := node.record()
	if !ok {
		return
	}
	var tf *int
	if typeLabel != nil {
		if typeID, ok := g.types.typeOf(typeLabel); ok {
			tf = &typeID
		} else {
			return
		}
	}
	ids := g.edges.incidentEdgesOf(rec, tf, true)
	defer pool.PutIntSlice(ids)
	for _, id := range ids {
		_ = g.removeEdgeByStoreID(id)
	}
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	g.lockR()
	defer g.unlockR()
	return g.nodes.size()
}

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int {
	g.lockR()
	defer g.unlockR()
	return g.edges.size()
}

// IsDirectedGraph, IsUndirectedGraph, and IsMixedGraph inspect the global
// directed/undirected edge counters maintained by the edge type store.
func (g *Graph) IsDirectedGraph() bool {
	g.lockR()
	defer g.unlockR()
	return g.types.isDirectedGraph()
}

func (g *Graph) IsUndirectedGraph() bool {
	g.lockR()
	defer g.unlockR()
	return g.types.isUndirectedGraph()
}

func (g *Graph) IsMixedGraph() bool {
	g.lockR()
	defer g.unlockR()
	return g.types.isMixedGraph()
}

// --- bulk clear ----------------------------------------------------

// Clear removes every node and edge.
func (g *Graph) Clear() {
	g.lockW()
	defer g.unlockW()
	for _, rec := range g.nodes.all() {
		_ = g.removeNodeByStoreID(rec.storeID)
	}
}

// ClearEdges removes every edge, optionally restricted to typeLabel.
func (g *Graph) ClearEdges(typeLabel Value) {
	g.lockW()
	defer g.unlockW()
	var typeID *int
	if typeLabel != nil {
		if id, ok := g.types.typeOf(typeLabel); ok {
			typeID = &id
		} else {
			return
		}
	}
	for _, rec := range g.edges.all() {
		if typeID == nil || rec.typeID == *typeID {
			_ = g.removeEdgeByStoreID(rec.storeID)
		}
	}
}

// --- graph-level attributes ---------------------------------------

// GetGraphAttribute returns a graph-level attribute value.
func (g *Graph) GetGraphAttribute(key string) (Value, bool) {
	g.lockR()
	defer g.unlockR()
	v, ok := g.graphAttrs[key]
	return v, ok
}

// SetGraphAttribute sets a graph-level attribute value.
func (g *Graph) SetGraphAttribute(key string, value Value) {
	g.lockW()
	defer g.unlockW()
	g.graphAttrs[key] = value
}

// SetGraphAttributeAtTime sets a graph-level dynamic attribute's value at
// a point in time.
func (g *Graph) SetGraphAttributeAtTime(key string, t float64, value Value, rep TimeRepresentation) {
	g.lockW()
	defer g.unlockW()
	d, ok := g.graphDynamicAttrs[key]
	if !ok {
		d = newDynamicAttr(rep)
		g.graphDynamicAttrs[key] = d
	}
	_ = d.setAtTime(t, value)
}

// GetGraphAttributeAtTime returns every graph-level dynamic attribute
// value active at time t for key.
func (g *Graph) GetGraphAttributeAtTime(key string, t float64) []Value {
	g.lockR()
	defer g.unlockR()
	d, ok := g.graphDynamicAttrs[key]
	if !ok {
		return nil
	}
	return d.queryPoint(t)
}

// --- observers -------------------------------------------------------

// NewObserver creates and registers a new observer.
func (g *Graph) NewObserver(trackDiffs bool) *Observer {
	g.lockW()
	defer g.unlockW()
	o := newObserver(g, trackDiffs)
	g.registerObserver(o)
	return o
}

func (g *Graph) registerObserver(o *Observer) {
	g.observers = append(g.observers, o)
}

// Observers returns the currently registered observers, including the one
// created at construction by WithObservers(true).
func (g *Graph) Observers() []*Observer {
	g.lockR()
	defer g.unlockR()
	return append([]*Observer(nil), g.observers...)
}

func (g *Graph) unregisterObserver(o *Observer) {
	g.lockW()
	defer g.unlockW()
	for i, existing := range g.observers {
		if existing == o {
			g.observers = append(g.observers[:i], g.observers[i+1:]...)
			return
		}
	}
}

// --- views -----------------------------------------------------------

// MainView returns the always-present view over the entire graph. Set
// algebra operations on it return an Unsupported error.
func (g *Graph) MainView() *View { return g.mainView }

// NewView creates a new, initially empty view. autoInclude controls
// whether the view tracks future node/edge additions automatically.
func (g *Graph) NewView(autoInclude bool) *View {
	g.lockW()
	defer g.unlockW()
	return g.views.create(g, autoInclude, false)
}

// DestroyView releases v's storeID back to the free-list and rejects all
// further operations on it.
func (g *Graph) DestroyView(v *View) {
	g.lockW()
	defer g.unlockW()
	g.views.destroy(v)
}

// --- tables ------------------------------------------------------------

// NodeTable returns the node attribute table.
func (g *Graph) NodeTable() *Table { return &Table{g: g, t: g.nodeTable} }

// EdgeTable returns the edge attribute table.
func (g *Graph) EdgeTable() *Table { return &Table{g: g, t: g.edgeTable} }
