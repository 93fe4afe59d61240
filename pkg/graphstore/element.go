package graphstore

import "github.com/orneryd/graphstore/pkg/pool"

// Node is a thin, storeID-addressed handle onto a live node record. It
// stays valid only as long as the node it names has not itself been
// removed — callers that hold a Node across a Remove of a different node
// are unaffected, since the handle addresses only its own slot. Once the
// named node is removed, its storeID is freed for reuse, and a later
// AddNode may place a different node in that slot.
type Node struct {
	g       *Graph
	storeID int
}

// StoreID returns the node's dense internal id (component F).
func (n *Node) StoreID() int { return n.storeID }

// ID returns the node's user-assigned id.
func (n *Node) ID() Value {
	n.g.lockR()
	defer n.g.unlockR()
	rec, ok := n.g.nodes.getByStoreID(n.storeID)
	if !ok {
		return nil
	}
	return rec.id
}

func (n *Node) record() (*nodeRecord, bool) {
	return n.g.nodes.getByStoreID(n.storeID)
}

// GetOutDegree returns the node's out-degree, optionally restricted to
// one edge type (pass nil for the total across all types).
func (n *Node) GetOutDegree(typeLabel Value) int {
	n.g.lockR()
	defer n.g.unlockR()
	rec, ok := n.record()
	if !ok {
		return 0
	}
	if typeLabel == nil {
		return sumMap(rec.outDegree)
	}
	typeID, ok := n.g.types.typeOf(typeLabel)
	if !ok {
		return 0
	}
	return rec.outDegree[typeID]
}

// GetInDegree returns the node's in-degree, optionally restricted to one
// edge type.
func (n *Node) GetInDegree(typeLabel Value) int {
	n.g.lockR()
	defer n.g.unlockR()
	rec, ok := n.record()
	if !ok {
		return 0
	}
	if typeLabel == nil {
		return sumMap(rec.inDegree)
	}
	typeID, ok := n.g.types.typeOf(typeLabel)
	if !ok {
		return 0
	}
	return rec.inDegree[typeID]
}

// GetDegree returns the node's degree "in the undirected sense" per
// component H's degree semantics, optionally restricted to one edge type.
func (n *Node) GetDegree(typeLabel Value) int {
	n.g.lockR()
	defer n.g.unlockR()
	rec, ok := n.record()
	if !ok {
		return 0
	}
	if typeLabel == nil {
		return rec.totalUndirectedDegree()
	}
	typeID, ok := n.g.types.typeOf(typeLabel)
	if !ok {
		return 0
	}
	return rec.undirectedDegree(typeID)
}

// GetOutEdges returns every edge for which this node is the source,
// optionally restricted to one edge type.
func (n *Node) GetOutEdges(typeLabel Value) []*Edge {
	return n.collectEdges(typeLabel, false, func(rec *nodeRecord, tf *int) []int {
		return n.g.edges.outEdgesOf(rec, tf)
	})
}

// GetInEdges returns every edge for which this node is the target,
// optionally restricted to one edge type.
func (n *Node) GetInEdges(typeLabel Value) []*Edge {
	return n.collectEdges(typeLabel, false, func(rec *nodeRecord, tf *int) []int {
		return n.g.edges.inEdgesOf(rec, tf)
	})
}

// GetEdges returns every edge incident to this node (out, in, undirected,
// and self-loops), optionally restricted to one edge type.
func (n *Node) GetEdges(typeLabel Value) []*Edge {
	return n.collectEdges(typeLabel, true, func(rec *nodeRecord, tf *int) []int {
		return n.g.edges.incidentEdgesOf(rec, tf, true)
	})
}

// GetSelfLoops returns this node's self-loop edges, optionally restricted
// to one edge type.
func (n *Node) GetSelfLoops(typeLabel Value) []*Edge {
	return n.collectEdges(typeLabel, false, func(rec *nodeRecord, tf *int) []int {
		return n.g.edges.selfLoopsOf(rec, tf)
	})
}

func (n *Node) collectEdges(typeLabel Value, _ bool, collect func(*nodeRecord, *int) []int) []*Edge {
	n.g.lockR()
	defer n.g.unlockR()
	rec, ok := n.record()
	if !ok {
		return nil
	}
	var tf *int
	if typeLabel != nil {
		typeID, ok := n.g.types.typeOf(typeLabel)
		if !ok {
			return nil
		}
		tf = &typeID
	}
	ids := collect(rec, tf)
	defer pool.PutIntSlice(ids)
	out := make([]*Edge, len(ids))
	for i, id := range ids {
		out[i] = &Edge{g: n.g, storeID: id}
	}
	return out
}

// GetNeighbors returns the set of distinct nodes reachable by one
// incident edge of this node, optionally restricted to one edge type.
func (n *Node) GetNeighbors(typeLabel Value) []*Node {
	edges := n.GetEdges(typeLabel)
	seen := make(map[int]struct{}, len(edges))
	out := make([]*Node, 0, len(edges))
	for _, e := range edges {
		rec, ok := e.record()
		if !ok {
			continue
		}
		other := rec.src
		if other == n.storeID {
			other = rec.dst
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, &Node{g: n.g, storeID: other})
	}
	return out
}

// GetPredecessors returns the distinct source nodes of this node's
// incoming edges, optionally restricted to one edge type.
func (n *Node) GetPredecessors(typeLabel Value) []*Node {
	edges := n.GetInEdges(typeLabel)
	return distinctOtherEndpoints(n, edges)
}

// GetSuccessors returns the distinct target nodes of this node's
// outgoing edges, optionally restricted to one edge type.
func (n *Node) GetSuccessors(typeLabel Value) []*Node {
	edges := n.GetOutEdges(typeLabel)
	return distinctOtherEndpoints(n, edges)
}

func distinctOtherEndpoints(n *Node, edges []*Edge) []*Node {
	seen := make(map[int]struct{}, len(edges))
	out := make([]*Node, 0, len(edges))
	for _, e := range edges {
		rec, ok := e.record()
		if !ok {
			continue
		}
		other := rec.src
		if other == n.storeID {
			other = rec.dst
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, &Node{g: n.g, storeID: other})
	}
	return out
}

// NewIterator returns an AdjacencyIterator over this node's incident
// edges, optionally restricted to one edge type.
func (n *Node) NewIterator(typeLabel Value, includeSelfLoops bool) *AdjacencyIterator {
	n.g.lockR()
	rec, ok := n.record()
	if !ok {
		n.g.unlockR()
		return n.g.newAdjacencyIterator(nil)
	}
	var tf *int
	if typeLabel != nil {
		if typeID, ok := n.g.types.typeOf(typeLabel); ok {
			tf = &typeID
		}
	}
	ids := n.g.edges.incidentEdgesOf(rec, tf, includeSelfLoops)
	n.g.unlockR()
	return n.g.newAdjacencyIterator(ids)
}

// GetAttribute reads one node-table column's value for this node.
func (n *Node) GetAttribute(columnID string) (Value, error) {
	n.g.lockR()
	defer n.g.unlockR()
	col, ok := n.g.nodeTable.getColumn(columnID)
	if !ok {
		return nil, newErr("GetAttribute", NotOwned, "no such column: "+columnID)
	}
	rec, ok := n.record()
	if !ok {
		return nil, newErr("GetAttribute", NotOwned, "node no longer live")
	}
	return getAttribute(n.g.nodeTable, rec, col), nil
}

// SetAttribute writes one node-table column's value for this node.
func (n *Node) SetAttribute(columnID string, value Value) error {
	n.g.lockW()
	defer n.g.unlockW()
	col, ok := n.g.nodeTable.getColumn(columnID)
	if !ok {
		return newErr("SetAttribute", NotOwned, "no such column: "+columnID)
	}
	rec, ok := n.record()
	if !ok {
		return newErr("SetAttribute", NotOwned, "node no longer live")
	}
	return setAttribute(col, rec, value)
}

// SetAttributeAtTime writes a point-in-time value into a dynamic column.
func (n *Node) SetAttributeAtTime(columnID string, t float64, value Value) error {
	n.g.lockW()
	defer n.g.unlockW()
	col, ok := n.g.nodeTable.getColumn(columnID)
	if !ok {
		return newErr("SetAttributeAtTime", NotOwned, "no such column: "+columnID)
	}
	rec, ok := n.record()
	if !ok {
		return newErr("SetAttributeAtTime", NotOwned, "node no longer live")
	}
	return setAttributeAtTime(col, rec, n.g.nodeTimeIndex, t, value)
}

// SetAttributeAtInterval writes an interval-valued entry into a dynamic
// column configured for INTERVAL representation.
func (n *Node) SetAttributeAtInterval(columnID string, low, high float64, lowOpen, highOpen bool, value Value) error {
	n.g.lockW()
	defer n.g.unlockW()
	col, ok := n.g.nodeTable.getColumn(columnID)
	if !ok {
		return newErr("SetAttributeAtInterval", NotOwned, "no such column: "+columnID)
	}
	rec, ok := n.record()
	if !ok {
		return newErr("SetAttributeAtInterval", NotOwned, "node no longer live")
	}
	iv := interval{low: low, high: high, lowOpen: lowOpen, highOpen: highOpen}
	return setAttributeAtInterval(col, rec, n.g.nodeTimeIndex, iv, value)
}

// GetAttributeAtTime returns every value active at time t for columnID.
func (n *Node) GetAttributeAtTime(columnID string, t float64) ([]Value, error) {
	n.g.lockR()
	defer n.g.unlockR()
	col, ok := n.g.nodeTable.getColumn(columnID)
	if !ok {
		return nil, newErr("GetAttributeAtTime", NotOwned, "no such column: "+columnID)
	}
	rec, ok := n.record()
	if !ok {
		return nil, newErr("GetAttributeAtTime", NotOwned, "node no longer live")
	}
	return getAttributeAtTime(col, rec, t), nil
}

// Edge is a thin, storeID-addressed handle onto a live edge record.
type Edge struct {
	g       *Graph
	storeID int
}

// StoreID returns the edge's dense internal id.
func (e *Edge) StoreID() int { return e.storeID }

func (e *Edge) record() (*edgeRecord, bool) {
	return e.g.edges.getByStoreID(e.storeID)
}

// ID returns the edge's user-assigned id.
func (e *Edge) ID() Value {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	if !ok {
		return nil
	}
	return rec.id
}

// Source returns the edge's source node.
func (e *Edge) Source() *Node {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	if !ok {
		return nil
	}
	return &Node{g: e.g, storeID: rec.src}
}

// Target returns the edge's target node.
func (e *Edge) Target() *Node {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	if !ok {
		return nil
	}
	return &Node{g: e.g, storeID: rec.dst}
}

// GetOpposite returns the node at the other end of this edge from node,
// an error if node is not one of the edge's endpoints.
func (e *Edge) GetOpposite(node *Node) (*Node, error) {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	if !ok {
		return nil, newErr("GetOpposite", NotOwned, "edge no longer live")
	}
	switch node.storeID {
	case rec.src:
		return &Node{g: e.g, storeID: rec.dst}, nil
	case rec.dst:
		return &Node{g: e.g, storeID: rec.src}, nil
	default:
		return nil, newErr("GetOpposite", NotOwned, "node is not an endpoint of this edge")
	}
}

// Type returns the edge's type label.
func (e *Edge) Type() Value {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	if !ok {
		return nil
	}
	label, _ := e.g.types.labelOf(rec.typeID)
	return label
}

// IsDirected reports whether this edge carries directed semantics.
func (e *Edge) IsDirected() bool {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	return ok && rec.directed
}

// IsSelfLoop reports whether this edge's source and target are the same
// node.
func (e *Edge) IsSelfLoop() bool {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	return ok && rec.isSelfLoop()
}

// GetMutual returns this edge's reverse-direction counterpart, if one
// exists — the pairing that makes a mutual directed pair count as degree
// 1 rather than 2 in the undirected sense.
func (e *Edge) GetMutual() (*Edge, bool) {
	e.g.lockR()
	defer e.g.unlockR()
	rec, ok := e.record()
	if !ok {
		return nil, false
	}
	other, ok := e.g.edges.mutualOf(rec)
	if !ok {
		return nil, false
	}
	return &Edge{g: e.g, storeID: other.storeID}, true
}

// Weight returns the edge's weight-column value, if a weight column is
// configured.
func (e *Edge) Weight() (Value, error) {
	if e.g.weightColumn == nil {
		return nil, newErr("Weight", Unsupported, "no weight column is configured")
	}
	return e.GetAttribute(e.g.weightColumn.id)
}

// SetWeight writes the edge's weight-column value.
func (e *Edge) SetWeight(weight Value) error {
	if e.g.weightColumn == nil {
		return newErr("SetWeight", Unsupported, "no weight column is configured")
	}
	return e.SetAttribute(e.g.weightColumn.id, weight)
}

// GetAttribute reads one edge-table column's value for this edge.
func (e *Edge) GetAttribute(columnID string) (Value, error) {
	e.g.lockR()
	defer e.g.unlockR()
	col, ok := e.g.edgeTable.getColumn(columnID)
	if !ok {
		return nil, newErr("GetAttribute", NotOwned, "no such column: "+columnID)
	}
	rec, ok := e.record()
	if !ok {
		return nil, newErr("GetAttribute", NotOwned, "edge no longer live")
	}
	return getAttribute(e.g.edgeTable, rec, col), nil
}

// SetAttribute writes one edge-table column's value for this edge.
func (e *Edge) SetAttribute(columnID string, value Value) error {
	e.g.lockW()
	defer e.g.unlockW()
	col, ok := e.g.edgeTable.getColumn(columnID)
	if !ok {
		return newErr("SetAttribute", NotOwned, "no such column: "+columnID)
	}
	rec, ok := e.record()
	if !ok {
		return newErr("SetAttribute", NotOwned, "edge no longer live")
	}
	return setAttribute(col, rec, value)
}

// SetAttributeAtTime writes a point-in-time value into a dynamic column.
func (e *Edge) SetAttributeAtTime(columnID string, t float64, value Value) error {
	e.g.lockW()
	defer e.g.unlockW()
	col, ok := e.g.edgeTable.getColumn(columnID)
	if !ok {
		return newErr("SetAttributeAtTime", NotOwned, "no such column: "+columnID)
	}
	rec, ok := e.record()
	if !ok {
		return newErr("SetAttributeAtTime", NotOwned, "edge no longer live")
	}
	return setAttributeAtTime(col, rec, e.g.edgeTimeIndex, t, value)
}

// GetAttributeAtTime returns every value active at time t for columnID.
func (e *Edge) GetAttributeAtTime(columnID string, t float64) ([]Value, error) {
	e.g.lockR()
	defer e.g.unlockR()
	col, ok := e.g.edgeTable.getColumn(columnID)
	if !ok {
		return nil, newErr("GetAttributeAtTime", NotOwned, "no such column: "+columnID)
	}
	rec, ok := e.record()
	if !ok {
		return nil, newErr("GetAttributeAtTime", NotOwned, "edge no longer live")
	}
	return getAttributeAtTime(col, rec, t), nil
}
