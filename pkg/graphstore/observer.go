package graphstore

import "github.com/orneryd/graphstore/pkg/pool"

// Observer captures per-version node/edge add/remove diffs for external
// subscribers, spec component L.
type Observer struct {
	graph *Graph

	trackDiffs bool
	snapNode   uint64
	snapEdge   uint64

	addedNodes   []int
	removedNodes []int
	addedEdges   []int
	removedEdges []int

	destroyed bool
}

// newObserver snapshots the graph's current versions. trackDiffs enables
// accumulation of added/removed slot ids between polls.
func newObserver(g *Graph, trackDiffs bool) *Observer {
	nv, ev := g.lock.snapshotVersions()
	return &Observer{graph: g, trackDiffs: trackDiffs, snapNode: nv, snapEdge: ev}
}

// HasGraphChanged compares the observer's snapshot to the graph's live
// counters, updates the snapshot, and reports whether a change occurred.
// Safe to call without holding any lock — version counters are
// writes-under-lock, reads-anywhere (spec §5).
func (o *Observer) HasGraphChanged() bool {
	nv, ev := o.graph.lock.snapshotVersions()
	changed := nv != o.snapNode || ev != o.snapEdge
	o.snapNode, o.snapEdge = nv, ev
	return changed
}

func (o *Observer) onNodeAdded(storeID int) {
	if o.trackDiffs {
		o.addedNodes = append(o.addedNodes, storeID)
	}
}

func (o *Observer) onNodeRemoved(storeID int) {
	if o.trackDiffs {
		o.removedNodes = append(o.removedNodes, storeID)
	}
}

func (o *Observer) onEdgeAdded(storeID int) {
	if o.trackDiffs {
		o.addedEdges = append(o.addedEdges, storeID)
	}
}

func (o *Observer) onEdgeRemoved(storeID int) {
	if o.trackDiffs {
		o.removedEdges = append(o.removedEdges, storeID)
	}
}

// Diff is the set of structural changes observed since the last Poll.
type Diff struct {
	AddedNodes   []int
	RemovedNodes []int
	AddedEdges   []int
	RemovedEdges []int
}

// Poll returns and clears the accumulated diff. It takes the graph's read
// lock itself (when AutoLocking is enabled) for the duration of the call.
func (o *Observer) Poll() Diff {
	o.graph.lockR()
	defer o.graph.unlockR()
	d := Diff{
		AddedNodes:   o.addedNodes,
		RemovedNodes: o.removedNodes,
		AddedEdges:   o.addedEdges,
		RemovedEdges: o.removedEdges,
	}
	o.addedNodes = pool.GetIntSlice()
	o.removedNodes = pool.GetIntSlice()
	o.addedEdges = pool.GetIntSlice()
	o.removedEdges = pool.GetIntSlice()
	return d
}

// Close unregisters the observer from its graph.
func (o *Observer) Close() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.graph.unregisterObserver(o)
}
