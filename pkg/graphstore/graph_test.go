package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/graphstore/pkg/typecatalog"
)

func addTriangle(t *testing.T, g *Graph) (a, b, c *Node) {
	t.Helper()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err = g.AddNode("B")
	require.NoError(t, err)
	c, err = g.AddNode("C")
	require.NoError(t, err)
	_, err = g.AddEdge("e-ab", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e-bc", "B", "C", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e-ca", "C", "A", "knows", true, nil)
	require.NoError(t, err)
	return a, b, c
}

func TestDirectedTriangle(t *testing.T) {
	g := New()
	a, _, _ := addTriangle(t, g)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 1, a.GetOutDegree(nil))
	assert.Equal(t, 1, a.GetInDegree(nil))

	neighbors := a.GetNeighbors(nil)
	names := map[string]bool{}
	for _, n := range neighbors {
		names[n.ID().(string)] = true
	}
	assert.True(t, names["B"])
	assert.True(t, names["C"])

	edgeAB, ok := g.GetEdgeBetween("A", "B", "knows", true)
	require.True(t, ok)
	assert.Equal(t, "e-ab", edgeAB.ID())
	_, hasMutual := edgeAB.GetMutual()
	assert.False(t, hasMutual)
}

func TestParallelEdgeRejection(t *testing.T) {
	g := New()
	_, err := g.AddNode("A")
	require.NoError(t, err)
	_, err = g.AddNode("B")
	require.NoError(t, err)
	_, err = g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	_, err = g.AddEdge("e2", "A", "B", "knows", true, nil)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, Duplicate, kind)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestSelfLoop(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)

	_, err = g.AddEdge("loop", "A", "A", "knows", true, nil)
	require.NoError(t, err)

	loops := a.GetSelfLoops(nil)
	require.Len(t, loops, 1)
	assert.Equal(t, "loop", loops[0].ID())

	assert.Equal(t, 1, a.GetDegree(nil))
	assert.Equal(t, 1, a.GetInDegree(nil))
	assert.Equal(t, 1, a.GetOutDegree(nil))

	_, err = g.AddEdge("loop2", "A", "A", "knows", true, nil)
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, Duplicate, kind)
}

func TestMutualDirectedPair(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	_, err = g.AddNode("B")
	require.NoError(t, err)

	_, err = g.AddEdge("ab", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("ba", "B", "A", "knows", true, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, a.GetOutDegree(nil))
	assert.Equal(t, 1, a.GetInDegree(nil))
	assert.Equal(t, 1, a.GetDegree(nil))
}

func TestSlotRecycling(t *testing.T) {
	g := New()
	n1, err := g.AddNode("N1")
	require.NoError(t, err)
	n2, err := g.AddNode("N2")
	require.NoError(t, err)
	_, err = g.AddNode("N3")
	require.NoError(t, err)

	assert.Equal(t, 0, n1.StoreID())
	assert.Equal(t, 1, n2.StoreID())

	require.NoError(t, g.RemoveNode("N2"))
	n4, err := g.AddNode("N4")
	require.NoError(t, err)
	assert.Equal(t, 1, n4.StoreID())

	require.NoError(t, g.RemoveNode("N1"))
	n5, err := g.AddNode("N5")
	require.NoError(t, err)
	assert.Equal(t, 0, n5.StoreID())

	n6, err := g.AddNode("N6")
	require.NoError(t, err)
	assert.Equal(t, 3, n6.StoreID())
}

func TestViewCoherence(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err := g.AddNode("B")
	require.NoError(t, err)

	v := g.NewView(true)
	require.NoError(t, v.AddNode(uint32(a.StoreID())))
	require.NoError(t, v.AddNode(uint32(b.StoreID())))

	_, err = g.AddEdge("ab", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, v.EdgeCount())

	require.NoError(t, g.RemoveNode("A"))
	assert.False(t, v.ContainsNode(uint32(a.StoreID())))
	assert.EqualValues(t, 0, v.EdgeCount())
}

func TestViewWithoutAutoIncludeDoesNotTrackEdges(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err := g.AddNode("B")
	require.NoError(t, err)

	v := g.NewView(false)
	require.NoError(t, v.AddNode(uint32(a.StoreID())))
	require.NoError(t, v.AddNode(uint32(b.StoreID())))

	_, err = g.AddEdge("ab", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 0, v.EdgeCount())
}

func TestIndexRangeQuery(t *testing.T) {
	g := New(WithEdgeWeightColumn(false))
	col, err := g.EdgeTable().AddColumn("weight", "Weight", typecatalog.Float64, "user", nil, true, false, false)
	require.NoError(t, err)

	_, err = g.AddNode("A")
	require.NoError(t, err)
	_, err = g.AddNode("B")
	require.NoError(t, err)
	_, err = g.AddNode("C")
	require.NoError(t, err)
	_, err = g.AddNode("D")
	require.NoError(t, err)

	e1, err := g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	e2, err := g.AddEdge("e2", "B", "C", "knows", true, nil)
	require.NoError(t, err)
	e3, err := g.AddEdge("e3", "C", "D", "knows", true, nil)
	require.NoError(t, err)

	require.NoError(t, e1.SetAttribute("weight", 0.5))
	require.NoError(t, e2.SetAttribute("weight", 1.5))
	require.NoError(t, e3.SetAttribute("weight", 1.0))

	idx := col.Index()
	minV, ok := idx.GetMinValue()
	require.True(t, ok)
	assert.Equal(t, 0.5, minV)

	maxV, ok := idx.GetMaxValue()
	require.True(t, ok)
	assert.Equal(t, 1.5, maxV)

	assert.Equal(t, 1, idx.Count(1.0))

	values := idx.Values()
	assert.ElementsMatch(t, []Value{0.5, 1.0, 1.5}, values)

	inRange, err := idx.RangeQuery(0.5, 1.0)
	require.NoError(t, err)
	assert.Len(t, inRange, 2)
}

func TestVersionMonotonicity(t *testing.T) {
	g := New()
	nv0, ev0 := g.Version()

	_, err := g.AddNode("A")
	require.NoError(t, err)
	nv1, ev1 := g.Version()
	assert.Greater(t, nv1, nv0)
	assert.Equal(t, ev0, ev1)

	_, err = g.AddNode("B")
	require.NoError(t, err)
	_, err = g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	nv2, ev2 := g.Version()
	assert.Equal(t, nv1, nv2)
	assert.Greater(t, ev2, ev1)
}

func TestAddRemoveNodeRestoresState(t *testing.T) {
	g := New()
	sizeBefore := g.NodeCount()

	_, err := g.AddNode("A")
	require.NoError(t, err)
	require.NoError(t, g.RemoveNode("A"))

	assert.Equal(t, sizeBefore, g.NodeCount())
	assert.False(t, g.Contains("A"))
}

func TestAddRemoveEdgeRestoresParallelTable(t *testing.T) {
	g := New()
	_, err := g.AddNode("A")
	require.NoError(t, err)
	_, err = g.AddNode("B")
	require.NoError(t, err)

	_, err = g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	require.NoError(t, g.RemoveEdge("e1"))

	// The id and parallel-edge entries are gone, so the same edge can be re-added.
	_, err = g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestDuplicateNodeRejected(t *testing.T) {
	g := New()
	_, err := g.AddNode("A")
	require.NoError(t, err)

	_, err = g.AddNode("A")
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, Duplicate, kind)
	assert.Equal(t, 1, g.NodeCount())
}

func TestUndirectedEdge(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err := g.AddNode("B")
	require.NoError(t, err)

	_, err = g.AddEdge("e1", "A", "B", "friend", false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, a.GetDegree(nil))
	assert.Equal(t, 1, b.GetDegree(nil))
	assert.True(t, g.IsUndirectedGraph())
	assert.False(t, g.IsDirectedGraph())
}

func TestMixedGraph(t *testing.T) {
	g := New()
	_, err := g.AddNode("A")
	require.NoError(t, err)
	_, err = g.AddNode("B")
	require.NoError(t, err)
	_, err = g.AddNode("C")
	require.NoError(t, err)

	_, err = g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e2", "B", "C", "friend", false, nil)
	require.NoError(t, err)

	assert.True(t, g.IsMixedGraph())
}

func TestObserverDiffTracking(t *testing.T) {
	g := New()
	obs := g.NewObserver(true)
	defer obs.Close()

	_, err := g.AddNode("A")
	require.NoError(t, err)
	_, err = g.AddNode("B")
	require.NoError(t, err)
	_, err = g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	assert.True(t, obs.HasGraphChanged())

	diff := obs.Poll()
	assert.Len(t, diff.AddedNodes, 2)
	assert.Len(t, diff.AddedEdges, 1)

	// Poll drains; calling it again before any new mutation yields nothing.
	diff2 := obs.Poll()
	assert.Empty(t, diff2.AddedNodes)
}

func TestAdjacencyIteratorRemove(t *testing.T) {
	g := New()
	a, _, _ := addTriangle(t, g)

	it := a.NewIterator(nil, true)
	defer it.Close()

	removed := 0
	for it.HasNext() {
		_, err := it.Next()
		require.NoError(t, err)
		require.NoError(t, it.Remove())
		removed++
	}
	assert.Equal(t, 2, removed) // A's out-edge to B and in-edge from C
	assert.Equal(t, 1, g.EdgeCount())
}

func TestIsAdjacentAndIsIncident(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err := g.AddNode("B")
	require.NoError(t, err)
	c, err := g.AddNode("C")
	require.NoError(t, err)

	edge, err := g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	assert.True(t, g.IsAdjacent(a, b, nil))
	assert.False(t, g.IsAdjacent(a, c, nil))
	assert.True(t, g.IsIncident(a, edge))
	assert.False(t, g.IsIncident(c, edge))
}
