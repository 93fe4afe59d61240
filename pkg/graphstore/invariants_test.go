package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/graphstore/pkg/typecatalog"
)

// TestSlotIdentityInvariant checks store[storeId] == self and
// storeId ∈ [0, length) for every live node and edge slot, including
// after a removal leaves a hole that a later insert recycles.
func TestSlotIdentityInvariant(t *testing.T) {
	g := New()
	a, _ := g.AddNode("A")
	_, _ = g.AddNode("B")
	c, _ := g.AddNode("C")
	_, err := g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e2", "B", "C", "knows", true, nil)
	require.NoError(t, err)

	require.NoError(t, g.RemoveNode("B"))
	d, err := g.AddNode("D")
	require.NoError(t, err)

	for _, n := range []*Node{a, c, d} {
		rec, ok := g.nodes.getByStoreID(n.StoreID())
		require.True(t, ok)
		assert.Equal(t, n.StoreID(), rec.storeID)
		assert.GreaterOrEqual(t, n.StoreID(), 0)
		assert.Less(t, n.StoreID(), len(g.nodes.records))
	}
}

// TestChainLengthEqualsDegree walks each per-type adjacency chain by
// following slot links and checks the walked length equals the stored
// degree counter, excluding self-loops which are tracked on their own
// private chain per spec §4.H.
func TestChainLengthEqualsDegree(t *testing.T) {
	g := New()
	a, _ := g.AddNode("A")
	_, _ = g.AddNode("B")
	_, _ = g.AddNode("C")
	_, _ = g.AddNode("D")
	_, err := g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e2", "A", "C", "knows", true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e3", "A", "D", "knows", true, nil)
	require.NoError(t, err)

	rec, ok := g.nodes.getByStoreID(a.StoreID())
	require.True(t, ok)

	typeID, ok := g.types.typeOf("knows")
	require.True(t, ok)

	length := 0
	for slot := rec.headOut(typeID); slot != -1; {
		length++
		er := g.edges.records[slot]
		slot = er.outNext
	}
	assert.Equal(t, rec.outDegree[typeID], length)
}

// TestSumOfDegreesEqualsEdgeCountTimesTwo checks the classic handshake
// identity: the sum of every node's total undirected degree equals
// twice the number of edges that are neither mutual-paired nor
// self-loops (those already get folded into the degree formula, so
// counting the raw edge contribution directly isolates the property).
func TestSumOfDegreesEqualsEdgeCountTimesTwo(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A")
	_, _ = g.AddNode("B")
	_, _ = g.AddNode("C")
	_, err := g.AddEdge("e1", "A", "B", "x", false, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e2", "B", "C", "x", false, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("e3", "A", "C", "x", false, nil)
	require.NoError(t, err)

	sum := 0
	for _, rec := range g.nodes.all() {
		sum += rec.totalUndirectedDegree()
	}
	assert.Equal(t, 2*g.EdgeCount(), sum)
}

// TestColumnIndexMatchesAttributeMultiset checks that an indexed
// column's Index().Get(v) always returns exactly the live elements
// whose current attribute value equals v, for every distinct value in
// play.
func TestColumnIndexMatchesAttributeMultiset(t *testing.T) {
	g := New()
	col, err := g.NodeTable().AddColumn("group", "Group", typecatalog.String, "user", nil, true, false, false)
	require.NoError(t, err)

	values := []string{"red", "blue", "red", "green", "blue", "red"}
	nodes := make([]*Node, len(values))
	for i, v := range values {
		n, err := g.AddNode(string(rune('A' + i)))
		require.NoError(t, err)
		require.NoError(t, n.SetAttribute("group", v))
		nodes[i] = n
	}

	want := map[string][]int{}
	for i, v := range values {
		want[v] = append(want[v], nodes[i].StoreID())
	}

	for v, expected := range want {
		got := col.Index().Get(v)
		assert.ElementsMatch(t, expected, got)
	}
	assert.Equal(t, 3, col.Index().CountValues())
	assert.Equal(t, len(values), col.Index().CountElements())
}

// TestUnindexedColumnIndexReturnsFullElementSet checks the no-op index
// backing an indexed=false column: since it can't narrow by value,
// every read returns the table's entire live element set rather than
// nothing.
func TestUnindexedColumnIndexReturnsFullElementSet(t *testing.T) {
	g := New()
	col, err := g.NodeTable().AddColumn("nickname", "Nickname", typecatalog.String, "user", nil, false, false, false)
	require.NoError(t, err)

	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err := g.AddNode("B")
	require.NoError(t, err)
	require.NoError(t, a.SetAttribute("nickname", "Ada"))
	require.NoError(t, b.SetAttribute("nickname", "Bob"))

	assert.False(t, col.IsIndexed())
	assert.ElementsMatch(t, []int{a.StoreID(), b.StoreID()}, col.Index().Get("Ada"))
	assert.ElementsMatch(t, []int{a.StoreID(), b.StoreID()}, col.Index().Get("anything"))
	assert.Equal(t, 2, col.Index().Count("Bob"))
	assert.Equal(t, 2, col.Index().CountElements())
}

// TestViewUnionIntersectionIdentity checks view.union(view) and
// view.intersection(view) are each idempotent on the same view, and
// that union/intersection with an empty view reduce to identity/empty.
func TestViewUnionIntersectionIdentity(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A")
	_, _ = g.AddNode("B")
	_, err := g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	v := g.NewView(true)
	a, _ := g.GetNode("A")
	require.NoError(t, v.AddNode(uint32(a.StoreID())))
	before := v.NodeCount()

	require.NoError(t, v.Union(v))
	assert.Equal(t, before, v.NodeCount())

	require.NoError(t, v.Intersection(v))
	assert.Equal(t, before, v.NodeCount())

	empty := g.NewView(false)
	require.NoError(t, v.Union(empty))
	assert.Equal(t, before, v.NodeCount())

	require.NoError(t, v.Intersection(empty))
	assert.Equal(t, uint64(0), v.NodeCount())
}

// TestViewAddEdgeEnforcesClosure checks that View.AddEdge rejects an
// edge whose endpoints are not both already members of the view, and
// accepts it once they are, per the closure invariant of spec §4.J.
func TestViewAddEdgeEnforcesClosure(t *testing.T) {
	g := New()
	a, err := g.AddNode("A")
	require.NoError(t, err)
	b, err := g.AddNode("B")
	require.NoError(t, err)
	e, err := g.AddEdge("e1", "A", "B", "knows", true, nil)
	require.NoError(t, err)

	v := g.NewView(false)
	err = v.AddEdge(uint32(e.StoreID()))
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, ProgrammingError, kind)

	require.NoError(t, v.AddNode(uint32(a.StoreID())))
	err = v.AddEdge(uint32(e.StoreID()))
	require.Error(t, err)

	require.NoError(t, v.AddNode(uint32(b.StoreID())))
	require.NoError(t, v.AddEdge(uint32(e.StoreID())))
	assert.True(t, v.ContainsEdge(uint32(e.StoreID())))
}

// TestMainViewRejectsSetAlgebra checks the main view's restriction
// against Union/Intersection/Not, per spec §4.B.
func TestMainViewRejectsSetAlgebra(t *testing.T) {
	g := New()
	other := g.NewView(true)

	err := g.MainView().Union(other)
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, Unsupported, kind)

	err = g.MainView().Intersection(other)
	require.Error(t, err)

	err = g.MainView().Not()
	require.Error(t, err)
}
