package graphstore

import (
	"sort"

	"github.com/orneryd/graphstore/pkg/typecatalog"
)

// elementKind distinguishes the node table from the edge table; both are
// instances of the same table type.
type elementKind int

const (
	nodeKind elementKind = iota
	edgeKind
)

// column is one entry of a table: spec §4.C's id/title/type/origin/
// default/indexed/readOnly tuple, plus the index it owns when indexed.
type column struct {
	storeID  int
	id       string
	title    string
	typ      typecatalog.Type
	origin   string
	def      Value
	indexed  bool
	readOnly bool
	dynamic  bool // time-indexed (component E) rather than a plain value
	timeRep  TimeRepresentation
	required bool // supplemented existence constraint, see SPEC_FULL §9

	index columnIndex // nil when removed; noopIndex{} when not indexed
}

// isSortableType reports whether t gets a sortedIndex instead of an
// equalityIndex/arrayIndex when indexed.
func isSortableType(t typecatalog.Type) bool {
	return t == typecatalog.Int64 || t == typecatalog.Float64
}

func isArrayType(t typecatalog.Type) bool {
	switch t {
	case typecatalog.IntArray, typecatalog.FloatArray, typecatalog.StringArray:
		return true
	default:
		return false
	}
}

func newIndexFor(t typecatalog.Type, indexed bool, liveIDs func() []int) columnIndex {
	if !indexed {
		return noopIndex{liveIDs: liveIDs}
	}
	switch {
	case isSortableType(t):
		return newSortedIndex()
	case isArrayType(t):
		return newArrayIndex()
	default:
		return newEqualityIndex()
	}
}

// table owns the ordered, dense-id column set for one element kind
// (nodes or edges), per spec §4.C.
type table struct {
	kind    elementKind
	alloc   slotAllocator
	columns []*column // storeID -> column; nil once removed
	byID    map[string]*column

	// liveIDs returns the owning store's current live storeIDs, used by
	// unindexed columns to satisfy "reads return the entire element set."
	liveIDs func() []int
}

func newTable(kind elementKind, liveIDs func() []int) *table {
	return &table{kind: kind, byID: make(map[string]*column), liveIDs: liveIDs}
}

// addColumn creates a new column. Adding a column never grows existing
// element attribute arrays eagerly — per-element arrays grow lazily on
// first write (see attributes.go) so that adding a column is O(1)
// regardless of live element count.
func (t *table) addColumn(id, title string, typ typecatalog.Type, origin string, def Value, indexed, readOnly, required, dynamic bool, timeRep TimeRepresentation) (*column, error) {
	if id == "" {
		return nil, newErr("addColumn", NullArgument, "column id is empty")
	}
	if _, exists := t.byID[id]; exists {
		return nil, newErr("addColumn", Duplicate, "column "+id+" already exists")
	}
	// Dynamic (time-indexed) columns are queried through the time store,
	// not a columnIndex, regardless of the indexed flag requested.
	effectiveIndexed := indexed && !dynamic
	c := &column{
		storeID:  t.alloc.alloc(),
		id:       id,
		title:    title,
		typ:      typ,
		origin:   origin,
		def:      def,
		indexed:  effectiveIndexed,
		readOnly: readOnly,
		required: required,
		dynamic:  dynamic,
		timeRep:  timeRep,
		index:    newIndexFor(typ, effectiveIndexed, t.liveIDs),
	}
	for len(t.columns) <= c.storeID {
		t.columns = append(t.columns, nil)
	}
	t.columns[c.storeID] = c
	t.byID[id] = c
	return c, nil
}

// removeColumn nulls the column's slot; per spec §3, column slots are
// never reused within the process lifetime (unlike node/edge/view slots).
func (t *table) removeColumn(id string) error {
	c, ok := t.byID[id]
	if !ok {
		return newErr("removeColumn", NotOwned, "no such column: "+id)
	}
	delete(t.byID, id)
	t.columns[c.storeID] = nil
	return nil
}

func (t *table) getColumn(id string) (*column, bool) {
	c, ok := t.byID[id]
	return c, ok
}

func (t *table) getColumnByIndex(storeID int) (*column, bool) {
	if storeID < 0 || storeID >= len(t.columns) {
		return nil, false
	}
	c := t.columns[storeID]
	return c, c != nil
}

// orderedColumns returns live columns sorted by storeID (creation order)
// for deterministic iteration, per spec's "ordered column iteration."
func (t *table) orderedColumns() []*column {
	out := make([]*column, 0, len(t.byID))
	for _, c := range t.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].storeID < out[j].storeID })
	return out
}
