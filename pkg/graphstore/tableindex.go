package graphstore

import "github.com/orneryd/graphstore/pkg/typecatalog"

// Table is the external facade over a node or edge attribute table, spec
// component C.
type Table struct {
	g *Graph
	t *table
}

// AddColumn creates a new static (non-time-indexed) column on this table.
func (tb *Table) AddColumn(id, title string, typ typecatalog.Type, origin string, def Value, indexed, readOnly, required bool) (*Column, error) {
	return tb.addColumnInternal(id, title, typ, origin, def, indexed, readOnly, required, false, Timestamp)
}

// AddDynamicColumn creates a time-indexed column (component E), storing
// values under the given TIMESTAMP/INTERVAL representation instead of
// one scalar per element.
func (tb *Table) AddDynamicColumn(id, title string, typ typecatalog.Type, origin string, timeRep TimeRepresentation) (*Column, error) {
	return tb.addColumnInternal(id, title, typ, origin, nil, false, false, false, true, timeRep)
}

func (tb *Table) addColumnInternal(id, title string, typ typecatalog.Type, origin string, def Value, indexed, readOnly, required, dynamic bool, timeRep TimeRepresentation) (*Column, error) {
	tb.g.lockW()
	defer tb.g.unlockW()
	c, err := tb.t.addColumn(id, title, typ, origin, def, indexed, readOnly, required, dynamic, timeRep)
	if err != nil {
		return nil, err
	}
	return &Column{g: tb.g, t: tb.t, c: c}, nil
}

// RemoveColumn removes a column by id.
func (tb *Table) RemoveColumn(id string) error {
	tb.g.lockW()
	defer tb.g.unlockW()
	return tb.t.removeColumn(id)
}

// GetColumn looks up a column by id.
func (tb *Table) GetColumn(id string) (*Column, bool) {
	tb.g.lockR()
	defer tb.g.unlockR()
	c, ok := tb.t.getColumn(id)
	if !ok {
		return nil, false
	}
	return &Column{g: tb.g, t: tb.t, c: c}, true
}

// GetColumnByIndex looks up a column by its dense storeID.
func (tb *Table) GetColumnByIndex(storeID int) (*Column, bool) {
	tb.g.lockR()
	defer tb.g.unlockR()
	c, ok := tb.t.getColumnByIndex(storeID)
	if !ok {
		return nil, false
	}
	return &Column{g: tb.g, t: tb.t, c: c}, true
}

// Columns returns every live column, ordered by storeID.
func (tb *Table) Columns() []*Column {
	tb.g.lockR()
	defer tb.g.unlockR()
	cols := tb.t.orderedColumns()
	out := make([]*Column, len(cols))
	for i, c := range cols {
		out[i] = &Column{g: tb.g, t: tb.t, c: c}
	}
	return out
}

// Column is the external facade over one table column, spec component C.
type Column struct {
	g *Graph
	t *table
	c *column
}

// ID returns the column's stable string id.
func (c *Column) ID() string { return c.c.id }

// Title returns the column's display title.
func (c *Column) Title() string { return c.c.title }

// Type returns the column's standardized type.
func (c *Column) Type() typecatalog.Type { return c.c.typ }

// Origin returns the column's origin tag ("system" or "user", per the
// column's provenance).
func (c *Column) Origin() string { return c.c.origin }

// IsIndexed reports whether this column maintains a secondary index.
func (c *Column) IsIndexed() bool { return c.c.indexed }

// IsReadOnly reports whether external writes to this column are
// rejected.
func (c *Column) IsReadOnly() bool { return c.c.readOnly }

// IsDynamic reports whether this column is time-indexed (component E)
// rather than a plain scalar value per element.
func (c *Column) IsDynamic() bool { return c.c.dynamic }

// IsRequired reports whether this column was created with the required
// flag. The flag is metadata only: it is not checked when elements are
// added or attributes are written.
func (c *Column) IsRequired() bool { return c.c.required }

// Index returns the external facade over this column's secondary index.
func (c *Column) Index() *Index { return &Index{g: c.g, col: c.c} }

// Index is the external facade over one column's secondary index, spec
// component D.
type Index struct {
	g   *Graph
	col *column
}

// Count returns the number of elements carrying value.
func (idx *Index) Count(value Value) int {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.count(value)
}

// Get returns the element storeIDs carrying value.
func (idx *Index) Get(value Value) []int {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.get(value)
}

// Values returns every distinct value currently indexed.
func (idx *Index) Values() []Value {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.values()
}

// CountValues returns the number of distinct values currently indexed.
func (idx *Index) CountValues() int {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.countValues()
}

// CountElements returns the total number of elements carrying any value
// in this index.
func (idx *Index) CountElements() int {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.countElements()
}

// GetMinValue returns the smallest indexed value, for sortable columns.
func (idx *Index) GetMinValue() (Value, bool) {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.minValue()
}

// GetMaxValue returns the largest indexed value, for sortable columns.
func (idx *Index) GetMaxValue() (Value, bool) {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.maxValue()
}

// IsSortable reports whether this index supports min/max/range queries.
func (idx *Index) IsSortable() bool {
	idx.g.lockR()
	defer idx.g.unlockR()
	return idx.col.index.isSortable()
}

// RangeQuery returns the element storeIDs whose value falls in [lo, hi],
// for sortable (Int64/Float64) columns only.
func (idx *Index) RangeQuery(lo, hi float64) ([]int, error) {
	idx.g.lockR()
	defer idx.g.unlockR()
	si, ok := idx.col.index.(*sortedIndex)
	if !ok {
		return nil, newErr("RangeQuery", Unsupported, "column "+idx.col.id+" is not sortable")
	}
	return si.rangeQuery(lo, hi), nil
}
