package graphstore

// attrHolder is implemented by *nodeRecord and *edgeRecord, letting
// component K's get/set logic work identically over either element kind
// instead of being duplicated per kind.
type attrHolder interface {
	storeIDOf() int
	attrSlice() []Value
	setAttrSlice([]Value)
	dynamicMap() map[int]*dynamicAttr
}

// getAttribute reads holder's value for col, returning col's configured
// default when unset.
func getAttribute(tbl *table, holder attrHolder, col *column) Value {
	attrs := holder.attrSlice()
	if col.storeID >= len(attrs) {
		return col.def
	}
	v := attrs[col.storeID]
	if v == nil {
		return col.def
	}
	return v
}

// setAttribute writes holder's value for col, growing its attribute array
// lazily, and keeps col's index in sync: the old value (if any) is
// removed from the index and the new one inserted. Rejects writes to a
// dynamic column — those go through setAttributeAtTime/AtInterval.
func setAttribute(col *column, holder attrHolder, value Value) error {
	if col.readOnly {
		return newErr("setAttribute", ProgrammingError, "column "+col.id+" is read-only")
	}
	if col.dynamic {
		return newErr("setAttribute", TypeMismatch, "column "+col.id+" is dynamic; use setAttributeAtTime/Interval")
	}
	std, err := standardizeOrErr("setAttribute", value, col.typ)
	if err != nil {
		return err
	}

	attrs := holder.attrSlice()
	for len(attrs) <= col.storeID {
		attrs = append(attrs, nil)
	}
	old := attrs[col.storeID]
	attrs[col.storeID] = std
	holder.setAttrSlice(attrs)

	if old != nil {
		col.index.remove(holder.storeIDOf(), old)
	}
	col.index.put(holder.storeIDOf(), std)
	return nil
}

// clearAttribute removes holder's value for col, restoring the default
// and dropping its index entry.
func clearAttribute(col *column, holder attrHolder) {
	attrs := holder.attrSlice()
	if col.storeID >= len(attrs) {
		return
	}
	old := attrs[col.storeID]
	if old == nil {
		return
	}
	attrs[col.storeID] = nil
	if old != nil {
		col.index.remove(holder.storeIDOf(), old)
	}
}

// dynamicFor returns (creating if necessary) holder's dynamicAttr
// container for col.
func dynamicFor(col *column, holder attrHolder) *dynamicAttr {
	m := holder.dynamicMap()
	d, ok := m[col.storeID]
	if !ok {
		d = newDynamicAttr(col.timeRep)
		m[col.storeID] = d
	}
	return d
}

func setAttributeAtTime(col *column, holder attrHolder, ti *timeIndex, t float64, value Value) error {
	if !col.dynamic {
		return newErr("setAttributeAtTime", TypeMismatch, "column "+col.id+" is not dynamic")
	}
	std, err := standardizeOrErr("setAttributeAtTime", value, col.typ)
	if err != nil {
		return err
	}
	d := dynamicFor(col, holder)
	if err := d.setAtTime(t, std); err != nil {
		return err
	}
	ti.registerPoint(holder.storeIDOf(), t)
	return nil
}

func setAttributeAtInterval(col *column, holder attrHolder, ti *timeIndex, iv interval, value Value) error {
	if !col.dynamic {
		return newErr("setAttributeAtInterval", TypeMismatch, "column "+col.id+" is not dynamic")
	}
	std, err := standardizeOrErr("setAttributeAtInterval", value, col.typ)
	if err != nil {
		return err
	}
	d := dynamicFor(col, holder)
	if err := d.setAtInterval(iv, std); err != nil {
		return err
	}
	ti.registerPoint(holder.storeIDOf(), iv.low)
	return nil
}

func getAttributeAtTime(col *column, holder attrHolder, t float64) []Value {
	m := holder.dynamicMap()
	d, ok := m[col.storeID]
	if !ok {
		return nil
	}
	return d.queryPoint(t)
}

func getAttributeInRange(col *column, holder attrHolder, lo, hi float64, loOpen, hiOpen bool) []Value {
	m := holder.dynamicMap()
	d, ok := m[col.storeID]
	if !ok {
		return nil
	}
	return d.queryRange(lo, hi, loOpen, hiOpen)
}
