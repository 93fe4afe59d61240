package graphstore

import "sort"

// columnIndex is the tagged-variant secondary index attached to an
// indexed column. Spec §4.C/D calls for a match on the column's
// standardized type rather than polymorphic dispatch; newIndexFor in
// column.go is that match.
type columnIndex interface {
	put(elementStoreID int, v Value)
	remove(elementStoreID int, v Value)
	get(v Value) []int
	values() []Value
	count(v Value) int
	countValues() int
	countElements() int
	minValue() (Value, bool)
	maxValue() (Value, bool)
	isSortable() bool
}

// noopIndex backs an unindexed column. Per spec §4.C/D, an unindexed
// column's index still answers reads — it just can't narrow by value,
// so every read returns the table's entire live element set.
type noopIndex struct {
	liveIDs func() []int
}

func (idx noopIndex) put(int, Value)    {}
func (idx noopIndex) remove(int, Value) {}
func (idx noopIndex) get(Value) []int   { return idx.liveIDs() }
func (idx noopIndex) values() []Value   { return nil }
func (idx noopIndex) count(Value) int   { return len(idx.liveIDs()) }
func (idx noopIndex) countValues() int  { return 0 }
func (idx noopIndex) countElements() int {
	return len(idx.liveIDs())
}
func (idx noopIndex) minValue() (Value, bool) { return nil, false }
func (idx noopIndex) maxValue() (Value, bool) { return nil, false }
func (idx noopIndex) isSortable() bool        { return false }

// equalityIndex is an unsorted value -> element-id multimap, used for
// bool, string, bytes, and time columns.
type equalityIndex struct {
	byValue map[hashKey]*equalityBucket
}

type equalityBucket struct {
	value Value
	ids   map[int]struct{}
}

func newEqualityIndex() *equalityIndex {
	return &equalityIndex{byValue: make(map[hashKey]*equalityBucket)}
}

func (idx *equalityIndex) put(elementStoreID int, v Value) {
	k := toHashKey(v)
	b, ok := idx.byValue[k]
	if !ok {
		b = &equalityBucket{value: v, ids: make(map[int]struct{})}
		idx.byValue[k] = b
	}
	b.ids[elementStoreID] = struct{}{}
}

func (idx *equalityIndex) remove(elementStoreID int, v Value) {
	k := toHashKey(v)
	b, ok := idx.byValue[k]
	if !ok {
		return
	}
	delete(b.ids, elementStoreID)
	if len(b.ids) == 0 {
		delete(idx.byValue, k)
	}
}

func (idx *equalityIndex) get(v Value) []int {
	b, ok := idx.byValue[toHashKey(v)]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (idx *equalityIndex) values() []Value {
	out := make([]Value, 0, len(idx.byValue))
	for _, b := range idx.byValue {
		out = append(out, b.value)
	}
	return out
}

func (idx *equalityIndex) count(v Value) int {
	return len(idx.get(v))
}

func (idx *equalityIndex) countValues() int { return len(idx.byValue) }

func (idx *equalityIndex) countElements() int {
	n := 0
	for _, b := range idx.byValue {
		n += len(b.ids)
	}
	return n
}

func (idx *equalityIndex) minValue() (Value, bool) { return nil, false }
func (idx *equalityIndex) maxValue() (Value, bool) { return nil, false }
func (idx *equalityIndex) isSortable() bool        { return false }

// arrayIndex is an equality index over array-typed values, keyed by the
// xxhash digest of the array's contents (structural equality), per spec
// §4.D's "arrays... keyed by structural equality of array contents."
type arrayIndex struct {
	*equalityIndex
}

func newArrayIndex() *arrayIndex {
	return &arrayIndex{equalityIndex: newEqualityIndex()}
}

// sortedIndex backs numeric columns (Int64, Float64): a value-ordered
// slice of buckets supporting O(log n) min/max/range via sort.Search.
type sortedIndex struct {
	entries []*sortedBucket // kept sorted by numeric
}

type sortedBucket struct {
	numeric float64
	value   Value
	ids     map[int]struct{}
}

func newSortedIndex() *sortedIndex {
	return &sortedIndex{}
}

func (idx *sortedIndex) numericOf(v Value) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}

func (idx *sortedIndex) search(n float64) (int, bool) {
	i := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].numeric >= n
	})
	if i < len(idx.entries) && idx.entries[i].numeric == n {
		return i, true
	}
	return i, false
}

func (idx *sortedIndex) put(elementStoreID int, v Value) {
	n := idx.numericOf(v)
	i, found := idx.search(n)
	if found {
		idx.entries[i].ids[elementStoreID] = struct{}{}
		return
	}
	b := &sortedBucket{numeric: n, value: v, ids: map[int]struct{}{elementStoreID: {}}}
	idx.entries = append(idx.entries, nil)
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = b
}

func (idx *sortedIndex) remove(elementStoreID int, v Value) {
	n := idx.numericOf(v)
	i, found := idx.search(n)
	if !found {
		return
	}
	delete(idx.entries[i].ids, elementStoreID)
	if len(idx.entries[i].ids) == 0 {
		idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
	}
}

func (idx *sortedIndex) get(v Value) []int {
	n := idx.numericOf(v)
	i, found := idx.search(n)
	if !found {
		return nil
	}
	out := make([]int, 0, len(idx.entries[i].ids))
	for id := range idx.entries[i].ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (idx *sortedIndex) values() []Value {
	out := make([]Value, len(idx.entries))
	for i, b := range idx.entries {
		out[i] = b.value
	}
	return out
}

func (idx *sortedIndex) count(v Value) int { return len(idx.get(v)) }

func (idx *sortedIndex) countValues() int { return len(idx.entries) }

func (idx *sortedIndex) countElements() int {
	n := 0
	for _, b := range idx.entries {
		n += len(b.ids)
	}
	return n
}

func (idx *sortedIndex) minValue() (Value, bool) {
	if len(idx.entries) == 0 {
		return nil, false
	}
	return idx.entries[0].value, true
}

func (idx *sortedIndex) maxValue() (Value, bool) {
	if len(idx.entries) == 0 {
		return nil, false
	}
	return idx.entries[len(idx.entries)-1].value, true
}

func (idx *sortedIndex) isSortable() bool { return true }

// rangeQuery returns the element ids of every bucket whose numeric value falls
// in [lo, hi].
func (idx *sortedIndex) rangeQuery(lo, hi float64) []int {
	start := sort.Search(len(idx.entries), func(i int) bool { return idx.entries[i].numeric >= lo })
	var out []int
	for i := start; i < len(idx.entries) && idx.entries[i].numeric <= hi; i++ {
		for id := range idx.entries[i].ids {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
