// Package typecatalog is the standardized-type catalog consumed by the
// column store: it defines the fixed set of attribute value types a
// GraphStore column may hold, and coerces loosely-typed input (the
// attribute values callers pass as `any`) into one of those types.
//
// A column is declared with a Type at creation time. Every value written
// to that column is run through Standardize before being stored; values
// that cannot be standardized to the column's type are rejected with the
// caller's type mismatch reported by the column store, not by this
// package (typecatalog itself never returns an error, only ok bool, so
// the column store decides what "can't convert" means for its caller).
package typecatalog

// Type is one of the catalog's standardized attribute value types.
type Type int

const (
	// Unknown is the zero value; no column may be declared with it.
	Unknown Type = iota
	Int64
	Float64
	Bool
	String
	Bytes
	IntArray
	FloatArray
	StringArray
	Time
)

// String returns the type's catalog name, used in error messages.
func (t Type) String() string {
	switch t {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case IntArray:
		return "int64[]"
	case FloatArray:
		return "float64[]"
	case StringArray:
		return "string[]"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Standardize coerces v into the Go representation of want, returning
// (value, true) on success, or ok == false if v cannot be represented as
// want without loss the catalog considers unacceptable (e.g. a
// non-numeric string into Int64). On failure the returned value is not
// meaningful (it may be a typed zero value rather than nil).
//
// Standardize is deliberately narrower than a generic "convert anything
// to anything" helper: it only bridges the handful of input shapes a
// caller plausibly hands a graph attribute (Go numeric types, string
// literals, and the four array forms), not arbitrary application types.
func Standardize(v any, want Type) (any, bool) {
	switch want {
	case Int64:
		return ToInt64(v)
	case Float64:
		return ToFloat64(v)
	case Bool:
		return toBool(v)
	case String:
		return toStdString(v)
	case Bytes:
		return toBytes(v)
	case IntArray:
		return ToInt64Slice(v)
	case FloatArray:
		return ToFloat64Slice(v)
	case StringArray:
		return ToStringSlice(v)
	default:
		return nil, false
	}
}

func toBool(v any) (any, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch val {
		case "true", "True", "TRUE", "1":
			return true, true
		case "false", "False", "FALSE", "0":
			return false, true
		}
	}
	return nil, false
}

func toStdString(v any) (any, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	}
	return nil, false
}

func toBytes(v any) (any, bool) {
	switch val := v.(type) {
	case []byte:
		return val, true
	case string:
		return []byte(val), true
	}
	return nil, false
}
