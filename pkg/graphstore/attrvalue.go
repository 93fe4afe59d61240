package graphstore

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/orneryd/graphstore/pkg/typecatalog"
)

// Value is an attribute value as stored by the column store: any value
// standardized by the type catalog. It is deliberately an alias for any,
// not a sum type — the catalog, not the Go type system, is the source of
// truth for what a column may hold (spec §4.B).
type Value = any

// hashKey is the map key used wherever an attribute or id value needs to
// participate in a Go map but may not itself be comparable (slices).
// Scalar values pass through unchanged; array-typed values are reduced to
// a 64-bit xxhash digest of their canonical encoding, matching spec
// §4.D's "equality index keyed by structural equality of array contents."
type hashKey struct {
	scalar any    // set when the original value was already comparable
	digest uint64 // set when the original value needed hashing
	hashed bool
}

func toHashKey(v Value) hashKey {
	switch val := v.(type) {
	case []int64:
		return hashKey{digest: hashInt64Slice(val), hashed: true}
	case []float64:
		return hashKey{digest: hashFloat64Slice(val), hashed: true}
	case []string:
		return hashKey{digest: hashStringSlice(val), hashed: true}
	case []byte:
		return hashKey{digest: xxhash.Sum64(val), hashed: true}
	default:
		return hashKey{scalar: v}
	}
}

func hashInt64Slice(s []int64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, n := range s {
		putUint64(buf[:], uint64(n))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func hashFloat64Slice(s []float64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, f := range s {
		putUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func hashStringSlice(s []string) uint64 {
	h := xxhash.New()
	for _, str := range s {
		_, _ = h.Write([]byte(str))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func putUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// standardizeOrErr coerces v to want via the type catalog, surfacing a
// TypeMismatch *GraphError on failure.
func standardizeOrErr(op string, v Value, want typecatalog.Type) (Value, error) {
	if v == nil {
		return nil, newErr(op, NullArgument, "value is nil")
	}
	std, ok := typecatalog.Standardize(v, want)
	if !ok {
		return nil, newErr(op, TypeMismatch, fmt.Sprintf("value %v is not assignable to %s", v, want))
	}
	return std, nil
}
