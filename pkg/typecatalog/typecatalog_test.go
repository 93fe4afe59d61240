package typecatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeInt64(t *testing.T) {
	v, ok := Standardize(int32(7), Int64)
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	v, ok = Standardize("42", Int64)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	v, ok = Standardize("3.9", Int64)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = Standardize("not-a-number", Int64)
	assert.False(t, ok)
}

func TestStandardizeFloat64(t *testing.T) {
	v, ok := Standardize(float32(1.5), Float64)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = Standardize("1.23e-4", Float64)
	assert.True(t, ok)
	assert.Equal(t, 1.23e-4, v)

	_, ok = Standardize("nope", Float64)
	assert.False(t, ok)
}

func TestStandardizeBool(t *testing.T) {
	v, ok := Standardize("true", Bool)
	assert.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = Standardize("0", Bool)
	assert.True(t, ok)
	assert.Equal(t, false, v)

	_, ok = Standardize("maybe", Bool)
	assert.False(t, ok)
}

func TestStandardizeString(t *testing.T) {
	v, ok := Standardize([]byte("hi"), String)
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	_, ok = Standardize(42, String)
	assert.False(t, ok)
}

func TestStandardizeArrays(t *testing.T) {
	v, ok := Standardize([]any{1, "2", 3.0}, IntArray)
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, v)

	v, ok = Standardize([]any{1, 2.5}, FloatArray)
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2.5}, v)

	v, ok = Standardize([]string{"a", "b"}, StringArray)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	_, ok = Standardize([]any{1, "x"}, StringArray)
	assert.False(t, ok)
}

func TestStandardizeUnknownType(t *testing.T) {
	_, ok := Standardize(1, Unknown)
	assert.False(t, ok)
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		Int64:       "int64",
		Float64:     "float64",
		Bool:        "bool",
		String:      "string",
		Bytes:       "bytes",
		IntArray:    "int64[]",
		FloatArray:  "float64[]",
		StringArray: "string[]",
		Time:        "time",
		Unknown:     "unknown",
	}
	for typ, want := range cases {
		assert.Equal(t, want, typ.String())
	}
}
