package typecatalog

// ToInt64Slice converts various slice representations to []int64, used for
// IntArray-typed attribute columns and for the structural-equality array
// index key.
//
// Supported inputs:
//   - []int64 (returned as-is)
//   - []int, []int32 (each element converted)
//   - []any (each element converted via ToInt64)
func ToInt64Slice(v any) ([]int64, bool) {
	switch val := v.(type) {
	case []int64:
		return val, true
	case []int:
		result := make([]int64, len(val))
		for i, n := range val {
			result[i] = int64(n)
		}
		return result, true
	case []int32:
		result := make([]int64, len(val))
		for i, n := range val {
			result[i] = int64(n)
		}
		return result, true
	case []any:
		result := make([]int64, len(val))
		for i, item := range val {
			n, ok := ToInt64(item)
			if !ok {
				return nil, false
			}
			result[i] = n
		}
		return result, true
	}
	return nil, false
}

// ToFloat64Slice converts various slice representations to []float64, used
// for FloatArray-typed attribute columns.
//
// Supported inputs:
//   - []float64 (returned as-is)
//   - []float32 (each element converted)
//   - []any (each element converted via ToFloat64)
func ToFloat64Slice(v any) ([]float64, bool) {
	switch val := v.(type) {
	case []float64:
		return val, true
	case []float32:
		result := make([]float64, len(val))
		for i, f := range val {
			result[i] = float64(f)
		}
		return result, true
	case []any:
		result := make([]float64, len(val))
		for i, item := range val {
			f, ok := ToFloat64(item)
			if !ok {
				return nil, false
			}
			result[i] = f
		}
		return result, true
	}
	return nil, false
}

// ToStringSlice converts various slice representations to []string, used
// for StringArray-typed attribute columns.
//
// Supported inputs:
//   - []string (returned as-is)
//   - []any (each element must already be a string)
func ToStringSlice(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			result[i] = s
		}
		return result, true
	}
	return nil, false
}
