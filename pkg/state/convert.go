package state

import (
	"math"
	"reflect"
)

// coerce converts a dynamically typed value, typically decoded from JSON,
// to a property's static type. JSON decoding yields float64 for every
// number and []any for every array, so integer and slice properties need
// the conversions below; everything else must assert directly.
func coerce[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		return zero, nilAssignable[T]()
	}
	if tv, ok := v.(T); ok {
		return tv, true
	}
	switch any(zero).(type) {
	case int:
		if n, ok := toInt64(v); ok {
			return any(int(n)).(T), true
		}
	case int32:
		if n, ok := toInt64(v); ok {
			return any(int32(n)).(T), true
		}
	case int64:
		if n, ok := toInt64(v); ok {
			return any(n).(T), true
		}
	case float32:
		if f, ok := toFloat64(v); ok {
			return any(float32(f)).(T), true
		}
	case float64:
		if f, ok := toFloat64(v); ok {
			return any(f).(T), true
		}
	case []float64:
		if s, ok := toFloat64Slice(v); ok {
			return any(s).(T), true
		}
	case []int:
		if s, ok := toIntSlice(v); ok {
			return any(s).(T), true
		}
	case []string:
		if s, ok := toStringSlice(v); ok {
			return any(s).(T), true
		}
	case []any:
		if s, ok := toAnySlice(v); ok {
			return any(s).(T), true
		}
	}
	return zero, false
}

// nilAssignable reports whether T's zero value is a valid stand-in for nil.
func nilAssignable[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

// toInt64 converts various numeric types to int64. Floats convert only
// when they carry an integral value.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	return int64(f), true
}

// toFloat64 converts various numeric types to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toFloat64Slice converts a slice of numeric values to []float64.
func toFloat64Slice(v any) ([]float64, bool) {
	switch s := v.(type) {
	case []any:
		out := make([]float64, len(s))
		for i, item := range s {
			f, ok := toFloat64(item)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []float32:
		out := make([]float64, len(s))
		for i, f := range s {
			out[i] = float64(f)
		}
		return out, true
	default:
		return nil, false
	}
}

// toIntSlice converts a slice of integral values to []int.
func toIntSlice(v any) ([]int, bool) {
	switch s := v.(type) {
	case []any:
		out := make([]int, len(s))
		for i, item := range s {
			n, ok := toInt64(item)
			if !ok {
				return nil, false
			}
			out[i] = int(n)
		}
		return out, true
	case []int64:
		out := make([]int, len(s))
		for i, n := range s {
			out[i] = int(n)
		}
		return out, true
	case []float64:
		out := make([]int, len(s))
		for i, f := range s {
			n, ok := floatToInt64(f)
			if !ok {
				return nil, false
			}
			out[i] = int(n)
		}
		return out, true
	default:
		return nil, false
	}
}

// toStringSlice converts a []any of strings to []string.
func toStringSlice(v any) ([]string, bool) {
	s, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(s))
	for i, item := range s {
		str, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = str
	}
	return out, true
}

// toAnySlice converts any slice or array value to []any.
func toAnySlice(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
