package record

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/uuid"

	"github.com/go-drift/statesync/pkg/state"
)

// OpaqueMarker is the wire stand-in for values that cannot travel as JSON,
// such as dataset and selection handles. A peer echoes the marker back
// unchanged, and [Apply] never writes it onto a live property, so opaque
// values survive a round trip untouched. The marker is a fixed UUID so no
// real payload can collide with it.
const OpaqueMarker = "b6ffbe69-3b0f-4e1e-9f0a-7c3d0e5c2a41"

var _ = uuid.MustParse(OpaqueMarker)

// Opaque marks a value that is meaningful only inside this process.
// [Encode] reduces any Opaque value to [OpaqueMarker].
type Opaque interface {
	OpaqueID() string
}

// NamedResource is a value that travels by name, such as a colormap.
// [Encode] reduces it to ResourceName().
type NamedResource interface {
	ResourceName() string
}

// IsOpaqueMarker reports whether v is the wire form of an opaque value.
func IsOpaqueMarker(v any) bool {
	s, ok := v.(string)
	return ok && s == OpaqueMarker
}

// isSentinel reports whether v must never be written onto a live property,
// in either its typed in-memory form or its wire form.
func isSentinel(v any) bool {
	if _, ok := v.(Opaque); ok {
		return true
	}
	return IsOpaqueMarker(v)
}

// Encode reduces a raw record to a JSON-safe tree: nested states are
// snapshotted and reduced in turn, Opaque values become [OpaqueMarker],
// NamedResource values become their name, and integer index keys become
// decimal strings. Values with no JSON form surface as an *EncodeError
// naming the property path; nothing is silently dropped.
func Encode(rec Record) (Record, error) {
	return encodeRecord("", rec)
}

func encodeRecord(path string, rec Record) (Record, error) {
	out := make(Record, len(rec))
	for name, v := range rec {
		enc, err := encodeValue(childPath(path, name), v)
		if err != nil {
			return nil, err
		}
		out[name] = enc
	}
	return out, nil
}

func encodeValue(path string, v any) (any, error) {
	if isNilValue(v) {
		return nil, nil
	}
	if child, ok := state.AsState(v); ok {
		return encodeRecord(path, Snapshot(child))
	}
	switch t := v.(type) {
	case Opaque:
		return OpaqueMarker, nil
	case NamedResource:
		return t.ResourceName(), nil
	case Record:
		return encodeRecord(path, t)
	case map[string]any:
		return encodeRecord(path, Record(t))
	case map[int]any:
		out := make(map[string]any, len(t))
		for i, item := range t {
			key := strconv.Itoa(i)
			enc, err := encodeValue(childPath(path, key), item)
			if err != nil {
				return nil, err
			}
			out[key] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			enc, err := encodeValue(childPath(path, strconv.Itoa(i)), item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case string, bool,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	default:
		return encodeGeneric(path, v)
	}
}

// encodeGeneric round-trips a value through the generic JSON encoder,
// normalizing whatever structure it has into maps, slices, and primitives.
func encodeGeneric(path string, v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}
	return out, nil
}

func childPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// isNilValue catches typed nil pointers as well as untyped nil, so a
// cleared nested state or handle encodes as JSON null instead of
// dereferencing nil.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// EncodeError reports a value that could not be reduced to JSON. Path is
// the dot-separated property path from the record root.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode property %q: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
