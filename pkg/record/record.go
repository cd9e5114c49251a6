// Package record turns observable state trees into change records and
// applies change records back onto live state.
//
// A Record is a property-name-keyed map. Collection properties are recorded
// as index-keyed maps rather than arrays, so a patch can address individual
// items without shipping the whole collection. [Snapshot] produces the raw
// in-memory form, [Encode] reduces it to a JSON-safe tree, and [Apply]
// patches a record back onto a live state in update-priority order while
// preserving the identity of nested states.
package record

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-drift/statesync/pkg/state"
)

// Record is a change record for a state. Keys are property names. A
// collection entry is a map[int]any in raw form or a map[string]any with
// "0", "1", ... keys once encoded for the wire; it is never a bare array.
type Record map[string]any

// Snapshot captures every declared property of st into a Record. Property
// names starting with an underscore are treated as internal and skipped.
// Collection properties become index-keyed maps, with nested state items
// snapshotted recursively; an empty collection is recorded as an empty map,
// not omitted. All other values are carried as-is, so the result may still
// hold live nested states; use [Encode] to reduce it for transport.
func Snapshot(st state.State) Record {
	rec := make(Record)
	for _, name := range st.Properties() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		v, ok := st.Value(name)
		if !ok {
			continue
		}
		if lv, isList := v.(state.ListValue); isList {
			items := make(map[int]any, lv.Len())
			for i := 0; i < lv.Len(); i++ {
				item := lv.At(i)
				if child, isState := state.AsState(item); isState {
					items[i] = Snapshot(child)
				} else {
					items[i] = item
				}
			}
			rec[name] = items
			continue
		}
		rec[name] = v
	}
	return rec
}

// Apply patches rec onto st. An empty record is a no-op. Keys that do not
// name a declared property are ignored, so one record can fan out across
// differently shaped states. Properties are applied in descending update
// priority; within a priority group names are applied in sorted order.
//
// Collection properties are patched index-wise: only indices present in
// both the record and the live collection are touched, out-of-range indices
// are skipped, nested state items are patched in place, and scalar items
// are replaced. The opaque marker (see [OpaqueMarker]) never overwrites a
// live value, in collections or out.
//
// Apply stops at the first failing property and returns a *PatchError;
// properties already applied stay applied.
func Apply(st state.State, rec Record) error {
	if len(rec) == 0 {
		return nil
	}

	groups := make(map[int][]string)
	var priorities []int
	for name := range rec {
		if !st.IsProperty(name) {
			continue
		}
		p := st.UpdatePriority(name)
		if _, ok := groups[p]; !ok {
			priorities = append(priorities, p)
		}
		groups[p] = append(groups[p], name)
	}
	slices.Sort(priorities)
	slices.Reverse(priorities)

	for _, p := range priorities {
		names := groups[p]
		slices.Sort(names)
		for _, name := range names {
			if err := applyProperty(st, name, rec[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyProperty(st state.State, name string, v any) error {
	live, ok := st.Value(name)
	if !ok {
		return nil
	}
	if lv, isList := live.(state.ListValue); isList {
		return applyCollection(lv, name, v)
	}
	if isSentinel(v) {
		return nil
	}
	if err := st.SetValue(name, v); err != nil {
		return &PatchError{Property: name, Index: -1, Err: err}
	}
	return nil
}

func applyCollection(lv state.ListValue, name string, v any) error {
	changes, ok := indexMap(v)
	if !ok {
		return &PatchError{
			Property: name,
			Index:    -1,
			Err:      fmt.Errorf("collection update requires an index-keyed record, got %T", v),
		}
	}
	for i := 0; i < lv.Len(); i++ {
		change, present := changes[i]
		if !present {
			continue
		}
		if isSentinel(change) {
			continue
		}
		item := lv.At(i)
		if child, isState := state.AsState(item); isState {
			sub, ok := asRecord(change)
			if !ok {
				return &PatchError{
					Property: name,
					Index:    i,
					Err:      fmt.Errorf("nested state requires a record, got %T", change),
				}
			}
			if err := Apply(child, sub); err != nil {
				return &PatchError{Property: name, Index: i, Err: err}
			}
			continue
		}
		if err := lv.SetAt(i, change); err != nil {
			return &PatchError{Property: name, Index: i, Err: err}
		}
	}
	return nil
}

// indexMap normalizes a collection entry to integer index keys. Raw records
// use map[int]any; decoded wire records use string keys. Non-numeric string
// keys are ignored.
func indexMap(v any) (map[int]any, bool) {
	switch m := v.(type) {
	case map[int]any:
		return m, true
	case Record:
		return stringKeyedIndexMap(m), true
	case map[string]any:
		return stringKeyedIndexMap(m), true
	default:
		return nil, false
	}
}

func stringKeyedIndexMap(m map[string]any) map[int]any {
	out := make(map[int]any, len(m))
	for k, item := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			continue
		}
		out[i] = item
	}
	return out
}

// asRecord converts a nested record value, in either raw or decoded form.
func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

// PatchError reports a failure while applying a record. Index is -1 when
// the failure is not tied to a collection item.
type PatchError struct {
	Property string
	Index    int
	Err      error
}

func (e *PatchError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("cannot patch property %q index %d: %v", e.Property, e.Index, e.Err)
	}
	return fmt.Sprintf("cannot patch property %q: %v", e.Property, e.Err)
}

func (e *PatchError) Unwrap() error {
	return e.Err
}
