package state

import (
	"fmt"
	"reflect"
	"slices"
)

// List is an ordered observable collection property. Items may be plain
// values or nested [State] instances; nested items bubble their mutations
// through the owning state, and replacing or removing an item severs that
// link.
//
// A List is declared like a [Prop]:
//
//	s.Layers = state.NewList(s, "layers")
//
// The synchronization layer sees a List through the [ListValue] interface
// and records its items under their integer index, so collections can be
// patched sparsely.
type List struct {
	base   *Base
	name   string
	items  []any
	detach []func()
}

var _ ListValue = (*List)(nil)

// NewList declares a collection property with update priority 0.
func NewList(owner host, name string) *List {
	return NewListWithPriority(owner, name, 0)
}

// NewListWithPriority declares a collection property with an explicit
// update priority.
func NewListWithPriority(owner host, name string, priority int) *List {
	b := owner.base()
	l := &List{base: b, name: name}
	b.register(name, priority, l.valueAny, l.setAny)
	return l
}

// Name returns the declared property name.
func (l *List) Name() string {
	return l.name
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// At returns the item at index i. It panics when i is out of range, like a
// slice index.
func (l *List) At(i int) any {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("statesync: list %q index %d out of range (len %d)", l.name, i, len(l.items)))
	}
	return l.items[i]
}

// SetAt replaces the item at index i. Unlike At it reports an out of range
// index as an error, because patch application probes indices that may no
// longer exist.
func (l *List) SetAt(i int, v any) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("statesync: list %q index %d out of range (len %d)", l.name, i, len(l.items))
	}
	if valuesEqual(l.items[i], v) {
		return nil
	}
	l.releaseAt(i)
	l.items[i] = v
	l.detach[i] = l.attachItem(v)
	l.base.notifyMutation()
	return nil
}

// Append adds items to the end of the list.
func (l *List) Append(items ...any) {
	if len(items) == 0 {
		return
	}
	for _, v := range items {
		l.items = append(l.items, v)
		l.detach = append(l.detach, l.attachItem(v))
	}
	l.base.notifyMutation()
}

// Insert places v at index i, shifting later items up. i may equal Len to
// insert at the end.
func (l *List) Insert(i int, v any) error {
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("statesync: list %q index %d out of range for insert (len %d)", l.name, i, len(l.items))
	}
	l.items = slices.Insert(l.items, i, v)
	l.detach = slices.Insert(l.detach, i, l.attachItem(v))
	l.base.notifyMutation()
	return nil
}

// RemoveAt deletes the item at index i, shifting later items down.
func (l *List) RemoveAt(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("statesync: list %q index %d out of range (len %d)", l.name, i, len(l.items))
	}
	l.releaseAt(i)
	l.items = slices.Delete(l.items, i, i+1)
	l.detach = slices.Delete(l.detach, i, i+1)
	l.base.notifyMutation()
	return nil
}

// Clear removes all items.
func (l *List) Clear() {
	if len(l.items) == 0 {
		return
	}
	for i := range l.items {
		l.releaseAt(i)
	}
	l.items = nil
	l.detach = nil
	l.base.notifyMutation()
}

// Items returns a copy of the current items.
func (l *List) Items() []any {
	return slices.Clone(l.items)
}

// valueAny is the dynamic getter registered with Base. It returns the List
// itself so callers can detect collection properties through [ListValue].
func (l *List) valueAny() any {
	return l
}

// setAny is the dynamic setter registered with Base. It replaces the whole
// collection from another List, an []any, or any slice value.
func (l *List) setAny(v any) error {
	switch src := v.(type) {
	case nil:
		l.replace(nil)
		return nil
	case *List:
		l.replace(src.Items())
		return nil
	case []any:
		l.replace(slices.Clone(src))
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		l.replace(items)
		return nil
	}
	return &ValidationError{
		Property: l.name,
		Value:    v,
		Err:      fmt.Errorf("cannot assign %T to a list", v),
	}
}

func (l *List) replace(items []any) {
	for i := range l.items {
		l.releaseAt(i)
	}
	l.items = items
	l.detach = make([]func(), len(items))
	for i, v := range items {
		l.detach[i] = l.attachItem(v)
	}
	l.base.notifyMutation()
}

func (l *List) attachItem(v any) func() {
	if child, ok := AsState(v); ok {
		return l.base.attach(child)
	}
	return nil
}

func (l *List) releaseAt(i int) {
	if l.detach[i] != nil {
		l.detach[i]()
		l.detach[i] = nil
	}
}
