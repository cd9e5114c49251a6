package state

import (
	"fmt"
	"reflect"
	"slices"
)

// State is the contract the synchronization layer requires from a state
// object. Embedding [Base] satisfies it; hand-written implementations are
// possible but rarely needed.
type State interface {
	// Properties returns the declared observable property names in sorted
	// order. The result is a copy; callers may retain it.
	Properties() []string

	// IsProperty reports whether name is a declared observable property.
	IsProperty(name string) bool

	// UpdatePriority returns the update priority declared for the property,
	// or 0 when the name is not declared.
	UpdatePriority(name string) int

	// Value returns the current value of the property. Collection-valued
	// properties return their live ListValue handle.
	Value(name string) (any, bool)

	// SetValue assigns a dynamically typed value to the property, applying
	// coercion and validation. An effective change notifies observers.
	SetValue(name string, value any) error

	// AddMutationObserver registers fn to run after every effective mutation
	// in this state's subtree. The returned function removes the observer.
	AddMutationObserver(fn func()) (remove func())
}

// ListValue is the contract collection-valued properties expose to the
// synchronization layer: an ordered, index-addressable collection whose
// items are scalars or nested state objects. [List] is the standard
// implementation.
type ListValue interface {
	Len() int
	At(i int) any
	SetAt(i int, v any) error
}

// host is satisfied by any struct that embeds Base, so constructors can
// accept the state value itself.
type host interface {
	base() *Base
}

func (b *Base) base() *Base { return b }

// Base provides the property registry and notification machinery for state
// objects. Embed it in your state struct and declare properties with
// [NewProp], [NewPropWithPriority], and [NewList] in the constructor.
//
// Base is NOT thread-safe. All access must happen on a single logical
// thread; see the package documentation.
type Base struct {
	props     map[string]*property
	names     []string
	observers []*mutationObserver
}

type property struct {
	priority int
	get      func() any
	set      func(any) error
}

type mutationObserver struct {
	fn func()
}

// register adds a property to the registry. Declaring the same name twice
// is a programming error and panics, as does an empty name.
func (b *Base) register(name string, priority int, get func() any, set func(any) error) {
	if name == "" {
		panic("statesync: empty property name")
	}
	if _, exists := b.props[name]; exists {
		panic(fmt.Sprintf("statesync: duplicate property %q", name))
	}
	if b.props == nil {
		b.props = make(map[string]*property)
	}
	b.props[name] = &property{priority: priority, get: get, set: set}
	b.names = append(b.names, name)
	slices.Sort(b.names)
}

// Properties returns the declared property names in sorted order.
func (b *Base) Properties() []string {
	return slices.Clone(b.names)
}

// IsProperty reports whether name is a declared observable property.
func (b *Base) IsProperty(name string) bool {
	_, ok := b.props[name]
	return ok
}

// UpdatePriority returns the property's declared update priority, or 0 when
// the name is not declared.
func (b *Base) UpdatePriority(name string) int {
	if p, ok := b.props[name]; ok {
		return p.priority
	}
	return 0
}

// Value returns the current value of the property.
func (b *Base) Value(name string) (any, bool) {
	p, ok := b.props[name]
	if !ok {
		return nil, false
	}
	return p.get(), true
}

// SetValue assigns a dynamically typed value to the property, applying
// coercion and validation. Assigning to an undeclared name returns an
// error.
func (b *Base) SetValue(name string, value any) error {
	p, ok := b.props[name]
	if !ok {
		return fmt.Errorf("statesync: unknown property %q", name)
	}
	return p.set(value)
}

// AddMutationObserver registers fn to run after every effective mutation in
// this state's subtree. The returned function removes the observer and is
// safe to call more than once.
func (b *Base) AddMutationObserver(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}
	obs := &mutationObserver{fn: fn}
	b.observers = append(b.observers, obs)
	return func() {
		for i, o := range b.observers {
			if o == obs {
				b.observers = slices.Delete(b.observers, i, i+1)
				return
			}
		}
	}
}

// notifyMutation runs the registered mutation observers. Dispatch iterates
// a copy so observers may unregister themselves while firing.
func (b *Base) notifyMutation() {
	if len(b.observers) == 0 {
		return
	}
	observers := slices.Clone(b.observers)
	for _, o := range observers {
		o.fn()
	}
}

// attach subscribes this state to mutations of a nested child state so that
// interior changes bubble to the top of the tree. The child tree must stay
// acyclic; that is the host's responsibility.
func (b *Base) attach(child State) (detach func()) {
	return child.AddMutationObserver(b.notifyMutation)
}

// AsState reports whether v holds a usable state object. Typed nil pointers
// (a nil *concreteState stored in an any) do not qualify.
func AsState(v any) (State, bool) {
	st, ok := v.(State)
	if !ok {
		return nil, false
	}
	if rv := reflect.ValueOf(st); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return st, true
}

// valuesEqual reports whether two stored values are the same, using ==
// where the dynamic type supports it and deep equality otherwise. Pointer
// values (nested states in particular) compare by identity.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// ValidationError reports a rejected property assignment: either a value of
// an incompatible type or one the property's validator refused.
type ValidationError struct {
	// Property is the observable property name.
	Property string
	// Value is the rejected value.
	Value any
	// Err describes the rejection.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for property %q: %v", e.Property, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
