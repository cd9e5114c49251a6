package state

import (
	"fmt"
	"reflect"
	"slices"
)

// Prop is a typed observable property. Create one per declared property in
// the state's constructor:
//
//	s.Title = state.NewProp(s, "title", "untitled")
//
// Reads and typed writes go through Get and Set; the synchronization layer
// reaches the property dynamically through [State.Value] and
// [State.SetValue], which coerce JSON-decoded values (float64 numbers,
// []any slices) to the property's static type.
type Prop[T any] struct {
	base      *Base
	name      string
	value     T
	validate  func(T) error
	observers []*propObserver[T]
	detach    func()
}

type propObserver[T any] struct {
	fn func(old, new T)
}

// NewProp declares a property with update priority 0.
func NewProp[T any](owner host, name string, initial T) *Prop[T] {
	return NewPropWithPriority(owner, name, initial, 0)
}

// NewPropWithPriority declares a property with an explicit update priority.
// Higher priorities are applied first when patching a change record.
func NewPropWithPriority[T any](owner host, name string, initial T, priority int) *Prop[T] {
	b := owner.base()
	p := &Prop[T]{base: b, name: name, value: initial}
	b.register(name, priority, p.valueAny, p.setAny)
	p.attachValue(initial)
	return p
}

// Name returns the declared property name.
func (p *Prop[T]) Name() string {
	return p.name
}

// Get returns the current value.
func (p *Prop[T]) Get() T {
	return p.value
}

// Set validates and stores a new value. Observers fire only when the stored
// value actually changes. The returned error is a *ValidationError when the
// property's validator rejects the value.
func (p *Prop[T]) Set(v T) error {
	if p.validate != nil {
		if err := p.validate(v); err != nil {
			return &ValidationError{Property: p.name, Value: any(v), Err: err}
		}
	}
	old := p.value
	if valuesEqual(any(old), any(v)) {
		return nil
	}
	p.value = v
	p.detachValue()
	p.attachValue(v)
	p.notifyObservers(old, v)
	p.base.notifyMutation()
	return nil
}

// SetValidator installs a validation function consulted on every subsequent
// assignment, typed or dynamic. Call it once, in the state's constructor.
func (p *Prop[T]) SetValidator(fn func(T) error) {
	p.validate = fn
}

// Observe registers fn to run with the old and new value after every
// effective change of this property. The returned function removes the
// observer.
func (p *Prop[T]) Observe(fn func(old, new T)) (remove func()) {
	if fn == nil {
		return func() {}
	}
	obs := &propObserver[T]{fn: fn}
	p.observers = append(p.observers, obs)
	return func() {
		for i, o := range p.observers {
			if o == obs {
				p.observers = slices.Delete(p.observers, i, i+1)
				return
			}
		}
	}
}

func (p *Prop[T]) notifyObservers(old, new T) {
	if len(p.observers) == 0 {
		return
	}
	observers := slices.Clone(p.observers)
	for _, o := range observers {
		o.fn(old, new)
	}
}

// valueAny is the dynamic getter registered with Base.
func (p *Prop[T]) valueAny() any {
	return p.value
}

// setAny is the dynamic setter registered with Base. It coerces the
// incoming value to T before delegating to Set.
func (p *Prop[T]) setAny(v any) error {
	tv, ok := coerce[T](v)
	if !ok {
		return &ValidationError{
			Property: p.name,
			Value:    v,
			Err:      fmt.Errorf("cannot assign %T to %s", v, reflect.TypeOf((*T)(nil)).Elem()),
		}
	}
	return p.Set(tv)
}

// attachValue wires a nested state value so its interior mutations bubble
// through the owning state.
func (p *Prop[T]) attachValue(v T) {
	if child, ok := AsState(any(v)); ok {
		p.detach = p.base.attach(child)
	}
}

func (p *Prop[T]) detachValue() {
	if p.detach != nil {
		p.detach()
		p.detach = nil
	}
}
