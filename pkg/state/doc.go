// Package state provides the observable state model that the statesync
// library serializes and patches.
//
// A state object is a node with a fixed, declared set of named observable
// properties. Each property holds a scalar value, a nested state object, or
// an ordered collection of items. Property declarations happen once, in the
// state's constructor, and are stable for the lifetime of the object.
//
// # Declaring State
//
// Embed [Base] in your state struct and register typed properties in the
// constructor:
//
//	type scatterState struct {
//	    state.Base
//	    Title  *state.Prop[string]
//	    XMin   *state.Prop[float64]
//	    Layers *state.List
//	}
//
//	func newScatterState() *scatterState {
//	    s := &scatterState{}
//	    s.Title = state.NewProp(s, "title", "")
//	    s.XMin = state.NewPropWithPriority(s, "x_min", 0.0, 1)
//	    s.Layers = state.NewList(s, "layers")
//	    return s
//	}
//
// Typed access goes through the property handles (s.Title.Get(),
// s.Title.Set("...")); the synchronization layer uses the dynamic [State]
// interface (Value, SetValue) that Base implements.
//
// # Change Notification
//
// Every effective mutation anywhere in a state's subtree reaches the
// mutation observers registered on the root:
//
//	remove := s.AddMutationObserver(func() {
//	    // re-serialize and transmit
//	})
//
// Nested state objects, whether held directly in a property or as items of
// a List, are attached automatically so their interior changes bubble up.
// Observers fire only when a stored value actually changes.
//
// # Update Priority
//
// Properties carry an integer update priority used when applying incoming
// change records: higher-priority properties are assigned first, so a
// property whose valid range depends on another (say, axis limits depending
// on the selected attribute) can rely on the other being current.
//
// # Threading
//
// State objects are NOT thread-safe. All mutation and observer dispatch
// must happen on a single logical thread, typically the application's UI
// or event thread. This matches the cooperative, synchronous model of the
// front-end event loops the library synchronizes with.
package state
