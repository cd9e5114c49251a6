package state

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// layerState is a small leaf state for testing.
type layerState struct {
	Base
	Color *Prop[string]
	Alpha *Prop[float64]
}

func newLayerState() *layerState {
	s := &layerState{}
	s.Color = NewProp(s, "color", "gray")
	s.Alpha = NewProp(s, "alpha", 1.0)
	return s
}

// plotState exercises priorities, nested states, and collections.
type plotState struct {
	Base
	Title  *Prop[string]
	XMin   *Prop[float64]
	XMax   *Prop[float64]
	Bins   *Prop[int]
	Active *Prop[*layerState]
	Layers *List
}

func newPlotState() *plotState {
	s := &plotState{}
	s.Title = NewProp(s, "title", "untitled")
	s.XMin = NewPropWithPriority(s, "x_min", 0.0, 1)
	s.XMax = NewPropWithPriority(s, "x_max", 1.0, 1)
	s.Bins = NewProp(s, "bins", 10)
	s.Active = NewProp[*layerState](s, "active", nil)
	s.Layers = NewList(s, "layers")
	return s
}

var (
	_ State = (*layerState)(nil)
	_ State = (*plotState)(nil)
)

// countMutations attaches a counting observer to s.
func countMutations(s State) (*int, func()) {
	n := new(int)
	remove := s.AddMutationObserver(func() { *n++ })
	return n, remove
}

func TestPropGetSet(t *testing.T) {
	s := newLayerState()
	if got := s.Color.Get(); got != "gray" {
		t.Errorf("expected initial color 'gray', got %q", got)
	}
	if err := s.Color.Set("red"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Color.Get(); got != "red" {
		t.Errorf("expected color 'red', got %q", got)
	}

	v, ok := s.Value("color")
	if !ok {
		t.Fatal("expected Value to find 'color'")
	}
	if v != "red" {
		t.Errorf("expected dynamic value 'red', got %v", v)
	}
}

func TestPropSetEqualValueDoesNotNotify(t *testing.T) {
	s := newLayerState()
	n, _ := countMutations(s)

	if err := s.Alpha.Set(1.0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if *n != 0 {
		t.Errorf("expected no mutation for equal value, got %d", *n)
	}

	if err := s.Alpha.Set(0.5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if *n != 1 {
		t.Errorf("expected 1 mutation, got %d", *n)
	}
}

func TestPropObserve(t *testing.T) {
	s := newLayerState()
	var gotOld, gotNew string
	calls := 0
	remove := s.Color.Observe(func(old, new string) {
		gotOld, gotNew = old, new
		calls++
	})

	s.Color.Set("blue")
	if calls != 1 {
		t.Fatalf("expected 1 observer call, got %d", calls)
	}
	if gotOld != "gray" || gotNew != "blue" {
		t.Errorf("expected old 'gray' new 'blue', got %q and %q", gotOld, gotNew)
	}

	remove()
	s.Color.Set("green")
	if calls != 1 {
		t.Errorf("expected observer to stop after remove, got %d calls", calls)
	}
}

func TestPropValidator(t *testing.T) {
	s := newLayerState()
	s.Alpha.SetValidator(func(v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("alpha %v outside [0, 1]", v)
		}
		return nil
	})

	err := s.Alpha.Set(2.0)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Property != "alpha" {
		t.Errorf("expected property 'alpha', got %q", verr.Property)
	}
	if got := s.Alpha.Get(); got != 1.0 {
		t.Errorf("expected value unchanged after rejection, got %v", got)
	}

	if err := s.Alpha.Set(0.25); err != nil {
		t.Errorf("expected valid value to pass, got %v", err)
	}
}

func TestSetValueCoercesNumbers(t *testing.T) {
	s := newPlotState()

	if err := s.SetValue("bins", float64(24)); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if got := s.Bins.Get(); got != 24 {
		t.Errorf("expected bins 24, got %d", got)
	}

	if err := s.SetValue("x_min", 3); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if got := s.XMin.Get(); got != 3.0 {
		t.Errorf("expected x_min 3.0, got %v", got)
	}

	if err := s.SetValue("bins", 3.5); err == nil {
		t.Error("expected error assigning fractional value to int property")
	}
	err := s.SetValue("bins", "twelve")
	if err == nil {
		t.Fatal("expected error assigning string to int property")
	}
	if !strings.Contains(err.Error(), "cannot assign") {
		t.Errorf("expected coercion error, got %v", err)
	}
}

func TestSetValueUnknownProperty(t *testing.T) {
	s := newLayerState()
	err := s.SetValue("missing", 1)
	if err == nil {
		t.Fatal("expected error for unknown property")
	}
	if !strings.Contains(err.Error(), "unknown property") {
		t.Errorf("expected unknown property error, got %v", err)
	}
}

func TestPropertiesSortedAndCopied(t *testing.T) {
	s := newPlotState()
	want := []string{"active", "bins", "layers", "title", "x_max", "x_min"}
	got := s.Properties()
	if len(got) != len(want) {
		t.Fatalf("expected %d properties, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected property %d to be %q, got %q", i, want[i], got[i])
		}
	}

	got[0] = "changed"
	if s.Properties()[0] != "active" {
		t.Error("expected Properties to return a copy")
	}
}

func TestIsProperty(t *testing.T) {
	s := newLayerState()
	if !s.IsProperty("color") {
		t.Error("expected 'color' to be a property")
	}
	if s.IsProperty("width") {
		t.Error("expected 'width' not to be a property")
	}
}

func TestUpdatePriority(t *testing.T) {
	s := newPlotState()
	if got := s.UpdatePriority("x_min"); got != 1 {
		t.Errorf("expected priority 1 for x_min, got %d", got)
	}
	if got := s.UpdatePriority("title"); got != 0 {
		t.Errorf("expected priority 0 for title, got %d", got)
	}
	if got := s.UpdatePriority("missing"); got != 0 {
		t.Errorf("expected priority 0 for undeclared name, got %d", got)
	}
}

func TestValueUndeclared(t *testing.T) {
	s := newLayerState()
	if _, ok := s.Value("missing"); ok {
		t.Error("expected Value to report undeclared property")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on duplicate property")
		}
		if !strings.Contains(fmt.Sprint(r), "duplicate property") {
			t.Errorf("expected duplicate property panic, got %v", r)
		}
	}()
	s := &layerState{}
	s.Color = NewProp(s, "color", "gray")
	NewProp(s, "color", "red")
}

func TestEmptyPropertyNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty property name")
		}
	}()
	s := &layerState{}
	NewProp(s, "", 0)
}

func TestMutationObserverRemove(t *testing.T) {
	s := newLayerState()
	n, remove := countMutations(s)

	s.Color.Set("red")
	remove()
	s.Color.Set("blue")
	if *n != 1 {
		t.Errorf("expected 1 mutation after remove, got %d", *n)
	}

	// Removing twice and observing nil are both harmless.
	remove()
	removeNil := s.AddMutationObserver(nil)
	removeNil()
}

func TestNestedStateBubbles(t *testing.T) {
	plot := newPlotState()
	first := newLayerState()
	second := newLayerState()

	n, _ := countMutations(plot)

	if err := plot.Active.Set(first); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if *n != 1 {
		t.Fatalf("expected 1 mutation after assigning nested state, got %d", *n)
	}

	first.Color.Set("red")
	if *n != 2 {
		t.Errorf("expected nested mutation to bubble, got %d", *n)
	}

	if err := plot.Active.Set(second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first.Color.Set("blue")
	if *n != 3 {
		t.Errorf("expected replaced state to stop bubbling, got %d", *n)
	}
	second.Alpha.Set(0.5)
	if *n != 4 {
		t.Errorf("expected new nested state to bubble, got %d", *n)
	}
}

func TestAsState(t *testing.T) {
	if _, ok := AsState(newLayerState()); !ok {
		t.Error("expected state value to be recognized")
	}
	if _, ok := AsState(42); ok {
		t.Error("expected plain value not to be a state")
	}
	if _, ok := AsState(nil); ok {
		t.Error("expected nil not to be a state")
	}
	var typed *layerState
	if _, ok := AsState(typed); ok {
		t.Error("expected typed nil pointer not to be a state")
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, 1, false},
		{"equal ints", 3, 3, true},
		{"different ints", 3, 4, false},
		{"different types", 3, 3.0, false},
		{"equal strings", "a", "a", true},
		{"equal slices", []float64{1, 2}, []float64{1, 2}, true},
		{"different slices", []float64{1, 2}, []float64{1, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("valuesEqual(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
