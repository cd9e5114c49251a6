// Package bridge connects live state trees to a remote peer. A Slot tracks
// one state under a name: every mutation inside the tree, however deep,
// surfaces as a single Change notification telling the host to re-serialize,
// and the snapshot/apply hooks move JSON change records in both directions.
// A Registry collects the slots of one sync session.
package bridge

import (
	"errors"

	syncerrors "github.com/go-drift/statesync/pkg/errors"
	"github.com/go-drift/statesync/pkg/record"
	"github.com/go-drift/statesync/pkg/state"
)

// ErrNotState is returned when a slot receives a value that is not a state.
var ErrNotState = errors.New("value should be a state instance")

// ErrNoState is returned when a slot operation needs a tracked state but
// none is assigned.
var ErrNoState = errors.New("no state assigned")

// Change describes one synthesized change notification. Old and New carry
// the same state on interior mutation: the notification means "something
// inside changed, re-serialize", not "the value was replaced".
type Change struct {
	Name string
	Old  any
	New  any
}

// NotifyFunc receives change notifications from a slot.
type NotifyFunc func(Change)

// Slot tracks one state tree under a name.
type Slot struct {
	name    string
	codec   Codec
	notify  NotifyFunc
	st      state.State
	release func()
}

// NewSlot creates a slot using the default JSON codec. notify may be nil
// for a slot that is only read through its snapshot/apply hooks.
func NewSlot(name string, notify NotifyFunc) *Slot {
	return NewSlotWithCodec(name, notify, DefaultCodec)
}

// NewSlotWithCodec creates a slot with an explicit codec.
func NewSlotWithCodec(name string, notify NotifyFunc, codec Codec) *Slot {
	if codec == nil {
		codec = DefaultCodec
	}
	return &Slot{name: name, notify: notify, codec: codec}
}

// Name returns the slot name.
func (s *Slot) Name() string {
	return s.name
}

// State returns the tracked state, or nil when the slot is empty.
func (s *Slot) State() state.State {
	return s.st
}

// Set assigns the state tracked by this slot. nil clears the slot; any
// other non-state value fails with ErrNotState. Assigning registers one
// mutation observer on the new state, and re-assigning or clearing releases
// the observer held on the previous one.
func (s *Slot) Set(value any) error {
	if value == nil {
		s.releaseState()
		s.st = nil
		return nil
	}
	st, ok := state.AsState(value)
	if !ok {
		return ErrNotState
	}
	s.releaseState()
	s.st = st
	s.release = st.AddMutationObserver(s.onMutation)
	return nil
}

func (s *Slot) releaseState() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// onMutation forwards an interior mutation as a Change notification. A
// panic in the host's notify callback is reported through the error handler
// instead of unwinding into whatever mutated the state.
func (s *Slot) onMutation() {
	if s.notify == nil {
		return
	}
	defer syncerrors.Recover("bridge.notify")
	s.notify(Change{Name: s.name, Old: s.st, New: s.st})
}

// SnapshotJSON serializes the tracked state as a JSON change record. With
// no state assigned it returns "{}", so a fresh peer always receives a
// valid document.
func (s *Slot) SnapshotJSON() ([]byte, error) {
	if s.st == nil {
		return []byte("{}"), nil
	}
	data, err := s.codec.EncodeState(s.st)
	if err != nil {
		syncerrors.Report(&syncerrors.SyncError{
			Op:   "bridge.snapshot",
			Kind: syncerrors.KindEncoding,
			Slot: s.name,
			Err:  err,
		})
		return nil, err
	}
	return data, nil
}

// ApplyJSON patches the tracked state from a JSON change record and returns
// the state, which keeps its identity across the update. Unknown record
// keys are ignored; a rejected value aborts the patch and is returned after
// being reported.
func (s *Slot) ApplyJSON(data []byte) (state.State, error) {
	if s.st == nil {
		return nil, ErrNoState
	}
	rec, err := s.codec.DecodeRecord(data)
	if err != nil {
		syncerrors.Report(&syncerrors.SyncError{
			Op:   "bridge.apply",
			Kind: syncerrors.KindEncoding,
			Slot: s.name,
			Err:  err,
		})
		return nil, err
	}
	if err := record.Apply(s.st, rec); err != nil {
		serr := &syncerrors.SyncError{
			Op:   "bridge.apply",
			Kind: syncerrors.KindPatch,
			Slot: s.name,
			Err:  err,
		}
		var perr *record.PatchError
		if errors.As(err, &perr) {
			serr.Property = perr.Property
		}
		syncerrors.Report(serr)
		return nil, err
	}
	return s.st, nil
}
