// Package errors provides structured error handling for the statesync library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindTypeMismatch indicates a value of the wrong type was assigned to a
	// tracked slot.
	KindTypeMismatch
	// KindEncoding indicates a value could not be reduced to a JSON-safe form.
	KindEncoding
	// KindValidation indicates a property setter rejected an incoming value.
	KindValidation
	// KindPatch indicates a change record could not be applied to live state.
	KindPatch
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type-mismatch"
	case KindEncoding:
		return "encoding"
	case KindValidation:
		return "validation"
	case KindPatch:
		return "patch"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// SyncError represents a structured error in the statesync library.
type SyncError struct {
	// Op is the operation that failed (e.g., "bridge.notify").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Slot is the tracked slot name, if applicable.
	Slot string
	// Property is the observable property name, if applicable.
	Property string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *SyncError) Error() string {
	switch {
	case e.Slot != "" && e.Property != "":
		return fmt.Sprintf("%s [%s] slot=%s property=%s: %v", e.Op, e.Kind, e.Slot, e.Property, e.Err)
	case e.Slot != "":
		return fmt.Sprintf("%s [%s] slot=%s: %v", e.Op, e.Kind, e.Slot, e.Err)
	case e.Property != "":
		return fmt.Sprintf("%s [%s] property=%s: %v", e.Op, e.Kind, e.Property, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "bridge.notify").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the statesync library.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *SyncError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
