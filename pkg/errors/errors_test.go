package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSyncErrorString(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  *SyncError
		want string
	}{
		{
			name: "bare",
			err:  &SyncError{Op: "record.encode", Kind: KindEncoding, Err: base},
			want: "record.encode [encoding]: boom",
		},
		{
			name: "with slot",
			err:  &SyncError{Op: "bridge.notify", Kind: KindPanic, Slot: "viewer_state", Err: base},
			want: "bridge.notify [panic] slot=viewer_state: boom",
		},
		{
			name: "with property",
			err:  &SyncError{Op: "record.apply", Kind: KindValidation, Property: "x_min", Err: base},
			want: "record.apply [validation] property=x_min: boom",
		},
		{
			name: "with slot and property",
			err:  &SyncError{Op: "record.apply", Kind: KindPatch, Slot: "viewer_state", Property: "layers", Err: base},
			want: "record.apply [patch] slot=viewer_state property=layers: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSyncErrorUnwrap(t *testing.T) {
	base := errors.New("rejected")
	err := &SyncError{Op: "record.apply", Kind: KindValidation, Err: base}
	if !errors.Is(err, base) {
		t.Errorf("errors.Is should find the wrapped error")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindTypeMismatch, "type-mismatch"},
		{KindEncoding, "encoding"},
		{KindValidation, "validation"},
		{KindPatch, "patch"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "bridge.notify"
	if got, want := err.Error(), "panic in bridge.notify: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

// captureHandler records reported errors for testing.
type captureHandler struct {
	errors []*SyncError
	panics []*PanicError
}

func (h *captureHandler) HandleError(err *SyncError)  { h.errors = append(h.errors, err) }
func (h *captureHandler) HandlePanic(err *PanicError) { h.panics = append(h.panics, err) }

func TestReportSetsTimestamp(t *testing.T) {
	handler := &captureHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	Report(&SyncError{Op: "test.op", Kind: KindUnknown, Err: errors.New("x")})

	if len(handler.errors) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(handler.errors))
	}
	if handler.errors[0].Timestamp.IsZero() {
		t.Error("expected Report to fill in a zero Timestamp")
	}
}

func TestReportNil(t *testing.T) {
	handler := &captureHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	Report(nil)
	ReportPanic(nil)

	if len(handler.errors) != 0 || len(handler.panics) != 0 {
		t.Error("nil reports should be dropped")
	}
}

func TestRecoverReportsPanic(t *testing.T) {
	handler := &captureHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("deliberate")
	}()

	if len(handler.panics) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(handler.panics))
	}
	p := handler.panics[0]
	if p.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", p.Op, "test.recover")
	}
	if fmt.Sprint(p.Value) != "deliberate" {
		t.Errorf("Value = %v, want %q", p.Value, "deliberate")
	}
	if p.StackTrace == "" {
		t.Error("expected StackTrace to be captured")
	}
	if !strings.Contains(p.StackTrace, "errors") {
		t.Errorf("stack trace should mention this package, got:\n%s", p.StackTrace)
	}
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	SetHandler(&captureHandler{})
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("expected LogHandler after SetHandler(nil), got %T", DefaultHandler)
	}
}
