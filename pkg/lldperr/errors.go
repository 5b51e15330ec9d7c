// Package lldperr names the design-level error kinds surfaced by the LLDP
// engine's components. These are not a type hierarchy: a single Error type
// carries a Kind tag plus an optional wrapped cause and interface name, so
// callers can branch with errors.Is/errors.As without type-switching on
// concrete error structs.
package lldperr

import (
	"errors"
	"fmt"
)

// Kind tags the design-level category of a failure. See spec section 7 of
// this repository's design notes for the full taxonomy and propagation
// policy.
type Kind string

const (
	// ConfigInvalid covers bad env values, TTL <= interval, TTL >= 65536,
	// and unknown interface names. User error; fails fast before any
	// network I/O.
	ConfigInvalid Kind = "config_invalid"

	// TLVTooLong is returned by the encoder when a TLV payload exceeds
	// 511 bytes and cannot be represented in a 9-bit length field.
	TLVTooLong Kind = "tlv_too_long"

	// FrameTooLong is returned when an encoded frame would exceed the
	// 1500-byte wire budget.
	FrameTooLong Kind = "frame_too_long"

	// MalformedFrame covers decode failures: a TLV header declares a
	// length that overruns the remaining buffer.
	MalformedFrame Kind = "malformed_frame"

	// FrameOrderInvalid covers decode failures where the mandatory
	// Chassis ID -> Port ID -> TTL ordering is violated.
	FrameOrderInvalid Kind = "frame_order_invalid"

	// L2IOError covers send or receive failure on one interface.
	L2IOError Kind = "l2_io_error"

	// StoreCorrupt covers a neighbor file that fails to parse.
	StoreCorrupt Kind = "store_corrupt"

	// PrivilegeDenied covers raw socket access denied by the OS.
	PrivilegeDenied Kind = "privilege_denied"

	// WorkerAlreadyRunning is returned by the receiver controller's
	// start operation when a live capture worker already owns the PID
	// file.
	WorkerAlreadyRunning Kind = "worker_already_running"

	// WorkerNotRunning is returned by the receiver controller's stop
	// operation when no live capture worker is registered.
	WorkerNotRunning Kind = "worker_not_running"
)

// Error wraps a Kind with an optional cause and the interface it was
// observed on, so log lines and exit-code mapping can be built from one
// value instead of ad hoc string formatting at every call site.
type Error struct {
	Kind      Kind
	Interface string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	switch {
	case e.Interface != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Message, e.Interface, e.Cause)
	case e.Interface != "":
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Interface, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, lldperr.New(SomeKind, nil)) match on Kind alone,
// ignoring Cause/Interface/Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Newf builds an Error of the given kind with a formatted message and no
// wrapped cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// OnInterface builds an Error of the given kind wrapping cause, annotated
// with the interface name it was observed on.
func OnInterface(kind Kind, iface string, cause error) *Error {
	return &Error{Kind: kind, Interface: iface, Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// ExitCode maps a Kind to the process exit code convention from the
// command-line surface: 0 ok, 1 user error, 2 runtime error, 3 privilege
// error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind, ok := KindOf(err)
	if !ok {
		return 2
	}
	switch kind {
	case ConfigInvalid, WorkerAlreadyRunning, WorkerNotRunning:
		return 1
	case PrivilegeDenied:
		return 3
	default:
		return 2
	}
}
