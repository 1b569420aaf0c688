// Package witgenerr implements the error taxonomy spec.md §7 specifies for
// the witness-generation core: a small fixed set of error kinds, each
// carrying enough context (identity text, row indices, known-value
// rendering) to let a host present "a single root cause with the nested
// call chain" (spec.md §7's propagation policy).
package witgenerr

import (
	"errors"
	"fmt"
)

// Kind is one of the seven error kinds spec.md §7 enumerates.
type Kind uint8

const (
	ConstraintUnsatisfiable Kind = iota
	ConflictingAssignment
	IncompleteProgress
	SubMachineFailure
	QueryOracleFailure
	NonLinearStep
	RangeContradiction
)

func (k Kind) String() string {
	switch k {
	case ConstraintUnsatisfiable:
		return "constraint unsatisfiable"
	case ConflictingAssignment:
		return "conflicting assignment"
	case IncompleteProgress:
		return "incomplete progress"
	case SubMachineFailure:
		return "sub-machine failure"
	case QueryOracleFailure:
		return "query oracle failure"
	case NonLinearStep:
		return "non-linear step"
	case RangeContradiction:
		return "range contradiction"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every fatal condition in witgen is
// reported as. NonLinearStep is the one kind that is never supposed to
// escape the Identity Processor (spec.md §7: "Local recovery is limited to
// NonLinearStep, which is silently deferred") — it exists here so internal
// plumbing can use the same type uniformly, but callers above the Identity
// Processor should never see it construct a fatal Error.
type Error struct {
	Kind Kind
	// Identity is the textual form of the offending identity, when known.
	Identity string
	// Machine names the machine the error originated in (set as the error
	// is annotated while propagating upward, per spec.md §7).
	Machine string
	// LocalRow/GlobalRow are the row indices the failure occurred at.
	LocalRow, GlobalRow uint64
	// RowRendering is a debug dump of known values on the row pair.
	RowRendering string
	// Msg is a short human-readable message.
	Msg string
	// Wrapped holds a SubMachineFailure's underlying cause.
	Wrapped error
}

func (e *Error) Error() string {
	prefix := e.Kind.String()
	if e.Machine != "" {
		prefix = e.Machine + ": " + prefix
	}
	if e.Identity != "" {
		return fmt.Sprintf("%s: %s (row %d): %s", prefix, e.Identity, e.GlobalRow, e.Msg)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Msg)
	}
	return prefix
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds a bare Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WithRow attaches row context to e and returns e for chaining.
func (e *Error) WithRow(local, global uint64, rendering string) *Error {
	e.LocalRow, e.GlobalRow = local, global
	e.RowRendering = rendering
	return e
}

// WithIdentity attaches the offending identity's textual form.
func (e *Error) WithIdentity(text string) *Error {
	e.Identity = text
	return e
}

// Annotate wraps cause as a SubMachineFailure originating from the named
// machine, preserving errors.Is/errors.As reachability to the root cause
// (spec.md §7: "annotates with the machine name and re-raises").
func Annotate(machine string, cause error) *Error {
	var inner *Error
	if errors.As(cause, &inner) {
		return &Error{
			Kind:    SubMachineFailure,
			Machine: machine,
			Msg:     inner.Error(),
			Wrapped: cause,
		}
	}
	return &Error{Kind: SubMachineFailure, Machine: machine, Msg: cause.Error(), Wrapped: cause}
}

// Is allows errors.Is(err, witgenerr.ConstraintUnsatisfiable) style kind
// checks by comparing Kind through a sentinel-free helper.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
