package graphstore

import (
	"errors"
	"fmt"
)

// ErrKind classifies a GraphError the way callers need to branch on it —
// by kind, not by message text.
type ErrKind int

const (
	// NullArgument: a required argument was absent.
	NullArgument ErrKind = iota
	// TypeMismatch: argument is not of the expected element/column/view kind.
	TypeMismatch
	// NotOwned: the passed node/edge/view does not belong to this store.
	NotOwned
	// Duplicate: add of a node/edge with a user id already present, or of
	// a parallel edge.
	Duplicate
	// Unsupported: unsupported attribute type, or a set-algebra call on
	// the main view.
	Unsupported
	// ProgrammingError: illegal lock upgrade, iterator misuse, removal on
	// a terminal iterator state.
	ProgrammingError
)

func (k ErrKind) String() string {
	switch k {
	case NullArgument:
		return "null argument"
	case TypeMismatch:
		return "type mismatch"
	case NotOwned:
		return "not owned"
	case Duplicate:
		return "duplicate"
	case Unsupported:
		return "unsupported"
	case ProgrammingError:
		return "programming error"
	default:
		return "unknown"
	}
}

// GraphError is the single error type returned by the graphstore package.
// Callers branch on Kind via errors.As, not on the message text.
type GraphError struct {
	Kind ErrKind
	Op   string
	Msg  string
}

func (e *GraphError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("graphstore: %s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("graphstore: %s: %s: %s", e.Op, e.Kind, e.Msg)
}

func newErr(op string, kind ErrKind, msg string) *GraphError {
	return &GraphError{Kind: kind, Op: op, Msg: msg}
}

// KindOf reports the ErrKind of err, and whether err is a *GraphError at
// all (ok is false for arbitrary errors, including nil).
func KindOf(err error) (kind ErrKind, ok bool) {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}

// Is supports errors.Is(err, SomeSentinel)-style comparisons against a
// bare ErrKind used as a sentinel (e.g. errors.Is(err, Duplicate) is not
// valid Go since ErrKind isn't an error; use KindOf instead). Is is kept
// for symmetry with errors.Is on two *GraphError values sharing a Kind.
func (e *GraphError) Is(target error) bool {
	var other *GraphError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}
