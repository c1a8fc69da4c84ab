// Package apperr defines the error kinds every pipeline stage reports and
// the mapping from an error to the process exit code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal failure.
type Kind int

const (
	KindUnknown     Kind = iota
	KindArgument         // Bad or missing CLI input.
	KindProbe            // Source metadata could not be read.
	KindFilterBuild      // A filter or parameter was rejected.
	KindExecution        // The engine exited nonzero.
)

// String returns the taxonomy name used in log output.
func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "ArgumentError"
	case KindProbe:
		return "ProbeError"
	case KindFilterBuild:
		return "FilterBuildError"
	case KindExecution:
		return "ExecutionError"
	default:
		return "Error"
	}
}

// Error is a classified failure. Op names the stage or operation that
// failed (e.g. "probe", "scale").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind and op. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Argumentf returns an ArgumentError with a formatted message.
func Argumentf(format string, args ...interface{}) error {
	return &Error{Kind: KindArgument, Err: fmt.Errorf(format, args...)}
}

// Probe wraps err as a ProbeError.
func Probe(op string, err error) error { return New(KindProbe, op, err) }

// FilterBuild wraps err as a FilterBuildError.
func FilterBuild(op string, err error) error { return New(KindFilterBuild, op, err) }

// Execution wraps err as an ExecutionError.
func Execution(op string, err error) error { return New(KindExecution, op, err) }

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ExitCode maps err to a process exit code: 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
