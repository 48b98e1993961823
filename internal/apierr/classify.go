package apierr

import (
	"errors"
	"fmt"
)

// FailureKind discriminates the two shapes an error can take when it reaches
// the error middleware.
type FailureKind uint8

const (
	// KindUnexpected is anything that is not an *Error: bugs, panics,
	// library errors that were not translated.
	KindUnexpected FailureKind = iota
	// KindAPI is an intentional *Error.
	KindAPI
)

func (k FailureKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("FailureKind(%d)", uint8(k))
	}
}

// Failure is the classified form of an error. API is set only for KindAPI.
type Failure struct {
	Kind  FailureKind
	API   *Error
	Cause error
	Stack string
}

// Classify tags err once so callers can switch on Kind instead of probing
// types at every step.
func Classify(err error) Failure {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return Failure{Kind: KindAPI, API: ae, Cause: err, Stack: ae.Stack()}
	}
	f := Failure{Kind: KindUnexpected, Cause: err}
	var ue *unexpectedError
	if errors.As(err, &ue) && ue != nil {
		f.Stack = ue.stack
	}
	return f
}

// unexpectedError carries a stack captured away from the error's origin,
// typically where a panic was recovered.
type unexpectedError struct {
	err   error
	stack string
}

func (e *unexpectedError) Error() string { return e.err.Error() }
func (e *unexpectedError) Unwrap() error { return e.err }

// Unexpected attaches stack to err. A nil err yields nil.
func Unexpected(err error, stack string) error {
	if err == nil {
		return nil
	}
	return &unexpectedError{err: err, stack: stack}
}
