package tzfield

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package is an *Error wrapping
// one of these, so callers can test with errors.Is.
var (
	// ErrMalformedTimeSpec means a non-empty time text did not match the
	// YEAR [MONTH [DAY [TIME]]] grammar.
	ErrMalformedTimeSpec = errors.New("malformed time spec")
	// ErrMalformedOffset means an offset text did not match [-]H:MM[:SS].
	ErrMalformedOffset = errors.New("malformed offset")
	// ErrUnknownMonth means a month token is not in the month table.
	ErrUnknownMonth = errors.New("unknown month")
	// ErrInvalidOffsetType means FormatOffsetValue was called with
	// something that is not a whole number of seconds.
	ErrInvalidOffsetType = errors.New("offset must be an integer")
)

// Error reports the offending literal text together with the kind of failure.
type Error struct {
	Kind error  // one of the Err* kinds above
	Text string // the text that was rejected
}

// Error returns a string representation of the error, implementing the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, text string) error {
	return &Error{Kind: kind, Text: text}
}
