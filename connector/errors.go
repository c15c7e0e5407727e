package connector

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen is returned by operations on a connector before Open.
	ErrNotOpen = errors.New("connector is not open")

	// ErrClosed is returned by operations on a connector after Close.
	// A closed connector cannot be reopened.
	ErrClosed = errors.New("connector is closed")
)

// OpError carries the failing operation and the statement hash prefix so
// failures can be correlated with cursor log lines without reprinting SQL.
type OpError struct {
	// Op is the operation name: "open", "close", "fetch" or "execute".
	Op string

	// Statement is the statement hash prefix, empty when not applicable.
	Statement string

	// Err is the underlying error.
	Err error
}

func (e *OpError) Error() string {
	if e.Statement != "" {
		return fmt.Sprintf("%s (statement %s): %v", e.Op, e.Statement, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
