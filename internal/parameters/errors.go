package parameters

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParameter is returned when a name is not bound in the table, or
	// an inbuilt class it refers to is not registered.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrConflictingParameter is returned when a conflict-checked update tries
	// to rebind a name to a materially different value.
	ErrConflictingParameter = errors.New("conflicting parameter")
	// ErrInvalidParameter is returned for values that cannot be decoded or that
	// break the rate/capacity/current consistency rule.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Error describes a failure involving a single parameter name.
type Error struct {
	Name   string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Name)
	}
	return fmt.Sprintf("%v: %q: %s", e.Err, e.Name, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func paramErr(name string, kind error, format string, args ...any) *Error {
	return &Error{Name: name, Err: kind, Detail: fmt.Sprintf(format, args...)}
}
