package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState = errors.New("invalid state")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// Error carries one of the sentinel kinds above plus the failing operation.
type Error struct {
	Kind error
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Msg
	}
	return e.Op + ": " + e.Msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidState(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidState, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notFound(op, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func validation(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf is used by Store implementations to report missing records.
func NotFoundf(op, format string, args ...any) error {
	return notFound(op, format, args...)
}

// InvalidStatef is used by Store implementations to report conflicting writes.
func InvalidStatef(op, format string, args ...any) error {
	return invalidState(op, format, args...)
}
