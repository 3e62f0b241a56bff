package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence error")
	ErrUpstream     = errors.New("upstream error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a kind, a caller-facing message and an optional cause
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// NewValidationError creates a validation error
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(what string) error {
	return &Error{Kind: ErrNotFound, Msg: what + " not found"}
}

// WrapPersistence wraps a storage fault
func WrapPersistence(op string, err error) error {
	return &Error{Kind: ErrPersistence, Msg: op, Err: err}
}

// WrapUpstream wraps a completion provider failure
func WrapUpstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Msg: op, Err: err}
}

// NewUnauthorizedError creates an authentication failure
func NewUnauthorizedError(msg string) error {
	return &Error{Kind: ErrUnauthorized, Msg: msg}
}

// Message returns the caller-facing message of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
