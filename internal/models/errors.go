package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the ledger wraps exactly one of these
// so callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("store unavailable")
	ErrUpstream     = errors.New("upstream provider failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrAmountRequired is returned when a utility bill is marked paid before an
// amount has been entered for it.
var ErrAmountRequired = &Error{Kind: ErrValidation, Message: "enter the bill amount before marking it paid"}

// Error carries a stable kind plus a human readable message.
type Error struct {
	Kind    error
	Message string
	Err     error // underlying cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps an infrastructure failure that is worth retrying.
func Unavailable(cause error, format string, args ...any) error {
	return &Error{Kind: ErrUnavailable, Message: fmt.Sprintf(format, args...), Err: cause}
}

func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failure reported by a third-party provider.
func Upstream(cause error, format string, args ...any) error {
	return &Error{Kind: ErrUpstream, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the error kind carried by err, or nil for untyped errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrConflict, ErrUnavailable, ErrUpstream, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Message returns the user facing message of a typed error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
