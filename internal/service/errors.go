package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP boundary maps each kind onto
// exactly one status code.
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindUnauthorized
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	}
	return "internal"
}

// Error is returned by every SessionManager operation. Message is safe to
// show to clients; Err holds the cause for logs and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func conflict(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func unauthorized(msg string, err error) error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: err}
}

func internal(err error) error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// Validation builds a KindValidation error for input rejected before it
// reaches the session manager.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message carried by err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal error"
}
