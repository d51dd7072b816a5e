package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure.
type ErrorKind string

const (
	KindAccessDenied        ErrorKind = "access_denied"
	KindForbidden           ErrorKind = "forbidden"
	KindValidation          ErrorKind = "validation"
	KindNotFound            ErrorKind = "not_found"
	KindInvalidState        ErrorKind = "invalid_state"
	KindDuplicateConnection ErrorKind = "duplicate_connection"
	KindInternal            ErrorKind = "internal"
)

// CustomError is a user visible domain failure. Field and Bound are set for
// validation failures only.
type CustomError struct {
	Kind    ErrorKind `json:"type"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Bound   string    `json:"bound,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s [field: %s, bound: %s]", e.Kind, e.Message, e.Field, e.Bound)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *CustomError of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrAccessDenied        = &CustomError{Kind: KindAccessDenied}
	ErrForbidden           = &CustomError{Kind: KindForbidden}
	ErrValidation          = &CustomError{Kind: KindValidation}
	ErrNotFound            = &CustomError{Kind: KindNotFound}
	ErrInvalidState        = &CustomError{Kind: KindInvalidState}
	ErrDuplicateConnection = &CustomError{Kind: KindDuplicateConnection}
)

func AccessDenied(format string, args ...any) error {
	return &CustomError{Kind: KindAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &CustomError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &CustomError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &CustomError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func DuplicateConnection(format string, args ...any) error {
	return &CustomError{Kind: KindDuplicateConnection, Message: fmt.Sprintf(format, args...)}
}

// Validation reports the violated field and the bound it failed.
func Validation(field, bound, format string, args ...any) error {
	return &CustomError{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
		Bound:   bound,
	}
}

// KindOf classifies err. Anything that is not a *CustomError is internal.
func KindOf(err error) ErrorKind {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// AsCustom returns the domain error wrapped in err, if any.
func AsCustom(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
