// Package errs defines the error taxonomy shared by services and adapters.
// Adapters translate a Kind into their own vocabulary (HTTP status, tool error).
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to react to it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindInvalidTransition
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal_error"
	}
}

// Error is a classified error. Fields carries per-field messages for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or missing input. fields may be nil.
func Validation(message string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Field is a shorthand for a validation error on a single field.
func Field(field, message string) error {
	return Validation(fmt.Sprintf("%s: %s", field, message), map[string]string{field: message})
}

// Unauthenticated reports a missing or unusable credential.
func Unauthenticated(format string, args ...any) error {
	return New(KindUnauthenticated, format, args...)
}

// Unauthorized reports a caller whose role or ownership does not permit the operation.
func Unauthorized(format string, args ...any) error {
	return New(KindUnauthorized, format, args...)
}

// NotFound reports a missing entity.
func NotFound(entity, id string) error {
	return New(KindNotFound, "%s %s not found", entity, id)
}

// InvalidTransition reports a status change that is not legal from the current status.
func InvalidTransition(format string, args ...any) error {
	return New(KindInvalidTransition, format, args...)
}

// InvalidState reports an operation that is not legal in the entity's current state.
func InvalidState(format string, args ...any) error {
	return New(KindInvalidState, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldsOf returns the field messages of a validation error, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
