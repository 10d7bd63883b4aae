// Package response writes the API error envelope and maps domain errors to
// HTTP statuses.
package response

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/example/kandy/internal/errs"
)

// GeneralErrorKey holds a validation message that is not tied to one field.
const GeneralErrorKey = "general"

// Field error codes.
const (
	MissedValue             = "missed_value"
	InvalidValue            = "invalid_value"
	InvalidRequestStructure = "invalid_request_structure"
)

// ErrorMessage describes one field problem.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is an error that knows how to render itself as an HTTP response.
type Error interface {
	error
	Status() int
	Body() Envelope
}

// Envelope is the JSON body of every error response.
type Envelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of an Envelope.
type ErrorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  map[string]ErrorMessage `json:"fields,omitempty"`
}

type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }
func (e *apiError) Status() int   { return e.status }

func (e *apiError) Body() Envelope {
	return Envelope{Error: ErrorBody{Code: e.code, Message: e.message}}
}

// NewInternalError hides the cause from the client.
func NewInternalError() Error {
	return &apiError{status: http.StatusInternalServerError, code: "internal_error", message: "internal server error"}
}

// NewUnauthenticatedError reports a missing or bad bearer token.
func NewUnauthenticatedError(message string) Error {
	return &apiError{status: http.StatusUnauthorized, code: errs.KindUnauthenticated.String(), message: message}
}

// NewTooManyRequestsError reports a throttled client.
func NewTooManyRequestsError() Error {
	return &apiError{status: http.StatusTooManyRequests, code: "rate_limited", message: "too many requests, try again later"}
}

// NewNotFoundError reports an unknown route.
func NewNotFoundError(message string) Error {
	return &apiError{status: http.StatusNotFound, code: errs.KindNotFound.String(), message: message}
}

// ValidationError collects field-level problems.
type ValidationError struct {
	Fields map[string]ErrorMessage
}

// NewValidationError returns a validation error, optionally seeded with fields.
func NewValidationError(fields ...map[string]ErrorMessage) *ValidationError {
	ve := &ValidationError{Fields: make(map[string]ErrorMessage)}
	for _, f := range fields {
		for k, v := range f {
			ve.Fields[k] = v
		}
	}
	return ve
}

// SetError records a problem with key.
func (e *ValidationError) SetError(key, code, message string) {
	e.Fields[key] = ErrorMessage{Code: code, Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for k, v := range e.Fields {
			if k == GeneralErrorKey {
				return v.Message
			}
			return k + ": " + v.Message
		}
	}
	return "validation failed"
}

func (e *ValidationError) Status() int { return http.StatusBadRequest }

func (e *ValidationError) Body() Envelope {
	return Envelope{Error: ErrorBody{
		Code:    errs.KindValidation.String(),
		Message: e.Error(),
		Fields:  e.Fields,
	}}
}

// FromError converts a service error into a response.Error.
func FromError(err error) Error {
	var rerr Error
	if e, ok := err.(Error); ok {
		return e
	}

	kind := errs.KindOf(err)
	switch kind {
	case errs.KindValidation:
		fields := errs.FieldsOf(err)
		ve := NewValidationError()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ve.SetError(k, InvalidValue, fields[k])
		}
		if len(fields) == 0 {
			ve.SetError(GeneralErrorKey, InvalidValue, err.Error())
		}
		rerr = ve
	case errs.KindUnauthenticated:
		rerr = &apiError{status: http.StatusUnauthorized, code: kind.String(), message: err.Error()}
	case errs.KindUnauthorized:
		rerr = &apiError{status: http.StatusForbidden, code: kind.String(), message: err.Error()}
	case errs.KindNotFound:
		rerr = &apiError{status: http.StatusNotFound, code: kind.String(), message: err.Error()}
	case errs.KindInvalidTransition, errs.KindInvalidState:
		rerr = &apiError{status: http.StatusConflict, code: kind.String(), message: err.Error()}
	default:
		rerr = NewInternalError()
	}
	return rerr
}

// HandleError writes err as an error envelope and aborts the request.
func HandleError(err error, c *gin.Context) {
	rerr := FromError(err)
	c.AbortWithStatusJSON(rerr.Status(), rerr.Body())
}
