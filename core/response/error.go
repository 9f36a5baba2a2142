package response

import (
	"errors"
	"net/http"
)

var (
	ErrEncodeBody     = errors.New("failed to encode response body")
	ErrAlreadyFlushed = errors.New("response already flushed")
)

// Error is an error that knows how it should be rendered to the client.
// The pipeline's error handler responds with Status and Payload() verbatim.
type Error struct {
	Status  int            `json:"-"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewError creates an Error with the given status and message.
func NewError(status int, message string) Error {
	return Error{Status: status, Message: message}
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e Error) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// Payload returns the JSON body sent to the client.
func (e Error) Payload() any {
	return e
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithCode returns a copy of the error with a machine-readable code.
func (e Error) WithCode(code string) Error {
	e.Code = code
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}

// Predefined errors. ErrRouteNotFound and ErrRequestTimeout are produced by
// the dispatch pipeline; the rest are for handlers.
var (
	ErrBadRequest          = NewError(http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
	ErrUnauthorized        = NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	ErrForbidden           = NewError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	ErrNotFound            = NewError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	ErrRouteNotFound       = NewError(http.StatusNotFound, "Route not found")
	ErrConflict            = NewError(http.StatusConflict, http.StatusText(http.StatusConflict))
	ErrUnprocessableEntity = NewError(http.StatusUnprocessableEntity, http.StatusText(http.StatusUnprocessableEntity))
	ErrTooManyRequests     = NewError(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
	ErrInternal            = NewError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	ErrServiceUnavailable  = NewError(http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
	ErrRequestTimeout      = NewError(http.StatusServiceUnavailable, "Request timeout")
)
