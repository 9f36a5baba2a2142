package hook

import "errors"

var (
	ErrUnknownStage = errors.New("unknown hook stage")
	ErrNilHook      = errors.New("hook function is nil")
)

// Error is returned by Run when a callback fails. Its payload is the
// callback error's own payload when it has one, otherwise the message.
type Error struct {
	Stage   Stage
	Status  int
	Message string
	Err     error

	body any
}

// Error implements the error interface. It returns the original message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the callback's error.
func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status chosen for the failure.
func (e *Error) StatusCode() int { return e.Status }

// Payload returns the JSON body sent to the client.
func (e *Error) Payload() any {
	if e.body != nil {
		return e.body
	}
	return map[string]string{"message": e.Message}
}
