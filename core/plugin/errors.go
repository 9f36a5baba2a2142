package plugin

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

var (
	ErrDependencyMissing  = errors.New("plugin dependency missing")
	ErrRegistrationFailed = errors.New("plugin registration failed")
	ErrNotRegistered      = errors.New("plugin not registered")
	ErrDependencyCycle    = errors.New("plugin dependency cycle")
	ErrInvalidDescriptor  = errors.New("invalid plugin descriptor")
	ErrDuplicatePlugin    = errors.New("plugin already provided")
	ErrAPITypeMismatch    = errors.New("plugin api type mismatch")
)

// RegistrationError reports a failed register function. It matches
// ErrRegistrationFailed and unwraps to the underlying cause.
type RegistrationError struct {
	Plugin string
	Err    error
}

func (e *RegistrationError) Error() string {
	return "plugin " + strconv.Quote(e.Plugin) + ": " + ErrRegistrationFailed.Error() + ": " + e.Err.Error()
}

func (e *RegistrationError) Unwrap() error { return e.Err }

func (e *RegistrationError) Is(target error) bool { return target == ErrRegistrationFailed }
