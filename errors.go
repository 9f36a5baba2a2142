package relay

import "errors"

var (
	ErrAppStarted = errors.New("app already started, routes, hooks and middleware are frozen")
	ErrNilOption  = errors.New("option value cannot be nil")
)
