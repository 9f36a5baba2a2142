package router

import "errors"

var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrDuplicateRoute = errors.New("route already registered")
	ErrParamConflict  = errors.New("conflicting parameter name at the same path position")
	ErrInvalidMethod  = errors.New("invalid http method")
	ErrInvalidPattern = errors.New("invalid route path pattern")
	ErrNoHandlers     = errors.New("route requires at least one non-nil handler")
)
