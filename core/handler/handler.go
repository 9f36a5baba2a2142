package handler

import (
	"github.com/dmitrymomot/relay/core/response"
)

// Next passes control along the chain. Calling it with nil runs the following
// handler; calling it with an error stops the chain and hands the error to the
// error handler. Only the first call made by a handler has an effect.
type Next func(err error)

// HandlerFunc is a link in the request chain. Middleware and route handlers share
// this signature. A handler that does not call next ends the chain; returning a
// non-nil error is equivalent to next(err).
type HandlerFunc func(ctx *Context, next Next) error

// ErrorHandler renders an error that escaped the chain or a hook.
type ErrorHandler func(ctx *Context, err error)

// Terminal adapts a function that never continues the chain.
func Terminal(fn func(ctx *Context) error) HandlerFunc {
	return func(ctx *Context, _ Next) error {
		return fn(ctx)
	}
}

// Responder is implemented by values that carry a response builder.
type Responder interface {
	Response() *response.Response
}

// BodyCarrier is implemented by values that carry a parsed request body.
type BodyCarrier interface {
	Body() any
	RawBody() []byte
}

var (
	_ Responder   = (*Context)(nil)
	_ BodyCarrier = (*Context)(nil)
)
