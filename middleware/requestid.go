package middleware

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/relay/core/handler"
)

type requestIDContextKey struct{}

// DefaultRequestIDHeader carries the request ID in both directions.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip bypasses the middleware for matching requests.
	Skip func(ctx *handler.Context) bool
	// Generator creates new IDs. Defaults to UUID v4.
	Generator func() string
	// HeaderName defaults to X-Request-ID.
	HeaderName string
	// UseExisting keeps an ID sent by the client.
	UseExisting bool
}

// RequestID assigns a UUID to every request.
func RequestID() handler.HandlerFunc {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig stores the request ID in the context and echoes it in
// the response header, including on error responses.
func RequestIDWithConfig(cfg RequestIDConfig) handler.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.NewString() }
	}

	return func(ctx *handler.Context, next handler.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			next(nil)
			return nil
		}

		var id string
		if cfg.UseExisting {
			id = ctx.Header(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}

		ctx.SetValue(requestIDContextKey{}, id)
		ctx.Response().Header(cfg.HeaderName, id)

		next(nil)
		return nil
	}
}

// GetRequestID returns the ID stored by RequestID.
func GetRequestID(ctx *handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
