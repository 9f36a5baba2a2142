package pipeline

import (
	"log/slog"

	"github.com/dmitrymomot/relay/core/handler"
)

// Option configures a Pipeline during creation.
type Option func(*Pipeline)

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.errorHandler = h
		}
	}
}

// WithMiddleware adds global middleware, same as Use.
func WithMiddleware(mw ...handler.HandlerFunc) Option {
	return func(p *Pipeline) {
		p.Use(mw...)
	}
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMaxBodySize limits how many body bytes are read for parsing.
func WithMaxBodySize(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBodySize = n
		}
	}
}
