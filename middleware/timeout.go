package middleware

import (
	"context"
	"time"

	"github.com/dmitrymomot/relay/core/handler"
)

// Timeout puts a deadline on the rest of the chain. Handlers that keep
// running past it are not interrupted, but the pipeline checks the deadline
// before every handler and answers 503 {"message":"Request timeout"}.
func Timeout(d time.Duration) handler.HandlerFunc {
	return func(ctx *handler.Context, next handler.Next) error {
		if d <= 0 {
			next(nil)
			return nil
		}

		deadlineCtx, cancel := context.WithTimeout(ctx.Request().Context(), d)
		defer cancel()

		ctx.WithContext(deadlineCtx)
		next(nil)
		// Drop the deadline but keep values stored further down the chain;
		// onResponse hooks still need them.
		ctx.WithContext(context.WithoutCancel(ctx.Request().Context()))
		return nil
	}
}
