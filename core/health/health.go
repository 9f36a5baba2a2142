package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// DefaultCheckTimeout bounds a single readiness probe.
const DefaultCheckTimeout = 5 * time.Second

// Liveness answers 200 "ALIVE" without touching dependencies.
func Liveness(ctx *handler.Context, _ handler.Next) error {
	ctx.Response().Text("ALIVE")
	return nil
}

// NoContent answers 204 with no body.
func NoContent(ctx *handler.Context, _ handler.Next) error {
	ctx.Response().Status(http.StatusNoContent)
	return nil
}

// Readiness runs all checks concurrently and answers 200 "READY" when every
// one passes, 503 otherwise.
func Readiness(log *slog.Logger, timeout time.Duration, checks ...Check) handler.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}

	return func(ctx *handler.Context, _ handler.Next) error {
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		g, gctx := errgroup.WithContext(probeCtx)
		for _, check := range checks {
			g.Go(func() error { return check(gctx) })
		}
		if err := g.Wait(); err != nil {
			log.ErrorContext(ctx, "readiness check failed", logger.Component("health"), logger.Error(err))
			return response.ErrServiceUnavailable
		}

		ctx.Response().Text("READY")
		return nil
	}
}
