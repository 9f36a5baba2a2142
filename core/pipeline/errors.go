package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/hook"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/core/router"
)

// statusCoder is implemented by errors that pick their HTTP status.
type statusCoder interface {
	StatusCode() int
}

// payloader is implemented by errors that pick their response body.
type payloader interface {
	Payload() any
}

// genericPayload is sent for errors that carry no payload of their own.
var genericPayload = map[string]string{"message": http.StatusText(http.StatusInternalServerError)}

// PanicError is passed to the error handler when a handler panics.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
func (e *panicError) Value() any    { return e.value }
func (e *panicError) Stack() []byte { return e.stack }

// Unwrap exposes a panic value that is itself an error.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// Resolve maps err to the status and JSON payload sent to the client:
//   - errors carrying StatusCode/Payload are rendered verbatim;
//   - router.ErrRouteNotFound becomes 404 {"message":"Route not found"};
//   - an expired request deadline becomes 503;
//   - anything else becomes 500 with a generic message.
func Resolve(err error) (int, any) {
	var sc statusCoder
	if errors.As(err, &sc) {
		status := sc.StatusCode()
		var p payloader
		if errors.As(err, &p) {
			return status, p.Payload()
		}
		return status, map[string]string{"message": err.Error()}
	}

	switch {
	case errors.Is(err, router.ErrRouteNotFound):
		return response.ErrRouteNotFound.StatusCode(), response.ErrRouteNotFound.Payload()
	case errors.Is(err, context.DeadlineExceeded):
		return response.ErrRequestTimeout.StatusCode(), response.ErrRequestTimeout.Payload()
	}
	return http.StatusInternalServerError, genericPayload
}

// DefaultErrorHandler discards whatever the chain accumulated and writes the
// resolved status and payload as JSON.
func DefaultErrorHandler(ctx *handler.Context, err error) {
	status, payload := Resolve(err)
	ctx.Response().Reset()
	ctx.Response().Status(status).JSON(payload)
}

// handleError runs the onError hooks and the configured error handler. It never
// re-enters the chain; failures inside onError hooks are only logged.
func (p *Pipeline) handleError(ctx *handler.Context, err error) {
	ctx.SetFailure(err)

	attrs := []any{
		logger.Method(ctx.Method()),
		logger.Path(ctx.Path()),
		logger.Route(ctx.Route()),
		logger.Error(err),
	}
	var pe PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.Stack())))
	}
	if status, _ := Resolve(err); status >= http.StatusInternalServerError {
		p.logger.ErrorContext(ctx, "request failed", attrs...)
	} else {
		p.logger.DebugContext(ctx, "request rejected", attrs...)
	}

	if herr := p.hooks.Run(hook.OnError, ctx); herr != nil {
		p.logger.WarnContext(ctx, "onError hook failed", logger.Error(herr))
	}

	p.errorHandler(ctx, err)
}
