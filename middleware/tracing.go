package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/relay/core/handler"
)

const defaultTracerName = "github.com/dmitrymomot/relay"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// Provider defaults to the global tracer provider.
	Provider trace.TracerProvider
	// Propagator defaults to the global text map propagator.
	Propagator propagation.TextMapPropagator
	// TracerName defaults to the module path.
	TracerName string
	// Skip bypasses tracing, e.g. for health probes.
	Skip func(ctx *handler.Context) bool
}

// Tracing starts a server span per request named "METHOD /route/:pattern".
// Remote parent context is extracted from the request headers and the span
// context is installed on ctx for downstream handlers.
func Tracing(cfg TracingConfig) handler.HandlerFunc {
	if cfg.Provider == nil {
		cfg.Provider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	if cfg.TracerName == "" {
		cfg.TracerName = defaultTracerName
	}
	tracer := cfg.Provider.Tracer(cfg.TracerName)

	return func(ctx *handler.Context, next handler.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			next(nil)
			return nil
		}

		req := ctx.Request()
		parent := cfg.Propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))

		route := ctx.Route()
		if route == "" {
			route = ctx.Path()
		}

		spanCtx, span := tracer.Start(parent, req.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("http.route", route),
				attribute.String("url.path", ctx.Path()),
			),
		)
		defer span.End()

		ctx.WithContext(spanCtx)
		if id, ok := GetRequestID(ctx); ok {
			span.SetAttributes(attribute.String("http.request_id", id))
		}

		next(nil)

		status := ctx.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err := ctx.Failure(); err != nil {
			span.RecordError(err)
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		return nil
	}
}
