package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/logger"
)

// LoggingConfig configures request logging.
type LoggingConfig struct {
	// Skip bypasses logging for matching requests, e.g. health probes.
	Skip func(ctx *handler.Context) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// LogLevel for successful requests. Defaults to info.
	LogLevel slog.Level

	// LogHeaders adds request headers with SensitiveHeaders redacted.
	LogHeaders bool

	// SensitiveHeaders are logged as [REDACTED].
	SensitiveHeaders []string

	// SlowRequestThreshold raises successful requests to warn. Defaults to 5s.
	SlowRequestThreshold time.Duration

	Component string
}

// Logging logs one line per request with the default configuration.
func Logging(log *slog.Logger) handler.HandlerFunc {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs the outcome of the downstream chain. Server errors
// log at error, client errors and slow requests at warn.
func LoggingWithConfig(cfg LoggingConfig) handler.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"Set-Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
		}
	}
	sensitive := lo.Map(cfg.SensitiveHeaders, func(h string, _ int) string {
		return http.CanonicalHeaderKey(h)
	})
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(ctx *handler.Context, next handler.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			next(nil)
			return nil
		}

		start := time.Now()
		next(nil)
		duration := time.Since(start)

		req := ctx.Request()
		res := ctx.Response()
		status := res.StatusCode()

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Method(req.Method),
			logger.Path(ctx.Path()),
			logger.Route(ctx.Route()),
			logger.StatusCode(status),
			logger.Duration(duration),
			logger.RemoteAddr(req.RemoteAddr),
			slog.Int("bytes_out", len(res.Body())),
		}
		if id, ok := GetRequestID(ctx); ok {
			attrs = append(attrs, logger.RequestID(id))
		}
		if req.URL.RawQuery != "" {
			attrs = append(attrs, logger.Query(req.URL.RawQuery))
		}
		if cfg.LogHeaders {
			attrs = append(attrs, slog.Any("request_headers", redactHeaders(req.Header, sensitive)))
		}

		level := cfg.LogLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
			if err := ctx.Failure(); err != nil {
				attrs = append(attrs, logger.Error(err))
			}
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case duration > cfg.SlowRequestThreshold:
			level = slog.LevelWarn
			attrs = append(attrs, slog.Bool("slow_request", true))
		}

		cfg.Logger.LogAttrs(ctx, level, "http request", attrs...)
		return nil
	}
}

func redactHeaders(h http.Header, sensitive []string) map[string]any {
	return lo.MapEntries(h, func(key string, values []string) (string, any) {
		if lo.Contains(sensitive, key) {
			return key, "[REDACTED]"
		}
		if len(values) == 1 {
			return key, values[0]
		}
		return key, values
	})
}
