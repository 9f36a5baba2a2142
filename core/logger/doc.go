// Package logger builds slog loggers and provides attribute helpers used across
// the framework.
//
//	log := logger.New(
//		logger.WithProduction("billing"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "plugin registered", logger.Plugin("redis"))
//
// NewFromConfig reads LOG_LEVEL, LOG_FORMAT and APP_NAME through Config. Components
// that accept a logger default to Nop so libraries stay silent unless wired up.
package logger
