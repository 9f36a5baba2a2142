// Package middleware provides handler chain middleware for cross-cutting
// concerns.
//
// Chain middleware has the handler.HandlerFunc shape: it does its setup, calls
// next(nil) and inspects ctx.Response() once next returns. By then the
// downstream handlers, or the error handler, have produced the final status.
//
//	app.Use(
//		middleware.RequestID(),
//		middleware.Logging(log),
//		middleware.Metrics(middleware.WithRegistry(reg)),
//		middleware.Tracing(middleware.TracingConfig{}),
//		middleware.Timeout(10*time.Second),
//	)
//
// CORS wraps the whole http.Handler instead, because preflight requests must be
// answered before routing.
package middleware
