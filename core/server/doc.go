// Package server runs an http.Handler with timeouts, optional TLS and graceful
// shutdown.
//
//	srv := server.New(":8080", server.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	err := g.Wait()
//
// Run returns once ctx is canceled and in-flight requests have drained, or
// when the shutdown timeout expires. NewFromConfig builds a Server from
// SERVER_* environment variables.
package server
