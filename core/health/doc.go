// Package health provides liveness and readiness handlers.
//
//	app.Get("/health/live", health.Liveness)
//	app.Get("/health/ready", health.Readiness(log, 0, db.Ping, cache.Ping))
//
// Readiness probes run concurrently and share one timeout. Registering
// Plugin(deps...) mounts both routes and builds the readiness checks from
// the dependencies' APIs.
package health
