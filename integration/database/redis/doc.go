// Package redis connects to Redis with go-redis and exposes the client as a
// plugin.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	api, err := app.Register(ctx, redis.Plugin[*relay.App](cfg), nil)
//
// Connect retries the initial ping REDIS_RETRY_ATTEMPTS times. The plugin API
// answers readiness checks with PING and closes the client on shutdown.
package redis
