package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/relay/core/plugin"
)

// PluginName is the registry name of the Redis plugin.
const PluginName = "redis"

// API is the Redis plugin's API: the connected client plus lifecycle hooks
// for readiness and shutdown.
type API struct {
	*redis.Client
}

// Check implements plugin.Checker.
func (a *API) Check(ctx context.Context) error {
	return Healthcheck(a.Client)(ctx)
}

// Shutdown implements plugin.Stopper.
func (a *API) Shutdown(context.Context) error {
	return a.Close()
}

// Plugin describes a Redis connection. Register options of type Config
// override cfg.
func Plugin[A any](cfg Config) plugin.Descriptor[A] {
	return plugin.Descriptor[A]{
		Name:    PluginName,
		Options: cfg,
		Register: func(ctx context.Context, _ A, opts any) (any, error) {
			c, ok := opts.(Config)
			if !ok {
				c = cfg
			}
			client, err := Connect(ctx, c)
			if err != nil {
				return nil, err
			}
			return &API{Client: client}, nil
		},
	}
}
