package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/relay/core/plugin"
)

// PluginName is the registry name of the MongoDB plugin.
const PluginName = "mongo"

// API exposes the client and the configured database.
type API struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func (a *API) Check(ctx context.Context) error {
	return Healthcheck(a.Client)(ctx)
}

func (a *API) Shutdown(ctx context.Context) error {
	if err := a.Client.Disconnect(ctx); err != nil {
		return errors.Join(ErrFailedToDisconnectMongo, err)
	}
	return nil
}

// Plugin describes a MongoDB client. A Config passed as registration options
// replaces cfg.
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
			return &API{Client: client, Database: client.Database(c.Database)}, nil
		},
	}
}
