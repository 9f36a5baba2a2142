package opensearch

import (
	"context"

	osearch "github.com/opensearch-project/opensearch-go/v2"

	"github.com/dmitrymomot/relay/core/plugin"
)

// PluginName is the registry name of the OpenSearch plugin.
const PluginName = "opensearch"

// API wraps the cluster client.
type API struct {
	*osearch.Client
}

func (a *API) Check(ctx context.Context) error {
	return Healthcheck(a.Client)(ctx)
}

// Plugin describes an OpenSearch client. A Config passed as registration
// options replaces cfg.
func Plugin[A any](cfg Config) plugin.Descriptor[A] {
	return plugin.Descriptor[A]{
		Name:    PluginName,
		Options: cfg,
		Register: func(ctx context.Context, _ A, opts any) (any, error) {
			c, ok := opts.(Config)
			if !ok {
				c = cfg
			}
			client, err := New(ctx, c)
			if err != nil {
				return nil, err
			}
			return &API{Client: client}, nil
		},
	}
}
