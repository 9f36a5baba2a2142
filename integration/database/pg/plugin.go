package pg

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/relay/core/plugin"
)

// PluginName is the registry name of the PostgreSQL plugin.
const PluginName = "postgres"

// API wraps the connection pool.
type API struct {
	*pgxpool.Pool
}

func (a *API) Check(ctx context.Context) error {
	return Healthcheck(a.Pool)(ctx)
}

func (a *API) Shutdown(context.Context) error {
	a.Close()
	return nil
}

// Plugin describes a PostgreSQL pool. With cfg.AutoMigrate the migrations run
// during registration and a migration failure fails the registration.
func Plugin[A any](cfg Config) plugin.Descriptor[A] {
	return plugin.Descriptor[A]{
		Name:    PluginName,
		Options: cfg,
		Register: func(ctx context.Context, app A, opts any) (any, error) {
			c, ok := opts.(Config)
			if !ok {
				c = cfg
			}
			pool, err := Connect(ctx, c)
			if err != nil {
				return nil, err
			}
			if c.AutoMigrate {
				if err := Migrate(ctx, pool, c, loggerOf(app)); err != nil {
					pool.Close()
					return nil, err
				}
			}
			return &API{Pool: pool}, nil
		},
	}
}

func loggerOf(app any) *slog.Logger {
	if l, ok := app.(interface{ Logger() *slog.Logger }); ok {
		return l.Logger()
	}
	return nil
}
