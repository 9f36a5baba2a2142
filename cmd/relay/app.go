package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/relay"
	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/health"
	"github.com/dmitrymomot/relay/core/plugin"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/integration/database/mongo"
	"github.com/dmitrymomot/relay/integration/database/opensearch"
	"github.com/dmitrymomot/relay/integration/database/pg"
	"github.com/dmitrymomot/relay/integration/database/redis"
	"github.com/dmitrymomot/relay/integration/storage/s3"
	"github.com/dmitrymomot/relay/middleware"
)

// build assembles the demo application. With connect unset the connector
// plugins are only provided, so nothing dials out.
func build(ctx context.Context, cfg cliConfig, connect bool) (*relay.App, error) {
	app, err := relay.New()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := app.Wrap(
		middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}),
		mount(cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	); err != nil {
		return nil, err
	}

	isHealthRoute := func(ctx *handler.Context) bool {
		return ctx.Route() == health.DefaultOptions().LivePath || ctx.Route() == health.DefaultOptions().ReadyPath
	}
	if err := app.Use(
		middleware.RequestID(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{Logger: app.Logger(), Skip: isHealthRoute}),
		middleware.Metrics(middleware.WithRegistry(reg)),
		middleware.Tracing(middleware.TracingConfig{Skip: isHealthRoute}),
		middleware.Timeout(cfg.RequestTimeout),
	); err != nil {
		return nil, err
	}

	if err := routes(app); err != nil {
		return nil, err
	}

	connectors := []struct {
		enabled bool
		desc    plugin.Descriptor[*relay.App]
	}{
		{cfg.EnableRedis, redis.Plugin[*relay.App](cfg.Redis)},
		{cfg.EnablePostgres, pg.Plugin[*relay.App](cfg.Postgres)},
		{cfg.EnableMongo, mongo.Plugin[*relay.App](cfg.Mongo)},
		{cfg.EnableOpenSearch, opensearch.Plugin[*relay.App](cfg.OpenSearch)},
		{cfg.EnableS3, s3.Plugin[*relay.App](cfg.S3)},
	}
	var deps []string
	for _, c := range connectors {
		if !c.enabled {
			continue
		}
		if err := app.Provide(c.desc); err != nil {
			return nil, err
		}
		if connect {
			deps = append(deps, c.desc.Name)
		}
	}

	if _, err := app.Register(ctx, health.Plugin[*relay.App](deps...), nil); err != nil {
		return nil, err
	}
	return app, nil
}

func routes(app *relay.App) error {
	if err := app.Get("/", handler.Terminal(func(ctx *handler.Context) error {
		ctx.Response().JSON(map[string]string{"name": "relay", "version": version})
		return nil
	})); err != nil {
		return err
	}

	if err := app.Get("/hello/:name", handler.Terminal(func(ctx *handler.Context) error {
		ctx.Response().JSON(map[string]string{"message": "hello, " + ctx.Param("name")})
		return nil
	})); err != nil {
		return err
	}

	return app.Post("/echo", handler.Terminal(func(ctx *handler.Context) error {
		if len(ctx.RawBody()) == 0 && len(ctx.BodyMap()) == 0 {
			return response.ErrBadRequest.WithMessage("request body is empty")
		}
		ctx.Response().JSON(ctx.Body())
		return nil
	}))
}

// mount serves h at path ahead of the pipeline.
func mount(path string, h http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if path != "" && r.URL.Path == path && r.Method == http.MethodGet {
				h.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
