package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/plugin"
	"github.com/dmitrymomot/relay/core/router"
)

// PluginName is the registry name of the health plugin.
const PluginName = "health"

// Host is what the health plugin needs from the application.
type Host interface {
	Get(path string, handlers ...handler.HandlerFunc) error
	Plugin(name string) (any, error)
	Routes() []router.Route
	Logger() *slog.Logger
}

// Options configures the mounted endpoints.
type Options struct {
	LivePath     string
	ReadyPath    string
	CheckTimeout time.Duration
}

// DefaultOptions mounts /health/live and /health/ready.
func DefaultOptions() Options {
	return Options{
		LivePath:     "/health/live",
		ReadyPath:    "/health/ready",
		CheckTimeout: DefaultCheckTimeout,
	}
}

// API exposes the checks collected from dependencies.
type API struct {
	Checks []Check
}

// Plugin describes the health plugin. It depends on deps, turns every
// dependency API that implements plugin.Checker into a readiness check and
// mounts the liveness and readiness routes. Both paths are checked against
// the routes already registered before either is mounted, so a failed
// registration leaves the router untouched and can be retried.
func Plugin[A Host](deps ...string) plugin.Descriptor[A] {
	return plugin.Descriptor[A]{
		Name:         PluginName,
		Dependencies: deps,
		Options:      DefaultOptions(),
		Register: func(_ context.Context, app A, opts any) (any, error) {
			o, ok := opts.(Options)
			if !ok {
				o = DefaultOptions()
			}

			api := &API{}
			for _, dep := range deps {
				depAPI, err := app.Plugin(dep)
				if err != nil {
					return nil, err
				}
				if c, ok := depAPI.(plugin.Checker); ok {
					api.Checks = append(api.Checks, c.Check)
				}
			}

			if err := checkPaths(app.Routes(), o.LivePath, o.ReadyPath); err != nil {
				return nil, err
			}
			if err := app.Get(o.LivePath, Liveness); err != nil {
				return nil, fmt.Errorf("mount %s: %w", o.LivePath, err)
			}
			if err := app.Get(o.ReadyPath, Readiness(app.Logger(), o.CheckTimeout, api.Checks...)); err != nil {
				return nil, fmt.Errorf("mount %s: %w", o.ReadyPath, err)
			}
			return api, nil
		},
	}
}

// checkPaths reports a conflict when a GET route already exists for one of
// paths or when the paths collide with each other.
func checkPaths(existing []router.Route, paths ...string) error {
	taken := make(map[string]bool, len(existing)+len(paths))
	for _, r := range existing {
		if r.Method == http.MethodGet {
			taken[r.Pattern] = true
		}
	}
	for _, p := range paths {
		pattern := router.NormalizePattern(p)
		if taken[pattern] {
			return fmt.Errorf("mount %s: %w", p, router.ErrDuplicateRoute)
		}
		taken[pattern] = true
	}
	return nil
}
