package health_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/health"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/pipeline"
	"github.com/dmitrymomot/relay/core/plugin"
	"github.com/dmitrymomot/relay/core/router"
)

type host struct {
	routes  *router.Trie
	plugins *plugin.Registry[*host]
}

func newHost() *host {
	h := &host{routes: router.New()}
	h.plugins = plugin.NewRegistry(h)
	return h
}

func (h *host) Get(path string, handlers ...handler.HandlerFunc) error {
	return h.routes.Add(http.MethodGet, path, handlers...)
}

func (h *host) Plugin(name string) (any, error) { return h.plugins.Get(name) }
func (h *host) Routes() []router.Route          { return h.routes.Routes() }
func (h *host) Logger() *slog.Logger            { return logger.Nop() }

func (h *host) serve(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	pipeline.New(h.routes, nil).ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

type checker struct{ err error }

func (c checker) Check(context.Context) error { return c.err }

func dependency(name string, err error) plugin.Descriptor[*host] {
	return plugin.Descriptor[*host]{
		Name: name,
		Register: func(context.Context, *host, any) (any, error) {
			return checker{err: err}, nil
		},
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("db down") }
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	tests := []struct {
		name   string
		checks []health.Check
		status int
		body   string
	}{
		{"no checks", nil, http.StatusOK, "READY"},
		{"all pass", []health.Check{ok, ok}, http.StatusOK, "READY"},
		{"one fails", []health.Check{ok, down}, http.StatusServiceUnavailable, `{"message":"Service Unavailable"}`},
		{"timeout", []health.Check{slow}, http.StatusServiceUnavailable, `{"message":"Service Unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHost()
			require.NoError(t, h.Get("/ready", health.Readiness(nil, 50*time.Millisecond, tt.checks...)))

			w := h.serve(http.MethodGet, "/ready")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestLivenessAndNoContent(t *testing.T) {
	t.Parallel()

	h := newHost()
	require.NoError(t, h.Get("/live", health.Liveness))
	require.NoError(t, h.Get("/ping", health.NoContent))

	w := h.serve(http.MethodGet, "/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())

	w = h.serve(http.MethodGet, "/ping")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestPluginMountsRoutesFromDependencies(t *testing.T) {
	t.Parallel()

	h := newHost()
	require.NoError(t, h.plugins.Provide(dependency("db", nil), dependency("cache", errors.New("no route to host"))))

	api, err := h.plugins.Register(context.Background(), health.Plugin[*host]("db", "cache"), nil)
	require.NoError(t, err)
	require.IsType(t, &health.API{}, api)
	assert.Len(t, api.(*health.API).Checks, 2)
	assert.Equal(t, []string{"db", "cache", health.PluginName}, h.plugins.Names())

	assert.Equal(t, http.StatusOK, h.serve(http.MethodGet, "/health/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, h.serve(http.MethodGet, "/health/ready").Code)
}

func TestPluginCustomPaths(t *testing.T) {
	t.Parallel()

	h := newHost()
	opts := health.Options{LivePath: "/livez", ReadyPath: "/readyz"}
	_, err := h.plugins.Register(context.Background(), health.Plugin[*host](), opts)
	require.NoError(t, err)

	assert.Equal(t, "READY", h.serve(http.MethodGet, "/readyz").Body.String())
	assert.Equal(t, http.StatusNotFound, h.serve(http.MethodGet, "/health/live").Code)
}

func TestPluginConflictLeavesRoutesUntouched(t *testing.T) {
	t.Parallel()

	h := newHost()
	require.NoError(t, h.Get("/health/ready", health.NoContent))

	_, err := h.plugins.Register(context.Background(), health.Plugin[*host](), nil)
	require.ErrorIs(t, err, router.ErrDuplicateRoute)
	assert.Equal(t, []router.Route{{Method: http.MethodGet, Pattern: "/health/ready"}}, h.routes.Routes())
	assert.Equal(t, http.StatusNotFound, h.serve(http.MethodGet, "/health/live").Code)

	opts := health.Options{LivePath: "/health/live", ReadyPath: "/health/readyz"}
	_, err = h.plugins.Register(context.Background(), health.Plugin[*host](), opts)
	require.NoError(t, err)
	assert.Equal(t, "ALIVE", h.serve(http.MethodGet, "/health/live").Body.String())
	assert.Equal(t, "READY", h.serve(http.MethodGet, "/health/readyz").Body.String())
}

func TestPluginRejectsCollidingPaths(t *testing.T) {
	t.Parallel()

	h := newHost()
	opts := health.Options{LivePath: "/health", ReadyPath: "/health/"}
	_, err := h.plugins.Register(context.Background(), health.Plugin[*host](), opts)
	require.ErrorIs(t, err, router.ErrDuplicateRoute)
	assert.Empty(t, h.routes.Routes())
}
