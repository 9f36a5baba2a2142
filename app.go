package relay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/core/config"
	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/hook"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/pipeline"
	"github.com/dmitrymomot/relay/core/plugin"
	"github.com/dmitrymomot/relay/core/router"
	"github.com/dmitrymomot/relay/core/server"
)

// App wires the route trie, hook registry, dispatch pipeline, plugin
// registry and HTTP server together.
//
// Routes, hooks, middleware and plugins are set up at boot. The first call to
// Handler, ServeHTTP or Run freezes routes, hooks and middleware; plugins may
// still be registered afterwards.
type App struct {
	config       Config
	logger       *slog.Logger
	routes       *router.Trie
	hooks        *hook.Registry
	pipeline     *pipeline.Pipeline
	plugins      *plugin.Registry[*App]
	server       *server.Server
	errorHandler handler.ErrorHandler

	mu       sync.Mutex
	wrappers []func(http.Handler) http.Handler
	started  bool
	handler  http.Handler
}

// New loads Config from the environment, applies opts and builds the app.
func New(opts ...Option) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{config: cfg}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = logger.NewFromConfig(app.config.Log)
	}

	var trieOpts []router.Option
	if app.config.AllowRouteOverwrite {
		trieOpts = append(trieOpts, router.WithOverwrite())
	}
	app.routes = router.New(trieOpts...)
	app.hooks = hook.NewRegistry(hook.WithLogger(app.logger.With(logger.Component("hooks"))))

	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(app.logger.With(logger.Component("pipeline"))),
		pipeline.WithMaxBodySize(app.config.MaxBodySize),
	}
	if app.errorHandler != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithErrorHandler(app.errorHandler))
	}
	app.pipeline = pipeline.New(app.routes, app.hooks, pipelineOpts...)
	app.plugins = plugin.NewRegistry(app, plugin.WithLogger(app.logger.With(logger.Component("plugins"))))

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger.With(logger.Component("server"))))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() Config { return a.config }

// Logger returns the application logger. Plugins log through it.
func (a *App) Logger() *slog.Logger { return a.logger }

// Server returns the HTTP server used by Run.
func (a *App) Server() *server.Server { return a.server }

// Handle registers handlers for method and path.
func (a *App) Handle(method, path string, handlers ...handler.HandlerFunc) error {
	if err := a.mutable(); err != nil {
		return err
	}
	return a.routes.Add(method, path, handlers...)
}

func (a *App) Get(path string, handlers ...handler.HandlerFunc) error {
	return a.Handle(http.MethodGet, path, handlers...)
}

func (a *App) Post(path string, handlers ...handler.HandlerFunc) error {
	return a.Handle(http.MethodPost, path, handlers...)
}

func (a *App) Put(path string, handlers ...handler.HandlerFunc) error {
	return a.Handle(http.MethodPut, path, handlers...)
}

func (a *App) Patch(path string, handlers ...handler.HandlerFunc) error {
	return a.Handle(http.MethodPatch, path, handlers...)
}

func (a *App) Delete(path string, handlers ...handler.HandlerFunc) error {
	return a.Handle(http.MethodDelete, path, handlers...)
}

// Use appends global middleware. It runs before every route's handlers.
func (a *App) Use(mw ...handler.HandlerFunc) error {
	if err := a.mutable(); err != nil {
		return err
	}
	a.pipeline.Use(mw...)
	return nil
}

// Wrap adds http.Handler middleware around the whole pipeline. It sees the
// request before routing, so it can answer requests no route matches, such as
// CORS preflights. The first wrapper added is the outermost.
func (a *App) Wrap(mw ...func(http.Handler) http.Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAppStarted
	}
	for _, m := range mw {
		if m != nil {
			a.wrappers = append(a.wrappers, m)
		}
	}
	return nil
}

// AddHook appends fn to a lifecycle stage.
func (a *App) AddHook(stage hook.Stage, fn hook.Func) error {
	if err := a.mutable(); err != nil {
		return err
	}
	return a.hooks.Add(stage, fn)
}

// Provide makes descriptors known without registering them, so other plugins
// can depend on them by name.
func (a *App) Provide(descriptors ...plugin.Descriptor[*App]) error {
	return a.plugins.Provide(descriptors...)
}

// Register registers d and its dependencies. opts is passed to d only.
func (a *App) Register(ctx context.Context, d plugin.Descriptor[*App], opts any) (any, error) {
	return a.plugins.Register(ctx, d, opts)
}

// Plugin returns the API of a registered plugin.
func (a *App) Plugin(name string) (any, error) {
	return a.plugins.Get(name)
}

// Plugins exposes the registry, e.g. for plugin.API.
func (a *App) Plugins() *plugin.Registry[*App] { return a.plugins }

// Routes lists the registered routes.
func (a *App) Routes() []router.Route { return a.routes.Routes() }

// Handler freezes the app and returns the pipeline wrapped in the http-level
// middleware.
func (a *App) Handler() http.Handler {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.handler != nil {
		return a.handler
	}

	var h http.Handler = a.pipeline
	for i := len(a.wrappers) - 1; i >= 0; i-- {
		h = a.wrappers[i](h)
	}
	a.handler = h
	a.started = true
	return h
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Handler().ServeHTTP(w, r)
}

// Run serves until ctx is canceled or the server fails, then shuts the
// plugins down in reverse registration order.
func (a *App) Run(ctx context.Context) error {
	h := a.Handler()

	a.logger.InfoContext(ctx, "starting",
		slog.String("addr", a.server.Addr()),
		slog.Int("routes", len(a.Routes())),
		slog.Any("plugins", a.plugins.Names()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(gctx, h))
	runErr := g.Wait()

	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = server.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	start := time.Now()
	shutdownErr := a.plugins.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		a.logger.ErrorContext(ctx, "plugin shutdown failed", logger.Error(shutdownErr))
	}
	a.logger.InfoContext(ctx, "stopped", logger.Elapsed(start))

	return errors.Join(runErr, shutdownErr)
}

func (a *App) mutable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAppStarted
	}
	return nil
}
