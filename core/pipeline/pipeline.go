package pipeline

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/hook"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/router"
)

// Pipeline dispatches requests: it builds the context, runs the lifecycle hooks,
// resolves the route and drives the handler chain. Configuration happens at boot;
// ServeHTTP only reads it and is safe for concurrent use.
type Pipeline struct {
	routes       *router.Trie
	hooks        *hook.Registry
	middleware   []handler.HandlerFunc
	errorHandler handler.ErrorHandler
	logger       *slog.Logger
	maxBodySize  int64
}

// New creates a pipeline over the given trie and hook registry. A nil registry
// means no hooks.
func New(routes *router.Trie, hooks *hook.Registry, opts ...Option) *Pipeline {
	if hooks == nil {
		hooks = hook.NewRegistry()
	}
	p := &Pipeline{
		routes:       routes,
		hooks:        hooks,
		errorHandler: DefaultErrorHandler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodySize:  handler.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Use appends global middleware. Middleware runs before route handlers, in the
// order it was added.
func (p *Pipeline) Use(mw ...handler.HandlerFunc) {
	for _, m := range mw {
		if m != nil {
			p.middleware = append(p.middleware, m)
		}
	}
}

// ServeHTTP implements http.Handler.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := handler.NewContext(r)
	p.Dispatch(ctx)

	res := ctx.Response()
	if err := res.Flush(w); err != nil && !res.Flushed() {
		// The accumulated body could not be encoded; render the failure instead.
		p.handleError(ctx, err)
		if err := res.Flush(w); err != nil {
			p.logger.ErrorContext(ctx, "failed to write response", logger.Error(err))
		}
	} else if err != nil {
		p.logger.DebugContext(ctx, "failed to write response", logger.Error(err))
	}
}

// Dispatch runs every stage for ctx without touching the transport. The result
// is left in ctx.Response().
func (p *Pipeline) Dispatch(ctx *handler.Context) {
	if err := p.hooks.Run(hook.OnRequest, ctx); err != nil {
		p.handleError(ctx, err)
		return
	}

	if err := p.hooks.Run(hook.PreParsing, ctx); err != nil {
		p.handleError(ctx, err)
		return
	}
	if err := ctx.ParseBody(p.maxBodySize); err != nil {
		p.logger.DebugContext(ctx, "request body ignored", logger.Path(ctx.Path()), logger.Error(err))
	}

	match, err := p.routes.FindSegments(ctx.Method(), ctx.Segments())
	if err != nil {
		p.handleError(ctx, err)
		return
	}
	ctx.SetRoute(match.Pattern, match.Params)

	for _, stage := range []hook.Stage{hook.PreValidation, hook.PreHandler} {
		if err := p.hooks.Run(stage, ctx); err != nil {
			p.handleError(ctx, err)
			return
		}
	}

	handlers := make([]handler.HandlerFunc, 0, len(p.middleware)+len(match.Handlers))
	handlers = append(handlers, p.middleware...)
	handlers = append(handlers, match.Handlers...)

	c := newChain(ctx, handlers, p.handleError)
	c.run()
	if c.failed {
		return
	}

	if err := p.hooks.Run(hook.OnResponse, ctx); err != nil {
		p.handleError(ctx, err)
	}
}
