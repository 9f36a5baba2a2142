package hook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/logger"
)

// Func is a lifecycle callback. A non-nil error aborts the stage.
type Func func(ctx *handler.Context) error

// Registry keeps ordered callbacks per stage. Callbacks are added at boot and
// only read while serving, so Run takes no locks.
type Registry struct {
	entries [stageCount][]Func
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report hook failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends fn to the stage. Callbacks run in the order they were added.
func (r *Registry) Add(stage Stage, fn Func) error {
	if !stage.Valid() {
		return ErrUnknownStage
	}
	if fn == nil {
		return ErrNilHook
	}
	r.entries[stage] = append(r.entries[stage], fn)
	return nil
}

// Len returns the number of callbacks registered for stage.
func (r *Registry) Len(stage Stage) int {
	if !stage.Valid() {
		return 0
	}
	return len(r.entries[stage])
}

// Run calls every callback of stage one after another. The first failure stops
// the run and is returned as *Error. A canceled request stops the run before the
// next callback and its context error is returned unchanged.
func (r *Registry) Run(stage Stage, ctx *handler.Context) error {
	if !stage.Valid() {
		return ErrUnknownStage
	}

	for i, fn := range r.entries[stage] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			herr := classify(stage, err)
			r.logger.DebugContext(ctx, "hook failed",
				logger.Stage(stage.String()),
				slog.Int("index", i),
				logger.StatusCode(herr.Status),
				logger.Error(err),
			)
			return herr
		}
	}
	return nil
}

// statusCoder is implemented by errors that choose their own HTTP status.
type statusCoder interface {
	StatusCode() int
}

// payloader is implemented by errors that render their own response body.
type payloader interface {
	Payload() any
}

// classify wraps a callback error. An error carrying its own status or payload
// keeps them; otherwise validation-like stages map to 400 and the rest to 500.
func classify(stage Stage, err error) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	status := http.StatusInternalServerError
	if stage.validationLike() {
		status = http.StatusBadRequest
	}
	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() > 0 {
		status = sc.StatusCode()
	}

	herr := &Error{
		Stage:   stage,
		Status:  status,
		Message: err.Error(),
		Err:     err,
	}
	var p payloader
	if errors.As(err, &p) {
		herr.body = p.Payload()
	}
	return herr
}
