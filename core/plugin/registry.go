package plugin

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dmitrymomot/relay/core/logger"
)

type state uint8

const (
	unregistered state = iota
	registering
	registered
)

// RegisterFunc wires a plugin into app and returns the API other code reaches
// through Get. opts is whatever the caller passed to Register.
type RegisterFunc[A any] func(ctx context.Context, app A, opts any) (any, error)

// Descriptor declares a plugin. Dependencies name other descriptors that must be
// registered first; when registered as a dependency a plugin receives its own
// default Options.
type Descriptor[A any] struct {
	Name         string
	Register     RegisterFunc[A]
	Dependencies []string
	Options      any
}

// Checker is implemented by plugin APIs that can report their health.
type Checker interface {
	Check(ctx context.Context) error
}

// Stopper is implemented by plugin APIs that hold resources.
type Stopper interface {
	Shutdown(ctx context.Context) error
}

// Registry tracks plugin descriptors and memoizes the API each one returns.
//
// Register calls are serialized. A RegisterFunc must not call Register on the
// same registry; declare the plugin as a dependency instead.
type Registry[A any] struct {
	app    A
	logger *slog.Logger

	regMu sync.Mutex

	mu          sync.RWMutex
	descriptors map[string]Descriptor[A]
	states      map[string]state
	apis        map[string]any
	order       []string
}

// Option configures a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for registration events.
func WithLogger(l *slog.Logger) Option {
	return func(o *registryOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewRegistry creates a registry whose RegisterFuncs receive app.
func NewRegistry[A any](app A, opts ...Option) *Registry[A] {
	o := registryOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[A]{
		app:         app,
		logger:      o.logger,
		descriptors: make(map[string]Descriptor[A]),
		states:      make(map[string]state),
		apis:        make(map[string]any),
	}
}

// Provide makes d known to the registry without registering it, so it can be
// resolved as a dependency.
func (r *Registry[A]) Provide(descriptors ...Descriptor[A]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range descriptors {
		if err := validate(d); err != nil {
			return err
		}
		if _, ok := r.descriptors[d.Name]; ok {
			return errors.Wrapf(ErrDuplicatePlugin, "plugin %q", d.Name)
		}
		r.descriptors[d.Name] = d
	}
	return nil
}

// Register registers d and, depth-first, everything it depends on.
// A plugin that is already registered returns its memoized API and its
// RegisterFunc is not called again. opts applies to d only.
func (r *Registry[A]) Register(ctx context.Context, d Descriptor[A], opts any) (any, error) {
	if err := validate(d); err != nil {
		return nil, err
	}

	r.regMu.Lock()
	defer r.regMu.Unlock()

	r.mu.Lock()
	if _, ok := r.descriptors[d.Name]; !ok {
		r.descriptors[d.Name] = d
	}
	r.mu.Unlock()

	return r.resolve(ctx, d.Name, opts, nil)
}

func (r *Registry[A]) resolve(ctx context.Context, name string, opts any, path []string) (any, error) {
	r.mu.RLock()
	st := r.states[name]
	api := r.apis[name]
	d, known := r.descriptors[name]
	r.mu.RUnlock()

	switch st {
	case registered:
		return api, nil
	case registering:
		cycle := append(slices.Clone(path), name)
		return nil, errors.Wrapf(ErrDependencyCycle, "%s", strings.Join(cycle, " -> "))
	}
	if !known {
		return nil, errors.Wrapf(ErrNotRegistered, "plugin %q", name)
	}

	r.setState(name, registering)
	path = append(path, name)

	for _, dep := range d.Dependencies {
		r.mu.RLock()
		depDesc, ok := r.descriptors[dep]
		r.mu.RUnlock()
		if !ok {
			r.setState(name, unregistered)
			return nil, errors.Wrapf(ErrDependencyMissing, "plugin %q requires %q", name, dep)
		}
		if _, err := r.resolve(ctx, dep, depDesc.Options, path); err != nil {
			r.setState(name, unregistered)
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		r.setState(name, unregistered)
		return nil, &RegistrationError{Plugin: name, Err: err}
	}

	start := time.Now()
	api, err := r.call(ctx, d, opts)
	if err != nil {
		r.setState(name, unregistered)
		r.logger.WarnContext(ctx, "plugin registration failed",
			logger.Plugin(name),
			logger.Error(err),
		)
		return nil, &RegistrationError{Plugin: name, Err: errors.WithStack(err)}
	}

	r.mu.Lock()
	r.states[name] = registered
	r.apis[name] = api
	r.order = append(r.order, name)
	r.mu.Unlock()

	r.logger.DebugContext(ctx, "plugin registered",
		logger.Plugin(name),
		logger.Elapsed(start),
	)
	return api, nil
}

func (r *Registry[A]) call(ctx context.Context, d Descriptor[A], opts any) (api any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("panic: %v", rec)
		}
	}()
	return d.Register(ctx, r.app, opts)
}

func (r *Registry[A]) setState(name string, st state) {
	r.mu.Lock()
	r.states[name] = st
	r.mu.Unlock()
}

// Get returns the API of a registered plugin.
func (r *Registry[A]) Get(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.states[name] != registered {
		return nil, errors.Wrapf(ErrNotRegistered, "plugin %q", name)
	}
	return r.apis[name], nil
}

// Registered reports whether name finished registering.
func (r *Registry[A]) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[name] == registered
}

// Names lists registered plugins in registration order.
func (r *Registry[A]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Check runs Check on every registered API that implements Checker.
func (r *Registry[A]) Check(ctx context.Context) error {
	var errs []error
	for _, name := range r.Names() {
		api, _ := r.Get(name)
		if c, ok := api.(Checker); ok {
			if err := c.Check(ctx); err != nil {
				errs = append(errs, errors.Wrapf(err, "plugin %q", name))
			}
		}
	}
	return errors.Join(errs...)
}

// Shutdown stops registered APIs that implement Stopper, in reverse
// registration order. Every stopper runs even if an earlier one fails.
func (r *Registry[A]) Shutdown(ctx context.Context) error {
	names := r.Names()
	slices.Reverse(names)

	var errs []error
	for _, name := range names {
		api, _ := r.Get(name)
		s, ok := api.(Stopper)
		if !ok {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			r.logger.ErrorContext(ctx, "plugin shutdown failed", logger.Plugin(name), logger.Error(err))
			errs = append(errs, errors.Wrapf(err, "plugin %q", name))
		}
	}
	return errors.Join(errs...)
}

// API returns the registered API of name asserted to T.
func API[T, A any](r *Registry[A], name string) (T, error) {
	var zero T
	api, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	v, ok := api.(T)
	if !ok {
		return zero, errors.Wrapf(ErrAPITypeMismatch, "plugin %q: got %T, want %s", name, api, reflect.TypeFor[T]())
	}
	return v, nil
}

func validate[A any](d Descriptor[A]) error {
	if d.Name == "" {
		return errors.Wrap(ErrInvalidDescriptor, "empty name")
	}
	if d.Register == nil {
		return errors.Wrapf(ErrInvalidDescriptor, "plugin %q has no register function", d.Name)
	}
	return nil
}
