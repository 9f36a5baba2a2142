package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*entry{}

	dotenvOnce sync.Once
)

// Option adjusts a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	prefix  string
	files   []string
	noCache bool
}

// WithPrefix reads every variable of T under prefix, e.g. "ADMIN_" turns
// SERVER_ADDR into ADMIN_SERVER_ADDR.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvFiles loads the given dotenv files before parsing. Variables already
// present in the environment win.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) { o.files = append(o.files, files...) }
}

// WithoutCache parses the environment again instead of reusing a cached value.
func WithoutCache() Option {
	return func(o *loadOptions) { o.noCache = true }
}

// Load fills v from environment variables using `env` struct tags.
//
// The first call loads .env from the working directory if it exists. Parsed
// values are cached per type and prefix, so later calls for the same type
// return the first result, including a parse error.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load() // a missing .env is fine
	})
	if len(o.files) > 0 {
		if err := godotenv.Load(o.files...); err != nil {
			return fmt.Errorf("%w: %v", ErrEnvFile, err)
		}
	}

	if o.noCache {
		return parse(v, o.prefix)
	}

	key := cacheKey[T](o.prefix)
	cacheMu.Lock()
	e, ok := cache[key]
	if !ok {
		e = &entry{}
		cache[key] = e
	}
	cacheMu.Unlock()

	e.once.Do(func() {
		var fresh T
		if err := parse(&fresh, o.prefix); err != nil {
			e.err = err
			return
		}
		e.value = fresh
	})
	if e.err != nil {
		return e.err
	}

	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad is Load that panics on failure. Use it during startup only.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Forget drops the cached value of T loaded under prefix.
func Forget[T any](prefix string) {
	cacheMu.Lock()
	delete(cache, cacheKey[T](prefix))
	cacheMu.Unlock()
}

func parse[T any](v *T, prefix string) error {
	if err := env.ParseWithOptions(v, env.Options{Prefix: prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

func cacheKey[T any](prefix string) string {
	return prefix + "|" + reflect.TypeFor[T]().String()
}
