package relay

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/server"
)

// Option configures an App during New.
type Option func(*App) error

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(app *App) error {
		if l == nil {
			return errors.Join(ErrNilOption, errors.New("logger"))
		}
		app.logger = l
		return nil
	}
}

// WithServer uses s instead of a server built from Config.Server.
func WithServer(s *server.Server) Option {
	return func(app *App) error {
		if s == nil {
			return errors.Join(ErrNilOption, errors.New("server"))
		}
		app.server = s
		return nil
	}
}

// WithErrorHandler replaces the pipeline's default error rendering.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(app *App) error {
		if h == nil {
			return errors.Join(ErrNilOption, errors.New("error handler"))
		}
		app.errorHandler = h
		return nil
	}
}
