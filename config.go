package relay

import (
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/server"
)

// Config is the application configuration loaded from the environment.
type Config struct {
	Server server.Config
	Log    logger.Config

	// MaxBodySize caps how many request body bytes are read for parsing.
	MaxBodySize int64 `env:"HTTP_MAX_BODY_SIZE" envDefault:"4194304"`
	// AllowRouteOverwrite lets a later registration of the same method and
	// path replace the earlier one instead of failing.
	AllowRouteOverwrite bool `env:"HTTP_ALLOW_ROUTE_OVERWRITE" envDefault:"false"`
}
