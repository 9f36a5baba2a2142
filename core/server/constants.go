package server

import "time"

// Defaults applied by New and mirrored by the envDefault tags on Config.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes matches http.DefaultMaxHeaderBytes.
	DefaultMaxHeaderBytes = 1 << 20
)
