package main

import (
	"time"

	"github.com/dmitrymomot/relay/integration/database/mongo"
	"github.com/dmitrymomot/relay/integration/database/opensearch"
	"github.com/dmitrymomot/relay/integration/database/pg"
	"github.com/dmitrymomot/relay/integration/database/redis"
	"github.com/dmitrymomot/relay/integration/storage/s3"
)

type cliConfig struct {
	MetricsPath    string        `env:"METRICS_PATH" envDefault:"/metrics"`
	TraceExporter  string        `env:"OTEL_EXPORTER" envDefault:"none"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSOrigins    []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	EnableRedis      bool `env:"RELAY_ENABLE_REDIS"`
	EnablePostgres   bool `env:"RELAY_ENABLE_POSTGRES"`
	EnableMongo      bool `env:"RELAY_ENABLE_MONGO"`
	EnableOpenSearch bool `env:"RELAY_ENABLE_OPENSEARCH"`
	EnableS3         bool `env:"RELAY_ENABLE_S3"`

	Redis      redis.Config
	Postgres   pg.Config
	Mongo      mongo.Config
	OpenSearch opensearch.Config
	S3         s3.Config
}
