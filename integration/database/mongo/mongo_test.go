package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/relay/core/plugin"
	"github.com/dmitrymomot/relay/integration/database/mongo"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		client, err := mongo.Connect(context.Background(), mongo.Config{})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		client, err := mongo.Connect(context.Background(), mongo.Config{ConnectionURL: "http://not-mongo"})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		client, err := mongo.Connect(context.Background(), mongo.Config{
			ConnectionURL:  "mongodb://127.0.0.1:1/?directConnection=true",
			ConnectTimeout: 200 * time.Millisecond,
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
		})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	})
}

func TestPluginOptionsOverrideConfig(t *testing.T) {
	t.Parallel()

	reg := plugin.NewRegistry(struct{}{})
	d := mongo.Plugin[struct{}](mongo.Config{ConnectionURL: "mongodb://127.0.0.1:1"})

	_, err := reg.Register(context.Background(), d, mongo.Config{})
	assert.ErrorIs(t, err, plugin.ErrRegistrationFailed)
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}
