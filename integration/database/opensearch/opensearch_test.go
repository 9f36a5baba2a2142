package opensearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/plugin"
	"github.com/dmitrymomot/relay/integration/database/opensearch"
)

func cluster(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"cluster_name":"test","version":{"number":"2.11.0","distribution":"opensearch"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("no addresses", func(t *testing.T) {
		t.Parallel()
		client, err := opensearch.New(context.Background(), opensearch.Config{})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, opensearch.ErrNoAddresses)
	})

	t.Run("healthy cluster", func(t *testing.T) {
		t.Parallel()
		srv := cluster(t, http.StatusOK)
		client, err := opensearch.New(context.Background(), opensearch.Config{
			Addresses:    []string{srv.URL},
			DisableRetry: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("unreachable cluster", func(t *testing.T) {
		t.Parallel()
		client, err := opensearch.New(context.Background(), opensearch.Config{
			Addresses:    []string{"http://127.0.0.1:1"},
			DisableRetry: true,
		})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, opensearch.ErrConnectionFailed)
		assert.ErrorIs(t, err, opensearch.ErrHealthcheckFailed)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()
		srv := cluster(t, http.StatusServiceUnavailable)
		_, err := opensearch.New(context.Background(), opensearch.Config{
			Addresses:    []string{srv.URL},
			DisableRetry: true,
		})
		assert.ErrorIs(t, err, opensearch.ErrHealthcheckFailed)
	})
}

func TestPluginCheck(t *testing.T) {
	t.Parallel()

	srv := cluster(t, http.StatusOK)
	reg := plugin.NewRegistry(struct{}{})
	_, err := reg.Register(context.Background(), opensearch.Plugin[struct{}](opensearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	}), nil)
	require.NoError(t, err)

	assert.NoError(t, reg.Check(context.Background()))

	api, err := plugin.API[*opensearch.API](reg, opensearch.PluginName)
	require.NoError(t, err)
	assert.NotNil(t, api.Client)
}
