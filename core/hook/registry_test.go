package hook_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/hook"
	"github.com/dmitrymomot/relay/core/response"
)

func newContext() *handler.Context {
	return handler.NewContext(httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRegistryRunsInRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := hook.NewRegistry()
	var order []int
	for i := range 5 {
		require.NoError(t, r.Add(hook.OnRequest, func(*handler.Context) error {
			order = append(order, i)
			return nil
		}))
	}

	require.NoError(t, r.Run(hook.OnRequest, newContext()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 5, r.Len(hook.OnRequest))
	assert.Equal(t, 0, r.Len(hook.OnResponse))
}

func TestRegistryStagesAreIndependent(t *testing.T) {
	t.Parallel()

	r := hook.NewRegistry()
	called := map[hook.Stage]int{}
	for _, s := range hook.Stages() {
		require.NoError(t, r.Add(s, func(*handler.Context) error {
			called[s]++
			return nil
		}))
	}

	require.NoError(t, r.Run(hook.PreHandler, newContext()))
	assert.Equal(t, map[hook.Stage]int{hook.PreHandler: 1}, called)
}

func TestRegistryPreValidationFailureIsBadRequest(t *testing.T) {
	t.Parallel()

	r := hook.NewRegistry()
	require.NoError(t, r.Add(hook.PreValidation, func(*handler.Context) error {
		return errors.New("bad")
	}))

	err := r.Run(hook.PreValidation, newContext())
	require.Error(t, err)

	var herr *hook.Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusBadRequest, herr.StatusCode())
	assert.Equal(t, "bad", herr.Error())
	assert.Equal(t, hook.PreValidation, herr.Stage)
	assert.Equal(t, map[string]string{"message": "bad"}, herr.Payload())
}

func TestRegistryStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	r := hook.NewRegistry()
	var calls []string
	sentinel := errors.New("stop")

	require.NoError(t, r.Add(hook.PreHandler, func(*handler.Context) error {
		calls = append(calls, "first")
		return nil
	}))
	require.NoError(t, r.Add(hook.PreHandler, func(*handler.Context) error {
		calls = append(calls, "second")
		return sentinel
	}))
	require.NoError(t, r.Add(hook.PreHandler, func(*handler.Context) error {
		calls = append(calls, "third")
		return nil
	}))

	err := r.Run(hook.PreHandler, newContext())
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestRegistryStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stage  hook.Stage
		err    error
		status int
	}{
		{"onRequest plain error", hook.OnRequest, errors.New("x"), http.StatusBadRequest},
		{"preParsing plain error", hook.PreParsing, errors.New("x"), http.StatusBadRequest},
		{"preHandler plain error", hook.PreHandler, errors.New("x"), http.StatusBadRequest},
		{"onResponse plain error", hook.OnResponse, errors.New("x"), http.StatusInternalServerError},
		{"onError plain error", hook.OnError, errors.New("x"), http.StatusInternalServerError},
		{"explicit status kept", hook.PreHandler, response.NewError(http.StatusUnauthorized, "no token"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := hook.NewRegistry()
			require.NoError(t, r.Add(tt.stage, func(*handler.Context) error { return tt.err }))

			var herr *hook.Error
			require.ErrorAs(t, r.Run(tt.stage, newContext()), &herr)
			assert.Equal(t, tt.status, herr.StatusCode())
			assert.Equal(t, tt.err.Error(), herr.Message)
		})
	}
}

func TestRegistryKeepsErrorPayload(t *testing.T) {
	t.Parallel()

	rejected := response.NewError(http.StatusUnprocessableEntity, "invalid tenant").
		WithCode("tenant_invalid").
		WithDetails(map[string]any{"field": "X-Tenant"})

	r := hook.NewRegistry()
	require.NoError(t, r.Add(hook.PreValidation, func(*handler.Context) error { return rejected }))

	var herr *hook.Error
	require.ErrorAs(t, r.Run(hook.PreValidation, newContext()), &herr)
	assert.Equal(t, http.StatusUnprocessableEntity, herr.StatusCode())
	assert.Equal(t, "invalid tenant", herr.Error())
	assert.Equal(t, rejected, herr.Payload())
}

func TestRegistryStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	r := hook.NewRegistry()
	called := false
	require.NoError(t, r.Add(hook.OnRequest, func(*handler.Context) error {
		called = true
		return nil
	}))

	c, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := handler.NewContext(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(c))

	assert.ErrorIs(t, r.Run(hook.OnRequest, ctx), context.Canceled)
	assert.False(t, called)
}

func TestRegistryAddValidation(t *testing.T) {
	t.Parallel()

	r := hook.NewRegistry()
	assert.ErrorIs(t, r.Add(hook.Stage(42), func(*handler.Context) error { return nil }), hook.ErrUnknownStage)
	assert.ErrorIs(t, r.Add(hook.OnRequest, nil), hook.ErrNilHook)
	assert.ErrorIs(t, r.Run(hook.Stage(42), newContext()), hook.ErrUnknownStage)
}

func TestParseStage(t *testing.T) {
	t.Parallel()

	for _, s := range hook.Stages() {
		parsed, err := hook.ParseStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := hook.ParseStage("beforeEverything")
	assert.ErrorIs(t, err, hook.ErrUnknownStage)
	assert.Equal(t, "Stage(42)", hook.Stage(42).String())
}
