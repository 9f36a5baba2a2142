package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/hook"
	"github.com/dmitrymomot/relay/core/pipeline"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/core/router"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func serve(p http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	p.ServeHTTP(w, req)
	return w
}

func TestPipelineParamRoute(t *testing.T) {
	t.Parallel()

	tr := router.New()
	calls := 0
	var params map[string]string
	require.NoError(t, tr.Add(http.MethodGet, "/items/:id", func(ctx *handler.Context, next handler.Next) error {
		calls++
		params = ctx.Params()
		ctx.Response().JSON(map[string]string{"id": ctx.Param("id")})
		return nil
	}))

	w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
	assert.Equal(t, map[string]string{"id": "42"}, params)
	assert.Equal(t, "42", decode(t, w)["id"])
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestPipelineDecodesEachSegment(t *testing.T) {
	t.Parallel()

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/café/:id", func(ctx *handler.Context, next handler.Next) error {
		ctx.Response().Text(ctx.Param("id"))
		return nil
	}))
	p := pipeline.New(tr, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/caf%C3%A9/a%20b", "a b"},
		{"/caf%C3%A9/a%2Fb", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(p, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestPipelineRouteNotFound(t *testing.T) {
	t.Parallel()

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/items", handler.Terminal(func(*handler.Context) error { return nil })))

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/nowhere", nil),
		httptest.NewRequest(http.MethodDelete, "/items", nil),
	} {
		w := serve(pipeline.New(tr, nil), req)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Route not found"}`, w.Body.String())
	}
}

func TestPipelineContinuationRunsEachHandlerOnce(t *testing.T) {
	t.Parallel()

	tr := router.New()
	var order []string

	record := func(name string) handler.HandlerFunc {
		return func(ctx *handler.Context, next handler.Next) error {
			order = append(order, name)
			next(nil)
			return nil
		}
	}
	// The middle handler calls next twice; the second call must be ignored.
	greedy := func(ctx *handler.Context, next handler.Next) error {
		order = append(order, "greedy")
		next(nil)
		next(nil)
		return nil
	}
	final := func(ctx *handler.Context, next handler.Next) error {
		order = append(order, "final")
		ctx.Response().Text("done")
		next(nil)
		return nil
	}

	require.NoError(t, tr.Add(http.MethodGet, "/chain", record("h1"), greedy, record("h3"), final))

	p := pipeline.New(tr, nil, pipeline.WithMiddleware(record("mw1"), record("mw2")))
	w := serve(p, httptest.NewRequest(http.MethodGet, "/chain", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "done", w.Body.String())
	assert.Equal(t, []string{"mw1", "mw2", "h1", "greedy", "h3", "final"}, order)
}

func TestPipelineStaleContinuationIsNoop(t *testing.T) {
	t.Parallel()

	tr := router.New()
	var saved handler.Next
	secondCalls := 0

	require.NoError(t, tr.Add(http.MethodGet, "/stale",
		func(ctx *handler.Context, next handler.Next) error {
			saved = next
			ctx.Response().Text("stopped")
			return nil
		},
		func(ctx *handler.Context, next handler.Next) error {
			secondCalls++
			return nil
		},
	))

	w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/stale", nil))
	assert.Equal(t, "stopped", w.Body.String())

	require.NotNil(t, saved)
	saved(nil)
	saved(errors.New("late"))
	assert.Zero(t, secondCalls)
}

func TestPipelineMiddlewareSeesDownstreamResult(t *testing.T) {
	t.Parallel()

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/wrap", handler.Terminal(func(ctx *handler.Context) error {
		ctx.Response().Status(http.StatusCreated).Text("made")
		return nil
	})))

	var seen int
	mw := func(ctx *handler.Context, next handler.Next) error {
		next(nil)
		seen = ctx.Response().StatusCode()
		ctx.Response().Header("X-After", "yes")
		return nil
	}

	w := serve(pipeline.New(tr, nil, pipeline.WithMiddleware(mw)), httptest.NewRequest(http.MethodGet, "/wrap", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusCreated, seen)
	assert.Equal(t, "yes", w.Header().Get("X-After"))
}

func TestPipelineNextWithErrorShortCircuits(t *testing.T) {
	t.Parallel()

	tr := router.New()
	reached := false
	var statusInMiddleware int

	require.NoError(t, tr.Add(http.MethodGet, "/guarded",
		func(ctx *handler.Context, next handler.Next) error {
			next(response.NewError(http.StatusForbidden, "forbidden"))
			statusInMiddleware = ctx.Response().StatusCode()
			return nil
		},
		func(ctx *handler.Context, next handler.Next) error {
			reached = true
			return nil
		},
	))

	w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, statusInMiddleware)
	assert.JSONEq(t, `{"message":"forbidden"}`, w.Body.String())
}

func TestPipelineHandlerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		h      handler.HandlerFunc
		status int
		body   string
	}{
		{
			name: "plain error is a generic 500",
			h: handler.Terminal(func(*handler.Context) error {
				return errors.New("db exploded")
			}),
			status: http.StatusInternalServerError,
			body:   `{"message":"Internal Server Error"}`,
		},
		{
			name: "explicit status and payload",
			h: handler.Terminal(func(*handler.Context) error {
				return response.NewError(http.StatusConflict, "taken").WithCode("conflict")
			}),
			status: http.StatusConflict,
			body:   `{"code":"conflict","message":"taken"}`,
		},
		{
			name: "wrapped explicit error",
			h: handler.Terminal(func(*handler.Context) error {
				return errors.Join(errors.New("context"), response.NewError(http.StatusTeapot, "short and stout"))
			}),
			status: http.StatusTeapot,
			body:   `{"message":"short and stout"}`,
		},
		{
			name: "panic is recovered",
			h: handler.Terminal(func(*handler.Context) error {
				panic("boom")
			}),
			status: http.StatusInternalServerError,
			body:   `{"message":"Internal Server Error"}`,
		},
		{
			name: "partial body is discarded",
			h: handler.Terminal(func(ctx *handler.Context) error {
				ctx.Response().Text("half written")
				return errors.New("fail")
			}),
			status: http.StatusInternalServerError,
			body:   `{"message":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := router.New()
			require.NoError(t, tr.Add(http.MethodGet, "/x", tt.h))

			w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestPipelineErrorAfterNextIsReportedOnce(t *testing.T) {
	t.Parallel()

	tr := router.New()
	handled := 0
	require.NoError(t, tr.Add(http.MethodGet, "/late",
		func(ctx *handler.Context, next handler.Next) error {
			next(nil)
			return errors.New("cleanup failed")
		},
		func(ctx *handler.Context, next handler.Next) error {
			return errors.New("handler failed")
		},
	))

	p := pipeline.New(tr, nil, pipeline.WithErrorHandler(func(ctx *handler.Context, err error) {
		handled++
		ctx.Response().Reset()
		ctx.Response().Status(http.StatusBadGateway).Text(err.Error())
	}))
	w := serve(p, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, 1, handled)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "handler failed", w.Body.String())
}

func TestPipelineHooks(t *testing.T) {
	t.Parallel()

	var order []string
	hooks := hook.NewRegistry()
	for _, s := range hook.Stages() {
		require.NoError(t, hooks.Add(s, func(ctx *handler.Context) error {
			order = append(order, s.String())
			return nil
		}))
	}

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodPost, "/users/:id", handler.Terminal(func(ctx *handler.Context) error {
		order = append(order, "handler:"+ctx.Param("id"))
		return nil
	})))

	w := serve(pipeline.New(tr, hooks), httptest.NewRequest(http.MethodPost, "/users/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"onRequest", "preParsing", "preValidation", "preHandler", "handler:7", "onResponse"}, order)
}

func TestPipelineHookFailure(t *testing.T) {
	t.Parallel()

	hooks := hook.NewRegistry()
	require.NoError(t, hooks.Add(hook.PreValidation, func(ctx *handler.Context) error {
		if ctx.BodyMap()["name"] == nil {
			return errors.New("name is required")
		}
		return nil
	}))
	var failure error
	require.NoError(t, hooks.Add(hook.OnError, func(ctx *handler.Context) error {
		failure = ctx.Failure()
		return errors.New("ignored")
	}))

	tr := router.New()
	handlerCalled := false
	require.NoError(t, tr.Add(http.MethodPost, "/users", handler.Terminal(func(ctx *handler.Context) error {
		handlerCalled = true
		return nil
	})))

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(pipeline.New(tr, hooks), req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"name is required"}`, w.Body.String())

	var herr *hook.Error
	require.ErrorAs(t, failure, &herr)
	assert.Equal(t, hook.PreValidation, herr.Stage)
}

func TestPipelineOnResponseFailureIsServerError(t *testing.T) {
	t.Parallel()

	hooks := hook.NewRegistry()
	require.NoError(t, hooks.Add(hook.OnResponse, func(*handler.Context) error {
		return errors.New("audit sink down")
	}))

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/", handler.Terminal(func(ctx *handler.Context) error {
		ctx.Response().Text("ok")
		return nil
	})))

	w := serve(pipeline.New(tr, hooks), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"audit sink down"}`, w.Body.String())
}

func TestPipelineBodyParsing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		want        any
	}{
		{"json object", "application/json", `{"name":"ann","age":3}`, map[string]any{"name": "ann", "age": float64(3)}},
		{"json with charset", "application/json; charset=utf-8", `{"a":true}`, map[string]any{"a": true}},
		{"vendor json", "application/vnd.api+json", `[1,2]`, []any{float64(1), float64(2)}},
		{"malformed json", "application/json", `{"name":`, map[string]any{}},
		{"form", "application/x-www-form-urlencoded", "a=1&b=2&b=3", map[string]any{"a": "1", "b": []string{"2", "3"}}},
		{"no content type", "", "a=1", map[string]any{"a": "1"}},
		{"malformed form", "application/x-www-form-urlencoded", "a=%zz", map[string]any{}},
		{"empty body", "application/json", "", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := router.New()
			var got any
			require.NoError(t, tr.Add(http.MethodPost, "/echo", handler.Terminal(func(ctx *handler.Context) error {
				got = ctx.Body()
				return nil
			})))

			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := serve(pipeline.New(tr, nil), req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPipelineBodyTooLarge(t *testing.T) {
	t.Parallel()

	tr := router.New()
	var got any
	require.NoError(t, tr.Add(http.MethodPut, "/big", handler.Terminal(func(ctx *handler.Context) error {
		got = ctx.Body()
		return nil
	})))

	req := httptest.NewRequest(http.MethodPut, "/big", strings.NewReader(`{"data":"`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(pipeline.New(tr, nil, pipeline.WithMaxBodySize(16)), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{}, got)
}

func TestPipelineCanceledRequestStopsChain(t *testing.T) {
	t.Parallel()

	tr := router.New()
	second := false
	c, cancel := context.WithCancel(context.Background())
	require.NoError(t, tr.Add(http.MethodGet, "/slow",
		func(ctx *handler.Context, next handler.Next) error {
			cancel()
			next(nil)
			return nil
		},
		func(ctx *handler.Context, next handler.Next) error {
			second = true
			return nil
		},
	))

	req := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(c)
	w := serve(pipeline.New(tr, nil), req)

	assert.False(t, second)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPipelineDeadlineIsServiceUnavailable(t *testing.T) {
	t.Parallel()

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/t", handler.Terminal(func(ctx *handler.Context) error {
		return context.DeadlineExceeded
	})))

	w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"message":"Request timeout"}`, w.Body.String())
}

func TestPipelineEncodeFailure(t *testing.T) {
	t.Parallel()

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/chan", handler.Terminal(func(ctx *handler.Context) error {
		ctx.Response().JSON(map[string]any{"c": make(chan int)})
		return nil
	})))

	w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/chan", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, w.Body.String())
}

func TestPipelineResponseHelpers(t *testing.T) {
	t.Parallel()

	tr := router.New()
	require.NoError(t, tr.Add(http.MethodGet, "/login", handler.Terminal(func(ctx *handler.Context) error {
		ctx.Response().
			SetCookie(&http.Cookie{Name: "session", Value: "abc", Path: "/"}).
			ClearCookie("legacy").
			Header("X-Trace", "1").
			Redirect("/dashboard")
		return nil
	})))

	w := serve(pipeline.New(tr, nil), httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "1", w.Header().Get("X-Trace"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "legacy", cookies[1].Name)
	assert.Equal(t, -1, cookies[1].MaxAge)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	status, payload := pipeline.Resolve(router.ErrRouteNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.ErrRouteNotFound, payload)

	status, payload = pipeline.Resolve(errors.New("secret detail"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]string{"message": "Internal Server Error"}, payload)
}
