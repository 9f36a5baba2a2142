package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/relay/core/response"
)

// Context is the per-request state threaded through hooks and handlers.
// It implements context.Context by delegating to the request's context.
// A Context belongs to exactly one request and must not be retained after
// the response has been flushed.
type Context struct {
	r       *http.Request
	res     *response.Response
	query   url.Values
	cookies map[string]string
	params  map[string]string
	route   string
	body    any
	raw     []byte
	failure error
}

// NewContext normalizes r into a Context. The body is left untouched until ParseBody.
func NewContext(r *http.Request) *Context {
	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		if _, ok := cookies[c.Name]; !ok {
			cookies[c.Name] = c.Value
		}
	}

	return &Context{
		r:       r,
		res:     response.New(),
		query:   r.URL.Query(),
		cookies: cookies,
		body:    map[string]any{},
	}
}

// Deadline delegates to the request context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value delegates to the request context.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores val under key in the request context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// WithContext replaces the request context, e.g. to attach a deadline or a span.
func (c *Context) WithContext(ctx context.Context) {
	c.r = c.r.WithContext(ctx)
}

// Request returns the underlying request.
func (c *Context) Request() *http.Request { return c.r }

// Response returns the response builder.
func (c *Context) Response() *response.Response { return c.res }

// Method returns the request method.
func (c *Context) Method() string { return c.r.Method }

// Path returns the decoded request path.
func (c *Context) Path() string {
	if c.r.URL.Path == "" {
		return "/"
	}
	return c.r.URL.Path
}

// Segments returns the non-empty path segments, each percent-decoded on its
// own so that an encoded "/" stays inside its segment. A segment that fails
// to decode is returned as received.
func (c *Context) Segments() []string {
	parts := strings.Split(c.r.URL.EscapedPath(), "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if dec, err := url.PathUnescape(p); err == nil {
			p = dec
		}
		segments = append(segments, p)
	}
	return segments
}

// Query returns the first value of the query parameter key.
func (c *Context) Query(key string) string { return c.query.Get(key) }

// QueryValues returns all query parameters.
func (c *Context) QueryValues() url.Values { return c.query }

// Header returns the first value of the request header key.
func (c *Context) Header(key string) string { return c.r.Header.Get(key) }

// Cookie returns the value of the named request cookie.
func (c *Context) Cookie(name string) (string, bool) {
	v, ok := c.cookies[name]
	return v, ok
}

// Cookies returns all request cookies by name. The first occurrence of a name wins.
func (c *Context) Cookies() map[string]string { return c.cookies }

// Param returns the path parameter bound to name.
func (c *Context) Param(name string) string {
	if c.params == nil {
		return ""
	}
	return c.params[name]
}

// Params returns all path parameters. The map may be nil.
func (c *Context) Params() map[string]string { return c.params }

// Route returns the matched route pattern, or "" before routing.
func (c *Context) Route() string { return c.route }

// SetRoute binds the result of route resolution. It is called by the pipeline.
func (c *Context) SetRoute(pattern string, params map[string]string) {
	c.route = pattern
	c.params = params
}

// Body returns the parsed body: a map for objects and forms, or the decoded JSON value.
func (c *Context) Body() any { return c.body }

// BodyMap returns the body as a map, or an empty map when it is not an object.
func (c *Context) BodyMap() map[string]any {
	if m, ok := c.body.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// RawBody returns the bytes read from the request body.
func (c *Context) RawBody() []byte { return c.raw }

// BodyPath looks up a gjson path such as "user.emails.0" in a JSON body.
func (c *Context) BodyPath(path string) gjson.Result {
	if len(c.raw) == 0 || !gjson.ValidBytes(c.raw) {
		return gjson.Result{}
	}
	return gjson.GetBytes(c.raw, path)
}

// Failure returns the error being handled, set while the error handler and
// onError hooks run.
func (c *Context) Failure() error { return c.failure }

// SetFailure records the error being handled.
func (c *Context) SetFailure(err error) { c.failure = err }
