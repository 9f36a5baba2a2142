package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Response accumulates status, headers, cookies and body for a single request.
// Mutators return the receiver so calls can be chained:
//
//	ctx.Response().Status(http.StatusCreated).Header("X-Item", id).JSON(item)
//
// Nothing reaches the client until Flush is called. Not safe for concurrent use.
type Response struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    bytes.Buffer
	written bool
	flushed bool
	err     error
}

// New creates an empty response with 200 OK status.
func New() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Status sets the HTTP status code. Values outside 100..999 are ignored.
func (r *Response) Status(code int) *Response {
	if code >= 100 && code <= 999 {
		r.status = code
	}
	return r
}

// Header sets a response header, replacing any existing values.
func (r *Response) Header(key, value string) *Response {
	r.header.Set(key, value)
	return r
}

// JSON replaces the body with the JSON encoding of v and sets the content type.
// An encoding failure is kept and reported by Err and Flush.
func (r *Response) JSON(v any) *Response {
	data, err := json.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("%w: %v", ErrEncodeBody, err)
		return r
	}

	r.header.Set("Content-Type", "application/json; charset=utf-8")
	r.body.Reset()
	r.body.Write(data)
	r.written = true
	return r
}

// Text replaces the body with s as text/plain.
func (r *Response) Text(s string) *Response {
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	r.body.Reset()
	r.body.WriteString(s)
	r.written = true
	return r
}

// Redirect points the client at location. The status becomes 302 Found unless
// a redirect status was already set with Status.
func (r *Response) Redirect(location string) *Response {
	if r.status < 300 || r.status > 399 {
		r.status = http.StatusFound
	}
	r.header.Set("Location", location)
	r.written = true
	return r
}

// SetCookie queues a Set-Cookie header.
func (r *Response) SetCookie(c *http.Cookie) *Response {
	if c != nil {
		r.cookies = append(r.cookies, c)
	}
	return r
}

// ClearCookie queues an expired cookie with the given name on path "/".
func (r *Response) ClearCookie(name string) *Response {
	return r.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}

// Write appends p to the body. It makes Response an io.Writer.
func (r *Response) Write(p []byte) (int, error) {
	r.written = true
	return r.body.Write(p)
}

// StatusCode returns the current status code.
func (r *Response) StatusCode() int { return r.status }

// Headers returns the live header map.
func (r *Response) Headers() http.Header { return r.header }

// Body returns the accumulated body bytes.
func (r *Response) Body() []byte { return r.body.Bytes() }

// Cookies returns the queued cookies.
func (r *Response) Cookies() []*http.Cookie { return r.cookies }

// Written reports whether a body or redirect has been produced.
func (r *Response) Written() bool { return r.written }

// Flushed reports whether the response was already sent to the client.
func (r *Response) Flushed() bool { return r.flushed }

// Err returns the first body encoding error, if any.
func (r *Response) Err() error { return r.err }

// Reset discards the status, body, cookies and pending error.
// Headers set so far are kept so request-scoped values such as a request ID survive.
func (r *Response) Reset() {
	r.status = http.StatusOK
	r.body.Reset()
	r.cookies = nil
	r.written = false
	r.err = nil
	r.header.Del("Content-Type")
	r.header.Del("Location")
}

// Flush sends the accumulated response to w. Only the first call has an effect.
func (r *Response) Flush(w http.ResponseWriter) error {
	if r.flushed {
		return ErrAlreadyFlushed
	}
	if r.err != nil {
		return r.err
	}
	r.flushed = true

	dst := w.Header()
	for key, values := range r.header {
		dst[key] = values
	}
	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}

	w.WriteHeader(r.status)
	if r.body.Len() == 0 {
		return nil
	}
	_, err := w.Write(r.body.Bytes())
	return err
}
