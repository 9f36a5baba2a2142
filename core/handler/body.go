package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBodySize is the body limit used when ParseBody is given a non-positive limit.
const DefaultMaxBodySize = 1 << 20 // 1 MB

const multipartMemory = 32 << 20

var (
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrReadBody             = errors.New("failed to read request body")
	ErrParseBody            = errors.New("failed to parse request body")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// carriesBody reports whether the method conventionally has a request body.
func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// ParseBody reads and decodes the request body according to Content-Type.
// JSON media types are decoded as JSON; multipart and everything else is parsed
// as form data. On any failure the body stays an empty map and the error is
// returned for logging only: a malformed body never fails the request here.
func (c *Context) ParseBody(limit int64) error {
	if !carriesBody(c.r.Method) || c.r.Body == nil || c.r.Body == http.NoBody {
		return nil
	}
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	mediaType, _, _ := mime.ParseMediaType(c.r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		c.r.Body = http.MaxBytesReader(nil, c.r.Body, limit)
		if err := c.r.ParseMultipartForm(multipartMemory); err != nil {
			return fmt.Errorf("%w: %v", ErrParseBody, err)
		}
		c.body = formToMap(c.r.MultipartForm.Value)
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.r.Body, limit+1))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadBody, err)
	}
	if int64(len(raw)) > limit {
		return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, limit)
	}
	c.raw = raw
	if len(raw) == 0 {
		return nil
	}

	if isJSON(mediaType) {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("%w: %v", ErrParseBody, err)
		}
		if v != nil {
			c.body = v
		}
		return nil
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseBody, err)
	}
	c.body = formToMap(values)
	return nil
}

// Bind decodes the raw JSON body into v.
func (c *Context) Bind(v any) error {
	mediaType, _, _ := mime.ParseMediaType(c.r.Header.Get("Content-Type"))
	if !isJSON(mediaType) {
		return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, mediaType)
	}
	if err := json.Unmarshal(c.raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrParseBody, err)
	}
	return nil
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// formToMap flattens single-valued fields to strings and keeps repeated fields as slices.
func formToMap(values map[string][]string) map[string]any {
	m := make(map[string]any, len(values))
	for key, vs := range values {
		switch len(vs) {
		case 0:
			m[key] = ""
		case 1:
			m[key] = vs[0]
		default:
			m[key] = vs
		}
	}
	return m
}
