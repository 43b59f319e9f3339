package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

const maxMemory = 32 << 20 // 32 MB

type contextPathKey struct{}

// WithContextPath records the prefix the application is mounted under.
func WithContextPath(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, contextPathKey{}, prefix)
}

// ContextPath returns the prefix stored by WithContextPath, or "".
func ContextPath(ctx context.Context) string {
	p, _ := ctx.Value(contextPathKey{}).(string)
	return p
}

// TrimContextPath removes prefix from path when it is a whole leading
// segment: "/shop/web" loses "/shop", "/shopping/web" does not.
func TrimContextPath(path, prefix string) string {
	switch {
	case prefix == "":
		return path
	case path == prefix:
		return ""
	case strings.HasPrefix(path, prefix+"/"):
		return path[len(prefix):]
	}
	return path
}

// Scoped returns a handler that records prefix as the context path before
// calling h. Front ends mounting the dispatcher use it.
func Scoped(prefix string, h http.Handler) http.Handler {
	prefix = strings.TrimRight(prefix, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(WithContextPath(r.Context(), prefix)))
	})
}

// Request wraps *http.Request with the accessors the dispatcher and
// handlers need.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// URI returns the request path, without query string.
func (req *Request) URI() string { return req.raw.URL.Path }

// ContextPath returns the mount prefix of the application ("" at the root).
func (req *Request) ContextPath() string { return ContextPath(req.raw.Context()) }

// Path returns the request path relative to the context path.
//
//	// URI "/shop/web/test", context path "/shop"
//	req.Path() // "/web/test"
func (req *Request) Path() string {
	path := TrimContextPath(req.URI(), req.ContextPath())
	if path == "" {
		return "/"
	}
	return path
}

// Params returns every request parameter: query string plus url-encoded or
// multipart form fields. Each name maps to one or more values, query-string
// values first.
func (req *Request) Params() (map[string][]string, error) {
	var err error
	if strings.HasPrefix(req.ContentType(), "multipart/form-data") {
		err = req.raw.ParseMultipartForm(maxMemory)
	} else {
		err = req.raw.ParseForm()
	}
	if err != nil {
		return nil, err
	}

	params := make(map[string][]string, len(req.raw.Form))
	for key, vs := range req.raw.URL.Query() {
		params[key] = append(params[key], vs...)
	}
	for key, vs := range req.raw.PostForm {
		params[key] = append(params[key], vs...)
	}
	return params, nil
}

// Param returns the first value of a request parameter, or "".
func (req *Request) Param(key string) string {
	params, err := req.Params()
	if err != nil {
		return ""
	}
	if vs := params[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Input returns a query or form value, or the fallback when it is empty.
func (req *Request) Input(key string, fallback ...string) string {
	v := req.Param(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Bind decodes a JSON request body into v.
func (req *Request) Bind(v any) error {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(req.raw.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, v)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}
