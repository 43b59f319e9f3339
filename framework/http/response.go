package http

import (
	"encoding/json"
	"net/http"
)

// Response wraps http.ResponseWriter and remembers whether anything has
// been sent. It is itself an http.ResponseWriter, so handlers may take
// either the wrapper or the plain interface.
type Response struct {
	w       http.ResponseWriter
	status  int
	written bool
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	if res, ok := w.(*Response); ok {
		return res
	}
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// Unwrap lets http.ResponseController reach the underlying writer.
func (res *Response) Unwrap() http.ResponseWriter { return res.w }

func (res *Response) Header() http.Header { return res.w.Header() }

// WriteHeader sends the status line once; later calls are ignored.
func (res *Response) WriteHeader(status int) {
	if res.written {
		return
	}
	res.status = status
	res.written = true
	res.w.WriteHeader(status)
}

func (res *Response) Write(b []byte) (int, error) {
	if !res.written {
		res.WriteHeader(http.StatusOK)
	}
	return res.w.Write(b)
}

// WriteString writes s to the body.
func (res *Response) WriteString(s string) (int, error) {
	return res.Write([]byte(s))
}

// Text sends a plain-text body with status.
func (res *Response) Text(status int, body string) error {
	if !res.written {
		res.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	res.WriteHeader(status)
	_, err := res.WriteString(body)
	return err
}

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) error {
	if !res.written {
		res.w.Header().Set("Content-Type", "application/json")
	}
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(data)
}

// FlushError flushes buffered data to the client. It returns
// http.ErrNotSupported when the underlying writer cannot flush.
func (res *Response) FlushError() error {
	if !res.written {
		res.WriteHeader(http.StatusOK)
	}
	return http.NewResponseController(res.w).Flush()
}

// Flush implements http.Flusher.
func (res *Response) Flush() { _ = res.FlushError() }

// Written reports whether the status line has been sent.
func (res *Response) Written() bool { return res.written }

// Status returns the status sent, or 0 when nothing was written yet.
func (res *Response) Status() int { return res.status }
