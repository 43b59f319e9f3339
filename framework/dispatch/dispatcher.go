// Package dispatch serves requests from the route table: normalize the path,
// match a route, bind arguments, invoke the handler method and flush.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/logging"
	"github.com/km-arc/go-mvc/framework/mapping"
)

const (
	notFoundBody = "404 - Page Not Found"
	errorBody    = "500 - Internal Server Error"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-request failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithContextPath sets the prefix stripped from request paths when the
// request context does not carry one.
func WithContextPath(prefix string) Option {
	return func(d *Dispatcher) { d.contextPath = strings.TrimRight(prefix, "/") }
}

// WithStackTraces includes the panic stack in 500 bodies.
func WithStackTraces(on bool) Option {
	return func(d *Dispatcher) { d.stackTraces = on }
}

// Dispatcher is the single entry point for every request under the context
// path. It only reads the route table, so it is safe for concurrent use.
type Dispatcher struct {
	table       *mapping.Table
	logger      *slog.Logger
	contextPath string
	stackTraces bool
}

// New creates a dispatcher over table.
func New(table *mapping.Table, opts ...Option) *Dispatcher {
	d := &Dispatcher{table: table}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	return d
}

// ServeHTTP never lets a failure escape: a miss or a binding failure is
// answered with the 404 page, a failed invocation with the 500 page. The
// response is flushed exactly once.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := logging.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logging.WithRequestID(ctx, id)
	}
	logger := d.logger.With("request_id", id)
	r = r.WithContext(logging.WithLogger(ctx, logger))

	res := mvchttp.NewResponse(w)
	defer d.flush(res, logger)

	// a panic outside the handler call
	defer func() {
		if p := recover(); p != nil {
			d.fail(res, r, id, &InvocationError{Route: "dispatch", Panic: p, Stack: debug.Stack()}, logger)
		}
	}()

	if err := d.dispatch(res, r, logger); err != nil {
		d.fail(res, r, id, err, logger)
	}
}

func (d *Dispatcher) dispatch(res *mvchttp.Response, r *http.Request, logger *slog.Logger) error {
	path := d.normalize(r)
	route, ok := d.table.Match(path)
	if !ok {
		return &RouteMissError{Path: path}
	}

	args, err := bind(route, r, res)
	if err != nil {
		return err
	}
	if err := invoke(route, args); err != nil {
		return err
	}

	logger.Debug("dispatched", "path", path, "handler", route.Name)
	return nil
}

// normalize strips the context path and collapses repeated slashes.
func (d *Dispatcher) normalize(r *http.Request) string {
	prefix := mvchttp.ContextPath(r.Context())
	if prefix == "" {
		prefix = d.contextPath
	}
	return mapping.CollapseSlashes(mvchttp.TrimContextPath(r.URL.Path, prefix))
}

func invoke(route *mapping.Route, args []reflect.Value) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &InvocationError{Route: route.Name, Panic: p, Stack: debug.Stack()}
		}
	}()

	out := route.Method.Call(args)
	if len(out) == 1 && !out[0].IsNil() {
		return &InvocationError{Route: route.Name, Err: out[0].Interface().(error)}
	}
	return nil
}

func (d *Dispatcher) fail(res *mvchttp.Response, r *http.Request, id string, err error, logger *slog.Logger) {
	var (
		miss    *RouteMissError
		binding *ArgumentBindingError
		invoked *InvocationError
	)

	status, body := http.StatusInternalServerError, errorBody
	switch {
	case errors.As(err, &miss):
		logger.Warn("no route", "method", r.Method, "path", miss.Path)
		status, body = http.StatusNotFound, notFoundBody
	case errors.As(err, &binding):
		logger.Warn("argument binding failed", "error", err)
		status, body = http.StatusNotFound, notFoundBody
	case errors.As(err, &invoked):
		logger.Error("handler failed", "error", err)
		body = d.diagnostic(id, invoked)
	default:
		logger.Error("dispatch failed", "error", err)
		body = fmt.Sprintf("%s\nrequest id: %s", errorBody, id)
	}

	if res.Written() {
		logger.Warn("response already started, error page dropped", "status", res.Status())
		return
	}
	if err := res.Text(status, body); err != nil {
		logger.Debug("writing error page", "error", err)
	}
}

func (d *Dispatcher) diagnostic(id string, err *InvocationError) string {
	var b strings.Builder
	b.WriteString(errorBody)
	b.WriteString("\nrequest id: ")
	b.WriteString(id)
	b.WriteString("\n\n")
	b.WriteString(err.Error())
	if d.stackTraces && len(err.Stack) > 0 {
		b.WriteString("\n\n")
		b.Write(err.Stack)
	}
	return b.String()
}

func (d *Dispatcher) flush(res *mvchttp.Response, logger *slog.Logger) {
	if err := res.FlushError(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logger.Debug("flush failed", "error", err)
	}
}
