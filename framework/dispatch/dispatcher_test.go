package dispatch_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/dispatch"
	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/logging"
	"github.com/km-arc/go-mvc/framework/mapping"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type DemoController struct {
	calls atomic.Int64
}

// Test declares the integer before the handles.
func (c *DemoController) Test(param int, r *http.Request, w http.ResponseWriter) {
	c.calls.Add(1)
	fmt.Fprintf(w, "OK %d %s", param, r.URL.Path)
}

func (c *DemoController) Name(name string, small int8, res *mvchttp.Response) {
	_ = res.Text(http.StatusOK, fmt.Sprintf("%q %d", name, small))
}

func (c *DemoController) Info(req *mvchttp.Request, w http.ResponseWriter) {
	_, _ = io.WriteString(w, req.URI()+"|"+req.ContextPath())
}

func (c *DemoController) Page(page int, w http.ResponseWriter) {
	fmt.Fprintf(w, "page %d", page)
}

func (c *DemoController) Boom() { panic("kaboom") }

func (c *DemoController) Fail() error { return errors.New("database is down") }

func (c *DemoController) Fine() error { return nil }

func (c *DemoController) Partial(w http.ResponseWriter) {
	_, _ = w.Write([]byte("partial"))
	panic("late failure")
}

func (c *DemoController) Nothing() {}

func (c *DemoController) First(w http.ResponseWriter) { _, _ = io.WriteString(w, "first") }

func (c *DemoController) Second(w http.ResponseWriter) { _, _ = io.WriteString(w, "second") }

type setup struct {
	ctrl  *DemoController
	reg   *container.Container
	table *mapping.Table
}

func newSetup(t *testing.T) *setup {
	t.Helper()
	ctrl := &DemoController{}

	cat := component.NewCatalog()
	cat.Handler(ctrl,
		component.RequestMapping("/web"),
		component.Route("/test", (*DemoController).Test, component.RequestParam(0, "param")),
		component.Route("/name", (*DemoController).Name,
			component.RequestParam(0, "name"),
			component.RequestParam(1, "small"),
		),
		component.Route("/info", (*DemoController).Info),
		component.Route("/page", (*DemoController).Page, component.RequestParam(0, "page", "required", "integer", "gte:1")),
		component.Route("/boom", (*DemoController).Boom),
		component.Route("/fail", (*DemoController).Fail),
		component.Route("/fine", (*DemoController).Fine),
		component.Route("/partial", (*DemoController).Partial),
		component.Route("/nothing", (*DemoController).Nothing),
		component.Route("/dup", (*DemoController).First),
		component.Route("/d.p", (*DemoController).Second),
	)
	require.NoError(t, cat.Err())

	reg := container.New(cat, nil)
	for _, name := range cat.Names() {
		def, _ := cat.Lookup(name)
		require.NoError(t, reg.Register(def.Descriptor))
	}
	require.NoError(t, reg.Wire())

	table, err := mapping.Build(reg, nil)
	require.NoError(t, err)
	return &setup{ctrl: ctrl, reg: reg, table: table}
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	return serve(h, httptest.NewRequest(http.MethodGet, target, nil))
}

// ── Matching & binding ────────────────────────────────────────────────────────

func TestDispatch_IntegerBeforeHandles(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table), "/web/test?param=5")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK 5 /web/test", rr.Body.String())
	assert.Equal(t, int64(1), s.ctrl.calls.Load())
}

func TestDispatch_NonIntegerIsBindingFailure(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table), "/web/test?param=abc")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "404 - Page Not Found", rr.Body.String())
	assert.Equal(t, int64(0), s.ctrl.calls.Load())
}

func TestDispatch_NoRoute(t *testing.T) {
	s := newSetup(t)
	var log bytes.Buffer
	d := dispatch.New(s.table, dispatch.WithLogger(logging.New("debug", "text", &log)))

	rr := get(d, "/web/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "404 - Page Not Found", rr.Body.String())
	assert.Contains(t, log.String(), "no route")
	assert.Contains(t, log.String(), "request_id=")
}

func TestDispatch_MissingParamIsZero(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table), "/web/test?other=1")
	assert.Equal(t, "OK 0 /web/test", rr.Body.String())
}

func TestDispatch_CleansAndConverts(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table)

	rr := get(d, "/web/name?name=%5B+alice+%5D&small=-5")
	assert.Equal(t, `"alice" -5`, rr.Body.String())

	rr = get(d, "/web/name?small=%5B7%5D")
	assert.Equal(t, `"" 7`, rr.Body.String())

	rr = get(d, "/web/name?small=300")
	assert.Equal(t, http.StatusNotFound, rr.Code, "int8 overflow")

	rr = get(d, "/web/test?param=5&param=9")
	assert.Equal(t, "OK 5 /web/test", rr.Body.String(), "first value wins")
}

func TestDispatch_FormValues(t *testing.T) {
	s := newSetup(t)
	r := httptest.NewRequest(http.MethodPost, "/web/test", bytes.NewBufferString("param=12"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := serve(dispatch.New(s.table), r)
	assert.Equal(t, "OK 12 /web/test", rr.Body.String())
}

func TestDispatch_MalformedQuery(t *testing.T) {
	s := newSetup(t)
	r := httptest.NewRequest(http.MethodGet, "/web/test", nil)
	r.URL.RawQuery = "param=%zz"

	rr := serve(dispatch.New(s.table), r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDispatch_ValidationRules(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table)

	assert.Equal(t, "page 2", get(d, "/web/page?page=2").Body.String())

	for _, target := range []string{"/web/page", "/web/page?page=0", "/web/page?page=x"} {
		rr := get(d, target)
		assert.Equal(t, http.StatusNotFound, rr.Code, target)
		assert.Equal(t, "404 - Page Not Found", rr.Body.String(), target)
	}
}

func TestDispatch_FirstRegisteredWins(t *testing.T) {
	s := newSetup(t)
	assert.Equal(t, "first", get(dispatch.New(s.table), "/web/dup").Body.String())
}

// ── Paths ─────────────────────────────────────────────────────────────────────

func TestDispatch_ContextPathOption(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table, dispatch.WithContextPath("/shop/"))

	rr := get(d, "/shop//web///test?param=1")
	assert.Equal(t, "OK 1 /shop//web///test", rr.Body.String())
}

func TestDispatch_ContextPathIsWholeSegment(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table, dispatch.WithContextPath("/shop"))

	rr := get(d, "/shopping/web/test?param=1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "404 - Page Not Found", rr.Body.String())

	rr = get(d, "/shop/web/test?param=1")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDispatch_ContextPathFromRequest(t *testing.T) {
	s := newSetup(t)
	r := httptest.NewRequest(http.MethodGet, "/shop/web/info", nil)
	r = r.WithContext(mvchttp.WithContextPath(r.Context(), "/shop"))

	rr := serve(dispatch.New(s.table, dispatch.WithContextPath("/ignored")), r)
	assert.Equal(t, "/shop/web/info|/shop", rr.Body.String())
}

// ── Failures ──────────────────────────────────────────────────────────────────

func TestDispatch_PanicIs500(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table), "/web/boom")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "500 - Internal Server Error")
	assert.Contains(t, body, "kaboom")
	assert.Contains(t, body, "request id: ")
	assert.NotContains(t, body, "goroutine")
}

func TestDispatch_StackTraces(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table, dispatch.WithStackTraces(true)), "/web/boom")
	assert.Contains(t, rr.Body.String(), "goroutine")
}

func TestDispatch_ReturnedErrorIs500(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table)

	rr := get(d, "/web/fail")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "database is down")

	rr = get(d, "/web/fine")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestDispatch_ReusesRequestID(t *testing.T) {
	s := newSetup(t)
	r := httptest.NewRequest(http.MethodGet, "/web/fail", nil)
	r = r.WithContext(logging.WithRequestID(r.Context(), "req-42"))

	rr := serve(dispatch.New(s.table), r)
	assert.Contains(t, rr.Body.String(), "request id: req-42")
}

func TestDispatch_PartialResponseKeepsStatus(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table), "/web/partial")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "partial", rr.Body.String())
}

// ── Flush ─────────────────────────────────────────────────────────────────────

type flushRecorder struct {
	*httptest.ResponseRecorder
	flushes int
}

func (f *flushRecorder) Flush() {
	f.flushes++
	f.ResponseRecorder.Flush()
}

func TestDispatch_FlushesOnce(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table)

	for _, target := range []string{"/web/test?param=1", "/web/nothing", "/web/missing", "/web/test?param=x", "/web/boom"} {
		fr := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
		d.ServeHTTP(fr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, 1, fr.flushes, target)
	}
}

func TestDispatch_VoidMethodSendsEmpty200(t *testing.T) {
	s := newSetup(t)
	rr := get(dispatch.New(s.table), "/web/nothing")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, rr.Flushed)
	assert.Empty(t, rr.Body.String())
}

// ── State ─────────────────────────────────────────────────────────────────────

func sources(table *mapping.Table) []string {
	var out []string
	for _, r := range table.Routes() {
		out = append(out, r.Source)
	}
	return out
}

func TestDispatch_Idempotent(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table)

	names, routes := s.reg.Names(), sources(s.table)
	first := get(d, "/web/test?param=3").Body.String()
	second := get(d, "/web/test?param=3").Body.String()

	assert.Equal(t, first, second)
	assert.Equal(t, names, s.reg.Names())
	assert.Equal(t, routes, sources(s.table))
}

func TestDispatch_Concurrent(t *testing.T) {
	s := newSetup(t)
	d := dispatch.New(s.table)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rr := get(d, fmt.Sprintf("/web/test?param=%d", i))
			assert.Equal(t, fmt.Sprintf("OK %d /web/test", i), rr.Body.String())
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int64(n), s.ctrl.calls.Load())
}
