package routing

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/logging"
)

// Router is the HTTP front: chi with the standard middleware stack, the
// dispatcher mounted under the context path, and a few fixed endpoints.
type Router struct {
	mux    chi.Router
	logger *slog.Logger
}

// New creates a Router with sane defaults (RealIP, RequestID, AccessLog,
// Recoverer).
func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	return &Router{mux: r, logger: logger}
}

// ── Mounting ─────────────────────────────────────────────────────────────────

// Mount routes every path under contextPath, for every method, to h. The
// context path is recorded on the request context so h can strip it.
//
//	router.Mount("/shop", dispatcher)  // /shop/web/test → dispatcher
//	router.Mount("", dispatcher)       // everything
func (r *Router) Mount(contextPath string, h http.Handler) {
	prefix := strings.TrimRight(contextPath, "/")
	scoped := mvchttp.Scoped(prefix, h)

	if prefix != "" {
		r.mux.Handle(prefix, scoped)
	}
	r.mux.Handle(prefix+"/*", scoped)
	r.logger.Debug("mounted", "context_path", prefix+"/")
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc) { r.mux.Get(pattern, h) }

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router. chi requires
// middleware to be added before any route.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
