// Package providers holds the framework's own service providers. They put
// the configuration, the logger and the HTTP front into the registry so
// application components can depend on them.
package providers

import (
	"log/slog"
	"net/http"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound keys:
//   - "config" → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(*component.Catalog) {}

func (p *ConfigServiceProvider) Bind(app *container.Container) error {
	return app.Instance("config", p.Config)
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the application logger.
//
// Bound keys:
//   - "logger" → *slog.Logger
type LogServiceProvider struct {
	container.BaseProvider
	Logger *slog.Logger
}

func (p *LogServiceProvider) Register(*component.Catalog) {}

func (p *LogServiceProvider) Bind(app *container.Container) error {
	return app.Instance("logger", p.Logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP front and, once everything is
// wired, adds the health endpoint.
//
// Bound keys:
//   - "router" → *routing.Router
//
// Routes:
//   - GET /healthz → 200 "ok"
type RoutingServiceProvider struct {
	Router *routing.Router
}

func (p *RoutingServiceProvider) Register(*component.Catalog) {}

func (p *RoutingServiceProvider) Bind(app *container.Container) error {
	return app.Instance("router", p.Router)
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return nil
}
