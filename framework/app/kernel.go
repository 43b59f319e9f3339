package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/dispatch"
	"github.com/km-arc/go-mvc/framework/logging"
	"github.com/km-arc/go-mvc/framework/mapping"
	"github.com/km-arc/go-mvc/framework/providers"
	"github.com/km-arc/go-mvc/framework/scanner"
	"github.com/km-arc/go-mvc/routing"
)

var (
	ErrNotBooted     = errors.New("application has not been booted")
	ErrAlreadyBooted = errors.New("application has already been booted")
)

const shutdownTimeout = 10 * time.Second

// Application owns the startup pipeline and the HTTP server.
//
//	application := app.New(cfg, logger, demo.Provider{})
//	if err := application.Boot(); err != nil { ... }
//	application.Run(ctx)
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Catalog   *component.Catalog
	Container *container.Container
	Providers *container.ProviderRegistry
	Router    *routing.Router

	// set by Boot
	Routes     *mapping.Table
	Dispatcher *dispatch.Dispatcher

	booted bool
}

// New creates the application and registers the framework providers
// followed by the given application providers.
func New(cfg *config.Config, logger *slog.Logger, providerList ...container.Provider) *Application {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	catalog := component.NewCatalog()

	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Container: container.New(catalog, logger),
		Providers: container.NewProviderRegistry(),
		Router:    routing.New(logger),
	}

	// Register framework core providers first
	a.Register(&providers.ConfigServiceProvider{Config: cfg})
	a.Register(&providers.LogServiceProvider{Logger: logger})
	a.Register(&providers.RoutingServiceProvider{Router: a.Router})

	for _, p := range providerList {
		a.Register(p)
	}
	return a
}

// Register adds a provider. Providers added after Boot are ignored.
func (a *Application) Register(p container.Provider) {
	if a.booted {
		a.Logger.Warn("provider registered after boot is ignored")
		return
	}
	a.Providers.Register(p, a.Catalog)
}

// Boot runs the startup pipeline: scan the configured package, register
// what was found, bind framework values, wire, boot providers, build the
// route table and mount the dispatcher. Nothing is served until Boot has
// succeeded.
func (a *Application) Boot() error {
	if a.booted {
		return ErrAlreadyBooted
	}
	log := a.Logger

	var errs []error
	if err := a.Catalog.Err(); err != nil {
		errs = append(errs, err)
	}

	root := a.Config.Scan.Package
	found, err := scanner.New(a.Catalog).Scan(root)
	if err != nil {
		errs = append(errs, err)
	} else {
		for d := range found {
			if err := a.Container.Register(d); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := a.Providers.Bind(a.Container); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &container.StartupError{Errs: errs}
	}
	log.Debug("components registered", "root", root, "components", len(a.Container.Components()))

	if err := a.Container.Wire(); err != nil {
		return err
	}
	if err := a.Providers.Boot(a.Container); err != nil {
		return &container.StartupError{Errs: []error{err}}
	}

	table, err := mapping.Build(a.Container, log)
	if err != nil {
		return err
	}
	a.Routes = table
	a.Dispatcher = dispatch.New(table,
		dispatch.WithLogger(log),
		dispatch.WithContextPath(a.Config.App.ContextPath),
		dispatch.WithStackTraces(a.Config.App.Debug),
	)
	a.Router.Mount(a.Config.App.ContextPath, a.Dispatcher)

	a.booted = true
	log.Info("application booted",
		"name", a.Config.App.Name,
		"env", a.Config.App.Env,
		"routes", table.Len())
	return nil
}

// Booted reports whether Boot has succeeded.
func (a *Application) Booted() bool { return a.booted }

// Handler returns the HTTP front once the application has booted.
func (a *Application) Handler() (http.Handler, error) {
	if !a.booted {
		return nil, ErrNotBooted
	}
	return a.Router, nil
}

// Run boots the application if needed and serves on APP_PORT until ctx is
// cancelled, then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.booted {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", ":"+a.Config.App.Port)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is like Run on an existing listener.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	a.Logger.Info("listening",
		"addr", ln.Addr().String(),
		"context_path", a.Config.App.ContextPath+"/")

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
