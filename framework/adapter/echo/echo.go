// Package echoadapter mounts the dispatcher inside an Echo server.
//
//	e := echo.New()
//	echoadapter.Mount(e, "/shop", application.Dispatcher)
package echoadapter

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	mvchttp "github.com/km-arc/go-mvc/framework/http"
)

// Mount routes every method under contextPath to h.
func Mount(e *echo.Echo, contextPath string, h http.Handler) {
	prefix := strings.TrimRight(contextPath, "/")
	wrapped := echo.WrapHandler(mvchttp.Scoped(prefix, h))

	if prefix != "" {
		e.Any(prefix, wrapped)
	}
	e.Any(prefix+"/*", wrapped)
}
