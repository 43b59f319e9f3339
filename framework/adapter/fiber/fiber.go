// Package fiberadapter mounts the dispatcher inside a Fiber app. Requests
// are converted to net/http by Fiber's adaptor middleware, so handlers see
// the same *http.Request they would behind the chi front.
//
//	app := fiber.New()
//	fiberadapter.Mount(app, "/shop", application.Dispatcher)
package fiberadapter

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	mvchttp "github.com/km-arc/go-mvc/framework/http"
)

// Mount routes every method under contextPath to h.
func Mount(app *fiber.App, contextPath string, h http.Handler) {
	prefix := strings.TrimRight(contextPath, "/")
	wrapped := adaptor.HTTPHandler(mvchttp.Scoped(prefix, h))

	if prefix != "" {
		app.All(prefix, wrapped)
	}
	app.All(prefix+"/*", wrapped)
}
