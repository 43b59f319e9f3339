// Package ginadapter mounts the dispatcher inside a Gin engine.
//
//	g := gin.New()
//	ginadapter.Mount(g, "/shop", application.Dispatcher)
package ginadapter

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mvchttp "github.com/km-arc/go-mvc/framework/http"
)

// Mount routes every method under contextPath to h. An empty context path
// hands h every request no other Gin route claims.
func Mount(e *gin.Engine, contextPath string, h http.Handler) {
	prefix := strings.TrimRight(contextPath, "/")
	wrapped := gin.WrapH(mvchttp.Scoped(prefix, h))

	if prefix == "" {
		e.NoRoute(wrapped)
		return
	}
	e.Any(prefix, wrapped)
	e.Any(prefix+"/*path", wrapped)
}
