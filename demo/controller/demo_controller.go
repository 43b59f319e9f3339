// Package controller holds the demo request handlers.
package controller

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/km-arc/go-mvc/demo/service"
	"github.com/km-arc/go-mvc/framework/component"
	mvchttp "github.com/km-arc/go-mvc/framework/http"
)

// Params lists what DemoController needs from the registry.
type Params struct {
	component.In

	Service service.DemoService `name:"demoService"`
	Calc    service.Calculator  `name:"calc"`
	Logger  *slog.Logger
}

// DemoController serves /web/*.
type DemoController struct {
	service service.DemoService
	calc    service.Calculator
	logger  *slog.Logger
}

func NewDemoController(p Params) *DemoController {
	return &DemoController{service: p.Service, calc: p.Calc, logger: p.Logger}
}

// Test answers /web/test?param=... with the service's reply.
func (c *DemoController) Test(r *http.Request, w http.ResponseWriter, param string) {
	reply := c.service.Test(param)
	c.logger.DebugContext(r.Context(), "demo test", "param", param)
	_, _ = w.Write([]byte(reply))
}

// Add answers /web/add?a=1&b=2 with a JSON sum.
func (c *DemoController) Add(a int, b int, res *mvchttp.Response) error {
	return res.JSON(http.StatusOK, map[string]any{
		"a":   a,
		"b":   b,
		"sum": c.calc.Add(a, b),
	})
}

// Echo answers /web/echo/<anything> with the request path.
func (c *DemoController) Echo(req *mvchttp.Request, res *mvchttp.Response) error {
	return res.Text(http.StatusOK, fmt.Sprintf("%s %s", req.Method(), req.Path()))
}
