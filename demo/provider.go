// Package demo wires the demo application into the runtime.
package demo

import (
	"github.com/km-arc/go-mvc/demo/controller"
	"github.com/km-arc/go-mvc/demo/service"
	"github.com/km-arc/go-mvc/demo/service/impl"
	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/container"
)

// Root is the package path to scan for the demo components.
const Root = "github.com/km-arc/go-mvc/demo"

// Provider registers the demo components.
type Provider struct {
	container.BaseProvider
}

func (Provider) Register(c *component.Catalog) {
	c.Service(impl.NewDemoService,
		component.Implements((*service.DemoService)(nil)),
	)
	c.Service(impl.NewCalculator,
		component.Named("calc"),
		component.Implements((*service.Calculator)(nil)),
	)

	c.Handler(controller.NewDemoController,
		component.RequestMapping("/web"),
		component.Route("/test", (*controller.DemoController).Test,
			component.RequestParam(2, "param"),
		),
		component.Route("/add", (*controller.DemoController).Add,
			component.RequestParam(0, "a", "required", "integer"),
			component.RequestParam(1, "b", "required", "integer"),
		),
		component.Route("/echo/.*", (*controller.DemoController).Echo),
	)
}
