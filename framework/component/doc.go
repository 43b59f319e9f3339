// Package component holds the registration table the runtime is built from.
//
// Go has no class-path scanning or annotations, so every component is
// registered explicitly, usually from a Module:
//
//	func (Module) Register(c *component.Catalog) {
//	    c.Service(impl.NewDemoService,
//	        component.Implements((*service.DemoService)(nil)))
//
//	    c.Handler(controller.NewDemoController,
//	        component.RequestMapping("/web"),
//	        component.Route("/test", (*controller.DemoController).Test,
//	            component.RequestParam(2, "param", "required")))
//	}
//
// A registration carries the component's role, its constructor (whose
// parameters are its dependencies), the capability interfaces it is also
// known by, and for handlers the route markers with their parameter
// bindings. Registry keys follow DefaultName: the simple type name with a
// lower-cased first rune.
package component
