// Package container is the component registry and its dependency resolver.
//
// # Lifecycle
//
//  1. Create: c := container.New(catalog, logger)
//  2. Register each scanned descriptor: c.Register(d)
//  3. Wire: c.Wire(), which builds everything or nothing
//  4. Look up: c.Lookup("demoController")
//
// # Keys
//
// A handler is keyed by its type name with the first letter lower-cased
// (DemoController → "demoController"). A service is keyed by its explicit
// name, or the same default name, and additionally by the qualified name of
// each interface it declares with component.Implements:
//
//	c.Lookup("demoService")
//	c.Lookup("github.com/km-arc/go-mvc/demo/service.DemoService")
//
// Registering a second component under a taken key moves the key to the
// newer component and logs a warning.
//
// # Injection
//
// Constructors declare their dependencies as parameters. A parameter of a
// capability interface type receives the component registered for that
// capability. To ask for a component by key, take a component.In struct:
//
//	type Params struct {
//	    component.In
//	    Service service.DemoService `name:"demoService"`
//	}
//
//	func NewDemoController(p Params) *DemoController { ... }
//
// A missing dependency, a dependency cycle, or a constructor that returns an
// error or panics fails Wire with a *StartupError listing every failure.
//
// # Providers
//
// A Provider adds registrations to the catalog in its Register phase and may
// resolve components in its Boot phase, which runs after Wire.
//
//	reg := container.NewProviderRegistry()
//	reg.Register(&AppProvider{}, catalog)
//	// scan, register, wire ...
//	err := reg.Boot(c)
package container
