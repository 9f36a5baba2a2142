// Package plugin registers named extensions against an application value.
//
// A Descriptor names a plugin, the plugins it depends on and the function that
// wires it in. Registry.Register resolves dependencies depth-first before
// calling that function, memoizes the returned API and never registers the same
// plugin twice:
//
//	reg := plugin.NewRegistry(app)
//	_ = reg.Provide(cacheDescriptor)
//	api, err := reg.Register(ctx, sessionDescriptor, sessionOptions)
//
// Resolution detects cycles: reaching a plugin that is still registering fails
// with ErrDependencyCycle. A dependency that was never provided fails with
// ErrDependencyMissing, and an error from the register function with
// ErrRegistrationFailed. A plugin whose registration failed can be registered
// again later.
//
// APIs implementing Checker and Stopper take part in Registry.Check and
// Registry.Shutdown.
package plugin
