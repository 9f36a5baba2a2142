// Package relay is a small HTTP application framework built around a path
// trie router, ordered lifecycle hooks, an explicit-continuation handler chain
// and a dependency-resolving plugin registry.
//
//	app, err := relay.New()
//	if err != nil {
//		return err
//	}
//
//	_ = app.Use(middleware.RequestID(), middleware.Logging(app.Logger()))
//	_ = app.Get("/users/:id", handler.Terminal(func(ctx *handler.Context) error {
//		ctx.Response().JSON(map[string]string{"id": ctx.Param("id")})
//		return nil
//	}))
//
//	return app.Run(ctx)
//
// Handlers receive the request context and a continuation. Calling next(nil)
// runs the rest of the chain synchronously; calling next(err) or returning an
// error stops it and hands err to the error handler. Literal path segments win
// over ":param" segments at every depth.
//
// Plugins are described by plugin.Descriptor values. Registering one first
// registers its dependencies, depth first, and each plugin's register function
// runs at most once:
//
//	_ = app.Provide(redis.Plugin[*relay.App](redisCfg))
//	_, err = app.Register(ctx, health.Plugin[*relay.App](redis.PluginName), nil)
package relay
