// Package pg connects a pgx pool, applies goose migrations and exposes the
// pool to relay applications as a plugin.
//
// Connect parses the connection string, applies the pool limits from Config
// and pings with linear backoff until the database answers or the attempts
// run out:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
// Registered through the plugin registry, the pool becomes an *API that the
// health plugin checks and the registry closes on shutdown:
//
//	app.Provide(pg.Plugin[*relay.App](cfg))
//
// Repositories that accept a DBTX can be run inside a transaction by putting
// it on the context with WithTx and resolving the handle with Conn.
//
// IsNotFoundError, IsDuplicateKeyError, IsForeignKeyViolationError and
// IsTxClosedError classify driver errors without importing pgconn.
package pg
