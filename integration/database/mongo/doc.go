// Package mongo connects the official MongoDB v2 driver and registers the
// client as a relay plugin.
//
//	app.Provide(mongo.Plugin[*relay.App](cfg))
//
// The plugin API carries the client and the database named by
// MONGODB_DATABASE. It is checked by the health plugin and disconnected when
// the registry shuts down.
package mongo
