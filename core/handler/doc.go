// Package handler defines the request context and the handler signature shared by
// middleware, route handlers and lifecycle hooks.
//
// A Context is created once per request by the pipeline. It exposes the normalized
// request (method, path, query, headers, cookies, path parameters and parsed body)
// and a response builder that handlers mutate instead of writing to the transport
// directly:
//
//	func getItem(ctx *handler.Context, next handler.Next) error {
//		item, err := store.Find(ctx, ctx.Param("id"))
//		if err != nil {
//			return err
//		}
//		ctx.Response().JSON(item)
//		return nil
//	}
//
// # Continuation
//
// Every HandlerFunc receives a Next. Middleware calls next(nil) to run the rest of
// the chain and regains control when it returns, which makes before/after logic
// straightforward:
//
//	func timing(ctx *handler.Context, next handler.Next) error {
//		start := time.Now()
//		next(nil)
//		ctx.Response().Header("X-Elapsed", time.Since(start).String())
//		return nil
//	}
//
// Calling next with an error, or returning one, stops the chain and hands the error
// to the error handler. Only the first call to a given next has any effect.
//
// # Body parsing
//
// ParseBody decodes POST, PUT and PATCH bodies. JSON content types produce the
// decoded value (usually map[string]any); form and multipart bodies produce a
// map[string]any whose repeated fields are []string. Malformed bodies leave an
// empty map in place. BodyPath offers gjson lookups on the raw JSON:
//
//	email := ctx.BodyPath("user.email").String()
package handler
