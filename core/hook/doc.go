// Package hook provides the lifecycle registry: ordered callbacks attached to a
// fixed set of request stages.
//
// The pipeline runs the stages in this order: onRequest, preParsing (before the
// body is read), preValidation and preHandler (after routing), onResponse (after
// the chain) and onError (while an error is being rendered). Callbacks of one
// stage run sequentially in registration order.
//
// A failing callback aborts its stage with *Error. Errors that already carry an
// HTTP status keep it; otherwise failures in onRequest, preParsing, preValidation
// and preHandler are client errors (400) and failures in onResponse and onError
// are server errors (500). The original message becomes the response payload,
// unless the error renders its own (response.Error keeps its code and details):
//
//	hooks := hook.NewRegistry()
//	_ = hooks.Add(hook.PreValidation, func(ctx *handler.Context) error {
//		if ctx.Header("X-Tenant") == "" {
//			return errors.New("missing tenant")
//		}
//		return nil
//	})
package hook
