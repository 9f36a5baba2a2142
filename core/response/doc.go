// Package response holds the buffered response a handler chain builds.
//
// Handlers chain setters on the Response carried by their context and the
// pipeline writes it to the client once, after the chain and the onResponse
// hooks have finished:
//
//	ctx.Response().Status(http.StatusCreated).Header("Location", "/users/42").JSON(user)
//
// Error values with a status code and payload, such as Error, are rendered
// verbatim by the pipeline's error handler:
//
//	return response.ErrNotFound.WithMessage("user not found")
package response
