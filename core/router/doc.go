// Package router implements the path trie that maps (method, path) pairs to
// handler chains.
//
// Paths are split on "/" with empty segments dropped, so "/users/", "users" and
// "//users" are the same route. A segment starting with ':' is a parameter that
// matches any single segment:
//
//	t := router.New()
//	_ = t.Add(http.MethodGet, "/items/:id", getItem)
//	_ = t.Add(http.MethodGet, "/items/featured", featured)
//
//	m, err := t.Find(http.MethodGet, "/items/42")
//	// m.Params["id"] == "42", m.Pattern == "/items/:id"
//
// # Matching
//
// At every depth a literal child equal to the segment wins over the parameter
// child, regardless of the order routes were added in. The walk is greedy: once a
// literal child is taken the trie does not go back to try the parameter branch.
// Find returns ErrRouteNotFound both when a segment has no matching child and when
// the final node has no handlers for the requested method.
//
// # Registration
//
// All positions share a single parameter child, so "/users/:id" and
// "/users/:name/posts" conflict and the second Add fails with ErrParamConflict.
// Registering the same method and path twice fails with ErrDuplicateRoute; use
// WithOverwrite to let the later registration win instead.
//
// The trie is populated at boot and read-only afterwards. Concurrent Find calls are
// safe; Add must not run concurrently with anything else.
package router
