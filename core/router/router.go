package router

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/dmitrymomot/relay/core/handler"
)

// Trie stores routes keyed by path segment. It is built at boot through Add and
// only read afterwards, so lookups need no locking.
type Trie struct {
	root      *node
	overwrite bool
}

// Match is the result of a successful lookup.
type Match struct {
	Handlers []handler.HandlerFunc
	Params   map[string]string
	Pattern  string
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates an empty trie.
func New(opts ...Option) *Trie {
	t := &Trie{root: &node{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add registers handlers for method and path. Segments starting with ':' are
// parameters. Registering the same method and path twice returns
// ErrDuplicateRoute unless the trie was created WithOverwrite.
func (t *Trie) Add(method, path string, handlers ...handler.HandlerFunc) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return ErrInvalidMethod
	}
	if len(handlers) == 0 || slices.ContainsFunc(handlers, isNil) {
		return ErrNoHandlers
	}

	n, err := t.root.insert(splitPath(path))
	if err != nil {
		return err
	}

	if n.endpoints == nil {
		n.endpoints = make(map[string]endpoint)
	}
	if _, exists := n.endpoints[method]; exists && !t.overwrite {
		return ErrDuplicateRoute
	}

	n.endpoints[method] = endpoint{
		pattern:  NormalizePattern(path),
		handlers: slices.Clone(handlers),
	}
	return nil
}

// Find resolves method and path. Both a missing segment and a matched node
// without handlers for method are reported as ErrRouteNotFound.
func (t *Trie) Find(method, path string) (Match, error) {
	return t.FindSegments(method, splitPath(path))
}

// FindSegments resolves method against already split, decoded path segments.
// Segments are compared literally and bound to parameters as given.
func (t *Trie) FindSegments(method string, segments []string) (Match, error) {
	n, params := t.root.match(segments)
	if n == nil {
		return Match{}, ErrRouteNotFound
	}

	ep, ok := n.endpoints[strings.ToUpper(method)]
	if !ok {
		return Match{}, ErrRouteNotFound
	}

	return Match{
		Handlers: ep.handlers,
		Params:   params,
		Pattern:  ep.pattern,
	}, nil
}

// Routes lists every registered route ordered by pattern, then method.
func (t *Trie) Routes() []Route {
	var routes []Route
	t.root.walk(func(method string, ep endpoint) {
		routes = append(routes, Route{Method: method, Pattern: ep.pattern})
	})

	slices.SortFunc(routes, func(a, b Route) int {
		return cmp.Or(cmp.Compare(a.Pattern, b.Pattern), cmp.Compare(a.Method, b.Method))
	})
	return routes
}

// Methods returns the methods registered for an exact pattern.
func (t *Trie) Methods(pattern string) []string {
	pattern = NormalizePattern(pattern)
	methods := lo.FilterMap(t.Routes(), func(r Route, _ int) (string, bool) {
		return r.Method, r.Pattern == pattern
	})
	return methods
}

func isNil(h handler.HandlerFunc) bool { return h == nil }

// normalizePattern rewrites path in canonical "/a/:b" form.
func NormalizePattern(path string) string {
	return "/" + strings.Join(splitPath(path), "/")
}
