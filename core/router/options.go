package router

// Option configures a Trie during creation.
type Option func(*Trie)

// WithOverwrite lets a later Add for the same method and path replace the
// earlier handlers instead of failing with ErrDuplicateRoute.
func WithOverwrite() Option {
	return func(t *Trie) {
		t.overwrite = true
	}
}
