package router

import (
	"strings"

	"github.com/dmitrymomot/relay/core/handler"
)

// endpoint is a handler chain registered for one method at one node.
type endpoint struct {
	pattern  string
	handlers []handler.HandlerFunc
}

// node is a trie node. Parents exclusively own their children.
type node struct {
	// segment is the literal this node matches; empty for the root and param nodes
	segment string

	// children are literal children in insertion order
	children []*node

	// paramChild matches any single segment and binds it to paramName
	paramChild *node
	paramName  string

	// endpoints maps an upper-case method to its handlers
	endpoints map[string]endpoint
}

// findChild returns the literal child matching segment exactly.
func (n *node) findChild(segment string) *node {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild returns the literal child for segment, creating it when missing.
func (n *node) addChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &node{segment: segment}
	n.children = append(n.children, child)
	return child
}

// addParamChild returns the parameter child, creating it when missing.
// The parameter name is fixed by the first route that creates the child.
func (n *node) addParamChild(name string) (*node, error) {
	if n.paramChild != nil {
		if n.paramChild.paramName != name {
			return nil, ErrParamConflict
		}
		return n.paramChild, nil
	}
	n.paramChild = &node{paramName: name}
	return n.paramChild, nil
}

// insert walks or creates the nodes for segments and returns the terminal node.
func (n *node) insert(segments []string) (*node, error) {
	current := n
	for _, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if name == "" {
				return nil, ErrInvalidPattern
			}
			next, err := current.addParamChild(name)
			if err != nil {
				return nil, err
			}
			current = next
			continue
		}
		current = current.addChild(seg)
	}
	return current, nil
}

// match walks the trie for segments. A literal child always wins over the
// parameter child at the same depth and there is no backtracking once taken.
func (n *node) match(segments []string) (*node, map[string]string) {
	var params map[string]string
	current := n

	for _, seg := range segments {
		if child := current.findChild(seg); child != nil {
			current = child
			continue
		}
		if current.paramChild == nil {
			return nil, nil
		}
		if params == nil {
			params = make(map[string]string)
		}
		current = current.paramChild
		params[current.paramName] = seg
	}

	return current, params
}

// walk visits every endpoint in the subtree.
func (n *node) walk(fn func(method string, ep endpoint)) {
	for method, ep := range n.endpoints {
		fn(method, ep)
	}
	for _, child := range n.children {
		child.walk(fn)
	}
	if n.paramChild != nil {
		n.paramChild.walk(fn)
	}
}

// splitPath splits path on "/" and drops empty segments.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
