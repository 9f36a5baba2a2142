package pipeline

import (
	"runtime/debug"

	"github.com/dmitrymomot/relay/core/handler"
)

// chain drives one request through its handlers with an index cursor.
// The continuation given to the handler at position i is honoured only while
// the cursor is still at i, so duplicate or late calls are no-ops and every
// handler runs at most once.
type chain struct {
	ctx      *handler.Context
	handlers []handler.HandlerFunc
	cursor   int
	done     bool
	failed   bool
	onError  func(ctx *handler.Context, err error)
}

func newChain(ctx *handler.Context, handlers []handler.HandlerFunc, onError func(*handler.Context, error)) *chain {
	return &chain{ctx: ctx, handlers: handlers, onError: onError}
}

// run starts the chain at position 0. Once it returns, every continuation is
// dead, including those of handlers that ended the chain without calling next.
func (c *chain) run() {
	c.invoke(0)
	c.done = true
}

// next returns the continuation owned by position pos.
func (c *chain) next(pos int) handler.Next {
	return func(err error) {
		if c.done || c.cursor != pos {
			return
		}
		if err != nil {
			c.fail(err)
			return
		}
		c.invoke(pos + 1)
	}
}

func (c *chain) invoke(pos int) {
	c.cursor = pos
	if pos >= len(c.handlers) {
		c.done = true
		return
	}
	if err := c.ctx.Err(); err != nil {
		c.fail(err)
		return
	}

	err := c.call(pos)
	if err != nil && !c.failed {
		// A handler that already advanced the chain can still return an error
		// for work done afterwards; it is reported once like any other.
		c.fail(err)
	}
}

// call runs the handler at pos, converting a panic into an error.
func (c *chain) call(pos int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()
	return c.handlers[pos](c.ctx, c.next(pos))
}

// fail stops the chain and hands err to the error handler exactly once.
func (c *chain) fail(err error) {
	if c.failed {
		return
	}
	c.failed = true
	c.done = true
	c.onError(c.ctx, err)
}
