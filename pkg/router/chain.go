package router

import (
	"errors"

	"lambda-api-router/pkg/lambda"
)

// processor is one entry in a router's ordered chain list: a match predicate
// guarding a runnable handler list.
type processor interface {
	// matches evaluates the predicate against the current request state.
	matches(req *lambda.Request) bool
	// run executes the chain and eventually calls done exactly once with
	// whatever error is then in flight.
	run(err error, req *lambda.Request, res *lambda.Response, done Next)
}

// handlerList daisy-chains wrapped handlers one continuation at a time.
type handlerList []wrapped

// run walks the list in registration order. Each handler's next either
// advances to the following handler or, on SkipRoute, jumps straight to done
// with no error in flight. Exhausting the list calls done with the error
// then in flight.
func (l handlerList) run(err error, req *lambda.Request, res *lambda.Response, done Next) {
	var step func(i int) Next
	step = func(i int) Next {
		return func(err error) {
			if errors.Is(err, SkipRoute) {
				done(nil)
				return
			}
			if i >= len(l) {
				done(err)
				return
			}
			l[i](err, req, res, step(i+1))
		}
	}
	step(0)(err)
}

// matchAllChain is plain middleware: an always-true predicate around a
// handler list, run against the request itself.
type matchAllChain struct {
	handlers handlerList
}

func (c *matchAllChain) matches(*lambda.Request) bool { return true }

func (c *matchAllChain) run(err error, req *lambda.Request, res *lambda.Response, done Next) {
	c.handlers.run(err, req, res, done)
}
