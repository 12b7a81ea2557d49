package router

import "lambda-api-router/pkg/lambda"

// routeChain guards a handler list with a method and compiled-path
// predicate. Matched handlers receive a derived sub-request carrying the
// extracted, frozen params.
type routeChain struct {
	method   string // empty means method-agnostic
	pattern  *pattern
	handlers handlerList
}

func newRouteChain(method, path string, caseSensitive bool, handlers []wrapped) (*routeChain, error) {
	p, err := compilePattern(path, caseSensitive, false)
	if err != nil {
		return nil, err
	}
	return &routeChain{method: method, pattern: p, handlers: handlers}, nil
}

func (c *routeChain) matches(req *lambda.Request) bool {
	if c.method != "" && c.method != req.Method {
		return false
	}
	_, matched, _ := c.pattern.match(req.Path())
	return matched
}

func (c *routeChain) run(err error, req *lambda.Request, res *lambda.Response, done Next) {
	if err != nil {
		// Error in flight: no param extraction, the wrapped handlers just
		// forward it.
		c.handlers.run(err, req, res, done)
		return
	}
	params, matched, derr := c.pattern.match(req.Path())
	if !matched {
		done(nil)
		return
	}
	if derr != nil {
		// Malformed percent-encoding in a captured value enters the error
		// pipeline rather than aborting the dispatch loop.
		done(derr)
		return
	}
	c.handlers.run(nil, req.WithParams(params), res, done)
}
