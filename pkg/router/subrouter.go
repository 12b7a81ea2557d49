package router

import (
	"fmt"

	"lambda-api-router/pkg/lambda"
)

// subRouterChain mounts a nested router at a path prefix. The mounting match
// uses the parent's case-sensitivity setting, fixed at mount time; matches
// inside the nested router use whatever each of its own routes was compiled
// with.
type subRouterChain struct {
	pattern *pattern
	sub     *Router
}

func newSubRouterChain(path string, caseSensitive bool, sub *Router) (*subRouterChain, error) {
	p, err := compilePattern(path, caseSensitive, true)
	if err != nil {
		return nil, err
	}
	return &subRouterChain{pattern: p, sub: sub}, nil
}

func (c *subRouterChain) matches(req *lambda.Request) bool {
	_, ok := c.pattern.prefix(req.Path())
	return ok
}

// run derives the sub-request for the matched prefix and delegates to the
// nested router, passing the in-flight error, response and completion
// continuation through unchanged. Reaching run with a path the predicate no
// longer matches means the dispatcher is corrupted; that is a programmer
// error, not a request error.
func (c *subRouterChain) run(err error, req *lambda.Request, res *lambda.Response, done Next) {
	prefix, ok := c.pattern.prefix(req.Path())
	if !ok {
		panic(fmt.Sprintf("sub-router mounted at %q dispatched with non-matching path %q", c.pattern.raw, req.Path()))
	}
	c.sub.Dispatch(err, req.WithBase(prefix), res, done)
}
