package router

import (
	"net/http"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/settings"
)

// Router is an ordered collection of chains plus the dispatch loop.
// Registration order is authoritative for match precedence and is never
// reordered at runtime.
type Router struct {
	chains []processor
	store  *settings.Store
}

// New creates a router reading routing settings from the given store. A nil
// store means defaults (case-sensitive routing).
func New(store *settings.Store) *Router {
	return &Router{store: store}
}

// caseSensitive samples the setting in effect right now. Patterns compiled
// earlier keep the value they were registered under.
func (r *Router) caseSensitive() bool {
	if r.store == nil || !r.store.Has(settings.CaseSensitiveRouting) {
		return true
	}
	return r.store.Enabled(settings.CaseSensitiveRouting)
}

// Use appends path-agnostic middleware.
func (r *Router) Use(handlers ...Handler) *Router {
	r.chains = append(r.chains, &matchAllChain{handlers: wrapHandlers(handlers)})
	return r
}

// UseErrorHandler appends error-handling middleware. Error handlers are
// registered explicitly rather than inferred from the handler's shape.
func (r *Router) UseErrorHandler(handlers ...ErrorHandler) *Router {
	r.chains = append(r.chains, &matchAllChain{handlers: wrapErrorHandlers(handlers)})
	return r
}

// Mount registers handlers for a method and path pattern. An empty method is
// method-agnostic. An invalid pattern panics: route tables are wired at
// startup and a bad pattern is a programmer error.
func (r *Router) Mount(method, path string, handlers ...Handler) *Router {
	chain, err := newRouteChain(method, path, r.caseSensitive(), wrapHandlers(handlers))
	if err != nil {
		panic(err)
	}
	r.chains = append(r.chains, chain)
	return r
}

// All registers method-agnostic handlers for a path.
func (r *Router) All(path string, handlers ...Handler) *Router {
	return r.Mount("", path, handlers...)
}

// Get registers handlers for GET requests on a path.
func (r *Router) Get(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodGet, path, handlers...)
}

// Post registers handlers for POST requests on a path.
func (r *Router) Post(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodPost, path, handlers...)
}

// Put registers handlers for PUT requests on a path.
func (r *Router) Put(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodPut, path, handlers...)
}

// Delete registers handlers for DELETE requests on a path.
func (r *Router) Delete(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodDelete, path, handlers...)
}

// Patch registers handlers for PATCH requests on a path.
func (r *Router) Patch(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodPatch, path, handlers...)
}

// Options registers handlers for OPTIONS requests on a path.
func (r *Router) Options(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodOptions, path, handlers...)
}

// Head registers handlers for HEAD requests on a path.
func (r *Router) Head(path string, handlers ...Handler) *Router {
	return r.Mount(http.MethodHead, path, handlers...)
}

// AddSubRouter mounts a nested router at a path prefix. The mount pattern is
// compiled loose (method-agnostic, not anchored to the end of the path) with
// the parent's case-sensitivity setting at mount time.
func (r *Router) AddSubRouter(path string, sub *Router) *Router {
	chain, err := newSubRouterChain(path, r.caseSensitive(), sub)
	if err != nil {
		panic(err)
	}
	r.chains = append(r.chains, chain)
	return r
}

// Route returns a builder with per-method appenders bound to one path.
func (r *Router) Route(path string) *Route {
	return &Route{path: path, router: r}
}

// Dispatch walks the chain list with a per-request cursor. Each chain's
// predicate is evaluated against the current request state, so a handler
// rewriting the routing path mid-flight changes what later chains match,
// without a new top-level invocation. A chain's completion re-enters the
// loop at the next cursor position regardless of outcome. Exhausting the
// list calls done with whatever error is then in flight.
func (r *Router) Dispatch(err error, req *lambda.Request, res *lambda.Response, done Next) {
	var advance func(cursor int) Next
	advance = func(cursor int) Next {
		return func(err error) {
			for i := cursor; i < len(r.chains); i++ {
				if chain := r.chains[i]; chain.matches(req) {
					chain.run(err, req, res, advance(i+1))
					return
				}
			}
			done(err)
		}
	}
	advance(0)(err)
}
