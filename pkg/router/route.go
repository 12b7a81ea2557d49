package router

import "net/http"

// Route is builder sugar: it holds one path on a parent router and exposes
// chainable per-method appenders for it. Each appender registers an
// independent chain in the parent's list, so registration order across
// builders stays authoritative.
type Route struct {
	path   string
	router *Router
}

// All registers method-agnostic handlers on the bound path.
func (rt *Route) All(handlers ...Handler) *Route {
	rt.router.Mount("", rt.path, handlers...)
	return rt
}

// Get registers GET handlers on the bound path.
func (rt *Route) Get(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodGet, rt.path, handlers...)
	return rt
}

// Post registers POST handlers on the bound path.
func (rt *Route) Post(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodPost, rt.path, handlers...)
	return rt
}

// Put registers PUT handlers on the bound path.
func (rt *Route) Put(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodPut, rt.path, handlers...)
	return rt
}

// Delete registers DELETE handlers on the bound path.
func (rt *Route) Delete(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodDelete, rt.path, handlers...)
	return rt
}

// Patch registers PATCH handlers on the bound path.
func (rt *Route) Patch(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodPatch, rt.path, handlers...)
	return rt
}

// Options registers OPTIONS handlers on the bound path.
func (rt *Route) Options(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodOptions, rt.path, handlers...)
	return rt
}

// Head registers HEAD handlers on the bound path.
func (rt *Route) Head(handlers ...Handler) *Route {
	rt.router.Mount(http.MethodHead, rt.path, handlers...)
	return rt
}
