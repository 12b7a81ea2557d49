// Package app provides the top-level container: a settings store, the root
// dispatcher, and the platform entry point translating invocation payloads
// to and from the canonical model.
package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/router"
	"lambda-api-router/pkg/settings"
)

// Application holds a dispatcher and delegates to it. It is not itself a
// router; registration methods forward to the root router, and Run owns the
// platform translation around a dispatch.
type Application struct {
	Settings *settings.Store

	router *router.Router
	log    *logrus.Logger
}

// New creates an application with default settings and the standard logger.
func New() *Application {
	return NewWithLogger(logrus.StandardLogger())
}

// NewWithLogger creates an application logging through the given logger.
func NewWithLogger(log *logrus.Logger) *Application {
	store := settings.NewStore()
	store.Disable(settings.TrustProxy)
	store.Enable(settings.CaseSensitiveRouting)
	store.Set(settings.JSONPCallbackName, "callback")
	return &Application{
		Settings: store,
		router:   router.New(store),
		log:      log,
	}
}

// Router exposes the root dispatcher, e.g. for mounting it on another
// router.
func (a *Application) Router() *router.Router { return a.router }

// Enable turns a boolean setting on.
func (a *Application) Enable(name string) { a.Settings.Enable(name) }

// Disable turns a boolean setting off.
func (a *Application) Disable(name string) { a.Settings.Disable(name) }

// Set assigns a setting value.
func (a *Application) Set(name string, value interface{}) { a.Settings.Set(name, value) }

// Use appends path-agnostic middleware to the root router.
func (a *Application) Use(handlers ...router.Handler) *Application {
	a.router.Use(handlers...)
	return a
}

// UseErrorHandler appends error-handling middleware to the root router.
func (a *Application) UseErrorHandler(handlers ...router.ErrorHandler) *Application {
	a.router.UseErrorHandler(handlers...)
	return a
}

// Mount registers handlers for a method and path.
func (a *Application) Mount(method, path string, handlers ...router.Handler) *Application {
	a.router.Mount(method, path, handlers...)
	return a
}

// All registers method-agnostic handlers for a path.
func (a *Application) All(path string, handlers ...router.Handler) *Application {
	a.router.All(path, handlers...)
	return a
}

// Get registers GET handlers for a path.
func (a *Application) Get(path string, handlers ...router.Handler) *Application {
	a.router.Get(path, handlers...)
	return a
}

// Post registers POST handlers for a path.
func (a *Application) Post(path string, handlers ...router.Handler) *Application {
	a.router.Post(path, handlers...)
	return a
}

// Put registers PUT handlers for a path.
func (a *Application) Put(path string, handlers ...router.Handler) *Application {
	a.router.Put(path, handlers...)
	return a
}

// Delete registers DELETE handlers for a path.
func (a *Application) Delete(path string, handlers ...router.Handler) *Application {
	a.router.Delete(path, handlers...)
	return a
}

// Patch registers PATCH handlers for a path.
func (a *Application) Patch(path string, handlers ...router.Handler) *Application {
	a.router.Patch(path, handlers...)
	return a
}

// Options registers OPTIONS handlers for a path.
func (a *Application) Options(path string, handlers ...router.Handler) *Application {
	a.router.Options(path, handlers...)
	return a
}

// Head registers HEAD handlers for a path.
func (a *Application) Head(path string, handlers ...router.Handler) *Application {
	a.router.Head(path, handlers...)
	return a
}

// AddSubRouter mounts a nested router at a path prefix.
func (a *Application) AddSubRouter(path string, sub *router.Router) *Application {
	a.router.AddSubRouter(path, sub)
	return a
}

// Route returns a chainable builder bound to one path on the root router.
func (a *Application) Route(path string) *router.Route {
	return a.router.Route(path)
}

type runResult struct {
	payload interface{}
	err     error
}

// Run translates one raw invocation payload, dispatches it, and resolves
// with the serialized response for the originating event source. The
// platform callback fires exactly once per invocation: if the chain list is
// exhausted, a last-resort 500 (error in flight) or 404 (none) is
// serialized.
func (a *Application) Run(ctx context.Context, raw []byte) (interface{}, error) {
	ev, err := lambda.ParseEvent(raw)
	if err != nil {
		a.log.WithField("error", err.Error()).Error("Rejected invocation payload")
		return nil, err
	}

	entry := a.log.WithFields(logrus.Fields{
		"request_id": uuid.New().String(),
		"method":     ev.Method,
		"path":       ev.Path,
		"source":     ev.Source.String(),
	})

	req := lambda.NewRequest(ev, entry)
	results := make(chan runResult, 1)
	res := lambda.NewResponse(ev.Source, func(payload interface{}, err error) {
		results <- runResult{payload: payload, err: err}
	})

	a.router.Dispatch(nil, req, res, func(err error) {
		a.finalize(err, req, res)
	})

	select {
	case r := <-results:
		return r.payload, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// finalize is the fixed last-resort behavior after chain exhaustion.
func (a *Application) finalize(err error, req *lambda.Request, res *lambda.Response) {
	if res.HeadersSent() {
		return
	}
	if err != nil {
		req.Log.WithField("error", err.Error()).Error("Unhandled error")
		res.Error(http.StatusInternalServerError, "internal server error")
		return
	}
	req.Log.Warn("No route matched")
	res.Error(http.StatusNotFound, "not found")
}

// Handler adapts Run to the aws-lambda-go handler signature.
func (a *Application) Handler() func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	return func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		return a.Run(ctx, raw)
	}
}
