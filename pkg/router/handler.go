// Package router implements the dispatch engine: an ordered, composable list
// of predicate-guarded handler chains with Express-style continuation
// semantics over the canonical request/response model.
package router

import (
	"errors"
	"fmt"

	"lambda-api-router/pkg/lambda"
)

// Next is the continuation a handler calls to hand control back to the
// dispatch loop. A nil argument resumes normal traversal; a non-nil error
// enters the error pipeline; SkipRoute ends the current route's handler list
// early. Next may be called from any goroutine; the loop attaches
// continuations rather than polling.
type Next func(err error)

// Handler is a middleware or route handler. It never sees an in-flight
// error; the wrap boundary forwards errors past it untouched.
type Handler func(req *lambda.Request, res *lambda.Response, next Next)

// ErrorHandler only runs while an error is in flight. Calling next with nil
// resumes normal traversal; forwarding the error continues propagation.
type ErrorHandler func(err error, req *lambda.Request, res *lambda.Response, next Next)

// SkipRoute is the reserved sentinel passed to Next to end the current
// route's handler list without signaling failure.
var SkipRoute = errors.New("route")

// wrapped is the uniform four-argument shape every registered handler is
// normalized into.
type wrapped func(err error, req *lambda.Request, res *lambda.Response, next Next)

// wrapHandler normalizes a non-error handler. An incoming error is forwarded
// unchanged without running the handler.
func wrapHandler(h Handler) wrapped {
	return func(err error, req *lambda.Request, res *lambda.Response, next Next) {
		if err != nil {
			next(err)
			return
		}
		runRecovered(func() { h(req, res, next) }, req, next)
	}
}

// wrapErrorHandler normalizes an error handler. With no error in flight it
// forwards onward without running.
func wrapErrorHandler(h ErrorHandler) wrapped {
	return func(err error, req *lambda.Request, res *lambda.Response, next Next) {
		if err == nil {
			next(nil)
			return
		}
		runRecovered(func() { h(err, req, res, next) }, req, next)
	}
}

// runRecovered is the wrap boundary: a panicking handler is converted into
// an error on the continuation instead of unwinding the dispatch loop. Panic
// values that are not errors are wrapped in a generic one.
func runRecovered(fn func(), req *lambda.Request, next Next) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		err, ok := rec.(error)
		if !ok {
			err = fmt.Errorf("handler failure: %v", rec)
		}
		if req.Log != nil {
			req.Log.WithField("error", err.Error()).Error("Handler panic recovered")
		}
		next(err)
	}()
	fn()
}

func wrapHandlers(handlers []Handler) []wrapped {
	out := make([]wrapped, len(handlers))
	for i, h := range handlers {
		out[i] = wrapHandler(h)
	}
	return out
}

func wrapErrorHandlers(handlers []ErrorHandler) []wrapped {
	out := make([]wrapped, len(handlers))
	for i, h := range handlers {
		out[i] = wrapErrorHandler(h)
	}
	return out
}
