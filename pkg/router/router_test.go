package router

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/settings"
)

func newTestRequest(t *testing.T, method, path string) *lambda.Request {
	t.Helper()
	raw := fmt.Sprintf(`{"httpMethod":%q,"path":%q,"multiValueHeaders":{}}`, method, path)
	ev, err := lambda.ParseEvent([]byte(raw))
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return lambda.NewRequest(ev, logrus.NewEntry(log))
}

func newTestResponse() *lambda.Response {
	return lambda.NewResponse(lambda.SourceAPIGateway, func(interface{}, error) {})
}

// record returns a handler that appends a marker and continues.
func record(trace *[]string, marker string) Handler {
	return func(req *lambda.Request, res *lambda.Response, next Next) {
		*trace = append(*trace, marker)
		next(nil)
	}
}

// TestDispatchRegistrationOrder tests that chains match in registration
// order and an earlier route wins over a later more specific one
func TestDispatchRegistrationOrder(t *testing.T) {
	var trace []string
	r := New(nil)
	r.Use(record(&trace, "mw"))
	r.Get("/:id", record(&trace, "param"))
	r.Get("/hello", record(&trace, "literal"))

	var finalErr error
	r.Dispatch(nil, newTestRequest(t, "GET", "/hello"), newTestResponse(), func(err error) { finalErr = err })

	if finalErr != nil {
		t.Fatalf("Expected clean traversal, got %v", finalErr)
	}
	want := []string{"mw", "param", "literal"}
	if len(trace) != len(want) {
		t.Fatalf("Expected trace %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("Expected trace %v, got %v", want, trace)
		}
	}
}

// TestDispatchMethodPredicate tests method filtering and method-agnostic
// registration
func TestDispatchMethodPredicate(t *testing.T) {
	var trace []string
	r := New(nil)
	r.Post("/x", record(&trace, "post"))
	r.All("/x", record(&trace, "all"))
	r.Get("/x", record(&trace, "get"))

	r.Dispatch(nil, newTestRequest(t, "GET", "/x"), newTestResponse(), func(error) {})

	if len(trace) != 2 || trace[0] != "all" || trace[1] != "get" {
		t.Errorf("Expected [all get], got %v", trace)
	}
}

// TestDispatchParams tests that matched handlers see the derived sub-request
// with frozen params while later chains see the original request
func TestDispatchParams(t *testing.T) {
	r := New(nil)
	var seen string
	r.Get("/hello/:name", func(req *lambda.Request, res *lambda.Response, next Next) {
		seen = req.Params["name"]
		next(nil)
	})
	var after map[string]string
	r.Use(func(req *lambda.Request, res *lambda.Response, next Next) {
		after = req.Params
		next(nil)
	})

	req := newTestRequest(t, "GET", "/hello/world")
	r.Dispatch(nil, req, newTestResponse(), func(error) {})

	if seen != "world" {
		t.Errorf("Expected param 'world', got '%s'", seen)
	}
	if len(after) != 0 {
		t.Errorf("params must not leak past the matched chain, got %v", after)
	}
}

// TestDispatchErrorPipeline tests that a panicking handler feeds the error
// pipeline: non-error chains are skipped until an error handler runs, and an
// error handler continuing with nil resumes normal traversal
func TestDispatchErrorPipeline(t *testing.T) {
	var trace []string
	boom := errors.New("boom")

	r := New(nil)
	r.Get("/x", func(req *lambda.Request, res *lambda.Response, next Next) {
		trace = append(trace, "h1")
		panic(boom)
	})
	r.Get("/x", record(&trace, "skipped"))
	r.UseErrorHandler(func(err error, req *lambda.Request, res *lambda.Response, next Next) {
		trace = append(trace, "errh:"+err.Error())
		next(nil)
	})
	r.Get("/x", record(&trace, "resumed"))

	var finalErr error
	r.Dispatch(nil, newTestRequest(t, "GET", "/x"), newTestResponse(), func(err error) { finalErr = err })

	want := []string{"h1", "errh:boom", "resumed"}
	if len(trace) != len(want) {
		t.Fatalf("Expected trace %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("Expected trace %v, got %v", want, trace)
		}
	}
	if finalErr != nil {
		t.Errorf("error was handled, done should see nil, got %v", finalErr)
	}
}

// TestDispatchErrorPropagation tests that an unhandled error reaches done
// and that error handlers may forward it onward
func TestDispatchErrorPropagation(t *testing.T) {
	boom := errors.New("boom")
	r := New(nil)
	r.Get("/x", func(req *lambda.Request, res *lambda.Response, next Next) {
		next(boom)
	})
	r.UseErrorHandler(func(err error, req *lambda.Request, res *lambda.Response, next Next) {
		next(fmt.Errorf("wrapped: %w", err))
	})

	var finalErr error
	r.Dispatch(nil, newTestRequest(t, "GET", "/x"), newTestResponse(), func(err error) { finalErr = err })

	if !errors.Is(finalErr, boom) {
		t.Errorf("Expected wrapped boom at done, got %v", finalErr)
	}
}

// TestDispatchNonErrorPanic tests the generic error substituted for panic
// values that are not errors
func TestDispatchNonErrorPanic(t *testing.T) {
	r := New(nil)
	r.Get("/x", func(req *lambda.Request, res *lambda.Response, next Next) {
		panic("string failure")
	})

	var finalErr error
	r.Dispatch(nil, newTestRequest(t, "GET", "/x"), newTestResponse(), func(err error) { finalErr = err })

	if finalErr == nil {
		t.Fatal("Expected an error at done")
	}
}

// TestDispatchSkipRoute tests that the route sentinel ends the current
// route's handler list early without signaling failure, and the loop keeps
// matching later chains
func TestDispatchSkipRoute(t *testing.T) {
	var trace []string
	r := New(nil)
	r.Get("/x",
		record(&trace, "h1"),
		func(req *lambda.Request, res *lambda.Response, next Next) {
			trace = append(trace, "h2")
			next(SkipRoute)
		},
		record(&trace, "never"),
	)
	r.Get("/x", record(&trace, "next-chain"))

	var finalErr error
	r.Dispatch(nil, newTestRequest(t, "GET", "/x"), newTestResponse(), func(err error) { finalErr = err })

	want := []string{"h1", "h2", "next-chain"}
	if len(trace) != len(want) {
		t.Fatalf("Expected trace %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("Expected trace %v, got %v", want, trace)
		}
	}
	if finalErr != nil {
		t.Errorf("sentinel is not a failure, got %v", finalErr)
	}
}

// TestDispatchURLMutation tests that rewriting the url mid-flight finishes
// the current registration group first and then matches later chains
// against the new path
func TestDispatchURLMutation(t *testing.T) {
	var trace []string
	r := New(nil)
	r.Get("/hello",
		record(&trace, "h1"),
		func(req *lambda.Request, res *lambda.Response, next Next) {
			trace = append(trace, "h2")
			req.SetURL("/goodbye")
			next(nil)
		},
		record(&trace, "h3"),
	)
	r.Get("/hello", record(&trace, "old-path"))
	r.Get("/goodbye", record(&trace, "new-path"))

	r.Dispatch(nil, newTestRequest(t, "GET", "/hello"), newTestResponse(), func(error) {})

	want := []string{"h1", "h2", "h3", "new-path"}
	if len(trace) != len(want) {
		t.Fatalf("Expected trace %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("Expected trace %v, got %v", want, trace)
		}
	}
}

// TestDispatchDecodeFailure tests that a malformed path parameter enters the
// error pipeline instead of crashing the loop
func TestDispatchDecodeFailure(t *testing.T) {
	var handled error
	r := New(nil)
	r.Get("/hello/:name", func(req *lambda.Request, res *lambda.Response, next Next) {
		t.Error("route handler must not run on decode failure")
		next(nil)
	})
	r.UseErrorHandler(func(err error, req *lambda.Request, res *lambda.Response, next Next) {
		handled = err
		next(nil)
	})

	r.Dispatch(nil, newTestRequest(t, "GET", "/hello/bad%zz"), newTestResponse(), func(error) {})

	if handled == nil {
		t.Error("Expected decode error in the pipeline")
	}
}

// TestSubRouterNesting tests the nested-mount scenario: a sub-router mounted
// at /cars itself mounts one at /manufacturers, and /cars/manufacturers
// reaches the nested root handler because mounts are matched in
// registration order, before the /:id route
func TestSubRouterNesting(t *testing.T) {
	var trace []string

	inner := New(nil)
	inner.Get("/", func(req *lambda.Request, res *lambda.Response, next Next) {
		trace = append(trace, "manufacturers-root")
		trace = append(trace, "base:"+req.BaseURL())
		// ends the response without calling next, so the outer /:id route
		// never gets a turn
		res.Send("ok")
	})

	cars := New(nil)
	cars.AddSubRouter("/manufacturers", inner)
	cars.Get("/:id", func(req *lambda.Request, res *lambda.Response, next Next) {
		trace = append(trace, "car-by-id:"+req.Params["id"])
		next(nil)
	})

	root := New(nil)
	root.AddSubRouter("/cars", cars)

	r := newTestRequest(t, "GET", "/cars/manufacturers")
	root.Dispatch(nil, r, newTestResponse(), func(error) {})

	want := []string{"manufacturers-root", "base:/cars/manufacturers"}
	if len(trace) != len(want) || trace[0] != want[0] || trace[1] != want[1] {
		t.Fatalf("Expected %v, got %v", want, trace)
	}
}

// TestSubRouterDepthFirst tests that a nested router fully resolves before
// the parent continues past the mount
func TestSubRouterDepthFirst(t *testing.T) {
	var trace []string

	sub := New(nil)
	sub.Get("/a", record(&trace, "sub"))

	r := New(nil)
	r.AddSubRouter("/nested", sub)
	r.Use(record(&trace, "parent-after"))

	r.Dispatch(nil, newTestRequest(t, "GET", "/nested/a"), newTestResponse(), func(error) {})

	if len(trace) != 2 || trace[0] != "sub" || trace[1] != "parent-after" {
		t.Errorf("Expected [sub parent-after], got %v", trace)
	}
}

// TestCaseSensitivityFixedAtRegistration tests that toggling the setting
// affects only routes registered after the toggle
func TestCaseSensitivityFixedAtRegistration(t *testing.T) {
	store := settings.NewStore()
	store.Enable(settings.CaseSensitiveRouting)

	var trace []string
	r := New(store)
	r.Get("/Foo", record(&trace, "strict"))

	store.Disable(settings.CaseSensitiveRouting)
	r.Get("/Bar", record(&trace, "loose"))

	// /foo must not reach the strictly registered route, even now
	r.Dispatch(nil, newTestRequest(t, "GET", "/foo"), newTestResponse(), func(error) {})
	if len(trace) != 0 {
		t.Fatalf("Expected no match for /foo, got %v", trace)
	}

	// the route registered after the toggle matches both casings
	r.Dispatch(nil, newTestRequest(t, "GET", "/bar"), newTestResponse(), func(error) {})
	r.Dispatch(nil, newTestRequest(t, "GET", "/Bar"), newTestResponse(), func(error) {})
	if len(trace) != 2 || trace[0] != "loose" || trace[1] != "loose" {
		t.Errorf("Expected two loose matches, got %v", trace)
	}
}

// TestDispatchAsyncHandler tests a handler that calls next from another
// goroutine: the loop attaches continuations and yields rather than polling
func TestDispatchAsyncHandler(t *testing.T) {
	var trace []string
	done := make(chan error, 1)

	r := New(nil)
	r.Get("/x", func(req *lambda.Request, res *lambda.Response, next Next) {
		trace = append(trace, "async-start")
		go func() {
			time.Sleep(5 * time.Millisecond)
			next(nil)
		}()
	})
	r.Get("/x", record(&trace, "after-async"))

	r.Dispatch(nil, newTestRequest(t, "GET", "/x"), newTestResponse(), func(err error) { done <- err })

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean traversal, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatch did not resume after asynchronous next")
	}
	if len(trace) != 2 || trace[1] != "after-async" {
		t.Errorf("Expected [async-start after-async], got %v", trace)
	}
}

// TestRouteBuilder tests the chainable single-path builder
func TestRouteBuilder(t *testing.T) {
	var trace []string
	r := New(nil)
	r.Route("/things").
		Get(record(&trace, "get")).
		Post(record(&trace, "post"))

	r.Dispatch(nil, newTestRequest(t, "POST", "/things"), newTestResponse(), func(error) {})

	if len(trace) != 1 || trace[0] != "post" {
		t.Errorf("Expected [post], got %v", trace)
	}
}

// TestSubRouterErrorPassthrough tests that an in-flight error travels into
// and out of a mounted router unchanged when nothing handles it
func TestSubRouterErrorPassthrough(t *testing.T) {
	boom := errors.New("boom")

	sub := New(nil)
	sub.Get("/a", func(req *lambda.Request, res *lambda.Response, next Next) {
		t.Error("non-error handler must not run with an error in flight")
		next(nil)
	})

	r := New(nil)
	r.Get("/nested/a", func(req *lambda.Request, res *lambda.Response, next Next) {
		next(boom)
	})
	r.AddSubRouter("/nested", sub)

	var finalErr error
	r.Dispatch(nil, newTestRequest(t, "GET", "/nested/a"), newTestResponse(), func(err error) { finalErr = err })

	if !errors.Is(finalErr, boom) {
		t.Errorf("Expected boom to pass through untouched, got %v", finalErr)
	}
}
