// Package api wires the sample API served by both entrypoints.
package api

import (
	"net/http"

	"golang.org/x/time/rate"

	"lambda-api-router/internal/config"
	"lambda-api-router/pkg/app"
	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/middleware"
	"lambda-api-router/pkg/router"
)

// CreateGreeting is the request body for POST /greetings.
type CreateGreeting struct {
	Name    string `json:"name" validate:"required"`
	Message string `json:"message" validate:"required,min=1,max=280"`
}

// NewApplication builds the application with global middleware, routes and
// sub-routers registered.
func NewApplication(cfg *config.Config) *app.Application {
	a := app.New()
	cfg.Apply(a.Settings)

	a.Use(middleware.RequestID())
	a.Use(middleware.RequestLogger())
	a.Use(middleware.CORS())
	a.Use(middleware.RateLimit(rate.Limit(50), 100))

	a.Get("/health", func(req *lambda.Request, res *lambda.Response, next router.Next) {
		res.JSON(map[string]string{
			"status":  "healthy",
			"service": "lambda-api-router",
			"stage":   cfg.Stage,
		})
	})

	a.Get("/hello/:name", func(req *lambda.Request, res *lambda.Response, next router.Next) {
		res.JSON(map[string]string{"hello": req.Params["name"]})
	})

	a.Post("/greetings",
		middleware.ValidateJSON(func() interface{} { return &CreateGreeting{} }),
		func(req *lambda.Request, res *lambda.Response, next router.Next) {
			greeting := req.Body.(*CreateGreeting)
			res.Status(http.StatusCreated)
			res.JSON(map[string]string{"greeted": greeting.Name, "message": greeting.Message})
		},
	)

	// Nested mounts: /cars/manufacturers resolves before /cars/:id because
	// the mount is registered first.
	manufacturers := router.New(a.Settings)
	manufacturers.Get("/", func(req *lambda.Request, res *lambda.Response, next router.Next) {
		res.JSON([]string{"volvo", "saab", "koenigsegg"})
	})

	cars := router.New(a.Settings)
	cars.AddSubRouter("/manufacturers", manufacturers)
	cars.Get("/:id", func(req *lambda.Request, res *lambda.Response, next router.Next) {
		res.JSON(map[string]string{"car": req.Params["id"]})
	})
	a.AddSubRouter("/cars", cars)

	a.UseErrorHandler(func(err error, req *lambda.Request, res *lambda.Response, next router.Next) {
		if res.HeadersSent() {
			next(err)
			return
		}
		req.Log.WithField("error", err.Error()).Error("Request failed")
		res.Error(http.StatusInternalServerError, "internal server error")
	})

	return a
}
