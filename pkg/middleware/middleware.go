// Package middleware provides reusable handlers for the dispatch engine.
package middleware

import (
	"net/http"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/router"
)

// CORS handles Cross-Origin Resource Sharing headers and answers preflight
// requests directly.
func CORS() router.Handler {
	return func(req *lambda.Request, res *lambda.Response, next router.Next) {
		res.Set("Access-Control-Allow-Origin", "*")
		res.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		res.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		res.Set("Access-Control-Expose-Headers", "Content-Length")
		res.Set("Access-Control-Allow-Credentials", "true")

		if req.Method == http.MethodOptions {
			res.Status(http.StatusNoContent)
			res.End()
			return
		}

		next(nil)
	}
}
