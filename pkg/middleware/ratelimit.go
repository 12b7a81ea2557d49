package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/router"
)

// RateLimit rejects requests beyond the configured rate with 429. One
// limiter is shared across all requests passing through the handler.
func RateLimit(limit rate.Limit, burst int) router.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(req *lambda.Request, res *lambda.Response, next router.Next) {
		if !limiter.Allow() {
			if req.Log != nil {
				req.Log.WithField("path", req.Path()).Warn("Rate limit exceeded")
			}
			res.Status(http.StatusTooManyRequests)
			res.JSON(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next(nil)
	}
}
