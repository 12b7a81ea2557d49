package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/router"
)

// RequestID ensures every request carries a unique ID, honoring an incoming
// X-Request-ID header, and echoes it back on the response.
func RequestID() router.Handler {
	return func(req *lambda.Request, res *lambda.Response, next router.Next) {
		requestID := req.Header("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		res.Set("X-Request-ID", requestID)
		if req.Log != nil {
			req.Log = req.Log.WithField("request_id", requestID)
		}
		next(nil)
	}
}

// RequestLogger emits one structured log line per request once the response
// is written, with latency and status.
func RequestLogger() router.Handler {
	return func(req *lambda.Request, res *lambda.Response, next router.Next) {
		start := time.Now()

		res.OnAfterWrite(func(r *lambda.Response) {
			if req.Log == nil {
				return
			}
			fields := logrus.Fields{
				"method":      req.Method,
				"path":        req.Path(),
				"status_code": r.StatusCode,
				"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1e6,
			}
			switch {
			case r.StatusCode >= 500:
				req.Log.WithFields(fields).Error("Server error")
			case r.StatusCode >= 400:
				req.Log.WithFields(fields).Warn("Client error")
			default:
				req.Log.WithFields(fields).Info("Request completed")
			}
		})

		next(nil)
	}
}
