package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"lambda-api-router/internal/api"
	"lambda-api-router/internal/config"
	"lambda-api-router/pkg/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogger()

	application := api.NewApplication(cfg)

	if cfg.Stage == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	// Every request goes through the same dispatcher the Lambda entrypoint
	// uses, translated to and from a gateway event.
	engine.NoRoute(proxyHandler(application))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}

// proxyHandler translates an HTTP request into an API Gateway proxy event,
// runs it through the application, and writes the serialized response back.
func proxyHandler(application *app.Application) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}

		event := events.APIGatewayProxyRequest{
			HTTPMethod:                      c.Request.Method,
			Path:                            c.Request.URL.Path,
			MultiValueHeaders:               c.Request.Header,
			MultiValueQueryStringParameters: c.Request.URL.Query(),
			Body:                            string(body),
		}
		raw, err := json.Marshal(event)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build event"})
			return
		}

		out, err := application.Run(c.Request.Context(), raw)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp, ok := out.(events.APIGatewayProxyResponse)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected response shape"})
			return
		}

		for name, values := range resp.MultiValueHeaders {
			for _, v := range values {
				c.Writer.Header().Add(name, v)
			}
		}
		c.Status(resp.StatusCode)
		c.Writer.WriteString(resp.Body)
	}
}
