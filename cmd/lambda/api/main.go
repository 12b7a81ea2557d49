package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"lambda-api-router/internal/api"
	"lambda-api-router/internal/config"
	"lambda-api-router/pkg/app"
)

var application *app.Application

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	cfg.ConfigureLogger()

	application = api.NewApplication(cfg)
}

func main() {
	awslambda.Start(application.Handler())
}
