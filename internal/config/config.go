// Package config loads entrypoint configuration from the environment and
// maps it onto the application's settings store.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"lambda-api-router/pkg/settings"
)

// Config holds all configuration for an entrypoint.
type Config struct {
	Stage    string
	LogLevel string
	Port     string

	TrustProxy           bool
	CaseSensitiveRouting bool
	JSONPCallbackName    string
}

// Load reads configuration from environment variables, with a .env file
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("STAGE", "dev")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("TRUST_PROXY", false)
	viper.SetDefault("CASE_SENSITIVE_ROUTING", true)
	viper.SetDefault("JSONP_CALLBACK_NAME", "callback")

	return &Config{
		Stage:                viper.GetString("STAGE"),
		LogLevel:             viper.GetString("LOG_LEVEL"),
		Port:                 viper.GetString("PORT"),
		TrustProxy:           viper.GetBool("TRUST_PROXY"),
		CaseSensitiveRouting: viper.GetBool("CASE_SENSITIVE_ROUTING"),
		JSONPCallbackName:    viper.GetString("JSONP_CALLBACK_NAME"),
	}, nil
}

// Apply copies the routing-relevant settings onto a store.
func (c *Config) Apply(store *settings.Store) {
	store.Set(settings.TrustProxy, c.TrustProxy)
	store.Set(settings.CaseSensitiveRouting, c.CaseSensitiveRouting)
	store.Set(settings.JSONPCallbackName, c.JSONPCallbackName)
}

// ConfigureLogger sets the global logrus level and format. Lambda gets JSON
// lines for CloudWatch; local runs keep the text formatter.
func (c *Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if IsRunningInLambda() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// IsRunningInLambda detects the Lambda execution environment.
func IsRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
