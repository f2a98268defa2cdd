// Package config loads the webhook configuration from a YAML file and the
// environment.
//
// The file is optional. Secrets such as the directions API key are normally
// supplied through the environment, which overrides anything in the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given
const DefaultPath = "config.yml"

const (
	defaultPort          = 8080
	defaultWebhookPath   = "/api/dialogflow/webhook"
	defaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"
	defaultTimeoutMS     = 5000
)

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gt=0,lte=65535"`
	WebhookPath    string   `yaml:"webhookPath" validate:"required,startswith=/"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DirectionsConfig contains the directions provider endpoint and credential
type DirectionsConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	APIKey    string `yaml:"apiKey" validate:"required"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server     ServerConfig     `yaml:"server" validate:"required"`
	Directions DirectionsConfig `yaml:"directions" validate:"required"`
}

// Load reads path (if it exists), applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg AppConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults and environment only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.WebhookPath == "" {
		cfg.Server.WebhookPath = defaultWebhookPath
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Directions.BaseURL == "" {
		cfg.Directions.BaseURL = defaultDirectionsURL
	}
	if cfg.Directions.TimeoutMS == 0 {
		cfg.Directions.TimeoutMS = defaultTimeoutMS
	}
}

func applyEnv(cfg *AppConfig) {
	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	cfg.Directions.BaseURL = getEnvWithDefault("DIRECTIONS_BASE_URL", cfg.Directions.BaseURL)

	// the front-end build exposes the same key under its public name
	key := getEnvWithDefault("NEXT_PUBLIC_GOOGLE_MAPS_API_KEY", cfg.Directions.APIKey)
	cfg.Directions.APIKey = getEnvWithDefault("GOOGLE_MAPS_API_KEY", key)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Addr returns the listen address for the configured port
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
