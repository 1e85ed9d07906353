package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName      string `envconfig:"APP_NAME" default:"weather-api"`
	AppVersion   string `envconfig:"APP_VERSION" default:"1.0.0"`
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
	Host         string `envconfig:"HOST" default:"127.0.0.1"`
	Port         string `envconfig:"PORT" default:"5000"`
	CORSOrigins  string `envconfig:"CORS_ORIGINS" default:"*"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"weather.db"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`

	Providers ProvidersConfig `yaml:"providers"`
}

// ProvidersConfig holds the outbound endpoints. Base URLs are overridable so
// tests can point the clients at local doubles.
type ProvidersConfig struct {
	GeocodingBaseURL string `yaml:"geocoding_base_url" envconfig:"GEOCODING_BASE_URL"`
	ForecastBaseURL  string `yaml:"forecast_base_url" envconfig:"FORECAST_BASE_URL"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" envconfig:"PROVIDER_TIMEOUT_SECONDS"`
}

func NewConfig() *Config {
	var cnf Config

	// Read from YAML file first
	if yamlData, err := os.ReadFile("config/config.yaml"); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			panic(fmt.Sprintf("failed to parse YAML config: %v", err))
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", &cnf); err != nil {
		panic(fmt.Errorf("error environment variable parsing: %w", err))
	}

	if cnf.Providers.GeocodingBaseURL == "" {
		cnf.Providers.GeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if cnf.Providers.ForecastBaseURL == "" {
		cnf.Providers.ForecastBaseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cnf.Providers.TimeoutSeconds <= 0 {
		cnf.Providers.TimeoutSeconds = 20
	}

	return &cnf
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
