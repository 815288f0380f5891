package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingJWTKey is returned when no signing key is configured. Tokens
// must never be signed with a built-in default, so an unset key is fatal
// at startup.
var ErrMissingJWTKey = errors.New("JWT_KEY must be set")

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Billable"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"billable"`
	}

	JWT struct {
		Key      string        `envconfig:"JWT_KEY"`
		Issuer   string        `envconfig:"JWT_ISSUER" default:"billable"`
		Audience string        `envconfig:"JWT_AUDIENCE" default:"billable"`
		TTL      time.Duration `envconfig:"JWT_TTL" default:"1h"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.JWT.Key == "" {
		return nil, ErrMissingJWTKey
	}

	return &cfg, nil
}
