package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the daemon configuration, populated from GOVERND_* environment
// variables.
type Config struct {
	ListenAddress string   `envconfig:"LISTEN_ADDRESS" default:":8420"`
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`
	Admins        []string `envconfig:"ADMINS"`
	MinTrustScore int64    `envconfig:"MIN_TRUST_SCORE" default:"0"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("governd", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
