// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store kinds
const (
	StoreFile    = "file"
	StoreProfile = "profile"
)

// Config holds settings shared by the commands. Command-line flags
// override these values.
type Config struct {
	Host      string `env:"HOST" envDefault:"127.0.0.1"`
	Port      string `env:"PORT" envDefault:"8080"`
	DBPath    string `env:"DB_PATH" envDefault:"./bistracker.db"`
	StateFile string `env:"STATE_FILE" envDefault:"gear_state.json"`
	BisFile   string `env:"BIS_FILE" envDefault:"bis.json"`
	Store     string `env:"STORE" envDefault:"file"`
	Profile   string `env:"PROFILE" envDefault:"bistracker"`
}

// Prefix is prepended to every variable name
const Prefix = "BISTRACKER_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the environment
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of choices
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreProfile:
		return nil
	}
	return fmt.Errorf("invalid store %q: want %q or %q", c.Store, StoreFile, StoreProfile)
}
