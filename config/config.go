// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the CLI and TUI front ends.
// Empty database paths select the in-memory stores. A zero Seed picks a
// random one; RNGPosition resumes a seeded stream where /state left it.
type Config struct {
	ContentDir  string `env:"GRANDLINE_CONTENT_DIR"`
	PlayerDB    string `env:"GRANDLINE_PLAYER_DB"`
	SessionDB   string `env:"GRANDLINE_SESSION_DB"`
	Seed        int64  `env:"GRANDLINE_SEED" envDefault:"0"`
	RNGPosition int64  `env:"GRANDLINE_RNG_POSITION" envDefault:"0"`
	PlayerID    string `env:"GRANDLINE_PLAYER" envDefault:"local"`
	PlayerName  string `env:"GRANDLINE_PLAYER_NAME" envDefault:"Rookie"`
}

// Parse loads a Config from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
