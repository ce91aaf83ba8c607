// Package config reads process settings for the sandbox from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Runtime holds the settings that are not part of a character prefab.
type Runtime struct {
	Prefab    string `env:"CHARFSM_PREFAB" envDefault:"character.yaml"`
	Arena     string `env:"CHARFSM_ARENA" envDefault:"arena.yaml"`
	PrefabDir string `env:"CHARFSM_PREFAB_DIR" envDefault:"prefabs"`
	HotReload bool   `env:"CHARFSM_HOT_RELOAD" envDefault:"true"`
	Debug     bool   `env:"CHARFSM_DEBUG"`
	// EvalInterval overrides the prefab's interval when positive.
	EvalInterval time.Duration `env:"CHARFSM_EVAL_INTERVAL"`
	Scale        int           `env:"CHARFSM_SCALE" envDefault:"2"`
	OTLPEndpoint string        `env:"CHARFSM_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv reads .env files into the environment without overriding
// variables that are already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Load returns the runtime settings from the environment.
func Load() (Runtime, error) {
	var cfg Runtime
	if err := ParseEnv(&cfg); err != nil {
		return Runtime{}, err
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return cfg, nil
}
