package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "CARNET_"

// parseEnv overlays CARNET_* variables. Unset variables leave fields alone.
func parseEnv(config *Config, environ map[string]string) error {
	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}
