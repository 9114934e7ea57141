package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvFile is loaded into the process environment when present.
// Variables already set in the environment win.
var dotenvFile = ".env"

// parseEnv overlays ACCOUNTS_* environment variables. Unset variables
// leave the current values untouched. A malformed value panics, as the
// other loaders do.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
