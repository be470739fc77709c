package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvConfigPath = "FLAGBALL_CONFIG"
	EnvSeed       = "FLAGBALL_SEED"
)

// LoadEnv loads variables from a .env file if it exists. Variables already
// set in the environment win.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ConfigPath returns FLAGBALL_CONFIG when set, otherwise the XDG default.
func ConfigPath() string {
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		return v
	}
	return DefaultConfigPath()
}

// SeedFromEnv parses FLAGBALL_SEED. ok is false when the variable is unset.
func SeedFromEnv() (seed int64, ok bool, err error) {
	v := strings.TrimSpace(os.Getenv(EnvSeed))
	if v == "" {
		return 0, false, nil
	}
	seed, err = strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s value: %w", EnvSeed, err)
	}
	return seed, true, nil
}
