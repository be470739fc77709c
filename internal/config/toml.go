// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Physics PhysicsConfig `toml:"physics"`
	Display DisplayConfig `toml:"display"`
}

// PhysicsConfig maps simulation tuning.
type PhysicsConfig struct {
	Gravity     *float64 `toml:"gravity"`
	Drag        *float64 `toml:"drag"`
	ShotPower   *float64 `toml:"shot-power"`
	TurnRate    *float64 `toml:"turn-rate"`
	MeterRate   *float64 `toml:"meter-rate"`
	Bounce      *float64 `toml:"bounce"`
	TrailLength *float64 `toml:"trail-length"`
	Side        *string  `toml:"side"`
	Seed        *int64   `toml:"seed"`
}

// DisplayConfig maps frontend settings.
type DisplayConfig struct {
	FPS     *int     `toml:"fps"`
	MaxStep *float64 `toml:"max-step"`
	Color   *bool    `toml:"color"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key: %s", undecoded[0])
	}
	return cfg, nil
}
