package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML config file over a base config. Only keys present
// in the file override the base; absent keys keep their existing values, so
// flag defaults and file values compose.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI config
	if err != nil {
		return base, fmt.Errorf("server: read config: %w", err)
	}
	return ParseConfig(data, base)
}

// ParseConfig applies YAML data over a base config.
func ParseConfig(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("server: parse config: %w", err)
	}
	return cfg, nil
}
