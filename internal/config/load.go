package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// replaces $(VAR) with the value of VAR, empty when unset
func expandEnvVars(s string, lookup LookupFunc) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		v, _ := lookup(key)
		return v
	})
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, os.LookupEnv)
}

// LoadOptional is Load, except that a missing file yields the defaults with
// environment overrides. An empty path means no file.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Parse(nil, os.LookupEnv)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(nil, os.LookupEnv)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, os.LookupEnv)
}

// Parse decodes YAML on top of the defaults, so keys absent from the
// document keep their default and explicit zeros are preserved.
func Parse(data []byte, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	expanded := expandEnvVars(string(data), lookup)
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
