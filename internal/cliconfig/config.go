package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDebounce is the delay between a file-change event and the
// reload it triggers in watch mode.
const DefaultDebounce = 200 * time.Millisecond

// Config holds CLI configuration for kokbok.
type Config struct {
	// RecipeFile is the path to the recipe text file.
	RecipeFile string

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string

	// Debounce is the reload delay used by watch mode.
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values. The recipe file
// defaults to ~/.kokbok/recipes.txt when a home directory is available.
func DefaultConfig() Config {
	return Config{
		RecipeFile: defaultRecipeFile(),
		LogLevel:   "info",
		Debounce:   DefaultDebounce,
	}
}

func defaultRecipeFile() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".kokbok", "recipes.txt")
	}
	return "recipes.txt"
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.RecipeFile == "" {
		return fmt.Errorf("recipe file is required")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// configSetter applies configuration values while respecting flag
// precedence: a value is skipped when its flag was explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag
// not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
