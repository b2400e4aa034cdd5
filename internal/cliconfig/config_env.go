package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (KOKBOK_*). Env values override file config but lose to flags that
// were explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("KOKBOK_RECIPE_FILE"), &cfg.RecipeFile)
	s.setString("log-level", os.Getenv("KOKBOK_LOG_LEVEL"), &cfg.LogLevel)

	return s.setDuration("debounce", os.Getenv("KOKBOK_DEBOUNCE"), &cfg.Debounce)
}
