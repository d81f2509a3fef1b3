package config

import "os"

// FromEnv applies environment overrides on top of a loaded config.
// Unset variables leave the config untouched.
func FromEnv(cfg *Config) *Config {
	if v := os.Getenv("TASKS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TASKS_DATA_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("TASKS_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	cfg.normalize()
	return cfg
}
