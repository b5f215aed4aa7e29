// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Generator backends.
const (
	GeneratorTemplate = "template"
	GeneratorGemini   = "gemini"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the session store backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// Generator selects the synthesis text backend: template or gemini.
	Generator string `koanf:"generator"`

	// GeminiAPIKey authenticates the Gemini backend when Generator is gemini.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel overrides the default Gemini model name.
	GeminiModel string `koanf:"gemini_model"`

	// GenerationTimeoutMS bounds a single generative backend call.
	GenerationTimeoutMS int `koanf:"generation_timeout_ms"`

	// SessionLockCapacity bounds the per-session lock registry.
	SessionLockCapacity int `koanf:"session_lock_capacity"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Store:               StoreMemory,
		SQLitePath:          "calibra.db",
		Generator:           GeneratorTemplate,
		GeminiModel:         "gemini-2.5-pro",
		GenerationTimeoutMS: 20_000,
		SessionLockCapacity: 50_000,
	}
	return c
}
