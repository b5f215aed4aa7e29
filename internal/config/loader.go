package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if CALIBRA_CONFIG is set
//  3. env (prefix CALIBRA_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("CALIBRA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CALIBRA_ADDR, CALIBRA_STORE, ...
	// Map env keys like CALIBRA_SQLITE_PATH -> sqlite_path (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("CALIBRA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "calibra_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	default:
		return nil, fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, cfg.Store)
	}
	switch cfg.Generator {
	case GeneratorTemplate:
	case GeneratorGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: gemini generator requires gemini_api_key", ErrInvalidConfig)
		}
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, cfg.Generator)
	}
	if cfg.Store == StoreSQLite && cfg.SQLitePath == "" {
		return nil, fmt.Errorf("%w: sqlite store requires sqlite_path", ErrInvalidConfig)
	}
	return &cfg, nil
}
