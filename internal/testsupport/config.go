package testsupport

import (
	"path/filepath"
	"testing"

	"putmig/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Putio.Token = "test-token"
	cfg.Destination.BasePath = base
	cfg.State.FilePath = filepath.Join(base, "migration_state.json")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithFilters overrides the filter section on the test config.
func WithFilters(filters config.Filters) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Filters = filters
	}
}

// WithFallbackDisabled turns off the HTTP fallback downloader.
func WithFallbackDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Advanced.UseFallbackDownloader = false
	}
}
