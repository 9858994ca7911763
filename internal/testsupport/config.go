// Package testsupport provides shared fixtures for uttale tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"uttale/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RootDir = filepath.Join(base, "media")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Reindex.ProgressIntervalMS = 10

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers pins the reindex worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Reindex.Workers = workers
	}
}

// WithAudioExtensions overrides the audio resolution priority list.
func WithAudioExtensions(exts ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Audio.Extensions = exts
	}
}
