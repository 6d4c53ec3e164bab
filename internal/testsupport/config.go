// Package testsupport provides builders for configs and seeded state used
// across package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"turntable/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Telegram.Token = "test-token"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Resolver.TimeoutSeconds = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBotAPI points the Telegram client at a test server.
func WithBotAPI(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Telegram.APIBaseURL = baseURL
		cfg.Telegram.PollTimeoutSeconds = 1
	}
}

// WithToken overrides the bot token on the test config.
func WithToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Telegram.Token = token
	}
}

// WriteCorruptSnapshot places unparseable data at the config's snapshot path.
func WriteCorruptSnapshot(t testing.TB, cfg *config.Config) {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	if err := os.WriteFile(cfg.SnapshotPath(), []byte("{corrupt"), 0o644); err != nil {
		t.Fatalf("write corrupt snapshot: %v", err)
	}
}
