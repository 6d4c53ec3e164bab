package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"turntable/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("TURNTABLE_BOT_TOKEN", "test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "turntable")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Telegram.Token != "test-token" {
		t.Fatalf("expected token from env, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.APIBaseURL != "https://api.telegram.org" {
		t.Fatalf("unexpected api base url: %q", cfg.Telegram.APIBaseURL)
	}
	if cfg.Resolver.TimeoutSeconds != 5 {
		t.Fatalf("unexpected resolver timeout: %d", cfg.Resolver.TimeoutSeconds)
	}
	if cfg.Queue.InspectLimit != 10 {
		t.Fatalf("unexpected inspect limit: %d", cfg.Queue.InspectLimit)
	}
	if cfg.SnapshotPath() != filepath.Join(wantData, "queues.json") {
		t.Fatalf("unexpected snapshot path: %q", cfg.SnapshotPath())
	}
}

func TestLoadMissingTokenFails(t *testing.T) {
	t.Setenv("TURNTABLE_BOT_TOKEN", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when token missing")
	}
	if !strings.Contains(err.Error(), "telegram.token") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[telegram]",
		`token = " abc:123 "`,
		`api_base_url = "https://example.test/bot/"`,
		"",
		"[resolver]",
		"timeout_seconds = 0",
		"",
		"[logging]",
		`level = "DEBUG"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Telegram.Token != "abc:123" {
		t.Fatalf("expected trimmed token, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.APIBaseURL != "https://example.test/bot" {
		t.Fatalf("expected trailing slash stripped, got %q", cfg.Telegram.APIBaseURL)
	}
	if cfg.Resolver.TimeoutSeconds != 5 {
		t.Fatalf("expected default resolver timeout, got %d", cfg.Resolver.TimeoutSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased level, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadLogging(t *testing.T) {
	cfg := config.Default()
	cfg.Telegram.Token = "abc"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[telegram]") {
		t.Fatal("sample config missing telegram section")
	}

	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
