// Package testsupport provides helpers shared by tests across packages:
// ready-made configurations rooted in temp directories, media file fixtures,
// stubbed external binaries, and ledger stores.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"soundrip/internal/config"
	"soundrip/internal/ledger"
)

// Option mutates a test configuration before it is returned.
type Option func(*config.Config)

// WithInputExtensions replaces the accepted input extensions.
func WithInputExtensions(exts ...string) Option {
	return func(cfg *config.Config) {
		cfg.Convert.InputExtensions = exts
	}
}

// WithNtfyTopic points notifications at the given endpoint.
func WithNtfyTopic(endpoint string) Option {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = endpoint
	}
}

// WithFileTimeout sets the per-file conversion timeout in seconds.
func WithFileTimeout(seconds int) Option {
	return func(cfg *config.Config) {
		cfg.Convert.FileTimeout = seconds
	}
}

// NewConfig returns a configuration rooted in temp directories that are
// cleaned up with the test.
func NewConfig(t *testing.T, opts ...Option) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WriteFile creates a fixture file and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// StubBinary writes an executable shell script named name into dir and
// prepends dir to PATH for the remainder of the test.
func StubBinary(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return path
}

// MustOpenLedger opens a fresh in-memory ledger tied to the test lifetime.
func MustOpenLedger(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(context.Background())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
