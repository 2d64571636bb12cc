package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := Default()
	if cfg.BackendTimeout != def.BackendTimeout {
		t.Errorf("expected default timeout, got %v", cfg.BackendTimeout)
	}
	if cfg.MonitorInterval != def.MonitorInterval {
		t.Errorf("expected default interval, got %v", cfg.MonitorInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database_path: /tmp/test.db\nbackend_timeout: 2s\nmonitor_interval: 30s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("got %q", cfg.DatabasePath)
	}
	if cfg.BackendTimeout != 2*time.Second {
		t.Errorf("got %v", cfg.BackendTimeout)
	}
	if cfg.MonitorInterval != 30*time.Second {
		t.Errorf("got %v", cfg.MonitorInterval)
	}
	// Unset fields keep defaults.
	if cfg.AuditLogPath != Default().AuditLogPath {
		t.Errorf("got %q", cfg.AuditLogPath)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend_timeout: -1s\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendTimeout != Default().BackendTimeout {
		t.Errorf("non-positive timeout must fall back to default, got %v", cfg.BackendTimeout)
	}
}

func TestLoadWithHashChangesOnEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend_timeout: 2s\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, h1, err := LoadWithHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == "" {
		t.Fatal("expected non-empty hash for existing file")
	}

	if err := os.WriteFile(path, []byte("backend_timeout: 3s\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, h2, err := LoadWithHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("expected hash to change when file changes")
	}
}
