package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Elements.TTL() != time.Hour {
		t.Errorf("ttl = %v, want 1h", cfg.Elements.TTL())
	}
	if cfg.Stream.Interval() != 2*time.Second {
		t.Errorf("interval = %v, want 2s", cfg.Stream.Interval())
	}
	past, future, step := cfg.Trail.Window()
	if past != 30*time.Minute || future != 30*time.Minute || step != 30*time.Second {
		t.Errorf("trail window = %v/%v/%v", past, future, step)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: ":9090"
elements:
  ttl_seconds: 600
stream:
  interval_seconds: 5
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Elements.TTLSeconds != 600 {
		t.Errorf("ttl = %d", cfg.Elements.TTLSeconds)
	}
	if cfg.Stream.IntervalSeconds != 5 {
		t.Errorf("interval = %d", cfg.Stream.IntervalSeconds)
	}
	// Unset fields keep their defaults.
	if cfg.Elements.SourceURL == "" {
		t.Error("source url default lost")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ORBITCAST_ADDR", ":7070")
	t.Setenv("ORBITCAST_TTL_SECONDS", "120")
	t.Setenv("ORBITCAST_AUTH_TOKEN", "hunter2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Elements.TTLSeconds != 120 {
		t.Errorf("ttl = %d", cfg.Elements.TTLSeconds)
	}
	if cfg.Auth.Token != "hunter2" {
		t.Errorf("token = %q", cfg.Auth.Token)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("elements:\n  source_url: \"not a url\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("want validation error for bad source url")
	}

	t.Setenv("ORBITCAST_LOG_LEVEL", "loud")
	if _, err := Load(""); err == nil {
		t.Error("want validation error for bad log level")
	}
}
