package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	var cfg AppConfig
	if err := cfg.Parse(""); err != nil {
		t.Fatalf("Parse(\"\") error = %v", err)
	}
	if cfg.General.Mode != "list" || cfg.General.Concurrency != 10 {
		t.Errorf("general defaults = %+v", cfg.General)
	}
	if cfg.Fetch.TimeoutSeconds != 30 || cfg.Fetch.Attempts != 3 {
		t.Errorf("fetch defaults = %+v", cfg.Fetch)
	}
	if cfg.Output.FinalPolicy != "PROXY" {
		t.Errorf("final-policy default = %q", cfg.Output.FinalPolicy)
	}
}

func TestParseFile(t *testing.T) {
	content := `[general]
source = /etc/acl4ssr.ini
output-dir = /tmp/out
mode = full
concurrency = 20

[fetch]
timeout-seconds = 10
attempts = 5
user-agent = custom/2.0

[output]
dedupe = true
final-policy = DIRECT
`
	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg AppConfig
	if err := cfg.Parse(path); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.General.Source != "/etc/acl4ssr.ini" || cfg.General.Mode != "full" || cfg.General.Concurrency != 20 {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Fetch.TimeoutSeconds != 10 || cfg.Fetch.Attempts != 5 || cfg.Fetch.UserAgent != "custom/2.0" {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if !cfg.Output.Dedupe || cfg.Output.FinalPolicy != "DIRECT" {
		t.Errorf("output = %+v", cfg.Output)
	}
	// Unset keys keep their defaults.
	if cfg.General.CacheDir != "cache" {
		t.Errorf("cache-dir = %q, want default", cfg.General.CacheDir)
	}
	if cfg.File != path {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestParseMissingFile(t *testing.T) {
	var cfg AppConfig
	if err := cfg.Parse(filepath.Join(t.TempDir(), "absent.ini")); err == nil {
		t.Error("Parse() of a named but missing file should error")
	}
}
