package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadAppConfigDefaults checks that a missing config file yields
// the documented defaults.
func TestLoadAppConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := LoadAppConfig(); err != nil {
		t.Fatalf("expected defaults for a missing config file, got error: %v", err)
	}

	if Config.Registry.MaxAgeDays != 30 {
		t.Errorf("expected registry maxAgeDays 30, got %d", Config.Registry.MaxAgeDays)
	}
	if Config.Registry.Attempts != 3 {
		t.Errorf("expected 3 download attempts, got %d", Config.Registry.Attempts)
	}
	if Config.Registry.CacheDir == "" {
		t.Error("expected a non-empty default cache dir")
	}
	if Config.Batch.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", Config.Batch.Workers)
	}
	if Config.Batch.FileSizeLimitMB != 2000 {
		t.Errorf("expected file size limit 2000 MB, got %d", Config.Batch.FileSizeLimitMB)
	}
	if Config.Output.Path != "gtfs.zip" {
		t.Errorf("expected default output gtfs.zip, got %q", Config.Output.Path)
	}
	if Config.Output.DatabasePath != "gtfs.db" {
		t.Errorf("expected staging database next to the output, got %q", Config.Output.DatabasePath)
	}
	if Config.Converter.BoardingTimeSeconds != 0 {
		t.Errorf("expected zero boarding time, got %d", Config.Converter.BoardingTimeSeconds)
	}

	t.Logf("✓ Defaults applied: workers=%d cacheDir=%s", Config.Batch.Workers, Config.Registry.CacheDir)
}

// TestLoadAppConfigFromFile checks that config.yml values are read and
// that derived defaults follow them.
func TestLoadAppConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgYAML := `registry:
  cacheDir: /tmp/reg-cache
  maxAgeDays: 7
converter:
  boardingTimeSeconds: 30
batch:
  workers: 4
output:
  path: out/feed.zip
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if err := LoadAppConfig(); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if Config.Registry.CacheDir != "/tmp/reg-cache" {
		t.Errorf("expected cacheDir from file, got %q", Config.Registry.CacheDir)
	}
	if Config.Registry.MaxAgeDays != 7 {
		t.Errorf("expected maxAgeDays 7, got %d", Config.Registry.MaxAgeDays)
	}
	if Config.Converter.BoardingTimeSeconds != 30 {
		t.Errorf("expected boarding time 30, got %d", Config.Converter.BoardingTimeSeconds)
	}
	if Config.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", Config.Batch.Workers)
	}
	if want := filepath.Join("out", "gtfs.db"); Config.Output.DatabasePath != want {
		t.Errorf("expected database at %q, got %q", want, Config.Output.DatabasePath)
	}

	t.Logf("✓ File values loaded, database derived at %s", Config.Output.DatabasePath)
}

// TestLoadAppConfigEnvOverrides checks that environment variables win
// over file values and suppress the derived defaults.
func TestLoadAppConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgYAML := `registry:
  cacheDir: /tmp/from-file
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("TXC_CACHE_DIR", "/var/cache/txc")
	t.Setenv("TXC_DATABASE_PATH", "/data/staging.db")
	t.Setenv("TXC_NAPTAN_URL", "https://mirror.example.com/naptan.csv")

	if err := LoadAppConfig(); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if Config.Registry.CacheDir != "/var/cache/txc" {
		t.Errorf("expected env cache dir, got %q", Config.Registry.CacheDir)
	}
	if Config.Output.DatabasePath != "/data/staging.db" {
		t.Errorf("expected env database path, got %q", Config.Output.DatabasePath)
	}
	if Config.Registry.URL != "https://mirror.example.com/naptan.csv" {
		t.Errorf("expected env registry URL, got %q", Config.Registry.URL)
	}

	t.Logf("✓ Environment overrides applied")
}

// TestLoadAppConfigRejectsInvalid checks that validation failures are
// surfaced instead of silently defaulted.
func TestLoadAppConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cfgYAML := `registry:
  url: not-a-url
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if err := LoadAppConfig(); err == nil {
		t.Fatal("expected a validation error for a malformed registry URL")
	}

	t.Logf("✓ Invalid config rejected")
}
