package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// unsetenv removes keys for the duration of the test; t.Setenv registers the restore.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadClientDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	unsetenv(t, "API_BASE_URL", "SUCCESS_BANNER_TTL")
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" || cfg.SuccessBannerTTL != 3*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadServerDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PORT", "STORAGE", "CORS_ALLOWED_ORIGINS", "AUTO_ABSENT_ON_CREATE", "DB_HOST", "DB_APPLY_SCHEMA"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Port != "8080" || cfg.Storage != StoragePostgres || cfg.AutoAbsent {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AllowedOrigins != nil {
		t.Fatalf("expected no origins, got %v", cfg.AllowedOrigins)
	}
	if !cfg.Database.ApplySchema || cfg.Database.Host != "localhost" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
}

func TestLoadServerFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "Memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("AUTO_ABSENT_ON_CREATE", "yes")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Storage != StorageMemory || !cfg.AutoAbsent || cfg.Database.MaxOpenConns != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadServerRejectsUnknownStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "sqlite")
	if _, err := LoadServer(); err == nil {
		t.Fatalf("expected error for unknown storage")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require"}
	want := "host=db port=5433 user=u password=p dbname=n sslmode=require"
	if got := d.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestLoadClientReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	unsetenv(t, "API_BASE_URL", "SUCCESS_BANNER_TTL")
	content := "API_BASE_URL=https://hr.example.com/api/\nSUCCESS_BANNER_TTL=1500ms\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIBaseURL != "https://hr.example.com/api" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.SuccessBannerTTL != 1500*time.Millisecond {
		t.Fatalf("unexpected banner ttl %v", cfg.SuccessBannerTTL)
	}
}
