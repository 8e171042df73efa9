package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(nil), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected addr %s", cfg.Server.Addr())
	}
	if cfg.Environment != "local" || cfg.IsProduction() {
		t.Errorf("expected local environment, got %s", cfg.Environment)
	}
	if cfg.Catalog.APIURL != "" {
		t.Errorf("expected fixture mode by default, got %s", cfg.Catalog.APIURL)
	}
	if cfg.Catalog.Timeout != 8*time.Second {
		t.Errorf("unexpected api timeout: %s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.RetryAttempts != 3 {
		t.Errorf("unexpected retry attempts: %d", cfg.Catalog.RetryAttempts)
	}
	if cfg.Web.TemplatesDir != "templates" || cfg.Web.PublicDir != "public" {
		t.Errorf("unexpected web dirs: %+v", cfg.Web)
	}
	if cfg.Stage.TTL != 30*time.Minute || cfg.Stage.MaxStages != 10000 {
		t.Errorf("unexpected stage config: %+v", cfg.Stage)
	}
	if cfg.Session.SecureCookie {
		t.Errorf("cookies must not be secure outside prod")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":                        "7000",
		"CATALOG_PORT":                "9090",
		"CATALOG_ENV":                 "PROD",
		"CATALOG_LOG_LEVEL":           "DEBUG",
		"CATALOG_API_URL":             "https://web-production-879c6.up.railway.app/products",
		"CATALOG_API_TIMEOUT":         "3s",
		"CATALOG_API_RETRY_ATTEMPTS":  "5",
		"CATALOG_API_RETRY_DELAY":     "50ms",
		"CATALOG_TEMPLATES_DIR":       "/srv/templates",
		"CATALOG_INTRO_FILE":          "/srv/content/intro.md",
		"CATALOG_DEV":                 "true",
		"CATALOG_SESSION_SIGNING_KEY": "0123456789abcdef0123",
		"CATALOG_STAGE_TTL":           "10m",
		"CATALOG_STAGE_MAX":           "50",
	}
	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected CATALOG_PORT to win, got %s", cfg.Server.Port)
	}
	if !cfg.IsProduction() || !cfg.Session.SecureCookie {
		t.Errorf("expected prod with secure cookies")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("unexpected log level %s", cfg.LogLevel)
	}
	if cfg.Catalog.Timeout != 3*time.Second || cfg.Catalog.RetryAttempts != 5 || cfg.Catalog.RetryDelay != 50*time.Millisecond {
		t.Errorf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if !cfg.Web.DevMode || cfg.Web.IntroFile != "/srv/content/intro.md" {
		t.Errorf("unexpected web config: %+v", cfg.Web)
	}
	if cfg.Stage.TTL != 10*time.Minute || cfg.Stage.MaxStages != 50 {
		t.Errorf("unexpected stage config: %+v", cfg.Stage)
	}
}

func TestLoadFallsBackToPlatformPort(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{"PORT": "7000"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
}

func TestLoadReportsInvalidFields(t *testing.T) {
	env := map[string]string{
		"CATALOG_ENV":                "prod",
		"CATALOG_PORT":               "http",
		"CATALOG_API_URL":            "ftp://catalog",
		"CATALOG_API_TIMEOUT":        "soon",
		"CATALOG_API_RETRY_ATTEMPTS": "0",
		"CATALOG_DEV":                "maybe",
	}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		"CATALOG_API_RETRY_ATTEMPTS",
		"CATALOG_API_TIMEOUT",
		"CATALOG_API_URL",
		"CATALOG_DEV",
		"CATALOG_PORT",
		"CATALOG_SESSION_SIGNING_KEY",
	}
	got := vErr.Fields()
	if len(got) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CATALOG_API_URL=http://localhost:5000/products\nCATALOG_STAGE_MAX=12\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(),
		WithEnvFile(path),
		WithEnvMap(map[string]string{"CATALOG_STAGE_MAX": "99"}),
		WithoutSystemEnv(),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.APIURL != "http://localhost:5000/products" {
		t.Errorf("expected api url from env file, got %s", cfg.Catalog.APIURL)
	}
	if cfg.Stage.MaxStages != 99 {
		t.Errorf("expected env map to override env file, got %d", cfg.Stage.MaxStages)
	}
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}
