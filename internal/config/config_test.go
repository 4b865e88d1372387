package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CMSADMIN_BASE_URL", "http://cms.internal:9000")
	t.Setenv("CMSADMIN_LOG_LEVEL", "debug")
	t.Setenv("CMSADMIN_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("CMSADMIN_SESSION_SECRET", "hunter2")
	t.Setenv("CMSADMIN_REQUEST_TIMEOUT_SECONDS", "25")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
baseURL: "http://localhost:8000"
stateDir: "/var/lib/cmsadmin"
logLevel: "info"
requestTimeoutSeconds: 10
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "http://cms.internal:9000" {
		t.Fatalf("baseURL = %q, want env override", cfg.BaseURL)
	}
	if cfg.StateDir != "/var/lib/cmsadmin" {
		t.Fatalf("stateDir = %q, want file value", cfg.StateDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("logLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RedisAddr != "redis.internal:6379" {
		t.Fatalf("redisAddr = %q", cfg.RedisAddr)
	}
	if cfg.SessionSecret != "hunter2" {
		t.Fatalf("sessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.RequestTimeoutSeconds != 25 {
		t.Fatalf("requestTimeoutSeconds = %d, want 25", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("CMSADMIN_BASE_URL", "http://cms.internal:9000")
	cfgPath := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config without file: %v", err)
	}
	if cfg.BaseURL != "http://cms.internal:9000" {
		t.Fatalf("baseURL = %q", cfg.BaseURL)
	}
	if cfg.StateDir == "" {
		t.Fatal("stateDir default not applied")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("logLevel default = %q, want info", cfg.LogLevel)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("logLevel: \"info\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() expected error for missing baseURL")
	}
}

func TestValidateConfigRejectsNegativeTimeout(t *testing.T) {
	cfg := FileConfig{
		BaseURL:               "http://localhost:8000",
		StateDir:              "/var/lib/cmsadmin",
		RequestTimeoutSeconds: -1,
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatal("validateConfig() expected error for negative timeout")
	}
}
