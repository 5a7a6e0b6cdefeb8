package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"todocheck/internal/config"
)

// clearEnv unsets every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TODO_ENDPOINT", "TODO_BACKEND", "TODO_TIMEOUT", "TODO_TOKEN", "TODO_LIST_COUNT",
		"TODO_SCHEMA_DIR", "TODO_SERVE_ADDR", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT",
		"FLUENTBIT_ENABLED", "FLUENTBIT_HOST", "FLUENTBIT_PORT",
	} {
		if v, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
	// Keep godotenv away from any .env in the package directory.
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != config.DefaultEndpoint {
		t.Errorf("expected endpoint %q, got %q", config.DefaultEndpoint, cfg.Endpoint)
	}
	if cfg.Backend != config.BackendTodoAPI {
		t.Errorf("expected backend %q, got %q", config.BackendTodoAPI, cfg.Backend)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("expected timeout %s, got %s", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.ListCount != 3 {
		t.Errorf("expected list count 3, got %d", cfg.ListCount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	file := "endpoint: http://localhost:9000\ntimeout: 2s\nlist_count: 5\nfluentbit:\n  host: fluent\n"
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(file), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("TODO_LIST_COUNT", "7")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "http://localhost:9000" {
		t.Errorf("expected endpoint from file, got %q", cfg.Endpoint)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %s", cfg.Timeout)
	}
	if cfg.ListCount != 7 {
		t.Errorf("expected env to override list count, got %d", cfg.ListCount)
	}
	if cfg.FluentBit.Host != "fluent" || cfg.FluentBit.Port != 24224 {
		t.Errorf("unexpected fluentbit config %+v", cfg.FluentBit)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	wd, _ := os.Getwd()
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte("TODO_ENDPOINT=https://todo.example.com/\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TODO_ENDPOINT") })

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL() != "https://todo.example.com" {
		t.Errorf("expected endpoint from .env, got %q", cfg.BaseURL())
	}
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_TIMEOUT", "soon")

	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for bad TODO_TIMEOUT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"endpoint without scheme", func(c *config.Config) { c.Endpoint = "todo.pixegami.io" }},
		{"unknown backend", func(c *config.Config) { c.Backend = "sqlite" }},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }},
		{"zero list count", func(c *config.Config) { c.ListCount = 0 }},
		{"fluent without host", func(c *config.Config) { c.FluentBit.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(t.TempDir())
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != "/tmp/xdg/todocheck" {
		t.Errorf("expected /tmp/xdg/todocheck, got %q", got)
	}
}
