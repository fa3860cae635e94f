// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.DatabaseType != "memory" {
		t.Errorf("expected memory store, got %q", cfg.DatabaseType)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("expected no origin restrictions, got %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://*.vercel.app")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected database URL from env, got %q", cfg.DatabaseURL)
	}
	want := []string{"http://localhost:5173", "https://*.vercel.app"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("expected origins %v, got %v", want, cfg.AllowedOrigins)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("CORS_ORIGINS", "https://env.example.com")

	cfg, err := ParseFlags([]string{"-p", "8080", "-t", "sqlite", "-d", "file:test.db", "-origins", "https://cli.example.com"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("CLI should override env: expected sqlite, got %q", cfg.DatabaseType)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://cli.example.com"}) {
		t.Errorf("CLI should override env: got origins %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"sql store without URL", nil, []string{"-t", "sqlite"}},
		{"unknown store", nil, []string{"-t", "redis"}},
		{"bad PORT env", map[string]string{"PORT": "abc"}, nil},
		{"port out of range", nil, []string{"-p", "70000"}},
		{"unknown flag", nil, []string{"-admin-salt", "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			t.Setenv("DATABASE_TYPE", "")
			t.Setenv("DATABASE_URL", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tc.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LIVE_POLL_TEST_A=from-file\nLIVE_POLL_TEST_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIVE_POLL_TEST_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("LIVE_POLL_TEST_A") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("LIVE_POLL_TEST_A"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	// Existing environment wins
	if got := os.Getenv("LIVE_POLL_TEST_B"); got != "from-env" {
		t.Errorf("expected env to win, got %q", got)
	}
}
