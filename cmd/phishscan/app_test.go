package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/phishscan/internal/config"
)

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("config file values apply unless flags are set", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "phishscan.yaml")
		content := `endpoint: http://10.0.0.5:5000
locale: de
sites:
  "10.0.0.5:5000":
    action: /api/predict
    cookie: "session=abc"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"-c", path, "--locale", "ja"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != "http://10.0.0.5:5000" {
			t.Errorf("endpoint = %q", cfg.Endpoint)
		}
		if cfg.Locale != "ja" {
			t.Errorf("locale = %q, flag should win", cfg.Locale)
		}
		if cfg.Action != "/api/predict" {
			t.Errorf("action = %q", cfg.Action)
		}
		if cfg.Site().Cookie != "session=abc" {
			t.Errorf("site cookie = %q", cfg.Site().Cookie)
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatal(err)
		}
		_, err := buildConfig(cmd)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("db dir flag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--db-dir", dir, "-c", writeEmptyConfig(t)}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBDir != dir {
			t.Errorf("db dir = %q", cfg.DBDir)
		}
	})
}

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.DBDir = t.TempDir()
	cfg.Endpoint = "ftp://example.com"

	if _, err := newApp(cfg, setupLogger(cfg, os.Stderr)); !errors.Is(err, config.ErrInvalidEndpoint) {
		t.Errorf("expected ErrInvalidEndpoint, got %v", err)
	}
}
