package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional; these tests fail otherwise.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Endpoint is the local development server", func(t *testing.T) {
		t.Parallel()
		if cfg.Endpoint != "http://127.0.0.1:5000" {
			t.Errorf("expected Endpoint to be 'http://127.0.0.1:5000', got '%s'", cfg.Endpoint)
		}
	})

	t.Run("default Action is /predict", func(t *testing.T) {
		t.Parallel()
		if cfg.Action != "/predict" {
			t.Errorf("expected Action to be '/predict', got '%s'", cfg.Action)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default locale and time zone", func(t *testing.T) {
		t.Parallel()
		if cfg.Locale != "en-US" || cfg.TimeZone != "Local" {
			t.Errorf("unexpected locale %q time zone %q", cfg.Locale, cfg.TimeZone)
		}
	})

	t.Run("no proxy by default", func(t *testing.T) {
		t.Parallel()
		if cfg.ProxyAddress != "" {
			t.Errorf("expected no proxy, got %q", cfg.ProxyAddress)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:    "endpoint without scheme",
			modify:  func(c *Config) { c.Endpoint = "127.0.0.1:5000" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "endpoint with ftp scheme",
			modify:  func(c *Config) { c.Endpoint = "ftp://example.com" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative batch size",
			modify:  func(c *Config) { c.BatchSize = -1 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "json and markdown together",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "negative max body size",
			modify:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "listen address without port",
			modify:  func(c *Config) { c.ListenAddress = "localhost" },
			wantErr: ErrInvalidListenAddress,
		},
		{
			name:    "unknown time zone",
			modify:  func(c *Config) { c.TimeZone = "Mars/Olympus_Mons" },
			wantErr: ErrInvalidTimeZone,
		},
		{
			name:   "UTC time zone",
			modify: func(c *Config) { c.TimeZone = "UTC" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigValidateScan tests the target requirement of the scan command.
func TestConfigValidateScan(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.ValidateScan(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}
	cfg.Targets = []string{"example.com"}
	if err := cfg.ValidateScan(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestConfigLocation tests time zone resolution.
func TestConfigLocation(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected time.Local, got %v %v", loc, err)
	}

	cfg.TimeZone = "UTC"
	loc, err = cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v %v", loc, err)
	}
}

// TestFileGetSiteConfig tests merging site settings with defaults.
func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			Cookie:  "default=1",
			Headers: map[string]string{"X-Team": "sec"},
		},
		Sites: map[string]SiteConfig{
			"scanner.example:8443": {
				Cookie:        "session=abc",
				Headers:       map[string]string{"X-Api-Key": "k"},
				LabelSelector: "#verdict",
				Action:        "/api/predict",
			},
		},
	}

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()
		got := cf.GetSiteConfig("other.example")
		if got.Cookie != "default=1" || got.Headers["X-Team"] != "sec" {
			t.Errorf("unexpected site config %+v", got)
		}
	})

	t.Run("known host overrides defaults", func(t *testing.T) {
		t.Parallel()
		got := cf.GetSiteConfig("scanner.example:8443")
		if got.Cookie != "session=abc" {
			t.Errorf("expected site cookie, got %q", got.Cookie)
		}
		if got.Headers["X-Team"] != "sec" || got.Headers["X-Api-Key"] != "k" {
			t.Errorf("expected merged headers, got %v", got.Headers)
		}
		if got.LabelSelector != "#verdict" || got.Action != "/api/predict" {
			t.Errorf("unexpected overrides %+v", got)
		}
	})

	t.Run("merging does not modify defaults", func(t *testing.T) {
		t.Parallel()
		_ = cf.GetSiteConfig("scanner.example:8443")
		if _, ok := cf.Defaults.Headers["X-Api-Key"]; ok {
			t.Error("defaults were modified")
		}
	})
}

// TestFileApply tests overlaying the file onto a config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("file fills unchanged defaults", func(t *testing.T) {
		t.Parallel()
		cf := &File{
			Endpoint: "https://scanner.example",
			Locale:   "de-DE",
			TimeZone: "UTC",
			Proxy:    "127.0.0.1:1080",
			Sites: map[string]SiteConfig{
				"scanner.example": {Action: "/scan"},
			},
		}
		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.Endpoint != "https://scanner.example" || cfg.Locale != "de-DE" || cfg.TimeZone != "UTC" {
			t.Errorf("unexpected config %+v", cfg)
		}
		if cfg.ProxyAddress != "127.0.0.1:1080" {
			t.Errorf("expected proxy from file, got %q", cfg.ProxyAddress)
		}
		if cfg.Action != "/scan" {
			t.Errorf("expected site action, got %q", cfg.Action)
		}
		if cfg.SiteConfigs != cf {
			t.Error("expected site configs to be attached")
		}
	})

	t.Run("flags win over file", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Endpoint = "http://localhost:9000"
		(&File{Endpoint: "https://scanner.example"}).Apply(cfg)
		if cfg.Endpoint != "http://localhost:9000" {
			t.Errorf("expected flag value to win, got %q", cfg.Endpoint)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.phishscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".phishscan")
		content := `endpoint: "https://scanner.example"
locale: "ja-JP"
defaults:
  cookie: "default=abc"
sites:
  scanner.example:
    headers:
      X-Api-Key: "secret"
    labelSelector: ".verdict"
    confidenceSelector: ".score"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != "https://scanner.example" || cfg.Locale != "ja-JP" {
			t.Errorf("unexpected top-level values %+v", cfg)
		}
		if cfg.Defaults.Cookie != "default=abc" {
			t.Errorf("expected default cookie, got %q", cfg.Defaults.Cookie)
		}
		site, ok := cfg.Sites["scanner.example"]
		if !ok {
			t.Fatal("expected scanner.example in sites")
		}
		if site.Headers["X-Api-Key"] != "secret" {
			t.Error("expected X-Api-Key header")
		}
		if site.LabelSelector != ".verdict" || site.ConfidenceSelector != ".score" {
			t.Errorf("unexpected selectors %+v", site)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".phishscan")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "parse") {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".phishscan")
		if err := os.WriteFile(configPath, []byte("locale: fr\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if !strings.HasSuffix(dir, AppName) {
				t.Errorf("expected %q to end with %q", dir, AppName)
			}
		})
	}
}
