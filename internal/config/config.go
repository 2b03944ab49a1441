package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "phishscan"

	// DefaultEndpoint is where the prediction service listens when it is
	// started locally with its development server.
	DefaultEndpoint = "http://127.0.0.1:5000"

	// DefaultAction is the form action the scan form posts to.
	DefaultAction = "/predict"

	// DefaultTimeout bounds a single submission. The prediction endpoint
	// answers in well under a second; 30 seconds leaves room for a cold
	// model load.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of concurrent submissions when several
	// URLs are scanned at once. It is kept small because the endpoint is
	// usually a single development server.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies phishscan in HTTP requests.
	DefaultUserAgent = "phishscan/1.0 (+https://github.com/nao1215/phishscan)"

	// DefaultMaxBodySize limits the size of a result page (5MB).
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultListenAddress is where the web UI listens.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultLocale selects the timestamp format of the history.
	DefaultLocale = "en-US"

	// DefaultTimeZone renders timestamps in the local time zone.
	DefaultTimeZone = "Local"
)

// Config holds all configuration options for phishscan.
// This struct is populated from CLI flags and the configuration file and
// passed through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable.
type Config struct {
	// Endpoint is the base URL of the prediction service. Relative form
	// actions are resolved against it, and its origin scopes the history.
	Endpoint string

	// Action is the form action, relative to Endpoint or absolute.
	Action string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// Timeout bounds each HTTP request to the prediction endpoint.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum result page size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// BatchSize is the number of concurrent submissions in a batch scan.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// LogJSON writes logs as JSON instead of text.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .phishscan is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds endpoint-specific settings from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When empty the
	// report is written to stdout.
	ReportFile string

	// Targets are the URLs to submit.
	Targets []string

	// DBDir is the directory of the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/phishscan on Linux).
	DBDir string

	// Locale selects the timestamp layout of rendered history entries.
	Locale string

	// TimeZone is an IANA time zone name, "Local" or "UTC".
	TimeZone string

	// ListenAddress is where the web UI listens.
	ListenAddress string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, endpoint).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Endpoint:      DefaultEndpoint,
		Action:        DefaultAction,
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		BatchSize:     DefaultBatchSize,
		DBDir:         XDGDataDir(),
		Locale:        DefaultLocale,
		TimeZone:      DefaultTimeZone,
		ListenAddress: DefaultListenAddress,
	}
}

// XDGDataDir returns the XDG data directory for phishscan.
// On Linux: ~/.local/share/phishscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for phishscan.
// On Linux: ~/.config/phishscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// EndpointURL parses Endpoint.
func (c *Config) EndpointURL() (*url.URL, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.Endpoint)
	}
	return u, nil
}

// Location returns the time zone used for rendered timestamps.
func (c *Config) Location() (*time.Location, error) {
	switch c.TimeZone {
	case "", DefaultTimeZone:
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTimeZone, c.TimeZone, err)
	}
	return loc, nil
}

// Site returns the settings for the configured endpoint, merged with the
// defaults of the config file. Without a config file it returns the zero
// SiteConfig.
func (c *Config) Site() SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(endpointHost(c.Endpoint))
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
func (c *Config) Validate() error {
	if _, err := c.EndpointURL(); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ListenAddress != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidListenAddress, c.ListenAddress)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// ValidateScan validates the configuration for the scan command, which
// additionally needs at least one target.
func (c *Config) ValidateScan() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.Validate()
}
