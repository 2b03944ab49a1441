package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishscan/internal/config"
	"github.com/nao1215/phishscan/internal/history"
	plog "github.com/nao1215/phishscan/internal/log"
	"github.com/nao1215/phishscan/internal/scrape"
	"github.com/nao1215/phishscan/internal/storage"
	"github.com/nao1215/phishscan/internal/submit"
	"github.com/nao1215/phishscan/internal/transport"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *storage.SQLiteStore
	origin    string
	history   *history.Store
	formatter *history.TimeFormatter
}

// buildConfig creates a Config from the global flags and the config file.
// Flags changed on the command line win over file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Endpoint, err = flags.GetString("endpoint"); err != nil {
		return nil, err
	}
	if cfg.Action, err = flags.GetString("action"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Locale, err = flags.GetString("locale"); err != nil {
		return nil, err
	}
	if cfg.TimeZone, err = flags.GetString("tz"); err != nil {
		return nil, err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	// If the user named a config file it must exist. Otherwise a missing
	// file just means no file settings.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	return cfg, nil
}

// setupLogger creates the secure structured logger.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return plog.NewLogger(w, plog.Options{Verbose: cfg.Verbose, JSON: cfg.LogJSON})
}

// newApp validates cfg and opens the history of the configured endpoint.
// The caller must call close.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	formatter := history.NewTimeFormatter(cfg.Locale, loc)

	origin, err := storage.Origin(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	db, err := storage.Open(cfg.DBDir, storage.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	logger.Debug("history database opened", "path", db.Path(), "origin", origin)

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		origin:    origin,
		formatter: formatter,
		history: history.NewStore(db.Bucket(origin),
			history.WithLogger(logger),
			history.WithTimeFormatter(formatter),
		),
	}, nil
}

// close releases the history database.
func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close history database", "error", err)
	}
}

// newSubmitter creates the HTTP client and the form submitter for the
// configured endpoint, with the endpoint's cookie and headers.
func (a *app) newSubmitter(ctx context.Context) (*submit.Submitter, error) {
	site := a.cfg.Site()

	opts := transport.DefaultOptions()
	opts.Timeout = a.cfg.Timeout
	opts.ProxyAddress = a.cfg.ProxyAddress
	opts.UserAgent = a.cfg.UserAgent
	opts.Cookie = site.Cookie
	opts.Headers = site.Headers

	client, err := transport.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	if client.ProxyAddress() != "" {
		if status := client.CheckProxy(ctx); status != transport.ProxyStatusOK {
			return nil, fmt.Errorf("proxy check failed: %w (make sure the proxy is running at %s)",
				status.Error(), client.ProxyAddress())
		}
		a.logger.Info("proxy connection verified", "address", client.ProxyAddress())
	}

	base, err := a.cfg.EndpointURL()
	if err != nil {
		return nil, err
	}
	return submit.NewSubmitter(client.HTTPClient(),
		submit.WithBaseURL(base),
		submit.WithMaxBodySize(a.cfg.MaxBodySize),
		submit.WithLogger(a.logger),
	), nil
}

// newExtractor builds the result page extractor, with selector overrides
// from the config file.
func (a *app) newExtractor() (*scrape.Extractor, error) {
	site := a.cfg.Site()
	sel := scrape.DefaultSelectors()
	if site.LabelSelector != "" {
		sel.Label = site.LabelSelector
	}
	if site.ConfidenceSelector != "" {
		sel.Confidence = site.ConfidenceSelector
	}
	e, err := scrape.NewExtractor(sel)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return e, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
