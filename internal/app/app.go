package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/kestrelops/skywatch/internal/api"
	"github.com/kestrelops/skywatch/internal/config"
	"github.com/kestrelops/skywatch/internal/prefs"
	"github.com/kestrelops/skywatch/internal/state"
	"github.com/kestrelops/skywatch/internal/sync"
	"github.com/kestrelops/skywatch/internal/ui"
)

const preflightTimeout = 3 * time.Second

// Options configure the skywatch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/skywatch/prefs.toml
	PollEvery  int    // seconds; zero uses the config value or default
}

// Run boots the skywatch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog := newLogger(cfg.LogFile)
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore()

	pollSeconds := cfg.PollSeconds
	if opts.PollEvery > 0 {
		pollSeconds = opts.PollEvery
	}

	// Pre-flight reachability check. A dead backend is not fatal: the
	// dashboard starts degraded and recovers once the API comes up.
	if err := probeBackend(ctx, client); err != nil {
		logger.Warn().Err(err).Str("api_bind", cfg.APIBind).Msg("Backend unreachable at startup, continuing degraded")
	}

	engine := sync.New(client, store, sync.Options{
		Interval: time.Duration(pollSeconds) * time.Second,
		Logger:   logger,
	})
	engine.Start(ctx)
	defer engine.Stop()

	uiOpts := ui.Options{
		Context:   ctx,
		Engine:    engine,
		Store:     store,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// probeBackend makes one bounded stats request so startup problems are
// logged before the first cycle runs.
func probeBackend(ctx context.Context, client *api.Client) error {
	probeCtx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()
	_, err := client.FetchStats(probeCtx)
	return err
}

// newLogger opens the configured log file. The TUI owns the terminal, so
// logs must never go to stderr while it runs; if the file cannot be opened
// the logger discards everything.
func newLogger(path string) (zerolog.Logger, func()) {
	if path == "" {
		return zerolog.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.New(io.Discard), func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.New(io.Discard), func() {}
	}
	logger := zerolog.New(file).With().Timestamp().Logger()
	return logger, func() { _ = file.Close() }
}
