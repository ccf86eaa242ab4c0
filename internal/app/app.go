package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/printdeck/internal/config"
	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/liveness"
	"github.com/five82/printdeck/internal/logging"
	"github.com/five82/printdeck/internal/prefs"
	"github.com/five82/printdeck/internal/state"
	"github.com/five82/printdeck/internal/ui"
)

// Options configure the printdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/printdeck/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the printdeck TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := karmen.NewClient(cfg.BackendURL,
		karmen.WithTimeout(cfg.RequestTimeout),
		karmen.WithLogger(logging.Component(log, "karmen")),
	)
	if err != nil {
		return fmt.Errorf("init karmen client: %w", err)
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	log.Info().
		Str("backend", client.BaseURL()).
		Dur("poll_interval", interval).
		Dur("heartbeat_interval", cfg.HeartbeatInterval).
		Msg("printdeck starting")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := newLivenessFeed()
	monitor := liveness.New(client, liveness.Options{
		Interval: cfg.HeartbeatInterval,
		Logger:   &log,
		OnChange: feed.publish,
	})
	monitor.Start()
	defer monitor.Stop()

	store := &state.Store{}
	StartPoller(ctx, store, client, interval, logging.Component(log, "poller"))

	err = ui.Run(ui.Options{
		Context:         ctx,
		Backend:         client,
		Store:           store,
		Liveness:        monitor,
		LivenessChanges: feed,
		BackendURL:      client.BaseURL(),
		LogPath:         cfg.LogFile,
		PollTick:        interval,
		ThemeName:       userPrefs.Theme,
		PrefsPath:       opts.PrefsPath,
		Selected:        userPrefs.Selected,
		Logger:          logging.Component(log, "ui"),
	})
	log.Info().Err(err).Msg("printdeck stopped")
	return err
}
