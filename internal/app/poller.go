package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxPollBackoff      = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the printer list
// in store. Failed polls back off exponentially up to maxPollBackoff. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, backend karmen.Backend, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, backend, log)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxPollBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxPollBackoff {
			return maxPollBackoff
		}
	}
	return d
}

func refresh(ctx context.Context, store *state.Store, backend karmen.Backend, log zerolog.Logger) {
	printers, err := backend.FetchPrinters(ctx, karmen.DefaultPrinterFields...)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		log.Warn().Err(err).
			Int("failures", store.Snapshot().ConsecutiveFailures).
			Msg("printer poll failed")
		return
	}
	store.Update(printers, nil)
	log.Debug().Int("printers", len(printers)).Msg("printer poll ok")
}
