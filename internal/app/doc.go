// Package app is the composition root of printdeck.
//
// Run wires configuration, logging, the Karmen client, the liveness monitor,
// the printer poller and the UI together:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        config.toml or config.yaml
//	       ├─────> logging.New()        zerolog to the log file
//	       ├─────> karmen.NewClient()   REST client
//	       ├─────> liveness.New/Start() heartbeat every heartbeat_interval
//	       ├─────> StartPoller()        printer list every poll_interval
//	       └─────> ui.Run()             blocks until quit
//
// The poller and the UI share a state.Store. A failed poll keeps the previous
// printer list, records the error and doubles the delay before the next poll
// (capped at 30 seconds) until the backend answers again. Heartbeat failures
// never stop anything; they only switch the UI banner on.
package app
