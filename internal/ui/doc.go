// Package ui implements the printdeck terminal dashboard with Bubble Tea.
//
// The model never talks to the backend on its own tick. It reads the shared
// state.Store filled by the app poller and the liveness monitor's flag, and
// only issues requests for operator actions (pause/resume, cancel, remove)
// and for the recent jobs of the highlighted printer. Every derived value on
// screen comes from the projector package.
//
// Views:
//
//   - Printers: list on the left, projected detail on the right. Cancel and
//     remove go through a confirmation driven by projector.ViewState.
//   - Logs: the tail of printdeck's own log file, refreshed while following.
//
// A red banner reading "Backend is not responding." sits under the header
// whenever the heartbeat fails.
package ui
