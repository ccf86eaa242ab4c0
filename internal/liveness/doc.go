// Package liveness keeps a single "backend reachable" flag up to date.
//
// A Monitor calls its Checker, records the answer, and only then schedules
// the next check after a fixed delay. Slow backends therefore slow the poll
// rate down instead of piling up concurrent requests.
//
//	Unstarted --Start--> Polling --Stop--> Stopped --Start--> Polling
//
// The flag itself is an atomic so the UI can read it from its own goroutine.
// Stop bumps a generation counter; callbacks carrying an older generation,
// including a timer that fired just before Stop, return without checking.
package liveness
