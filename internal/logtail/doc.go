// Package logtail reads the tail of printdeck's own log file for display.
//
// # Overview
//
// printdeck owns the terminal while the TUI runs, so its zerolog output goes
// to a file instead. The Logs view reads the last lines of that file with
// this package and renders them compactly.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Returns lines in chronological order
//
// A missing file is not an error; it simply has no lines yet.
//
// # Formatting
//
// Parse decodes one zerolog JSON object using zerolog's configured field
// names. Format renders it as
//
//	21:01:05 WRN printer poll failed error="..." failures=2
//
// Lines that are not JSON (a panic trace, for instance) pass through
// unchanged.
package logtail
