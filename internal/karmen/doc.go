// Package karmen provides an HTTP client for the Karmen printer fleet backend.
//
// # Overview
//
// This package defines the API client printdeck uses to talk to the Karmen
// backend. It handles HTTP communication, JSON serialization, and type-safe
// representation of printer snapshots and print jobs.
//
// # Architecture
//
//   - client.go: HTTP client, request/response handling, StatusError
//   - types.go: Data structures mirroring the backend JSON schema
//
// # Client Usage
//
//	client, err := karmen.NewClient("http://karmen.local/api", karmen.WithTimeout(3*time.Second))
//	if err != nil {
//		return err
//	}
//
//	// Liveness never fails; it degrades to false.
//	online := client.CheckLiveness(ctx)
//
//	printers, err := client.FetchPrinters(ctx, karmen.DefaultPrinterFields...)
//
// # API Endpoints
//
//   - GET    /                          liveness (200 means alive)
//   - GET    /printers?fields=...       printer list
//   - GET    /printers/{ip}?fields=...  single printer
//   - DELETE /printers/{ip}             remove printer (204)
//   - POST   /printers/{ip}/current-job {"action": "toggle"|"cancel"} (204)
//   - GET    /printjobs?limit=&order_by=&filter=printer_ip:{ip}
//
// # Error Handling
//
// Any status code other than the one an endpoint documents is returned as a
// *StatusError so callers can branch with errors.As. Transport and decode
// failures are wrapped with %w. CheckLiveness is the exception: it logs at
// debug level and reports false.
//
// # Thread Safety
//
// Client is safe for concurrent use once constructed; it holds no mutable
// state besides the underlying *http.Client.
package karmen
