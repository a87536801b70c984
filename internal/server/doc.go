// Package server provides the optional HTTP status API for homeworkbot.
//
// This package is internal to homeworkbot and exposes read-only views of
// the poll loop:
//
//   - REST API: JSON endpoint at "/api/status" with the latest and recent cycle reports
//   - Health check: "/healthz" answers "ok" while the process is serving
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
