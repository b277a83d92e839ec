// Package main is the entry point for the standalone gridmenu daemon.
//
// The daemon runs the session engine on an in-memory host together with
// the admin HTTP surface. It exists for soak testing and operational
// inspection; production embeddings link the engine packages directly
// and supply their own host.
//
// The server provides:
//   - Session inspection and teardown over REST
//   - Prometheus metrics
//   - Per-IP rate limiting
//
// Configuration:
//   - Environment variables (GRIDMENU_* prefix)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./gridmenud -port 8080 -quantum 50ms
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
