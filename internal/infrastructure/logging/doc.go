// Package logging provides structured logging for the Movie API.
//
// This package wraps Go's standard log/slog package so every component
// logs with the same shape and the same default fields.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("server listening", "address", addr)
//	logger.Error("store unavailable", "error", err)
//
// # Security
//
// Never log passwords, password hashes, bearer tokens or the signing
// secret. Log the username or user ID instead.
package logging
