// Package logging provides structured logging for neckscan.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used across the CLI, the TUI and the websocket server.
//
// # Log Levels
//
// Logging is silent by default so the terminal UI renders cleanly. Set
// NECKSCAN_LOG_LEVEL (or pass --log-level) to one of:
//   - debug: session transitions, stale responses, websocket frames
//   - info: analysis requests and completions, connections
//   - warn: analysis failures, dropped connections
//   - error: startup failures
//
// # Output
//
// Logs go to stderr in console format. When the interactive TUI is running,
// point NECKSCAN_LOG_FILE (or --log-file) at a file instead:
//
//	NECKSCAN_LOG_LEVEL=debug NECKSCAN_LOG_FILE=/tmp/neckscan.log neckscan
//
// # Structured Logging
//
//	logging.Info("Server listening", zap.String("addr", addr))
//	logging.LogTransition(sessionID, "idle", "loading", 3)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
