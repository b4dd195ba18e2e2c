// Package app provides the orchestration layer for the skywatch application.
//
// # Overview
//
// This package wires together configuration, the fleet API client, the sync
// engine, state management, and the UI to create the complete skywatch TUI
// experience. It serves as the composition root where all dependencies are
// initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load skywatch configuration from ~/.config/skywatch/config.toml
//  2. Open the structured log file (the TUI owns the terminal, so logs
//     never go to stderr while it runs)
//  3. Initialize the HTTP client for the fleet API
//  4. Create the shared state.Store for UI and engine coordination
//  5. Probe the backend once so startup problems are logged, but continue
//     degraded when it is unreachable
//  6. Start the sync engine for continuous refresh cycles
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Error Handling
//
// The app package distinguishes between fatal and recoverable errors:
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - API client initialization failure (malformed bind address)
//
// Recoverable errors (logged, operation continues):
//   - Backend unreachable at startup or during refresh cycles
//   - Per-drone telemetry fetch failures
//   - Alert acknowledgement failures (rolled back in the store)
//
// A dead backend is deliberately non-fatal: the dashboard starts in the
// degraded state and recovers automatically once the API comes up, which
// matters for an operator tool that often outlives backend restarts.
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - ConfigPath: Path to config.toml (default: ~/.config/skywatch/config.toml)
//   - PrefsPath: Path to prefs.toml (default: ~/.config/skywatch/prefs.toml)
//   - PollEvery: Refresh interval in seconds (overrides the config value)
package app
