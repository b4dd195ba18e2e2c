// Package state provides thread-safe view state management for skywatch.
//
// # Overview
//
// This package implements the single source of truth shared between the sync
// engine and the UI: fleet summaries, alerts, aggregate stats, the current
// detail selection with its telemetry, and loading/error flags. The engine
// writes through a fixed set of mutation primitives; the UI reads immutable
// snapshots on its render tick.
//
// # Architecture
//
//	Producer (sync engine):          Consumer (UI):
//	┌──────────────────────┐        ┌──────────────────┐
//	│ ApplyCycle()         │        │                  │
//	│ ApplyCycleError()    │        │                  │
//	│ Select()/SetTelemetry│───────→│ store.Snapshot() │
//	│ AckAlert()/RevertAck │ (mutex)│      ↓           │
//	└──────────────────────┘        │   render UI      │
//	                                └──────────────────┘
//
// # Mutation Primitives
//
// The store deliberately exposes no field-level access. Every write is one
// of:
//
//   - ApplyCycle: replace drones+alerts+stats in a single transition. A
//     consumer can never observe a state where only one or two of the three
//     reflect a new cycle.
//   - ApplyCycleError: keep last-known-good data, record the failure
//     (degraded state), bump the consecutive-failure counter.
//   - Select/ClearSelection: move the detail focus and clear now-stale
//     telemetry atomically, bumping the selection generation.
//   - SetTelemetry/SetDetailError: generation-checked detail writes. A
//     result tagged with a superseded generation is discarded, so a slow
//     response for a previous selection can never overwrite the current one.
//   - AckAlert/ConfirmAck/RevertAck: optimistic single-alert patch, its
//     confirmation, and its rollback.
//
// This isolation is what makes the atomicity and race-discard guarantees
// enforceable: correctness lives here, not in every caller.
//
// # Concurrency Model
//
// A readers-writer lock guards one Snapshot value. Snapshot() deep-copies
// slices and the telemetry record so the UI can hold results across frames
// without racing the engine. The lock is held only during copies, never
// during network I/O or rendering.
//
// # Testing Considerations
//
// Construct with NewStore(); the store is then safe for concurrent use with
// no further initialization. Snapshot() on a fresh store reports Loading
// until the first cycle settles.
package state
