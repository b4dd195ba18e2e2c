// Package sync implements the data-synchronization core of skywatch.
//
// # Overview
//
// The Engine polls the fleet backend on a fixed interval and merges results
// into the view state store. One "global cycle" fetches drones, alerts, and
// stats concurrently and commits them in a single atomic store transition.
// Independently of the global cycle, the engine tracks a selected drone
// whose telemetry is fetched on selection and refetched every cycle, and it
// applies optimistic local mutations (alert acknowledgement) ahead of
// backend confirmation.
//
// # Cycle Discipline
//
// At most one global cycle is in flight at any time. Ticks that fire while
// a cycle is still running are dropped, not queued, so a slow backend can
// never stack cycles. The first cycle runs immediately on Start, and
// ForceRefresh requests one out of band (still subject to the same guard).
//
// A cycle commits all-or-nothing: if any of the three fetches fails, the
// store keeps its last-known-good data and only records the failure. This
// is the degraded state; recovery is automatic on the next successful
// cycle.
//
// # Selection Races
//
// Every selection change bumps a generation counter in the store, and every
// telemetry write carries the generation it was issued under. A slow
// response for a superseded selection is discarded at write time, so the
// detail pane can never show telemetry for a drone that is no longer
// selected, regardless of response ordering.
//
// # Optimistic Mutations
//
// Acknowledge flips the alert's flag locally before the backend call and
// rolls it back if the call fails. Acknowledgements still awaiting
// confirmation are protected from being undone by a concurrently committing
// refresh (see state.Store.ApplyCycle).
//
// The original dashboard left a failed acknowledge applied forever; this
// engine deliberately rolls back instead so local state never diverges
// silently from the backend.
//
// # Lifecycle
//
// Start launches the loop; Stop is idempotent, halts the ticker, and marks
// the engine closed so results still in flight are discarded before any
// store write. After Stop returns the store is frozen from the engine's
// perspective.
package sync
