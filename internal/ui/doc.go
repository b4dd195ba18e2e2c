// Package ui provides the Bubble Tea terminal interface for skywatch.
//
// # Overview
//
// The UI is a read-mostly projection of the view state store. On a fixed
// render tick the model re-reads store.Snapshot() and redraws; it never
// fetches from the backend itself. User actions (selecting a drone,
// acknowledging an alert, forcing a refresh, requesting mock data) are
// forwarded to the sync engine through the Controller interface, and their
// effects come back through the store like everything else.
//
// # Layout
//
//	┌ header: title, connection state, fleet stats ┐
//	┌ fleet pane ───────────┐ ┌ alerts pane ──────┐
//	│ drones sorted by      │ │ unacknowledged    │
//	│ attention + risk      │ │ first             │
//	└───────────────────────┘ └───────────────────┘
//	┌ telemetry pane: detail for the selection ────┐
//	└ footer: key hints ───────────────────────────┘
//
// # Presentation Lookup Tables
//
// Status, severity, anomaly, risk, and battery values map to styles through
// the badge tables in badges.go. The rest of the package renders badges
// without inspecting raw enum strings, so a new backend value degrades to
// the muted style instead of breaking layout.
//
// # Degraded Display
//
// When the store reports a cycle failure the header shows a degraded or
// unreachable banner while the panes keep rendering the last-known-good
// data, matching the store's retention semantics.
package ui
