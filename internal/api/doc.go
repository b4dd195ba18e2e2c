// Package api provides an HTTP client for the fleet backend API.
//
// # Overview
//
// This package defines the resource client used by the sync engine to talk
// to the fleet monitoring backend. It handles HTTP communication, JSON
// serialization, and type-safe representation of drones, telemetry, alerts,
// and fleet statistics.
//
// # Client Usage
//
// Create a client using the API bind address from configuration:
//
//	client, err := api.NewClient("127.0.0.1:8000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	drones, err := client.ListDrones(ctx)
//	telemetry, err := client.FetchTelemetry(ctx, "drone-002")
//
// # API Endpoints
//
//   - GET  /api/drones                    fleet summaries
//   - GET  /api/drones/{id}/telemetry     latest telemetry for one drone
//   - GET  /api/alerts                    all alerts
//   - GET  /api/stats                     aggregate counters
//   - POST /api/alerts/{id}/acknowledge   mark one alert acknowledged
//   - POST /api/mock/generate             synthesize sample data
//
// # Request Handling
//
// All requests use context for cancellation, set Accept and User-Agent
// headers, and carry a 5-second timeout on the underlying http.Client.
// Any non-2xx status or transport failure comes back as a *RequestError
// naming the operation; the client never parses error bodies.
//
// # Design Rationale
//
// The client is intentionally minimal:
//   - No caching (the sync engine owns the refresh cadence)
//   - No retries (the engine decides retry policy via its poll cycle)
//   - Stateless (one network call per operation, nothing held between calls)
package api
