package api

import "time"

// DroneStatus is the coarse connection state reported for a drone.
// The backend owns the domain; these constants cover the values it
// currently emits.
const (
	StatusOnline  = "online"
	StatusWarning = "warning"
	StatusOffline = "offline"
)

// Alert severities emitted by the backend.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AnomalyNone is the inference result when the model sees nothing wrong.
// Other observed values include "vibration" and "voltage_sag".
const AnomalyNone = "none"

// Location is a GPS fix reported with drone summaries and telemetry.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt"`
}

// Drone mirrors one entry of GET /api/drones.
type Drone struct {
	DroneID    string    `json:"drone_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	LastSeen   string    `json:"last_seen"`
	BatteryPct float64   `json:"battery_pct"`
	RiskScore  float64   `json:"risk_score"`
	Location   *Location `json:"location,omitempty"`
}

// ConnectionState is the nested status block inside a telemetry record.
type ConnectionState struct {
	Connection string  `json:"connection"`
	AIActive   bool    `json:"ai_active"`
	BatteryPct float64 `json:"battery_pct"`
}

// Inference carries the onboard model's latest verdict.
type Inference struct {
	RiskScore   float64 `json:"risk_score"`
	AnomalyType string  `json:"anomaly_type"`
	Confidence  float64 `json:"confidence"`
}

// Physics carries raw attitude and vibration readings.
type Physics struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	VibeX float64 `json:"vibe_x"`
}

// TelemetryRecord mirrors GET /api/drones/{id}/telemetry.
type TelemetryRecord struct {
	DroneID     string          `json:"drone_id"`
	TimestampMS int64           `json:"timestamp_ms"`
	Status      ConnectionState `json:"status"`
	Inference   Inference       `json:"inference"`
	Physics     Physics         `json:"physics"`
	Location    *Location       `json:"location,omitempty"`
}

// Alert mirrors one entry of GET /api/alerts. The drone_id reference is
// weak: an alert outlives its drone disappearing from the fleet list.
type Alert struct {
	ID           string `json:"id"`
	DroneID      string `json:"drone_id"`
	AlertType    string `json:"alert_type"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
	Timestamp    string `json:"timestamp"`
	Acknowledged bool   `json:"acknowledged"`
}

// ParsedTime returns the alert timestamp as time.Time when possible.
func (a Alert) ParsedTime() time.Time {
	return parseTime(a.Timestamp)
}

// Stats mirrors GET /api/stats, the aggregate fleet counters.
type Stats struct {
	TotalDrones    int `json:"total_drones"`
	Online         int `json:"online"`
	Warning        int `json:"warning"`
	Offline        int `json:"offline"`
	HighRisk       int `json:"high_risk"`
	TotalAlerts    int `json:"total_alerts"`
	Unacknowledged int `json:"unacknowledged_alerts"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
