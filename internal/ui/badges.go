package ui

import (
	"strings"

	"github.com/kestrelops/skywatch/internal/api"
)

// badgeKind selects the style bucket for an enumeration value. The mapping
// from backend enums to presentation lives entirely in the lookup tables
// below; nothing outside this file switches on raw enum strings.
type badgeKind int

const (
	badgeMuted badgeKind = iota
	badgeSuccess
	badgeWarning
	badgeDanger
	badgeInfo
)

var statusBadges = map[string]badgeKind{
	api.StatusOnline:  badgeSuccess,
	api.StatusWarning: badgeWarning,
	api.StatusOffline: badgeDanger,
}

var severityBadges = map[string]badgeKind{
	api.SeverityInfo:     badgeInfo,
	api.SeverityWarning:  badgeWarning,
	api.SeverityCritical: badgeDanger,
}

// statusBadge classifies a drone connection status.
func statusBadge(status string) badgeKind {
	if kind, ok := statusBadges[strings.ToLower(strings.TrimSpace(status))]; ok {
		return kind
	}
	return badgeMuted
}

// severityBadge classifies an alert severity.
func severityBadge(severity string) badgeKind {
	if kind, ok := severityBadges[strings.ToLower(strings.TrimSpace(severity))]; ok {
		return kind
	}
	return badgeMuted
}

// anomalyBadge classifies an inference anomaly type: anything the model
// names is danger, "none" is success.
func anomalyBadge(anomaly string) badgeKind {
	a := strings.ToLower(strings.TrimSpace(anomaly))
	if a == "" || a == api.AnomalyNone {
		return badgeSuccess
	}
	return badgeDanger
}

// riskBadge buckets a risk score using the dashboard's thresholds.
func riskBadge(score float64) badgeKind {
	switch {
	case score > 0.7:
		return badgeDanger
	case score > 0.3:
		return badgeWarning
	default:
		return badgeSuccess
	}
}

// batteryBadge buckets a battery percentage.
func batteryBadge(pct float64) badgeKind {
	switch {
	case pct < 20:
		return badgeDanger
	case pct < 50:
		return badgeWarning
	default:
		return badgeSuccess
	}
}

// render paints text in the style for a badge kind.
func (s Styles) render(kind badgeKind, text string) string {
	switch kind {
	case badgeSuccess:
		return s.Success.Render(text)
	case badgeWarning:
		return s.Warning.Render(text)
	case badgeDanger:
		return s.Danger.Render(text)
	case badgeInfo:
		return s.Info.Render(text)
	default:
		return s.Muted.Render(text)
	}
}
