package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderDetail renders the telemetry pane for the current selection.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	var b strings.Builder

	if m.snapshot.SelectedID == "" {
		b.WriteString(styles.Title.Render("Live Telemetry"))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("Select a drone to view telemetry"))
		return b.String()
	}

	b.WriteString(styles.Title.Render("Live Telemetry · " + m.snapshot.SelectedID))
	b.WriteString("\n")

	if m.snapshot.DetailError != nil {
		b.WriteString(styles.Warning.Render("telemetry unavailable: " + m.snapshot.DetailError.Error()))
		b.WriteString("\n")
	}

	rec := m.snapshot.Telemetry
	if rec == nil {
		b.WriteString(m.spin.View())
		b.WriteString(styles.Muted.Render(" waiting for telemetry..."))
		return b.String()
	}

	rows := []struct {
		label string
		value string
	}{
		{"Roll", fmt.Sprintf("%.2f°", rec.Physics.Roll)},
		{"Pitch", fmt.Sprintf("%.2f°", rec.Physics.Pitch)},
		{"Vibration X", fmt.Sprintf("%.1f", rec.Physics.VibeX)},
		{"AI Confidence", fmt.Sprintf("%.0f%%", rec.Inference.Confidence*100)},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-14s %s\n", styles.Muted.Render(r.label), styles.Text.Render(r.value)))
	}

	risk := styles.render(riskBadge(rec.Inference.RiskScore), fmt.Sprintf("%.0f%%", rec.Inference.RiskScore*100))
	b.WriteString(fmt.Sprintf("%-14s %s\n", styles.Muted.Render("Risk Score"), risk))

	anomalyText := rec.Inference.AnomalyType
	if anomalyText == "" {
		anomalyText = "none"
	}
	anomaly := styles.render(anomalyBadge(anomalyText), anomalyText)
	b.WriteString(fmt.Sprintf("%-14s %s\n", styles.Muted.Render("Anomaly"), anomaly))

	if loc := rec.Location; loc != nil {
		b.WriteString(fmt.Sprintf("%-14s %.4f, %.4f @ %.1fm\n",
			styles.Muted.Render("Position"), loc.Lat, loc.Lon, loc.Alt))
	}

	if rec.TimestampMS > 0 {
		ts := time.UnixMilli(rec.TimestampMS)
		b.WriteString(styles.Muted.Render("as of " + ts.Format("15:04:05")))
		b.WriteString("\n")
	}

	return b.String()
}
