package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kestrelops/skywatch/internal/api"
)

// severityPriority orders alerts: critical first, acknowledged last.
var severityPriority = map[string]int{
	api.SeverityCritical: 0,
	api.SeverityWarning:  1,
	api.SeverityInfo:     2,
}

func severityRank(severity string) int {
	if rank, ok := severityPriority[strings.ToLower(strings.TrimSpace(severity))]; ok {
		return rank
	}
	return 9
}

// orderAlerts returns alerts sorted for display: unacknowledged before
// acknowledged, then by severity, then newest first.
func orderAlerts(alerts []api.Alert) []api.Alert {
	ordered := make([]api.Alert, len(alerts))
	copy(ordered, alerts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Acknowledged != ordered[j].Acknowledged {
			return !ordered[i].Acknowledged
		}
		ri, rj := severityRank(ordered[i].Severity), severityRank(ordered[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].ParsedTime().After(ordered[j].ParsedTime())
	})
	return ordered
}

// renderAlerts renders the alert pane.
func (m Model) renderAlerts(width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	title := "Alerts"
	if n := m.snapshot.Unacknowledged(); n > 0 {
		title = fmt.Sprintf("Alerts (%d active)", n)
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	ordered := orderAlerts(m.snapshot.Alerts)
	if len(ordered) == 0 {
		b.WriteString(styles.Muted.Render("No alerts"))
		return b.String()
	}

	for i, a := range ordered {
		line := m.renderAlertRow(a, width)
		if i == m.alertCursor && m.focused == paneAlerts {
			line = styles.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAlertRow(a api.Alert, width int) string {
	styles := m.theme.Styles()

	badge := styles.render(severityBadge(a.Severity), strings.ToUpper(a.Severity))
	msg := a.Message
	if msg == "" {
		msg = a.AlertType
	}
	meta := a.DroneID
	if ts := a.ParsedTime(); !ts.IsZero() {
		meta += " " + ts.Format("15:04:05")
	}

	ack := styles.Muted.Render("   ")
	if a.Acknowledged {
		ack = styles.Muted.Render("ack")
	}

	budget := width - 20
	if budget < 10 {
		budget = 40
	}
	return fmt.Sprintf("%s %s %s %s", badge, ack, styles.Text.Render(truncate(msg, budget)), styles.Muted.Render(meta))
}
