package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kestrelops/skywatch/internal/api"
)

// statusPriority defines the display order for drones. Lower values appear
// first (states needing attention sort to the top).
var statusPriority = map[string]int{
	api.StatusOffline: 0,
	api.StatusWarning: 1,
	api.StatusOnline:  2,
}

func statusRank(status string) int {
	if rank, ok := statusPriority[strings.ToLower(strings.TrimSpace(status))]; ok {
		return rank
	}
	return 99
}

// orderFleet returns drones sorted for display: attention states first,
// then by descending risk, then by id for a stable layout across cycles.
func orderFleet(drones []api.Drone) []api.Drone {
	ordered := make([]api.Drone, len(drones))
	copy(ordered, drones)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := statusRank(ordered[i].Status), statusRank(ordered[j].Status)
		if ri != rj {
			return ri < rj
		}
		if ordered[i].RiskScore != ordered[j].RiskScore {
			return ordered[i].RiskScore > ordered[j].RiskScore
		}
		return ordered[i].DroneID < ordered[j].DroneID
	})
	return ordered
}

// renderFleet renders the drone list pane.
func (m Model) renderFleet(width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Title.Render("Fleet"))
	b.WriteString("\n")

	ordered := orderFleet(m.snapshot.Drones)
	if len(ordered) == 0 {
		b.WriteString(styles.Muted.Render("No drones reported"))
		return b.String()
	}

	for i, d := range ordered {
		line := m.renderFleetRow(d, width)
		switch {
		case i == m.fleetCursor && m.focused == paneFleet:
			line = styles.Selected.Render("▸ ") + line
		case d.DroneID == m.snapshot.SelectedID:
			line = styles.Accent.Render("● ") + line
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFleetRow(d api.Drone, width int) string {
	styles := m.theme.Styles()

	name := d.Name
	if name == "" {
		name = d.DroneID
	}
	name = truncate(name, 18)

	badge := styles.render(statusBadge(d.Status), strings.ToUpper(d.Status))
	battery := styles.render(batteryBadge(d.BatteryPct), fmt.Sprintf("%3.0f%%", d.BatteryPct))
	risk := styles.render(riskBadge(d.RiskScore), fmt.Sprintf("risk %2.0f%%", d.RiskScore*100))

	row := fmt.Sprintf("%-18s %s  %s  %s  %s",
		name, badge, battery, risk, riskBar(d.RiskScore, 10))
	if width > 0 {
		row = truncate(row, width)
	}
	return styles.Text.Render(row) + "  " + styles.Muted.Render(d.DroneID)
}

// riskBar renders a fixed-width bar filled proportionally to score.
func riskBar(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled := int(score*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
