package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderMain composes the full frame: header, fleet+alerts side by side,
// telemetry detail, footer.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	fleetWidth := m.width * 3 / 5
	alertWidth := m.width - fleetWidth - 6
	if fleetWidth < 40 {
		fleetWidth = m.width - 4
		alertWidth = m.width - 4
	}

	fleetPane := styles.Pane
	alertPane := styles.Pane
	if m.focused == paneFleet {
		fleetPane = styles.FocusPane
	} else {
		alertPane = styles.FocusPane
	}

	fleet := fleetPane.Width(fleetWidth).Render(m.renderFleet(fleetWidth - 4))
	alerts := alertPane.Width(alertWidth).Render(m.renderAlerts(alertWidth - 4))

	var middle string
	if alertWidth < 30 {
		middle = lipgloss.JoinVertical(lipgloss.Left, fleet, alerts)
	} else {
		middle = lipgloss.JoinHorizontal(lipgloss.Top, fleet, alerts)
	}

	detail := styles.Pane.Width(m.width - 2).Render(m.renderDetail())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		middle,
		detail,
		m.renderFooter(),
	)
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	rows := []struct{ key, desc string }{
		{"j/k, ↓/↑", "Move within the focused pane"},
		{"g / G", "Jump to top / bottom"},
		{"enter", "Select highlighted drone for live telemetry"},
		{"esc", "Clear selection"},
		{"tab", "Switch focus between fleet and alerts"},
		{"a", "Acknowledge highlighted alert"},
		{"r", "Force an immediate refresh"},
		{"m", "Ask the backend to generate mock data"},
		{"T", "Cycle color theme"},
		{"h, ?", "Toggle this help"},
		{"q, ctrl+c", "Quit"},
	}

	content := styles.Title.Render("skywatch keys") + "\n\n"
	for _, r := range rows {
		content += styles.Accent.Render(padRight(r.key, 12)) + styles.Text.Render(r.desc) + "\n"
	}
	content += "\n" + styles.Muted.Render("press any key to close")

	box := styles.FocusPane.Padding(1, 3).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
