package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title line plus the fleet stats strip.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	title := styles.Accent.Render("skywatch") + styles.Muted.Render("  fleet dashboard")

	var status string
	switch {
	case m.snapshot.Loading:
		status = m.spin.View() + styles.Muted.Render(" connecting...")
	case m.snapshot.IsOffline():
		status = styles.Danger.Render("BACKEND UNREACHABLE") +
			styles.Muted.Render("  showing last data from "+m.snapshot.LastUpdated.Format("15:04:05"))
	case m.snapshot.LastError != nil:
		status = styles.Warning.Render("degraded") +
			styles.Muted.Render("  "+connectionMessage(m.snapshot.LastError))
	default:
		status = styles.Success.Render("● live")
	}

	line1 := title + "  " + status
	if m.notice != "" {
		line1 += "  " + styles.Info.Render(m.notice)
	}

	if !m.snapshot.HasStats {
		return line1
	}

	s := m.snapshot.Stats
	parts := []string{
		styles.Text.Render(fmt.Sprintf("drones %d", s.TotalDrones)),
		styles.Success.Render(fmt.Sprintf("online %d", s.Online)),
		styles.Warning.Render(fmt.Sprintf("warning %d", s.Warning)),
		styles.Danger.Render(fmt.Sprintf("offline %d", s.Offline)),
		styles.Danger.Render(fmt.Sprintf("high-risk %d", s.HighRisk)),
		styles.Info.Render(fmt.Sprintf("active alerts %d", s.Unacknowledged)),
	}
	line2 := strings.Join(parts, styles.Muted.Render("  │  "))

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2)
}

// renderFooter renders the key hint bar.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	hints := []string{
		"j/k move", "enter select", "esc clear", "tab pane",
		"a ack", "r refresh", "m mock", "T theme", "? help", "q quit",
	}
	return styles.Muted.Render(strings.Join(hints, "  "))
}
