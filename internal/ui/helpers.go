package ui

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// truncate shortens s to at most width runes, appending an ellipsis when
// something was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// connectionMessage turns a cycle error into a short operator-facing line.
func connectionMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "backend refused connection; is the API server running?"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "backend timed out"
	}
	msg := err.Error()
	if idx := strings.IndexByte(msg, '\n'); idx > 0 {
		msg = msg[:idx]
	}
	return msg
}
