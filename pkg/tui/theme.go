package tui

import "github.com/dshills/goterm"

var (
	colorAccent    = goterm.ColorRGB(100, 200, 255)
	colorReady     = goterm.ColorRGB(120, 220, 120)
	colorMuted     = goterm.ColorRGB(128, 128, 128)
	colorHighlight = goterm.ColorRGB(255, 210, 80)
	colorDeleted   = goterm.ColorRGB(230, 110, 110)
)

// messageColor maps a notification severity to its list color
func messageColor(kind string) goterm.Color {
	switch kind {
	case "success":
		return colorReady
	case "warning":
		return colorHighlight
	case "error":
		return colorDeleted
	}
	return colorAccent
}
