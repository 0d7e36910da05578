package components

import (
	"strings"

	"github.com/dshills/goterm"
)

var (
	statusFg = goterm.ColorRGB(220, 220, 220)
	statusBg = goterm.ColorRGB(40, 40, 40)
	badgeFg  = goterm.ColorRGB(0, 0, 0)
	badgeBg  = goterm.ColorRGB(100, 200, 255)
)

// StatusBar is the bottom row: a mode badge, then left text, with right
// text pinned to the right edge when it fits
type StatusBar struct {
	y     int
	width int
	mode  string
	left  string
	right string
}

// NewStatusBar creates a status bar on row y
func NewStatusBar(y, width int) *StatusBar {
	return &StatusBar{y: y, width: width}
}

func (s *StatusBar) SetPosition(y, width int) {
	s.y = y
	s.width = width
}

// SetMode sets the badge text; it is drawn upper case
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

func (s *StatusBar) SetText(left, right string) {
	s.left = left
	s.right = right
}

// Render draws the status bar
func (s *StatusBar) Render(screen *goterm.Screen) {
	if screen == nil || s.width <= 0 {
		return
	}

	screen.DrawText(0, s.y, strings.Repeat(" ", s.width), statusFg, statusBg, goterm.StyleNone)

	x := 0
	if s.mode != "" {
		badge := " " + strings.ToUpper(s.mode) + " "
		screen.DrawText(0, s.y, badge, badgeFg, badgeBg, goterm.StyleBold)
		x = len(badge) + 1
	}
	screen.DrawText(x, s.y, clip(s.left, s.width-x), statusFg, statusBg, goterm.StyleNone)

	if s.right != "" && len(s.right) < s.width-x-len(s.left)-1 {
		screen.DrawText(s.width-len(s.right), s.y, s.right, statusFg, statusBg, goterm.StyleNone)
	}
}
