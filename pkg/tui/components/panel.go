package components

import (
	"github.com/dshills/goterm"
)

var (
	contentFg = goterm.ColorRGB(220, 220, 220)
	borderFg  = goterm.ColorRGB(128, 128, 128)
	focusFg   = goterm.ColorRGB(100, 200, 255)
	titleFg   = goterm.ColorRGB(255, 255, 255)
	titleBg   = goterm.ColorRGB(40, 40, 80)
)

// Line is one row of panel content
type Line struct {
	Text  string
	Fg    goterm.Color
	Style goterm.Style
}

// Plain returns an unstyled line in the content color
func Plain(text string) Line {
	return Line{Text: text, Fg: contentFg, Style: goterm.StyleNone}
}

// Styled returns a line with its own color and style
func Styled(text string, fg goterm.Color, style goterm.Style) Line {
	return Line{Text: text, Fg: fg, Style: style}
}

// Rect is a screen area in cells
type Rect struct {
	X, Y, W, H int
}

// inner is the rect inside a one-cell border
func (r Rect) inner() Rect {
	return Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

// Panel is a bordered box of lines scrolled as a window. One line may be
// the cursor; it is drawn reversed and always kept in the window.
type Panel struct {
	title   string
	bounds  Rect
	lines   []Line
	top     int // first line in the window
	cursor  int // -1 for none
	focused bool
}

// NewPanel creates a panel at x,y of the given size
func NewPanel(title string, x, y, width, height int) *Panel {
	return &Panel{
		title:  title,
		bounds: Rect{X: x, Y: y, W: width, H: height},
		cursor: -1,
	}
}

// SetBounds moves and resizes the panel
func (p *Panel) SetBounds(x, y, width, height int) {
	p.bounds = Rect{X: x, Y: y, W: width, H: height}
	p.follow()
}

func (p *Panel) SetTitle(title string) { p.title = title }

func (p *Panel) SetFocused(focused bool) { p.focused = focused }

// SetContent replaces the lines, clamping the cursor and window to them
func (p *Panel) SetContent(lines []Line) {
	p.lines = lines
	if p.cursor >= len(lines) {
		p.cursor = len(lines) - 1
	}
	if p.top >= len(lines) {
		p.top = 0
	}
	p.follow()
}

// SetLines replaces the content with plain lines
func (p *Panel) SetLines(texts []string) {
	lines := make([]Line, 0, len(texts))
	for _, t := range texts {
		lines = append(lines, Plain(t))
	}
	p.SetContent(lines)
}

// SetCursor marks line i as the cursor; -1 clears it
func (p *Panel) SetCursor(i int) {
	p.cursor = i
	p.follow()
}

func (p *Panel) Cursor() int { return p.cursor }

// ScrollPosition returns the first visible line
func (p *Panel) ScrollPosition() int { return p.top }

func (p *Panel) rows() int { return p.bounds.inner().H }

// ScrollUp moves the window up by n lines
func (p *Panel) ScrollUp(n int) {
	p.top = max(p.top-n, 0)
}

// ScrollDown moves the window down by n lines, stopping at the last page
func (p *Panel) ScrollDown(n int) {
	p.top = min(p.top+n, max(len(p.lines)-p.rows(), 0))
}

// follow scrolls just enough to bring the cursor into the window
func (p *Panel) follow() {
	rows := p.rows()
	if p.cursor < 0 || rows <= 0 {
		return
	}
	switch {
	case p.cursor < p.top:
		p.top = p.cursor
	case p.cursor >= p.top+rows:
		p.top = p.cursor - rows + 1
	}
}

// HandleKey pages through the content. It reports whether key was used.
func (p *Panel) HandleKey(key string) bool {
	switch key {
	case "PageDown":
		p.ScrollDown(p.rows())
	case "PageUp":
		p.ScrollUp(p.rows())
	case "Home":
		p.top = 0
	case "End":
		p.ScrollDown(len(p.lines))
	default:
		return false
	}
	return true
}

// Render draws the border, title and visible lines
func (p *Panel) Render(screen *goterm.Screen) {
	if screen == nil || p.bounds.W < 2 || p.bounds.H < 2 {
		return
	}

	fg := borderFg
	if p.focused {
		fg = focusFg
	}
	drawBox(screen, p.bounds, fg)

	if p.title != "" {
		title := clip(" "+p.title+" ", p.bounds.W-4)
		screen.DrawText(p.bounds.X+2, p.bounds.Y, title, titleFg, titleBg, goterm.StyleBold)
	}

	area := p.bounds.inner()
	sw, sh := screen.Size()
	for row := 0; row < area.H && p.top+row < len(p.lines); row++ {
		y := area.Y + row
		if y >= sh {
			break
		}
		i := p.top + row
		line := p.lines[i]
		style := line.Style
		if i == p.cursor {
			style = goterm.StyleReverse
		}

		for col, ch := range []rune(clip(line.Text, area.W)) {
			if area.X+col >= sw {
				break
			}
			screen.SetCell(area.X+col, y, goterm.NewCell(ch, line.Fg, goterm.ColorDefault(), style))
		}
	}
}

func drawBox(screen *goterm.Screen, r Rect, fg goterm.Color) {
	bg := goterm.ColorDefault()
	put := func(x, y int, ch rune) {
		screen.SetCell(x, y, goterm.NewCell(ch, fg, bg, goterm.StyleNone))
	}

	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		put(x, r.Y, '─')
		put(x, bottom, '─')
	}
	for y := r.Y + 1; y < bottom; y++ {
		put(r.X, y, '│')
		put(right, y, '│')
	}
	put(r.X, r.Y, '┌')
	put(right, r.Y, '┐')
	put(r.X, bottom, '└')
	put(right, bottom, '┘')
}

// clip cuts s to at most n runes
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
