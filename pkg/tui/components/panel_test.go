package components

import (
	"strings"
	"testing"

	"github.com/dshills/goterm"
)

func rowText(screen *goterm.Screen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(screen.GetCell(x, y).Ch)
	}
	return sb.String()
}

func TestPanel_RenderBorderTitleContent(t *testing.T) {
	screen := goterm.NewScreen(40, 10)
	p := NewPanel("Nodes", 0, 0, 20, 5)
	p.SetLines([]string{"alpha", "beta", "a line longer than the panel"})
	p.Render(screen)

	if got := screen.GetCell(0, 0).Ch; got != '┌' {
		t.Errorf("corner = %q, want ┌", got)
	}
	if !strings.Contains(rowText(screen, 0), " Nodes ") {
		t.Errorf("title row = %q", rowText(screen, 0))
	}
	if !strings.Contains(rowText(screen, 1), "alpha") || !strings.Contains(rowText(screen, 2), "beta") {
		t.Error("content not drawn inside the border")
	}
	if strings.Contains(rowText(screen, 3), "the panel") {
		t.Error("long lines should be clipped to the content width")
	}
}

func TestPanel_CursorStaysVisible(t *testing.T) {
	p := NewPanel("List", 0, 0, 20, 5) // 3 content rows
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "item"
	}
	p.SetLines(lines)

	p.SetCursor(6)
	if got := p.ScrollPosition(); got != 4 {
		t.Errorf("ScrollPosition() = %d, want 4", got)
	}
	p.SetCursor(1)
	if got := p.ScrollPosition(); got != 1 {
		t.Errorf("ScrollPosition() = %d, want 1", got)
	}

	p.SetLines([]string{"only"})
	if p.Cursor() != 0 || p.ScrollPosition() != 0 {
		t.Errorf("cursor=%d scroll=%d after shrinking content", p.Cursor(), p.ScrollPosition())
	}
}

func TestPanel_HandleKeyScrolls(t *testing.T) {
	p := NewPanel("List", 0, 0, 20, 5)
	p.SetLines(make([]string, 10))

	if !p.HandleKey("End") || p.ScrollPosition() != 7 {
		t.Errorf("End scroll = %d, want 7", p.ScrollPosition())
	}
	if !p.HandleKey("PageUp") || p.ScrollPosition() != 4 {
		t.Errorf("PageUp scroll = %d, want 4", p.ScrollPosition())
	}
	if !p.HandleKey("Home") || p.ScrollPosition() != 0 {
		t.Errorf("Home scroll = %d, want 0", p.ScrollPosition())
	}
	if p.HandleKey("x") {
		t.Error("unknown keys should not be handled")
	}
}

func TestStatusBar_Render(t *testing.T) {
	screen := goterm.NewScreen(40, 3)
	sb := NewStatusBar(2, 40)
	sb.SetMode("insert")
	sb.SetText("editing", "ready")
	sb.Render(screen)

	row := rowText(screen, 2)
	if !strings.HasPrefix(row, " INSERT ") || !strings.Contains(row, "editing") || !strings.HasSuffix(row, "ready") {
		t.Errorf("status row = %q", row)
	}
}
