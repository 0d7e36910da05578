package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/properties"
	"github.com/dshills/goterm"
)

func testFlow() canvas.PipelineFlow {
	return canvas.PipelineFlow{
		DocType: "pipeline",
		Version: "3.0",
		ID:      "flow-1",
		Nodes: []canvas.Node{
			{
				ID:      "n1",
				Label:   "Foo",
				Inputs:  []canvas.Port{{ID: "in1", Label: "Input 1"}},
				Outputs: []canvas.Port{{ID: "out1", Label: "Out"}},
				X:       100,
				Y:       100,
			},
			{ID: "n2", Label: "Bar", Inputs: []canvas.Port{{ID: "inB", Label: "B in"}}, X: 2000, Y: 1500},
		},
		Links: []canvas.Link{
			{ID: "l1", Type: canvas.LinkTypeNode, SrcNodeID: "n1", SrcPortID: "out1", TrgNodeID: "n2", TrgPortID: "inB"},
		},
	}
}

func newTestDeps(t *testing.T, flow canvas.PipelineFlow) Deps {
	t.Helper()

	ctrl, err := canvas.NewMemoryController(flow, canvas.DefaultViewport)
	if err != nil {
		t.Fatalf("NewMemoryController() error = %v", err)
	}
	settings, err := properties.NewSettingsController()
	if err != nil {
		t.Fatalf("NewSettingsController() error = %v", err)
	}
	messages := apipanel.NewMessageBuilder(apipanel.WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	}))

	return Deps{
		Canvas:   ctrl,
		Panel:    apipanel.NewPanel(ctrl, messages),
		Messages: messages,
		Settings: settings,
	}
}

// keyEvent builds the event the terminal reader produces for name
func keyEvent(name string) KeyEvent {
	switch name {
	case "Enter", "Escape", "Backspace", "Up", "Down", "Left", "Right", "PageUp", "PageDown", "Home", "End":
		return KeyEvent{IsSpecial: true, Special: name}
	case "Tab":
		return KeyEvent{Key: '\t', IsSpecial: true, Special: "Tab"}
	}
	if strings.HasPrefix(name, "Ctrl-") {
		return KeyEvent{Key: rune(name[5]), Ctrl: true}
	}
	r := []rune(name)[0]
	return KeyEvent{Key: r, Shift: r >= 'A' && r <= 'Z'}
}

func press(t *testing.T, v View, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if err := v.HandleKey(keyEvent(k)); err != nil {
			t.Fatalf("HandleKey(%q) error = %v", k, err)
		}
	}
}

func typeText(t *testing.T, v View, text string) {
	t.Helper()
	for _, r := range text {
		if err := v.HandleKey(KeyEvent{Key: r}); err != nil {
			t.Fatalf("HandleKey(%q) error = %v", r, err)
		}
	}
}

// chooseOperation moves the operation cursor to op and selects it
func chooseOperation(t *testing.T, v *APIPanelView, op apipanel.Operation) {
	t.Helper()

	press(t, v, "Escape")
	for range apipanel.Operations() {
		press(t, v, "k")
	}
	for _, o := range apipanel.Operations() {
		if o == op {
			press(t, v, "Enter")
			return
		}
		press(t, v, "j")
	}
	t.Fatalf("operation %s not in catalog", op)
}

func render(t *testing.T, v View) *goterm.Screen {
	t.Helper()
	screen := goterm.NewScreen(120, 40)
	if err := v.Render(screen); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return screen
}

// screenContainsText reports whether any row of the screen buffer holds text
func screenContainsText(screen *goterm.Screen, text string) bool {
	w, h := screen.Size()
	for y := 0; y < h; y++ {
		var row strings.Builder
		for x := 0; x < w; x++ {
			row.WriteRune(screen.GetCell(x, y).Ch)
		}
		if strings.Contains(row.String(), text) {
			return true
		}
	}
	return false
}
