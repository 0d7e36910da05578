package tui

import (
	"testing"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/dshills/canvasharness/pkg/canvas"
)

func TestCanvasView_RendersFlow(t *testing.T) {
	deps := newTestDeps(t, testFlow())
	deps.Canvas.SetPaletteData([]canvas.PaletteCategory{
		{ID: "io", Label: "Input/Output", NodeTypes: []canvas.NodeTemplate{{Op: "read_csv", Label: "Read CSV"}}},
	})
	v := NewCanvasView(deps.Canvas, deps.Panel, deps.Settings)

	screen := render(t, v)
	for _, want := range []string{
		`node n1 "Foo"`,
		`in1 "Input 1"`,
		"link l1 Foo -> Bar",
		"Input/Output [io] 1 types",
		"Read CSV (read_csv)",
		"Messages (0)",
		"nothing dispatched yet",
		"undo:-",
	} {
		if !screenContainsText(screen, want) {
			t.Errorf("screen does not contain %q", want)
		}
	}
}

func TestCanvasView_PaletteLayoutSetting(t *testing.T) {
	deps := newTestDeps(t, testFlow())
	deps.Canvas.SetPaletteData([]canvas.PaletteCategory{
		{ID: "io", Label: "Input/Output", NodeTypes: []canvas.NodeTemplate{{Op: "read_csv", Label: "Read CSV"}}},
	})
	v := NewCanvasView(deps.Canvas, deps.Panel, deps.Settings)

	if err := deps.Settings.UpdatePropertyValue("palette_layout", "modal"); err != nil {
		t.Fatal(err)
	}
	screen := render(t, v)
	if !screenContainsText(screen, "Palette (modal)") || screenContainsText(screen, "Read CSV") {
		t.Error("modal layout should list categories only")
	}

	if err := deps.Settings.UpdatePropertyValue("palette_layout", "none"); err != nil {
		t.Fatal(err)
	}
	if screenContainsText(render(t, v), "Palette") {
		t.Error("palette should be hidden when the layout is none")
	}
}

func TestCanvasView_JournalAndUndo(t *testing.T) {
	deps := newTestDeps(t, testFlow())
	v := NewCanvasView(deps.Canvas, deps.Panel, deps.Settings)

	for _, ev := range []apipanel.Event{
		apipanel.SelectOperation{Operation: apipanel.OpSetNodeLabel},
		apipanel.EditLabel{Text: "Renamed"},
		apipanel.SubmitPressed{},
	} {
		if err := deps.Panel.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%T) error = %v", ev, err)
		}
	}

	screen := render(t, v)
	for _, want := range []string{"#1 Set Node Label n1", `"label": "Foo"`, `"label": "Renamed"`, "undo:u"} {
		if !screenContainsText(screen, want) {
			t.Errorf("screen does not contain %q", want)
		}
	}

	press(t, v, "u")
	node, _ := deps.Canvas.GetCanvasInfo().FindNode("n1")
	if node.Label != "Foo" {
		t.Errorf("after undo label = %q, want Foo", node.Label)
	}

	press(t, v, "U")
	node, _ = deps.Canvas.GetCanvasInfo().FindNode("n1")
	if node.Label != "Renamed" {
		t.Errorf("after redo label = %q, want Renamed", node.Label)
	}

	press(t, v, "U")
	if !screenContainsText(render(t, v), "redo: nothing to redo") {
		t.Error("status bar should report the failed redo")
	}
}

func TestCanvasView_Messages(t *testing.T) {
	deps := newTestDeps(t, testFlow())
	v := NewCanvasView(deps.Canvas, deps.Panel, deps.Settings)

	title := "Heads up"
	if err := deps.Canvas.AppendNotificationMessages([]canvas.NotificationMessage{
		{ID: "m1", Type: canvas.MessageWarning, Title: &title, Content: "check", CloseMessage: "Dismiss"},
	}); err != nil {
		t.Fatal(err)
	}

	screen := render(t, v)
	if !screenContainsText(screen, "[warning] Heads up: check [Dismiss]") {
		t.Error("message summary not rendered")
	}
}
