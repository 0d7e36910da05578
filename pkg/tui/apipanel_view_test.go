package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/dshills/canvasharness/pkg/canvas"
)

func newTestPanelView(t *testing.T, flow canvas.PipelineFlow) (*APIPanelView, Deps) {
	t.Helper()
	deps := newTestDeps(t, flow)
	return NewAPIPanelView(deps.Panel, deps.Settings), deps
}

func TestAPIPanelView_InitialRender(t *testing.T) {
	v, _ := newTestPanelView(t, testFlow())

	screen := render(t, v)
	for _, want := range []string{"Operations", "Set Pipeline Flow", "Zoom To Reveal Link", "select an operation", "submit: disabled"} {
		if !screenContainsText(screen, want) {
			t.Errorf("screen does not contain %q", want)
		}
	}
}

func TestAPIPanelView_SetNodeLabel(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())

	chooseOperation(t, v, apipanel.OpSetNodeLabel)
	s := deps.Panel.State()
	if s.Operation != apipanel.OpSetNodeLabel || s.NodeID != "n1" || s.NewLabel != "Foo" {
		t.Fatalf("state after select = %+v", s)
	}

	// Move to the label field and retype it
	press(t, v, "j", "Enter")
	if !v.Editing() {
		t.Fatal("Enter on a text field should start editing")
	}
	press(t, v, "Backspace", "Backspace", "Backspace")
	typeText(t, v, "Qux")
	press(t, v, "Enter")
	if v.Editing() {
		t.Fatal("Enter should commit the edit")
	}
	if got := deps.Panel.State().NewLabel; got != "Qux" {
		t.Fatalf("NewLabel = %q, want Qux", got)
	}

	screen := render(t, v)
	if !screenContainsText(screen, "submit: ready") || !screenContainsText(screen, "< Foo >") {
		t.Error("form should show the selected node and an enabled submit")
	}

	press(t, v, "s")
	node, _ := deps.Canvas.GetCanvasInfo().FindNode("n1")
	if node.Label != "Qux" {
		t.Errorf("canvas label = %q, want Qux", node.Label)
	}
	if journal := deps.Panel.Journal(); len(journal) != 1 || journal[0].Target != "n1" {
		t.Errorf("journal = %+v", journal)
	}
	// The node list is refreshed after a label change
	if got := deps.Panel.State().Nodes[0].Label; got != "Qux" {
		t.Errorf("refreshed node list label = %q, want Qux", got)
	}
}

func TestAPIPanelView_DropdownCycles(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())
	chooseOperation(t, v, apipanel.OpSetNodeLabel)

	press(t, v, "l")
	if s := deps.Panel.State(); s.NodeID != "n2" || s.NewLabel != "Bar" {
		t.Errorf("after l: node=%q label=%q, want n2/Bar", s.NodeID, s.NewLabel)
	}
	press(t, v, "l")
	if got := deps.Panel.State().NodeID; got != "n1" {
		t.Errorf("dropdown should wrap, got %q", got)
	}
	press(t, v, "h")
	if got := deps.Panel.State().NodeID; got != "n2" {
		t.Errorf("after h: node=%q, want n2", got)
	}
}

func TestAPIPanelView_EmptyCanvasDisablesForm(t *testing.T) {
	v, deps := newTestPanelView(t, canvas.PipelineFlow{DocType: "pipeline", Version: "3.0", ID: "empty"})
	chooseOperation(t, v, apipanel.OpSetNodeLabel)

	screen := render(t, v)
	if !screenContainsText(screen, "(none)") || !screenContainsText(screen, "(disabled)") {
		t.Error("an empty node list should render as a disabled dropdown and submit")
	}

	press(t, v, "s")
	if len(deps.Panel.Journal()) != 0 {
		t.Error("disabled submit must not dispatch")
	}
	if !screenContainsText(render(t, v), "submit is disabled") {
		t.Error("status bar should explain the disabled submit")
	}
}

func TestAPIPanelView_EditEscapeCancels(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())
	chooseOperation(t, v, apipanel.OpSetNodeLabel)

	press(t, v, "j", "Enter")
	typeText(t, v, "zzz")
	press(t, v, "Escape")

	if v.Editing() {
		t.Error("Escape should leave insert mode")
	}
	if got := deps.Panel.State().NewLabel; got != "Foo" {
		t.Errorf("NewLabel = %q, want unchanged Foo", got)
	}
}

func TestAPIPanelView_NotificationMessage(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())
	chooseOperation(t, v, apipanel.OpAddNotificationMessage)

	// Type, Title, Subtitle, Content
	press(t, v, "l")
	press(t, v, "j", "j", "j", "Enter")
	typeText(t, v, "hello")
	press(t, v, "Enter")

	// Timestamp toggle, then Dismiss
	press(t, v, "j", " ", "j", "j", "j", "Enter")

	s := deps.Panel.State()
	if s.Message.Type != canvas.MessageSuccess || s.Message.Content != "hello" {
		t.Fatalf("message fields = %+v", s.Message)
	}
	if !s.Message.AppendTimestamp || !s.Message.CloseMessage || s.Message.AppendLink {
		t.Fatalf("message toggles = %+v", s.Message)
	}

	press(t, v, "s")
	msgs := deps.Canvas.NotificationMessages()
	if len(msgs) != 1 {
		t.Fatalf("canvas has %d messages, want 1", len(msgs))
	}
	if msgs[0].ID != "harness-message-0" || msgs[0].Timestamp == nil || *msgs[0].Timestamp != "2024-05-01 12:30:00" {
		t.Errorf("message = %+v", msgs[0])
	}

	press(t, v, "c")
	if len(deps.Canvas.NotificationMessages()) != 0 {
		t.Error("c should clear notification messages")
	}
}

func TestAPIPanelView_ZoomUsesConfiguredOffsets(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())
	if err := deps.Settings.UpdatePropertyValue("use_zoom_offsets", true); err != nil {
		t.Fatal(err)
	}
	if err := deps.Settings.UpdatePropertyValue("zoom_x_offset", 25.0); err != nil {
		t.Fatal(err)
	}

	chooseOperation(t, v, apipanel.OpZoomToRevealNode)
	s := deps.Panel.State()
	if s.XOffset != "25" || s.YOffset != "50" {
		t.Errorf("offsets = %q/%q, want 25/50", s.XOffset, s.YOffset)
	}
	if s.ZoomObject == "" {
		t.Fatal("zoom target should be computed when offsets are given")
	}

	press(t, v, "s")
	if got := deps.Canvas.Highlighted(); len(got) != 1 || got[0] != "n1" {
		t.Errorf("Highlighted() = %v, want [n1]", got)
	}
}

func TestAPIPanelView_CopyFlow(t *testing.T) {
	var copied string
	orig := copyToClipboard
	t.Cleanup(func() { copyToClipboard = orig })
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}

	v, _ := newTestPanelView(t, testFlow())
	press(t, v, "y")
	if !strings.Contains(copied, `"doc_type": "pipeline"`) {
		t.Errorf("copied text = %q", copied)
	}

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	press(t, v, "y")
	if v.LastError() == nil || !strings.Contains(v.LastError().Error(), "no clipboard") {
		t.Errorf("LastError() = %v", v.LastError())
	}
}

func TestAPIPanelView_RefreshPipelineFlow(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())
	chooseOperation(t, v, apipanel.OpSetPipelineFlow)

	press(t, v, "Enter", "Backspace")
	press(t, v, "Enter")
	if apipanel.Ready(deps.Panel.State()) {
		t.Fatal("truncated JSON should not be ready")
	}

	press(t, v, "r")
	if !apipanel.Ready(deps.Panel.State()) {
		t.Error("r should reload a valid pipeline flow")
	}
}

func TestSummarize(t *testing.T) {
	if got := summarize("one line"); got != "one line" {
		t.Errorf("summarize() = %q", got)
	}
	if got := summarize("{\n  \"a\": 1\n}"); got != "{ ... (3 lines)" {
		t.Errorf("summarize() = %q", got)
	}
}

func TestAPIPanelView_ListsFollowCanvasUndo(t *testing.T) {
	v, deps := newTestPanelView(t, testFlow())
	cv := NewCanvasView(deps.Canvas, deps.Panel, deps.Settings)

	ring := NewViewRing()
	for _, view := range []View{v, cv} {
		if err := ring.Add(view); err != nil {
			t.Fatalf("Add(%s) error = %v", view.Name(), err)
		}
	}
	if err := ring.Start("panel"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	chooseOperation(t, v, apipanel.OpSetNodeLabel)
	for _, ev := range []apipanel.Event{apipanel.EditLabel{Text: "Renamed"}, apipanel.SubmitPressed{}} {
		if err := deps.Panel.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%T) error = %v", ev, err)
		}
	}

	if err := ring.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	press(t, cv, "u")
	if err := ring.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	s := deps.Panel.State()
	want := apipanel.SelectableItem{Label: "Foo", Value: "n1"}
	if len(s.Nodes) == 0 || s.Nodes[0] != want {
		t.Fatalf("Nodes = %v, want first entry %v", s.Nodes, want)
	}
	if s.NewLabel != "Foo" {
		t.Errorf("NewLabel = %q, want Foo", s.NewLabel)
	}
	if !screenContainsText(render(t, v), "< Foo >") {
		t.Error("form should show the restored node label")
	}
}
