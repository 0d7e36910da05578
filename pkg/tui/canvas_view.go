package tui

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/properties"
	"github.com/dshills/canvasharness/pkg/tui/components"
	"github.com/dshills/goterm"
)

// CanvasView shows what the canvas controller currently holds: the
// pipeline flow, zoom and highlight, palette, notification messages and
// the diff left by the last dispatch.
type CanvasView struct {
	canvas   *canvas.MemoryController
	panel    *apipanel.Panel
	settings properties.Controller

	notice string
	active bool

	flowPanel    *components.Panel
	sidePanel    *components.Panel
	journalPanel *components.Panel
	statusBar    *components.StatusBar
}

// NewCanvasView creates the view. settings may be nil.
func NewCanvasView(ctrl *canvas.MemoryController, panel *apipanel.Panel, settings properties.Controller) *CanvasView {
	return &CanvasView{
		canvas:       ctrl,
		panel:        panel,
		settings:     settings,
		flowPanel:    components.NewPanel("Pipeline flow", 0, 0, 40, 10),
		sidePanel:    components.NewPanel("Canvas", 40, 0, 40, 10),
		journalPanel: components.NewPanel("Last dispatch", 0, 10, 80, 10),
		statusBar:    components.NewStatusBar(0, 0),
	}
}

// Name returns the view identifier
func (v *CanvasView) Name() string { return "canvas" }

// Init prepares the view for display
func (v *CanvasView) Init() error { return nil }

// Cleanup releases resources when view is deactivated
func (v *CanvasView) Cleanup() error { return nil }

// IsActive returns whether this view is currently active
func (v *CanvasView) IsActive() bool { return v.active }

// SetActive updates the active state of the view
func (v *CanvasView) SetActive(active bool) { v.active = active }

// Help lists the view's keys
func (v *CanvasView) Help() []string {
	return []string{
		"u        undo pipeline flow change",
		"U        redo pipeline flow change",
		"j/k      scroll pipeline flow",
		"PgUp/Dn  scroll last dispatch",
	}
}

// HandleKey processes keyboard input events
func (v *CanvasView) HandleKey(event KeyEvent) error {
	switch event.String() {
	case "u":
		v.report("undo", v.canvas.Undo())
	case "U":
		v.report("redo", v.canvas.Redo())
	case "j", "Down":
		v.flowPanel.ScrollDown(1)
	case "k", "Up":
		v.flowPanel.ScrollUp(1)
	default:
		v.journalPanel.HandleKey(event.String())
	}
	return nil
}

func (v *CanvasView) report(action string, err error) {
	if err != nil {
		log.Printf("tui: %s: %v", action, err)
		v.notice = fmt.Sprintf("%s: %v", action, err)
		return
	}
	v.notice = action + " done"
}

// Render draws the view to the screen
func (v *CanvasView) Render(screen *goterm.Screen) error {
	width, height := screen.Size()
	if width < 40 || height < 8 {
		screen.DrawText(0, 0, "terminal too small", goterm.ColorDefault(), goterm.ColorDefault(), goterm.StyleBold)
		return nil
	}

	left := width / 2
	top := (height - 1) * 2 / 3

	v.flowPanel.SetBounds(0, 0, left, top)
	v.flowPanel.SetContent(v.flowLines())
	v.flowPanel.Render(screen)

	v.sidePanel.SetBounds(left, 0, width-left, top)
	v.sidePanel.SetContent(v.sideLines())
	v.sidePanel.Render(screen)

	v.journalPanel.SetBounds(0, top, width, height-1-top)
	v.journalPanel.SetContent(v.journalLines())
	v.journalPanel.Render(screen)

	undo := "undo:-"
	if v.canvas.CanUndo() {
		undo = "undo:u"
	}
	redo := "redo:-"
	if v.canvas.CanRedo() {
		redo = "redo:U"
	}
	v.statusBar.SetPosition(height-1, width)
	v.statusBar.SetMode("canvas")
	v.statusBar.SetText(v.notice, undo+" "+redo)
	v.statusBar.Render(screen)
	return nil
}

func (v *CanvasView) flowLines() []components.Line {
	flow := v.canvas.GetPipelineFlow()
	highlighted := v.canvas.Highlighted()
	labels := make(map[string]string, len(flow.Nodes)+len(flow.Comments))

	lines := []components.Line{components.Styled(fmt.Sprintf("flow %s (%s %s)", flow.ID, flow.DocType, flow.Version), colorMuted, goterm.StyleDim)}

	for _, n := range flow.Nodes {
		labels[n.ID] = n.Label
		lines = append(lines, objectLine(fmt.Sprintf("node %s %q @ %g,%g", n.ID, n.Label, n.X, n.Y), slices.Contains(highlighted, n.ID)))
		if len(n.Inputs) > 0 {
			lines = append(lines, components.Plain("    in:  "+portSummary(n.Inputs)))
		}
		if len(n.Outputs) > 0 {
			lines = append(lines, components.Plain("    out: "+portSummary(n.Outputs)))
		}
		if len(n.Decorations) > 0 {
			lines = append(lines, components.Plain(fmt.Sprintf("    decorations: %d", len(n.Decorations))))
		}
	}

	for _, c := range flow.Comments {
		labels[c.ID] = "comment " + c.ID
		lines = append(lines, components.Plain(fmt.Sprintf("comment %s %q", c.ID, c.Content)))
	}

	for _, l := range flow.Links {
		text := fmt.Sprintf("link %s %s -> %s", l.ID, labelOr(labels, l.SrcNodeID), labelOr(labels, l.TrgNodeID))
		if len(l.Decorations) > 0 {
			text += fmt.Sprintf(" decorations: %d", len(l.Decorations))
		}
		lines = append(lines, objectLine(text, slices.Contains(highlighted, l.ID)))
	}
	return lines
}

func objectLine(text string, highlighted bool) components.Line {
	if highlighted {
		return components.Styled("* "+text, colorHighlight, goterm.StyleBold)
	}
	return components.Plain("  " + text)
}

func portSummary(ports []canvas.Port) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		if p.Label != "" {
			parts[i] = fmt.Sprintf("%s %q", p.ID, p.Label)
		} else {
			parts[i] = p.ID
		}
	}
	return strings.Join(parts, ", ")
}

func labelOr(labels map[string]string, id string) string {
	if l, ok := labels[id]; ok && l != "" {
		return l
	}
	return id
}

func (v *CanvasView) sideLines() []components.Line {
	zoom := v.canvas.Zoom()
	lines := []components.Line{
		components.Styled("Zoom", colorAccent, goterm.StyleBold),
		components.Plain(fmt.Sprintf("  x=%g y=%g k=%g", zoom.X, zoom.Y, zoom.K)),
	}

	if layout := v.paletteLayout(); layout != "none" {
		lines = append(lines, components.Styled("Palette ("+layout+")", colorAccent, goterm.StyleBold))
		for _, cat := range v.canvas.GetPaletteData() {
			lines = append(lines, components.Plain(fmt.Sprintf("  %s [%s] %d types", cat.Label, cat.ID, len(cat.NodeTypes))))
			if layout != "flyout" {
				continue
			}
			for _, t := range cat.NodeTypes {
				lines = append(lines, components.Plain(fmt.Sprintf("    %s (%s)", t.Label, t.Op)))
			}
		}
	}

	msgs := v.canvas.NotificationMessages()
	lines = append(lines, components.Styled(fmt.Sprintf("Messages (%d)", len(msgs)), colorAccent, goterm.StyleBold))
	for _, m := range msgs {
		lines = append(lines, components.Styled(messageSummary(m), messageColor(string(m.Type)), goterm.StyleNone))
	}
	return lines
}

func (v *CanvasView) paletteLayout() string {
	if v.settings == nil {
		return "flyout"
	}
	if layout := properties.ReadSettings(v.settings).PaletteLayout; layout != "" {
		return layout
	}
	return "flyout"
}

func messageSummary(m canvas.NotificationMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  [%s] ", m.Type)
	if m.Title != nil {
		sb.WriteString(*m.Title + ": ")
	}
	if m.Subtitle != nil {
		sb.WriteString("(" + *m.Subtitle + ") ")
	}
	sb.WriteString(m.Content)
	if m.Timestamp != nil {
		sb.WriteString(" @ " + *m.Timestamp)
	}
	if m.Link != nil {
		sb.WriteString(" <" + m.Link.URL + ">")
	}
	if m.CloseMessage != "" {
		sb.WriteString(" [" + m.CloseMessage + "]")
	}
	return sb.String()
}

func (v *CanvasView) journalLines() []components.Line {
	journal := v.panel.Journal()
	if len(journal) == 0 {
		return []components.Line{components.Styled("nothing dispatched yet", colorMuted, goterm.StyleDim)}
	}

	last := journal[len(journal)-1]
	lines := []components.Line{
		components.Styled(fmt.Sprintf("#%d %s %s at %s", len(journal), last.Operation.Label(), last.Target, last.At.Format("15:04:05")), colorAccent, goterm.StyleBold),
	}
	if last.FlowDiff == "" {
		return append(lines, components.Styled("pipeline flow unchanged", colorMuted, goterm.StyleDim))
	}
	for _, l := range strings.Split(strings.TrimSuffix(last.FlowDiff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(l, "+ "):
			lines = append(lines, components.Styled(l, colorReady, goterm.StyleNone))
		case strings.HasPrefix(l, "- "):
			lines = append(lines, components.Styled(l, colorDeleted, goterm.StyleNone))
		default:
			lines = append(lines, components.Plain(l))
		}
	}
	return lines
}
