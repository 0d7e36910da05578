package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dshills/canvasharness/pkg/apipanel"
	harnesserrors "github.com/dshills/canvasharness/pkg/errors"
	"github.com/dshills/canvasharness/pkg/properties"
	"github.com/dshills/canvasharness/pkg/tui/components"
	"github.com/dshills/goterm"
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

type fieldKind int

const (
	fieldDropdown fieldKind = iota
	fieldText
	fieldToggle
)

// formField is one input of the operation form. The closures read the
// field out of the panel state and turn user input into panel events.
type formField struct {
	label string
	kind  fieldKind

	options func(s apipanel.State) apipanel.Selection
	value   func(s apipanel.State) string
	choose  func(value string) apipanel.Event

	edit func(text string) apipanel.Event

	flag   func(s apipanel.State) bool
	toggle func(on bool) apipanel.Event
}

func dropdown(label string, options func(apipanel.State) apipanel.Selection, value func(apipanel.State) string, choose func(string) apipanel.Event) formField {
	return formField{label: label, kind: fieldDropdown, options: options, value: value, choose: choose}
}

func textField(label string, value func(apipanel.State) string, edit func(string) apipanel.Event) formField {
	return formField{label: label, kind: fieldText, value: value, edit: edit}
}

func toggleField(label string, flag func(apipanel.State) bool, toggle func(bool) apipanel.Event) formField {
	return formField{label: label, kind: fieldToggle, flag: flag, toggle: toggle}
}

var messageTypes = apipanel.Selection{
	{Label: "info", Value: "info"},
	{Label: "success", Value: "success"},
	{Label: "warning", Value: "warning"},
	{Label: "error", Value: "error"},
}

var (
	nodeField = dropdown("Node",
		func(s apipanel.State) apipanel.Selection { return s.Nodes },
		func(s apipanel.State) string { return s.NodeID },
		func(v string) apipanel.Event { return apipanel.SelectNode{NodeID: v} })
	portField = dropdown("Port",
		func(s apipanel.State) apipanel.Selection { return s.Ports },
		func(s apipanel.State) string { return s.PortID },
		func(v string) apipanel.Event { return apipanel.SelectPort{PortID: v} })
	linkField = dropdown("Link",
		func(s apipanel.State) apipanel.Selection { return s.Links },
		func(s apipanel.State) string { return s.LinkID },
		func(v string) apipanel.Event { return apipanel.SelectLink{LinkID: v} })
	labelField = textField("Label",
		func(s apipanel.State) string { return s.NewLabel },
		func(t string) apipanel.Event { return apipanel.EditLabel{Text: t} })
	decorationsField = textField("Decorations",
		func(s apipanel.State) string { return s.Decorations },
		func(t string) apipanel.Event { return apipanel.EditDecorations{Text: t} })
	xOffsetField = textField("X offset %",
		func(s apipanel.State) string { return s.XOffset },
		func(t string) apipanel.Event { return apipanel.EditZoomOffset{Axis: apipanel.AxisX, Text: t} })
	yOffsetField = textField("Y offset %",
		func(s apipanel.State) string { return s.YOffset },
		func(t string) apipanel.Event { return apipanel.EditZoomOffset{Axis: apipanel.AxisY, Text: t} })
	zoomField = textField("Zoom",
		func(s apipanel.State) string { return s.ZoomObject },
		func(t string) apipanel.Event { return apipanel.EditZoomObject{Text: t} })
)

func messageText(label string, field apipanel.MessageField, get func(apipanel.MessageFields) string) formField {
	return textField(label,
		func(s apipanel.State) string { return get(s.Message) },
		func(t string) apipanel.Event { return apipanel.EditMessage{Field: field, Text: t} })
}

func messageToggle(label string, flag apipanel.MessageFlag, get func(apipanel.MessageFields) bool) formField {
	return toggleField(label,
		func(s apipanel.State) bool { return get(s.Message) },
		func(on bool) apipanel.Event { return apipanel.ToggleMessage{Flag: flag, On: on} })
}

// formFor returns the inputs shown for op, in display order
func formFor(op apipanel.Operation) []formField {
	switch op {
	case apipanel.OpSetPipelineFlow:
		return []formField{
			textField("Pipeline flow",
				func(s apipanel.State) string { return s.PipelineFlow },
				func(t string) apipanel.Event { return apipanel.EditPipelineFlow{Text: t} }),
		}
	case apipanel.OpAddPaletteItem:
		return []formField{
			textField("Node template",
				func(s apipanel.State) string { return s.PaletteItem },
				func(t string) apipanel.Event { return apipanel.EditPaletteItem{Text: t} }),
			textField("Category id",
				func(s apipanel.State) string { return s.CategoryID },
				func(t string) apipanel.Event { return apipanel.EditCategoryID{Text: t} }),
			textField("Category name",
				func(s apipanel.State) string { return s.CategoryName },
				func(t string) apipanel.Event { return apipanel.EditCategoryName{Text: t} }),
		}
	case apipanel.OpSetNodeLabel:
		return []formField{nodeField, labelField}
	case apipanel.OpSetInputPortLabel, apipanel.OpSetOutputPortLabel:
		return []formField{nodeField, portField, labelField}
	case apipanel.OpSetNodeDecorations:
		return []formField{nodeField, decorationsField}
	case apipanel.OpSetLinkDecorations:
		return []formField{linkField, decorationsField}
	case apipanel.OpAddNotificationMessage:
		return []formField{
			dropdown("Type",
				func(apipanel.State) apipanel.Selection { return messageTypes },
				func(s apipanel.State) string { return string(s.Message.Type) },
				func(v string) apipanel.Event {
					return apipanel.EditMessage{Field: apipanel.FieldMessageType, Text: v}
				}),
			messageText("Title", apipanel.FieldMessageTitle, func(m apipanel.MessageFields) string { return m.Title }),
			messageText("Subtitle", apipanel.FieldMessageSubtitle, func(m apipanel.MessageFields) string { return m.Subtitle }),
			messageText("Content", apipanel.FieldMessageContent, func(m apipanel.MessageFields) string { return m.Content }),
			messageToggle("Timestamp", apipanel.FlagTimestamp, func(m apipanel.MessageFields) bool { return m.AppendTimestamp }),
			messageToggle("Callback", apipanel.FlagCallback, func(m apipanel.MessageFields) bool { return m.AttachCallback }),
			messageToggle("Link", apipanel.FlagLink, func(m apipanel.MessageFields) bool { return m.AppendLink }),
			messageToggle("Dismiss", apipanel.FlagDismiss, func(m apipanel.MessageFields) bool { return m.CloseMessage }),
		}
	case apipanel.OpZoomToRevealNode:
		return []formField{nodeField, xOffsetField, yOffsetField, zoomField}
	case apipanel.OpZoomToRevealLink:
		return []formField{linkField, xOffsetField, yOffsetField, zoomField}
	}
	return nil
}

type focusArea int

const (
	focusOperations focusArea = iota
	focusForm
)

const operationsWidth = 30

// APIPanelView drives an apipanel.Panel from the keyboard: pick an
// operation on the left, fill in its form on the right, submit with s.
type APIPanelView struct {
	panel    *apipanel.Panel
	settings properties.Controller

	ops         []apipanel.Operation
	opCursor    int
	fieldCursor int
	focus       focusArea

	editing bool
	buffer  []rune

	notice  string
	lastErr error
	active  bool

	opsPanel     *components.Panel
	formPanel    *components.Panel
	previewPanel *components.Panel
	statusBar    *components.StatusBar
}

// NewAPIPanelView creates the view. settings may be nil.
func NewAPIPanelView(panel *apipanel.Panel, settings properties.Controller) *APIPanelView {
	return &APIPanelView{
		panel:        panel,
		settings:     settings,
		ops:          apipanel.Operations(),
		opsPanel:     components.NewPanel("Operations", 0, 0, operationsWidth, 10),
		formPanel:    components.NewPanel("Form", operationsWidth, 0, 40, 10),
		previewPanel: components.NewPanel("Value", operationsWidth, 10, 40, 10),
		statusBar:    components.NewStatusBar(0, 0),
	}
}

// Name returns the view identifier
func (v *APIPanelView) Name() string { return "panel" }

// Init re-derives the panel lists from the current canvas
func (v *APIPanelView) Init() error {
	if v.panel.State().Operation != apipanel.OpNone {
		v.dispatch(apipanel.RefreshLists{})
	}
	return nil
}

// Cleanup leaves insert mode
func (v *APIPanelView) Cleanup() error {
	v.editing = false
	v.buffer = nil
	return nil
}

// IsActive returns whether this view is currently active
func (v *APIPanelView) IsActive() bool { return v.active }

// SetActive updates the active state of the view
func (v *APIPanelView) SetActive(active bool) { v.active = active }

// Editing reports whether a text field is being edited
func (v *APIPanelView) Editing() bool { return v.editing }

// Panel returns the driven panel
func (v *APIPanelView) Panel() *apipanel.Panel { return v.panel }

// LastError returns the error of the most recent failed action
func (v *APIPanelView) LastError() error { return v.lastErr }

// Help lists the view's keys
func (v *APIPanelView) Help() []string {
	return []string{
		"j/k      move",
		"Enter    select operation / edit field",
		"h/l      cycle dropdown",
		"space    toggle",
		"Esc      back to operations",
		"s        submit",
		"r        reload pipeline flow",
		"y        copy pipeline flow",
		"c        clear notification messages",
	}
}

func (v *APIPanelView) fields() []formField {
	return formFor(v.panel.State().Operation)
}

// HandleKey processes keyboard input events
func (v *APIPanelView) HandleKey(event KeyEvent) error {
	if v.editing {
		v.handleEditKey(event)
		return nil
	}

	switch event.String() {
	case "j", "Down":
		v.move(1)
	case "k", "Up":
		v.move(-1)
	case "Enter":
		v.activate()
	case "h", "Left":
		v.cycle(-1)
	case "l", "Right":
		v.cycle(1)
	case " ":
		v.toggle()
	case "Escape":
		v.focus = focusOperations
	case "s":
		v.submit()
	case "r":
		if v.panel.State().Operation == apipanel.OpSetPipelineFlow {
			v.dispatch(apipanel.RefreshPipelineFlow{})
		}
	case "y":
		v.copyFlow()
	case "c":
		if v.dispatch(apipanel.ClearMessages{}) {
			v.notice = "notification messages cleared"
		}
	default:
		v.previewPanel.HandleKey(event.String())
	}
	return nil
}

func (v *APIPanelView) handleEditKey(event KeyEvent) {
	switch {
	case event.IsSpecial && event.Special == "Enter":
		v.editing = false
		fields := v.fields()
		if v.fieldCursor < len(fields) {
			v.dispatch(fields[v.fieldCursor].edit(string(v.buffer)))
		}
		v.buffer = nil
	case event.IsSpecial && event.Special == "Escape":
		v.editing = false
		v.buffer = nil
	case event.IsSpecial && event.Special == "Backspace":
		if len(v.buffer) > 0 {
			v.buffer = v.buffer[:len(v.buffer)-1]
		}
	case isPrintable(event):
		v.buffer = append(v.buffer, event.Key)
	}
}

func (v *APIPanelView) move(delta int) {
	if v.focus == focusOperations {
		v.opCursor = clamp(v.opCursor+delta, 0, len(v.ops)-1)
		return
	}
	// The last form row is the submit button
	v.fieldCursor = clamp(v.fieldCursor+delta, 0, len(v.fields()))
}

func (v *APIPanelView) activate() {
	if v.focus == focusOperations {
		v.selectOperation(v.ops[v.opCursor])
		return
	}

	fields := v.fields()
	if v.fieldCursor >= len(fields) {
		v.submit()
		return
	}
	f := fields[v.fieldCursor]
	switch f.kind {
	case fieldDropdown:
		v.cycle(1)
	case fieldText:
		v.editing = true
		v.buffer = []rune(strings.ReplaceAll(f.value(v.panel.State()), "\n", " "))
	case fieldToggle:
		v.toggle()
	}
}

// selectOperation resets the form for op and applies the configured
// zoom offsets to the zoom operations.
func (v *APIPanelView) selectOperation(op apipanel.Operation) {
	if !v.dispatch(apipanel.SelectOperation{Operation: op}) {
		return
	}
	v.focus = focusForm
	v.fieldCursor = 0
	v.notice = op.Label()

	if v.settings == nil || (op != apipanel.OpZoomToRevealNode && op != apipanel.OpZoomToRevealLink) {
		return
	}
	x, y := properties.ReadSettings(v.settings).ZoomOffsets()
	if x != "" {
		v.dispatch(apipanel.EditZoomOffset{Axis: apipanel.AxisX, Text: x})
	}
	if y != "" {
		v.dispatch(apipanel.EditZoomOffset{Axis: apipanel.AxisY, Text: y})
	}
}

func (v *APIPanelView) cycle(delta int) {
	if v.focus != focusForm {
		return
	}
	fields := v.fields()
	if v.fieldCursor >= len(fields) || fields[v.fieldCursor].kind != fieldDropdown {
		return
	}

	f := fields[v.fieldCursor]
	s := v.panel.State()
	options := f.options(s)
	if options.IsEmpty() {
		return
	}

	idx := -1
	for i, item := range options {
		if item.Value == f.value(s) {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(options)) % len(options)
	}
	v.dispatch(f.choose(options[idx].Value))
}

func (v *APIPanelView) toggle() {
	if v.focus != focusForm {
		return
	}
	fields := v.fields()
	if v.fieldCursor >= len(fields) || fields[v.fieldCursor].kind != fieldToggle {
		return
	}
	f := fields[v.fieldCursor]
	v.dispatch(f.toggle(!f.flag(v.panel.State())))
}

func (v *APIPanelView) submit() {
	if !v.panel.Ready() {
		v.notice = "submit is disabled"
		return
	}
	op := v.panel.State().Operation
	if v.dispatch(apipanel.SubmitPressed{}) {
		v.notice = op.Label() + " dispatched"
	}
}

func (v *APIPanelView) copyFlow() {
	data, err := json.MarshalIndent(v.panel.Canvas().GetPipelineFlow(), "", "  ")
	if err == nil {
		err = copyToClipboard(string(data))
	}
	if err != nil {
		v.lastErr = fmt.Errorf("copy pipeline flow: %w", err)
		return
	}
	v.lastErr = nil
	v.notice = "pipeline flow copied"
}

// dispatch applies ev and records the outcome for the status bar
func (v *APIPanelView) dispatch(ev apipanel.Event) bool {
	if err := v.panel.Dispatch(ev); err != nil {
		log.Printf("tui: %T: %v", ev, err)
		v.lastErr = err
		if errors.Is(err, apipanel.ErrNotReady) {
			v.notice = "submit is disabled"
		}
		return false
	}
	v.lastErr = nil
	return true
}

// Render draws the view to the screen
func (v *APIPanelView) Render(screen *goterm.Screen) error {
	width, height := screen.Size()
	if width < operationsWidth+20 || height < 8 {
		screen.DrawText(0, 0, "terminal too small", goterm.ColorDefault(), goterm.ColorDefault(), goterm.StyleBold)
		return nil
	}

	s := v.panel.State()
	formWidth := width - operationsWidth
	formHeight := (height - 1) / 2

	v.opsPanel.SetBounds(0, 0, operationsWidth, height-1)
	v.opsPanel.SetFocused(v.focus == focusOperations)
	v.opsPanel.SetContent(v.operationLines(s))
	v.opsPanel.SetCursor(v.opCursor)
	v.opsPanel.Render(screen)

	v.formPanel.SetBounds(operationsWidth, 0, formWidth, formHeight)
	v.formPanel.SetFocused(v.focus == focusForm)
	v.formPanel.SetTitle(formTitle(s.Operation))
	v.formPanel.SetContent(v.formLines(s))
	if v.focus == focusForm {
		v.formPanel.SetCursor(v.fieldCursor)
	} else {
		v.formPanel.SetCursor(-1)
	}
	v.formPanel.Render(screen)

	title, lines := v.preview(s)
	v.previewPanel.SetBounds(operationsWidth, formHeight, formWidth, height-1-formHeight)
	v.previewPanel.SetTitle(title)
	v.previewPanel.SetLines(lines)
	v.previewPanel.Render(screen)

	v.renderStatus(screen, width, height)
	return nil
}

func formTitle(op apipanel.Operation) string {
	if op == apipanel.OpNone {
		return "Form"
	}
	return op.Label()
}

func (v *APIPanelView) operationLines(s apipanel.State) []components.Line {
	lines := make([]components.Line, len(v.ops))
	for i, op := range v.ops {
		if op == s.Operation {
			lines[i] = components.Styled("● "+op.Label(), colorAccent, goterm.StyleBold)
		} else {
			lines[i] = components.Plain("  " + op.Label())
		}
	}
	return lines
}

func (v *APIPanelView) formLines(s apipanel.State) []components.Line {
	fields := formFor(s.Operation)
	if len(fields) == 0 {
		return []components.Line{components.Styled("select an operation", colorMuted, goterm.StyleDim)}
	}

	lines := make([]components.Line, 0, len(fields)+1)
	for i, f := range fields {
		lines = append(lines, components.Plain(fmt.Sprintf("%-14s %s", f.label+":", v.display(f, s, i))))
	}

	if apipanel.Ready(s) {
		lines = append(lines, components.Styled("[ Submit ]", colorReady, goterm.StyleBold))
	} else {
		lines = append(lines, components.Styled("[ Submit ] (disabled)", colorMuted, goterm.StyleDim))
	}
	return lines
}

func (v *APIPanelView) display(f formField, s apipanel.State, row int) string {
	switch f.kind {
	case fieldDropdown:
		options := f.options(s)
		if options.IsEmpty() {
			return "(none)"
		}
		for _, item := range options {
			if item.Value == f.value(s) {
				return "< " + item.Label + " >"
			}
		}
		return "< select >"

	case fieldToggle:
		if f.flag(s) {
			return "[x]"
		}
		return "[ ]"
	}

	if v.editing && row == v.fieldCursor {
		return string(v.buffer) + "_"
	}
	return summarize(f.value(s))
}

// summarize shortens multi-line text to its first line
func summarize(text string) string {
	first, rest, multi := strings.Cut(text, "\n")
	if !multi {
		return text
	}
	return fmt.Sprintf("%s ... (%d lines)", first, strings.Count(rest, "\n")+2)
}

func (v *APIPanelView) preview(s apipanel.State) (string, []string) {
	if v.focus == focusOperations {
		op := v.ops[v.opCursor]
		return op.Label(), []string{"Submit enabled when: " + op.Rule()}
	}

	fields := formFor(s.Operation)
	if v.fieldCursor >= len(fields) {
		return "Submit", []string{
			"Submit enabled when: " + s.Operation.Rule(),
			"Target: " + s.Target(),
		}
	}

	f := fields[v.fieldCursor]
	if f.kind != fieldText {
		return f.label, nil
	}
	text := f.value(s)
	if v.editing {
		text = string(v.buffer)
	}
	return f.label, strings.Split(text, "\n")
}

func (v *APIPanelView) renderStatus(screen *goterm.Screen, width, height int) {
	mode := string(ModeNormal)
	if v.editing {
		mode = string(ModeInsert)
	}

	left := v.notice
	if v.lastErr != nil {
		left = "error: " + harnesserrors.Describe(v.lastErr)
	}
	right := "submit: disabled"
	if v.panel.Ready() {
		right = "submit: ready"
	}

	v.statusBar.SetPosition(height-1, width)
	v.statusBar.SetMode(mode)
	v.statusBar.SetText(left, right)
	v.statusBar.Render(screen)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
