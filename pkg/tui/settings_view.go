package tui

import (
	"fmt"
	"log"
	"strconv"

	"github.com/dshills/canvasharness/pkg/properties"
	"github.com/dshills/canvasharness/pkg/tui/components"
	"github.com/dshills/goterm"
)

// SettingsView edits a properties controller. Parameters whose
// visible_when condition is false are not listed.
type SettingsView struct {
	props *properties.MemoryController

	cursor  int
	editing bool
	buffer  []rune
	notice  string
	lastErr error
	active  bool

	listPanel *components.Panel
	infoPanel *components.Panel
	statusBar *components.StatusBar
}

// NewSettingsView creates the view
func NewSettingsView(props *properties.MemoryController) *SettingsView {
	title := props.Definition().Title
	if title == "" {
		title = "Settings"
	}
	return &SettingsView{
		props:     props,
		listPanel: components.NewPanel(title, 0, 0, 40, 10),
		infoPanel: components.NewPanel("Description", 0, 10, 40, 5),
		statusBar: components.NewStatusBar(0, 0),
	}
}

// Name returns the view identifier
func (v *SettingsView) Name() string { return "settings" }

// Init prepares the view for display
func (v *SettingsView) Init() error { return nil }

// Cleanup leaves insert mode
func (v *SettingsView) Cleanup() error {
	v.editing = false
	v.buffer = nil
	return nil
}

// IsActive returns whether this view is currently active
func (v *SettingsView) IsActive() bool { return v.active }

// SetActive updates the active state of the view
func (v *SettingsView) SetActive(active bool) { v.active = active }

// Editing reports whether a value is being typed
func (v *SettingsView) Editing() bool { return v.editing }

// Help lists the view's keys
func (v *SettingsView) Help() []string {
	return []string{
		"j/k      move",
		"Enter    edit value",
		"space    toggle",
		"h/l      cycle choice",
		"d        restore default",
	}
}

func (v *SettingsView) current() (properties.Parameter, bool) {
	params := v.props.VisibleParameters()
	if len(params) == 0 {
		return properties.Parameter{}, false
	}
	v.cursor = clamp(v.cursor, 0, len(params)-1)
	return params[v.cursor], true
}

// HandleKey processes keyboard input events
func (v *SettingsView) HandleKey(event KeyEvent) error {
	if v.editing {
		v.handleEditKey(event)
		return nil
	}

	p, ok := v.current()
	if !ok {
		return nil
	}

	switch event.String() {
	case "j", "Down":
		v.cursor = clamp(v.cursor+1, 0, len(v.props.VisibleParameters())-1)
	case "k", "Up":
		v.cursor = clamp(v.cursor-1, 0, len(v.props.VisibleParameters())-1)
	case "Enter":
		switch p.Type {
		case properties.TypeBoolean:
			v.toggle(p)
		case properties.TypeEnum:
			v.cycle(p, 1)
		default:
			v.editing = true
			v.buffer = []rune(v.valueText(p))
		}
	case " ":
		if p.Type == properties.TypeBoolean {
			v.toggle(p)
		}
	case "h", "Left":
		if p.Type == properties.TypeEnum {
			v.cycle(p, -1)
		}
	case "l", "Right":
		if p.Type == properties.TypeEnum {
			v.cycle(p, 1)
		}
	case "d":
		v.update(p.ID, nil)
	}
	return nil
}

func (v *SettingsView) handleEditKey(event KeyEvent) {
	switch {
	case event.IsSpecial && event.Special == "Enter":
		v.editing = false
		if p, ok := v.current(); ok {
			v.update(p.ID, string(v.buffer))
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

func (v *SettingsView) toggle(p properties.Parameter) {
	on, _ := v.value(p).(bool)
	v.update(p.ID, !on)
}

func (v *SettingsView) cycle(p properties.Parameter, delta int) {
	if len(p.Enum) == 0 {
		return
	}
	cur := v.valueText(p)
	idx := 0
	for i, e := range p.Enum {
		if e == cur {
			idx = (i + delta + len(p.Enum)) % len(p.Enum)
			break
		}
	}
	v.update(p.ID, p.Enum[idx])
}

func (v *SettingsView) update(id string, value interface{}) {
	if err := v.props.UpdatePropertyValue(id, value); err != nil {
		log.Printf("tui: settings: %v", err)
		v.lastErr = err
		return
	}
	v.lastErr = nil
	v.notice = id + " updated"
}

func (v *SettingsView) value(p properties.Parameter) interface{} {
	val, ok := v.props.GetPropertyValue(p.ID)
	if !ok {
		return p.Default
	}
	return val
}

func (v *SettingsView) valueText(p properties.Parameter) string {
	switch val := v.value(p).(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "[x]"
		}
		return "[ ]"
	default:
		return fmt.Sprint(val)
	}
}

// Render draws the view to the screen
func (v *SettingsView) Render(screen *goterm.Screen) error {
	width, height := screen.Size()
	if width < 30 || height < 8 {
		screen.DrawText(0, 0, "terminal too small", goterm.ColorDefault(), goterm.ColorDefault(), goterm.StyleBold)
		return nil
	}

	params := v.props.VisibleParameters()
	lines := make([]components.Line, len(params))
	for i, p := range params {
		label := p.Label
		if label == "" {
			label = p.ID
		}
		text := v.valueText(p)
		if v.editing && i == v.cursor {
			text = string(v.buffer) + "_"
		}
		if p.Type == properties.TypeEnum {
			text = "< " + text + " >"
		}
		lines[i] = components.Plain(fmt.Sprintf("%-24s %s", label+":", text))
	}

	listHeight := height - 1 - 5
	v.listPanel.SetBounds(0, 0, width, listHeight)
	v.listPanel.SetFocused(true)
	v.listPanel.SetContent(lines)
	if len(params) > 0 {
		v.listPanel.SetCursor(clamp(v.cursor, 0, len(params)-1))
	}
	v.listPanel.Render(screen)

	var info []string
	if p, ok := v.current(); ok {
		info = append(info, p.Description)
		if p.VisibleWhen != "" {
			info = append(info, "shown when: "+p.VisibleWhen)
		}
	}
	v.infoPanel.SetBounds(0, listHeight, width, 5)
	v.infoPanel.SetLines(info)
	v.infoPanel.Render(screen)

	mode := string(ModeNormal)
	if v.editing {
		mode = string(ModeInsert)
	}
	left := v.notice
	if v.lastErr != nil {
		left = "error: " + v.lastErr.Error()
	}
	v.statusBar.SetPosition(height-1, width)
	v.statusBar.SetMode(mode)
	v.statusBar.SetText(left, fmt.Sprintf("%d settings", len(params)))
	v.statusBar.Render(screen)
	return nil
}
