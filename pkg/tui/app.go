package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/properties"
	"github.com/dshills/canvasharness/pkg/tui/components"
	"github.com/dshills/goterm"
)

const frameInterval = 16 * time.Millisecond

// Deps are the harness pieces the TUI drives
type Deps struct {
	Canvas   *canvas.MemoryController
	Panel    *apipanel.Panel
	Messages *apipanel.MessageBuilder
	Settings *properties.MemoryController
}

// editor is implemented by views with a text input mode
type editor interface {
	Editing() bool
}

// helper is implemented by views that list their own keys
type helper interface {
	Help() []string
}

// App represents the TUI application root
type App struct {
	screen    *goterm.Screen
	views     *ViewRing
	keymap    *Keymap
	deps      Deps
	showHelp  bool
	ctx       context.Context
	cancel    context.CancelFunc
	inputChan chan KeyEvent
	input     io.Reader
}

// NewApp initializes the terminal and creates the application
func NewApp(deps Deps) (*App, error) {
	screen, err := goterm.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	app, err := newApp(screen, deps)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return app, nil
}

// newApp builds the application around an existing screen
func newApp(screen *goterm.Screen, deps Deps) (*App, error) {
	if deps.Canvas == nil || deps.Panel == nil || deps.Settings == nil {
		return nil, fmt.Errorf("canvas, panel and settings are required")
	}
	if deps.Messages == nil {
		deps.Messages = apipanel.NewMessageBuilder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		screen:    screen,
		views:     NewViewRing(),
		keymap:    NewKeymap(),
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		inputChan: make(chan KeyEvent, 100),
		input:     os.Stdin,
	}

	if err := app.registerViews(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to register views: %w", err)
	}
	if err := app.registerKeybindings(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to register keybindings: %w", err)
	}
	if err := app.views.Start("panel"); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start views: %w", err)
	}

	deps.Messages.ApplySettings(properties.ReadSettings(deps.Settings))
	deps.Settings.OnChange(func(string, interface{}) {
		deps.Messages.ApplySettings(properties.ReadSettings(deps.Settings))
	})
	return app, nil
}

// registerViews registers all available views
func (a *App) registerViews() error {
	views := []View{
		NewAPIPanelView(a.deps.Panel, a.deps.Settings),
		NewCanvasView(a.deps.Canvas, a.deps.Panel, a.deps.Settings),
		NewSettingsView(a.deps.Settings),
	}
	for _, view := range views {
		if err := a.views.Add(view); err != nil {
			return fmt.Errorf("failed to register %s view: %w", view.Name(), err)
		}
	}
	return nil
}

// registerKeybindings binds the application keys. Everything else goes to
// the current view.
func (a *App) registerKeybindings() error {
	quit := func() error {
		a.cancel()
		return nil
	}

	if err := a.keymap.BindGlobal("Ctrl-c", "quit", quit); err != nil {
		return err
	}
	if err := a.keymap.Bind(ModeNormal, "Tab", "next view", func() error {
		a.showHelp = false
		return a.views.Next()
	}); err != nil {
		return err
	}
	if err := a.keymap.Bind(ModeNormal, "?", "toggle help", func() error {
		a.showHelp = !a.showHelp
		return nil
	}); err != nil {
		return err
	}
	return a.keymap.Bind(ModeNormal, "q", "quit", quit)
}

// Run starts the TUI application main loop
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go a.readKeyboardInput()

	// redraw every frame so canvas changes made elsewhere show up
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	if err := a.render(); err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}

	for {
		select {
		case <-a.ctx.Done():
			return nil

		case <-sigChan:
			a.cancel()
			return nil

		case event := <-a.inputChan:
			if err := a.handleKeyEvent(event); err != nil {
				return err
			}
			if err := a.render(); err != nil {
				return err
			}

		case <-ticker.C:
			if err := a.render(); err != nil {
				return err
			}
		}
	}
}

// handleKeyEvent runs application bindings first; keys they don't claim go
// to the current view. A view in text input mode switches the handler to
// insert mode so that only global bindings apply.
func (a *App) handleKeyEvent(event KeyEvent) error {
	currentView := a.views.Current()

	mode := ModeNormal
	if ed, ok := currentView.(editor); ok && ed.Editing() {
		mode = ModeInsert
	}
	a.keymap.SetMode(mode)

	handled, err := a.keymap.Dispatch(event)
	if err != nil {
		return fmt.Errorf("keyboard handler error: %w", err)
	}
	if handled || currentView == nil {
		return nil
	}

	if err := currentView.HandleKey(event); err != nil {
		return fmt.Errorf("view key handler error: %w", err)
	}
	return nil
}

// render draws the current view to the screen
func (a *App) render() error {
	if err := a.draw(); err != nil {
		return err
	}
	if err := a.screen.Show(); err != nil {
		return fmt.Errorf("screen show failed: %w", err)
	}
	return nil
}

// draw fills the screen buffer without flushing it to the terminal
func (a *App) draw() error {
	a.screen.Clear()

	currentView := a.views.Current()
	if currentView == nil {
		return nil
	}
	if err := currentView.Render(a.screen); err != nil {
		return fmt.Errorf("view render failed: %w", err)
	}
	if a.showHelp {
		a.drawHelp(currentView)
	}
	return nil
}

func (a *App) drawHelp(view View) {
	lines := a.keymap.Help(ModeNormal)
	if h, ok := view.(helper); ok {
		lines = append(h.Help(), lines...)
	}

	width, height := a.screen.Size()
	w, h := 48, len(lines)+2
	if w > width {
		w = width
	}
	if h > height {
		h = height
	}
	help := components.NewPanel("Keys: "+view.Name(), (width-w)/2, (height-h)/2, w, h)
	help.SetFocused(true)
	help.SetLines(lines)
	help.Render(a.screen)
}

// readKeyboardInput feeds decoded keys to inputChan until the context ends
// or stdin closes. goterm has already put the terminal in raw mode. Any
// other read error stops the app.
func (a *App) readKeyboardInput() {
	buf := make([]byte, 32)
	for a.ctx.Err() == nil {
		n, err := a.input.Read(buf)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.Printf("tui: read input: %v", err)
			a.cancel()
			return
		}
		if n == 0 {
			continue
		}

		select {
		case a.inputChan <- parseKeyInput(buf[:n]):
		case <-a.ctx.Done():
		}
	}
}

// csiKeys maps the final byte of an ESC [ sequence to its key name
var csiKeys = map[byte]string{
	'A': "Up",
	'B': "Down",
	'C': "Right",
	'D': "Left",
	'H': "Home",
	'F': "End",
	'5': "PageUp",
	'6': "PageDown",
}

// controlKeys are the control bytes with names of their own
var controlKeys = map[byte]KeyEvent{
	9:   {Key: '\t', IsSpecial: true, Special: "Tab"},
	13:  {IsSpecial: true, Special: "Enter"},
	8:   {IsSpecial: true, Special: "Backspace"},
	127: {IsSpecial: true, Special: "Backspace"},
}

// parseKeyInput decodes one read from the raw terminal
func parseKeyInput(buf []byte) KeyEvent {
	if len(buf) == 0 {
		return KeyEvent{}
	}

	b := buf[0]
	if b == 27 {
		if len(buf) > 2 && buf[1] == '[' {
			if name, ok := csiKeys[buf[2]]; ok {
				return KeyEvent{IsSpecial: true, Special: name}
			}
		}
		return KeyEvent{IsSpecial: true, Special: "Escape"}
	}
	if ev, ok := controlKeys[b]; ok {
		return ev
	}
	if b < 32 {
		// Ctrl-a is 1, Ctrl-b is 2, ...
		return KeyEvent{Key: rune('a' + b - 1), Ctrl: true}
	}

	r, _ := utf8.DecodeRune(buf)
	return KeyEvent{Key: r, Shift: unicode.IsUpper(r)}
}

// Close performs cleanup and restores terminal state
func (a *App) Close() error {
	a.cancel()

	if err := a.views.Stop(); err != nil {
		log.Printf("tui: shutdown: %v", err)
	}
	if err := a.screen.Close(); err != nil {
		return fmt.Errorf("failed to close screen: %w", err)
	}
	return nil
}

// Views returns the view ring
func (a *App) Views() *ViewRing {
	return a.views
}
