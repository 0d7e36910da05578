package tui

import (
	"fmt"
	"sync"
	"unicode"
)

// Mode selects which layer of the keymap is live
type Mode string

const (
	ModeNormal Mode = "normal"
	// ModeInsert is active while a view edits a text field; only global
	// bindings fire
	ModeInsert Mode = "insert"
)

// KeyEvent is one decoded key press
type KeyEvent struct {
	Key       rune
	Ctrl      bool
	Shift     bool
	Alt       bool
	IsSpecial bool
	Special   string // Enter, Escape, Tab, Up, PageDown...
}

// String returns the name bindings are registered under, e.g. "j", "G",
// "Ctrl-c", "Alt-Left" or "Enter"
func (e KeyEvent) String() string {
	var mods string
	if e.Alt {
		mods += "Alt-"
	}
	if e.Ctrl {
		mods += "Ctrl-"
	}

	if e.IsSpecial {
		if e.Shift {
			mods = "Shift-" + mods
		}
		return mods + e.Special
	}

	key := e.Key
	if e.Shift && !e.Ctrl && !e.Alt {
		// Shifted letters are bound by their upper case form
		key = unicode.ToUpper(key)
	}
	return mods + string(key)
}

// isPrintable reports whether the event is a plain character for text input
func isPrintable(e KeyEvent) bool {
	return !e.IsSpecial && !e.Ctrl && !e.Alt && e.Key >= ' ' && e.Key != 127
}

// Action runs when its key is pressed
type Action func() error

type binding struct {
	key  string
	help string
	run  Action
}

// layer is the set of bindings of one mode, kept in bind order for help
type layer struct {
	index    map[string]int
	bindings []binding
}

func (l *layer) add(b binding) error {
	if _, taken := l.index[b.key]; taken {
		return fmt.Errorf("key %s is already bound", b.key)
	}
	l.index[b.key] = len(l.bindings)
	l.bindings = append(l.bindings, b)
	return nil
}

func (l *layer) lookup(key string) (binding, bool) {
	i, ok := l.index[key]
	if !ok {
		return binding{}, false
	}
	return l.bindings[i], true
}

// Keymap routes keys to application bindings. The global layer is
// consulted first, then the layer of the current mode. Keys neither claims
// belong to the active view.
type Keymap struct {
	mu     sync.Mutex
	mode   Mode
	global *layer
	modes  map[Mode]*layer
}

// NewKeymap creates an empty keymap in normal mode
func NewKeymap() *Keymap {
	return &Keymap{
		mode:   ModeNormal,
		global: newLayer(),
		modes:  map[Mode]*layer{ModeNormal: newLayer(), ModeInsert: newLayer()},
	}
}

func newLayer() *layer {
	return &layer{index: make(map[string]int)}
}

func (k *Keymap) Mode() Mode {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mode
}

func (k *Keymap) SetMode(mode Mode) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.mode = mode
}

// Bind adds a binding that fires only in mode
func (k *Keymap) Bind(mode Mode, key, help string, run Action) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.modes[mode]
	if !ok {
		return fmt.Errorf("unknown mode %q", mode)
	}
	if err := l.add(binding{key: key, help: help, run: run}); err != nil {
		return fmt.Errorf("%s mode: %w", mode, err)
	}
	return nil
}

// BindGlobal adds a binding that fires in every mode
func (k *Keymap) BindGlobal(key, help string, run Action) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.global.add(binding{key: key, help: help, run: run}); err != nil {
		return fmt.Errorf("global: %w", err)
	}
	return nil
}

// Dispatch runs the binding for ev, reporting whether one matched
func (k *Keymap) Dispatch(ev KeyEvent) (bool, error) {
	key := ev.String()

	k.mu.Lock()
	b, ok := k.global.lookup(key)
	if !ok {
		b, ok = k.modes[k.mode].lookup(key)
	}
	k.mu.Unlock()

	if !ok {
		return false, nil
	}
	// the action may change the mode
	return true, b.run()
}

// Help lists the bindings live in mode as "key  description" lines, mode
// bindings first
func (k *Keymap) Help(mode Mode) []string {
	k.mu.Lock()
	defer k.mu.Unlock()

	var lines []string
	if l, ok := k.modes[mode]; ok {
		for _, b := range l.bindings {
			lines = append(lines, fmt.Sprintf("%-8s %s", b.key, b.help))
		}
	}
	for _, b := range k.global.bindings {
		lines = append(lines, fmt.Sprintf("%-8s %s", b.key, b.help))
	}
	return lines
}
