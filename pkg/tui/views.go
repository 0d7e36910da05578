package tui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/goterm"
)

// View is one full-screen page of the TUI
type View interface {
	Name() string
	// Init runs each time the view becomes current
	Init() error
	// Cleanup runs when another view takes over
	Cleanup() error
	HandleKey(event KeyEvent) error
	Render(screen *goterm.Screen) error
	IsActive() bool
	SetActive(active bool)
}

var errNotStarted = errors.New("view ring not started")

// ViewRing holds the views in the order Tab visits them. At most one is
// current; before Start none is.
type ViewRing struct {
	mu      sync.Mutex
	views   []View
	current int
}

// NewViewRing creates an empty ring
func NewViewRing() *ViewRing {
	return &ViewRing{current: -1}
}

// Add appends a view. Names must be unique and non-empty.
func (r *ViewRing) Add(view View) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case view == nil:
		return fmt.Errorf("cannot add nil view")
	case view.Name() == "":
		return fmt.Errorf("view name cannot be empty")
	case r.indexOf(view.Name()) >= 0:
		return fmt.Errorf("view %q already added", view.Name())
	}
	r.views = append(r.views, view)
	return nil
}

// Start makes the named view current. It can only be called once until Stop.
func (r *ViewRing) Start(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current >= 0 {
		return fmt.Errorf("view ring already started")
	}
	return r.show(name)
}

// Show makes the named view current
func (r *ViewRing) Show(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current < 0 {
		return errNotStarted
	}
	return r.show(name)
}

// Next moves to the view after the current one, wrapping at the end
func (r *ViewRing) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current < 0 {
		return errNotStarted
	}
	return r.move((r.current + 1) % len(r.views))
}

func (r *ViewRing) show(name string) error {
	i := r.indexOf(name)
	if i < 0 {
		return fmt.Errorf("view %q not found", name)
	}
	return r.move(i)
}

// move switches to views[i]. If the new view fails to Init the previous
// one is restored.
func (r *ViewRing) move(i int) error {
	if i == r.current {
		return nil
	}

	prev := r.current
	if prev >= 0 {
		old := r.views[prev]
		if err := old.Cleanup(); err != nil {
			return fmt.Errorf("failed to leave view %q: %w", old.Name(), err)
		}
		old.SetActive(false)
	}

	next := r.views[i]
	if err := next.Init(); err != nil {
		if prev >= 0 {
			_ = r.views[prev].Init()
			r.views[prev].SetActive(true)
		}
		return fmt.Errorf("failed to enter view %q: %w", next.Name(), err)
	}
	next.SetActive(true)
	r.current = i
	return nil
}

func (r *ViewRing) indexOf(name string) int {
	for i, v := range r.views {
		if v.Name() == name {
			return i
		}
	}
	return -1
}

// Current returns the current view, or nil before Start
func (r *ViewRing) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current < 0 {
		return nil
	}
	return r.views[r.current]
}

// Names returns the view names in ring order
func (r *ViewRing) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.views))
	for i, v := range r.views {
		names[i] = v.Name()
	}
	return names
}

// Stop cleans up the current view and leaves the ring unstarted
func (r *ViewRing) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current < 0 {
		return nil
	}
	view := r.views[r.current]
	r.current = -1
	view.SetActive(false)
	if err := view.Cleanup(); err != nil {
		return fmt.Errorf("failed to leave view %q: %w", view.Name(), err)
	}
	return nil
}
