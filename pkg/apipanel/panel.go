package apipanel

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/dshills/canvasharness/pkg/canvas"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// ErrUnmounted is returned when events reach a panel after Unmount
var ErrUnmounted = errors.New("panel is not mounted")

// JournalEntry records one successful dispatch
type JournalEntry struct {
	Operation Operation
	Target    string
	At        time.Time
	// FlowDiff is a line diff of the pipeline flow before and after the
	// call, empty when the flow did not change.
	FlowDiff string
}

// Panel is one mounted API panel. It owns its state exclusively; events
// are applied one at a time by the caller's event loop.
type Panel struct {
	env     Env
	state   State
	journal []JournalEntry
	mounted bool
}

// NewPanel mounts a panel with empty state
func NewPanel(ctrl canvas.Controller, messages *MessageBuilder) *Panel {
	if messages == nil {
		messages = NewMessageBuilder()
	}
	return &Panel{
		env:     Env{Canvas: ctrl, Messages: messages},
		journal: make([]JournalEntry, 0),
		mounted: true,
	}
}

// Dispatch applies one event. On error the state is left as it was.
func (p *Panel) Dispatch(ev Event) error {
	if !p.mounted {
		return ErrUnmounted
	}

	_, submitting := ev.(SubmitPressed)
	var before string
	if submitting {
		before, _ = serializeFlow(p.env.Canvas.GetPipelineFlow())
	}

	next, err := Reduce(p.env, p.state, ev)
	if err != nil {
		log.Printf("apipanel: %T failed: %v", ev, err)
		return err
	}

	if submitting {
		after, _ := serializeFlow(p.env.Canvas.GetPipelineFlow())
		p.journal = append(p.journal, JournalEntry{
			Operation: p.state.Operation,
			Target:    p.state.Target(),
			At:        time.Now(),
			FlowDiff:  lineDiff(before, after),
		})
		log.Printf("apipanel: dispatched %s target=%q", p.state.Operation, p.state.Target())
	}

	p.state = next
	return nil
}

// State returns the current panel state
func (p *Panel) State() State {
	return p.state
}

// Ready reports whether Submit is enabled
func (p *Panel) Ready() bool {
	return Ready(p.state)
}

// Journal returns the dispatches made so far
func (p *Panel) Journal() []JournalEntry {
	return append([]JournalEntry(nil), p.journal...)
}

// Canvas returns the controller the panel drives
func (p *Panel) Canvas() canvas.Controller {
	return p.env.Canvas
}

// Unmount discards the panel state; later events fail with ErrUnmounted
func (p *Panel) Unmount() {
	p.state = State{}
	p.journal = nil
	p.mounted = false
}

// lineDiff renders a unified-style line diff; unchanged lines are dropped
func lineDiff(before, after string) string {
	if before == after {
		return ""
	}

	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, df := range diffs {
		var prefix string
		switch df.Type {
		case dmp.DiffDelete:
			prefix = "- "
		case dmp.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(df.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
