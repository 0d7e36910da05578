package canvas

import (
	"errors"
	"time"
)

// flowSnapshot represents a point-in-time state of the pipeline flow
type flowSnapshot struct {
	Flow      PipelineFlow // Deep copy of the flow
	Timestamp time.Time    // When snapshot was created
}

// UndoStack manages undo/redo history with a bounded buffer.
// The snapshot under the cursor is always the current state.
type UndoStack struct {
	snapshots []flowSnapshot
	cursor    int // Current position (-1 if empty)
	capacity  int
}

// NewUndoStack creates a new undo stack with the specified capacity
func NewUndoStack(capacity int) *UndoStack {
	if capacity <= 0 {
		capacity = 100
	}

	return &UndoStack{
		snapshots: make([]flowSnapshot, 0, capacity),
		cursor:    -1,
		capacity:  capacity,
	}
}

// Push records a new current state.
// This clears any redo history beyond the current cursor.
func (u *UndoStack) Push(flow PipelineFlow) {
	snapshot := flowSnapshot{
		Flow:      cloneFlow(flow),
		Timestamp: time.Now(),
	}

	if u.cursor < len(u.snapshots)-1 {
		u.snapshots = u.snapshots[:u.cursor+1]
	}

	if len(u.snapshots) >= u.capacity {
		// Drop the oldest snapshot
		copy(u.snapshots, u.snapshots[1:])
		u.snapshots[len(u.snapshots)-1] = snapshot
	} else {
		u.snapshots = append(u.snapshots, snapshot)
	}
	u.cursor = len(u.snapshots) - 1
}

// Undo moves back one snapshot and returns the state to restore
func (u *UndoStack) Undo() (PipelineFlow, error) {
	if !u.CanUndo() {
		return PipelineFlow{}, errors.New("nothing to undo")
	}

	u.cursor--
	return cloneFlow(u.snapshots[u.cursor].Flow), nil
}

// Redo moves forward one snapshot and returns the state to restore
func (u *UndoStack) Redo() (PipelineFlow, error) {
	if !u.CanRedo() {
		return PipelineFlow{}, errors.New("nothing to redo")
	}

	u.cursor++
	return cloneFlow(u.snapshots[u.cursor].Flow), nil
}

// CanUndo returns true if there is a state before the current one
func (u *UndoStack) CanUndo() bool {
	return u.cursor > 0
}

// CanRedo returns true if undo has moved the cursor back
func (u *UndoStack) CanRedo() bool {
	return len(u.snapshots) > 0 && u.cursor < len(u.snapshots)-1
}

// Clear resets the undo stack
func (u *UndoStack) Clear() {
	u.snapshots = make([]flowSnapshot, 0, u.capacity)
	u.cursor = -1
}

// Size returns the current number of snapshots
func (u *UndoStack) Size() int {
	return len(u.snapshots)
}

func cloneFlow(flow PipelineFlow) PipelineFlow {
	out := flow
	out.Nodes = cloneNodes(flow.Nodes)
	out.Links = cloneLinks(flow.Links)
	if flow.Comments != nil {
		out.Comments = append([]Comment(nil), flow.Comments...)
	}
	return out
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}

	copied := make([]Node, len(nodes))
	for i, n := range nodes {
		copied[i] = n
		copied[i].Inputs = clonePorts(n.Inputs)
		copied[i].Outputs = clonePorts(n.Outputs)
		copied[i].Decorations = cloneDecorations(n.Decorations)
	}
	return copied
}

func cloneLinks(links []Link) []Link {
	if links == nil {
		return nil
	}

	copied := make([]Link, len(links))
	for i, l := range links {
		copied[i] = l
		copied[i].Decorations = cloneDecorations(l.Decorations)
	}
	return copied
}

func clonePorts(ports []Port) []Port {
	if ports == nil {
		return nil
	}
	return append([]Port(nil), ports...)
}

// cloneDecorations copies the slice and each top-level map. Nested values
// are shared; decorations are replaced wholesale, never edited in place.
func cloneDecorations(decs []Decoration) []Decoration {
	if decs == nil {
		return nil
	}

	copied := make([]Decoration, len(decs))
	for i, d := range decs {
		m := make(Decoration, len(d))
		for k, v := range d {
			m[k] = v
		}
		copied[i] = m
	}
	return copied
}
