package apipanel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dshills/canvasharness/pkg/canvas"
	harnesserrors "github.com/dshills/canvasharness/pkg/errors"
)

// ErrNotReady is returned when Submit is called before the operation's
// fields satisfy its readiness rule.
var ErrNotReady = errors.New("operation is not ready to submit")

// Env is what the panel reads and drives besides its own state
type Env struct {
	Canvas   canvas.Controller
	Messages *MessageBuilder
}

// Submit sends the operation held in s to the canvas controller, then
// re-derives any pick-list the mutation may have invalidated. Controller
// errors are returned wrapped, not handled.
func Submit(env Env, s State) (State, error) {
	if !Ready(s) {
		return s, ErrNotReady
	}

	d := descriptors[s.Operation]
	if err := d.dispatch(env, s); err != nil {
		return s, harnesserrors.NewOperationalError(string(s.Operation), s.Target(), err)
	}

	return refreshLists(env, s), nil
}

func dispatchPipelineFlow(env Env, s State) error {
	var flow canvas.PipelineFlow
	if err := json.Unmarshal([]byte(s.PipelineFlow), &flow); err != nil {
		return fmt.Errorf("failed to decode pipeline flow: %w", err)
	}
	return env.Canvas.SetPipelineFlow(flow)
}

func dispatchPaletteItem(env Env, s State) error {
	var tmpl canvas.NodeTemplate
	if err := json.Unmarshal([]byte(s.PaletteItem), &tmpl); err != nil {
		return fmt.Errorf("failed to decode palette item: %w", err)
	}
	return env.Canvas.AddNodeTypeToPalette(tmpl, s.CategoryID, s.CategoryName)
}

func dispatchNodeLabel(env Env, s State) error {
	return env.Canvas.SetNodeLabel(s.NodeID, s.NewLabel)
}

func dispatchPortLabel(env Env, s State) error {
	dir := descriptors[s.Operation].direction
	return env.Canvas.SetPortLabel(s.NodeID, s.PortID, s.NewLabel, dir)
}

func dispatchNodeDecorations(env Env, s State) error {
	return env.Canvas.SetNodeDecorations(s.NodeID, s.Decorations)
}

func dispatchLinkDecorations(env Env, s State) error {
	return env.Canvas.SetLinkDecorations(s.LinkID, s.Decorations)
}

func dispatchMessage(env Env, s State) error {
	msg := env.Messages.Build(s.Message)
	return env.Canvas.AppendNotificationMessages([]canvas.NotificationMessage{msg})
}

func dispatchZoomNode(env Env, s State) error {
	zoom, err := decodeZoom(s.ZoomObject)
	if err != nil {
		return err
	}
	return env.Canvas.ZoomCanvasForObj(zoom, s.NodeID)
}

func dispatchZoomLink(env Env, s State) error {
	zoom, err := decodeZoom(s.ZoomObject)
	if err != nil {
		return err
	}
	return env.Canvas.ZoomCanvasForLink(zoom, s.LinkID)
}

func decodeZoom(text string) (canvas.ZoomObject, error) {
	var zoom canvas.ZoomObject
	if err := json.Unmarshal([]byte(text), &zoom); err != nil {
		return zoom, fmt.Errorf("failed to decode zoom target: %w", err)
	}
	return zoom, nil
}
