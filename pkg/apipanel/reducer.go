package apipanel

import (
	"fmt"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/tidwall/gjson"
)

// Event is a discrete user input on the panel
type Event interface {
	isEvent()
}

// SelectOperation picks a new operation and resets all operation fields
type SelectOperation struct{ Operation Operation }

// SelectNode picks a node from the node list
type SelectNode struct{ NodeID string }

// SelectPort picks a port from the port list
type SelectPort struct{ PortID string }

// SelectLink picks a link from the link list
type SelectLink struct{ LinkID string }

// RefreshLists re-derives the pick-lists after the canvas changed outside
// the panel
type RefreshLists struct{}

// EditLabel changes the label text field
type EditLabel struct{ Text string }

// EditDecorations changes the decorations text field
type EditDecorations struct{ Text string }

// EditPipelineFlow changes the pipeline flow text field
type EditPipelineFlow struct{ Text string }

// RefreshPipelineFlow reloads the pipeline flow text from the canvas
type RefreshPipelineFlow struct{}

// EditPaletteItem changes the palette item text field
type EditPaletteItem struct{ Text string }

// EditCategoryID changes the palette category id
type EditCategoryID struct{ Text string }

// EditCategoryName changes the palette category name
type EditCategoryName struct{ Text string }

// MessageField names a text input of the message form
type MessageField string

const (
	FieldMessageType     MessageField = "type"
	FieldMessageTitle    MessageField = "title"
	FieldMessageSubtitle MessageField = "subtitle"
	FieldMessageContent  MessageField = "content"
)

// EditMessage changes one text input of the message form
type EditMessage struct {
	Field MessageField
	Text  string
}

// MessageFlag names a toggle of the message form
type MessageFlag string

const (
	FlagTimestamp MessageFlag = "timestamp"
	FlagCallback  MessageFlag = "callback"
	FlagLink      MessageFlag = "link"
	FlagDismiss   MessageFlag = "dismiss"
)

// ToggleMessage sets one toggle of the message form
type ToggleMessage struct {
	Flag MessageFlag
	On   bool
}

// Axis selects the zoom offset input
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// EditZoomOffset changes a raw percentage offset and recomputes the target
type EditZoomOffset struct {
	Axis Axis
	Text string
}

// EditZoomObject replaces the zoom target text
type EditZoomObject struct{ Text string }

// SubmitPressed dispatches the selected operation
type SubmitPressed struct{}

// ClearMessages removes all notification messages from the canvas
type ClearMessages struct{}

func (SelectOperation) isEvent()     {}
func (SelectNode) isEvent()          {}
func (SelectPort) isEvent()          {}
func (SelectLink) isEvent()          {}
func (RefreshLists) isEvent()        {}
func (EditLabel) isEvent()           {}
func (EditDecorations) isEvent()     {}
func (EditPipelineFlow) isEvent()    {}
func (RefreshPipelineFlow) isEvent() {}
func (EditPaletteItem) isEvent()     {}
func (EditCategoryID) isEvent()      {}
func (EditCategoryName) isEvent()    {}
func (EditMessage) isEvent()         {}
func (ToggleMessage) isEvent()       {}
func (EditZoomOffset) isEvent()      {}
func (EditZoomObject) isEvent()      {}
func (SubmitPressed) isEvent()       {}
func (ClearMessages) isEvent()       {}

// Reduce returns the state that follows ev. Only SubmitPressed and ClearMessages
// mutate the canvas; every other event only reads it.
func Reduce(env Env, s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case SelectOperation:
		return OnOperationSelected(env, e.Operation), nil

	case SelectNode:
		return OnNodeSelected(env, s, e.NodeID)

	case SelectPort:
		return OnPortSelected(env, s, e.PortID)

	case SelectLink:
		return OnLinkSelected(env, s, e.LinkID)

	case RefreshLists:
		return OnSnapshotChanged(env, s), nil

	case EditLabel:
		s.NewLabel = e.Text

	case EditDecorations:
		s.Decorations = e.Text

	case EditPipelineFlow:
		s.PipelineFlow = e.Text
		s.IsValidPipelineFlow = gjson.Valid(e.Text)

	case RefreshPipelineFlow:
		s.PipelineFlow, s.IsValidPipelineFlow = serializeFlow(env.Canvas.GetPipelineFlow())

	case EditPaletteItem:
		s.PaletteItem = e.Text

	case EditCategoryID:
		s.CategoryID = e.Text

	case EditCategoryName:
		s.CategoryName = e.Text

	case EditMessage:
		switch e.Field {
		case FieldMessageType:
			s.Message.Type = canvas.MessageType(e.Text)
		case FieldMessageTitle:
			s.Message.Title = e.Text
		case FieldMessageSubtitle:
			s.Message.Subtitle = e.Text
		case FieldMessageContent:
			s.Message.Content = e.Text
		default:
			return s, fmt.Errorf("unknown message field: %q", e.Field)
		}

	case ToggleMessage:
		switch e.Flag {
		case FlagTimestamp:
			s.Message.AppendTimestamp = e.On
		case FlagCallback:
			s.Message.AttachCallback = e.On
		case FlagLink:
			s.Message.AppendLink = e.On
		case FlagDismiss:
			s.Message.CloseMessage = e.On
		default:
			return s, fmt.Errorf("unknown message flag: %q", e.Flag)
		}

	case EditZoomOffset:
		switch e.Axis {
		case AxisX:
			s.XOffset = e.Text
		case AxisY:
			s.YOffset = e.Text
		default:
			return s, fmt.Errorf("unknown zoom axis: %q", e.Axis)
		}
		switch s.Operation {
		case OpZoomToRevealNode:
			s.ZoomObject = zoomTarget(env, s.NodeID, s)
		case OpZoomToRevealLink:
			s.ZoomObject = zoomTarget(env, s.LinkID, s)
		}

	case EditZoomObject:
		s.ZoomObject = e.Text

	case SubmitPressed:
		return Submit(env, s)

	case ClearMessages:
		if err := env.Canvas.ClearNotificationMessages(); err != nil {
			return s, fmt.Errorf("failed to clear notification messages: %w", err)
		}

	default:
		return s, fmt.Errorf("unknown event: %T", ev)
	}

	return s, nil
}
