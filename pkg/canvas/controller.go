package canvas

// Controller is the capability surface of the canvas engine consumed by the
// harness panels. Mutators return an error when the engine rejects the call.
type Controller interface {
	// GetCanvasInfo returns a snapshot of the current nodes, links and comments
	GetCanvasInfo() Info

	GetPipelineFlow() PipelineFlow
	SetPipelineFlow(flow PipelineFlow) error

	AddNodeTypeToPalette(tmpl NodeTemplate, categoryID, categoryName string) error

	SetNodeLabel(nodeID, label string) error
	SetPortLabel(nodeID, portID, label string, dir Direction) error
	SetNodeDecorations(nodeID, decorationsJSON string) error
	SetLinkDecorations(linkID, decorationsJSON string) error

	AppendNotificationMessages(msgs []NotificationMessage) error
	ClearNotificationMessages() error

	// GetZoomToReveal computes the transform that brings the objects into
	// view. Percent offsets place the objects' center at that fraction of
	// the viewport; nil offsets center them. Returns nil when nothing needs
	// to change or an id is unknown.
	GetZoomToReveal(objectIDs []string, xPercent, yPercent *float64) *ZoomObject
	ZoomCanvasForObj(zoom ZoomObject, nodeID string) error
	ZoomCanvasForLink(zoom ZoomObject, linkID string) error

	Undo() error
	Redo() error
	CanUndo() bool
	CanRedo() bool
}
