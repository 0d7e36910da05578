package apipanel

import "github.com/dshills/canvasharness/pkg/canvas"

// SelectableItem is one entry in a node, port or link pick-list
type SelectableItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Selection is a pick-list derived from a canvas snapshot
type Selection []SelectableItem

// IsEmpty reports whether the list has no entries; the dropdown showing it
// is disabled in that case.
func (s Selection) IsEmpty() bool {
	return len(s) == 0
}

// First returns the first entry of the list
func (s Selection) First() (SelectableItem, bool) {
	if len(s) == 0 {
		return SelectableItem{}, false
	}
	return s[0], true
}

// Contains reports whether value is one of the entries
func (s Selection) Contains(value string) bool {
	for _, item := range s {
		if item.Value == value {
			return true
		}
	}
	return false
}

// MessageFields are the notification message inputs of the panel
type MessageFields struct {
	Type     canvas.MessageType
	Title    string
	Subtitle string
	Content  string

	AppendTimestamp bool
	AttachCallback  bool
	AppendLink      bool
	CloseMessage    bool
}

// State is the in-memory state of one mounted API panel. Which fields are
// meaningful depends on Operation; the rest stay zero.
type State struct {
	Operation Operation

	Nodes Selection
	Ports Selection
	Links Selection

	NodeID string
	PortID string
	LinkID string

	NewLabel    string
	Decorations string

	PipelineFlow        string
	IsValidPipelineFlow bool

	PaletteItem  string
	CategoryID   string
	CategoryName string

	Message MessageFields

	// ZoomObject holds the JSON of the computed {x, y, k} target
	ZoomObject string
	// XOffset and YOffset are the raw percentage inputs
	XOffset string
	YOffset string
}

// Target returns the id of the object the current operation acts on
func (s State) Target() string {
	switch {
	case s.PortID != "":
		return s.NodeID + "/" + s.PortID
	case s.NodeID != "":
		return s.NodeID
	default:
		return s.LinkID
	}
}
