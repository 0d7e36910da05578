package canvas

import (
	"errors"
)

// Common canvas errors
var (
	// ErrNodeNotFound is returned when a node id is not present in the pipeline flow
	ErrNodeNotFound = errors.New("node not found")
	// ErrPortNotFound is returned when a port id is not present on the node
	ErrPortNotFound = errors.New("port not found")
	// ErrLinkNotFound is returned when a link id is not present in the pipeline flow
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidDocument is returned when a document fails schema or syntax checks
	ErrInvalidDocument = errors.New("invalid document")
)

// Direction identifies which side of a node a port belongs to
type Direction string

const (
	// DirectionInput selects a node's input ports
	DirectionInput Direction = "input"
	// DirectionOutput selects a node's output ports
	DirectionOutput Direction = "output"
)

// Link types used by the pipeline flow
const (
	LinkTypeNode    = "nodeLink"
	LinkTypeComment = "commentLink"
)

// Port is a connection point on a node
type Port struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Decoration is a visual annotation on a node or link. Its content is
// opaque to the harness and is passed through as-is.
type Decoration map[string]interface{}

// Node is a canvas node as reported in the canvas snapshot
type Node struct {
	ID          string       `json:"id"`
	Type        string       `json:"type,omitempty"`
	Op          string       `json:"op,omitempty"`
	Label       string       `json:"label"`
	Inputs      []Port       `json:"inputs,omitempty"`
	Outputs     []Port       `json:"outputs,omitempty"`
	Decorations []Decoration `json:"decorations,omitempty"`
	X           float64      `json:"x_pos"`
	Y           float64      `json:"y_pos"`
}

// Ports returns the node's ports for the given direction
func (n Node) Ports(dir Direction) []Port {
	if dir == DirectionInput {
		return n.Inputs
	}
	return n.Outputs
}

// Link connects two canvas objects. Comment links start at a comment, so
// their source id never matches a node.
type Link struct {
	ID          string       `json:"id"`
	Type        string       `json:"type,omitempty"`
	SrcNodeID   string       `json:"srcNodeId"`
	SrcPortID   string       `json:"srcNodePortId,omitempty"`
	TrgNodeID   string       `json:"trgNodeId"`
	TrgPortID   string       `json:"trgNodePortId,omitempty"`
	Decorations []Decoration `json:"decorations,omitempty"`
}

// Comment is a free-text annotation placed on the canvas
type Comment struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	X       float64 `json:"x_pos"`
	Y       float64 `json:"y_pos"`
}

// Info is the read-only canvas snapshot
type Info struct {
	Nodes    []Node    `json:"nodes"`
	Links    []Link    `json:"links"`
	Comments []Comment `json:"comments,omitempty"`
}

// FindNode returns the node with the given id
func (i Info) FindNode(id string) (Node, bool) {
	for _, n := range i.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// FindLink returns the link with the given id
func (i Info) FindLink(id string) (Link, bool) {
	for _, l := range i.Links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// PipelineFlow is the document form of the canvas contents
type PipelineFlow struct {
	DocType  string    `json:"doc_type"`
	Version  string    `json:"version"`
	ID       string    `json:"id"`
	Nodes    []Node    `json:"nodes"`
	Links    []Link    `json:"links"`
	Comments []Comment `json:"comments,omitempty"`
}

// NodeTemplate describes a node type offered in the palette
type NodeTemplate struct {
	Op          string `json:"op"`
	Type        string `json:"type,omitempty"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Inputs      []Port `json:"inputs,omitempty"`
	Outputs     []Port `json:"outputs,omitempty"`
}

// PaletteCategory groups node templates in the palette
type PaletteCategory struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	NodeTypes []NodeTemplate `json:"node_types"`
}

// MessageType is the severity of a notification message
type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageSuccess MessageType = "success"
	MessageWarning MessageType = "warning"
	MessageError   MessageType = "error"
)

// MessageLink is a hyperlink block appended to a notification message
type MessageLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// NotificationMessage is shown in the canvas notification panel.
// Title and Subtitle are nil when absent so renderers can omit them.
type NotificationMessage struct {
	ID           string                 `json:"id"`
	Type         MessageType            `json:"type"`
	Title        *string                `json:"title"`
	Subtitle     *string                `json:"subtitle"`
	Content      string                 `json:"content"`
	Link         *MessageLink           `json:"link,omitempty"`
	Timestamp    *string                `json:"timestamp,omitempty"`
	Callback     func(messageID string) `json:"-"`
	CloseMessage string                 `json:"closeMessage,omitempty"`
}

// ZoomObject is a viewport transform: translate by (X, Y) then scale by K
type ZoomObject struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Viewport is the visible canvas area in screen units
type Viewport struct {
	Width  float64
	Height float64
}

// DefaultViewport is used when no viewport size is configured
var DefaultViewport = Viewport{Width: 1200, Height: 800}
