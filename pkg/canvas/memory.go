package canvas

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const undoCapacity = 100

// MemoryController implements Controller over an in-memory pipeline flow.
// It is the stand-in engine used when the harness runs on its own.
type MemoryController struct {
	mu          sync.RWMutex
	flow        PipelineFlow
	palette     []PaletteCategory
	messages    []NotificationMessage
	viewport    Viewport
	zoom        ZoomObject
	highlighted []string
	undo        *UndoStack
}

// NewMemoryController creates a controller holding the given flow.
// The flow is validated before use.
func NewMemoryController(flow PipelineFlow, viewport Viewport) (*MemoryController, error) {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		viewport = DefaultViewport
	}

	flow = withDefaults(flow)
	if err := ValidatePipelineFlow(flow); err != nil {
		return nil, fmt.Errorf("initial pipeline flow: %w", err)
	}

	c := &MemoryController{
		flow:     cloneFlow(flow),
		palette:  make([]PaletteCategory, 0),
		messages: make([]NotificationMessage, 0),
		viewport: viewport,
		zoom:     ZoomObject{K: 1},
		undo:     NewUndoStack(undoCapacity),
	}
	c.undo.Push(c.flow)
	return c, nil
}

// NewEmptyMemoryController creates a controller with an empty flow
func NewEmptyMemoryController() *MemoryController {
	c, err := NewMemoryController(PipelineFlow{}, DefaultViewport)
	if err != nil {
		// An empty flow with defaults always validates
		panic(err)
	}
	return c
}

func withDefaults(flow PipelineFlow) PipelineFlow {
	if flow.DocType == "" {
		flow.DocType = "pipeline"
	}
	if flow.Version == "" {
		flow.Version = "3.0"
	}
	if flow.ID == "" {
		flow.ID = uuid.New().String()
	}
	return normalizeFlow(flow)
}

// GetCanvasInfo returns a deep copy of the current nodes, links and comments
func (c *MemoryController) GetCanvasInfo() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	flow := cloneFlow(c.flow)
	return Info{Nodes: flow.Nodes, Links: flow.Links, Comments: flow.Comments}
}

// GetPipelineFlow returns a deep copy of the pipeline flow document
func (c *MemoryController) GetPipelineFlow() PipelineFlow {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneFlow(c.flow)
}

// SetPipelineFlow replaces the whole flow after schema validation
func (c *MemoryController) SetPipelineFlow(flow PipelineFlow) error {
	flow = withDefaults(flow)
	if err := ValidatePipelineFlow(flow); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.flow = cloneFlow(flow)
	c.highlighted = nil
	c.undo.Push(c.flow)
	log.Printf("canvas: pipeline flow %s set (%d nodes, %d links)", flow.ID, len(flow.Nodes), len(flow.Links))
	return nil
}

// AddNodeTypeToPalette adds a template to the category, creating the
// category when it does not exist yet.
func (c *MemoryController) AddNodeTypeToPalette(tmpl NodeTemplate, categoryID, categoryName string) error {
	if categoryID == "" {
		return fmt.Errorf("%w: empty palette category id", ErrInvalidDocument)
	}
	if err := ValidateNodeTemplate(tmpl); err != nil {
		return err
	}
	if tmpl.Op == "" {
		tmpl.Op = uuid.New().String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.palette {
		if c.palette[i].ID == categoryID {
			c.palette[i].NodeTypes = append(c.palette[i].NodeTypes, tmpl)
			log.Printf("canvas: palette item %s added to category %s", tmpl.Op, categoryID)
			return nil
		}
	}

	label := categoryName
	if label == "" {
		label = categoryID
	}
	c.palette = append(c.palette, PaletteCategory{
		ID:        categoryID,
		Label:     label,
		NodeTypes: []NodeTemplate{tmpl},
	})
	log.Printf("canvas: palette category %s created with item %s", categoryID, tmpl.Op)
	return nil
}

// SetPaletteData replaces the palette
func (c *MemoryController) SetPaletteData(categories []PaletteCategory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.palette = append([]PaletteCategory(nil), categories...)
}

// GetPaletteData returns a copy of the palette categories
func (c *MemoryController) GetPaletteData() []PaletteCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]PaletteCategory, len(c.palette))
	for i, cat := range c.palette {
		out[i] = cat
		out[i].NodeTypes = append([]NodeTemplate(nil), cat.NodeTypes...)
	}
	return out
}

// SetNodeLabel changes a node's label
func (c *MemoryController) SetNodeLabel(nodeID, label string) error {
	return c.mutateNode(nodeID, func(n *Node) error {
		n.Label = label
		return nil
	})
}

// SetPortLabel changes the label of one of a node's input or output ports
func (c *MemoryController) SetPortLabel(nodeID, portID, label string, dir Direction) error {
	return c.mutateNode(nodeID, func(n *Node) error {
		ports := n.Outputs
		if dir == DirectionInput {
			ports = n.Inputs
		}
		for i := range ports {
			if ports[i].ID == portID {
				ports[i].Label = label
				return nil
			}
		}
		return fmt.Errorf("%w: %s %s port %s", ErrPortNotFound, nodeID, dir, portID)
	})
}

// SetNodeDecorations replaces a node's decorations with the JSON array text
func (c *MemoryController) SetNodeDecorations(nodeID, decorationsJSON string) error {
	decs, err := parseDecorations(decorationsJSON)
	if err != nil {
		return err
	}
	return c.mutateNode(nodeID, func(n *Node) error {
		n.Decorations = decs
		return nil
	})
}

// SetLinkDecorations replaces a link's decorations with the JSON array text
func (c *MemoryController) SetLinkDecorations(linkID, decorationsJSON string) error {
	decs, err := parseDecorations(decorationsJSON)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.flow.Links {
		if c.flow.Links[i].ID == linkID {
			c.flow.Links[i].Decorations = decs
			c.undo.Push(c.flow)
			log.Printf("canvas: link %s decorations set (%d)", linkID, len(decs))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLinkNotFound, linkID)
}

func (c *MemoryController) mutateNode(nodeID string, fn func(n *Node) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.flow.Nodes {
		if c.flow.Nodes[i].ID != nodeID {
			continue
		}
		if err := fn(&c.flow.Nodes[i]); err != nil {
			return err
		}
		c.undo.Push(c.flow)
		log.Printf("canvas: node %s updated", nodeID)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
}

func parseDecorations(text string) ([]Decoration, error) {
	if !gjson.Valid(text) || !gjson.Parse(text).IsArray() {
		return nil, fmt.Errorf("%w: decorations must be a JSON array", ErrInvalidDocument)
	}

	var decs []Decoration
	if err := json.Unmarshal([]byte(text), &decs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return decs, nil
}

// AppendNotificationMessages adds messages to the notification panel
func (c *MemoryController) AppendNotificationMessages(msgs []NotificationMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msgs...)
	return nil
}

// ClearNotificationMessages empties the notification panel
func (c *MemoryController) ClearNotificationMessages() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = make([]NotificationMessage, 0)
	return nil
}

// NotificationMessages returns the messages currently in the panel
func (c *MemoryController) NotificationMessages() []NotificationMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]NotificationMessage(nil), c.messages...)
}

// GetZoomToReveal computes the transform that brings the objects into view
func (c *MemoryController) GetZoomToReveal(objectIDs []string, xPercent, yPercent *float64) *ZoomObject {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(objectIDs) == 0 {
		return nil
	}
	info := Info{Nodes: c.flow.Nodes, Links: c.flow.Links, Comments: c.flow.Comments}
	box, ok := objectsBox(info, objectIDs)
	if !ok {
		return nil
	}
	return zoomToReveal(c.viewport, c.zoom, box, xPercent, yPercent)
}

// ZoomCanvasForObj applies the transform and highlights the node
func (c *MemoryController) ZoomCanvasForObj(zoom ZoomObject, nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := (Info{Nodes: c.flow.Nodes}).FindNode(nodeID); !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	c.applyZoom(zoom, nodeID)
	return nil
}

// ZoomCanvasForLink applies the transform and highlights the link
func (c *MemoryController) ZoomCanvasForLink(zoom ZoomObject, linkID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := (Info{Links: c.flow.Links}).FindLink(linkID); !ok {
		return fmt.Errorf("%w: %s", ErrLinkNotFound, linkID)
	}
	c.applyZoom(zoom, linkID)
	return nil
}

func (c *MemoryController) applyZoom(zoom ZoomObject, objectID string) {
	if zoom.K <= 0 {
		zoom.K = 1
	}
	c.zoom = zoom
	c.highlighted = []string{objectID}
	log.Printf("canvas: zoomed to %s (x=%.1f y=%.1f k=%.2f)", objectID, zoom.X, zoom.Y, zoom.K)
}

// Zoom returns the current viewport transform
func (c *MemoryController) Zoom() ZoomObject {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.zoom
}

// Highlighted returns the ids highlighted by the last zoom call
func (c *MemoryController) Highlighted() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.highlighted...)
}

// Undo restores the flow that preceded the last mutation
func (c *MemoryController) Undo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	flow, err := c.undo.Undo()
	if err != nil {
		return err
	}
	c.flow = flow
	return nil
}

// Redo re-applies the last undone mutation
func (c *MemoryController) Redo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	flow, err := c.undo.Redo()
	if err != nil {
		return err
	}
	c.flow = flow
	return nil
}

// CanUndo returns true if undo is available
func (c *MemoryController) CanUndo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.undo.CanUndo()
}

// CanRedo returns true if redo is available
func (c *MemoryController) CanRedo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.undo.CanRedo()
}

var _ Controller = (*MemoryController)(nil)
