// Package apipanel implements the API side panel of the harness: the user
// picks one canvas operation, fills in the fields it needs from lists derived
// from the canvas snapshot, and submits it to the canvas controller.
//
// All transitions go through Reduce, a function of (Env, State, Event).
// Readiness is derived from State on demand and never stored.
package apipanel

import (
	"fmt"

	"github.com/dshills/canvasharness/pkg/canvas"
)

// Operation is one named canvas mutation selectable in the panel
type Operation string

const (
	OpNone                   Operation = ""
	OpSetPipelineFlow        Operation = "setPipelineFlow"
	OpAddPaletteItem         Operation = "addPaletteItem"
	OpSetNodeLabel           Operation = "setNodeLabel"
	OpSetInputPortLabel      Operation = "setInputPortLabel"
	OpSetOutputPortLabel     Operation = "setOutputPortLabel"
	OpSetNodeDecorations     Operation = "setNodeDecorations"
	OpSetLinkDecorations     Operation = "setLinkDecorations"
	OpAddNotificationMessage Operation = "addNotificationMessage"
	OpZoomToRevealNode       Operation = "zoomToRevealNode"
	OpZoomToRevealLink       Operation = "zoomToRevealLink"
)

// family groups operations by the pick-lists they need
type family int

const (
	familyNone family = iota
	familyNode
	familyPort
	familyLink
)

// refresh names the list a dispatch may invalidate
type refresh int

const (
	refreshNone refresh = iota
	refreshNodes
	refreshPorts
	refreshLinks
)

// descriptor is the per-operation rule table entry
type descriptor struct {
	label     string
	rule      string // readiness rule shown by `harness ops`
	family    family
	direction canvas.Direction
	refresh   refresh

	// init sets operation defaults that don't depend on a selection
	init func(env Env, s State) State
	// prefill derives dependent fields from the selected node, port or link
	prefill  func(env Env, info canvas.Info, s State) State
	ready    func(s State) bool
	dispatch func(env Env, s State) error
}

// catalog lists operations in display order
var catalog = []Operation{
	OpSetPipelineFlow,
	OpAddPaletteItem,
	OpSetNodeLabel,
	OpSetInputPortLabel,
	OpSetOutputPortLabel,
	OpSetNodeDecorations,
	OpSetLinkDecorations,
	OpAddNotificationMessage,
	OpZoomToRevealNode,
	OpZoomToRevealLink,
}

var descriptors map[Operation]descriptor

func init() {
	descriptors = map[Operation]descriptor{
		OpSetPipelineFlow: {
			label:    "Set Pipeline Flow",
			rule:     "pipeline flow text is valid JSON",
			family:   familyNone,
			init:     initPipelineFlow,
			ready:    readyPipelineFlow,
			dispatch: dispatchPipelineFlow,
		},
		OpAddPaletteItem: {
			label:    "Add Palette Item",
			rule:     "palette item is valid JSON and category id is set",
			family:   familyNone,
			init:     initPaletteItem,
			ready:    readyPaletteItem,
			dispatch: dispatchPaletteItem,
		},
		OpSetNodeLabel: {
			label:    "Set Node Label",
			rule:     "node selected and label non-empty",
			family:   familyNode,
			refresh:  refreshNodes,
			prefill:  prefillNodeLabel,
			ready:    readyNodeLabel,
			dispatch: dispatchNodeLabel,
		},
		OpSetInputPortLabel: {
			label:     "Set Input Port Label",
			rule:      "node and port selected and label non-empty",
			family:    familyPort,
			direction: canvas.DirectionInput,
			refresh:   refreshPorts,
			prefill:   prefillPortLabel,
			ready:     readyPortLabel,
			dispatch:  dispatchPortLabel,
		},
		OpSetOutputPortLabel: {
			label:     "Set Output Port Label",
			rule:      "node and port selected and label non-empty",
			family:    familyPort,
			direction: canvas.DirectionOutput,
			refresh:   refreshPorts,
			prefill:   prefillPortLabel,
			ready:     readyPortLabel,
			dispatch:  dispatchPortLabel,
		},
		OpSetNodeDecorations: {
			label:    "Set Node Decorations",
			rule:     "node selected and decorations non-empty",
			family:   familyNode,
			refresh:  refreshNodes,
			prefill:  prefillNodeDecorations,
			ready:    readyNodeDecorations,
			dispatch: dispatchNodeDecorations,
		},
		OpSetLinkDecorations: {
			label:    "Set Link Decorations",
			rule:     "link selected and decorations non-empty",
			family:   familyLink,
			refresh:  refreshLinks,
			prefill:  prefillLinkDecorations,
			ready:    readyLinkDecorations,
			dispatch: dispatchLinkDecorations,
		},
		OpAddNotificationMessage: {
			label:    "Add Notification Message",
			rule:     "message body non-empty",
			family:   familyNone,
			init:     initMessage,
			ready:    readyMessage,
			dispatch: dispatchMessage,
		},
		OpZoomToRevealNode: {
			label:    "Zoom To Reveal Node",
			rule:     "zoom target present",
			family:   familyNode,
			prefill:  prefillZoomNode,
			ready:    readyZoom,
			dispatch: dispatchZoomNode,
		},
		OpZoomToRevealLink: {
			label:    "Zoom To Reveal Link",
			rule:     "zoom target present",
			family:   familyLink,
			prefill:  prefillZoomLink,
			ready:    readyZoom,
			dispatch: dispatchZoomLink,
		},
	}
}

// Operations returns the selectable operations in display order
func Operations() []Operation {
	return append([]Operation(nil), catalog...)
}

// Label returns the display name of the operation
func (o Operation) Label() string {
	if d, ok := descriptors[o]; ok {
		return d.label
	}
	return string(o)
}

// Rule describes when the operation can be submitted
func (o Operation) Rule() string {
	if d, ok := descriptors[o]; ok {
		return d.rule
	}
	return "never"
}

// Valid reports whether o is part of the catalog
func (o Operation) Valid() bool {
	_, ok := descriptors[o]
	return ok
}

// ParseOperation converts a name to an Operation
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	if !op.Valid() {
		return OpNone, fmt.Errorf("unknown operation: %q", name)
	}
	return op, nil
}
