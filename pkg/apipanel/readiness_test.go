package apipanel

import (
	"testing"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/stretchr/testify/assert"
)

func TestReadiness_FalseAfterSelectionWithEmptyCanvas(t *testing.T) {
	env, _ := newTestEnv(t, canvas.PipelineFlow{})

	for _, op := range Operations() {
		t.Run(string(op), func(t *testing.T) {
			s := OnOperationSelected(env, op)
			if op == OpSetPipelineFlow {
				// The serialized current flow is a valid default
				assert.True(t, Ready(s))
				return
			}
			assert.False(t, Ready(s))
		})
	}
}

func TestIsReadyToSubmit(t *testing.T) {
	tests := []struct {
		name  string
		op    Operation
		state State
		want  bool
	}{
		{"no operation", OpNone, State{NodeID: "n1", NewLabel: "x"}, false},
		{"pipeline flow valid", OpSetPipelineFlow, State{PipelineFlow: `{"nodes":[]}`}, true},
		{"pipeline flow truncated", OpSetPipelineFlow, State{PipelineFlow: `{"nodes":`}, false},
		{"pipeline flow empty", OpSetPipelineFlow, State{}, false},
		{"palette without category", OpAddPaletteItem, State{PaletteItem: `{"label":"x"}`}, false},
		{"palette with category", OpAddPaletteItem, State{PaletteItem: `{"label":"x"}`, CategoryID: "c"}, true},
		{"palette bad json", OpAddPaletteItem, State{PaletteItem: `{`, CategoryID: "c"}, false},
		{"node label", OpSetNodeLabel, State{NodeID: "n1", NewLabel: "Foo"}, true},
		{"node label empty", OpSetNodeLabel, State{NodeID: "n1"}, false},
		{"node label no node", OpSetNodeLabel, State{NewLabel: "Foo"}, false},
		{"input port label", OpSetInputPortLabel, State{NodeID: "n1", PortID: "p", NewLabel: "x"}, true},
		{"output port no port", OpSetOutputPortLabel, State{NodeID: "n1", NewLabel: "x"}, false},
		{"node decorations", OpSetNodeDecorations, State{NodeID: "n1", Decorations: "[]"}, true},
		{"node decorations empty", OpSetNodeDecorations, State{NodeID: "n1"}, false},
		{"link decorations", OpSetLinkDecorations, State{LinkID: "l1", Decorations: "[]"}, true},
		{"link decorations no link", OpSetLinkDecorations, State{Decorations: "[]"}, false},
		{"message", OpAddNotificationMessage, State{Message: MessageFields{Content: "hi"}}, true},
		{"message without content", OpAddNotificationMessage, State{Message: MessageFields{Title: "t"}}, false},
		{"zoom node", OpZoomToRevealNode, State{ZoomObject: `{"x":1,"y":2,"k":1}`}, true},
		{"zoom link empty", OpZoomToRevealLink, State{LinkID: "l1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadyToSubmit(tt.op, tt.state))
		})
	}
}

func TestReadiness_IgnoresUnrelatedFields(t *testing.T) {
	s := State{
		Operation:   OpAddNotificationMessage,
		NodeID:      "n1",
		Decorations: "not json",
		ZoomObject:  "",
		Message:     MessageFields{Content: "body"},
	}
	assert.True(t, Ready(s))
}
