package apipanel

import (
	"testing"
	"time"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/stretchr/testify/require"
)

// sampleFlow has two nodes with input ports, one with an output port, one
// node with no ports, a node link and a comment link.
func sampleFlow() canvas.PipelineFlow {
	return canvas.PipelineFlow{
		DocType: "pipeline",
		Version: "3.0",
		ID:      "flow-1",
		Nodes: []canvas.Node{
			{
				ID:      "n1",
				Label:   "Foo",
				Inputs:  []canvas.Port{{ID: "in1", Label: "Input 1"}, {ID: "in2"}},
				Outputs: []canvas.Port{{ID: "out1", Label: "Out"}},
				X:       100,
				Y:       100,
			},
			{
				ID:     "n2",
				Label:  "Bar",
				Inputs: []canvas.Port{{ID: "inB", Label: "B in"}},
				X:      2000,
				Y:      1500,
			},
			{ID: "n3", Label: "Baz", X: 300, Y: 100},
		},
		Links: []canvas.Link{
			{ID: "l1", Type: canvas.LinkTypeNode, SrcNodeID: "n1", SrcPortID: "out1", TrgNodeID: "n2", TrgPortID: "inB"},
			{ID: "l2", Type: canvas.LinkTypeComment, SrcNodeID: "c1", TrgNodeID: "n2"},
		},
		Comments: []canvas.Comment{{ID: "c1", Content: "note", X: 10, Y: 10}},
	}
}

func newTestEnv(t *testing.T, flow canvas.PipelineFlow) (Env, *canvas.MemoryController) {
	t.Helper()

	ctrl, err := canvas.NewMemoryController(flow, canvas.DefaultViewport)
	require.NoError(t, err)

	clock := func() time.Time {
		return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	}
	return Env{Canvas: ctrl, Messages: NewMessageBuilder(WithClock(clock))}, ctrl
}

// reduceAll applies events in order and fails the test on the first error
func reduceAll(t *testing.T, env Env, s State, events ...Event) State {
	t.Helper()

	for _, ev := range events {
		var err error
		s, err = Reduce(env, s, ev)
		require.NoError(t, err, "event %T", ev)
	}
	return s
}
