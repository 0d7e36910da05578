package apipanel

import (
	"encoding/json"
	"testing"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkList_ExcludesDanglingLinks(t *testing.T) {
	info := canvas.Info{
		Nodes: []canvas.Node{{ID: "b", Label: "B"}},
		Links: []canvas.Link{{ID: "l1", SrcNodeID: "a", TrgNodeID: "b"}},
	}

	list := LinkList(info)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.True(t, list.IsEmpty())
}

func TestLinkList_LabelsBySourceAndTarget(t *testing.T) {
	flow := sampleFlow()
	info := canvas.Info{Nodes: flow.Nodes, Links: flow.Links, Comments: flow.Comments}

	list := LinkList(info)
	require.Len(t, list, 1, "comment link must be left out")
	assert.Equal(t, SelectableItem{Label: "Foo-Bar", Value: "l1"}, list[0])
}

func TestNodesWithPorts(t *testing.T) {
	flow := sampleFlow()
	info := canvas.Info{Nodes: flow.Nodes}

	inputs := NodesWithPorts(info, canvas.DirectionInput)
	assert.Equal(t, Selection{{Label: "Foo", Value: "n1"}, {Label: "Bar", Value: "n2"}}, inputs)

	outputs := NodesWithPorts(info, canvas.DirectionOutput)
	assert.Equal(t, Selection{{Label: "Foo", Value: "n1"}}, outputs)
}

func TestPortList(t *testing.T) {
	flow := sampleFlow()
	info := canvas.Info{Nodes: flow.Nodes}

	ports := PortList(info, "n1", canvas.DirectionInput)
	assert.Equal(t, Selection{{Label: "Input 1", Value: "in1"}, {Label: "in2", Value: "in2"}}, ports)

	assert.True(t, PortList(info, "missing", canvas.DirectionInput).IsEmpty())
	assert.True(t, PortList(info, "n3", canvas.DirectionOutput).IsEmpty())
}

func TestSetNodeLabelScenario(t *testing.T) {
	env, _ := newTestEnv(t, canvas.PipelineFlow{
		Nodes: []canvas.Node{{ID: "n1", Label: "Foo"}},
	})

	s := OnOperationSelected(env, OpSetNodeLabel)
	assert.Equal(t, "n1", s.NodeID)
	assert.Equal(t, "Foo", s.NewLabel)
	assert.True(t, Ready(s))

	s = reduceAll(t, env, s, EditLabel{Text: ""})
	assert.False(t, Ready(s))
}

func TestSelectNode_ResetsPortForInputPortLabel(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetInputPortLabel)
	assert.Equal(t, "n1", s.NodeID)
	assert.Equal(t, "in1", s.PortID)
	assert.Equal(t, "Input 1", s.NewLabel)
	assert.True(t, Ready(s))

	s = reduceAll(t, env, s, SelectNode{NodeID: "n2"})
	assert.Equal(t, "n2", s.NodeID)
	assert.Empty(t, s.PortID)
	assert.Empty(t, s.NewLabel)
	assert.Equal(t, Selection{{Label: "B in", Value: "inB"}}, s.Ports)
	assert.False(t, Ready(s))

	s = reduceAll(t, env, s, SelectPort{PortID: "inB"})
	assert.Equal(t, "B in", s.NewLabel)
	assert.True(t, Ready(s))
}

func TestSelectOperation_OutputPortsOnly(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetOutputPortLabel)
	assert.Equal(t, Selection{{Label: "Foo", Value: "n1"}}, s.Nodes)
	assert.Equal(t, Selection{{Label: "Out", Value: "out1"}}, s.Ports)
	assert.Equal(t, "Out", s.NewLabel)
}

func TestSelectOperation_ResetsPreviousFields(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetNodeLabel)
	s = reduceAll(t, env, s, EditLabel{Text: "changed"}, SelectOperation{Operation: OpAddNotificationMessage})

	assert.Equal(t, OpAddNotificationMessage, s.Operation)
	assert.Empty(t, s.NodeID)
	assert.Empty(t, s.NewLabel)
	assert.Nil(t, s.Nodes)
	assert.Equal(t, canvas.MessageInfo, s.Message.Type)
}

func TestSelectOperation_EmptyListsDisableSelection(t *testing.T) {
	env, _ := newTestEnv(t, canvas.PipelineFlow{})

	s := OnOperationSelected(env, OpSetNodeLabel)
	assert.True(t, s.Nodes.IsEmpty())
	assert.Empty(t, s.NodeID)

	s = OnOperationSelected(env, OpSetLinkDecorations)
	assert.True(t, s.Links.IsEmpty())
	assert.Empty(t, s.LinkID)
}

func TestNodeDecorationsPrefill(t *testing.T) {
	flow := sampleFlow()
	flow.Nodes[0].Decorations = []canvas.Decoration{{"id": "d1", "label": "hot"}}
	env, _ := newTestEnv(t, flow)

	s := OnOperationSelected(env, OpSetNodeDecorations)
	require.NotEmpty(t, s.Decorations)

	var decs []canvas.Decoration
	require.NoError(t, json.Unmarshal([]byte(s.Decorations), &decs))
	assert.Equal(t, "d1", decs[0]["id"])

	// n2 has no decorations
	s = reduceAll(t, env, s, SelectNode{NodeID: "n2"})
	assert.Empty(t, s.Decorations)
	assert.False(t, Ready(s))
}

func TestLinkDecorationsPrefill(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetLinkDecorations)
	assert.Equal(t, "l1", s.LinkID)
	assert.Equal(t, "[]", s.Decorations)
	assert.True(t, Ready(s))
}

func TestZoomToRevealNodePrefill(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	// n1 is already visible at the initial zoom
	s := OnOperationSelected(env, OpZoomToRevealNode)
	assert.Equal(t, "n1", s.NodeID)
	assert.Empty(t, s.ZoomObject)
	assert.False(t, Ready(s))

	// An explicit offset always yields a target
	s = reduceAll(t, env, s, EditZoomOffset{Axis: AxisX, Text: "25"})
	require.NotEmpty(t, s.ZoomObject)

	var zoom canvas.ZoomObject
	require.NoError(t, json.Unmarshal([]byte(s.ZoomObject), &zoom))
	assert.InDelta(t, 165.0, zoom.X, 0.001)
	assert.InDelta(t, 262.5, zoom.Y, 0.001)
	assert.InDelta(t, 1.0, zoom.K, 0.001)

	// n2 sits outside the viewport
	s = reduceAll(t, env, s, EditZoomOffset{Axis: AxisX, Text: ""}, SelectNode{NodeID: "n2"})
	assert.NotEmpty(t, s.ZoomObject)
	assert.True(t, Ready(s))
}

func TestZoomOffset_InvalidInputIsIgnored(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpZoomToRevealNode)
	s = reduceAll(t, env, s, EditZoomOffset{Axis: AxisY, Text: "abc"})
	assert.Equal(t, "abc", s.YOffset)
	assert.Empty(t, s.ZoomObject)
}

func TestParsePercent(t *testing.T) {
	assert.Nil(t, parsePercent(""))
	assert.Nil(t, parsePercent("   "))
	assert.Nil(t, parsePercent("ten"))

	v := parsePercent(" 12.5 ")
	require.NotNil(t, v)
	assert.Equal(t, 12.5, *v)
}

func TestSelect_RejectsUnlistedIDs(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetNodeLabel)
	s = reduceAll(t, env, s, EditLabel{Text: "Edited"})

	next, err := Reduce(env, s, SelectNode{NodeID: "ghost"})
	require.ErrorIs(t, err, ErrNotListed)
	assert.Equal(t, s, next)

	// n3 has no input ports so it is not offered
	ports := OnOperationSelected(env, OpSetInputPortLabel)
	_, err = Reduce(env, ports, SelectNode{NodeID: "n3"})
	assert.ErrorIs(t, err, ErrNotListed)

	_, err = Reduce(env, ports, SelectPort{PortID: "inB"})
	assert.ErrorIs(t, err, ErrNotListed)

	links := OnOperationSelected(env, OpSetLinkDecorations)
	_, err = Reduce(env, links, SelectLink{LinkID: "l2"})
	assert.ErrorIs(t, err, ErrNotListed)
}

func TestNodeLabelPrefill_ClearsWhenNodeMissing(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetNodeLabel)
	s.NodeID = "gone"
	s = prefillNodeLabel(env, env.Canvas.GetCanvasInfo(), s)
	assert.Empty(t, s.NewLabel)
	assert.False(t, Ready(s))
}

func TestRefreshLists_FollowsUndo(t *testing.T) {
	env, ctrl := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetNodeLabel)
	s = reduceAll(t, env, s, EditLabel{Text: "Renamed"}, SubmitPressed{})
	assert.Contains(t, s.Nodes, SelectableItem{Label: "Renamed", Value: "n1"})

	require.NoError(t, ctrl.Undo())
	s = reduceAll(t, env, s, RefreshLists{})
	assert.Equal(t, "n1", s.NodeID)
	assert.Equal(t, "Foo", s.NewLabel)
	assert.Contains(t, s.Nodes, SelectableItem{Label: "Foo", Value: "n1"})
}

func TestRefreshLists_FallsBackWhenSelectionRemoved(t *testing.T) {
	env, ctrl := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpSetInputPortLabel)
	s = reduceAll(t, env, s, SelectNode{NodeID: "n2"}, SelectPort{PortID: "inB"})

	flow := sampleFlow()
	flow.Nodes = flow.Nodes[:1]
	flow.Links = nil
	require.NoError(t, ctrl.SetPipelineFlow(flow))

	s = reduceAll(t, env, s, RefreshLists{})
	assert.Equal(t, Selection{{Label: "Foo", Value: "n1"}}, s.Nodes)
	assert.Equal(t, "n1", s.NodeID)
	assert.Equal(t, "in1", s.PortID)
	assert.Equal(t, "Input 1", s.NewLabel)

	flow.Nodes = []canvas.Node{{ID: "x", Label: "X"}}
	require.NoError(t, ctrl.SetPipelineFlow(flow))
	s = reduceAll(t, env, s, RefreshLists{})
	assert.True(t, s.Nodes.IsEmpty())
	assert.Empty(t, s.NodeID)
	assert.Empty(t, s.PortID)
	assert.False(t, Ready(s))
}

func TestRefreshLists_IgnoredWithoutLists(t *testing.T) {
	env, _ := newTestEnv(t, sampleFlow())

	s := OnOperationSelected(env, OpAddNotificationMessage)
	assert.Equal(t, s, reduceAll(t, env, s, RefreshLists{}))
}
