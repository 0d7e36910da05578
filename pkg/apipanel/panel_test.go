package apipanel

import (
	"testing"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanel_JournalRecordsFlowDiff(t *testing.T) {
	env, ctrl := newTestEnv(t, sampleFlow())
	p := NewPanel(ctrl, env.Messages)

	require.NoError(t, p.Dispatch(SelectOperation{Operation: OpSetNodeLabel}))
	assert.True(t, p.Ready())
	require.NoError(t, p.Dispatch(EditLabel{Text: "Renamed"}))
	require.NoError(t, p.Dispatch(SubmitPressed{}))

	journal := p.Journal()
	require.Len(t, journal, 1)
	assert.Equal(t, OpSetNodeLabel, journal[0].Operation)
	assert.Equal(t, "n1", journal[0].Target)
	assert.False(t, journal[0].At.IsZero())
	assert.Contains(t, journal[0].FlowDiff, `- `)
	assert.Contains(t, journal[0].FlowDiff, `"label": "Foo"`)
	assert.Contains(t, journal[0].FlowDiff, `+ `)
	assert.Contains(t, journal[0].FlowDiff, `"label": "Renamed"`)
	assert.NotContains(t, journal[0].FlowDiff, `"label": "Bar"`)
}

func TestPanel_MessageLeavesFlowUnchanged(t *testing.T) {
	_, ctrl := newTestEnv(t, sampleFlow())
	p := NewPanel(ctrl, nil)

	require.NoError(t, p.Dispatch(SelectOperation{Operation: OpAddNotificationMessage}))
	require.NoError(t, p.Dispatch(EditMessage{Field: FieldMessageContent, Text: "hello"}))
	require.NoError(t, p.Dispatch(SubmitPressed{}))

	journal := p.Journal()
	require.Len(t, journal, 1)
	assert.Empty(t, journal[0].FlowDiff)
	assert.Len(t, ctrl.NotificationMessages(), 1)
}

func TestPanel_FailedDispatchNotJournaled(t *testing.T) {
	_, ctrl := newTestEnv(t, sampleFlow())
	p := NewPanel(ctrl, nil)

	require.NoError(t, p.Dispatch(SelectOperation{Operation: OpAddPaletteItem}))
	before := p.State()

	err := p.Dispatch(SubmitPressed{})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, p.Journal())
	assert.Equal(t, before, p.State())
}

func TestPanel_Unmount(t *testing.T) {
	p := NewPanel(canvas.NewEmptyMemoryController(), nil)
	require.NoError(t, p.Dispatch(SelectOperation{Operation: OpSetPipelineFlow}))

	p.Unmount()
	assert.Equal(t, State{}, p.State())
	assert.ErrorIs(t, p.Dispatch(RefreshPipelineFlow{}), ErrUnmounted)
}

func TestLineDiff(t *testing.T) {
	assert.Empty(t, lineDiff("a\nb\n", "a\nb\n"))

	diff := lineDiff("a\nb\nc\n", "a\nB\nc\n")
	assert.Equal(t, "- b\n+ B\n", diff)
}
