package apipanel

import (
	"encoding/json"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/tidwall/gjson"
)

// samplePaletteItem is the template offered when Add Palette Item is picked
var samplePaletteItem = canvas.NodeTemplate{
	Op:          "harness_node",
	Type:        "execution_node",
	Label:       "Harness Node",
	Description: "Node added from the API panel",
	Inputs:      []canvas.Port{{ID: "inPort", Label: "Input"}},
	Outputs:     []canvas.Port{{ID: "outPort", Label: "Output"}},
}

func initPipelineFlow(env Env, s State) State {
	s.PipelineFlow, s.IsValidPipelineFlow = serializeFlow(env.Canvas.GetPipelineFlow())
	return s
}

func initPaletteItem(_ Env, s State) State {
	s.PaletteItem = indentJSON(samplePaletteItem)
	return s
}

func initMessage(_ Env, s State) State {
	s.Message = MessageFields{Type: canvas.MessageInfo}
	return s
}

// serializeFlow renders the flow as indented JSON and reports whether it
// round-trips through a JSON parse.
func serializeFlow(flow canvas.PipelineFlow) (string, bool) {
	data, err := json.MarshalIndent(flow, "", "  ")
	if err != nil {
		return "", false
	}
	return string(data), gjson.ValidBytes(data)
}
