package apipanel

import "github.com/tidwall/gjson"

// IsReadyToSubmit reports whether op can be submitted with the fields in s.
// Fields the operation doesn't use are ignored.
func IsReadyToSubmit(op Operation, s State) bool {
	d, ok := descriptors[op]
	if !ok {
		return false
	}
	return d.ready(s)
}

// Ready is IsReadyToSubmit for the operation held in s
func Ready(s State) bool {
	return IsReadyToSubmit(s.Operation, s)
}

func readyPipelineFlow(s State) bool {
	return gjson.Valid(s.PipelineFlow)
}

func readyPaletteItem(s State) bool {
	return gjson.Valid(s.PaletteItem) && s.CategoryID != ""
}

func readyNodeLabel(s State) bool {
	return s.NodeID != "" && s.NewLabel != ""
}

func readyPortLabel(s State) bool {
	return s.NodeID != "" && s.PortID != "" && s.NewLabel != ""
}

func readyNodeDecorations(s State) bool {
	return s.NodeID != "" && s.Decorations != ""
}

func readyLinkDecorations(s State) bool {
	return s.LinkID != "" && s.Decorations != ""
}

func readyMessage(s State) bool {
	return s.Message.Content != ""
}

func readyZoom(s State) bool {
	return s.ZoomObject != ""
}
