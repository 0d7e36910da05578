package apipanel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/canvasharness/pkg/canvas"
)

// NodeList maps every node in the snapshot to a pick-list entry
func NodeList(info canvas.Info) Selection {
	list := make(Selection, 0, len(info.Nodes))
	for _, n := range info.Nodes {
		list = append(list, SelectableItem{Label: n.Label, Value: n.ID})
	}
	return list
}

// NodesWithPorts lists only nodes that have at least one port in dir
func NodesWithPorts(info canvas.Info, dir canvas.Direction) Selection {
	list := make(Selection, 0, len(info.Nodes))
	for _, n := range info.Nodes {
		if len(n.Ports(dir)) > 0 {
			list = append(list, SelectableItem{Label: n.Label, Value: n.ID})
		}
	}
	return list
}

// PortList lists the ports of the node in dir. Ports without a label are
// shown by id.
func PortList(info canvas.Info, nodeID string, dir canvas.Direction) Selection {
	node, ok := info.FindNode(nodeID)
	if !ok {
		return Selection{}
	}

	ports := node.Ports(dir)
	list := make(Selection, 0, len(ports))
	for _, p := range ports {
		label := p.Label
		if label == "" {
			label = p.ID
		}
		list = append(list, SelectableItem{Label: label, Value: p.ID})
	}
	return list
}

// LinkList lists links whose source and target nodes both exist in the
// snapshot. Links hanging off comments or deleted nodes are left out.
func LinkList(info canvas.Info) Selection {
	labels := make(map[string]string, len(info.Nodes))
	for _, n := range info.Nodes {
		labels[n.ID] = n.Label
	}

	list := make(Selection, 0, len(info.Links))
	for _, l := range info.Links {
		src, srcOK := labels[l.SrcNodeID]
		trg, trgOK := labels[l.TrgNodeID]
		if !srcOK || !trgOK {
			continue
		}
		list = append(list, SelectableItem{Label: src + "-" + trg, Value: l.ID})
	}
	return list
}

// OnOperationSelected builds a fresh state for op: every operation-scoped
// field is reset, pick-lists are derived and the first entry is selected.
func OnOperationSelected(env Env, op Operation) State {
	s := State{Operation: op}

	d, ok := descriptors[op]
	if !ok {
		return s
	}

	info := env.Canvas.GetCanvasInfo()

	switch d.family {
	case familyNode:
		s.Nodes = NodeList(info)
		if first, ok := s.Nodes.First(); ok {
			s.NodeID = first.Value
			s = d.prefill(env, info, s)
		}

	case familyPort:
		s.Nodes = NodesWithPorts(info, d.direction)
		if first, ok := s.Nodes.First(); ok {
			s.NodeID = first.Value
			s.Ports = PortList(info, s.NodeID, d.direction)
			if port, ok := s.Ports.First(); ok {
				s.PortID = port.Value
				s = d.prefill(env, info, s)
			}
		}

	case familyLink:
		s.Links = LinkList(info)
		if first, ok := s.Links.First(); ok {
			s.LinkID = first.Value
			s = d.prefill(env, info, s)
		}
	}

	if d.init != nil {
		s = d.init(env, s)
	}
	return s
}

// ErrNotListed is returned when a selected id is not in the pick-list
// derived from the current snapshot
var ErrNotListed = errors.New("not in the current list")

// OnNodeSelected handles picking a node from the node list. For port
// operations the port and label are cleared and the port list re-derived.
func OnNodeSelected(env Env, s State, nodeID string) (State, error) {
	d, ok := descriptors[s.Operation]
	if !ok || d.family == familyNone || d.family == familyLink {
		return s, nil
	}
	if !s.Nodes.Contains(nodeID) {
		return s, fmt.Errorf("node %q: %w", nodeID, ErrNotListed)
	}

	info := env.Canvas.GetCanvasInfo()
	s.NodeID = nodeID

	switch d.family {
	case familyPort:
		s.PortID = ""
		s.NewLabel = ""
		s.Ports = PortList(info, nodeID, d.direction)
	case familyNode:
		s = d.prefill(env, info, s)
	}
	return s, nil
}

// OnPortSelected handles picking a port; only the label is re-derived
func OnPortSelected(env Env, s State, portID string) (State, error) {
	d, ok := descriptors[s.Operation]
	if !ok || d.family != familyPort {
		return s, nil
	}
	if !s.Ports.Contains(portID) {
		return s, fmt.Errorf("port %q: %w", portID, ErrNotListed)
	}

	s.PortID = portID
	return d.prefill(env, env.Canvas.GetCanvasInfo(), s), nil
}

// OnLinkSelected handles picking a link; only dependent fields are re-derived
func OnLinkSelected(env Env, s State, linkID string) (State, error) {
	d, ok := descriptors[s.Operation]
	if !ok || d.family != familyLink {
		return s, nil
	}
	if !s.Links.Contains(linkID) {
		return s, fmt.Errorf("link %q: %w", linkID, ErrNotListed)
	}

	s.LinkID = linkID
	return d.prefill(env, env.Canvas.GetCanvasInfo(), s), nil
}

// OnSnapshotChanged re-derives every pick-list of the current operation.
// Selections still listed are kept, the rest fall back to the first entry,
// and dependent fields are prefilled again from the new snapshot.
func OnSnapshotChanged(env Env, s State) State {
	d, ok := descriptors[s.Operation]
	if !ok || d.family == familyNone {
		return s
	}

	info := env.Canvas.GetCanvasInfo()
	switch d.family {
	case familyNode:
		s.Nodes = NodeList(info)
		s.NodeID = keepOrFirst(s.Nodes, s.NodeID)
	case familyPort:
		s.Nodes = NodesWithPorts(info, d.direction)
		s.NodeID = keepOrFirst(s.Nodes, s.NodeID)
		s.Ports = PortList(info, s.NodeID, d.direction)
		s.PortID = keepOrFirst(s.Ports, s.PortID)
	case familyLink:
		s.Links = LinkList(info)
		s.LinkID = keepOrFirst(s.Links, s.LinkID)
	}
	return d.prefill(env, info, s)
}

func keepOrFirst(list Selection, id string) string {
	if list.Contains(id) {
		return id
	}
	first, _ := list.First()
	return first.Value
}

// refreshLists re-derives the list the last dispatch may have invalidated
func refreshLists(env Env, s State) State {
	d := descriptors[s.Operation]
	info := env.Canvas.GetCanvasInfo()

	switch d.refresh {
	case refreshNodes:
		s.Nodes = NodeList(info)
	case refreshPorts:
		s.Ports = PortList(info, s.NodeID, d.direction)
	case refreshLinks:
		s.Links = LinkList(info)
	}
	return s
}

func prefillNodeLabel(_ Env, info canvas.Info, s State) State {
	s.NewLabel = ""
	if node, ok := info.FindNode(s.NodeID); ok {
		s.NewLabel = node.Label
	}
	return s
}

func prefillPortLabel(_ Env, info canvas.Info, s State) State {
	s.NewLabel = ""
	node, ok := info.FindNode(s.NodeID)
	if !ok {
		return s
	}
	dir := descriptors[s.Operation].direction
	for _, p := range node.Ports(dir) {
		if p.ID == s.PortID {
			s.NewLabel = p.Label
			break
		}
	}
	return s
}

func prefillNodeDecorations(_ Env, info canvas.Info, s State) State {
	s.Decorations = ""
	if node, ok := info.FindNode(s.NodeID); ok && len(node.Decorations) > 0 {
		s.Decorations = indentJSON(node.Decorations)
	}
	return s
}

func prefillLinkDecorations(_ Env, info canvas.Info, s State) State {
	decs := []canvas.Decoration{}
	if link, ok := info.FindLink(s.LinkID); ok && link.Decorations != nil {
		decs = link.Decorations
	}
	s.Decorations = indentJSON(decs)
	return s
}

func prefillZoomNode(env Env, _ canvas.Info, s State) State {
	s.ZoomObject = zoomTarget(env, s.NodeID, s)
	return s
}

func prefillZoomLink(env Env, _ canvas.Info, s State) State {
	s.ZoomObject = zoomTarget(env, s.LinkID, s)
	return s
}

// zoomTarget asks the controller for the reveal transform and serializes
// it. An empty string means no target.
func zoomTarget(env Env, objectID string, s State) string {
	if objectID == "" {
		return ""
	}
	zoom := env.Canvas.GetZoomToReveal([]string{objectID}, parsePercent(s.XOffset), parsePercent(s.YOffset))
	if zoom == nil {
		return ""
	}
	data, err := json.Marshal(zoom)
	if err != nil {
		return ""
	}
	return string(data)
}

// parsePercent reads a raw offset input. Blank or unparsable input means
// the offset was not given.
func parsePercent(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func indentJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
