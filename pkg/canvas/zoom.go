package canvas

import "math"

// Node dimensions used for bounding box calculations
const (
	NodeWidth  = 70.0
	NodeHeight = 75.0

	minZoom = 0.2
	maxZoom = 1.8
)

// BoundingBox represents a rectangular area on the canvas
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains checks if other lies completely inside the bounding box
func (bb BoundingBox) Contains(other BoundingBox) bool {
	return other.X >= bb.X &&
		other.Y >= bb.Y &&
		other.X+other.Width <= bb.X+bb.Width &&
		other.Y+other.Height <= bb.Y+bb.Height
}

// Union returns the smallest box containing both boxes
func (bb BoundingBox) Union(other BoundingBox) BoundingBox {
	x1 := math.Min(bb.X, other.X)
	y1 := math.Min(bb.Y, other.Y)
	x2 := math.Max(bb.X+bb.Width, other.X+other.Width)
	y2 := math.Max(bb.Y+bb.Height, other.Y+other.Height)
	return BoundingBox{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the center of the bounding box
func (bb BoundingBox) Center() (float64, float64) {
	return bb.X + bb.Width/2, bb.Y + bb.Height/2
}

func nodeBox(n Node) BoundingBox {
	return BoundingBox{X: n.X, Y: n.Y, Width: NodeWidth, Height: NodeHeight}
}

func commentBox(c Comment) BoundingBox {
	return BoundingBox{X: c.X, Y: c.Y, Width: NodeWidth, Height: NodeHeight}
}

// objectsBox returns the bounding box of the objects with the given ids.
// A link contributes the boxes of both of its ends.
func objectsBox(info Info, ids []string) (BoundingBox, bool) {
	var (
		box   BoundingBox
		found bool
	)

	add := func(b BoundingBox) {
		if !found {
			box = b
			found = true
			return
		}
		box = box.Union(b)
	}

	boxFor := func(id string) (BoundingBox, bool) {
		if n, ok := info.FindNode(id); ok {
			return nodeBox(n), true
		}
		for _, c := range info.Comments {
			if c.ID == id {
				return commentBox(c), true
			}
		}
		return BoundingBox{}, false
	}

	for _, id := range ids {
		if b, ok := boxFor(id); ok {
			add(b)
			continue
		}
		link, ok := info.FindLink(id)
		if !ok {
			return BoundingBox{}, false
		}
		src, srcOK := boxFor(link.SrcNodeID)
		trg, trgOK := boxFor(link.TrgNodeID)
		if !srcOK || !trgOK {
			return BoundingBox{}, false
		}
		add(src)
		add(trg)
	}

	return box, found
}

// visibleArea returns the canvas region shown by the viewport under zoom
func visibleArea(vp Viewport, zoom ZoomObject) BoundingBox {
	k := zoom.K
	if k == 0 {
		k = 1
	}
	return BoundingBox{
		X:      -zoom.X / k,
		Y:      -zoom.Y / k,
		Width:  vp.Width / k,
		Height: vp.Height / k,
	}
}

// zoomToReveal computes the transform that shows box inside the viewport.
// It returns nil when box is already visible and no offsets were requested.
func zoomToReveal(vp Viewport, current ZoomObject, box BoundingBox, xPercent, yPercent *float64) *ZoomObject {
	if xPercent == nil && yPercent == nil && visibleArea(vp, current).Contains(box) {
		return nil
	}

	k := current.K
	if k == 0 {
		k = 1
	}

	// Shrink when the objects don't fit at the current scale
	if box.Width*k > vp.Width || box.Height*k > vp.Height {
		fit := math.Min(vp.Width/box.Width, vp.Height/box.Height) * 0.9
		k = math.Max(minZoom, math.Min(maxZoom, fit))
	}

	px, py := 50.0, 50.0
	if xPercent != nil {
		px = *xPercent
	}
	if yPercent != nil {
		py = *yPercent
	}

	cx, cy := box.Center()
	return &ZoomObject{
		X: vp.Width*px/100 - cx*k,
		Y: vp.Height*py/100 - cy*k,
		K: k,
	}
}
