package dialface

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// drawNode paints n and then its children onto target. Faces have a few
// dozen items at most and their descriptor order IS the draw order, so a
// direct painter's traversal replaces any command sorting or batching.
func drawNode(target *ebiten.Image, n *Node) {
	if !n.Visible || n.disposed {
		return
	}

	switch n.Kind {
	case NodeKindSprite:
		if n.Image != nil {
			drawImageNode(target, n, n.Image)
		}
	case NodeKindGif:
		if n.Gif != nil {
			if frame := n.Gif.CurrentFrame(); frame != nil {
				drawImageNode(target, n, frame)
			}
		}
	case NodeKindText:
		if n.TextBlock != nil && n.TextBlock.Font != nil {
			n.TextBlock.draw(target, n.worldTransform, n.Color, n.worldAlpha)
		}
	}
	// NodeKindContainer has no visual output of its own.

	for _, child := range n.children {
		drawNode(target, child)
	}
}

// drawImageNode submits one image draw using the node's world transform and
// tint. Alpha is premultiplied into the color scale here.
func drawImageNode(target *ebiten.Image, n *Node, img *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM = geoM(n.worldTransform)
	applyTint(&op.ColorScale, n.Color, n.worldAlpha)
	op.Filter = ebiten.FilterLinear
	target.DrawImage(img, &op)
}

// geoM converts a [6]float64 affine matrix [a, b, c, d, tx, ty] to an
// ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// applyTint scales cs by the tint color with alpha premultiplied.
func applyTint(cs *ebiten.ColorScale, tint Color, alpha float64) {
	a := float32(tint.A * alpha)
	cs.Scale(
		float32(tint.R)*a,
		float32(tint.G)*a,
		float32(tint.B)*a,
		a,
	)
}
