package dialface

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene owns the node tree for one canvas. The tree is rooted at a container
// sized to the full canvas; every loaded face mounts its own container under
// that root.
type Scene struct {
	root   *Node
	width  int
	height int

	// ClearColor fills the canvas before the tree is drawn.
	ClearColor Color

	fades []*FadeIn
}

// NewScene creates a scene with a pre-created root container covering the
// full width×height canvas.
func NewScene(width, height int) *Scene {
	root := NewContainer("root", float64(width), float64(height))
	return &Scene{
		root:       root,
		width:      width,
		height:     height,
		ClearColor: ColorBlack,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Size returns the canvas dimensions in pixels.
func (s *Scene) Size() (w, h int) {
	return s.width, s.height
}

// Advance progresses time-based visuals: GIF frames and face-switch fades.
// dt is in seconds. Scene mutation and Advance must happen on the same
// goroutine; nothing here is synchronized.
func (s *Scene) Advance(dt float64) {
	advanceGifs(s.root, dt)

	if len(s.fades) == 0 {
		return
	}
	live := s.fades[:0]
	for _, f := range s.fades {
		f.Update(float32(dt))
		if !f.Done {
			live = append(live, f)
		}
	}
	for i := len(live); i < len(s.fades); i++ {
		s.fades[i] = nil
	}
	s.fades = live
}

// StartFade attaches an alpha fade-in to the given node, advanced by Advance.
func (s *Scene) StartFade(node *Node, duration float32) *FadeIn {
	f := NewFadeIn(node, duration)
	s.fades = append(s.fades, f)
	return f
}

// Draw refreshes world transforms and paints the tree onto target in tree
// order (the z-order faces declare).
func (s *Scene) Draw(target *ebiten.Image) {
	target.Fill(s.ClearColor.toRGBA())
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	drawNode(target, s.root)
}

// advanceGifs walks the tree advancing every GIF player.
func advanceGifs(n *Node, dt float64) {
	if n.Kind == NodeKindGif && n.Gif != nil {
		n.Gif.Advance(dt)
	}
	for _, child := range n.children {
		advanceGifs(child, dt)
	}
}
