package dialface

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter (no atomic — dialface is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. A single flat struct is used for all node
// kinds to avoid interface dispatch on the per-tick path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Kind NodeKind

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). X and Y locate the pivot point in parent space.
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64 // radians, clockwise
	PivotX, PivotY float64

	// Natural size before scaling. Sprites take it from their image, text
	// nodes from the measured content, containers from their constructor.
	Width, Height float64

	// Computed (updated during traversal)
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	Alpha   float64
	Visible bool
	Color   Color

	// Sprite payload (NodeKindSprite)
	Image *ebiten.Image

	// Text payload (NodeKindText)
	TextBlock *TextBlock

	// Gif payload (NodeKindGif)
	Gif *GifPlayer

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a container node with no visual representation,
// sized for child anchoring purposes.
func NewContainer(name string, width, height float64) *Node {
	n := &Node{Name: name, Kind: NodeKindContainer, Width: width, Height: height}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node displaying the given image.
// The node's natural size is the image size.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Kind: NodeKindSprite, Image: img}
	if img != nil {
		b := img.Bounds()
		n.Width = float64(b.Dx())
		n.Height = float64(b.Dy())
	}
	nodeDefaults(n)
	return n
}

// NewText creates a text node with the given content and font.
func NewText(name, content string, font Font) *Node {
	n := &Node{
		Name: name,
		Kind: NodeKindText,
		TextBlock: &TextBlock{
			Content: content,
			Font:    font,
			Color:   ColorWhite,
		},
	}
	nodeDefaults(n)
	n.Width, n.Height = n.TextBlock.Measure()
	return n
}

// NewGif creates a node that renders an animated GIF.
// The node's natural size is the GIF logical screen size.
func NewGif(name string, player *GifPlayer) *Node {
	n := &Node{Name: name, Kind: NodeKindGif, Gif: player}
	if player != nil {
		n.Width = float64(player.Width())
		n.Height = float64(player.Height())
	}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children. Child order is draw order.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("dialface: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("dialface: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("dialface: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Image = nil
	n.TextBlock = nil
	if n.Gif != nil {
		n.Gif.release()
		n.Gif = nil
	}
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
