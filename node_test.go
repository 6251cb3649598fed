package dialface

import "testing"

func TestAddChildSetsParent(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 10, 10)

	parent.AddChild(child)

	if child.Parent != parent {
		t.Fatal("child.Parent not set")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Fatal("child not in parent's children")
	}
}

func TestAddChildPreservesOrder(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	a := NewContainer("a", 1, 1)
	b := NewContainer("b", 1, 1)
	c := NewContainer("c", 1, 1)

	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	for i, want := range []*Node{a, b, c} {
		if parent.ChildAt(i) != want {
			t.Errorf("child %d = %q, want %q", i, parent.ChildAt(i).Name, want.Name)
		}
	}
}

func TestAddChildReparents(t *testing.T) {
	p1 := NewContainer("p1", 100, 100)
	p2 := NewContainer("p2", 100, 100)
	child := NewContainer("child", 10, 10)

	p1.AddChild(child)
	p2.AddChild(child)

	if child.Parent != p2 {
		t.Fatal("child not reparented")
	}
	if p1.NumChildren() != 0 {
		t.Fatal("child still listed under old parent")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil child")
		}
	}()
	NewContainer("parent", 100, 100).AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 10, 10)
	parent.AddChild(child)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on cycle")
		}
	}()
	child.AddChild(parent)
}

func TestRemoveChild(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 10, 10)
	parent.AddChild(child)

	parent.RemoveChild(child)

	if child.Parent != nil {
		t.Fatal("child.Parent not cleared")
	}
	if parent.NumChildren() != 0 {
		t.Fatal("child still listed")
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	stranger := NewContainer("stranger", 10, 10)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on foreign child")
		}
	}()
	parent.RemoveChild(stranger)
}

func TestRemoveFromParentNoParent(t *testing.T) {
	n := NewContainer("orphan", 10, 10)
	n.RemoveFromParent() // must not panic
}

func TestDisposeRecursive(t *testing.T) {
	root := NewContainer("root", 100, 100)
	mid := NewContainer("mid", 50, 50)
	leaf := NewSprite("leaf", WhitePixel)
	root.AddChild(mid)
	mid.AddChild(leaf)

	mid.Dispose()

	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Fatal("subtree not disposed")
	}
	if root.NumChildren() != 0 {
		t.Fatal("disposed subtree still attached")
	}
	if leaf.Image != nil {
		t.Fatal("sprite payload not released")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewContainer("n", 10, 10)
	n.Dispose()
	n.Dispose() // second call is a no-op
	if !n.IsDisposed() {
		t.Fatal("not disposed")
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a := NewContainer("a", 1, 1)
	b := NewContainer("b", 1, 1)
	if a.ID == b.ID {
		t.Fatalf("duplicate node IDs: %d", a.ID)
	}
}

func TestNewSpriteTakesImageSize(t *testing.T) {
	n := NewSprite("pixel", WhitePixel)
	if n.Width != 1 || n.Height != 1 {
		t.Fatalf("sprite size = %vx%v, want 1x1", n.Width, n.Height)
	}
	if n.Kind != NodeKindSprite {
		t.Fatalf("kind = %v, want sprite", n.Kind)
	}
}

func TestNodeDefaults(t *testing.T) {
	n := NewContainer("n", 10, 10)
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Error("scale default is not 1")
	}
	if n.Alpha != 1 {
		t.Error("alpha default is not 1")
	}
	if !n.Visible {
		t.Error("node not visible by default")
	}
	if n.Color != ColorWhite {
		t.Error("color default is not white")
	}
}
