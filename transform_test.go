package dialface

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- computeLocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	n := NewContainer("test", 100, 100)
	got := computeLocalTransform(n)
	assertMatrix(t, "identity", got, [6]float64{1, 0, 0, 1, 0, 0})
}

func TestLocalTransformTranslation(t *testing.T) {
	n := NewContainer("test", 100, 100)
	n.X = 10
	n.Y = 20
	got := computeLocalTransform(n)
	assertMatrix(t, "translation", got, [6]float64{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformScale(t *testing.T) {
	n := NewContainer("test", 100, 100)
	n.ScaleX = 2
	n.ScaleY = 3
	got := computeLocalTransform(n)
	assertMatrix(t, "scale", got, [6]float64{2, 0, 0, 3, 0, 0})
}

func TestLocalTransformRotation90(t *testing.T) {
	n := NewContainer("test", 100, 100)
	n.Rotation = math.Pi / 2
	got := computeLocalTransform(n)
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", got, [6]float64{0, 1, -1, 0, 0, 0})
}

func TestLocalTransformPivot(t *testing.T) {
	n := NewContainer("test", 100, 100)
	n.X = 100
	n.Y = 200
	n.PivotX = 16
	n.PivotY = 16
	got := computeLocalTransform(n)
	// T(100,200) * T(-16,-16) = [1,0,0,1, 84, 184]
	assertMatrix(t, "pivot", got, [6]float64{1, 0, 0, 1, 84, 184})
}

func TestLocalTransformCombined(t *testing.T) {
	n := NewContainer("test", 100, 100)
	n.X = 50
	n.Y = 100
	n.ScaleX = 2
	n.ScaleY = 2
	n.Rotation = math.Pi / 2

	got := computeLocalTransform(n)
	// Scale(2,2) then Rotate(90°):
	// a = cos*sx = 0, b = sin*sx = 2, c = -sin*sy = -2, d = cos*sy = 0
	assertMatrix(t, "combined", got, [6]float64{0, 2, -2, 0, 50, 100})
}

// TestLocalTransformPivotIsRotationCenter verifies the property indicator
// placement relies on: the pivot point maps to (X, Y) regardless of rotation.
func TestLocalTransformPivotIsRotationCenter(t *testing.T) {
	n := NewContainer("test", 100, 100)
	n.X = 120
	n.Y = 120
	n.PivotX = 4
	n.PivotY = 60

	for _, deg := range []float64{0, 30, 90, 180, 271.5} {
		n.Rotation = deg * math.Pi / 180
		m := computeLocalTransform(n)
		x, y := transformPoint(m, n.PivotX, n.PivotY)
		assertNear(t, "pivot x", x, 120)
		assertNear(t, "pivot y", y, 120)
	}
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	id := identityTransform
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(id, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, id), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	got := multiplyAffine(a, b)
	assertMatrix(t, "translations", got, [6]float64{1, 0, 0, 1, 15, 23})
}

// --- SetRotationTenths ---

func TestSetRotationTenths(t *testing.T) {
	n := NewContainer("test", 100, 100)

	n.SetRotationTenths(900)
	assertNear(t, "90 degrees", n.Rotation, math.Pi/2)

	n.SetRotationTenths(3600)
	assertNear(t, "360 degrees", n.Rotation, 2*math.Pi)

	n.SetRotationTenths(1) // tenth-of-a-degree granularity survives
	assertNear(t, "0.1 degrees", n.Rotation, 0.1*math.Pi/180)
}

// --- updateWorldTransform ---

func TestWorldTransformPropagation(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 50, 50)
	parent.AddChild(child)

	parent.SetPosition(10, 20)
	child.SetPosition(5, 5)

	updateWorldTransform(parent, identityTransform, 1.0, false)

	x, y := child.LocalToWorld(0, 0)
	assertNear(t, "child world x", x, 15)
	assertNear(t, "child world y", y, 25)
}

func TestWorldTransformDirtyOnlyRecomputes(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 50, 50)
	parent.AddChild(child)

	updateWorldTransform(parent, identityTransform, 1.0, false)
	if parent.transformDirty || child.transformDirty {
		t.Fatal("nodes still dirty after update")
	}

	// Direct field writes without MarkDirty must not be picked up.
	child.X = 99
	updateWorldTransform(parent, identityTransform, 1.0, false)
	x, _ := child.LocalToWorld(0, 0)
	assertNear(t, "stale world x", x, 0)

	child.MarkDirty()
	updateWorldTransform(parent, identityTransform, 1.0, false)
	x, _ = child.LocalToWorld(0, 0)
	assertNear(t, "refreshed world x", x, 99)
}

func TestWorldTransformParentRecomputeForcesChildren(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 50, 50)
	parent.AddChild(child)

	updateWorldTransform(parent, identityTransform, 1.0, false)

	parent.SetPosition(30, 0)
	updateWorldTransform(parent, identityTransform, 1.0, false)

	x, _ := child.LocalToWorld(0, 0)
	assertNear(t, "child follows parent", x, 30)
}

func TestWorldAlphaMultiplies(t *testing.T) {
	parent := NewContainer("parent", 100, 100)
	child := NewContainer("child", 50, 50)
	parent.AddChild(child)

	parent.SetAlpha(0.5)
	child.SetAlpha(0.5)
	updateWorldTransform(parent, identityTransform, 1.0, false)

	assertNear(t, "child world alpha", child.worldAlpha, 0.25)
}
