package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformLocalToWorld(t *testing.T) {
	tr := Transform{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent()}
	got := tr.LocalToWorld().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !got.ApproxEqual(mgl32.Vec4{1, 2, 3, 1}) {
		t.Fatalf("expected origin to map to (1, 2, 3); got %v", got)
	}
}

func TestTransformRotation(t *testing.T) {
	tr := Transform{Position: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})}

	if d := tr.TransformDirection(mgl32.Vec3{1, 0, 0}); !d.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Fatalf("expected +X to rotate to -Z; got %v", d)
	}
	if p := tr.TransformPoint(mgl32.Vec3{1, 0, 0}); !p.ApproxEqualThreshold(mgl32.Vec3{0, 1, -1}, 1e-5) {
		t.Fatalf("expected (1, 0, 0) to map to (0, 1, -1); got %v", p)
	}
}

func TestZeroTransformIsIdentity(t *testing.T) {
	var tr Transform
	if p := tr.TransformPoint(mgl32.Vec3{4, 5, 6}); p != (mgl32.Vec3{4, 5, 6}) {
		t.Fatalf("expected zero transform to leave points unchanged; got %v", p)
	}
	if m := tr.LocalToWorld(); m != mgl32.Ident4() {
		t.Fatalf("expected identity matrix; got %v", m)
	}
}

func TestBoundsCorners(t *testing.T) {
	b := Bounds{Center: mgl32.Vec3{1, 1, 1}, Extents: mgl32.Vec3{1, 2, 3}}
	if b.Min() != (mgl32.Vec3{0, -1, -2}) || b.Max() != (mgl32.Vec3{2, 3, 4}) {
		t.Fatalf("unexpected corners %v %v", b.Min(), b.Max())
	}
	if b.Size() != (mgl32.Vec3{2, 4, 6}) {
		t.Fatalf("unexpected size %v", b.Size())
	}
}

func TestReflection(t *testing.T) {
	plane := Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: -2}

	if p := ReflectPoint(mgl32.Vec3{1, 5, 1}, mgl32.Vec3{0, 2, 0}, plane.Normal); p != (mgl32.Vec3{1, -1, 1}) {
		t.Fatalf("expected (1, -1, 1); got %v", p)
	}

	got := PlaneReflection(plane).Mul4x1(mgl32.Vec4{1, 5, 1, 1})
	if !got.ApproxEqual(mgl32.Vec4{1, -1, 1, 1}) {
		t.Fatalf("expected reflection matrix to map (1, 5, 1) to (1, -1, 1); got %v", got)
	}
}

func TestLazy(t *testing.T) {
	var l Lazy[int]
	calls := 0
	construct := func() *int {
		calls++
		v := 42
		return &v
	}

	if l.Loaded() {
		t.Fatal("expected empty Lazy")
	}
	first := l.Get(construct)
	second := l.Get(construct)
	if first != second {
		t.Fatal("expected Get to return the same instance")
	}
	if calls != 1 {
		t.Fatalf("expected construct to run once; ran %d times", calls)
	}

	l.Set(nil)
	if l.Loaded() {
		t.Fatal("expected Set(nil) to empty the Lazy")
	}
}
