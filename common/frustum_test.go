package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// testFrustum looks down -Z from the origin with a 90 degree square frustum.
func testFrustum() Frustum {
	return ExtractFrustumFromMatrix(Perspective(mgl32.DegToRad(90), 1, 0.1, 100))
}

func TestFrustumIntersectsSphere(t *testing.T) {
	type spec struct {
		sphere BoundingSphere
		exp    bool
	}
	specs := []spec{
		{BoundingSphere{Center: mgl32.Vec3{0, 0, -10}, Radius: 1}, true},
		{BoundingSphere{Center: mgl32.Vec3{0, 0, 10}, Radius: 1}, false},
		// Straddles the near plane.
		{BoundingSphere{Center: mgl32.Vec3{0, 0, 0.5}, Radius: 1}, true},
		{BoundingSphere{Center: mgl32.Vec3{100, 0, -10}, Radius: 1}, false},
		{BoundingSphere{Center: mgl32.Vec3{0, 0, -200}, Radius: 1}, false},
		{BoundingSphere{Center: mgl32.Vec3{0, 0, -200}, Radius: 150}, true},
	}

	f := testFrustum()
	for index, s := range specs {
		if got := f.IntersectsSphere(s.sphere); got != s.exp {
			t.Fatalf("[spec %d] expected IntersectsSphere(%v) to be %t; got %t", index, s.sphere, s.exp, got)
		}
	}
}

func TestFrustumIntersectsBounds(t *testing.T) {
	type spec struct {
		bounds Bounds
		exp    bool
	}
	specs := []spec{
		{Bounds{Center: mgl32.Vec3{0, 0, -10}, Extents: mgl32.Vec3{1, 1, 1}}, true},
		{Bounds{Center: mgl32.Vec3{0, 0, 10}, Extents: mgl32.Vec3{1, 1, 1}}, false},
		{Bounds{Center: mgl32.Vec3{-30, 0, -10}, Extents: mgl32.Vec3{25, 1, 1}}, true},
		{Bounds{Center: mgl32.Vec3{-30, 0, -10}, Extents: mgl32.Vec3{1, 1, 1}}, false},
	}

	f := testFrustum()
	for index, s := range specs {
		if got := f.IntersectsBounds(s.bounds); got != s.exp {
			t.Fatalf("[spec %d] expected IntersectsBounds(%v) to be %t; got %t", index, s.bounds, s.exp, got)
		}
	}
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		if l := p.Normal.Len(); mgl32.Abs(l-1) > 1e-5 {
			t.Fatalf("plane %d normal length %f; expected 1", i, l)
		}
	}
}
