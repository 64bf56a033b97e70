// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the world placement of an entity: a position and an orientation.
// Probes and proxy volumes are never scaled, so there is no scale component.
type Transform struct {
	// Position is the world-space position of the entity.
	Position mgl32.Vec3
	// Rotation is the world-space orientation of the entity.
	Rotation mgl32.Quat
}

// IdentityTransform returns a Transform at the origin with no rotation.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// LocalToWorld builds the 4x4 matrix mapping local coordinates into world space.
// The matrix is column-major (mgl32 convention): translation * rotation.
//
// Returns:
//   - mgl32.Mat4: the local-to-world matrix
func (t Transform) LocalToWorld() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.rotation().Mat4())
}

// TransformPoint maps a point from local space into world space.
//
// Parameters:
//   - p: the local-space point
//
// Returns:
//   - mgl32.Vec3: the world-space point
func (t Transform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return t.Position.Add(t.rotation().Rotate(p))
}

// TransformDirection rotates a local-space direction into world space.
//
// Parameters:
//   - d: the local-space direction
//
// Returns:
//   - mgl32.Vec3: the world-space direction
func (t Transform) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return t.rotation().Rotate(d)
}

// rotation returns the orientation, treating the zero quaternion as identity so
// that a zero-value Transform is usable.
func (t Transform) rotation() mgl32.Quat {
	if t.Rotation.W == 0 && t.Rotation.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return t.Rotation.Normalize()
}

// BoundingSphere is a sphere enclosing an entity, used for coarse culling.
type BoundingSphere struct {
	// Center is the world-space center of the sphere.
	Center mgl32.Vec3
	// Radius is the sphere radius in world units.
	Radius float32
}

// Bounds is an axis-aligned bounding box expressed as a center and half-size.
type Bounds struct {
	// Center is the world-space center of the box.
	Center mgl32.Vec3
	// Extents is the half-size of the box along each axis.
	Extents mgl32.Vec3
}

// Min returns the minimal corner of the box.
func (b Bounds) Min() mgl32.Vec3 {
	return b.Center.Sub(b.Extents)
}

// Max returns the maximal corner of the box.
func (b Bounds) Max() mgl32.Vec3 {
	return b.Center.Add(b.Extents)
}

// Size returns the full size of the box along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Extents.Mul(2)
}
