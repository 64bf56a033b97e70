package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a perspective projection matrix.
// Uses the WebGPU clip space convention where depth maps to [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// FlipZ returns the scale matrix that negates the Z axis. Left-multiplying a
// camera matrix whose forward axis is +Z by FlipZ yields the right-handed
// convention (forward along -Z) expected by the shading code.
//
// Returns:
//   - mgl32.Mat4: diag(1, 1, -1, 1)
func FlipZ() mgl32.Mat4 {
	return mgl32.Scale3D(1, 1, -1)
}

// ReflectPoint mirrors a point across a plane given by a unit normal and a point on the plane.
//
// Parameters:
//   - p: the point to mirror
//   - planePoint: any point on the plane
//   - planeNormal: the unit normal of the plane
//
// Returns:
//   - mgl32.Vec3: the mirrored point
func ReflectPoint(p, planePoint, planeNormal mgl32.Vec3) mgl32.Vec3 {
	d := p.Sub(planePoint).Dot(planeNormal)
	return p.Sub(planeNormal.Mul(2 * d))
}

// PlaneReflection returns the matrix mirroring world space across a plane.
// The plane normal must be unit length. Right-multiplying a world-to-camera
// matrix by it yields the camera that sees the mirrored scene.
//
// Parameters:
//   - plane: the mirror plane
//
// Returns:
//   - mgl32.Mat4: the reflection matrix (column-major)
func PlaneReflection(plane Plane) mgl32.Mat4 {
	n := plane.Normal
	d := plane.Distance
	return mgl32.Mat4{
		1 - 2*n[0]*n[0], -2 * n[1] * n[0], -2 * n[2] * n[0], 0,
		-2 * n[0] * n[1], 1 - 2*n[1]*n[1], -2 * n[2] * n[1], 0,
		-2 * n[0] * n[2], -2 * n[1] * n[2], 1 - 2*n[2]*n[2], 0,
		-2 * d * n[0], -2 * d * n[1], -2 * d * n[2], 1,
	}
}
