package probe

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/go-gl/mathgl/mgl32"
)

// InfluenceShape is the shape of an influence volume.
type InfluenceShape int

const (
	InfluenceShapeBox InfluenceShape = iota
	InfluenceShapeSphere
)

// DefaultInfluenceBoxSize is the box size of a default influence volume.
const DefaultInfluenceBoxSize float32 = 10

// InfluenceVolume describes where a probe's contribution affects shading.
// It is expressed in the probe's local space, offset from the probe origin.
type InfluenceVolume struct {
	Shape InfluenceShape
	// BoxSize is the full size of the box shape.
	BoxSize mgl32.Vec3
	// SphereRadius is the radius of the sphere shape.
	SphereRadius float32
	// Offset is the local-space offset of the volume center from the probe origin.
	Offset mgl32.Vec3
}

// NewInfluenceVolume returns the default influence volume: a 10 unit box centered on the probe.
//
// Returns:
//   - *InfluenceVolume: a new default volume
func NewInfluenceVolume() *InfluenceVolume {
	return &InfluenceVolume{
		Shape:        InfluenceShapeBox,
		BoxSize:      mgl32.Vec3{DefaultInfluenceBoxSize, DefaultInfluenceBoxSize, DefaultInfluenceBoxSize},
		SphereRadius: DefaultInfluenceBoxSize * 0.5,
	}
}

// Extents returns the half-size of the volume along each local axis.
//
// Returns:
//   - mgl32.Vec3: the extents
func (v *InfluenceVolume) Extents() mgl32.Vec3 {
	if v.Shape == InfluenceShapeSphere {
		return mgl32.Vec3{v.SphereRadius, v.SphereRadius, v.SphereRadius}
	}
	return v.BoxSize.Mul(0.5)
}

// InfluenceToWorld returns the matrix mapping the volume's local space into world space.
//
// Parameters:
//   - t: the world transform of the owning probe
//
// Returns:
//   - mgl32.Mat4: the influence-to-world matrix
func (v *InfluenceVolume) InfluenceToWorld(t common.Transform) mgl32.Mat4 {
	return t.LocalToWorld().Mul4(mgl32.Translate3D(v.Offset.X(), v.Offset.Y(), v.Offset.Z()))
}

// BoundingSphereAt returns the sphere enclosing the volume when its probe is placed by t.
// The offset is rotated with the probe, matching InfluenceToWorld.
//
// Parameters:
//   - t: the world transform of the probe
//
// Returns:
//   - common.BoundingSphere: the enclosing sphere
func (v *InfluenceVolume) BoundingSphereAt(t common.Transform) common.BoundingSphere {
	center := t.TransformPoint(v.Offset)
	if v.Shape == InfluenceShapeSphere {
		return common.BoundingSphere{Center: center, Radius: v.SphereRadius}
	}
	return common.BoundingSphere{Center: center, Radius: v.Extents().Len()}
}

// BoundsAt returns the world axis-aligned box enclosing the volume when its probe is placed by t.
//
// Parameters:
//   - t: the world transform of the probe
//
// Returns:
//   - common.Bounds: the enclosing box
func (v *InfluenceVolume) BoundsAt(t common.Transform) common.Bounds {
	extents := v.Extents()
	if v.Shape == InfluenceShapeSphere {
		return common.Bounds{Center: t.TransformPoint(v.Offset), Extents: extents}
	}

	// Each world half-axis is the sum of the rotated local half-axes projected onto it.
	var world mgl32.Vec3
	for i := 0; i < 3; i++ {
		var axis mgl32.Vec3
		axis[i] = extents[i]
		r := t.TransformDirection(axis)
		world = world.Add(mgl32.Vec3{abs32(r[0]), abs32(r[1]), abs32(r[2])})
	}
	return common.Bounds{Center: t.TransformPoint(v.Offset), Extents: world}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
