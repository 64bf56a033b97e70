package probe

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ProxyShape is the shape of a proxy volume.
type ProxyShape int

const (
	ProxyShapeBox ProxyShape = iota
	ProxyShapeSphere
	// ProxyShapeInfinite projects the captured environment at infinity.
	ProxyShapeInfinite
)

// ProxyVolume is the geometry a probe's image is reprojected onto.
type ProxyVolume struct {
	Shape        ProxyShape
	BoxSize      mgl32.Vec3
	SphereRadius float32
}

// Extents returns the half-size of the proxy along each local axis.
// An infinite proxy reports unit extents.
//
// Returns:
//   - mgl32.Vec3: the extents
func (v ProxyVolume) Extents() mgl32.Vec3 {
	switch v.Shape {
	case ProxyShapeBox:
		return v.BoxSize.Mul(0.5)
	case ProxyShapeSphere:
		return mgl32.Vec3{v.SphereRadius, v.SphereRadius, v.SphereRadius}
	default:
		return mgl32.Vec3{1, 1, 1}
	}
}

// ProxyVolumeComponent places a proxy volume in the world. It is owned by the
// scene, not by the probes that link to it.
type ProxyVolumeComponent struct {
	Transform common.Transform
	Volume    ProxyVolume
}

// NewProxyVolumeComponent creates a placed proxy volume.
//
// Parameters:
//   - t: the world transform of the volume
//   - v: the volume shape
//
// Returns:
//   - *ProxyVolumeComponent: the component
func NewProxyVolumeComponent(t common.Transform, v ProxyVolume) *ProxyVolumeComponent {
	return &ProxyVolumeComponent{Transform: t, Volume: v}
}

// LocalToWorld returns the world matrix of the proxy volume.
func (c *ProxyVolumeComponent) LocalToWorld() mgl32.Mat4 {
	return c.Transform.LocalToWorld()
}
