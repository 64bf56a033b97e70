package probe

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/go-gl/mathgl/mgl32"
)

type planarProbeImpl struct {
	*probeImpl

	mirrorPosition mgl32.Vec3
	mirrorNormal   mgl32.Vec3
	cullingSphere  common.BoundingSphere
	prepared       bool
}

// PlanarProbe is a probe that captures the scene mirrored across a plane, used for
// flat reflective surfaces such as floors and water. The plane passes through the
// influence volume center and faces along the probe's local +Y axis.
type PlanarProbe interface {
	Probe

	// MirrorPlane returns the world-space mirror plane computed by the last PrepareCulling.
	//
	// Returns:
	//   - common.Plane: the plane, normal pointing towards the reflected side
	MirrorPlane() common.Plane

	// MirrorPosition returns a world-space point on the mirror plane.
	//
	// Returns:
	//   - mgl32.Vec3: the point
	MirrorPosition() mgl32.Vec3

	// MirrorNormal returns the world-space unit normal of the mirror plane.
	//
	// Returns:
	//   - mgl32.Vec3: the normal
	MirrorNormal() mgl32.Vec3

	// CullingSphere returns the sphere computed by the last PrepareCulling.
	//
	// Returns:
	//   - common.BoundingSphere: the cached sphere
	CullingSphere() common.BoundingSphere

	// Prepared reports whether PrepareCulling ran at least once.
	Prepared() bool
}

var _ PlanarProbe = &planarProbeImpl{}

// NewPlanarProbe creates a planar reflection probe with default settings and any
// provided options applied.
//
// Parameters:
//   - opts: variadic list of ProbeBuilderOption functions to configure the probe
//
// Returns:
//   - PlanarProbe: a new planar probe
func NewPlanarProbe(opts ...ProbeBuilderOption) PlanarProbe {
	return &planarProbeImpl{probeImpl: newProbeImpl(ProbeTypePlanar, opts...)}
}

// PrepareCulling caches the world mirror plane and culling sphere from the current
// transform and influence volume.
func (p *planarProbeImpl) PrepareCulling() {
	p.mu.Lock()
	defer p.mu.Unlock()

	influence := p.influenceLocked()
	p.mirrorPosition = p.transform.TransformPoint(influence.Offset)
	p.mirrorNormal = p.transform.TransformDirection(mgl32.Vec3{0, 1, 0}).Normalize()
	p.cullingSphere = influence.BoundingSphereAt(p.transform)
	p.prepared = true
}

func (p *planarProbeImpl) MirrorPlane() common.Plane {
	p.mu.Lock()
	defer p.mu.Unlock()
	return common.Plane{Normal: p.mirrorNormal, Distance: -p.mirrorNormal.Dot(p.mirrorPosition)}
}

func (p *planarProbeImpl) MirrorPosition() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mirrorPosition
}

func (p *planarProbeImpl) MirrorNormal() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mirrorNormal
}

func (p *planarProbeImpl) CullingSphere() common.BoundingSphere {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cullingSphere
}

func (p *planarProbeImpl) Prepared() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prepared
}
