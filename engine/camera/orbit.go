package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/go-gl/mathgl/mgl32"
)

type orbitImpl struct {
	mu *sync.Mutex

	// position is derived from target and the spherical coordinates.
	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32 // around Y, 0 places the viewer on +Z of the target
	elevation float32 // above the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32
}

// Orbit places a viewer on a sphere around a target, always facing the target.
// It drives the viewer placement planar captures are mirrored from.
type Orbit interface {
	// Position returns the viewer's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Target returns the point the viewer looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the position.
	//
	// Parameters:
	//   - target: the new pivot
	SetTarget(target mgl32.Vec3)

	// Radius returns the distance from the target.
	Radius() float32

	// SetRadius sets the distance from the target, clamped to the radius bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle in radians.
	Elevation() float32

	// SetElevation sets the vertical angle in radians, clamped to the elevation bounds.
	SetElevation(elevation float32)

	// OrbitLeft rotates the viewer left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the viewer right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the viewer upward by one orbit speed step.
	OrbitUp()

	// OrbitDown tilts the viewer downward by one orbit speed step.
	OrbitDown()

	// Zoom moves the viewer towards the target. Negative deltas move it away.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// PositionSettings returns the viewer placement as computed position settings.
	// The rotation maps the camera's local +Z onto the direction of the target.
	//
	// Returns:
	//   - PositionSettings: the viewer placement
	PositionSettings() PositionSettings
}

var _ Orbit = &orbitImpl{}

// NewOrbit creates an orbit viewer with any provided options applied.
//
// Parameters:
//   - options: functional options to configure the orbit
//
// Returns:
//   - Orbit: the orbit viewer
func NewOrbit(options ...OrbitBuilderOption) Orbit {
	o := &orbitImpl{
		mu: &sync.Mutex{},

		radius:    20,
		elevation: float32(math.Pi / 6),

		minRadius:    1,
		maxRadius:    2000,
		minElevation: -float32(math.Pi/2 - 0.1),
		maxElevation: float32(math.Pi/2 - 0.1),

		orbitSpeed: 0.03,
		zoomSpeed:  1,
	}
	for _, option := range options {
		option(o)
	}

	o.radius = clamp(o.radius, o.minRadius, o.maxRadius)
	o.elevation = clamp(o.elevation, o.minElevation, o.maxElevation)
	o.updatePosition()
	return o
}

// updatePosition recomputes the position from the spherical coordinates. Caller must hold the mutex.
func (o *orbitImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(o.elevation)))
	sinElev := float32(math.Sin(float64(o.elevation)))
	cosAzim := float32(math.Cos(float64(o.azimuth)))
	sinAzim := float32(math.Sin(float64(o.azimuth)))

	o.position = o.target.Add(mgl32.Vec3{cosElev * sinAzim, sinElev, cosElev * cosAzim}.Mul(o.radius))
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

func (o *orbitImpl) Position() mgl32.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

func (o *orbitImpl) Target() mgl32.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target
}

func (o *orbitImpl) SetTarget(target mgl32.Vec3) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = target
	o.updatePosition()
}

func (o *orbitImpl) Radius() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.radius
}

func (o *orbitImpl) SetRadius(radius float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.radius = clamp(radius, o.minRadius, o.maxRadius)
	o.updatePosition()
}

func (o *orbitImpl) Azimuth() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.azimuth
}

func (o *orbitImpl) SetAzimuth(azimuth float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.azimuth = azimuth
	o.updatePosition()
}

func (o *orbitImpl) Elevation() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.elevation
}

func (o *orbitImpl) SetElevation(elevation float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.elevation = clamp(elevation, o.minElevation, o.maxElevation)
	o.updatePosition()
}

func (o *orbitImpl) OrbitLeft() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.azimuth -= o.orbitSpeed
	o.updatePosition()
}

func (o *orbitImpl) OrbitRight() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.azimuth += o.orbitSpeed
	o.updatePosition()
}

func (o *orbitImpl) OrbitUp() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.elevation = clamp(o.elevation+o.orbitSpeed, o.minElevation, o.maxElevation)
	o.updatePosition()
}

func (o *orbitImpl) OrbitDown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.elevation = clamp(o.elevation-o.orbitSpeed, o.minElevation, o.maxElevation)
	o.updatePosition()
}

func (o *orbitImpl) Zoom(delta float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.radius = clamp(o.radius-delta*o.zoomSpeed, o.minRadius, o.maxRadius)
	o.updatePosition()
}

func (o *orbitImpl) PositionSettings() PositionSettings {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Yaw half a turn past the azimuth and pitch down by the elevation so +Z faces the target.
	yaw := mgl32.QuatRotate(o.azimuth+math.Pi, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(o.elevation, mgl32.Vec3{1, 0, 0})
	return NewPositionSettings(common.Transform{
		Position: o.position,
		Rotation: yaw.Mul(pitch),
	})
}
