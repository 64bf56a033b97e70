package camera

import "github.com/go-gl/mathgl/mgl32"

// OrbitBuilderOption is a functional option for configuring an Orbit.
type OrbitBuilderOption func(*orbitImpl)

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - OrbitBuilderOption: functional option to set the radius
func WithRadius(radius float32) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - OrbitBuilderOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - OrbitBuilderOption: functional option to set the elevation
func WithElevation(elevation float32) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.elevation = elevation
	}
}

// WithTarget sets the pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - OrbitBuilderOption: functional option to set the target position
func WithTarget(target mgl32.Vec3) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum radius.
//
// Parameters:
//   - min: minimum distance from target
//   - max: maximum distance from target
//
// Returns:
//   - OrbitBuilderOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.minRadius = min
		o.maxRadius = max
	}
}

// WithOrbitSpeed sets the angle in radians one orbit step rotates by.
//
// Parameters:
//   - speed: angular step
//
// Returns:
//   - OrbitBuilderOption: functional option to set orbit speed
func WithOrbitSpeed(speed float32) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.orbitSpeed = speed
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
//
// Parameters:
//   - speed: zoom speed multiplier
//
// Returns:
//   - OrbitBuilderOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) OrbitBuilderOption {
	return func(o *orbitImpl) {
		o.zoomSpeed = speed
	}
}
