// Package camera describes the virtual camera a probe captures its environment with.
// The types here are plain values: the probe stores them and the capture renderer
// consumes them, the matrices they produce end up in the probe's render data.
package camera

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/go-gl/mathgl/mgl32"
)

// FrustumMode selects where the projection matrix of a capture comes from.
type FrustumMode int

const (
	// FrustumModeComputeProjection derives the projection from field of view, aspect and clip planes.
	FrustumModeComputeProjection FrustumMode = iota
	// FrustumModeUseProjectionField uses ProjectionMatrix verbatim.
	FrustumModeUseProjectionField
)

// PositionMode selects where the world-to-camera matrix of a capture comes from.
type PositionMode int

const (
	// PositionModeComputeWorldToCamera derives the matrix from Position and Rotation.
	PositionModeComputeWorldToCamera PositionMode = iota
	// PositionModeUseWorldToCameraField uses WorldToCameraMatrix verbatim.
	PositionModeUseWorldToCameraField
)

// FrustumSettings describes the projection of a capture camera.
type FrustumSettings struct {
	Mode FrustumMode
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32
	// Aspect is width / height.
	Aspect        float32
	NearClipPlane float32
	FarClipPlane  float32
	// ProjectionMatrix is used when Mode is FrustumModeUseProjectionField.
	ProjectionMatrix mgl32.Mat4
	// Jitter is a sub-pixel offset in clip space added to the computed projection.
	Jitter mgl32.Vec2
}

// UsedProjectionMatrix returns the projection a capture with these settings actually uses.
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major, [0, 1] depth)
func (f FrustumSettings) UsedProjectionMatrix() mgl32.Mat4 {
	if f.Mode == FrustumModeUseProjectionField {
		return f.ProjectionMatrix
	}

	aspect := f.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	proj := common.Perspective(mgl32.DegToRad(f.FieldOfView), aspect, f.NearClipPlane, f.FarClipPlane)
	proj[8] += f.Jitter[0]
	proj[9] += f.Jitter[1]
	return proj
}

// PositionSettings describes where a capture camera sits.
type PositionSettings struct {
	Mode     PositionMode
	Position mgl32.Vec3
	Rotation mgl32.Quat
	// WorldToCameraMatrix is used when Mode is PositionModeUseWorldToCameraField.
	WorldToCameraMatrix mgl32.Mat4
}

// NewPositionSettings creates computed position settings from a transform.
//
// Parameters:
//   - t: the camera transform
//
// Returns:
//   - PositionSettings: settings that compute their matrix from t
func NewPositionSettings(t common.Transform) PositionSettings {
	return PositionSettings{
		Mode:     PositionModeComputeWorldToCamera,
		Position: t.Position,
		Rotation: common.Coalesce(t.Rotation, mgl32.QuatIdent()),
	}
}

// UsedWorldToCameraMatrix returns the right-handed world-to-camera matrix of the capture.
// The camera looks along its local +Z; the result is flipped so view space looks along -Z.
//
// Returns:
//   - mgl32.Mat4: the world-to-camera matrix
func (p PositionSettings) UsedWorldToCameraMatrix() mgl32.Mat4 {
	if p.Mode == PositionModeUseWorldToCameraField {
		return p.WorldToCameraMatrix
	}
	t := common.Transform{Position: p.Position, Rotation: p.Rotation}
	return common.FlipZ().Mul4(t.LocalToWorld().Inv())
}

// Settings is the camera sub-block of a probe: everything the capture renderer needs besides placement.
type Settings struct {
	Frustum FrustumSettings
	Frame   FrameSettings
	// CullingMask selects the object layers rendered into the capture.
	CullingMask uint32
}

// DefaultSettings returns the camera settings used by newly created probes:
// a 90 degree square frustum, one cube face per capture.
//
// Returns:
//   - Settings: the defaults
func DefaultSettings() Settings {
	return Settings{
		Frustum: FrustumSettings{
			Mode:          FrustumModeComputeProjection,
			FieldOfView:   90,
			Aspect:        1,
			NearClipPlane: 0.3,
			FarClipPlane:  1000,
		},
		Frame:       DefaultFrameSettings(),
		CullingMask: ^uint32(0),
	}
}
