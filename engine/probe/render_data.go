package probe

import (
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderData is the camera snapshot a probe image was captured with. It is only
// meaningful next to the image it was captured alongside.
type RenderData struct {
	// WorldToCameraRHS is the right-handed world-to-camera matrix at capture time.
	WorldToCameraRHS mgl32.Mat4
	// ProjectionMatrix is the projection actually used, jitter included.
	ProjectionMatrix mgl32.Mat4
	// CapturePosition is the world-space camera position at capture time.
	CapturePosition mgl32.Vec3
}

// NewRenderData snapshots the matrices a capture with the given camera uses.
//
// Parameters:
//   - cam: the capture camera settings
//   - position: the capture camera placement
//
// Returns:
//   - RenderData: the snapshot
func NewRenderData(cam camera.Settings, position camera.PositionSettings) RenderData {
	return RenderData{
		WorldToCameraRHS: position.UsedWorldToCameraMatrix(),
		ProjectionMatrix: cam.Frustum.UsedProjectionMatrix(),
		CapturePosition:  position.Position,
	}
}

// ViewProjection returns ProjectionMatrix * WorldToCameraRHS.
func (d RenderData) ViewProjection() mgl32.Mat4 {
	return d.ProjectionMatrix.Mul4(d.WorldToCameraRHS)
}
