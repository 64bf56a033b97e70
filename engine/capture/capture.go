// Package capture decides when probes are rendered and stores the results back
// into them. The GPU work itself is done by an external Renderer; this package
// only picks targets, builds the capture camera and keeps the probe's captured
// texture and render data paired.
package capture

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/log"
	"github.com/Carmen-Shannon/oxy-probe/engine/probe"
	"github.com/Carmen-Shannon/oxy-probe/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("capture")

// ErrNoAllocator is returned when a probe needs a new target and no allocator is configured.
var ErrNoAllocator = errors.New("capture: no allocator")

const (
	// DefaultCubeResolution is the face size of reflection probe targets.
	DefaultCubeResolution = 128
	// DefaultPlanarResolution is the size of planar probe targets.
	DefaultPlanarResolution = 512
)

// Renderer renders a probe's environment into a target.
type Renderer interface {
	// Render draws the scene as seen by the capture camera described by data into target.
	//
	// Parameters:
	//   - p: the probe being captured
	//   - target: a renderable texture
	//   - data: the capture camera
	//
	// Returns:
	//   - error: error if rendering fails
	Render(p probe.Probe, target texture.Texture, data probe.RenderData) error
}

// Allocator creates render targets for captures.
type Allocator interface {
	// AllocateRenderTexture creates a render target.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: size in texels
	//   - layers: array layer count (6 for cubemaps)
	//
	// Returns:
	//   - texture.Texture: a renderable texture
	//   - error: error if allocation fails
	AllocateRenderTexture(label string, width, height, layers uint32) (texture.Texture, error)
}

// Updater renders probes and writes their captures back.
type Updater struct {
	renderer         Renderer
	allocator        Allocator
	cubeResolution   uint32
	planarResolution uint32
}

// NewUpdater creates an updater rendering through r.
//
// Parameters:
//   - r: the renderer
//   - options: functional options to configure the updater
//
// Returns:
//   - *Updater: the updater
func NewUpdater(r Renderer, options ...UpdaterBuilderOption) *Updater {
	u := &Updater{
		renderer:         r,
		cubeResolution:   DefaultCubeResolution,
		planarResolution: DefaultPlanarResolution,
	}
	for _, option := range options {
		option(u)
	}
	return u
}

// NeedsRealtimeRender reports whether a realtime probe must be captured this frame:
// never twice in one frame, every frame for RealtimeModeEveryFrame and once per
// activation for RealtimeModeOnEnable.
//
// Parameters:
//   - p: the probe
//   - frame: the current frame index
//
// Returns:
//   - bool: true if the probe must be captured
func NeedsRealtimeRender(p probe.Probe, frame int) bool {
	if p.Mode() != probe.ModeRealtime || p.LastRenderedFrame() == frame {
		return false
	}
	switch p.RealtimeMode() {
	case probe.RealtimeModeOnEnable:
		return !p.WasRenderedAfterOnEnable()
	default:
		return true
	}
}

// Update captures every realtime probe whose refresh policy requires it this frame.
// Planar probes are captured from the viewer mirrored across their plane.
//
// Parameters:
//   - frame: the current frame index
//   - viewer: the placement of the camera the frame is rendered for
//   - probes: the candidate probes, usually the registered or visible ones
//
// Returns:
//   - int: the number of probes captured
//   - error: the first capture failure, wrapped with the probe ID
func (u *Updater) Update(frame int, viewer camera.PositionSettings, probes []probe.Probe) (int, error) {
	rendered := 0
	for _, p := range probes {
		if !NeedsRealtimeRender(p, frame) {
			continue
		}

		target := p.RealtimeTexture()
		allocated := false
		if target == nil || !target.Renderable() {
			var err error
			if target, err = u.allocate(p, probe.ModeRealtime); err != nil {
				return rendered, fmt.Errorf("probe %d: %w", p.ID(), err)
			}
			allocated = true
		}

		if err := u.capture(p, probe.ModeRealtime, target, viewer); err != nil {
			// A target allocated here was never stored, so nothing else can release it.
			if allocated {
				target.Release()
			}
			return rendered, fmt.Errorf("probe %d: %w", p.ID(), err)
		}
		p.SetWasRenderedAfterOnEnable(true)
		p.SetLastRenderedFrame(frame)
		rendered++
	}
	return rendered, nil
}

// Bake renders a probe into a fresh target and stores it in the Baked slot.
// The probe's current mode is not changed.
//
// Parameters:
//   - p: the probe
//   - viewer: the viewer placement, used by planar probes only
//
// Returns:
//   - texture.Texture: the baked texture
//   - error: error if allocation, rendering or storing fails
func (u *Updater) Bake(p probe.Probe, viewer camera.PositionSettings) (texture.Texture, error) {
	target, err := u.allocate(p, probe.ModeBaked)
	if err != nil {
		return nil, fmt.Errorf("probe %d: %w", p.ID(), err)
	}
	if err := u.capture(p, probe.ModeBaked, target, viewer); err != nil {
		target.Release()
		return nil, fmt.Errorf("probe %d: %w", p.ID(), err)
	}
	return target, nil
}

func (u *Updater) capture(p probe.Probe, mode probe.Mode, target texture.Texture, viewer camera.PositionSettings) error {
	data := CaptureRenderData(p, viewer)
	if err := u.renderer.Render(p, target, data); err != nil {
		return fmt.Errorf("failed to render %s capture: %w", mode, err)
	}
	if err := p.SetCapture(mode, target, data); err != nil {
		return fmt.Errorf("failed to store %s capture: %w", mode, err)
	}
	logger.Debugf("probe %d: captured %s into %q", p.ID(), mode, target.Label())
	return nil
}

func (u *Updater) allocate(p probe.Probe, mode probe.Mode) (texture.Texture, error) {
	if u.allocator == nil {
		return nil, ErrNoAllocator
	}
	size, layers := u.cubeResolution, uint32(6)
	if p.Type() == probe.ProbeTypePlanar {
		size, layers = u.planarResolution, 1
	}
	label := fmt.Sprintf("probe_%d_%s", p.ID(), mode)
	return u.allocator.AllocateRenderTexture(label, size, size, layers)
}

// CaptureRenderData builds the camera snapshot a capture of p uses.
// Reflection probes capture from their own position with an unrotated camera.
// Planar probes capture from the viewer mirrored across their plane.
//
// Parameters:
//   - p: the probe
//   - viewer: the viewer placement
//
// Returns:
//   - probe.RenderData: the capture camera snapshot
func CaptureRenderData(p probe.Probe, viewer camera.PositionSettings) probe.RenderData {
	settings := p.CameraSettings()

	pp, ok := p.(probe.PlanarProbe)
	if !ok {
		position := camera.NewPositionSettings(common.Transform{
			Position: p.Transform().Position,
			Rotation: mgl32.QuatIdent(),
		})
		return probe.NewRenderData(settings, position)
	}

	if !pp.Prepared() {
		pp.PrepareCulling()
	}
	plane := pp.MirrorPlane()
	mirrored := camera.PositionSettings{
		Mode:                camera.PositionModeUseWorldToCameraField,
		Position:            common.ReflectPoint(viewer.Position, pp.MirrorPosition(), pp.MirrorNormal()),
		WorldToCameraMatrix: viewer.UsedWorldToCameraMatrix().Mul4(common.PlaneReflection(plane)),
	}
	return probe.NewRenderData(settings, mirrored)
}
