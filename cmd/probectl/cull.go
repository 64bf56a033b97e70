package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/capture"
	"github.com/Carmen-Shannon/oxy-probe/engine/probe"
	"github.com/Carmen-Shannon/oxy-probe/engine/probe_system"
	"github.com/Carmen-Shannon/oxy-probe/engine/profiler"
	"github.com/Carmen-Shannon/oxy-probe/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// nopRenderer accepts every capture without drawing anything.
type nopRenderer struct{}

func (nopRenderer) Render(probe.Probe, texture.Texture, probe.RenderData) error {
	return nil
}

// cullOptions holds the parsed flags of the cull command.
type cullOptions struct {
	grid     int
	spacing  float32
	realtime int
	planar   int
	frames   int
	fov      float32
	distance float32
	orbit    float32
	workers  int
}

// Cull simulates frames over a grid of probes.
func Cull(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := cullOptions{
		grid:     ctx.Int("grid"),
		spacing:  float32(ctx.Float64("spacing")),
		realtime: ctx.Int("realtime"),
		planar:   ctx.Int("planar"),
		frames:   ctx.Int("frames"),
		fov:      float32(ctx.Float64("fov")),
		distance: float32(ctx.Float64("distance")),
		orbit:    float32(ctx.Float64("orbit")),
		workers:  ctx.Int("workers"),
	}
	if opts.grid < 1 {
		return fmt.Errorf("grid must be at least 1, got %d", opts.grid)
	}
	return runCull(os.Stdout, opts)
}

func runCull(w io.Writer, opts cullOptions) error {
	system := probe_system.NewSystem(
		probe_system.WithCullWorkers(opts.workers),
		probe_system.WithProfiler(profiler.NewProfiler()),
	)
	updater := capture.NewUpdater(nopRenderer{}, capture.WithAllocator(texture.DescriptorAllocator{}))

	lifecycles := buildGrid(system, opts)
	for _, l := range lifecycles {
		l.Activate()
	}
	defer func() {
		for _, l := range lifecycles {
			l.Deactivate()
		}
	}()

	// The viewer starts behind the grid looking along +Z and circles it by opts.orbit per frame.
	orbit := camera.NewOrbit(
		camera.WithRadius(opts.distance),
		camera.WithAzimuth(math.Pi),
		camera.WithElevation(0.1),
		camera.WithOrbitSpeed(opts.orbit),
	)
	frustumSettings := camera.DefaultSettings().Frustum
	frustumSettings.FieldOfView = opts.fov
	frustumSettings.Aspect = 16.0 / 9.0

	var visible []probe.Probe
	for frame := 0; frame < opts.frames; frame++ {
		viewer := orbit.PositionSettings()
		frustum := common.ExtractFrustumFromMatrix(
			frustumSettings.UsedProjectionMatrix().Mul4(viewer.UsedWorldToCameraMatrix()),
		)

		visible = system.Cull(frustum)
		captured, err := updater.Update(frame, viewer, visible)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		upload := probe.MarshalProbeData(visible)
		logger.Infof("frame %d: %d/%d probes visible, %d captured, %d bytes of probe data", frame, len(visible), system.Count(), captured, len(upload))
		orbit.OrbitRight()
	}

	writeVisibleTable(w, visible)
	system.WriteTable(w)
	return nil
}

// buildGrid creates the probes of the cull command centered on the origin in the XZ plane.
func buildGrid(system probe.Registry, opts cullOptions) []*probe.Lifecycle {
	var lifecycles []*probe.Lifecycle
	half := float32(opts.grid-1) * opts.spacing / 2

	for i := 0; i < opts.grid*opts.grid; i++ {
		x := float32(i%opts.grid)*opts.spacing - half
		z := float32(i/opts.grid)*opts.spacing - half

		probeOpts := []probe.ProbeBuilderOption{
			probe.WithTransform(common.Transform{Position: mgl32.Vec3{x, 1, z}, Rotation: mgl32.QuatIdent()}),
		}
		if i < opts.realtime {
			probeOpts = append(probeOpts, probe.WithMode(probe.ModeRealtime))
			if i%2 == 1 {
				probeOpts = append(probeOpts, probe.WithRealtimeMode(probe.RealtimeModeOnEnable))
			}
		}
		lifecycles = append(lifecycles, probe.NewLifecycle(probe.NewReflectionProbe(probeOpts...), system))
	}

	for i := 0; i < opts.planar; i++ {
		p := probe.NewPlanarProbe(
			probe.WithMode(probe.ModeRealtime),
			probe.WithTransform(common.Transform{Position: mgl32.Vec3{0, 0, float32(i) * opts.spacing}, Rotation: mgl32.QuatIdent()}),
			probe.WithInfluenceVolume(&probe.InfluenceVolume{
				Shape:   probe.InfluenceShapeBox,
				BoxSize: mgl32.Vec3{half*2 + opts.spacing, 1, half*2 + opts.spacing},
			}),
		)
		lifecycles = append(lifecycles, probe.NewLifecycle(p, system))
	}
	return lifecycles
}

func writeVisibleTable(w io.Writer, visible []probe.Probe) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Visible", "Type", "Mode", "Position", "Radius", "Texture"})
	for _, p := range visible {
		sphere := p.BoundingSphere()
		label := "-"
		if tex := p.Texture(); tex != nil {
			label = fmt.Sprintf("%s (%dx%dx%d)", tex.Label(), tex.Width(), tex.Height(), tex.Layers())
		}
		table.Append([]string{
			fmt.Sprint(p.ID()),
			p.Type().String(),
			p.Mode().String(),
			fmtVec3(sphere.Center),
			fmt.Sprintf("%.2f", sphere.Radius),
			label,
		})
	}
	table.Render()
}

func fmtVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
