package capture

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/probe"
	"github.com/Carmen-Shannon/oxy-probe/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) Render(probe.Probe, texture.Texture, probe.RenderData) error {
	r.calls++
	return r.err
}

type countingAllocator struct {
	texture.DescriptorAllocator
	calls    int
	released int
	labels   []string
	sizes    [][3]uint32
}

// countedTexture reports its Release calls to the allocator that created it.
type countedTexture struct {
	texture.Texture
	alloc *countingAllocator
}

func (t *countedTexture) Release() {
	t.alloc.released++
	t.Texture.Release()
}

func (a *countingAllocator) AllocateRenderTexture(label string, width, height, layers uint32) (texture.Texture, error) {
	a.calls++
	a.labels = append(a.labels, label)
	a.sizes = append(a.sizes, [3]uint32{width, height, layers})
	tex, err := a.DescriptorAllocator.AllocateRenderTexture(label, width, height, layers)
	if err != nil {
		return nil, err
	}
	return &countedTexture{Texture: tex, alloc: a}, nil
}

func viewerAt(x, y, z float32) camera.PositionSettings {
	return camera.NewPositionSettings(common.Transform{Position: mgl32.Vec3{x, y, z}, Rotation: mgl32.QuatIdent()})
}

func TestNeedsRealtimeRender(t *testing.T) {
	type spec struct {
		mode      probe.Mode
		realtime  probe.RealtimeMode
		rendered  bool
		lastFrame int
		frame     int
		exp       bool
	}
	specs := []spec{
		{probe.ModeBaked, probe.RealtimeModeEveryFrame, false, probe.NeverRendered, 0, false},
		{probe.ModeCustom, probe.RealtimeModeEveryFrame, false, probe.NeverRendered, 0, false},
		{probe.ModeRealtime, probe.RealtimeModeEveryFrame, false, probe.NeverRendered, 0, true},
		{probe.ModeRealtime, probe.RealtimeModeEveryFrame, true, 3, 4, true},
		{probe.ModeRealtime, probe.RealtimeModeEveryFrame, true, 4, 4, false},
		{probe.ModeRealtime, probe.RealtimeModeOnEnable, false, probe.NeverRendered, 0, true},
		{probe.ModeRealtime, probe.RealtimeModeOnEnable, true, 3, 4, false},
	}

	for index, s := range specs {
		p := probe.NewReflectionProbe(probe.WithMode(s.mode), probe.WithRealtimeMode(s.realtime))
		p.SetWasRenderedAfterOnEnable(s.rendered)
		p.SetLastRenderedFrame(s.lastFrame)
		if got := NeedsRealtimeRender(p, s.frame); got != s.exp {
			t.Fatalf("[spec %d] expected %t; got %t", index, s.exp, got)
		}
	}
}

func TestUpdateCapturesAndReusesTargets(t *testing.T) {
	r := &fakeRenderer{}
	alloc := &countingAllocator{}
	u := NewUpdater(r, WithAllocator(alloc), WithResolution(32, 0))

	everyFrame := probe.NewReflectionProbe(probe.WithMode(probe.ModeRealtime))
	onEnable := probe.NewReflectionProbe(probe.WithMode(probe.ModeRealtime), probe.WithRealtimeMode(probe.RealtimeModeOnEnable))
	baked := probe.NewReflectionProbe()
	probes := []probe.Probe{everyFrame, onEnable, baked}

	for frame := 0; frame < 3; frame++ {
		n, err := u.Update(frame, viewerAt(0, 0, 0), probes)
		if err != nil {
			t.Fatal(err)
		}
		exp := 1
		if frame == 0 {
			exp = 2
		}
		if n != exp {
			t.Fatalf("[frame %d] expected %d captures; got %d", frame, exp, n)
		}
	}

	if r.calls != 4 {
		t.Fatalf("expected 4 renders; got %d", r.calls)
	}
	if alloc.calls != 2 {
		t.Fatalf("expected one allocation per probe; got %d", alloc.calls)
	}
	if alloc.sizes[0] != [3]uint32{32, 32, 6} {
		t.Fatalf("expected a 32x32 cube target; got %v", alloc.sizes[0])
	}
	if everyFrame.LastRenderedFrame() != 2 || onEnable.LastRenderedFrame() != 0 {
		t.Fatalf("unexpected last frames %d and %d", everyFrame.LastRenderedFrame(), onEnable.LastRenderedFrame())
	}
	if !onEnable.WasRenderedAfterOnEnable() {
		t.Fatal("expected the activation render flag set")
	}
	if everyFrame.RealtimeTexture() == nil || everyFrame.Texture() != everyFrame.RealtimeTexture() {
		t.Fatal("expected the capture stored in the realtime slot")
	}
	if baked.BakedTexture() != nil || baked.LastRenderedFrame() != probe.NeverRendered {
		t.Fatal("expected the baked probe untouched")
	}
}

func TestUpdateStoresRenderData(t *testing.T) {
	u := NewUpdater(&fakeRenderer{}, WithAllocator(&countingAllocator{}))
	p := probe.NewReflectionProbe(
		probe.WithMode(probe.ModeRealtime),
		probe.WithTransform(common.Transform{Position: mgl32.Vec3{4, 5, 6}, Rotation: mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})}),
	)

	if _, err := u.Update(0, viewerAt(0, 0, 0), []probe.Probe{p}); err != nil {
		t.Fatal(err)
	}

	data := p.RenderData()
	if data.CapturePosition != (mgl32.Vec3{4, 5, 6}) {
		t.Fatalf("expected capture at the probe position; got %v", data.CapturePosition)
	}
	exp := CaptureRenderData(p, viewerAt(0, 0, 0))
	if data != exp {
		t.Fatal("expected stored render data to match the capture camera")
	}
	if data.ProjectionMatrix != camera.DefaultSettings().Frustum.UsedProjectionMatrix() {
		t.Fatal("expected the probe's camera settings to drive the projection")
	}
}

func TestUpdateErrors(t *testing.T) {
	p := probe.NewReflectionProbe(probe.WithMode(probe.ModeRealtime))

	if _, err := NewUpdater(&fakeRenderer{}).Update(0, viewerAt(0, 0, 0), []probe.Probe{p}); !errors.Is(err, ErrNoAllocator) {
		t.Fatalf("expected ErrNoAllocator; got %v", err)
	}

	renderErr := errors.New("device lost")
	n, err := NewUpdater(&fakeRenderer{err: renderErr}, WithAllocator(&countingAllocator{})).Update(0, viewerAt(0, 0, 0), []probe.Probe{p})
	if !errors.Is(err, renderErr) || n != 0 {
		t.Fatalf("expected render error and no captures; got %d, %v", n, err)
	}
	if p.RealtimeTexture() != nil || p.WasRenderedAfterOnEnable() {
		t.Fatal("expected a failed capture to leave the probe untouched")
	}
}

func TestBake(t *testing.T) {
	alloc := &countingAllocator{}
	u := NewUpdater(&fakeRenderer{}, WithAllocator(alloc))
	p := probe.NewReflectionProbe(probe.WithMode(probe.ModeCustom))

	tex, err := u.Bake(p, viewerAt(0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if p.BakedTexture() != tex || p.Mode() != probe.ModeCustom {
		t.Fatal("expected the baked slot written and the mode kept")
	}
	if alloc.labels[0] == "" || alloc.sizes[0] != [3]uint32{DefaultCubeResolution, DefaultCubeResolution, 6} {
		t.Fatalf("unexpected allocation %q %v", alloc.labels[0], alloc.sizes[0])
	}

	planar := probe.NewPlanarProbe()
	if _, err := u.Bake(planar, viewerAt(0, 3, 0)); err != nil {
		t.Fatal(err)
	}
	if alloc.sizes[1] != [3]uint32{DefaultPlanarResolution, DefaultPlanarResolution, 1} {
		t.Fatalf("expected a single layer planar target; got %v", alloc.sizes[1])
	}
}

func TestPlanarCaptureMirrorsViewer(t *testing.T) {
	p := probe.NewPlanarProbe()
	viewer := viewerAt(1, 3, -4)

	data := CaptureRenderData(p, viewer)

	if !p.Prepared() {
		t.Fatal("expected the plane prepared on demand")
	}
	if !data.CapturePosition.ApproxEqualThreshold(mgl32.Vec3{1, -3, -4}, 1e-5) {
		t.Fatalf("expected the viewer mirrored below the floor; got %v", data.CapturePosition)
	}

	// A point above the mirror is seen where the viewer would see its reflection.
	point := mgl32.Vec3{2, 1, 5}
	mirrored := mgl32.Vec3{2, -1, 5}
	got := data.WorldToCameraRHS.Mul4x1(point.Vec4(1))
	exp := viewer.UsedWorldToCameraMatrix().Mul4x1(mirrored.Vec4(1))
	if !got.ApproxEqualThreshold(exp, 1e-4) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestUpdateReleasesTargetOnFailedCapture(t *testing.T) {
	alloc := &countingAllocator{}
	u := NewUpdater(&fakeRenderer{err: errors.New("device lost")}, WithAllocator(alloc))
	p := probe.NewReflectionProbe(probe.WithMode(probe.ModeRealtime))

	for frame := 0; frame < 3; frame++ {
		if _, err := u.Update(frame, viewerAt(0, 0, 0), []probe.Probe{p}); err == nil {
			t.Fatalf("[frame %d] expected the render error", frame)
		}
		if p.RealtimeTexture() != nil {
			t.Fatalf("[frame %d] expected no stored target", frame)
		}
	}
	if alloc.released != alloc.calls || alloc.calls != 3 {
		t.Fatalf("expected every allocated target released; allocated %d, released %d", alloc.calls, alloc.released)
	}
}

func TestUpdateKeepsStoredTargetOnFailedCapture(t *testing.T) {
	r := &fakeRenderer{}
	alloc := &countingAllocator{}
	u := NewUpdater(r, WithAllocator(alloc))
	p := probe.NewReflectionProbe(probe.WithMode(probe.ModeRealtime))

	if _, err := u.Update(0, viewerAt(0, 0, 0), []probe.Probe{p}); err != nil {
		t.Fatal(err)
	}
	stored := p.RealtimeTexture()

	r.err = errors.New("device lost")
	if _, err := u.Update(1, viewerAt(0, 0, 0), []probe.Probe{p}); err == nil {
		t.Fatal("expected the render error")
	}
	if alloc.released != 0 || p.RealtimeTexture() != stored {
		t.Fatalf("expected the stored target kept; released %d", alloc.released)
	}
}
