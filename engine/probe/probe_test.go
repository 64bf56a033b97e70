package probe

import (
	"errors"
	"math"
	"runtime"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

var allModes = []Mode{ModeBaked, ModeCustom, ModeRealtime}

func testRenderData(x float32) RenderData {
	return RenderData{
		WorldToCameraRHS: mgl32.Translate3D(x, 0, 0),
		ProjectionMatrix: mgl32.Ident4(),
		CapturePosition:  mgl32.Vec3{x, 0, 0},
	}
}

func TestTextureRoundTrip(t *testing.T) {
	for _, mode := range allModes {
		p := NewReflectionProbe()
		tex := texture.NewRenderTexture("capture", 16, 16, 6, texture.DefaultRenderFormat)

		stored, err := p.SetTexture(mode, tex)
		if err != nil {
			t.Fatalf("[%s] unexpected error: %v", mode, err)
		}
		if stored != tex {
			t.Fatalf("[%s] expected SetTexture to return the stored texture", mode)
		}

		for _, other := range allModes {
			got, err := p.GetTexture(other)
			if err != nil {
				t.Fatalf("[%s] unexpected error reading %s: %v", mode, other, err)
			}
			if other == mode && got != tex {
				t.Fatalf("[%s] expected round trip to return the stored texture", mode)
			}
			if other != mode && got != nil {
				t.Fatalf("[%s] expected %s slot to stay empty", mode, other)
			}
		}
	}
}

func TestRealtimeTextureMustBeRenderable(t *testing.T) {
	p := NewReflectionProbe()

	if _, err := p.SetTexture(ModeRealtime, texture.NewStaticTexture("asset", 16, 16, 6)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a static texture; got %v", err)
	}
	if _, err := p.SetTexture(ModeRealtime, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a nil texture; got %v", err)
	}
	if p.RealtimeTexture() != nil {
		t.Fatal("expected rejected writes to leave the realtime slot empty")
	}

	rt := texture.NewRenderTexture("rt", 16, 16, 6, texture.DefaultRenderFormat)
	if _, err := p.SetTexture(ModeRealtime, rt); err != nil {
		t.Fatalf("expected render texture to be accepted; got %v", err)
	}
	if p.RealtimeTexture() != rt {
		t.Fatal("expected render texture in the realtime slot")
	}

	// Baked and Custom take any texture kind.
	for _, mode := range []Mode{ModeBaked, ModeCustom} {
		if _, err := p.SetTexture(mode, texture.NewStaticTexture("asset", 16, 16, 6)); err != nil {
			t.Fatalf("[%s] unexpected error: %v", mode, err)
		}
	}
}

func TestOutOfRangeMode(t *testing.T) {
	p := NewReflectionProbe()
	bad := []Mode{Mode(-1), Mode(3), Mode(42)}

	for _, mode := range bad {
		if _, err := p.GetTexture(mode); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("[%s] GetTexture: expected ErrInvalidArgument; got %v", mode, err)
		}
		if _, err := p.SetTexture(mode, texture.NewStaticTexture("asset", 1, 1, 1)); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("[%s] SetTexture: expected ErrInvalidArgument; got %v", mode, err)
		}
		if _, err := p.GetRenderData(mode); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("[%s] GetRenderData: expected ErrInvalidArgument; got %v", mode, err)
		}
		if err := p.SetRenderData(mode, RenderData{}); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("[%s] SetRenderData: expected ErrInvalidArgument; got %v", mode, err)
		}
		if err := p.SetMode(mode); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("[%s] SetMode: expected ErrInvalidArgument; got %v", mode, err)
		}
	}
	if p.Mode() != ModeBaked {
		t.Fatalf("expected rejected SetMode calls to keep the mode; got %s", p.Mode())
	}
}

func TestWithModePanicsOnInvalidMode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected WithMode to panic")
		}
	}()
	WithMode(Mode(9))
}

func TestCurrentModeResolution(t *testing.T) {
	p := NewReflectionProbe()
	if p.Mode() != ModeBaked {
		t.Fatalf("expected default mode Baked; got %s", p.Mode())
	}

	imgA := texture.NewStaticTexture("imgA", 64, 64, 6)
	dataA := testRenderData(1)
	if _, err := p.SetTexture(ModeBaked, imgA); err != nil {
		t.Fatal(err)
	}
	if err := p.SetRenderData(ModeBaked, dataA); err != nil {
		t.Fatal(err)
	}

	if p.Texture() != imgA {
		t.Fatal("expected current texture to be imgA")
	}
	if p.RenderData() != dataA {
		t.Fatal("expected current render data to be dataA")
	}

	if err := p.SetMode(ModeCustom); err != nil {
		t.Fatal(err)
	}
	if p.Texture() != nil {
		t.Fatal("expected the empty Custom slot after switching mode")
	}
	if p.RenderData() != (RenderData{}) {
		t.Fatal("expected empty Custom render data after switching mode")
	}
	if p.BakedTexture() != imgA {
		t.Fatal("expected Baked data to survive the mode switch")
	}
}

func TestRenderDataRespectsExplicitMode(t *testing.T) {
	p := NewReflectionProbe(WithMode(ModeBaked))

	for i, mode := range allModes {
		if err := p.SetRenderData(mode, testRenderData(float32(i+1))); err != nil {
			t.Fatal(err)
		}
	}
	for i, mode := range allModes {
		got, err := p.GetRenderData(mode)
		if err != nil {
			t.Fatal(err)
		}
		if got != testRenderData(float32(i+1)) {
			t.Fatalf("[%s] expected render data of the requested mode; got %v", mode, got.CapturePosition)
		}
	}
	if p.RenderData() != testRenderData(1) {
		t.Fatal("expected current render data to follow the Baked mode")
	}
	if p.BakedRenderData() != testRenderData(1) || p.CustomRenderData() != testRenderData(2) || p.RealtimeRenderData() != testRenderData(3) {
		t.Fatal("expected per-mode shortcuts to read their own slot")
	}
}

func TestSetCaptureIsAllOrNothing(t *testing.T) {
	p := NewReflectionProbe()
	data := testRenderData(3)

	if err := p.SetCapture(ModeRealtime, texture.NewStaticTexture("asset", 1, 1, 1), data); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument; got %v", err)
	}
	if got, _ := p.GetRenderData(ModeRealtime); got != (RenderData{}) {
		t.Fatal("expected rejected capture to leave the render data untouched")
	}

	rt := texture.NewRenderTexture("rt", 1, 1, 1, texture.DefaultRenderFormat)
	if err := p.SetCapture(ModeRealtime, rt, data); err != nil {
		t.Fatal(err)
	}
	if got, _ := p.GetRenderData(ModeRealtime); got != data || p.RealtimeTexture() != rt {
		t.Fatal("expected texture and render data stored together")
	}
}

func TestLightLayersAsUInt(t *testing.T) {
	type spec struct {
		layers LightLayer
		exp    uint32
	}
	specs := []spec{
		{LightLayerEverythingSigned, 0xFF},
		{LightLayerNothing, 0},
		{LightLayerDefault, 1},
		{LightLayer1, 2},
		{LightLayer2, 4},
		{LightLayer3, 8},
		{LightLayer4, 16},
		{LightLayer5, 32},
		{LightLayer6, 64},
		{LightLayer7, 128},
		{LightLayerEverything, 0xFF},
		{LightLayerDefault | LightLayer3, 9},
	}

	p := NewReflectionProbe()
	for index, s := range specs {
		p.SetLightLayers(s.layers)
		if got := p.LightLayersAsUInt(); got != s.exp {
			t.Fatalf("[spec %d] expected 0x%X; got 0x%X", index, s.exp, got)
		}
		if p.LightLayers() != s.layers {
			t.Fatalf("[spec %d] expected stored value to stay %d", index, s.layers)
		}
	}
}

func TestInfluenceVolumeIsLazyAndStable(t *testing.T) {
	p := NewReflectionProbe()

	first := p.InfluenceVolume()
	if first == nil {
		t.Fatal("expected a default influence volume")
	}
	if p.InfluenceVolume() != first {
		t.Fatal("expected repeated reads to return the same instance")
	}

	s := p.Settings()
	if !s.Influence.Loaded() || s.Influence.Get(NewInfluenceVolume) != first {
		t.Fatal("expected the settings copy to share the influence instance")
	}

	own := &InfluenceVolume{Shape: InfluenceShapeSphere, SphereRadius: 2}
	if NewReflectionProbe(WithInfluenceVolume(own)).InfluenceVolume() != own {
		t.Fatal("expected a configured influence volume to be used as is")
	}
}

func TestIsProjectionInfinite(t *testing.T) {
	type spec struct {
		proxy        *ProxyVolumeComponent
		useInfluence bool
		exp          bool
	}
	box := NewProxyVolumeComponent(common.IdentityTransform(), ProxyVolume{Shape: ProxyShapeBox, BoxSize: mgl32.Vec3{2, 2, 2}})
	sphere := NewProxyVolumeComponent(common.IdentityTransform(), ProxyVolume{Shape: ProxyShapeSphere, SphereRadius: 2})
	infinite := NewProxyVolumeComponent(common.IdentityTransform(), ProxyVolume{Shape: ProxyShapeInfinite})

	specs := []spec{
		{nil, false, true},
		{nil, true, false},
		{infinite, false, true},
		{infinite, true, true},
		{box, false, false},
		{box, true, false},
		{sphere, false, false},
		{sphere, true, false},
	}

	for index, s := range specs {
		p := NewReflectionProbe(WithUseInfluenceVolumeAsProxyVolume(s.useInfluence))
		p.SetProxyVolume(s.proxy)
		if got := p.IsProjectionInfinite(); got != s.exp {
			t.Fatalf("[spec %d] expected IsProjectionInfinite() to be %t; got %t", index, s.exp, got)
		}
	}

	// The probe only holds weak links; the proxies must outlive the checks.
	runtime.KeepAlive(box)
	runtime.KeepAlive(sphere)
	runtime.KeepAlive(infinite)
}

func TestProxyOverridesInfluenceGeometry(t *testing.T) {
	p := NewReflectionProbe(WithTransform(common.Transform{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent()}))

	if p.ProxyExtents() != (mgl32.Vec3{5, 5, 5}) {
		t.Fatalf("expected influence extents without a proxy; got %v", p.ProxyExtents())
	}
	if p.ProxyToWorld() != p.InfluenceToWorld() {
		t.Fatal("expected influence-to-world without a proxy")
	}

	proxy := NewProxyVolumeComponent(
		common.Transform{Position: mgl32.Vec3{-4, 0, 0}, Rotation: mgl32.QuatIdent()},
		ProxyVolume{Shape: ProxyShapeBox, BoxSize: mgl32.Vec3{2, 4, 6}},
	)
	p.SetProxyVolume(proxy)

	if p.ProxyExtents() != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("expected proxy extents; got %v", p.ProxyExtents())
	}
	if p.ProxyToWorld() != proxy.LocalToWorld() {
		t.Fatal("expected proxy-to-world of the linked proxy")
	}
	if p.InfluenceExtents() != (mgl32.Vec3{5, 5, 5}) {
		t.Fatal("expected influence extents to be unaffected by the proxy")
	}

	p.SetProxyVolume(nil)
	if p.ProxyVolume() != nil {
		t.Fatal("expected proxy to be unlinked")
	}
	runtime.KeepAlive(proxy)
}

func TestSettingsProxyFollowsLink(t *testing.T) {
	p := NewReflectionProbe()
	if p.Settings().Proxy != nil {
		t.Fatal("expected no proxy shape without a link")
	}

	proxy := NewProxyVolumeComponent(common.IdentityTransform(), ProxyVolume{Shape: ProxyShapeSphere, SphereRadius: 7})
	p.SetProxyVolume(proxy)

	s := p.Settings()
	if s.Proxy == nil || *s.Proxy != proxy.Volume {
		t.Fatalf("expected linked proxy shape in settings; got %v", s.Proxy)
	}

	// Editing the returned copy does not leak back into the probe.
	s.Proxy.SphereRadius = 1
	if p.Settings().Proxy.SphereRadius != 7 {
		t.Fatal("expected settings to be a copy")
	}
	runtime.KeepAlive(proxy)
}

func TestBoundsFollowTransform(t *testing.T) {
	p := NewReflectionProbe()

	sphere := p.BoundingSphere()
	if sphere.Center != (mgl32.Vec3{}) {
		t.Fatalf("expected sphere at the origin; got %v", sphere.Center)
	}
	if exp := float32(math.Sqrt(75)); mgl32.Abs(sphere.Radius-exp) > 1e-4 {
		t.Fatalf("expected radius %f; got %f", exp, sphere.Radius)
	}

	p.SetTransform(common.Transform{Position: mgl32.Vec3{10, 0, 0}, Rotation: mgl32.QuatIdent()})
	if c := p.BoundingSphere().Center; c != (mgl32.Vec3{10, 0, 0}) {
		t.Fatalf("expected sphere to follow the probe; got %v", c)
	}
	b := p.Bounds()
	if b.Center != (mgl32.Vec3{10, 0, 0}) || b.Extents != (mgl32.Vec3{5, 5, 5}) {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestTransientStateDefaults(t *testing.T) {
	p := NewReflectionProbe()
	if p.WasRenderedAfterOnEnable() {
		t.Fatal("expected WasRenderedAfterOnEnable to start false")
	}
	if p.LastRenderedFrame() != math.MinInt {
		t.Fatalf("expected LastRenderedFrame to start at math.MinInt; got %d", p.LastRenderedFrame())
	}
}

func TestProbeIDsAreUnique(t *testing.T) {
	a, b := NewReflectionProbe(), NewPlanarProbe()
	if a.ID() == b.ID() || a.ID() == 0 {
		t.Fatalf("expected distinct non-zero IDs; got %d and %d", a.ID(), b.ID())
	}
}

func TestSettingsOverrideIsStored(t *testing.T) {
	o := SettingsOverride{Fields: SettingsFieldMultiplier | SettingsFieldWeight}
	p := NewReflectionProbe(WithSettingsOverride(o))
	if p.SettingsOverride() != o || !p.SettingsOverride().Has(SettingsFieldWeight) || p.SettingsOverride().Has(SettingsFieldMode) {
		t.Fatalf("unexpected override %b", p.SettingsOverride().Fields)
	}
}

// linkUnreferencedProxy links a proxy that nothing else references.
func linkUnreferencedProxy(p Probe, shape ProxyShape) {
	p.SetProxyVolume(NewProxyVolumeComponent(common.IdentityTransform(), ProxyVolume{
		Shape:        shape,
		BoxSize:      mgl32.Vec3{2, 2, 2},
		SphereRadius: 1,
	}))
}

func TestCollectedProxyReadsAsUnlinked(t *testing.T) {
	type spec struct {
		shape        ProxyShape
		useInfluence bool
		expInfinite  bool
	}
	specs := []spec{
		{ProxyShapeInfinite, false, true},
		{ProxyShapeBox, false, true},
		{ProxyShapeInfinite, true, false},
		{ProxyShapeSphere, true, false},
	}

	for index, s := range specs {
		p := NewReflectionProbe(WithUseInfluenceVolumeAsProxyVolume(s.useInfluence))
		linkUnreferencedProxy(p, s.shape)
		runtime.GC()
		runtime.GC()

		if p.ProxyVolume() != nil {
			t.Fatalf("[spec %d] expected the collected proxy to read as unlinked", index)
		}
		if got := p.IsProjectionInfinite(); got != s.expInfinite {
			t.Fatalf("[spec %d] expected IsProjectionInfinite() to be %t; got %t", index, s.expInfinite, got)
		}
		if p.ProxyExtents() != p.InfluenceExtents() {
			t.Fatalf("[spec %d] expected influence extents; got %v", index, p.ProxyExtents())
		}
		if p.ProxyToWorld() != p.InfluenceToWorld() {
			t.Fatalf("[spec %d] expected influence-to-world", index)
		}
		if p.Settings().Proxy != nil {
			t.Fatalf("[spec %d] expected no proxy shape in settings", index)
		}
	}
}

func TestBoundsRotateInfluenceOffset(t *testing.T) {
	quarterZ := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	influence := &InfluenceVolume{Shape: InfluenceShapeBox, BoxSize: mgl32.Vec3{2, 4, 6}, Offset: mgl32.Vec3{1, 0, 0}}
	p := NewReflectionProbe(
		WithTransform(common.Transform{Position: mgl32.Vec3{10, 0, 0}, Rotation: quarterZ}),
		WithInfluenceVolume(influence),
	)

	// A quarter turn about Z maps local +X onto world +Y.
	exp := mgl32.Vec3{10, 1, 0}
	if c := p.BoundingSphere().Center; !c.ApproxEqualThreshold(exp, 1e-5) {
		t.Fatalf("expected sphere center %v; got %v", exp, c)
	}
	b := p.Bounds()
	if !b.Center.ApproxEqualThreshold(exp, 1e-5) {
		t.Fatalf("expected bounds center %v; got %v", exp, b.Center)
	}
	if !b.Extents.ApproxEqualThreshold(mgl32.Vec3{2, 1, 3}, 1e-5) {
		t.Fatalf("expected rotated extents (2, 1, 3); got %v", b.Extents)
	}
}
