package probe

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/log"
	"github.com/Carmen-Shannon/oxy-probe/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("probe")

// probeCount is an atomic counter used to hand out unique probe IDs.
var probeCount atomic.Uint64

// NeverRendered is the LastRenderedFrame of a probe that has not been rendered yet.
const NeverRendered = math.MinInt

type probeImpl struct {
	mu *sync.Mutex

	id        uint64
	settings  Settings
	override  SettingsOverride
	proxy     weak.Pointer[ProxyVolumeComponent]
	transform common.Transform

	bakedTexture    texture.Texture
	customTexture   texture.Texture
	realtimeTexture texture.Texture

	bakedRenderData    RenderData
	customRenderData   RenderData
	realtimeRenderData RenderData

	migrated         bool
	migrationVersion int

	wasRenderedAfterOnEnable bool
	lastRenderedFrame        int
}

// Probe is an environment reflection probe: its settings, the image and camera
// snapshot captured for each acquisition mode, and the geometry culling needs.
//
// Capture collaborators write a (texture, render data) pair per mode once a
// capture completes; shading and culling read through the accessors resolved
// against the current mode. A pair is always written and read under one lock so
// a reader never sees the texture of one capture with the render data of another.
type Probe interface {
	// ID returns the unique identifier of the probe.
	//
	// Returns:
	//   - uint64: the probe ID
	ID() uint64

	// Type returns the kind of probe. The type is fixed at construction.
	//
	// Returns:
	//   - ProbeType: the probe type
	Type() ProbeType

	// Mode returns the current acquisition mode.
	//
	// Returns:
	//   - Mode: the current mode
	Mode() Mode

	// SetMode switches the acquisition mode. Captured data of other modes is kept.
	//
	// Parameters:
	//   - mode: the new mode
	//
	// Returns:
	//   - error: ErrInvalidArgument if mode is out of range
	SetMode(mode Mode) error

	// RealtimeMode returns the refresh policy used in ModeRealtime.
	//
	// Returns:
	//   - RealtimeMode: the refresh policy
	RealtimeMode() RealtimeMode

	// SetRealtimeMode sets the refresh policy used in ModeRealtime.
	//
	// Parameters:
	//   - mode: the refresh policy
	SetRealtimeMode(mode RealtimeMode)

	// LightLayers returns the stored light layer mask.
	//
	// Returns:
	//   - LightLayer: the mask as stored, possibly negative
	LightLayers() LightLayer

	// SetLightLayers sets the light layer mask.
	//
	// Parameters:
	//   - layers: the mask
	SetLightLayers(layers LightLayer)

	// LightLayersAsUInt returns the light layer mask as an unsigned bitmask,
	// reading any negative stored value as the full LightLayerEverything mask.
	//
	// Returns:
	//   - uint32: the unsigned mask
	LightLayersAsUInt() uint32

	// Multiplier returns the non-PBR reflection multiplier.
	Multiplier() float32

	// SetMultiplier sets the non-PBR reflection multiplier.
	SetMultiplier(multiplier float32)

	// Weight returns the blend weight among overlapping probes.
	Weight() float32

	// SetWeight sets the blend weight among overlapping probes.
	SetWeight(weight float32)

	// UseInfluenceVolumeAsProxyVolume returns whether the influence volume doubles as proxy
	// when no proxy volume is linked.
	UseInfluenceVolumeAsProxyVolume() bool

	// SetUseInfluenceVolumeAsProxyVolume sets whether the influence volume doubles as proxy.
	SetUseInfluenceVolumeAsProxyVolume(use bool)

	// CameraSettings returns the camera sub-block forwarded to capture.
	//
	// Returns:
	//   - camera.Settings: the camera settings
	CameraSettings() camera.Settings

	// SetCameraSettings replaces the camera sub-block.
	//
	// Parameters:
	//   - settings: the camera settings
	SetCameraSettings(settings camera.Settings)

	// FrameSettings returns the frame settings of the camera sub-block.
	//
	// Returns:
	//   - camera.FrameSettings: the frame settings
	FrameSettings() camera.FrameSettings

	// SettingsOverride returns which settings an owning profile may override.
	//
	// Returns:
	//   - SettingsOverride: the override flags
	SettingsOverride() SettingsOverride

	// SetSettingsOverride stores the override flags.
	//
	// Parameters:
	//   - override: the override flags
	SetSettingsOverride(override SettingsOverride)

	// Settings returns a copy of the probe settings whose Proxy field reflects the
	// currently linked proxy volume. The influence volume is materialized first.
	//
	// Returns:
	//   - Settings: the effective settings
	Settings() Settings

	// Transform returns the world transform of the probe.
	//
	// Returns:
	//   - common.Transform: the transform
	Transform() common.Transform

	// SetTransform moves the probe. Call PrepareCulling afterwards if the probe is active.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t common.Transform)

	// InfluenceVolume returns the influence volume, creating a default one on first access.
	// Every call returns the same instance.
	//
	// Returns:
	//   - *InfluenceVolume: the influence volume, never nil
	InfluenceVolume() *InfluenceVolume

	// InfluenceToWorld returns the world matrix of the influence volume.
	InfluenceToWorld() mgl32.Mat4

	// InfluenceExtents returns the extents of the influence volume.
	InfluenceExtents() mgl32.Vec3

	// ProxyVolume returns the linked proxy volume, or nil if none is linked or the
	// linked volume no longer exists.
	//
	// Returns:
	//   - *ProxyVolumeComponent: the linked proxy or nil
	ProxyVolume() *ProxyVolumeComponent

	// SetProxyVolume links a proxy volume without taking ownership. Pass nil to unlink.
	//
	// Parameters:
	//   - proxy: the proxy volume or nil
	SetProxyVolume(proxy *ProxyVolumeComponent)

	// IsProjectionInfinite reports whether the captured image is projected at infinity:
	// a linked proxy with an infinite shape, or no linked proxy and the influence volume
	// not used as proxy.
	//
	// Returns:
	//   - bool: true if the projection is infinite
	IsProjectionInfinite() bool

	// ProxyToWorld returns the world matrix of the linked proxy, or of the influence volume.
	//
	// Returns:
	//   - mgl32.Mat4: the proxy-to-world matrix
	ProxyToWorld() mgl32.Mat4

	// ProxyExtents returns the extents of the linked proxy, or of the influence volume.
	//
	// Returns:
	//   - mgl32.Vec3: the proxy extents
	ProxyExtents() mgl32.Vec3

	// BoundingSphere returns the influence bounding sphere at the probe's current position.
	// It is recomputed on every call.
	//
	// Returns:
	//   - common.BoundingSphere: the sphere
	BoundingSphere() common.BoundingSphere

	// Bounds returns the influence bounding box at the probe's current position.
	// It is recomputed on every call.
	//
	// Returns:
	//   - common.Bounds: the box
	Bounds() common.Bounds

	// Texture returns the texture of the current mode.
	//
	// Returns:
	//   - texture.Texture: the texture, nil if the slot is empty
	Texture() texture.Texture

	// GetTexture returns the texture stored for an explicit mode.
	//
	// Parameters:
	//   - mode: the mode to read
	//
	// Returns:
	//   - texture.Texture: the texture, nil if the slot is empty
	//   - error: ErrInvalidArgument if mode is out of range
	GetTexture(mode Mode) (texture.Texture, error)

	// SetTexture stores the texture for an explicit mode. ModeRealtime only accepts
	// renderable textures.
	//
	// Parameters:
	//   - mode: the mode to write
	//   - tex: the texture
	//
	// Returns:
	//   - texture.Texture: the stored texture
	//   - error: ErrInvalidArgument for an out of range mode or a non-renderable Realtime texture
	SetTexture(mode Mode, tex texture.Texture) (texture.Texture, error)

	// BakedTexture returns the texture of the Baked slot.
	BakedTexture() texture.Texture

	// CustomTexture returns the texture of the Custom slot.
	CustomTexture() texture.Texture

	// RealtimeTexture returns the texture of the Realtime slot.
	RealtimeTexture() texture.Texture

	// RenderData returns the render data of the current mode.
	//
	// Returns:
	//   - RenderData: the render data
	RenderData() RenderData

	// GetRenderData returns the render data stored for an explicit mode.
	//
	// Parameters:
	//   - mode: the mode to read
	//
	// Returns:
	//   - RenderData: the render data
	//   - error: ErrInvalidArgument if mode is out of range
	GetRenderData(mode Mode) (RenderData, error)

	// BakedRenderData returns the render data of the Baked slot.
	BakedRenderData() RenderData

	// CustomRenderData returns the render data of the Custom slot.
	CustomRenderData() RenderData

	// RealtimeRenderData returns the render data of the Realtime slot.
	RealtimeRenderData() RenderData

	// SetRenderData stores the render data for an explicit mode.
	//
	// Parameters:
	//   - mode: the mode to write
	//   - data: the render data
	//
	// Returns:
	//   - error: ErrInvalidArgument if mode is out of range
	SetRenderData(mode Mode, data RenderData) error

	// SetCapture stores a texture and its render data for a mode in one step.
	// Nothing is written if the texture is rejected.
	//
	// Parameters:
	//   - mode: the mode to write
	//   - tex: the texture
	//   - data: the render data captured with tex
	//
	// Returns:
	//   - error: ErrInvalidArgument as for SetTexture
	SetCapture(mode Mode, tex texture.Texture, data RenderData) error

	// WasRenderedAfterOnEnable returns whether a capture happened since the last activation.
	WasRenderedAfterOnEnable() bool

	// SetWasRenderedAfterOnEnable sets the activation render flag.
	SetWasRenderedAfterOnEnable(rendered bool)

	// LastRenderedFrame returns the frame index of the last capture, NeverRendered if none.
	LastRenderedFrame() int

	// SetLastRenderedFrame records the frame index of a capture.
	SetLastRenderedFrame(frame int)

	// Migrate upgrades the stored settings with m. Only the first call on a probe
	// has any effect.
	//
	// Parameters:
	//   - m: the migrator, nil marks the probe migrated without changes
	//
	// Returns:
	//   - bool: true if this call performed the migration
	Migrate(m Migrator) bool

	// MigrationVersion returns the settings version reached by the migration.
	MigrationVersion() int

	// PrepareCulling refreshes any culling data the probe caches. Call it after
	// changing the transform or influence volume of an active probe.
	PrepareCulling()
}

var _ Probe = &probeImpl{}

// NewReflectionProbe creates a cubemap reflection probe with default settings and
// any provided options applied.
//
// Parameters:
//   - opts: variadic list of ProbeBuilderOption functions to configure the probe
//
// Returns:
//   - Probe: a new reflection probe
func NewReflectionProbe(opts ...ProbeBuilderOption) Probe {
	return newProbeImpl(ProbeTypeReflection, opts...)
}

func newProbeImpl(probeType ProbeType, opts ...ProbeBuilderOption) *probeImpl {
	p := &probeImpl{
		mu:                &sync.Mutex{},
		id:                probeCount.Add(1),
		settings:          DefaultSettings(),
		transform:         common.IdentityTransform(),
		lastRenderedFrame: NeverRendered,
		// Fresh settings are current; restored ones set their saved version with WithMigrationVersion.
		migrationVersion: DefaultMigration.LatestVersion(),
	}
	p.settings.Type = probeType
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *probeImpl) ID() uint64 {
	return p.id
}

func (p *probeImpl) Type() ProbeType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Type
}

func (p *probeImpl) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Mode
}

func (p *probeImpl) SetMode(mode Mode) error {
	if !mode.Valid() {
		return invalidMode(mode)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Mode = mode
	return nil
}

func (p *probeImpl) RealtimeMode() RealtimeMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.RealtimeMode
}

func (p *probeImpl) SetRealtimeMode(mode RealtimeMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.RealtimeMode = mode
}

func (p *probeImpl) LightLayers() LightLayer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Lighting.LightLayer
}

func (p *probeImpl) SetLightLayers(layers LightLayer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Lighting.LightLayer = layers
}

func (p *probeImpl) LightLayersAsUInt() uint32 {
	return p.LightLayers().AsUInt()
}

func (p *probeImpl) Multiplier() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Lighting.Multiplier
}

func (p *probeImpl) SetMultiplier(multiplier float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Lighting.Multiplier = multiplier
}

func (p *probeImpl) Weight() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Lighting.Weight
}

func (p *probeImpl) SetWeight(weight float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Lighting.Weight = weight
}

func (p *probeImpl) UseInfluenceVolumeAsProxyVolume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.ProxySettings.UseInfluenceVolumeAsProxyVolume
}

func (p *probeImpl) SetUseInfluenceVolumeAsProxyVolume(use bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.ProxySettings.UseInfluenceVolumeAsProxyVolume = use
}

func (p *probeImpl) CameraSettings() camera.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Camera
}

func (p *probeImpl) SetCameraSettings(settings camera.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Camera = settings
}

func (p *probeImpl) FrameSettings() camera.FrameSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Camera.Frame
}

func (p *probeImpl) SettingsOverride() SettingsOverride {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.override
}

func (p *probeImpl) SetSettingsOverride(override SettingsOverride) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.override = override
}

func (p *probeImpl) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.influenceLocked()
	settings := p.settings
	// The linked component is authoritative for the proxy shape.
	settings.Proxy = nil
	if proxy := p.proxy.Value(); proxy != nil {
		volume := proxy.Volume
		settings.Proxy = &volume
	}
	return settings
}

func (p *probeImpl) Transform() common.Transform {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transform
}

func (p *probeImpl) SetTransform(t common.Transform) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transform = t
}

func (p *probeImpl) InfluenceVolume() *InfluenceVolume {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.influenceLocked()
}

// influenceLocked materializes the influence volume. Callers must hold p.mu.
func (p *probeImpl) influenceLocked() *InfluenceVolume {
	return p.settings.Influence.Get(NewInfluenceVolume)
}

func (p *probeImpl) InfluenceToWorld() mgl32.Mat4 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.influenceLocked().InfluenceToWorld(p.transform)
}

func (p *probeImpl) InfluenceExtents() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.influenceLocked().Extents()
}

func (p *probeImpl) ProxyVolume() *ProxyVolumeComponent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.proxy.Value()
}

func (p *probeImpl) SetProxyVolume(proxy *ProxyVolumeComponent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if proxy == nil {
		p.proxy = weak.Pointer[ProxyVolumeComponent]{}
		return
	}
	p.proxy = weak.Make(proxy)
}

func (p *probeImpl) IsProjectionInfinite() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	proxy := p.proxy.Value()
	return proxy != nil && proxy.Volume.Shape == ProxyShapeInfinite ||
		proxy == nil && !p.settings.ProxySettings.UseInfluenceVolumeAsProxyVolume
}

func (p *probeImpl) ProxyToWorld() mgl32.Mat4 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if proxy := p.proxy.Value(); proxy != nil {
		return proxy.LocalToWorld()
	}
	return p.influenceLocked().InfluenceToWorld(p.transform)
}

func (p *probeImpl) ProxyExtents() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if proxy := p.proxy.Value(); proxy != nil {
		return proxy.Volume.Extents()
	}
	return p.influenceLocked().Extents()
}

func (p *probeImpl) BoundingSphere() common.BoundingSphere {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.influenceLocked().BoundingSphereAt(p.transform)
}

func (p *probeImpl) Bounds() common.Bounds {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.influenceLocked().BoundsAt(p.transform)
}

// slotLocked returns the texture and render data storage of a mode. Callers must hold p.mu.
func (p *probeImpl) slotLocked(mode Mode) (*texture.Texture, *RenderData, error) {
	switch mode {
	case ModeBaked:
		return &p.bakedTexture, &p.bakedRenderData, nil
	case ModeCustom:
		return &p.customTexture, &p.customRenderData, nil
	case ModeRealtime:
		return &p.realtimeTexture, &p.realtimeRenderData, nil
	default:
		return nil, nil, invalidMode(mode)
	}
}

func checkTexture(mode Mode, tex texture.Texture) error {
	if mode == ModeRealtime && (tex == nil || !tex.Renderable()) {
		return fmt.Errorf("%w: texture must be a render texture for the Realtime mode", ErrInvalidArgument)
	}
	return nil
}

func (p *probeImpl) Texture() texture.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	tex, _, err := p.slotLocked(p.settings.Mode)
	if err != nil {
		return nil
	}
	return *tex
}

func (p *probeImpl) GetTexture(mode Mode) (texture.Texture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tex, _, err := p.slotLocked(mode)
	if err != nil {
		return nil, err
	}
	return *tex, nil
}

func (p *probeImpl) SetTexture(mode Mode, tex texture.Texture) (texture.Texture, error) {
	if err := checkTexture(mode, tex); err != nil {
		logger.Warningf("probe %d: rejected %s texture: %v", p.id, mode, err)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	slot, _, err := p.slotLocked(mode)
	if err != nil {
		return nil, err
	}
	*slot = tex
	return tex, nil
}

func (p *probeImpl) BakedTexture() texture.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bakedTexture
}

func (p *probeImpl) CustomTexture() texture.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.customTexture
}

func (p *probeImpl) RealtimeTexture() texture.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.realtimeTexture
}

func (p *probeImpl) RenderData() RenderData {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, data, err := p.slotLocked(p.settings.Mode)
	if err != nil {
		return RenderData{}
	}
	return *data
}

func (p *probeImpl) GetRenderData(mode Mode) (RenderData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, data, err := p.slotLocked(mode)
	if err != nil {
		return RenderData{}, err
	}
	return *data, nil
}

func (p *probeImpl) BakedRenderData() RenderData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bakedRenderData
}

func (p *probeImpl) CustomRenderData() RenderData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.customRenderData
}

func (p *probeImpl) RealtimeRenderData() RenderData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.realtimeRenderData
}

func (p *probeImpl) SetRenderData(mode Mode, data RenderData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, slot, err := p.slotLocked(mode)
	if err != nil {
		return err
	}
	*slot = data
	return nil
}

func (p *probeImpl) SetCapture(mode Mode, tex texture.Texture, data RenderData) error {
	if err := checkTexture(mode, tex); err != nil {
		logger.Warningf("probe %d: rejected %s capture: %v", p.id, mode, err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	texSlot, dataSlot, err := p.slotLocked(mode)
	if err != nil {
		return err
	}
	*texSlot = tex
	*dataSlot = data
	logger.Debugf("probe %d: stored %s capture at %v", p.id, mode, data.CapturePosition)
	return nil
}

func (p *probeImpl) WasRenderedAfterOnEnable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wasRenderedAfterOnEnable
}

func (p *probeImpl) SetWasRenderedAfterOnEnable(rendered bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wasRenderedAfterOnEnable = rendered
}

func (p *probeImpl) LastRenderedFrame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRenderedFrame
}

func (p *probeImpl) SetLastRenderedFrame(frame int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastRenderedFrame = frame
}

func (p *probeImpl) Migrate(m Migrator) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.migrated {
		return false
	}
	p.migrated = true
	if m == nil {
		return true
	}

	from := p.migrationVersion
	p.migrationVersion = m.Migrate(&p.settings, from)
	if p.migrationVersion != from {
		logger.Debugf("probe %d: migrated settings from version %d to %d", p.id, from, p.migrationVersion)
	}
	return true
}

func (p *probeImpl) MigrationVersion() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.migrationVersion
}

func (p *probeImpl) PrepareCulling() {}
