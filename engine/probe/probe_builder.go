package probe

import (
	"fmt"
	"weak"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
)

// ProbeBuilderOption is a function that configures a probe during construction.
type ProbeBuilderOption func(*probeImpl)

// WithSettings replaces the default settings wholesale, as when restoring a saved probe.
// The probe type chosen by the constructor is kept.
//
// Parameters:
//   - settings: the stored settings
//
// Returns:
//   - ProbeBuilderOption: a function that applies the settings to a probeImpl
func WithSettings(settings Settings) ProbeBuilderOption {
	return func(p *probeImpl) {
		probeType := p.settings.Type
		p.settings = settings
		p.settings.Type = probeType
	}
}

// WithMigrationVersion sets the version the stored settings were saved at.
// Migration on first activation upgrades from this version. New probes default to
// DefaultMigration.LatestVersion(), so only restored settings need this option.
//
// Parameters:
//   - version: the saved settings version
//
// Returns:
//   - ProbeBuilderOption: a function that applies the version to a probeImpl
func WithMigrationVersion(version int) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.migrationVersion = version
	}
}

// WithMode is an option builder that sets the acquisition mode.
// Panics if the mode is out of range.
//
// Parameters:
//   - mode: the acquisition mode
//
// Returns:
//   - ProbeBuilderOption: a function that applies the mode to a probeImpl
func WithMode(mode Mode) ProbeBuilderOption {
	if !mode.Valid() {
		panic(fmt.Sprintf("probe: %v", invalidMode(mode)))
	}
	return func(p *probeImpl) {
		p.settings.Mode = mode
	}
}

// WithRealtimeMode is an option builder that sets the realtime refresh policy.
//
// Parameters:
//   - mode: the refresh policy
//
// Returns:
//   - ProbeBuilderOption: a function that applies the policy to a probeImpl
func WithRealtimeMode(mode RealtimeMode) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.RealtimeMode = mode
	}
}

// WithLightLayers is an option builder that sets the light layer mask.
//
// Parameters:
//   - layers: the mask
//
// Returns:
//   - ProbeBuilderOption: a function that applies the mask to a probeImpl
func WithLightLayers(layers LightLayer) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.Lighting.LightLayer = layers
	}
}

// WithMultiplier is an option builder that sets the reflection multiplier.
//
// Parameters:
//   - multiplier: the multiplier
//
// Returns:
//   - ProbeBuilderOption: a function that applies the multiplier to a probeImpl
func WithMultiplier(multiplier float32) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.Lighting.Multiplier = multiplier
	}
}

// WithWeight is an option builder that sets the blend weight.
//
// Parameters:
//   - weight: the blend weight
//
// Returns:
//   - ProbeBuilderOption: a function that applies the weight to a probeImpl
func WithWeight(weight float32) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.Lighting.Weight = weight
	}
}

// WithUseInfluenceVolumeAsProxyVolume is an option builder that makes the influence
// volume double as proxy when no proxy volume is linked.
//
// Parameters:
//   - use: true to use the influence volume as proxy
//
// Returns:
//   - ProbeBuilderOption: a function that applies the flag to a probeImpl
func WithUseInfluenceVolumeAsProxyVolume(use bool) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.ProxySettings.UseInfluenceVolumeAsProxyVolume = use
	}
}

// WithInfluenceVolume is an option builder that sets the influence volume instead of
// letting the first access create the default one.
//
// Parameters:
//   - v: the influence volume
//
// Returns:
//   - ProbeBuilderOption: a function that applies the volume to a probeImpl
func WithInfluenceVolume(v *InfluenceVolume) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.Influence.Set(v)
	}
}

// WithProxyVolume is an option builder that links a proxy volume. The probe does
// not keep the component alive.
//
// Parameters:
//   - proxy: the proxy volume
//
// Returns:
//   - ProbeBuilderOption: a function that links the proxy on a probeImpl
func WithProxyVolume(proxy *ProxyVolumeComponent) ProbeBuilderOption {
	return func(p *probeImpl) {
		if proxy != nil {
			p.proxy = weak.Make(proxy)
		}
	}
}

// WithTransform is an option builder that places the probe in the world.
//
// Parameters:
//   - t: the world transform
//
// Returns:
//   - ProbeBuilderOption: a function that applies the transform to a probeImpl
func WithTransform(t common.Transform) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.transform = t
	}
}

// WithCameraSettings is an option builder that sets the capture camera settings.
//
// Parameters:
//   - settings: the camera settings
//
// Returns:
//   - ProbeBuilderOption: a function that applies the camera settings to a probeImpl
func WithCameraSettings(settings camera.Settings) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.settings.Camera = settings
	}
}

// WithSettingsOverride is an option builder that sets the override flags.
//
// Parameters:
//   - override: the override flags
//
// Returns:
//   - ProbeBuilderOption: a function that applies the flags to a probeImpl
func WithSettingsOverride(override SettingsOverride) ProbeBuilderOption {
	return func(p *probeImpl) {
		p.override = override
	}
}
