package probe

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
)

// LightingSettings is the lighting sub-block of the probe settings.
type LightingSettings struct {
	LightLayer LightLayer
	// Multiplier scales the reflected light (non PBR); expected >= 0.
	Multiplier float32
	// Weight blends this probe against overlapping probes; expected in [0, 1].
	Weight float32
}

// ProxySettings is the proxy sub-block of the probe settings.
type ProxySettings struct {
	UseInfluenceVolumeAsProxyVolume bool
}

// Settings is the full configuration of a probe.
type Settings struct {
	Type          ProbeType
	Mode          Mode
	RealtimeMode  RealtimeMode
	Lighting      LightingSettings
	ProxySettings ProxySettings
	// Proxy is the shape of the linked proxy volume. Only the value returned by
	// Probe.Settings is authoritative; the stored copy is not kept in sync.
	Proxy *ProxyVolume
	// Influence is materialized on first access through Probe.InfluenceVolume.
	Influence common.Lazy[InfluenceVolume]
	Camera    camera.Settings
}

// DefaultSettings returns the settings of a newly created reflection probe.
//
// Returns:
//   - Settings: the defaults
func DefaultSettings() Settings {
	return Settings{
		Type:         ProbeTypeReflection,
		Mode:         ModeBaked,
		RealtimeMode: RealtimeModeEveryFrame,
		Lighting: LightingSettings{
			LightLayer: LightLayerDefault,
			Multiplier: 1,
			Weight:     1,
		},
		ProxySettings: ProxySettings{UseInfluenceVolumeAsProxyVolume: false},
		Camera:        camera.DefaultSettings(),
	}
}

// SettingsField names a field of Settings that a higher-level system may override.
type SettingsField uint32

const (
	SettingsFieldMode SettingsField = 1 << iota
	SettingsFieldRealtimeMode
	SettingsFieldLightLayer
	SettingsFieldMultiplier
	SettingsFieldWeight
	SettingsFieldUseInfluenceAsProxy
	SettingsFieldInfluence
	SettingsFieldCamera
)

// SettingsOverride marks which settings fields an owning profile or preset may override.
// The probe stores it and hands it back; it never interprets it.
type SettingsOverride struct {
	Fields SettingsField
}

// Has reports whether every field in f may be overridden.
func (o SettingsOverride) Has(f SettingsField) bool {
	return o.Fields&f == f
}
