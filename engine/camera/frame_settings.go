package camera

// FrameFeature is a single toggleable rendering feature of a capture pass.
type FrameFeature uint64

const (
	FrameFeatureOpaqueObjects FrameFeature = 1 << iota
	FrameFeatureTransparentObjects
	FrameFeatureShadows
	FrameFeatureVolumetrics
	FrameFeatureReflections
	FrameFeaturePostProcess
	FrameFeatureSkyReflection
	FrameFeatureMSAA
)

// FrameSettings selects the rendering features used when a probe captures its environment.
// The probe never interprets them; they are forwarded to the capture renderer as-is.
type FrameSettings struct {
	// Features is the bitmask of enabled features.
	Features FrameFeature
	// LODBias scales the level-of-detail distances used during capture.
	LODBias float32
}

// DefaultFrameSettings returns the frame settings used by newly created probes.
// Recursive reflections and post processing are off since a capture is itself a reflection input.
//
// Returns:
//   - FrameSettings: the defaults
func DefaultFrameSettings() FrameSettings {
	return FrameSettings{
		Features: FrameFeatureOpaqueObjects | FrameFeatureTransparentObjects | FrameFeatureShadows |
			FrameFeatureVolumetrics | FrameFeatureSkyReflection,
		LODBias: 1,
	}
}

// IsEnabled reports whether every feature in f is enabled.
func (s FrameSettings) IsEnabled(f FrameFeature) bool {
	return s.Features&f == f
}

// SetEnabled enables or disables the given features.
func (s *FrameSettings) SetEnabled(f FrameFeature, enabled bool) {
	if enabled {
		s.Features |= f
	} else {
		s.Features &^= f
	}
}
