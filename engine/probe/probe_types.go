package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a wrong texture kind in Realtime mode
	// and for mode values outside Baked, Custom and Realtime.
	ErrInvalidArgument = errors.New("probe: invalid argument")

	// ErrInconsistentState marks probe state that cannot be used in the requested context.
	ErrInconsistentState = errors.New("probe: inconsistent state")
)

// Mode identifies which acquisition pipeline produced a probe's image.
type Mode int

const (
	// ModeBaked is an image rendered offline and stored as an asset.
	ModeBaked Mode = iota
	// ModeCustom is an image supplied by the user.
	ModeCustom
	// ModeRealtime is an image rendered by the GPU at runtime.
	ModeRealtime
)

// Valid reports whether m is one of ModeBaked, ModeCustom or ModeRealtime.
func (m Mode) Valid() bool {
	return m >= ModeBaked && m <= ModeRealtime
}

func (m Mode) String() string {
	switch m {
	case ModeBaked:
		return "Baked"
	case ModeCustom:
		return "Custom"
	case ModeRealtime:
		return "Realtime"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func invalidMode(m Mode) error {
	return fmt.Errorf("%w: mode %s out of range", ErrInvalidArgument, m)
}

// RealtimeMode is the refresh policy of a probe in ModeRealtime.
type RealtimeMode int

const (
	// RealtimeModeEveryFrame captures once per rendered frame.
	RealtimeModeEveryFrame RealtimeMode = iota
	// RealtimeModeOnEnable captures once after each activation.
	RealtimeModeOnEnable
)

func (m RealtimeMode) String() string {
	switch m {
	case RealtimeModeEveryFrame:
		return "EveryFrame"
	case RealtimeModeOnEnable:
		return "OnEnable"
	default:
		return fmt.Sprintf("RealtimeMode(%d)", int(m))
	}
}

// ProbeType is the kind of probe, fixed at construction.
type ProbeType int

const (
	// ProbeTypeReflection captures a cubemap around the probe position.
	ProbeTypeReflection ProbeType = iota
	// ProbeTypePlanar captures a mirrored view across the probe plane.
	ProbeTypePlanar
)

func (t ProbeType) String() string {
	switch t {
	case ProbeTypeReflection:
		return "Reflection"
	case ProbeTypePlanar:
		return "Planar"
	default:
		return fmt.Sprintf("ProbeType(%d)", int(t))
	}
}

// LightLayer is a bitmask of the light layers a probe affects.
// Masks serialized as signed integers store "everything" as -1, so any
// negative value is read as LightLayerEverything.
type LightLayer int32

const (
	LightLayerNothing LightLayer = 0
	LightLayerDefault LightLayer = 1 << (iota - 1)
	LightLayer1
	LightLayer2
	LightLayer3
	LightLayer4
	LightLayer5
	LightLayer6
	LightLayer7
	// LightLayerEverything is every layer bit set.
	LightLayerEverything LightLayer = 0xFF
	// LightLayerEverythingSigned is the signed encoding of "everything".
	LightLayerEverythingSigned LightLayer = -1
)

// AsUInt returns the layer mask as an unsigned bitmask. Negative values map to
// the unsigned LightLayerEverything mask, every other value is returned unchanged.
//
// Returns:
//   - uint32: the unsigned mask
func (l LightLayer) AsUInt() uint32 {
	if l < 0 {
		return uint32(LightLayerEverything)
	}
	return uint32(l)
}
