package probe

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUProbeDataSource is the canonical WGSL definition of the ProbeData struct.
// Matches GPUProbeData layout exactly (176 bytes, std430 aligned).
//
//go:embed assets/probe_data.wgsl
var GPUProbeDataSource string

// GPUProbeData is the GPU-aligned record the lighting pass reads for one visible probe.
// Matches the WGSL ProbeData struct layout exactly (see GPUProbeDataSource).
// Size: 176 bytes (std430 / WGSL aligned).
type GPUProbeData struct {
	ViewProj        [16]float32 // offset   0: capture view-projection (mat4x4<f32>)
	ProxyToWorld    [16]float32 // offset  64: proxy volume world matrix (mat4x4<f32>)
	CapturePosition [3]float32  // offset 128: world-space capture position (vec3<f32>)
	Multiplier      float32     // offset 140
	ProxyExtents    [3]float32  // offset 144: proxy half-size (vec3<f32>)
	Weight          float32     // offset 156
	LightLayers     uint32      // offset 160: unsigned light layer mask
	Infinite        uint32      // offset 164: 1 if the projection is infinite
	_pad            [2]uint32   // offset 168: padding to 176 bytes
}

// NewGPUProbeData snapshots the current-mode render data and the shading parameters of p.
//
// Parameters:
//   - p: the probe
//
// Returns:
//   - GPUProbeData: the record
func NewGPUProbeData(p Probe) GPUProbeData {
	data := p.RenderData()
	g := GPUProbeData{
		ViewProj:        data.ViewProjection(),
		ProxyToWorld:    p.ProxyToWorld(),
		CapturePosition: data.CapturePosition,
		Multiplier:      p.Multiplier(),
		ProxyExtents:    p.ProxyExtents(),
		Weight:          p.Weight(),
		LightLayers:     p.LightLayersAsUInt(),
	}
	if p.IsProjectionInfinite() {
		g.Infinite = 1
	}
	return g
}

// Size returns the size of the GPUProbeData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (176)
func (g *GPUProbeData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUProbeData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUProbeData) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf[0:], g.ViewProj[:])
	putFloats(buf[64:], g.ProxyToWorld[:])
	putFloats(buf[128:], g.CapturePosition[:])
	binary.LittleEndian.PutUint32(buf[140:], math.Float32bits(g.Multiplier))
	putFloats(buf[144:], g.ProxyExtents[:])
	binary.LittleEndian.PutUint32(buf[156:], math.Float32bits(g.Weight))
	binary.LittleEndian.PutUint32(buf[160:], g.LightLayers)
	binary.LittleEndian.PutUint32(buf[164:], g.Infinite)
	return buf
}

// MarshalProbeData packs the records of probes back to back, in order.
//
// Parameters:
//   - probes: the probes to pack
//
// Returns:
//   - []byte: the storage buffer contents
func MarshalProbeData(probes []Probe) []byte {
	var g GPUProbeData
	buf := make([]byte, 0, len(probes)*g.Size())
	for _, p := range probes {
		g = NewGPUProbeData(p)
		buf = append(buf, g.Marshal()...)
	}
	return buf
}

func putFloats(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
