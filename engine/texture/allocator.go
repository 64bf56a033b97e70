package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// DeviceAllocator creates probe render targets on a GPU device.
type DeviceAllocator struct {
	device *wgpu.Device
	format wgpu.TextureFormat
}

// NewDeviceAllocator creates an allocator bound to the given device.
//
// Parameters:
//   - device: the GPU device textures are created on
//   - format: the color format of created targets; zero selects DefaultRenderFormat
//
// Returns:
//   - *DeviceAllocator: the allocator
func NewDeviceAllocator(device *wgpu.Device, format wgpu.TextureFormat) *DeviceAllocator {
	return &DeviceAllocator{device: device, format: common.Coalesce(format, DefaultRenderFormat)}
}

// AllocateRenderTexture creates a render target on the device.
//
// Parameters:
//   - label: debug label
//   - width, height: size in texels
//   - layers: array layer count (6 for cubemaps)
//
// Returns:
//   - Texture: the render texture, backed by a GPU texture
//   - error: ErrNilDevice or the device creation error
func (a *DeviceAllocator) AllocateRenderTexture(label string, width, height, layers uint32) (Texture, error) {
	if a == nil || a.device == nil {
		return nil, ErrNilDevice
	}

	desc := descriptor(label, width, height, layers, a.format, RenderUsage)
	tex, err := a.device.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create render texture %q: %w", label, err)
	}
	return NewTexture(desc, tex), nil
}

// DescriptorAllocator creates render targets without a device. Tools and tests
// use it where the renderer never touches texel data.
type DescriptorAllocator struct {
	Format wgpu.TextureFormat
}

// AllocateRenderTexture creates a descriptor-only render target.
//
// Parameters:
//   - label: debug label
//   - width, height: size in texels
//   - layers: array layer count (6 for cubemaps)
//
// Returns:
//   - Texture: the render texture
//   - error: always nil
func (a DescriptorAllocator) AllocateRenderTexture(label string, width, height, layers uint32) (Texture, error) {
	return NewRenderTexture(label, width, height, layers, common.Coalesce(a.Format, DefaultRenderFormat)), nil
}
