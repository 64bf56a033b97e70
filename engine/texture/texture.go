package texture

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNilDevice is returned when a GPU allocation is requested without a device.
var ErrNilDevice = errors.New("texture: nil device")

// DefaultRenderFormat is the color format used for probe render targets.
const DefaultRenderFormat = wgpu.TextureFormatRGBA16Float

type textureImpl struct {
	desc wgpu.TextureDescriptor
	gpu  *wgpu.Texture
}

// Texture is a handle to an image a probe can hold. It carries the descriptor
// the texture was created from and, when it lives on a device, the GPU object.
//
// Whether a texture is a static asset or a render target is decided by its
// usage bits: only textures created with wgpu.TextureUsageRenderAttachment can
// be written by the GPU and therefore serve as realtime capture targets.
type Texture interface {
	// Label returns the debug label of the texture.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Width returns the width in texels.
	//
	// Returns:
	//   - uint32: the width
	Width() uint32

	// Height returns the height in texels.
	//
	// Returns:
	//   - uint32: the height
	Height() uint32

	// Layers returns the array layer count (6 for cubemaps).
	//
	// Returns:
	//   - uint32: the layer count
	Layers() uint32

	// Format returns the texel format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format
	Format() wgpu.TextureFormat

	// Usage returns the usage bits the texture was created with.
	//
	// Returns:
	//   - wgpu.TextureUsage: the usage flags
	Usage() wgpu.TextureUsage

	// Renderable reports whether the GPU can render into this texture.
	//
	// Returns:
	//   - bool: true if the usage includes wgpu.TextureUsageRenderAttachment
	Renderable() bool

	// GPU returns the underlying GPU texture, or nil for descriptor-only textures.
	//
	// Returns:
	//   - *wgpu.Texture: the GPU texture or nil
	GPU() *wgpu.Texture

	// Release frees the GPU texture if one is held. Safe to call more than once.
	Release()
}

var _ Texture = &textureImpl{}

// NewTexture wraps a descriptor and an optional GPU texture created from it.
//
// Parameters:
//   - desc: the descriptor the texture was (or would be) created with
//   - gpu: the GPU texture, or nil when the texture has no device backing
//
// Returns:
//   - Texture: the texture handle
func NewTexture(desc wgpu.TextureDescriptor, gpu *wgpu.Texture) Texture {
	return &textureImpl{desc: desc, gpu: gpu}
}

// NewStaticTexture creates a descriptor-only texture that can be sampled but not rendered to,
// the shape of an imported baked or custom asset.
//
// Parameters:
//   - label: debug label
//   - width, height: size in texels
//   - layers: array layer count (6 for cubemaps)
//
// Returns:
//   - Texture: the static texture handle
func NewStaticTexture(label string, width, height, layers uint32) Texture {
	return NewTexture(descriptor(label, width, height, layers, wgpu.TextureFormatRGBA8Unorm,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst), nil)
}

// NewRenderTexture creates a descriptor-only render target.
//
// Parameters:
//   - label: debug label
//   - width, height: size in texels
//   - layers: array layer count (6 for cubemaps)
//   - format: texel format
//
// Returns:
//   - Texture: the render texture handle
func NewRenderTexture(label string, width, height, layers uint32, format wgpu.TextureFormat) Texture {
	return NewTexture(descriptor(label, width, height, layers, format, RenderUsage), nil)
}

// RenderUsage is the usage of probe render targets: written by capture passes, sampled by shading.
const RenderUsage = wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding

func descriptor(label string, width, height, layers uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) wgpu.TextureDescriptor {
	if layers == 0 {
		layers = 1
	}
	return wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: layers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	}
}

func (t *textureImpl) Label() string {
	return t.desc.Label
}

func (t *textureImpl) Width() uint32 {
	return t.desc.Size.Width
}

func (t *textureImpl) Height() uint32 {
	return t.desc.Size.Height
}

func (t *textureImpl) Layers() uint32 {
	return t.desc.Size.DepthOrArrayLayers
}

func (t *textureImpl) Format() wgpu.TextureFormat {
	return t.desc.Format
}

func (t *textureImpl) Usage() wgpu.TextureUsage {
	return t.desc.Usage
}

func (t *textureImpl) Renderable() bool {
	return t.desc.Usage&wgpu.TextureUsageRenderAttachment != 0
}

func (t *textureImpl) GPU() *wgpu.Texture {
	return t.gpu
}

func (t *textureImpl) Release() {
	if t.gpu != nil {
		t.gpu.Release()
		t.gpu = nil
	}
}
