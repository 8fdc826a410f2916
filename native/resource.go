package native

import "github.com/vkngwrapper/core/v2/core1_0"

// ResourceHandle identifies a single GPU resource. It is stable for the lifetime of the resource
// and is what barrier buffers record. NullResource is never a valid handle.
type ResourceHandle uint64

const NullResource ResourceHandle = 0

type ResourceType uint32

const (
	ResourceTypeUndefined ResourceType = iota
	ResourceTypeBuffer
	ResourceTypeTexture
	ResourceTypeSampler
)

var resourceTypeMapping = map[ResourceType]string{
	ResourceTypeUndefined: "Undefined",
	ResourceTypeBuffer:    "Buffer",
	ResourceTypeTexture:   "Texture",
	ResourceTypeSampler:   "Sampler",
}

func (t ResourceType) String() string {
	return resourceTypeMapping[t]
}

// Resource is any object that a descriptor can refer to
type Resource interface {
	Handle() ResourceHandle
	ResourceType() ResourceType
}

// Buffer is a linear GPU resource
type Buffer interface {
	Resource
	// Size returns the size of the buffer in bytes
	Size() int
	// Stride returns the size in bytes of a single element for structured buffers, or 0
	Stride() int
	// Usage returns the usages the buffer was created with
	Usage() core1_0.BufferUsageFlags
}

type TextureType uint32

const (
	// TextureTypeUndefined is only valid in view descriptions, where it selects the texture's own type
	TextureTypeUndefined TextureType = iota
	Texture1D
	Texture2D
	Texture3D
	TextureCube
	Texture1DArray
	Texture2DArray
	TextureCubeArray
	Texture2DMS
	Texture2DMSArray
)

var textureTypeMapping = map[TextureType]string{
	TextureTypeUndefined: "Undefined",
	Texture1D:            "Texture1D",
	Texture2D:            "Texture2D",
	Texture3D:            "Texture3D",
	TextureCube:          "TextureCube",
	Texture1DArray:       "Texture1DArray",
	Texture2DArray:       "Texture2DArray",
	TextureCubeArray:     "TextureCubeArray",
	Texture2DMS:          "Texture2DMS",
	Texture2DMSArray:     "Texture2DMSArray",
}

func (t TextureType) String() string {
	return textureTypeMapping[t]
}

// IsArray returns true for texture types that have array layers
func (t TextureType) IsArray() bool {
	switch t {
	case Texture1DArray, Texture2DArray, TextureCube, TextureCubeArray, Texture2DMSArray:
		return true
	}
	return false
}

// ViewCompatible returns true if a texture of this type can be viewed as viewType. Cube textures
// can also be viewed as 2D layers.
func (t TextureType) ViewCompatible(viewType TextureType) bool {
	switch t {
	case Texture1D, Texture1DArray:
		return viewType == Texture1D || viewType == Texture1DArray
	case Texture2D, Texture2DArray:
		return viewType == Texture2D || viewType == Texture2DArray
	case TextureCube, TextureCubeArray:
		return viewType == Texture2D || viewType == Texture2DArray || viewType == TextureCube || viewType == TextureCubeArray
	case Texture3D:
		return viewType == Texture3D
	case Texture2DMS, Texture2DMSArray:
		return viewType == Texture2DMS || viewType == Texture2DMSArray
	}
	return false
}

type Extent3D struct {
	Width  int
	Height int
	Depth  int
}

// Texture is an image GPU resource
type Texture interface {
	Resource
	TextureType() TextureType
	Format() core1_0.Format
	Extent() Extent3D
	MipLevels() int
	ArrayLayers() int
	// Usage returns the usages the texture was created with
	Usage() core1_0.ImageUsageFlags
}

// Sampler is a stateless sampling description. Sampler descriptors are written directly from
// its SamplerDescriptor and never take part in barrier tracking.
type Sampler interface {
	Resource
	Descriptor() SamplerDescriptor
}
