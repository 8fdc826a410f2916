package native

import "github.com/vkngwrapper/core/v2/core1_0"

// ViewKind is the type of descriptor written for a single binding slot
type ViewKind uint32

const (
	ViewKindShaderResource ViewKind = iota
	ViewKindUnorderedAccess
	ViewKindConstantBuffer
	ViewKindSampler
)

var viewKindMapping = map[ViewKind]string{
	ViewKindShaderResource:  "ShaderResource",
	ViewKindUnorderedAccess: "UnorderedAccess",
	ViewKindConstantBuffer:  "ConstantBuffer",
	ViewKindSampler:         "Sampler",
}

func (k ViewKind) String() string {
	return viewKindMapping[k]
}

// RegionKind returns the kind of region that descriptors of this kind are written to
func (k ViewKind) RegionKind() RegionKind {
	if k == ViewKindSampler {
		return RegionSamplers
	}
	return RegionViews
}

// BufferViewDesc is a fully resolved byte range of a buffer. Offset and Size are in bytes; Stride
// is the element size for structured views, or 0 for typed and raw views.
type BufferViewDesc struct {
	Offset int
	Size   int
	Stride int
	Format core1_0.Format
}

// TextureViewDesc is a fully resolved subresource range of a texture
type TextureViewDesc struct {
	Type           TextureType
	Format         core1_0.Format
	BaseMipLevel   int
	NumMipLevels   int
	BaseArrayLayer int
	NumArrayLayers int
}

// ViewDesc is passed to Device view creation methods. Only the field matching the resource's
// type is read.
type ViewDesc struct {
	Buffer  BufferViewDesc
	Texture TextureViewDesc
}
