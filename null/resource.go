package null

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/native"
)

type BufferDescriptor struct {
	Size   int
	Stride int
	Usage  core1_0.BufferUsageFlags
}

type Buffer struct {
	handle native.ResourceHandle
	desc   BufferDescriptor
}

var _ native.Buffer = &Buffer{}

func (b *Buffer) Handle() native.ResourceHandle     { return b.handle }
func (b *Buffer) ResourceType() native.ResourceType { return native.ResourceTypeBuffer }
func (b *Buffer) Size() int                         { return b.desc.Size }
func (b *Buffer) Stride() int                       { return b.desc.Stride }
func (b *Buffer) Usage() core1_0.BufferUsageFlags   { return b.desc.Usage }

// NewBuffer creates a buffer resource. No memory is allocated for its contents.
func (d *Device) NewBuffer(desc BufferDescriptor) (*Buffer, error) {
	if desc.Size < 1 {
		return nil, errors.Newf("buffer size must be at least 1, but was %d", desc.Size)
	}

	if desc.Stride < 0 {
		return nil, errors.Newf("buffer stride must not be negative, but was %d", desc.Stride)
	}

	buffer := &Buffer{
		handle: d.nextHandle(),
		desc:   desc,
	}
	d.register(buffer)
	return buffer, nil
}

type TextureDescriptor struct {
	Type        native.TextureType
	Format      core1_0.Format
	Extent      native.Extent3D
	MipLevels   int
	ArrayLayers int
	Usage       core1_0.ImageUsageFlags
}

type Texture struct {
	handle native.ResourceHandle
	desc   TextureDescriptor
}

var _ native.Texture = &Texture{}

func (t *Texture) Handle() native.ResourceHandle     { return t.handle }
func (t *Texture) ResourceType() native.ResourceType { return native.ResourceTypeTexture }
func (t *Texture) TextureType() native.TextureType   { return t.desc.Type }
func (t *Texture) Format() core1_0.Format            { return t.desc.Format }
func (t *Texture) Extent() native.Extent3D           { return t.desc.Extent }
func (t *Texture) MipLevels() int                    { return t.desc.MipLevels }
func (t *Texture) ArrayLayers() int                  { return t.desc.ArrayLayers }
func (t *Texture) Usage() core1_0.ImageUsageFlags    { return t.desc.Usage }

// NewTexture creates a texture resource. MipLevels and ArrayLayers default to 1.
func (d *Device) NewTexture(desc TextureDescriptor) (*Texture, error) {
	if desc.MipLevels == 0 {
		desc.MipLevels = 1
	}
	if desc.ArrayLayers == 0 {
		desc.ArrayLayers = 1
	}

	if desc.Type == native.TextureTypeUndefined || desc.Type.String() == "" {
		return nil, errors.Newf("texture type %d is not a valid texture type", desc.Type)
	}

	if desc.Extent.Width < 1 || desc.Extent.Height < 1 || desc.Extent.Depth < 1 {
		return nil, errors.Newf("texture extent %+v must be at least 1 in every dimension", desc.Extent)
	}

	if desc.MipLevels < 1 || desc.ArrayLayers < 1 {
		return nil, errors.Newf("texture must have at least one mip level and array layer, but has %d and %d", desc.MipLevels, desc.ArrayLayers)
	}

	texture := &Texture{
		handle: d.nextHandle(),
		desc:   desc,
	}
	d.register(texture)
	return texture, nil
}

type Sampler struct {
	handle native.ResourceHandle
	desc   native.SamplerDescriptor
}

var _ native.Sampler = &Sampler{}

func (s *Sampler) Handle() native.ResourceHandle        { return s.handle }
func (s *Sampler) ResourceType() native.ResourceType    { return native.ResourceTypeSampler }
func (s *Sampler) Descriptor() native.SamplerDescriptor { return s.desc }

// NewSampler creates a sampler object
func (d *Device) NewSampler(desc native.SamplerDescriptor) *Sampler {
	sampler := &Sampler{
		handle: d.nextHandle(),
		desc:   desc,
	}
	d.register(sampler)
	return sampler
}
