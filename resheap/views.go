package resheap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/memutils"
	"github.com/vkngwrapper/descheap/native"
)

// BufferViewDescriptor selects a byte range of a buffer. A Size of 0 selects everything from
// Offset to the end of the buffer.
type BufferViewDescriptor struct {
	Offset int
	Size   int
	Format core1_0.Format
}

// Subresource selects mip levels and array layers of a texture. A count of 0 selects every
// level or layer from the base to the end of the texture.
type Subresource struct {
	BaseMipLevel   int
	NumMipLevels   int
	BaseArrayLayer int
	NumArrayLayers int
}

// TextureViewDescriptor describes how a texture is viewed. Leaving it blank views the whole
// texture. An undefined Type or a blank Format falls back to the texture's own, and zero counts
// cover the remaining levels or layers. Type must be compatible with the texture's type.
type TextureViewDescriptor struct {
	Type        native.TextureType
	Format      core1_0.Format
	Subresource Subresource
}

// ResourceViewDescriptor describes the view written to a single descriptor slot. Only the
// view field matching the slot's resource type is read, and samplers read neither.
type ResourceViewDescriptor struct {
	Resource    native.Resource
	BufferView  BufferViewDescriptor
	TextureView TextureViewDescriptor
}

// ViewResult reports what a successfully written view refers to
type ViewResult struct {
	Resource native.ResourceHandle
	Writable bool
}

// viewBuilder validates view descriptions and writes them through the device
type viewBuilder struct {
	device native.Device
	limits native.Limits
}

func newViewBuilder(device native.Device) viewBuilder {
	return viewBuilder{
		device: device,
		limits: device.Limits(),
	}
}

// CreateView writes the view described by desc at dest. On error nothing is written.
func (b viewBuilder) CreateView(dest native.CPUHandle, slot *slotInfo, desc ResourceViewDescriptor) (ViewResult, error) {
	if desc.Resource == nil {
		return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "no resource was provided for %s slot %q", slot.viewKind, slot.Name)
	}

	switch slot.viewKind {
	case native.ViewKindSampler:
		return b.createSampler(dest, slot, desc)
	case native.ViewKindConstantBuffer:
		return b.createConstantBufferView(dest, slot, desc)
	default:
		return b.createResourceView(dest, slot, desc)
	}
}

func (b viewBuilder) createSampler(dest native.CPUHandle, slot *slotInfo, desc ResourceViewDescriptor) (ViewResult, error) {
	sampler, ok := desc.Resource.(native.Sampler)
	if !ok {
		return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "sampler slot %q was given a %s", slot.Name, desc.Resource.ResourceType())
	}

	res, err := b.device.CreateSampler(sampler.Descriptor(), dest)
	err = nativeError(res, err, "failed to create sampler")
	if err != nil {
		return ViewResult{}, err
	}

	return ViewResult{Resource: sampler.Handle()}, nil
}

func (b viewBuilder) createConstantBufferView(dest native.CPUHandle, slot *slotInfo, desc ResourceViewDescriptor) (ViewResult, error) {
	buffer, ok := desc.Resource.(native.Buffer)
	if !ok {
		return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "constant-buffer slot %q was given a %s", slot.Name, desc.Resource.ResourceType())
	}

	if buffer.Usage()&core1_0.BufferUsageUniformBuffer == 0 {
		return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "buffer %d was not created with uniform usage", buffer.Handle())
	}

	offset, size, err := resolveBufferRange(buffer, desc.BufferView)
	if err != nil {
		return ViewResult{}, err
	}

	alignment := b.limits.ConstantBufferAlignment
	if !memutils.IsAligned(offset, alignment) || !memutils.IsAligned(size, alignment) {
		return ViewResult{}, errors.Wrapf(ErrMisaligned, "constant-buffer range offset %d size %d must be aligned to %d bytes", offset, size, alignment)
	}

	res, err := b.device.CreateConstantBufferView(buffer, offset, size, dest)
	err = nativeError(res, err, "failed to create constant-buffer view")
	if err != nil {
		return ViewResult{}, err
	}

	return ViewResult{Resource: buffer.Handle()}, nil
}

func (b viewBuilder) createResourceView(dest native.CPUHandle, slot *slotInfo, desc ResourceViewDescriptor) (ViewResult, error) {
	writable := slot.viewKind == native.ViewKindUnorderedAccess

	var viewDesc native.ViewDesc
	switch resource := desc.Resource.(type) {
	case native.Buffer:
		if slot.Type != native.ResourceTypeBuffer {
			return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "%s slot %q was given a buffer", slot.Type, slot.Name)
		}

		if writable && resource.Usage()&core1_0.BufferUsageStorageBuffer == 0 {
			return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "buffer %d was not created with storage usage", resource.Handle())
		}

		bufferView, err := resolveBufferView(resource, desc.BufferView)
		if err != nil {
			return ViewResult{}, err
		}
		viewDesc.Buffer = bufferView
	case native.Texture:
		if slot.Type != native.ResourceTypeTexture {
			return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "%s slot %q was given a texture", slot.Type, slot.Name)
		}

		if writable && resource.Usage()&core1_0.ImageUsageStorage == 0 {
			return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "texture %d was not created with storage usage", resource.Handle())
		}

		if !writable && resource.Usage()&core1_0.ImageUsageSampled == 0 {
			return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "texture %d was not created with sampled usage", resource.Handle())
		}

		textureView, err := resolveTextureView(resource, desc.TextureView)
		if err != nil {
			return ViewResult{}, err
		}
		viewDesc.Texture = textureView
	default:
		return ViewResult{}, errors.Wrapf(ErrIncompatibleResource, "%s slot %q was given a %s", slot.Type, slot.Name, desc.Resource.ResourceType())
	}

	var res common.VkResult
	var err error
	if writable {
		res, err = b.device.CreateUnorderedAccessView(desc.Resource, viewDesc, dest)
	} else {
		res, err = b.device.CreateShaderResourceView(desc.Resource, viewDesc, dest)
	}
	err = nativeError(res, err, "failed to create %s view", slot.viewKind)
	if err != nil {
		return ViewResult{}, err
	}

	return ViewResult{Resource: desc.Resource.Handle(), Writable: writable}, nil
}

func resolveBufferRange(buffer native.Buffer, view BufferViewDescriptor) (int, int, error) {
	offset, size := view.Offset, view.Size
	if size == 0 {
		size = buffer.Size() - offset
	}

	if offset < 0 || size <= 0 || offset+size > buffer.Size() {
		return 0, 0, errors.Wrapf(ErrInvalidRange, "buffer range offset %d size %d is outside of buffer %d of %d bytes", view.Offset, view.Size, buffer.Handle(), buffer.Size())
	}

	return offset, size, nil
}

func resolveBufferView(buffer native.Buffer, view BufferViewDescriptor) (native.BufferViewDesc, error) {
	offset, size, err := resolveBufferRange(buffer, view)
	if err != nil {
		return native.BufferViewDesc{}, err
	}

	stride := buffer.Stride()
	if view.Format == 0 && stride > 0 {
		if !memutils.IsAligned(offset, stride) || !memutils.IsAligned(size, stride) {
			return native.BufferViewDesc{}, errors.Wrapf(ErrMisaligned, "buffer range offset %d size %d is not a whole number of %d-byte elements", offset, size, stride)
		}
	} else {
		stride = 0
	}

	return native.BufferViewDesc{
		Offset: offset,
		Size:   size,
		Stride: stride,
		Format: view.Format,
	}, nil
}

func resolveTextureView(texture native.Texture, view TextureViewDescriptor) (native.TextureViewDesc, error) {
	if view == (TextureViewDescriptor{}) {
		return native.TextureViewDesc{
			Type:           texture.TextureType(),
			Format:         texture.Format(),
			NumMipLevels:   texture.MipLevels(),
			NumArrayLayers: texture.ArrayLayers(),
		}, nil
	}

	viewType := view.Type
	if viewType == native.TextureTypeUndefined {
		viewType = texture.TextureType()
	}
	if !texture.TextureType().ViewCompatible(viewType) {
		return native.TextureViewDesc{}, errors.Wrapf(ErrIncompatibleResource, "%s texture %d cannot be viewed as %s", texture.TextureType(), texture.Handle(), viewType)
	}

	format := view.Format
	if format == 0 {
		format = texture.Format()
	}

	sub := view.Subresource
	if sub.BaseMipLevel < 0 || sub.BaseMipLevel >= texture.MipLevels() {
		return native.TextureViewDesc{}, errors.Wrapf(ErrInvalidRange, "base mip level %d is outside of texture %d with %d levels", sub.BaseMipLevel, texture.Handle(), texture.MipLevels())
	}
	if sub.BaseArrayLayer < 0 || sub.BaseArrayLayer >= texture.ArrayLayers() {
		return native.TextureViewDesc{}, errors.Wrapf(ErrInvalidRange, "base array layer %d is outside of texture %d with %d layers", sub.BaseArrayLayer, texture.Handle(), texture.ArrayLayers())
	}

	numMips := sub.NumMipLevels
	if numMips == 0 {
		numMips = texture.MipLevels() - sub.BaseMipLevel
	}
	numLayers := sub.NumArrayLayers
	if numLayers == 0 {
		numLayers = texture.ArrayLayers() - sub.BaseArrayLayer
	}

	if numMips < 0 || sub.BaseMipLevel+numMips > texture.MipLevels() {
		return native.TextureViewDesc{}, errors.Wrapf(ErrInvalidRange, "mip levels [%d, %d) are outside of texture %d with %d levels", sub.BaseMipLevel, sub.BaseMipLevel+numMips, texture.Handle(), texture.MipLevels())
	}
	if numLayers < 0 || sub.BaseArrayLayer+numLayers > texture.ArrayLayers() {
		return native.TextureViewDesc{}, errors.Wrapf(ErrInvalidRange, "array layers [%d, %d) are outside of texture %d with %d layers", sub.BaseArrayLayer, sub.BaseArrayLayer+numLayers, texture.Handle(), texture.ArrayLayers())
	}

	if !viewType.IsArray() && numLayers > 1 {
		return native.TextureViewDesc{}, errors.Wrapf(ErrInvalidRange, "%s view cannot cover %d array layers", viewType, numLayers)
	}
	if (viewType == native.TextureCube && numLayers != 6) || (viewType == native.TextureCubeArray && numLayers%6 != 0) {
		return native.TextureViewDesc{}, errors.Wrapf(ErrInvalidRange, "%s view cannot cover %d array layers", viewType, numLayers)
	}

	return native.TextureViewDesc{
		Type:           viewType,
		Format:         format,
		BaseMipLevel:   sub.BaseMipLevel,
		NumMipLevels:   numMips,
		BaseArrayLayer: sub.BaseArrayLayer,
		NumArrayLayers: numLayers,
	}, nil
}

func nativeError(res common.VkResult, err error, format string, args ...any) error {
	if err != nil {
		return errors.Mark(errors.Wrapf(err, format, args...), ErrNativeFailure)
	}

	if res != core1_0.VKSuccess {
		return errors.Wrapf(ErrNativeFailure, format+": %v", append(args, res)...)
	}

	return nil
}
