package native

import "github.com/vkngwrapper/core/v2/common"

//go:generate mockgen -package mocks -destination ./mocks/mocks.go github.com/vkngwrapper/descheap/native Device,DescriptorRegion,CommandList

// Limits are device-reported constraints relevant to descriptor heaps
type Limits struct {
	// MaxViewDescriptors is the largest RegionViews region the device will create
	MaxViewDescriptors int
	// MaxSamplerDescriptors is the largest RegionSamplers region the device will create
	MaxSamplerDescriptors int
	// ConstantBufferAlignment is the required alignment in bytes of constant-buffer view offsets
	// and sizes
	ConstantBufferAlignment int
}

// MaxDescriptors returns the region size limit for the provided kind
func (l Limits) MaxDescriptors(kind RegionKind) int {
	if kind == RegionSamplers {
		return l.MaxSamplerDescriptors
	}
	return l.MaxViewDescriptors
}

// Device creates descriptor regions and writes descriptors into them. Every view creation method
// writes exactly one descriptor at dest and allocates nothing.
type Device interface {
	Limits() Limits
	// DescriptorHandleIncrementSize returns the driver-defined distance in bytes between two
	// consecutive descriptors of the provided kind
	DescriptorHandleIncrementSize(kind RegionKind) int
	// CreateDescriptorRegion creates a shader-visible region holding count descriptors. It fails
	// with core1_0.VKErrorTooManyObjects when count is above the kind's limit and with
	// core1_0.VKErrorOutOfDeviceMemory when the device's descriptor pool cannot fit the region.
	CreateDescriptorRegion(kind RegionKind, count int) (DescriptorRegion, common.VkResult, error)

	CreateShaderResourceView(resource Resource, desc ViewDesc, dest CPUHandle) (common.VkResult, error)
	CreateUnorderedAccessView(resource Resource, desc ViewDesc, dest CPUHandle) (common.VkResult, error)
	CreateConstantBufferView(buffer Buffer, offset, size int, dest CPUHandle) (common.VkResult, error)
	CreateSampler(desc SamplerDescriptor, dest CPUHandle) (common.VkResult, error)
	// CreateNullView writes a descriptor of the provided kind that refers to no resource
	CreateNullView(kind ViewKind, dest CPUHandle) (common.VkResult, error)
}

// CommandList is the subset of command recording that resource heaps use
type CommandList interface {
	// ResourceBarrier records every barrier in the packed buffer as a single batched command
	ResourceBarrier(barriers BarrierBuffer)
}
