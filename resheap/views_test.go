package resheap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/native"
	"github.com/vkngwrapper/descheap/native/mocks"
	"github.com/vkngwrapper/descheap/null"
	"go.uber.org/mock/gomock"
)

type testBuffer struct {
	handle native.ResourceHandle
	size   int
	stride int
	usage  core1_0.BufferUsageFlags
}

func (b *testBuffer) Handle() native.ResourceHandle     { return b.handle }
func (b *testBuffer) ResourceType() native.ResourceType { return native.ResourceTypeBuffer }
func (b *testBuffer) Size() int                         { return b.size }
func (b *testBuffer) Stride() int                       { return b.stride }
func (b *testBuffer) Usage() core1_0.BufferUsageFlags   { return b.usage }

func readyMockHeap(t *testing.T, ctrl *gomock.Controller, layout Layout, numSets int) (*mocks.MockDevice, *ResourceHeap) {
	device := mocks.NewMockDevice(ctrl)
	device.EXPECT().Limits().Return(native.Limits{
		MaxViewDescriptors:      64,
		MaxSamplerDescriptors:   64,
		ConstantBufferAlignment: 256,
	}).AnyTimes()
	device.EXPECT().DescriptorHandleIncrementSize(gomock.Any()).Return(32).AnyTimes()

	for kind := native.RegionKind(0); kind < native.RegionKindCount; kind++ {
		perSet := layout.NumSlots(kind)
		if perSet == 0 {
			continue
		}

		region := mocks.NewMockDescriptorRegion(ctrl)
		region.EXPECT().CPUStart().Return(native.CPUHandle(uint64(kind+1) << 32)).AnyTimes()
		region.EXPECT().GPUStart().Return(native.GPUHandle(uint64(kind+1) << 40)).AnyTimes()
		device.EXPECT().CreateDescriptorRegion(kind, perSet*numSets).Return(region, core1_0.VKSuccess, nil)
	}

	heap, err := New(testLogger(), device, HeapDescriptor{
		Layout:            layout,
		NumDescriptorSets: numSets,
	}, nil, CreateOptions{})
	require.NoError(t, err)

	return device, heap
}

func TestMisalignedConstantBufferMakesNoNativeCall(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, heap := readyMockHeap(t, ctrl, Layout{
		{Type: native.ResourceTypeBuffer, BindFlags: BindConstantBuffer},
	}, 2)
	buffer := &testBuffer{handle: 1, size: 1024, usage: core1_0.BufferUsageUniformBuffer}

	err := heap.WriteResourceView(0, ResourceViewDescriptor{
		Resource:   buffer,
		BufferView: BufferViewDescriptor{Offset: 100, Size: 256},
	})
	require.ErrorIs(t, err, ErrMisaligned)
	require.False(t, heap.IsPopulated(0))

	written, err := heap.CreateResourceViewHandles(1, []ResourceViewDescriptor{{
		Resource:   buffer,
		BufferView: BufferViewDescriptor{Offset: 256, Size: 100},
	}})
	require.NoError(t, err)
	require.Equal(t, 0, written)
	require.False(t, heap.IsPopulated(1))
}

func TestConstantBufferView(t *testing.T) {
	ctrl := gomock.NewController(t)

	device, heap := readyMockHeap(t, ctrl, Layout{
		{Type: native.ResourceTypeBuffer, BindFlags: BindSampled},
		{Type: native.ResourceTypeBuffer, BindFlags: BindConstantBuffer},
	}, 2)
	buffer := &testBuffer{handle: 1, size: 1024, usage: core1_0.BufferUsageUniformBuffer}

	// set 1, second view slot
	dest := native.CPUHandle(uint64(1) << 32).Offset(3 * 32)
	device.EXPECT().CreateConstantBufferView(buffer, 512, 512, dest).Return(core1_0.VKSuccess, nil)

	require.NoError(t, heap.WriteResourceView(3, ResourceViewDescriptor{
		Resource:   buffer,
		BufferView: BufferViewDescriptor{Offset: 512},
	}))
	require.True(t, heap.IsPopulated(3))

	err := heap.WriteResourceView(1, ResourceViewDescriptor{
		Resource: &testBuffer{handle: 2, size: 1024, usage: core1_0.BufferUsageStorageBuffer},
	})
	require.ErrorIs(t, err, ErrIncompatibleResource)
}

func TestNativeFailureIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)

	device, heap := readyMockHeap(t, ctrl, Layout{
		{Type: native.ResourceTypeBuffer, BindFlags: BindStorage},
	}, 1)
	buffer := &testBuffer{handle: 5, size: 64, usage: core1_0.BufferUsageStorageBuffer}

	device.EXPECT().CreateUnorderedAccessView(buffer, native.ViewDesc{
		Buffer: native.BufferViewDesc{Size: 64},
	}, gomock.Any()).Return(core1_0.VKErrorUnknown, nil)

	err := heap.WriteResourceView(0, ResourceViewDescriptor{Resource: buffer})
	require.ErrorIs(t, err, ErrNativeFailure)
	require.False(t, heap.IsPopulated(0))
	require.Empty(t, heap.WritableResources(0))

	commandList := mocks.NewMockCommandList(ctrl)
	heap.InsertResourceBarriers(commandList, 0)

	device.EXPECT().CreateUnorderedAccessView(buffer, gomock.Any(), gomock.Any()).Return(core1_0.VKSuccess, nil)
	require.NoError(t, heap.WriteResourceView(0, ResourceViewDescriptor{Resource: buffer}))

	commandList.EXPECT().ResourceBarrier(gomock.Any()).DoAndReturn(func(barriers native.BarrierBuffer) {
		require.Equal(t, []native.ResourceBarrier{
			{Type: native.BarrierTypeUnorderedAccess, Resource: 5},
		}, barriers.Barriers())
	})
	heap.InsertResourceBarriers(commandList, 0)
}

func TestViewValidation(t *testing.T) {
	device, heap := readyNullHeap(t, null.DeviceOptions{}, Layout{
		{Type: native.ResourceTypeBuffer, BindFlags: BindSampled},
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
		{Type: native.ResourceTypeTexture, BindFlags: BindStorage},
		{Type: native.ResourceTypeSampler},
	}, 1)

	structured, err := device.NewBuffer(null.BufferDescriptor{Size: 256, Stride: 16})
	require.NoError(t, err)
	texture, err := device.NewTexture(null.TextureDescriptor{
		Type:        native.Texture2DArray,
		Format:      core1_0.FormatA8B8G8R8UnsignedIntPacked,
		Extent:      native.Extent3D{Width: 16, Height: 16, Depth: 1},
		MipLevels:   4,
		ArrayLayers: 6,
		Usage:       core1_0.ImageUsageSampled,
	})
	require.NoError(t, err)
	sampler := device.NewSampler(native.SamplerDescriptor{})

	testCases := []struct {
		name       string
		descriptor int
		view       ResourceViewDescriptor
		expected   error
	}{
		{"NoResource", 0, ResourceViewDescriptor{}, ErrIncompatibleResource},
		{"BufferInTextureSlot", 1, ResourceViewDescriptor{Resource: structured}, ErrIncompatibleResource},
		{"TextureInBufferSlot", 0, ResourceViewDescriptor{Resource: texture}, ErrIncompatibleResource},
		{"SamplerInBufferSlot", 0, ResourceViewDescriptor{Resource: sampler}, ErrIncompatibleResource},
		{"BufferInSamplerSlot", 3, ResourceViewDescriptor{Resource: structured}, ErrIncompatibleResource},
		{"StorageWithoutUsage", 2, ResourceViewDescriptor{Resource: texture}, ErrIncompatibleResource},
		{"StructuredMisaligned", 0, ResourceViewDescriptor{Resource: structured, BufferView: BufferViewDescriptor{Offset: 8, Size: 16}}, ErrMisaligned},
		{"BufferNegativeOffset", 0, ResourceViewDescriptor{Resource: structured, BufferView: BufferViewDescriptor{Offset: -16}}, ErrInvalidRange},
		{"BufferOffsetAtEnd", 0, ResourceViewDescriptor{Resource: structured, BufferView: BufferViewDescriptor{Offset: 256}}, ErrInvalidRange},
		{"MipsOutOfRange", 1, ResourceViewDescriptor{Resource: texture, TextureView: TextureViewDescriptor{
			Type:        native.Texture2DArray,
			Subresource: Subresource{BaseMipLevel: 2, NumMipLevels: 3},
		}}, ErrInvalidRange},
		{"LayersOutOfRange", 1, ResourceViewDescriptor{Resource: texture, TextureView: TextureViewDescriptor{
			Type:        native.Texture2DArray,
			Subresource: Subresource{BaseArrayLayer: 6},
		}}, ErrInvalidRange},
		{"NonArrayViewOfLayers", 1, ResourceViewDescriptor{Resource: texture, TextureView: TextureViewDescriptor{
			Type:        native.Texture2D,
			Subresource: Subresource{BaseArrayLayer: 1},
		}}, ErrInvalidRange},
		{"VolumeViewOfLayers", 1, ResourceViewDescriptor{Resource: texture, TextureView: TextureViewDescriptor{
			Type: native.Texture3D,
		}}, ErrIncompatibleResource},
		{"CubeViewOfLayers", 1, ResourceViewDescriptor{Resource: texture, TextureView: TextureViewDescriptor{
			Type: native.TextureCube,
		}}, ErrIncompatibleResource},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := heap.WriteResourceView(testCase.descriptor, testCase.view)
			require.ErrorIs(t, err, testCase.expected)
			require.False(t, heap.IsPopulated(testCase.descriptor))
		})
	}

	require.Equal(t, 0, device.ViewWrites())
}

func TestTextureViewDefaults(t *testing.T) {
	device, heap := readyNullHeap(t, null.DeviceOptions{}, Layout{
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
	}, 1)

	texture, err := device.NewTexture(null.TextureDescriptor{
		Type:        native.Texture2DArray,
		Format:      core1_0.FormatA8B8G8R8UnsignedIntPacked,
		Extent:      native.Extent3D{Width: 16, Height: 16, Depth: 1},
		MipLevels:   4,
		ArrayLayers: 6,
		Usage:       core1_0.ImageUsageSampled | core1_0.ImageUsageStorage,
	})
	require.NoError(t, err)

	written, err := heap.CreateResourceViewHandles(0, []ResourceViewDescriptor{
		{Resource: texture},
		{Resource: texture, TextureView: TextureViewDescriptor{
			Type:        native.Texture2D,
			Subresource: Subresource{BaseMipLevel: 1, BaseArrayLayer: 5},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, written)

	region := heap.DescriptorRegion(native.RegionViews)

	desc, err := device.ReadDescriptor(native.RegionViews, region.CPUStart())
	require.NoError(t, err)
	require.Equal(t, native.TextureViewDesc{
		Type:           native.Texture2DArray,
		Format:         core1_0.FormatA8B8G8R8UnsignedIntPacked,
		NumMipLevels:   4,
		NumArrayLayers: 6,
	}, desc.Texture)

	desc, err = device.ReadDescriptor(native.RegionViews, region.CPUStart().Offset(device.DescriptorHandleIncrementSize(native.RegionViews)))
	require.NoError(t, err)
	require.Equal(t, native.TextureViewDesc{
		Type:           native.Texture2D,
		Format:         core1_0.FormatA8B8G8R8UnsignedIntPacked,
		BaseMipLevel:   1,
		NumMipLevels:   3,
		BaseArrayLayer: 5,
		NumArrayLayers: 1,
	}, desc.Texture)
}

func TestTextureViewInheritsType(t *testing.T) {
	device, heap := readyNullHeap(t, null.DeviceOptions{}, Layout{
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
		{Type: native.ResourceTypeTexture, BindFlags: BindSampled},
	}, 1)

	layers, err := device.NewTexture(null.TextureDescriptor{
		Type:        native.Texture2DArray,
		Format:      core1_0.FormatA8B8G8R8UnsignedIntPacked,
		Extent:      native.Extent3D{Width: 16, Height: 16, Depth: 1},
		MipLevels:   2,
		ArrayLayers: 6,
		Usage:       core1_0.ImageUsageSampled,
	})
	require.NoError(t, err)

	flat, err := device.NewTexture(null.TextureDescriptor{
		Type:      native.Texture2D,
		Format:    core1_0.FormatA8B8G8R8UnsignedIntPacked,
		Extent:    native.Extent3D{Width: 16, Height: 16, Depth: 1},
		MipLevels: 4,
		Usage:     core1_0.ImageUsageSampled,
	})
	require.NoError(t, err)

	cube, err := device.NewTexture(null.TextureDescriptor{
		Type:        native.TextureCube,
		Format:      core1_0.FormatA8B8G8R8UnsignedIntPacked,
		Extent:      native.Extent3D{Width: 16, Height: 16, Depth: 1},
		ArrayLayers: 6,
		Usage:       core1_0.ImageUsageSampled,
	})
	require.NoError(t, err)

	written, err := heap.CreateResourceViewHandles(0, []ResourceViewDescriptor{
		{Resource: layers, TextureView: TextureViewDescriptor{Format: core1_0.FormatA1R5G5B5UnsignedNormalizedPacked}},
		{Resource: flat, TextureView: TextureViewDescriptor{Subresource: Subresource{BaseMipLevel: 2}}},
		{Resource: cube, TextureView: TextureViewDescriptor{
			Type:        native.Texture2D,
			Subresource: Subresource{BaseArrayLayer: 4},
		}},
		{Resource: cube, TextureView: TextureViewDescriptor{Subresource: Subresource{BaseArrayLayer: 2}}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, written)
	require.False(t, heap.IsPopulated(3))

	region := heap.DescriptorRegion(native.RegionViews)
	stride := device.DescriptorHandleIncrementSize(native.RegionViews)

	desc, err := device.ReadDescriptor(native.RegionViews, region.CPUStart())
	require.NoError(t, err)
	require.Equal(t, native.TextureViewDesc{
		Type:           native.Texture2DArray,
		Format:         core1_0.FormatA1R5G5B5UnsignedNormalizedPacked,
		NumMipLevels:   2,
		NumArrayLayers: 6,
	}, desc.Texture)

	desc, err = device.ReadDescriptor(native.RegionViews, region.CPUStart().Offset(stride))
	require.NoError(t, err)
	require.Equal(t, native.TextureViewDesc{
		Type:           native.Texture2D,
		Format:         core1_0.FormatA8B8G8R8UnsignedIntPacked,
		BaseMipLevel:   2,
		NumMipLevels:   2,
		NumArrayLayers: 1,
	}, desc.Texture)

	desc, err = device.ReadDescriptor(native.RegionViews, region.CPUStart().Offset(2*stride))
	require.NoError(t, err)
	require.Equal(t, native.Texture2D, desc.Texture.Type)
	require.Equal(t, 4, desc.Texture.BaseArrayLayer)
}

func TestStructuredBufferView(t *testing.T) {
	device, heap := readyNullHeap(t, null.DeviceOptions{}, Layout{
		{Type: native.ResourceTypeBuffer, BindFlags: BindSampled},
		{Type: native.ResourceTypeBuffer, BindFlags: BindSampled},
	}, 1)

	buffer, err := device.NewBuffer(null.BufferDescriptor{Size: 256, Stride: 16})
	require.NoError(t, err)

	written, err := heap.CreateResourceViewHandles(0, []ResourceViewDescriptor{
		{Resource: buffer, BufferView: BufferViewDescriptor{Offset: 32}},
		// typed views ignore the element stride
		{Resource: buffer, BufferView: BufferViewDescriptor{Offset: 4, Size: 8, Format: core1_0.FormatA8B8G8R8UnsignedIntPacked}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, written)

	region := heap.DescriptorRegion(native.RegionViews)
	desc, err := device.ReadDescriptor(native.RegionViews, region.CPUStart())
	require.NoError(t, err)
	require.Equal(t, native.BufferViewDesc{Offset: 32, Size: 224, Stride: 16}, desc.Buffer)

	desc, err = device.ReadDescriptor(native.RegionViews, region.CPUStart().Offset(32))
	require.NoError(t, err)
	require.Equal(t, native.BufferViewDesc{Offset: 4, Size: 8, Format: core1_0.FormatA8B8G8R8UnsignedIntPacked}, desc.Buffer)
}
