package resheap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/descheap/native"
)

func TestBindingSlotViewKind(t *testing.T) {
	require.Equal(t, native.ViewKindSampler, BindingSlot{Type: native.ResourceTypeSampler, BindFlags: BindStorage}.ViewKind())
	require.Equal(t, native.ViewKindConstantBuffer, BindingSlot{Type: native.ResourceTypeBuffer, BindFlags: BindConstantBuffer}.ViewKind())
	require.Equal(t, native.ViewKindUnorderedAccess, BindingSlot{Type: native.ResourceTypeTexture, BindFlags: BindStorage | BindSampled}.ViewKind())
	require.Equal(t, native.ViewKindShaderResource, BindingSlot{Type: native.ResourceTypeBuffer, BindFlags: BindSampled}.ViewKind())
	require.Equal(t, native.ViewKindShaderResource, BindingSlot{Type: native.ResourceTypeTexture}.ViewKind())

	require.True(t, BindingSlot{Type: native.ResourceTypeBuffer, BindFlags: BindStorage}.IsWritable())
	require.False(t, BindingSlot{Type: native.ResourceTypeSampler, BindFlags: BindStorage}.IsWritable())
	require.Equal(t, native.RegionSamplers, BindingSlot{Type: native.ResourceTypeSampler}.RegionKind())
	require.Equal(t, native.RegionViews, BindingSlot{Type: native.ResourceTypeBuffer, BindFlags: BindConstantBuffer}.RegionKind())
}

func TestLayoutValidate(t *testing.T) {
	require.Error(t, Layout{}.Validate())
	require.Error(t, Layout{{Type: native.ResourceTypeUndefined}}.Validate())
	require.Error(t, Layout{{Type: native.ResourceTypeTexture, BindFlags: BindConstantBuffer}}.Validate())
	require.Error(t, Layout{{Type: native.ResourceTypeBuffer, BindFlags: BindConstantBuffer | BindStorage}}.Validate())
	require.NoError(t, scenarioLayout.Validate())

	require.Equal(t, 2, scenarioLayout.NumSlots(native.RegionViews))
	require.Equal(t, 1, scenarioLayout.NumSlots(native.RegionSamplers))
	require.Equal(t, 1, scenarioLayout.NumWritableSlots())
}

func TestFlagStrings(t *testing.T) {
	require.Equal(t, "BindStorage", BindStorage.String())
	require.Equal(t, "StageCompute", StageCompute.String())
	require.Equal(t, "HeapCreateExternallySynchronized", HeapCreateExternallySynchronized.String())
}

func TestLocationPacking(t *testing.T) {
	location := DescriptorLocation{Region: native.RegionSamplers, Offset: MaxLocationOffset}
	require.Equal(t, uint32(0xffffffff), location.Packed())
	require.Equal(t, location, UnpackLocation(location.Packed()))

	location = DescriptorLocation{Region: native.RegionViews, Offset: 96}
	require.Equal(t, uint32(96), location.Packed())
	require.Equal(t, location, UnpackLocation(96))
	require.Equal(t, "RegionViews+96", location.String())
}
