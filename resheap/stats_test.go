package resheap

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/descheap/native"
	"github.com/vkngwrapper/descheap/null"
)

func TestStatistics(t *testing.T) {
	device, heap := readyNullHeap(t, null.DeviceOptions{}, scenarioLayout, 3)
	buffer := storageBuffer(t, device, 64)
	sampler := device.NewSampler(native.SamplerDescriptor{})

	written, err := heap.CreateResourceViewHandles(0, []ResourceViewDescriptor{
		{Resource: buffer}, {Resource: buffer}, {Resource: sampler},
		{Resource: buffer},
	})
	require.NoError(t, err)
	require.Equal(t, 4, written)

	stats := heap.Statistics()
	require.Equal(t, HeapStatistics{
		NumDescriptorSets: 3,
		Regions: [native.RegionKindCount]RegionStatistics{
			{Capacity: 6, DescriptorsPerSet: 2, DescriptorSize: 32, Populated: 3},
			{Capacity: 3, DescriptorsPerSet: 1, DescriptorSize: 32, Populated: 1},
		},
		WritableResources: []int{1, 0, 0},
		DirtySets:         1,
	}, stats)

	// Taking statistics rebuilt the dirty set
	require.Equal(t, 0, heap.Statistics().DirtySets)
}

func TestBuildStatsString(t *testing.T) {
	device, heap := readyNullHeap(t, null.DeviceOptions{}, scenarioLayout, 2)
	heap.SetName("compute")
	buffer := storageBuffer(t, device, 64)

	require.NoError(t, heap.WriteResourceView(4, ResourceViewDescriptor{Resource: buffer}))

	require.JSONEq(t, fmt.Sprintf(`{
		"ID": %q,
		"Name": "compute",
		"DescriptorSets": 2,
		"Destroyed": false,
		"DirtySets": 1,
		"Regions": {
			"RegionViews": {"Capacity": 4, "DescriptorsPerSet": 2, "DescriptorSize": 32, "Populated": 1},
			"RegionSamplers": {"Capacity": 2, "DescriptorsPerSet": 1, "DescriptorSize": 32, "Populated": 0}
		}
	}`, heap.ID().String()), heap.BuildStatsString(false))

	var detailed struct {
		Sets []struct {
			Slots []struct {
				Name      string
				Kind      string
				Offset    int
				Populated bool
			}
			Barriers []struct {
				Type     string
				Resource int
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(heap.BuildStatsString(true)), &detailed))
	require.Len(t, detailed.Sets, 2)
	require.Empty(t, detailed.Sets[0].Barriers)
	require.Len(t, detailed.Sets[1].Slots, 3)
	require.Equal(t, "output", detailed.Sets[1].Slots[1].Name)
	require.Equal(t, "UnorderedAccess", detailed.Sets[1].Slots[1].Kind)
	require.Equal(t, 96, detailed.Sets[1].Slots[1].Offset)
	require.True(t, detailed.Sets[1].Slots[1].Populated)
	require.False(t, detailed.Sets[1].Slots[0].Populated)
	require.Equal(t, 32, detailed.Sets[1].Slots[2].Offset)
	require.Len(t, detailed.Sets[1].Barriers, 1)
	require.Equal(t, "UnorderedAccess", detailed.Sets[1].Barriers[0].Type)
	require.Equal(t, int(buffer.Handle()), detailed.Sets[1].Barriers[0].Resource)
}
