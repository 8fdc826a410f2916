package metadata_test

import (
	"math"
	"testing"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/descheap/memutils"
	"github.com/vkngwrapper/descheap/memutils/metadata"
)

func allocRange(t *testing.T, md metadata.BlockMetadata, size int, alignment uint, strategy metadata.AllocationStrategy) metadata.BlockAllocationHandle {
	success, request, err := md.CreateAllocationRequest(size, alignment, 1, strategy)
	require.NoError(t, err)
	require.True(t, success)

	require.NoError(t, md.Alloc(request, size))
	return request.BlockAllocationHandle
}

func TestFreeListAlloc(t *testing.T) {
	freeList := metadata.NewFreeListBlockMetadata()
	freeList.Init(1000)

	var stats memutils.DetailedStatistics
	stats.Clear()
	freeList.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount: 1,
			BlockSize:  1000,
		},
		UnusedRangeCount:   1,
		AllocationSizeMin:  math.MaxInt,
		AllocationSizeMax:  0,
		UnusedRangeSizeMin: 1000,
		UnusedRangeSizeMax: 1000,
	}, stats)

	alloc1 := allocRange(t, freeList, 100, 1, metadata.AllocationStrategyMinOffset)
	alloc2 := allocRange(t, freeList, 50, 1, metadata.AllocationStrategyMinOffset)

	offset, err := freeList.AllocationOffset(alloc1)
	require.NoError(t, err)
	require.Equal(t, 0, offset)

	offset, err = freeList.AllocationOffset(alloc2)
	require.NoError(t, err)
	require.Equal(t, 100, offset)

	userData, err := freeList.AllocationUserData(alloc2)
	require.NoError(t, err)
	require.Equal(t, 50, userData)

	stats.Clear()
	freeList.AddDetailedStatistics(&stats)
	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      1,
			BlockSize:       1000,
			AllocationCount: 2,
			AllocationSize:  150,
		},
		UnusedRangeCount:   1,
		AllocationSizeMin:  50,
		AllocationSizeMax:  100,
		UnusedRangeSizeMin: 850,
		UnusedRangeSizeMax: 850,
	}, stats)
	require.NoError(t, freeList.Validate())

	require.NoError(t, freeList.Free(alloc1))
	require.Equal(t, 2, freeList.FreeRegionsCount())
	require.Equal(t, 1, freeList.AllocationCount())
	require.Equal(t, 950, freeList.SumFreeSize())
	require.NoError(t, freeList.Validate())

	require.NoError(t, freeList.Free(alloc2))
	require.True(t, freeList.IsEmpty())
	require.Equal(t, 1, freeList.FreeRegionsCount())
	require.NoError(t, freeList.Validate())
}

func TestFreeListAlignment(t *testing.T) {
	freeList := metadata.NewFreeListBlockMetadata()
	freeList.Init(256)

	allocRange(t, freeList, 3, 1, metadata.AllocationStrategyMinOffset)
	aligned := allocRange(t, freeList, 16, 16, metadata.AllocationStrategyMinOffset)

	offset, err := freeList.AllocationOffset(aligned)
	require.NoError(t, err)
	require.Equal(t, 16, offset)

	// The padding between the two allocations stays available
	require.Equal(t, 2, freeList.FreeRegionsCount())
	require.Equal(t, 256-19, freeList.SumFreeSize())
	require.NoError(t, freeList.Validate())

	_, _, err = freeList.CreateAllocationRequest(4, 3, 1, metadata.AllocationStrategyMinOffset)
	require.ErrorIs(t, err, memutils.PowerOfTwoError)
}

func TestFreeListMinMemoryPicksSmallestHole(t *testing.T) {
	freeList := metadata.NewFreeListBlockMetadata()
	freeList.Init(100)

	first := allocRange(t, freeList, 30, 1, metadata.AllocationStrategyMinOffset)
	allocRange(t, freeList, 10, 1, metadata.AllocationStrategyMinOffset)
	second := allocRange(t, freeList, 5, 1, metadata.AllocationStrategyMinOffset)
	allocRange(t, freeList, 10, 1, metadata.AllocationStrategyMinOffset)

	require.NoError(t, freeList.Free(first))
	require.NoError(t, freeList.Free(second))

	// Holes: [0,30), [40,45), [55,100)
	minMemory := allocRange(t, freeList, 5, 1, metadata.AllocationStrategyMinMemory)
	offset, err := freeList.AllocationOffset(minMemory)
	require.NoError(t, err)
	require.Equal(t, 40, offset)

	minOffset := allocRange(t, freeList, 5, 1, metadata.AllocationStrategyMinOffset)
	offset, err = freeList.AllocationOffset(minOffset)
	require.NoError(t, err)
	require.Equal(t, 0, offset)

	require.NoError(t, freeList.Validate())
}

func TestFreeListExhaustion(t *testing.T) {
	freeList := metadata.NewFreeListBlockMetadata()
	freeList.Init(64)

	allocRange(t, freeList, 64, 1, metadata.AllocationStrategyMinOffset)

	success, _, err := freeList.CreateAllocationRequest(1, 1, 1, metadata.AllocationStrategyMinOffset)
	require.NoError(t, err)
	require.False(t, success)
	require.False(t, freeList.MayHaveFreeBlock(1))
}

func TestFreeListRejectsStaleRequests(t *testing.T) {
	freeList := metadata.NewFreeListBlockMetadata()
	freeList.Init(64)

	success, request, err := freeList.CreateAllocationRequest(32, 1, 1, metadata.AllocationStrategyMinOffset)
	require.NoError(t, err)
	require.True(t, success)
	require.NoError(t, freeList.Alloc(request, nil))

	require.Error(t, freeList.Alloc(request, nil))
	require.Error(t, freeList.Free(metadata.NoAllocation))
	require.Error(t, freeList.Free(request.BlockAllocationHandle+1))

	require.NoError(t, freeList.Free(request.BlockAllocationHandle))
	require.Error(t, freeList.Free(request.BlockAllocationHandle))
}

func TestFreeListVisitAndJson(t *testing.T) {
	freeList := metadata.NewFreeListBlockMetadata()
	freeList.Init(10)
	allocRange(t, freeList, 4, 1, metadata.AllocationStrategyMinOffset)

	var visited []int
	err := freeList.VisitAllRegions(func(handle metadata.BlockAllocationHandle, offset int, size int, userData any, free bool) error {
		visited = append(visited, offset, size)
		if free {
			require.Equal(t, metadata.NoAllocation, handle)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 4, 4, 6}, visited)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	freeList.BlockJsonData(obj)
	obj.End()
	require.NoError(t, writer.Error())
	require.JSONEq(t, `{"Total":10,"Unused":6,"Allocations":1,"UnusedRanges":1}`, string(writer.Bytes()))

	freeList.Clear()
	require.True(t, freeList.IsEmpty())
	require.Equal(t, 10, freeList.SumFreeSize())
}
