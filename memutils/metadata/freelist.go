package metadata

import (
	"sort"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/descheap/memutils"
)

// FreeListBlockMetadata is a BlockMetadata implementation that keeps every range in the block, used
// or free, in a single offset-ordered list. Adjacent free ranges are merged as soon as they appear,
// so the list never holds two free ranges in a row.
//
// It is meant for blocks that see few, long-lived allocations, such as descriptor pools that hand out
// one range per descriptor region. Allocation and free are linear in the number of ranges.
type FreeListBlockMetadata struct {
	BlockMetadataBase

	sumFreeSize     int
	allocationCount int
	freeCount       int
	suballocations  []Suballocation
}

var _ BlockMetadata = &FreeListBlockMetadata{}

// NewFreeListBlockMetadata creates a new, uninitialized FreeListBlockMetadata. Init must be called
// before it is used.
func NewFreeListBlockMetadata() *FreeListBlockMetadata {
	return &FreeListBlockMetadata{}
}

// Init prepares this structure for allocations and sizes the block based on the parameter size.
func (m *FreeListBlockMetadata) Init(size int) {
	m.BlockMetadataBase.Init(size)
	m.Clear()
}

// Clear instantly frees all allocations
func (m *FreeListBlockMetadata) Clear() {
	m.suballocations = m.suballocations[:0]
	m.allocationCount = 0
	m.sumFreeSize = m.Size()
	m.freeCount = 0

	if m.Size() > 0 {
		m.suballocations = append(m.suballocations, Suballocation{
			Offset: 0,
			Size:   m.Size(),
			Type:   SuballocationFree,
		})
		m.freeCount = 1
	}
}

// SumFreeSize returns the number of free units in the block.
func (m *FreeListBlockMetadata) SumFreeSize() int { return m.sumFreeSize }

// AllocationCount returns the number of live suballocations
func (m *FreeListBlockMetadata) AllocationCount() int { return m.allocationCount }

// FreeRegionsCount returns the number of free ranges in the block
func (m *FreeListBlockMetadata) FreeRegionsCount() int { return m.freeCount }

// IsEmpty will return true if this block has no live suballocations
func (m *FreeListBlockMetadata) IsEmpty() bool { return m.allocationCount == 0 }

// MayHaveFreeBlock returns false only when the block does not have enough free units in total
// to satisfy an allocation of the provided size.
func (m *FreeListBlockMetadata) MayHaveFreeBlock(size int) bool {
	return m.sumFreeSize >= size
}

func (m *FreeListBlockMetadata) findIndex(allocHandle BlockAllocationHandle) (int, error) {
	if allocHandle == NoAllocation || allocHandle == 0 {
		return -1, errors.Errorf("invalid allocation handle %d", allocHandle)
	}

	offset := int(allocHandle) - 1
	index := sort.Search(len(m.suballocations), func(i int) bool {
		return m.suballocations[i].Offset >= offset
	})

	if index >= len(m.suballocations) || m.suballocations[index].Offset != offset {
		return -1, errors.Errorf("no allocation found at offset %d", offset)
	}

	if m.suballocations[index].IsFree() {
		return -1, errors.Errorf("the range at offset %d is not allocated", offset)
	}

	return index, nil
}

// AllocationOffset returns the offset of a live allocation
func (m *FreeListBlockMetadata) AllocationOffset(allocHandle BlockAllocationHandle) (int, error) {
	index, err := m.findIndex(allocHandle)
	if err != nil {
		return 0, err
	}

	return m.suballocations[index].Offset, nil
}

// AllocationUserData returns the userData value provided to Alloc for a live allocation
func (m *FreeListBlockMetadata) AllocationUserData(allocHandle BlockAllocationHandle) (any, error) {
	index, err := m.findIndex(allocHandle)
	if err != nil {
		return nil, err
	}

	return m.suballocations[index].UserData, nil
}

// SetAllocationUserData replaces the userData value of a live allocation
func (m *FreeListBlockMetadata) SetAllocationUserData(allocHandle BlockAllocationHandle, userData any) error {
	index, err := m.findIndex(allocHandle)
	if err != nil {
		return err
	}

	m.suballocations[index].UserData = userData
	return nil
}

// CreateAllocationRequest finds a free range able to hold allocSize units at the requested alignment.
// It returns false with no error when the block has no such range.
func (m *FreeListBlockMetadata) CreateAllocationRequest(
	allocSize int, allocAlignment uint,
	allocType uint32,
	strategy AllocationStrategy,
) (bool, AllocationRequest, error) {
	if allocSize < 1 {
		return false, AllocationRequest{}, errors.Errorf("allocation size must be at least 1, but was %d", allocSize)
	}

	if allocType == SuballocationFree {
		return false, AllocationRequest{}, errors.New("allocation type 0 is reserved for free ranges")
	}

	if allocAlignment == 0 {
		allocAlignment = 1
	}

	err := memutils.CheckPow2(allocAlignment, "allocAlignment")
	if err != nil {
		return false, AllocationRequest{}, err
	}

	if !m.MayHaveFreeBlock(allocSize) {
		return false, AllocationRequest{}, nil
	}

	bestIndex := -1
	bestOffset := 0
	bestSize := 0

	for index, suballoc := range m.suballocations {
		if !suballoc.IsFree() || suballoc.Size < allocSize {
			continue
		}

		alignedOffset := memutils.AlignUp(suballoc.Offset, int(allocAlignment))
		if alignedOffset+allocSize > suballoc.Offset+suballoc.Size {
			continue
		}

		if bestIndex < 0 || (strategy == AllocationStrategyMinMemory && suballoc.Size < bestSize) {
			bestIndex = index
			bestOffset = alignedOffset
			bestSize = suballoc.Size
		}

		if strategy != AllocationStrategyMinMemory {
			break
		}
	}

	if bestIndex < 0 {
		return false, AllocationRequest{}, nil
	}

	return true, AllocationRequest{
		BlockAllocationHandle: BlockAllocationHandle(bestOffset + 1),
		Size:                  allocSize,
		Item: Suballocation{
			Offset: bestOffset,
			Size:   allocSize,
			Type:   allocType,
		},
		AllocType:     allocType,
		AlgorithmData: uint64(bestIndex),
	}, nil
}

// Alloc commits a request produced by CreateAllocationRequest
func (m *FreeListBlockMetadata) Alloc(request AllocationRequest, userData any) error {
	index := int(request.AlgorithmData)
	if index < 0 || index >= len(m.suballocations) {
		return errors.Errorf("allocation request refers to range %d, but there are only %d ranges", index, len(m.suballocations))
	}

	freeRange := m.suballocations[index]
	if !freeRange.IsFree() {
		return errors.Errorf("allocation request refers to range %d, which is no longer free", index)
	}

	if request.Item.Offset < freeRange.Offset || request.Item.Offset+request.Size > freeRange.Offset+freeRange.Size {
		return errors.Errorf("allocation request at offset %d with size %d does not fit in free range at offset %d with size %d",
			request.Item.Offset, request.Size, freeRange.Offset, freeRange.Size)
	}

	replacement := make([]Suballocation, 0, 3)
	if paddingBegin := request.Item.Offset - freeRange.Offset; paddingBegin > 0 {
		replacement = append(replacement, Suballocation{Offset: freeRange.Offset, Size: paddingBegin, Type: SuballocationFree})
	}

	replacement = append(replacement, Suballocation{
		Offset:   request.Item.Offset,
		Size:     request.Size,
		Type:     request.AllocType,
		UserData: userData,
	})

	end := request.Item.Offset + request.Size
	if paddingEnd := freeRange.Offset + freeRange.Size - end; paddingEnd > 0 {
		replacement = append(replacement, Suballocation{Offset: end, Size: paddingEnd, Type: SuballocationFree})
	}

	// The free range is replaced by up to 3 ranges, so the free range count moves by len - 2
	m.freeCount += len(replacement) - 2
	m.allocationCount++
	m.sumFreeSize -= request.Size

	tail := append([]Suballocation(nil), m.suballocations[index+1:]...)
	m.suballocations = append(append(m.suballocations[:index], replacement...), tail...)

	memutils.DebugValidate(m)
	return nil
}

// Free releases a live allocation and merges it with any free neighbors
func (m *FreeListBlockMetadata) Free(allocHandle BlockAllocationHandle) error {
	index, err := m.findIndex(allocHandle)
	if err != nil {
		return err
	}

	m.sumFreeSize += m.suballocations[index].Size
	m.allocationCount--
	m.freeCount++

	m.suballocations[index].Type = SuballocationFree
	m.suballocations[index].UserData = nil

	if index+1 < len(m.suballocations) && m.suballocations[index+1].IsFree() {
		m.suballocations[index].Size += m.suballocations[index+1].Size
		m.suballocations = append(m.suballocations[:index+1], m.suballocations[index+2:]...)
		m.freeCount--
	}

	if index > 0 && m.suballocations[index-1].IsFree() {
		m.suballocations[index-1].Size += m.suballocations[index].Size
		m.suballocations = append(m.suballocations[:index], m.suballocations[index+1:]...)
		m.freeCount--
	}

	memutils.DebugValidate(m)
	return nil
}

// Validate performs internal consistency checks on the metadata
func (m *FreeListBlockMetadata) Validate() error {
	offset := 0
	sumFree := 0
	allocCount := 0
	freeCount := 0
	previousFree := false

	for index, suballoc := range m.suballocations {
		if suballoc.Offset != offset {
			return errors.Errorf("range %d has offset %d, but expected offset %d", index, suballoc.Offset, offset)
		}

		if suballoc.Size < 1 {
			return errors.Errorf("range %d has invalid size %d", index, suballoc.Size)
		}

		if suballoc.IsFree() {
			if previousFree {
				return errors.Errorf("ranges %d and %d are both free but were not merged", index-1, index)
			}
			if suballoc.UserData != nil {
				return errors.Errorf("free range %d has userData", index)
			}
			sumFree += suballoc.Size
			freeCount++
		} else {
			allocCount++
		}

		previousFree = suballoc.IsFree()
		offset += suballoc.Size
	}

	if offset != m.Size() {
		return errors.Errorf("ranges cover %d units, but the block has %d", offset, m.Size())
	}

	if sumFree != m.sumFreeSize {
		return errors.Errorf("counted %d free units, but metadata indicates %d", sumFree, m.sumFreeSize)
	}

	if allocCount != m.allocationCount {
		return errors.Errorf("counted %d allocations, but metadata indicates %d", allocCount, m.allocationCount)
	}

	if freeCount != m.freeCount {
		return errors.Errorf("counted %d free ranges, but metadata indicates %d", freeCount, m.freeCount)
	}

	return nil
}

// VisitAllRegions calls handleBlock for every range in the block in offset order
func (m *FreeListBlockMetadata) VisitAllRegions(handleBlock func(handle BlockAllocationHandle, offset int, size int, userData any, free bool) error) error {
	for _, suballoc := range m.suballocations {
		handle := BlockAllocationHandle(suballoc.Offset + 1)
		if suballoc.IsFree() {
			handle = NoAllocation
		}

		err := handleBlock(handle, suballoc.Offset, suballoc.Size, suballoc.UserData, suballoc.IsFree())
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *FreeListBlockMetadata) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BlockCount++
	stats.BlockSize += m.Size()

	for _, suballoc := range m.suballocations {
		if suballoc.IsFree() {
			stats.AddUnusedRange(suballoc.Size)
		} else {
			stats.AddAllocation(suballoc.Size)
		}
	}
}

func (m *FreeListBlockMetadata) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount++
	stats.AllocationCount += m.allocationCount
	stats.BlockSize += m.Size()
	stats.AllocationSize += m.Size() - m.sumFreeSize
}

// BlockJsonData populates a json object with information about this block
func (m *FreeListBlockMetadata) BlockJsonData(json jwriter.ObjectState) {
	m.BlockMetadataBase.BlockJsonData(json, m.sumFreeSize, m.allocationCount, m.freeCount)
}
