package resheap

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/memutils"
	"github.com/vkngwrapper/descheap/native"
)

// slotInfo is the precomputed placement of one layout slot
type slotInfo struct {
	BindingSlot
	viewKind native.ViewKind
	region   native.RegionKind
	// ordinal is the slot's position among the layout's slots of the same region kind
	ordinal int
	// writableOrdinal is the slot's position among the layout's writable slots, or -1
	writableOrdinal int
}

type tableRegion struct {
	region    native.DescriptorRegion
	perSet    int
	stride    int
	setStride int
}

// descriptorTable owns the heap's descriptor regions and maps (set, slot) pairs to locations
// inside them. Nothing in it changes after construction.
type descriptorTable struct {
	layout  Layout
	numSets int
	slots   []slotInfo
	regions [native.RegionKindCount]tableRegion
}

func newDescriptorTable(logger *slog.Logger, device native.Device, layout Layout, numSets int) (*descriptorTable, error) {
	table := &descriptorTable{
		layout:  layout,
		numSets: numSets,
		slots:   make([]slotInfo, len(layout)),
	}

	var ordinals [native.RegionKindCount]int
	writableOrdinal := 0
	for index, slot := range layout {
		info := slotInfo{
			BindingSlot:     slot,
			viewKind:        slot.ViewKind(),
			region:          slot.RegionKind(),
			writableOrdinal: -1,
		}
		info.ordinal = ordinals[info.region]
		ordinals[info.region]++

		if slot.IsWritable() {
			info.writableOrdinal = writableOrdinal
			writableOrdinal++
		}

		table.slots[index] = info
	}

	limits := device.Limits()
	for kind := native.RegionKind(0); kind < native.RegionKindCount; kind++ {
		perSet := ordinals[kind]
		if perSet == 0 {
			continue
		}

		stride := device.DescriptorHandleIncrementSize(kind)
		total := perSet * numSets

		err := checkRegionSize(kind, total, stride, limits.MaxDescriptors(kind))
		if err != nil {
			table.destroy(logger)
			return nil, err
		}

		region, res, err := device.CreateDescriptorRegion(kind, total)
		if err != nil {
			table.destroy(logger)
			if res == core1_0.VKErrorTooManyObjects || res == core1_0.VKErrorOutOfDeviceMemory {
				return nil, errors.Mark(errors.Wrapf(err, "failed to create %s region of %d descriptors", kind, total), ErrResourceExhausted)
			}
			return nil, errors.Mark(errors.Wrapf(err, "failed to create %s region of %d descriptors", kind, total), ErrNativeFailure)
		}

		table.regions[kind] = tableRegion{
			region:    region,
			perSet:    perSet,
			stride:    stride,
			setStride: perSet * stride,
		}
	}

	return table, nil
}

func checkRegionSize(kind native.RegionKind, total, stride, limit int) error {
	if total > limit {
		return errors.Wrapf(ErrResourceExhausted, "%d descriptors are required in the %s region, but the device allows %d", total, kind, limit)
	}

	if total*stride-1 > MaxLocationOffset {
		return errors.Wrapf(ErrResourceExhausted, "%d descriptors of %d bytes are required in the %s region, which cannot be addressed", total, stride, kind)
	}

	return nil
}

// LocationFor returns the location of slotIndex within set setIndex in the provided region.
// Indices and the slot's region kind are only checked in debug builds.
func (t *descriptorTable) LocationFor(setIndex, slotIndex int, kind native.RegionKind) DescriptorLocation {
	memutils.DebugCheckIndex(setIndex, t.numSets, "setIndex")
	memutils.DebugCheckIndex(slotIndex, len(t.slots), "slotIndex")
	memutils.DebugCheckEqual(kind, t.slots[slotIndex].region, "kind")

	region := &t.regions[kind]
	return DescriptorLocation{
		Region: kind,
		Offset: uint32(setIndex*region.setStride + t.slots[slotIndex].ordinal*region.stride),
	}
}

// cpuHandle returns the CPU-visible address of a location
func (t *descriptorTable) cpuHandle(location DescriptorLocation) native.CPUHandle {
	return t.regions[location.Region].region.CPUStart().Offset(int(location.Offset))
}

// split maps a global descriptor index to a set and a slot
func (t *descriptorTable) split(descriptorIndex int) (int, int) {
	return descriptorIndex / len(t.slots), descriptorIndex % len(t.slots)
}

func (t *descriptorTable) NumDescriptors() int {
	return t.numSets * len(t.slots)
}

func (t *descriptorTable) NumDescriptorSets() int {
	return t.numSets
}

func (t *descriptorTable) NumDescriptorsPerSet(kind native.RegionKind) int {
	return t.regions[kind].perSet
}

func (t *descriptorTable) CPUHandleForSetStart(kind native.RegionKind, setIndex int) native.CPUHandle {
	memutils.DebugCheckIndex(setIndex, t.numSets, "setIndex")

	region := &t.regions[kind]
	if region.region == nil {
		return 0
	}
	return region.region.CPUStart().Offset(setIndex * region.setStride)
}

func (t *descriptorTable) GPUHandleForSetStart(kind native.RegionKind, setIndex int) native.GPUHandle {
	memutils.DebugCheckIndex(setIndex, t.numSets, "setIndex")

	region := &t.regions[kind]
	if region.region == nil {
		return 0
	}
	return region.region.GPUStart().Offset(setIndex * region.setStride)
}

func (t *descriptorTable) Region(kind native.RegionKind) native.DescriptorRegion {
	return t.regions[kind].region
}

func (t *descriptorTable) setName(name string) {
	for kind := range t.regions {
		if t.regions[kind].region != nil {
			t.regions[kind].region.SetName(name)
		}
	}
}

func (t *descriptorTable) destroy(logger *slog.Logger) error {
	var err error
	for kind := range t.regions {
		region := t.regions[kind].region
		if region == nil {
			continue
		}

		destroyErr := region.Destroy()
		if destroyErr != nil {
			logger.Error("failed to destroy descriptor region", slog.String("kind", native.RegionKind(kind).String()), slog.Any("error", destroyErr))
			err = errors.CombineErrors(err, destroyErr)
		}
		t.regions[kind].region = nil
	}

	return err
}
