package resheap

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/descheap/native"
)

// RegionStatistics describes one of the heap's descriptor regions
type RegionStatistics struct {
	// Capacity is the number of descriptors in the region, or 0 if the layout has no slots of its kind
	Capacity int
	// DescriptorsPerSet is the number of descriptors each set holds in the region
	DescriptorsPerSet int
	// DescriptorSize is the driver-reported byte stride between descriptors
	DescriptorSize int
	// Populated is the number of descriptors in the region that hold a view
	Populated int
}

// HeapStatistics is a snapshot of a heap's usage
type HeapStatistics struct {
	NumDescriptorSets int
	Regions           [native.RegionKindCount]RegionStatistics
	// WritableResources holds the number of distinct writable resources bound to each set
	WritableResources []int
	// DirtySets is the number of sets whose barrier buffers were out of date when the snapshot
	// was taken
	DirtySets int
}

// Statistics returns a snapshot of the heap's usage. Barrier buffers of dirty sets are rebuilt
// as part of taking it.
func (h *ResourceHeap) Statistics() HeapStatistics {
	h.logger.Debug("ResourceHeap::Statistics")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.statistics()
}

func (h *ResourceHeap) statistics() HeapStatistics {
	stats := HeapStatistics{
		NumDescriptorSets: h.table.numSets,
		WritableResources: make([]int, h.table.numSets),
		DirtySets:         h.tracker.NumDirtySets(),
	}

	for kind := range stats.Regions {
		region := &h.table.regions[kind]
		stats.Regions[kind] = RegionStatistics{
			Capacity:          region.perSet * h.table.numSets,
			DescriptorsPerSet: region.perSet,
			DescriptorSize:    region.stride,
		}
	}

	numSlots := len(h.table.slots)
	for descriptorIndex := 0; descriptorIndex < h.table.NumDescriptors(); descriptorIndex++ {
		if h.populated.IsSet(descriptorIndex) {
			stats.Regions[h.table.slots[descriptorIndex%numSlots].region].Populated++
		}
	}

	for set := 0; set < h.table.numSets; set++ {
		stats.WritableResources[set] = h.tracker.NumWritableResources(set)
	}

	return stats
}

// BuildStatsString returns a json document describing the heap. If detailedMap is true, every
// set's populated slots and barriers are listed as well.
func (h *ResourceHeap) BuildStatsString(detailedMap bool) string {
	h.logger.Debug("ResourceHeap::BuildStatsString")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	stats := h.statistics()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	obj.Name("ID").String(h.id.String())
	if h.name != "" {
		obj.Name("Name").String(h.name)
	}
	obj.Name("DescriptorSets").Int(stats.NumDescriptorSets)
	obj.Name("Destroyed").Bool(h.destroyed)
	obj.Name("DirtySets").Int(stats.DirtySets)

	regions := obj.Name("Regions").Object()
	for kind, region := range stats.Regions {
		if region.Capacity == 0 {
			continue
		}

		regionObj := regions.Name(native.RegionKind(kind).String()).Object()
		regionObj.Name("Capacity").Int(region.Capacity)
		regionObj.Name("DescriptorsPerSet").Int(region.DescriptorsPerSet)
		regionObj.Name("DescriptorSize").Int(region.DescriptorSize)
		regionObj.Name("Populated").Int(region.Populated)
		regionObj.End()
	}
	regions.End()

	if detailedMap {
		h.printSets(obj.Name("Sets"))
	}

	obj.End()
	return string(writer.Bytes())
}

func (h *ResourceHeap) printSets(writer *jwriter.Writer) {
	sets := writer.Array()
	defer sets.End()

	numSlots := len(h.table.slots)
	for set := 0; set < h.table.numSets; set++ {
		setObj := sets.Object()

		slots := setObj.Name("Slots").Array()
		for slotIndex := range h.table.slots {
			slot := &h.table.slots[slotIndex]

			slotObj := slots.Object()
			if slot.Name != "" {
				slotObj.Name("Name").String(slot.Name)
			}
			slotObj.Name("Kind").String(slot.viewKind.String())
			slotObj.Name("Offset").Int(int(h.table.LocationFor(set, slotIndex, slot.region).Offset))
			slotObj.Name("Populated").Bool(h.populated.IsSet(set*numSlots + slotIndex))
			slotObj.End()
		}
		slots.End()

		barriers := setObj.Name("Barriers").Array()
		buffer := h.tracker.Barriers(set)
		for i := 0; i < buffer.Count(); i++ {
			barrier := buffer.At(i)

			barrierObj := barriers.Object()
			barrierObj.Name("Type").String(barrier.Type.String())
			barrierObj.Name("Resource").Int(int(barrier.Resource))
			barrierObj.End()
		}
		barriers.End()

		setObj.End()
	}
}
