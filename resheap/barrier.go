package resheap

import (
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/descheap/internal/utils"
	"github.com/vkngwrapper/descheap/memutils"
	"github.com/vkngwrapper/descheap/native"
)

// writableEntry records the resource currently bound to one writable slot of one set
type writableEntry struct {
	set int
	// ordinal is the slot's position among the layout's writable slots
	ordinal  int
	resource native.ResourceHandle
	// bufferOffset is the byte offset of the set's barrier buffer in barrierTracker.buffers
	bufferOffset int
}

// barrierTracker keeps, for each set, the writable resources bound to it and a packed barrier
// buffer listing each of them once. Buffers are rebuilt in place, only for sets whose membership
// changed since the last rebuild.
type barrierTracker struct {
	numSets        int
	writablePerSet int
	setBufferSize  int

	entries []writableEntry
	index   *swiss.Map[DescriptorLocation, *writableEntry]
	dirty   utils.BitSet
	buffers []byte
}

func newBarrierTracker(table *descriptorTable) *barrierTracker {
	writablePerSet := table.layout.NumWritableSlots()
	tracker := &barrierTracker{
		numSets:        table.numSets,
		writablePerSet: writablePerSet,
		setBufferSize:  native.BarrierBufferSize(writablePerSet),
		dirty:          utils.NewBitSet(table.numSets),
	}

	if writablePerSet == 0 {
		return tracker
	}

	total := writablePerSet * table.numSets
	tracker.entries = make([]writableEntry, total)
	tracker.index = swiss.NewMap[DescriptorLocation, *writableEntry](uint32(total))
	tracker.buffers = make([]byte, tracker.setBufferSize*table.numSets)

	for set := 0; set < table.numSets; set++ {
		for slotIndex := range table.slots {
			slot := &table.slots[slotIndex]
			if slot.writableOrdinal < 0 {
				continue
			}

			entry := &tracker.entries[set*writablePerSet+slot.writableOrdinal]
			entry.set = set
			entry.ordinal = slot.writableOrdinal
			entry.bufferOffset = set * tracker.setBufferSize

			tracker.index.Put(table.LocationFor(set, slotIndex, slot.region), entry)
		}
	}

	return tracker
}

// HasWritableSlots returns false when the layout has no writable slots, in which case every
// other method is a no-op
func (t *barrierTracker) HasWritableSlots() bool {
	return t.writablePerSet > 0
}

// ExchangeResource records that the writable slot at location in set setIndex now refers to
// resource, which may be native.NullResource to empty the slot. It returns false if the slot
// already referred to resource or location is not a writable slot.
func (t *barrierTracker) ExchangeResource(location DescriptorLocation, setIndex int, resource native.ResourceHandle) bool {
	if t.writablePerSet == 0 {
		return false
	}

	entry, ok := t.index.Get(location)
	if !ok || entry.resource == resource {
		return false
	}

	memutils.DebugCheckIndex(setIndex, t.numSets, "setIndex")
	entry.resource = resource
	t.dirty.Set(setIndex)
	return true
}

// IsDirty returns true if the set's barrier buffer no longer reflects the resources bound to it
func (t *barrierTracker) IsDirty(setIndex int) bool {
	memutils.DebugCheckIndex(setIndex, t.numSets, "setIndex")
	return t.dirty.IsSet(setIndex)
}

func (t *barrierTracker) setBuffer(setIndex int) native.BarrierBuffer {
	start := setIndex * t.setBufferSize
	return native.BarrierBuffer(t.buffers[start : start+t.setBufferSize])
}

// UpdateBarriers rebuilds the set's barrier buffer if it is dirty
func (t *barrierTracker) UpdateBarriers(setIndex int) {
	memutils.DebugCheckIndex(setIndex, t.numSets, "setIndex")

	if t.writablePerSet == 0 || !t.dirty.IsSet(setIndex) {
		return
	}

	buffer := t.setBuffer(setIndex)
	entries := t.entries[setIndex*t.writablePerSet : (setIndex+1)*t.writablePerSet]

	count := 0
	for i := range entries {
		resource := entries[i].resource
		if resource == native.NullResource || containsResource(buffer, count, resource) {
			continue
		}

		buffer.Put(count, native.ResourceBarrier{
			Type:     native.BarrierTypeUnorderedAccess,
			Resource: resource,
		})
		count++
	}

	buffer.SetCount(count)
	t.dirty.Unset(setIndex)
}

func containsResource(buffer native.BarrierBuffer, count int, resource native.ResourceHandle) bool {
	for i := 0; i < count; i++ {
		if buffer.At(i).Resource == resource {
			return true
		}
	}
	return false
}

// Barriers returns the set's up-to-date barrier buffer. The buffer is owned by the tracker and
// is rewritten by later updates.
func (t *barrierTracker) Barriers(setIndex int) native.BarrierBuffer {
	if t.writablePerSet == 0 {
		return nil
	}

	t.UpdateBarriers(setIndex)
	return t.setBuffer(setIndex)
}

// InsertResourceBarriers submits the set's barriers as a single command, or does nothing if the
// set has none
func (t *barrierTracker) InsertResourceBarriers(commandList native.CommandList, setIndex int) {
	if t.writablePerSet == 0 {
		return
	}

	t.UpdateBarriers(setIndex)

	buffer := t.setBuffer(setIndex)
	if buffer.Count() > 0 {
		commandList.ResourceBarrier(buffer)
	}
}

// WritableResources returns the distinct writable resources bound to the set, in slot order
func (t *barrierTracker) WritableResources(setIndex int) []native.ResourceHandle {
	buffer := t.Barriers(setIndex)

	count := buffer.Count()
	resources := make([]native.ResourceHandle, 0, count)
	for i := 0; i < count; i++ {
		resources = append(resources, buffer.At(i).Resource)
	}
	return resources
}

// NumWritableResources returns the number of distinct writable resources bound to the set
func (t *barrierTracker) NumWritableResources(setIndex int) int {
	return t.Barriers(setIndex).Count()
}

// NumDirtySets returns the number of sets whose barrier buffers are out of date
func (t *barrierTracker) NumDirtySets() int {
	return t.dirty.Count()
}
