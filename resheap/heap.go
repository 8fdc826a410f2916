package resheap

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/descheap/internal/utils"
	"github.com/vkngwrapper/descheap/memutils"
	"github.com/vkngwrapper/descheap/native"
)

// ResourceHeap is a fixed-size table of descriptors for a number of descriptor sets that share one
// layout. It writes views into its descriptor regions and keeps, for every set, the barriers its
// writable resources need before the set is used.
//
// The heap's shape is immutable and may be read from any goroutine. Methods that write
// descriptors or barrier buffers are serialized unless the heap was created with
// HeapCreateExternallySynchronized.
type ResourceHeap struct {
	logger *slog.Logger
	id     uuid.UUID
	name   string

	mutex   utils.OptionalMutex
	device  native.Device
	table   *descriptorTable
	builder viewBuilder
	tracker *barrierTracker

	populated utils.BitSet
	destroyed bool
}

// ID returns the heap's unique identifier, used to tell heaps apart in logs and statistics
func (h *ResourceHeap) ID() uuid.UUID {
	return h.id
}

// SetName attaches a debug label to the heap and its descriptor regions
func (h *ResourceHeap) SetName(name string) {
	h.logger.Debug("ResourceHeap::SetName")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.name = name
	if !h.destroyed {
		h.table.setName(name)
	}
}

func (h *ResourceHeap) Name() string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.name
}

// Layout returns a copy of the slot layout shared by every descriptor set
func (h *ResourceHeap) Layout() Layout {
	layout := make(Layout, len(h.table.layout))
	copy(layout, h.table.layout)
	return layout
}

// NumDescriptorSets returns the number of descriptor sets the heap was created with
func (h *ResourceHeap) NumDescriptorSets() int {
	return h.table.NumDescriptorSets()
}

// NumDescriptors returns the number of descriptor slots across every set
func (h *ResourceHeap) NumDescriptors() int {
	return h.table.NumDescriptors()
}

// NumDescriptorsPerSet returns the number of descriptors each set holds in the provided region
func (h *ResourceHeap) NumDescriptorsPerSet(kind native.RegionKind) int {
	return h.table.NumDescriptorsPerSet(kind)
}

// LocationFor returns where slotIndex of set setIndex lives in the provided region. Indices are
// only range-checked in builds with the debug_mem_utils tag.
func (h *ResourceHeap) LocationFor(setIndex, slotIndex int, kind native.RegionKind) DescriptorLocation {
	return h.table.LocationFor(setIndex, slotIndex, kind)
}

// CPUHandleForSetStart returns the CPU-visible address of the set's first descriptor in the
// provided region, or 0 if the layout has no slots of that kind
func (h *ResourceHeap) CPUHandleForSetStart(kind native.RegionKind, setIndex int) native.CPUHandle {
	return h.table.CPUHandleForSetStart(kind, setIndex)
}

// GPUHandleForSetStart returns the GPU-visible address of the set's first descriptor in the
// provided region, or 0 if the layout has no slots of that kind. This is the address bound as a
// descriptor table.
func (h *ResourceHeap) GPUHandleForSetStart(kind native.RegionKind, setIndex int) native.GPUHandle {
	return h.table.GPUHandleForSetStart(kind, setIndex)
}

// DescriptorRegion returns the native region of the provided kind, or nil if the layout has no
// slots of that kind
func (h *ResourceHeap) DescriptorRegion(kind native.RegionKind) native.DescriptorRegion {
	return h.table.Region(kind)
}

// IsPopulated returns true if the descriptor at the provided global index holds a view
func (h *ResourceHeap) IsPopulated(descriptorIndex int) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	memutils.DebugCheckIndex(descriptorIndex, h.populated.Len(), "descriptorIndex")
	return h.populated.IsSet(descriptorIndex)
}

// CreateResourceViewHandles writes views to consecutive descriptors starting at the global
// descriptor index firstDescriptor, where the index of slot s in set n is n*len(Layout())+s.
// One descriptor is consumed per view whether or not it succeeds, and the number of views
// written is returned. Views that fail are logged and leave their descriptors as they were.
//
// An error is only returned if the batch does not fit in the heap, in which case nothing is written.
func (h *ResourceHeap) CreateResourceViewHandles(firstDescriptor int, views []ResourceViewDescriptor) (int, error) {
	h.logger.Debug("ResourceHeap::CreateResourceViewHandles")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return 0, ErrHeapDestroyed
	}

	if firstDescriptor < 0 || firstDescriptor+len(views) > h.table.NumDescriptors() {
		return 0, errors.Newf("descriptors [%d, %d) are outside of a heap with %d descriptors", firstDescriptor, firstDescriptor+len(views), h.table.NumDescriptors())
	}

	written := 0
	for i := range views {
		descriptorIndex := firstDescriptor + i
		err := h.writeView(descriptorIndex, &views[i])
		if err != nil {
			set, slot := h.table.split(descriptorIndex)
			h.logger.Warn("failed to create resource view",
				slog.String("heap", h.id.String()),
				slog.Int("descriptor", descriptorIndex),
				slog.Int("set", set),
				slog.Int("slot", slot),
				slog.Any("error", err),
			)
			continue
		}

		written++
	}

	return written, nil
}

// WriteResourceView writes a single view to the descriptor at the provided global index and
// returns why it failed, if it did
func (h *ResourceHeap) WriteResourceView(descriptorIndex int, view ResourceViewDescriptor) error {
	h.logger.Debug("ResourceHeap::WriteResourceView")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return ErrHeapDestroyed
	}

	if descriptorIndex < 0 || descriptorIndex >= h.table.NumDescriptors() {
		return errors.Newf("descriptor %d is outside of a heap with %d descriptors", descriptorIndex, h.table.NumDescriptors())
	}

	return h.writeView(descriptorIndex, &view)
}

func (h *ResourceHeap) writeView(descriptorIndex int, view *ResourceViewDescriptor) error {
	set, slotIndex := h.table.split(descriptorIndex)
	slot := &h.table.slots[slotIndex]
	location := h.table.LocationFor(set, slotIndex, slot.region)

	result, err := h.builder.CreateView(h.table.cpuHandle(location), slot, *view)
	if err != nil {
		return err
	}

	h.populated.Set(descriptorIndex)
	if result.Writable {
		h.tracker.ExchangeResource(location, set, result.Resource)
	}

	return nil
}

// ClearDescriptor writes a null view to the descriptor at the provided global index. A writable
// resource bound there stops being tracked.
func (h *ResourceHeap) ClearDescriptor(descriptorIndex int) error {
	h.logger.Debug("ResourceHeap::ClearDescriptor")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return ErrHeapDestroyed
	}

	if descriptorIndex < 0 || descriptorIndex >= h.table.NumDescriptors() {
		return errors.Newf("descriptor %d is outside of a heap with %d descriptors", descriptorIndex, h.table.NumDescriptors())
	}

	set, slotIndex := h.table.split(descriptorIndex)
	slot := &h.table.slots[slotIndex]
	location := h.table.LocationFor(set, slotIndex, slot.region)

	res, err := h.device.CreateNullView(slot.viewKind, h.table.cpuHandle(location))
	err = nativeError(res, err, "failed to clear descriptor %d", descriptorIndex)
	if err != nil {
		return err
	}

	h.populated.Unset(descriptorIndex)
	if slot.IsWritable() {
		h.tracker.ExchangeResource(location, set, native.NullResource)
	}

	return nil
}

// UpdateBarriers rebuilds the set's barrier buffer if the writable resources bound to it changed
// since it was last built. It does nothing once the heap is destroyed.
func (h *ResourceHeap) UpdateBarriers(setIndex int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return
	}

	h.tracker.UpdateBarriers(setIndex)
}

// InsertResourceBarriers records the barriers the set needs into commandList as a single command.
// It must be called right before the set is bound for a draw or dispatch. Sets without writable
// resources, and every set of a destroyed heap, record nothing.
func (h *ResourceHeap) InsertResourceBarriers(commandList native.CommandList, setIndex int) {
	if !h.tracker.HasWritableSlots() {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return
	}

	h.tracker.InsertResourceBarriers(commandList, setIndex)
}

// Barriers returns a copy of the set's up-to-date barrier buffer, or nil if the heap has no
// writable slots or was destroyed
func (h *ResourceHeap) Barriers(setIndex int) native.BarrierBuffer {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return nil
	}

	buffer := h.tracker.Barriers(setIndex)
	if buffer == nil {
		return nil
	}

	return append(native.BarrierBuffer(nil), buffer...)
}

// WritableResources returns the distinct writable resources bound to the set, in slot order.
// A destroyed heap has none.
func (h *ResourceHeap) WritableResources(setIndex int) []native.ResourceHandle {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return nil
	}

	return h.tracker.WritableResources(setIndex)
}

// Destroy releases the heap's descriptor regions and forgets every view written to them.
// Resources referenced by those views are not touched. Writes to a destroyed heap fail with
// ErrHeapDestroyed, and barrier queries return nothing.
func (h *ResourceHeap) Destroy() error {
	h.logger.Debug("ResourceHeap::Destroy")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.destroyed {
		return ErrHeapDestroyed
	}

	h.destroyed = true
	h.populated.Clear()
	return h.table.destroy(h.logger)
}
