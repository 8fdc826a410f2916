package resheap

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/descheap/internal/utils"
	"github.com/vkngwrapper/descheap/native"
)

// CreateFlags indicate specific heap behaviors to activate or deactivate
type CreateFlags int32

var heapCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	heapCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return heapCreateFlagsMapping.FlagsToString(f)
}

const (
	// HeapCreateExternallySynchronized ensures that the heap will not be synchronized internally.
	// The consumer must guarantee it is used from only one thread at a time or is synchronized by
	// some other mechanism, but performance may improve because internal mutexes are not used.
	HeapCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	HeapCreateExternallySynchronized.Register("HeapCreateExternallySynchronized")
}

// CreateOptions contains optional settings when creating a heap
type CreateOptions struct {
	// Flags indicates specific heap behaviors to activate or deactivate
	Flags CreateFlags
	// Name is an optional debug label, equivalent to calling SetName after creation
	Name string
}

// HeapDescriptor describes the shape of a heap, which is fixed for its lifetime
type HeapDescriptor struct {
	// Layout is the slot layout shared by every descriptor set
	Layout Layout
	// NumDescriptorSets is the number of descriptor sets to reserve room for. If it is 0, it is
	// derived from the number of initial views, which must then be a whole number of sets.
	NumDescriptorSets int
}

// New creates a new ResourceHeap
//
// device - The device that descriptor regions are created on and descriptors are written through
//
// desc - The layout and set count of the heap
//
// initialViews - Optional views written to the heap's descriptors in order, starting at the first
// slot of the first set. Views that fail are logged and leave their slots empty.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, device native.Device, desc HeapDescriptor, initialViews []ResourceViewDescriptor, options CreateOptions) (*ResourceHeap, error) {
	err := desc.Layout.Validate()
	if err != nil {
		return nil, err
	}

	numSets := desc.NumDescriptorSets
	numSlots := len(desc.Layout)
	if numSets == 0 {
		if len(initialViews) == 0 {
			return nil, errors.New("resheap.HeapDescriptor.NumDescriptorSets is 0 and no initial views were provided to derive it from")
		}
		if len(initialViews)%numSlots != 0 {
			return nil, errors.Newf("%d initial views is not a whole number of descriptor sets with %d slots each", len(initialViews), numSlots)
		}
		numSets = len(initialViews) / numSlots
	} else if numSets < 0 {
		return nil, errors.Newf("resheap.HeapDescriptor.NumDescriptorSets must not be negative, but was %d", numSets)
	} else if len(initialViews) > numSets*numSlots {
		return nil, errors.Newf("%d initial views were provided, but the heap only has %d descriptors", len(initialViews), numSets*numSlots)
	}

	layout := make(Layout, numSlots)
	copy(layout, desc.Layout)

	table, err := newDescriptorTable(logger, device, layout, numSets)
	if err != nil {
		return nil, err
	}

	heap := &ResourceHeap{
		logger:    logger,
		id:        uuid.New(),
		mutex:     utils.OptionalMutex{UseMutex: options.Flags&HeapCreateExternallySynchronized == 0},
		device:    device,
		table:     table,
		builder:   newViewBuilder(device),
		tracker:   newBarrierTracker(table),
		populated: utils.NewBitSet(table.NumDescriptors()),
	}

	if options.Name != "" {
		heap.SetName(options.Name)
	}

	logger.Debug("ResourceHeap::New",
		slog.String("id", heap.id.String()),
		slog.Int("sets", numSets),
		slog.Int("views", table.NumDescriptorsPerSet(native.RegionViews)),
		slog.Int("samplers", table.NumDescriptorsPerSet(native.RegionSamplers)),
	)

	if len(initialViews) > 0 {
		written, err := heap.CreateResourceViewHandles(0, initialViews)
		if err != nil {
			_ = heap.Destroy()
			return nil, err
		}

		if written != len(initialViews) {
			logger.Warn("heap was created with empty descriptors",
				slog.String("id", heap.id.String()),
				slog.Int("written", written),
				slog.Int("requested", len(initialViews)),
			)
		}
	}

	return heap, nil
}
