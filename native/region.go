package native

// RegionKind identifies the type of descriptors that a DescriptorRegion holds. Shader-resource,
// unordered-access, and constant-buffer views share one kind of region, while samplers are kept in
// a region of their own.
type RegionKind uint32

const (
	// RegionViews holds shader-resource, unordered-access, and constant-buffer view descriptors
	RegionViews RegionKind = iota
	// RegionSamplers holds sampler descriptors
	RegionSamplers

	// RegionKindCount is the number of distinct region kinds
	RegionKindCount = 2
)

var regionKindMapping = map[RegionKind]string{
	RegionViews:    "RegionViews",
	RegionSamplers: "RegionSamplers",
}

func (k RegionKind) String() string {
	return regionKindMapping[k]
}

// CPUHandle is an opaque CPU-visible address of a single descriptor. Handles within a region are
// HandleIncrementSize bytes apart.
type CPUHandle uintptr

// Offset returns the handle that is byteOffset bytes past this one
func (h CPUHandle) Offset(byteOffset int) CPUHandle {
	return h + CPUHandle(byteOffset)
}

// GPUHandle is an opaque GPU-visible address of a single descriptor
type GPUHandle uint64

// Offset returns the handle that is byteOffset bytes past this one
func (h GPUHandle) Offset(byteOffset int) GPUHandle {
	return h + GPUHandle(byteOffset)
}

// DescriptorRegion is one contiguous, fixed-capacity block of shader-visible descriptor memory
// holding descriptors of a single RegionKind. Regions are never resized.
type DescriptorRegion interface {
	// Kind returns the type of descriptors this region holds
	Kind() RegionKind
	// Count returns the number of descriptors this region was created with
	Count() int
	// CPUStart returns the CPU-visible handle of the first descriptor in the region
	CPUStart() CPUHandle
	// GPUStart returns the GPU-visible handle of the first descriptor in the region
	GPUStart() GPUHandle
	// SetName attaches a debug label to the region. It has no functional effect.
	SetName(name string)
	// Destroy releases the region back to the device. Handles into the region become invalid.
	Destroy() error
}
