package null

import (
	"github.com/vkngwrapper/descheap/memutils/metadata"
	"github.com/vkngwrapper/descheap/native"
)

const gpuHandleBit uint64 = 1 << 63

// Region is a native.DescriptorRegion backed by a host byte slice. Its CPU handles encode the
// region's id in the upper 32 bits and a byte offset in the lower 32 bits.
type Region struct {
	device      *Device
	id          uint32
	kind        native.RegionKind
	count       int
	stride      int
	poolOffset  int
	allocHandle metadata.BlockAllocationHandle
	data        []byte
	name        string
}

var _ native.DescriptorRegion = &Region{}

func splitHandle(handle native.CPUHandle) (uint32, int) {
	return uint32(uint64(handle) >> 32), int(uint64(handle) & 0xffffffff)
}

func (r *Region) Kind() native.RegionKind { return r.kind }

func (r *Region) Count() int { return r.count }

func (r *Region) CPUStart() native.CPUHandle {
	return native.CPUHandle(uint64(r.id) << 32)
}

// GPUStart returns a handle built from the region's offset in its device pool, the way a shader-visible
// heap's GPU addresses follow its placement in device memory
func (r *Region) GPUStart() native.GPUHandle {
	return native.GPUHandle(gpuHandleBit | uint64(r.kind)<<48 | uint64(r.poolOffset*r.stride))
}

func (r *Region) SetName(name string) {
	r.name = name
}

// Name returns the debug label set with SetName
func (r *Region) Name() string { return r.name }

// PoolOffset returns the index of the region's first descriptor within the device pool
func (r *Region) PoolOffset() int { return r.poolOffset }

func (r *Region) Destroy() error {
	return r.device.destroyRegion(r)
}
