// Package null is a software implementation of the native graphics layer. Descriptor regions live
// in host memory and are carved out of a fixed-capacity pool per region kind, descriptors are
// written with a real bit layout that can be read back, and command lists record the barriers they
// are given instead of executing them.
//
// It exists so that resource heaps can be exercised, tested, and inspected without a GPU.
package null

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/internal/utils"
	"github.com/vkngwrapper/descheap/memutils"
	"github.com/vkngwrapper/descheap/memutils/metadata"
	"github.com/vkngwrapper/descheap/native"
)

const (
	// MinDescriptorSize is the smallest descriptor size the null device supports, since that is
	// how many bytes its descriptor layout needs
	MinDescriptorSize int = 32

	// DefaultMaxViewDescriptors matches the largest shader-visible view heap most desktop drivers allow
	DefaultMaxViewDescriptors int = 1000000
	// DefaultMaxSamplerDescriptors matches the largest shader-visible sampler heap most desktop drivers allow
	DefaultMaxSamplerDescriptors int = 2048
	// DefaultConstantBufferAlignment is the constant-buffer view alignment in bytes
	DefaultConstantBufferAlignment int = 256
)

// DeviceOptions contains optional settings when creating a null Device. Every field may be left
// blank to use defaults.
type DeviceOptions struct {
	// ViewDescriptorSize is the byte stride between view descriptors. It must be a power of two
	// of at least MinDescriptorSize.
	ViewDescriptorSize int
	// SamplerDescriptorSize is the byte stride between sampler descriptors. It must be a power of two
	// of at least MinDescriptorSize.
	SamplerDescriptorSize int

	// MaxViewDescriptors is the largest view region that can be created at once
	MaxViewDescriptors int
	// MaxSamplerDescriptors is the largest sampler region that can be created at once
	MaxSamplerDescriptors int

	// ViewPoolCapacity is the number of view descriptors that all live regions may hold in total.
	// It defaults to MaxViewDescriptors.
	ViewPoolCapacity int
	// SamplerPoolCapacity is the number of sampler descriptors that all live regions may hold in total.
	// It defaults to MaxSamplerDescriptors.
	SamplerPoolCapacity int

	// ConstantBufferAlignment is the required alignment of constant-buffer view ranges
	ConstantBufferAlignment int
}

type descriptorPool struct {
	kind           native.RegionKind
	descriptorSize int
	maxRegionSize  int
	metadata       *metadata.FreeListBlockMetadata
}

// Device is a native.Device whose descriptor memory lives in host byte slices
type Device struct {
	logger *slog.Logger
	limits native.Limits

	mutex        utils.OptionalRWMutex
	pools        [native.RegionKindCount]descriptorPool
	regions      *swiss.Map[uint32, *Region]
	resources    *swiss.Map[native.ResourceHandle, native.Resource]
	nextRegionID uint32

	nextResource atomic.Uint64
	viewWrites   atomic.Int64
}

var _ native.Device = &Device{}

// NewDevice creates a new null Device
func NewDevice(logger *slog.Logger, options DeviceOptions) (*Device, error) {
	if options.ViewDescriptorSize == 0 {
		options.ViewDescriptorSize = MinDescriptorSize
	}
	if options.SamplerDescriptorSize == 0 {
		options.SamplerDescriptorSize = MinDescriptorSize
	}
	if options.MaxViewDescriptors == 0 {
		options.MaxViewDescriptors = DefaultMaxViewDescriptors
	}
	if options.MaxSamplerDescriptors == 0 {
		options.MaxSamplerDescriptors = DefaultMaxSamplerDescriptors
	}
	if options.ViewPoolCapacity == 0 {
		options.ViewPoolCapacity = options.MaxViewDescriptors
	}
	if options.SamplerPoolCapacity == 0 {
		options.SamplerPoolCapacity = options.MaxSamplerDescriptors
	}
	if options.ConstantBufferAlignment == 0 {
		options.ConstantBufferAlignment = DefaultConstantBufferAlignment
	}

	for _, size := range []struct {
		value int
		name  string
	}{
		{options.ViewDescriptorSize, "ViewDescriptorSize"},
		{options.SamplerDescriptorSize, "SamplerDescriptorSize"},
	} {
		if size.value < MinDescriptorSize {
			return nil, errors.Newf("null.DeviceOptions.%s is %d, but must be at least %d", size.name, size.value, MinDescriptorSize)
		}
		err := memutils.CheckPow2(size.value, "null.DeviceOptions."+size.name)
		if err != nil {
			return nil, err
		}
	}

	err := memutils.CheckPow2(options.ConstantBufferAlignment, "null.DeviceOptions.ConstantBufferAlignment")
	if err != nil {
		return nil, err
	}

	if options.MaxViewDescriptors < 0 || options.MaxSamplerDescriptors < 0 ||
		options.ViewPoolCapacity < 0 || options.SamplerPoolCapacity < 0 {
		return nil, errors.New("null.DeviceOptions descriptor limits must not be negative")
	}

	device := &Device{
		logger: logger,
		limits: native.Limits{
			MaxViewDescriptors:      options.MaxViewDescriptors,
			MaxSamplerDescriptors:   options.MaxSamplerDescriptors,
			ConstantBufferAlignment: options.ConstantBufferAlignment,
		},
		mutex:     utils.OptionalRWMutex{UseMutex: true},
		regions:   swiss.NewMap[uint32, *Region](8),
		resources: swiss.NewMap[native.ResourceHandle, native.Resource](64),
	}

	device.pools[native.RegionViews] = newDescriptorPool(native.RegionViews, options.ViewDescriptorSize, options.MaxViewDescriptors, options.ViewPoolCapacity)
	device.pools[native.RegionSamplers] = newDescriptorPool(native.RegionSamplers, options.SamplerDescriptorSize, options.MaxSamplerDescriptors, options.SamplerPoolCapacity)

	return device, nil
}

func newDescriptorPool(kind native.RegionKind, descriptorSize, maxRegionSize, capacity int) descriptorPool {
	md := metadata.NewFreeListBlockMetadata()
	md.Init(capacity)

	return descriptorPool{
		kind:           kind,
		descriptorSize: descriptorSize,
		maxRegionSize:  maxRegionSize,
		metadata:       md,
	}
}

// Limits returns the limits the device was created with
func (d *Device) Limits() native.Limits {
	return d.limits
}

// DescriptorHandleIncrementSize returns the byte stride between descriptors of the provided kind
func (d *Device) DescriptorHandleIncrementSize(kind native.RegionKind) int {
	return d.pools[kind].descriptorSize
}

// CreateDescriptorRegion carves a region of count descriptors out of the kind's pool
func (d *Device) CreateDescriptorRegion(kind native.RegionKind, count int) (native.DescriptorRegion, common.VkResult, error) {
	d.logger.Debug("Device::CreateDescriptorRegion", slog.String("kind", kind.String()), slog.Int("count", count))

	if kind >= native.RegionKindCount {
		return nil, core1_0.VKErrorUnknown, errors.Newf("unknown region kind %d", kind)
	}

	if count < 1 {
		return nil, core1_0.VKErrorUnknown, errors.Newf("descriptor region must hold at least one descriptor, but %d were requested", count)
	}

	pool := &d.pools[kind]
	if count > pool.maxRegionSize {
		return nil, core1_0.VKErrorTooManyObjects, errors.Newf("%d descriptors were requested for a %s region, but the device limit is %d", count, kind, pool.maxRegionSize)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	success, request, err := pool.metadata.CreateAllocationRequest(count, 1, uint32(kind)+1, metadata.AllocationStrategyMinMemory)
	if err != nil {
		return nil, core1_0.VKErrorUnknown, err
	}

	if !success {
		return nil, core1_0.VKErrorOutOfDeviceMemory, errors.Newf("the %s pool does not have room for %d descriptors: %d of %d are free", kind, count, pool.metadata.SumFreeSize(), pool.metadata.Size())
	}

	d.nextRegionID++
	region := &Region{
		device:      d,
		id:          d.nextRegionID,
		kind:        kind,
		count:       count,
		stride:      pool.descriptorSize,
		poolOffset:  request.Item.Offset,
		allocHandle: request.BlockAllocationHandle,
		data:        make([]byte, count*pool.descriptorSize),
	}

	err = pool.metadata.Alloc(request, region)
	if err != nil {
		return nil, core1_0.VKErrorUnknown, err
	}

	d.regions.Put(region.id, region)
	return region, core1_0.VKSuccess, nil
}

func (d *Device) destroyRegion(region *Region) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.regions.Has(region.id) {
		return errors.Newf("descriptor region %d was already destroyed", region.id)
	}

	err := d.pools[region.kind].metadata.Free(region.allocHandle)
	if err != nil {
		return err
	}

	d.regions.Delete(region.id)
	return nil
}

// resolve maps a CPU handle to the descriptor bytes it addresses
func (d *Device) resolve(handle native.CPUHandle, kind native.RegionKind) ([]byte, error) {
	id, byteOffset := splitHandle(handle)

	d.mutex.RLock()
	region, ok := d.regions.Get(id)
	d.mutex.RUnlock()

	if !ok {
		return nil, errors.Newf("CPU handle %#x does not belong to a live descriptor region", uint64(handle))
	}

	if region.kind != kind {
		return nil, errors.Newf("CPU handle %#x belongs to a %s region, but a %s descriptor was written", uint64(handle), region.kind, kind)
	}

	if byteOffset%region.stride != 0 || byteOffset+region.stride > len(region.data) {
		return nil, errors.Newf("CPU handle %#x is not a descriptor boundary inside region %d", uint64(handle), id)
	}

	return region.data[byteOffset : byteOffset+region.stride], nil
}

func (d *Device) writeView(kind native.ViewKind, resource native.Resource, desc native.ViewDesc, dest native.CPUHandle) (common.VkResult, error) {
	if resource == nil {
		return core1_0.VKErrorUnknown, errors.Newf("cannot create a %s view without a resource", kind)
	}

	target, err := d.resolve(dest, native.RegionViews)
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	switch typed := resource.(type) {
	case native.Buffer:
		if desc.Buffer.Offset < 0 || desc.Buffer.Size < 0 || desc.Buffer.Offset+desc.Buffer.Size > typed.Size() {
			return core1_0.VKErrorUnknown, errors.Newf("buffer range [%d, %d) is outside of buffer %d", desc.Buffer.Offset, desc.Buffer.Offset+desc.Buffer.Size, typed.Handle())
		}
		encodeBufferView(target, kind, typed.Handle(), desc.Buffer)
	case native.Texture:
		encodeTextureView(target, kind, typed.Handle(), desc.Texture)
	default:
		return core1_0.VKErrorFeatureNotPresent, errors.Newf("cannot create a %s view of a %s", kind, resource.ResourceType())
	}

	d.viewWrites.Add(1)
	return core1_0.VKSuccess, nil
}

// CreateShaderResourceView writes a read-only view descriptor at dest
func (d *Device) CreateShaderResourceView(resource native.Resource, desc native.ViewDesc, dest native.CPUHandle) (common.VkResult, error) {
	return d.writeView(native.ViewKindShaderResource, resource, desc, dest)
}

// CreateUnorderedAccessView writes a writable view descriptor at dest. The resource must have
// been created with storage usage.
func (d *Device) CreateUnorderedAccessView(resource native.Resource, desc native.ViewDesc, dest native.CPUHandle) (common.VkResult, error) {
	switch typed := resource.(type) {
	case native.Buffer:
		if typed.Usage()&core1_0.BufferUsageStorageBuffer == 0 {
			return core1_0.VKErrorFeatureNotPresent, errors.Newf("buffer %d was not created with storage usage", typed.Handle())
		}
	case native.Texture:
		if typed.Usage()&core1_0.ImageUsageStorage == 0 {
			return core1_0.VKErrorFeatureNotPresent, errors.Newf("texture %d was not created with storage usage", typed.Handle())
		}
	}

	return d.writeView(native.ViewKindUnorderedAccess, resource, desc, dest)
}

// CreateConstantBufferView writes a constant-buffer view descriptor at dest
func (d *Device) CreateConstantBufferView(buffer native.Buffer, offset, size int, dest native.CPUHandle) (common.VkResult, error) {
	if buffer == nil {
		return core1_0.VKErrorUnknown, errors.New("cannot create a constant-buffer view without a buffer")
	}

	if !memutils.IsAligned(offset, d.limits.ConstantBufferAlignment) || !memutils.IsAligned(size, d.limits.ConstantBufferAlignment) {
		return core1_0.VKErrorUnknown, errors.Newf("constant-buffer range offset %d size %d is not aligned to %d", offset, size, d.limits.ConstantBufferAlignment)
	}

	return d.writeView(native.ViewKindConstantBuffer, buffer, native.ViewDesc{
		Buffer: native.BufferViewDesc{Offset: offset, Size: size},
	}, dest)
}

// CreateSampler writes a sampler descriptor at dest
func (d *Device) CreateSampler(desc native.SamplerDescriptor, dest native.CPUHandle) (common.VkResult, error) {
	target, err := d.resolve(dest, native.RegionSamplers)
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	encodeSampler(target, desc)
	return core1_0.VKSuccess, nil
}

// CreateNullView writes a descriptor of the provided kind that refers to nothing
func (d *Device) CreateNullView(kind native.ViewKind, dest native.CPUHandle) (common.VkResult, error) {
	target, err := d.resolve(dest, kind.RegionKind())
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	encodeNull(target, kind)
	return core1_0.VKSuccess, nil
}

// ReadDescriptor decodes the descriptor at the provided CPU handle
func (d *Device) ReadDescriptor(kind native.RegionKind, handle native.CPUHandle) (Descriptor, error) {
	source, err := d.resolve(handle, kind)
	if err != nil {
		return Descriptor{}, err
	}

	return decodeDescriptor(source, kind), nil
}

// ViewWrites returns the number of buffer and texture view descriptors written so far
func (d *Device) ViewWrites() int {
	return int(d.viewWrites.Load())
}

func (d *Device) register(resource native.Resource) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.resources.Put(resource.Handle(), resource)
}

func (d *Device) nextHandle() native.ResourceHandle {
	return native.ResourceHandle(d.nextResource.Add(1))
}

// LookupResource returns the live resource with the provided handle, if any
func (d *Device) LookupResource(handle native.ResourceHandle) (native.Resource, bool) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.resources.Get(handle)
}

// ReleaseResource forgets a resource. Descriptors that still refer to it are not touched.
func (d *Device) ReleaseResource(resource native.Resource) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.resources.Delete(resource.Handle())
}

// Statistics sums the pool usage of the provided region kind, measured in descriptors
func (d *Device) Statistics(kind native.RegionKind) memutils.DetailedStatistics {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	var stats memutils.DetailedStatistics
	stats.Clear()
	d.pools[kind].metadata.AddDetailedStatistics(&stats)
	return stats
}

// TotalStatistics sums the pool usage of every region kind
func (d *Device) TotalStatistics() memutils.DetailedStatistics {
	var total memutils.DetailedStatistics
	total.Clear()

	for kind := native.RegionKind(0); kind < native.RegionKindCount; kind++ {
		stats := d.Statistics(kind)
		total.AddDetailedStatistics(&stats)
	}

	return total
}

// PrintDetailedMap writes a json object describing every pool and the regions carved out of it
func (d *Device) PrintDetailedMap(writer *jwriter.Writer) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	objState := writer.Object()
	defer objState.End()

	for kind := native.RegionKind(0); kind < native.RegionKindCount; kind++ {
		pool := d.pools[kind]

		poolObj := objState.Name(kind.String()).Object()
		poolObj.Name("DescriptorSize").Int(pool.descriptorSize)
		pool.metadata.BlockJsonData(poolObj)

		regionArray := poolObj.Name("Regions").Array()
		_ = pool.metadata.VisitAllRegions(func(handle metadata.BlockAllocationHandle, offset int, size int, userData any, free bool) error {
			obj := regionArray.Object()
			defer obj.End()

			obj.Name("Offset").Int(offset)
			obj.Name("Size").Int(size)
			obj.Name("Free").Bool(free)

			if region, isRegion := userData.(*Region); isRegion && region != nil {
				obj.Name("ID").Int(int(region.id))
				if region.name != "" {
					obj.Name("Name").String(region.name)
				}
			} else if userData != nil {
				obj.Name("CustomData").String(fmt.Sprintf("%+v", userData))
			}

			return nil
		})
		regionArray.End()

		poolObj.End()
	}
}
