package native

import (
	"encoding/binary"

	"github.com/vkngwrapper/core/v2/common"
)

type BarrierType uint32

const (
	BarrierTypeTransition BarrierType = iota
	BarrierTypeAliasing
	BarrierTypeUnorderedAccess
)

var barrierTypeMapping = map[BarrierType]string{
	BarrierTypeTransition:      "Transition",
	BarrierTypeAliasing:        "Aliasing",
	BarrierTypeUnorderedAccess: "UnorderedAccess",
}

func (t BarrierType) String() string {
	return barrierTypeMapping[t]
}

type BarrierFlags int32

var barrierFlagsMapping = common.NewFlagStringMapping[BarrierFlags]()

func (f BarrierFlags) Register(str string) {
	barrierFlagsMapping.Register(f, str)
}
func (f BarrierFlags) String() string {
	return barrierFlagsMapping.FlagsToString(f)
}

const (
	// BarrierFlagBeginOnly marks the first half of a split barrier
	BarrierFlagBeginOnly BarrierFlags = 1 << iota
	// BarrierFlagEndOnly marks the second half of a split barrier
	BarrierFlagEndOnly
)

func init() {
	BarrierFlagBeginOnly.Register("BarrierFlagBeginOnly")
	BarrierFlagEndOnly.Register("BarrierFlagEndOnly")
}

// ResourceBarrier is the unpacked form of one barrier record
type ResourceBarrier struct {
	Type     BarrierType
	Flags    BarrierFlags
	Resource ResourceHandle
}

const (
	// BarrierCountSize is the size in bytes of the count field at the start of a BarrierBuffer
	BarrierCountSize = 4
	// BarrierRecordSize is the size in bytes of a single barrier record in a BarrierBuffer
	BarrierRecordSize = 16
)

// BarrierBufferSize returns the number of bytes needed for a BarrierBuffer holding up to
// capacity records
func BarrierBufferSize(capacity int) int {
	return BarrierCountSize + capacity*BarrierRecordSize
}

// BarrierBuffer is a packed, little-endian list of barriers: a uint32 count followed by that many
// BarrierRecordSize records of {type uint32, flags uint32, resource uint64}. Buffers are usually
// carved out of a larger preallocated slice and rewritten in place.
type BarrierBuffer []byte

// Capacity returns the number of records the buffer has room for
func (b BarrierBuffer) Capacity() int {
	if len(b) < BarrierCountSize {
		return 0
	}
	return (len(b) - BarrierCountSize) / BarrierRecordSize
}

// Count returns the number of records in use
func (b BarrierBuffer) Count() int {
	if len(b) < BarrierCountSize {
		return 0
	}
	return int(binary.LittleEndian.Uint32(b))
}

// SetCount updates the number of records in use
func (b BarrierBuffer) SetCount(count int) {
	binary.LittleEndian.PutUint32(b, uint32(count))
}

// At decodes the record at index
func (b BarrierBuffer) At(index int) ResourceBarrier {
	record := b[BarrierCountSize+index*BarrierRecordSize:]
	return ResourceBarrier{
		Type:     BarrierType(binary.LittleEndian.Uint32(record[0:])),
		Flags:    BarrierFlags(binary.LittleEndian.Uint32(record[4:])),
		Resource: ResourceHandle(binary.LittleEndian.Uint64(record[8:])),
	}
}

// Put encodes barrier into the record at index. It does not update the count.
func (b BarrierBuffer) Put(index int, barrier ResourceBarrier) {
	record := b[BarrierCountSize+index*BarrierRecordSize:]
	binary.LittleEndian.PutUint32(record[0:], uint32(barrier.Type))
	binary.LittleEndian.PutUint32(record[4:], uint32(barrier.Flags))
	binary.LittleEndian.PutUint64(record[8:], uint64(barrier.Resource))
}

// Barriers decodes every record in use into a new slice
func (b BarrierBuffer) Barriers() []ResourceBarrier {
	count := b.Count()
	barriers := make([]ResourceBarrier, 0, count)
	for i := 0; i < count; i++ {
		barriers = append(barriers, b.At(i))
	}
	return barriers
}
