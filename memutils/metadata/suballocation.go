package metadata

import "math"

type BlockAllocationHandle uint64

const (
	NoAllocation BlockAllocationHandle = math.MaxUint64
)

// SuballocationFree is the Type value of a Suballocation that represents a free range
const SuballocationFree uint32 = 0

type Suballocation struct {
	Offset   int
	Size     int
	UserData any
	Type     uint32
}

// IsFree returns true if this suballocation represents a free range
func (s Suballocation) IsFree() bool {
	return s.Type == SuballocationFree
}
