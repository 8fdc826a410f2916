package resheap

import (
	"fmt"

	"github.com/vkngwrapper/descheap/native"
)

// MaxLocationOffset is the largest byte offset a DescriptorLocation can hold, so that a location
// always fits in one packed word
const MaxLocationOffset = 1<<31 - 1

const locationRegionBit = 31

// DescriptorLocation identifies one descriptor slot: a region and a byte offset into that region's
// descriptor memory
type DescriptorLocation struct {
	Region native.RegionKind
	Offset uint32
}

// Packed returns the location as a single word: the region in the top bit and the offset in the
// low 31 bits
func (l DescriptorLocation) Packed() uint32 {
	return uint32(l.Region)<<locationRegionBit | l.Offset&MaxLocationOffset
}

// UnpackLocation reverses DescriptorLocation.Packed
func UnpackLocation(packed uint32) DescriptorLocation {
	return DescriptorLocation{
		Region: native.RegionKind(packed >> locationRegionBit),
		Offset: packed & MaxLocationOffset,
	}
}

func (l DescriptorLocation) String() string {
	return fmt.Sprintf("%s+%d", l.Region, l.Offset)
}
