package metadata

// AllocationStrategy exposes several options for choosing the location of a new allocation.
// If none is chosen, AllocationStrategyMinOffset is used.
type AllocationStrategy uint32

const (
	// AllocationStrategyMinMemory selects the smallest free range that can hold the allocation
	// to minimize fragmentation, at the expense of scanning every free range
	AllocationStrategyMinMemory AllocationStrategy = 1 << iota
	// AllocationStrategyMinOffset selects the free range with the lowest offset that can hold
	// the allocation. This is also the fastest strategy, since the scan stops at the first fit.
	AllocationStrategyMinOffset
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	AllocationStrategyMinMemory: "MinMemory",
	AllocationStrategyMinOffset: "MinOffset",
}

func (s AllocationStrategy) String() string {
	return allocationStrategyMapping[s]
}
