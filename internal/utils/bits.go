package utils

import "math/bits"

// BitSet is a fixed-size set of bits, used to track per-descriptor-set dirty state
type BitSet struct {
	words []uint64
	size  int
}

// NewBitSet creates a BitSet with size bits, all unset
func NewBitSet(size int) BitSet {
	return BitSet{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

// Len returns the number of bits in the set
func (b *BitSet) Len() int { return b.size }

func (b *BitSet) Set(index int) {
	b.words[index>>6] |= 1 << (uint(index) & 63)
}

func (b *BitSet) Unset(index int) {
	b.words[index>>6] &^= 1 << (uint(index) & 63)
}

func (b *BitSet) IsSet(index int) bool {
	return b.words[index>>6]&(1<<(uint(index)&63)) != 0
}

// Count returns the number of set bits
func (b *BitSet) Count() int {
	count := 0
	for _, word := range b.words {
		count += bits.OnesCount64(word)
	}
	return count
}

// Clear unsets every bit in the set
func (b *BitSet) Clear() {
	for i := range b.words {
		b.words[i] = 0
	}
}
