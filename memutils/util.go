package memutils

import (
	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// Number is any integer type that descriptor counts, offsets, and strides may be expressed in
type Number interface {
	constraints.Integer
}

// CheckPow2 returns PowerOfTwoError if number is not a power of two. Zero is not a power of two.
func CheckPow2[T Number](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// CheckIndex returns IndexOutOfRangeError if index is not within [0, count)
func CheckIndex[T Number](index, count T, name string) error {
	if index < 0 || index >= count {
		return cerrors.Wrapf(IndexOutOfRangeError, "%s is %d, but must be less than %d", name, index, count)
	}
	return nil
}

// CheckEqual returns MismatchError if value is not the expected value
func CheckEqual[T comparable](value, expected T, name string) error {
	if value != expected {
		return cerrors.Wrapf(MismatchError, "%s is %v, but must be %v", name, value, expected)
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment, which must be a power of two
func AlignUp[T Number](value T, alignment T) T {
	return (value + alignment - 1) &^ (alignment - 1)
}

// AlignDown rounds value down to a multiple of alignment, which must be a power of two
func AlignDown[T Number](value T, alignment T) T {
	return value &^ (alignment - 1)
}

// IsAligned reports whether value is a multiple of alignment. Unlike AlignUp and AlignDown,
// alignment does not need to be a power of two. An alignment of 0 or 1 accepts every value.
func IsAligned[T Number](value T, alignment T) bool {
	if alignment <= 1 {
		return true
	}
	return value%alignment == 0
}

// DivideRoundingUp divides value by divisor, rounding up
func DivideRoundingUp[T Number](value T, divisor T) T {
	return (value + divisor - 1) / divisor
}
