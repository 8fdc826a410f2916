//go:build !debug_mem_utils

package memutils

// DebugEnabled is true when the debug_mem_utils build tag is present
const DebugEnabled = false

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}

// DebugCheckIndex will verify that index is within [0, count), and panics if it is not.
// This method no-ops unless the debug_mem_utils build tag is present, so that hot paths
// indexing into descriptor tables stay branch-free in release builds.
func DebugCheckIndex[T Number](index, count T, name string) {
}

// DebugCheckEqual will verify that value equals expected, and panics if it does not.
// This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckEqual[T comparable](value, expected T, name string) {
}
