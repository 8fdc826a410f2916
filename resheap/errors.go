package resheap

import "github.com/cockroachdb/errors"

var (
	// ErrResourceExhausted is returned from New when a descriptor region larger than the device
	// allows would be needed, or the device has no room left for one. Split the bindings across
	// several heaps.
	ErrResourceExhausted = errors.New("descriptor resources exhausted")
	// ErrInvalidRange marks a view whose byte or subresource range falls outside of its resource
	ErrInvalidRange = errors.New("view range is outside of the resource")
	// ErrMisaligned marks a view whose range breaks the element stride or the device's
	// constant-buffer alignment
	ErrMisaligned = errors.New("view range is misaligned")
	// ErrIncompatibleResource marks a view whose resource has the wrong type or usage for its slot
	ErrIncompatibleResource = errors.New("resource is incompatible with the binding slot")
	// ErrNativeFailure marks a view that the device refused to create
	ErrNativeFailure = errors.New("native descriptor creation failed")
	// ErrHeapDestroyed is returned from operations on a heap after Destroy
	ErrHeapDestroyed = errors.New("resource heap was destroyed")
)
