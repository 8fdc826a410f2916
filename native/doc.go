// Package native describes the graphics driver layer that resource heaps are built on top of:
// devices that carve out fixed-size descriptor regions and write descriptors into them, the
// resources that views refer to, and command lists that accept packed barrier buffers.
//
// Nothing in this package talks to a driver. Backends such as the null backend in
// github.com/vkngwrapper/descheap/null implement these interfaces, and consumers may provide
// their own. Failures are reported the same way as elsewhere in vkngwrapper: a common.VkResult
// alongside a Go error.
package native
