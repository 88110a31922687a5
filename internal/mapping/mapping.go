// Package mapping acquires and releases anonymous virtual-memory mappings
// for the allocator. It is the only place that talks to the kernel; the
// allocator core deals purely in addresses handed out from here.
//
// Platform-specific implementations live in mapping_unix.go and
// mapping_windows.go.
package mapping

import "errors"

// ErrUnaligned is returned by MapAligned when the platform could not produce
// a mapping at the requested alignment.
var ErrUnaligned = errors.New("mapping: could not obtain aligned mapping")

// Map returns the base address of a fresh anonymous, private, read-write
// mapping of size bytes.
func Map(size uintptr) (uintptr, error) {
	return mapAnon(size)
}

// Unmap releases a mapping previously returned by Map or MapAligned. On Unix
// the range may be any slice of a prior mapping; on Windows addr must be an
// allocation base and size is advisory.
func Unmap(addr, size uintptr) error {
	return unmap(addr, size)
}

// MapAligned returns a mapping of size bytes whose base address is a
// multiple of align. align must be a power of two and a multiple of the page
// size. The typical call has size == align, which is how region mappings are
// obtained.
func MapAligned(size, align uintptr) (uintptr, error) {
	return mapAligned(size, align)
}
