//go:build unix

package mapping

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func mapAnon(size uintptr) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, nil, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, err
	}
	return uintptr(p), nil
}

func unmap(addr, size uintptr) error {
	return unix.MunmapPtr(unsafe.Pointer(addr), size)
}

// mapAligned first tries a plain mapping, which is already aligned whenever
// align equals the page size. Otherwise it maps size+align bytes and carves
// out the aligned window, returning the unaligned prefix and suffix to the
// kernel. Over-asking by align guarantees the window exists.
func mapAligned(size, align uintptr) (uintptr, error) {
	base, err := mapAnon(size)
	if err != nil {
		return 0, err
	}
	if base%align == 0 {
		return base, nil
	}
	if err := unmap(base, size); err != nil {
		return 0, err
	}

	total := size + align
	base, err = mapAnon(total)
	if err != nil {
		return 0, err
	}
	aligned := base
	if rem := base % align; rem != 0 {
		aligned = base + (align - rem)
	}
	if pre := aligned - base; pre > 0 {
		if err := unmap(base, pre); err != nil {
			return 0, err
		}
	}
	if post := base + total - (aligned + size); post > 0 {
		if err := unmap(aligned+size, post); err != nil {
			return 0, err
		}
	}
	return aligned, nil
}
