//go:build windows

package mapping

import "golang.org/x/sys/windows"

func mapAnon(size uintptr) (uintptr, error) {
	return windows.VirtualAlloc(0, size,
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
}

func unmap(addr, size uintptr) error {
	// VirtualFree with MEM_RELEASE frees the whole allocation placed at
	// addr; the size argument must be zero.
	_ = size
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

// mapAligned reserves an oversized range to learn where an aligned window
// lies, releases it, and re-allocates at that exact address. Another thread
// can steal the address between the two calls, so a few attempts are made.
func mapAligned(size, align uintptr) (uintptr, error) {
	for attempt := 0; attempt < 8; attempt++ {
		probe, err := windows.VirtualAlloc(0, size+align,
			windows.MEM_RESERVE, windows.PAGE_NOACCESS)
		if err != nil {
			return 0, err
		}
		aligned := probe
		if rem := probe % align; rem != 0 {
			aligned = probe + (align - rem)
		}
		if err := windows.VirtualFree(probe, 0, windows.MEM_RELEASE); err != nil {
			return 0, err
		}
		base, err := windows.VirtualAlloc(aligned, size,
			windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
		if err == nil && base == aligned {
			return base, nil
		}
		if err == nil {
			_ = windows.VirtualFree(base, 0, windows.MEM_RELEASE)
		}
	}
	return 0, ErrUnaligned
}
