package lynxalloc

import (
	"fmt"
	"unsafe"
)

// Heap is one allocator instance: a list of regions, the configuration it
// was built with, and its counters. Most programs use the package-level
// functions, which route to a lazily created default heap; tests and
// embedders can construct their own.
type Heap struct {
	root *region // most recently created region, head of the region list
	cfg  Config
	ctr  Counters
	err  error // errno-style slot, see ReallocArray
}

// New returns a heap using the given configuration. No memory is mapped
// until the first allocation.
func New(cfg Config) (*Heap, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("lynxalloc: %w", err)
	}
	return &Heap{cfg: cfg}, nil
}

var std *Heap

// Default returns the process-wide heap, creating it on first use from the
// compile-time defaults plus environment overrides. Creation is not
// re-entrant; do not call back into the allocator from code that runs during
// configuration resolution.
func Default() *Heap {
	if std == nil {
		h, err := New(ConfigFromEnv())
		if err != nil {
			panic(err)
		}
		std = h
	}
	return std
}

// Alloc returns a 16-byte aligned pointer to at least size bytes, or nil
// when size is zero or the kernel is out of address space. Requests above
// the configured maximum block size are served as standalone mappings.
func (h *Heap) Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	if size > h.cfg.MaxBlockSize {
		b := h.createLargeBlock(size)
		if b == 0 {
			return nil
		}
		h.ctr.LargeBlockAllocs++
		return b.data()
	}

	s := next16(size)
	b := h.nextFree(s)
	if b == 0 {
		r := h.createRegion()
		if r == nil {
			return nil
		}
		if h.root != nil {
			h.root.prev = r
			r.next = h.root
		}
		h.root = r
		b = h.nextFree(s)
		if b == 0 {
			return nil
		}
	}
	r := h.toRegion(uintptr(b))

	h.removeFree(b)
	var rest block
	if b.size() > s {
		rest = h.split(b, s)
	}
	if rest != 0 {
		h.pushFree(r, rest)
	} else {
		b.markUsed()
	}

	r.nFree--
	r.nUsed++
	if h.cfg.ScribbleChar != 0 {
		h.scribble(b)
	}

	h.ctr.TotalAllocs++
	h.ctr.BytesUsed += uint64(b.size())
	h.ctr.BytesUnused -= uint64(b.size())
	h.updatePeak()
	if debugChecks {
		h.checkRegion(r)
	}
	return b.data()
}

// Free releases a pointer previously returned by this heap. Freeing nil is a
// no-op. The freed block is eagerly coalesced with free neighbors, and a
// region whose last used block disappears is returned to the kernel.
func (h *Heap) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	b := toBlock(ptr)
	if b.large() {
		h.ctr.LargeBlockFrees++
		h.freeLargeBlock(b)
		return
	}
	if debugChecks {
		assert(b.used(), "free of a block that is not in use at %#x", uintptr(b))
	}

	h.ctr.BytesUsed -= uint64(b.size())
	h.ctr.BytesUnused += uint64(b.size())
	h.updatePeak()

	b.markFree()
	b.setFreeNext(0)
	b.setFreePrev(0)

	r := h.toRegion(uintptr(b))
	r.nFree++
	r.nUsed--
	h.ctr.TotalFrees++

	b = h.merge(b)
	if debugChecks {
		h.checkRegion(r)
	}
	h.cleanRegions(b)
}

// AllocZeroed allocates space for count elements of size bytes each and
// zeroes the payload. Returns nil when either argument is zero.
func (h *Heap) AllocZeroed(count, size uintptr) unsafe.Pointer {
	if count == 0 || size == 0 {
		return nil
	}
	ptr := h.Alloc(count * size)
	if ptr == nil {
		return nil
	}
	memset(ptr, 0, count*size)
	return ptr
}

// Realloc resizes an allocation. A nil pointer behaves like Alloc; a zero
// size with a non-nil pointer behaves like Free and returns nil. Small
// blocks never shrink in place: when the existing payload capacity is
// larger than size, the pointer comes back unchanged. A large block is relocated into a
// region only when the new size is comfortably below the small-path limit.
func (h *Heap) Realloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if ptr == nil {
		return h.Alloc(size)
	}
	if size == 0 {
		h.Free(ptr)
		return nil
	}
	b := toBlock(ptr)
	if b.capacity() > size && !(b.large() && size+32 < h.cfg.MaxBlockSize) {
		return ptr
	}
	newPtr := h.Alloc(size)
	if newPtr == nil {
		return nil
	}
	n := b.capacity()
	if size < n {
		n = size
	}
	memmove(newPtr, ptr, n)
	h.Free(ptr)
	return newPtr
}

// ReallocArray resizes an allocation to count elements of size bytes each,
// failing safely when the multiplication overflows: the original pointer is
// left untouched, nil is returned, and the heap's error slot is set to
// ErrOutOfMemory.
func (h *Heap) ReallocArray(ptr unsafe.Pointer, count, size uintptr) unsafe.Pointer {
	if mulOverflows(count, size) {
		h.err = ErrOutOfMemory
		return nil
	}
	return h.Realloc(ptr, count*size)
}

// Err returns the error recorded by the last failing ReallocArray, or nil.
func (h *Heap) Err() error { return h.err }

// Counters returns a copy of the heap's counters.
func (h *Heap) Counters() Counters { return h.ctr }

// Config returns the heap's configuration.
func (h *Heap) Config() Config { return h.cfg }

// scribble fills a freshly allocated payload with the configured byte.
func (h *Heap) scribble(b block) {
	memset(b.data(), h.cfg.ScribbleChar, b.capacity())
}

// Package-level surface, routing to the default heap.

func Alloc(size uintptr) unsafe.Pointer { return Default().Alloc(size) }

func Free(ptr unsafe.Pointer) { Default().Free(ptr) }

func AllocZeroed(count, size uintptr) unsafe.Pointer {
	return Default().AllocZeroed(count, size)
}

func Realloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	return Default().Realloc(ptr, size)
}

func ReallocArray(ptr unsafe.Pointer, count, size uintptr) unsafe.Pointer {
	return Default().ReallocArray(ptr, count, size)
}

func memset(p unsafe.Pointer, c byte, n uintptr) {
	s := unsafe.Slice((*byte)(p), n)
	for i := range s {
		s[i] = c
	}
}

func memmove(dst, src unsafe.Pointer, n uintptr) {
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}
