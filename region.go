package lynxalloc

import (
	"unsafe"

	"github.com/lynx-mem/lynxalloc/internal/mapping"
)

// region is the record written at the base of every region mapping. Because
// regions are aligned to the configured region size, masking any interior
// block address recovers this record in constant time.
//
// The record lives inside the mapping itself, so every field must stay
// word-sized and the struct layout is part of the region format.
type region struct {
	start     block   // leading sentinel block header
	blockList block   // head of the free list, 0 when empty
	nFree     uintptr // free blocks in this region
	nUsed     uintptr // used non-sentinel blocks in this region
	next      *region // neighbors in the global region list
	prev      *region
}

// regionOverhead is the part of a region that can never hold user payload:
// the region record, the leading sentinel, and the trailing terminator word,
// up to the start of the initial free block.
const regionOverhead = (unsafe.Sizeof(region{})+wordSize+15)&^15 + 16

func (r *region) base() uintptr {
	return uintptr(unsafe.Pointer(r))
}

// toRegion recovers the region record enclosing addr. Valid only for
// addresses inside small-path regions.
func (h *Heap) toRegion(addr uintptr) *region {
	return (*region)(unsafe.Pointer(addr &^ (h.cfg.RegionSize - 1)))
}

// createRegion maps and formats a fresh region but does not link it into the
// heap's region list. Returns nil if the kernel refuses the mapping.
//
// The layout after formatting, for a region based at R:
//
//	| record | pad | sentinel (16, used) | free block | terminator (0, used) |
//	R
//
// The sentinel is placed so that the free block's payload lands on a 16-byte
// boundary; the terminator is a single header word with size zero and the
// used bit set. Both bound coalescing, turning the region edges into
// ordinary "neighbor is used" cases.
func (h *Heap) createRegion() *region {
	base, err := mapping.MapAligned(h.cfg.RegionSize, h.cfg.RegionSize)
	if err != nil {
		return nil
	}
	r := (*region)(unsafe.Pointer(base))
	r.nFree = 1
	r.nUsed = 0
	r.next = nil
	r.prev = nil

	// The sentinel's payload address is the first 16-byte boundary with room
	// for the record and one header word before it.
	blkData := align16(base + unsafe.Sizeof(region{}) + wordSize)
	nextData := align16(blkData + 1)

	sentinel := toBlock(unsafe.Pointer(blkData))
	sentinel.setSize(nextData - blkData)
	sentinel.markUsed()
	r.start = sentinel

	// One free block covers everything between the sentinel and the
	// terminator word at the end of the mapping.
	free := toBlock(unsafe.Pointer(nextData))
	free.setSize(base + h.cfg.RegionSize - nextData)
	free.setFreeNext(0)
	free.setFreePrev(0)
	r.blockList = free

	term := free.next()
	*term.header() = usedFlag // size zero, used

	h.ctr.RegionAllocs++
	h.ctr.BytesUnused += uint64(h.cfg.RegionSize)
	h.updatePeak()
	return r
}

// cleanRegions releases the region containing the just-freed block if no
// used blocks remain in it. Only that one region is inspected; the trigger
// for reclamation is always the free that emptied it.
func (h *Heap) cleanRegions(last block) {
	r := h.toRegion(uintptr(last))
	if r.nUsed != 0 {
		return
	}
	if r.prev != nil {
		if debugChecks {
			assert(r.prev.next == r, "region list corrupt")
			assert(r != h.root, "root region has a predecessor")
		}
		r.prev.next = r.next
	}
	if r.next != nil {
		if debugChecks {
			assert(r.next.prev == r, "region list corrupt")
		}
		r.next.prev = r.prev
	}
	if h.root == r {
		h.root = r.next
	}
	_ = mapping.Unmap(r.base(), h.cfg.RegionSize)
	h.ctr.RegionFrees++
	h.ctr.BytesUnused -= uint64(h.cfg.RegionSize)
}
