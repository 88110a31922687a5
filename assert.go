package lynxalloc

import "fmt"

// assert aborts on a violated internal invariant. Call sites are gated on
// debugChecks so the formatting work disappears in release builds.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("lynxalloc: invariant violated: "+format, args...))
	}
}

// checkRegion walks a region's blocks and free list and verifies the
// structural invariants: boundary tags agree, the counts in the record match
// what the walk finds, and no two free blocks touch.
func (h *Heap) checkRegion(r *region) {
	var used, free uintptr
	prevFree := false
	for b := r.start; b.size() != 0; b = b.next() {
		assert(*b.header() == *b.footer(),
			"header/footer mismatch at %#x: %#x != %#x", uintptr(b), *b.header(), *b.footer())
		if b != r.start {
			assert(b.size() >= minBlockSize && b.size()%16 == 0,
				"bad block size %d at %#x", b.size(), uintptr(b))
			if b.used() {
				used++
				prevFree = false
			} else {
				assert(!prevFree, "adjacent free blocks at %#x", uintptr(b))
				free++
				prevFree = true
			}
		}
	}
	assert(free == r.nFree, "region %#x: walked %d free blocks, n_free is %d", r.base(), free, r.nFree)
	assert(used == r.nUsed, "region %#x: walked %d used blocks, n_used is %d", r.base(), used, r.nUsed)
	assert(countFree(r) == r.nFree,
		"region %#x: free list length %d, n_free is %d", r.base(), countFree(r), r.nFree)
}
