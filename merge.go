package lynxalloc

// split carves a used prefix for a request of footprint size out of the free
// block b, leaving the remainder as a new free block. Returns the remainder,
// or 0 when the leftover would be below the configured minimum and the whole
// block should go to the caller instead. The remainder is not linked into
// the free list here; that is the caller's side of the surgery.
func (h *Heap) split(b block, size uintptr) block {
	size += h.cfg.ReserveCapacity
	if b.size() < size+h.cfg.MinSplitSize {
		return 0
	}
	rest := b.size() - size

	b.setSize(size)
	b.markUsed()

	nb := b.next()
	nb.setSize(rest)
	h.toRegion(uintptr(nb)).nFree++
	return nb
}

// mergeLeft folds b into its predecessor when that predecessor is free. The
// merged block keeps the predecessor's list membership; b's header and the
// predecessor's footer dissolve into payload. The leading sentinel is always
// used, which bounds the recursion.
func (h *Heap) mergeLeft(b block) block {
	p := b.prev()
	if p.used() {
		return b
	}
	merged := p.size() + b.size()
	ftr := b.footer() // the merged block's footer, located before resizing
	*p.header() = merged
	*ftr = merged
	h.toRegion(uintptr(p)).nFree--
	return h.mergeLeft(p)
}

// mergeRight folds b's successor into b when that successor is free,
// unlinking the absorbed block from the free list. The trailing terminator
// is always used, which bounds the recursion.
func (h *Heap) mergeRight(b block) block {
	nb := b.next()
	if nb.used() {
		return b
	}
	merged := b.size() + nb.size()
	ftr := nb.footer()
	h.removeFree(nb)
	*b.header() = merged
	*ftr = merged
	h.toRegion(uintptr(b)).nFree--
	return h.mergeRight(b)
}

// merge coalesces a newly freed block with its neighbors. Folding left
// happens before the block joins the free list, so its own list membership
// never has to survive that fold; the merged block then moves to the list
// head and absorbs free successors.
func (h *Heap) merge(b block) block {
	b = h.mergeLeft(b)
	h.swapRoot(b)
	b = h.mergeRight(b)
	return b
}
