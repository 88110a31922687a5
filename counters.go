package lynxalloc

// Counters tallies allocator activity since the heap was created. They exist
// for debugging and observability and are never consulted by the allocation
// paths themselves.
type Counters struct {
	RegionAllocs     uint64 // region mappings created
	RegionFrees      uint64 // region mappings released back to the kernel
	TotalAllocs      uint64 // small-path allocations
	TotalFrees       uint64 // small-path frees
	LargeBlockAllocs uint64 // standalone mappings created
	LargeBlockFrees  uint64 // standalone mappings released
	BytesUsed        uint64 // bytes currently held by used small blocks
	BytesUnused      uint64 // bytes mapped for regions but not in used blocks
	BlocksChecked    uint64 // free blocks inspected across all searches
	CheckAmount      uint64 // free-list searches performed
	PeakUtilization  float64
}

// updatePeak folds the current used/unused ratio into the high-water mark.
func (h *Heap) updatePeak() {
	if h.ctr.BytesUnused == 0 {
		return
	}
	util := float64(h.ctr.BytesUsed) / float64(h.ctr.BytesUnused)
	if util > h.ctr.PeakUtilization {
		h.ctr.PeakUtilization = util
	}
}
