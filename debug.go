package lynxalloc

import (
	"fmt"
	"io"
)

// The dump functions below are debugging aids. They only read allocator
// state, but they are not synchronized with anything; call them from the
// same goroutine that owns the heap or while it is quiescent.

func dumpBlock(w io.Writer, b block) {
	status := "used"
	if b.free() {
		status = "free"
	}
	fmt.Fprintf(w, "\t\t[%#x - %#x] (size %4d) status: %s\n",
		uintptr(b.data()), uintptr(b.data())+b.size(), b.size(), status)
}

func dumpBlockList(w io.Writer, b block) {
	for b != 0 && b.size() != 0 {
		dumpBlock(w, b)
		b = b.next()
	}
}

func dumpFreeList(w io.Writer, b block) {
	for b != 0 {
		dumpBlock(w, b)
		b = b.freeNext()
	}
}

func dumpRegion(w io.Writer, r *region) {
	fmt.Fprintf(w, "region %#x:\n", r.base())
	fmt.Fprintf(w, "\tnext: %p\n", r.next)
	fmt.Fprintf(w, "\tn_free: %d\n", r.nFree)
	fmt.Fprintf(w, "\tn_used: %d\n", r.nUsed)
	fmt.Fprintf(w, "\tblocks:\n")
	dumpBlockList(w, r.start)
	fmt.Fprintf(w, "\tfree list:\n")
	dumpFreeList(w, r.blockList)
}

// DumpDebugInfo writes the heap's configuration, every region's block and
// free-list layout, and the counters to w.
func (h *Heap) DumpDebugInfo(w io.Writer) {
	fmt.Fprintf(w, "---- lynxalloc debug info start ----\n")
	fmt.Fprintf(w, "config:\n")
	fmt.Fprintf(w, "%-20s : %d\n", "region_size", h.cfg.RegionSize)
	fmt.Fprintf(w, "%-20s : %d\n", "max_block_size", h.cfg.MaxBlockSize)
	fmt.Fprintf(w, "%-20s : %d\n", "reserve_capacity", h.cfg.ReserveCapacity)
	fmt.Fprintf(w, "%-20s : %d\n", "min_split_size", h.cfg.MinSplitSize)
	fmt.Fprintf(w, "%-20s : %02x\n", "scribble_char", h.cfg.ScribbleChar)
	fmt.Fprintf(w, "regions:\n")
	for r := h.root; r != nil; r = r.next {
		dumpRegion(w, r)
	}
	c := h.ctr
	fmt.Fprintf(w, "counters:\n")
	fmt.Fprintf(w, "%-20s : %d\n", "region_allocs", c.RegionAllocs)
	fmt.Fprintf(w, "%-20s : %d\n", "region_frees", c.RegionFrees)
	fmt.Fprintf(w, "%-20s : %d\n", "total_allocs", c.TotalAllocs)
	fmt.Fprintf(w, "%-20s : %d\n", "total_frees", c.TotalFrees)
	fmt.Fprintf(w, "%-20s : %d\n", "large_block_allocs", c.LargeBlockAllocs)
	fmt.Fprintf(w, "%-20s : %d\n", "large_block_frees", c.LargeBlockFrees)
	fmt.Fprintf(w, "%-20s : %d\n", "bytes_used", c.BytesUsed)
	fmt.Fprintf(w, "%-20s : %d\n", "bytes_unused", c.BytesUnused)
	if c.CheckAmount != 0 {
		fmt.Fprintf(w, "%-20s : %d\n", "avg_blocks_checked", c.BlocksChecked/c.CheckAmount)
	}
	fmt.Fprintf(w, "peak util: %.2f\n", c.PeakUtilization)
	fmt.Fprintf(w, "---- lynxalloc debug info end ----\n")
}
