// Package lynxalloc implements a general-purpose heap allocator on top of
// anonymous virtual-memory mappings obtained directly from the kernel.
//
// Requests at or below the configured maximum block size are served from
// fixed-size, address-aligned regions. Inside a region, blocks carry a
// header/footer pair (boundary tags) encoding their size and status, and
// every region threads its free blocks into an explicit doubly-linked free
// list. Allocation is first-fit across regions, with eager coalescing of
// neighbors on free and whole-region reclamation once a region holds no used
// blocks. Requests above the maximum block size get a standalone mapping of
// their own and bypass the region machinery entirely.
//
// The allocator hands out raw payload pointers and operates on raw mapped
// memory; everything outside this package interacts with it only through
// those opaque pointers.
//
// IMPORTANT: this package is NOT goroutine-safe. All heap state is expected
// to be touched by exactly one goroutine at a time; callers that share a
// Heap across goroutines must serialize access themselves.
package lynxalloc
