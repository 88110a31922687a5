package lynxalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReallocNilIsAlloc(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Realloc(nil, 100)
	require.NotNil(t, p)
	require.EqualValues(t, 1, h.Counters().TotalAllocs)
	h.Free(p)
}

func TestReallocZeroIsFree(t *testing.T) {
	h := newHeap(t, testConfig)
	anchor := h.Alloc(24)
	p := h.Alloc(100)
	require.Nil(t, h.Realloc(p, 0))
	require.EqualValues(t, 1, h.Counters().TotalFrees)
	h.Free(anchor)
}

func TestReallocShrinkIsNoop(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(100)
	fillBytes(p, 100, 0xAB)

	q := h.Realloc(p, 50)
	require.Equal(t, p, q, "small shrink must not move the block")
	requireBytes(t, q, 50, 0xAB)
	h.Free(q)
}

func TestReallocGrowCopiesPayload(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(40)
	fillBytes(p, 40, 0x5A)

	q := h.Realloc(p, 500)
	require.NotNil(t, q)
	require.NotEqual(t, p, q)
	requireBytes(t, q, 40, 0x5A)
	require.EqualValues(t, 1, h.Counters().TotalFrees, "old block should be freed")
	h.Free(q)
}

func TestReallocGrowIntoLarge(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(100)
	fillBytes(p, 100, 0x77)

	q := h.Realloc(p, 10000)
	require.NotNil(t, q)
	require.True(t, toBlock(q).large())
	requireBytes(t, q, 100, 0x77)
	require.EqualValues(t, 1, h.Counters().LargeBlockAllocs)
	h.Free(q)
}

func TestReallocLargeShrinkStaysPut(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(8192)
	require.True(t, toBlock(p).large())

	// Shrinking to a size still above the small-path limit keeps the mapping.
	q := h.Realloc(p, 4000)
	require.Equal(t, p, q)
	require.True(t, toBlock(q).large())
	h.Free(q)
}

func TestReallocLargeRelocatesToSmall(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(8192)
	require.True(t, toBlock(p).large())
	fillBytes(p, 100, 0x33)

	q := h.Realloc(p, 100)
	require.NotNil(t, q)
	require.False(t, toBlock(q).large(), "comfortably small resize should leave the large path")
	requireBytes(t, q, 100, 0x33)
	c := h.Counters()
	require.EqualValues(t, 1, c.LargeBlockFrees)
	require.EqualValues(t, 1, c.TotalAllocs)
	h.Free(q)
}

func TestReallocArrayOverflow(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(64)
	fillBytes(p, 64, 0x11)
	before := h.Counters()

	q := h.ReallocArray(p, ^uintptr(0), 2)
	require.Nil(t, q)
	require.ErrorIs(t, h.Err(), ErrOutOfMemory)
	requireBytes(t, p, 64, 0x11)

	after := h.Counters()
	require.Equal(t, before, after, "overflow must not touch the heap")
	h.Free(p)
}

func TestReallocArrayOverflowWithNilPointer(t *testing.T) {
	h := newHeap(t, testConfig)
	q := h.ReallocArray(nil, ^uintptr(0), 2)
	require.Nil(t, q)
	require.ErrorIs(t, h.Err(), ErrOutOfMemory)
	require.Zero(t, h.Counters().RegionAllocs, "no mapping may be created")
}

func TestReallocArrayDelegates(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.ReallocArray(nil, 8, 16)
	require.NotNil(t, p)
	require.GreaterOrEqual(t, toBlock(p).capacity(), uintptr(128))
	require.NoError(t, h.Err())
	h.Free(p)
}
