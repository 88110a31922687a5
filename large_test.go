package lynxalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLargeAllocation(t *testing.T) {
	h := newHeap(t, testConfig)
	p := h.Alloc(8192)
	require.NotNil(t, p)
	require.Zero(t, uintptr(p)%16)

	b := toBlock(p)
	require.True(t, b.large())
	require.Equal(t, next16(8192), b.size(), "large header stores the total mapping length")
	require.GreaterOrEqual(t, b.capacity(), uintptr(8192))

	c := h.Counters()
	require.EqualValues(t, 1, c.LargeBlockAllocs)
	require.Zero(t, c.RegionAllocs, "large path must not create regions")

	fillBytes(p, 8192, 0xEE)
	requireBytes(t, p, 8192, 0xEE)

	h.Free(p)
	c = h.Counters()
	require.EqualValues(t, 1, c.LargeBlockFrees)
}

func TestLargeBoundaryRouting(t *testing.T) {
	h := newHeap(t, testConfig)

	small := h.Alloc(h.cfg.MaxBlockSize)
	require.NotNil(t, small)
	require.False(t, toBlock(small).large(), "a request at the limit stays small")

	big := h.Alloc(h.cfg.MaxBlockSize + 1)
	require.NotNil(t, big)
	require.True(t, toBlock(big).large(), "one byte over the limit goes large")

	h.Free(small)
	h.Free(big)
}

func TestLargeBlocksAreIndependentMappings(t *testing.T) {
	h := newHeap(t, testConfig)
	p1 := h.Alloc(100000)
	p2 := h.Alloc(100000)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	require.NotEqual(t, p1, p2)

	// Freeing one mapping must leave the other intact.
	fillBytes(p2, 100000, 0x42)
	h.Free(p1)
	requireBytes(t, p2, 100000, 0x42)
	h.Free(p2)
}
