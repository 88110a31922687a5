package lynxalloc

import "unsafe"

// wordSize is the width of a block header word. Headers are pointer-sized so
// that the free-list links stored in a free block's payload line up on word
// boundaries.
const wordSize = unsafe.Sizeof(uintptr(0))

// Block sizes are always multiples of 16, which leaves the low four bits of
// every header word free for status flags.
const (
	usedFlag  = 0x1 // block is allocated
	largeFlag = 0x2 // block is a standalone mapping, not part of a region
	flagMask  = 0xf
)

// minBlockSize is the smallest span that can hold a free block: one header,
// one footer, and two payload words for the free-list links, rounded up to a
// multiple of 16.
const minBlockSize = 32

// block addresses a block by the location of its header word. The zero value
// means "no block".
type block uintptr

// toBlock recovers the block whose payload starts at ptr.
func toBlock(ptr unsafe.Pointer) block {
	return block(uintptr(ptr) - wordSize)
}

// header returns the block's header word.
func (b block) header() *uintptr {
	return (*uintptr)(unsafe.Pointer(b))
}

// size returns the total span of the block, including its own header and
// footer. The terminator block at the end of a region reports size zero.
func (b block) size() uintptr {
	return *b.header() &^ flagMask
}

// data returns the start of the block's payload.
func (b block) data() unsafe.Pointer {
	return unsafe.Pointer(uintptr(b) + wordSize)
}

// next returns the block immediately following b in address order. Calling
// next on the terminator returns b itself, since the terminator's size is
// zero.
func (b block) next() block {
	return block(uintptr(b) + b.size())
}

// footer returns the block's footer word, the last word of its span. The
// footer duplicates the header so that the block before a given header can be
// sized without walking the region.
func (b block) footer() *uintptr {
	return (*uintptr)(unsafe.Pointer(uintptr(b.next()) - wordSize))
}

// prevFooter returns the footer word of the block preceding b.
func (b block) prevFooter() *uintptr {
	return (*uintptr)(unsafe.Pointer(uintptr(b) - wordSize))
}

// prev returns the block immediately preceding b in address order. The
// leading sentinel of a region bounds this traversal.
func (b block) prev() block {
	return block(uintptr(b) - (*b.prevFooter() &^ flagMask))
}

func (b block) used() bool  { return *b.header()&usedFlag != 0 }
func (b block) free() bool  { return !b.used() }
func (b block) large() bool { return *b.header()&largeFlag != 0 }

// markUsed sets the used bit in both boundary tags.
func (b block) markUsed() {
	*b.header() |= usedFlag
	*b.footer() |= usedFlag
}

// markFree clears all flag bits in both boundary tags. Large blocks never go
// through here; they are unmapped instead of being recycled.
func (b block) markFree() {
	*b.header() &^= flagMask
	*b.footer() &^= flagMask
}

// setSize writes a fresh header/footer pair for a block spanning size bytes.
// All flag bits end up cleared, so the block reads as free afterwards.
func (b block) setSize(size uintptr) {
	*b.header() = size
	*b.footer() = size
}

// capacity returns the number of payload bytes the block can hand to a
// caller.
func (b block) capacity() uintptr {
	if b.large() {
		return b.size() - largeSlack
	}
	return b.size() - 2*wordSize
}

// Free blocks repurpose their first two payload words as the next/prev links
// of the region's free list.

func (b block) freeNext() block {
	return *(*block)(b.data())
}

func (b block) freePrev() block {
	return *(*block)(unsafe.Add(b.data(), wordSize))
}

func (b block) setFreeNext(n block) {
	*(*block)(b.data()) = n
}

func (b block) setFreePrev(p block) {
	*(*block)(unsafe.Add(b.data(), wordSize)) = p
}
