package mem

import (
	"sync"
	"unsafe"

	"lainkern/util"
)

/// MinBinShift and MaxBinShift bound the heap's size classes: 2^3 bytes
/// (the smallest block worth tracking) up to 2^34 bytes (16 GiB, far past
/// any single allocation this board will ever see), per §4.5.
const (
	MinBinShift = 3
	MaxBinShift = 34
	numBins     = MaxBinShift - MinBinShift + 1
)

// heapFreeNode is overlaid on a free block the same way freeNode is
// overlaid on a free page: the free list costs no side bookkeeping.
type heapFreeNode struct {
	next Va
}

/// Heap is the kernel's general-purpose allocator. It is a size-classed
/// bin allocator: Alloc always returns memory from bin ⌈log2(size)⌉: pop
/// the bin's free list if non-empty, else bump-allocate a new block off
/// the heap's own linear cursor and, when aligning the cursor skipped
/// some bytes below the new block, stash that padding into smaller bins
/// instead of wasting it. Free pushes onto the bin's free
/// list; coalescing is never attempted (§4.5).
type Heap struct {
	mu sync.Mutex

	bins [numBins]Va

	cursor Va
	end    Va
}

/// NewHeap creates a heap over the kernel-virtual range [start, end).
/// The range is normally the tail of the direct-mapped RAM window left
/// over after the page allocator's bootstrap region.
func NewHeap(start, end Va) *Heap {
	return &Heap{cursor: start, end: end}
}

func binFor(size uintptr) int {
	shift := MinBinShift
	sz := uintptr(1) << uint(shift)
	for sz < size {
		shift++
		sz <<= 1
	}
	return shift - MinBinShift
}

func binSize(bin int) uintptr {
	return uintptr(1) << uint(bin+MinBinShift)
}

/// Alloc rounds size up to align, then up to the next power of two, and
/// returns a block from the matching bin, or false if the heap is
/// exhausted.
func (h *Heap) Alloc(size, align uintptr) (Va, bool) {
	if align > 0 {
		size = util.Roundup(size, align)
	}
	if size < 1<<MinBinShift {
		size = 1 << MinBinShift
	}
	bin := binFor(size)
	if bin >= numBins {
		return 0, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocBin(bin)
}

// allocBin must be called with h.mu held.
func (h *Heap) allocBin(bin int) (Va, bool) {
	if h.bins[bin] != 0 {
		blk := h.bins[bin]
		n := (*heapFreeNode)(unsafe.Pointer(uintptr(blk)))
		h.bins[bin] = n.next
		return blk, true
	}

	sz := binSize(bin)
	aligned := Va(util.Roundup(uintptr(h.cursor), sz))
	if aligned+Va(sz) > h.end {
		return 0, false
	}
	leftover := aligned - h.cursor
	blk := aligned
	h.cursor = aligned + Va(sz)

	// Any alignment padding below blk is itself usable; fold it into
	// whichever bin it exactly fits, per §4.5's "recording leftover
	// fragments into smaller bins when convenient."
	h.stashLeftover(aligned-Va(leftover), leftover)

	return blk, true
}

func (h *Heap) stashLeftover(start Va, size Va) {
	for size >= 1<<MinBinShift {
		bin := numBins - 1
		for bin >= 0 && binSize(bin) > uintptr(size) {
			bin--
		}
		if bin < 0 {
			return
		}
		bsz := Va(binSize(bin))
		n := (*heapFreeNode)(unsafe.Pointer(uintptr(start)))
		n.next = h.bins[bin]
		h.bins[bin] = start
		start += bsz
		size -= bsz
	}
}

/// Free returns a block of size bytes (the same size the matching Alloc
/// was rounded up to) to its bin's free list.
func (h *Heap) Free(addr Va, size uintptr) {
	if size < 1<<MinBinShift {
		size = 1 << MinBinShift
	}
	bin := binFor(size)

	h.mu.Lock()
	defer h.mu.Unlock()
	n := (*heapFreeNode)(unsafe.Pointer(uintptr(addr)))
	n.next = h.bins[bin]
	h.bins[bin] = addr
}
