package mem

import "unsafe"

// Grounded on original_source's pi/src/atags: the firmware leaves a
// linked list of tagged records at a fixed physical address describing
// installed RAM, the board revision, and the kernel command line. The
// bin allocator's bootstrap (§4.5) needs only the highest MEM tag's
// (start+size) to find the top of usable RAM.

const (
	atagNone = 0x00000000
	atagCore = 0x54410001
	atagMem  = 0x54410002
	atagCmd  = 0x54410009
)

// rawAtag mirrors the firmware's wire layout: a size (in 4-byte words,
// including this header) and tag id, followed by tag-specific words.
type rawAtag struct {
	sizeWords uint32
	tag       uint32
}

/// MemTag describes one ATAG_MEM record: a contiguous RAM region.
type MemTag struct {
	Size  uintptr
	Start Pa
}

/// ATAGBase is the fixed physical address at which the firmware leaves
/// the tag list before branching to the kernel.
const ATAGBase Pa = 0x100

/// WalkATags iterates the ATAGS linked list starting at base, invoking fn
/// for every ATAG_MEM record it encounters, until it reaches ATAG_NONE or
/// a malformed (zero-size) record.
func WalkATags(base Pa, fn func(MemTag)) {
	ptr := uintptr(P2V(base))
	for {
		hdr := (*rawAtag)(unsafe.Pointer(ptr))
		if hdr.sizeWords == 0 || hdr.tag == atagNone {
			return
		}
		if hdr.tag == atagMem {
			words := (*[2]uint32)(unsafe.Pointer(ptr + unsafe.Sizeof(rawAtag{})))
			fn(MemTag{Size: uintptr(words[0]), Start: Pa(words[1])})
		}
		ptr += uintptr(hdr.sizeWords) * 4
	}
}

/// HighestRAMEnd walks the ATAGS list rooted at base and returns the
/// highest (start+size) seen across every MEM tag, rounded down to a
/// page boundary, or fallback if no MEM tag was found.
func HighestRAMEnd(base Pa, fallback Pa) Pa {
	end := Pa(0)
	WalkATags(base, func(m MemTag) {
		top := m.Start + Pa(m.Size)
		if top > end {
			end = top
		}
	})
	if end == 0 {
		return fallback
	}
	return Pa(uintptr(end) &^ (uintptr(PGSIZE) - 1))
}
