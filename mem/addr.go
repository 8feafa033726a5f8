// Package mem provides the untyped storage the rest of the kernel is built
// from: physical/virtual address types, the page and huge-frame allocator,
// and the general-purpose kernel heap. It is grounded on the teacher's
// mem package (Pa_t, Physmem_t, Page_i) with the x86 PML4/CR3 mechanism
// replaced by the linear kernel-offset translation this spec's §3 data
// model requires.
package mem

import "lainkern/util"

/// PGSHIFT is the base-2 exponent for the page size.
const PGSHIFT uint = 12

/// PGSIZE is the size of a single 4 KiB page in bytes.
const PGSIZE uintptr = 1 << PGSHIFT

/// PGOFFSET masks the in-page offset bits of an address.
const PGOFFSET uintptr = PGSIZE - 1

/// PGMASK masks the page-aligned portion of an address.
const PGMASK uintptr = ^PGOFFSET

/// HUGEPGSHIFT is the base-2 exponent for a 2 MiB huge frame.
const HUGEPGSHIFT uint = 21

/// HUGEPGSIZE is 2 MiB, the size of one huge frame (512 pages).
const HUGEPGSIZE uintptr = 1 << HUGEPGSHIFT

/// KernelBase is the start of the upper-half kernel virtual address
/// window (the high bit group set, per §3: 0xFFFFFF80_00000000..end).
const KernelBase uintptr = 0xFFFFFF8000000000

/// Pa represents a physical address. It is a distinct type from Va so the
/// compiler polices translation direction, as the data model requires.
type Pa uintptr

/// Va represents a virtual address.
type Va uintptr

/// Aligned reports whether pa falls on a page boundary.
func (pa Pa) Aligned() bool {
	return uintptr(pa)&PGOFFSET == 0
}

/// HugeAligned reports whether pa falls on a 2 MiB boundary.
func (pa Pa) HugeAligned() bool {
	return uintptr(pa)&(HUGEPGSIZE-1) == 0
}

/// Aligned reports whether va falls on a page boundary.
func (va Va) Aligned() bool {
	return uintptr(va)&PGOFFSET == 0
}

/// HugeAligned reports whether va falls on a 2 MiB boundary.
func (va Va) HugeAligned() bool {
	return uintptr(va)&(HUGEPGSIZE-1) == 0
}

/// Roundup rounds pa up to the next page boundary.
func (pa Pa) Roundup() Pa {
	return Pa(util.Roundup(uintptr(pa), PGSIZE))
}

/// Roundup rounds va up to the next page boundary.
func (va Va) Roundup() Va {
	return Va(util.Roundup(uintptr(va), PGSIZE))
}

/// IsKernel reports whether va lies in the upper-half kernel window.
func (va Va) IsKernel() bool {
	return uintptr(va) >= KernelBase
}

/// P2V translates a physical address to its kernel virtual alias via the
/// fixed linear offset. It performs no range check: the sum is computed
/// as is and wraps around for a pa that lies outside the kernel window's
/// reach (the host-side tests rely on this wraparound).
func P2V(pa Pa) Va {
	return Va(uintptr(pa) + KernelBase)
}

/// V2P translates a kernel virtual address back to its physical address.
/// It panics if va is not inside the kernel window.
func V2P(va Va) Pa {
	if !va.IsKernel() {
		panic("v2p: address is not in the kernel window")
	}
	return Pa(uintptr(va) - KernelBase)
}
