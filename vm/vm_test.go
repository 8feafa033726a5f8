package vm

import (
	"unsafe"

	"lainkern/mem"
)

// fakeAlloc is a host-backed mem.Page_i: frames are ordinary Go heap
// buffers, over-allocated by one page/huge-frame and rounded up so the
// returned address is aligned. Pa values are not real physical
// addresses; they are chosen so that mem.P2V's fixed-offset translation
// (pa + mem.KernelBase) lands back on the buffer's real address, letting
// code written against mem.P2V run unmodified against host memory in a
// test binary.
type fakeAlloc struct {
	pageBufs []([]byte)
	hugeBufs []([]byte)
}

func alignUp(addr, align uintptr) uintptr {
	return (addr + align - 1) &^ (align - 1)
}

func (f *fakeAlloc) AllocPage() (mem.Pa, bool) {
	buf := make([]byte, 2*mem.PGSIZE)
	f.pageBufs = append(f.pageBufs, buf)
	addr := alignUp(uintptr(unsafe.Pointer(&buf[0])), mem.PGSIZE)
	return mem.Pa(addr - mem.KernelBase), true
}

func (f *fakeAlloc) AllocHugePage() (mem.Pa, bool) {
	buf := make([]byte, 2*mem.HUGEPGSIZE)
	f.hugeBufs = append(f.hugeBufs, buf)
	addr := alignUp(uintptr(unsafe.Pointer(&buf[0])), mem.HUGEPGSIZE)
	return mem.Pa(addr - mem.KernelBase), true
}

func (f *fakeAlloc) FreePage(mem.Pa)     {}
func (f *fakeAlloc) FreeHugePage(mem.Pa) {}
