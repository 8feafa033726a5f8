package mem

import (
	"runtime"
	"unsafe"
)

// newTestAllocator backs a PageAllocator with a real Go heap buffer
// instead of actual physical RAM, choosing start/end so that P2V's
// fixed-offset translation (pa + KernelBase) lands back on the buffer's
// real address. This lets AllocPage's zero-on-allocate write run
// unmodified in a hosted test binary. The returned buffer must be kept
// reachable (via runtime.KeepAlive) for as long as the allocator is used,
// since nothing else in the test references the backing buffer.
func newTestAllocator(pages int) (*PageAllocator, []byte) {
	buf := make([]byte, uintptr(pages+1)*PGSIZE)
	addr := (uintptr(unsafe.Pointer(&buf[0])) + PGSIZE - 1) &^ (PGSIZE - 1)
	start := Pa(addr - KernelBase)
	end := start + Pa(uintptr(pages)*PGSIZE)
	return NewPageAllocator(start, end), buf
}

// newTestHugeAllocator is newTestAllocator's huge-frame counterpart: the
// backing buffer must be large enough to cover hugePages huge frames
// plus one extra for alignment slack.
func newTestHugeAllocator(hugePages int) (*PageAllocator, []byte) {
	buf := make([]byte, uintptr(hugePages+1)*HUGEPGSIZE)
	addr := (uintptr(unsafe.Pointer(&buf[0])) + HUGEPGSIZE - 1) &^ (HUGEPGSIZE - 1)
	start := Pa(addr - KernelBase)
	end := start + Pa(uintptr(hugePages)*HUGEPGSIZE)
	return NewPageAllocator(start, end), buf
}
