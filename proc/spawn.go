package proc

import (
	"unsafe"

	"lainkern/defs"
	"lainkern/fat32"
	"lainkern/mem"
	"lainkern/ustr"
	"lainkern/util"
	"lainkern/vm"
)

// imageBase is the fixed virtual address a spawned file's contents are
// mapped at. The loader treats the file as a flat raw binary image;
// interpreting an ELF layout is out of scope, so every image starts
// executing at its first byte.
const imageBase = mem.Va(1 * 0x4000_0000)

// SpawnFromFile reads path in full from fs into a freshly created
// address space's RX region (sized to the file, rounded up to a page)
// and returns a process whose entry point is the region's base, per the
// supplemented process-loading path.
//
// Each page of the image gets its own backed area rather than one area
// spanning a single multi-page Backing PA: AllocPage gives no guarantee
// that successive frames are physically contiguous once its free lists
// hold returned pages, so the mapping must follow each frame
// individually.
func SpawnFromFile(fs *fat32.FS, path ustr.Ustr, alloc mem.Page_i, layout KernelLayout) (*Process, defs.Err_t) {
	entry, errv := fs.Open(path)
	if !errv.Ok() {
		return nil, errv
	}
	file, ok := entry.(fat32.File)
	if !ok {
		return nil, defs.ENOTDIR
	}

	size := file.Size()
	content := make([]byte, size)
	for read := uint64(0); read < size; {
		n, errv := file.Read(content[read:])
		if !errv.Ok() {
			return nil, errv
		}
		if n == 0 {
			break
		}
		read += uint64(n)
	}

	p, errv := New(alloc, layout)
	if errv != 0 {
		return nil, errv
	}

	pages := (size + uint64(mem.PGSIZE) - 1) / uint64(mem.PGSIZE)
	if pages == 0 {
		pages = 1
	}

	for i := uint64(0); i < pages; i++ {
		pa, ok := alloc.AllocPage()
		if !ok {
			return nil, defs.ENOMEM
		}

		frame := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(mem.P2V(pa)))), mem.PGSIZE)
		lo, hi := i*uint64(mem.PGSIZE), util.Min((i+1)*uint64(mem.PGSIZE), size)
		if lo < hi {
			copy(frame, content[lo:hi])
		}

		start := imageBase + mem.Va(i*uint64(mem.PGSIZE))
		end := start + mem.Va(mem.PGSIZE)
		if errv := p.Memory.AddArea(vm.NewBackedArea(start, end, vm.RX, pa)); errv != 0 {
			return nil, errv
		}
	}

	p.TrapFrame.SetELR(uintptr(imageBase))
	return p, 0
}
