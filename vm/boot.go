package vm

import (
	"unsafe"

	"lainkern/config"
	"lainkern/mem"
)

// Static, page-aligned kernel bootstrap tables. Per §9's "Static vs heap
// tables at boot" design note: the initial kernel address space is three
// static tables; every later Memory comes from the heap/page allocator.
// Grounded on original_source's kernel/src/vm/mod.rs::initialize(), which
// declares `static mut L1/L2/L3: Table<_>` and fills them by hand before
// enabling the MMU.
var (
	kernelL1 Table
	kernelL2 Table
	kernelL3 Table
)

/// KernelTables describes the statically-allocated kernel address space
/// built by BuildKernelTables.
type KernelTables struct {
	L1PA mem.Pa
}

// kernelImage carries the link-time boundaries of the kernel image; the
// (out-of-scope) board glue supplies these from the linker script.
type kernelImage struct {
	textStart mem.Pa
	dataStart mem.Pa
}

/// BuildKernelTables fills the static L1/L2/L3 tables per §4.1's
/// bootstrap description: the first gigabyte is mapped via L2 blocks (2
/// MiB each) with the data range execute-never and the text range
/// read-only; addresses at or beyond ioBase get device attributes. The
/// boot window 0..2 MiB is additionally covered by the L3 table at 4 KiB
/// grain with the same code/data split, so early low-memory code can run
/// before the upper-half window is live. board supplies the device-window
/// boundary (board.IOBase) instead of a bare literal, per config's "core
/// packages take a *BoardConfig as a parameter" convention.
func BuildKernelTables(textStart, dataStart mem.Pa, board *config.BoardConfig) *KernelTables {
	img := kernelImage{textStart: textStart, dataStart: dataStart}
	ioBase := mem.Pa(board.IOBase)

	kernelL1[0] = BorrowedTableEntry(mem.Pa(tablePA(&kernelL2)))
	kernelL2[0] = BorrowedTableEntry(mem.Pa(tablePA(&kernelL3)))

	for n := 1; n < entriesPerTable; n++ {
		addr := mem.Pa(n) * mem.Pa(mem.HUGEPGSIZE)
		attrs := RW
		if addr >= ioBase {
			attrs = Device
		}
		kernelL2[n] = BlockEntry(addr, attrs)
		kernelL2[n] = clearNeedDrop(kernelL2[n])
	}

	for n := 0; n < entriesPerTable; n++ {
		addr := mem.Pa(n) * mem.Pa(mem.PGSIZE)
		var attrs Attrs
		if addr < img.textStart || addr >= img.dataStart {
			attrs = RW
		} else {
			attrs = RX
		}
		kernelL3[n] = clearNeedDrop(PageEntry(addr, attrs))
	}

	return &KernelTables{L1PA: mem.Pa(tablePA(&kernelL1))}
}

func clearNeedDrop(e Entry) Entry {
	return e &^ entryNeedDrop
}

// tablePA returns the physical address backing a statically-allocated
// table. Static kernel data lives in the kernel's identity-mapped low
// region, so its physical address is its virtual address with the
// kernel window bit cleared.
func tablePA(t *Table) uintptr {
	va := mem.Va(uintptr(unsafe.Pointer(t)))
	if va.IsKernel() {
		return uintptr(mem.V2P(va))
	}
	return uintptr(va)
}
