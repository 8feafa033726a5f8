package vm

import (
	"sync"

	"lainkern/defs"
	"lainkern/mem"
)

/// Memory is a per-process address space: the L1 root table plus its
/// list of areas, per §3. The embedded mutex protects Areas and every
/// edit to the tables reachable from Root, mirroring the teacher's
/// Vm_t.Lock_pmap/Unlock_pmap discipline around every walk.
type Memory struct {
	sync.Mutex

	Root  *Table
	RootPA mem.Pa
	Areas []Area

	alloc mem.Page_i
}

/// Create returns a new empty Memory with a zeroed L1 root, per §4.1's
/// create() operation.
func Create(alloc mem.Page_i) (*Memory, defs.Err_t) {
	pa, ok := alloc.AllocPage()
	if !ok {
		return nil, defs.ENOMEM
	}
	return &Memory{Root: tableAt(pa), RootPA: pa, alloc: alloc}, 0
}

/// TTBR returns the physical address of the L1 root, to be loaded into
/// the translation-base register.
func (m *Memory) TTBR() mem.Pa {
	return m.RootPA
}

/// AddArea installs area, per §4.1's add_area(). If area carries a
/// backing PA it is eagerly mapped: 2 MiB blocks when both the virtual
/// and physical start are 2 MiB aligned and the remaining span is at
/// least 2 MiB, else 4 KiB pages. Sub-tables are allocated on demand. A
/// lazy area (no backing PA) writes no leaf descriptors; handle_page_fault
/// supplies them later.
func (m *Memory) AddArea(area Area) defs.Err_t {
	m.Lock()
	defer m.Unlock()

	for _, existing := range m.Areas {
		if overlap(existing, area) {
			panic("vm: overlapping areas")
		}
	}
	m.Areas = append(m.Areas, area)

	if !area.BackingSet {
		return 0
	}

	va := area.Start
	pa := area.Backing
	for va < area.End {
		remaining := area.End - va
		if va.HugeAligned() && pa.HugeAligned() && remaining >= mem.Va(mem.HUGEPGSIZE) {
			if err := m.mapBlock(va, pa, area.Attrs); err != 0 {
				return err
			}
			va += mem.Va(mem.HUGEPGSIZE)
			pa += mem.Pa(mem.HUGEPGSIZE)
		} else {
			if err := m.mapPage(va, pa, area.Attrs); err != 0 {
				return err
			}
			va += mem.Va(mem.PGSIZE)
			pa += mem.Pa(mem.PGSIZE)
		}
	}
	return 0
}

func overlap(a, b Area) bool {
	return a.Start < b.End && b.Start < a.End
}

// mapBlock installs a 2 MiB block descriptor at va, allocating the L2
// table that owns it if necessary. m.Root is the process's L1 table, so
// the block itself lands one descent below root, in the L2 table —
// matching the kernel's own static bootstrap (boot.go: kernelL1[0] ->
// kernelL2, 2 MiB blocks written directly into kernelL2).
func (m *Memory) mapBlock(va mem.Va, pa mem.Pa, a Attrs) defs.Err_t {
	idx := indexAt(va, 1)
	e := m.Root[idx]
	if !e.IsValid() {
		npa, ok := m.alloc.AllocPage()
		if !ok {
			return defs.ENOMEM
		}
		e = TableEntry(npa)
		m.Root[idx] = e
	} else if !e.IsTable() {
		return defs.EINVAL
	}
	l2 := tableAt(e.Addr())
	l2[indexAt(va, 2)] = BlockEntry(pa, a)
	return 0
}

// mapPage installs a 4 KiB page descriptor at va, allocating any missing
// intermediate tables.
func (m *Memory) mapPage(va mem.Va, pa mem.Pa, a Attrs) defs.Err_t {
	l3, ok := walkCreate(m.Root, va, m.alloc)
	if !ok {
		return defs.ENOMEM
	}
	l3[indexAt(va, 3)] = PageEntry(pa, a)
	return 0
}

/// FindArea returns the first area whose half-open range contains va, or
/// false if none does, per §4.1's find_area().
func (m *Memory) FindArea(va mem.Va) (Area, bool) {
	m.Lock()
	defer m.Unlock()
	return m.findAreaLocked(va)
}

func (m *Memory) findAreaLocked(va mem.Va) (Area, bool) {
	for _, a := range m.Areas {
		if a.Contains(va) {
			return a, true
		}
	}
	return Area{}, false
}

/// HandlePageFault looks up the area owning va; if none, returns EFAULT
/// (the caller terminates the faulting process). Otherwise it allocates
/// a zeroed page, walks (and if necessary extends) the table, and writes
/// a page descriptor with the area's attributes, per §4.1's
/// handle_page_fault(). A second access to the same va never calls this
/// again (§8 property 7).
func (m *Memory) HandlePageFault(va mem.Va) defs.Err_t {
	aligned := mem.Va(uintptr(va) &^ (uintptr(mem.PGSIZE) - 1))

	m.Lock()
	defer m.Unlock()

	area, ok := m.findAreaLocked(aligned)
	if !ok {
		return defs.EFAULT
	}
	pa, ok := m.alloc.AllocPage()
	if !ok {
		return defs.ENOMEM
	}
	if err := m.mapPage(aligned, pa, area.Attrs); err != 0 {
		return err
	}
	// A fault can only be served by a stale negative TLB entry for
	// aligned (no other CPU can have cached the leaf we just installed),
	// so a targeted invalidate is enough — no need for InvalidateAll.
	InvalidateVA(aligned)
	return 0
}

/// Destroy recursively frees every owned table and frame reachable from
/// Root, then the root table itself, per §3's Memory ownership
/// invariant. The caller must ensure no other CPU is using this address
/// space's TTBR.
func (m *Memory) Destroy() {
	m.Lock()
	defer m.Unlock()
	freeRecursive(m.Root, 1, m.alloc)
	m.alloc.FreePage(m.RootPA)
}
