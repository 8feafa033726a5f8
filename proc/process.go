package proc

import (
	"lainkern/defs"
	"lainkern/mem"
	"lainkern/vm"
)

// stackBottom is the fixed virtual address of every process's 1 MiB user
// stack, grounded on original_source/kernel/src/process/process.rs's
// hardcoded `4 * 0x4000_0000`.
const stackBottom = mem.Va(4 * 0x4000_0000)

// StackSize is the default per-process stack size, grounded on
// original_source's Stack::SIZE.
const StackSize = mem.Va(1 << 20)

/// KernelLayout carries the boundaries New seeds the standard kernel
/// areas from: text (RX), data (RW), and the MMIO device window. The
/// (out-of-scope) board glue supplies these from the linker script and
/// config.BoardConfig.
type KernelLayout struct {
	TextStart mem.Va
	DataStart mem.Va
	KernelEnd mem.Va
	IOBase    mem.Va
	IOEnd     mem.Va
}

/// Process is the handle described in §3: a trap frame, a scheduling
/// state, and an address space. Fields are exported because the
/// scheduler and trap dispatcher must reach into TrapFrame directly to
/// perform a context switch; this mirrors the teacher's Box<TrapFrame>
/// public field and tinfo.Tnote_t's exported state.
type Process struct {
	TrapFrame *TrapFrame
	State     State
	Memory    *vm.Memory
	Accnt     Accnt
}

/// New constructs a fresh process per §4.2: a zeroed trap frame, a new
/// Memory seeded with the standard areas (kernel text RX, kernel data
/// RW, device window, and a lazy 1 MiB user stack), SP set to the stack
/// top, and TTBR stamped into the trap frame. Returns state Ready.
func New(alloc mem.Page_i, layout KernelLayout) (*Process, defs.Err_t) {
	mm, errv := vm.Create(alloc)
	if errv != 0 {
		return nil, errv
	}

	if errv := mm.AddArea(vm.NewBackedArea(layout.TextStart, layout.DataStart, vm.RX, mem.V2P(layout.TextStart))); errv != 0 {
		return nil, errv
	}
	if errv := mm.AddArea(vm.NewBackedArea(layout.DataStart, layout.KernelEnd, vm.RW, mem.V2P(layout.DataStart))); errv != 0 {
		return nil, errv
	}
	if errv := mm.AddArea(vm.NewBackedArea(layout.IOBase, layout.IOEnd, vm.Device, mem.V2P(layout.IOBase))); errv != 0 {
		return nil, errv
	}

	stackTop := stackBottom + StackSize
	if errv := mm.AddArea(vm.NewArea(stackBottom, stackTop, vm.RW)); errv != 0 {
		return nil, errv
	}

	tf := &TrapFrame{}
	tf.SP = uint64(stackTop)
	tf.SetTTBR(0, mm.TTBR())

	return &Process{TrapFrame: tf, State: ReadyState(), Memory: mm}, 0
}

/// WithEntry composes New with pointing the trap frame's ELR at entry.
func WithEntry(alloc mem.Page_i, layout KernelLayout, entry uintptr) (*Process, defs.Err_t) {
	p, errv := New(alloc, layout)
	if errv != 0 {
		return nil, errv
	}
	p.TrapFrame.SetELR(entry)
	return p, 0
}

/// IsReady drives the Ready predicate per §4.2: true if State is Ready,
/// or if State is Waiting and its predicate now holds (in which case
/// State transitions to Ready). Returns false for Running and Exit.
func (p *Process) IsReady() bool {
	switch p.State.Kind {
	case Ready:
		return true
	case Waiting:
		if p.State.Predicate(p) {
			p.State = ReadyState()
			return true
		}
		return false
	default:
		return false
	}
}

/// SetId stamps id into the trap frame's PID field. A zero id marks the
/// process as not enqueued in any scheduler.
func (p *Process) SetId(id Id) {
	p.TrapFrame.PID = uint64(id)
}

/// Id returns the process's id and whether it is valid (non-zero).
func (p *Process) Id() (Id, bool) {
	id := Id(p.TrapFrame.PID)
	return id, id.Valid()
}
