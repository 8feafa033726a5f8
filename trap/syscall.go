package trap

import (
	"unsafe"

	"lainkern/console"
	"lainkern/defs"
	"lainkern/proc"
	"lainkern/sched"
)

// CurrentTime returns microseconds since boot, backed by the board's
// free-running timer (out of scope); board glue installs this before
// the scheduler starts. sysSleep's deadline math is defined in terms of
// it.
var CurrentTime func() uint64

// Handler is a single supervisor-call implementation. It is responsible
// for leaving a status in x7 (and any return value in x0) unless it
// blocks the caller via sched.Switch, in which case tf's contents
// belong to whichever process the scheduler hands the CPU to next.
type Handler func(tf *proc.TrapFrame, current *proc.Process)

// syscallTable is the supervisor-call table described in §4.4, numbered
// 1 through 4.
var syscallTable = map[uint16]Handler{
	1: sysSleep,
	2: sysPrint,
	3: sysExit,
	4: sysReadByte,
}

/// Handle looks up num in the supervisor-call table and runs it. An
/// unknown number leaves ENOTSUP in x7 and resumes the caller.
func Handle(num uint16, tf *proc.TrapFrame, current *proc.Process) {
	h, ok := syscallTable[num]
	if !ok {
		tf.X7 = uint64(defs.ENOTSUP)
		return
	}
	h(tf, current)
}

// sysSleep blocks the caller via Waiting until CurrentTime() has
// advanced past the requested number of milliseconds, then leaves the
// approximate elapsed time (in ms) in x0, per §4.4's table.
func sysSleep(tf *proc.TrapFrame, current *proc.Process) {
	ms := uint64(uint32(tf.X0))
	start := CurrentTime()
	deadline := start + 1000*ms

	predicate := func(p *proc.Process) bool {
		now := CurrentTime()
		if now < deadline {
			return false
		}
		elapsed := (now - start) / 1000
		if elapsed > ms {
			elapsed = ms
		}
		p.TrapFrame.X0 = elapsed
		p.TrapFrame.X7 = 0
		return true
	}
	sched.Switch(proc.WaitingState(predicate), tf)
}

// sysPrint writes x1 bytes starting at the user pointer in x0 through
// the kernel console. The calling process's own translation tables are
// still current in TTBR0 at trap time, so the pointer is dereferenced
// directly; no copy-in step is needed (or, per this core's non-goals,
// validated).
func sysPrint(tf *proc.TrapFrame, current *proc.Process) {
	ptr := uintptr(tf.X0)
	length := uintptr(tf.X1)
	buf := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length)
	console.Write(buf)
	tf.X7 = 0
}

// sysExit transitions the caller to Exit(code); it never returns to the
// caller's own frame.
func sysExit(tf *proc.TrapFrame, current *proc.Process) {
	code := int(int32(tf.X0))
	sched.Switch(proc.ExitState(code), tf)
}

// sysReadByte blocks via Waiting until a byte is available on the
// console, then leaves it in x0.
func sysReadByte(tf *proc.TrapFrame, current *proc.Process) {
	predicate := func(p *proc.Process) bool {
		b, ok := console.TryReadByte()
		if !ok {
			return false
		}
		p.TrapFrame.X0 = uint64(b)
		p.TrapFrame.X7 = 0
		return true
	}
	sched.Switch(proc.WaitingState(predicate), tf)
}
