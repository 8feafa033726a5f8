package trap

import (
	"lainkern/console"
	"lainkern/mem"
	"lainkern/proc"
	"lainkern/sched"
)

// IRQSource names a hardware interrupt line. TimerIRQ is the only one
// this core gives special treatment (rearm + preempt); everything else
// is routed through the RegisterIRQ registry.
type IRQSource int

const TimerIRQ IRQSource = 1

// IRQHandler is invoked for any non-timer interrupt registered via
// RegisterIRQ.
type IRQHandler func(tf *proc.TrapFrame)

var irqHandlers = map[IRQSource]IRQHandler{}

/// RegisterIRQ installs handler for source, replacing any previous
/// registration for the same source. Grounded on original_source's
/// irq.rs, which the distilled spec reduces to "dispatch to registered
/// driver" without naming how drivers register; this supplements that
/// with an open map instead of a fixed match-arm list per interrupt,
/// since the UART/GPIO/SD drivers this core treats as external
/// collaborators need somewhere to hook in.
func RegisterIRQ(source IRQSource, handler IRQHandler) {
	irqHandlers[source] = handler
}

// RearmTimerTick reprograms the periodic system timer compare. Board
// glue (out of scope) installs this; Dispatch calls it before every
// timer preemption.
var RearmTimerTick func()

/// Dispatch is the single entry point for an exception taken while
/// running a user process, per §4.4's table. far is the faulting
/// virtual address from FAR_EL1, meaningful only for Data/Instruction
/// aborts. irq names the interrupt line when kind is IRQ. current is the
/// process tf belongs to.
func Dispatch(source Source, kind Kind, esr uint32, far mem.Va, irq IRQSource, tf *proc.TrapFrame, current *proc.Process) {
	syn := DecodeSyndrome(esr)

	if source == LowerAArch64 {
		switch kind {
		case Synchronous:
			switch syn.Class {
			case Svc:
				Handle(syn.Imm, tf, current)
				return
			case Brk:
				console.Printf("--- BRK %d at %#08x\n", syn.Imm, tf.ELR)
				tf.ELR += 4
				return
			case DataAbort, InstructionAbort:
				handleAbort(syn, far, tf, current)
				return
			}
		case IRQ:
			if irq == TimerIRQ {
				if RearmTimerTick != nil {
					RearmTimerTick()
				}
				sched.Switch(proc.ReadyState(), tf)
				return
			}
			if h, ok := irqHandlers[irq]; ok {
				h(tf)
				return
			}
		}
	}

	console.Printf("trap: unhandled %v/%v esr=%#08x far=%#x\n", source, kind, esr, far)
	panic("trap: unhandled exception")
}

// handleAbort services a translation fault on a mapped area by calling
// into the faulting process's Memory; any other fault class, or a fault
// outside every area, terminates the process and yields the CPU.
func handleAbort(syn Syndrome, far mem.Va, tf *proc.TrapFrame, current *proc.Process) {
	if syn.Fault == FaultTranslation {
		if errv := current.Memory.HandlePageFault(far); errv.Ok() {
			return
		}
	}
	current.State = proc.ExitState(-1)
	sched.Switch(proc.ExitState(-1), tf)
}

func (s Source) String() string {
	switch s {
	case CurrentSp0:
		return "CurrentSp0"
	case CurrentSpX:
		return "CurrentSpX"
	case LowerAArch64:
		return "LowerAArch64"
	case LowerAArch32:
		return "LowerAArch32"
	default:
		return "Source(?)"
	}
}

func (k Kind) String() string {
	switch k {
	case Synchronous:
		return "Synchronous"
	case IRQ:
		return "IRQ"
	case FIQ:
		return "FIQ"
	case SError:
		return "SError"
	default:
		return "Kind(?)"
	}
}
