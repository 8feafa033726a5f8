// Package proc implements the process abstraction described in §4.2: a
// handle bundling a saved register context, a per-process address space,
// and a scheduling state.
package proc

import "lainkern/mem"

/// TrapFrame is the fixed-layout saved-register record described in §3.
/// Its field order matches the layout the trap entry/exit assembly glue
/// expects, grounded on original_source/kernel/src/traps/trap_frame.rs:
/// a small header (ELR, SPSR, SP, PID, TTBR, one reserved word) followed
/// by the general registers x1..x29, then x30 (the link register), then
/// x0 last. One TrapFrame is heap-allocated per
/// process so its address can be handed to the context-switch assembly.
type TrapFrame struct {
	ELR  uint64
	SPSR uint64
	SP   uint64
	PID  uint64

	TTBR     uint64
	reserved uint64

	X1  uint64
	X2  uint64
	X3  uint64
	X4  uint64
	X5  uint64
	X6  uint64
	X7  uint64
	X8  uint64
	X9  uint64
	X10 uint64
	X11 uint64
	X12 uint64
	X13 uint64
	X14 uint64
	X15 uint64
	X16 uint64
	X17 uint64
	X18 uint64
	X19 uint64
	X20 uint64
	X21 uint64
	X22 uint64
	X23 uint64
	X24 uint64
	X25 uint64
	X26 uint64
	X27 uint64
	X28 uint64
	X29 uint64

	X30 uint64 // link register
	X0  uint64
}

const lowerSpaceMask = 1<<48 - 1

/// SetELR stores entry as the return address, masked to the lower-half
/// (user) address space. entry must be 4-byte aligned; SetELR panics
/// otherwise, mirroring the original's assert on PC alignment.
func (tf *TrapFrame) SetELR(entry uintptr) {
	e := uint64(entry) & lowerSpaceMask
	if e%4 != 0 {
		panic("proc: entry point must be 4-byte aligned")
	}
	tf.ELR = e
}

/// SetTTBR packs asid and addr into the translation-base field per §4.2:
/// bit 0 set to mark the entry valid, the physical address in the middle
/// bits, and asid in the top 16 bits.
func (tf *TrapFrame) SetTTBR(asid uint16, addr mem.Pa) {
	tf.TTBR = uint64(asid)<<48 | uint64(addr) | 1
}
