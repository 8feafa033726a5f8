// Package config collects the board-specific constants that the external
// hardware glue (UART, GIC, SD host controller — all out of this core's
// scope) would otherwise force into the middle of kernel logic. The core
// packages take a *BoardConfig as a parameter instead of importing any
// board package directly, mirroring the teacher's Syslimit_t: one
// constructed struct of knobs, built once at boot.
package config

/// BoardConfig carries the MMIO bases and frequencies a concrete board
/// (e.g. Raspberry Pi 3/4) supplies to the kernel core.
type BoardConfig struct {
	/// UARTBase is the physical address of the PL011/mini-UART.
	UARTBase uintptr
	/// GICDistBase is the physical base of the GIC distributor.
	GICDistBase uintptr
	/// GICCPUBase is the physical base of the GIC CPU interface.
	GICCPUBase uintptr
	/// IOBase is the first physical address of the device (MMIO) window;
	/// everything at or above it is mapped with device attributes in
	/// vm.BuildKernelTables.
	IOBase uintptr
	/// RAMSize is the amount of usable RAM reported by the board, used as
	/// a fallback when no ATAGS memory map is present.
	RAMSize uintptr
	/// TimerHz is the frequency of the ARM generic timer driving the
	/// scheduler's preemption tick.
	TimerHz uint64
	/// TickHz is how many times per second the scheduler should be
	/// invoked by the timer IRQ.
	TickHz uint64
}

/// DefaultBoardConfig returns the knobs for a Raspberry Pi 3 style board,
/// the reference target for this kernel.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		UARTBase:    0x3F201000,
		GICDistBase: 0x3F841000,
		GICCPUBase:  0x3F842000,
		IOBase:      0x3F000000,
		RAMSize:     0x3F000000,
		TimerHz:     19200000,
		TickHz:      100,
	}
}

/// TicksPerSlice returns the number of generic-timer ticks between
/// preemption interrupts.
func (b *BoardConfig) TicksPerSlice() uint64 {
	return b.TimerHz / b.TickHz
}
