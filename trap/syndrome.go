// Package trap implements the single entry point for synchronous and
// asynchronous exceptions described in §4.4, grounded on
// original_source/kernel/src/traps/{mod,syndrome,irq,syscall}.rs and, for
// the console-backed diagnostics, on the teacher's caller.Callerdump /
// fmt.Printf style of reporting an unexpected trap.
package trap

// Source identifies which execution state the exception was taken from.
type Source int

const (
	CurrentSp0   Source = iota // exception from EL1 using SP_EL0
	CurrentSpX                 // exception from EL1 using SP_EL1
	LowerAArch64               // exception from EL0, AArch64
	LowerAArch32               // exception from EL0, AArch32
)

// Kind identifies the exception class.
type Kind int

const (
	Synchronous Kind = iota
	IRQ
	FIQ
	SError
)

// Fault decodes the data/instruction-fault status bits (ESR bits 0..5).
type Fault int

const (
	FaultAddressSize Fault = iota
	FaultTranslation
	FaultAccessFlag
	FaultPermission
	FaultAlignment
	FaultTLBConflict
	FaultOther
)

func decodeFault(esr uint32) Fault {
	switch esr & 0b111111 {
	case 0b000000, 0b000001, 0b000010, 0b000011:
		return FaultAddressSize
	case 0b000100, 0b000101, 0b000110, 0b000111:
		return FaultTranslation
	case 0b001000, 0b001001, 0b001010, 0b001011:
		return FaultAccessFlag
	case 0b001101, 0b001110, 0b001111:
		return FaultPermission
	case 0b100001:
		return FaultAlignment
	case 0b110000:
		return FaultTLBConflict
	default:
		return FaultOther
	}
}

// SyndromeClass names the upper ESR_ELx.EC field value (bits 26..31).
type SyndromeClass int

const (
	Unknown SyndromeClass = iota
	Svc
	Brk
	InstructionAbort
	DataAbort
	Other
)

// Syndrome is the decoded form of the exception syndrome register,
// reduced to what the dispatch table in §4.4 actually branches on.
type Syndrome struct {
	Class SyndromeClass
	Imm   uint16 // valid for Svc and Brk
	Fault Fault  // valid for InstructionAbort and DataAbort
	Level uint8  // valid for InstructionAbort and DataAbort
	Raw   uint32
}

// DecodeSyndrome classifies a raw ESR_ELx value (ref: AArch64 ESR_ELx.EC
// encoding, D1.10.4 in the architecture reference manual).
func DecodeSyndrome(esr uint32) Syndrome {
	ec := esr >> 26
	switch ec {
	case 0b010001, 0b010101:
		return Syndrome{Class: Svc, Imm: uint16(esr), Raw: esr}
	case 0b111000, 0b111100:
		return Syndrome{Class: Brk, Imm: uint16(esr), Raw: esr}
	case 0b100000, 0b100001:
		return Syndrome{Class: InstructionAbort, Fault: decodeFault(esr), Level: uint8(esr & 0b11), Raw: esr}
	case 0b100100, 0b100101:
		return Syndrome{Class: DataAbort, Fault: decodeFault(esr), Level: uint8(esr & 0b11), Raw: esr}
	default:
		return Syndrome{Class: Other, Raw: esr}
	}
}
