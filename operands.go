package m68000

// operandFlags tells the execution core what to do with an instruction's
// two operand slots before and after evaluation.
type operandFlags uint8

const (
	// opFetch0/1: resolve the operand and read its current value.
	opFetch0 operandFlags = 1 << iota
	opFetch1
	// opStore0/1: write the (possibly updated) value back.
	opStore0
	opStore1
	// opAddr0/1: resolve the effective address only; no data strobe.
	opAddr0
	opAddr1
)

// flagsFor returns the operand treatment for a descriptor. Operations with
// fully bespoke bus programs (MOVEM, MOVEP, flow control, system control)
// return zero and are sequenced by their dedicated execution states.
func flagsFor(i *Instruction) operandFlags {
	switch i.Op {
	case OpMOVE, OpMOVEA:
		return opFetch0 | opStore1

	case OpLEA:
		return opAddr0 | opStore1
	case OpPEA:
		return opAddr0

	case OpEXG:
		return opFetch0 | opFetch1 | opStore0 | opStore1

	case OpSWAP, OpEXT:
		return opFetch0 | opStore0

	case OpMOVEfromSR:
		// The 68000 reads a memory destination before rewriting it.
		return opFetch1 | opStore1
	case OpMOVEtoSR, OpMOVEtoCCR, OpMOVEtoUSP,
		OpORItoCCR, OpORItoSR, OpANDItoCCR, OpANDItoSR, OpEORItoCCR, OpEORItoSR:
		return opFetch0
	case OpMOVEfromUSP:
		return opStore0

	case OpADD, OpSUB, OpAND, OpOR, OpEOR,
		OpADDA, OpSUBA, OpADDX, OpSUBX, OpABCD, OpSBCD,
		OpMULU, OpMULS, OpDIVU, OpDIVS,
		OpBCHG, OpBCLR, OpBSET,
		OpASL, OpASR, OpLSL, OpLSR, OpROL, OpROR, OpROXL, OpROXR:
		return opFetch0 | opFetch1 | opStore1

	case OpCMP, OpCMPA, OpCHK, OpBTST:
		return opFetch0 | opFetch1

	case OpNEG, OpNEGX, OpCLR, OpNOT, OpNBCD, OpScc, OpTAS:
		// All read-modify-write on the destination, including CLR,
		// which performs a dead read on this processor.
		return opFetch0 | opStore0

	case OpTST:
		return opFetch0

	case OpJMP, OpJSR:
		return opAddr0
	}
	return 0
}
