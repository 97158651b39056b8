package m68000

// Operation identifies an MC68000 operation independent of operand size
// and addressing. Immediate and quick encodings decode to the same tag as
// their base operation, distinguished by the operand's addressing mode.
type Operation uint8

const (
	// Decode results that never execute.
	OpUndefined Operation = iota
	OpLineA               // reserved range 0xA000-0xAFFF
	OpLineF               // reserved range 0xF000-0xFFFF

	// Data movement.
	OpMOVE
	OpMOVEA
	OpLEA
	OpPEA
	OpMOVEMtoM
	OpMOVEMtoR
	OpMOVEPtoM
	OpMOVEPtoR
	OpEXG
	OpSWAP

	// Status register moves.
	OpMOVEfromSR
	OpMOVEtoSR
	OpMOVEtoCCR
	OpMOVEtoUSP
	OpMOVEfromUSP

	// Integer arithmetic.
	OpADD
	OpADDA
	OpADDX
	OpSUB
	OpSUBA
	OpSUBX
	OpCMP
	OpCMPA
	OpMULU
	OpMULS
	OpDIVU
	OpDIVS
	OpNEG
	OpNEGX
	OpCLR
	OpEXT
	OpCHK

	// Logic.
	OpAND
	OpOR
	OpEOR
	OpNOT
	OpTST
	OpTAS

	// Immediate to status.
	OpORItoCCR
	OpORItoSR
	OpANDItoCCR
	OpANDItoSR
	OpEORItoCCR
	OpEORItoSR

	// Binary-coded decimal.
	OpABCD
	OpSBCD
	OpNBCD

	// Bit manipulation.
	OpBTST
	OpBCHG
	OpBCLR
	OpBSET

	// Shifts and rotates.
	OpASL
	OpASR
	OpLSL
	OpLSR
	OpROL
	OpROR
	OpROXL
	OpROXR

	// Flow control.
	OpBcc
	OpBRA
	OpBSR
	OpDBcc
	OpScc
	OpJMP
	OpJSR
	OpRTS
	OpRTE
	OpRTR
	OpTRAP
	OpTRAPV
	OpLINK
	OpUNLK
	OpNOP
	OpSTOP
	OpRESET
)

var opNames = [...]string{
	OpUndefined: "undefined", OpLineA: "line-a", OpLineF: "line-f",
	OpMOVE: "move", OpMOVEA: "movea", OpLEA: "lea", OpPEA: "pea",
	OpMOVEMtoM: "movem", OpMOVEMtoR: "movem", OpMOVEPtoM: "movep", OpMOVEPtoR: "movep",
	OpEXG: "exg", OpSWAP: "swap",
	OpMOVEfromSR: "move from sr", OpMOVEtoSR: "move to sr", OpMOVEtoCCR: "move to ccr",
	OpMOVEtoUSP: "move to usp", OpMOVEfromUSP: "move from usp",
	OpADD: "add", OpADDA: "adda", OpADDX: "addx",
	OpSUB: "sub", OpSUBA: "suba", OpSUBX: "subx",
	OpCMP: "cmp", OpCMPA: "cmpa",
	OpMULU: "mulu", OpMULS: "muls", OpDIVU: "divu", OpDIVS: "divs",
	OpNEG: "neg", OpNEGX: "negx", OpCLR: "clr", OpEXT: "ext", OpCHK: "chk",
	OpAND: "and", OpOR: "or", OpEOR: "eor", OpNOT: "not", OpTST: "tst", OpTAS: "tas",
	OpORItoCCR: "ori to ccr", OpORItoSR: "ori to sr",
	OpANDItoCCR: "andi to ccr", OpANDItoSR: "andi to sr",
	OpEORItoCCR: "eori to ccr", OpEORItoSR: "eori to sr",
	OpABCD: "abcd", OpSBCD: "sbcd", OpNBCD: "nbcd",
	OpBTST: "btst", OpBCHG: "bchg", OpBCLR: "bclr", OpBSET: "bset",
	OpASL: "asl", OpASR: "asr", OpLSL: "lsl", OpLSR: "lsr",
	OpROL: "rol", OpROR: "ror", OpROXL: "roxl", OpROXR: "roxr",
	OpBcc: "bcc", OpBRA: "bra", OpBSR: "bsr", OpDBcc: "dbcc", OpScc: "scc",
	OpJMP: "jmp", OpJSR: "jsr", OpRTS: "rts", OpRTE: "rte", OpRTR: "rtr",
	OpTRAP: "trap", OpTRAPV: "trapv", OpLINK: "link", OpUNLK: "unlk",
	OpNOP: "nop", OpSTOP: "stop", OpRESET: "reset",
}

// String returns the operation's mnemonic.
func (op Operation) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "unknown"
}

// bitOperation reports the BTST/BCHG/BCLR/BSET family, whose operand
// size reflects the destination width rather than any immediate data.
func (op Operation) bitOperation() bool {
	switch op {
	case OpBTST, OpBCHG, OpBCLR, OpBSET:
		return true
	}
	return false
}

// AddrMode identifies how an operand is addressed.
type AddrMode uint8

const (
	ModeNone AddrMode = iota
	ModeDataRegister
	ModeAddressRegister
	ModeIndirect        // (An)
	ModePostIncrement   // (An)+
	ModePreDecrement    // -(An)
	ModeDisplacement    // d16(An)
	ModeIndexed         // d8(An,Xn)
	ModePCDisplacement  // d16(PC)
	ModePCIndexed       // d8(PC,Xn)
	ModeAbsoluteShort   // (xxx).W
	ModeAbsoluteLong    // (xxx).L
	ModeImmediate       // #imm in extension word(s)
	ModeQuick           // small immediate embedded in the opcode
)

// Indirect reports whether the operand resolves through a memory address.
func (m AddrMode) Indirect() bool {
	return m >= ModeIndirect && m <= ModeAbsoluteLong
}

// ExtensionWords returns how many extension words this mode consumes from
// the instruction stream for an operand of size sz.
func (m AddrMode) ExtensionWords(sz Size) int {
	switch m {
	case ModeDisplacement, ModeIndexed, ModePCDisplacement, ModePCIndexed, ModeAbsoluteShort:
		return 1
	case ModeAbsoluteLong:
		return 2
	case ModeImmediate:
		if sz == Long {
			return 2
		}
		return 1
	}
	return 0
}

// Instruction is the immutable descriptor a 16-bit opcode decodes to.
// Modes that consume extension words record only the mode here; the words
// themselves are fetched from the instruction stream at execution time, so
// a descriptor is safely cacheable per opcode value.
type Instruction struct {
	Op   Operation
	Size Size
	Mode [2]AddrMode
	Reg  [2]uint8

	// Quick holds the embedded immediate for ModeQuick operands, already
	// sign-extended where the operation calls for it.
	Quick uint32
}

// Valid reports whether the descriptor names an executable operation.
func (i Instruction) Valid() bool {
	return i.Op != OpUndefined && i.Op != OpLineA && i.Op != OpLineF
}

// RequiresSupervisor reports whether executing this instruction in user
// mode must raise a privilege violation.
func (i Instruction) RequiresSupervisor() bool {
	switch i.Op {
	case OpSTOP, OpRESET, OpRTE, OpMOVEtoSR, OpANDItoSR, OpORItoSR, OpEORItoSR,
		OpMOVEtoUSP, OpMOVEfromUSP:
		return true
	}
	return false
}
