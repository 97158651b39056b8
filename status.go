package m68000

// Status is the MC68000 status register: the condition code register in
// the low byte and the system byte (supervisor, trace, interrupt mask)
// in the high byte.
//
// Bit layout: T__S_III___XNZVC. Bits outside srValidMask always read 0.
type Status uint16

// Status register flag bits.
const (
	FlagC Status = 1 << iota // Carry
	FlagV                    // Overflow
	FlagZ                    // Zero
	FlagN                    // Negative
	FlagX                    // Extend

	FlagS Status = 1 << 13 // Supervisor
	FlagT Status = 1 << 15 // Trace
)

// srValidMask covers the bits implemented on the 68000.
const srValidMask Status = 0xA71F

// Supervisor reports whether the supervisor bit is set.
func (st Status) Supervisor() bool {
	return st&FlagS != 0
}

// Trace reports whether the trace bit is set.
func (st Status) Trace() bool {
	return st&FlagT != 0
}

// InterruptMask returns the 3-bit interrupt priority mask.
func (st Status) InterruptMask() uint8 {
	return uint8(st>>8) & 7
}

// Word returns the register as its 16-bit hardware value.
func (st Status) Word() uint16 {
	return uint16(st & srValidMask)
}

// Set replaces the whole register, masking to valid 68000 bits.
// Callers that can change the supervisor bit must follow up with the
// processor's stack-pointer bank swap before touching A7.
func (st *Status) Set(sr uint16) {
	*st = Status(sr) & srValidMask
}

// SetCCR replaces only the condition code byte. Bits 5-7 are always 0.
func (st *Status) SetCCR(ccr uint8) {
	*st = (*st & 0xFF00) | (Status(ccr) & 0x1F)
}

// SetInterruptMask sets the 3-bit interrupt priority mask.
func (st *Status) SetInterruptMask(level uint8) {
	*st = (*st &^ 0x0700) | Status(level&7)<<8
}

// setAdd sets XNZVC after an addition: result = dst + src.
func (st *Status) setAdd(src, dst, result uint32, sz Size) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	s := src & mask
	d := dst & mask

	*st &^= FlagX | FlagN | FlagZ | FlagV | FlagC

	if r == 0 {
		*st |= FlagZ
	}
	if r&msb != 0 {
		*st |= FlagN
	}
	// Overflow: both operands same sign, result different sign
	if (s^r)&(d^r)&msb != 0 {
		*st |= FlagV
	}
	// Carry: unsigned overflow
	if result&(msb<<1) != 0 || (sz == Long && ((s&d|(s|d)&^r)&msb != 0)) {
		*st |= FlagC | FlagX
	}
}

// setSub sets XNZVC after a subtraction: result = dst - src.
func (st *Status) setSub(src, dst, result uint32, sz Size) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	s := src & mask
	d := dst & mask

	*st &^= FlagX | FlagN | FlagZ | FlagV | FlagC

	if r == 0 {
		*st |= FlagZ
	}
	if r&msb != 0 {
		*st |= FlagN
	}
	// Overflow: operands different sign, result sign differs from dst
	if (s^d)&(r^d)&msb != 0 {
		*st |= FlagV
	}
	// Borrow
	if (s&^d|r&^d|s&r)&msb != 0 {
		*st |= FlagC | FlagX
	}
}

// setCmp sets NZVC after a comparison (subtraction without storing).
// Does not modify the X flag.
func (st *Status) setCmp(src, dst, result uint32, sz Size) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	s := src & mask
	d := dst & mask

	*st &^= FlagN | FlagZ | FlagV | FlagC

	if r == 0 {
		*st |= FlagZ
	}
	if r&msb != 0 {
		*st |= FlagN
	}
	if (s^d)&(r^d)&msb != 0 {
		*st |= FlagV
	}
	if (s&^d|r&^d|s&r)&msb != 0 {
		*st |= FlagC
	}
}

// setLogical sets NZ, clears VC after a logical operation.
func (st *Status) setLogical(result uint32, sz Size) {
	*st &^= FlagN | FlagZ | FlagV | FlagC

	if result&sz.Mask() == 0 {
		*st |= FlagZ
	}
	if result&sz.MSB() != 0 {
		*st |= FlagN
	}
}

// extendBit returns 1 if the X flag is set, else 0.
func (st Status) extendBit() uint32 {
	if st&FlagX != 0 {
		return 1
	}
	return 0
}

// Condition evaluates an MC68000 condition code (0-15).
func (st Status) Condition(cc uint16) bool {
	switch cc {
	case 0: // T - True
		return true
	case 1: // F - False
		return false
	case 2: // HI - !C & !Z
		return st&(FlagC|FlagZ) == 0
	case 3: // LS - C | Z
		return st&(FlagC|FlagZ) != 0
	case 4: // CC - !C
		return st&FlagC == 0
	case 5: // CS - C
		return st&FlagC != 0
	case 6: // NE - !Z
		return st&FlagZ == 0
	case 7: // EQ - Z
		return st&FlagZ != 0
	case 8: // VC - !V
		return st&FlagV == 0
	case 9: // VS - V
		return st&FlagV != 0
	case 10: // PL - !N
		return st&FlagN == 0
	case 11: // MI - N
		return st&FlagN != 0
	case 12: // GE - (N & V) | (!N & !V)
		n := st&FlagN != 0
		v := st&FlagV != 0
		return n == v
	case 13: // LT - (N & !V) | (!N & V)
		n := st&FlagN != 0
		v := st&FlagV != 0
		return n != v
	case 14: // GT - (N & V & !Z) | (!N & !V & !Z)
		n := st&FlagN != 0
		v := st&FlagV != 0
		z := st&FlagZ != 0
		return n == v && !z
	case 15: // LE - Z | (N & !V) | (!N & V)
		n := st&FlagN != 0
		v := st&FlagV != 0
		z := st&FlagZ != 0
		return z || n != v
	}
	return false
}
