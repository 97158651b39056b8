package m68000

// Effective address resolution. Operands are processed one at a time by
// the stateFetchOperand program: addressing modes that consume extension
// words take them from the front of the prefetch queue, with the queue
// refilled by a program read as each word is used. Timing therefore falls
// out of the bus traffic itself; only the indexed modes and preserved
// predecrements add internal cycles.

// Step layout of runFetchOperand. Step 0 dispatches on addressing mode;
// the ranges below are the mode subprograms, all converging on opResolved.
const (
	opImmediate  = 10 // extension word(s) as data
	opPredecIdle = 30
	opResolved   = 40 // address known; read if the operand wants a value
	opDisplace   = 50
	opIndexed    = 60
	opAbsShort   = 70
	opAbsLong    = 80
)

func (p *Processor) runFetchOperand() bool {
	i := p.opIdx

	switch p.step {
	case 0:
		if i >= 2 {
			p.state = p.afterFetch
			p.step = p.afterFetchStep
			return true
		}
		if p.opFlags&((opFetch0|opStore0|opAddr0)<<i) == 0 {
			p.opIdx++
			return true
		}

		mode := p.inst.Mode[i]
		reg := p.inst.Reg[i]
		switch mode {
		case ModeNone:
			p.opIdx++
		case ModeQuick:
			p.opVal[i] = p.inst.Quick
			p.opIdx++
		case ModeDataRegister:
			p.opVal[i] = p.d[reg]
			p.opIdx++
		case ModeAddressRegister:
			p.opVal[i] = p.a[reg]
			p.opIdx++
		case ModeImmediate:
			p.step = opImmediate
		case ModeIndirect:
			p.opAddr[i] = p.a[reg]
			p.step = opResolved
		case ModePostIncrement:
			p.opAddr[i] = p.a[reg]
			p.a[reg] += p.stackSafeSize(reg)
			p.step = opResolved
		case ModePreDecrement:
			p.a[reg] -= p.stackSafeSize(reg)
			p.opAddr[i] = p.a[reg]
			if p.predecIdleSuppressed(i) {
				p.step = opResolved
			} else {
				p.step = opPredecIdle
			}
		case ModeDisplacement:
			p.tmp2 = p.a[reg]
			p.step = opDisplace
		case ModePCDisplacement:
			p.tmp2 = p.pc - 2
			p.step = opDisplace
		case ModeIndexed:
			p.tmp2 = p.a[reg]
			p.step = opIndexed
		case ModePCIndexed:
			p.tmp2 = p.pc - 2
			p.step = opIndexed
		case ModeAbsoluteShort:
			p.step = opAbsShort
		case ModeAbsoluteLong:
			p.step = opAbsLong
		}
		return true

	// Immediate data: one extension word, or two for a long operand.
	// A static bit number is always a single word even when the
	// destination makes the operation long.
	case opImmediate:
		p.tmp = uint32(p.prefetch[1])
		if !p.beginPrefetch() {
			return true
		}
		p.step = opImmediate + 1
		fallthrough
	case opImmediate + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		if p.inst.Size == Long && !p.inst.Op.bitOperation() {
			return p.advance(opImmediate + 2)
		}
		if p.inst.Size == Byte {
			p.tmp &= 0xFF
		}
		p.opVal[i] = p.tmp
		p.opIdx++
		return p.advance(0)
	case opImmediate + 2:
		p.tmp = p.tmp<<16 | uint32(p.prefetch[1])
		if !p.beginPrefetch() {
			return true
		}
		p.step = opImmediate + 3
		fallthrough
	case opImmediate + 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		p.opVal[i] = p.tmp
		p.opIdx++
		return p.advance(0)

	// d16(An) / d16(PC): the base was latched at dispatch; the queue's
	// second word is the displacement.
	case opDisplace:
		p.opAddr[i] = p.tmp2 + uint32(int32(int16(p.prefetch[1])))
		if !p.beginPrefetch() {
			return true
		}
		p.step = opDisplace + 1
		fallthrough
	case opDisplace + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(opResolved)

	// d8(An,Xn) / d8(PC,Xn): brief extension word plus two cycles of
	// address arithmetic.
	case opIndexed:
		p.opAddr[i] = p.tmp2 + p.indexOffset(p.prefetch[1])
		if !p.beginPrefetch() {
			return true
		}
		p.step = opIndexed + 1
		fallthrough
	case opIndexed + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(opIndexed + 2)
	case opIndexed + 2:
		p.idle(4)
		return p.advance(opResolved)

	case opAbsShort:
		p.opAddr[i] = uint32(int32(int16(p.prefetch[1])))
		if !p.beginPrefetch() {
			return true
		}
		p.step = opAbsShort + 1
		fallthrough
	case opAbsShort + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(opResolved)

	case opAbsLong:
		p.tmp = uint32(p.prefetch[1]) << 16
		if !p.beginPrefetch() {
			return true
		}
		p.step = opAbsLong + 1
		fallthrough
	case opAbsLong + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(opAbsLong + 2)
	case opAbsLong + 2:
		p.opAddr[i] = p.tmp | uint32(p.prefetch[1])
		if !p.beginPrefetch() {
			return true
		}
		p.step = opAbsLong + 3
		fallthrough
	case opAbsLong + 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(opResolved)

	case opPredecIdle:
		p.idle(4)
		p.step = opResolved
		if !p.shouldContinue() {
			return false
		}
		fallthrough
	case opResolved:
		if p.opFlags&(opFetch0<<i) == 0 {
			// Address-only operand: the resolved address is the value.
			p.opVal[i] = p.opAddr[i]
			p.opIdx++
			return p.advance(0)
		}
		if p.inst.Size == Long {
			return p.advance(opResolved + 3)
		}
		if !p.beginRead(p.opAddr[i], p.inst.Size, SpaceData) {
			return true
		}
		p.step = opResolved + 1
		fallthrough
	case opResolved + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		v := uint32(p.trans.Value)
		if p.inst.Size == Byte {
			v &= 0xFF
		}
		p.opVal[i] = v
		p.opIdx++
		return p.advance(0)

	case opResolved + 3:
		if !p.beginRead(p.opAddr[i], Word, SpaceData) {
			return true
		}
		p.step = opResolved + 4
		fallthrough
	case opResolved + 4:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(opResolved + 5)
	case opResolved + 5:
		if !p.beginRead(p.opAddr[i]+2, Word, SpaceData) {
			return true
		}
		p.step = opResolved + 6
		fallthrough
	case opResolved + 6:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.opVal[i] = p.tmp | uint32(p.trans.Value)
		p.opIdx++
		return p.advance(0)
	}
	return false
}

// stackSafeSize is the post-increment/pre-decrement step for a register:
// the operand size, except that A7 always moves by an even amount to keep
// the stack pointer word aligned.
func (p *Processor) stackSafeSize(reg uint8) uint32 {
	if reg == 7 && p.inst.Size == Byte {
		return 2
	}
	return uint32(p.inst.Size)
}

// predecIdleSuppressed reports the cases where a predecrement costs no
// internal time: the second source of the extended/BCD memory pairs, and
// a MOVE destination.
func (p *Processor) predecIdleSuppressed(i int) bool {
	if i != 1 {
		return false
	}
	switch p.inst.Op {
	case OpMOVE, OpADDX, OpSUBX, OpABCD, OpSBCD:
		return true
	}
	return false
}

// indexOffset evaluates a brief extension word: a data or address
// register, sign-extended from its low word unless the long flag is set,
// plus an 8-bit displacement.
func (p *Processor) indexOffset(ext uint16) uint32 {
	var v uint32
	if ext&0x8000 != 0 {
		v = p.a[(ext>>12)&7]
	} else {
		v = p.d[(ext>>12)&7]
	}
	if ext&0x0800 == 0 {
		v = uint32(int32(int16(v)))
	}
	return v + uint32(int32(int8(ext)))
}
