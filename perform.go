package m68000

// flowController receives the side effects of evaluation that reach beyond
// the two operand values: exceptions, status rewrites, and the data-dependent
// timing of multiply, divide and shift. Implementations record the request
// and sequence the bus work afterwards; perform itself never touches a bus.
type flowController interface {
	// raiseException requests the numbered exception once the current
	// evaluation completes. Stores are suppressed for the faulting
	// operation.
	raiseException(vector int)

	// didUpdateStatus is called after any full status-register rewrite,
	// so the caller can re-bank the active stack pointer and re-examine
	// trace and interrupt state.
	didUpdateStatus()

	// moveToUSP and moveFromUSP exchange an address register with the
	// user stack pointer, wherever the caller banks it.
	moveToUSP(value uint32)
	moveFromUSP() uint32

	// didScc reports whether Scc produced the true (0xFF) result.
	didScc(taken bool)

	// didShift reports the iteration count of a shift or rotate.
	didShift(count uint32)

	// didMUL reports the multiplier bit pattern whose population count
	// determines the instruction's variable cost.
	didMUL(pattern uint16)

	// didDIV reports whether a divide ran to completion (neither
	// overflowed nor trapped on a zero divisor).
	didDIV(completed bool)
}

// perform evaluates inst over the operand values at src and dst, updating
// the status register and reporting side effects through flow. Operands are
// plain values: the caller fetches them beforehand and stores them afterwards
// as flagsFor directs. Address-only operands arrive as the resolved address.
func perform(inst *Instruction, opcode uint16, src, dst *uint32, st *Status, flow flowController) {
	sz := inst.Size

	switch inst.Op {
	// --- Data movement ---

	case OpMOVE:
		st.setLogical(*src, sz)
		*dst = *src

	case OpMOVEA:
		*dst = sz.SignExtend(*src)

	case OpLEA:
		*dst = *src

	case OpEXG:
		*src, *dst = *dst, *src

	case OpSWAP:
		r := *src>>16 | *src<<16
		st.setLogical(r, Long)
		*src = r

	case OpMOVEfromSR:
		*dst = uint32(st.Word())

	case OpMOVEtoSR:
		st.Set(uint16(*src))
		flow.didUpdateStatus()

	case OpMOVEtoCCR:
		st.SetCCR(uint8(*src))

	case OpMOVEtoUSP:
		flow.moveToUSP(*src)

	case OpMOVEfromUSP:
		*src = flow.moveFromUSP()

	// --- Integer arithmetic ---

	case OpADD:
		r := *dst + *src
		st.setAdd(*src, *dst, r, sz)
		*dst = r

	case OpADDA:
		*dst += sz.SignExtend(*src)

	case OpADDX:
		r := *dst + *src + st.extendBit()
		z := *st & FlagZ
		st.setAdd(*src, *dst, r, sz)
		// Z accumulates across the extended chain: never set, only kept.
		if r&sz.Mask() == 0 {
			*st = *st&^FlagZ | z
		}
		*dst = r

	case OpSUB:
		r := *dst - *src
		st.setSub(*src, *dst, r, sz)
		*dst = r

	case OpSUBA:
		*dst -= sz.SignExtend(*src)

	case OpSUBX:
		r := *dst - *src - st.extendBit()
		z := *st & FlagZ
		st.setSub(*src, *dst, r, sz)
		if r&sz.Mask() == 0 {
			*st = *st&^FlagZ | z
		}
		*dst = r

	case OpCMP:
		st.setCmp(*src, *dst, *dst-*src, sz)

	case OpCMPA:
		s := sz.SignExtend(*src)
		st.setCmp(s, *dst, *dst-s, Long)

	case OpMULU:
		flow.didMUL(uint16(*src))
		r := uint32(uint16(*src)) * uint32(uint16(*dst))
		st.setLogical(r, Long)
		*dst = r

	case OpMULS:
		m := uint16(*src)
		flow.didMUL(m<<1 ^ m)
		r := uint32(int32(int16(*src)) * int32(int16(*dst)))
		st.setLogical(r, Long)
		*dst = r

	case OpDIVU:
		performDIVU(src, dst, st, flow)

	case OpDIVS:
		performDIVS(src, dst, st, flow)

	case OpNEG:
		r := -*src
		st.setSub(*src, 0, r, sz)
		*src = r

	case OpNEGX:
		r := -*src - st.extendBit()
		z := *st & FlagZ
		st.setSub(*src, 0, r, sz)
		if r&sz.Mask() == 0 {
			*st = *st&^FlagZ | z
		}
		*src = r

	case OpCLR:
		st.setLogical(0, sz)
		*src = 0

	case OpEXT:
		var r uint32
		if sz == Word {
			r = uint32(uint16(int16(int8(*src))))
			*src = *src&^0xFFFF | r
		} else {
			r = uint32(int32(int16(*src)))
			*src = r
		}
		st.setLogical(r, sz)

	case OpCHK:
		performCHK(*src, *dst, st, flow)

	// --- Logic ---

	case OpAND:
		r := *dst & *src
		st.setLogical(r, sz)
		*dst = r

	case OpOR:
		r := *dst | *src
		st.setLogical(r, sz)
		*dst = r

	case OpEOR:
		r := *dst ^ *src
		st.setLogical(r, sz)
		*dst = r

	case OpNOT:
		r := ^*src
		st.setLogical(r, sz)
		*src = r

	case OpTST:
		st.setLogical(*src, sz)

	case OpTAS:
		st.setLogical(*src, Byte)
		*src |= 0x80

	// --- Immediate to status ---

	case OpORItoCCR:
		st.SetCCR(uint8(st.Word()) | uint8(*src))
	case OpANDItoCCR:
		st.SetCCR(uint8(st.Word()) & uint8(*src))
	case OpEORItoCCR:
		st.SetCCR(uint8(st.Word()) ^ uint8(*src))

	case OpORItoSR:
		st.Set(st.Word() | uint16(*src))
		flow.didUpdateStatus()
	case OpANDItoSR:
		st.Set(st.Word() & uint16(*src))
		flow.didUpdateStatus()
	case OpEORItoSR:
		st.Set(st.Word() ^ uint16(*src))
		flow.didUpdateStatus()

	// --- Binary-coded decimal ---

	case OpABCD:
		*dst = bcdAdd(*src&0xFF, *dst&0xFF, st)
	case OpSBCD:
		*dst = bcdSub(*src&0xFF, *dst&0xFF, st)
	case OpNBCD:
		*src = bcdSub(*src&0xFF, 0, st)

	// --- Bit manipulation ---

	case OpBTST, OpBCHG, OpBCLR, OpBSET:
		performBit(inst, src, dst, st)

	// --- Shifts and rotates ---

	case OpASL, OpASR, OpLSL, OpLSR, OpROL, OpROR, OpROXL, OpROXR:
		count := *src
		if inst.Mode[0] == ModeDataRegister {
			count &= 63
		}
		flow.didShift(count)
		*dst = doShift(inst.Op, *dst&sz.Mask(), count, sz, st)

	// --- Conditionals evaluated in place ---

	case OpScc:
		taken := st.Condition(uint16(opcode>>8) & 15)
		flow.didScc(taken)
		if taken {
			*src = 0xFF
		} else {
			*src = 0
		}
	}
}

// performDIVU implements unsigned word division of dst by src.
// A zero divisor traps; a quotient above 16 bits sets V and leaves the
// dividend untouched.
func performDIVU(src, dst *uint32, st *Status, flow flowController) {
	divisor := *src & 0xFFFF
	if divisor == 0 {
		*st &^= FlagC | FlagN | FlagV | FlagZ
		flow.didDIV(false)
		flow.raiseException(vecDivideByZero)
		return
	}

	quotient := *dst / divisor
	if quotient > 0xFFFF {
		*st &^= FlagC
		*st |= FlagV | FlagN
		flow.didDIV(false)
		return
	}

	remainder := *dst % divisor
	*dst = remainder<<16 | quotient
	*st &^= FlagC | FlagN | FlagV | FlagZ
	if quotient == 0 {
		*st |= FlagZ
	}
	if quotient&0x8000 != 0 {
		*st |= FlagN
	}
	flow.didDIV(true)
}

// performDIVS implements signed word division of dst by src.
func performDIVS(src, dst *uint32, st *Status, flow flowController) {
	divisor := int32(int16(*src))
	if divisor == 0 {
		*st &^= FlagC | FlagN | FlagV | FlagZ
		flow.didDIV(false)
		flow.raiseException(vecDivideByZero)
		return
	}

	dividend := int32(*dst)
	quotient := dividend / divisor
	if quotient < -0x8000 || quotient > 0x7FFF {
		*st &^= FlagC
		*st |= FlagV | FlagN
		flow.didDIV(false)
		return
	}

	remainder := dividend % divisor
	*dst = uint32(remainder)<<16 | uint32(quotient)&0xFFFF
	*st &^= FlagC | FlagN | FlagV | FlagZ
	if quotient == 0 {
		*st |= FlagZ
	}
	if quotient&0x8000 != 0 {
		*st |= FlagN
	}
	flow.didDIV(true)
}

// performCHK compares a register value against an upper bound, trapping
// when the value is negative or above the bound.
func performCHK(bound, value uint32, st *Status, flow flowController) {
	v := int16(value)
	b := int16(bound)

	*st &^= FlagC | FlagV | FlagZ
	if v == 0 {
		*st |= FlagZ
	}

	switch {
	case v < 0:
		*st |= FlagN
		flow.raiseException(vecCHK)
	case v > b:
		*st &^= FlagN
		flow.raiseException(vecCHK)
	}
}

// performBit implements BTST/BCHG/BCLR/BSET. The bit number arrives in
// src; a long destination uses it mod 32, a byte destination mod 8.
func performBit(inst *Instruction, src, dst *uint32, st *Status) {
	bit := *src
	if inst.Size == Long {
		bit &= 31
	} else {
		bit &= 7
	}
	mask := uint32(1) << bit

	if *dst&mask != 0 {
		*st &^= FlagZ
	} else {
		*st |= FlagZ
	}

	switch inst.Op {
	case OpBCHG:
		*dst ^= mask
	case OpBCLR:
		*dst &^= mask
	case OpBSET:
		*dst |= mask
	}
}

// bcdAdd performs a base-10 byte addition with extend, setting flags.
func bcdAdd(s, d uint32, st *Status) uint32 {
	x := st.extendBit()
	binary := s + d + x

	lo := (s & 0x0F) + (d & 0x0F) + x
	hi := (s & 0xF0) + (d & 0xF0)
	if lo > 9 {
		lo += 6
	}
	result := hi + lo

	carry := false
	if result > 0x99 {
		result += 0x60
		carry = true
	}

	r8 := result & 0xFF
	*st &^= FlagC | FlagX | FlagN | FlagV
	if carry {
		*st |= FlagC | FlagX
	}
	if r8&0x80 != 0 {
		*st |= FlagN
	}
	// V: bit 7 went from 0 to 1 during decimal correction
	if binary&0x80 == 0 && r8&0x80 != 0 {
		*st |= FlagV
	}
	if r8 != 0 {
		*st &^= FlagZ
	}
	return r8
}

// bcdSub performs a base-10 byte subtraction with extend, setting flags.
// NBCD is bcdSub with a zero minuend.
func bcdSub(s, d uint32, st *Status) uint32 {
	x := st.extendBit()
	binary := d - s - x

	lo := (d & 0x0F) - (s & 0x0F) - x
	result := binary
	if lo&0x10 != 0 {
		result -= 6
	}

	borrow := d < s+x
	if borrow {
		result -= 0x60
	}

	r8 := result & 0xFF
	*st &^= FlagC | FlagX | FlagN | FlagV
	if borrow {
		*st |= FlagC | FlagX
	}
	if r8&0x80 != 0 {
		*st |= FlagN
	}
	// V: bit 7 went from 1 to 0 during decimal correction
	if binary&0x80 != 0 && r8&0x80 == 0 {
		*st |= FlagV
	}
	if r8 != 0 {
		*st &^= FlagZ
	}
	return r8
}

// doShift performs a shift or rotate of val by count bits, setting flags.
func doShift(op Operation, val, count uint32, sz Size, st *Status) uint32 {
	msb := sz.MSB()
	mask := sz.Mask()
	bits := sz.Bits()

	if count == 0 {
		st.setLogical(val, sz)
		if op == OpROXL || op == OpROXR {
			// C mirrors X when the rotate count is zero.
			if *st&FlagX != 0 {
				*st |= FlagC
			}
		}
		return val
	}

	var result uint32

	switch op {
	case OpASL:
		result = val
		*st &^= FlagV
		for i := uint32(0); i < count; i++ {
			msbit := result & msb
			result = result << 1 & mask
			if result&msb != msbit {
				*st |= FlagV
			}
		}
		if (val>>(bits-count))&1 != 0 {
			*st |= FlagC | FlagX
		} else {
			*st &^= FlagC | FlagX
		}

	case OpASR:
		sign := val & msb
		result = val
		for i := uint32(0); i < count; i++ {
			result = result>>1 | sign
		}
		result &= mask
		var lastOut uint32
		if count >= bits {
			lastOut = val >> (bits - 1) & 1
		} else {
			lastOut = val >> (count - 1) & 1
		}
		if lastOut != 0 {
			*st |= FlagC | FlagX
		} else {
			*st &^= FlagC | FlagX
		}
		*st &^= FlagV

	case OpLSL:
		result = val << count & mask
		if (val>>(bits-count))&1 != 0 {
			*st |= FlagC | FlagX
		} else {
			*st &^= FlagC | FlagX
		}
		*st &^= FlagV

	case OpLSR:
		result = (val & mask) >> count
		var lastOut uint32
		if count <= bits {
			lastOut = val >> (count - 1) & 1
		}
		if lastOut != 0 {
			*st |= FlagC | FlagX
		} else {
			*st &^= FlagC | FlagX
		}
		*st &^= FlagV

	case OpROXL:
		result = val
		for i := uint32(0); i < count; i++ {
			x := st.extendBit()
			if result&msb != 0 {
				*st |= FlagX | FlagC
			} else {
				*st &^= FlagX | FlagC
			}
			result = (result<<1 | x) & mask
		}

	case OpROXR:
		result = val
		for i := uint32(0); i < count; i++ {
			x := st.extendBit()
			if result&1 != 0 {
				*st |= FlagX | FlagC
			} else {
				*st &^= FlagX | FlagC
			}
			result = result>>1 | x<<(bits-1)
		}
		result &= mask

	case OpROL:
		shift := count % bits
		result = (val<<shift | val>>(bits-shift)) & mask
		if result&1 != 0 {
			*st |= FlagC
		} else {
			*st &^= FlagC
		}

	case OpROR:
		shift := count % bits
		result = (val>>shift | val<<(bits-shift)) & mask
		if result&msb != 0 {
			*st |= FlagC
		} else {
			*st &^= FlagC
		}
	}

	// N and Z from the result; every rotate clears V.
	if op == OpROXL || op == OpROXR {
		*st &^= FlagV
	}
	if result&msb != 0 {
		*st |= FlagN
	} else {
		*st &^= FlagN
	}
	if result&mask == 0 {
		*st |= FlagZ
	} else {
		*st &^= FlagZ
	}
	if op == OpROL || op == OpROR {
		*st &^= FlagV
	}

	return result
}
