package m68000

// Flow control. Branches and calls abandon the prefetch queue and rebuild
// it at the destination; runRefill is that shared two-read tail. The
// program counter is set before entering it, so an odd destination faults
// on the first program read.

// runRefill reads two program words at the current PC, leaving the queue
// primed for the next decode.
func (p *Processor) runRefill() bool {
	switch p.step {
	case 0:
		if !p.beginPrefetch() {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(2)
	case 2:
		if !p.beginPrefetch() {
			return true
		}
		p.step = 3
		fallthrough
	case 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.finish()
	}
	return false
}

func (p *Processor) enterRefill(target uint32) bool {
	p.pc = target
	p.state = stateRefill
	p.step = 0
	return p.shouldContinue()
}

// runBcc executes Bcc and BRA. A taken branch costs two cycles of
// address arithmetic plus the queue rebuild; a missed one burns four
// cycles and carries on, also skipping the displacement word when the
// branch used the long form.
func (p *Processor) runBcc() bool {
	taken := p.inst.Op == OpBRA || p.status.Condition(uint16(p.ir>>8)&15)
	wordForm := p.inst.Mode[0] == ModeImmediate

	if taken {
		disp := int32(p.inst.Quick)
		if wordForm {
			disp = int32(int16(p.prefetch[1]))
		}
		p.idle(4)
		return p.enterRefill(p.instAddr + 2 + uint32(disp))
	}

	p.idle(8)
	if wordForm {
		p.state = stateRefill
		p.step = 0
	} else {
		p.state = statePerform
		p.step = stepPerformPrefetch
	}
	return p.shouldContinue()
}

// runBSR pushes the return address and branches.
func (p *Processor) runBSR() bool {
	switch p.step {
	case 0:
		if p.inst.Mode[0] == ModeImmediate {
			p.tmp = p.instAddr + 2 + uint32(int32(int16(p.prefetch[1])))
			p.tmp2 = p.instAddr + 4
		} else {
			p.tmp = p.instAddr + 2 + uint32(int32(p.inst.Quick))
			p.tmp2 = p.instAddr + 2
		}
		p.idle(4)
		p.a[7] -= 4
		return p.advance(1)
	case 1:
		if !p.beginWrite(p.a[7], Word, SpaceData, uint16(p.tmp2>>16)) {
			return true
		}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.advance(3)
	case 3:
		if !p.beginWrite(p.a[7]+2, Word, SpaceData, uint16(p.tmp2)) {
			return true
		}
		p.step = 4
		fallthrough
	case 4:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.enterRefill(p.tmp)
	}
	return false
}

// runDBcc decrements and loops. When the counter expires the processor
// still fetches one word at the abandoned branch target before moving on;
// the discarded read is visible on the bus.
func (p *Processor) runDBcc() bool {
	switch p.step {
	case 0:
		if p.status.Condition(uint16(p.ir>>8) & 15) {
			p.idle(8)
			p.state = stateRefill
			p.step = 0
			return p.shouldContinue()
		}
		r := p.inst.Reg[0]
		count := uint16(p.d[r]) - 1
		p.d[r] = p.d[r]&^0xFFFF | uint32(count)
		target := p.instAddr + 2 + uint32(int32(int16(p.prefetch[1])))
		p.idle(4)
		if count != 0xFFFF {
			return p.enterRefill(target)
		}
		p.tmp = target &^ 1
		return p.advance(1)
	case 1:
		p.trans = Transaction{Op: BusRead, Size: Word, Address: p.tmp, Space: SpaceProgram, AddressValid: true}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.state = stateRefill
		p.step = 0
		return p.shouldContinue()
	}
	return false
}

// runJump executes JMP and JSR. The destination comes from the control
// addressing modes; their internal cost differs from operand addressing
// because no data strobe follows.
func (p *Processor) runJump() bool {
	switch p.step {
	case 0:
		reg := p.inst.Reg[0]
		switch p.inst.Mode[0] {
		case ModeIndirect:
			p.tmp = p.a[reg]
			p.tmp2 = p.instAddr + 2
		case ModeDisplacement:
			p.tmp = p.a[reg] + uint32(int32(int16(p.prefetch[1])))
			p.tmp2 = p.instAddr + 4
			p.idle(4)
		case ModePCDisplacement:
			p.tmp = p.pc - 2 + uint32(int32(int16(p.prefetch[1])))
			p.tmp2 = p.instAddr + 4
			p.idle(4)
		case ModeIndexed:
			p.tmp = p.a[reg] + p.indexOffset(p.prefetch[1])
			p.tmp2 = p.instAddr + 4
			p.idle(12)
		case ModePCIndexed:
			p.tmp = p.pc - 2 + p.indexOffset(p.prefetch[1])
			p.tmp2 = p.instAddr + 4
			p.idle(12)
		case ModeAbsoluteShort:
			p.tmp = uint32(int32(int16(p.prefetch[1])))
			p.tmp2 = p.instAddr + 4
			p.idle(4)
		case ModeAbsoluteLong:
			p.tmp = uint32(p.prefetch[1]) << 16
			p.tmp2 = p.instAddr + 6
			return p.advance(1)
		}
		return p.advance(10)
	case 1:
		// Second word of a long absolute target.
		if !p.beginPrefetch() {
			return true
		}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		p.tmp |= uint32(p.prefetch[1])
		return p.advance(10)
	case 10:
		if p.inst.Op != OpJSR {
			return p.enterRefill(p.tmp)
		}
		p.a[7] -= 4
		return p.advance(11)
	case 11:
		if !p.beginWrite(p.a[7], Word, SpaceData, uint16(p.tmp2>>16)) {
			return true
		}
		p.step = 12
		fallthrough
	case 12:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.advance(13)
	case 13:
		if !p.beginWrite(p.a[7]+2, Word, SpaceData, uint16(p.tmp2)) {
			return true
		}
		p.step = 14
		fallthrough
	case 14:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.enterRefill(p.tmp)
	}
	return false
}

// runRTS pops the return address.
func (p *Processor) runRTS() bool {
	switch p.step {
	case 0:
		if !p.beginRead(p.a[7], Word, SpaceData) {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(2)
	case 2:
		if !p.beginRead(p.a[7]+2, Word, SpaceData) {
			return true
		}
		p.step = 3
		fallthrough
	case 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp |= uint32(p.trans.Value)
		p.a[7] += 4
		return p.enterRefill(p.tmp)
	}
	return false
}

// runReturn executes RTE and RTR: a status word and the return address
// come off the stack. RTE restores the full status register and may drop
// back to user mode; RTR takes only the condition codes.
func (p *Processor) runReturn() bool {
	switch p.step {
	case 0:
		if !p.beginRead(p.a[7], Word, SpaceData) {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp2 = uint32(p.trans.Value)
		return p.advance(2)
	case 2:
		if !p.beginRead(p.a[7]+2, Word, SpaceData) {
			return true
		}
		p.step = 3
		fallthrough
	case 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(4)
	case 4:
		if !p.beginRead(p.a[7]+4, Word, SpaceData) {
			return true
		}
		p.step = 5
		fallthrough
	case 5:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp |= uint32(p.trans.Value)
		p.a[7] += 6
		if p.inst.Op == OpRTE {
			p.status.Set(uint16(p.tmp2))
			p.didUpdateStatus()
		} else {
			p.status.SetCCR(uint8(p.tmp2))
		}
		return p.enterRefill(p.tmp)
	}
	return false
}

// runPEA pushes the resolved address; operand resolution already
// happened, leaving it in the first operand slot.
func (p *Processor) runPEA() bool {
	switch p.step {
	case 0:
		if p.inst.Mode[0] == ModeIndexed || p.inst.Mode[0] == ModePCIndexed {
			p.idle(4)
		}
		p.a[7] -= 4
		return p.advance(1)
	case 1:
		if !p.beginWrite(p.a[7], Word, SpaceData, uint16(p.opVal[0]>>16)) {
			return true
		}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.advance(3)
	case 3:
		if !p.beginWrite(p.a[7]+2, Word, SpaceData, uint16(p.opVal[0])) {
			return true
		}
		p.step = 4
		fallthrough
	case 4:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.state = statePerform
		p.step = stepPerformPrefetch
		return p.shouldContinue()
	}
	return false
}

// runLINK pushes an address register, points it at the pushed copy, and
// biases the stack pointer by the displacement word.
func (p *Processor) runLINK() bool {
	switch p.step {
	case 0:
		p.tmp2 = uint32(int32(int16(p.prefetch[1])))
		if !p.beginPrefetch() {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(2)
	case 2:
		old := p.a[p.inst.Reg[0]]
		p.a[7] -= 4
		if p.inst.Reg[0] == 7 {
			old = p.a[7]
		}
		p.tmp = old
		p.step = 3
		fallthrough
	case 3:
		if !p.beginWrite(p.a[7], Word, SpaceData, uint16(p.tmp>>16)) {
			return true
		}
		p.step = 4
		fallthrough
	case 4:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.advance(5)
	case 5:
		if !p.beginWrite(p.a[7]+2, Word, SpaceData, uint16(p.tmp)) {
			return true
		}
		p.step = 6
		fallthrough
	case 6:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.a[p.inst.Reg[0]] = p.a[7]
		p.a[7] += p.tmp2
		p.state = statePerform
		p.step = stepPerformPrefetch
		return p.shouldContinue()
	}
	return false
}

// runUNLK unwinds a LINK frame.
func (p *Processor) runUNLK() bool {
	switch p.step {
	case 0:
		p.a[7] = p.a[p.inst.Reg[0]]
		if !p.beginRead(p.a[7], Word, SpaceData) {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(2)
	case 2:
		if !p.beginRead(p.a[7]+2, Word, SpaceData) {
			return true
		}
		p.step = 3
		fallthrough
	case 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp |= uint32(p.trans.Value)
		p.a[7] += 4
		p.a[p.inst.Reg[0]] = p.tmp
		p.state = statePerform
		p.step = stepPerformPrefetch
		return p.shouldContinue()
	}
	return false
}

// runMOVEM transfers the masked register set. The mask word is the first
// extension; predecrement stores walk A7-first down through memory, every
// other form walks D0-first up. A memory-to-register transfer ends with
// one extra, discarded read beyond the transferred set.
func (p *Processor) runMOVEM() bool {
	toR := p.inst.Op == OpMOVEMtoR
	predec := p.inst.Mode[1] == ModePreDecrement
	sz := uint32(p.inst.Size)

	switch p.step {
	case 0:
		p.movemMask = p.prefetch[1]
		if !p.beginPrefetch() {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(2)
	case 2:
		switch p.inst.Mode[1] {
		case ModeIndirect, ModePostIncrement, ModePreDecrement:
			p.movemAddr = p.a[p.inst.Reg[1]]
		default:
			// Displacement, indexed and absolute bases resolve through
			// the shared operand machinery.
			p.opFlags = opAddr1
			p.opIdx = 1
			p.afterFetch = stateMOVEM
			p.afterFetchStep = 4
			p.state = stateFetchOperand
			p.step = 0
			return true
		}
		p.movemBit = 0
		return p.advance(6)
	case 4:
		p.movemAddr = p.opAddr[1]
		p.movemBit = 0
		p.step = 6
		return true

	case 6: // next register
		for p.movemBit < 16 && p.movemMask&(1<<p.movemBit) == 0 {
			p.movemBit++
		}
		if p.movemBit >= 16 {
			return p.advance(20)
		}
		if predec {
			p.movemAddr -= sz
		}
		if toR {
			if !p.beginRead(p.movemAddr, Word, SpaceData) {
				return true
			}
		} else {
			v := *p.movemRegister(p.movemBit)
			var half uint16
			var addr uint32
			switch {
			case p.inst.Size != Long:
				half, addr = uint16(v), p.movemAddr
			case predec:
				// Low word first, but it lives at the higher address.
				half, addr = uint16(v), p.movemAddr+2
			default:
				half, addr = uint16(v>>16), p.movemAddr
			}
			if !p.beginWrite(addr, Word, SpaceData, half) {
				return true
			}
		}
		p.step = 7
		fallthrough
	case 7:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		if p.inst.Size == Long {
			return p.advance(8)
		}
		if toR {
			*p.movemRegister(p.movemBit) = uint32(int32(int16(p.trans.Value)))
		}
		if !predec {
			p.movemAddr += 2
		}
		p.movemBit++
		return p.advance(6)
	case 8:
		if toR {
			p.tmp = uint32(p.trans.Value) << 16
			if !p.beginRead(p.movemAddr+2, Word, SpaceData) {
				return true
			}
		} else {
			v := *p.movemRegister(p.movemBit)
			half, addr := uint16(v), p.movemAddr+2
			if predec {
				half, addr = uint16(v>>16), p.movemAddr
			}
			if !p.beginWrite(addr, Word, SpaceData, half) {
				return true
			}
		}
		p.step = 9
		fallthrough
	case 9:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		if toR {
			*p.movemRegister(p.movemBit) = p.tmp | uint32(p.trans.Value)
		}
		if !predec {
			p.movemAddr += 4
		}
		p.movemBit++
		return p.advance(6)

	case 20: // tail
		switch p.inst.Mode[1] {
		case ModePostIncrement, ModePreDecrement:
			p.a[p.inst.Reg[1]] = p.movemAddr
		}
		if !toR {
			p.state = statePerform
			p.step = stepPerformPrefetch
			return p.shouldContinue()
		}
		if !p.beginRead(p.movemAddr, Word, SpaceData) {
			return true
		}
		p.step = 21
		fallthrough
	case 21:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.state = statePerform
		p.step = stepPerformPrefetch
		return p.shouldContinue()
	}
	return false
}

// movemRegister maps a mask bit to its register in D0-first order; the
// predecrement form indexes with the bit order reversed by its caller.
func (p *Processor) movemRegister(bit int) *uint32 {
	idx := bit
	if p.inst.Mode[1] == ModePreDecrement {
		idx = 15 - bit
	}
	if idx < 8 {
		return &p.d[idx]
	}
	return &p.a[idx-8]
}

// runMOVEP moves alternating bytes between a data register and memory,
// high byte at the lowest address.
func (p *Processor) runMOVEP() bool {
	count := 2
	if p.inst.Size == Long {
		count = 4
	}
	toM := p.inst.Op == OpMOVEPtoM

	switch p.step {
	case 0:
		p.movemAddr = p.a[p.inst.Reg[1]] + uint32(int32(int16(p.prefetch[1])))
		p.sub = 0
		p.tmp = 0
		if !p.beginPrefetch() {
			return true
		}
		p.step = 1
		fallthrough
	case 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(2)
	case 2:
		if p.sub >= count {
			if !toM {
				r := p.inst.Reg[0]
				if p.inst.Size == Long {
					p.d[r] = p.tmp
				} else {
					p.d[r] = p.d[r]&^0xFFFF | p.tmp&0xFFFF
				}
			}
			p.state = statePerform
			p.step = stepPerformPrefetch
			return p.shouldContinue()
		}
		addr := p.movemAddr + uint32(2*p.sub)
		if toM {
			shift := uint(8 * (count - 1 - p.sub))
			if !p.beginWrite(addr, Byte, SpaceData, uint16(p.d[p.inst.Reg[0]]>>shift)&0xFF) {
				return true
			}
		} else if !p.beginRead(addr, Byte, SpaceData) {
			return true
		}
		p.step = 3
		fallthrough
	case 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		if !toM {
			p.tmp = p.tmp<<8 | uint32(p.trans.Value)&0xFF
		}
		p.sub++
		return p.advance(2)
	}
	return false
}
