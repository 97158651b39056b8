package m68000

// Exception vector numbers.
const (
	vecBusError       = 2
	vecAddressError   = 3
	vecIllegal        = 4
	vecDivideByZero   = 5
	vecCHK            = 6
	vecTRAPV          = 7
	vecPrivilege      = 8
	vecTrace          = 9
	vecLineA          = 10
	vecLineF          = 11
	vecUninitialized  = 15
	vecSpurious       = 24
	vecAutovectorBase = 24
	vecTRAPBase       = 32
)

// beginException enters supervisor mode and starts the standard exception
// sequence: push SR and retPC, load the handler address from the vector
// table, refill the prefetch queue.
func (p *Processor) beginException(vector int, retPC uint32) {
	p.exVector = vector
	p.exPC = retPC
	p.exSR = p.status.Word()
	p.traceLatch = false
	p.status |= FlagS
	p.status &^= FlagT
	p.didUpdateStatus()
	p.state = stateException
	p.step = 0
	p.accessPhase = 0
}

// runException pushes the captured SR and return address, fetches the
// handler address, and refills the queue. The interrupt and fault
// sequences join this program partway through for their common tail.
func (p *Processor) runException() bool {
	switch p.step {
	case 0:
		p.idle(8)
		p.a[7] -= 6
		return p.advance(1)
	case 1:
		if !p.beginWrite(p.a[7], Word, SpaceData, p.exSR) {
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
		if !p.beginWrite(p.a[7]+2, Word, SpaceData, uint16(p.exPC>>16)) {
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
		if !p.beginWrite(p.a[7]+4, Word, SpaceData, uint16(p.exPC)) {
			return true
		}
		p.step = 6
		fallthrough
	case 6:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.advance(7)
	case 7:
		if !p.beginRead(uint32(p.exVector)*4, Word, SpaceData) {
			return true
		}
		p.step = 8
		fallthrough
	case 8:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(9)
	case 9:
		if !p.beginRead(uint32(p.exVector)*4+2, Word, SpaceData) {
			return true
		}
		p.step = 10
		fallthrough
	case 10:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.pc = p.tmp | uint32(p.trans.Value)
		return p.advance(11)
	case 11:
		if !p.beginPrefetch() {
			return true
		}
		p.step = 12
		fallthrough
	case 12:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		p.idle(4)
		return p.advance(13)
	case 13:
		if !p.beginPrefetch() {
			return true
		}
		p.step = 14
		fallthrough
	case 14:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.finish()
	}
	return false
}

// busFault reacts to BERR on the current transaction. A fault during the
// interrupt acknowledge cycle converts the interrupt to the spurious
// vector; a fault while already processing a fault halts the processor.
func (p *Processor) busFault() {
	if p.state == stateInterrupt {
		p.exVector = vecSpurious
		p.step = 3
		return
	}
	if p.inFault {
		p.log.WithField("address", p.trans.Address).
			Warn("bus error during exception processing, halting")
		p.state = stateHalted
		return
	}
	p.exVector = vecBusError
	p.buildFrame(p.trans.Op == BusWrite, p.trans.Address, p.trans.Space)
	p.state = stateFault
	p.step = 0
}

// beginAddressError aborts the instruction on a word or long access to an
// odd address.
func (p *Processor) beginAddressError(write bool, addr uint32, space AddressSpace) {
	if p.inFault {
		p.log.WithField("address", addr).
			Warn("address error during exception processing, halting")
		p.state = stateHalted
		return
	}
	p.exVector = vecAddressError
	p.buildFrame(write, addr, space)
	p.state = stateFault
	p.step = 0
	p.accessPhase = 0
}

// buildFrame captures the seven-word group 0 stack frame and enters
// supervisor mode. The first word records the access: bit 4 set for a
// read, and the function code in bits 0-2.
func (p *Processor) buildFrame(write bool, addr uint32, space AddressSpace) {
	p.exPC = p.pc
	p.exSR = p.status.Word()
	p.traceLatch = false
	p.status |= FlagS
	p.status &^= FlagT
	p.didUpdateStatus()

	var access uint16
	if !write {
		access |= 1 << 4
	}
	if space == SpaceProgram {
		access |= 2
	} else {
		access |= 1
	}
	if p.exSR&uint16(FlagS) != 0 {
		access |= 4
	}
	p.frame = [7]uint16{
		access,
		uint16(addr >> 16),
		uint16(addr),
		p.ir,
		p.exSR,
		uint16(p.exPC >> 16),
		uint16(p.exPC),
	}
}

// runFault writes the group 0 frame, deepest word first, then joins the
// vector fetch tail of the standard sequence.
func (p *Processor) runFault() bool {
	switch p.step {
	case 0:
		p.inFault = true
		p.idle(8)
		p.a[7] -= 14
		p.sub = 0
		return p.advance(1)
	case 1:
		i := 6 - p.sub
		if !p.beginWrite(p.a[7]+uint32(2*i), Word, SpaceData, p.frame[i]) {
			return true
		}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.sub++
		if p.sub < 7 {
			return p.advance(1)
		}
		p.state = stateException
		return p.advance(7)
	}
	return false
}
