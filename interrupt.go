package m68000

// SetInterruptLevel drives the encoded interrupt priority inputs. The
// level persists until changed, so level-sensitive devices hold it until
// serviced. A transition to level 7 latches a non-maskable request that
// survives even if the level drops again before the next boundary.
func (p *Processor) SetInterruptLevel(level uint8) {
	if level > 7 {
		level = 7
	}
	if level == 7 && p.intLevel != 7 {
		p.nmiLatch = true
	}
	p.intLevel = level
}

// pendingInterruptLevel returns the level to service at the next
// instruction boundary, or zero.
func (p *Processor) pendingInterruptLevel() uint8 {
	if p.nmiLatch {
		return 7
	}
	if p.intLevel > p.status.InterruptMask() {
		return p.intLevel
	}
	return 0
}

// beginInterrupt starts interrupt processing for the given level. The
// mask is raised to the level being serviced before the acknowledge
// cycle runs.
func (p *Processor) beginInterrupt(level uint8, retPC uint32) {
	p.exPC = retPC
	p.exSR = p.status.Word()
	p.traceLatch = false
	p.status |= FlagS
	p.status &^= FlagT
	p.status.SetInterruptMask(level)
	p.didUpdateStatus()
	p.nmiLatch = false
	p.tmp2 = uint32(level)
	p.state = stateInterrupt
	p.step = 0
	p.accessPhase = 0
}

// runInterrupt performs the acknowledge cycle and joins the standard
// exception sequence. The handler chooses the vector: VPA selects the
// autovector for the level, DTACK supplies a vector number in the low
// byte of the transaction value, and BERR makes the interrupt spurious.
func (p *Processor) runInterrupt() bool {
	switch p.step {
	case 0:
		p.idle(20)
		return p.advance(1)
	case 1:
		p.trans = Transaction{
			Op:           BusInterruptAck,
			Size:         Byte,
			Address:      p.tmp2,
			Space:        SpaceCPU,
			AddressValid: true,
		}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		if p.lastAck == AckVPA {
			p.exVector = vecAutovectorBase + int(p.tmp2)
		} else if v := int(p.trans.Value & 0xFF); v != 0 {
			p.exVector = v
		} else {
			// Acknowledged without supplying a vector number: an
			// unprogrammed peripheral gets the uninitialized vector.
			p.exVector = vecUninitialized
		}
		return p.advance(3)
	case 3:
		p.a[7] -= 6
		p.state = stateException
		return p.advance(1)
	}
	return false
}
