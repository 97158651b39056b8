// Package m68000 implements a cycle-timed Motorola 68000 processor core.
//
// The processor is driven by a time budget measured in half-cycles of the
// input clock. Run advances execution until the budget is exhausted,
// reporting every bus tenure to the attached BusHandler as it happens.
// Execution is resumable at any transaction boundary, so a host can slice
// time as finely as it likes and interleave the processor with the rest
// of a machine.
package m68000

import (
	"github.com/sirupsen/logrus"
)

// Config selects construction-time behaviors of the processor.
type Config struct {
	// ImplicitDTACK completes every bus access without consulting the
	// handler's acknowledgement, modelling a system whose address space
	// is fully populated with zero-wait memory. Without it, a handler
	// returning AckNone holds the processor in a wait state.
	ImplicitDTACK bool

	// PermitOverrun lets Run continue past an exhausted budget to the
	// next instruction boundary, carrying the deficit into the following
	// call. Without it, Run pauses at the next transaction boundary.
	PermitOverrun bool

	// Logger receives diagnostics such as double-fault warnings.
	// A nil Logger uses the logrus standard logger.
	Logger *logrus.Logger
}

// phaseLength is the duration of each half of a standard bus access; a
// zero-wait word transfer occupies two of these. pollLength is the
// interval at which a held transaction re-queries its handler.
const (
	phaseLength HalfCycles = 4
	pollLength  HalfCycles = 2
)

// pState identifies the execution state machine's current program.
type pState uint8

const (
	stateReset pState = iota
	stateDecode
	stateWaitAck
	stateFetchOperand
	statePerform
	stateException
	stateFault
	stateInterrupt
	stateBcc
	stateBSR
	stateDBcc
	stateJump
	stateRTS
	stateReturn
	statePEA
	stateLINK
	stateUNLK
	stateMOVEM
	stateMOVEP
	stateSTOP
	stateStopped
	stateRESET
	stateHalted
	stateRefill
)

// Registers is the programmer-visible register file. A7 is represented by
// the two banked stack pointers; the active one is selected by the S bit
// of SR.
type Registers struct {
	D   [8]uint32
	A   [7]uint32
	PC  uint32
	SR  uint16
	USP uint32
	SSP uint32
}

// State is a complete instruction-boundary snapshot of the processor.
// PC is the raw internal program counter: it runs four bytes ahead of the
// instruction being decoded because of the two-word prefetch queue, whose
// contents are captured alongside it.
type State struct {
	Registers
	Prefetch [2]uint16
	Stopped  bool
	Halted   bool
}

// Processor is a single MC68000. Create one with New; the zero value is
// not usable.
type Processor struct {
	d  [8]uint32
	a  [8]uint32 // a[7] is the active stack pointer
	pc uint32

	status Status
	// stackPointers holds the inactive stack pointer: index 0 user,
	// index 1 supervisor. The slot matching activeSP is stale.
	stackPointers [2]uint32
	activeSP      int

	prefetch [2]uint16
	ir       uint16
	inst     Instruction
	instAddr uint32

	bus BusHandler
	cfg Config
	log *logrus.Entry

	time HalfCycles

	state       pState
	step        int
	accessPhase int
	trans       Transaction
	lastAck     int

	resumeState pState
	resumeStep  int

	afterFetch     pState
	afterFetchStep int
	opFlags        operandFlags
	opIdx          int
	opVal          [2]uint32
	opAddr         [2]uint32

	// scratch carried between steps of one state program
	tmp  uint32
	tmp2 uint32
	sub  int

	pendingIdle      HalfCycles
	pendingException int
	storeBefore      bool
	storeIdx         int

	exVector int
	exPC     uint32
	exSR     uint16
	frame    [7]uint16
	inFault  bool

	movemMask uint16
	movemAddr uint32
	movemBit  int

	intLevel   uint8
	nmiLatch   bool
	traceLatch bool
	stopReturn uint32
}

// New returns a processor attached to bus, beginning its external reset
// sequence: the first Run will read the supervisor stack pointer and
// program counter from vectors 0 and 1.
func New(bus BusHandler, cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	p := &Processor{
		bus: bus,
		cfg: cfg,
		log: logger.WithField("component", "m68000"),
	}
	p.Reset()
	return p
}

// Reset requests an external reset. The sequence begins on the next Run.
func (p *Processor) Reset() {
	p.state = stateReset
	p.step = 0
	p.accessPhase = 0
	p.pendingException = -1
	p.traceLatch = false
	p.nmiLatch = false
}

// Run advances execution by duration half-cycles and returns the residual
// budget. The residual is negative when the final transaction ran past
// the budget; the deficit is also carried internally, so callers that
// ignore the return value still get long-run conservation of time.
func (p *Processor) Run(duration HalfCycles) HalfCycles {
	p.time += duration
	for p.dispatch() {
	}
	return p.time
}

func (p *Processor) dispatch() bool {
	switch p.state {
	case stateReset:
		return p.runReset()
	case stateDecode:
		return p.runDecode()
	case stateWaitAck:
		return p.runWaitAck()
	case stateFetchOperand:
		return p.runFetchOperand()
	case statePerform:
		return p.runPerform()
	case stateException:
		return p.runException()
	case stateFault:
		return p.runFault()
	case stateInterrupt:
		return p.runInterrupt()
	case stateBcc:
		return p.runBcc()
	case stateBSR:
		return p.runBSR()
	case stateDBcc:
		return p.runDBcc()
	case stateJump:
		return p.runJump()
	case stateRTS:
		return p.runRTS()
	case stateReturn:
		return p.runReturn()
	case statePEA:
		return p.runPEA()
	case stateLINK:
		return p.runLINK()
	case stateUNLK:
		return p.runUNLK()
	case stateMOVEM:
		return p.runMOVEM()
	case stateMOVEP:
		return p.runMOVEP()
	case stateSTOP:
		return p.runSTOP()
	case stateStopped:
		return p.runStopped()
	case stateRESET:
		return p.runRESETInstruction()
	case stateHalted:
		return p.runHalted()
	case stateRefill:
		return p.runRefill()
	}
	return false
}

// --- Time accounting ---

func (p *Processor) shouldContinue() bool {
	return p.cfg.PermitOverrun || p.time > 0
}

// advance moves to the given step of the current state, yielding when the
// budget is spent.
func (p *Processor) advance(to int) bool {
	p.step = to
	return p.shouldContinue()
}

// finish ends the current instruction and returns to the decoder.
func (p *Processor) finish() bool {
	p.state = stateDecode
	p.step = 0
	return true
}

// --- Bus micro-operations ---

type accessResult uint8

const (
	accessOK accessResult = iota
	accessYield
	accessDiverted
)

// access drives the pending transaction through its announce and
// completion phases, spending four half-cycles for each. It yields
// mid-transaction when the budget runs out and diverts to the wait or
// fault states on AckNone and AckBERR.
func (p *Processor) access() accessResult {
	if p.accessPhase == 0 {
		p.trans.Length = phaseLength
		p.bus.Perform(&p.trans, PhaseAnnounce)
		p.accessPhase = 1
		p.time -= phaseLength
		if !p.shouldContinue() {
			return accessYield
		}
	}

	ack := p.bus.Perform(&p.trans, PhaseComplete)
	if ack == AckNone && p.cfg.ImplicitDTACK {
		ack = AckDTACK
	}
	switch ack {
	case AckNone:
		p.resumeState = p.state
		p.resumeStep = p.step
		p.state = stateWaitAck
		return accessDiverted
	case AckBERR:
		p.accessPhase = 0
		p.busFault()
		return accessDiverted
	}

	// AckVPA on an ordinary data strobe completes like DTACK; the
	// 6800-style synchronization delay is not modelled.
	p.lastAck = ack
	p.accessPhase = 0
	p.time -= phaseLength
	return accessOK
}

// idle reports a single idle tenure of the given length.
func (p *Processor) idle(n HalfCycles) {
	if n <= 0 {
		return
	}
	t := Transaction{Op: BusIdle, Length: n}
	p.bus.Perform(&t, PhaseIdle)
	p.time -= n
}

// beginRead prepares a data-strobe read. A word access to an odd address
// diverts to the address error sequence and returns false.
func (p *Processor) beginRead(addr uint32, sz Size, space AddressSpace) bool {
	if sz != Byte && addr&1 != 0 {
		p.beginAddressError(false, addr, space)
		return false
	}
	op := BusRead
	if p.inst.Op == OpTAS && p.state == stateFetchOperand {
		op = BusReadModifyWrite
	}
	p.trans = Transaction{Op: op, Size: sz, Address: addr, Space: space, AddressValid: true}
	return true
}

// beginWrite prepares a data-strobe write, with the same alignment rule.
func (p *Processor) beginWrite(addr uint32, sz Size, space AddressSpace, value uint16) bool {
	if sz != Byte && addr&1 != 0 {
		p.beginAddressError(true, addr, space)
		return false
	}
	p.trans = Transaction{Op: BusWrite, Size: sz, Address: addr, Space: space, Value: value, AddressValid: true}
	return true
}

// beginPrefetch prepares the program read that slides the prefetch queue.
func (p *Processor) beginPrefetch() bool {
	if p.pc&1 != 0 {
		p.beginAddressError(false, p.pc, SpaceProgram)
		return false
	}
	p.trans = Transaction{Op: BusRead, Size: Word, Address: p.pc, Space: SpaceProgram, AddressValid: true}
	return true
}

// completePrefetch commits a finished prefetch: the queue slides and the
// program counter moves on.
func (p *Processor) completePrefetch() {
	p.prefetch[0] = p.prefetch[1]
	p.prefetch[1] = p.trans.Value
	p.pc += 2
}

// runWaitAck polls a held transaction every two half-cycles until the
// handler acknowledges, faults, or the budget runs out.
func (p *Processor) runWaitAck() bool {
	for {
		if p.time <= 0 {
			return false
		}
		t := p.trans
		t.Length = pollLength
		ack := p.bus.Perform(&t, PhasePoll)
		p.time -= pollLength
		switch ack {
		case AckDTACK, AckVPA:
			p.state = p.resumeState
			p.step = p.resumeStep
			return true
		case AckBERR:
			p.accessPhase = 0
			p.busFault()
			return true
		}
	}
}

// --- Reset sequence ---

// runReset performs the external reset: the bus idles while the processor
// initializes, then the initial supervisor stack pointer and program
// counter are read from the bottom of memory and the queue is filled.
func (p *Processor) runReset() bool {
	switch p.step {
	case 0:
		p.status = FlagS
		p.status.SetInterruptMask(7)
		p.activeSP = 1
		p.inFault = true // a fault before the first instruction halts
		p.idle(28)
		return p.advance(1)
	case 1:
		if !p.beginRead(0, Word, SpaceProgram) {
			return true
		}
		p.step = 2
		fallthrough
	case 2:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(3)
	case 3:
		if !p.beginRead(2, Word, SpaceProgram) {
			return true
		}
		p.step = 4
		fallthrough
	case 4:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.a[7] = p.tmp | uint32(p.trans.Value)
		p.stackPointers[1] = p.a[7]
		return p.advance(5)
	case 5:
		if !p.beginRead(4, Word, SpaceProgram) {
			return true
		}
		p.step = 6
		fallthrough
	case 6:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.tmp = uint32(p.trans.Value) << 16
		return p.advance(7)
	case 7:
		if !p.beginRead(6, Word, SpaceProgram) {
			return true
		}
		p.step = 8
		fallthrough
	case 8:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.pc = p.tmp | uint32(p.trans.Value)
		p.idle(4)
		return p.advance(9)
	case 9:
		if !p.beginPrefetch() {
			return true
		}
		p.step = 10
		fallthrough
	case 10:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
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
		p.inFault = false
		return p.finish()
	}
	return false
}

// --- Decode ---

// runDecode sits at the instruction boundary: pending trace and interrupt
// exceptions are taken here, the budget is checked strictly, and the word
// at the front of the prefetch queue is decoded and routed.
func (p *Processor) runDecode() bool {
	p.inFault = false

	if p.traceLatch {
		p.traceLatch = false
		p.beginException(vecTrace, p.pc-4)
		return true
	}
	if lvl := p.pendingInterruptLevel(); lvl > 0 {
		p.beginInterrupt(lvl, p.pc-4)
		return true
	}
	if p.time <= 0 {
		return false
	}

	p.ir = p.prefetch[0]
	p.inst = Decode(p.ir)
	p.instAddr = p.pc - 4
	p.traceLatch = p.status.Trace()

	switch p.inst.Op {
	case OpUndefined:
		p.beginException(vecIllegal, p.instAddr)
		return true
	case OpLineA:
		p.beginException(vecLineA, p.instAddr)
		return true
	case OpLineF:
		p.beginException(vecLineF, p.instAddr)
		return true
	}
	if p.inst.RequiresSupervisor() && !p.status.Supervisor() {
		p.beginException(vecPrivilege, p.instAddr)
		return true
	}

	p.route()
	return true
}

// route dispatches a valid instruction to its execution state.
func (p *Processor) route() {
	p.step = 0
	p.opIdx = 0
	p.pendingIdle = 0
	p.pendingException = -1
	p.opFlags = flagsFor(&p.inst)
	p.afterFetch = statePerform
	p.afterFetchStep = 0
	p.storeIdx = -1
	p.storeBefore = false

	switch p.inst.Op {
	case OpBcc, OpBRA:
		p.state = stateBcc
	case OpBSR:
		p.state = stateBSR
	case OpDBcc:
		p.state = stateDBcc
	case OpJMP, OpJSR:
		p.state = stateJump
	case OpRTS:
		p.state = stateRTS
	case OpRTE, OpRTR:
		p.state = stateReturn
	case OpTRAP:
		p.idle(8)
		p.beginException(vecTRAPBase+int(p.inst.Quick), p.instAddr+2)
	case OpTRAPV:
		if p.status&FlagV != 0 {
			p.beginException(vecTRAPV, p.pc-2)
		} else {
			p.state = statePerform
			p.step = stepPerformPrefetch
		}
	case OpLINK:
		p.state = stateLINK
	case OpUNLK:
		p.state = stateUNLK
	case OpMOVEMtoM, OpMOVEMtoR:
		p.state = stateMOVEM
	case OpMOVEPtoM, OpMOVEPtoR:
		p.state = stateMOVEP
	case OpSTOP:
		p.state = stateSTOP
	case OpRESET:
		p.state = stateRESET
	case OpPEA:
		p.afterFetch = statePEA
		p.state = stateFetchOperand
	case OpLEA:
		// LEA through an indexed mode has two extra cycles of address
		// arithmetic, as do PEA, JMP and JSR.
		if p.inst.Mode[0] == ModeIndexed || p.inst.Mode[0] == ModePCIndexed {
			p.pendingIdle += Cycles(2)
		}
		p.state = stateFetchOperand
	default:
		p.state = stateFetchOperand
	}
}

// --- Generic evaluation ---

// Step indices of runPerform's program; routing jumps into it for
// operations that only need the closing prefetch.
const (
	stepPerformEval     = 0
	stepPerformIdle     = 1
	stepPerformEarly    = 2
	stepPerformPrefetch = 3
	stepPerformLate     = 5
	stepPerformStore    = 10
)

// runPerform evaluates the decoded instruction over its fetched operands,
// spends its internal time, stores results, and closes with the prefetch
// that slides the next opcode to the front of the queue. Memory stores
// normally follow the prefetch; MOVE to anything but a predecremented
// destination writes first.
func (p *Processor) runPerform() bool {
	switch p.step {
	case stepPerformEval:
		perform(&p.inst, p.ir, &p.opVal[0], &p.opVal[1], &p.status, p)
		p.pendingIdle += performIdle(&p.inst)
		if p.pendingException >= 0 {
			v := p.pendingException
			p.pendingException = -1
			// The aborted evaluation still spends its internal time
			// before the trap sequence starts.
			p.idle(p.pendingIdle)
			p.pendingIdle = 0
			p.beginException(v, p.pc-2)
			return true
		}
		p.writeRegisterOperands()
		p.storeIdx = p.memoryStoreIndex()
		p.storeBefore = p.inst.Op == OpMOVE && p.inst.Mode[1] != ModePreDecrement ||
			p.inst.Op == OpTAS
		p.step = stepPerformIdle
		fallthrough
	case stepPerformIdle:
		p.idle(p.pendingIdle)
		p.pendingIdle = 0
		return p.advance(stepPerformEarly)
	case stepPerformEarly:
		if p.storeBefore && p.storeIdx >= 0 {
			p.sub = stepPerformPrefetch
			p.step = stepPerformStore
			return true
		}
		p.step = stepPerformPrefetch
		fallthrough
	case stepPerformPrefetch:
		if !p.beginPrefetch() {
			return true
		}
		p.step = stepPerformPrefetch + 1
		fallthrough
	case stepPerformPrefetch + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		p.completePrefetch()
		return p.advance(stepPerformLate)
	case stepPerformLate:
		if !p.storeBefore && p.storeIdx >= 0 {
			p.sub = stepPerformLate + 1
			p.step = stepPerformStore
			return true
		}
		return p.finish()
	case stepPerformLate + 1:
		return p.finish()

	// Memory store subprogram: one or two word strobes, returning to the
	// step recorded in p.sub. Predecremented long destinations write the
	// low word first.
	case stepPerformStore:
		i := p.storeIdx
		addr, val, sz := p.opAddr[i], p.opVal[i], p.inst.Size
		if sz == Long {
			if p.inst.Mode[i] == ModePreDecrement {
				p.tmp = addr // high word, written second
				if !p.beginWrite(addr+2, Word, SpaceData, uint16(val)) {
					return true
				}
			} else {
				p.tmp = addr + 2 // low word, written second
				if !p.beginWrite(addr, Word, SpaceData, uint16(val>>16)) {
					return true
				}
			}
		} else if !p.beginWrite(addr, sz, SpaceData, uint16(val&sz.Mask())) {
			return true
		}
		p.step = stepPerformStore + 1
		fallthrough
	case stepPerformStore + 1:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		if p.inst.Size != Long {
			return p.advance(p.sub)
		}
		return p.advance(stepPerformStore + 2)
	case stepPerformStore + 2:
		val := p.opVal[p.storeIdx]
		half := uint16(val)
		if p.inst.Mode[p.storeIdx] == ModePreDecrement {
			half = uint16(val >> 16)
		}
		if !p.beginWrite(p.tmp, Word, SpaceData, half) {
			return true
		}
		p.step = stepPerformStore + 3
		fallthrough
	case stepPerformStore + 3:
		if r := p.access(); r != accessOK {
			return r == accessDiverted
		}
		return p.advance(p.sub)
	}
	return false
}

// writeRegisterOperands commits results destined for registers; these
// cost no bus time. Data registers merge by operand size, address
// registers always take the full 32 bits.
func (p *Processor) writeRegisterOperands() {
	for i := 0; i < 2; i++ {
		store := opStore0 << i
		if p.opFlags&store == 0 {
			continue
		}
		switch p.inst.Mode[i] {
		case ModeDataRegister:
			mask := p.inst.Size.Mask()
			r := p.inst.Reg[i]
			p.d[r] = p.d[r]&^mask | p.opVal[i]&mask
		case ModeAddressRegister:
			p.a[p.inst.Reg[i]] = p.opVal[i]
		}
	}
}

// memoryStoreIndex returns which operand, if any, needs a memory store.
func (p *Processor) memoryStoreIndex() int {
	if p.opFlags&opStore0 != 0 && p.inst.Mode[0].Indirect() {
		return 0
	}
	if p.opFlags&opStore1 != 0 && p.inst.Mode[1].Indirect() {
		return 1
	}
	return -1
}

// --- Stopped and halted ---

// runSTOP loads the status register from the immediate word and suspends
// execution until an interrupt arrives.
func (p *Processor) runSTOP() bool {
	p.status.Set(p.prefetch[1])
	p.didUpdateStatus()
	p.stopReturn = p.instAddr + 4
	p.idle(8)
	p.state = stateStopped
	return p.shouldContinue()
}

func (p *Processor) runStopped() bool {
	if lvl := p.pendingInterruptLevel(); lvl > 0 {
		p.beginInterrupt(lvl, p.stopReturn)
		return true
	}
	if p.time <= 0 {
		return false
	}
	p.idle(4)
	return true
}

// runRESETInstruction asserts the reset output: connected devices get
// their Reset callback while the processor sits out the pulse.
func (p *Processor) runRESETInstruction() bool {
	switch p.step {
	case 0:
		p.bus.Reset()
		p.idle(256)
		return p.advance(1)
	case 1:
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
		return p.finish()
	}
	return false
}

// runHalted is the terminal double-fault state; only an external Reset
// leaves it.
func (p *Processor) runHalted() bool {
	if p.time <= 0 {
		return false
	}
	p.idle(p.time)
	return false
}

// --- Status banking and evaluation hooks ---

// didUpdateStatus re-banks the active stack pointer after any full status
// rewrite. It implements part of the flowController contract.
func (p *Processor) didUpdateStatus() {
	want := 0
	if p.status.Supervisor() {
		want = 1
	}
	if want == p.activeSP {
		return
	}
	p.stackPointers[p.activeSP] = p.a[7]
	p.a[7] = p.stackPointers[want]
	p.activeSP = want
}

func (p *Processor) raiseException(vector int) {
	p.pendingException = vector
}

func (p *Processor) moveToUSP(value uint32) {
	if p.activeSP == 0 {
		p.a[7] = value
	} else {
		p.stackPointers[0] = value
	}
}

func (p *Processor) moveFromUSP() uint32 {
	if p.activeSP == 0 {
		return p.a[7]
	}
	return p.stackPointers[0]
}

func (p *Processor) didScc(taken bool) {
	if taken && p.inst.Mode[0] == ModeDataRegister {
		p.pendingIdle += Cycles(2)
	}
}

func (p *Processor) didShift(count uint32) {
	p.pendingIdle += shiftIdle(count, p.inst.Size)
}

func (p *Processor) didMUL(pattern uint16) {
	p.pendingIdle += mulIdle(pattern)
}

func (p *Processor) didDIV(completed bool) {
	p.pendingIdle += divIdle(p.inst.Op, completed)
}

// --- Snapshots ---

// State captures an instruction-boundary snapshot. Snapshots taken while
// an instruction is in flight describe the boundary most recently passed.
func (p *Processor) State() State {
	var s State
	s.D = p.d
	copy(s.A[:], p.a[:7])
	s.PC = p.pc
	s.SR = p.status.Word()
	s.USP = p.stackPointers[0]
	s.SSP = p.stackPointers[1]
	if p.activeSP == 1 {
		s.SSP = p.a[7]
	} else {
		s.USP = p.a[7]
	}
	s.Prefetch = p.prefetch
	s.Stopped = p.state == stateStopped
	s.Halted = p.state == stateHalted
	return s
}

// SetState restores a snapshot. Restoring the value State just returned
// leaves the processor exactly where it was.
func (p *Processor) SetState(s State) {
	p.d = s.D
	copy(p.a[:7], s.A[:])
	p.pc = s.PC
	p.status.Set(s.SR)
	p.stackPointers[0] = s.USP
	p.stackPointers[1] = s.SSP
	p.activeSP = 0
	if p.status.Supervisor() {
		p.activeSP = 1
	}
	p.a[7] = p.stackPointers[p.activeSP]
	p.prefetch = s.Prefetch
	p.accessPhase = 0
	p.pendingException = -1
	p.step = 0
	switch {
	case s.Halted:
		p.state = stateHalted
	case s.Stopped:
		p.state = stateStopped
		p.stopReturn = p.pc
	default:
		p.state = stateDecode
	}
}
