package m68000

// HalfCycles counts time in half-cycles of the input clock. All bus
// transaction lengths and time budgets are expressed in this unit; one
// standard word access is eight half-cycles (four clock cycles).
type HalfCycles int64

// Cycles converts a whole number of clock cycles to half-cycles.
func Cycles(n int64) HalfCycles { return HalfCycles(n * 2) }

// BusOp identifies the kind of work a transaction performs.
type BusOp uint8

const (
	// BusIdle occupies the bus for the transaction's length without
	// transferring data. Internal processing time is reported this way.
	BusIdle BusOp = iota
	// BusRead asserts an address and expects Value to be filled in.
	BusRead
	// BusWrite asserts an address and drives Value onto the bus.
	BusWrite
	// BusReadModifyWrite is the indivisible TAS read phase: the bus
	// remains claimed until the matching write completes.
	BusReadModifyWrite
	// BusInterruptAck is an interrupt acknowledge cycle. Address holds
	// the level being acknowledged; handlers either supply a vector in
	// Value or signal autovectoring via VPA.
	BusInterruptAck
)

// AddressSpace distinguishes program from data fetches, mirroring the
// processor's function-code outputs. Peripherals rarely care, but
// accurate systems (and the trace in m68run) can tell them apart.
type AddressSpace uint8

const (
	SpaceData AddressSpace = iota
	SpaceProgram
	SpaceCPU
)

func (s AddressSpace) String() string {
	switch s {
	case SpaceData:
		return "data"
	case SpaceProgram:
		return "program"
	default:
		return "cpu"
	}
}

// Transaction describes one bus tenure. The processor splits every data
// strobe into an announce half (address asserted) and a completion half
// (data transferred), each four half-cycles long for a zero-wait access.
type Transaction struct {
	// Op is the kind of transaction.
	Op BusOp
	// Size is Byte or Word for data strobes. Long operands are moved
	// as two word transactions, high word first.
	Size Size
	// Address is the asserted address. For BusInterruptAck it holds
	// the interrupt level instead.
	Address uint32
	// Space is the asserted function-code space.
	Space AddressSpace
	// Value carries the datum: filled in by the handler on reads,
	// supplied by the processor on writes.
	Value uint16
	// Length is the duration of this transaction in half-cycles.
	Length HalfCycles
	// AddressValid is false for idle tenures, where Address is
	// meaningless and no strobe occurs.
	AddressValid bool
}

// Handler responses to a completed transaction.
const (
	// AckDTACK is the ordinary completion response.
	AckDTACK = iota
	// AckVPA requests autovectoring for an interrupt acknowledge, or
	// 6800-style synchronous completion for a data strobe.
	AckVPA
	// AckBERR signals a bus fault; the processor takes the bus error
	// exception instead of completing the access.
	AckBERR
	// AckNone withholds acknowledgement. The processor parks in a
	// wait state, re-polling every two half-cycles until the handler's
	// lines change. Only meaningful when the processor was built
	// without ImplicitDTACK.
	AckNone
)

// BusHandler is the processor's connection to the outside world.
//
// Perform is called once per announce phase and once per completion
// phase of every strobed transaction, and once for each idle tenure.
// The return value is the handler's acknowledgement for the completion
// phase; announce phases and idle tenures ignore it. Handlers that
// never insert wait states simply return AckDTACK.
type BusHandler interface {
	Perform(t *Transaction, phase Phase) int
	Reset()
}

// Phase tells a BusHandler which half of a strobed transaction it is
// observing.
type Phase uint8

const (
	// PhaseAnnounce is the first half: address lines valid, no data.
	PhaseAnnounce Phase = iota
	// PhaseComplete is the second half: data transferred, handler
	// acknowledgement consulted.
	PhaseComplete
	// PhaseIdle is the sole call for an idle tenure.
	PhaseIdle
	// PhasePoll is a re-query of a held transaction during a DTACK
	// wait, issued every two half-cycles.
	PhasePoll
)

func (p Phase) String() string {
	switch p {
	case PhaseAnnounce:
		return "announce"
	case PhaseComplete:
		return "complete"
	case PhaseIdle:
		return "idle"
	default:
		return "poll"
	}
}
