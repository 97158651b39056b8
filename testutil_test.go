package m68000

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// testBus is a flat 16MB big-endian memory. Every data strobe answers
// DTACK immediately unless an override is installed; interrupt
// acknowledge cycles autovector by default. It keeps a running total of
// the bus time it has been asked to account for, which tests compare
// against the processor's own clock.
type testBus struct {
	mem []byte

	// elapsed sums the lengths of all tenures the processor reported:
	// announces, acknowledged completions, polls and idles.
	elapsed HalfCycles

	// override, when set, handles complete and poll phases entirely.
	override func(tr *Transaction, phase Phase) int

	iackAck    int
	iackVector uint16

	resets int
}

func newTestBus() *testBus {
	return &testBus{mem: make([]byte, 1<<24), iackAck: AckVPA}
}

func (b *testBus) Perform(tr *Transaction, phase Phase) int {
	ack := b.perform(tr, phase)
	switch phase {
	case PhaseAnnounce, PhaseIdle, PhasePoll:
		b.elapsed += tr.Length
	case PhaseComplete:
		// A completion the handler refused or faulted costs nothing;
		// the processor charges for the poll or fault path instead.
		if ack == AckDTACK || ack == AckVPA {
			b.elapsed += tr.Length
		}
	}
	return ack
}

func (b *testBus) perform(tr *Transaction, phase Phase) int {
	if phase == PhaseAnnounce || phase == PhaseIdle {
		return AckNone
	}
	if b.override != nil {
		return b.override(tr, phase)
	}
	if tr.Op == BusInterruptAck {
		if b.iackAck == AckDTACK {
			tr.Value = b.iackVector
		}
		return b.iackAck
	}
	b.serve(tr)
	return AckDTACK
}

// serve performs the memory access for a transaction. The second byte of
// a word access wraps within the 16 MB space.
func (b *testBus) serve(tr *Transaction) {
	addr := tr.Address & 0xFFFFFF
	next := (addr + 1) & 0xFFFFFF
	switch tr.Op {
	case BusRead, BusReadModifyWrite:
		if tr.Size == Word {
			tr.Value = uint16(b.mem[addr])<<8 | uint16(b.mem[next])
		} else {
			tr.Value = uint16(b.mem[addr])
		}
	case BusWrite:
		if tr.Size == Word {
			b.mem[addr] = byte(tr.Value >> 8)
			b.mem[next] = byte(tr.Value)
		} else {
			b.mem[addr] = byte(tr.Value)
		}
	}
}

func (b *testBus) Reset() { b.resets++ }

func (b *testBus) putWord(addr uint32, v uint16) {
	b.mem[addr] = byte(v >> 8)
	b.mem[addr+1] = byte(v)
}

func (b *testBus) putLong(addr uint32, v uint32) {
	b.putWord(addr, uint16(v>>16))
	b.putWord(addr+2, uint16(v))
}

func (b *testBus) word(addr uint32) uint16 {
	return uint16(b.mem[addr])<<8 | uint16(b.mem[addr+1])
}

func (b *testBus) long(addr uint32) uint32 {
	return uint32(b.word(addr))<<16 | uint32(b.word(addr+2))
}

const (
	testStack = 0x00010000
	testEntry = 0x00002000
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestProcessor builds a processor over a fresh bus with the reset
// vectors pointing at testEntry, loads the program there, runs the reset
// sequence, and leaves the clock settled at the first decode.
func newTestProcessor(t *testing.T, program ...uint16) (*Processor, *testBus) {
	t.Helper()

	bus := newTestBus()
	bus.putLong(0, testStack)
	bus.putLong(4, testEntry)
	for i, w := range program {
		bus.putWord(testEntry+uint32(2*i), w)
	}

	p := New(bus, Config{PermitOverrun: true, Logger: testLogger()})
	if got := -p.Run(0); got != Cycles(40) {
		t.Fatalf("reset sequence took %v half-cycles, want %v", got, Cycles(40))
	}
	p.Run(Cycles(40)) // repay the overrun; the clock reads zero again
	return p, bus
}

// stepOne executes one instruction under PermitOverrun and returns the
// time it consumed, leaving the clock settled at zero. An exception or
// interrupt pending at the following boundary is executed and included.
func stepOne(p *Processor) HalfCycles {
	r := p.Run(2 - p.Run(0))
	total := 2 - r
	for r != 0 {
		// Repay the overrun. The repayment run consumes nothing more
		// unless a trace or interrupt fired at the boundary.
		r = p.Run(-r)
		total += -r
	}
	return total
}

// stepCycles is stepOne in whole clock cycles.
func stepCycles(t *testing.T, p *Processor) int64 {
	t.Helper()
	hc := stepOne(p)
	if hc%2 != 0 {
		t.Fatalf("instruction consumed %d half-cycles, not a whole cycle count", hc)
	}
	return int64(hc / 2)
}
