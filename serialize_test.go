package m68000

import "testing"

func TestSerializeRoundTrip(t *testing.T) {
	prog := []uint16{
		0x7005, // MOVEQ #5,D0
		0xD081, // ADD.L D1,D0
		0x3080, // MOVE.W D0,(A0)
		0x4E71,
		0x4E71,
	}
	p, _ := newTestProcessor(t, prog...)
	q, _ := newTestProcessor(t, prog...)
	withState(p, func(s *State) { s.A[0] = 0x4000; s.D[1] = 7 })

	stepOne(p)
	stepOne(p)
	p.SetInterruptLevel(7) // latches a pending non-maskable edge

	buf := make([]byte, p.SerializeSize())
	if err := p.Serialize(buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if err := q.Deserialize(buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if sp, sq := p.State(), q.State(); sp != sq {
		t.Fatalf("restored state differs:\n%+v\n%+v", sp, sq)
	}

	// Both must take the latched interrupt identically.
	take := func(pr *Processor) HalfCycles { return -pr.Run(0) }
	hp, hq := take(p), take(q)
	if hp != hq || hp != Cycles(44) {
		t.Errorf("latched interrupt: %v vs %v half-cycles, want %v", hp, hq, Cycles(44))
	}
}

func TestSerializeStopped(t *testing.T) {
	p, _ := newTestProcessor(t, 0x4E72, 0x2000) // STOP #$2000
	stepOne(p)

	buf := make([]byte, p.SerializeSize())
	if err := p.Serialize(buf); err != nil {
		t.Fatalf("Serialize while stopped: %v", err)
	}

	q, _ := newTestProcessor(t, 0x4E72, 0x2000)
	if err := q.Deserialize(buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !q.State().Stopped {
		t.Error("restored processor not stopped")
	}
}

func TestSerializeMidInstruction(t *testing.T) {
	bus := newTestBus()
	bus.putLong(0, testStack)
	bus.putLong(4, testEntry)
	bus.putWord(testEntry, 0x4E71)

	p := New(bus, Config{Logger: testLogger()})
	p.Run(Cycles(1)) // partway into the reset sequence

	buf := make([]byte, p.SerializeSize())
	if err := p.Serialize(buf); err == nil {
		t.Error("Serialize mid-sequence did not fail")
	}
}

func TestSerializeBufferErrors(t *testing.T) {
	p, _ := newTestProcessor(t, 0x4E71)

	short := make([]byte, p.SerializeSize()-1)
	if err := p.Serialize(short); err == nil {
		t.Error("Serialize into a short buffer did not fail")
	}
	if err := p.Deserialize(short); err == nil {
		t.Error("Deserialize from a short buffer did not fail")
	}

	buf := make([]byte, p.SerializeSize())
	if err := p.Serialize(buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	buf[0] = 99
	if err := p.Deserialize(buf); err == nil {
		t.Error("Deserialize with a bad version did not fail")
	}
}
