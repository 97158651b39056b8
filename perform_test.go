package m68000

import "testing"

// flowRecorder captures the side effects perform reports, standing in
// for the processor's state machine.
type flowRecorder struct {
	exceptions []int
	usp        uint32
	statusHits int
	scc        []bool
	shifts     []uint32
	muls       []uint16
	divs       []bool
}

func (f *flowRecorder) raiseException(vector int) { f.exceptions = append(f.exceptions, vector) }
func (f *flowRecorder) didUpdateStatus()          { f.statusHits++ }
func (f *flowRecorder) moveToUSP(v uint32)        { f.usp = v }
func (f *flowRecorder) moveFromUSP() uint32       { return f.usp }
func (f *flowRecorder) didScc(taken bool)         { f.scc = append(f.scc, taken) }
func (f *flowRecorder) didShift(count uint32)     { f.shifts = append(f.shifts, count) }
func (f *flowRecorder) didMUL(pattern uint16)     { f.muls = append(f.muls, pattern) }
func (f *flowRecorder) didDIV(completed bool)     { f.divs = append(f.divs, completed) }

// evalCase drives perform for a decoded opcode with explicit operands.
type evalCase struct {
	name     string
	opcode   uint16
	src, dst uint32
	st       Status
	wantSrc  uint32
	wantDst  uint32
	wantSt   Status
}

func runEval(t *testing.T, tests []evalCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Decode(tt.opcode)
			if inst.Op == OpUndefined {
				t.Fatalf("opcode %04X does not decode", tt.opcode)
			}
			src, dst, st := tt.src, tt.dst, tt.st
			perform(&inst, tt.opcode, &src, &dst, &st, &flowRecorder{})
			if src != tt.wantSrc {
				t.Errorf("src = %08X, want %08X", src, tt.wantSrc)
			}
			if dst != tt.wantDst {
				t.Errorf("dst = %08X, want %08X", dst, tt.wantDst)
			}
			if st != tt.wantSt {
				t.Errorf("status = %04X, want %04X", st.Word(), tt.wantSt.Word())
			}
		})
	}
}

func TestPerformArithmetic(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "add byte carry", opcode: 0xD000, // ADD.B D0,D0 shape
			src: 0xFF, dst: 0x01,
			wantSrc: 0xFF, wantDst: 0x100, wantSt: FlagZ | FlagC | FlagX,
		},
		{
			name: "add long overflow", opcode: 0xD081,
			src: 0x7FFFFFFF, dst: 0x00000001,
			wantSrc: 0x7FFFFFFF, wantDst: 0x80000000, wantSt: FlagN | FlagV,
		},
		{
			name: "sub word borrow", opcode: 0x9041, // SUB.W D1,D0
			src: 0x0002, dst: 0x0001,
			// The evaluator leaves the full-width difference; the store
			// path masks to the operand size on write-back.
			wantSrc: 0x0002, wantDst: 0xFFFFFFFF, wantSt: FlagN | FlagC | FlagX,
		},
		{
			name: "cmp leaves dst", opcode: 0xB041, // CMP.W D1,D0
			src: 0x1234, dst: 0x1234,
			wantSrc: 0x1234, wantDst: 0x1234, wantSt: FlagZ,
		},
		{
			name: "adda sign extends word", opcode: 0xD0C1, // ADDA.W D1,A0
			src: 0xFFFF, dst: 0x00001000, st: FlagZ,
			wantSrc: 0xFFFF, wantDst: 0x00000FFF, wantSt: FlagZ, // flags untouched
		},
		{
			name: "neg", opcode: 0x4440, // NEG.W D0
			src: 0x0001, dst: 0,
			wantSrc: 0xFFFFFFFF, wantDst: 0, wantSt: FlagN | FlagC | FlagX,
		},
		{
			name: "clr", opcode: 0x4240, // CLR.W D0
			src: 0xBEEF, dst: 0, st: FlagN | FlagC,
			wantSrc: 0, wantDst: 0, wantSt: FlagZ,
		},
		{
			name: "ext word", opcode: 0x4880, // EXT.W D0
			src: 0x12345680, dst: 0,
			wantSrc: 0x1234FF80, wantDst: 0, wantSt: FlagN,
		},
		{
			name: "ext long", opcode: 0x48C0, // EXT.L D0
			src: 0x0000FF80, dst: 0,
			wantSrc: 0xFFFFFF80, wantDst: 0, wantSt: FlagN,
		},
	})
}

func TestPerformExtended(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "addx carries extend in", opcode: 0xD141, // ADDX.W D1,D0
			src: 0x0001, dst: 0x0001, st: FlagX | FlagZ,
			wantSrc: 0x0001, wantDst: 0x0003, wantSt: 0, // Z cleared: result nonzero
		},
		{
			name: "addx keeps accumulated zero", opcode: 0xD141,
			src: 0xFFFF, dst: 0x0001, st: FlagZ,
			wantSrc: 0xFFFF, wantDst: 0x10000, wantSt: FlagZ | FlagC | FlagX,
		},
		{
			name: "addx drops stale zero", opcode: 0xD141,
			src: 0xFFFF, dst: 0x0001, st: 0,
			wantSrc: 0xFFFF, wantDst: 0x10000, wantSt: FlagC | FlagX,
		},
		{
			name: "subx chains borrow", opcode: 0x9141, // SUBX.W D1,D0
			src: 0x0000, dst: 0x0001, st: FlagX | FlagZ,
			wantSrc: 0x0000, wantDst: 0x0000, wantSt: FlagZ,
		},
	})
}

func TestPerformLogic(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "and", opcode: 0xC041, // AND.W D1,D0
			src: 0x0F0F, dst: 0xFF00,
			wantSrc: 0x0F0F, wantDst: 0x0F00, wantSt: 0,
		},
		{
			name: "or sets n", opcode: 0x8041, // OR.W D1,D0
			src: 0x8000, dst: 0x0001,
			wantSrc: 0x8000, wantDst: 0x8001, wantSt: FlagN,
		},
		{
			name: "eor to zero", opcode: 0xB541, // EOR.W D2,D1 shape
			src: 0x1234, dst: 0x1234,
			wantSrc: 0x1234, wantDst: 0x0000, wantSt: FlagZ,
		},
		{
			name: "not", opcode: 0x4640, // NOT.W D0
			src: 0x00FF, dst: 0,
			wantSrc: 0xFFFFFF00, wantDst: 0, wantSt: FlagN,
		},
		{
			name: "tst", opcode: 0x4A40, // TST.W D0
			src: 0x0000, dst: 0, st: FlagN | FlagV | FlagC,
			wantSrc: 0x0000, wantDst: 0, wantSt: FlagZ,
		},
		{
			name: "tas sets high bit", opcode: 0x4AC0, // TAS D0
			src: 0x00, dst: 0,
			wantSrc: 0x80, wantDst: 0, wantSt: FlagZ,
		},
		{
			name: "swap", opcode: 0x4840,
			src: 0x12348765, dst: 0,
			wantSrc: 0x87651234, wantDst: 0, wantSt: FlagN,
		},
		{
			name: "exg", opcode: 0xC141, // EXG D0,D1
			src: 0x11111111, dst: 0x22222222,
			wantSrc: 0x22222222, wantDst: 0x11111111, wantSt: 0,
		},
	})
}

func TestPerformBits(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "btst long wraps at 32", opcode: 0x0101, // BTST D0,D1
			src: 33, dst: 0x00000002,
			wantSrc: 33, wantDst: 0x00000002, wantSt: 0,
		},
		{
			name: "btst clear bit sets z", opcode: 0x0101,
			src: 0, dst: 0x00000002,
			wantSrc: 0, wantDst: 0x00000002, wantSt: FlagZ,
		},
		{
			name: "bchg", opcode: 0x0141, // BCHG D0,D1
			src: 1, dst: 0x00000002,
			wantSrc: 1, wantDst: 0x00000000, wantSt: 0,
		},
		{
			name: "bclr", opcode: 0x0181, // BCLR D0,D1
			src: 1, dst: 0x00000003,
			wantSrc: 1, wantDst: 0x00000001, wantSt: 0,
		},
		{
			name: "bset was clear", opcode: 0x01C1, // BSET D0,D1
			src: 4, dst: 0,
			wantSrc: 4, wantDst: 0x00000010, wantSt: FlagZ,
		},
		{
			name: "memory form wraps at 8", opcode: 0x01D0, // BSET D0,(A0)
			src: 9, dst: 0x00,
			wantSrc: 9, wantDst: 0x02, wantSt: FlagZ,
		},
	})
}

func TestPerformBCD(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "abcd simple", opcode: 0xC101, // ABCD D1,D0
			src: 0x15, dst: 0x27, st: FlagZ,
			wantSrc: 0x15, wantDst: 0x42, wantSt: 0,
		},
		{
			name: "abcd carry", opcode: 0xC101,
			src: 0x99, dst: 0x01, st: FlagZ,
			wantSrc: 0x99, wantDst: 0x00, wantSt: FlagZ | FlagC | FlagX,
		},
		{
			name: "abcd with extend", opcode: 0xC101,
			src: 0x15, dst: 0x27, st: FlagX | FlagZ,
			wantSrc: 0x15, wantDst: 0x43, wantSt: 0,
		},
		{
			name: "sbcd borrow", opcode: 0x8101, // SBCD D1,D0
			src: 0x01, dst: 0x00, st: FlagZ,
			wantSrc: 0x01, wantDst: 0x99, wantSt: FlagN | FlagC | FlagX,
		},
		{
			name: "nbcd", opcode: 0x4800, // NBCD D0
			src: 0x01, dst: 0, st: FlagZ,
			wantSrc: 0x99, wantDst: 0, wantSt: FlagN | FlagC | FlagX,
		},
	})
}

func TestPerformMultiply(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "mulu", opcode: 0xC0C1, // MULU D1,D0
			src: 0x0002, dst: 0x8000,
			wantSrc: 0x0002, wantDst: 0x00010000, wantSt: 0,
		},
		{
			name: "muls negative", opcode: 0xC1C1, // MULS D1,D0
			src: 0xFFFF, dst: 0x0002, // -1 * 2
			wantSrc: 0xFFFF, wantDst: 0xFFFFFFFE, wantSt: FlagN,
		},
		{
			name: "mul zero", opcode: 0xC0C1,
			src: 0x0000, dst: 0x1234,
			wantSrc: 0x0000, wantDst: 0x00000000, wantSt: FlagZ,
		},
	})
}

func TestPerformDivide(t *testing.T) {
	runEval(t, []evalCase{
		{
			name: "divu packs remainder", opcode: 0x80C1, // DIVU D1,D0
			src: 0x0003, dst: 0x0000000A,
			wantSrc: 0x0003, wantDst: 0x00010003, wantSt: 0,
		},
		{
			name: "divu overflow leaves dividend", opcode: 0x80C1,
			src: 0x0001, dst: 0x00010000,
			wantSrc: 0x0001, wantDst: 0x00010000, wantSt: FlagV | FlagN,
		},
		{
			name: "divs negative quotient", opcode: 0x81C1, // DIVS D1,D0
			src: 0xFFFF, dst: 0x00000007, // 7 / -1
			wantSrc: 0xFFFF, wantDst: 0x0000FFF9, wantSt: FlagN,
		},
	})
}

func TestPerformDivideByZero(t *testing.T) {
	inst := Decode(0x80C1)
	src, dst := uint32(0), uint32(0x1234)
	st := FlagN | FlagC
	flow := &flowRecorder{}
	perform(&inst, 0x80C1, &src, &dst, &st, flow)
	if dst != 0x1234 {
		t.Errorf("dividend modified: %08X", dst)
	}
	if len(flow.exceptions) != 1 || flow.exceptions[0] != vecDivideByZero {
		t.Errorf("exceptions = %v, want [%d]", flow.exceptions, vecDivideByZero)
	}
	if len(flow.divs) != 1 || flow.divs[0] {
		t.Errorf("divs = %v, want single aborted report", flow.divs)
	}
}

func TestPerformCHK(t *testing.T) {
	inst := Decode(0x4181) // CHK D1,D0

	// In range: no trap.
	src, dst := uint32(100), uint32(50)
	var st Status
	flow := &flowRecorder{}
	perform(&inst, 0x4181, &src, &dst, &st, flow)
	if len(flow.exceptions) != 0 {
		t.Errorf("in-range CHK trapped: %v", flow.exceptions)
	}

	// Negative: traps with N set.
	src, dst = 100, 0x8000
	st = 0
	flow = &flowRecorder{}
	perform(&inst, 0x4181, &src, &dst, &st, flow)
	if len(flow.exceptions) != 1 || flow.exceptions[0] != vecCHK {
		t.Errorf("negative CHK: exceptions = %v", flow.exceptions)
	}
	if st&FlagN == 0 {
		t.Error("negative CHK left N clear")
	}

	// Above bound: traps with N clear.
	src, dst = 10, 20
	st = FlagN
	flow = &flowRecorder{}
	perform(&inst, 0x4181, &src, &dst, &st, flow)
	if len(flow.exceptions) != 1 {
		t.Errorf("out-of-range CHK: exceptions = %v", flow.exceptions)
	}
	if st&FlagN != 0 {
		t.Error("out-of-range CHK left N set")
	}
}

func TestPerformShifts(t *testing.T) {
	tests := []struct {
		name   string
		op     Operation
		val    uint32
		count  uint32
		sz     Size
		st     Status
		want   uint32
		wantSt Status
	}{
		{"lsl basic", OpLSL, 0x0001, 4, Word, 0, 0x0010, 0},
		{"lsl carry out", OpLSL, 0x8000, 1, Word, 0, 0x0000, FlagZ | FlagC | FlagX},
		{"lsl count equals width", OpLSL, 0x0001, 16, Word, 0, 0x0000, FlagZ | FlagC | FlagX},
		{"lsl count over width", OpLSL, 0xFFFF, 17, Word, 0, 0x0000, FlagZ},
		{"lsr", OpLSR, 0x0010, 4, Word, 0, 0x0001, 0},
		{"lsr carry", OpLSR, 0x0001, 1, Word, 0, 0x0000, FlagZ | FlagC | FlagX},
		{"asr replicates sign", OpASR, 0x8000, 4, Word, 0, 0xF800, FlagN},
		{"asr all the way", OpASR, 0x8000, 20, Word, 0, 0xFFFF, FlagN | FlagC | FlagX},
		{"asl overflow", OpASL, 0x4000, 1, Word, 0, 0x8000, FlagN | FlagV},
		{"asl no overflow", OpASL, 0x1000, 1, Word, 0, 0x2000, 0},
		{"rol wraps", OpROL, 0x8001, 1, Word, 0, 0x0003, FlagC},
		{"ror wraps", OpROR, 0x8001, 1, Word, 0, 0xC000, FlagN | FlagC},
		{"roxl pulls x in", OpROXL, 0x0000, 1, Word, FlagX, 0x0001, 0},
		{"roxl pushes msb to x", OpROXL, 0x8000, 1, Word, 0, 0x0000, FlagZ | FlagC | FlagX},
		{"roxr pulls x in", OpROXR, 0x0000, 1, Word, FlagX, 0x8000, FlagN},
		{"zero count mirrors x into c", OpROXL, 0x0001, 0, Word, FlagX, 0x0001, FlagX | FlagC},
		{"zero count plain", OpLSL, 0x8000, 0, Word, FlagX, 0x8000, FlagX | FlagN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.st
			got := doShift(tt.op, tt.val, tt.count, tt.sz, &st)
			if got != tt.want {
				t.Errorf("result = %04X, want %04X", got, tt.want)
			}
			if st != tt.wantSt {
				t.Errorf("status = %05b, want %05b", st, tt.wantSt)
			}
		})
	}
}

func TestPerformScc(t *testing.T) {
	inst := Decode(0x54C0) // SCC D0
	src, dst := uint32(0), uint32(0)
	var st Status
	flow := &flowRecorder{}
	perform(&inst, 0x54C0, &src, &dst, &st, flow)
	if src != 0xFF {
		t.Errorf("SCC with carry clear = %02X, want FF", src)
	}
	if len(flow.scc) != 1 || !flow.scc[0] {
		t.Errorf("scc reports = %v", flow.scc)
	}

	st = FlagC
	flow = &flowRecorder{}
	perform(&inst, 0x54C0, &src, &dst, &st, flow)
	if src != 0 {
		t.Errorf("SCC with carry set = %02X, want 00", src)
	}
}

func TestPerformStatusMoves(t *testing.T) {
	inst := Decode(0x46C0) // MOVE D0,SR
	src, dst := uint32(0x0715), uint32(0)
	st := Status(0x2700)
	flow := &flowRecorder{}
	perform(&inst, 0x46C0, &src, &dst, &st, flow)
	if st.Word() != 0x0715 {
		t.Errorf("MOVE to SR = %04X, want 0715", st.Word())
	}
	if flow.statusHits != 1 {
		t.Errorf("didUpdateStatus called %d times, want 1", flow.statusHits)
	}

	inst = Decode(0x44C0) // MOVE D0,CCR
	src = 0xFFFF
	st = Status(0x2700)
	perform(&inst, 0x44C0, &src, &dst, &st, &flowRecorder{})
	if st.Word() != 0x271F {
		t.Errorf("MOVE to CCR = %04X, want 271F", st.Word())
	}

	inst = Decode(0x4E60) // MOVE A0,USP
	src = 0xCAFE
	flow = &flowRecorder{}
	perform(&inst, 0x4E60, &src, &dst, &st, flow)
	if flow.usp != 0xCAFE {
		t.Errorf("USP = %08X, want CAFE", flow.usp)
	}
	inst = Decode(0x4E68) // MOVE USP,A0
	src = 0
	perform(&inst, 0x4E68, &src, &dst, &st, flow)
	if src != 0xCAFE {
		t.Errorf("MOVE from USP = %08X, want CAFE", src)
	}
}
