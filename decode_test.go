package m68000

import "testing"

// TestDecodeTotal checks that every possible opcode word decodes to
// something sensible: a valid descriptor, an undefined one, or the
// line A/F reservations, with the reserved ranges mapped exactly.
func TestDecodeTotal(t *testing.T) {
	for op := 0; op < 0x10000; op++ {
		inst := Decode(uint16(op))
		switch {
		case op >= 0xA000 && op < 0xB000:
			if inst.Op != OpLineA {
				t.Fatalf("Decode(%04X) = %v, want line A", op, inst.Op)
			}
		case op >= 0xF000:
			if inst.Op != OpLineF {
				t.Fatalf("Decode(%04X) = %v, want line F", op, inst.Op)
			}
		case inst.Op == OpLineA || inst.Op == OpLineF:
			t.Fatalf("Decode(%04X) = %v outside its reserved range", op, inst.Op)
		}
		if inst.Valid() {
			if inst.Size != 0 && inst.Size != Byte && inst.Size != Word && inst.Size != Long {
				t.Fatalf("Decode(%04X) has invalid size %d", op, inst.Size)
			}
			// No encoding consumes more than four extension words
			// (MOVE.L #imm,(xxx).L is the longest form).
			ext := inst.Mode[0].ExtensionWords(inst.Size) +
				inst.Mode[1].ExtensionWords(inst.Size)
			if ext > 4 {
				t.Fatalf("Decode(%04X) claims %d extension words", op, ext)
			}
		}
	}
}

func TestDecodeDeterministic(t *testing.T) {
	for _, op := range []uint16{0x0000, 0x4E71, 0xD081, 0x7FFF, 0xFFFF} {
		if Decode(op) != Decode(op) {
			t.Fatalf("Decode(%04X) not deterministic", op)
		}
	}
}

func TestDecodeSpot(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   Instruction
	}{
		{0x4E71, Instruction{Op: OpNOP}},
		{0x4E75, Instruction{Op: OpRTS}},
		{0x4E73, Instruction{Op: OpRTE}},
		{0x4AFC, Instruction{Op: OpUndefined}}, // ILLEGAL
		{0x7005, Instruction{
			Op: OpMOVE, Size: Long,
			Mode:  [2]AddrMode{ModeQuick, ModeDataRegister},
			Reg:   [2]uint8{0, 0},
			Quick: 5,
		}},
		{0x70FF, Instruction{ // MOVEQ #-1,D0
			Op: OpMOVE, Size: Long,
			Mode:  [2]AddrMode{ModeQuick, ModeDataRegister},
			Reg:   [2]uint8{0, 0},
			Quick: 0xFFFFFFFF,
		}},
		{0x3010, Instruction{ // MOVE.W (A0),D0
			Op: OpMOVE, Size: Word,
			Mode: [2]AddrMode{ModeIndirect, ModeDataRegister},
			Reg:  [2]uint8{0, 0},
		}},
		{0x2479, Instruction{ // MOVEA.L (xxx).L,A2
			Op: OpMOVEA, Size: Long,
			Mode: [2]AddrMode{ModeAbsoluteLong, ModeAddressRegister},
			Reg:  [2]uint8{0, 2},
		}},
		{0xD081, Instruction{ // ADD.L D1,D0
			Op: OpADD, Size: Long,
			Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
			Reg:  [2]uint8{1, 0},
		}},
		{0xD150, Instruction{ // ADD.W D0,(A0)
			Op: OpADD, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeIndirect},
			Reg:  [2]uint8{0, 0},
		}},
		{0x5248, Instruction{ // ADDQ.W #1,A0
			Op: OpADDA, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeAddressRegister},
			Reg:   [2]uint8{0, 0},
			Quick: 1,
		}},
		{0x5040, Instruction{ // ADDQ.W #8,D0
			Op: OpADD, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeDataRegister},
			Reg:   [2]uint8{0, 0},
			Quick: 8,
		}},
		{0x0640, Instruction{ // ADDI.W #imm,D0
			Op: OpADD, Size: Word,
			Mode: [2]AddrMode{ModeImmediate, ModeDataRegister},
			Reg:  [2]uint8{0, 0},
		}},
		{0x0C40, Instruction{ // CMPI.W #imm,D0
			Op: OpCMP, Size: Word,
			Mode: [2]AddrMode{ModeImmediate, ModeDataRegister},
			Reg:  [2]uint8{0, 0},
		}},
		{0xB308, Instruction{ // CMPM.B (A0)+,(A1)+
			Op: OpCMP, Size: Byte,
			Mode: [2]AddrMode{ModePostIncrement, ModePostIncrement},
			Reg:  [2]uint8{0, 1},
		}},
		{0xC0C1, Instruction{ // MULU D1,D0
			Op: OpMULU, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
			Reg:  [2]uint8{1, 0},
		}},
		{0x80C1, Instruction{ // DIVU D1,D0
			Op: OpDIVU, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
			Reg:  [2]uint8{1, 0},
		}},
		{0xC342, Instruction{ // EXG D1,D2
			Op: OpEXG, Size: Long,
			Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
			Reg:  [2]uint8{1, 2},
		}},
		{0x4840, Instruction{ // SWAP D0
			Op: OpSWAP, Size: Long,
			Mode: [2]AddrMode{ModeDataRegister, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4850, Instruction{ // PEA (A0)
			Op: OpPEA, Size: Long,
			Mode: [2]AddrMode{ModeIndirect, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4880, Instruction{ // EXT.W D0
			Op: OpEXT, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x48A7, Instruction{ // MOVEM.W regs,-(A7)
			Op: OpMOVEMtoM, Size: Word,
			Mode: [2]AddrMode{ModeImmediate, ModePreDecrement},
			Reg:  [2]uint8{0, 7},
		}},
		{0x4CD8, Instruction{ // MOVEM.L (A0)+,regs
			Op: OpMOVEMtoR, Size: Long,
			Mode: [2]AddrMode{ModeImmediate, ModePostIncrement},
			Reg:  [2]uint8{0, 0},
		}},
		{0x0188, Instruction{ // MOVEP.W D0,d16(A0)
			Op: OpMOVEPtoM, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeDisplacement},
			Reg:  [2]uint8{0, 0},
		}},
		{0xE549, Instruction{ // LSL.W #2,D1
			Op: OpLSL, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeDataRegister},
			Reg:   [2]uint8{0, 1},
			Quick: 2,
		}},
		{0xE06A, Instruction{ // LSR.W D0,D2
			Op: OpLSR, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
			Reg:  [2]uint8{0, 2},
		}},
		{0xE2D0, Instruction{ // LSR.W (A0)
			Op: OpLSR, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeIndirect},
			Reg:   [2]uint8{0, 0},
			Quick: 1,
		}},
		{0x0800, Instruction{ // BTST #imm,D0: long width, one-word immediate
			Op: OpBTST, Size: Long,
			Mode: [2]AddrMode{ModeImmediate, ModeDataRegister},
			Reg:  [2]uint8{0, 0},
		}},
		{0x0150, Instruction{ // BCHG D0,(A0): byte width
			Op: OpBCHG, Size: Byte,
			Mode: [2]AddrMode{ModeDataRegister, ModeIndirect},
			Reg:  [2]uint8{0, 0},
		}},
		{0x6004, Instruction{ // BRA.B +4
			Op: OpBRA, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeNone},
			Quick: 4,
		}},
		{0x6600, Instruction{ // BNE.W
			Op: OpBcc, Size: Word,
			Mode: [2]AddrMode{ModeImmediate, ModeNone},
		}},
		{0x6102, Instruction{ // BSR.B +2
			Op: OpBSR, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeNone},
			Quick: 2,
		}},
		{0x51C8, Instruction{ // DBF D0,label
			Op: OpDBcc, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeImmediate},
			Reg:  [2]uint8{0, 0},
		}},
		{0x54C0, Instruction{ // SCC D0
			Op: OpScc, Size: Byte,
			Mode: [2]AddrMode{ModeDataRegister, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4E90, Instruction{ // JSR (A0)
			Op: OpJSR, Size: Long,
			Mode: [2]AddrMode{ModeIndirect, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4ED0, Instruction{ // JMP (A0)
			Op: OpJMP, Size: Long,
			Mode: [2]AddrMode{ModeIndirect, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4E42, Instruction{ // TRAP #2
			Op: OpTRAP, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeNone},
			Quick: 2,
		}},
		{0x4E52, Instruction{ // LINK A2,#disp
			Op: OpLINK, Size: Word,
			Mode: [2]AddrMode{ModeAddressRegister, ModeImmediate},
			Reg:  [2]uint8{2, 0},
		}},
		{0x4E5A, Instruction{ // UNLK A2
			Op: OpUNLK, Size: Long,
			Mode: [2]AddrMode{ModeAddressRegister, ModeNone},
			Reg:  [2]uint8{2, 0},
		}},
		{0x4E60, Instruction{ // MOVE A0,USP
			Op: OpMOVEtoUSP, Size: Long,
			Mode: [2]AddrMode{ModeAddressRegister, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x46FC, Instruction{ // MOVE #imm,SR
			Op: OpMOVEtoSR, Size: Word,
			Mode: [2]AddrMode{ModeImmediate, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4AD0, Instruction{ // TAS (A0)
			Op: OpTAS, Size: Byte,
			Mode: [2]AddrMode{ModeIndirect, ModeNone},
			Reg:  [2]uint8{0, 0},
		}},
		{0x4181, Instruction{ // CHK D1,D0
			Op: OpCHK, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
			Reg:  [2]uint8{1, 0},
		}},
	}

	for _, tt := range tests {
		got := Decode(tt.opcode)
		if got != tt.want {
			t.Errorf("Decode(%04X) = %+v, want %+v", tt.opcode, got, tt.want)
		}
	}
}

// TestDecodeInvalidModes spot-checks encodings that must not decode:
// addressing-mode and register combinations outside each operation's
// legal set.
func TestDecodeInvalidModes(t *testing.T) {
	undefined := []uint16{
		0x1040, // MOVE.B with An destination
		0x1008, // MOVE.B An,Dn
		0x41C0, // LEA D0,A0
		0x43D8, // LEA (A0)+,A1
		0x06C0, // ADDI with reserved size bits
		0x4AFB, // TAS d8(PC,Xn): not alterable
	}

	for _, op := range undefined {
		if inst := Decode(op); inst.Op != OpUndefined {
			t.Errorf("Decode(%04X) = %v, want undefined", op, inst.Op)
		}
	}
}
