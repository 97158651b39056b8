package m68000

// decodeTable is a 64K-entry lookup table indexed by the instruction's
// first word. The zero value decodes as OpUndefined, so only recognized
// encodings are registered. Decoding is a pure function of the opcode:
// hosts may precompute all 65,536 descriptors and never re-decode.
var decodeTable [65536]Instruction

// Decode maps a 16-bit opcode word to its instruction descriptor. It is
// total: unrecognized words return OpUndefined, except in the reserved
// ranges 0xA000-0xAFFF and 0xF000-0xFFFF which return OpLineA and OpLineF
// so the processor can route them to their dedicated trap vectors.
func Decode(opcode uint16) Instruction {
	return decodeTable[opcode]
}

// eaMode translates the standard 3-bit mode / 3-bit register EA field
// into an addressing-mode tag and register index.
func eaMode(mode, reg uint16) (AddrMode, uint8) {
	switch mode {
	case 0:
		return ModeDataRegister, uint8(reg)
	case 1:
		return ModeAddressRegister, uint8(reg)
	case 2:
		return ModeIndirect, uint8(reg)
	case 3:
		return ModePostIncrement, uint8(reg)
	case 4:
		return ModePreDecrement, uint8(reg)
	case 5:
		return ModeDisplacement, uint8(reg)
	case 6:
		return ModeIndexed, uint8(reg)
	case 7:
		switch reg {
		case 0:
			return ModeAbsoluteShort, 0
		case 1:
			return ModeAbsoluteLong, 0
		case 2:
			return ModePCDisplacement, 0
		case 3:
			return ModePCIndexed, 0
		case 4:
			return ModeImmediate, 0
		}
	}
	return ModeNone, 0
}

// sizeEncoding maps the standard 2-bit size field (bits 7-6) to Size.
func sizeEncoding(bits uint16) Size {
	switch bits {
	case 0:
		return Byte
	case 1:
		return Word
	case 2:
		return Long
	}
	return 0
}

// moveSizeMap maps the MOVE size encoding to Size.
// MOVE uses non-standard encoding: 01=Byte, 11=Word, 10=Long.
var moveSizeMap = [4]Size{0, Byte, Long, Word}

func init() {
	// Reserved ranges first; nothing else registers inside them.
	for op := 0xA000; op < 0xB000; op++ {
		decodeTable[op] = Instruction{Op: OpLineA}
	}
	for op := 0xF000; op < 0x10000; op++ {
		decodeTable[op] = Instruction{Op: OpLineF}
	}

	registerMOVE()
	registerMOVEQ()
	registerLEA()
	registerPEA()
	registerMOVEM()
	registerMOVEP()
	registerEXG()
	registerSWAP()
	registerStatusMoves()

	registerADDSUB()
	registerADDSUBA()
	registerADDSUBI()
	registerADDSUBQ()
	registerADDSUBX()
	registerCMP()
	registerMULDIV()
	registerSingleOperand()
	registerEXT()
	registerCHK()

	registerLogic()
	registerLogicImmediate()
	registerStatusImmediates()
	registerBCD()
	registerBits()
	registerShifts()

	registerBranches()
	registerDBccScc()
	registerJumps()
	registerControl()
}

// set registers one descriptor, used by every register* function.
func set(opcode uint16, inst Instruction) {
	decodeTable[opcode] = inst
}

// --- Data movement ---

// registerMOVE registers MOVE.B/W/L and MOVEA.W/L.
// Encoding: 00SS DDDd ddss ssss
//
//	SS = size (01=B, 11=W, 10=L)
//	DDD/ddd = destination reg/mode (note: reversed from source)
//	sss/ssssss = source mode/reg
func registerMOVE() {
	for szBits := uint16(1); szBits <= 3; szBits++ {
		sz := moveSizeMap[szBits]
		for dstMode := uint16(0); dstMode < 8; dstMode++ {
			for dstReg := uint16(0); dstReg < 8; dstReg++ {
				if dstMode == 7 && dstReg > 1 {
					continue
				}
				for srcMode := uint16(0); srcMode < 8; srcMode++ {
					for srcReg := uint16(0); srcReg < 8; srcReg++ {
						if srcMode == 7 && srcReg > 4 {
							continue
						}
						// Byte moves from An are not encodable.
						if srcMode == 1 && sz == Byte {
							continue
						}
						opcode := szBits<<12 | dstReg<<9 | dstMode<<6 | srcMode<<3 | srcReg
						sm, sr := eaMode(srcMode, srcReg)
						dm, dr := eaMode(dstMode, dstReg)
						op := OpMOVE
						if dstMode == 1 {
							if sz == Byte {
								continue
							}
							op = OpMOVEA
						}
						set(opcode, Instruction{
							Op:   op,
							Size: sz,
							Mode: [2]AddrMode{sm, dm},
							Reg:  [2]uint8{sr, dr},
						})
					}
				}
			}
		}
	}
}

// registerMOVEQ registers MOVEQ #imm8,Dn as a quick-mode MOVE.
// Encoding: 0111 DDD0 dddddddd
func registerMOVEQ() {
	for dn := uint16(0); dn < 8; dn++ {
		for data := uint16(0); data < 256; data++ {
			set(0x7000|dn<<9|data, Instruction{
				Op:    OpMOVE,
				Size:  Long,
				Mode:  [2]AddrMode{ModeQuick, ModeDataRegister},
				Reg:   [2]uint8{0, uint8(dn)},
				Quick: uint32(int32(int8(data))),
			})
		}
	}
}

// registerLEA registers LEA <ea>,An (control addressing modes only).
// Encoding: 0100 AAA1 11ss ssss
func registerLEA() {
	for an := uint16(0); an < 8; an++ {
		forEachControlMode(func(mode, reg uint16) {
			m, r := eaMode(mode, reg)
			set(0x41C0|an<<9|mode<<3|reg, Instruction{
				Op:   OpLEA,
				Size: Long,
				Mode: [2]AddrMode{m, ModeAddressRegister},
				Reg:  [2]uint8{r, uint8(an)},
			})
		})
	}
}

// registerPEA registers PEA <ea> (control addressing modes only).
// Encoding: 0100 1000 01ss ssss
func registerPEA() {
	forEachControlMode(func(mode, reg uint16) {
		m, r := eaMode(mode, reg)
		set(0x4840|mode<<3|reg, Instruction{
			Op:   OpPEA,
			Size: Long,
			Mode: [2]AddrMode{m, ModeNone},
			Reg:  [2]uint8{r, 0},
		})
	})
}

// forEachControlMode visits the control addressing modes: (An), d16(An),
// d8(An,Xn), abs.W, abs.L, d16(PC), d8(PC,Xn).
func forEachControlMode(fn func(mode, reg uint16)) {
	for mode := uint16(2); mode < 8; mode++ {
		if mode == 3 || mode == 4 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 3 {
				continue
			}
			fn(mode, reg)
		}
	}
}

// registerMOVEM registers MOVEM.W/L in both directions. The register-list
// mask is the first extension word, recorded as an immediate operand.
// Encoding: 0100 1D00 1Sss ssss  D=direction(0=reg-to-mem), S=size(0=W)
func registerMOVEM() {
	for dir := uint16(0); dir < 2; dir++ {
		for szBit := uint16(0); szBit < 2; szBit++ {
			sz := Word
			if szBit != 0 {
				sz = Long
			}
			for mode := uint16(2); mode < 8; mode++ {
				if dir == 0 && mode == 3 {
					continue // (An)+ not valid for reg-to-mem
				}
				if dir == 1 && mode == 4 {
					continue // -(An) not valid for mem-to-reg
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 {
						if dir == 0 && reg > 1 {
							continue
						}
						if dir == 1 && reg > 3 {
							continue
						}
					}
					op := OpMOVEMtoM
					if dir != 0 {
						op = OpMOVEMtoR
					}
					m, r := eaMode(mode, reg)
					set(0x4880|dir<<10|szBit<<6|mode<<3|reg, Instruction{
						Op:   op,
						Size: sz,
						Mode: [2]AddrMode{ModeImmediate, m},
						Reg:  [2]uint8{0, r},
					})
				}
			}
		}
	}
}

// registerMOVEP registers MOVEP.W/L in both directions.
// Encoding: 0000 DDD OOO 001 AAA + 16-bit displacement
func registerMOVEP() {
	for dn := uint16(0); dn < 8; dn++ {
		for an := uint16(0); an < 8; an++ {
			base := Instruction{
				Mode: [2]AddrMode{ModeDataRegister, ModeDisplacement},
				Reg:  [2]uint8{uint8(dn), uint8(an)},
			}
			toR := base
			toR.Op, toR.Size = OpMOVEPtoR, Word
			set(0x0108|dn<<9|an, toR)
			toR.Size = Long
			set(0x0148|dn<<9|an, toR)
			toM := base
			toM.Op, toM.Size = OpMOVEPtoM, Word
			set(0x0188|dn<<9|an, toM)
			toM.Size = Long
			set(0x01C8|dn<<9|an, toM)
		}
	}
}

// registerEXG registers EXG Dx,Dy / EXG Ax,Ay / EXG Dx,Ay.
// Encoding: 1100 XXX1 MMMM MYYY
func registerEXG() {
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			set(0xC100|rx<<9|0x40|ry, Instruction{
				Op: OpEXG, Size: Long,
				Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
				Reg:  [2]uint8{uint8(rx), uint8(ry)},
			})
			set(0xC100|rx<<9|0x48|ry, Instruction{
				Op: OpEXG, Size: Long,
				Mode: [2]AddrMode{ModeAddressRegister, ModeAddressRegister},
				Reg:  [2]uint8{uint8(rx), uint8(ry)},
			})
			set(0xC100|rx<<9|0x88|ry, Instruction{
				Op: OpEXG, Size: Long,
				Mode: [2]AddrMode{ModeDataRegister, ModeAddressRegister},
				Reg:  [2]uint8{uint8(rx), uint8(ry)},
			})
		}
	}
}

// registerSWAP registers SWAP Dn.
// Encoding: 0100 1000 0100 0DDD
func registerSWAP() {
	for dn := uint16(0); dn < 8; dn++ {
		set(0x4840|dn, Instruction{
			Op: OpSWAP, Size: Long,
			Mode: [2]AddrMode{ModeDataRegister, ModeNone},
			Reg:  [2]uint8{uint8(dn), 0},
		})
	}
}

// registerStatusMoves registers MOVE SR,<ea>, MOVE <ea>,CCR,
// MOVE <ea>,SR and MOVE 	USP transfers.
func registerStatusMoves() {
	// MOVE SR,<ea>: 0100 0000 11ss ssss
	forEachDataAlterable(func(mode, reg uint16) {
		m, r := eaMode(mode, reg)
		set(0x40C0|mode<<3|reg, Instruction{
			Op: OpMOVEfromSR, Size: Word,
			Mode: [2]AddrMode{ModeNone, m},
			Reg:  [2]uint8{0, r},
		})
	})
	// MOVE <ea>,CCR: 0100 0100 11ss ssss and MOVE <ea>,SR: 0100 0110 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			m, r := eaMode(mode, reg)
			set(0x44C0|mode<<3|reg, Instruction{
				Op: OpMOVEtoCCR, Size: Word,
				Mode: [2]AddrMode{m, ModeNone},
				Reg:  [2]uint8{r, 0},
			})
			set(0x46C0|mode<<3|reg, Instruction{
				Op: OpMOVEtoSR, Size: Word,
				Mode: [2]AddrMode{m, ModeNone},
				Reg:  [2]uint8{r, 0},
			})
		}
	}
	// MOVE An,USP / MOVE USP,An: 0100 1110 0110 DAAA
	for an := uint16(0); an < 8; an++ {
		set(0x4E60|an, Instruction{
			Op: OpMOVEtoUSP, Size: Long,
			Mode: [2]AddrMode{ModeAddressRegister, ModeNone},
			Reg:  [2]uint8{uint8(an), 0},
		})
		set(0x4E68|an, Instruction{
			Op: OpMOVEfromUSP, Size: Long,
			Mode: [2]AddrMode{ModeAddressRegister, ModeNone},
			Reg:  [2]uint8{uint8(an), 0},
		})
	}
}

// forEachDataAlterable visits the data-alterable addressing modes:
// Dn plus all memory-alterable modes.
func forEachDataAlterable(fn func(mode, reg uint16)) {
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			fn(mode, reg)
		}
	}
}

// --- Integer arithmetic ---

// registerADDSUB registers ADD/SUB <ea>,Dn and ADD/SUB Dn,<ea>.
// Encoding: 1101/1001 DDD O SS eee eee  O=0: <ea>,Dn  O=1: Dn,<ea>
func registerADDSUB() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0xD000, OpADD}, {0x9000, OpSUB}} {
		for dn := uint16(0); dn < 8; dn++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				sz := sizeEncoding(szBits)
				// Direction 0: <ea>,Dn (all source EAs)
				for mode := uint16(0); mode < 8; mode++ {
					for reg := uint16(0); reg < 8; reg++ {
						if mode == 7 && reg > 4 {
							continue
						}
						// An direct only valid for Word/Long
						if mode == 1 && szBits == 0 {
							continue
						}
						m, r := eaMode(mode, reg)
						set(fam.base|dn<<9|szBits<<6|mode<<3|reg, Instruction{
							Op: fam.op, Size: sz,
							Mode: [2]AddrMode{m, ModeDataRegister},
							Reg:  [2]uint8{r, uint8(dn)},
						})
					}
				}
				// Direction 1: Dn,<ea> (memory alterable only)
				for mode := uint16(2); mode < 8; mode++ {
					for reg := uint16(0); reg < 8; reg++ {
						if mode == 7 && reg > 1 {
							continue
						}
						m, r := eaMode(mode, reg)
						set(fam.base|dn<<9|(szBits+4)<<6|mode<<3|reg, Instruction{
							Op: fam.op, Size: sz,
							Mode: [2]AddrMode{ModeDataRegister, m},
							Reg:  [2]uint8{uint8(dn), r},
						})
					}
				}
			}
		}
	}
}

// registerADDSUBA registers ADDA/SUBA.W/L <ea>,An.
func registerADDSUBA() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0xD000, OpADDA}, {0x9000, OpSUBA}} {
		for an := uint16(0); an < 8; an++ {
			for _, szBit := range []uint16{3, 7} { // 3=Word, 7=Long
				sz := Word
				if szBit == 7 {
					sz = Long
				}
				for mode := uint16(0); mode < 8; mode++ {
					for reg := uint16(0); reg < 8; reg++ {
						if mode == 7 && reg > 4 {
							continue
						}
						m, r := eaMode(mode, reg)
						set(fam.base|an<<9|szBit<<6|mode<<3|reg, Instruction{
							Op: fam.op, Size: sz,
							Mode: [2]AddrMode{m, ModeAddressRegister},
							Reg:  [2]uint8{r, uint8(an)},
						})
					}
				}
			}
		}
	}
}

// registerADDSUBI registers ADDI/SUBI #imm,<ea>.
func registerADDSUBI() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0x0600, OpADD}, {0x0400, OpSUB}} {
		for szBits := uint16(0); szBits < 3; szBits++ {
			sz := sizeEncoding(szBits)
			forEachDataAlterable(func(mode, reg uint16) {
				m, r := eaMode(mode, reg)
				set(fam.base|szBits<<6|mode<<3|reg, Instruction{
					Op: fam.op, Size: sz,
					Mode: [2]AddrMode{ModeImmediate, m},
					Reg:  [2]uint8{0, r},
				})
			})
		}
	}
}

// registerADDSUBQ registers ADDQ/SUBQ #1-8,<ea>. An destinations decode
// as the address-register operation: always 32 bits wide, no flags.
func registerADDSUBQ() {
	for _, fam := range []struct {
		base uint16
		op   Operation
		aop  Operation
	}{{0x5000, OpADD, OpADDA}, {0x5100, OpSUB, OpSUBA}} {
		for data := uint16(0); data < 8; data++ {
			quick := uint32(data)
			if quick == 0 {
				quick = 8
			}
			for szBits := uint16(0); szBits < 3; szBits++ {
				sz := sizeEncoding(szBits)
				for mode := uint16(0); mode < 8; mode++ {
					for reg := uint16(0); reg < 8; reg++ {
						if mode == 7 && reg > 1 {
							continue
						}
						if mode == 1 && szBits == 0 {
							continue
						}
						op := fam.op
						if mode == 1 {
							op = fam.aop
						}
						m, r := eaMode(mode, reg)
						set(fam.base|data<<9|szBits<<6|mode<<3|reg, Instruction{
							Op: op, Size: sz,
							Mode:  [2]AddrMode{ModeQuick, m},
							Reg:   [2]uint8{0, r},
							Quick: quick,
						})
					}
				}
			}
		}
	}
}

// registerADDSUBX registers ADDX/SUBX in register and memory forms.
// Encoding: 1101/1001 XXX1 SS00 RYYY  R=0: Dy,Dx  R=1: -(Ay),-(Ax)
func registerADDSUBX() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0xD100, OpADDX}, {0x9100, OpSUBX}} {
		for rx := uint16(0); rx < 8; rx++ {
			for ry := uint16(0); ry < 8; ry++ {
				for szBits := uint16(0); szBits < 3; szBits++ {
					sz := sizeEncoding(szBits)
					set(fam.base|rx<<9|szBits<<6|ry, Instruction{
						Op: fam.op, Size: sz,
						Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
						Reg:  [2]uint8{uint8(ry), uint8(rx)},
					})
					set(fam.base|0x8|rx<<9|szBits<<6|ry, Instruction{
						Op: fam.op, Size: sz,
						Mode: [2]AddrMode{ModePreDecrement, ModePreDecrement},
						Reg:  [2]uint8{uint8(ry), uint8(rx)},
					})
				}
			}
		}
	}
}

// registerCMP registers CMP, CMPA, CMPI and CMPM.
func registerCMP() {
	// CMP <ea>,Dn: 1011 DDD0 SSee eeee
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			sz := sizeEncoding(szBits)
			for mode := uint16(0); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					if mode == 1 && szBits == 0 {
						continue
					}
					m, r := eaMode(mode, reg)
					set(0xB000|dn<<9|szBits<<6|mode<<3|reg, Instruction{
						Op: OpCMP, Size: sz,
						Mode: [2]AddrMode{m, ModeDataRegister},
						Reg:  [2]uint8{r, uint8(dn)},
					})
				}
			}
		}
	}
	// CMPA.W/L <ea>,An
	for an := uint16(0); an < 8; an++ {
		for _, szBit := range []uint16{3, 7} {
			sz := Word
			if szBit == 7 {
				sz = Long
			}
			for mode := uint16(0); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					m, r := eaMode(mode, reg)
					set(0xB000|an<<9|szBit<<6|mode<<3|reg, Instruction{
						Op: OpCMPA, Size: sz,
						Mode: [2]AddrMode{m, ModeAddressRegister},
						Reg:  [2]uint8{r, uint8(an)},
					})
				}
			}
		}
	}
	// CMPI #imm,<ea>: 0000 1100 SSee eeee
	for szBits := uint16(0); szBits < 3; szBits++ {
		sz := sizeEncoding(szBits)
		forEachDataAlterable(func(mode, reg uint16) {
			m, r := eaMode(mode, reg)
			set(0x0C00|szBits<<6|mode<<3|reg, Instruction{
				Op: OpCMP, Size: sz,
				Mode: [2]AddrMode{ModeImmediate, m},
				Reg:  [2]uint8{0, r},
			})
		})
	}
	// CMPM (Ay)+,(Ax)+: 1011 XXX1 SS00 1YYY
	for ax := uint16(0); ax < 8; ax++ {
		for ay := uint16(0); ay < 8; ay++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				set(0xB108|ax<<9|szBits<<6|ay, Instruction{
					Op: OpCMP, Size: sizeEncoding(szBits),
					Mode: [2]AddrMode{ModePostIncrement, ModePostIncrement},
					Reg:  [2]uint8{uint8(ay), uint8(ax)},
				})
			}
		}
	}
}

// registerMULDIV registers MULU/MULS/DIVU/DIVS <ea>,Dn (word source).
func registerMULDIV() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0xC0C0, OpMULU}, {0xC1C0, OpMULS}, {0x80C0, OpDIVU}, {0x81C0, OpDIVS}} {
		for dn := uint16(0); dn < 8; dn++ {
			for mode := uint16(0); mode < 8; mode++ {
				if mode == 1 {
					continue
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					m, r := eaMode(mode, reg)
					set(fam.base|dn<<9|mode<<3|reg, Instruction{
						Op: fam.op, Size: Word,
						Mode: [2]AddrMode{m, ModeDataRegister},
						Reg:  [2]uint8{r, uint8(dn)},
					})
				}
			}
		}
	}
}

// registerSingleOperand registers the single-operand data-alterable
// operations: NEG, NEGX, CLR, NOT, TST, NBCD, TAS.
func registerSingleOperand() {
	for _, fam := range []struct {
		base  uint16
		op    Operation
		sized bool
	}{
		{0x4400, OpNEG, true},
		{0x4000, OpNEGX, true},
		{0x4200, OpCLR, true},
		{0x4600, OpNOT, true},
		{0x4A00, OpTST, true},
		{0x4800, OpNBCD, false},
		{0x4AC0, OpTAS, false},
	} {
		szMax := uint16(3)
		if !fam.sized {
			szMax = 1
		}
		for szBits := uint16(0); szBits < szMax; szBits++ {
			sz := sizeEncoding(szBits)
			if !fam.sized {
				sz = Byte
			}
			forEachDataAlterable(func(mode, reg uint16) {
				m, r := eaMode(mode, reg)
				opcode := fam.base | mode<<3 | reg
				if fam.sized {
					opcode |= szBits << 6
				}
				set(opcode, Instruction{
					Op: fam.op, Size: sz,
					Mode: [2]AddrMode{m, ModeNone},
					Reg:  [2]uint8{r, 0},
				})
			})
		}
	}
}

// registerEXT registers EXT.W and EXT.L Dn.
func registerEXT() {
	for dn := uint16(0); dn < 8; dn++ {
		set(0x4880|dn, Instruction{
			Op: OpEXT, Size: Word,
			Mode: [2]AddrMode{ModeDataRegister, ModeNone},
			Reg:  [2]uint8{uint8(dn), 0},
		})
		set(0x48C0|dn, Instruction{
			Op: OpEXT, Size: Long,
			Mode: [2]AddrMode{ModeDataRegister, ModeNone},
			Reg:  [2]uint8{uint8(dn), 0},
		})
	}
}

// registerCHK registers CHK <ea>,Dn (word only on the 68000).
// Encoding: 0100 DDD 110 MMM RRR
func registerCHK() {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				m, r := eaMode(mode, reg)
				set(0x4180|dn<<9|mode<<3|reg, Instruction{
					Op: OpCHK, Size: Word,
					Mode: [2]AddrMode{m, ModeDataRegister},
					Reg:  [2]uint8{r, uint8(dn)},
				})
			}
		}
	}
}

// --- Logic ---

// registerLogic registers AND/OR in both directions and EOR Dn,<ea>.
func registerLogic() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0xC000, OpAND}, {0x8000, OpOR}} {
		for dn := uint16(0); dn < 8; dn++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				sz := sizeEncoding(szBits)
				for mode := uint16(0); mode < 8; mode++ {
					if mode == 1 {
						continue
					}
					for reg := uint16(0); reg < 8; reg++ {
						if mode == 7 && reg > 4 {
							continue
						}
						m, r := eaMode(mode, reg)
						set(fam.base|dn<<9|szBits<<6|mode<<3|reg, Instruction{
							Op: fam.op, Size: sz,
							Mode: [2]AddrMode{m, ModeDataRegister},
							Reg:  [2]uint8{r, uint8(dn)},
						})
					}
				}
				for mode := uint16(2); mode < 8; mode++ {
					for reg := uint16(0); reg < 8; reg++ {
						if mode == 7 && reg > 1 {
							continue
						}
						m, r := eaMode(mode, reg)
						set(fam.base|dn<<9|(szBits+4)<<6|mode<<3|reg, Instruction{
							Op: fam.op, Size: sz,
							Mode: [2]AddrMode{ModeDataRegister, m},
							Reg:  [2]uint8{uint8(dn), r},
						})
					}
				}
			}
		}
	}
	// EOR Dn,<ea>: 1011 DDD1 SSee eeee (data alterable only)
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			sz := sizeEncoding(szBits)
			forEachDataAlterable(func(mode, reg uint16) {
				m, r := eaMode(mode, reg)
				set(0xB000|dn<<9|(szBits+4)<<6|mode<<3|reg, Instruction{
					Op: OpEOR, Size: sz,
					Mode: [2]AddrMode{ModeDataRegister, m},
					Reg:  [2]uint8{uint8(dn), r},
				})
			})
		}
	}
}

// registerLogicImmediate registers ANDI/ORI/EORI #imm,<ea>.
func registerLogicImmediate() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0x0200, OpAND}, {0x0000, OpOR}, {0x0A00, OpEOR}} {
		for szBits := uint16(0); szBits < 3; szBits++ {
			sz := sizeEncoding(szBits)
			forEachDataAlterable(func(mode, reg uint16) {
				m, r := eaMode(mode, reg)
				set(fam.base|szBits<<6|mode<<3|reg, Instruction{
					Op: fam.op, Size: sz,
					Mode: [2]AddrMode{ModeImmediate, m},
					Reg:  [2]uint8{0, r},
				})
			})
		}
	}
}

// registerStatusImmediates registers the logical immediates targeting CCR
// and SR. The immediate is always one extension word.
func registerStatusImmediates() {
	imm := [2]AddrMode{ModeImmediate, ModeNone}
	set(0x003C, Instruction{Op: OpORItoCCR, Size: Word, Mode: imm})
	set(0x007C, Instruction{Op: OpORItoSR, Size: Word, Mode: imm})
	set(0x023C, Instruction{Op: OpANDItoCCR, Size: Word, Mode: imm})
	set(0x027C, Instruction{Op: OpANDItoSR, Size: Word, Mode: imm})
	set(0x0A3C, Instruction{Op: OpEORItoCCR, Size: Word, Mode: imm})
	set(0x0A7C, Instruction{Op: OpEORItoSR, Size: Word, Mode: imm})
}

// registerBCD registers ABCD and SBCD (NBCD is in registerSingleOperand).
// Encoding: 1100/1000 XXX1 0000 RYYY  R=0: Dy,Dx  R=1: -(Ay),-(Ax)
func registerBCD() {
	for _, fam := range []struct {
		base uint16
		op   Operation
	}{{0xC100, OpABCD}, {0x8100, OpSBCD}} {
		for rx := uint16(0); rx < 8; rx++ {
			for ry := uint16(0); ry < 8; ry++ {
				set(fam.base|rx<<9|ry, Instruction{
					Op: fam.op, Size: Byte,
					Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
					Reg:  [2]uint8{uint8(ry), uint8(rx)},
				})
				set(fam.base|0x8|rx<<9|ry, Instruction{
					Op: fam.op, Size: Byte,
					Mode: [2]AddrMode{ModePreDecrement, ModePreDecrement},
					Reg:  [2]uint8{uint8(ry), uint8(rx)},
				})
			}
		}
	}
}

// registerBits registers BTST/BCHG/BCLR/BSET in dynamic and static forms.
// A data-register destination operates on a long (bit mod 32), memory on
// a byte (bit mod 8); the decoder bakes that into the descriptor size.
func registerBits() {
	ops := [4]Operation{OpBTST, OpBCHG, OpBCLR, OpBSET}
	// Dynamic form: 0000 DDD1 TTee eeee
	for dn := uint16(0); dn < 8; dn++ {
		for typ := uint16(0); typ < 4; typ++ {
			for mode := uint16(0); mode < 8; mode++ {
				if mode == 1 {
					continue
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 {
						// BTST allows source-only modes the others do not.
						if typ == 0 && reg > 4 {
							continue
						}
						if typ != 0 && reg > 1 {
							continue
						}
					}
					m, r := eaMode(mode, reg)
					sz := Byte
					if mode == 0 {
						sz = Long
					}
					set(0x0100|dn<<9|typ<<6|mode<<3|reg, Instruction{
						Op: ops[typ], Size: sz,
						Mode: [2]AddrMode{ModeDataRegister, m},
						Reg:  [2]uint8{uint8(dn), r},
					})
				}
			}
		}
	}
	// Static form: 0000 1000 TTee eeee + immediate word
	for typ := uint16(0); typ < 4; typ++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 {
					if typ == 0 && reg > 3 {
						continue
					}
					if typ != 0 && reg > 1 {
						continue
					}
				}
				m, r := eaMode(mode, reg)
				sz := Byte
				if mode == 0 {
					sz = Long
				}
				set(0x0800|typ<<6|mode<<3|reg, Instruction{
					Op: ops[typ], Size: sz,
					Mode: [2]AddrMode{ModeImmediate, m},
					Reg:  [2]uint8{0, r},
				})
			}
		}
	}
}

// registerShifts registers the shift and rotate family.
// Register form: 1110 CCC D SS i TT RRR; memory form: 1110 0TT D 11 ee eeee.
func registerShifts() {
	shiftOp := func(typ, dir uint16) Operation {
		switch typ {
		case 0:
			if dir == 1 {
				return OpASL
			}
			return OpASR
		case 1:
			if dir == 1 {
				return OpLSL
			}
			return OpLSR
		case 2:
			if dir == 1 {
				return OpROXL
			}
			return OpROXR
		default:
			if dir == 1 {
				return OpROL
			}
			return OpROR
		}
	}

	// Register/immediate forms.
	for cnt := uint16(0); cnt < 8; cnt++ {
		quick := uint32(cnt)
		if quick == 0 {
			quick = 8
		}
		for dir := uint16(0); dir < 2; dir++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				sz := sizeEncoding(szBits)
				for typ := uint16(0); typ < 4; typ++ {
					for dreg := uint16(0); dreg < 8; dreg++ {
						op := shiftOp(typ, dir)
						// i=0: immediate count 1-8
						set(0xE000|cnt<<9|dir<<8|szBits<<6|typ<<3|dreg, Instruction{
							Op: op, Size: sz,
							Mode:  [2]AddrMode{ModeQuick, ModeDataRegister},
							Reg:   [2]uint8{0, uint8(dreg)},
							Quick: quick,
						})
						// i=1: count in Dn (mod 64)
						set(0xE020|cnt<<9|dir<<8|szBits<<6|typ<<3|dreg, Instruction{
							Op: op, Size: sz,
							Mode: [2]AddrMode{ModeDataRegister, ModeDataRegister},
							Reg:  [2]uint8{uint8(cnt), uint8(dreg)},
						})
					}
				}
			}
		}
	}

	// Memory forms: word only, single shift.
	for dir := uint16(0); dir < 2; dir++ {
		for typ := uint16(0); typ < 4; typ++ {
			for mode := uint16(2); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					m, r := eaMode(mode, reg)
					set(0xE0C0|typ<<9|dir<<8|mode<<3|reg, Instruction{
						Op: shiftOp(typ, dir), Size: Word,
						Mode:  [2]AddrMode{ModeQuick, m},
						Reg:   [2]uint8{0, r},
						Quick: 1,
					})
				}
			}
		}
	}
}

// --- Flow control ---

// registerBranches registers Bcc, BRA and BSR. An embedded 8-bit
// displacement decodes as a quick operand; a zero low byte means the
// displacement is the following extension word.
func registerBranches() {
	for cc := uint16(0); cc < 16; cc++ {
		op := OpBcc
		switch cc {
		case 0:
			op = OpBRA
		case 1:
			op = OpBSR
		}
		for disp := uint16(0); disp < 256; disp++ {
			inst := Instruction{Op: op, Size: Word}
			if disp == 0 {
				inst.Mode = [2]AddrMode{ModeImmediate, ModeNone}
			} else {
				inst.Mode = [2]AddrMode{ModeQuick, ModeNone}
				inst.Quick = uint32(int32(int8(disp)))
			}
			set(0x6000|cc<<8|disp, inst)
		}
	}
}

// registerDBccScc registers DBcc Dn,label and Scc <ea>.
func registerDBccScc() {
	for cc := uint16(0); cc < 16; cc++ {
		// DBcc: 0101 CCCC 1100 1DDD
		for dn := uint16(0); dn < 8; dn++ {
			set(0x50C8|cc<<8|dn, Instruction{
				Op: OpDBcc, Size: Word,
				Mode: [2]AddrMode{ModeDataRegister, ModeImmediate},
				Reg:  [2]uint8{uint8(dn), 0},
			})
		}
		// Scc: 0101 CCCC 11ee eeee
		forEachDataAlterable(func(mode, reg uint16) {
			m, r := eaMode(mode, reg)
			set(0x50C0|cc<<8|mode<<3|reg, Instruction{
				Op: OpScc, Size: Byte,
				Mode: [2]AddrMode{m, ModeNone},
				Reg:  [2]uint8{r, 0},
			})
		})
	}
}

// registerJumps registers JMP and JSR (control addressing modes).
func registerJumps() {
	forEachControlMode(func(mode, reg uint16) {
		m, r := eaMode(mode, reg)
		set(0x4EC0|mode<<3|reg, Instruction{
			Op: OpJMP, Size: Long,
			Mode: [2]AddrMode{m, ModeNone},
			Reg:  [2]uint8{r, 0},
		})
		set(0x4E80|mode<<3|reg, Instruction{
			Op: OpJSR, Size: Long,
			Mode: [2]AddrMode{m, ModeNone},
			Reg:  [2]uint8{r, 0},
		})
	})
}

// registerControl registers the remaining control operations.
func registerControl() {
	set(0x4E71, Instruction{Op: OpNOP})
	set(0x4E70, Instruction{Op: OpRESET})
	set(0x4E72, Instruction{Op: OpSTOP, Size: Word, Mode: [2]AddrMode{ModeImmediate, ModeNone}})
	set(0x4E73, Instruction{Op: OpRTE})
	set(0x4E75, Instruction{Op: OpRTS})
	set(0x4E76, Instruction{Op: OpTRAPV})
	set(0x4E77, Instruction{Op: OpRTR})

	// TRAP #0-15: 0100 1110 0100 VVVV
	for v := uint16(0); v < 16; v++ {
		set(0x4E40|v, Instruction{
			Op: OpTRAP, Size: Word,
			Mode:  [2]AddrMode{ModeQuick, ModeNone},
			Quick: uint32(v),
		})
	}
	// LINK An,#disp: 0100 1110 0101 0AAA
	for an := uint16(0); an < 8; an++ {
		set(0x4E50|an, Instruction{
			Op: OpLINK, Size: Word,
			Mode: [2]AddrMode{ModeAddressRegister, ModeImmediate},
			Reg:  [2]uint8{uint8(an), 0},
		})
		// UNLK An: 0100 1110 0101 1AAA
		set(0x4E58|an, Instruction{
			Op: OpUNLK, Size: Long,
			Mode: [2]AddrMode{ModeAddressRegister, ModeNone},
			Reg:  [2]uint8{uint8(an), 0},
		})
	}
}
