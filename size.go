package m68000

// Size is the operand width of a bus access or ALU operation, expressed
// as a byte count so address arithmetic can use it directly.
type Size int

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

// Mask covers the bits an operand of this size occupies.
func (s Size) Mask() uint32 {
	switch s {
	case Byte:
		return 0xFF
	case Word:
		return 0xFFFF
	case Long:
		return 0xFFFFFFFF
	}
	return 0
}

// MSB is the sign-bit mask for this size.
func (s Size) MSB() uint32 {
	switch s {
	case Byte:
		return 0x80
	case Word:
		return 0x8000
	case Long:
		return 0x80000000
	}
	return 0
}

// Bits is the operand width in bits.
func (s Size) Bits() uint32 {
	return uint32(s) * 8
}

// SignExtend widens val to a full 32-bit value preserving the sign bit
// of this size.
func (s Size) SignExtend(val uint32) uint32 {
	switch s {
	case Byte:
		return uint32(int32(int8(val)))
	case Word:
		return uint32(int32(int16(val)))
	default:
		return val
	}
}

func (s Size) String() string {
	switch s {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case Long:
		return "long"
	}
	return "unknown"
}
