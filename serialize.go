package m68000

import (
	"encoding/binary"
	"errors"
)

// serializeVersion is incremented whenever the binary layout changes.
const serializeVersion = 1

// serializeSize is the number of bytes produced by Serialize.
// Update this constant whenever the binary layout changes.
const serializeSize = 92

// SerializeSize returns the number of bytes needed for Serialize.
func (p *Processor) SerializeSize() int { return serializeSize }

// Serialize writes the processor state into buf, which must be at least
// SerializeSize() bytes. The state is only well defined between
// instructions; calling mid-instruction (including while a transaction is
// stalled on DTACK) returns an error. The bus reference is not included.
func (p *Processor) Serialize(buf []byte) error {
	if len(buf) < serializeSize {
		return errors.New("m68000: serialize buffer too small")
	}
	switch p.state {
	case stateDecode, stateStopped, stateHalted:
	default:
		return errors.New("m68000: cannot serialize mid-instruction")
	}

	s := p.State()
	buf[0] = serializeVersion
	be := binary.BigEndian
	off := 1

	for i := 0; i < 8; i++ {
		be.PutUint32(buf[off:], s.D[i])
		off += 4
	}
	for i := 0; i < 7; i++ {
		be.PutUint32(buf[off:], s.A[i])
		off += 4
	}

	be.PutUint32(buf[off:], s.PC)
	off += 4
	be.PutUint16(buf[off:], s.SR)
	off += 2
	be.PutUint32(buf[off:], s.USP)
	off += 4
	be.PutUint32(buf[off:], s.SSP)
	off += 4
	be.PutUint16(buf[off:], s.Prefetch[0])
	off += 2
	be.PutUint16(buf[off:], s.Prefetch[1])
	off += 2

	buf[off] = boolByte(s.Stopped)
	off++
	buf[off] = boolByte(s.Halted)
	off++

	buf[off] = p.intLevel
	off++
	buf[off] = boolByte(p.nmiLatch)
	off++
	buf[off] = boolByte(p.traceLatch)
	off++

	be.PutUint64(buf[off:], uint64(p.time))
	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Deserialize restores processor state from buf, which must be at least
// SerializeSize() bytes. Returns an error if the buffer is too small or
// the version does not match. The bus reference is left unchanged.
func (p *Processor) Deserialize(buf []byte) error {
	if len(buf) < serializeSize {
		return errors.New("m68000: deserialize buffer too small")
	}
	if buf[0] != serializeVersion {
		return errors.New("m68000: unsupported serialize version")
	}

	be := binary.BigEndian
	off := 1

	var s State
	for i := 0; i < 8; i++ {
		s.D[i] = be.Uint32(buf[off:])
		off += 4
	}
	for i := 0; i < 7; i++ {
		s.A[i] = be.Uint32(buf[off:])
		off += 4
	}

	s.PC = be.Uint32(buf[off:])
	off += 4
	s.SR = be.Uint16(buf[off:])
	off += 2
	s.USP = be.Uint32(buf[off:])
	off += 4
	s.SSP = be.Uint32(buf[off:])
	off += 4
	s.Prefetch[0] = be.Uint16(buf[off:])
	off += 2
	s.Prefetch[1] = be.Uint16(buf[off:])
	off += 2

	s.Stopped = buf[off] != 0
	off++
	s.Halted = buf[off] != 0
	off++

	p.SetState(s)

	p.intLevel = buf[off]
	off++
	p.nmiLatch = buf[off] != 0
	off++
	p.traceLatch = buf[off] != 0
	off++

	p.time = HalfCycles(be.Uint64(buf[off:]))
	return nil
}
