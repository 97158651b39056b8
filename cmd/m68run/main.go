// Command m68run executes a raw MC68000 memory image against a small flat
// machine: 16 MB of RAM with a memory-mapped console at the top of the
// address space. It is mainly a harness for running test ROMs.
//
// Console registers:
//
//	0xFF0001  status (read): bit 0 input ready, bit 1 output ready
//	0xFF0003  data: read received byte, write transmitted byte
//	0xFF0005  power (write): any value stops the machine
//
// Console input raises a level 2 autovectored interrupt while a byte is
// waiting.
package main

import (
	"flag"
	"io"
	"os"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/emucore/m68000"
)

var (
	entry      = flag.Uint("entry", 0, "synthesize reset vectors for this entry `address` (0: image provides them)")
	budget     = flag.Int64("cycles", 0, "stop after this many clock cycles (0: run until halted)")
	slice      = flag.Int64("slice", 10000, "cycles per scheduling slice")
	verbose    = flag.Bool("v", false, "log at debug level")
	cpuprofile = flag.String("cpuprofile", "", "write cpuprofile to `file`")
)

const (
	ramSize    = 1 << 24
	regStatus  = 0xFF0001
	regData    = 0xFF0003
	regPower   = 0xFF0005
	initialSSP = 0x00100000
)

// machine is the flat RAM bus with the console mapped over its top.
type machine struct {
	ram     []byte
	input   []byte
	output  io.Writer
	stopped bool
}

func (m *machine) Perform(t *m68000.Transaction, phase m68000.Phase) int {
	if phase != m68000.PhaseComplete && phase != m68000.PhasePoll {
		return m68000.AckNone
	}
	if t.Op == m68000.BusInterruptAck {
		return m68000.AckVPA
	}
	addr := t.Address & (ramSize - 1)
	next := (addr + 1) & (ramSize - 1)
	switch t.Op {
	case m68000.BusRead, m68000.BusReadModifyWrite:
		if t.Size == m68000.Word {
			t.Value = uint16(m.ram[addr])<<8 | uint16(m.ram[next])
		} else {
			t.Value = uint16(m.read8(addr))
		}
	case m68000.BusWrite:
		if t.Size == m68000.Word {
			m.ram[addr] = byte(t.Value >> 8)
			m.ram[next] = byte(t.Value)
		} else {
			m.write8(addr, byte(t.Value))
		}
	}
	return m68000.AckDTACK
}

func (m *machine) Reset() {}

func (m *machine) read8(addr uint32) byte {
	switch addr {
	case regStatus:
		s := byte(2) // output always ready
		if len(m.input) > 0 {
			s |= 1
		}
		return s
	case regData:
		if len(m.input) == 0 {
			return 0
		}
		b := m.input[0]
		m.input = m.input[1:]
		return b
	}
	return m.ram[addr]
}

func (m *machine) write8(addr uint32, v byte) {
	switch addr {
	case regData:
		m.output.Write([]byte{v})
	case regPower:
		m.stopped = true
	default:
		m.ram[addr] = v
	}
}

func main() {
	flag.Parse()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if flag.NArg() != 1 {
		log.Fatal("usage: m68run [flags] image.bin")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	image, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	m := &machine{ram: make([]byte, ramSize), output: os.Stdout}
	copy(m.ram, image)
	if *entry != 0 {
		putLong(m.ram[0:], initialSSP)
		putLong(m.ram[4:], uint32(*entry))
	}

	input := make(chan byte, 64)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			log.Fatal(err)
		}
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}
	go func() {
		buf := make([]byte, 64)
		defer close(input)
		for {
			n, err := os.Stdin.Read(buf)
			for _, c := range buf[:n] {
				input <- c
			}
			if err != nil {
				return
			}
		}
	}()

	p := m68000.New(m, m68000.Config{ImplicitDTACK: true, Logger: log})

	var elapsed int64
	for !m.stopped {
	drain:
		for {
			select {
			case c, ok := <-input:
				if !ok {
					break drain
				}
				if c == 0x1c { // ^\ quits
					m.stopped = true
				}
				m.input = append(m.input, c)
			default:
				break drain
			}
		}
		if len(m.input) > 0 {
			p.SetInterruptLevel(2)
		} else {
			p.SetInterruptLevel(0)
		}

		p.Run(m68000.Cycles(*slice))
		elapsed += *slice
		s := p.State()
		if s.Halted {
			log.Warn("processor halted")
			break
		}
		if *budget > 0 && elapsed >= *budget {
			break
		}
	}

	s := p.State()
	log.WithFields(logrus.Fields{
		"pc":     s.PC - 4,
		"sr":     s.SR,
		"cycles": elapsed,
	}).Info("stopped")
	for i := 0; i < 8; i++ {
		log.Debugf("d%d=%08x", i, s.D[i])
	}
	for i := 0; i < 7; i++ {
		log.Debugf("a%d=%08x", i, s.A[i])
	}
	log.Debugf("usp=%08x ssp=%08x", s.USP, s.SSP)
}

func putLong(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
