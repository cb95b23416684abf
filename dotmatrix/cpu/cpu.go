package cpu

import (
	"fmt"

	"github.com/tmello/dotmatrix/dotmatrix/addr"
	"github.com/tmello/dotmatrix/dotmatrix/bit"
)

// Bus is the memory interface the CPU executes against.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Flag is one of the four flag bits in the high nibble of F.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

const interruptDispatchCycles = 20

// CPU holds the SM83 register file and execution state.
type CPU struct {
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// ime gates interrupt servicing; imeDelay implements the one
	// instruction latency of EI.
	ime      bool
	imeDelay int

	halted  bool
	stopped bool
	cycles  uint64

	bus Bus
}

// New returns a CPU in the documented DMG power-on state.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// Step advances the CPU by one unit of work: either it dispatches a
// pending unmasked interrupt (20 cycles), idles in HALT (4 cycles), or
// fetches and executes one instruction. The returned cycle count is what
// the rest of the machine must be advanced by.
//
// Decoding a byte with no instruction behind it is fatal; the error names
// the opcode and the address it was fetched from.
func (c *CPU) Step() (int, error) {
	pending := c.bus.Read(addr.IF) & c.bus.Read(addr.IE) & 0x1F
	if pending != 0 {
		// any pending interrupt wakes the CPU, serviced or not
		c.halted = false
		if c.ime {
			cycles := c.dispatchInterrupt(pending)
			c.cycles += uint64(cycles)
			return cycles, nil
		}
	}

	if c.halted {
		c.cycles += 4
		return 4, nil
	}

	fetchedAt := c.pc
	opcode := c.fetchByte()

	cycles, err := c.execute(opcode)
	if err != nil {
		return 0, fmt.Errorf("%w at 0x%04X", err, fetchedAt)
	}
	c.cycles += uint64(cycles)

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}

	return cycles, nil
}

// dispatchInterrupt services the lowest set bit of the pending mask:
// acknowledge in IF, drop IME, push PC and jump to the fixed vector.
func (c *CPU) dispatchInterrupt(pending uint8) int {
	for i := uint8(0); i < 5; i++ {
		if !bit.IsSet(i, pending) {
			continue
		}
		c.ime = false
		c.bus.Write(addr.IF, bit.Clear(i, c.bus.Read(addr.IF)))
		c.pushStack(c.pc)
		c.pc = addr.Interrupt(i).Vector()
		break
	}
	return interruptDispatchCycles
}

func (c *CPU) fetchByte() uint8 {
	value := c.bus.Read(c.pc)
	c.pc++
	return value
}

func (c *CPU) fetchWord() uint16 {
	low := c.fetchByte()
	high := c.fetchByte()
	return bit.Combine(high, low)
}

func (c *CPU) fetchSigned() int8 {
	return int8(c.fetchByte())
}

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

// flagToBit returns 1 when the flag is set, 0 otherwise.
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	// the low nibble of F does not exist in hardware
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

// Register and state accessors for frontends and tests.

func (c *CPU) A() uint8       { return c.a }
func (c *CPU) F() uint8       { return c.f }
func (c *CPU) B() uint8       { return c.b }
func (c *CPU) C() uint8       { return c.c }
func (c *CPU) D() uint8       { return c.d }
func (c *CPU) E() uint8       { return c.e }
func (c *CPU) H() uint8       { return c.h }
func (c *CPU) L() uint8       { return c.l }
func (c *CPU) SP() uint16     { return c.sp }
func (c *CPU) PC() uint16     { return c.pc }
func (c *CPU) IME() bool      { return c.ime }
func (c *CPU) Halted() bool   { return c.halted }
func (c *CPU) Cycles() uint64 { return c.cycles }
