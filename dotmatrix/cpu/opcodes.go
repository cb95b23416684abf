package cpu

import (
	"fmt"

	"github.com/tmello/dotmatrix/dotmatrix/bit"
)

// execute runs a single unprefixed opcode and returns the T-cycles it
// consumed. Operand bytes are fetched here, so PC always ends up past the
// whole instruction.
//
// The decoder is one switch over the opcode byte rather than a table of
// per-opcode functions; the semantics and timings are the documented SM83
// ones, with the conditional control-flow forms returning their taken or
// not-taken cost.
func (c *CPU) execute(opcode uint8) (int, error) {
	switch opcode {

	// 0x00 - 0x0F
	case 0x00: // NOP
		return 4, nil
	case 0x01: // LD BC, nn
		c.setBC(c.fetchWord())
		return 12, nil
	case 0x02: // LD (BC), A
		c.bus.Write(c.getBC(), c.a)
		return 8, nil
	case 0x03: // INC BC
		c.setBC(c.getBC() + 1)
		return 8, nil
	case 0x04: // INC B
		c.b = c.inc8(c.b)
		return 4, nil
	case 0x05: // DEC B
		c.b = c.dec8(c.b)
		return 4, nil
	case 0x06: // LD B, n
		c.b = c.fetchByte()
		return 8, nil
	case 0x07: // RLCA
		c.a = c.rlc(c.a)
		c.resetFlag(zeroFlag)
		return 4, nil
	case 0x08: // LD (nn), SP
		address := c.fetchWord()
		c.bus.Write(address, bit.Low(c.sp))
		c.bus.Write(address+1, bit.High(c.sp))
		return 20, nil
	case 0x09: // ADD HL, BC
		c.addToHL(c.getBC())
		return 8, nil
	case 0x0A: // LD A, (BC)
		c.a = c.bus.Read(c.getBC())
		return 8, nil
	case 0x0B: // DEC BC
		c.setBC(c.getBC() - 1)
		return 8, nil
	case 0x0C: // INC C
		c.c = c.inc8(c.c)
		return 4, nil
	case 0x0D: // DEC C
		c.c = c.dec8(c.c)
		return 4, nil
	case 0x0E: // LD C, n
		c.c = c.fetchByte()
		return 8, nil
	case 0x0F: // RRCA
		c.a = c.rrc(c.a)
		c.resetFlag(zeroFlag)
		return 4, nil

	// 0x10 - 0x1F
	case 0x10: // STOP
		c.fetchByte() // operand byte, always 0x00 in practice
		c.stopped = true
		return 4, nil
	case 0x11: // LD DE, nn
		c.setDE(c.fetchWord())
		return 12, nil
	case 0x12: // LD (DE), A
		c.bus.Write(c.getDE(), c.a)
		return 8, nil
	case 0x13: // INC DE
		c.setDE(c.getDE() + 1)
		return 8, nil
	case 0x14: // INC D
		c.d = c.inc8(c.d)
		return 4, nil
	case 0x15: // DEC D
		c.d = c.dec8(c.d)
		return 4, nil
	case 0x16: // LD D, n
		c.d = c.fetchByte()
		return 8, nil
	case 0x17: // RLA
		c.a = c.rl(c.a)
		c.resetFlag(zeroFlag)
		return 4, nil
	case 0x18: // JR e
		c.jumpRelative(c.fetchSigned())
		return 12, nil
	case 0x19: // ADD HL, DE
		c.addToHL(c.getDE())
		return 8, nil
	case 0x1A: // LD A, (DE)
		c.a = c.bus.Read(c.getDE())
		return 8, nil
	case 0x1B: // DEC DE
		c.setDE(c.getDE() - 1)
		return 8, nil
	case 0x1C: // INC E
		c.e = c.inc8(c.e)
		return 4, nil
	case 0x1D: // DEC E
		c.e = c.dec8(c.e)
		return 4, nil
	case 0x1E: // LD E, n
		c.e = c.fetchByte()
		return 8, nil
	case 0x1F: // RRA
		c.a = c.rr(c.a)
		c.resetFlag(zeroFlag)
		return 4, nil

	// 0x20 - 0x2F
	case 0x20: // JR NZ, e
		offset := c.fetchSigned()
		if !c.isSetFlag(zeroFlag) {
			c.jumpRelative(offset)
			return 12, nil
		}
		return 8, nil
	case 0x21: // LD HL, nn
		c.setHL(c.fetchWord())
		return 12, nil
	case 0x22: // LD (HL+), A
		c.bus.Write(c.getHL(), c.a)
		c.setHL(c.getHL() + 1)
		return 8, nil
	case 0x23: // INC HL
		c.setHL(c.getHL() + 1)
		return 8, nil
	case 0x24: // INC H
		c.h = c.inc8(c.h)
		return 4, nil
	case 0x25: // DEC H
		c.h = c.dec8(c.h)
		return 4, nil
	case 0x26: // LD H, n
		c.h = c.fetchByte()
		return 8, nil
	case 0x27: // DAA
		c.daa()
		return 4, nil
	case 0x28: // JR Z, e
		offset := c.fetchSigned()
		if c.isSetFlag(zeroFlag) {
			c.jumpRelative(offset)
			return 12, nil
		}
		return 8, nil
	case 0x29: // ADD HL, HL
		c.addToHL(c.getHL())
		return 8, nil
	case 0x2A: // LD A, (HL+)
		c.a = c.bus.Read(c.getHL())
		c.setHL(c.getHL() + 1)
		return 8, nil
	case 0x2B: // DEC HL
		c.setHL(c.getHL() - 1)
		return 8, nil
	case 0x2C: // INC L
		c.l = c.inc8(c.l)
		return 4, nil
	case 0x2D: // DEC L
		c.l = c.dec8(c.l)
		return 4, nil
	case 0x2E: // LD L, n
		c.l = c.fetchByte()
		return 8, nil
	case 0x2F: // CPL
		c.a = ^c.a
		c.setFlag(subFlag)
		c.setFlag(halfCarryFlag)
		return 4, nil

	// 0x30 - 0x3F
	case 0x30: // JR NC, e
		offset := c.fetchSigned()
		if !c.isSetFlag(carryFlag) {
			c.jumpRelative(offset)
			return 12, nil
		}
		return 8, nil
	case 0x31: // LD SP, nn
		c.sp = c.fetchWord()
		return 12, nil
	case 0x32: // LD (HL-), A
		c.bus.Write(c.getHL(), c.a)
		c.setHL(c.getHL() - 1)
		return 8, nil
	case 0x33: // INC SP
		c.sp++
		return 8, nil
	case 0x34: // INC (HL)
		c.bus.Write(c.getHL(), c.inc8(c.bus.Read(c.getHL())))
		return 12, nil
	case 0x35: // DEC (HL)
		c.bus.Write(c.getHL(), c.dec8(c.bus.Read(c.getHL())))
		return 12, nil
	case 0x36: // LD (HL), n
		c.bus.Write(c.getHL(), c.fetchByte())
		return 12, nil
	case 0x37: // SCF
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlag(carryFlag)
		return 4, nil
	case 0x38: // JR C, e
		offset := c.fetchSigned()
		if c.isSetFlag(carryFlag) {
			c.jumpRelative(offset)
			return 12, nil
		}
		return 8, nil
	case 0x39: // ADD HL, SP
		c.addToHL(c.sp)
		return 8, nil
	case 0x3A: // LD A, (HL-)
		c.a = c.bus.Read(c.getHL())
		c.setHL(c.getHL() - 1)
		return 8, nil
	case 0x3B: // DEC SP
		c.sp--
		return 8, nil
	case 0x3C: // INC A
		c.a = c.inc8(c.a)
		return 4, nil
	case 0x3D: // DEC A
		c.a = c.dec8(c.a)
		return 4, nil
	case 0x3E: // LD A, n
		c.a = c.fetchByte()
		return 8, nil
	case 0x3F: // CCF
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
		return 4, nil

	// 0x40 - 0x7F: 8 bit loads (and HALT at 0x76)
	case 0x40: // LD B, B
		return 4, nil
	case 0x41: // LD B, C
		c.b = c.c
		return 4, nil
	case 0x42: // LD B, D
		c.b = c.d
		return 4, nil
	case 0x43: // LD B, E
		c.b = c.e
		return 4, nil
	case 0x44: // LD B, H
		c.b = c.h
		return 4, nil
	case 0x45: // LD B, L
		c.b = c.l
		return 4, nil
	case 0x46: // LD B, (HL)
		c.b = c.bus.Read(c.getHL())
		return 8, nil
	case 0x47: // LD B, A
		c.b = c.a
		return 4, nil
	case 0x48: // LD C, B
		c.c = c.b
		return 4, nil
	case 0x49: // LD C, C
		return 4, nil
	case 0x4A: // LD C, D
		c.c = c.d
		return 4, nil
	case 0x4B: // LD C, E
		c.c = c.e
		return 4, nil
	case 0x4C: // LD C, H
		c.c = c.h
		return 4, nil
	case 0x4D: // LD C, L
		c.c = c.l
		return 4, nil
	case 0x4E: // LD C, (HL)
		c.c = c.bus.Read(c.getHL())
		return 8, nil
	case 0x4F: // LD C, A
		c.c = c.a
		return 4, nil
	case 0x50: // LD D, B
		c.d = c.b
		return 4, nil
	case 0x51: // LD D, C
		c.d = c.c
		return 4, nil
	case 0x52: // LD D, D
		return 4, nil
	case 0x53: // LD D, E
		c.d = c.e
		return 4, nil
	case 0x54: // LD D, H
		c.d = c.h
		return 4, nil
	case 0x55: // LD D, L
		c.d = c.l
		return 4, nil
	case 0x56: // LD D, (HL)
		c.d = c.bus.Read(c.getHL())
		return 8, nil
	case 0x57: // LD D, A
		c.d = c.a
		return 4, nil
	case 0x58: // LD E, B
		c.e = c.b
		return 4, nil
	case 0x59: // LD E, C
		c.e = c.c
		return 4, nil
	case 0x5A: // LD E, D
		c.e = c.d
		return 4, nil
	case 0x5B: // LD E, E
		return 4, nil
	case 0x5C: // LD E, H
		c.e = c.h
		return 4, nil
	case 0x5D: // LD E, L
		c.e = c.l
		return 4, nil
	case 0x5E: // LD E, (HL)
		c.e = c.bus.Read(c.getHL())
		return 8, nil
	case 0x5F: // LD E, A
		c.e = c.a
		return 4, nil
	case 0x60: // LD H, B
		c.h = c.b
		return 4, nil
	case 0x61: // LD H, C
		c.h = c.c
		return 4, nil
	case 0x62: // LD H, D
		c.h = c.d
		return 4, nil
	case 0x63: // LD H, E
		c.h = c.e
		return 4, nil
	case 0x64: // LD H, H
		return 4, nil
	case 0x65: // LD H, L
		c.h = c.l
		return 4, nil
	case 0x66: // LD H, (HL)
		c.h = c.bus.Read(c.getHL())
		return 8, nil
	case 0x67: // LD H, A
		c.h = c.a
		return 4, nil
	case 0x68: // LD L, B
		c.l = c.b
		return 4, nil
	case 0x69: // LD L, C
		c.l = c.c
		return 4, nil
	case 0x6A: // LD L, D
		c.l = c.d
		return 4, nil
	case 0x6B: // LD L, E
		c.l = c.e
		return 4, nil
	case 0x6C: // LD L, H
		c.l = c.h
		return 4, nil
	case 0x6D: // LD L, L
		return 4, nil
	case 0x6E: // LD L, (HL)
		c.l = c.bus.Read(c.getHL())
		return 8, nil
	case 0x6F: // LD L, A
		c.l = c.a
		return 4, nil
	case 0x70: // LD (HL), B
		c.bus.Write(c.getHL(), c.b)
		return 8, nil
	case 0x71: // LD (HL), C
		c.bus.Write(c.getHL(), c.c)
		return 8, nil
	case 0x72: // LD (HL), D
		c.bus.Write(c.getHL(), c.d)
		return 8, nil
	case 0x73: // LD (HL), E
		c.bus.Write(c.getHL(), c.e)
		return 8, nil
	case 0x74: // LD (HL), H
		c.bus.Write(c.getHL(), c.h)
		return 8, nil
	case 0x75: // LD (HL), L
		c.bus.Write(c.getHL(), c.l)
		return 8, nil
	case 0x76: // HALT
		c.halted = true
		return 4, nil
	case 0x77: // LD (HL), A
		c.bus.Write(c.getHL(), c.a)
		return 8, nil
	case 0x78: // LD A, B
		c.a = c.b
		return 4, nil
	case 0x79: // LD A, C
		c.a = c.c
		return 4, nil
	case 0x7A: // LD A, D
		c.a = c.d
		return 4, nil
	case 0x7B: // LD A, E
		c.a = c.e
		return 4, nil
	case 0x7C: // LD A, H
		c.a = c.h
		return 4, nil
	case 0x7D: // LD A, L
		c.a = c.l
		return 4, nil
	case 0x7E: // LD A, (HL)
		c.a = c.bus.Read(c.getHL())
		return 8, nil
	case 0x7F: // LD A, A
		return 4, nil

	// 0x80 - 0xBF: 8 bit ALU over the register file
	case 0x80: // ADD A, B
		c.addToA(c.b, false)
		return 4, nil
	case 0x81: // ADD A, C
		c.addToA(c.c, false)
		return 4, nil
	case 0x82: // ADD A, D
		c.addToA(c.d, false)
		return 4, nil
	case 0x83: // ADD A, E
		c.addToA(c.e, false)
		return 4, nil
	case 0x84: // ADD A, H
		c.addToA(c.h, false)
		return 4, nil
	case 0x85: // ADD A, L
		c.addToA(c.l, false)
		return 4, nil
	case 0x86: // ADD A, (HL)
		c.addToA(c.bus.Read(c.getHL()), false)
		return 8, nil
	case 0x87: // ADD A, A
		c.addToA(c.a, false)
		return 4, nil
	case 0x88: // ADC A, B
		c.addToA(c.b, true)
		return 4, nil
	case 0x89: // ADC A, C
		c.addToA(c.c, true)
		return 4, nil
	case 0x8A: // ADC A, D
		c.addToA(c.d, true)
		return 4, nil
	case 0x8B: // ADC A, E
		c.addToA(c.e, true)
		return 4, nil
	case 0x8C: // ADC A, H
		c.addToA(c.h, true)
		return 4, nil
	case 0x8D: // ADC A, L
		c.addToA(c.l, true)
		return 4, nil
	case 0x8E: // ADC A, (HL)
		c.addToA(c.bus.Read(c.getHL()), true)
		return 8, nil
	case 0x8F: // ADC A, A
		c.addToA(c.a, true)
		return 4, nil
	case 0x90: // SUB B
		c.subFromA(c.b, false)
		return 4, nil
	case 0x91: // SUB C
		c.subFromA(c.c, false)
		return 4, nil
	case 0x92: // SUB D
		c.subFromA(c.d, false)
		return 4, nil
	case 0x93: // SUB E
		c.subFromA(c.e, false)
		return 4, nil
	case 0x94: // SUB H
		c.subFromA(c.h, false)
		return 4, nil
	case 0x95: // SUB L
		c.subFromA(c.l, false)
		return 4, nil
	case 0x96: // SUB (HL)
		c.subFromA(c.bus.Read(c.getHL()), false)
		return 8, nil
	case 0x97: // SUB A
		c.subFromA(c.a, false)
		return 4, nil
	case 0x98: // SBC A, B
		c.subFromA(c.b, true)
		return 4, nil
	case 0x99: // SBC A, C
		c.subFromA(c.c, true)
		return 4, nil
	case 0x9A: // SBC A, D
		c.subFromA(c.d, true)
		return 4, nil
	case 0x9B: // SBC A, E
		c.subFromA(c.e, true)
		return 4, nil
	case 0x9C: // SBC A, H
		c.subFromA(c.h, true)
		return 4, nil
	case 0x9D: // SBC A, L
		c.subFromA(c.l, true)
		return 4, nil
	case 0x9E: // SBC A, (HL)
		c.subFromA(c.bus.Read(c.getHL()), true)
		return 8, nil
	case 0x9F: // SBC A, A
		c.subFromA(c.a, true)
		return 4, nil
	case 0xA0: // AND B
		c.andA(c.b)
		return 4, nil
	case 0xA1: // AND C
		c.andA(c.c)
		return 4, nil
	case 0xA2: // AND D
		c.andA(c.d)
		return 4, nil
	case 0xA3: // AND E
		c.andA(c.e)
		return 4, nil
	case 0xA4: // AND H
		c.andA(c.h)
		return 4, nil
	case 0xA5: // AND L
		c.andA(c.l)
		return 4, nil
	case 0xA6: // AND (HL)
		c.andA(c.bus.Read(c.getHL()))
		return 8, nil
	case 0xA7: // AND A
		c.andA(c.a)
		return 4, nil
	case 0xA8: // XOR B
		c.xorA(c.b)
		return 4, nil
	case 0xA9: // XOR C
		c.xorA(c.c)
		return 4, nil
	case 0xAA: // XOR D
		c.xorA(c.d)
		return 4, nil
	case 0xAB: // XOR E
		c.xorA(c.e)
		return 4, nil
	case 0xAC: // XOR H
		c.xorA(c.h)
		return 4, nil
	case 0xAD: // XOR L
		c.xorA(c.l)
		return 4, nil
	case 0xAE: // XOR (HL)
		c.xorA(c.bus.Read(c.getHL()))
		return 8, nil
	case 0xAF: // XOR A
		c.xorA(c.a)
		return 4, nil
	case 0xB0: // OR B
		c.orA(c.b)
		return 4, nil
	case 0xB1: // OR C
		c.orA(c.c)
		return 4, nil
	case 0xB2: // OR D
		c.orA(c.d)
		return 4, nil
	case 0xB3: // OR E
		c.orA(c.e)
		return 4, nil
	case 0xB4: // OR H
		c.orA(c.h)
		return 4, nil
	case 0xB5: // OR L
		c.orA(c.l)
		return 4, nil
	case 0xB6: // OR (HL)
		c.orA(c.bus.Read(c.getHL()))
		return 8, nil
	case 0xB7: // OR A
		c.orA(c.a)
		return 4, nil
	case 0xB8: // CP B
		c.compare(c.b, false)
		return 4, nil
	case 0xB9: // CP C
		c.compare(c.c, false)
		return 4, nil
	case 0xBA: // CP D
		c.compare(c.d, false)
		return 4, nil
	case 0xBB: // CP E
		c.compare(c.e, false)
		return 4, nil
	case 0xBC: // CP H
		c.compare(c.h, false)
		return 4, nil
	case 0xBD: // CP L
		c.compare(c.l, false)
		return 4, nil
	case 0xBE: // CP (HL)
		c.compare(c.bus.Read(c.getHL()), false)
		return 8, nil
	case 0xBF: // CP A
		c.compare(c.a, false)
		return 4, nil

	// 0xC0 - 0xFF: control flow, stack, misc
	case 0xC0: // RET NZ
		if !c.isSetFlag(zeroFlag) {
			c.pc = c.popStack()
			return 20, nil
		}
		return 8, nil
	case 0xC1: // POP BC
		c.setBC(c.popStack())
		return 12, nil
	case 0xC2: // JP NZ, nn
		address := c.fetchWord()
		if !c.isSetFlag(zeroFlag) {
			c.pc = address
			return 16, nil
		}
		return 12, nil
	case 0xC3: // JP nn
		c.pc = c.fetchWord()
		return 16, nil
	case 0xC4: // CALL NZ, nn
		address := c.fetchWord()
		if !c.isSetFlag(zeroFlag) {
			c.pushStack(c.pc)
			c.pc = address
			return 24, nil
		}
		return 12, nil
	case 0xC5: // PUSH BC
		c.pushStack(c.getBC())
		return 16, nil
	case 0xC6: // ADD A, n
		c.addToA(c.fetchByte(), false)
		return 8, nil
	case 0xC7: // RST 0x00
		c.pushStack(c.pc)
		c.pc = 0x0000
		return 16, nil
	case 0xC8: // RET Z
		if c.isSetFlag(zeroFlag) {
			c.pc = c.popStack()
			return 20, nil
		}
		return 8, nil
	case 0xC9: // RET
		c.pc = c.popStack()
		return 16, nil
	case 0xCA: // JP Z, nn
		address := c.fetchWord()
		if c.isSetFlag(zeroFlag) {
			c.pc = address
			return 16, nil
		}
		return 12, nil
	case 0xCB: // CB prefix
		return c.executeCB(c.fetchByte()), nil
	case 0xCC: // CALL Z, nn
		address := c.fetchWord()
		if c.isSetFlag(zeroFlag) {
			c.pushStack(c.pc)
			c.pc = address
			return 24, nil
		}
		return 12, nil
	case 0xCD: // CALL nn
		address := c.fetchWord()
		c.pushStack(c.pc)
		c.pc = address
		return 24, nil
	case 0xCE: // ADC A, n
		c.addToA(c.fetchByte(), true)
		return 8, nil
	case 0xCF: // RST 0x08
		c.pushStack(c.pc)
		c.pc = 0x0008
		return 16, nil
	case 0xD0: // RET NC
		if !c.isSetFlag(carryFlag) {
			c.pc = c.popStack()
			return 20, nil
		}
		return 8, nil
	case 0xD1: // POP DE
		c.setDE(c.popStack())
		return 12, nil
	case 0xD2: // JP NC, nn
		address := c.fetchWord()
		if !c.isSetFlag(carryFlag) {
			c.pc = address
			return 16, nil
		}
		return 12, nil
	case 0xD4: // CALL NC, nn
		address := c.fetchWord()
		if !c.isSetFlag(carryFlag) {
			c.pushStack(c.pc)
			c.pc = address
			return 24, nil
		}
		return 12, nil
	case 0xD5: // PUSH DE
		c.pushStack(c.getDE())
		return 16, nil
	case 0xD6: // SUB n
		c.subFromA(c.fetchByte(), false)
		return 8, nil
	case 0xD7: // RST 0x10
		c.pushStack(c.pc)
		c.pc = 0x0010
		return 16, nil
	case 0xD8: // RET C
		if c.isSetFlag(carryFlag) {
			c.pc = c.popStack()
			return 20, nil
		}
		return 8, nil
	case 0xD9: // RETI
		c.pc = c.popStack()
		c.ime = true
		return 16, nil
	case 0xDA: // JP C, nn
		address := c.fetchWord()
		if c.isSetFlag(carryFlag) {
			c.pc = address
			return 16, nil
		}
		return 12, nil
	case 0xDC: // CALL C, nn
		address := c.fetchWord()
		if c.isSetFlag(carryFlag) {
			c.pushStack(c.pc)
			c.pc = address
			return 24, nil
		}
		return 12, nil
	case 0xDE: // SBC A, n
		c.subFromA(c.fetchByte(), true)
		return 8, nil
	case 0xDF: // RST 0x18
		c.pushStack(c.pc)
		c.pc = 0x0018
		return 16, nil
	case 0xE0: // LDH (n), A
		c.bus.Write(0xFF00+uint16(c.fetchByte()), c.a)
		return 12, nil
	case 0xE1: // POP HL
		c.setHL(c.popStack())
		return 12, nil
	case 0xE2: // LD (0xFF00+C), A
		c.bus.Write(0xFF00+uint16(c.c), c.a)
		return 8, nil
	case 0xE5: // PUSH HL
		c.pushStack(c.getHL())
		return 16, nil
	case 0xE6: // AND n
		c.andA(c.fetchByte())
		return 8, nil
	case 0xE7: // RST 0x20
		c.pushStack(c.pc)
		c.pc = 0x0020
		return 16, nil
	case 0xE8: // ADD SP, e
		c.sp = c.addSPRelative(c.fetchSigned())
		return 16, nil
	case 0xE9: // JP HL
		c.pc = c.getHL()
		return 4, nil
	case 0xEA: // LD (nn), A
		c.bus.Write(c.fetchWord(), c.a)
		return 16, nil
	case 0xEE: // XOR n
		c.xorA(c.fetchByte())
		return 8, nil
	case 0xEF: // RST 0x28
		c.pushStack(c.pc)
		c.pc = 0x0028
		return 16, nil
	case 0xF0: // LDH A, (n)
		c.a = c.bus.Read(0xFF00 + uint16(c.fetchByte()))
		return 12, nil
	case 0xF1: // POP AF
		c.setAF(c.popStack())
		return 12, nil
	case 0xF2: // LD A, (0xFF00+C)
		c.a = c.bus.Read(0xFF00 + uint16(c.c))
		return 8, nil
	case 0xF3: // DI
		c.ime = false
		c.imeDelay = 0
		return 4, nil
	case 0xF5: // PUSH AF
		c.pushStack(c.getAF())
		return 16, nil
	case 0xF6: // OR n
		c.orA(c.fetchByte())
		return 8, nil
	case 0xF7: // RST 0x30
		c.pushStack(c.pc)
		c.pc = 0x0030
		return 16, nil
	case 0xF8: // LD HL, SP+e
		c.setHL(c.addSPRelative(c.fetchSigned()))
		return 12, nil
	case 0xF9: // LD SP, HL
		c.sp = c.getHL()
		return 8, nil
	case 0xFA: // LD A, (nn)
		c.a = c.bus.Read(c.fetchWord())
		return 16, nil
	case 0xFB: // EI
		// takes effect one instruction later
		c.imeDelay = 2
		return 4, nil
	case 0xFE: // CP n
		c.compare(c.fetchByte(), false)
		return 8, nil
	case 0xFF: // RST 0x38
		c.pushStack(c.pc)
		c.pc = 0x0038
		return 16, nil

	default:
		// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB-0xED, 0xF4, 0xFC, 0xFD
		return 0, fmt.Errorf("unknown opcode 0x%02X", opcode)
	}
}
