package cpu

import "github.com/tmello/dotmatrix/dotmatrix/bit"

// executeCB runs one 0xCB-prefixed opcode. The whole second page decodes
// from the bit layout, so no table is needed:
//
//	bits 7-6: category (00 rotate/shift, 01 BIT, 10 RES, 11 SET)
//	bits 5-3: sub-operation, or the bit index for BIT/RES/SET
//	bits 2-0: target (B C D E H L (HL) A)
func (c *CPU) executeCB(opcode uint8) int {
	target := opcode & 0x07
	index := opcode >> 3 & 0x07
	value := c.readCBTarget(target)

	switch opcode >> 6 {
	case 0:
		switch index {
		case 0:
			value = c.rlc(value)
		case 1:
			value = c.rrc(value)
		case 2:
			value = c.rl(value)
		case 3:
			value = c.rr(value)
		case 4:
			value = c.sla(value)
		case 5:
			value = c.sra(value)
		case 6:
			value = c.swap(value)
		case 7:
			value = c.srl(value)
		}
	case 1:
		// BIT inspects only; no writeback
		c.bitTest(index, value)
		if target == cbTargetHL {
			return 12
		}
		return 8
	case 2:
		value = bit.Clear(index, value)
	case 3:
		value = bit.Set(index, value)
	}

	c.writeCBTarget(target, value)
	if target == cbTargetHL {
		return 16
	}
	return 8
}

const cbTargetHL = 6

func (c *CPU) readCBTarget(target uint8) uint8 {
	switch target {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case cbTargetHL:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

func (c *CPU) writeCBTarget(target, value uint8) {
	switch target {
	case 0:
		c.b = value
	case 1:
		c.c = value
	case 2:
		c.d = value
	case 3:
		c.e = value
	case 4:
		c.h = value
	case 5:
		c.l = value
	case cbTargetHL:
		c.bus.Write(c.getHL(), value)
	default:
		c.a = value
	}
}
