package memory

import (
	"github.com/tmello/dotmatrix/dotmatrix/addr"
	"github.com/tmello/dotmatrix/dotmatrix/bit"
)

// tacBit maps TAC bits 1-0 to the divider bit whose falling edge clocks
// TIMA when the timer is enabled (TAC bit 2):
//
//	00 -> bit 9 (4096 Hz)
//	01 -> bit 3 (262144 Hz)
//	10 -> bit 5 (65536 Hz)
//	11 -> bit 7 (16384 Hz)
var tacBit = [4]uint8{9, 3, 5, 7}

// Timer owns the 16 bit free-running divider and the TIMA/TMA/TAC
// registers. DIV reads return the divider's upper byte; any DIV write
// zeroes the whole counter. A TIMA overflow reloads TMA and requests the
// timer interrupt in the same cycle.
type Timer struct {
	divider     uint16
	lastClockIn bool

	tima uint8
	tma  uint8
	tac  uint8

	// requestInterrupt raises the timer interrupt (IF bit 2).
	requestInterrupt func()
}

// Tick advances the divider by the given number of T-cycles, clocking
// TIMA on every falling edge of the TAC-selected bit.
func (t *Timer) Tick(cycles int) {
	for range cycles {
		t.divider++

		if !bit.IsSet(2, t.tac) {
			t.lastClockIn = false
			continue
		}

		clockIn := bit.IsSet16(tacBit[t.tac&0x03], t.divider)
		if t.lastClockIn && !clockIn {
			t.incrementTIMA()
		}
		t.lastClockIn = clockIn
	}
}

func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima == 0 {
		t.tima = t.tma
		if t.requestInterrupt != nil {
			t.requestInterrupt()
		}
	}
}

// Read services the FF04-FF07 window.
func (t *Timer) Read(address uint16) uint8 {
	switch address {
	case addr.DIV:
		return uint8(t.divider >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac
	default:
		return 0xFF
	}
}

// Write services the FF04-FF07 window.
func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		t.divider = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}

// Divider exposes the internal counter, mainly for tests.
func (t *Timer) Divider() uint16 {
	return t.divider
}
