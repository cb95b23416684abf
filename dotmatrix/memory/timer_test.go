package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmello/dotmatrix/dotmatrix/addr"
)

func TestDIVTracksDividerUpperByte(t *testing.T) {
	m := New()

	m.Timer().Tick(255)
	assert.Equal(t, uint8(0x00), m.Read(addr.DIV))

	m.Timer().Tick(1)
	assert.Equal(t, uint8(0x01), m.Read(addr.DIV))

	m.Timer().Tick(512)
	assert.Equal(t, uint8(0x03), m.Read(addr.DIV))
}

func TestDIVWriteResetsWholeDivider(t *testing.T) {
	m := New()

	m.Timer().Tick(300)
	assert.Equal(t, uint16(300), m.Timer().Divider())

	m.Write(addr.DIV, 0x42) // the written value is irrelevant
	assert.Equal(t, uint16(0), m.Timer().Divider())
	assert.Equal(t, uint8(0), m.Read(addr.DIV))
}

func TestTIMAFallingEdgeIncrement(t *testing.T) {
	m := New()

	// enable, clock from divider bit 3 (period 16 cycles)
	m.Write(addr.TAC, 0x05)
	m.Write(addr.TIMA, 0x00)

	// bit 3 falls when the divider reaches 16
	m.Timer().Tick(15)
	assert.Equal(t, uint8(0x00), m.Read(addr.TIMA))
	m.Timer().Tick(1)
	assert.Equal(t, uint8(0x01), m.Read(addr.TIMA))

	// and again every 16 cycles
	m.Timer().Tick(16)
	assert.Equal(t, uint8(0x02), m.Read(addr.TIMA))
}

func TestTIMADisabledDoesNotCount(t *testing.T) {
	m := New()

	m.Write(addr.TAC, 0x01) // clock selected but not enabled
	m.Timer().Tick(256)
	assert.Equal(t, uint8(0x00), m.Read(addr.TIMA))
}

func TestTIMAOverflowReloadsTMAAndInterrupts(t *testing.T) {
	m := New()

	m.Write(addr.TAC, 0x05) // enable, bit 3 clock
	m.Write(addr.TIMA, 0xFE)
	m.Write(addr.TMA, 0xAB)

	// advance 32 cycles in CPU-sized steps: two falling edges of bit 3
	for range 8 {
		m.Tick(4)
	}

	// first edge counts to 0xFF, second overflows and reloads TMA
	assert.Equal(t, uint8(0xAB), m.Read(addr.TIMA))
	assert.True(t, m.ReadBit(uint8(addr.TimerInterrupt), addr.IF))
}

func TestTIMAOverflowReloadIsImmediate(t *testing.T) {
	m := New()

	m.Write(addr.TAC, 0x05)
	m.Write(addr.TIMA, 0xFF)
	m.Write(addr.TMA, 0x10)

	m.Timer().Tick(16)
	assert.Equal(t, uint8(0x10), m.Read(addr.TIMA))
	assert.True(t, m.ReadBit(uint8(addr.TimerInterrupt), addr.IF))
}

func TestTACClockSelect(t *testing.T) {
	testCases := []struct {
		desc   string
		tac    uint8
		period int
	}{
		{desc: "4096 Hz", tac: 0x04, period: 1024},
		{desc: "262144 Hz", tac: 0x05, period: 16},
		{desc: "65536 Hz", tac: 0x06, period: 64},
		{desc: "16384 Hz", tac: 0x07, period: 256},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			m := New()
			m.Write(addr.TAC, tC.tac)

			m.Timer().Tick(tC.period - 1)
			assert.Equal(t, uint8(0), m.Read(addr.TIMA))
			m.Timer().Tick(1)
			assert.Equal(t, uint8(1), m.Read(addr.TIMA))
		})
	}
}
