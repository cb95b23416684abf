package memory

import (
	"fmt"
	"log/slog"

	"github.com/tmello/dotmatrix/dotmatrix/addr"
	"github.com/tmello/dotmatrix/dotmatrix/bit"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionHigh // 0xFF00-0xFFFF: I/O + HRAM + IE
)

// regionTable maps the high byte of an address to its region. Every page
// decodes to exactly one region, so there is no unmapped-access path.
var regionTable = buildRegionTable()

func buildRegionTable() [256]memRegion {
	var t [256]memRegion
	for page := range 256 {
		switch {
		case page <= 0x7F:
			t[page] = regionROM
		case page <= 0x9F:
			t[page] = regionVRAM
		case page <= 0xBF:
			t[page] = regionExtRAM
		case page <= 0xDF:
			t[page] = regionWRAM
		case page <= 0xFD:
			t[page] = regionEcho
		case page == 0xFE:
			t[page] = regionOAM
		default:
			t[page] = regionHigh
		}
	}
	return t
}

// VideoRegisters is the PPU's register file as seen by the bus. The MMU
// delegates the FF40-FF4B window (except DMA) so STAT/LY semantics live
// with the PPU.
type VideoRegisters interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// MMU is the central 64 KiB address decoder. It owns work/video/high RAM
// and OAM, the cartridge and its banking controller, the timer and the
// joypad, and routes register-mapped accesses to their owners.
type MMU struct {
	cart *Cartridge
	mbc  MBC

	memory []byte
	video  VideoRegisters

	joypad Joypad
	timer  Timer
}

// New creates a memory unit with no cartridge inserted.
func New() *MMU {
	m := &MMU{
		memory: make([]byte, 0x10000),
		cart:   NewCartridge(),
	}
	m.mbc = newMBC(m.cart)
	m.joypad = newJoypad(func() { m.RequestInterrupt(addr.JoypadInterrupt) })
	m.timer.requestInterrupt = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.seedPowerOn()
	return m
}

// NewWithCartridge creates a memory unit with the given cartridge mapped.
func NewWithCartridge(cart *Cartridge) *MMU {
	m := New()
	m.cart = cart
	m.mbc = newMBC(cart)
	return m
}

// AttachVideo wires the PPU register file into the FF40-FF4B window.
func (m *MMU) AttachVideo(v VideoRegisters) {
	m.video = v
}

// Cartridge returns the currently mapped cartridge.
func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// Tick advances bus-owned peripherals by the given cycle count.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
}

// Timer exposes the timer unit, mainly for tests.
func (m *MMU) Timer() *Timer {
	return &m.timer
}

// seedPowerOn stores the documented post-boot I/O values. Video registers
// carry their own power-on state in the PPU; audio registers are plain
// bytes here since the APU is outside this core.
func (m *MMU) seedPowerOn() {
	m.Write(addr.P1, 0xCF)
	m.Write(addr.SB, 0x00)
	m.Write(addr.SC, 0x7E)
	m.Write(addr.TIMA, 0x00)
	m.Write(addr.TMA, 0x00)
	m.Write(addr.TAC, 0x00)
	m.Write(addr.IF, 0x00)
	m.Write(addr.IE, 0x00)

	for a, v := range map[uint16]uint8{
		0xFF10: 0x80, 0xFF11: 0xBF, 0xFF12: 0xF3, 0xFF14: 0xBF,
		0xFF16: 0x3F, 0xFF17: 0x00, 0xFF19: 0xBF, 0xFF1A: 0x7F,
		0xFF1B: 0xFF, 0xFF1C: 0x9F, 0xFF1E: 0xBF, 0xFF20: 0xFF,
		0xFF21: 0x00, 0xFF22: 0x00, 0xFF23: 0xBF, 0xFF24: 0x77,
		0xFF25: 0xF3, 0xFF26: 0xF1,
	} {
		m.Write(a, v)
	}
}

// RequestInterrupt sets the IF bit for the given interrupt source.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.Write(addr.IF, bit.Set(uint8(interrupt), m.Read(addr.IF)))
}

// ReadBit reports whether the bit at index is set at the given address.
func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

// Read decodes and services a byte read.
func (m *MMU) Read(address uint16) uint8 {
	switch regionTable[address>>8] {
	case regionROM, regionExtRAM:
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.memory[address]
		}
		// FEA0-FEFF is unusable and reads as open bus.
		return 0xFF
	default:
		return m.readHigh(address)
	}
}

// Write decodes and services a byte write.
func (m *MMU) Write(address uint16, value uint8) {
	switch regionTable[address>>8] {
	case regionROM, regionExtRAM:
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.memory[address] = value
		}
		// writes into FEA0-FEFF are dropped
	default:
		m.writeHigh(address, value)
	}
}

// ReadWord reads a 16 bit value, low byte first.
func (m *MMU) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address+1), m.Read(address))
}

// WriteWord writes a 16 bit value, low byte first.
func (m *MMU) WriteWord(address uint16, value uint16) {
	m.Write(address, bit.Low(value))
	m.Write(address+1, bit.High(value))
}

func (m *MMU) readHigh(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		// unused upper bits always read as 1
		return m.memory[address] | 0xE0
	case address >= addr.LCDC && address <= addr.WX && address != addr.DMA:
		if m.video != nil {
			return m.video.ReadRegister(address)
		}
		return m.memory[address]
	default:
		// plain I/O bytes, HRAM and IE
		return m.memory[address]
	}
}

func (m *MMU) writeHigh(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.memory[address] = value & 0x1F
	case address == addr.DMA:
		m.doDMA(value)
	case address >= addr.LCDC && address <= addr.WX:
		if m.video != nil {
			m.video.WriteRegister(address, value)
			return
		}
		m.memory[address] = value
	default:
		m.memory[address] = value
	}
}

// doDMA copies 160 bytes from source<<8 into OAM. The source page is read
// through the normal decode path so ROM, RAM and echo sources all work.
func (m *MMU) doDMA(source uint8) {
	base := uint16(source) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.memory[addr.OAMStart+i] = m.Read(base + i)
	}
	m.memory[addr.DMA] = source
}

// Press forwards a key press to the joypad matrix.
func (m *MMU) Press(key JoypadKey) {
	m.joypad.Press(key)
}

// Release forwards a key release to the joypad matrix.
func (m *MMU) Release(key JoypadKey) {
	m.joypad.Release(key)
}

// DumpRegion logs a memory range at debug level. Handy when a ROM
// misbehaves and the fault is in bus plumbing rather than the CPU.
func (m *MMU) DumpRegion(start, end uint16) {
	for a := uint32(start); a <= uint32(end); a += 16 {
		row := make([]uint8, 0, 16)
		for i := uint32(0); i < 16 && a+i <= uint32(end); i++ {
			row = append(row, m.Read(uint16(a+i)))
		}
		slog.Debug("memory", "addr", fmt.Sprintf("0x%04X", a), "bytes", fmt.Sprintf("% X", row))
	}
}
