package memory

import (
	"fmt"
	"strings"
)

// Cartridge header layout, per the standard map at 0x0100-0x014F.
const (
	titleAddress         = 0x0134
	titleLength          = 16
	cartridgeTypeAddress = 0x0147
	romSizeAddress       = 0x0148
	ramSizeAddress       = 0x0149
)

// MBCType identifies the memory bank controller a cartridge carries.
type MBCType uint8

const (
	// NoMBCType is a plain 32 KiB ROM with no banking hardware.
	NoMBCType MBCType = iota
	// MBC1Type is the common MBC1 controller (ROM/RAM banking).
	MBC1Type
	// MBCUnsupportedType is any controller this core does not emulate.
	MBCUnsupportedType
)

// Cartridge holds the ROM image and its parsed header fields. The byte
// buffer is owned here: loaded once at startup and dropped with the MMU.
type Cartridge struct {
	data []byte

	title        string
	cartType     uint8
	mbcType      MBCType
	romBankCount int
	ramBankCount int
}

// NewCartridge returns an empty cartridge, the equivalent of powering on
// the console with nothing inserted. All reads yield 0xFF.
func NewCartridge() *Cartridge {
	return &Cartridge{mbcType: NoMBCType}
}

// NewCartridgeWithData parses the header of a ROM image and takes ownership
// of a copy of the bytes.
func NewCartridgeWithData(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x0150 {
		return nil, fmt.Errorf("ROM image too small for a header: %d bytes", len(rom))
	}

	c := &Cartridge{
		data:     make([]byte, len(rom)),
		title:    cleanTitle(rom[titleAddress : titleAddress+titleLength]),
		cartType: rom[cartridgeTypeAddress],
	}
	copy(c.data, rom)

	// ROM size byte n means 32 KiB << n, i.e. 2 << n banks of 16 KiB.
	c.romBankCount = 2 << rom[romSizeAddress]

	switch rom[ramSizeAddress] {
	case 0x00, 0x01:
		c.ramBankCount = 0
	case 0x02:
		c.ramBankCount = 1
	case 0x03:
		c.ramBankCount = 4
	case 0x04:
		c.ramBankCount = 16
	case 0x05:
		c.ramBankCount = 8
	default:
		return nil, fmt.Errorf("unknown RAM size code 0x%02X", rom[ramSizeAddress])
	}

	switch c.cartType {
	case 0x00, 0x08, 0x09:
		c.mbcType = NoMBCType
	case 0x01, 0x02, 0x03:
		c.mbcType = MBC1Type
	default:
		c.mbcType = MBCUnsupportedType
		return nil, fmt.Errorf("unsupported cartridge type 0x%02X (%q)", c.cartType, c.title)
	}

	return c, nil
}

// Title returns the game title from the header.
func (c *Cartridge) Title() string {
	return c.title
}

func cleanTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(raw[:end]))
}

// MBC is the banking controller seen by the MMU for the cartridge address
// windows (0x0000-0x7FFF ROM, 0xA000-0xBFFF external RAM).
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// noMBC maps a plain ROM directly, with an optional fixed 8 KiB RAM bank.
type noMBC struct {
	rom []uint8
	ram []uint8
}

func newNoMBC(rom []uint8, ramBanks int) *noMBC {
	m := &noMBC{rom: rom}
	if ramBanks > 0 {
		m.ram = make([]uint8, 0x2000)
	}
	return m
}

func (m *noMBC) Read(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address >= 0xA000 && address <= 0xBFFF && m.ram != nil:
		return m.ram[address-0xA000]
	default:
		return 0xFF
	}
}

func (m *noMBC) Write(address uint16, value uint8) {
	if address >= 0xA000 && address <= 0xBFFF && m.ram != nil {
		m.ram[address-0xA000] = value
	}
}

// mbc1 implements the MBC1 controller: 5+2 bit ROM bank select, RAM
// enable, and the ROM/RAM banking mode switch.
type mbc1 struct {
	rom []uint8
	ram []uint8

	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8
}

func newMBC1(rom []uint8, ramBanks int) *mbc1 {
	return &mbc1{
		rom:     rom,
		ram:     make([]uint8, ramBanks*0x2000),
		romBank: 1,
	}
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := uint32(m.romBank)*0x4000 + uint32(address-0x4000)
		return m.rom[offset%uint32(len(m.rom))]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank)*0x2000 + uint32(address-0xA000)
		return m.ram[offset%uint32(len(m.ram))]
	default:
		return 0xFF
	}
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = m.romBank&0x60 | bank
	case address <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = m.romBank&0x1F | value&0x03<<5
		} else {
			m.ramBank = value & 0x03
		}
	case address <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank)*0x2000 + uint32(address-0xA000)
		m.ram[offset%uint32(len(m.ram))] = value
	}
}

// newMBC builds the controller matching the cartridge header. An empty
// cartridge gets a nil-safe open-bus controller.
func newMBC(c *Cartridge) MBC {
	if c == nil || len(c.data) == 0 {
		return openBus{}
	}
	switch c.mbcType {
	case MBC1Type:
		return newMBC1(c.data, c.ramBankCount)
	default:
		return newNoMBC(c.data, c.ramBankCount)
	}
}

// openBus is the no-cartridge controller: reads float high, writes vanish.
type openBus struct{}

func (openBus) Read(uint16) uint8 { return 0xFF }
func (openBus) Write(uint16, uint8) {}
