package video

import (
	"github.com/tmello/dotmatrix/dotmatrix/addr"
	"github.com/tmello/dotmatrix/dotmatrix/bit"
	"github.com/tmello/dotmatrix/dotmatrix/memory"
)

// Mode is the PPU state machine mode, numbered as STAT reports it.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeTransfer
)

// Per-mode cycle counts. A full scanline is 456 T-cycles, visible or not.
const (
	oamScanCycles  = 80
	transferCycles = 172
	hblankCycles   = 204
	scanlineCycles = oamScanCycles + transferCycles + hblankCycles

	firstVBlankLine = 144
	lastScanline    = 153
)

// FrameCycles is one full frame worth of T-cycles (154 scanlines).
const FrameCycles = scanlineCycles * (lastScanline + 1)

// LCDC bit positions.
const (
	lcdcBGEnable      = 0
	lcdcOBJEnable     = 1
	lcdcOBJSize       = 2
	lcdcBGTileMap     = 3
	lcdcTileData      = 4
	lcdcWindowEnable  = 5
	lcdcWindowTileMap = 6
	lcdcDisplayEnable = 7
)

// STAT bit positions.
const (
	statLYCFlag   = 2
	statHBlankIRQ = 3
	statVBlankIRQ = 4
	statOAMIRQ    = 5
	statLYCIRQ    = 6
)

// GPU walks the four-mode scanline state machine and renders into the
// framebuffer. It owns the LCD register file; the MMU delegates the
// FF40-FF4B window here.
type GPU struct {
	memory      *memory.MMU
	framebuffer *FrameBuffer

	mode     Mode
	lastMode Mode
	cycles   int
	line     uint8

	// window internal line counter, and the previous LY==LYC state for
	// detecting the coincidence rising edge
	windowLine  int
	lycWasEqual bool

	frameReady bool

	lcdc uint8
	stat uint8
	scy  uint8
	scx  uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	// color ids of the background/window pixels on the scanline being
	// drawn, kept for sprite priority
	bgColorIDs [FramebufferWidth]uint8
	// lowest sprite X that has claimed each pixel this scanline
	spriteOwnerX [FramebufferWidth]int
}

// NewGPU returns a PPU in the documented power-on state, wired to read
// VRAM and OAM through the given memory unit.
func NewGPU(mem *memory.MMU) *GPU {
	g := &GPU{
		memory:      mem,
		framebuffer: NewFrameBuffer(),
		mode:        ModeOAMScan,
		lastMode:    ModeOAMScan,
		lcdc:        0x91,
		stat:        0x85,
		bgp:         0xFC,
		obp0:        0xFF,
		obp1:        0xFF,
	}
	return g
}

// Framebuffer returns the surface the GPU renders into.
func (g *GPU) Framebuffer() *FrameBuffer {
	return g.framebuffer
}

// FrameReady reports whether a VBlank has been entered since the last
// call, i.e. a complete frame is available. Reading it clears the flag.
func (g *GPU) FrameReady() bool {
	ready := g.frameReady
	g.frameReady = false
	return ready
}

// Line returns the current scanline (LY).
func (g *GPU) Line() uint8 {
	return g.line
}

// Mode returns the current state machine mode.
func (g *GPU) Mode() Mode {
	return g.mode
}

// Tick advances the PPU by the cycle count of the last CPU step.
func (g *GPU) Tick(cycles int) {
	if !bit.IsSet(lcdcDisplayEnable, g.lcdc) {
		// LCD off: hold the machine at the top of the frame
		g.line = 0
		g.cycles = 0
		g.mode = ModeOAMScan
		g.windowLine = 0
		return
	}

	g.cycles += cycles

	// a single advance can cross several mode boundaries; drain them so
	// every transition is observed in STAT
	for g.advance() {
		g.updateSTAT()
	}
	g.updateSTAT()
}

// advance performs at most one mode transition, reporting whether the
// accumulated cycles were enough for it.
func (g *GPU) advance() bool {
	switch g.mode {
	case ModeOAMScan:
		if g.cycles < oamScanCycles {
			return false
		}
		g.cycles -= oamScanCycles
		g.mode = ModeTransfer
	case ModeTransfer:
		if g.cycles < transferCycles {
			return false
		}
		g.cycles -= transferCycles
		g.mode = ModeHBlank
		g.renderScanline()
	case ModeHBlank:
		if g.cycles < hblankCycles {
			return false
		}
		g.cycles -= hblankCycles
		g.line++
		if g.line == firstVBlankLine {
			g.mode = ModeVBlank
			g.frameReady = true
			g.memory.RequestInterrupt(addr.VBlankInterrupt)
		} else {
			g.mode = ModeOAMScan
		}
	case ModeVBlank:
		if g.cycles < scanlineCycles {
			return false
		}
		g.cycles -= scanlineCycles
		g.line++
		if g.line > lastScanline {
			g.line = 0
			g.mode = ModeOAMScan
			g.windowLine = 0
		}
	}
	return true
}

// updateSTAT folds the machine state into STAT and raises the STAT
// interrupt on LY=LYC rising edges and on enabled mode changes.
func (g *GPU) updateSTAT() {
	g.stat = g.stat&^0x03 | uint8(g.mode)

	equal := g.line == g.lyc
	if equal {
		g.stat = bit.Set(statLYCFlag, g.stat)
		if !g.lycWasEqual && bit.IsSet(statLYCIRQ, g.stat) {
			g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		g.stat = bit.Clear(statLYCFlag, g.stat)
	}
	g.lycWasEqual = equal

	if g.mode != g.lastMode {
		irqBit := uint8(0xFF)
		switch g.mode {
		case ModeHBlank:
			irqBit = statHBlankIRQ
		case ModeVBlank:
			irqBit = statVBlankIRQ
		case ModeOAMScan:
			irqBit = statOAMIRQ
		}
		if irqBit != 0xFF && bit.IsSet(irqBit, g.stat) {
			g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
		}
		g.lastMode = g.mode
	}
}

// ReadRegister services bus reads in the FF40-FF4B window.
func (g *GPU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return g.lcdc
	case addr.STAT:
		// bit 7 is unused and reads as 1
		return g.stat | 0x80
	case addr.SCY:
		return g.scy
	case addr.SCX:
		return g.scx
	case addr.LY:
		return g.line
	case addr.LYC:
		return g.lyc
	case addr.BGP:
		return g.bgp
	case addr.OBP0:
		return g.obp0
	case addr.OBP1:
		return g.obp1
	case addr.WY:
		return g.wy
	case addr.WX:
		return g.wx
	default:
		return 0xFF
	}
}

// WriteRegister services bus writes in the FF40-FF4B window.
func (g *GPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		wasOn := bit.IsSet(lcdcDisplayEnable, g.lcdc)
		g.lcdc = value
		if wasOn && !bit.IsSet(lcdcDisplayEnable, value) {
			g.line = 0
			g.cycles = 0
			g.mode = ModeOAMScan
			g.windowLine = 0
		}
	case addr.STAT:
		// the low three bits are machine-owned
		g.stat = value&^0x07 | g.stat&0x07
	case addr.SCY:
		g.scy = value
	case addr.SCX:
		g.scx = value
	case addr.LY:
		// read-only
	case addr.LYC:
		g.lyc = value
	case addr.BGP:
		g.bgp = value
	case addr.OBP0:
		g.obp0 = value
	case addr.OBP1:
		g.obp1 = value
	case addr.WY:
		g.wy = value
	case addr.WX:
		g.wx = value
	}
}
