package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmello/dotmatrix/dotmatrix/addr"
	"github.com/tmello/dotmatrix/dotmatrix/memory"
)

func newTestGPU() (*GPU, *memory.MMU) {
	mmu := memory.New()
	gpu := NewGPU(mmu)
	mmu.AttachVideo(gpu)
	return gpu, mmu
}

func interruptRaised(m *memory.MMU, i addr.Interrupt) bool {
	return m.ReadBit(uint8(i), addr.IF)
}

func clearInterrupts(m *memory.MMU) {
	m.Write(addr.IF, 0x00)
}

func TestModeStateMachine(t *testing.T) {
	gpu, _ := newTestGPU()

	require.Equal(t, ModeOAMScan, gpu.Mode())
	require.Equal(t, uint8(0), gpu.Line())

	gpu.Tick(80)
	assert.Equal(t, ModeTransfer, gpu.Mode())

	gpu.Tick(172)
	assert.Equal(t, ModeHBlank, gpu.Mode())

	gpu.Tick(204)
	assert.Equal(t, ModeOAMScan, gpu.Mode())
	assert.Equal(t, uint8(1), gpu.Line())
}

func TestSTATReflectsModeAndLine(t *testing.T) {
	gpu, mmu := newTestGPU()

	gpu.Tick(80)
	assert.Equal(t, uint8(ModeTransfer), mmu.Read(addr.STAT)&0x03)

	gpu.Tick(172)
	assert.Equal(t, uint8(ModeHBlank), mmu.Read(addr.STAT)&0x03)

	assert.Equal(t, uint8(0), mmu.Read(addr.LY))
}

func TestSTATWritePreservesReadOnlyBits(t *testing.T) {
	gpu, mmu := newTestGPU()
	gpu.Tick(80) // mode 3

	mmu.Write(addr.STAT, 0x00)
	assert.Equal(t, uint8(ModeTransfer), mmu.Read(addr.STAT)&0x03, "mode bits survive writes")

	mmu.Write(addr.STAT, 0x78)
	assert.Equal(t, uint8(0x78), mmu.Read(addr.STAT)&0x78)
	assert.Equal(t, uint8(0x80), mmu.Read(addr.STAT)&0x80, "bit 7 reads as 1")
}

func TestVBlankEntry(t *testing.T) {
	gpu, mmu := newTestGPU()

	// run through the 144 visible scanlines
	for range 144 {
		gpu.Tick(scanlineCycles)
	}

	assert.Equal(t, ModeVBlank, gpu.Mode())
	assert.Equal(t, uint8(144), gpu.Line())
	assert.True(t, interruptRaised(mmu, addr.VBlankInterrupt))
	assert.True(t, gpu.FrameReady())
	assert.False(t, gpu.FrameReady(), "reading the flag clears it")
}

func TestFrameCadence(t *testing.T) {
	gpu, mmu := newTestGPU()

	vblanks := 0
	for range FrameCycles / 4 {
		gpu.Tick(4)
		if interruptRaised(mmu, addr.VBlankInterrupt) {
			vblanks++
			clearInterrupts(mmu)
		}
	}

	assert.Equal(t, 1, vblanks, "one VBlank per frame")
	assert.Equal(t, uint8(0), gpu.Line())
	assert.Equal(t, ModeOAMScan, gpu.Mode())
}

func TestLYCCoincidenceInterrupt(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LYC, 2)
	mmu.Write(addr.STAT, 0x40) // enable the LY=LYC source
	clearInterrupts(mmu)

	gpu.Tick(scanlineCycles)
	assert.False(t, interruptRaised(mmu, addr.LCDSTATInterrupt))

	gpu.Tick(scanlineCycles)
	assert.True(t, interruptRaised(mmu, addr.LCDSTATInterrupt))
	assert.NotZero(t, mmu.Read(addr.STAT)&0x04, "coincidence bit set")

	// the edge fires once, not on every tick at LY==LYC
	clearInterrupts(mmu)
	gpu.Tick(4)
	assert.False(t, interruptRaised(mmu, addr.LCDSTATInterrupt))
}

func TestModeSTATInterrupts(t *testing.T) {
	t.Run("HBlank source", func(t *testing.T) {
		gpu, mmu := newTestGPU()
		mmu.Write(addr.STAT, 0x08)
		clearInterrupts(mmu)

		gpu.Tick(80)
		assert.False(t, interruptRaised(mmu, addr.LCDSTATInterrupt))
		gpu.Tick(172)
		assert.True(t, interruptRaised(mmu, addr.LCDSTATInterrupt))
	})

	t.Run("OAM source", func(t *testing.T) {
		gpu, mmu := newTestGPU()
		mmu.Write(addr.STAT, 0x20)
		clearInterrupts(mmu)

		gpu.Tick(scanlineCycles)
		assert.True(t, interruptRaised(mmu, addr.LCDSTATInterrupt))
	})

	t.Run("disabled source stays quiet", func(t *testing.T) {
		gpu, mmu := newTestGPU()
		mmu.Write(addr.STAT, 0x00)
		clearInterrupts(mmu)

		gpu.Tick(scanlineCycles)
		assert.False(t, interruptRaised(mmu, addr.LCDSTATInterrupt))
	})
}

func TestLCDDisableHoldsMachine(t *testing.T) {
	gpu, mmu := newTestGPU()

	gpu.Tick(scanlineCycles * 3)
	require.Equal(t, uint8(3), gpu.Line())

	mmu.Write(addr.LCDC, 0x11) // bit 7 clear
	gpu.Tick(scanlineCycles)
	assert.Equal(t, uint8(0), gpu.Line())
	assert.Equal(t, ModeOAMScan, gpu.Mode())

	gpu.Tick(scanlineCycles * 10)
	assert.Equal(t, uint8(0), gpu.Line(), "machine does not advance while off")
}

// writeTile stores one 8x8 tile of a uniform color id at a tile index.
func writeTile(m *memory.MMU, index uint8, colorID uint8) {
	var low, high uint8
	if colorID&0x01 != 0 {
		low = 0xFF
	}
	if colorID&0x02 != 0 {
		high = 0xFF
	}
	base := addr.TileDataUnsigned + uint16(index)*16
	for row := uint16(0); row < 8; row++ {
		m.Write(base+row*2, low)
		m.Write(base+row*2+1, high)
	}
}

// renderLine advances the GPU through OAM scan and pixel transfer so the
// current line gets rendered.
func renderLine(g *GPU) {
	g.Tick(oamScanCycles)
	g.Tick(transferCycles)
	g.Tick(hblankCycles)
}

func TestBackgroundRendering(t *testing.T) {
	gpu, mmu := newTestGPU()

	// LCD on, BG on, unsigned tile data; identity palette
	mmu.Write(addr.LCDC, 0x91)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 1, 2)
	mmu.Write(addr.TileMap0, 0x01) // top-left tile uses tile 1

	renderLine(gpu)

	assert.Equal(t, uint32(DarkGreyColor), gpu.Framebuffer().GetPixel(0, 0))
	assert.Equal(t, uint32(DarkGreyColor), gpu.Framebuffer().GetPixel(7, 0))
	// the next tile over is tile 0 (color id 0 -> white)
	assert.Equal(t, uint32(WhiteColor), gpu.Framebuffer().GetPixel(8, 0))
}

func TestBackgroundPaletteMapping(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x91)
	mmu.Write(addr.BGP, 0x1B) // 00 01 10 11: inverted palette
	writeTile(mmu, 0, 0)
	mmu.Write(addr.TileMap0, 0x00)

	renderLine(gpu)

	// color id 0 maps through BGP bits 1-0 = 3 -> black
	assert.Equal(t, uint32(BlackColor), gpu.Framebuffer().GetPixel(0, 0))
}

func TestBackgroundScrolling(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x91)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 1, 3)
	// tile column 1 of the map row 0
	mmu.Write(addr.TileMap0+1, 0x01)

	mmu.Write(addr.SCX, 8)
	renderLine(gpu)

	// with SCX=8 the second map column lands at screen x=0
	assert.Equal(t, uint32(BlackColor), gpu.Framebuffer().GetPixel(0, 0))
}

func TestSignedTileAddressing(t *testing.T) {
	gpu, mmu := newTestGPU()

	// LCDC bit 4 clear: signed addressing from 0x9000
	mmu.Write(addr.LCDC, 0x81)
	mmu.Write(addr.BGP, 0xE4)

	// tile index 0xFF means tile -1, at 0x9000 - 16 = 0x8FF0
	for row := uint16(0); row < 8; row++ {
		mmu.Write(0x8FF0+row*2, 0xFF)
		mmu.Write(0x8FF0+row*2+1, 0x00)
	}
	mmu.Write(addr.TileMap0, 0xFF)

	renderLine(gpu)

	assert.Equal(t, uint32(LightGreyColor), gpu.Framebuffer().GetPixel(0, 0))
}

func TestWindowRendering(t *testing.T) {
	gpu, mmu := newTestGPU()

	// LCD + BG + window enabled, window map at 0x9C00
	mmu.Write(addr.LCDC, 0xF1)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 1, 1)
	writeTile(mmu, 2, 3)
	mmu.Write(addr.TileMap0, 0x01) // background shows tile 1
	mmu.Write(addr.TileMap1, 0x02) // window shows tile 2

	mmu.Write(addr.WY, 0)
	mmu.Write(addr.WX, 7+80) // window starts at screen x=80

	renderLine(gpu)

	assert.Equal(t, uint32(LightGreyColor), gpu.Framebuffer().GetPixel(0, 0), "background left of the window")
	assert.Equal(t, uint32(BlackColor), gpu.Framebuffer().GetPixel(80, 0), "window pixels from its own map")
	assert.Equal(t, 1, gpu.windowLine, "window line counter advanced")
}

func TestWindowLineCounterSkipsNonWindowLines(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0xF1)
	mmu.Write(addr.WY, 2) // window starts at scanline 2
	mmu.Write(addr.WX, 7)

	renderLine(gpu)
	renderLine(gpu)
	assert.Equal(t, 0, gpu.windowLine)

	renderLine(gpu)
	assert.Equal(t, 1, gpu.windowLine)
}

// writeSprite stores one OAM entry. x and y are screen coordinates.
func writeSprite(m *memory.MMU, index int, y, x int, tile, flags uint8) {
	base := addr.OAMStart + uint16(index*4)
	m.Write(base, uint8(y+16))
	m.Write(base+1, uint8(x+8))
	m.Write(base+2, tile)
	m.Write(base+3, flags)
}

func TestSpriteRendering(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x93) // LCD + BG + OBJ, 8x8 sprites
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)
	writeTile(mmu, 0, 0) // background: white
	writeTile(mmu, 4, 3) // sprite tile: black
	mmu.Write(addr.TileMap0, 0x00)

	writeSprite(mmu, 0, 0, 10, 4, 0x00)

	renderLine(gpu)

	fb := gpu.Framebuffer()
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(9, 0))
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(10, 0))
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(17, 0))
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(18, 0))
}

func TestSpriteTransparencyAndPalette(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x93)
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)
	mmu.Write(addr.OBP1, 0x10) // id 2 -> shade 1 through OBP1

	writeTile(mmu, 0, 1) // background: light grey
	writeTile(mmu, 4, 0) // fully transparent sprite tile
	writeTile(mmu, 5, 2)
	mmu.Write(addr.TileMap0, 0x00)

	writeSprite(mmu, 0, 0, 0, 4, 0x00)  // transparent, OBP0
	writeSprite(mmu, 1, 0, 20, 5, 0x10) // opaque, OBP1

	renderLine(gpu)

	fb := gpu.Framebuffer()
	assert.Equal(t, uint32(LightGreyColor), fb.GetPixel(0, 0), "color 0 sprite pixels never draw")
	assert.Equal(t, uint32(LightGreyColor), fb.GetPixel(20, 0), "OBP1 maps id 2 to shade 1")
}

func TestSpriteBehindBackground(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x93)
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)

	writeTile(mmu, 0, 1) // non-zero background color id
	writeTile(mmu, 1, 0) // zero background color id
	writeTile(mmu, 4, 3) // sprite: black
	mmu.Write(addr.TileMap0, 0x00)   // tile column 0: bg id 1
	mmu.Write(addr.TileMap0+1, 0x01) // tile column 1: bg id 0

	writeSprite(mmu, 0, 0, 4, 4, 0x80) // behind BG, spans both tiles

	renderLine(gpu)

	fb := gpu.Framebuffer()
	assert.Equal(t, uint32(LightGreyColor), fb.GetPixel(4, 0), "hidden where bg id != 0")
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(8, 0), "visible where bg id == 0")
}

func TestSpriteLimitPerScanline(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x93)
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)
	writeTile(mmu, 0, 0)
	writeTile(mmu, 4, 3)
	mmu.Write(addr.TileMap0, 0x00)

	// 11 sprites on line 0, 8 pixels apart; only the first 10 draw
	for i := range 11 {
		writeSprite(mmu, i, 0, i*8, 4, 0x00)
	}

	renderLine(gpu)

	fb := gpu.Framebuffer()
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(9*8, 0), "10th sprite drawn")
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(10*8, 0), "11th sprite dropped")
}

func TestSpritePriorityByX(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x93)
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)
	mmu.Write(addr.OBP1, 0xFF) // all ids -> black via OBP1

	writeTile(mmu, 0, 0)
	writeTile(mmu, 4, 1) // light grey via OBP0
	writeTile(mmu, 5, 1) // black via OBP1
	mmu.Write(addr.TileMap0, 0x00)

	// later OAM entry sits further left: it wins the overlap
	writeSprite(mmu, 0, 0, 12, 4, 0x00)
	writeSprite(mmu, 1, 0, 8, 5, 0x10)

	renderLine(gpu)

	fb := gpu.Framebuffer()
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(12, 0), "lower X wins the overlapped pixels")
	assert.Equal(t, uint32(LightGreyColor), fb.GetPixel(16, 0), "loser still draws outside the overlap")
}

func TestTallSprites(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x97) // 8x16 sprites
	mmu.Write(addr.BGP, 0xE4)
	mmu.Write(addr.OBP0, 0xE4)
	writeTile(mmu, 0, 0)
	writeTile(mmu, 6, 1) // top half
	writeTile(mmu, 7, 3) // bottom half
	mmu.Write(addr.TileMap0, 0x00)

	// tile index 7: bit 0 masked off, so the pair (6, 7) is used
	writeSprite(mmu, 0, 0, 0, 7, 0x00)

	renderLine(gpu)
	assert.Equal(t, uint32(LightGreyColor), gpu.Framebuffer().GetPixel(0, 0))

	// advance to line 8: bottom tile
	for range 8 {
		renderLine(gpu)
	}
	assert.Equal(t, uint32(BlackColor), gpu.Framebuffer().GetPixel(0, 8))
}

func TestBGDisabledFillsWithShadeZero(t *testing.T) {
	gpu, mmu := newTestGPU()

	mmu.Write(addr.LCDC, 0x90) // LCD on, BG off
	writeTile(mmu, 0, 3)
	mmu.Write(addr.TileMap0, 0x00)

	renderLine(gpu)
	assert.Equal(t, uint32(WhiteColor), gpu.Framebuffer().GetPixel(0, 0))
}
