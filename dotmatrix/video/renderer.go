package video

import (
	"github.com/tmello/dotmatrix/dotmatrix/addr"
	"github.com/tmello/dotmatrix/dotmatrix/bit"
)

// sprite is one OAM entry, positions already adjusted for the hardware
// offsets (-16 on Y, -8 on X).
type sprite struct {
	y         int
	x         int
	tileIndex uint8
	flags     uint8
	oamIndex  int
}

// Sprite attribute flag bits.
const (
	sprPalette  = 4
	sprFlipX    = 5
	sprFlipY    = 6
	sprBehindBG = 7
)

// renderScanline draws the line the PPU just finished transferring.
// Called exactly once per visible scanline, on the mode 3 to 0 edge.
func (g *GPU) renderScanline() {
	if g.line >= FramebufferHeight {
		return
	}

	if g.renderBackground() {
		g.windowLine++
	}
	if bit.IsSet(lcdcOBJEnable, g.lcdc) {
		g.renderSprites()
	}
}

// renderBackground draws the background and window layers, recording
// each pixel's raw color id for the sprite pass. Returns whether any
// window pixel was emitted, which advances the window line counter.
func (g *GPU) renderBackground() bool {
	line := int(g.line)

	if !bit.IsSet(lcdcBGEnable, g.lcdc) {
		for px := range FramebufferWidth {
			g.bgColorIDs[px] = 0
			g.framebuffer.SetPixel(px, line, shades[0])
		}
		return false
	}

	windowEnabled := bit.IsSet(lcdcWindowEnable, g.lcdc) && line >= int(g.wy)
	windowLeft := int(g.wx) - 7
	windowDrawn := false

	for px := range FramebufferWidth {
		var tx, ty int
		var mapSelect uint8

		if windowEnabled && px >= windowLeft {
			tx = px - windowLeft
			ty = g.windowLine
			mapSelect = lcdcWindowTileMap
			windowDrawn = true
		} else {
			tx = (px + int(g.scx)) & 0xFF
			ty = (line + int(g.scy)) & 0xFF
			mapSelect = lcdcBGTileMap
		}

		mapBase := addr.TileMap0
		if bit.IsSet(mapSelect, g.lcdc) {
			mapBase = addr.TileMap1
		}

		tileIndex := g.memory.Read(mapBase + uint16(ty/8)*32 + uint16(tx/8))
		rowAddr := g.tileDataAddress(tileIndex) + uint16(ty%8)*2

		colorID := tileRowPixel(g.memory.Read(rowAddr), g.memory.Read(rowAddr+1), tx%8)
		g.bgColorIDs[px] = colorID
		g.framebuffer.SetPixel(px, line, paletteShade(g.bgp, colorID))
	}

	return windowDrawn
}

// tileDataAddress resolves a tile index through the LCDC bit 4
// addressing mode: unsigned from 0x8000, or signed from 0x9000.
func (g *GPU) tileDataAddress(tileIndex uint8) uint16 {
	if bit.IsSet(lcdcTileData, g.lcdc) {
		return addr.TileDataUnsigned + uint16(tileIndex)*16
	}
	return uint16(int(addr.TileDataSigned) + int(int8(tileIndex))*16)
}

// renderSprites draws up to 10 in-range sprites over the scanline. The
// selection keeps OAM order; drawing priority is lowest X first, ties
// broken by OAM index, enforced with a per-pixel claim on sprite X.
func (g *GPU) renderSprites() {
	line := int(g.line)

	height := 8
	if bit.IsSet(lcdcOBJSize, g.lcdc) {
		height = 16
	}

	// selection pass: the first 10 sprites covering this line
	selected := make([]sprite, 0, 10)
	for i := 0; i < 40 && len(selected) < 10; i++ {
		base := addr.OAMStart + uint16(i*4)
		y := int(g.memory.Read(base)) - 16
		if line < y || line >= y+height {
			continue
		}
		selected = append(selected, sprite{
			y:         y,
			x:         int(g.memory.Read(base+1)) - 8,
			tileIndex: g.memory.Read(base + 2),
			flags:     g.memory.Read(base + 3),
			oamIndex:  i,
		})
	}

	for px := range g.spriteOwnerX {
		g.spriteOwnerX[px] = 0x200 // off-screen X, any sprite beats it
	}

	for _, s := range selected {
		row := line - s.y
		if bit.IsSet(sprFlipY, s.flags) {
			row = height - 1 - row
		}

		tileIndex := s.tileIndex
		if height == 16 {
			tileIndex &= 0xFE
			if row >= 8 {
				tileIndex++
				row -= 8
			}
		}

		// sprites always use unsigned addressing
		rowAddr := addr.TileDataUnsigned + uint16(tileIndex)*16 + uint16(row)*2
		low := g.memory.Read(rowAddr)
		high := g.memory.Read(rowAddr + 1)

		palette := g.obp0
		if bit.IsSet(sprPalette, s.flags) {
			palette = g.obp1
		}

		for col := range 8 {
			px := s.x + col
			if px < 0 || px >= FramebufferWidth {
				continue
			}
			// a sprite with lower (or equal, since we walk OAM in
			// order) X already owns this pixel
			if g.spriteOwnerX[px] <= s.x {
				continue
			}

			tileCol := col
			if bit.IsSet(sprFlipX, s.flags) {
				tileCol = 7 - col
			}

			colorID := tileRowPixel(low, high, tileCol)
			if colorID == 0 {
				// color 0 is transparent and does not claim the pixel
				continue
			}
			if bit.IsSet(sprBehindBG, s.flags) && g.bgColorIDs[px] != 0 {
				continue
			}

			g.spriteOwnerX[px] = s.x
			g.framebuffer.SetPixel(px, line, paletteShade(palette, colorID))
		}
	}
}

// tileRowPixel extracts the 2 bit color id for a column of a tile row.
// Bit 7 of each plane byte is the leftmost pixel.
func tileRowPixel(low, high uint8, column int) uint8 {
	shift := 7 - column
	return (high>>shift&1)<<1 | low>>shift&1
}

// paletteShade maps a color id through a palette register to a shade.
func paletteShade(palette, colorID uint8) GBColor {
	return shades[palette>>(colorID*2)&0x03]
}
