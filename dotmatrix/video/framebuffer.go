package video

// FramebufferWidth and FramebufferHeight are the DMG display dimensions.
const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
)

// GBColor is a 32 bit ARGB pixel value.
type GBColor uint32

// The four DMG shades, lightest first. Index them with a palette entry.
const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xFFAAAAAA
	DarkGreyColor  GBColor = 0xFF555555
	BlackColor     GBColor = 0xFF000000
)

// shades maps a 2 bit palette output to its host color.
var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// FrameBuffer is the 160x144 ARGB pixel surface the PPU renders into.
type FrameBuffer struct {
	buffer []uint32
}

// NewFrameBuffer returns a cleared framebuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		buffer: make([]uint32, FramebufferWidth*FramebufferHeight),
	}
}

// GetPixel returns the pixel at (x, y).
func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*FramebufferWidth+x]
}

// SetPixel stores a pixel at (x, y).
func (fb *FrameBuffer) SetPixel(x, y int, color GBColor) {
	fb.buffer[y*FramebufferWidth+x] = uint32(color)
}

// ToSlice exposes the raw pixels, row-major.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}
