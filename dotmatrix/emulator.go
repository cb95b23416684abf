// Package dotmatrix wires the CPU, MMU and PPU into a runnable DMG
// machine and defines the surface frontends drive it through.
package dotmatrix

import (
	"github.com/tmello/dotmatrix/dotmatrix/input"
	"github.com/tmello/dotmatrix/dotmatrix/video"
)

// Emulator is what a frontend needs from a machine implementation.
type Emulator interface {
	// RunUntilFrame executes until the PPU enters VBlank with a
	// complete frame. A decode failure ends the run with an error.
	RunUntilFrame() error
	// GetCurrentFrame returns the most recently completed frame.
	GetCurrentFrame() *video.FrameBuffer
	// HandleAction applies a logical input transition.
	HandleAction(act input.Action, pressed bool)
}

var _ Emulator = (*DMG)(nil)
