// Package backend hosts the platform layers: each backend owns a render
// target and an input source and translates between them and the core.
package backend

import (
	"github.com/tmello/dotmatrix/dotmatrix/input"
	"github.com/tmello/dotmatrix/dotmatrix/video"
)

// Backend is a complete emulator platform: rendering plus input.
type Backend interface {
	// Init prepares the platform. Must be called before Update.
	Init(config Config) error
	// Update polls platform events, forwards them through the input
	// handler, and presents the frame.
	Update(frame *video.FrameBuffer) error
	// Cleanup releases platform resources.
	Cleanup() error
}

// Config carries what a backend needs from the frontend.
type Config struct {
	Title string
	Scale int

	// Input receives translated press/release transitions.
	Input input.Handler
	// OnQuit is called when the platform asks to stop (window close,
	// quit key).
	OnQuit func()
}
