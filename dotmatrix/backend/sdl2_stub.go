//go:build !sdl2

package backend

import (
	"errors"

	"github.com/tmello/dotmatrix/dotmatrix/video"
)

// SDL2 is the stub used when the binary is built without the sdl2 tag.
type SDL2 struct{}

// NewSDL2 returns the stub backend.
func NewSDL2() *SDL2 {
	return &SDL2{}
}

func (s *SDL2) Init(Config) error {
	return errors.New("SDL2 backend unavailable: rebuild with -tags sdl2 and the SDL2 development libraries installed")
}

func (s *SDL2) Update(*video.FrameBuffer) error {
	return errors.New("SDL2 backend unavailable")
}

func (s *SDL2) Cleanup() error {
	return nil
}
