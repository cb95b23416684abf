//go:build sdl2

package backend

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/tmello/dotmatrix/dotmatrix/input"
	"github.com/tmello/dotmatrix/dotmatrix/video"
)

// SDL2 renders into a window through a streaming texture and feeds
// keyboard events back as joypad actions.
type SDL2 struct {
	config   Config
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

var _ Backend = (*SDL2)(nil)

// NewSDL2 returns an uninitialized SDL2 backend.
func NewSDL2() *SDL2 {
	return &SDL2{}
}

func (s *SDL2) Init(config Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = 3
	}

	window, err := sdl.CreateWindow(config.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("sdl window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return fmt.Errorf("sdl renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return fmt.Errorf("sdl texture: %w", err)
	}

	s.config = config
	s.window = window
	s.renderer = renderer
	s.texture = texture
	return nil
}

func (s *SDL2) Update(frame *video.FrameBuffer) error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			if s.config.OnQuit != nil {
				s.config.OnQuit()
			}
		case *sdl.KeyboardEvent:
			s.handleKey(ev)
		}
	}

	pixels := frame.ToSlice()
	if err := s.texture.Update(nil, unsafe.Pointer(&pixels[0]), video.FramebufferWidth*4); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *SDL2) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *SDL2) handleKey(ev *sdl.KeyboardEvent) {
	action, ok := mapScancode(ev.Keysym.Sym)
	if !ok {
		return
	}

	pressed := ev.Type == sdl.KEYDOWN
	if action == input.ActionQuit {
		if pressed && s.config.OnQuit != nil {
			s.config.OnQuit()
		}
		return
	}
	if ev.Repeat != 0 {
		return
	}
	if s.config.Input != nil {
		s.config.Input(action, pressed)
	}
}

func mapScancode(sym sdl.Keycode) (input.Action, bool) {
	switch sym {
	case sdl.K_UP:
		return input.ActionUp, true
	case sdl.K_DOWN:
		return input.ActionDown, true
	case sdl.K_LEFT:
		return input.ActionLeft, true
	case sdl.K_RIGHT:
		return input.ActionRight, true
	case sdl.K_z:
		return input.ActionA, true
	case sdl.K_x:
		return input.ActionB, true
	case sdl.K_RETURN:
		return input.ActionStart, true
	case sdl.K_BACKSPACE, sdl.K_RSHIFT:
		return input.ActionSelect, true
	case sdl.K_ESCAPE:
		return input.ActionQuit, true
	}
	return 0, false
}
