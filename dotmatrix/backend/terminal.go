package backend

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tmello/dotmatrix/dotmatrix/input"
	"github.com/tmello/dotmatrix/dotmatrix/video"
)

// Terminal renders into a tcell screen, packing two scanlines into each
// character cell with the upper-half-block rune (foreground = top pixel,
// background = bottom pixel).
//
// Terminals report key presses but not releases, so held buttons are
// synthesized: a key press marks its action pressed and a short quiet
// period releases it again.
type Terminal struct {
	screen tcell.Screen
	config Config

	events chan tcell.Event
	quit   chan struct{}

	// last press time per action, for synthetic releases
	held map[input.Action]time.Time
}

var _ Backend = (*Terminal)(nil)

// keyHoldDuration is how long a key repeat keeps a button pressed.
const keyHoldDuration = 150 * time.Millisecond

// NewTerminal returns an uninitialized terminal backend.
func NewTerminal() *Terminal {
	return &Terminal{
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
		held:   make(map[input.Action]time.Time),
	}
}

func (t *Terminal) Init(config Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()

	t.screen = screen
	t.config = config

	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case t.events <- ev:
			case <-t.quit:
				return
			}
		}
	}()

	return nil
}

func (t *Terminal) Update(frame *video.FrameBuffer) error {
	t.drainEvents()
	t.releaseStaleKeys(time.Now())
	t.drawFrame(frame)
	t.screen.Show()
	return nil
}

func (t *Terminal) Cleanup() error {
	close(t.quit)
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Terminal) drainEvents() {
	for {
		select {
		case ev := <-t.events:
			if key, ok := ev.(*tcell.EventKey); ok {
				t.handleKey(key)
			}
		default:
			return
		}
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	action, ok := mapKey(ev)
	if !ok {
		return
	}

	if action == input.ActionQuit {
		if t.config.OnQuit != nil {
			t.config.OnQuit()
		}
		return
	}

	if _, down := t.held[action]; !down && t.config.Input != nil {
		t.config.Input(action, true)
	}
	t.held[action] = time.Now()
}

func (t *Terminal) releaseStaleKeys(now time.Time) {
	for action, pressedAt := range t.held {
		if now.Sub(pressedAt) >= keyHoldDuration {
			delete(t.held, action)
			if t.config.Input != nil {
				t.config.Input(action, false)
			}
		}
	}
}

func mapKey(ev *tcell.EventKey) (input.Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.ActionUp, true
	case tcell.KeyDown:
		return input.ActionDown, true
	case tcell.KeyLeft:
		return input.ActionLeft, true
	case tcell.KeyRight:
		return input.ActionRight, true
	case tcell.KeyEnter:
		return input.ActionStart, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.ActionSelect, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.ActionQuit, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'z', 'Z':
			return input.ActionA, true
		case 'x', 'X':
			return input.ActionB, true
		case 'q', 'Q':
			return input.ActionQuit, true
		}
	}
	return 0, false
}

func (t *Terminal) drawFrame(frame *video.FrameBuffer) {
	for y := 0; y < video.FramebufferHeight; y += 2 {
		for x := range video.FramebufferWidth {
			top := rgbColor(frame.GetPixel(x, y))
			bottom := rgbColor(frame.GetPixel(x, y+1))
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func rgbColor(argb uint32) tcell.Color {
	return tcell.NewRGBColor(
		int32(argb>>16&0xFF),
		int32(argb>>8&0xFF),
		int32(argb&0xFF),
	)
}
