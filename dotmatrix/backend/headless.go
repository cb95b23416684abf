package backend

import "github.com/tmello/dotmatrix/dotmatrix/video"

// Headless is the no-output backend used by tests and --headless runs.
// It only counts the frames it is handed.
type Headless struct {
	frames uint64

	// OnFrame, when set, observes every presented frame.
	OnFrame func(frame *video.FrameBuffer)
}

var _ Backend = (*Headless)(nil)

// NewHeadless returns a headless backend.
func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Init(Config) error {
	return nil
}

func (h *Headless) Update(frame *video.FrameBuffer) error {
	h.frames++
	if h.OnFrame != nil {
		h.OnFrame(frame)
	}
	return nil
}

func (h *Headless) Cleanup() error {
	return nil
}

// FrameCount returns how many frames were presented.
func (h *Headless) FrameCount() uint64 {
	return h.frames
}
