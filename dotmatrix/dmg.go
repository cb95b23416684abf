package dotmatrix

import (
	"log/slog"
	"os"

	"github.com/tmello/dotmatrix/dotmatrix/cpu"
	"github.com/tmello/dotmatrix/dotmatrix/input"
	"github.com/tmello/dotmatrix/dotmatrix/memory"
	"github.com/tmello/dotmatrix/dotmatrix/video"
)

// DMG is a complete machine: the single owner of the CPU, MMU and PPU.
// The CPU talks to memory through the MMU, which in turn delegates the
// video register window back to the PPU; holding all three here keeps
// that cycle out of the components themselves.
type DMG struct {
	cpu *cpu.CPU
	gpu *video.GPU
	mmu *memory.MMU

	frames       uint64
	instructions uint64
}

// New builds a machine with no cartridge inserted.
func New() *DMG {
	return NewWithCartridge(memory.NewCartridge())
}

// NewWithCartridge builds a machine around a parsed cartridge.
func NewWithCartridge(cart *memory.Cartridge) *DMG {
	mmu := memory.NewWithCartridge(cart)
	gpu := video.NewGPU(mmu)
	mmu.AttachVideo(gpu)

	return &DMG{
		cpu: cpu.New(mmu),
		gpu: gpu,
		mmu: mmu,
	}
}

// NewWithFile loads and parses a ROM image from disk.
func NewWithFile(path string) (*DMG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded ROM", "path", path, "title", cart.Title(), "size", len(data))

	return NewWithCartridge(cart), nil
}

// TickInstruction runs one CPU step and advances the timer and PPU by
// the cycles it consumed. Interrupts raised while advancing are visible
// to the next step.
func (d *DMG) TickInstruction() (int, error) {
	cycles, err := d.cpu.Step()
	if err != nil {
		return 0, err
	}
	d.mmu.Tick(cycles)
	d.gpu.Tick(cycles)
	d.instructions++
	return cycles, nil
}

// RunUntilFrame executes until the PPU signals a completed frame.
func (d *DMG) RunUntilFrame() error {
	for {
		if _, err := d.TickInstruction(); err != nil {
			return err
		}
		if d.gpu.FrameReady() {
			d.frames++
			return nil
		}
	}
}

// GetCurrentFrame returns the framebuffer the PPU renders into.
func (d *DMG) GetCurrentFrame() *video.FrameBuffer {
	return d.gpu.Framebuffer()
}

// HandleAction forwards a logical input transition to the joypad.
func (d *DMG) HandleAction(act input.Action, pressed bool) {
	key, ok := act.JoypadKey()
	if !ok {
		return
	}
	if pressed {
		d.mmu.Press(key)
	} else {
		d.mmu.Release(key)
	}
}

// FrameCount returns how many frames have completed.
func (d *DMG) FrameCount() uint64 {
	return d.frames
}

// InstructionCount returns how many CPU steps have executed.
func (d *DMG) InstructionCount() uint64 {
	return d.instructions
}

// CPU exposes the processor, mainly for tests and debug output.
func (d *DMG) CPU() *cpu.CPU {
	return d.cpu
}

// MMU exposes the memory unit, mainly for tests and debug output.
func (d *DMG) MMU() *memory.MMU {
	return d.mmu
}

// GPU exposes the video unit, mainly for tests and debug output.
func (d *DMG) GPU() *video.GPU {
	return d.gpu
}
