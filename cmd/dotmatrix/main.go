package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/tmello/dotmatrix/dotmatrix"
	"github.com/tmello/dotmatrix/dotmatrix/backend"
)

// frameDuration paces the outer loop at the DMG refresh rate (~59.73 Hz).
const frameDuration = time.Second * 70224 / 4194304

func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A Game Boy (DMG) emulator"
	app.Usage = "dotmatrix [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without any display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: 3,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("emulator exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	emu, err := dotmatrix.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(emu, c.Int("frames"))
	}

	var b backend.Backend
	switch name := c.String("backend"); name {
	case "terminal":
		b = backend.NewTerminal()
	case "sdl2":
		b = backend.NewSDL2()
	default:
		return fmt.Errorf("unknown backend %q", name)
	}

	return runLoop(emu, b, c.Int("scale"))
}

func runHeadless(emu *dotmatrix.DMG, frames int) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	b := backend.NewHeadless()
	for i := 0; i < frames; i++ {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}
		if err := b.Update(emu.GetCurrentFrame()); err != nil {
			return err
		}
		if (i+1)%60 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("headless run complete",
		"frames", b.FrameCount(),
		"instructions", emu.InstructionCount())
	return nil
}

func runLoop(emu *dotmatrix.DMG, b backend.Backend, scale int) error {
	running := true

	err := b.Init(backend.Config{
		Title:  "dotmatrix",
		Scale:  scale,
		Input:  emu.HandleAction,
		OnQuit: func() { running = false },
	})
	if err != nil {
		return err
	}
	defer b.Cleanup()

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for running {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}
		if err := b.Update(emu.GetCurrentFrame()); err != nil {
			return err
		}
		<-ticker.C
	}

	return nil
}
