// Command dmgcore runs the DMG emulation core against a cartridge
// image, rendering through a terminal, an optional SDL2 window, or
// headlessly for test-ROM harnesses.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	dmgcore "github.com/kbolino/dmgcore"
	"github.com/kbolino/dmgcore/backend"
	"github.com/kbolino/dmgcore/backend/terminal"
	"github.com/kbolino/dmgcore/memory"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulation core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "boot",
			Usage: "Path to a 256-byte DMG boot ROM image (optional; skips straight to post-boot state if omitted)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (0 or less = 60)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Rendering backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Pixel scale factor (backend-dependent)",
			Value: 3,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exiting", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}
	romPath := c.Args().Get(0)

	romData, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	cart, err := memory.NewCartridge(romData)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}
	slog.Info("cartridge loaded", "title", cart.Title(), "size", len(romData))

	var boot []byte
	if bootPath := c.String("boot"); bootPath != "" {
		boot, err = os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("reading boot ROM: %w", err)
		}
	}

	keys := memory.NewKeyRegister()
	emu := dmgcore.New(cart, keys, boot)

	if c.Bool("headless") {
		return runHeadless(emu, c.Int("frames"))
	}
	return runWithBackend(emu, keys, c.String("backend"), c.Int("scale"))
}

func runHeadless(emu *dmgcore.Emulator, frames int) error {
	if frames <= 0 {
		frames = 60
	}
	ran := emu.RunFrames(frames)
	slog.Info("headless run complete", "frames", ran)
	return nil
}

func runWithBackend(emu *dmgcore.Emulator, keys memory.KeyRegister, name string, scale int) error {
	var b backend.Backend
	switch name {
	case "terminal":
		b = terminal.New(keys)
	case "sdl2":
		return errors.New("sdl2 backend is not available from this command")
	default:
		return fmt.Errorf("unknown backend %q", name)
	}

	if err := b.Init(backend.Config{Title: "dmgcore", Scale: scale}); err != nil {
		return err
	}
	defer b.Cleanup()

	go emu.RunRealtime()

	for frame := range emu.Frames {
		keepGoing, err := b.Update(frame)
		if err != nil || !keepGoing {
			return err
		}
	}
	return nil
}
