// Package dmgcore wires the CPU, MMU and PPU into the master timing
// loop: one frame is 70224 machine-T cycles, paced to 60 Hz.
package dmgcore

import (
	"log/slog"
	"time"

	"github.com/kbolino/dmgcore/cpu"
	"github.com/kbolino/dmgcore/memory"
	"github.com/kbolino/dmgcore/video"
)

// CyclesPerFrame is the DMG's fixed per-frame T-cycle budget.
const CyclesPerFrame = 70224

// targetFrameDuration paces RunRealtime to 60 Hz.
const targetFrameDuration = time.Second / 60

// Emulator owns the CPU, MMU, PPU and the outbound frame channel for a
// single emulation session. It is meant to be driven from exactly one
// goroutine (the emulation thread); the frame channel and the
// KeyRegister are the only things another goroutine may touch.
type Emulator struct {
	CPU *cpu.CPU
	MMU *memory.MMU
	PPU *video.PPU

	Frames chan *video.Frame
}

// New builds an Emulator for the given cartridge and key register. If
// boot is a valid 256-byte boot ROM image, the CPU starts cold at
// PC=0x0000 with boot ROM shadowing 0x0000-0x00FF; otherwise it starts
// directly at the post-boot register state.
func New(cart memory.CartridgeRom, keys memory.KeyRegister, boot []byte) *Emulator {
	mmu := memory.New(cart, keys, boot)
	frames := make(chan *video.Frame, 1)

	e := &Emulator{
		MMU:    mmu,
		PPU:    video.NewPPU(frames),
		Frames: frames,
	}
	if mmu.InBios {
		e.CPU = cpu.New()
	} else {
		e.CPU = cpu.NewPostBoot()
	}
	return e
}

// RunFrame advances the emulator by exactly one frame's worth of
// T-cycles: alternately execute one CPU instruction and step the PPU
// by the same cycle count, until the frame budget is exhausted. It
// returns false if the CPU hit its STOP latch (illegal opcode or a
// STOP instruction), at which point the caller should stop calling
// RunFrame.
func (e *Emulator) RunFrame() bool {
	budget := CyclesPerFrame
	for budget > 0 {
		if e.CPU.Stop {
			return false
		}

		_, tCycles := e.CPU.Exec(e.MMU)
		e.PPU.Step(e.MMU, tCycles)
		budget -= tCycles

		if e.MMU.InBios && e.CPU.PC == 0x0100 {
			e.MMU.ClearInBios()
		}
	}
	return true
}

// RunRealtime runs RunFrame in a loop, sleeping the remainder of each
// 16.67ms frame budget, until RunFrame reports the CPU has stopped.
// It does not notice whether anyone still receives from Frames: a
// frame sent to a full channel is dropped, and the loop keeps running.
func (e *Emulator) RunRealtime() {
	for {
		start := time.Now()
		if !e.RunFrame() {
			slog.Debug("emulation stopped", "pc", e.CPU.PC)
			return
		}
		elapsed := time.Since(start)
		if elapsed < targetFrameDuration {
			time.Sleep(targetFrameDuration - elapsed)
		}
	}
}

// RunFrames runs exactly n frames (or fewer, if the CPU stops first),
// with no wall-clock pacing. Used by the command's headless mode and
// test ROM harnesses.
func (e *Emulator) RunFrames(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		if !e.RunFrame() {
			break
		}
		ran++
	}
	return ran
}
