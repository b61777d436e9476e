// Package backend defines the platform-facing side of the emulator:
// rendering completed frames and translating platform input events
// into KeyRegister presses/releases. The core itself never depends on
// a backend; cmd/dmgcore wires one of these into an Emulator.
package backend

import "github.com/kbolino/dmgcore/video"

// Config holds the platform-agnostic options a backend may use.
type Config struct {
	Title string
	Scale int
}

// Backend represents one complete output platform (a terminal, an SDL2
// window, ...). Init is called once before the first Update; Cleanup
// once after the last.
type Backend interface {
	Init(cfg Config) error
	// Update renders frame (nil if none completed since the last call)
	// and polls for platform events, returning false once the backend
	// wants the emulator to stop (window closed, Escape pressed, ...).
	Update(frame *video.Frame) (bool, error)
	Cleanup() error
}
