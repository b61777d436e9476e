package backend

import (
	"log/slog"

	"github.com/kbolino/dmgcore/video"
)

// Headless is a no-rendering Backend for CI and test-ROM harnesses: it
// counts frames and reports false once maxFrames have been delivered.
// If maxFrames is 0, it never stops on its own.
type Headless struct {
	maxFrames int
	seen      int
}

// NewHeadless creates a Headless backend that stops after maxFrames
// frames (or runs forever if maxFrames is 0).
func NewHeadless(maxFrames int) *Headless {
	return &Headless{maxFrames: maxFrames}
}

func (h *Headless) Init(cfg Config) error {
	slog.Info("running headless", "frames", h.maxFrames)
	return nil
}

func (h *Headless) Update(frame *video.Frame) (bool, error) {
	if frame == nil {
		return true, nil
	}
	h.seen++
	if h.seen%60 == 0 {
		slog.Debug("headless progress", "frames", h.seen)
	}
	if h.maxFrames > 0 && h.seen >= h.maxFrames {
		return false, nil
	}
	return true, nil
}

func (h *Headless) Cleanup() error { return nil }
