//go:build sdl2

// Package sdl2 renders frames through an SDL2 window using a streaming
// RGB24 texture sized to the native 160x144 display and scaled up by
// the window itself.
package sdl2

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kbolino/dmgcore/backend"
	"github.com/kbolino/dmgcore/memory"
	"github.com/kbolino/dmgcore/video"
)

// Backend implements backend.Backend using SDL2 bindings. Building it
// requires the SDL2 development libraries and the "sdl2" build tag;
// default builds use the terminal backend instead.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	keys     memory.KeyRegister
}

// New creates an SDL2 Backend that reports key events into keys.
func New(keys memory.KeyRegister) *Backend {
	return &Backend{keys: keys}
}

func (s *Backend) Init(cfg backend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = 3
	}
	title := cfg.Title
	if title == "" {
		title = "dmgcore"
	}

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.Width*scale), int32(video.Height*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_RGB24),
		sdl.TEXTUREACCESS_STREAMING,
		video.Width, video.Height,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture

	s.running = true
	return nil
}

func (s *Backend) Update(frame *video.Frame) (bool, error) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	if !s.running {
		return false, nil
	}

	if frame != nil {
		if err := s.texture.Update(nil, frame[:], video.Width*3); err != nil {
			return true, fmt.Errorf("sdl2: texture update: %w", err)
		}
		s.renderer.Clear()
		s.renderer.Copy(s.texture, nil, nil)
		s.renderer.Present()
	}
	return true, nil
}

func (s *Backend) Cleanup() error {
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

func (s *Backend) handleEvent(evt sdl.Event) {
	switch e := evt.(type) {
	case *sdl.QuitEvent:
		s.running = false
	case *sdl.KeyboardEvent:
		k, ok := keyFor(e.Keysym.Sym)
		if !ok {
			return
		}
		if e.State == sdl.PRESSED {
			s.keys.KeyDown(k)
		} else {
			s.keys.KeyUp(k)
		}
	}
}

func keyFor(sym sdl.Keycode) (memory.Key, bool) {
	switch sym {
	case sdl.K_UP:
		return memory.KeyUp, true
	case sdl.K_DOWN:
		return memory.KeyDown, true
	case sdl.K_LEFT:
		return memory.KeyLeft, true
	case sdl.K_RIGHT:
		return memory.KeyRight, true
	case sdl.K_RETURN:
		return memory.KeyStart, true
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		return memory.KeySelect, true
	case sdl.K_z:
		return memory.KeyA, true
	case sdl.K_x:
		return memory.KeyB, true
	}
	return 0, false
}
