// Package terminal renders frames to a character terminal via tcell
// and turns key presses into KeyRegister events. Each display pixel
// becomes a block character, doubled horizontally to compensate for
// terminal cells being taller than they are wide.
package terminal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/kbolino/dmgcore/backend"
	"github.com/kbolino/dmgcore/memory"
	"github.com/kbolino/dmgcore/video"
)

const (
	scaleX = 2
	scaleY = 1
)

// shadeChars goes from darkest to lightest; the brightest framebuffer
// shade (white) maps to the emptiest glyph.
var shadeChars = []rune{'█', '▓', '▒', '░'}

// Backend renders into the current terminal using tcell and reads key
// events into keys.
type Backend struct {
	screen tcell.Screen
	keys   memory.KeyRegister
}

// New creates a terminal Backend that reports key events into keys.
func New(keys memory.KeyRegister) *Backend {
	return &Backend{keys: keys}
}

func (b *Backend) Init(cfg backend.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		slog.Warn("stdout is not a terminal; rendering will likely be garbled")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: failed to init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	b.screen = screen
	return nil
}

func (b *Backend) Update(frame *video.Frame) (bool, error) {
	for {
		if b.screen.HasPendingEvent() {
			ev := b.screen.PollEvent()
			if !b.handleEvent(ev) {
				return false, nil
			}
			continue
		}
		break
	}

	if frame != nil {
		b.render(frame)
		b.screen.Show()
	}
	return true, nil
}

func (b *Backend) Cleanup() error {
	b.screen.Fini()
	return nil
}

func (b *Backend) render(frame *video.Frame) {
	for y := 0; y < video.Height; y++ {
		for x := 0; x < video.Width; x++ {
			offset := (y*video.Width + x) * 3
			r := frame[offset]
			shade := shadeIndex(r)
			char := shadeChars[shade]

			screenX := x * scaleX
			screenY := y * scaleY
			style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
			for sx := 0; sx < scaleX; sx++ {
				b.screen.SetContent(screenX+sx, screenY, char, nil, style)
			}
		}
	}
}

// shadeIndex maps a framebuffer luminance byte (255/192/96/0) to a
// shadeChars index, darkest last.
func shadeIndex(v uint8) int {
	switch {
	case v >= 224:
		return 3
	case v >= 144:
		return 2
	case v >= 48:
		return 1
	default:
		return 0
	}
}

func (b *Backend) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape {
			return false
		}
		if k, ok := keyFor(ev); ok {
			b.keys.KeyDown(k)
			b.keys.KeyUp(k)
		}
	case *tcell.EventResize:
		b.screen.Sync()
	}
	return true
}

// keyFor maps a tcell key event to a joypad Key. Terminal input has no
// key-up event distinguishable from key-down for most terminals, so
// every recognized keystroke is reported as an immediate tap.
func keyFor(ev *tcell.EventKey) (memory.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return memory.KeyUp, true
	case tcell.KeyDown:
		return memory.KeyDown, true
	case tcell.KeyLeft:
		return memory.KeyLeft, true
	case tcell.KeyRight:
		return memory.KeyRight, true
	case tcell.KeyEnter:
		return memory.KeyStart, true
	}
	switch ev.Rune() {
	case 'z', 'Z':
		return memory.KeyA, true
	case 'x', 'X':
		return memory.KeyB, true
	case ' ':
		return memory.KeySelect, true
	}
	return 0, false
}
