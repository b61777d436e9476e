package memory

import "sync"

// Key identifies one of the eight physical buttons on the DMG.
type Key uint8

const (
	KeyRight Key = iota
	KeyLeft
	KeyUp
	KeyDown
	KeyA
	KeyB
	KeySelect
	KeyStart
)

// KeyRegister is the thread-safe model of the joypad matrix: two rows of
// four active-low keys, selected by a column byte written through the
// P1 I/O register. The UI thread calls KeyDown/KeyUp; the MMU calls
// SetColumn/GetKeys while servicing reads and writes of P1. All four
// methods are safe for concurrent use.
type KeyRegister interface {
	// SetColumn masks v to bits 4-5 and stores the row selection.
	SetColumn(v uint8)
	// KeyDown clears the bit for key in its row (active-low: pressed).
	KeyDown(k Key)
	// KeyUp sets the bit for key back to 1 (released).
	KeyUp(k Key)
	// GetKeys returns the currently selected row, or 0 if neither row
	// is selected.
	GetKeys() uint8
}

// keyState is the default KeyRegister implementation: a single mutex
// guards the column selector and the two row bytes so that a read from
// the emulation thread always observes a consistent snapshot of the
// most recent write from the UI thread.
type keyState struct {
	mu      sync.Mutex
	column  uint8 // 0x10 selects the direction row, 0x20 the action row
	actions uint8 // low nibble: A, B, Select, Start (bits 0-3)
	dpad    uint8 // low nibble: Right, Left, Up, Down (bits 0-3)
}

// NewKeyRegister creates a KeyRegister with no keys pressed.
func NewKeyRegister() KeyRegister {
	return &keyState{
		actions: 0x0F,
		dpad:    0x0F,
	}
}

func (k *keyState) SetColumn(v uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.column = v & 0x30
}

func (k *keyState) KeyDown(key Key) {
	k.mu.Lock()
	defer k.mu.Unlock()
	bitIdx, row := k.locate(key)
	*row &^= 1 << bitIdx
}

func (k *keyState) KeyUp(key Key) {
	k.mu.Lock()
	defer k.mu.Unlock()
	bitIdx, row := k.locate(key)
	*row |= 1 << bitIdx
}

// locate returns the bit index and a pointer to the row byte for key.
// Must be called with k.mu held.
func (k *keyState) locate(key Key) (uint8, *uint8) {
	switch key {
	case KeyRight:
		return 0, &k.dpad
	case KeyLeft:
		return 1, &k.dpad
	case KeyUp:
		return 2, &k.dpad
	case KeyDown:
		return 3, &k.dpad
	case KeyA:
		return 0, &k.actions
	case KeyB:
		return 1, &k.actions
	case KeySelect:
		return 2, &k.actions
	case KeyStart:
		return 3, &k.actions
	default:
		var discard uint8
		return 0, &discard
	}
}

func (k *keyState) GetKeys() uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch k.column {
	case 0x10:
		return k.dpad
	case 0x20:
		return k.actions
	default:
		return 0
	}
}
