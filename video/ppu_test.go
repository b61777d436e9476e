package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kbolino/dmgcore/addr"
	"github.com/kbolino/dmgcore/memory"
)

func newTestMMU(t *testing.T) *memory.MMU {
	t.Helper()
	cart, err := memory.NewCartridge(make([]byte, 0x8000))
	assert.NoError(t, err)
	return memory.New(cart, memory.NewKeyRegister(), nil)
}

// Universal property 8: LY always mirrors PpuState.line.
func TestLYExposure(t *testing.T) {
	m := newTestMMU(t)
	p := NewPPU(make(chan *Frame, 1))

	p.Step(m, oamScanCycles)
	assert.Equal(t, p.Line(), int(m.ReadByte(addr.LY)))

	p.Step(m, vramScanCycles)
	assert.Equal(t, p.Line(), int(m.ReadByte(addr.LY)))

	p.Step(m, hblankCycles)
	assert.Equal(t, 1, p.Line())
	assert.Equal(t, uint8(1), m.ReadByte(addr.LY))
}

// Universal property 6: exactly one frame emitted per 70224 T-cycles.
func TestFrameCadence(t *testing.T) {
	m := newTestMMU(t)
	frames := make(chan *Frame, 4)
	p := NewPPU(frames)

	const cyclesPerFrame = 70224
	const scanlineCycles = oamScanCycles + vramScanCycles + hblankCycles

	remaining := cyclesPerFrame
	for remaining > 0 {
		step := scanlineCycles
		if step > remaining {
			step = remaining
		}
		p.Step(m, step)
		remaining -= step
	}

	assert.Len(t, frames, 1)
}

func TestVBlankInterruptOnEntry(t *testing.T) {
	m := newTestMMU(t)
	p := NewPPU(make(chan *Frame, 1))

	for line := 0; line < 144; line++ {
		p.Step(m, oamScanCycles+vramScanCycles+hblankCycles)
	}

	assert.Equal(t, VBlank, p.mode)
	assert.Equal(t, uint8(0x01), m.ReadByte(addr.IF)&0x01)
}

// Universal property 5: palette round-trip.
func TestPaletteRoundTrip(t *testing.T) {
	m := newTestMMU(t)
	p := NewPPU(make(chan *Frame, 1))

	// Tile 0 at 0x8000, row 0, with all four 2-bit palette keys across
	// the first four pixels: key pattern 0,1,2,3 at bit positions 7,6,5,4.
	m.WriteByte(0x8000, 0x50) // low byte: bit6 and bit4 set
	m.WriteByte(0x8001, 0x30) // high byte: bit5 and bit4 set

	const k = 0xE4 // BGP identity palette: key0->0, key1->1, key2->2, key3->3
	m.WriteByte(addr.BGP, k)
	m.WriteByte(addr.SCX, 0)
	m.WriteByte(addr.SCY, 0)
	m.WriteByte(addr.LCDC, 0x11) // BG enabled, unsigned tile data, map 0x9800

	p.drawBackground(m, 0x11)

	want := [4]uint8{0, 1, 2, 3}
	for x, shadeKey := range want {
		r, g, b := p.frame[(x)*3], p.frame[x*3+1], p.frame[x*3+2]
		expected := shadeRGB[shadeKey]
		assert.Equal(t, expected[0], r, "pixel %d", x)
		assert.Equal(t, expected[1], g, "pixel %d", x)
		assert.Equal(t, expected[2], b, "pixel %d", x)
	}
}
