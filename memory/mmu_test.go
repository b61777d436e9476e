package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	cart, err := NewCartridge(make([]byte, minCartSize))
	assert.NoError(t, err)
	return New(cart, NewKeyRegister(), nil)
}

// Universal property 4: WRAM echo round-trip.
func TestWRAMEchoRoundTrip(t *testing.T) {
	m := newTestMMU(t)
	for _, a := range []uint16{0xC000, 0xC123, 0xDDFF} {
		m.WriteByte(a, 0x42)
		assert.Equal(t, uint8(0x42), m.ReadByte(a+0x2000))

		m.WriteByte(a+0x2000, 0x7E)
		assert.Equal(t, uint8(0x7E), m.ReadByte(a))
	}
}

func TestROMWritesDiscarded(t *testing.T) {
	m := newTestMMU(t)
	before := m.ReadByte(0x0100)
	m.WriteByte(0x0100, 0xFF)
	assert.Equal(t, before, m.ReadByte(0x0100))
}

func TestUnusedRegionReadsZero(t *testing.T) {
	m := newTestMMU(t)
	m.WriteByte(0xFEA0, 0xFF) // discarded
	assert.Equal(t, uint8(0), m.ReadByte(0xFEA0))
}

func TestBootROMShadowing(t *testing.T) {
	cart, err := NewCartridge(make([]byte, minCartSize))
	assert.NoError(t, err)
	boot := make([]byte, 256)
	boot[0] = 0xAA
	m := New(cart, NewKeyRegister(), boot)

	assert.True(t, m.InBios)
	assert.Equal(t, uint8(0xAA), m.ReadByte(0x0000))

	m.ClearInBios()
	assert.False(t, m.InBios)
	assert.Equal(t, uint8(0x00), m.ReadByte(0x0000)) // cartridge bank0 byte, zeroed test image
}

func TestP1Composition(t *testing.T) {
	keys := NewKeyRegister()
	cart, err := NewCartridge(make([]byte, minCartSize))
	assert.NoError(t, err)
	m := New(cart, keys, nil)

	keys.KeyDown(KeyA)
	m.WriteByte(addr16P1, 0x20) // select action row
	assert.Equal(t, uint8(0xC0|0x20|0x0E), m.ReadByte(addr16P1))

	m.WriteByte(addr16P1, 0x10) // select direction row
	assert.Equal(t, uint8(0xC0|0x10|0x0F), m.ReadByte(addr16P1))
}

func TestIEByte(t *testing.T) {
	m := newTestMMU(t)
	m.WriteByte(0xFFFF, 0x1F)
	assert.Equal(t, uint8(0x1F), m.ReadByte(0xFFFF))
}

func TestRequestInterrupt(t *testing.T) {
	m := newTestMMU(t)
	m.RequestInterrupt(0)
	assert.Equal(t, uint8(0x01), m.ReadByte(0xFF0F))
	m.RequestInterrupt(4)
	assert.Equal(t, uint8(0x11), m.ReadByte(0xFF0F))
}
