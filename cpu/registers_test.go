package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairs(t *testing.T) {
	c := New()
	c.SetBC(0x1234)
	assert.Equal(t, uint8(0x12), c.B)
	assert.Equal(t, uint8(0x34), c.C)
	assert.Equal(t, uint16(0x1234), c.GetBC())

	c.SetDE(0xABCD)
	assert.Equal(t, uint16(0xABCD), c.GetDE())

	c.SetHL(0x0102)
	assert.Equal(t, uint16(0x0102), c.GetHL())
}

func TestSetAF_ForcesLowerNibbleZero(t *testing.T) {
	c := New()
	c.SetAF(0x12FF)
	assert.Equal(t, uint8(0x12), c.A)
	assert.Equal(t, uint8(0xF0), c.F)
}

func TestNewPostBoot(t *testing.T) {
	c := NewPostBoot()
	assert.Equal(t, uint16(0x0100), c.PC)
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, uint16(0x0013), c.GetBC())
	assert.Equal(t, uint16(0x00D8), c.GetDE())
	assert.Equal(t, uint16(0x014D), c.GetHL())
}

func TestFetch16_LittleEndian(t *testing.T) {
	m := newTestMMU()
	c := New()
	c.PC = 0xC000
	m.WriteByte(0xC000, 0x34) // low
	m.WriteByte(0xC001, 0x12) // high
	assert.Equal(t, uint16(0x1234), c.fetch16(m))
	assert.Equal(t, uint16(0xC002), c.PC)
}
