package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncR_HalfCarry(t *testing.T) {
	testCases := []struct {
		desc     string
		arg      uint8
		want     uint8
		wantZ    bool
		wantH    bool
	}{
		{"no carry", 0x0A, 0x0B, false, false},
		{"half carry", 0x0F, 0x10, false, true},
		{"wraps to zero", 0xFF, 0x00, true, true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			c := New()
			v := tc.arg
			c.incR(&v)
			assert.Equal(t, tc.want, v)
			assert.Equal(t, tc.wantZ, c.getFlag(FlagZ))
			assert.Equal(t, tc.wantH, c.getFlag(FlagH))
			assert.False(t, c.getFlag(FlagN))
		})
	}
}

func TestDecR_HalfCarry(t *testing.T) {
	c := New()
	v := uint8(0x10)
	c.decR(&v)
	assert.Equal(t, uint8(0x0F), v)
	assert.True(t, c.getFlag(FlagH))
	assert.True(t, c.getFlag(FlagN))
}

func TestAdcA_CarryInParticipatesInHalfCarry(t *testing.T) {
	c := New()
	c.A = 0x0E
	c.F = FlagC
	c.adcA(0x01)
	assert.Equal(t, uint8(0x10), c.A)
	assert.True(t, c.getFlag(FlagH))
}

func TestSbcA_CarryInParticipatesInHalfCarry(t *testing.T) {
	c := New()
	c.A = 0x10
	c.F = FlagC
	c.sbcA(0x00)
	assert.Equal(t, uint8(0x0F), c.A)
	assert.True(t, c.getFlag(FlagH))
}

func TestAddHL_HalfCarryFromBit11(t *testing.T) {
	c := New()
	c.SetHL(0x0FFF)
	c.addHL(0x0001)
	assert.Equal(t, uint16(0x1000), c.GetHL())
	assert.True(t, c.getFlag(FlagH))
	assert.False(t, c.getFlag(FlagC))
}

func TestAddSPSigned_FlagsFromUnsignedLowByte(t *testing.T) {
	c := New()
	c.SP = 0x00FF
	result := c.addSPSigned(0x01)
	assert.Equal(t, uint16(0x0100), result)
	assert.True(t, c.getFlag(FlagH))
	assert.True(t, c.getFlag(FlagC))
	assert.False(t, c.getFlag(FlagZ))
	assert.False(t, c.getFlag(FlagN))
}

func TestBitTest(t *testing.T) {
	c := New()
	c.F = FlagC // bitTest must not disturb C
	c.bitTest(7, 0x00)
	assert.True(t, c.getFlag(FlagZ))
	assert.True(t, c.getFlag(FlagH))
	assert.False(t, c.getFlag(FlagN))
	assert.True(t, c.getFlag(FlagC))
}

func TestCplSetsNAndH(t *testing.T) {
	c := New()
	c.A = 0x35
	c.cpl()
	assert.Equal(t, uint8(0xCA), c.A)
	assert.True(t, c.getFlag(FlagN))
	assert.True(t, c.getFlag(FlagH))
}

func TestCcfFlipsCarryOnly(t *testing.T) {
	c := New()
	c.F = FlagZ | FlagC
	c.ccf()
	assert.True(t, c.getFlag(FlagZ))
	assert.False(t, c.getFlag(FlagC))
	assert.False(t, c.getFlag(FlagN))
	assert.False(t, c.getFlag(FlagH))
}
