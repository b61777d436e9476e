// Package cpu implements the Sharp LR35902 (GBZ80) instruction
// interpreter: fetch/decode/execute for the 256-entry primary opcode
// table plus the 256-entry CB-prefixed table, flag semantics, the
// stack, and interrupt dispatch.
package cpu

import (
	"fmt"
	"log/slog"

	"github.com/kbolino/dmgcore/addr"
	"github.com/kbolino/dmgcore/memory"
)

// Flag bit masks within the F register. F's lower nibble is always
// zero; only the upper four bits are ever meaningful.
const (
	FlagZ uint8 = 0x80
	FlagN uint8 = 0x40
	FlagH uint8 = 0x20
	FlagC uint8 = 0x10
)

// illegalOpcodes have no defined behavior on real hardware. Encountering
// one sets the STOP latch; see Exec.
var illegalOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// CPU holds the complete register state of the Sharp LR35902. A CPU
// never stores a reference to the MMU: it is borrowed by exclusive
// pointer for the duration of a single Exec call.
type CPU struct {
	A, B, C, D, E, H, L, F uint8
	SP, PC                 uint16

	IME  bool // interrupt master enable latch
	Halt bool
	Stop bool
}

// New returns a CPU with all registers zeroed (cold boot, boot ROM
// mapped in at 0x0000).
func New() *CPU {
	return &CPU{}
}

// NewPostBoot returns a CPU already in the state the DMG boot ROM
// leaves it in, for callers that skip boot ROM execution entirely.
func NewPostBoot() *CPU {
	c := &CPU{
		A:  0x01,
		F:  0xB0,
		SP: 0xFFFE,
		PC: 0x0100,
	}
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	return c
}

func (c *CPU) GetBC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) SetBC(v uint16) {
	c.B = uint8(v >> 8)
	c.C = uint8(v)
}

func (c *CPU) GetDE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) SetDE(v uint16) {
	c.D = uint8(v >> 8)
	c.E = uint8(v)
}

func (c *CPU) GetHL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) SetHL(v uint16) {
	c.H = uint8(v >> 8)
	c.L = uint8(v)
}

func (c *CPU) GetAF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

// SetAF writes AF, forcing F's lower nibble to zero as real hardware
// does (exercised by POP AF).
func (c *CPU) SetAF(v uint16) {
	c.A = uint8(v >> 8)
	c.F = uint8(v) & 0xF0
}

func (c *CPU) getFlag(mask uint8) bool { return c.F&mask != 0 }

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.F |= mask
	} else {
		c.F &^= mask
	}
	c.F &= 0xF0
}

func (c *CPU) flagBit(mask uint8) uint8 {
	if c.getFlag(mask) {
		return 1
	}
	return 0
}

// fetch8 reads the byte at PC and advances PC by one, wrapping at 0xFFFF.
func (c *CPU) fetch8(m *memory.MMU) uint8 {
	v := m.ReadByte(c.PC)
	c.PC++
	return v
}

// fetch16 reads a little-endian word at PC and advances PC by two.
func (c *CPU) fetch16(m *memory.MMU) uint16 {
	low := c.fetch8(m)
	high := c.fetch8(m)
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) push16(m *memory.MMU, v uint16) {
	c.SP--
	m.WriteByte(c.SP, uint8(v>>8))
	c.SP--
	m.WriteByte(c.SP, uint8(v))
}

func (c *CPU) pop16(m *memory.MMU) uint16 {
	low := m.ReadByte(c.SP)
	c.SP++
	high := m.ReadByte(c.SP)
	c.SP++
	return uint16(high)<<8 | uint16(low)
}

// reg8 reads one of the eight 8-bit operand slots used throughout the
// primary and CB tables, in the standard GBZ80 encoding: 0=B 1=C 2=D
// 3=E 4=H 5=L 6=(HL) 7=A.
func (c *CPU) reg8(code uint8, m *memory.MMU) uint8 {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return m.ReadByte(c.GetHL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(code uint8, m *memory.MMU, v uint8) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		m.WriteByte(c.GetHL(), v)
	default:
		c.A = v
	}
}

// Exec fetches and executes exactly one instruction (possibly
// CB-prefixed), dispatches at most one pending interrupt, and returns
// the elapsed machine- and T-cycle counts. m_cycles*4 always equals
// t_cycles.
func (c *CPU) Exec(m *memory.MMU) (mCycles int, tCycles int) {
	if c.Halt {
		pending := m.ReadByte(addr.IE) & m.ReadByte(addr.IF) & 0x1F
		if pending != 0 {
			c.Halt = false
		} else {
			mCycles = 1
			mCycles += c.dispatchInterrupt(m)
			return mCycles, mCycles * 4
		}
	}

	opcode := c.fetch8(m)

	switch {
	case opcode == 0xCB:
		cb := c.fetch8(m)
		mCycles = cbTable[cb](c, m)
	case illegalOpcodes[opcode]:
		c.Stop = true
		slog.Error("illegal opcode encountered", "opcode", fmt.Sprintf("0x%02X", opcode), "pc", fmt.Sprintf("0x%04X", c.PC-1))
		mCycles = 1
	default:
		mCycles = primaryTable[opcode](c, m)
	}

	mCycles += c.dispatchInterrupt(m)
	return mCycles, mCycles * 4
}

// dispatchInterrupt services at most one pending, enabled interrupt in
// priority order {VBlank, LCDStat, Timer, Serial, Joypad}, charging 5 m
// if one was dispatched.
func (c *CPU) dispatchInterrupt(m *memory.MMU) int {
	if !c.IME {
		return 0
	}

	ie := m.ReadByte(addr.IE)
	iflags := m.ReadByte(addr.IF)
	pending := ie & iflags & 0x1F
	if pending == 0 {
		return 0
	}

	for _, in := range []addr.Interrupt{
		addr.VBlankInterrupt,
		addr.LCDStatInterrupt,
		addr.TimerInterrupt,
		addr.SerialInterrupt,
		addr.JoypadInterrupt,
	} {
		bit := in.Bit()
		if pending&(1<<bit) == 0 {
			continue
		}

		m.WriteByte(addr.IF, iflags&^(1<<bit))
		c.IME = false
		c.push16(m, c.PC)
		c.PC = in.Vector()
		return 5
	}

	return 0
}
