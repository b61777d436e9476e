package cpu

import "github.com/kbolino/dmgcore/memory"

// buildCBTable fills the 256-entry CB-prefixed dispatch table: the
// rotate/shift group (0x00-0x3F), BIT (0x40-0x7F), RES (0x80-0xBF), and
// SET (0xC0-0xFF), each selecting one of the eight 8-bit operand slots
// via the low three bits of the opcode.
func buildCBTable() {
	shiftOps := [8]func(*CPU, uint8) uint8{
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			opcode := op*8 + src
			fn := shiftOps[op]
			s := src
			cost := 2
			if s == 6 {
				cost = 4
			}
			cbTable[opcode] = func(c *CPU, m *memory.MMU) int {
				c.setReg8(s, m, fn(c, c.reg8(s, m)))
				return cost
			}
		}
	}

	for b := uint8(0); b < 8; b++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + b*8 + src
			bit, s := b, src
			cost := 2
			if s == 6 {
				cost = 3
			}
			cbTable[opcode] = func(c *CPU, m *memory.MMU) int {
				c.bitTest(bit, c.reg8(s, m))
				return cost
			}
		}
	}

	for b := uint8(0); b < 8; b++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + b*8 + src
			bit, s := b, src
			cost := 2
			if s == 6 {
				cost = 4
			}
			cbTable[opcode] = func(c *CPU, m *memory.MMU) int {
				c.setReg8(s, m, c.reg8(s, m)&^(1<<bit))
				return cost
			}
		}
	}

	for b := uint8(0); b < 8; b++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0xC0 + b*8 + src
			bit, s := b, src
			cost := 2
			if s == 6 {
				cost = 4
			}
			cbTable[opcode] = func(c *CPU, m *memory.MMU) int {
				c.setReg8(s, m, c.reg8(s, m)|(1<<bit))
				return cost
			}
		}
	}
}
