package cpu

import (
	"fmt"
	"log/slog"

	"github.com/kbolino/dmgcore/memory"
)

func unimplemented(c *CPU, _ *memory.MMU) int {
	panic(fmt.Sprintf("unimplemented primary opcode reached dispatch at PC=0x%04X", c.PC))
}

// buildPrimaryTable fills the 256-entry primary dispatch table. Regular
// blocks (register loads, 8/16-bit INC/DEC, the ALU-on-A block,
// conditional jumps/calls/returns, RST, PUSH/POP) are generated by
// looping over the operand encoding; the remaining single opcodes are
// each one handler, following the same shape as the teacher's
// per-opcode functions.
func buildPrimaryTable() {
	for i := range primaryTable {
		primaryTable[i] = unimplemented
	}

	// LD r, r' (0x40-0x7F except 0x76 which is HALT)
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			if opcode == 0x76 {
				continue
			}
			d, s := dst, src
			cost := 1
			if d == 6 || s == 6 {
				cost = 2
			}
			primaryTable[opcode] = func(c *CPU, m *memory.MMU) int {
				c.setReg8(d, m, c.reg8(s, m))
				return cost
			}
		}
	}
	primaryTable[0x76] = opHALT

	// INC r / DEC r / LD r, n (0x04/0x05/0x06 + 8*code)
	for code := uint8(0); code < 8; code++ {
		r := code
		incCost, decCost := 1, 1
		if r == 6 {
			incCost, decCost = 3, 3
		}
		primaryTable[0x04+r*8] = func(c *CPU, m *memory.MMU) int {
			if r == 6 {
				v := c.readHL(m)
				c.incR(&v)
				c.writeHL(m, v)
			} else {
				c.incR(c.regPtr(r))
			}
			return incCost
		}
		primaryTable[0x05+r*8] = func(c *CPU, m *memory.MMU) int {
			if r == 6 {
				v := c.readHL(m)
				c.decR(&v)
				c.writeHL(m, v)
			} else {
				c.decR(c.regPtr(r))
			}
			return decCost
		}
		ldCost := 2
		if r == 6 {
			ldCost = 3
		}
		primaryTable[0x06+r*8] = func(c *CPU, m *memory.MMU) int {
			n := c.fetch8(m)
			c.setReg8(r, m, n)
			return ldCost
		}
	}

	// ALU A, r' (0x80-0xBF): op selects ADD/ADC/SUB/SBC/AND/XOR/OR/CP
	aluOps := [8]func(*CPU, uint8){
		(*CPU).addA, (*CPU).adcA, (*CPU).subA, (*CPU).sbcA,
		(*CPU).andA, (*CPU).xorA, (*CPU).orA, (*CPU).cpA,
	}
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + op*8 + src
			fn := aluOps[op]
			s := src
			cost := 1
			if s == 6 {
				cost = 2
			}
			primaryTable[opcode] = func(c *CPU, m *memory.MMU) int {
				fn(c, c.reg8(s, m))
				return cost
			}
		}
	}

	// 16-bit group: LD rr,nn / INC rr / DEC rr / ADD HL,rr (pp = 0..3: BC,DE,HL,SP)
	for pp := uint8(0); pp < 4; pp++ {
		p := pp
		primaryTable[0x01+p*16] = func(c *CPU, m *memory.MMU) int {
			c.setPair(p, c.fetch16(m))
			return 3
		}
		primaryTable[0x03+p*16] = func(c *CPU, m *memory.MMU) int {
			c.setPair(p, c.getPair(p)+1)
			return 2
		}
		primaryTable[0x0B+p*16] = func(c *CPU, m *memory.MMU) int {
			c.setPair(p, c.getPair(p)-1)
			return 2
		}
		primaryTable[0x09+p*16] = func(c *CPU, m *memory.MMU) int {
			c.addHL(c.getPair(p))
			return 2
		}
	}

	// LD (BC),A / LD (DE),A / LD (HL+),A / LD (HL-),A
	primaryTable[0x02] = func(c *CPU, m *memory.MMU) int { m.WriteByte(c.GetBC(), c.A); return 2 }
	primaryTable[0x12] = func(c *CPU, m *memory.MMU) int { m.WriteByte(c.GetDE(), c.A); return 2 }
	primaryTable[0x22] = func(c *CPU, m *memory.MMU) int {
		hl := c.GetHL()
		m.WriteByte(hl, c.A)
		c.SetHL(hl + 1)
		return 2
	}
	primaryTable[0x32] = func(c *CPU, m *memory.MMU) int {
		hl := c.GetHL()
		m.WriteByte(hl, c.A)
		c.SetHL(hl - 1)
		return 2
	}

	// LD A,(BC) / LD A,(DE) / LD A,(HL+) / LD A,(HL-)
	primaryTable[0x0A] = func(c *CPU, m *memory.MMU) int { c.A = m.ReadByte(c.GetBC()); return 2 }
	primaryTable[0x1A] = func(c *CPU, m *memory.MMU) int { c.A = m.ReadByte(c.GetDE()); return 2 }
	primaryTable[0x2A] = func(c *CPU, m *memory.MMU) int {
		hl := c.GetHL()
		c.A = m.ReadByte(hl)
		c.SetHL(hl + 1)
		return 2
	}
	primaryTable[0x3A] = func(c *CPU, m *memory.MMU) int {
		hl := c.GetHL()
		c.A = m.ReadByte(hl)
		c.SetHL(hl - 1)
		return 2
	}

	// JR e8 / JR cc,e8
	primaryTable[0x18] = func(c *CPU, m *memory.MMU) int {
		e8 := int8(c.fetch8(m))
		c.PC = uint16(int32(c.PC) + int32(e8))
		return 3
	}
	for cc := uint8(0); cc < 4; cc++ {
		condition := cc
		primaryTable[0x20+condition*8] = func(c *CPU, m *memory.MMU) int {
			e8 := int8(c.fetch8(m))
			if !c.checkCond(condition) {
				return 2
			}
			c.PC = uint16(int32(c.PC) + int32(e8))
			return 3
		}
	}

	// JP nn / JP cc,nn / JP (HL)
	primaryTable[0xC3] = func(c *CPU, m *memory.MMU) int {
		c.PC = c.fetch16(m)
		return 4
	}
	primaryTable[0xE9] = func(c *CPU, m *memory.MMU) int {
		c.PC = c.GetHL()
		return 1
	}
	for cc := uint8(0); cc < 4; cc++ {
		condition := cc
		primaryTable[0xC2+condition*8] = func(c *CPU, m *memory.MMU) int {
			target := c.fetch16(m)
			if !c.checkCond(condition) {
				return 3
			}
			c.PC = target
			return 4
		}
	}

	// CALL nn / CALL cc,nn
	primaryTable[0xCD] = func(c *CPU, m *memory.MMU) int {
		target := c.fetch16(m)
		c.push16(m, c.PC)
		c.PC = target
		return 6
	}
	for cc := uint8(0); cc < 4; cc++ {
		condition := cc
		primaryTable[0xC4+condition*8] = func(c *CPU, m *memory.MMU) int {
			target := c.fetch16(m)
			if !c.checkCond(condition) {
				return 3
			}
			c.push16(m, c.PC)
			c.PC = target
			return 6
		}
	}

	// RET / RET cc / RETI
	primaryTable[0xC9] = func(c *CPU, m *memory.MMU) int {
		c.PC = c.pop16(m)
		return 4
	}
	primaryTable[0xD9] = func(c *CPU, m *memory.MMU) int {
		c.PC = c.pop16(m)
		c.IME = true
		return 4
	}
	for cc := uint8(0); cc < 4; cc++ {
		condition := cc
		primaryTable[0xC0+condition*8] = func(c *CPU, m *memory.MMU) int {
			if !c.checkCond(condition) {
				return 2
			}
			c.PC = c.pop16(m)
			return 5
		}
	}

	// RST n
	for k := uint8(0); k < 8; k++ {
		vector := uint16(k) * 8
		primaryTable[0xC7+k*8] = func(c *CPU, m *memory.MMU) int {
			c.push16(m, c.PC)
			c.PC = vector
			return 4
		}
	}

	// PUSH rr / POP rr (BC, DE, HL, AF)
	for pp := uint8(0); pp < 4; pp++ {
		p := pp
		primaryTable[0xC5+p*16] = func(c *CPU, m *memory.MMU) int {
			c.push16(m, c.getPairPush(p))
			return 4
		}
		primaryTable[0xC1+p*16] = func(c *CPU, m *memory.MMU) int {
			c.setPairPop(p, c.pop16(m))
			return 3
		}
	}

	// ALU A, n (immediate forms)
	primaryTable[0xC6] = func(c *CPU, m *memory.MMU) int { c.addA(c.fetch8(m)); return 2 }
	primaryTable[0xCE] = func(c *CPU, m *memory.MMU) int { c.adcA(c.fetch8(m)); return 2 }
	primaryTable[0xD6] = func(c *CPU, m *memory.MMU) int { c.subA(c.fetch8(m)); return 2 }
	primaryTable[0xDE] = func(c *CPU, m *memory.MMU) int { c.sbcA(c.fetch8(m)); return 2 }
	primaryTable[0xE6] = func(c *CPU, m *memory.MMU) int { c.andA(c.fetch8(m)); return 2 }
	primaryTable[0xEE] = func(c *CPU, m *memory.MMU) int { c.xorA(c.fetch8(m)); return 2 }
	primaryTable[0xF6] = func(c *CPU, m *memory.MMU) int { c.orA(c.fetch8(m)); return 2 }
	primaryTable[0xFE] = func(c *CPU, m *memory.MMU) int { c.cpA(c.fetch8(m)); return 2 }

	// Misc single opcodes
	primaryTable[0x00] = func(c *CPU, m *memory.MMU) int { return 1 }
	primaryTable[0x07] = opRLCA
	primaryTable[0x0F] = opRRCA
	primaryTable[0x17] = opRLA
	primaryTable[0x1F] = opRRA
	primaryTable[0x08] = func(c *CPU, m *memory.MMU) int {
		target := c.fetch16(m)
		m.WriteWord(target, c.SP)
		return 5
	}
	primaryTable[0x10] = opSTOP
	primaryTable[0x27] = func(c *CPU, m *memory.MMU) int { c.daa(); return 1 }
	primaryTable[0x2F] = func(c *CPU, m *memory.MMU) int { c.cpl(); return 1 }
	primaryTable[0x37] = func(c *CPU, m *memory.MMU) int { c.scf(); return 1 }
	primaryTable[0x3F] = func(c *CPU, m *memory.MMU) int { c.ccf(); return 1 }
	primaryTable[0xF3] = func(c *CPU, m *memory.MMU) int { c.IME = false; return 1 }
	primaryTable[0xFB] = func(c *CPU, m *memory.MMU) int { c.IME = true; return 1 }

	primaryTable[0xE0] = func(c *CPU, m *memory.MMU) int {
		n := c.fetch8(m)
		m.WriteByte(0xFF00+uint16(n), c.A)
		return 3
	}
	primaryTable[0xF0] = func(c *CPU, m *memory.MMU) int {
		n := c.fetch8(m)
		c.A = m.ReadByte(0xFF00 + uint16(n))
		return 3
	}
	primaryTable[0xE2] = func(c *CPU, m *memory.MMU) int {
		m.WriteByte(0xFF00+uint16(c.C), c.A)
		return 2
	}
	primaryTable[0xF2] = func(c *CPU, m *memory.MMU) int {
		c.A = m.ReadByte(0xFF00 + uint16(c.C))
		return 2
	}
	primaryTable[0xEA] = func(c *CPU, m *memory.MMU) int {
		target := c.fetch16(m)
		m.WriteByte(target, c.A)
		return 4
	}
	primaryTable[0xFA] = func(c *CPU, m *memory.MMU) int {
		target := c.fetch16(m)
		c.A = m.ReadByte(target)
		return 4
	}

	primaryTable[0xE8] = func(c *CPU, m *memory.MMU) int {
		e8 := c.fetch8(m)
		c.SP = c.addSPSigned(e8)
		return 4
	}
	primaryTable[0xF8] = func(c *CPU, m *memory.MMU) int {
		e8 := c.fetch8(m)
		c.SetHL(c.addSPSigned(e8))
		return 3
	}
	primaryTable[0xF9] = func(c *CPU, m *memory.MMU) int {
		c.SP = c.GetHL()
		return 2
	}
}

func opHALT(c *CPU, m *memory.MMU) int {
	c.Halt = true
	return 1
}

func opSTOP(c *CPU, m *memory.MMU) int {
	// Real hardware reads a padding byte after STOP; this core treats
	// STOP identically to an illegal opcode per the specification.
	pc := c.PC - 1
	c.fetch8(m)
	c.Stop = true
	slog.Error("STOP instruction encountered", "opcode", "0x10", "pc", fmt.Sprintf("0x%04X", pc))
	return 1
}

func opRLCA(c *CPU, m *memory.MMU) int {
	c.A = c.rlc(c.A)
	c.setFlag(FlagZ, false)
	return 1
}

func opRRCA(c *CPU, m *memory.MMU) int {
	c.A = c.rrc(c.A)
	c.setFlag(FlagZ, false)
	return 1
}

func opRLA(c *CPU, m *memory.MMU) int {
	c.A = c.rl(c.A)
	c.setFlag(FlagZ, false)
	return 1
}

func opRRA(c *CPU, m *memory.MMU) int {
	c.A = c.rr(c.A)
	c.setFlag(FlagZ, false)
	return 1
}

// regPtr returns a pointer to the 8-bit register named by the standard
// encoding, for in-place INC/DEC on a plain register (never (HL)).
func (c *CPU) regPtr(code uint8) *uint8 {
	switch code {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	default:
		return &c.A
	}
}
