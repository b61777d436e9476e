package cpu

import "github.com/kbolino/dmgcore/memory"

// opFunc executes one decoded instruction and returns the elapsed
// machine cycles (m-cycles); t-cycles are always 4x that.
type opFunc func(c *CPU, m *memory.MMU) int

var primaryTable [256]opFunc
var cbTable [256]opFunc

func init() {
	buildPrimaryTable()
	buildCBTable()
}

// getPair/setPair access one of the four 16-bit register-pair operand
// slots used by the 16-bit load/inc/dec/add group: 0=BC 1=DE 2=HL 3=SP.
func (c *CPU) getPair(p uint8) uint16 {
	switch p {
	case 0:
		return c.GetBC()
	case 1:
		return c.GetDE()
	case 2:
		return c.GetHL()
	default:
		return c.SP
	}
}

func (c *CPU) setPair(p uint8, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// getPairPush/setPairPop identify the four operands of PUSH/POP, which
// use AF instead of SP in the fourth slot.
func (c *CPU) getPairPush(p uint8) uint16 {
	if p == 3 {
		return c.GetAF()
	}
	return c.getPair(p)
}

func (c *CPU) setPairPop(p uint8, v uint16) {
	if p == 3 {
		c.SetAF(v)
		return
	}
	c.setPair(p, v)
}

func (c *CPU) checkCond(cc uint8) bool {
	switch cc {
	case 0:
		return !c.getFlag(FlagZ)
	case 1:
		return c.getFlag(FlagZ)
	case 2:
		return !c.getFlag(FlagC)
	default:
		return c.getFlag(FlagC)
	}
}
