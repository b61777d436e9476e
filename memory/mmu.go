// Package memory implements the DMG memory map: boot-ROM shadowing,
// cartridge banking (ROM-only), VRAM/WRAM/OAM/HRAM storage, the echo
// region, and the joypad/interrupt I/O registers.
package memory

import (
	"log/slog"
)

const (
	bootROMSize = 0x100
	vramSize    = 0x2000
	extRAMSize  = 0x2000
	wramSize    = 0x2000
	oamSize     = 0xA0
	ioSize      = 0x80
	hramSize    = 0x7F
)

// MMU decodes the full 16-bit address space and routes reads and writes
// to the appropriate backing store. It is owned by the engine loop and
// borrowed by exclusive pointer for the duration of one CPU step or PPU
// step; neither the CPU nor the PPU retains it between calls.
type MMU struct {
	// InBios is true while boot ROM bytes, not cartridge bytes, are
	// shadowing 0x0000-0x00FF. Cleared by the engine loop the first
	// time the CPU fetches from 0x0100.
	InBios bool

	bootROM [bootROMSize]byte
	cart    CartridgeRom
	vram    [vramSize]byte
	extRAM  [extRAMSize]byte
	wram    [wramSize]byte
	oam     [oamSize]byte
	io      [ioSize]byte
	hram    [hramSize]byte
	ie      byte

	keys KeyRegister

	// p1Select mirrors the last column selection written to P1, kept
	// separate from io[] so a read can recompose bits 4-5 exactly as
	// written regardless of what the joypad row currently reports.
	p1Select byte
}

// New creates an MMU for the given cartridge and key register. If boot
// is non-nil and exactly 256 bytes, it shadows cartridge bytes
// 0x0000-0x00FF until the first fetch at 0x0100; otherwise the MMU
// starts with InBios false (cold boot skipped, CPU starts at 0x0100).
func New(cart CartridgeRom, keys KeyRegister, boot []byte) *MMU {
	m := &MMU{
		cart: cart,
		keys: keys,
	}
	if len(boot) == bootROMSize {
		copy(m.bootROM[:], boot)
		m.InBios = true
	}
	return m
}

// ReadByte reads one byte from the full address space.
func (m *MMU) ReadByte(addr uint16) uint8 {
	switch {
	case addr <= 0x00FF && m.InBios:
		return m.bootROM[addr]
	case addr <= 0x3FFF:
		return m.cart.Bank0()[addr]
	case addr <= 0x7FFF:
		return m.cart.BankN()[addr-0x4000]
	case addr <= 0x9FFF:
		return m.vram[addr-0x8000]
	case addr <= 0xBFFF:
		return m.extRAM[addr-0xA000]
	case addr <= 0xDFFF:
		return m.wram[addr-0xC000]
	case addr <= 0xFDFF:
		return m.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return m.oam[addr-0xFE00]
	case addr <= 0xFEFF:
		return 0
	case addr == 0xFFFF:
		return m.ie
	case addr == addr16P1:
		return m.readP1()
	case addr >= 0xFF80:
		return m.hram[addr-0xFF80]
	default:
		return m.io[addr-0xFF00]
	}
}

// WriteByte writes one byte to the full address space. Writes to the
// ROM region are silently discarded; there is no MBC in this core.
func (m *MMU) WriteByte(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		// ROM: read-only in this core, write discarded.
	case addr <= 0x9FFF:
		m.vram[addr-0x8000] = v
	case addr <= 0xBFFF:
		m.extRAM[addr-0xA000] = v
	case addr <= 0xDFFF:
		m.wram[addr-0xC000] = v
	case addr <= 0xFDFF:
		m.wram[addr-0xE000] = v
	case addr <= 0xFE9F:
		m.oam[addr-0xFE00] = v
	case addr <= 0xFEFF:
		// Unused region: writes discarded.
	case addr == 0xFFFF:
		m.ie = v
	case addr == addr16P1:
		m.writeP1(v)
	case addr >= 0xFF80:
		m.hram[addr-0xFF80] = v
	default:
		m.io[addr-0xFF00] = v
	}
}

// ReadWord reads a little-endian word: low byte at addr, high at addr+1.
func (m *MMU) ReadWord(addr uint16) uint16 {
	low := m.ReadByte(addr)
	high := m.ReadByte(addr + 1)
	return uint16(high)<<8 | uint16(low)
}

// WriteWord writes a little-endian word: low byte at addr, high at addr+1.
func (m *MMU) WriteWord(addr uint16, v uint16) {
	m.WriteByte(addr, uint8(v))
	m.WriteByte(addr+1, uint8(v>>8))
}

const addr16P1 uint16 = 0xFF00

func (m *MMU) readP1() uint8 {
	row := m.keys.GetKeys()
	return 0xC0 | m.p1Select | row
}

func (m *MMU) writeP1(v uint8) {
	m.p1Select = v & 0x30
	m.keys.SetColumn(m.p1Select)
}

// RequestInterrupt sets the given interrupt's bit in IF (0xFF0F).
func (m *MMU) RequestInterrupt(bit uint8) {
	cur := m.io[0xFF0F-0xFF00]
	m.io[0xFF0F-0xFF00] = cur | (1 << bit)
}

// ClearInBios drops boot ROM shadowing; called by the engine loop the
// first time the CPU program counter reaches 0x0100.
func (m *MMU) ClearInBios() {
	if m.InBios {
		slog.Debug("boot ROM handoff", "pc", "0x0100")
	}
	m.InBios = false
}
