package video

import (
	"github.com/kbolino/dmgcore/addr"
	"github.com/kbolino/dmgcore/bit"
	"github.com/kbolino/dmgcore/memory"
)

// Mode is the PPU's current stage within a scanline.
type Mode int

const (
	OamScan Mode = iota
	VramScan
	HBlank
	VBlank
)

const (
	oamScanCycles  = 80
	vramScanCycles = 172
	hblankCycles   = 204
	vblankCycles   = 456
)

// LCDC bit positions.
const (
	lcdcBGEnable     = 0
	lcdcObjEnable    = 1
	lcdcBGTileMap    = 3
	lcdcBGWindowData = 4
	lcdcWindowEnable = 5
	lcdcWindowMap    = 6
)

// PPU implements the scanline state machine and renders completed
// scanlines into its own framebuffer, emitting one completed Frame per
// 70224 T-cycles through frames.
type PPU struct {
	mode      Mode
	modeClock int
	line      int

	frame      *Frame
	bgPriority [Width]uint8 // per-pixel BG palette-key, for sprite priority
	windowLine int          // internal window-line counter, advances only on lines the window actually drew

	frames chan<- *Frame
}

// NewPPU creates a PPU that emits completed frames on frames. Sends on
// a full channel are dropped, never blocked on, per the frame-channel
// contract.
func NewPPU(frames chan<- *Frame) *PPU {
	return &PPU{
		frame:  &Frame{},
		frames: frames,
	}
}

// Line reports the current scanline (mirrors LY).
func (p *PPU) Line() int { return p.line }

// Step advances the PPU by deltaT T-cycles, rendering any scanlines
// that complete and emitting at most one frame.
func (p *PPU) Step(m *memory.MMU, deltaT int) {
	p.modeClock += deltaT

	for {
		switch p.mode {
		case OamScan:
			if p.modeClock < oamScanCycles {
				return
			}
			p.modeClock -= oamScanCycles
			p.mode = VramScan
		case VramScan:
			if p.modeClock < vramScanCycles {
				return
			}
			p.modeClock -= vramScanCycles
			p.renderScanline(m)
			p.mode = HBlank
		case HBlank:
			if p.modeClock < hblankCycles {
				return
			}
			p.modeClock -= hblankCycles
			if p.line == 143 {
				p.mode = VBlank
				p.line++
				p.writeLY(m)
				m.RequestInterrupt(addr.VBlankInterrupt.Bit())
				p.emitFrame()
			} else {
				p.mode = OamScan
				p.line++
				p.writeLY(m)
			}
		case VBlank:
			if p.modeClock < vblankCycles {
				return
			}
			p.modeClock -= vblankCycles
			p.line++
			if p.line > 153 {
				p.line = 0
				p.windowLine = 0
				p.mode = OamScan
			}
			p.writeLY(m)
		}
	}
}

func (p *PPU) writeLY(m *memory.MMU) {
	m.WriteByte(addr.LY, uint8(p.line))
}

func (p *PPU) emitFrame() {
	snapshot := p.frame.Clone()
	select {
	case p.frames <- snapshot:
	default:
		// Channel full: drop this frame rather than block the emulation thread.
	}
}

// renderScanline draws the background, window, and sprite layers for
// the current line into the framebuffer.
func (p *PPU) renderScanline(m *memory.MMU) {
	lcdc := m.ReadByte(addr.LCDC)

	if bit.IsSet(lcdcBGEnable, lcdc) {
		p.drawBackground(m, lcdc)
	} else {
		for x := 0; x < Width; x++ {
			p.frame.set(p.line, x, 255, 255, 255)
			p.bgPriority[x] = 0
		}
	}

	if bit.IsSet(lcdcWindowEnable, lcdc) {
		p.drawWindow(m, lcdc)
	}

	if bit.IsSet(lcdcObjEnable, lcdc) {
		p.drawSprites(m)
	}
}

func (p *PPU) drawBackground(m *memory.MMU, lcdc uint8) {
	scy := m.ReadByte(addr.SCY)
	scx := m.ReadByte(addr.SCX)
	bgp := m.ReadByte(addr.BGP)

	mapBase := uint16(0x9800)
	if bit.IsSet(lcdcBGTileMap, lcdc) {
		mapBase = 0x9C00
	}
	signedAddressing := !bit.IsSet(lcdcBGWindowData, lcdc)

	y := (p.line + int(scy)) & 0xFF
	mapRow := (y >> 3) * 32
	row := uint16(y & 7)

	for x := 0; x < Width; x++ {
		sx := (x + int(scx)) & 0xFF
		tileID := m.ReadByte(mapBase + uint16(mapRow) + uint16(sx>>3))

		tileAddr := tileDataAddr(tileID, signedAddressing, row)
		b1 := m.ReadByte(tileAddr)
		b2 := m.ReadByte(tileAddr + 1)

		bitIndex := uint8(7 - (sx & 7))
		key := pixelKey(b1, b2, bitIndex)

		shade := paletteShade(bgp, key)
		rgb := shadeRGB[shade]
		p.frame.set(p.line, x, rgb[0], rgb[1], rgb[2])
		p.bgPriority[x] = key
	}
}

func (p *PPU) drawWindow(m *memory.MMU, lcdc uint8) {
	wy := m.ReadByte(addr.WY)
	wx := int(m.ReadByte(addr.WX)) - 7

	if int(wy) > p.line {
		return
	}
	if wx >= Width {
		return
	}

	bgp := m.ReadByte(addr.BGP)
	mapBase := uint16(0x9800)
	if bit.IsSet(lcdcWindowMap, lcdc) {
		mapBase = 0x9C00
	}
	signedAddressing := !bit.IsSet(lcdcBGWindowData, lcdc)

	mapRow := (p.windowLine >> 3) * 32
	row := uint16(p.windowLine & 7)

	drew := false
	for x := 0; x < Width; x++ {
		wxPixel := x - wx
		if wxPixel < 0 {
			continue
		}
		drew = true

		tileID := m.ReadByte(mapBase + uint16(mapRow) + uint16(wxPixel>>3))
		tileAddr := tileDataAddr(tileID, signedAddressing, row)
		b1 := m.ReadByte(tileAddr)
		b2 := m.ReadByte(tileAddr + 1)

		bitIndex := uint8(7 - (wxPixel & 7))
		key := pixelKey(b1, b2, bitIndex)

		shade := paletteShade(bgp, key)
		rgb := shadeRGB[shade]
		p.frame.set(p.line, x, rgb[0], rgb[1], rgb[2])
		p.bgPriority[x] = key
	}
	if drew {
		p.windowLine++
	}
}

func (p *PPU) drawSprites(m *memory.MMU) {
	const oamBase = 0xFE00
	for i := 0; i < 40; i++ {
		base := uint16(oamBase + i*4)
		y := int(m.ReadByte(base)) - 16
		x := int(m.ReadByte(base+1)) - 8
		tile := m.ReadByte(base + 2)
		attrs := m.ReadByte(base + 3)

		if p.line < y || p.line >= y+8 {
			continue
		}

		row := p.line - y
		if bit.IsSet(6, attrs) {
			row = 7 - row
		}

		tileAddr := uint16(0x8000) + uint16(tile)*16 + uint16(row)*2
		b1 := m.ReadByte(tileAddr)
		b2 := m.ReadByte(tileAddr + 1)

		palette := m.ReadByte(addr.OBP0)
		if bit.IsSet(4, attrs) {
			palette = m.ReadByte(addr.OBP1)
		}
		flipX := bit.IsSet(5, attrs)
		behindBG := bit.IsSet(7, attrs)

		for px := 0; px < 8; px++ {
			screenX := x + px
			if screenX < 0 || screenX >= Width {
				continue
			}

			bitIndex := uint8(7 - px)
			if flipX {
				bitIndex = uint8(px)
			}
			key := pixelKey(b1, b2, bitIndex)
			if key == 0 {
				continue
			}
			if behindBG && p.bgPriority[screenX] != 0 {
				continue
			}

			shade := paletteShade(palette, key)
			rgb := shadeRGB[shade]
			p.frame.set(p.line, screenX, rgb[0], rgb[1], rgb[2])
		}
	}
}

// tileDataAddr resolves a tile ID to its byte address for the given
// row, honoring LCDC bit 4's unsigned (0x8000) vs signed (0x8800)
// addressing mode.
func tileDataAddr(tileID uint8, signedAddressing bool, row uint16) uint16 {
	if signedAddressing {
		return uint16(int32(0x9000)+int32(int8(tileID))*16) + row*2
	}
	return 0x8000 + uint16(tileID)*16 + row*2
}

// pixelKey combines the low/high tile-row bytes into a 2-bit palette
// key for the pixel at bitIndex (7 = leftmost).
func pixelKey(b1, b2 uint8, bitIndex uint8) uint8 {
	key := (b1 >> bitIndex) & 1
	key |= ((b2 >> bitIndex) & 1) << 1
	return key
}
