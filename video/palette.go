package video

// shadeRGB maps a 2-bit shade index to its uniform RGB value. Shade 0
// is white, shade 3 is black, matching the DMG's passive-matrix LCD
// rather than the inverted convention some emulators use internally.
var shadeRGB = [4][3]uint8{
	{255, 255, 255},
	{192, 192, 192},
	{96, 96, 96},
	{0, 0, 0},
}

// paletteShade looks up the shade for a 2-bit palette key (0-3) in a
// packed palette byte (BGP, OBP0, or OBP1): each key selects two bits.
func paletteShade(palette uint8, key uint8) uint8 {
	return (palette >> (key * 2)) & 0x03
}
