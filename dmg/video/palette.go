package video

// Color is one of the four shades the LCD can show.
type Color struct {
	R, G, B uint8
}

var (
	White     = Color{0xFF, 0xFF, 0xFF}
	LightGray = Color{0xA8, 0xA8, 0xA8}
	DarkGray  = Color{0x54, 0x54, 0x54}
	Black     = Color{0x00, 0x00, 0x00}
)

// shades is indexed by the 2 bit value a palette register maps a color index to.
var shades = [4]Color{White, LightGray, DarkGray, Black}

// RGBA implements color.Color so frames can be handed to image encoders.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xFFFF
}

// Level returns the shade number, 0 for white up to 3 for black.
func (c Color) Level() int {
	for i, s := range shades {
		if s == c {
			return i
		}
	}
	return 0
}

// Shade maps a color index (0-3) through a palette register (BGP, OBP0, OBP1).
//
//	Bit 7-6 - shade for color 3
//	Bit 5-4 - shade for color 2
//	Bit 3-2 - shade for color 1
//	Bit 1-0 - shade for color 0
func Shade(palette, index uint8) Color {
	return shades[(palette>>(index*2))&0x03]
}
