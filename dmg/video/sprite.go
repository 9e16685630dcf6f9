package video

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
)

const (
	spriteCount   = 40
	spritesOnLine = 10
	spriteXOffset = 8
	spriteYOffset = 16
)

// Sprite is one OAM entry, 4 bytes at 0xFE00 + 4*index.
//
//	Byte 0 - Y position + 16
//	Byte 1 - X position + 8
//	Byte 2 - tile number, always unsigned from 0x8000
//	Byte 3 - attributes
//	         Bit 7 - drawn behind background colors 1-3
//	         Bit 6 - vertical flip
//	         Bit 5 - horizontal flip
//	         Bit 4 - palette (0=OBP0, 1=OBP1)
type Sprite struct {
	Index      int
	Y, X       int // screen position, offsets already removed
	Tile       uint8
	Attributes uint8
}

func (s Sprite) BehindBackground() bool { return bit.IsSet(7, s.Attributes) }
func (s Sprite) FlipY() bool            { return bit.IsSet(6, s.Attributes) }
func (s Sprite) FlipX() bool            { return bit.IsSet(5, s.Attributes) }

// Palette returns the register the sprite colors go through.
func (s Sprite) Palette() uint16 {
	if bit.IsSet(4, s.Attributes) {
		return addr.OBP1
	}
	return addr.OBP0
}

// covers reports whether the sprite overlaps line for the given sprite height.
func (s Sprite) covers(line, height int) bool {
	return s.Y <= line && line < s.Y+height
}

// row fetches the pattern row the sprite shows on line.
func (s Sprite) row(bus Bus, line, height int) TileRow {
	y := line - s.Y
	if s.FlipY() {
		y = height - 1 - y
	}

	tile := s.Tile
	if height == 16 {
		// tall sprites use an even/odd tile pair
		tile &= 0xFE
	}

	return FetchTileRow(bus, addr.TileData0+uint16(tile)*tileBytes+uint16(y*2))
}

// ReadSprite decodes OAM entry index.
func ReadSprite(bus Bus, index int) Sprite {
	base := addr.OAMStart + uint16(index*4)
	return Sprite{
		Index:      index,
		Y:          int(bus.Read(base)) - spriteYOffset,
		X:          int(bus.Read(base+1)) - spriteXOffset,
		Tile:       bus.Read(base + 2),
		Attributes: bus.Read(base + 3),
	}
}

// ReadSprites decodes the whole OAM table.
func ReadSprites(bus Bus) []Sprite {
	sprites := make([]Sprite, spriteCount)
	for i := range sprites {
		sprites[i] = ReadSprite(bus, i)
	}
	return sprites
}

// spriteHeight reads the object size from LCDC bit 2.
func spriteHeight(lcdc uint8) int {
	if bit.IsSet(2, lcdc) {
		return 16
	}
	return 8
}
