package video

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
)

const (
	tileBytes  = 16
	tileSize   = 8
	mapColumns = 32
)

// TileRow is one 8 pixel row of a tile: two bit planes, the first byte
// holding bit 0 of every color index and the second byte bit 1.
// Bit 7 is the leftmost pixel.
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	Colors:      0 2 3 3 3 3 2 0
type TileRow struct {
	Low  byte
	High byte
}

// Pixel returns the color index of pixel x (0 is the leftmost),
// reading the row mirrored when flip is set.
func (t TileRow) Pixel(x int, flip bool) uint8 {
	index := uint8(7 - x)
	if flip {
		index = uint8(x)
	}

	var pixel uint8
	if bit.IsSet(index, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(index, t.High) {
		pixel |= 2
	}
	return pixel
}

// Tile is a full 8x8 pattern, 16 bytes of VRAM.
type Tile [tileSize]TileRow

// Pixel returns the color index at x, y.
func (t Tile) Pixel(x, y int) uint8 {
	return t[y].Pixel(x, false)
}

// FetchTileRow reads the row stored at address.
func FetchTileRow(bus Bus, address uint16) TileRow {
	return TileRow{
		Low:  bus.Read(address),
		High: bus.Read(address + 1),
	}
}

// FetchTile reads the 16 bytes of a tile starting at base.
func FetchTile(bus Bus, base uint16) Tile {
	var t Tile
	for row := range t {
		t[row] = FetchTileRow(bus, base+uint16(row*2))
	}
	return t
}

// TileDataAddress returns where the pattern for a background or window tile
// number starts. With unsigned addressing tile 0 sits at 0x8000, otherwise
// the number is signed and tile 0 sits at 0x9000, negatives extending below it.
func TileDataAddress(unsigned bool, tile uint8) uint16 {
	if unsigned {
		return addr.TileData0 + uint16(tile)*tileBytes
	}
	return addr.TileData2 + uint16(int16(int8(tile))*tileBytes)
}
