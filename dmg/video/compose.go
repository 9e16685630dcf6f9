package video

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
)

// compose draws the current line: background, then window, then sprites.
// Pixels no plane touches stay white.
func (p *PPU) compose() {
	for x := range p.line {
		p.line[x] = White
		p.bgIndex[x] = 0
	}

	lcdc := p.bus.Read(addr.LCDC)

	if p.layers.Has(LayerBackground) && bit.IsSet(lcdcBGEnable, lcdc) {
		p.drawBackground(lcdc)
	}
	if p.layers.Has(LayerWindow) && bit.IsSet(lcdcWindowEnable, lcdc) && bit.IsSet(lcdcBGEnable, lcdc) {
		p.drawWindow(lcdc)
	}
	if p.layers.Has(LayerSprites) && bit.IsSet(lcdcSpriteEnable, lcdc) {
		if p.spriteLimit {
			p.drawSpritesLimited(lcdc)
		} else {
			p.drawSprites(lcdc)
		}
	}
}

func mapBase(lcdc uint8, selectBit uint8) uint16 {
	if bit.IsSet(selectBit, lcdc) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// mapPixel returns the color index at x, y of a 256x256 tile map plane.
func (p *PPU) mapPixel(base uint16, unsigned bool, x, y uint8) uint8 {
	tile := p.bus.Read(base + uint16(y/tileSize)*mapColumns + uint16(x/tileSize))
	row := FetchTileRow(p.bus, TileDataAddress(unsigned, tile)+uint16(y%tileSize)*2)
	return row.Pixel(int(x%tileSize), false)
}

// drawBackground scrolls the background plane by SCX/SCY. The uint8
// arithmetic wraps around the 256 pixel plane.
func (p *PPU) drawBackground(lcdc uint8) {
	base := mapBase(lcdc, lcdcBGMap)
	unsigned := bit.IsSet(lcdcUnsignedTiles, lcdc)
	palette := p.bus.Read(addr.BGP)
	y := p.ly + p.bus.Read(addr.SCY)
	scx := p.bus.Read(addr.SCX)

	for x := 0; x < Width; x++ {
		index := p.mapPixel(base, unsigned, uint8(x)+scx, y)
		p.bgIndex[x] = index
		p.line[x] = Shade(palette, index)
	}
}

// drawWindow draws the window from WX-7 to the right edge, on lines at or
// below WY. Columns left of the window keep what the background drew.
func (p *PPU) drawWindow(lcdc uint8) {
	wy := p.bus.Read(addr.WY)
	if p.ly < wy {
		return
	}

	left := int(p.bus.Read(addr.WX)) - 7
	if left >= Width {
		return
	}

	base := mapBase(lcdc, lcdcWindowMap)
	unsigned := bit.IsSet(lcdcUnsignedTiles, lcdc)
	palette := p.bus.Read(addr.BGP)
	y := p.ly - wy

	for x := max(left, 0); x < Width; x++ {
		index := p.mapPixel(base, unsigned, uint8(x-left), y)
		p.bgIndex[x] = index
		p.line[x] = Shade(palette, index)
	}
}

// drawSprites draws every sprite on the line in OAM order, later entries
// over earlier ones. A pixel is drawn when the sprite has its background
// priority bit set or when its color index is not 0.
func (p *PPU) drawSprites(lcdc uint8) {
	height := spriteHeight(lcdc)
	line := int(p.ly)

	for i := 0; i < spriteCount; i++ {
		s := ReadSprite(p.bus, i)
		if !s.covers(line, height) {
			continue
		}

		row := s.row(p.bus, line, height)
		palette := p.bus.Read(s.Palette())
		for px := 0; px < tileSize; px++ {
			x := s.X + px
			if x < 0 || x >= Width {
				continue
			}
			index := row.Pixel(px, s.FlipX())
			if s.BehindBackground() || index != 0 {
				p.line[x] = Shade(palette, index)
			}
		}
	}
}

// drawSpritesLimited selects at most 10 sprites in OAM order, resolves
// overlaps with the priority buffer and hides pixels of background
// priority sprites behind background colors 1-3.
func (p *PPU) drawSpritesLimited(lcdc uint8) {
	height := spriteHeight(lcdc)
	line := int(p.ly)
	p.priority.clear()

	selected := 0
	for i := 0; i < spriteCount && selected < spritesOnLine; i++ {
		s := ReadSprite(p.bus, i)
		if !s.covers(line, height) {
			continue
		}
		selected++

		row := s.row(p.bus, line, height)
		for px := 0; px < tileSize; px++ {
			if index := row.Pixel(px, s.FlipX()); index != 0 {
				p.priority.tryClaim(s.X+px, s, index)
			}
		}
	}

	for x := 0; x < Width; x++ {
		c, ok := p.priority.owner(x)
		if !ok {
			continue
		}
		if c.sprite.BehindBackground() && p.bgIndex[x] != 0 {
			continue
		}
		p.line[x] = Shade(p.bus.Read(c.sprite.Palette()), c.index)
	}
}
