package debug

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
	"github.com/valerio/go-dmg/dmg/video"
)

const (
	mapSize    = 256
	mapColumns = 32
	tileSize   = 8

	lcdcBGMap         = 3
	lcdcUnsignedTiles = 4

	// viewportIndex is the palette slot the screen outline is drawn with.
	viewportIndex = 4
)

// exportPalette holds the four shades, in level order, plus the outline color.
var exportPalette = color.Palette{
	video.White,
	video.LightGray,
	video.DarkGray,
	video.Black,
	color.RGBA{R: 0xFF, A: 0xFF},
}

// ExportBackground renders the whole 256x256 background map through BGP and
// outlines the 160x144 area SCX/SCY currently show, then writes it as BMP.
func ExportBackground(bus Reader, w io.Writer) error {
	img := image.NewPaletted(image.Rect(0, 0, mapSize, mapSize), exportPalette)

	lcdc := bus.Read(addr.LCDC)
	palette := bus.Read(addr.BGP)
	base := addr.TileMap0
	if bit.IsSet(lcdcBGMap, lcdc) {
		base = addr.TileMap1
	}
	unsigned := bit.IsSet(lcdcUnsignedTiles, lcdc)

	for ty := 0; ty < mapColumns; ty++ {
		for tx := 0; tx < mapColumns; tx++ {
			index := bus.Read(base + uint16(ty*mapColumns+tx))
			tile := video.FetchTile(bus, video.TileDataAddress(unsigned, index))
			drawTile(img, tile, palette, tx*tileSize, ty*tileSize)
		}
	}

	drawViewport(img, bus.Read(addr.SCX), bus.Read(addr.SCY))

	return bmp.Encode(w, img)
}

// ExportSprites writes the tile of every OAM entry as an 8x8 BMP named
// sprite_NN.bmp in dir, colored through the entry's palette.
func ExportSprites(bus Reader, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	for _, s := range video.ReadSprites(bus) {
		img := image.NewPaletted(image.Rect(0, 0, tileSize, tileSize), exportPalette)
		tile := video.FetchTile(bus, video.TileDataAddress(true, s.Tile))
		drawTile(img, tile, bus.Read(s.Palette()), 0, 0)

		path := filepath.Join(dir, fmt.Sprintf("sprite_%02d.bmp", s.Index))
		if err := writeBMP(path, img); err != nil {
			return err
		}
	}

	return nil
}

// Export writes background.bmp and the sprite tiles into dir.
func Export(bus Reader, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "background.bmp"))
	if err != nil {
		return fmt.Errorf("creating background export: %w", err)
	}
	defer f.Close()

	if err := ExportBackground(bus, f); err != nil {
		return fmt.Errorf("encoding background: %w", err)
	}
	if err := ExportSprites(bus, dir); err != nil {
		return err
	}

	slog.Info("VRAM exported", "dir", dir)
	return nil
}

// SaveFrame writes a finished frame as dir/name.bmp and returns the path.
func SaveFrame(frame *video.Frame, dir, name string) (string, error) {
	img := image.NewPaletted(image.Rect(0, 0, video.Width, video.Height), exportPalette)
	for y := range frame {
		for x, c := range frame[y] {
			img.SetColorIndex(x, y, uint8(c.Level()))
		}
	}

	path := filepath.Join(dir, name+".bmp")
	if err := writeBMP(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func drawTile(img *image.Paletted, tile video.Tile, palette uint8, left, top int) {
	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			shade := video.Shade(palette, tile.Pixel(x, y))
			img.SetColorIndex(left+x, top+y, uint8(shade.Level()))
		}
	}
}

// drawViewport outlines the visible screen, wrapping at the map edges like
// the scroll registers do.
func drawViewport(img *image.Paletted, scx, scy uint8) {
	for x := 0; x < video.Width; x++ {
		column := int(scx + uint8(x))
		img.SetColorIndex(column, int(scy), viewportIndex)
		img.SetColorIndex(column, int(scy+video.Height-1), viewportIndex)
	}
	for y := 0; y < video.Height; y++ {
		row := int(scy + uint8(y))
		img.SetColorIndex(int(scx), row, viewportIndex)
		img.SetColorIndex(int(scx+video.Width-1), row, viewportIndex)
	}
}

func writeBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := bmp.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
