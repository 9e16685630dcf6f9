package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dmg/dmg/addr"
)

type testBus [0x10000]byte

func (b *testBus) Read(address uint16) byte { return b[address] }

type irqRecorder struct {
	requested []addr.Interrupt
}

func (r *irqRecorder) Request(i addr.Interrupt) {
	r.requested = append(r.requested, i)
}

func (r *irqRecorder) count(i addr.Interrupt) int {
	n := 0
	for _, req := range r.requested {
		if req == i {
			n++
		}
	}
	return n
}

type lineRecorder struct {
	lines  []int
	frames int
}

func (l *lineRecorder) Scanline(y int, _ Scanline) { l.lines = append(l.lines, y) }
func (l *lineRecorder) FrameDone()                 { l.frames++ }

func newTestPPU(lcdc byte) (*PPU, *testBus, *irqRecorder) {
	bus := &testBus{}
	bus[addr.LCDC] = lcdc
	bus[addr.BGP] = 0xE4
	bus[addr.OBP0] = 0xE4
	bus[addr.OBP1] = 0x1B
	irq := &irqRecorder{}
	return New(bus, irq, nil), bus, irq
}

func TestPPU_frameTiming(t *testing.T) {
	assert.Equal(t, 70224, FrameCycles)
	assert.Equal(t, 144*(80+172+204)+10*456, FrameCycles)

	testCases := []struct {
		desc string
		step int
	}{
		{desc: "4 cycle steps", step: 4},
		{desc: "24 cycle steps", step: 24},
		{desc: "12 cycle steps", step: 12},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			ppu, _, irq := newTestPPU(0x91)
			sink := &lineRecorder{}
			ppu.sink = sink

			for elapsed := 0; elapsed < FrameCycles-tC.step; elapsed += tC.step {
				ppu.Step(tC.step)
			}
			assert.Equal(t, 1, sink.frames, "published when vblank starts")
			assert.Equal(t, uint8(lastLine), ppu.LY())
			assert.Equal(t, VBlank, ppu.Mode())

			ppu.Step(tC.step)

			assert.Equal(t, 1, sink.frames)
			assert.Len(t, sink.lines, Height)
			assert.Equal(t, 0, sink.lines[0])
			assert.Equal(t, Height-1, sink.lines[Height-1])
			assert.Equal(t, 1, irq.count(addr.VBlankInterrupt))
			assert.Equal(t, uint8(0), ppu.LY())
			assert.Equal(t, OAMScan, ppu.Mode())
			assert.Equal(t, 0, ppu.clock)
		})
	}
}

func TestPPU_modeSequence(t *testing.T) {
	ppu, _, _ := newTestPPU(0x91)

	assert.Equal(t, OAMScan, ppu.Mode())
	ppu.Step(80)
	assert.Equal(t, Transfer, ppu.Mode())
	ppu.Step(172)
	assert.Equal(t, HBlank, ppu.Mode())
	ppu.Step(200)
	assert.Equal(t, HBlank, ppu.Mode())
	ppu.Step(4)
	assert.Equal(t, OAMScan, ppu.Mode())
	assert.Equal(t, uint8(1), ppu.LY())

	for ppu.LY() < Height {
		ppu.Step(4)
	}
	assert.Equal(t, VBlank, ppu.Mode())
	assert.Equal(t, uint8(Height), ppu.LY())

	ppu.Step(ScanlineCycles)
	assert.Equal(t, uint8(Height+1), ppu.LY())
}

func TestPPU_displayOffEmitsNothing(t *testing.T) {
	ppu, _, irq := newTestPPU(0x11)
	sink := &lineRecorder{}
	ppu.sink = sink

	for i := 0; i < FrameCycles/4; i++ {
		ppu.Step(4)
	}

	assert.Empty(t, sink.lines)
	assert.Equal(t, 1, sink.frames)
	assert.Equal(t, 1, irq.count(addr.VBlankInterrupt))
}

func TestPPU_registers(t *testing.T) {
	t.Run("STAT reports mode and coincidence", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x91)

		assert.Equal(t, byte(0x86), ppu.Read(addr.STAT))

		bus[addr.LYC] = 3
		assert.Equal(t, byte(0x82), ppu.Read(addr.STAT))

		ppu.Step(80)
		assert.Equal(t, byte(0x83), ppu.Read(addr.STAT))
	})

	t.Run("only the source bits of STAT are writable", func(t *testing.T) {
		ppu, _, _ := newTestPPU(0x91)
		ppu.Write(addr.STAT, 0xFF)
		assert.Equal(t, byte(0xFE), ppu.Read(addr.STAT))
		ppu.Write(addr.STAT, 0x00)
		assert.Equal(t, byte(0x86), ppu.Read(addr.STAT))
	})

	t.Run("writing LY resets it", func(t *testing.T) {
		ppu, _, _ := newTestPPU(0x91)
		ppu.ly = 50
		ppu.Write(addr.LY, 0x99)
		assert.Equal(t, byte(0), ppu.Read(addr.LY))
	})
}

func TestPPU_statInterrupts(t *testing.T) {
	testCases := []struct {
		desc   string
		stat   byte
		lyc    byte
		cycles int
		want   int
	}{
		{desc: "no sources", stat: 0x00, cycles: ScanlineCycles * 3, want: 0},
		{desc: "hblank source fires every line", stat: 0x08, cycles: ScanlineCycles * 3, want: 3},
		{desc: "oam source fires on every new line", stat: 0x20, cycles: ScanlineCycles * 3, want: 3},
		{desc: "lyc source fires on the matching line", stat: 0x40, lyc: 2, cycles: ScanlineCycles * 3, want: 1},
		{desc: "vblank source", stat: 0x10, cycles: ScanlineCycles * Height, want: 1},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			ppu, bus, irq := newTestPPU(0x91)
			bus[addr.LYC] = tC.lyc
			ppu.Write(addr.STAT, tC.stat)

			for i := 0; i < tC.cycles/4; i++ {
				ppu.Step(4)
			}

			assert.Equal(t, tC.want, irq.count(addr.LCDSTATInterrupt))
		})
	}
}

// fillTile writes the same low/high pair into all 8 rows of the tile at base.
func fillTile(bus *testBus, base uint16, low, high byte) {
	for row := uint16(0); row < 8; row++ {
		bus[base+row*2] = low
		bus[base+row*2+1] = high
	}
}

func composeLine(ppu *PPU, ly uint8) Scanline {
	ppu.ly = ly
	ppu.compose()
	return ppu.line
}

func TestTileDataAddress(t *testing.T) {
	testCases := []struct {
		desc     string
		unsigned bool
		tile     uint8
		want     uint16
	}{
		{desc: "unsigned 0", unsigned: true, tile: 0x00, want: 0x8000},
		{desc: "unsigned 255", unsigned: true, tile: 0xFF, want: 0x8FF0},
		{desc: "signed 0", tile: 0x00, want: 0x9000},
		{desc: "signed 127", tile: 0x7F, want: 0x97F0},
		{desc: "signed -1", tile: 0xFF, want: 0x8FF0},
		{desc: "signed -128", tile: 0x80, want: 0x8800},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, TileDataAddress(tC.unsigned, tC.tile))
		})
	}
}

func TestTileRow(t *testing.T) {
	row := TileRow{Low: 0x3C, High: 0x7E}
	want := []uint8{0, 2, 3, 3, 3, 3, 2, 0}
	for x, w := range want {
		assert.Equal(t, w, row.Pixel(x, false), "pixel %d", x)
	}

	flip := TileRow{Low: 0x80, High: 0x01}
	assert.Equal(t, uint8(1), flip.Pixel(0, false))
	assert.Equal(t, uint8(2), flip.Pixel(0, true))
	assert.Equal(t, uint8(1), flip.Pixel(7, true))
}

func TestShade(t *testing.T) {
	assert.Equal(t, White, Shade(0xE4, 0))
	assert.Equal(t, LightGray, Shade(0xE4, 1))
	assert.Equal(t, DarkGray, Shade(0xE4, 2))
	assert.Equal(t, Black, Shade(0xE4, 3))
	assert.Equal(t, Black, Shade(0x1B, 0))
	assert.Equal(t, 2, DarkGray.Level())

	r, g, b, a := LightGray.RGBA()
	assert.Equal(t, uint32(0xA8A8), r)
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestPPU_background(t *testing.T) {
	t.Run("unsigned tiles", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x91)
		bus[addr.TileMap0] = 1
		fillTile(bus, 0x8010, 0xF0, 0x0F)

		line := composeLine(ppu, 0)
		assert.Equal(t, LightGray, line[0])
		assert.Equal(t, LightGray, line[3])
		assert.Equal(t, DarkGray, line[4])
		assert.Equal(t, DarkGray, line[7])
		assert.Equal(t, White, line[8])
	})

	t.Run("signed tiles", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x81)
		bus[addr.TileMap0] = 0xFF
		bus[addr.TileMap0+1] = 0x00
		fillTile(bus, 0x8FF0, 0xFF, 0xFF)
		fillTile(bus, 0x9000, 0xFF, 0x00)

		line := composeLine(ppu, 0)
		assert.Equal(t, Black, line[0])
		assert.Equal(t, LightGray, line[8])
	})

	t.Run("second tile map", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x99)
		bus[addr.TileMap1] = 1
		fillTile(bus, 0x8010, 0xFF, 0xFF)

		assert.Equal(t, Black, composeLine(ppu, 0)[0])
	})

	t.Run("palette is applied", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x91)
		bus[addr.BGP] = 0x1B

		assert.Equal(t, Black, composeLine(ppu, 0)[0])
	})

	t.Run("disabled background stays white", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x90)
		bus[addr.TileMap0] = 1
		fillTile(bus, 0x8010, 0xFF, 0xFF)

		assert.Equal(t, White, composeLine(ppu, 0)[0])
	})
}

func TestPPU_scrollWraps(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x91)
		bus[addr.SCX] = 252
		bus[addr.TileMap0+31] = 1
		fillTile(bus, 0x8010, 0xFF, 0xFF)

		line := composeLine(ppu, 0)
		assert.Equal(t, Black, line[0])
		assert.Equal(t, Black, line[3])
		assert.Equal(t, White, line[4])
	})

	t.Run("vertical", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0x91)
		bus[addr.SCY] = 255
		bus[addr.TileMap0] = 1
		bus[addr.TileMap0+31*32] = 2
		fillTile(bus, 0x8010, 0xFF, 0xFF)
		fillTile(bus, 0x8020, 0xFF, 0x00)

		assert.Equal(t, LightGray, composeLine(ppu, 0)[0])
		assert.Equal(t, Black, composeLine(ppu, 1)[0])
	})
}

func TestPPU_window(t *testing.T) {
	ppu, bus, _ := newTestPPU(0xF1)
	bus[addr.WY] = 10
	bus[addr.WX] = 87
	bus[addr.TileMap1] = 1
	fillTile(bus, 0x8010, 0xFF, 0xFF)

	line := composeLine(ppu, 9)
	assert.Equal(t, White, line[80], "above WY")

	line = composeLine(ppu, 10)
	assert.Equal(t, White, line[79])
	assert.Equal(t, Black, line[80])
	assert.Equal(t, Black, line[87])
	assert.Equal(t, White, line[88])

	t.Run("needs the background bit", func(t *testing.T) {
		testCases := []struct {
			desc string
			lcdc byte
			want Color
		}{
			{desc: "window and background enabled", lcdc: 0xF1, want: Black},
			{desc: "window enabled, background disabled", lcdc: 0xF0, want: White},
			{desc: "window disabled, background enabled", lcdc: 0xD1, want: White},
		}
		for _, tC := range testCases {
			t.Run(tC.desc, func(t *testing.T) {
				ppu, bus, _ := newTestPPU(tC.lcdc)
				bus[addr.WX] = 7
				bus[addr.TileMap1] = 1
				fillTile(bus, 0x8010, 0xFF, 0xFF)

				assert.Equal(t, tC.want, composeLine(ppu, 0)[0])
			})
		}
	})

	t.Run("WX below 7 starts off screen", func(t *testing.T) {
		ppu, bus, _ := newTestPPU(0xF1)
		bus[addr.WX] = 3
		bus[addr.TileMap1] = 1
		bus[addr.TileMap1+1] = 2
		fillTile(bus, 0x8010, 0xFF, 0xFF)
		fillTile(bus, 0x8020, 0xFF, 0x00)

		line := composeLine(ppu, 0)
		assert.Equal(t, Black, line[3])
		assert.Equal(t, LightGray, line[4])
	})
}

// placeSprite writes OAM entry index with screen coordinates.
func placeSprite(bus *testBus, index, x, y int, tile, attributes byte) {
	base := addr.OAMStart + uint16(index*4)
	bus[base] = byte(y + 16)
	bus[base+1] = byte(x + 8)
	bus[base+2] = tile
	bus[base+3] = attributes
}

func TestPPU_sprites(t *testing.T) {
	testCases := []struct {
		desc       string
		lcdc       byte
		obp0       byte
		attributes byte
		ly         uint8
		want       map[int]Color
	}{
		{
			desc: "plain", lcdc: 0x93, obp0: 0xE4,
			want: map[int]Color{9: White, 10: LightGray, 11: White, 17: White},
		},
		{
			desc: "horizontal flip", lcdc: 0x93, obp0: 0xE4, attributes: 0x20,
			want: map[int]Color{10: White, 17: LightGray},
		},
		{
			desc: "second palette", lcdc: 0x93, obp0: 0xE4, attributes: 0x10,
			want: map[int]Color{10: DarkGray, 11: White},
		},
		{
			desc: "vertical flip reads the last row", lcdc: 0x93, obp0: 0xE4, attributes: 0x40,
			want: map[int]Color{10: DarkGray, 11: DarkGray},
		},
		{
			desc: "priority bit draws color 0", lcdc: 0x93, obp0: 0xE7, attributes: 0x80,
			want: map[int]Color{10: LightGray, 11: Black},
		},
		{
			desc: "disabled sprites", lcdc: 0x91, obp0: 0xE4,
			want: map[int]Color{10: White},
		},
		{
			desc: "tall sprite uses the odd tile for the lower half", lcdc: 0x97, obp0: 0xE4, ly: 8,
			want: map[int]Color{10: Black, 11: Black},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			ppu, bus, _ := newTestPPU(tC.lcdc)
			bus[addr.OBP0] = tC.obp0
			placeSprite(bus, 0, 10, 0, 2, tC.attributes)

			// tile 2: only the top left pixel set, last row solid color 2
			bus[0x8020] = 0x80
			bus[0x802E] = 0x00
			bus[0x802F] = 0xFF
			// tile 3 solid color 3
			fillTile(bus, 0x8030, 0xFF, 0xFF)

			line := composeLine(ppu, tC.ly)
			for x, want := range tC.want {
				assert.Equal(t, want, line[x], "x=%d", x)
			}
		})
	}
}

func TestPPU_spriteClipping(t *testing.T) {
	ppu, bus, _ := newTestPPU(0x93)
	fillTile(bus, 0x8010, 0xFF, 0xFF)
	placeSprite(bus, 0, -4, 0, 1, 0)
	placeSprite(bus, 1, 156, 0, 1, 0)

	line := composeLine(ppu, 0)
	assert.Equal(t, Black, line[0])
	assert.Equal(t, Black, line[3])
	assert.Equal(t, White, line[4])
	assert.Equal(t, Black, line[159])
}

func TestPPU_spriteLimit(t *testing.T) {
	setup := func(limit bool) (*PPU, *testBus) {
		ppu, bus, _ := newTestPPU(0x93)
		ppu.SetSpriteLimit(limit)
		fillTile(bus, 0x8010, 0xFF, 0xFF) // tile 1: color 3
		fillTile(bus, 0x8040, 0xFF, 0x00) // tile 4: color 1
		bus[0x8020] = 0x80                // tile 2: only the leftmost pixel
		return ppu, bus
	}

	t.Run("at most 10 sprites per line", func(t *testing.T) {
		for _, limit := range []bool{false, true} {
			ppu, bus := setup(limit)
			for i := 0; i < 11; i++ {
				placeSprite(bus, i, i*8, 0, 1, 0)
			}

			line := composeLine(ppu, 0)
			assert.Equal(t, Black, line[72])
			if limit {
				assert.Equal(t, White, line[80], "the 11th sprite is dropped")
			} else {
				assert.Equal(t, Black, line[80])
			}
		}
	})

	t.Run("lower X wins overlaps", func(t *testing.T) {
		for _, limit := range []bool{false, true} {
			ppu, bus := setup(limit)
			placeSprite(bus, 0, 16, 0, 4, 0)
			placeSprite(bus, 1, 20, 0, 1, 0)

			line := composeLine(ppu, 0)
			assert.Equal(t, LightGray, line[16])
			assert.Equal(t, Black, line[24])
			if limit {
				assert.Equal(t, LightGray, line[20])
			} else {
				assert.Equal(t, Black, line[20], "later OAM entries draw over")
			}
		}
	})

	t.Run("equal X goes to the lower OAM index", func(t *testing.T) {
		ppu, bus := setup(true)
		placeSprite(bus, 0, 16, 0, 4, 0)
		placeSprite(bus, 1, 16, 0, 1, 0)

		assert.Equal(t, LightGray, composeLine(ppu, 0)[16])
	})

	t.Run("color 0 lets the next sprite through", func(t *testing.T) {
		ppu, bus := setup(true)
		placeSprite(bus, 0, 16, 0, 2, 0)
		placeSprite(bus, 1, 16, 0, 1, 0)

		line := composeLine(ppu, 0)
		assert.Equal(t, LightGray, line[16])
		assert.Equal(t, Black, line[17])
	})

	t.Run("background priority hides behind colors 1-3", func(t *testing.T) {
		ppu, bus := setup(true)
		bus[addr.TileMap0] = 4
		placeSprite(bus, 0, 0, 0, 1, 0x80)
		placeSprite(bus, 1, 8, 0, 1, 0x80)

		line := composeLine(ppu, 0)
		assert.Equal(t, LightGray, line[0])
		assert.Equal(t, Black, line[8])
	})
}

func TestPPU_layers(t *testing.T) {
	ppu, bus, _ := newTestPPU(0xF3)
	bus[addr.TileMap0] = 1
	bus[addr.WX] = 87
	bus[addr.TileMap1] = 1
	fillTile(bus, 0x8010, 0xFF, 0xFF)
	fillTile(bus, 0x8040, 0xFF, 0x00)
	placeSprite(bus, 0, 40, 0, 4, 0)

	line := composeLine(ppu, 0)
	require.Equal(t, Black, line[0])
	require.Equal(t, LightGray, line[40])
	require.Equal(t, Black, line[80])

	ppu.SetLayers(AllLayers.Toggle(LayerBackground))
	line = composeLine(ppu, 0)
	assert.Equal(t, White, line[0])
	assert.Equal(t, LightGray, line[40])
	assert.Equal(t, Black, line[80])

	ppu.SetLayers(LayerBackground)
	line = composeLine(ppu, 0)
	assert.Equal(t, Black, line[0])
	assert.Equal(t, White, line[40])
	assert.Equal(t, White, line[80], "background shows where the window was")

	assert.Equal(t, "window+sprites", AllLayers.Toggle(LayerBackground).String())
	assert.Equal(t, "none", Layers(0).String())
}

func TestFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer()
	var line Scanline
	for x := range line {
		line[x] = Black
	}

	fb.Scanline(5, line)
	fb.Scanline(Height, line)
	assert.Equal(t, White, fb.Pixel(0, 5), "not published before FrameDone")

	fb.FrameDone()
	assert.Equal(t, Black, fb.Pixel(0, 5))
	assert.Equal(t, White, fb.Pixel(0, 4))
	assert.Equal(t, uint64(1), fb.Frames())
	assert.Equal(t, Black, fb.Frame()[5][159])
}
