package video

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
)

// Mode is the picture unit phase, numbered as STAT bits 1-0 report it.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Transfer
)

func (m Mode) String() string {
	return [...]string{"hblank", "vblank", "oam", "transfer"}[m&3]
}

const (
	Width  = 160
	Height = 144

	oamCycles      = 80
	transferCycles = 172
	hblankCycles   = 204

	// ScanlineCycles is the length of every line, visible or not.
	ScanlineCycles = oamCycles + transferCycles + hblankCycles
	lastLine       = 153
	// FrameCycles is the length of a full frame, 144 visible and 10 blank lines.
	FrameCycles = ScanlineCycles * (lastLine + 1)
)

// LCDC bits.
const (
	lcdcBGEnable      = 0
	lcdcSpriteEnable  = 1
	lcdcBGMap         = 3
	lcdcUnsignedTiles = 4
	lcdcWindowEnable  = 5
	lcdcWindowMap     = 6
	lcdcDisplayEnable = 7
)

// STAT bits.
const (
	statCoincidence    = 2
	statHBlankSource   = 3
	statVBlankSource   = 4
	statOAMSource      = 5
	statLYCSource      = 6
	statWritable uint8 = 0x78
)

// Bus is what the picture unit reads VRAM, OAM and the LCD registers through.
type Bus interface {
	Read(address uint16) byte
}

// Requester raises an interrupt.
type Requester interface {
	Request(i addr.Interrupt)
}

// PPU runs the per line mode machine, composes each line when pixel
// transfer starts and hands it to the sink when transfer ends.
// It owns LY and STAT, the bus forwards both registers here.
type PPU struct {
	bus  Bus
	irq  Requester
	sink ScanlineSink

	mode  Mode
	clock int
	ly    uint8
	stat  uint8

	line     Scanline
	bgIndex  [Width]uint8
	priority priorityBuffer

	layers      Layers
	spriteLimit bool
}

// New returns a picture unit at the start of line 0. sink may be nil.
func New(bus Bus, irq Requester, sink ScanlineSink) *PPU {
	return &PPU{
		bus:    bus,
		irq:    irq,
		sink:   sink,
		mode:   OAMScan,
		layers: AllLayers,
	}
}

// SetLayers selects which planes are composed.
func (p *PPU) SetLayers(l Layers) {
	p.layers = l
}

func (p *PPU) Layers() Layers {
	return p.layers
}

// SetSpriteLimit switches sprite selection to the hardware rules: 10 per
// line, X then OAM order priority, color 0 transparent.
func (p *PPU) SetSpriteLimit(enabled bool) {
	p.spriteLimit = enabled
}

func (p *PPU) Mode() Mode { return p.mode }
func (p *PPU) LY() uint8  { return p.ly }

// Step advances the mode machine by cycles. Leftover cycles past a phase
// boundary are kept so a frame is always exactly FrameCycles long.
func (p *PPU) Step(cycles int) {
	p.clock += cycles

	switch p.mode {
	case OAMScan:
		if p.clock >= oamCycles {
			p.clock -= oamCycles
			p.setMode(Transfer)
			p.compose()
		}
	case Transfer:
		if p.clock >= transferCycles {
			p.clock -= transferCycles
			p.setMode(HBlank)

			if bit.IsSet(lcdcDisplayEnable, p.bus.Read(addr.LCDC)) && p.sink != nil {
				p.sink.Scanline(int(p.ly), p.line)
			}
			p.statInterrupt(statHBlankSource)
		}
	case HBlank:
		if p.clock >= hblankCycles {
			p.clock -= hblankCycles
			p.setLine(p.ly + 1)

			if p.ly >= Height {
				p.setMode(VBlank)
				p.irq.Request(addr.VBlankInterrupt)
				p.statInterrupt(statVBlankSource)
				if fs, ok := p.sink.(FrameSink); ok {
					fs.FrameDone()
				}
			} else {
				p.setMode(OAMScan)
				p.statInterrupt(statOAMSource)
			}
		}
	case VBlank:
		if p.clock >= ScanlineCycles {
			p.clock -= ScanlineCycles

			if p.ly >= lastLine {
				p.setLine(0)
				p.setMode(OAMScan)
				p.statInterrupt(statOAMSource)
			} else {
				p.setLine(p.ly + 1)
			}
		}
	}
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
}

// setLine moves LY and raises the coincidence interrupt when it lands on LYC.
func (p *PPU) setLine(ly uint8) {
	p.ly = ly
	if p.coincidence() {
		p.statInterrupt(statLYCSource)
	}
}

func (p *PPU) coincidence() bool {
	return p.ly == p.bus.Read(addr.LYC)
}

// statInterrupt requests LCDSTAT if the given STAT source bit is enabled.
func (p *PPU) statInterrupt(source uint8) {
	if bit.IsSet(source, p.stat) {
		p.irq.Request(addr.LCDSTATInterrupt)
	}
}

// Read serves STAT and LY.
func (p *PPU) Read(address uint16) byte {
	switch address {
	case addr.LY:
		return p.ly
	case addr.STAT:
		value := 0x80 | p.stat&statWritable | uint8(p.mode)
		return bit.SetTo(statCoincidence, value, p.coincidence())
	}
	return 0xFF
}

// Write serves STAT, where only the interrupt source bits are writable,
// and LY, which any write resets to 0.
func (p *PPU) Write(address uint16, value byte) {
	switch address {
	case addr.LY:
		p.ly = 0
	case addr.STAT:
		p.stat = value & statWritable
	}
}
