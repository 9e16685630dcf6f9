package addr

// memory map
const (
	ROMBank0Start   uint16 = 0x0000
	ROMBankNStart   uint16 = 0x4000
	ROMBankNEnd     uint16 = 0x7FFF
	VRAMStart       uint16 = 0x8000
	ExtRAMStart     uint16 = 0xA000
	ExtRAMEnd       uint16 = 0xBFFF
	WRAMStart       uint16 = 0xC000
	EchoStart       uint16 = 0xE000
	EchoEnd         uint16 = 0xFDFF
	ProhibitedStart uint16 = 0xFEA0
	ProhibitedEnd   uint16 = 0xFEFF
	HRAMStart       uint16 = 0xFF80
	EchoDistance    uint16 = EchoStart - WRAMStart
)

// bank sizes
const (
	ROMBankSize    = 0x4000
	ExtRAMBankSize = 0x2000
)

// bank controller write windows
const (
	RAMEnableEnd   uint16 = 0x1FFF
	ROMBankLowEnd  uint16 = 0x3FFF
	ROMBankHighEnd uint16 = 0x5FFF
	ModeSelectEnd  uint16 = 0x7FFF
)

// lcd registers
const (
	// LCD Control register.
	LCDC uint16 = 0xFF40
	// LCD Status register.
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	// LY is read-only for programs, any write resets it.
	LY  uint16 = 0xFF44
	LYC uint16 = 0xFF45
	// DMA starts an OAM transfer from (value << 8).
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// sound registers, only written at power-on
const (
	NR10 uint16 = 0xFF10
	NR11 uint16 = 0xFF11
	NR12 uint16 = 0xFF12
	NR14 uint16 = 0xFF14
	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR24 uint16 = 0xFF19
	NR30 uint16 = 0xFF1A
	NR31 uint16 = 0xFF1B
	NR32 uint16 = 0xFF1C
	NR33 uint16 = 0xFF1E
	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23
	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26
)

// OAM holds 40 sprites, 4 bytes each.
const (
	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F
	OAMSize  uint16 = 160
)

// tile data and tile maps
const (
	// TileData0 is the base of unsigned tile addressing (tiles 0 to 255).
	TileData0 uint16 = 0x8000
	// TileData2 is tile 0 in signed addressing, negative tiles sit below it.
	TileData2 uint16 = 0x9000

	TileMap0 uint16 = 0x9800
	TileMap1 uint16 = 0x9C00
)

// interrupts
const (
	IF uint16 = 0xFF0F
	IE uint16 = 0xFFFF
)

// joypad
const (
	P1 uint16 = 0xFF00
)

// serial I/O
const (
	// SB holds the byte to shift out, and the received byte afterwards.
	SB uint16 = 0xFF01
	// SC bit 7 starts a transfer, bit 0 selects the internal clock.
	SC uint16 = 0xFF02
)

// timers
const (
	// DIV increments 16384 times/s, writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA raises the timer interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is loaded into TIMA on overflow.
	TMA uint16 = 0xFF06
	// TAC bit 2 enables TIMA, bits 1-0 select its frequency.
	TAC uint16 = 0xFF07
)

// Interrupt is one of the five interrupt sources, as its bit in IF/IE.
type Interrupt uint8

const (
	VBlankInterrupt  Interrupt = 1
	LCDSTATInterrupt Interrupt = 1 << 1
	TimerInterrupt   Interrupt = 1 << 2
	SerialInterrupt  Interrupt = 1 << 3
	JoypadInterrupt  Interrupt = 1 << 4
)

// InterruptMask covers the five implemented sources.
const InterruptMask uint8 = 0x1F

// Vector returns the handler address for the interrupt.
// Handlers are 8 bytes apart: 0x40, 0x48, 0x50, 0x58, 0x60.
func (i Interrupt) Vector() uint16 {
	v := uint16(0x40)
	for b := i; b > 1; b >>= 1 {
		v += 8
	}
	return v
}

func (i Interrupt) String() string {
	switch i {
	case VBlankInterrupt:
		return "vblank"
	case LCDSTATInterrupt:
		return "lcdstat"
	case TimerInterrupt:
		return "timer"
	case SerialInterrupt:
		return "serial"
	case JoypadInterrupt:
		return "joypad"
	default:
		return "unknown"
	}
}
