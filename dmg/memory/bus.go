package memory

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/cartridge"
	"github.com/valerio/go-dmg/dmg/interrupt"
	"github.com/valerio/go-dmg/dmg/timer"
)

// Device is a register block the bus forwards a set of addresses to.
type Device interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Bus is the 64KB address space. Every access from the processor, the
// picture unit and DMA goes through Read and Write so that bank switching
// and register side effects apply.
type Bus struct {
	mbc        *MBC1
	joypad     *Joypad
	interrupts *interrupt.Controller
	timer      *timer.Timer
	serial     Device
	lcd        Device

	// memory backs VRAM, WRAM, OAM, the I/O registers not owned by a device, and HRAM.
	memory [0x10000]byte
}

// New wires the bus and writes the power-on register values.
// serial may be nil, in which case SB/SC are plain memory.
func New(cart *cartridge.Cartridge, ic *interrupt.Controller, tm *timer.Timer, serial Device) *Bus {
	b := &Bus{
		mbc:        NewMBC1(cart),
		joypad:     NewJoypad(),
		interrupts: ic,
		timer:      tm,
		serial:     serial,
	}
	b.powerOn()
	return b
}

// AttachLCD routes STAT and LY to the picture unit.
func (b *Bus) AttachLCD(lcd Device) {
	b.lcd = lcd
}

func (b *Bus) MBC() *MBC1 {
	return b.mbc
}

func (b *Bus) Joypad() *Joypad {
	return b.joypad
}

func (b *Bus) powerOn() {
	b.Write(addr.P1, 0xCF)
	b.Write(addr.TIMA, 0x00)
	b.Write(addr.TMA, 0x00)
	b.Write(addr.TAC, 0x00)
	b.Write(addr.NR10, 0x80)
	b.Write(addr.NR11, 0xBF)
	b.Write(addr.NR12, 0xF3)
	b.Write(addr.NR14, 0xBF)
	b.Write(addr.NR21, 0x3F)
	b.Write(addr.NR22, 0x00)
	b.Write(addr.NR24, 0xBF)
	b.Write(addr.NR30, 0x7F)
	b.Write(addr.NR31, 0xFF)
	b.Write(addr.NR32, 0x9F)
	b.Write(addr.NR33, 0xBF)
	b.Write(addr.NR41, 0xFF)
	b.Write(addr.NR42, 0x00)
	b.Write(addr.NR43, 0x00)
	b.Write(addr.NR44, 0xBF)
	b.Write(addr.NR50, 0x77)
	b.Write(addr.NR51, 0xF3)
	b.Write(addr.NR52, 0xF1)
	b.Write(addr.LCDC, 0x91)
	b.Write(addr.SCY, 0x00)
	b.Write(addr.SCX, 0x00)
	b.Write(addr.LYC, 0x00)
	b.Write(addr.BGP, 0xFC)
	b.Write(addr.OBP0, 0xFF)
	b.Write(addr.OBP1, 0xFF)
	b.Write(addr.WY, 0x00)
	b.Write(addr.WX, 0x00)
	b.Write(addr.IE, 0x00)
}

// canonical maps the echo region onto work RAM. Any other address is returned as is.
func canonical(address uint16) uint16 {
	if address >= addr.EchoStart && address <= addr.EchoEnd {
		return address - addr.EchoDistance
	}
	return address
}

func (b *Bus) Read(address uint16) byte {
	address = canonical(address)

	switch {
	case address <= addr.ROMBankNEnd:
		return b.mbc.Read(address)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		return b.mbc.Read(address)
	}

	switch address {
	case addr.P1:
		return b.joypad.Read()
	case addr.SB, addr.SC:
		if b.serial != nil {
			return b.serial.Read(address)
		}
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		return b.timer.Read(address)
	case addr.IF, addr.IE:
		return b.interrupts.Read(address)
	case addr.STAT, addr.LY:
		if b.lcd != nil {
			return b.lcd.Read(address)
		}
	}

	return b.memory[address]
}

func (b *Bus) Write(address uint16, value byte) {
	address = canonical(address)

	switch {
	case address <= addr.ROMBankNEnd:
		b.mbc.Write(address, value)
		return
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		b.mbc.Write(address, value)
		return
	case address >= addr.ProhibitedStart && address <= addr.ProhibitedEnd:
		return
	}

	switch address {
	case addr.P1:
		b.joypad.Write(value)
		return
	case addr.SB, addr.SC:
		if b.serial != nil {
			b.serial.Write(address, value)
			return
		}
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		b.timer.Write(address, value)
		return
	case addr.IF, addr.IE:
		b.interrupts.Write(address, value)
		return
	case addr.LY:
		if b.lcd != nil {
			b.lcd.Write(address, value)
			return
		}
		value = 0
	case addr.STAT:
		if b.lcd != nil {
			b.lcd.Write(address, value)
			return
		}
	case addr.DMA:
		b.memory[address] = value
		b.dma(value)
		return
	}

	b.memory[address] = value
}

// dma copies 160 bytes from (source << 8) into OAM.
func (b *Bus) dma(source byte) {
	base := uint16(source) << 8
	for i := uint16(0); i < addr.OAMSize; i++ {
		b.memory[addr.OAMStart+i] = b.Read(base + i)
	}
}
