package memory

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/cartridge"
)

// ExtRAMSize is the external RAM reserved for every cartridge, four 8KB banks.
const ExtRAMSize = 0x8000

// openBus is returned by reads from disabled external RAM.
const openBus = 0xFF

// MBC1 is the bank controller, it serves 0x0000-0x7FFF and 0xA000-0xBFFF.
//   - ROM bank 0 is always mapped to 0x0000-0x3FFF
//   - 0x4000-0x7FFF shows the selected ROM bank, never bank 0
//   - 0xA000-0xBFFF shows the selected RAM bank while RAM is enabled
//   - mode 0 routes 0x4000-0x5FFF writes to ROM bank bits 5-6, mode 1 to the RAM bank
type MBC1 struct {
	cart *cartridge.Cartridge
	ram  [ExtRAMSize]byte

	romBank    uint8
	ramBank    uint8
	ramEnabled bool
	mode       uint8
}

func NewMBC1(cart *cartridge.Cartridge) *MBC1 {
	return &MBC1{
		cart:    cart,
		romBank: 1,
	}
}

// ROMBank returns the bank mapped at 0x4000-0x7FFF.
func (m *MBC1) ROMBank() uint8 {
	return m.romBank
}

// RAMBank returns the bank mapped at 0xA000-0xBFFF.
func (m *MBC1) RAMBank() uint8 {
	return m.ramBank
}

func (m *MBC1) RAMEnabled() bool {
	return m.ramEnabled
}

func (m *MBC1) Read(address uint16) byte {
	switch {
	case address < addr.ROMBankNStart:
		return m.cart.Read(int(address))
	case address <= addr.ROMBankNEnd:
		offset := int(m.romBank)*addr.ROMBankSize + int(address-addr.ROMBankNStart)
		return m.cart.Read(offset)
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if !m.ramEnabled {
			return openBus
		}
		return m.ram[m.ramOffset(address)]
	default:
		return openBus
	}
}

func (m *MBC1) Write(address uint16, value byte) {
	switch {
	case address <= addr.RAMEnableEnd:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= addr.ROMBankLowEnd:
		if value == 0 {
			value = 1
		}
		if value > 0x1F {
			return
		}
		m.romBank = m.romBank&0x60 | value
	case address <= addr.ROMBankHighEnd:
		if m.mode == 0 {
			m.romBank = m.romBank&0x1F | (value&0x03)<<5
			return
		}
		if value > 0x03 {
			return
		}
		m.ramBank = value
	case address <= addr.ModeSelectEnd:
		if value > 1 {
			return
		}
		m.mode = value
	case address >= addr.ExtRAMStart && address <= addr.ExtRAMEnd:
		if !m.ramEnabled {
			return
		}
		m.ram[m.ramOffset(address)] = value
	}
}

func (m *MBC1) ramOffset(address uint16) int {
	return int(m.ramBank)*addr.ExtRAMBankSize + int(address-addr.ExtRAMStart)
}
