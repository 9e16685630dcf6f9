package cpu

import (
	"fmt"

	"github.com/valerio/go-dmg/dmg/bit"
)

// Registers is a copy of the register file.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

func (r Registers) AF() uint16 { return bit.Combine(r.A, r.F) }
func (r Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r Registers) HL() uint16 { return bit.Combine(r.H, r.L) }

// Flags renders F as ZNHC, with '-' for clear bits.
func (r Registers) Flags() string {
	out := []byte("----")
	for i, f := range []Flag{zeroFlag, subFlag, halfCarryFlag, carryFlag} {
		if r.F&uint8(f) != 0 {
			out[i] = "ZNHC"[i]
		}
	}
	return string(out)
}

func (r Registers) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X %s",
		r.AF(), r.BC(), r.DE(), r.HL(), r.SP, r.PC, r.Flags())
}

// Registers returns a snapshot of the register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
	}
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	// the low nibble of F does not exist
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

// operand indexes as encoded in opcodes: B, C, D, E, H, L, (HL), A
const indirectHL = 6

var operandNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// readOperand reads the 8 bit operand encoded as index.
func (c *CPU) readOperand(index uint8) uint8 {
	switch index {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case indirectHL:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

// writeOperand writes the 8 bit operand encoded as index.
func (c *CPU) writeOperand(index, value uint8) {
	switch index {
	case 0:
		c.b = value
	case 1:
		c.c = value
	case 2:
		c.d = value
	case 3:
		c.e = value
	case 4:
		c.h = value
	case 5:
		c.l = value
	case indirectHL:
		c.bus.Write(c.getHL(), value)
	default:
		c.a = value
	}
}
