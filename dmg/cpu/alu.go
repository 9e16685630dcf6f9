package cpu

import "github.com/valerio/go-dmg/dmg/bit"

// pushStack stores the high byte at SP-2 and the low byte at SP-1.
func (c *CPU) pushStack(value uint16) {
	c.bus.Write(c.sp-1, bit.Low(value))
	c.bus.Write(c.sp-2, bit.High(value))
	c.sp -= 2
}

// popStack reads a word stored by pushStack.
func (c *CPU) popStack() uint16 {
	high := c.bus.Read(c.sp)
	low := c.bus.Read(c.sp + 1)
	c.sp += 2
	return bit.Combine(high, low)
}

func (c *CPU) inc(value uint8) uint8 {
	result := value + 1
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0x0F == 0x0F)
	return result
}

func (c *CPU) dec(value uint8) uint8 {
	result := value - 1
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0x0F == 0x00)
	return result
}

// add adds value and an optional carry-in to A.
func (c *CPU) add(value, carry uint8) {
	a := c.a
	sum := uint16(a) + uint16(value) + uint16(carry)
	halfCarry := (a&0x0F)+(value&0x0F)+carry > 0x0F

	c.a = uint8(sum)
	c.setFlags(c.a == 0, false, halfCarry, sum > 0xFF)
}

func (c *CPU) adc(value uint8) {
	c.add(value, c.flagToBit(carryFlag))
}

// subtract computes A - value - carry and sets the flags, without storing the result.
func (c *CPU) subtract(value, carry uint8) uint8 {
	a := c.a
	diff := int(a) - int(value) - int(carry)
	halfBorrow := int(a&0x0F)-int(value&0x0F)-int(carry) < 0

	result := uint8(diff)
	c.setFlags(result == 0, true, halfBorrow, diff < 0)
	return result
}

func (c *CPU) sub(value uint8) {
	c.a = c.subtract(value, 0)
}

func (c *CPU) sbc(value uint8) {
	c.a = c.subtract(value, c.flagToBit(carryFlag))
}

func (c *CPU) cp(value uint8) {
	c.subtract(value, 0)
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlags(c.a == 0, false, true, false)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlags(c.a == 0, false, false, false)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlags(c.a == 0, false, false, false)
}

// addToHL adds a 16 bit value to HL. Z is left untouched.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	sum := uint32(hl) + uint32(value)

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (hl&0x0FFF)+(value&0x0FFF) > 0x0FFF)
	c.setFlagToCondition(carryFlag, sum > 0xFFFF)

	c.setHL(uint16(sum))
}

// offsetSP returns SP plus a signed offset. Carry and half carry come from
// the unsigned low byte of SP plus the operand byte, Z and N are cleared.
func (c *CPU) offsetSP(offset int8) uint16 {
	operand := uint16(uint8(offset))
	halfCarry := (c.sp&0x000F)+(operand&0x000F) > 0x000F
	carry := (c.sp&0x00FF)+operand > 0x00FF

	c.setFlags(false, false, halfCarry, carry)
	return c.sp + uint16(int16(offset))
}

// daa adjusts A to packed BCD after an add or a subtract, N tells which one.
func (c *CPU) daa() {
	a := c.a

	if !c.isSetFlag(subFlag) {
		if c.isSetFlag(carryFlag) || a > 0x99 {
			a += 0x60
			c.setFlag(carryFlag)
		}
		if c.isSetFlag(halfCarryFlag) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if c.isSetFlag(carryFlag) {
			a -= 0x60
		}
		if c.isSetFlag(halfCarryFlag) {
			a -= 0x06
		}
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) cpl() {
	c.a = ^c.a
	c.setFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) scf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlag(carryFlag)
}

func (c *CPU) ccf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.toggleFlag(carryFlag)
}

// shiftResult stores the flags shared by every rotate and shift.
func (c *CPU) shiftResult(result uint8, carry bool) uint8 {
	c.setFlags(result == 0, false, false, carry)
	return result
}

func (c *CPU) rlc(value uint8) uint8 {
	return c.shiftResult(value<<1|value>>7, value&0x80 != 0)
}

func (c *CPU) rrc(value uint8) uint8 {
	return c.shiftResult(value>>1|value<<7, value&0x01 != 0)
}

func (c *CPU) rl(value uint8) uint8 {
	return c.shiftResult(value<<1|c.flagToBit(carryFlag), value&0x80 != 0)
}

func (c *CPU) rr(value uint8) uint8 {
	return c.shiftResult(value>>1|c.flagToBit(carryFlag)<<7, value&0x01 != 0)
}

func (c *CPU) sla(value uint8) uint8 {
	return c.shiftResult(value<<1, value&0x80 != 0)
}

func (c *CPU) sra(value uint8) uint8 {
	return c.shiftResult(value>>1|value&0x80, value&0x01 != 0)
}

func (c *CPU) srl(value uint8) uint8 {
	return c.shiftResult(value>>1, value&0x01 != 0)
}

func (c *CPU) swap(value uint8) uint8 {
	return c.shiftResult(value<<4|value>>4, false)
}

// rotateA runs a rotate on A for the unprefixed RLCA/RRCA/RLA/RRA, which always clear Z.
func (c *CPU) rotateA(rotate func(*CPU, uint8) uint8) {
	c.a = rotate(c, c.a)
	c.resetFlag(zeroFlag)
}

func (c *CPU) testBit(index, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}
