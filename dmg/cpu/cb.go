package cpu

import "fmt"

// cbOpcodes is the table selected by the byte after 0xCB. The byte is
// decoded as xxyyyzzz: x picks the group, y the rotate kind or the bit
// number, z the target operand.
var cbOpcodes = buildCBOpcodes()

var rotations = [8]struct {
	name string
	fn   func(*CPU, uint8) uint8
}{
	{"RLC", (*CPU).rlc},
	{"RRC", (*CPU).rrc},
	{"RL", (*CPU).rl},
	{"RR", (*CPU).rr},
	{"SLA", (*CPU).sla},
	{"SRA", (*CPU).sra},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).srl},
}

func prefixCB(c *CPU, op uint8) int {
	return cbOpcodes[op].handler.execute(c)
}

func buildCBOpcodes() [256]Instruction {
	var t [256]Instruction

	for op := 0; op < 256; op++ {
		x, y, z := uint8(op>>6), uint8(op>>3)&7, uint8(op)&7
		target := operandNames[z]

		// register targets take 8 cycles, (HL) 16 or 12 for BIT
		cycles := 8
		if z == indirectHL {
			cycles = 16
		}

		var ins Instruction
		switch x {
		case 0:
			rotate := rotations[y].fn
			ins = Instruction{rotations[y].name + " " + target, implied(func(c *CPU) int {
				c.writeOperand(z, rotate(c, c.readOperand(z)))
				return cycles
			})}
		case 1:
			if z == indirectHL {
				cycles = 12
			}
			ins = Instruction{fmt.Sprintf("BIT %d,%s", y, target), implied(func(c *CPU) int {
				c.testBit(y, c.readOperand(z))
				return cycles
			})}
		case 2:
			ins = Instruction{fmt.Sprintf("RES %d,%s", y, target), implied(func(c *CPU) int {
				c.writeOperand(z, c.readOperand(z)&^(1<<y))
				return cycles
			})}
		default:
			ins = Instruction{fmt.Sprintf("SET %d,%s", y, target), implied(func(c *CPU) int {
				c.writeOperand(z, c.readOperand(z)|1<<y)
				return cycles
			})}
		}
		t[op] = ins
	}

	return t
}
