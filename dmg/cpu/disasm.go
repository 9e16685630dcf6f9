package cpu

import (
	"fmt"
	"strings"
)

// Disassemble renders the instruction at pc with its operand filled in,
// and returns its length in bytes.
func Disassemble(bus Bus, pc uint16) (string, uint16) {
	opcode := bus.Read(pc)
	ins := opcodes[opcode]

	if opcode == 0xCB {
		return LookupCB(bus.Read(pc + 1)).Mnemonic, 2
	}

	text := ins.Mnemonic
	switch ins.Operand() {
	case OperandByte:
		text = strings.Replace(text, "n", fmt.Sprintf("$%02X", bus.Read(pc+1)), 1)
	case OperandWord:
		nn := uint16(bus.Read(pc+2))<<8 | uint16(bus.Read(pc+1))
		text = strings.Replace(text, "nn", fmt.Sprintf("$%04X", nn), 1)
	case OperandSigned:
		text = strings.Replace(text, "+e", "e", 1)
		text = strings.Replace(text, "e", fmt.Sprintf("%+d", int8(bus.Read(pc+1))), 1)
	}

	return text, 1 + ins.Operand().Width()
}
