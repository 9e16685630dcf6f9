package cpu

// Operand is the shape of the bytes that follow an opcode.
type Operand uint8

const (
	OperandNone Operand = iota
	OperandByte
	OperandWord
	OperandSigned
)

// Width returns the number of operand bytes.
func (o Operand) Width() uint16 {
	switch o {
	case OperandByte, OperandSigned:
		return 1
	case OperandWord:
		return 2
	default:
		return 0
	}
}

// handler is implemented by the four handler shapes below, each one
// fetches exactly the operand its signature asks for.
type handler interface {
	operand() Operand
	execute(c *CPU) int
}

type implied func(*CPU) int
type immediate8 func(*CPU, uint8) int
type immediate16 func(*CPU, uint16) int
type relative func(*CPU, int8) int

func (implied) operand() Operand     { return OperandNone }
func (immediate8) operand() Operand  { return OperandByte }
func (immediate16) operand() Operand { return OperandWord }
func (relative) operand() Operand    { return OperandSigned }

func (f implied) execute(c *CPU) int     { return f(c) }
func (f immediate8) execute(c *CPU) int  { return f(c, c.fetch()) }
func (f immediate16) execute(c *CPU) int { return f(c, c.fetchWord()) }
func (f relative) execute(c *CPU) int    { return f(c, int8(c.fetch())) }

// Instruction is an entry of the opcode tables.
type Instruction struct {
	Mnemonic string
	handler  handler
}

// Operand returns the operand shape of the instruction.
func (i Instruction) Operand() Operand {
	return i.handler.operand()
}

// Lookup returns the unprefixed instruction for an opcode.
func Lookup(opcode uint8) Instruction {
	return opcodes[opcode]
}

// LookupCB returns the instruction selected by the byte following 0xCB.
func LookupCB(opcode uint8) Instruction {
	return cbOpcodes[opcode]
}
