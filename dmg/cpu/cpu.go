package cpu

import "github.com/valerio/go-dmg/dmg/bit"

// Bus is the address space as seen by the processor.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Interrupts is the part of the interrupt controller driven by EI, DI, RETI and HALT.
type Interrupts interface {
	IME() bool
	StageEnable()
	StageDisable()
	EnableMaster()
}

// haltedCycles is the cost of a step spent halted.
const haltedCycles = 4

// CPU is the LR35902 register file and execution state.
type CPU struct {
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	halted  bool
	stopped bool
	cycles  uint64

	bus        Bus
	interrupts Interrupts
}

// New returns a CPU with the register values left by the boot ROM.
func New(bus Bus, interrupts Interrupts) *CPU {
	cpu := &CPU{
		bus:        bus,
		interrupts: interrupts,
	}

	cpu.setAF(0x01B0)
	cpu.setBC(0x0013)
	cpu.setDE(0x00D8)
	cpu.setHL(0x014D)
	cpu.sp = 0xFFFE
	cpu.pc = 0x0100

	return cpu
}

// Step executes one instruction and returns the cycles it took.
// While halted it only burns 4 cycles. The caller is expected to skip
// Step entirely while the CPU is stopped.
//
// PC points at the opcode when the step starts, the operand fetch moves it
// onto the last operand byte, and the final increment moves it past the
// instruction. Handlers that branch set PC to target-1 to account for it.
func (c *CPU) Step() int {
	if c.halted {
		c.cycles += haltedCycles
		return haltedCycles
	}

	opcode := c.bus.Read(c.pc)
	cycles := opcodes[opcode].handler.execute(c)
	c.pc++

	c.cycles += uint64(cycles)
	return cycles
}

// fetch moves PC forward and returns the byte there.
func (c *CPU) fetch() uint8 {
	c.pc++
	return c.bus.Read(c.pc)
}

// fetchWord reads a little endian word following the opcode.
func (c *CPU) fetchWord() uint16 {
	low := c.fetch()
	high := c.fetch()
	return bit.Combine(high, low)
}

// Call pushes PC and jumps to vector. Used to dispatch interrupts
// between steps, so PC already points at the next instruction.
func (c *CPU) Call(vector uint16) {
	c.pushStack(c.pc)
	c.pc = vector
}

// Wake leaves the halted state.
func (c *CPU) Wake() {
	c.halted = false
}

// Resume leaves the stopped state, on a button change.
func (c *CPU) Resume() {
	c.stopped = false
}

func (c *CPU) Halted() bool   { return c.halted }
func (c *CPU) Stopped() bool  { return c.stopped }
func (c *CPU) PC() uint16     { return c.pc }
func (c *CPU) Cycles() uint64 { return c.cycles }

// jump sets PC so that the trailing increment of Step lands on target.
func (c *CPU) jump(target uint16) {
	c.pc = target - 1
}

// call pushes the address of the next instruction and jumps.
func (c *CPU) call(target uint16) {
	c.pushStack(c.pc + 1)
	c.jump(target)
}

func (c *CPU) ret() {
	c.jump(c.popStack())
}

// condition evaluates the cc field of conditional instructions: NZ, Z, NC, C.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.isSetFlag(zeroFlag)
	case 1:
		return c.isSetFlag(zeroFlag)
	case 2:
		return !c.isSetFlag(carryFlag)
	default:
		return c.isSetFlag(carryFlag)
	}
}
