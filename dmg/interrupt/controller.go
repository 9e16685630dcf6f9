package interrupt

import "github.com/valerio/go-dmg/dmg/addr"

// Cycles charged for dispatching to a handler.
const DispatchCycles = 12

// priority is the service order, highest first.
var priority = [...]addr.Interrupt{
	addr.VBlankInterrupt,
	addr.LCDSTATInterrupt,
	addr.TimerInterrupt,
	addr.SerialInterrupt,
	addr.JoypadInterrupt,
}

// Dispatcher is the processor side of a dispatch.
type Dispatcher interface {
	// Call pushes the program counter and jumps to vector.
	Call(vector uint16)
	// Wake leaves the halted state.
	Wake()
}

type stage uint8

const (
	stageNone stage = iota
	stageEnable
	stageDisable
)

// Controller owns IME, IE and IF. The bus routes 0xFF0F and 0xFFFF here,
// so there is a single copy of both registers.
type Controller struct {
	ime    bool
	enable uint8
	flags  uint8
	staged stage
}

// New returns a controller in its power-on state, with IME set.
func New() *Controller {
	return &Controller{ime: true}
}

// Request raises the pending flag of an interrupt source.
func (c *Controller) Request(i addr.Interrupt) {
	c.flags |= uint8(i)
}

// Pending returns the sources that are both enabled and requested.
func (c *Controller) Pending() uint8 {
	return c.enable & c.flags & addr.InterruptMask
}

// Service wakes the dispatcher on any pending source and, if IME is set,
// dispatches the highest priority one. It returns the cycles spent.
func (c *Controller) Service(d Dispatcher) int {
	pending := c.Pending()
	if pending == 0 {
		return 0
	}

	d.Wake()

	if !c.ime {
		return 0
	}

	for _, source := range priority {
		if pending&uint8(source) == 0 {
			continue
		}

		c.flags &^= uint8(source)
		c.ime = false
		d.Call(source.Vector())
		return DispatchCycles
	}

	return 0
}

// StageEnable schedules IME to be set once the current step completes.
func (c *Controller) StageEnable() {
	c.staged = stageEnable
}

// StageDisable schedules IME to be cleared once the current step completes.
func (c *Controller) StageDisable() {
	c.staged = stageDisable
}

// Commit applies a staged EI/DI. The step driver calls it at the end of every tick.
func (c *Controller) Commit() {
	switch c.staged {
	case stageEnable:
		c.ime = true
	case stageDisable:
		c.ime = false
	}
	c.staged = stageNone
}

// EnableMaster sets IME immediately, as RETI does.
func (c *Controller) EnableMaster() {
	c.ime = true
}

func (c *Controller) IME() bool {
	return c.ime
}

// Read returns IF or IE. Unused IF bits read as 1.
func (c *Controller) Read(address uint16) byte {
	if address == addr.IF {
		return c.flags | ^addr.InterruptMask
	}
	return c.enable
}

// Write stores IF or IE.
func (c *Controller) Write(address uint16, value byte) {
	if address == addr.IF {
		c.flags = value & addr.InterruptMask
		return
	}
	c.enable = value
}
