package timer

import (
	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
)

// ClockSpeed is the master clock in cycles per second.
const ClockSpeed = 4194304

// divPeriod is the cycle count between DIV increments (16384 Hz).
const divPeriod = 256

// frequencies maps TAC bits 1-0 to the TIMA rate in Hz.
var frequencies = [4]int{4096, 262144, 65536, 16384}

// Requester raises an interrupt.
type Requester interface {
	Request(i addr.Interrupt)
}

// Timer holds DIV, TIMA, TMA and TAC along with the two cycle budgets
// that drive them.
type Timer struct {
	div  byte
	tima byte
	tma  byte
	tac  byte

	divCycles int
	// counter is the number of cycles left before TIMA increments.
	counter int

	irq Requester
}

func New(irq Requester) *Timer {
	t := &Timer{irq: irq}
	t.counter = t.period()
	return t
}

// period returns the TIMA increment period in cycles for the current TAC.
func (t *Timer) period() int {
	return ClockSpeed / frequencies[t.tac&0x03]
}

func (t *Timer) enabled() bool {
	return bit.IsSet(2, t.tac)
}

// Step advances DIV and, if enabled, TIMA by the given number of cycles.
func (t *Timer) Step(cycles int) {
	t.divCycles += cycles
	for t.divCycles >= divPeriod {
		t.divCycles -= divPeriod
		t.div++
	}

	if !t.enabled() {
		return
	}

	t.counter -= cycles
	for t.counter <= 0 {
		t.counter += t.period()
		t.increment()
	}
}

func (t *Timer) increment() {
	if t.tima == 0xFF {
		t.tima = t.tma
		t.irq.Request(addr.TimerInterrupt)
		return
	}
	t.tima++
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.div = 0
		t.divCycles = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		old := t.tac & 0x03
		t.tac = value & 0x07
		if old != t.tac&0x03 {
			t.counter = t.period()
		}
	}
}
