// Package dmg wires the processor, the bus, the picture unit, the timer and
// the interrupt controller into a Machine and drives them one step at a time.
package dmg

import (
	"log/slog"

	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/cartridge"
	"github.com/valerio/go-dmg/dmg/cpu"
	"github.com/valerio/go-dmg/dmg/interrupt"
	"github.com/valerio/go-dmg/dmg/memory"
	"github.com/valerio/go-dmg/dmg/serial"
	"github.com/valerio/go-dmg/dmg/timer"
	"github.com/valerio/go-dmg/dmg/video"
)

// InputSource reports the buttons held down right now.
type InputSource interface {
	Buttons() memory.Buttons
}

// InputFunc adapts a function to InputSource.
type InputFunc func() memory.Buttons

func (f InputFunc) Buttons() memory.Buttons { return f() }

// Diagnostics observes execution without being part of it.
type Diagnostics interface {
	TraceInstruction(pc uint16, opcode byte, regs cpu.Registers)
}

// Machine owns every piece of emulated state. Nothing in it is shared, so
// independent machines can run side by side.
type Machine struct {
	cart       *cartridge.Cartridge
	cpu        *cpu.CPU
	bus        *memory.Bus
	interrupts *interrupt.Controller
	timer      *timer.Timer
	serial     *serial.LogSink
	ppu        *video.PPU

	input       InputSource
	diagnostics Diagnostics
	frame       *frameSignal
}

// New powers on a machine with cart inserted.
func New(cart *cartridge.Cartridge, opts ...Option) *Machine {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	slog.Info("Loaded cartridge",
		"title", cart.Header.Title,
		"type", cart.Header.Type.String(),
		"rom_size", cart.Header.ROMSize)
	if !cart.Header.Type.Supported() {
		slog.Warn("Unsupported cartridge type, running as MBC1", "type", cart.Header.Type.String())
	}

	ic := interrupt.New()
	tm := timer.New(ic)

	var serialOpts []serial.LogSinkOption
	if cfg.serialOutput != nil {
		serialOpts = append(serialOpts, serial.WithOutput(cfg.serialOutput))
	}
	link := serial.NewLogSink(ic, serialOpts...)

	bus := memory.New(cart, ic, tm, link)
	frame := &frameSignal{next: cfg.sink}
	ppu := video.New(bus, ic, frame)
	ppu.SetSpriteLimit(cfg.spriteLimit)
	bus.AttachLCD(ppu)

	return &Machine{
		cart:        cart,
		cpu:         cpu.New(bus, ic),
		bus:         bus,
		interrupts:  ic,
		timer:       tm,
		serial:      link,
		ppu:         ppu,
		input:       cfg.input,
		diagnostics: cfg.diagnostics,
		frame:       frame,
	}
}

// Step runs one tick: sample input, execute one instruction unless
// stopped, service interrupts, then advance the picture unit and the timer
// by the cycles spent. A staged EI/DI takes effect at the end of the tick.
// It returns the cycles the tick took.
func (m *Machine) Step() int {
	m.sampleInput()

	cycles := 0
	if !m.cpu.Stopped() {
		if m.diagnostics != nil && !m.cpu.Halted() {
			pc := m.cpu.PC()
			m.diagnostics.TraceInstruction(pc, m.bus.Read(pc), m.cpu.Registers())
		}
		cycles = m.cpu.Step()
	}

	cycles += m.interrupts.Service(m.cpu)
	m.ppu.Step(cycles)
	m.timer.Step(cycles)
	m.interrupts.Commit()

	return cycles
}

// sampleInput latches the host's buttons into P1. Any change ends STOP,
// and a newly pressed button raises the joypad interrupt.
func (m *Machine) sampleInput() {
	if m.input == nil {
		return
	}

	pressed, changed := m.bus.Joypad().Update(m.input.Buttons())
	if changed {
		m.cpu.Resume()
	}
	if pressed != 0 {
		m.interrupts.Request(addr.JoypadInterrupt)
	}
}

// RunFrame steps until the picture unit finishes a frame. It returns early
// when the processor is stopped, so the host keeps sampling input and can
// wake it.
func (m *Machine) RunFrame() {
	m.frame.done = false
	for !m.frame.done {
		m.Step()
		if m.cpu.Stopped() {
			return
		}
	}
}

// SetDiagnostics replaces the trace hook, nil removes it.
func (m *Machine) SetDiagnostics(d Diagnostics) {
	m.diagnostics = d
}

// SetLayers picks which planes the picture unit composes.
func (m *Machine) SetLayers(l video.Layers) {
	m.ppu.SetLayers(l)
}

func (m *Machine) Layers() video.Layers {
	return m.ppu.Layers()
}

// Frames returns the number of frames completed since power-on.
func (m *Machine) Frames() uint64 {
	return m.frame.count
}

func (m *Machine) CPU() *cpu.CPU                     { return m.cpu }
func (m *Machine) Bus() *memory.Bus                  { return m.bus }
func (m *Machine) PPU() *video.PPU                   { return m.ppu }
func (m *Machine) Interrupts() *interrupt.Controller { return m.interrupts }
func (m *Machine) Cartridge() *cartridge.Cartridge   { return m.cart }

// Close flushes a partial serial line to the log.
func (m *Machine) Close() {
	m.serial.Flush()
}

// frameSignal sits between the picture unit and the host sink to notice
// frame completion.
type frameSignal struct {
	next  video.ScanlineSink
	done  bool
	count uint64
}

func (f *frameSignal) Scanline(y int, pixels video.Scanline) {
	if f.next != nil {
		f.next.Scanline(y, pixels)
	}
}

func (f *frameSignal) FrameDone() {
	f.done = true
	f.count++
	if fs, ok := f.next.(video.FrameSink); ok {
		fs.FrameDone()
	}
}
