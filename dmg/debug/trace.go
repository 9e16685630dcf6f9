// Package debug holds tools that observe a running machine from the
// outside: an instruction trace, frame fingerprints and VRAM exports.
package debug

import (
	"log/slog"

	"github.com/valerio/go-dmg/dmg/cpu"
)

// DefaultTraceSize is the number of instructions a Tracer keeps when asked for 0.
const DefaultTraceSize = 64

// Reader is the read side of the bus.
type Reader interface {
	Read(address uint16) byte
}

// TraceEntry is one executed instruction, with the bytes it was decoded
// from captured when it ran.
type TraceEntry struct {
	PC    uint16
	Bytes [3]byte
	Regs  cpu.Registers
}

// Text disassembles the entry.
func (e TraceEntry) Text() string {
	text, _ := cpu.Disassemble(entryBus(e), e.PC)
	return text
}

// entryBus serves the captured bytes at PC, PC+1 and PC+2 to the disassembler.
type entryBus TraceEntry

func (b entryBus) Read(address uint16) byte {
	offset := address - b.PC
	if offset < uint16(len(b.Bytes)) {
		return b.Bytes[offset]
	}
	return 0xFF
}

func (b entryBus) Write(uint16, byte) {}

// Tracer keeps the last instructions a machine executed in a fixed ring.
// It implements dmg.Diagnostics.
type Tracer struct {
	bus     Reader
	entries []TraceEntry
	next    int
	full    bool
}

func NewTracer(bus Reader, size int) *Tracer {
	if size <= 0 {
		size = DefaultTraceSize
	}
	return &Tracer{
		bus:     bus,
		entries: make([]TraceEntry, size),
	}
}

func (t *Tracer) TraceInstruction(pc uint16, opcode byte, regs cpu.Registers) {
	t.entries[t.next] = TraceEntry{
		PC:    pc,
		Bytes: [3]byte{opcode, t.bus.Read(pc + 1), t.bus.Read(pc + 2)},
		Regs:  regs,
	}
	t.next++
	if t.next == len(t.entries) {
		t.next = 0
		t.full = true
	}
}

// Entries returns the recorded instructions, oldest first.
func (t *Tracer) Entries() []TraceEntry {
	if !t.full {
		return append([]TraceEntry(nil), t.entries[:t.next]...)
	}
	out := make([]TraceEntry, 0, len(t.entries))
	out = append(out, t.entries[t.next:]...)
	return append(out, t.entries[:t.next]...)
}

// Dump writes the recorded instructions to the debug log, oldest first.
func (t *Tracer) Dump() {
	for _, e := range t.Entries() {
		slog.Debug("Trace",
			"pc", hex16(e.PC),
			"op", e.Text(),
			"regs", e.Regs.String())
	}
}
