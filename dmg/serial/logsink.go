package serial

import (
	"io"
	"log/slog"

	"github.com/valerio/go-dmg/dmg/addr"
	"github.com/valerio/go-dmg/dmg/bit"
)

// Requester raises an interrupt.
type Requester interface {
	Request(i addr.Interrupt)
}

// LogSink is a link port with nothing plugged in. Outgoing bytes are
// logged a line at a time, incoming bytes always read 0xFF.
type LogSink struct {
	irq    Requester
	sb, sc byte
	logger *slog.Logger
	out    io.Writer

	line []byte
}

type LogSinkOption func(*LogSink)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) LogSinkOption {
	return func(s *LogSink) { s.logger = l }
}

// WithOutput copies every outgoing byte to w.
func WithOutput(w io.Writer) LogSinkOption {
	return func(s *LogSink) { s.out = w }
}

func NewLogSink(irq Requester, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		irq:    irq,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Read(address uint16) byte {
	if address == addr.SB {
		return s.sb
	}
	return s.sc | 0x7E
}

func (s *LogSink) Write(address uint16, value byte) {
	if address == addr.SB {
		s.sb = value
		return
	}

	s.sc = value
	// a transfer starts when both the start bit and the internal clock bit are set
	if bit.IsSet(7, s.sc) && bit.IsSet(0, s.sc) {
		s.transfer()
	}
}

// transfer completes at once, there is no peer to wait for.
func (s *LogSink) transfer() {
	b := s.sb
	if s.out != nil {
		if _, err := s.out.Write([]byte{b}); err != nil {
			s.logger.Warn("serial output write failed", "error", err)
		}
	}

	if b == 0 || b == '\n' || b == '\r' {
		s.Flush()
	} else {
		s.line = append(s.line, b)
	}

	s.sb = 0xFF
	s.sc = bit.Clear(7, s.sc)
	s.irq.Request(addr.SerialInterrupt)
}

// Flush logs any buffered partial line.
func (s *LogSink) Flush() {
	if len(s.line) == 0 {
		return
	}
	s.logger.Info("serial", "line", string(s.line))
	s.line = s.line[:0]
}
