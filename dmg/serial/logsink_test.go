package serial

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-dmg/dmg/addr"
)

type irqRecorder struct {
	requests []addr.Interrupt
}

func (r *irqRecorder) Request(i addr.Interrupt) { r.requests = append(r.requests, i) }

func send(s *LogSink, b byte) {
	s.Write(addr.SB, b)
	s.Write(addr.SC, 0x81)
}

func TestTransfer(t *testing.T) {
	irq := &irqRecorder{}
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s := NewLogSink(irq, WithOutput(&out), WithLogger(logger))

	for _, b := range []byte("ok\n") {
		send(s, b)
	}

	assert.Equal(t, "ok\n", out.String())
	assert.Len(t, irq.requests, 3)
	assert.Equal(t, addr.SerialInterrupt, irq.requests[0])
	assert.Contains(t, logs.String(), "line=ok")
	assert.Equal(t, byte(0xFF), s.Read(addr.SB))
	assert.Equal(t, byte(0x7F), s.Read(addr.SC), "start bit cleared after transfer")
}

func TestExternalClockDoesNotTransfer(t *testing.T) {
	irq := &irqRecorder{}
	s := NewLogSink(irq)

	s.Write(addr.SB, 'x')
	s.Write(addr.SC, 0x80)

	assert.Empty(t, irq.requests)
	assert.Equal(t, byte('x'), s.Read(addr.SB))
	assert.Equal(t, byte(0xFE), s.Read(addr.SC))
}

func TestFlushPartialLine(t *testing.T) {
	var logs bytes.Buffer
	s := NewLogSink(&irqRecorder{}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	send(s, 'h')
	send(s, 'i')
	assert.Empty(t, logs.String())

	s.Flush()
	assert.Contains(t, logs.String(), "line=hi")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestOutputErrorIsLogged(t *testing.T) {
	irq := &irqRecorder{}
	var logs bytes.Buffer
	s := NewLogSink(irq, WithOutput(failingWriter{}), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	send(s, 'x')

	assert.Contains(t, logs.String(), "serial output write failed")
	assert.Contains(t, logs.String(), "broken pipe")
	assert.Len(t, irq.requests, 1, "transfer still completes")
}
