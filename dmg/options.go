package dmg

import (
	"io"

	"github.com/valerio/go-dmg/dmg/video"
)

// Option configures a Machine.
type Option func(*config)

type config struct {
	sink         video.ScanlineSink
	input        InputSource
	spriteLimit  bool
	diagnostics  Diagnostics
	serialOutput io.Writer
}

// WithSink sets where finished scanlines go. A sink that also implements
// video.FrameSink is told when each frame completes.
func WithSink(sink video.ScanlineSink) Option {
	return func(c *config) { c.sink = sink }
}

// WithInput sets the button sampler read once per step.
func WithInput(input InputSource) Option {
	return func(c *config) { c.input = input }
}

// WithSpriteLimit enables the 10 sprites per line cap and hardware overlap priority.
func WithSpriteLimit(enabled bool) Option {
	return func(c *config) { c.spriteLimit = enabled }
}

// WithDiagnostics installs a hook called before every executed instruction.
func WithDiagnostics(d Diagnostics) Option {
	return func(c *config) { c.diagnostics = d }
}

// WithSerialOutput copies every byte sent over the link port to w.
func WithSerialOutput(w io.Writer) Option {
	return func(c *config) { c.serialOutput = w }
}
