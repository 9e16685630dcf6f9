package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptVector(t *testing.T) {
	testCases := []struct {
		desc   string
		source Interrupt
		vector uint16
	}{
		{desc: "vblank", source: VBlankInterrupt, vector: 0x40},
		{desc: "lcdstat", source: LCDSTATInterrupt, vector: 0x48},
		{desc: "timer", source: TimerInterrupt, vector: 0x50},
		{desc: "serial", source: SerialInterrupt, vector: 0x58},
		{desc: "joypad", source: JoypadInterrupt, vector: 0x60},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.vector, tC.source.Vector())
			assert.Equal(t, tC.desc, tC.source.String())
		})
	}
}
