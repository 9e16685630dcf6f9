package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-dmg/dmg/addr"
)

type fakeCPU struct {
	calls []uint16
	woken int
}

func (f *fakeCPU) Call(vector uint16) { f.calls = append(f.calls, vector) }
func (f *fakeCPU) Wake()              { f.woken++ }

func TestServicePriority(t *testing.T) {
	testCases := []struct {
		desc       string
		enable     uint8
		requested  []addr.Interrupt
		wantVector uint16
		wantFlags  uint8
	}{
		{
			desc:       "vblank before timer",
			enable:     0x1F,
			requested:  []addr.Interrupt{addr.TimerInterrupt, addr.VBlankInterrupt},
			wantVector: 0x40,
			wantFlags:  uint8(addr.TimerInterrupt),
		},
		{
			desc:       "lcdstat before joypad",
			enable:     0x1F,
			requested:  []addr.Interrupt{addr.JoypadInterrupt, addr.LCDSTATInterrupt},
			wantVector: 0x48,
			wantFlags:  uint8(addr.JoypadInterrupt),
		},
		{
			desc:       "disabled vblank is skipped",
			enable:     uint8(addr.TimerInterrupt),
			requested:  []addr.Interrupt{addr.TimerInterrupt, addr.VBlankInterrupt},
			wantVector: 0x50,
			wantFlags:  uint8(addr.VBlankInterrupt),
		},
		{
			desc:       "serial",
			enable:     0x1F,
			requested:  []addr.Interrupt{addr.SerialInterrupt},
			wantVector: 0x58,
			wantFlags:  0,
		},
		{
			desc:       "joypad",
			enable:     0x1F,
			requested:  []addr.Interrupt{addr.JoypadInterrupt},
			wantVector: 0x60,
			wantFlags:  0,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := New()
			c.Write(addr.IE, tC.enable)
			for _, i := range tC.requested {
				c.Request(i)
			}

			cpu := &fakeCPU{}
			cycles := c.Service(cpu)

			assert.Equal(t, DispatchCycles, cycles)
			assert.Equal(t, []uint16{tC.wantVector}, cpu.calls)
			assert.Equal(t, 1, cpu.woken)
			assert.False(t, c.IME())
			assert.Equal(t, tC.wantFlags|0xE0, c.Read(addr.IF))
		})
	}
}

func TestServiceWithoutIME(t *testing.T) {
	c := New()
	c.StageDisable()
	c.Commit()
	c.Write(addr.IE, 0x01)
	c.Request(addr.VBlankInterrupt)

	cpu := &fakeCPU{}
	assert.Equal(t, 0, c.Service(cpu))
	assert.Empty(t, cpu.calls)
	assert.Equal(t, 1, cpu.woken, "pending interrupt wakes the cpu regardless of IME")
	assert.Equal(t, uint8(0x01), c.Pending())
}

func TestServiceNothingPending(t *testing.T) {
	c := New()
	c.Request(addr.TimerInterrupt)

	cpu := &fakeCPU{}
	assert.Equal(t, 0, c.Service(cpu))
	assert.Equal(t, 0, cpu.woken, "requested but not enabled")
}

func TestStagedIME(t *testing.T) {
	c := New()
	c.StageDisable()
	assert.True(t, c.IME(), "disable is not applied before commit")
	c.Commit()
	assert.False(t, c.IME())

	c.StageEnable()
	assert.False(t, c.IME())
	c.Commit()
	assert.True(t, c.IME())

	c.Commit()
	assert.True(t, c.IME(), "commit without a staged change keeps IME")

	c.StageDisable()
	c.Commit()
	c.EnableMaster()
	assert.True(t, c.IME())
}

func TestRegisters(t *testing.T) {
	c := New()
	c.Write(addr.IF, 0xFF)
	c.Write(addr.IE, 0xAB)
	assert.Equal(t, byte(0xFF), c.Read(addr.IF))
	assert.Equal(t, byte(0xAB), c.Read(addr.IE))
	assert.Equal(t, uint8(0x0B), c.Pending())

	c.Write(addr.IF, 0x00)
	assert.Equal(t, byte(0xE0), c.Read(addr.IF))
}
