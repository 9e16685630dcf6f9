package memory

import "github.com/valerio/go-dmg/dmg/bit"

// Buttons is a set of pressed buttons, one bit each.
// The low nibble is the d-pad and the high nibble the action buttons,
// both in P1 bit order.
type Buttons uint8

const (
	ButtonRight Buttons = 1 << iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// Joypad is the P1 register. The program selects a group with bits 4-5
// (active low) and reads the pressed state of that group in bits 0-3,
// where 0 means pressed.
type Joypad struct {
	pressed Buttons
	// selected holds P1 bits 4-5 as last written.
	selected uint8
}

func NewJoypad() *Joypad {
	return &Joypad{selected: 0x30}
}

// Update replaces the pressed set and returns the buttons that went from
// released to pressed, and whether anything changed at all.
func (j *Joypad) Update(state Buttons) (newlyPressed Buttons, changed bool) {
	newlyPressed = state &^ j.pressed
	changed = state != j.pressed
	j.pressed = state
	return newlyPressed, changed
}

func (j *Joypad) Pressed() Buttons {
	return j.pressed
}

func (j *Joypad) Read() byte {
	nibble := byte(0x0F)
	if !bit.IsSet(4, j.selected) {
		nibble &^= byte(j.pressed) & 0x0F
	}
	if !bit.IsSet(5, j.selected) {
		nibble &^= byte(j.pressed>>4) & 0x0F
	}
	return 0xC0 | j.selected | nibble
}

func (j *Joypad) Write(value byte) {
	j.selected = value & 0x30
}
